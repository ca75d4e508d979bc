package main

import (
	"os"

	"futsim/cmd/futsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
