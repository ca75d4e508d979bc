package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the futsim CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("futsim version %s\n", version)
		fmt.Println("A deterministic multi-market futures portfolio simulator")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
