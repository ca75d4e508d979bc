package market

import (
	"fmt"
	"strings"
)

// Spec holds the static contract metadata for one futures market.
type Spec struct {
	Symbol string

	// Currency is the ISO code the contract trades in.
	Currency string

	// PointValue is the cash value of a one point move for one contract.
	PointValue float64

	// MarginRequirement is the cash margin posted per contract.
	MarginRequirement float64
}

// SpecTable looks up contract specifications by market name.
type SpecTable struct {
	specs map[string]Spec
}

func NewSpecTable(specs []Spec) *SpecTable {
	m := make(map[string]Spec, len(specs))
	for _, s := range specs {
		m[s.Symbol] = s
	}
	return &SpecTable{specs: m}
}

// Normalize strips the suffix used to disambiguate synthetic or
// alternate series of the same underlying ("GC_synth" -> "GC").
func Normalize(name string) string {
	if i := strings.Index(name, "_"); i >= 0 {
		return name[:i]
	}
	return name
}

// Lookup resolves the spec for a market name, normalizing first.
func (t *SpecTable) Lookup(name string) (Spec, error) {
	s, ok := t.specs[Normalize(name)]
	if !ok {
		return Spec{}, fmt.Errorf("no contract specification for market %q", name)
	}
	return s, nil
}

func (t *SpecTable) Len() int { return len(t.specs) }
