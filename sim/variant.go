package sim

import (
	"errors"
	"fmt"
)

// ErrUnknownVariant is returned by ParseVariant for an unrecognized name.
var ErrUnknownVariant = errors.New("unknown variant")

// Variant selects the neighbor search used by a step.
type Variant uint8

const (
	VariantNaive     Variant = iota // Every pair, O(N²)
	VariantScattered                // Grid search through the permutation
	VariantCoherent                 // Grid search over reordered agent data
)

var variantNames = [...]string{
	VariantNaive:     "naive",
	VariantScattered: "scattered",
	VariantCoherent:  "coherent",
}

// Variants lists all variants in declaration order.
func Variants() []Variant {
	return []Variant{VariantNaive, VariantScattered, VariantCoherent}
}

func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return fmt.Sprintf("Variant(%d)", uint8(v))
}

// ParseVariant maps a config name to a Variant.
func ParseVariant(name string) (Variant, error) {
	for i, n := range variantNames {
		if n == name {
			return Variant(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}
