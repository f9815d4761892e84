package ui

import (
	"math"
	"testing"

	"github.com/pthm-cable/flock/sim"
)

func TestBarFill(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		want     int32
	}{
		{"empty", 0, 0},
		{"negative", -0.5, 0},
		{"nan", math.NaN(), 0},
		{"half", 0.5, 50},
		{"full", 1, 100},
		{"over", 3, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := barFill(tt.fraction, 100); got != tt.want {
				t.Errorf("barFill(%v, 100) = %d, want %d", tt.fraction, got, tt.want)
			}
		})
	}
}

func TestVariantLabel(t *testing.T) {
	if got := variantLabel(sim.VariantCoherent, sim.VariantCoherent); got != "[coherent]" {
		t.Errorf("active label = %q", got)
	}
	if got := variantLabel(sim.VariantNaive, sim.VariantCoherent); got != "naive" {
		t.Errorf("inactive label = %q", got)
	}
}

func TestFormatMicros(t *testing.T) {
	tests := map[int64]string{
		0:    "0 us",
		999:  "999 us",
		1500: "1.50 ms",
	}
	for us, want := range tests {
		if got := formatMicros(us); got != want {
			t.Errorf("formatMicros(%d) = %q, want %q", us, got, want)
		}
	}
}
