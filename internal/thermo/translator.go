// Package thermo translates elemental compositions into thermodynamic
// scalars. Pure arithmetic, total over any finite input.
package thermo

import (
	"math"

	"github.com/alchm-dev/alchm-core/internal/models"
)

// Translate maps a four-way elemental composition to the five derived
// scalars. Inputs need not be exactly normalized; outputs are clamped to
// their documented ranges rather than erroring.
func Translate(e models.ElementalProfile) models.ThermodynamicProfile {
	heat := e.Fire*0.8 + e.Air*0.3 - e.Water*0.2
	entropy := e.Air*0.7 + e.Water*0.5 - e.Earth*0.4 - e.Fire*0.3
	reactivity := e.Fire*0.9 + e.Air*0.6 - e.Water*0.3 - e.Earth*0.5

	harmony := 1 -
		math.Abs(0.25-e.Fire) -
		math.Abs(0.25-e.Water) -
		math.Abs(0.25-e.Earth) -
		math.Abs(0.25-e.Air)

	energy := harmony * 100 * (1 + heat*0.1 - entropy*0.1 + reactivity*0.05)
	equilibrium := 1 - (math.Abs(heat)+math.Abs(entropy)+math.Abs(reactivity))/3

	return models.ThermodynamicProfile{
		Heat:        clamp(heat, -1, 1),
		Entropy:     clamp(entropy, -1, 1),
		Reactivity:  clamp(reactivity, -1, 1),
		Energy:      clamp(energy, 0, 200),
		Equilibrium: clamp(equilibrium, 0, 1),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
