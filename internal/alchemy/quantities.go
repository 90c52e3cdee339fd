// Package alchemy synthesizes the four composite quantities and the potency
// ratings that feed them. All functions are pure and total: out-of-range
// inputs clamp, they never error.
package alchemy

import (
	"github.com/alchm-dev/alchm-core/internal/models"
)

// DefaultDensity is the nutritional density assumed when the caller has no
// measurement for the entity being scored.
const DefaultDensity = 0.5

// Quantities synthesizes the four quantities with the default density.
func Quantities(elements models.ElementalProfile, kinetic, thermal float64, hourRuler models.Planet) models.AlchemicalQuantities {
	return QuantitiesWithDensity(elements, kinetic, thermal, DefaultDensity, hourRuler)
}

// QuantitiesWithDensity synthesizes Spirit, Essence, Matter, and Substance
// from an elemental composition, the two upstream ratings, a caller-supplied
// nutritional density, and the planet ruling the current hour. Essence gains
// a fixed bonus when a Water planet rules the hour.
func QuantitiesWithDensity(elements models.ElementalProfile, kinetic, thermal, density float64, hourRuler models.Planet) models.AlchemicalQuantities {
	essenceBonus := 0.0
	if models.PlanetElements[hourRuler] == models.Water {
		essenceBonus = 0.3
	}

	return models.AlchemicalQuantities{
		Spirit:    clamp01(kinetic*0.5 + elements.Air*0.25 + elements.Fire*0.25),
		Essence:   clamp01(elements.Water*0.7 + essenceBonus*0.3),
		Matter:    clamp01(density*0.6 + elements.Earth*0.4),
		Substance: clamp01(thermal*0.5 + elements.Earth*0.25 + elements.Water*0.25),
		Kinetic:   kinetic,
		Thermal:   thermal,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
