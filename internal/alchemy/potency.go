package alchemy

import (
	"github.com/alchm-dev/alchm-core/internal/models"
)

// PotencyInput collects everything the potency scorer reads: the entity's
// elemental composition, the dominant transiting planet (empty when no
// transit is within orb), the solar-season element, and the planet ruling
// the current hour.
type PotencyInput struct {
	Elements        models.ElementalProfile
	DominantTransit models.Planet
	SeasonElement   models.Element
	HourRuler       models.Planet
}

// PotencyResult carries the composite score plus the two ratings consumed
// downstream by the quantity synthesizer.
type PotencyResult struct {
	Total   float64 `json:"total_potency_score"`
	Kinetic float64 `json:"kinetic_rating"`
	Thermal float64 `json:"thermo_rating"`
	Steam   bool    `json:"steam"`
}

// WeightFunc optionally scales the planetary-hour bonus by a planet weight
// in [0,1]. Nil means the flat bonus.
type WeightFunc func(models.Planet) float64

// Score computes the total potency and the kinetic/thermal ratings.
//
// The composite blends four factors: planetary alignment (full credit when a
// dominant transit exists), elemental match between the season and the
// entity's dominant element, thermodynamic parity graded by that element,
// and a planetary-hour bonus when the hour ruler channels the same element.
// The kinetic rating follows the dominant transit's temperament and gains a
// 1.5x steam multiplier when the season element and the hour element are
// classically opposed.
func Score(in PotencyInput, weight WeightFunc) PotencyResult {
	alignment := 0.5
	if in.DominantTransit != "" {
		alignment = 1.0
	}

	dominant := in.Elements.Dominant()
	match := 0.5
	if in.SeasonElement == dominant {
		match = 1.0
	}

	parity := parityOf(dominant)

	bonus := 0.0
	if models.PlanetElements[in.HourRuler] == dominant {
		bonus = 0.25
		if weight != nil {
			bonus *= clamp01(weight(in.HourRuler))
		}
	}

	kinetic := kineticOf(in.DominantTransit)
	hourElement := models.PlanetElements[in.HourRuler]
	steam := models.Opposed(in.SeasonElement, hourElement)
	if steam {
		kinetic *= 1.5
	}

	return PotencyResult{
		Total:   alignment*0.4 + match*0.3 + parity*0.3 + bonus,
		Kinetic: clamp01(kinetic),
		Thermal: parity,
		Steam:   steam,
	}
}

// parityOf grades thermodynamic parity by dominant element: fire cooks hot
// and fast, water barely at all.
func parityOf(el models.Element) float64 {
	switch el {
	case models.Fire:
		return 1.0
	case models.Air:
		return 0.7
	case models.Earth:
		return 0.5
	case models.Water:
		return 0.3
	}
	return 0.5
}

// kineticOf grades the dominant transit's temperament. Mars drives, Venus
// softens, Saturn stalls.
func kineticOf(transit models.Planet) float64 {
	switch transit {
	case models.Mars:
		return 1.0
	case models.Venus:
		return 0.3
	case models.Saturn:
		return 0.1
	}
	return 0.5
}

// DominantTransit returns the first planet whose current longitude sits
// within a one-degree conjunction orb of its natal longitude, or empty if
// none does. Only the four traditional potency planets participate.
func DominantTransit(natal, current map[models.Body]models.PlanetaryPosition) models.Planet {
	for _, p := range []models.Body{models.BodySun, models.BodyMars, models.BodyVenus, models.BodySaturn} {
		n, ok := natal[p]
		if !ok {
			continue
		}
		c, ok := current[p]
		if !ok {
			continue
		}
		diff := models.NormalizeLongitude(c.Longitude - n.Longitude)
		if diff > 180 {
			diff = 360 - diff
		}
		if diff < 1.0 {
			return models.Planet(p)
		}
	}
	return ""
}
