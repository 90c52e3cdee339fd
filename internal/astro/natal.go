package astro

import (
	"fmt"

	"github.com/alchm-dev/alchm-core/internal/ephemeris"
	"github.com/alchm-dev/alchm-core/internal/models"
)

// chartWeights grades each body's influence on a natal elemental
// distribution: luminaries dominate, personal planets matter, outer bodies
// and the node only color the result.
var chartWeights = map[models.Body]float64{
	models.BodySun:       3.0,
	models.BodyMoon:      3.0,
	models.BodyMercury:   1.5,
	models.BodyVenus:     1.5,
	models.BodyMars:      1.5,
	models.BodyJupiter:   1.0,
	models.BodySaturn:    1.0,
	models.BodyUranus:    0.5,
	models.BodyNeptune:   0.5,
	models.BodyPluto:     0.5,
	models.BodyNorthNode: 0.5,
}

// NatalProfile is a participant's chart reduced to alchemical terms: the
// weighted elemental distribution, the four natal quantities, and the Sun
// placement that anchors the person's element.
type NatalProfile struct {
	Elements   models.ElementalProfile     `json:"elements"`
	Quantities models.AlchemicalQuantities `json:"quantities"`
	SunSign    models.ZodiacSign           `json:"sun_sign"`
	SunElement models.Element              `json:"sun_element"`
	Source     string                      `json:"source"`
}

// NatalQuantities derives a natal profile from a birth chart: positions at
// the birth moment, element shares weighted per body, and the four
// quantities as fixed blends of the shares.
func (c *Calculator) NatalQuantities(chart models.BirthChart, system models.ZodiacSystem) (NatalProfile, error) {
	if err := chart.Validate(); err != nil {
		return NatalProfile{}, fmt.Errorf("invalid birth chart: %w", err)
	}
	birthUTC, err := chart.UTC()
	if err != nil {
		return NatalProfile{}, err
	}
	jd := ephemeris.JulianDay(
		birthUTC.Year(), int(birthUTC.Month()), birthUTC.Day(),
		ephemeris.CivilHour(birthUTC.Hour(), birthUTC.Minute()),
	)
	set, err := c.PositionsAtJulianDay(jd, system)
	if err != nil {
		return NatalProfile{}, fmt.Errorf("natal positions: %w", err)
	}
	return natalFromPositions(set), nil
}

// ProfileFromPositions reduces an already-computed position set to a
// profile. Used for the transiting sky, where the caller holds the set from
// the live calculation cycle.
func ProfileFromPositions(set models.PositionSet) NatalProfile {
	return natalFromPositions(set)
}

func natalFromPositions(set models.PositionSet) NatalProfile {
	var elements models.ElementalProfile
	var total float64

	for body, pos := range set.Positions {
		element, ok := models.SignElements[pos.Sign]
		if !ok {
			continue
		}
		weight, ok := chartWeights[body]
		if !ok {
			// South Node and anything exotic count as minor influences.
			weight = 0.5
		}
		switch element {
		case models.Fire:
			elements.Fire += weight
		case models.Water:
			elements.Water += weight
		case models.Earth:
			elements.Earth += weight
		case models.Air:
			elements.Air += weight
		}
		total += weight
	}

	if total > 0 {
		elements.Fire /= total
		elements.Water /= total
		elements.Earth /= total
		elements.Air /= total
	}

	profile := NatalProfile{
		Elements: elements,
		Quantities: models.AlchemicalQuantities{
			Spirit:    elements.Fire*0.6 + elements.Air*0.4,
			Essence:   elements.Water*0.6 + elements.Air*0.4,
			Matter:    elements.Earth*0.6 + elements.Water*0.4,
			Substance: elements.Earth*0.6 + elements.Fire*0.4,
		},
		Source: set.Source,
	}
	if sun, ok := set.Positions[models.BodySun]; ok {
		profile.SunSign = sun.Sign
		profile.SunElement = models.SignElements[sun.Sign]
	}
	return profile
}
