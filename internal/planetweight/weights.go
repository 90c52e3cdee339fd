// Package planetweight holds each body's physical mass on three scales, for
// mass-weighted score variants. Values come from NASA planetary fact sheets.
package planetweight

import (
	"math"

	"github.com/alchm-dev/alchm-core/internal/models"
)

// Scale selects which representation of planetary mass a lookup returns.
type Scale string

const (
	// Normalized is log-scaled to [0,1] so the Sun maps to 1.0 and Pluto
	// near 0.0, keeping the gas giants from dominating multiplications.
	Normalized Scale = "normalized"
	// Relative is mass relative to Earth (Earth = 1.0).
	Relative Scale = "relative"
	// Kilograms is the raw mass.
	Kilograms Scale = "kg"
)

const earthMassKg = 5.972e24

var massKg = map[models.Body]float64{
	models.BodySun:     1.989e30,
	models.BodyMoon:    7.342e22,
	models.BodyMercury: 3.285e23,
	models.BodyVenus:   4.867e24,
	models.BodyMars:    6.390e23,
	models.BodyJupiter: 1.898e27,
	models.BodySaturn:  5.683e26,
	models.BodyUranus:  8.681e25,
	models.BodyNeptune: 1.024e26,
	models.BodyPluto:   1.309e22,
}

// Log anchors for normalization: Pluto is the floor, the Sun the ceiling.
var (
	logMin   = math.Log10(massKg[models.BodyPluto] / earthMassKg)
	logRange = math.Log10(massKg[models.BodySun]/earthMassKg) - logMin
)

// MassKg returns the raw mass of a body, or Earth's mass for an unknown one.
func MassKg(body models.Body) float64 {
	if m, ok := massKg[body]; ok {
		return m
	}
	return earthMassKg
}

// RelativeToEarth returns the body's mass with Earth as 1.0.
func RelativeToEarth(body models.Body) float64 {
	if m, ok := massKg[body]; ok {
		return round4(m / earthMassKg)
	}
	return 1.0
}

// NormalizeRelativeMass maps an Earth-relative mass onto [0,1] via log10,
// anchored so Pluto scores 0.0 and the Sun 1.0. Non-positive input returns 0.
func NormalizeRelativeMass(relative float64) float64 {
	if relative <= 0 {
		return 0
	}
	return round4((math.Log10(relative) - logMin) / logRange)
}

// NormalizedWeight returns the body's log-normalized mass score, or the
// neutral 0.5 for an unknown body.
func NormalizedWeight(body models.Body) float64 {
	if m, ok := massKg[body]; ok {
		return NormalizeRelativeMass(m / earthMassKg)
	}
	return 0.5
}

// Weight returns the body's mass on the requested scale, defaulting to the
// normalized scale for an unrecognized scale name.
func Weight(body models.Body, scale Scale) float64 {
	switch scale {
	case Kilograms:
		return MassKg(body)
	case Relative:
		return RelativeToEarth(body)
	default:
		return NormalizedWeight(body)
	}
}

// PlanetWeight is NormalizedWeight keyed by a classical planet, shaped for
// use as an hour-bonus weighting function.
func PlanetWeight(p models.Planet) float64 {
	return NormalizedWeight(models.Body(p))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
