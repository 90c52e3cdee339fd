// Package lunar covers the Moon's cycle: synodic phase, lunar mansions, and
// the oracle that projects mansion-based windows over a forecast horizon.
package lunar

import (
	"math"
	"strings"
	"time"
)

// SynodicPeriod is the mean length of a lunation in days.
const SynodicPeriod = 29.53058867

// referenceNewMoon anchors phase arithmetic to a known lunation start.
var referenceNewMoon = time.Date(2023, 1, 21, 20, 53, 0, 0, time.UTC)

// Phase describes the Moon's position within the synodic cycle.
type Phase struct {
	Name         string  `json:"phase_name"`
	Position     float64 `json:"phase_position"` // [0,1), 0 = new moon
	Illumination float64 `json:"illumination_fraction"`
}

// PhaseAt computes the approximate lunar phase at an instant. Position is the
// fraction of the synodic cycle elapsed since the reference new moon;
// illumination follows the cosine model.
func PhaseAt(t time.Time) Phase {
	days := t.UTC().Sub(referenceNewMoon).Seconds() / 86400
	pos := math.Mod(days/SynodicPeriod, 1)
	if pos < 0 {
		pos += 1
	}
	illum := 0.5 * (1 - math.Cos(2*math.Pi*pos))

	return Phase{
		Name:         phaseName(pos),
		Position:     pos,
		Illumination: math.Round(illum*1000) / 1000,
	}
}

// phaseName buckets the cycle position. The cardinal phases claim narrow
// bands around their exact moments; the crescent and gibbous names fill the
// quarters between.
func phaseName(pos float64) string {
	switch {
	case pos < 0.03 || pos > 0.97:
		return "New Moon"
	case pos > 0.22 && pos < 0.28:
		return "First Quarter"
	case pos > 0.47 && pos < 0.53:
		return "Full Moon"
	case pos > 0.72 && pos < 0.78:
		return "Last Quarter"
	case pos < 0.25:
		return "Waxing Crescent"
	case pos < 0.5:
		return "Waxing Gibbous"
	case pos < 0.75:
		return "Waning Gibbous"
	default:
		return "Waning Crescent"
	}
}

// Modifier returns the affinity strength multiplier a lunar phase grants an
// ingredient category. Unmatched combinations are neutral.
func Modifier(phaseName, category string) float64 {
	switch {
	case phaseName == "New Moon" && category == "Root/Grounding":
		return 1.20
	case phaseName == "Full Moon" && category == "High-Water/Cooling":
		return 1.20
	case strings.Contains(phaseName, "Waning") && category == "Detoxifying":
		return 1.10
	}
	return 1.0
}
