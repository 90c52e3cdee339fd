// Package collective aggregates multiple participants' alchemical snapshots
// into a group profile and classifies the group's imbalance axis.
package collective

import (
	"fmt"

	"github.com/alchm-dev/alchm-core/internal/models"
)

// Snapshot is one participant's contribution: elemental distribution plus
// the four synthesized quantities.
type Snapshot struct {
	Elements   models.ElementalProfile     `json:"elements"`
	Quantities models.AlchemicalQuantities `json:"quantities"`
}

// GroupProfile extends the collective mean with the normalized elemental
// midpoint and the per-element deficits against the balanced ideal.
type GroupProfile struct {
	models.CollectiveProfile
	MeanElements models.ElementalProfile    `json:"mean_elements"`
	Deficits     map[models.Element]float64 `json:"elemental_deficits"`
}

// Aggregate computes the arithmetic mean of the four quantities across all
// snapshots and classifies the group. At least one snapshot is required.
func Aggregate(snapshots []Snapshot) (GroupProfile, error) {
	if len(snapshots) == 0 {
		return GroupProfile{}, fmt.Errorf("%w: aggregate requires at least one snapshot", models.ErrEmptyInput)
	}

	n := float64(len(snapshots))
	var mean models.AlchemicalQuantities
	var elements models.ElementalProfile

	for _, s := range snapshots {
		mean.Spirit += s.Quantities.Spirit
		mean.Essence += s.Quantities.Essence
		mean.Matter += s.Quantities.Matter
		mean.Substance += s.Quantities.Substance
		mean.Kinetic += s.Quantities.Kinetic
		mean.Thermal += s.Quantities.Thermal

		elements.Fire += s.Elements.Fire
		elements.Water += s.Elements.Water
		elements.Earth += s.Elements.Earth
		elements.Air += s.Elements.Air
	}

	mean.Spirit /= n
	mean.Essence /= n
	mean.Matter /= n
	mean.Substance /= n
	mean.Kinetic /= n
	mean.Thermal /= n

	elements.Fire /= n
	elements.Water /= n
	elements.Earth /= n
	elements.Air /= n
	normalized := elements.Normalized()

	return GroupProfile{
		CollectiveProfile: models.CollectiveProfile{
			ParticipantCount: len(snapshots),
			Mean:             mean,
			Imbalance:        Classify(mean),
		},
		MeanElements: normalized,
		Deficits:     deficits(normalized),
	}, nil
}

// Classify buckets a mean quantity set into the imbalance taxonomy. Rules
// apply in priority order; the first match wins.
func Classify(mean models.AlchemicalQuantities) models.ImbalanceCategory {
	switch {
	case mean.Matter > 0.6 && mean.Spirit < 0.4:
		return models.MatterStagnation
	case mean.Spirit > 0.6 && mean.Matter < 0.4:
		return models.SpiritVolatility
	default:
		return models.Balanced
	}
}

// deficits measures each element's gap below the balanced quarter share.
// Positive means the group lacks that element, negative means surplus.
func deficits(normalized models.ElementalProfile) map[models.Element]float64 {
	return map[models.Element]float64{
		models.Fire:  0.25 - normalized.Fire,
		models.Water: 0.25 - normalized.Water,
		models.Earth: 0.25 - normalized.Earth,
		models.Air:   0.25 - normalized.Air,
	}
}
