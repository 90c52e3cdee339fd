package collective

import (
	"fmt"

	"github.com/alchm-dev/alchm-core/internal/models"
)

// Recommendation is the ritual guidance produced by a balance analysis.
type Recommendation struct {
	Type           string         `json:"type"`
	ElementalFocus models.Element `json:"elemental_focus"`
	Suggestion     string         `json:"ritual_suggestion"`
	KineticBoost   bool           `json:"kinetic_boost_needed"`
}

// BalanceReport summarizes a window of recorded quantities and the
// recommendation for restoring the spirit/matter axis.
type BalanceReport struct {
	Analysis       string         `json:"analysis"`
	AverageSpirit  float64        `json:"average_spirit"`
	AverageMatter  float64        `json:"average_matter"`
	Recommendation Recommendation `json:"recommendation"`
}

// AnalyzeBalance inspects recent quantity readings for a dominated axis.
// Matter outrunning spirit by more than ten percent calls for a kinetic Air
// ritual; the reverse calls for grounding Earth work.
func AnalyzeBalance(readings []models.AlchemicalQuantities) (BalanceReport, error) {
	if len(readings) == 0 {
		return BalanceReport{}, fmt.Errorf("%w: no readings to analyze", models.ErrEmptyInput)
	}

	var spirit, matter float64
	for _, r := range readings {
		spirit += r.Spirit
		matter += r.Matter
	}
	n := float64(len(readings))
	spirit /= n
	matter /= n

	report := BalanceReport{
		Analysis: fmt.Sprintf(
			"Alchemical balance analysis: average spirit %.2f, average matter %.2f over %d readings.",
			spirit, matter, len(readings)),
		AverageSpirit: spirit,
		AverageMatter: matter,
	}

	switch {
	case matter > spirit*1.1:
		report.Recommendation = Recommendation{
			Type:           "Alchemical Axis Restoration",
			ElementalFocus: models.Air,
			Suggestion: "Engage in a high-kinetic Air ritual: light, airy foods, rapid stirring, " +
				"dynamic preparation to boost spirit energy.",
			KineticBoost: true,
		}
	case spirit > matter*1.1:
		report.Recommendation = Recommendation{
			Type:           "Alchemical Axis Grounding",
			ElementalFocus: models.Earth,
			Suggestion: "Engage in a grounding Earth ritual: root vegetables, slow cooking, " +
				"deliberate preparation to balance matter energy.",
		}
	default:
		report.Recommendation = Recommendation{
			Type:       "Alchemical Balance Maintained",
			Suggestion: "The alchemical axis is balanced. Continue with mindful preparation.",
		}
	}
	return report, nil
}

// ImbalanceFromReport maps a balance recommendation onto the imbalance
// taxonomy used by the window search: matter dominance is stagnation, spirit
// dominance is volatility.
func ImbalanceFromReport(r BalanceReport) models.ImbalanceCategory {
	switch {
	case r.AverageMatter > r.AverageSpirit*1.1:
		return models.MatterStagnation
	case r.AverageSpirit > r.AverageMatter*1.1:
		return models.SpiritVolatility
	default:
		return models.Balanced
	}
}
