package collective

import (
	"errors"
	"math"
	"testing"

	"github.com/alchm-dev/alchm-core/internal/models"
)

func snapshot(spirit, matter float64) Snapshot {
	return Snapshot{
		Elements: models.Neutral(),
		Quantities: models.AlchemicalQuantities{
			Spirit: spirit, Essence: 0.5, Matter: matter, Substance: 0.5,
		},
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	_, err := Aggregate(nil)
	if !errors.Is(err, models.ErrEmptyInput) {
		t.Errorf("error = %v, want ErrEmptyInput", err)
	}
}

func TestAggregate_SingleSnapshotIdentity(t *testing.T) {
	s := snapshot(0.42, 0.58)
	got, err := Aggregate([]Snapshot{s})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got.ParticipantCount != 1 {
		t.Errorf("participant count = %d, want 1", got.ParticipantCount)
	}
	if got.Mean != s.Quantities {
		t.Errorf("N=1 mean = %+v, want the snapshot unchanged", got.Mean)
	}
}

func TestAggregate_MeanOfTwo(t *testing.T) {
	got, err := Aggregate([]Snapshot{snapshot(0.2, 0.8), snapshot(0.4, 0.4)})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if math.Abs(got.Mean.Spirit-0.3) > 1e-9 {
		t.Errorf("mean spirit = %f, want 0.3", got.Mean.Spirit)
	}
	if math.Abs(got.Mean.Matter-0.6) > 1e-9 {
		t.Errorf("mean matter = %f, want 0.6", got.Mean.Matter)
	}
}

func TestAggregate_Classification(t *testing.T) {
	tests := []struct {
		name           string
		spirit, matter float64
		want           models.ImbalanceCategory
	}{
		{"matter stagnation", 0.2, 0.7, models.MatterStagnation},
		{"spirit volatility", 0.7, 0.2, models.SpiritVolatility},
		{"balanced midpoint", 0.5, 0.5, models.Balanced},
		{"matter high but spirit not low", 0.5, 0.7, models.Balanced},
		{"boundary not exceeded", 0.4, 0.6, models.Balanced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate([]Snapshot{snapshot(tt.spirit, tt.matter)})
			if err != nil {
				t.Fatalf("Aggregate: %v", err)
			}
			if got.Imbalance != tt.want {
				t.Errorf("imbalance = %v, want %v", got.Imbalance, tt.want)
			}
		})
	}
}

func TestAggregate_Deficits(t *testing.T) {
	fireHeavy := Snapshot{
		Elements:   models.ElementalProfile{Fire: 0.55, Water: 0.15, Earth: 0.15, Air: 0.15},
		Quantities: models.AlchemicalQuantities{Spirit: 0.5, Matter: 0.5},
	}
	got, err := Aggregate([]Snapshot{fireHeavy})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got.Deficits[models.Fire] >= 0 {
		t.Errorf("fire deficit = %f, want negative (surplus)", got.Deficits[models.Fire])
	}
	if got.Deficits[models.Water] <= 0 {
		t.Errorf("water deficit = %f, want positive (lack)", got.Deficits[models.Water])
	}
	var sum float64
	for _, d := range got.Deficits {
		sum += d
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("deficits sum = %f, want 0 for normalized input", sum)
	}
}

func TestAnalyzeBalance_MatterDominates(t *testing.T) {
	readings := []models.AlchemicalQuantities{
		{Spirit: 0.3, Matter: 0.7},
		{Spirit: 0.4, Matter: 0.6},
	}
	report, err := AnalyzeBalance(readings)
	if err != nil {
		t.Fatalf("AnalyzeBalance: %v", err)
	}
	if report.Recommendation.ElementalFocus != models.Air {
		t.Errorf("focus = %v, want Air", report.Recommendation.ElementalFocus)
	}
	if !report.Recommendation.KineticBoost {
		t.Error("matter dominance calls for a kinetic boost")
	}
	if ImbalanceFromReport(report) != models.MatterStagnation {
		t.Error("matter dominance maps to MatterStagnation")
	}
}

func TestAnalyzeBalance_SpiritDominates(t *testing.T) {
	report, err := AnalyzeBalance([]models.AlchemicalQuantities{{Spirit: 0.8, Matter: 0.3}})
	if err != nil {
		t.Fatalf("AnalyzeBalance: %v", err)
	}
	if report.Recommendation.ElementalFocus != models.Earth {
		t.Errorf("focus = %v, want Earth", report.Recommendation.ElementalFocus)
	}
	if ImbalanceFromReport(report) != models.SpiritVolatility {
		t.Error("spirit dominance maps to SpiritVolatility")
	}
}

func TestAnalyzeBalance_WithinTolerance(t *testing.T) {
	report, err := AnalyzeBalance([]models.AlchemicalQuantities{{Spirit: 0.5, Matter: 0.52}})
	if err != nil {
		t.Fatalf("AnalyzeBalance: %v", err)
	}
	if report.Recommendation.Type != "Alchemical Balance Maintained" {
		t.Errorf("type = %q, want maintained", report.Recommendation.Type)
	}
	if ImbalanceFromReport(report) != models.Balanced {
		t.Error("near-parity maps to Balanced")
	}
}

func TestAnalyzeBalance_EmptyInput(t *testing.T) {
	_, err := AnalyzeBalance(nil)
	if !errors.Is(err, models.ErrEmptyInput) {
		t.Errorf("error = %v, want ErrEmptyInput", err)
	}
}
