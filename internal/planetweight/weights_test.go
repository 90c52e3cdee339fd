package planetweight

import (
	"math"
	"testing"

	"github.com/alchm-dev/alchm-core/internal/models"
)

func TestNormalizedAnchors(t *testing.T) {
	if got := NormalizedWeight(models.BodyPluto); got != 0 {
		t.Errorf("Pluto normalized = %v, want 0", got)
	}
	if got := NormalizedWeight(models.BodySun); got != 1 {
		t.Errorf("Sun normalized = %v, want 1", got)
	}
}

func TestNormalizedOrdering(t *testing.T) {
	// Mass ordering must survive the log scaling.
	order := []models.Body{
		models.BodyPluto, models.BodyMoon, models.BodyMercury, models.BodyMars,
		models.BodyVenus, models.BodyUranus, models.BodyNeptune,
		models.BodySaturn, models.BodyJupiter, models.BodySun,
	}
	for i := 1; i < len(order); i++ {
		if NormalizedWeight(order[i]) <= NormalizedWeight(order[i-1]) {
			t.Errorf("%s should outweigh %s", order[i], order[i-1])
		}
	}
}

func TestRelativeToEarth(t *testing.T) {
	if got := RelativeToEarth(models.BodyJupiter); math.Abs(got-317.8165) > 0.001 {
		t.Errorf("Jupiter relative mass = %v, want ~317.8165", got)
	}
	if got := RelativeToEarth(models.BodyMoon); math.Abs(got-0.0123) > 0.001 {
		t.Errorf("Moon relative mass = %v, want ~0.0123", got)
	}
}

func TestNormalizeRelativeMass_NonPositive(t *testing.T) {
	if got := NormalizeRelativeMass(0); got != 0 {
		t.Errorf("NormalizeRelativeMass(0) = %v, want 0", got)
	}
	if got := NormalizeRelativeMass(-3); got != 0 {
		t.Errorf("NormalizeRelativeMass(-3) = %v, want 0", got)
	}
}

func TestUnknownBodyDefaults(t *testing.T) {
	unknown := models.Body("Vulcan")
	if got := Weight(unknown, Normalized); got != 0.5 {
		t.Errorf("unknown normalized = %v, want 0.5", got)
	}
	if got := Weight(unknown, Relative); got != 1.0 {
		t.Errorf("unknown relative = %v, want 1.0", got)
	}
	if got := Weight(unknown, Kilograms); got != 5.972e24 {
		t.Errorf("unknown kg = %v, want earth mass", got)
	}
}

func TestWeightScaleSelection(t *testing.T) {
	if Weight(models.BodyMars, Kilograms) != 6.390e23 {
		t.Error("kg scale must return the raw mass")
	}
	if Weight(models.BodyMars, Scale("bogus")) != NormalizedWeight(models.BodyMars) {
		t.Error("unrecognized scale must fall back to normalized")
	}
}

func TestPlanetWeight_AllClassicalPlanetsInUnitRange(t *testing.T) {
	for _, p := range models.ChaldeanOrder {
		w := PlanetWeight(p)
		if w < 0 || w > 1 {
			t.Errorf("%s weight %v out of [0,1]", p, w)
		}
	}
}
