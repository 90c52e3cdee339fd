package lunar

import (
	"math"
	"testing"
	"time"

	"github.com/alchm-dev/alchm-core/internal/ephemeris"
	"github.com/alchm-dev/alchm-core/internal/models"
)

func TestPhaseAt_ReferenceNewMoon(t *testing.T) {
	p := PhaseAt(time.Date(2023, 1, 21, 20, 53, 0, 0, time.UTC))
	if p.Name != "New Moon" {
		t.Errorf("phase at reference = %q, want New Moon", p.Name)
	}
	if p.Illumination > 0.001 {
		t.Errorf("illumination at new moon = %f, want ~0", p.Illumination)
	}
}

func TestPhaseAt_FullMoonHalfCycle(t *testing.T) {
	half := time.Duration(SynodicPeriod / 2 * 24 * float64(time.Hour))
	p := PhaseAt(time.Date(2023, 1, 21, 20, 53, 0, 0, time.UTC).Add(half))
	if p.Name != "Full Moon" {
		t.Errorf("phase at half cycle = %q, want Full Moon", p.Name)
	}
	if math.Abs(p.Illumination-1) > 0.001 {
		t.Errorf("illumination at full moon = %f, want ~1", p.Illumination)
	}
}

func TestPhaseAt_NextLunationWraps(t *testing.T) {
	full := time.Duration(SynodicPeriod * 24 * float64(time.Hour))
	p := PhaseAt(time.Date(2023, 1, 21, 20, 53, 0, 0, time.UTC).Add(3 * full))
	if p.Name != "New Moon" {
		t.Errorf("phase three lunations later = %q, want New Moon", p.Name)
	}
}

func TestPhaseAt_BeforeReference(t *testing.T) {
	p := PhaseAt(time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC))
	if p.Position < 0 || p.Position >= 1 {
		t.Errorf("position before reference = %f, want [0,1)", p.Position)
	}
}

func TestModifier(t *testing.T) {
	tests := []struct {
		phase, category string
		want            float64
	}{
		{"New Moon", "Root/Grounding", 1.20},
		{"Full Moon", "High-Water/Cooling", 1.20},
		{"Waning Gibbous", "Detoxifying", 1.10},
		{"Waning Crescent", "Detoxifying", 1.10},
		{"Waxing Crescent", "Detoxifying", 1.0},
		{"Full Moon", "Root/Grounding", 1.0},
	}
	for _, tt := range tests {
		if got := Modifier(tt.phase, tt.category); got != tt.want {
			t.Errorf("Modifier(%q, %q) = %v, want %v", tt.phase, tt.category, got, tt.want)
		}
	}
}

func TestMansionOf(t *testing.T) {
	tests := []struct {
		longitude float64
		want      string
	}{
		{0, "Ashwini"},
		{13.0, "Ashwini"},
		{13.4, "Bharani"},
		{180, "Chitra"},
		{359.9, "Revati"},
		{-10, "Revati"}, // wraps to 350
	}
	for _, tt := range tests {
		if got := MansionOf(tt.longitude); got.Name != tt.want {
			t.Errorf("MansionOf(%v) = %q, want %q", tt.longitude, got.Name, tt.want)
		}
	}
}

func TestMansionOf_CoversFullCircle(t *testing.T) {
	seen := map[string]bool{}
	for lon := 0.0; lon < 360; lon += 1.0 {
		seen[MansionOf(lon).Name] = true
	}
	if len(seen) != 27 {
		t.Errorf("one-degree sweep found %d mansions, want 27", len(seen))
	}
}

type fixedMoon struct{ longitude float64 }

func (f fixedMoon) Name() string      { return "fixed" }
func (f fixedMoon) Precision() string { return "test" }
func (f fixedMoon) Query(jd float64, body models.Body, sidereal bool) (ephemeris.Position, error) {
	return ephemeris.Position{Longitude: f.longitude, Speed: 13}, nil
}

func TestOptimalWindows(t *testing.T) {
	o := NewOracle(fixedMoon{longitude: 45}) // Rohini
	o.now = func() time.Time { return time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC) }

	windows, err := o.OptimalWindows(3)
	if err != nil {
		t.Fatalf("OptimalWindows: %v", err)
	}
	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}
	if windows[0].Date != "2026-08-25" || windows[2].Date != "2026-08-27" {
		t.Errorf("window dates = %s..%s, want 2026-08-25..2026-08-27", windows[0].Date, windows[2].Date)
	}
	if windows[0].Mansion != "Rohini" || windows[0].FoodType != "Sweet/Nurturing" {
		t.Errorf("window mansion = %s (%s), want Rohini (Sweet/Nurturing)", windows[0].Mansion, windows[0].FoodType)
	}
}

func TestOptimalWindows_RejectsEmptyHorizon(t *testing.T) {
	o := NewOracle(fixedMoon{})
	if _, err := o.OptimalWindows(0); err == nil {
		t.Error("expected error for zero-day horizon")
	}
}
