package ephemeris

import (
	"math"
	"testing"

	"github.com/alchm-dev/alchm-core/internal/models"
)

func TestJulianDay(t *testing.T) {
	tests := []struct {
		name                   string
		year, month, day       int
		hour                   float64
		want                   float64
	}{
		{"J2000 epoch", 2000, 1, 2, 0, 2451545.5},
		{"J2000 noon", 2000, 1, 1, 12, 2451545.0},
		{"gregorian reform era", 1990, 10, 15, 7.25, 2448179.802083},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDay(tt.year, tt.month, tt.day, tt.hour)
			if math.Abs(got-tt.want) > 1e-5 {
				t.Errorf("JulianDay = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCivilHour(t *testing.T) {
	if got := CivilHour(7, 15); got != 7.25 {
		t.Errorf("CivilHour(7, 15) = %v, want 7.25", got)
	}
}

func TestApproxProvider_AllBodiesInRange(t *testing.T) {
	p := NewApproxProvider()
	jd := JulianDay(2026, 8, 25, 12)
	for _, body := range models.TrackedBodies {
		pos, err := p.Query(jd, body, false)
		if err != nil {
			t.Fatalf("Query(%s): %v", body, err)
		}
		if pos.Longitude < 0 || pos.Longitude >= 360 {
			t.Errorf("%s longitude %f out of [0,360)", body, pos.Longitude)
		}
	}
}

func TestApproxProvider_SunNearEquinoxLongitude(t *testing.T) {
	// At the March equinox the Sun sits at the Aries point.
	p := NewApproxProvider()
	jd := JulianDay(2026, 3, 20, 15)
	pos, err := p.Query(jd, models.BodySun, false)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	dist := math.Min(pos.Longitude, 360-pos.Longitude)
	if dist > 1.0 {
		t.Errorf("sun longitude at equinox = %f, want within 1 degree of 0", pos.Longitude)
	}
}

func TestApproxProvider_NodeOppositionAndRetrograde(t *testing.T) {
	p := NewApproxProvider()
	jd := JulianDay(2026, 8, 25, 0)

	north, err := p.Query(jd, models.BodyNorthNode, false)
	if err != nil {
		t.Fatalf("north node: %v", err)
	}
	south, err := p.Query(jd, models.BodySouthNode, false)
	if err != nil {
		t.Fatalf("south node: %v", err)
	}

	sep := math.Abs(angleDiff(north.Longitude+180, south.Longitude))
	if sep > 1e-6 {
		t.Errorf("node separation off by %f degrees", sep)
	}
	if north.Speed >= 0 {
		t.Errorf("mean node speed = %f, want negative (retrograde)", north.Speed)
	}
}

func TestApproxProvider_SunAndMoonNeverRetrograde(t *testing.T) {
	p := NewApproxProvider()
	for _, body := range []models.Body{models.BodySun, models.BodyMoon} {
		for day := 0; day < 365; day += 30 {
			jd := JulianDay(2026, 1, 1, 0) + float64(day)
			pos, err := p.Query(jd, body, false)
			if err != nil {
				t.Fatalf("Query(%s): %v", body, err)
			}
			if pos.Speed <= 0 {
				t.Errorf("%s speed %f at jd %f, want positive", body, pos.Speed, jd)
			}
		}
	}
}

func TestApproxProvider_SiderealOffset(t *testing.T) {
	p := NewApproxProvider()
	jd := JulianDay(2026, 8, 25, 0)
	trop, err := p.Query(jd, models.BodySun, false)
	if err != nil {
		t.Fatal(err)
	}
	sid, err := p.Query(jd, models.BodySun, true)
	if err != nil {
		t.Fatal(err)
	}
	offset := models.NormalizeLongitude(trop.Longitude - sid.Longitude)
	// Lahiri ayanamsa is roughly 24 degrees in the current era.
	if offset < 23 || offset > 26 {
		t.Errorf("sidereal offset = %f, want ~24 degrees", offset)
	}
}

func TestLahiriAyanamsaDrift(t *testing.T) {
	a2000 := LahiriAyanamsa(J2000)
	a2100 := LahiriAyanamsa(J2000 + 100*365.25)
	drift := a2100 - a2000
	// ~50.29"/yr over a century is ~1.4 degrees.
	if drift < 1.3 || drift > 1.5 {
		t.Errorf("century drift = %f, want ~1.4 degrees", drift)
	}
}

func TestAngleDiffWrapping(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{10, 350, 20},
		{350, 10, -20},
		{180, 0, 180},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := angleDiff(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("angleDiff(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
