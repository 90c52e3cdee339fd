// Package ephemeris abstracts the celestial position backends behind a
// provider strategy: a precise Swiss Ephemeris binding and an approximate
// built-in Kepler propagation used as a fallback.
package ephemeris

import (
	"math"

	"github.com/alchm-dev/alchm-core/internal/models"
)

// Position is one body's raw ecliptic state at a Julian day.
type Position struct {
	Longitude float64 // ecliptic longitude, degrees [0,360)
	Latitude  float64 // ecliptic latitude, degrees
	Distance  float64 // AU (0 when the backend does not report it)
	Speed     float64 // longitude speed, degrees/day
}

// Provider serves position queries for tracked bodies. Implementations must
// be safe for concurrent queries.
type Provider interface {
	// Name identifies the backend in logs and result metadata.
	Name() string
	// Precision is a human-readable precision statement.
	Precision() string
	// Query returns the body's position at the given Julian day (UT).
	// Sidereal queries apply the Lahiri ayanamsa.
	Query(julianDay float64, body models.Body, sidereal bool) (Position, error)
}

// JulianDay converts a proleptic Gregorian civil date and fractional UT hour
// to a Julian day number.
func JulianDay(year, month, day int, hour float64) float64 {
	if month <= 2 {
		year--
		month += 12
	}
	a := year / 100
	b := 2 - a + a/4
	jd := math.Floor(365.25*float64(year+4716)) +
		math.Floor(30.6001*float64(month+1)) +
		float64(day) + float64(b) - 1524.5
	return jd + hour/24
}

// CivilHour combines integer hour and minute into the fractional hour a
// Julian day conversion expects.
func CivilHour(hour, minute int) float64 {
	return float64(hour) + float64(minute)/60
}

// J2000 is the Julian day of the standard epoch.
const J2000 = 2451545.0

// LahiriAyanamsa approximates the Lahiri sidereal offset in degrees at the
// given Julian day: 23.856 degrees at J2000 drifting 50.2888 arcseconds per
// Julian year. Adequate for the fallback provider; the precise backend
// computes its own.
func LahiriAyanamsa(julianDay float64) float64 {
	years := (julianDay - J2000) / 365.25
	return 23.856148 + years*(50.2888/3600)
}
