// Package hours computes planetary hour tables: the 24 unequal divisions
// of a solar day, each ruled by one of the seven classical planets.
package hours

import (
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/alchm-dev/alchm-core/internal/models"
)

// SolarFunc returns sunrise and sunset for a civil date at a location.
// Both times are UTC. Zero times signal a polar day or night with no
// boundary crossing.
type SolarFunc func(latitude, longitude float64, year int, month time.Month, day int) (time.Time, time.Time)

// Scheduler builds daily hour tables. The solar function is injectable so
// tests can pin boundary times; production uses the NOAA algorithm.
type Scheduler struct {
	solar SolarFunc
}

// New returns a scheduler backed by the standard solar calculation.
func New() *Scheduler {
	return &Scheduler{solar: sunrise.SunriseSunset}
}

// NewWithSolar returns a scheduler over a custom solar function.
func NewWithSolar(fn SolarFunc) *Scheduler {
	return &Scheduler{solar: fn}
}

// TableFor computes the 24-hour table for the civil date of t at the given
// location. Day hours divide sunrise..sunset into 12 equal parts, night
// hours divide sunset..next-sunrise. Rulers walk the Chaldean order
// backward from the day ruler: hour k is ruled by order[(start-k) mod 7].
func (s *Scheduler) TableFor(t time.Time, latitude, longitude float64) (models.DailyHourTable, error) {
	t = t.UTC()
	year, month, day := t.Date()

	rise, set := s.solar(latitude, longitude, year, month, day)
	if rise.IsZero() || set.IsZero() {
		return models.DailyHourTable{}, fmt.Errorf("%w: %s at %.4f,%.4f",
			models.ErrNoDaylightBoundary, t.Format("2006-01-02"), latitude, longitude)
	}

	next := t.AddDate(0, 0, 1)
	nextRise, nextSet := s.solar(latitude, longitude, next.Year(), next.Month(), next.Day())
	if nextRise.IsZero() || nextSet.IsZero() {
		return models.DailyHourTable{}, fmt.Errorf("%w: %s at %.4f,%.4f",
			models.ErrNoDaylightBoundary, next.Format("2006-01-02"), latitude, longitude)
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	dayRuler := models.DayRulers[date.Weekday()]
	start := models.ChaldeanIndex(dayRuler)

	table := models.DailyHourTable{
		Date:        date,
		Latitude:    latitude,
		Longitude:   longitude,
		Sunrise:     rise,
		Sunset:      set,
		NextSunrise: nextRise,
		Hours:       make([]models.PlanetaryHour, 0, 24),
	}

	dayLen := set.Sub(rise) / 12
	for k := 0; k < 12; k++ {
		table.Hours = append(table.Hours, models.PlanetaryHour{
			Period: models.DayPeriod,
			Index:  k + 1,
			Start:  rise.Add(time.Duration(k) * dayLen),
			End:    rise.Add(time.Duration(k+1) * dayLen),
			Ruler:  rulerAt(start, k),
		})
	}
	// The last day hour ends exactly at sunset, absorbing division remainder.
	table.Hours[11].End = set

	nightLen := nextRise.Sub(set) / 12
	for k := 0; k < 12; k++ {
		table.Hours = append(table.Hours, models.PlanetaryHour{
			Period: models.NightPeriod,
			Index:  k + 1,
			Start:  set.Add(time.Duration(k) * nightLen),
			End:    set.Add(time.Duration(k+1) * nightLen),
			Ruler:  rulerAt(start, 12+k),
		})
	}
	table.Hours[23].End = nextRise

	return table, nil
}

// rulerAt resolves the ruler of the k-th hour after sunrise (0-based) for a
// day whose ruler sits at start in the Chaldean order. The sequence steps
// backward through the order, so consecutive hours regress toward slower
// planets before wrapping.
func rulerAt(start, k int) models.Planet {
	idx := (start - k) % 7
	if idx < 0 {
		idx += 7
	}
	return models.ChaldeanOrder[idx]
}

// HourAt finds the planetary hour containing the instant. Instants before
// the day's sunrise belong to the previous day's night hours, so the table
// for the preceding date is consulted.
func (s *Scheduler) HourAt(t time.Time, latitude, longitude float64) (models.PlanetaryHour, error) {
	t = t.UTC()
	table, err := s.TableFor(t, latitude, longitude)
	if err != nil {
		return models.PlanetaryHour{}, err
	}
	if t.Before(table.Sunrise) {
		table, err = s.TableFor(t.AddDate(0, 0, -1), latitude, longitude)
		if err != nil {
			return models.PlanetaryHour{}, err
		}
	}
	for _, h := range table.Hours {
		if h.Contains(t) {
			return h, nil
		}
	}
	return models.PlanetaryHour{}, fmt.Errorf("no planetary hour covers %s", t.Format(time.RFC3339))
}

// RulerOfInstant is HourAt reduced to the ruling planet.
func (s *Scheduler) RulerOfInstant(t time.Time, latitude, longitude float64) (models.Planet, error) {
	h, err := s.HourAt(t, latitude, longitude)
	if err != nil {
		return "", err
	}
	return h.Ruler, nil
}
