package models

import (
	"errors"
	"time"
)

// HourPeriod distinguishes day hours (sunrise to sunset) from night hours
// (sunset to next sunrise).
type HourPeriod string

const (
	DayPeriod   HourPeriod = "day"
	NightPeriod HourPeriod = "night"
)

// PlanetaryHour is one of the 24 unequal divisions of a solar day.
type PlanetaryHour struct {
	Period HourPeriod `json:"period"`
	Index  int        `json:"index"` // 1-12 within the period
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
	Ruler  Planet     `json:"ruler"`
}

// Contains reports whether the instant falls inside this hour. The start is
// inclusive, the end exclusive, so adjacent hours never overlap.
func (h PlanetaryHour) Contains(t time.Time) bool {
	return !t.Before(h.Start) && t.Before(h.End)
}

// DailyHourTable is the ordered sequence of 24 planetary hours for one civil
// date at one location. Computed fresh per (date, location), never mutated.
type DailyHourTable struct {
	Date        time.Time       `json:"date"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
	Sunrise     time.Time       `json:"sunrise"`
	Sunset      time.Time       `json:"sunset"`
	NextSunrise time.Time       `json:"next_sunrise"`
	Hours       []PlanetaryHour `json:"hours"`
}

// Validate checks table structure: exactly 24 hours, contiguous and
// non-overlapping, rulers drawn only from the Chaldean set.
func (t DailyHourTable) Validate() error {
	if len(t.Hours) != 24 {
		return errors.New("hour table must contain exactly 24 hours")
	}
	for i, h := range t.Hours {
		if !h.End.After(h.Start) {
			return errors.New("hour end must be after hour start")
		}
		if ChaldeanIndex(h.Ruler) < 0 {
			return errors.New("hour ruler must be a classical planet")
		}
		if i > 0 && !h.Start.Equal(t.Hours[i-1].End) {
			return errors.New("hours must be contiguous")
		}
	}
	return nil
}
