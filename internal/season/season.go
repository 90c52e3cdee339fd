// Package season resolves the solar zodiac season of a civil date and the
// seasonal ingredient boosts tied to it.
package season

import (
	"time"

	"github.com/alchm-dev/alchm-core/internal/models"
)

// boundary marks the first day of a sign's season.
type boundary struct {
	month time.Month
	day   int
	sign  models.ZodiacSign
}

// boundaries in calendar order. Capricorn straddles the year end, so dates
// before Jan 20 resolve to it via the wrap case in SignOf.
var boundaries = []boundary{
	{time.January, 20, models.Aquarius},
	{time.February, 19, models.Pisces},
	{time.March, 21, models.Aries},
	{time.April, 20, models.Taurus},
	{time.May, 21, models.Gemini},
	{time.June, 21, models.Cancer},
	{time.July, 23, models.Leo},
	{time.August, 23, models.Virgo},
	{time.September, 23, models.Libra},
	{time.October, 23, models.Scorpio},
	{time.November, 22, models.Sagittarius},
	{time.December, 22, models.Capricorn},
}

// SignOf returns the zodiac season containing the civil date.
func SignOf(t time.Time) models.ZodiacSign {
	sign := models.Capricorn
	for _, b := range boundaries {
		if t.Month() > b.month || (t.Month() == b.month && t.Day() >= b.day) {
			sign = b.sign
		}
	}
	return sign
}

// ElementOf returns the element of the current solar season.
func ElementOf(t time.Time) models.Element {
	return models.SignElements[SignOf(t)]
}

// Boosts lists the ingredient categories favored while a sign's season is
// active, keyed by element.
type Boosts struct {
	Sign  models.ZodiacSign `json:"current_zodiac"`
	Fire  []string          `json:"fire"`
	Earth []string          `json:"earth"`
	Air   []string          `json:"air"`
	Water []string          `json:"water"`
}

var elementBoosts = map[models.Element][]string{
	models.Fire:  {"chili", "pepper", "garlic"},
	models.Earth: {"grains", "potatoes", "squash"},
	models.Air:   {"microgreens", "sprouts"},
	models.Water: {"soups", "broths", "melons"},
}

// BoostsFor returns the seasonal modifiers for a date: the active sign and
// the ingredient boost list for its element.
func BoostsFor(t time.Time) Boosts {
	sign := SignOf(t)
	b := Boosts{Sign: sign}
	switch models.SignElements[sign] {
	case models.Fire:
		b.Fire = elementBoosts[models.Fire]
	case models.Earth:
		b.Earth = elementBoosts[models.Earth]
	case models.Air:
		b.Air = elementBoosts[models.Air]
	case models.Water:
		b.Water = elementBoosts[models.Water]
	}
	return b
}
