// Package models defines the core domain entities: planetary positions,
// elemental profiles, planetary hours, alchemical quantities, and
// transmutation windows.
package models

import (
	"fmt"
	"math"
	"time"
)

// Planet is one of the seven classical planets used for planetary hours.
type Planet string

const (
	Saturn  Planet = "Saturn"
	Jupiter Planet = "Jupiter"
	Mars    Planet = "Mars"
	Sun     Planet = "Sun"
	Venus   Planet = "Venus"
	Mercury Planet = "Mercury"
	Moon    Planet = "Moon"
)

// Body is any tracked celestial body, including the modern planets and the
// lunar nodes.
type Body string

const (
	BodySun       Body = "Sun"
	BodyMoon      Body = "Moon"
	BodyMercury   Body = "Mercury"
	BodyVenus     Body = "Venus"
	BodyMars      Body = "Mars"
	BodyJupiter   Body = "Jupiter"
	BodySaturn    Body = "Saturn"
	BodyUranus    Body = "Uranus"
	BodyNeptune   Body = "Neptune"
	BodyPluto     Body = "Pluto"
	BodyNorthNode Body = "North Node"
	BodySouthNode Body = "South Node"
)

// TrackedBodies lists every body a positions query reports, in traditional
// order. South Node is derived from North Node, never queried directly.
var TrackedBodies = []Body{
	BodySun, BodyMoon, BodyMercury, BodyVenus, BodyMars,
	BodyJupiter, BodySaturn, BodyUranus, BodyNeptune, BodyPluto,
	BodyNorthNode, BodySouthNode,
}

// ZodiacSystem selects the zodiac reference frame for position queries.
type ZodiacSystem string

const (
	Tropical ZodiacSystem = "tropical"
	Sidereal ZodiacSystem = "sidereal"
)

// Valid reports whether the zodiac system is one of the supported values.
func (z ZodiacSystem) Valid() bool {
	return z == Tropical || z == Sidereal
}

// ZodiacSign is one of the twelve 30-degree segments of ecliptic longitude.
type ZodiacSign string

const (
	Aries       ZodiacSign = "aries"
	Taurus      ZodiacSign = "taurus"
	Gemini      ZodiacSign = "gemini"
	Cancer      ZodiacSign = "cancer"
	Leo         ZodiacSign = "leo"
	Virgo       ZodiacSign = "virgo"
	Libra       ZodiacSign = "libra"
	Scorpio     ZodiacSign = "scorpio"
	Sagittarius ZodiacSign = "sagittarius"
	Capricorn   ZodiacSign = "capricorn"
	Aquarius    ZodiacSign = "aquarius"
	Pisces      ZodiacSign = "pisces"
)

// ZodiacSigns lists the signs in longitude order, 30 degrees each.
var ZodiacSigns = [12]ZodiacSign{
	Aries, Taurus, Gemini, Cancer, Leo, Virgo,
	Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces,
}

// Element is one of the four classical elements.
type Element string

const (
	Fire  Element = "Fire"
	Water Element = "Water"
	Earth Element = "Earth"
	Air   Element = "Air"
)

// SignElements maps each zodiac sign to its element (fire, earth, air,
// water triplicities).
var SignElements = map[ZodiacSign]Element{
	Aries: Fire, Leo: Fire, Sagittarius: Fire,
	Taurus: Earth, Virgo: Earth, Capricorn: Earth,
	Gemini: Air, Libra: Air, Aquarius: Air,
	Cancer: Water, Scorpio: Water, Pisces: Water,
}

// PlanetElements maps each classical planet to the element it channels
// during its planetary hour.
var PlanetElements = map[Planet]Element{
	Sun: Fire, Mars: Fire, Jupiter: Fire,
	Venus: Earth, Saturn: Earth,
	Mercury: Air,
	Moon:    Water,
}

// ChaldeanOrder is the fixed seven-planet sequence used to assign hour
// rulers, slowest body first.
var ChaldeanOrder = [7]Planet{Saturn, Jupiter, Mars, Sun, Venus, Mercury, Moon}

// DayRulers maps a civil weekday to the planet ruling that day's first hour.
var DayRulers = map[time.Weekday]Planet{
	time.Sunday:    Sun,
	time.Monday:    Moon,
	time.Tuesday:   Mars,
	time.Wednesday: Mercury,
	time.Thursday:  Jupiter,
	time.Friday:    Venus,
	time.Saturday:  Saturn,
}

// ChaldeanIndex returns the planet's index in the Chaldean order, or -1 if
// the name is not one of the seven classical planets.
func ChaldeanIndex(p Planet) int {
	for i, c := range ChaldeanOrder {
		if c == p {
			return i
		}
	}
	return -1
}

// Opposed reports whether two elements form a classical steam opposition
// (Fire against Water, Air against Earth).
func Opposed(a, b Element) bool {
	switch {
	case a == Fire && b == Water, a == Water && b == Fire:
		return true
	case a == Air && b == Earth, a == Earth && b == Air:
		return true
	}
	return false
}

// NormalizeLongitude wraps an ecliptic longitude into [0, 360).
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	return lon
}

// SignOfLongitude returns the zodiac sign containing the given ecliptic
// longitude.
func SignOfLongitude(lon float64) ZodiacSign {
	idx := int(NormalizeLongitude(lon) / 30)
	if idx > 11 {
		idx = 11
	}
	return ZodiacSigns[idx]
}

// PlanetaryPosition is a body's ecliptic placement at one instant. Derived,
// immutable, recomputed per query.
type PlanetaryPosition struct {
	Body          Body       `json:"body"`
	Sign          ZodiacSign `json:"sign"`
	Degree        float64    `json:"degree"`          // degree within sign, [0,30)
	Longitude     float64    `json:"exact_longitude"` // ecliptic longitude, [0,360)
	Retrograde    bool       `json:"is_retrograde"`
	Speed         float64    `json:"longitude_speed"`    // degrees/day
	ArcminPerDay  float64    `json:"arcminutes_per_day"` // Speed * 60
	SpeedDisplay  string     `json:"speed_display"`
}

// NewPlanetaryPosition derives sign, degree, and speed display fields from a
// raw longitude and speed.
func NewPlanetaryPosition(body Body, longitude, speed float64, retrograde bool) PlanetaryPosition {
	lon := NormalizeLongitude(longitude)
	arcmin := speed * 60
	display := fmt.Sprintf("%+.2f°/day", speed)
	if math.Abs(arcmin) < 60 {
		display = fmt.Sprintf("%+.1f'/day", arcmin)
	}
	return PlanetaryPosition{
		Body:         body,
		Sign:         SignOfLongitude(lon),
		Degree:       math.Mod(lon, 30),
		Longitude:    lon,
		Retrograde:   retrograde,
		Speed:        speed,
		ArcminPerDay: math.Round(arcmin*100) / 100,
		SpeedDisplay: display,
	}
}

// PositionSet is the result of one positions query: per-body placements plus
// the provider that produced them.
type PositionSet struct {
	Positions    map[Body]PlanetaryPosition `json:"positions"`
	Source       string                     `json:"source"`
	Precision    string                     `json:"precision"`
	ZodiacSystem ZodiacSystem               `json:"zodiac_system"`
}
