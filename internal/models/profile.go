package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ElementalProfile is a four-way composition over the classical elements.
// Values are expected to sum to approximately 1; the tolerance is enforced
// by Validate, not by the numeric translators, which accept any finite
// input.
type ElementalProfile struct {
	Fire  float64 `json:"fire"`
	Water float64 `json:"water"`
	Earth float64 `json:"earth"`
	Air   float64 `json:"air"`
}

// Neutral is the balanced default profile used when an entity carries no
// elemental data.
func Neutral() ElementalProfile {
	return ElementalProfile{Fire: 0.25, Water: 0.25, Earth: 0.25, Air: 0.25}
}

// Sum returns the total elemental mass.
func (e ElementalProfile) Sum() float64 {
	return e.Fire + e.Water + e.Earth + e.Air
}

// Normalized rescales the profile so the four values sum to 1. A zero
// profile normalizes to the neutral profile.
func (e ElementalProfile) Normalized() ElementalProfile {
	total := e.Sum()
	if total == 0 {
		return Neutral()
	}
	return ElementalProfile{
		Fire:  e.Fire / total,
		Water: e.Water / total,
		Earth: e.Earth / total,
		Air:   e.Air / total,
	}
}

// Dominant returns the element with the largest share. Ties resolve in
// Fire, Water, Earth, Air order.
func (e ElementalProfile) Dominant() Element {
	best, val := Fire, e.Fire
	if e.Water > val {
		best, val = Water, e.Water
	}
	if e.Earth > val {
		best, val = Earth, e.Earth
	}
	if e.Air > val {
		best = Air
	}
	return best
}

// Get returns the share of a single element.
func (e ElementalProfile) Get(el Element) float64 {
	switch el {
	case Fire:
		return e.Fire
	case Water:
		return e.Water
	case Earth:
		return e.Earth
	case Air:
		return e.Air
	}
	return 0
}

// Validate checks the soft normalization invariant: each value in [0,1] and
// the sum within ±0.05 of 1.
func (e ElementalProfile) Validate() error {
	for _, v := range []float64{e.Fire, e.Water, e.Earth, e.Air} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("elemental values must be finite")
		}
		if v < 0 || v > 1 {
			return errors.New("elemental values must be between 0.0 and 1.0")
		}
	}
	if sum := e.Sum(); sum < 0.95 || sum > 1.05 {
		return fmt.Errorf("elemental values should sum to approximately 1.0, got %.3f", sum)
	}
	return nil
}

// ThermodynamicProfile holds the five scalars derived from an elemental
// composition. All values are clamped to their documented ranges.
type ThermodynamicProfile struct {
	Heat        float64 `json:"heat"`        // [-1,1]
	Entropy     float64 `json:"entropy"`     // [-1,1]
	Reactivity  float64 `json:"reactivity"`  // [-1,1]
	Energy      float64 `json:"energy"`      // [0,200]
	Equilibrium float64 `json:"equilibrium"` // [0,1]
}

// AlchemicalQuantities are the four composite scores plus the two scalar
// inputs that produced them, retained for traceability.
type AlchemicalQuantities struct {
	Spirit    float64 `json:"spirit"`
	Essence   float64 `json:"essence"`
	Matter    float64 `json:"matter"`
	Substance float64 `json:"substance"`
	Kinetic   float64 `json:"kinetic"` // input rating, [0,1]
	Thermal   float64 `json:"thermal"` // input rating, [0,1]
}

// BirthChart is a participant's birth moment and place, used to derive a
// natal position set.
type BirthChart struct {
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	Day       int     `json:"day"`
	Hour      int     `json:"hour"`
	Minute    int     `json:"minute"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// Validate checks birth chart field constraints.
func (b BirthChart) Validate() error {
	if b.Year < 1800 || b.Year > 2100 {
		return errors.New("birth year must be between 1800 and 2100")
	}
	if b.Month < 1 || b.Month > 12 {
		return errors.New("birth month must be between 1 and 12")
	}
	if b.Day < 1 || b.Day > 31 {
		return errors.New("birth day must be between 1 and 31")
	}
	if b.Hour < 0 || b.Hour > 23 {
		return errors.New("birth hour must be between 0 and 23")
	}
	if b.Minute < 0 || b.Minute > 59 {
		return errors.New("birth minute must be between 0 and 59")
	}
	if b.Latitude < -90 || b.Latitude > 90 {
		return errors.New("latitude must be between -90 and 90")
	}
	if b.Longitude < -180 || b.Longitude > 180 {
		return errors.New("longitude must be between -180 and 180")
	}
	if b.Timezone != "" {
		if _, err := time.LoadLocation(b.Timezone); err != nil {
			return fmt.Errorf("invalid timezone: %w", err)
		}
	}
	return nil
}

// UTC returns the birth moment converted to UTC. An empty timezone is
// treated as UTC.
func (b BirthChart) UTC() (time.Time, error) {
	loc := time.UTC
	if b.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(b.Timezone)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timezone: %w", err)
		}
	}
	return time.Date(b.Year, time.Month(b.Month), b.Day, b.Hour, b.Minute, 0, 0, loc).UTC(), nil
}

// ImbalanceCategory classifies a group's alchemical axis.
type ImbalanceCategory string

const (
	MatterStagnation ImbalanceCategory = "MatterStagnation"
	SpiritVolatility ImbalanceCategory = "SpiritVolatility"
	Balanced         ImbalanceCategory = "Balanced"
)

// Valid reports whether the category is one of the known values.
func (c ImbalanceCategory) Valid() bool {
	switch c {
	case MatterStagnation, SpiritVolatility, Balanced:
		return true
	}
	return false
}

// CollectiveProfile is the aggregate of several participants' quantities.
type CollectiveProfile struct {
	ParticipantCount int                  `json:"participant_count"`
	Mean             AlchemicalQuantities `json:"mean"`
	Imbalance        ImbalanceCategory    `json:"imbalance"`
}
