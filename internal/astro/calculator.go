// Package astro implements the ephemeris position calculator: per-body
// zodiac placements for a civil instant, with a precise backend and an
// approximate fallback.
package astro

import (
	"fmt"

	"github.com/alchm-dev/alchm-core/internal/ephemeris"
	"github.com/alchm-dev/alchm-core/internal/logger"
	"github.com/alchm-dev/alchm-core/internal/models"
)

// Calculator resolves planetary positions through a provider strategy. If
// the precise provider is unavailable the whole query is retried on the
// fallback; individual body failures are skipped so one bad body never
// empties the result.
type Calculator struct {
	precise  ephemeris.Provider
	fallback ephemeris.Provider
}

// New builds a calculator over an explicit provider pair. fallback may be
// nil, in which case unavailability is fatal.
func New(precise, fallback ephemeris.Provider) *Calculator {
	return &Calculator{precise: precise, fallback: fallback}
}

// NewDefault builds the standard strategy: Swiss Ephemeris backed by the
// built-in Kepler approximation.
func NewDefault(ephePath string) *Calculator {
	return New(ephemeris.NewSwissProvider(ephePath), ephemeris.NewApproxProvider())
}

// Provider returns a single ephemeris.Provider view of the calculator's
// strategy: queries go to the precise backend and fall through to the
// fallback on unavailability. Consumers that only need raw longitudes (the
// lunar oracle) take this instead of the full calculator.
func (c *Calculator) Provider() ephemeris.Provider {
	if c.fallback == nil {
		return c.precise
	}
	return &fallbackProvider{precise: c.precise, fallback: c.fallback}
}

type fallbackProvider struct {
	precise  ephemeris.Provider
	fallback ephemeris.Provider
}

func (f *fallbackProvider) Name() string      { return f.precise.Name() }
func (f *fallbackProvider) Precision() string { return f.precise.Precision() }

func (f *fallbackProvider) Query(jd float64, body models.Body, sidereal bool) (ephemeris.Position, error) {
	pos, err := f.precise.Query(jd, body, sidereal)
	if err == nil {
		return pos, nil
	}
	return f.fallback.Query(jd, body, sidereal)
}

// Positions computes the position set for the given civil UT date and time.
// Hour and minute combine into a fractional hour, so minute-level precision
// carries into the Julian day.
func (c *Calculator) Positions(year, month, day, hour, minute int, system models.ZodiacSystem) (models.PositionSet, error) {
	if !system.Valid() {
		return models.PositionSet{}, fmt.Errorf("unknown zodiac system %q", system)
	}
	jd := ephemeris.JulianDay(year, month, day, ephemeris.CivilHour(hour, minute))
	return c.PositionsAtJulianDay(jd, system)
}

// PositionsAtJulianDay computes the position set for a Julian day directly.
func (c *Calculator) PositionsAtJulianDay(jd float64, system models.ZodiacSystem) (models.PositionSet, error) {
	sidereal := system == models.Sidereal

	positions, err := c.queryAll(c.precise, jd, sidereal)
	provider := c.precise
	if err != nil {
		if c.fallback == nil {
			return models.PositionSet{}, err
		}
		logger.Warn("Precise ephemeris unavailable, using %s: %v", c.fallback.Name(), err)
		positions, err = c.queryAll(c.fallback, jd, sidereal)
		provider = c.fallback
		if err != nil {
			return models.PositionSet{}, err
		}
	}

	return models.PositionSet{
		Positions:    positions,
		Source:       provider.Name(),
		Precision:    provider.Precision(),
		ZodiacSystem: system,
	}, nil
}

// queryAll queries every tracked body. Per-body errors are logged and the
// body skipped; an empty result (or an unavailability error on the first
// body) is returned as ErrEphemerisUnavailable so the caller can switch
// providers.
func (c *Calculator) queryAll(p ephemeris.Provider, jd float64, sidereal bool) (map[models.Body]models.PlanetaryPosition, error) {
	positions := make(map[models.Body]models.PlanetaryPosition, len(models.TrackedBodies))

	for _, body := range models.TrackedBodies {
		if body == models.BodyNorthNode || body == models.BodySouthNode {
			continue // handled together below
		}
		pos, err := p.Query(jd, body, sidereal)
		if err != nil {
			logger.Warn("Skipping %s: %v", body, err)
			continue
		}
		positions[body] = models.NewPlanetaryPosition(body, pos.Longitude, pos.Speed, pos.Speed < 0)
	}

	// Nodes: query the mean North Node, derive the South Node at the exact
	// opposition. Both are flagged retrograde by convention.
	if node, err := p.Query(jd, models.BodyNorthNode, sidereal); err != nil {
		logger.Warn("Skipping lunar nodes: %v", err)
	} else {
		positions[models.BodyNorthNode] = models.NewPlanetaryPosition(
			models.BodyNorthNode, node.Longitude, node.Speed, true)
		positions[models.BodySouthNode] = models.NewPlanetaryPosition(
			models.BodySouthNode, node.Longitude+180, node.Speed, true)
	}

	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: no bodies could be calculated via %s", models.ErrEphemerisUnavailable, p.Name())
	}
	return positions, nil
}
