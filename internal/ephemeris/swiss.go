package ephemeris

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mshafiee/swephgo"

	"github.com/alchm-dev/alchm-core/internal/models"
)

// swissBodies maps tracked bodies to Swiss Ephemeris body IDs. South Node is
// absent: it is derived from the North Node by the caller.
var swissBodies = map[models.Body]int{
	models.BodySun:       swephgo.SeSun,
	models.BodyMoon:      swephgo.SeMoon,
	models.BodyMercury:   swephgo.SeMercury,
	models.BodyVenus:     swephgo.SeVenus,
	models.BodyMars:      swephgo.SeMars,
	models.BodyJupiter:   swephgo.SeJupiter,
	models.BodySaturn:    swephgo.SeSaturn,
	models.BodyUranus:    swephgo.SeUranus,
	models.BodyNeptune:   swephgo.SeNeptune,
	models.BodyPluto:     swephgo.SePluto,
	models.BodyNorthNode: swephgo.SeMeanNode,
}

// SwissProvider queries the Swiss Ephemeris through its C binding. The
// underlying library keeps global state, so calls are serialized.
type SwissProvider struct {
	mu       sync.Mutex
	sidereal bool // last configured zodiac mode
}

// NewSwissProvider initializes the Swiss Ephemeris with its built-in
// (Moshier) ephemeris data.
func NewSwissProvider(ephePath string) *SwissProvider {
	swephgo.SetEphePath([]byte(ephePath))
	return &SwissProvider{}
}

func (p *SwissProvider) Name() string { return "swisseph" }

func (p *SwissProvider) Precision() string { return "high (sub-arcsecond)" }

// Query calculates one body's position with speed. A negative return from
// the library is reported as an unavailable-provider error so the calculator
// can fall back.
func (p *SwissProvider) Query(julianDay float64, body models.Body, sidereal bool) (Position, error) {
	id, ok := swissBodies[body]
	if !ok {
		return Position{}, fmt.Errorf("body %q has no Swiss Ephemeris ID", body)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	flags := swephgo.SeflgSwieph | swephgo.SeflgSpeed
	if sidereal {
		if !p.sidereal {
			swephgo.SetSidMode(swephgo.SeSidmLahiri, 0, 0)
			p.sidereal = true
		}
		flags |= swephgo.SeflgSidereal
	}

	xx := make([]float64, 6)
	serr := make([]byte, 256)
	if ret := swephgo.CalcUt(julianDay, id, flags, xx, serr); ret < 0 {
		msg := strings.TrimRight(string(serr), "\x00")
		return Position{}, fmt.Errorf("%w: calc_ut(%s): %s", models.ErrEphemerisUnavailable, body, msg)
	}

	return Position{
		Longitude: models.NormalizeLongitude(xx[0]),
		Latitude:  xx[1],
		Distance:  xx[2],
		Speed:     xx[3],
	}, nil
}

// Close releases the Swiss Ephemeris file handles.
func (p *SwissProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	swephgo.Close()
}
