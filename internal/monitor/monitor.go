// Package monitor detects drift in the energy stream produced by the
// calculation cycle. Each cycle contributes one thermodynamic energy value;
// the detector keeps a streaming baseline and flags readings that jump far
// outside it, which usually means an ephemeris fault or a genuine celestial
// regime change worth a look.
package monitor

import (
	"math"

	"github.com/alchm-dev/alchm-core/internal/logger"
)

type Config struct {
	// WindowSize bounds the ring buffer of recent signed deltas used for
	// the trend term.
	WindowSize int
	// Threshold is the z-score above which a reading is anomalous.
	Threshold float64
	// MinSamples suppresses anomaly flags until the baseline has seen
	// enough readings to mean anything.
	MinSamples int
}

func DefaultConfig() Config {
	return Config{
		WindowSize: 8,
		Threshold:  3.0,
		MinSamples: 6,
	}
}

// Reading is one observed energy value judged against the baseline.
type Reading struct {
	Value     float64 `json:"value"`
	Mean      float64 `json:"mean"`
	Sigma     float64 `json:"sigma"`
	ZScore    float64 `json:"z_score"`
	Trend     float64 `json:"trend"` // windowed sum of signed deltas
	Anomalous bool    `json:"anomalous"`
}

// Drift is the streaming detector. Not safe for concurrent use; the
// calculation cycle is the only writer.
type Drift struct {
	config  Config
	stats   welford
	buffer  []float64
	index   int
	last    float64
	hasLast bool
}

func New(config Config) *Drift {
	return &Drift{
		config: config,
		buffer: make([]float64, 0, config.WindowSize),
	}
}

// Observe folds one energy value into the detector and returns the
// judgement. Anomalous readings are kept out of the baseline so a fault
// cannot normalize itself.
func (d *Drift) Observe(value float64) Reading {
	mean := d.stats.mean
	sigma := d.stats.sigma()

	z := 0.0
	if d.stats.count > 0 {
		z = math.Abs(value-mean) / (sigma + epsilon)
	}

	if d.hasLast {
		d.push(value - d.last)
	}
	d.last = value
	d.hasLast = true

	var trend float64
	for _, delta := range d.buffer {
		trend += delta
	}

	anomalous := d.stats.count >= d.config.MinSamples && z > d.config.Threshold
	if anomalous {
		logger.Warn("Energy drift: value %.2f vs baseline %.2f±%.2f (z=%.1f, trend %+.2f)",
			value, mean, sigma, z, trend)
	} else {
		d.stats.update(value)
	}

	return Reading{
		Value:     value,
		Mean:      mean,
		Sigma:     sigma,
		ZScore:    z,
		Trend:     trend,
		Anomalous: anomalous,
	}
}

func (d *Drift) push(delta float64) {
	if len(d.buffer) < d.config.WindowSize {
		d.buffer = append(d.buffer, delta)
		return
	}
	d.buffer[d.index] = delta
	d.index = (d.index + 1) % d.config.WindowSize
}
