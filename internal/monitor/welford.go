package monitor

import "math"

const (
	epsilon = 1e-9
	// sigmaFloor keeps the z-score finite on a flat baseline.
	sigmaFloor = 0.5
)

// welford accumulates streaming mean and variance without storing samples.
type welford struct {
	count int
	mean  float64
	m2    float64
}

func (w *welford) update(value float64) {
	w.count++
	delta := value - w.mean
	w.mean += delta / float64(w.count)
	w.m2 += delta * (value - w.mean)
}

func (w *welford) sigma() float64 {
	if w.count < 2 {
		return sigmaFloor
	}
	variance := w.m2 / float64(w.count-1)
	return math.Max(math.Sqrt(variance), sigmaFloor)
}
