package monitor

import (
	"math"
	"testing"
)

func TestObserve_SteadyStreamNeverAnomalous(t *testing.T) {
	d := New(DefaultConfig())
	for i := 0; i < 50; i++ {
		r := d.Observe(100 + math.Sin(float64(i))*0.3)
		if r.Anomalous {
			t.Fatalf("steady stream flagged anomalous at sample %d: %+v", i, r)
		}
	}
}

func TestObserve_JumpIsAnomalous(t *testing.T) {
	d := New(DefaultConfig())
	for i := 0; i < 20; i++ {
		d.Observe(100 + float64(i%3)*0.2)
	}

	r := d.Observe(160)
	if !r.Anomalous {
		t.Fatalf("60-point jump not flagged: %+v", r)
	}
	if r.ZScore <= DefaultConfig().Threshold {
		t.Errorf("z-score = %f, want above threshold", r.ZScore)
	}
}

func TestObserve_AnomalyDoesNotShiftBaseline(t *testing.T) {
	d := New(DefaultConfig())
	for i := 0; i < 20; i++ {
		d.Observe(100)
	}
	before := d.stats.mean

	d.Observe(180)
	if d.stats.mean != before {
		t.Errorf("anomalous reading moved the baseline: %f -> %f", before, d.stats.mean)
	}

	// The next ordinary reading still compares against the clean baseline.
	if r := d.Observe(100.2); r.Anomalous {
		t.Errorf("ordinary reading after anomaly flagged: %+v", r)
	}
}

func TestObserve_WarmupSuppressesFlags(t *testing.T) {
	cfg := DefaultConfig()
	d := New(cfg)

	d.Observe(100)
	// A wild second value: too few samples to judge, must stay quiet.
	if r := d.Observe(500); r.Anomalous {
		t.Errorf("anomaly flagged during warmup: %+v", r)
	}
}

func TestObserve_TrendTracksDirection(t *testing.T) {
	d := New(Config{WindowSize: 4, Threshold: 100, MinSamples: 1})
	var r Reading
	for i := 0; i < 10; i++ {
		r = d.Observe(float64(i) * 2)
	}
	// Four retained deltas of +2 each.
	if r.Trend != 8 {
		t.Errorf("trend = %f, want 8", r.Trend)
	}
}

func TestWelford_SigmaFloor(t *testing.T) {
	var w welford
	for i := 0; i < 10; i++ {
		w.update(42)
	}
	if w.sigma() != sigmaFloor {
		t.Errorf("flat stream sigma = %f, want floor %f", w.sigma(), sigmaFloor)
	}
	if w.mean != 42 {
		t.Errorf("mean = %f, want 42", w.mean)
	}
}
