package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/alchm-dev/alchm-core/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(100, ":memory:")
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testReading(id string, recordedAt time.Time) *models.TransitReading {
	return &models.TransitReading{
		ID: id,
		Quantities: models.AlchemicalQuantities{
			Spirit: 0.4, Essence: 0.3, Matter: 0.5, Substance: 0.45,
			Kinetic: 0.5, Thermal: 0.7,
		},
		HourRuler:     models.Mars,
		SeasonElement: models.Fire,
		Source:        "kepler-approx",
		RecordedAt:    recordedAt,
	}
}

func testWindow(id string, start time.Time, imbalance models.ImbalanceCategory) models.TransmutationWindow {
	return models.TransmutationWindow{
		ID:        id,
		Date:      start.Format("2006-01-02"),
		Start:     start,
		End:       start.Add(time.Hour),
		Ruler:     models.Mars,
		Imbalance: imbalance,
		Potency:   1.5,
	}
}

func TestStorage_AddAndQueryReadings(t *testing.T) {
	s := newTestStorage(t)
	now := time.Now()

	if err := s.AddReading(testReading("r-1", now.Add(-time.Hour))); err != nil {
		t.Fatalf("AddReading: %v", err)
	}
	if err := s.AddReading(testReading("r-2", now)); err != nil {
		t.Fatalf("AddReading: %v", err)
	}

	got, err := s.RecentReadings(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("RecentReadings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d readings, want 2", len(got))
	}
	if got[0].ID != "r-2" {
		t.Errorf("first reading = %s, want newest (r-2)", got[0].ID)
	}
	if got[0].HourRuler != models.Mars || got[0].SeasonElement != models.Fire {
		t.Errorf("celestial context lost in round-trip: %+v", got[0])
	}
	if got[0].Quantities.Spirit != 0.4 {
		t.Errorf("spirit = %f, want 0.4", got[0].Quantities.Spirit)
	}
}

func TestStorage_RecentReadings_CutoffExcludesOld(t *testing.T) {
	s := newTestStorage(t)
	now := time.Now()

	if err := s.AddReading(testReading("r-old", now.Add(-8*24*time.Hour))); err != nil {
		t.Fatalf("AddReading: %v", err)
	}
	if err := s.AddReading(testReading("r-new", now)); err != nil {
		t.Fatalf("AddReading: %v", err)
	}

	got, err := s.RecentReadings(now.Add(-7 * 24 * time.Hour))
	if err != nil {
		t.Fatalf("RecentReadings: %v", err)
	}
	if len(got) != 1 || got[0].ID != "r-new" {
		t.Errorf("got %d readings, want only r-new", len(got))
	}
}

func TestStorage_AddReading_Invalid(t *testing.T) {
	s := newTestStorage(t)
	r := testReading("r-bad", time.Now())
	r.Quantities.Matter = 1.5
	if err := s.AddReading(r); err == nil {
		t.Error("expected error for out-of-range quantities")
	}
}

func TestStorage_HistoryCap(t *testing.T) {
	s, err := New(5, ":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	base := time.Now()
	for i := 0; i < 10; i++ {
		r := testReading(fmt.Sprintf("r-%d", i), base.Add(time.Duration(i)*time.Minute))
		if err := s.AddReading(r); err != nil {
			t.Fatalf("AddReading %d: %v", i, err)
		}
	}

	got, err := s.RecentReadings(base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("RecentReadings: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d readings after cap, want 5", len(got))
	}
	if got[0].ID != "r-9" || got[4].ID != "r-5" {
		t.Errorf("cap kept %s..%s, want newest five (r-9..r-5)", got[0].ID, got[4].ID)
	}
}

func TestStorage_ReplaceAndQueryWindows(t *testing.T) {
	s := newTestStorage(t)
	now := time.Now()

	first := []models.TransmutationWindow{
		testWindow("w-1", now.Add(time.Hour), models.MatterStagnation),
		testWindow("w-2", now.Add(3*time.Hour), models.MatterStagnation),
	}
	if err := s.ReplaceWindows(models.MatterStagnation, first); err != nil {
		t.Fatalf("ReplaceWindows: %v", err)
	}

	got, err := s.WindowsFor(models.MatterStagnation, now)
	if err != nil {
		t.Fatalf("WindowsFor: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d windows, want 2", len(got))
	}
	if got[0].ID != "w-1" || got[1].ID != "w-2" {
		t.Errorf("windows out of chronological order: %s, %s", got[0].ID, got[1].ID)
	}

	// Replacement swaps the whole category.
	second := []models.TransmutationWindow{
		testWindow("w-3", now.Add(2*time.Hour), models.MatterStagnation),
	}
	if err := s.ReplaceWindows(models.MatterStagnation, second); err != nil {
		t.Fatalf("ReplaceWindows: %v", err)
	}
	got, err = s.WindowsFor(models.MatterStagnation, now)
	if err != nil {
		t.Fatalf("WindowsFor: %v", err)
	}
	if len(got) != 1 || got[0].ID != "w-3" {
		t.Errorf("replacement left %d windows, want only w-3", len(got))
	}
}

func TestStorage_WindowsFor_CategoryIsolation(t *testing.T) {
	s := newTestStorage(t)
	now := time.Now()

	if err := s.ReplaceWindows(models.MatterStagnation, []models.TransmutationWindow{
		testWindow("w-m", now.Add(time.Hour), models.MatterStagnation),
	}); err != nil {
		t.Fatalf("ReplaceWindows: %v", err)
	}
	volatility := testWindow("w-s", now.Add(time.Hour), models.SpiritVolatility)
	volatility.Ruler = models.Saturn
	if err := s.ReplaceWindows(models.SpiritVolatility, []models.TransmutationWindow{volatility}); err != nil {
		t.Fatalf("ReplaceWindows: %v", err)
	}

	got, err := s.WindowsFor(models.SpiritVolatility, now)
	if err != nil {
		t.Fatalf("WindowsFor: %v", err)
	}
	if len(got) != 1 || got[0].ID != "w-s" {
		t.Errorf("got %v, want only the volatility window", got)
	}
}

func TestStorage_WindowsFor_ExcludesEnded(t *testing.T) {
	s := newTestStorage(t)
	now := time.Now()

	if err := s.ReplaceWindows(models.MatterStagnation, []models.TransmutationWindow{
		testWindow("w-past", now.Add(-2*time.Hour), models.MatterStagnation),
		testWindow("w-future", now.Add(time.Hour), models.MatterStagnation),
	}); err != nil {
		t.Fatalf("ReplaceWindows: %v", err)
	}

	got, err := s.WindowsFor(models.MatterStagnation, now)
	if err != nil {
		t.Fatalf("WindowsFor: %v", err)
	}
	if len(got) != 1 || got[0].ID != "w-future" {
		t.Errorf("got %d windows, want only the future one", len(got))
	}
}

func TestStorage_PurgeExpiredWindows(t *testing.T) {
	s := newTestStorage(t)
	now := time.Now()

	if err := s.ReplaceWindows(models.MatterStagnation, []models.TransmutationWindow{
		testWindow("w-past", now.Add(-2*time.Hour), models.MatterStagnation),
		testWindow("w-future", now.Add(time.Hour), models.MatterStagnation),
	}); err != nil {
		t.Fatalf("ReplaceWindows: %v", err)
	}
	if err := s.PurgeExpiredWindows(now); err != nil {
		t.Fatalf("PurgeExpiredWindows: %v", err)
	}

	got, err := s.WindowsFor(models.MatterStagnation, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("WindowsFor: %v", err)
	}
	if len(got) != 1 || got[0].ID != "w-future" {
		t.Errorf("purge left %d windows, want only the future one", len(got))
	}
}
