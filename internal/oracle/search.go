// Package oracle implements the transmutation window search: walking the
// planetary hour tables across a forecast horizon and scoring the hours
// favorable to a detected imbalance.
package oracle

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alchm-dev/alchm-core/internal/hours"
	"github.com/alchm-dev/alchm-core/internal/logger"
	"github.com/alchm-dev/alchm-core/internal/models"
	"github.com/alchm-dev/alchm-core/internal/season"
)

const (
	favorableBonus  = 1.5
	steamMultiplier = 1.5
)

// favorablePlanets maps each correctable imbalance to the hour rulers whose
// energy counters it. A balanced group has nothing to correct.
var favorablePlanets = map[models.ImbalanceCategory]map[models.Planet]bool{
	models.MatterStagnation: {models.Mars: true, models.Sun: true, models.Jupiter: true},
	models.SpiritVolatility: {models.Saturn: true, models.Venus: true, models.Moon: true},
}

// Searcher walks hour tables day by day looking for favorable hours. The
// clock is injectable for tests.
type Searcher struct {
	scheduler *hours.Scheduler
	now       func() time.Time
}

// NewSearcher builds a searcher over the given scheduler.
func NewSearcher(s *hours.Scheduler) *Searcher {
	return &Searcher{scheduler: s, now: time.Now}
}

// Search returns the transmutation windows for the imbalance over the next
// horizonDays, in chronological order. A balanced category yields no
// windows; an unknown category is a caller error. Days with no daylight
// boundary are skipped with a log line rather than aborting the horizon.
//
// Per-day tables are computed concurrently and merged back into
// chronological order afterward.
func (s *Searcher) Search(ctx context.Context, imbalance models.ImbalanceCategory, latitude, longitude float64, horizonDays int) ([]models.TransmutationWindow, error) {
	if !imbalance.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownImbalance, imbalance)
	}
	if imbalance == models.Balanced {
		return []models.TransmutationWindow{}, nil
	}
	if horizonDays < 1 {
		return nil, fmt.Errorf("forecast horizon must be at least one day, got %d", horizonDays)
	}

	favorable := favorablePlanets[imbalance]
	now := s.now().UTC()
	seasonElement := season.ElementOf(now)

	perDay := make([][]models.TransmutationWindow, horizonDays)
	g, ctx := errgroup.WithContext(ctx)
	for d := 0; d < horizonDays; d++ {
		d := d
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			date := now.AddDate(0, 0, d)
			table, err := s.scheduler.TableFor(date, latitude, longitude)
			if err != nil {
				logger.Warn("Skipping %s: %v", date.Format("2006-01-02"), err)
				return nil
			}
			perDay[d] = s.windowsFromTable(table, favorable, imbalance, seasonElement, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	windows := make([]models.TransmutationWindow, 0, 8)
	for _, day := range perDay {
		windows = append(windows, day...)
	}
	return windows, nil
}

func (s *Searcher) windowsFromTable(table models.DailyHourTable, favorable map[models.Planet]bool, imbalance models.ImbalanceCategory, seasonElement models.Element, now time.Time) []models.TransmutationWindow {
	var windows []models.TransmutationWindow
	for _, h := range table.Hours {
		if !favorable[h.Ruler] {
			continue
		}
		if !h.End.After(now) {
			continue
		}
		potency := favorableBonus
		if models.Opposed(seasonElement, models.PlanetElements[h.Ruler]) {
			potency *= steamMultiplier
		}
		windows = append(windows, models.TransmutationWindow{
			ID:        uuid.New().String(),
			Date:      table.Date.Format("2006-01-02"),
			Start:     h.Start,
			End:       h.End,
			Ruler:     h.Ruler,
			Imbalance: imbalance,
			Potency:   potency,
		})
	}
	return windows
}

// TopByPotency returns the n most potent windows, ties broken
// chronologically. The input slice is left untouched.
func TopByPotency(windows []models.TransmutationWindow, n int) []models.TransmutationWindow {
	sorted := make([]models.TransmutationWindow, len(windows))
	copy(sorted, windows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Potency != sorted[j].Potency {
			return sorted[i].Potency > sorted[j].Potency
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
