package lunar

import (
	"fmt"
	"time"

	"github.com/alchm-dev/alchm-core/internal/ephemeris"
	"github.com/alchm-dev/alchm-core/internal/models"
)

// Window is a day judged by the Moon's mansion: which food types the day
// favors and the phase coloring it.
type Window struct {
	Date     string  `json:"date"`
	Mansion  string  `json:"mansion"`
	FoodType string  `json:"food_type"`
	Phase    string  `json:"phase"`
	Start    string  `json:"start_time"`
}

// Oracle projects mansion-based windows across a forecast horizon.
type Oracle struct {
	provider ephemeris.Provider
	now      func() time.Time
}

// NewOracle builds an oracle over the given ephemeris provider.
func NewOracle(p ephemeris.Provider) *Oracle {
	return &Oracle{provider: p, now: time.Now}
}

// OptimalWindows returns one window per day for the next days days, starting
// today. The Moon's longitude is sampled at the current civil time shifted
// forward day by day.
func (o *Oracle) OptimalWindows(days int) ([]Window, error) {
	if days < 1 {
		return nil, fmt.Errorf("forecast horizon must be at least one day, got %d", days)
	}

	now := o.now().UTC()
	windows := make([]Window, 0, days)

	for d := 0; d < days; d++ {
		at := now.AddDate(0, 0, d)
		jd := ephemeris.JulianDay(at.Year(), int(at.Month()), at.Day(),
			ephemeris.CivilHour(at.Hour(), at.Minute()))

		pos, err := o.provider.Query(jd, models.BodyMoon, false)
		if err != nil {
			return nil, fmt.Errorf("moon position for %s: %w", at.Format("2006-01-02"), err)
		}
		mansion := MansionOf(pos.Longitude)
		windows = append(windows, Window{
			Date:     at.Format("2006-01-02"),
			Mansion:  mansion.Name,
			FoodType: mansion.FoodType,
			Phase:    PhaseAt(at).Name,
			Start:    at.Format("15:04"),
		})
	}
	return windows, nil
}
