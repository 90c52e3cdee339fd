package models

import (
	"errors"
	"time"
)

// TransmutationWindow is a forecasted planetary hour judged favorable for
// correcting a detected group imbalance.
type TransmutationWindow struct {
	ID        string            `json:"id"`
	Date      string            `json:"date"` // civil date of the hour table, YYYY-MM-DD
	Start     time.Time         `json:"start"`
	End       time.Time         `json:"end"`
	Ruler     Planet            `json:"ruler"`
	Imbalance ImbalanceCategory `json:"imbalance"`
	Potency   float64           `json:"potency"`
}

// Validate checks window field constraints.
func (w TransmutationWindow) Validate() error {
	if w.ID == "" {
		return errors.New("window ID must not be empty")
	}
	if ChaldeanIndex(w.Ruler) < 0 {
		return errors.New("window ruler must be a classical planet")
	}
	if !w.Imbalance.Valid() {
		return errors.New("window imbalance category is unknown")
	}
	if !w.End.After(w.Start) {
		return errors.New("window end must be after window start")
	}
	if w.Potency <= 0 {
		return errors.New("window potency must be positive")
	}
	return nil
}

// TransitReading is one persisted snapshot of the live calculation chain:
// the quantities, the ratings that produced them, and the celestial context
// at that moment.
type TransitReading struct {
	ID            string               `json:"id"`
	Quantities    AlchemicalQuantities `json:"quantities"`
	HourRuler     Planet               `json:"hour_ruler"`
	SeasonElement Element              `json:"season_element"`
	Source        string               `json:"source"` // ephemeris provider that served the reading
	RecordedAt    time.Time            `json:"recorded_at"`
}

// Validate checks reading field constraints.
func (r TransitReading) Validate() error {
	if r.ID == "" {
		return errors.New("reading ID must not be empty")
	}
	if ChaldeanIndex(r.HourRuler) < 0 {
		return errors.New("reading hour ruler must be a classical planet")
	}
	for _, v := range []float64{
		r.Quantities.Spirit, r.Quantities.Essence,
		r.Quantities.Matter, r.Quantities.Substance,
	} {
		if v < 0 || v > 1 {
			return errors.New("quantities must be between 0.0 and 1.0")
		}
	}
	if r.RecordedAt.IsZero() {
		return errors.New("reading timestamp must be set")
	}
	return nil
}
