package lunar

import (
	"github.com/alchm-dev/alchm-core/internal/models"
)

// MansionWidth is the arc each of the 27 Nakshatras spans.
const MansionWidth = 360.0 / 27

// Mansion is one of the 27 lunar mansions with the food type it favors.
type Mansion struct {
	Name     string `json:"name"`
	Index    int    `json:"index"` // 0-26 in longitude order
	FoodType string `json:"food_type"`
}

var mansions = [27]Mansion{
	{"Ashwini", 0, "Quick & Light"},
	{"Bharani", 1, "Spicy/Transformative"},
	{"Krittika", 2, "Fiery & Sharp"},
	{"Rohini", 3, "Sweet/Nurturing"},
	{"Mrigashira", 4, "Light & Airy"},
	{"Ardra", 5, "Moist & Soft"},
	{"Punarvasu", 6, "Nourishing & Restorative"},
	{"Pushya", 7, "Rich & Milky"},
	{"Ashlesha", 8, "Pungent & Intense"},
	{"Magha", 9, "Royal & Grand"},
	{"Purva Phalguni", 10, "Sweet & Oily"},
	{"Uttara Phalguni", 11, "Simple & Wholesome"},
	{"Hasta", 12, "Light & Easy-to-digest"},
	{"Chitra", 13, "Colorful & Artistic"},
	{"Swati", 14, "Windy & Gassy"},
	{"Vishakha", 15, "Rich & Festive"},
	{"Anuradha", 16, "Mild & Balanced"},
	{"Jyeshtha", 17, "Heavy & Pungent"},
	{"Mula", 18, "Root Vegetables"},
	{"Purva Ashadha", 19, "Liquid & Flowing"},
	{"Uttara Ashadha", 20, "Simple & Pure"},
	{"Shravana", 21, "Light & Sattvic"},
	{"Dhanishta", 22, "Rich & Rhythmic"},
	{"Shatabhisha", 23, "Cleansing & Bitter"},
	{"Purva Bhadrapada", 24, "Fiery & Hot"},
	{"Uttara Bhadrapada", 25, "Grounding & Stable"},
	{"Revati", 26, "Sweet & Nourishing"},
}

// MansionOf returns the lunar mansion containing the Moon's ecliptic
// longitude.
func MansionOf(moonLongitude float64) Mansion {
	idx := int(models.NormalizeLongitude(moonLongitude) / MansionWidth)
	if idx > 26 {
		idx = 26
	}
	return mansions[idx]
}
