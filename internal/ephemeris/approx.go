package ephemeris

import (
	"fmt"
	"math"

	"github.com/alchm-dev/alchm-core/internal/models"
)

// ApproxProvider is the built-in fallback: Keplerian mean-element
// propagation for the planets, truncated lunar theory for the Moon, and the
// mean node regression formula. Accuracy is on the order of arcminutes,
// which is ample for sign placement and hour scoring.
type ApproxProvider struct{}

// NewApproxProvider returns the built-in approximate provider.
func NewApproxProvider() *ApproxProvider { return &ApproxProvider{} }

func (p *ApproxProvider) Name() string { return "kepler-approx" }

func (p *ApproxProvider) Precision() string { return "moderate (arcminute)" }

// Query computes the body's geocentric ecliptic longitude at the Julian day.
// Speed is obtained by central difference over half a day, which also yields
// the retrograde sign.
func (p *ApproxProvider) Query(julianDay float64, body models.Body, sidereal bool) (Position, error) {
	lon, err := tropicalLongitude(julianDay, body)
	if err != nil {
		return Position{}, err
	}
	before, err := tropicalLongitude(julianDay-0.25, body)
	if err != nil {
		return Position{}, err
	}
	after, err := tropicalLongitude(julianDay+0.25, body)
	if err != nil {
		return Position{}, err
	}
	speed := angleDiff(after, before) / 0.5

	if sidereal {
		lon = models.NormalizeLongitude(lon - LahiriAyanamsa(julianDay))
	}
	return Position{Longitude: lon, Speed: speed}, nil
}

// angleDiff returns a-b wrapped into (-180, 180].
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b+540, 360) - 180
	return d
}

func tropicalLongitude(jd float64, body models.Body) (float64, error) {
	switch body {
	case models.BodySun:
		x, y, _ := earthHeliocentric(jd)
		return models.NormalizeLongitude(math.Atan2(-y, -x) * 180 / math.Pi), nil
	case models.BodyMoon:
		return moonLongitude(jd), nil
	case models.BodyNorthNode:
		return meanNodeLongitude(jd), nil
	case models.BodySouthNode:
		return models.NormalizeLongitude(meanNodeLongitude(jd) + 180), nil
	}

	el, ok := planetElements[body]
	if !ok {
		return 0, fmt.Errorf("no orbital elements for body %q", body)
	}
	px, py, _ := heliocentric(jd, el)
	ex, ey, _ := earthHeliocentric(jd)
	return models.NormalizeLongitude(math.Atan2(py-ey, px-ex) * 180 / math.Pi), nil
}

// elements holds Keplerian elements at J2000 and their per-century rates
// (JPL approximate planetary elements, valid 1800-2050; Pluto from the
// extended table).
type elements struct {
	a, aDot   float64 // semi-major axis, AU
	e, eDot   float64 // eccentricity
	i, iDot   float64 // inclination, degrees
	l, lDot   float64 // mean longitude, degrees
	w, wDot   float64 // longitude of perihelion, degrees
	om, omDot float64 // longitude of ascending node, degrees
}

var planetElements = map[models.Body]elements{
	models.BodyMercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749,
		252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	models.BodyVenus: {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890,
		181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	models.BodyMars: {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131,
		-4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	models.BodyJupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714,
		34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	models.BodySaturn: {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609,
		49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	models.BodyUranus: {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939,
		313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	models.BodyNeptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372,
		-55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
	models.BodyPluto: {39.48211675, -0.00031596, 0.24882730, 0.00005170, 17.14001206, 0.00004818,
		238.92903833, 145.20780515, 224.06891629, -0.04062942, 110.30393684, -0.01183482},
}

// earthElements is the EM barycenter row from the same table.
var earthElements = elements{1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668,
	100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0, 0}

// heliocentric propagates the elements to jd and returns ecliptic J2000
// rectangular coordinates in AU.
func heliocentric(jd float64, el elements) (x, y, z float64) {
	t := (jd - J2000) / 36525

	a := el.a + el.aDot*t
	e := el.e + el.eDot*t
	i := (el.i + el.iDot*t) * math.Pi / 180
	l := el.l + el.lDot*t
	w := el.w + el.wDot*t
	om := el.om + el.omDot*t

	// Mean anomaly and argument of perihelion.
	m := math.Mod(l-w, 360)
	if m < -180 {
		m += 360
	} else if m > 180 {
		m -= 360
	}
	argPeri := (w - om) * math.Pi / 180
	node := om * math.Pi / 180
	mRad := m * math.Pi / 180

	// Kepler's equation by Newton iteration.
	ecc := mRad + e*math.Sin(mRad)
	for iter := 0; iter < 8; iter++ {
		delta := (ecc - e*math.Sin(ecc) - mRad) / (1 - e*math.Cos(ecc))
		ecc -= delta
		if math.Abs(delta) < 1e-9 {
			break
		}
	}

	// Position in the orbital plane.
	xp := a * (math.Cos(ecc) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(ecc)

	cw, sw := math.Cos(argPeri), math.Sin(argPeri)
	co, so := math.Cos(node), math.Sin(node)
	ci, si := math.Cos(i), math.Sin(i)

	x = (cw*co-sw*so*ci)*xp + (-sw*co-cw*so*ci)*yp
	y = (cw*so+sw*co*ci)*xp + (-sw*so+cw*co*ci)*yp
	z = sw*si*xp + cw*si*yp
	return x, y, z
}

func earthHeliocentric(jd float64) (x, y, z float64) {
	return heliocentric(jd, earthElements)
}

// moonLongitude is a truncated version of the lunar theory: the mean
// longitude plus the six largest periodic terms, good to roughly a tenth of
// a degree.
func moonLongitude(jd float64) float64 {
	t := (jd - J2000) / 36525
	rad := math.Pi / 180

	lp := 218.3164477 + 481267.88123421*t // mean longitude
	d := 297.8501921 + 445267.1114034*t   // mean elongation
	m := 357.5291092 + 35999.0502909*t    // sun mean anomaly
	mp := 134.9633964 + 477198.8675055*t  // moon mean anomaly
	f := 93.2720950 + 483202.0175233*t    // argument of latitude

	lon := lp +
		6.288774*math.Sin(mp*rad) +
		1.274027*math.Sin((2*d-mp)*rad) +
		0.658314*math.Sin(2*d*rad) +
		0.213618*math.Sin(2*mp*rad) -
		0.185116*math.Sin(m*rad) -
		0.114332*math.Sin(2*f*rad)

	return models.NormalizeLongitude(lon)
}

// meanNodeLongitude is the regression of the Moon's mean ascending node.
// The motion is always westward, so the node is permanently retrograde.
func meanNodeLongitude(jd float64) float64 {
	t := (jd - J2000) / 36525
	return models.NormalizeLongitude(125.0445479 - 1934.1362891*t + 0.0020754*t*t)
}
