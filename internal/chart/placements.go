// Package chart computes zodiac placements for a birth moment, degrading
// through progressively simpler sources when external data is unavailable.
package chart

import (
	"strings"

	"github.com/orastria/astrobook/internal/zodiac"
)

// Celestial point names tracked in a chart.
const (
	PointSun       = "sun_sign"
	PointMoon      = "moon_sign"
	PointRising    = "rising_sign"
	PointMercury   = "mercury"
	PointVenus     = "venus"
	PointMars      = "mars"
	PointJupiter   = "jupiter"
	PointSaturn    = "saturn"
	PointMidheaven = "midheaven"
	PointNorthNode = "north_node"
)

// Points lists the tracked points in presentation order.
var Points = []string{
	PointSun, PointMoon, PointRising, PointMercury, PointVenus,
	PointMars, PointJupiter, PointSaturn, PointMidheaven, PointNorthNode,
}

// DefaultSign fills any placement no source could determine, keeping the set
// total.
const DefaultSign = "Aries"

// Placements maps every tracked point to a sign name. The set is always
// total: construction fills missing points with DefaultSign.
type Placements map[string]string

// NewPlacements returns a total placement set seeded from overrides.
// Override values that are not valid sign names are ignored.
func NewPlacements(overrides map[string]string) Placements {
	p := make(Placements, len(Points))
	for _, point := range Points {
		sign := overrides[point]
		if !zodiac.IsSign(sign) {
			sign = DefaultSign
		}
		p[point] = sign
	}
	return p
}

// clone copies a placement set so lookups never mutate the default tier.
func (p Placements) clone() Placements {
	out := make(Placements, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// apiPointNames maps ephemeris API body names to tracked point names.
var apiPointNames = map[string]string{
	"sun":        PointSun,
	"moon":       PointMoon,
	"ascendant":  PointRising,
	"rising":     PointRising,
	"mercury":    PointMercury,
	"venus":      PointVenus,
	"mars":       PointMars,
	"jupiter":    PointJupiter,
	"saturn":     PointSaturn,
	"midheaven":  PointMidheaven,
	"rahu":       PointNorthNode,
	"north node": PointNorthNode,
}

func pointForName(name string) (string, bool) {
	point, ok := apiPointNames[strings.ToLower(strings.TrimSpace(name))]
	return point, ok
}
