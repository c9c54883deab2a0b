// Package zodiac holds the fixed zodiac tables and the sidereal-to-tropical
// sign mapping used for chart placements.
package zodiac

import "math"

// AyanamsaOffset is the Lahiri sidereal-to-tropical correction in degrees.
// It is pinned rather than derived from the chart date; real Lahiri ayanamsa
// drifts roughly 0.014 degrees per year, but the product convention fixes it
// at 24 and both conversion paths below depend on that value.
const AyanamsaOffset = 24.0

// Signs lists the twelve signs in ecliptic order.
var Signs = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

var symbols = map[string]string{
	"Aries": "♈", "Taurus": "♉", "Gemini": "♊", "Cancer": "♋",
	"Leo": "♌", "Virgo": "♍", "Libra": "♎", "Scorpio": "♏",
	"Sagittarius": "♐", "Capricorn": "♑", "Aquarius": "♒", "Pisces": "♓",
}

// Info describes a sign's classical attributes.
type Info struct {
	Element  string
	Modality string
	Ruler    string
}

var signInfo = map[string]Info{
	"Aries":       {Element: "Fire", Modality: "Cardinal", Ruler: "Mars"},
	"Taurus":      {Element: "Earth", Modality: "Fixed", Ruler: "Venus"},
	"Gemini":      {Element: "Air", Modality: "Mutable", Ruler: "Mercury"},
	"Cancer":      {Element: "Water", Modality: "Cardinal", Ruler: "Moon"},
	"Leo":         {Element: "Fire", Modality: "Fixed", Ruler: "Sun"},
	"Virgo":       {Element: "Earth", Modality: "Mutable", Ruler: "Mercury"},
	"Libra":       {Element: "Air", Modality: "Cardinal", Ruler: "Venus"},
	"Scorpio":     {Element: "Water", Modality: "Fixed", Ruler: "Pluto"},
	"Sagittarius": {Element: "Fire", Modality: "Mutable", Ruler: "Jupiter"},
	"Capricorn":   {Element: "Earth", Modality: "Cardinal", Ruler: "Saturn"},
	"Aquarius":    {Element: "Air", Modality: "Fixed", Ruler: "Uranus"},
	"Pisces":      {Element: "Water", Modality: "Mutable", Ruler: "Neptune"},
}

// SignForLongitude maps a sidereal ecliptic longitude in degrees to a
// tropical sign name: index = floor(((deg + AyanamsaOffset) mod 360) / 30).
func SignForLongitude(deg float64) string {
	tropical := math.Mod(deg+AyanamsaOffset, 360)
	if tropical < 0 {
		tropical += 360
	}
	idx := int(tropical / 30)
	if idx > 11 {
		idx = 11
	}
	return Signs[idx]
}

// SignForRasi maps a zero-based sidereal house index to a tropical sign by
// shifting one house forward. The +1 shift keeps this path consistent with
// SignForLongitude at sign boundaries under the fixed ayanamsa.
func SignForRasi(id int) string {
	idx := ((id+1)%12 + 12) % 12
	return Signs[idx]
}

// IsSign reports whether name is one of the twelve sign names.
func IsSign(name string) bool {
	_, ok := signInfo[name]
	return ok
}

// Symbol returns the glyph for a sign, or a star for unknown input.
func Symbol(sign string) string {
	if s, ok := symbols[sign]; ok {
		return s
	}
	return "★"
}

// About returns the attribute table entry for a sign. Unknown input gets the
// Aries entry so callers never render an empty element.
func About(sign string) Info {
	if info, ok := signInfo[sign]; ok {
		return info
	}
	return signInfo["Aries"]
}
