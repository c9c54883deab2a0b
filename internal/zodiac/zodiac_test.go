package zodiac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignForLongitude(t *testing.T) {
	tests := []struct {
		name string
		deg  float64
		want string
	}{
		// 0 + 24 = 24 -> index 0
		{"zero longitude", 0.0, "Aries"},
		// 6 + 24 = 30 -> index 1
		{"boundary up", 6.0, "Taurus"},
		// (336 + 24) mod 360 = 0 -> index 0
		{"wraps past 360", 336.0, "Aries"},
		// 335.9 + 24 = 359.9 -> index 11
		{"just before wrap", 335.9, "Pisces"},
		// 276 + 24 = 300 -> index 10
		{"aquarius boundary", 276.0, "Aquarius"},
		{"mid sign", 100.0, "Leo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SignForLongitude(tt.deg))
		})
	}
}

func TestSignForLongitude_NegativeInput(t *testing.T) {
	// -30 + 24 = -6, wrapped to 354 -> index 11
	assert.Equal(t, "Pisces", SignForLongitude(-30))
}

func TestSignForRasi(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{0, "Taurus"},
		{11, "Aries"},
		{1, "Gemini"},
		{10, "Pisces"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SignForRasi(tt.id), "rasi %d", tt.id)
	}
}

// The longitude and rasi paths must agree at every sign boundary: a rasi id
// corresponds to the 30-degree sidereal band starting at id*30, and the
// fixed 24-degree offset shifts every band exactly one sign forward.
func TestConversionPathsAgreeAtBoundaries(t *testing.T) {
	for id := 0; id < 12; id++ {
		// 6 degrees into band id lands past the ayanamsa-shifted boundary.
		lon := float64(id)*30 + 6
		assert.Equal(t, SignForRasi(id), SignForLongitude(lon),
			"rasi %d vs longitude %.1f", id, lon)
	}
}

func TestSymbolAndAbout(t *testing.T) {
	assert.Equal(t, "♐", Symbol("Sagittarius"))
	assert.Equal(t, "★", Symbol("Ophiuchus"))

	info := About("Leo")
	assert.Equal(t, "Fire", info.Element)
	assert.Equal(t, "Sun", info.Ruler)

	// Unknown signs fall back to the Aries entry.
	assert.Equal(t, About("Aries"), About("Ophiuchus"))
}

func TestIsSign(t *testing.T) {
	assert.True(t, IsSign("Aries"))
	assert.True(t, IsSign("Pisces"))
	assert.False(t, IsSign("aries"))
	assert.False(t, IsSign(""))
}
