package book

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orastria/astrobook/internal/chart"
	"github.com/orastria/astrobook/internal/types"
	"github.com/orastria/astrobook/internal/zodiac"
)

func TestCompatColor(t *testing.T) {
	assert.Equal(t, green, compatColor(80))
	assert.Equal(t, green, compatColor(95))
	assert.Equal(t, yellow, compatColor(65))
	assert.Equal(t, yellow, compatColor(79))
	assert.Equal(t, orange, compatColor(50))
	assert.Equal(t, red, compatColor(49))
	assert.Equal(t, red, compatColor(0))
}

func TestLeadingSentences(t *testing.T) {
	assert.Equal(t, "One. Two. Three.",
		leadingSentences("One. Two. Three. Four. Five.", 3))
	assert.Equal(t, "Short.", leadingSentences("Short.", 3))
	assert.Equal(t, "No trailing period", leadingSentences("No trailing period", 3))
}

func TestRender_ProducesPDF(t *testing.T) {
	q := &types.Questionnaire{
		Name:            "Maya Chen",
		BirthDate:       "1989-12-13",
		BirthTime:       "6:45",
		BirthTimePeriod: "AM",
		BirthPlace:      "Austin, TX",
	}
	placements := chart.NewPlacements(map[string]string{
		chart.PointSun:    "Sagittarius",
		chart.PointMoon:   "Pisces",
		chart.PointRising: "Scorpio",
	})

	content := types.NewBookContent()
	for _, section := range []string{
		"introduction", "sun_sign", "moon_sign", "rising_sign", "personality",
		"love", "career", "forecast", "numerology", "tarot", "crystals", "closing",
	} {
		content.Sections[section] = strings.Repeat("A warm and specific paragraph about your chart. ", 20)
	}
	for i, sign := range zodiac.Signs {
		content.Compatibility[sign] = types.CompatEntry{
			Text:       "A fine match. Lots of shared ground. Worth exploring. More detail that gets trimmed.",
			Percentage: 40 + i*5,
		}
	}
	for _, month := range []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	} {
		content.Monthly[month] = "A month of steady progress and small revelations."
	}

	path := filepath.Join(t.TempDir(), "book.pdf")
	// No downloaded fonts: rendering falls back to the PDF core fonts.
	err := NewRenderer(nil).Render(path, q, placements, types.Numerology{LifePath: 7, Expression: 3}, content)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 1000, "pdf should have substantial content")
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}
