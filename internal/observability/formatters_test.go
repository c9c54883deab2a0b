package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orastria/astrobook/internal/chart"
	"github.com/orastria/astrobook/internal/types"
)

func TestPrintChart(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintChart(chart.Placements{
		chart.PointSun:       "Leo",
		chart.PointMoon:      "Pisces",
		chart.PointRising:    "Scorpio",
		chart.PointMercury:   "Virgo",
		chart.PointVenus:     "Cancer",
		chart.PointMars:      "Aries",
		chart.PointJupiter:   "Taurus",
		chart.PointSaturn:    "Capricorn",
		chart.PointMidheaven: "Gemini",
		chart.PointNorthNode: "Libra",
	})

	out := buf.String()
	assert.Contains(t, out, "BIRTH CHART")
	assert.Contains(t, out, "Leo (Fire)")
	assert.Contains(t, out, "Moon:    Pisces")
	assert.Contains(t, out, "Rising:  Scorpio")
	assert.Contains(t, out, "north node:")
	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "└")
}

func TestPrintChart_EmptyPlacements(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintChart(chart.Placements{})

	assert.Empty(t, buf.String())
}

func TestPrintNumerology(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintNumerology(types.Numerology{LifePath: 7, Expression: 22})

	out := buf.String()
	assert.Contains(t, out, "NUMEROLOGY")
	assert.Contains(t, out, "Life Path:   7")
	assert.Contains(t, out, "Expression:  22")
}

func TestPrintContentSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	content := types.NewBookContent()
	content.Sections["introduction"] = "Welcome to your cosmic journey."
	content.Sections["sun_sign"] = "Your sun burns bright."
	content.Compatibility["Aries"] = types.CompatEntry{Text: "Sparks fly.", Percentage: 85}
	content.Monthly["January"] = "A month of beginnings."

	p.PrintContentSummary(content)

	out := buf.String()
	assert.Contains(t, out, "GENERATED CONTENT")
	assert.Contains(t, out, "Sections:        2")
	assert.Contains(t, out, "Compatibility:   1 signs")
	assert.Contains(t, out, "Monthly:         1 months")
}

func TestPrintContentSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintContentSummary(nil)

	assert.Empty(t, buf.String())
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	long := "this line is far too long to fit inside the box and must be cut down to size somewhere"
	p.printBox("TEST", long)

	out := buf.String()
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, "somewhere")
}
