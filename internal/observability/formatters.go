// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/orastria/astrobook/internal/chart"
	"github.com/orastria/astrobook/internal/types"
	"github.com/orastria/astrobook/internal/zodiac"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 60

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintChart outputs a human-readable summary of the resolved placements.
func (p *Printer) PrintChart(placements chart.Placements) {
	if len(placements) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Sun:     %s (%s)\n", placements[chart.PointSun], zodiac.About(placements[chart.PointSun]).Element))
	sb.WriteString(fmt.Sprintf("Moon:    %s\n", placements[chart.PointMoon]))
	sb.WriteString(fmt.Sprintf("Rising:  %s\n\n", placements[chart.PointRising]))

	for _, point := range []string{
		chart.PointMercury, chart.PointVenus, chart.PointMars,
		chart.PointJupiter, chart.PointSaturn, chart.PointMidheaven,
		chart.PointNorthNode,
	} {
		label := strings.ReplaceAll(point, "_", " ")
		sb.WriteString(fmt.Sprintf("  • %-12s %s\n", label+":", placements[point]))
	}

	p.printBox("BIRTH CHART", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintNumerology outputs the calculated numbers.
func (p *Printer) PrintNumerology(num types.Numerology) {
	content := fmt.Sprintf("Life Path:   %d\nExpression:  %d", num.LifePath, num.Expression)
	p.printBox("NUMEROLOGY", content)
}

// PrintContentSummary outputs the shape of the generated content set.
func (p *Printer) PrintContentSummary(content *types.BookContent) {
	if content == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Sections:        %d\n", len(content.Sections)))
	sb.WriteString(fmt.Sprintf("Compatibility:   %d signs\n", len(content.Compatibility)))
	sb.WriteString(fmt.Sprintf("Monthly:         %d months", len(content.Monthly)))

	p.printBox("GENERATED CONTENT", sb.String())
}
