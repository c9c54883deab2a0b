package content

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/orastria/astrobook/internal/chart"
	"github.com/orastria/astrobook/internal/prompts"
	"github.com/orastria/astrobook/internal/types"
	"github.com/orastria/astrobook/internal/zodiac"
)

// SectionNames lists the generated sections in book order.
var SectionNames = []string{
	"introduction", "sun_sign", "moon_sign", "rising_sign", "personality",
	"love", "career", "forecast", "numerology", "tarot", "crystals",
	"closing",
}

const (
	sectionMaxTokens = 1500
	batchMaxTokens   = 2500

	// defaultConcurrency bounds how many section generations run at once.
	defaultConcurrency = 3
)

// Generator assembles all book prose for one reader.
type Generator struct {
	client      Client
	concurrency int
}

// NewGenerator creates a generator over a text client.
func NewGenerator(client Client) *Generator {
	return &Generator{client: client, concurrency: defaultConcurrency}
}

// GenerateAll produces every section, compatibility entry, and monthly
// forecast. Individual generation or parse failures are absorbed with
// canned fallback text; GenerateAll itself only fails on context
// cancellation, so the result is always a complete content set.
func (g *Generator) GenerateAll(ctx context.Context, q *types.Questionnaire, placements chart.Placements, num types.Numerology) (*types.BookContent, error) {
	contextBlock := buildContext(q, placements, num)
	sectionData := map[string]string{
		"SunSign":    placements[chart.PointSun],
		"MoonSign":   placements[chart.PointMoon],
		"RisingSign": placements[chart.PointRising],
		"LifePath":   strconv.Itoa(num.LifePath),
		"Expression": strconv.Itoa(num.Expression),
	}

	content := types.NewBookContent()
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for _, section := range SectionNames {
		eg.Go(func() error {
			text := g.generateSection(egCtx, section, sectionData, contextBlock)
			if text == "" {
				text = fallbackText(section, q, placements, num)
			}
			mu.Lock()
			content.Sections[section] = text
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.generateCompatibility(ctx, content, placements[chart.PointSun], contextBlock)
	g.generateMonthly(ctx, content, contextBlock)
	return content, nil
}

// generateSection produces one section's prose, or "" on failure.
func (g *Generator) generateSection(ctx context.Context, section string, data map[string]string, contextBlock string) string {
	template, err := prompts.Get("sections.json", section)
	if err != nil {
		log.Printf("[content] missing prompt for %s: %v", section, err)
		return ""
	}

	prompt := fmt.Sprintf("%s\n\nContext:\n%s\n\nWrite in second person. Be warm and specific.",
		prompts.Format(template, data), contextBlock)

	text, err := g.client.Generate(ctx, prompt, sectionMaxTokens)
	if err != nil {
		log.Printf("[content] section %s generation failed: %v", section, err)
		return ""
	}
	return strings.TrimSpace(text)
}

// generateCompatibility fills all twelve compatibility entries, generating
// two batches of six signs and defaulting whatever could not be parsed.
func (g *Generator) generateCompatibility(ctx context.Context, content *types.BookContent, sunSign, contextBlock string) {
	template := prompts.MustGet("batches.json", "compatibility")

	for _, start := range []int{0, 6} {
		batch := zodiac.Signs[start : start+6]
		prompt := fmt.Sprintf("%s\n\n%s", prompts.Format(template, itemListData(sunSign, batch)), contextBlock)

		text, err := g.client.Generate(ctx, prompt, batchMaxTokens)
		if err != nil {
			log.Printf("[content] compatibility batch generation failed: %v", err)
			continue
		}
		for sign, entry := range parseCompatibility(text, batch) {
			content.Compatibility[sign] = entry
		}
	}

	for _, sign := range zodiac.Signs {
		if _, ok := content.Compatibility[sign]; !ok {
			content.Compatibility[sign] = defaultCompatEntry(sunSign, sign)
		}
	}
}

// generateMonthly fills all twelve monthly forecasts in two batches of six.
func (g *Generator) generateMonthly(ctx context.Context, content *types.BookContent, contextBlock string) {
	template := prompts.MustGet("batches.json", "monthly")

	for _, start := range []int{0, 6} {
		batch := monthNames[start : start+6]
		prompt := fmt.Sprintf("%s\n\n%s", prompts.Format(template, itemListData("", batch)), contextBlock)

		text, err := g.client.Generate(ctx, prompt, batchMaxTokens)
		if err != nil {
			log.Printf("[content] monthly batch generation failed: %v", err)
			continue
		}
		for month, block := range parseMonthly(text, batch) {
			content.Monthly[month] = block
		}
	}

	for _, month := range monthNames {
		if _, ok := content.Monthly[month]; !ok {
			content.Monthly[month] = defaultMonthly(month)
		}
	}
}

// buildContext renders the shared context block templated into every prompt.
func buildContext(q *types.Questionnaire, placements chart.Placements, num types.Numerology) string {
	sun := placements[chart.PointSun]
	moon := placements[chart.PointMoon]
	rising := placements[chart.PointRising]

	var sb strings.Builder
	fmt.Fprintf(&sb, "User: %s\n", q.DisplayName())
	fmt.Fprintf(&sb, "Birth: %s at %s %s\n", q.BirthDate, q.BirthTime, q.BirthTimePeriod)
	fmt.Fprintf(&sb, "Place: %s\n\n", q.BirthPlace)
	sb.WriteString("Chart:\n")
	fmt.Fprintf(&sb, "- Sun: %s (%s)\n", sun, zodiac.About(sun).Element)
	fmt.Fprintf(&sb, "- Moon: %s (%s)\n", moon, zodiac.About(moon).Element)
	fmt.Fprintf(&sb, "- Rising: %s (%s)\n", rising, zodiac.About(rising).Element)
	fmt.Fprintf(&sb, "- Venus: %s\n", placements[chart.PointVenus])
	fmt.Fprintf(&sb, "- Mars: %s\n", placements[chart.PointMars])
	fmt.Fprintf(&sb, "- Midheaven: %s\n\n", placements[chart.PointMidheaven])
	sb.WriteString("Quiz:\n")
	fmt.Fprintf(&sb, "- Outlook: %s\n", q.Outlook)
	fmt.Fprintf(&sb, "- Dreams: %s\n", q.LifeDreams)
	fmt.Fprintf(&sb, "- Love Language: %s\n", q.LoveLanguage)
	fmt.Fprintf(&sb, "- Career Question: %s\n\n", q.CareerQuestion)
	fmt.Fprintf(&sb, "Numerology: Life Path %d, Expression %d\n", num.LifePath, num.Expression)
	return sb.String()
}
