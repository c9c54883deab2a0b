package content

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/orastria/astrobook/internal/types"
	"github.com/orastria/astrobook/internal/zodiac"
)

// DefaultCompatPercentage fills compatibility entries whose percentage could
// not be extracted. Extraction never fails outright: a block that cannot be
// parsed simply keeps its default entry.
const DefaultCompatPercentage = 70

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var (
	signAlternation  = strings.ToUpper(strings.Join(zodiac.Signs[:], "|"))
	monthAlternation = strings.ToUpper(strings.Join(monthNames, "|"))

	percentRe = regexp.MustCompile(`(\d+)%`)
)

// parseCompatibility extracts per-sign text blocks and percentages from a
// batched model response. Signs with no recognizable block are simply absent
// from the result; the caller fills defaults.
func parseCompatibility(text string, signs []string) map[string]types.CompatEntry {
	out := make(map[string]types.CompatEntry, len(signs))
	for _, sign := range signs {
		upper := strings.ToUpper(sign)

		// Preferred shape: "SIGN:" block terminated by a PERCENTAGE marker.
		re := regexp.MustCompile(`(?is)` + upper + `:\s*(.*?)PERCENTAGE:\s*(\d+)`)
		if m := re.FindStringSubmatch(text); m != nil {
			pct, err := strconv.Atoi(m[2])
			if err != nil {
				pct = DefaultCompatPercentage
			}
			out[sign] = types.CompatEntry{Text: strings.TrimSpace(m[1]), Percentage: pct}
			continue
		}

		// Looser shape: block runs to the next sign header or end of text,
		// with the percentage buried somewhere in the prose.
		re = regexp.MustCompile(`(?is)` + upper + `:\s*(.*?)(?:(?:` + signAlternation + `):|\z)`)
		if m := re.FindStringSubmatch(text); m != nil {
			block := strings.TrimSpace(m[1])
			pct := DefaultCompatPercentage
			if pm := percentRe.FindStringSubmatch(block); pm != nil {
				if n, err := strconv.Atoi(pm[1]); err == nil {
					pct = n
				}
			}
			out[sign] = types.CompatEntry{Text: block, Percentage: pct}
		}
	}
	return out
}

// parseMonthly extracts per-month text blocks from a batched model response.
func parseMonthly(text string, months []string) map[string]string {
	out := make(map[string]string, len(months))
	for _, month := range months {
		re := regexp.MustCompile(`(?is)` + strings.ToUpper(month) + `:\s*(.*?)(?:(?:` + monthAlternation + `):|\z)`)
		if m := re.FindStringSubmatch(text); m != nil {
			if block := strings.TrimSpace(m[1]); block != "" {
				out[month] = block
			}
		}
	}
	return out
}

// itemListData builds the template data for a batched prompt over items.
func itemListData(sunSign string, items []string) map[string]string {
	data := map[string]string{
		"SunSign": sunSign,
		"Items":   strings.Join(items, ", "),
	}
	if len(items) > 0 {
		data["FirstItem"] = strings.ToUpper(items[0])
	}
	if len(items) > 1 {
		data["SecondItem"] = strings.ToUpper(items[1])
	}
	return data
}

// defaultCompatEntry is the canned entry for a sign whose block could not be
// generated or parsed.
func defaultCompatEntry(sunSign, sign string) types.CompatEntry {
	return types.CompatEntry{
		Text:       fmt.Sprintf("%s and %s create a unique dynamic...", sunSign, sign),
		Percentage: DefaultCompatPercentage,
	}
}

// defaultMonthly is the canned forecast for a month whose block could not be
// generated or parsed.
func defaultMonthly(month string) string {
	return fmt.Sprintf("%s 2026 brings transformation and growth...", month)
}
