// Package book renders the finished astrology book as a PDF.
package book

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/orastria/astrobook/internal/chart"
	"github.com/orastria/astrobook/internal/types"
	"github.com/orastria/astrobook/internal/zodiac"
)

const (
	pageW  = 612.0
	pageH  = 792.0
	inch   = 72.0
	margin = 0.75 * inch
)

type rgb struct{ r, g, b int }

var (
	navy      = rgb{26, 31, 60}
	gold      = rgb{201, 169, 97}
	cream     = rgb{248, 245, 240}
	softGold  = rgb{212, 184, 122}
	white     = rgb{255, 255, 255}
	green     = rgb{46, 204, 113}
	yellow    = rgb{241, 196, 15}
	orange    = rgb{230, 126, 34}
	red       = rgb{231, 76, 60}
	lightGray = rgb{236, 240, 241}
)

// compatColor picks the progress bar color for a compatibility percentage.
func compatColor(percentage int) rgb {
	switch {
	case percentage >= 80:
		return green
	case percentage >= 65:
		return yellow
	case percentage >= 50:
		return orange
	default:
		return red
	}
}

// fontRef identifies a registered family/style pair. Families backed by a
// downloaded TTF carry utf8 so symbol glyphs are only drawn where they can
// actually render.
type fontRef struct {
	family string
	style  string
	utf8   bool
}

// fontSet holds the resolved font for each typographic role, with the PDF
// core fonts standing in for any family that could not be downloaded.
type fontSet struct {
	body        fontRef
	bodyBold    fontRef
	bodyItalic  fontRef
	heading     fontRef
	headingBold fontRef
	symbol      fontRef
	symbolBold  fontRef
}

// Renderer produces book PDFs. The available map comes from
// fonts.Cache.EnsurePresent and maps family names to TTF paths.
type Renderer struct {
	available map[string]string
}

// NewRenderer creates a renderer over the available font files.
func NewRenderer(available map[string]string) *Renderer {
	if available == nil {
		available = map[string]string{}
	}
	return &Renderer{available: available}
}

// Render writes the complete book to path.
func (r *Renderer) Render(path string, q *types.Questionnaire, placements chart.Placements, num types.Numerology, content *types.BookContent) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(margin, margin, margin)

	d := &doc{
		pdf:        pdf,
		fonts:      r.registerFonts(pdf),
		q:          q,
		placements: placements,
		num:        num,
		content:    content,
	}
	d.build()

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing book pdf: %w", err)
	}
	return nil
}

// registerFonts registers every downloaded family and resolves the role set,
// substituting core fonts where a family is missing.
func (r *Renderer) registerFonts(pdf *fpdf.Fpdf) fontSet {
	register := func(family, style, core, coreStyle string) fontRef {
		if path, ok := r.available[family]; ok {
			pdf.AddUTF8Font(family, style, path)
			return fontRef{family: family, style: style, utf8: true}
		}
		return fontRef{family: core, style: coreStyle}
	}

	return fontSet{
		body:        register("Raleway", "", "Helvetica", ""),
		bodyBold:    register("Raleway-Bold", "", "Helvetica", "B"),
		bodyItalic:  register("Raleway-Italic", "", "Helvetica", "I"),
		heading:     register("EBGaramond", "", "Times", ""),
		headingBold: register("EBGaramond-Bold", "", "Times", "B"),
		symbol:      register("DejaVuSans", "", "Helvetica", ""),
		symbolBold:  register("DejaVuSans-Bold", "", "Helvetica", "B"),
	}
}

// doc carries the state of one render.
type doc struct {
	pdf        *fpdf.Fpdf
	fonts      fontSet
	q          *types.Questionnaire
	placements chart.Placements
	num        types.Numerology
	content    *types.BookContent

	pageNum int
}

func (d *doc) setFont(ref fontRef, size float64) {
	d.pdf.SetFont(ref.family, ref.style, size)
}

func (d *doc) textColor(c rgb) { d.pdf.SetTextColor(c.r, c.g, c.b) }
func (d *doc) fillColor(c rgb) { d.pdf.SetFillColor(c.r, c.g, c.b) }
func (d *doc) drawColor(c rgb) { d.pdf.SetDrawColor(c.r, c.g, c.b) }

// glyphs returns s unchanged when the symbol font is a real TTF, otherwise
// replaces astrological glyphs the core fonts cannot encode.
func (d *doc) glyphs(s string) string {
	if d.fonts.symbol.utf8 {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		if r < 0x80 {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('*')
		}
	}
	return sb.String()
}

func (d *doc) centered(y float64, s string) {
	w := d.pdf.GetStringWidth(s)
	d.pdf.Text((pageW-w)/2, y, s)
}

func (d *doc) centeredAt(x, y float64, s string) {
	w := d.pdf.GetStringWidth(s)
	d.pdf.Text(x-w/2, y, s)
}

// build lays out every page in book order.
func (d *doc) build() {
	sun := d.placements[chart.PointSun]
	moon := d.placements[chart.PointMoon]
	rising := d.placements[chart.PointRising]
	first := d.q.GivenName()

	d.cover()

	d.chapter("Introduction", "Your Cosmic Journey Begins")
	y := d.newPage()
	y = d.sectionTitle(fmt.Sprintf("Welcome, %s", first), y)
	d.wrappedText(d.content.Sections["introduction"], y, 0)

	d.chapter("The Big Three", "Sun, Moon & Rising")
	d.bigThreePage(zodiac.Symbol(sun), fmt.Sprintf("Your Sun in %s", sun), d.content.Sections["sun_sign"])
	d.bigThreePage("☽", fmt.Sprintf("Your Moon in %s", moon), d.content.Sections["moon_sign"])
	d.bigThreePage("↑", fmt.Sprintf("Your %s Rising", rising), d.content.Sections["rising_sign"])

	d.chapter("Your Inner World", "Deep Personality Analysis")
	y = d.newPage()
	y = d.sectionTitle("Understanding Your Psychology", y)
	d.wrappedText(d.content.Sections["personality"], y, 0)

	d.chapter("Love & Relationships", "Your Heart's Blueprint")
	y = d.newPage()
	y = d.sectionTitle("Your Romantic Nature", y)
	d.wrappedText(d.content.Sections["love"], y, 0)

	d.chapter("Compatibility Guide", "Your Match with All 12 Signs")
	y = d.newPage()
	for _, sign := range zodiac.Signs {
		y = d.compatEntry(sign, d.content.Compatibility[sign], y)
	}

	d.chapter("Career & Purpose", "Your Professional Destiny")
	y = d.newPage()
	y = d.sectionTitle("Your Career Blueprint", y)
	d.wrappedText(d.content.Sections["career"], y, 0)

	d.chapter("Your Year Ahead", "2026 Forecast")
	y = d.newPage()
	y = d.sectionTitle("2026 Overview", y)
	d.wrappedText(d.content.Sections["forecast"], y, 0)

	d.chapter("Monthly Forecasts", "Your 2026 Month-by-Month Guide")
	y = d.newPage()
	for _, month := range []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	} {
		y = d.monthlyEntry(month, d.content.Monthly[month], y)
	}

	d.chapter("Numerology", "The Numbers of Your Life")
	y = d.newPage()
	y = d.sectionTitle(fmt.Sprintf("Life Path %d", d.num.LifePath), y)
	d.wrappedText(d.content.Sections["numerology"], y, 0)

	d.chapter("Tarot Guidance", "Cards for Your Journey")
	y = d.newPage()
	y = d.sectionTitle("Your Tarot Reading", y)
	d.wrappedText(d.content.Sections["tarot"], y, 0)

	d.chapter("Crystals & Rituals", "Tools for Your Path")
	y = d.newPage()
	y = d.sectionTitle("Your Power Crystals", y)
	d.wrappedText(d.content.Sections["crystals"], y, 0)

	d.chapter("Closing Thoughts", "Your Journey Continues")
	y = d.newPage()
	y = d.sectionTitle(fmt.Sprintf("Dear %s,", first), y)
	y = d.wrappedText(d.content.Sections["closing"], y, 0)

	y += 40
	d.textColor(navy)
	d.setFont(d.fonts.bodyItalic, 14)
	d.pdf.Text(margin, y, "With cosmic blessings,")
	d.textColor(gold)
	d.setFont(d.fonts.headingBold, 26)
	d.pdf.Text(margin, y+35, "ORASTRIA")
}

func (d *doc) cover() {
	d.pdf.AddPage()
	sun := d.placements[chart.PointSun]

	d.fillColor(navy)
	d.pdf.Rect(0, 0, pageW, pageH, "F")

	d.drawColor(gold)
	d.pdf.SetLineWidth(2)
	d.pdf.Rect(0.4*inch, 0.4*inch, pageW-0.8*inch, pageH-0.8*inch, "D")
	d.pdf.SetLineWidth(1)
	d.pdf.Rect(0.5*inch, 0.5*inch, pageW-1*inch, pageH-1*inch, "D")

	d.textColor(gold)
	d.setFont(d.fonts.symbolBold, 24)
	d.centeredAt(0.8*inch, 0.8*inch, d.glyphs("☉"))
	d.centeredAt(pageW-0.8*inch, 0.8*inch, d.glyphs("☽"))

	d.setFont(d.fonts.headingBold, 36)
	d.centered(1.8*inch, "YOUR COSMIC")
	d.centered(2.3*inch, "BLUEPRINT")

	d.pdf.SetLineWidth(1)
	d.pdf.Line(2*inch, 2.55*inch, pageW-2*inch, 2.55*inch)

	d.textColor(white)
	d.setFont(d.fonts.headingBold, 28)
	d.centered(3.2*inch, d.q.DisplayName())

	d.textColor(softGold)
	d.setFont(d.fonts.body, 12)
	birthTime := strings.TrimSpace(d.q.BirthTime + " " + d.q.BirthTimePeriod)
	d.centered(3.6*inch, fmt.Sprintf("%s  *  %s", d.q.FormattedBirthDate(), birthTime))
	d.centered(3.85*inch, d.q.BirthPlace)

	centerY := pageH/2 + 0.3*inch
	d.drawColor(gold)
	d.pdf.SetLineWidth(2)
	d.pdf.Circle(pageW/2, centerY, 85, "D")
	d.pdf.SetLineWidth(1)
	d.pdf.Circle(pageW/2, centerY, 95, "D")

	d.textColor(gold)
	d.setFont(d.fonts.symbolBold, 72)
	d.centered(centerY+15, d.glyphs(zodiac.Symbol(sun)))

	d.setFont(d.fonts.headingBold, 18)
	d.centered(centerY+60, strings.ToUpper(sun))

	d.setFont(d.fonts.symbol, 11)
	d.textColor(white)
	d.centered(centerY+115, d.glyphs(fmt.Sprintf("☉ Sun: %s  *  ☽ Moon: %s  *  ↑ Rising: %s",
		sun, d.placements[chart.PointMoon], d.placements[chart.PointRising])))

	d.textColor(gold)
	d.setFont(d.fonts.headingBold, 22)
	d.centered(pageH-1.3*inch, "ORASTRIA")

	d.setFont(d.fonts.body, 10)
	d.centered(pageH-1*inch, "Personalized Astrology  *  Written in the Stars")

	d.setFont(d.fonts.symbol, 16)
	d.centeredAt(0.8*inch, pageH-0.8*inch, d.glyphs("☽"))
	d.centeredAt(pageW-0.8*inch, pageH-0.8*inch, d.glyphs("☽"))
}

// newPage starts a styled interior page and returns the starting baseline.
func (d *doc) newPage() float64 {
	d.pageNum++
	d.pdf.AddPage()

	d.fillColor(cream)
	d.pdf.Rect(0, 0, pageW, pageH, "F")

	d.textColor(gold)
	d.setFont(d.fonts.symbol, 10)
	star := d.glyphs("✦")
	d.centeredAt(50, 50, star)
	d.centeredAt(pageW-50, 50, star)
	d.centeredAt(50, pageH-50, star)
	d.centeredAt(pageW-50, pageH-50, star)

	d.textColor(navy)
	d.setFont(d.fonts.body, 10)
	d.centered(pageH-30, fmt.Sprintf("- %d -", d.pageNum))

	return 80
}

func (d *doc) chapter(title, subtitle string) {
	d.newPage()

	d.textColor(gold)
	d.setFont(d.fonts.symbol, 14)
	d.centered(180, d.glyphs("✧  ✦  ✧"))

	d.textColor(navy)
	d.setFont(d.fonts.headingBold, 32)
	d.centered(280, title)

	if subtitle != "" {
		d.textColor(softGold)
		d.setFont(d.fonts.bodyItalic, 16)
		d.centered(320, subtitle)
	}

	d.textColor(gold)
	d.setFont(d.fonts.symbol, 14)
	d.centered(380, d.glyphs("✧  ✦  ✧"))
}

func (d *doc) sectionTitle(text string, y float64) float64 {
	d.textColor(navy)
	d.setFont(d.fonts.headingBold, 18)
	d.pdf.Text(margin, y, text)

	d.drawColor(gold)
	d.pdf.SetLineWidth(2)
	d.pdf.Line(margin, y+5, margin+60, y+5)

	return y + 35
}

// wrappedText draws paragraph text starting at baseline y, breaking onto new
// pages as needed, and returns the next free baseline.
func (d *doc) wrappedText(text string, y, width float64) float64 {
	if text == "" {
		return y
	}
	if width == 0 {
		width = pageW - 2*margin
	}

	d.textColor(navy)
	d.setFont(d.fonts.body, 11)

	sep := "\n"
	if strings.Contains(text, "\n\n") {
		sep = "\n\n"
	}
	for _, para := range strings.Split(text, sep) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		for _, line := range d.pdf.SplitText(para, width) {
			if y > pageH-margin-50 {
				y = d.newPage()
				d.textColor(navy)
				d.setFont(d.fonts.body, 11)
			}
			d.pdf.Text(margin, y, line)
			y += 16
		}
		y += 8
	}
	return y
}

func (d *doc) bigThreePage(symbol, title, text string) {
	d.newPage()

	d.textColor(gold)
	d.setFont(d.fonts.symbolBold, 48)
	d.centered(120, d.glyphs(symbol))

	d.textColor(navy)
	d.setFont(d.fonts.headingBold, 20)
	d.centered(160, title)

	d.wrappedText(text, 200, 0)
}

func (d *doc) compatEntry(sign string, entry types.CompatEntry, y float64) float64 {
	if y > pageH-margin-120 {
		y = d.newPage()
	}

	d.textColor(gold)
	d.setFont(d.fonts.symbolBold, 18)
	d.pdf.Text(margin, y, d.glyphs(zodiac.Symbol(sign)))

	d.textColor(navy)
	d.setFont(d.fonts.headingBold, 14)
	d.pdf.Text(margin+30, y, sign)

	barWidth := 120.0
	barHeight := 12.0
	barX := pageW - margin - barWidth - 50
	barY := y - barHeight + 2

	d.fillColor(lightGray)
	d.pdf.Rect(barX, barY, barWidth, barHeight, "F")

	pct := entry.Percentage
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	d.fillColor(compatColor(pct))
	d.pdf.Rect(barX, barY, barWidth*float64(pct)/100, barHeight, "F")

	d.textColor(navy)
	d.setFont(d.fonts.bodyBold, 11)
	d.pdf.Text(barX+barWidth+10, y, fmt.Sprintf("%d%%", entry.Percentage))

	y += 25
	if entry.Text != "" {
		y = d.wrappedText(leadingSentences(entry.Text, 3), y, pageW-2.5*margin)
	}
	return y + 15
}

func (d *doc) monthlyEntry(month, text string, y float64) float64 {
	if y > pageH-margin-100 {
		y = d.newPage()
	}

	d.textColor(gold)
	d.setFont(d.fonts.symbol, 12)
	d.pdf.Text(margin, y, d.glyphs("✧"))

	d.textColor(navy)
	d.setFont(d.fonts.headingBold, 14)
	d.pdf.Text(margin+20, y, fmt.Sprintf("%s 2026", month))

	y += 20
	if text != "" {
		y = d.wrappedText(text, y, 0)
	}
	return y + 10
}

// leadingSentences keeps the first n sentences of text.
func leadingSentences(text string, n int) string {
	parts := strings.Split(text, ".")
	if len(parts) <= n {
		return text
	}
	return strings.Join(parts[:n], ".") + "."
}
