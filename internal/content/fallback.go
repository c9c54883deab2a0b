package content

import (
	"fmt"

	"github.com/orastria/astrobook/internal/chart"
	"github.com/orastria/astrobook/internal/types"
	"github.com/orastria/astrobook/internal/zodiac"
)

// fallbackText returns the canned prose for a section when generation
// fails. Every section has a fallback; the book is never left with a hole.
func fallbackText(section string, q *types.Questionnaire, placements chart.Placements, num types.Numerology) string {
	sun := placements[chart.PointSun]
	moon := placements[chart.PointMoon]
	rising := placements[chart.PointRising]

	switch section {
	case "introduction":
		return fmt.Sprintf("Dear %s, welcome to your personalized cosmic blueprint...", q.GivenName())
	case "sun_sign":
		return fmt.Sprintf("As a %s Sun, you embody %s energy...", sun, zodiac.About(sun).Element)
	case "moon_sign":
		return fmt.Sprintf("Your %s Moon shapes your emotional world...", moon)
	case "rising_sign":
		return fmt.Sprintf("With %s Rising, you present yourself with %s energy...", rising, zodiac.About(rising).Element)
	case "personality":
		return fmt.Sprintf("Your unique blend of %s, %s, and %s creates a fascinating personality...", sun, moon, rising)
	case "love":
		return "In matters of love, your Venus placement guides your heart..."
	case "career":
		return "Your professional path is illuminated by your natural talents..."
	case "forecast":
		return "2026 brings significant opportunities for growth..."
	case "numerology":
		return fmt.Sprintf("Your Life Path %d reveals your soul's journey...", num.LifePath)
	case "tarot":
		return "The tarot offers guidance for your path ahead..."
	case "crystals":
		return "Certain crystals resonate with your unique energy..."
	case "closing":
		return fmt.Sprintf("Dear %s, may the stars guide your journey...", q.GivenName())
	default:
		return "Content for this section..."
	}
}
