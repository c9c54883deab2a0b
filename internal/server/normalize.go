package server

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/orastria/astrobook/internal/chart"
	"github.com/orastria/astrobook/internal/schemas"
	"github.com/orastria/astrobook/internal/types"
)

// stringAliases maps canonical questionnaire fields to the accepted
// payload keys, in priority order. Integrations send snake_case,
// camelCase, and a handful of shorthand names.
var stringAliases = map[string][]string{
	"first_name":                   {"first_name", "firstName"},
	"last_name":                    {"last_name", "lastName"},
	"name":                         {"name"},
	"gender":                       {"gender"},
	"email":                        {"email"},
	"birth_date":                   {"birth_date", "birthDate", "dob"},
	"birth_time":                   {"birth_time", "birthTime"},
	"birth_time_period":            {"birth_time_period", "birthTimePeriod"},
	"birth_place":                  {"birth_place", "birthPlace", "location"},
	"astrology_familiarity":        {"astrology_familiarity", "astrologyFamiliarity", "familiarity"},
	"life_dreams":                  {"life_dreams", "lifeDreams", "dreams"},
	"motivations":                  {"motivations", "motivation"},
	"relationship_status":          {"relationship_status", "relationshipStatus"},
	"relationship_satisfaction":    {"relationship_satisfaction", "relationshipSatisfaction"},
	"unresolved_romantic_feelings": {"unresolved_romantic_feelings", "unresolvedFeelings", "unresolvedRomanticFeelings"},
	"decision_worry":               {"decision_worry", "decisionWorry"},
	"need_to_be_liked":             {"need_to_be_liked", "needToBeLiked"},
	"insecurity_with_strangers":    {"insecurity_with_strangers", "insecurityWithStrangers"},
	"outlook":                      {"outlook"},
	"love_language":                {"love_language", "loveLanguage"},
	"logic_vs_emotions":            {"logic_vs_emotions", "logicVsEmotions"},
	"overthink_relationships":      {"overthink_relationships", "overthinkRelationships"},
	"career_question":              {"career_question", "careerQuestion"},
	"significant_life_event_soon":  {"significant_life_event_soon", "significantLifeEvent", "significantLifeEventSoon"},
	"book_color":                   {"book_color", "bookColor", "color"},
}

var listAliases = map[string][]string{
	"main_goals":             {"main_goals", "mainGoals", "goals"},
	"relationship_goals":     {"relationship_goals", "relationshipGoals"},
	"desired_partner_traits": {"desired_partner_traits", "desiredPartnerTraits"},
	"birth_chart_includes":   {"birth_chart_includes", "birthChartIncludes"},
	"important_dates":        {"important_dates", "importantDates"},
	"additional_topics":      {"additional_topics", "additionalTopics"},
}

// overrideAliases maps celestial point names to their accepted payload keys.
var overrideAliases = map[string][]string{
	chart.PointSun:       {"sun_sign", "sunSign"},
	chart.PointMoon:      {"moon_sign", "moonSign"},
	chart.PointRising:    {"rising_sign", "risingSign", "ascendant"},
	chart.PointMercury:   {"mercury"},
	chart.PointVenus:     {"venus"},
	chart.PointMars:      {"mars"},
	chart.PointJupiter:   {"jupiter"},
	chart.PointSaturn:    {"saturn"},
	chart.PointMidheaven: {"midheaven"},
	chart.PointNorthNode: {"north_node", "northNode"},
}

// fieldDefaults fill canonical fields the caller left empty.
var fieldDefaults = map[string]string{
	"birth_time":                   "12:00",
	"birth_time_period":            "PM",
	"astrology_familiarity":        "Beginner",
	"outlook":                      "Realist",
	"logic_vs_emotions":            "A bit of both",
	"unresolved_romantic_feelings": "No",
	"significant_life_event_soon":  "No",
	"book_color":                   "navy",
}

// NormalizeQuestionnaire resolves field aliases in a flat payload, applies
// defaults, validates the result, and returns the canonical questionnaire.
func NormalizeQuestionnaire(raw map[string]any) (*types.Questionnaire, error) {
	return normalize(raw, true)
}

// NormalizeProfile is the lenient variant used when the caller supplies the
// chart: only a name is required, birth fields stay optional, and numerology
// degrades to its fallbacks for whatever is absent.
func NormalizeProfile(raw map[string]any) (*types.Questionnaire, error) {
	return normalize(raw, false)
}

func normalize(raw map[string]any, requireBirth bool) (*types.Questionnaire, error) {
	canonical := make(map[string]any, len(stringAliases)+len(listAliases))

	for field, keys := range stringAliases {
		if v := firstString(raw, keys); v != "" {
			canonical[field] = v
		}
	}
	for field, keys := range listAliases {
		if v := firstList(raw, keys); v != nil {
			canonical[field] = v
		}
	}

	// Name falls back to first+last, then to first alone.
	if canonical["name"] == nil {
		first, _ := canonical["first_name"].(string)
		last, _ := canonical["last_name"].(string)
		if full := strings.TrimSpace(first + " " + last); full != "" {
			canonical["name"] = full
		}
	}
	if canonical["first_name"] == nil {
		if name, ok := canonical["name"].(string); ok {
			canonical["first_name"] = strings.Fields(name)[0]
		}
	}

	for field, def := range fieldDefaults {
		if canonical[field] == nil {
			canonical[field] = def
		}
	}

	required := []string{"name"}
	if requireBirth {
		required = append(required, "birth_date", "birth_place")
	}
	for _, field := range required {
		if canonical[field] == nil {
			return nil, &ErrMissingField{Field: field}
		}
	}

	doc, err := json.Marshal(canonical)
	if err != nil {
		return nil, &ErrInvalidPayload{Reason: "payload is not representable as JSON", Err: err}
	}
	if requireBirth {
		if err := schemas.GenerateRequest(doc); err != nil {
			return nil, &ErrInvalidPayload{Reason: "schema validation failed", Err: err}
		}
	}

	var q types.Questionnaire
	if err := json.Unmarshal(doc, &q); err != nil {
		return nil, &ErrInvalidPayload{Reason: "decoding normalized payload", Err: err}
	}
	if requireBirth {
		if err := q.Validate(); err != nil {
			return nil, &ErrInvalidPayload{Reason: "questionnaire validation failed", Err: err}
		}
	}

	q.ChartOverrides = extractOverrides(raw)
	return &q, nil
}

// extractOverrides collects caller-supplied fallback signs.
func extractOverrides(raw map[string]any) map[string]string {
	overrides := make(map[string]string)
	for point, keys := range overrideAliases {
		if v := firstString(raw, keys); v != "" {
			overrides[point] = v
		}
	}
	if len(overrides) == 0 {
		return nil
	}
	return overrides
}

func firstString(raw map[string]any, keys []string) string {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			switch s := v.(type) {
			case string:
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					return trimmed
				}
			case float64:
				return strings.TrimSpace(fmt.Sprintf("%v", s))
			}
		}
	}
	return ""
}

func firstList(raw map[string]any, keys []string) []string {
	for _, key := range keys {
		items, ok := raw[key].([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}
