// Package types defines the shared domain types passed between pipeline
// stages.
package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Questionnaire is the canonical, normalized user profile. Field-name
// aliasing is resolved once at the HTTP boundary; everything below it sees
// only these names.
type Questionnaire struct {
	// Personal
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Name      string `json:"name" validate:"required"`
	Gender    string `json:"gender,omitempty"`
	Email     string `json:"email,omitempty"`

	// Birth
	BirthDate       string `json:"birth_date" validate:"required"`
	BirthTime       string `json:"birth_time,omitempty"`
	BirthTimePeriod string `json:"birth_time_period,omitempty"`
	BirthPlace      string `json:"birth_place" validate:"required"`

	// Knowledge
	AstrologyFamiliarity string `json:"astrology_familiarity,omitempty"`

	// Goals
	MainGoals   []string `json:"main_goals,omitempty"`
	LifeDreams  string   `json:"life_dreams,omitempty"`
	Motivations string   `json:"motivations,omitempty"`

	// Relationships
	RelationshipStatus         string   `json:"relationship_status,omitempty"`
	RelationshipGoals          []string `json:"relationship_goals,omitempty"`
	RelationshipSatisfaction   string   `json:"relationship_satisfaction,omitempty"`
	UnresolvedRomanticFeelings string   `json:"unresolved_romantic_feelings,omitempty"`

	// Personality
	DecisionWorry           string `json:"decision_worry,omitempty"`
	NeedToBeLiked           string `json:"need_to_be_liked,omitempty"`
	InsecurityWithStrangers string `json:"insecurity_with_strangers,omitempty"`
	Outlook                 string `json:"outlook,omitempty"`

	// Love
	LoveLanguage           string   `json:"love_language,omitempty"`
	LogicVsEmotions        string   `json:"logic_vs_emotions,omitempty"`
	OverthinkRelationships string   `json:"overthink_relationships,omitempty"`
	DesiredPartnerTraits   []string `json:"desired_partner_traits,omitempty"`

	// Career
	CareerQuestion string `json:"career_question,omitempty"`

	// Book preferences
	BirthChartIncludes []string `json:"birth_chart_includes,omitempty"`
	ImportantDates     []string `json:"important_dates,omitempty"`
	AdditionalTopics   []string `json:"additional_topics,omitempty"`

	// Life events
	SignificantLifeEventSoon string `json:"significant_life_event_soon,omitempty"`

	// Customization
	BookColor string `json:"book_color,omitempty"`

	// ChartOverrides holds caller-supplied fallback signs keyed by celestial
	// point name. Used only when ephemeris lookup is unavailable or fails.
	ChartOverrides map[string]string `json:"-"`
}

// Validate validates the questionnaire using the validator.
func (q *Questionnaire) Validate() error {
	validate := validator.New()
	return validate.Struct(q)
}

// DisplayName returns the best available full name, defaulting to "Friend".
func (q *Questionnaire) DisplayName() string {
	if name := strings.TrimSpace(q.Name); name != "" {
		return name
	}
	name := strings.TrimSpace(strings.TrimSpace(q.FirstName) + " " + strings.TrimSpace(q.LastName))
	if name != "" {
		return name
	}
	return "Friend"
}

// GivenName returns the first token of the display name.
func (q *Questionnaire) GivenName() string {
	fields := strings.Fields(q.DisplayName())
	if len(fields) == 0 {
		return "Friend"
	}
	return fields[0]
}

// BirthTime24 converts the 12-hour birth time plus AM/PM period to 24-hour
// "HH:MM". A missing or unparseable time defaults to noon.
func (q *Questionnaire) BirthTime24() string {
	const noon = "12:00"

	raw := strings.TrimSpace(q.BirthTime)
	if raw == "" {
		return noon
	}

	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return noon
	}
	hour, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	minute, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return noon
	}

	switch strings.ToUpper(strings.TrimSpace(q.BirthTimePeriod)) {
	case "PM":
		if hour < 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

var monthNames = [13]string{"", "January", "February", "March", "April",
	"May", "June", "July", "August", "September", "October", "November",
	"December"}

// FormattedBirthDate renders a hyphenated numeric birth date as
// "December 13, 1989". Input already in another form passes through as-is.
func (q *Questionnaire) FormattedBirthDate() string {
	bd := strings.TrimSpace(q.BirthDate)
	parts := strings.Split(bd, "-")
	if len(parts) != 3 {
		return bd
	}
	month, err1 := strconv.Atoi(parts[1])
	day, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		return bd
	}
	return fmt.Sprintf("%s %d, %s", monthNames[month], day, parts[0])
}
