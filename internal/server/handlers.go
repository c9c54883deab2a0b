package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/orastria/astrobook/internal/pipeline"
	"github.com/orastria/astrobook/internal/types"
)

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "orastria-book-generator",
	})
}

// handleFields lists every supported questionnaire field, grouped the way
// integrations consume them.
func (s *Server) handleFields(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"required_fields": []string{"first_name (or name)", "birth_date", "birth_place"},
		"all_supported_fields": map[string][]string{
			"personal":         {"first_name", "last_name", "gender", "email"},
			"birth":            {"birth_date", "birth_time", "birth_time_period", "birth_place"},
			"knowledge":        {"astrology_familiarity"},
			"goals":            {"main_goals", "life_dreams", "motivations"},
			"relationships":    {"relationship_status", "relationship_goals", "relationship_satisfaction", "unresolved_romantic_feelings"},
			"personality":      {"decision_worry", "need_to_be_liked", "insecurity_with_strangers", "outlook"},
			"love":             {"love_language", "logic_vs_emotions", "overthink_relationships", "desired_partner_traits"},
			"career":           {"career_question"},
			"book_preferences": {"birth_chart_includes", "important_dates", "additional_topics"},
			"life_events":      {"significant_life_event_soon"},
			"customization":    {"book_color"},
			"fallback_chart":   {"sun_sign", "moon_sign", "rising_sign", "mercury", "venus", "mars", "jupiter", "saturn", "midheaven", "north_node"},
		},
		"book_color_options": []string{"black", "green", "dark purple", "brighter black", "red", "creamy", "navy", "maroon"},
	})
}

// generateEnvelope is the backward-compatible body for POST /generate.
type generateEnvelope struct {
	UserData  map[string]any    `json:"user_data"`
	ChartData map[string]string `json:"chart_data"`
}

// handleGenerate accepts separated user and chart data. The supplied chart
// is authoritative; no ephemeris lookup happens on this path.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var envelope generateEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		s.errorResponse(w, &ErrInvalidPayload{Reason: "decoding request body", Err: err})
		return
	}
	if envelope.UserData == nil {
		s.errorResponse(w, &ErrInvalidPayload{Reason: "no user_data provided"})
		return
	}

	q, err := NormalizeProfile(envelope.UserData)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if strings.TrimSpace(envelope.ChartData["sun_sign"]) == "" {
		s.errorResponse(w, &ErrMissingField{Field: "chart_data.sun_sign"})
		return
	}

	log.Printf("[server] generating book for %s (caller chart)", q.DisplayName())
	result, err := s.runner.RunWithPlacements(r.Context(), q, envelope.ChartData)
	if err != nil {
		s.errorResponse(w, &ErrProcessing{Stage: "pipeline", Err: err})
		return
	}
	s.resultResponse(w, q, result)
}

// handleGenerateSimple accepts the flat questionnaire payload used by form
// integrations, with field-name aliasing resolved at this boundary.
func (s *Server) handleGenerateSimple(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.errorResponse(w, &ErrInvalidPayload{Reason: "decoding request body", Err: err})
		return
	}
	if len(raw) == 0 {
		s.errorResponse(w, &ErrInvalidPayload{Reason: "no JSON data provided"})
		return
	}

	q, err := NormalizeQuestionnaire(raw)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	log.Printf("[server] generating book for %s", q.DisplayName())
	result, err := s.runner.Run(r.Context(), q)
	if err != nil {
		s.errorResponse(w, &ErrProcessing{Stage: "pipeline", Err: err})
		return
	}
	s.resultResponse(w, q, result)
}

func (s *Server) resultResponse(w http.ResponseWriter, q *types.Questionnaire, result *pipeline.Result) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":      true,
		"download_url": result.DownloadURL,
		"filename":     result.Filename,
		"message":      fmt.Sprintf("Book generated for %s", q.DisplayName()),
	})
}
