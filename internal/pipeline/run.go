// Package pipeline provides the high-level orchestration for book generation:
// chart resolution, numerology, content generation, PDF rendering, upload.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/orastria/astrobook/internal/chart"
	"github.com/orastria/astrobook/internal/numerology"
	"github.com/orastria/astrobook/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution.
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs.
type ProgressCallback func(event ProgressEvent)

// ChartResolver produces zodiac placements for a birth moment.
type ChartResolver interface {
	ResolveChart(ctx context.Context, birthDate, birthTime24, birthPlace string, overrides map[string]string) chart.Placements
}

// ContentGenerator produces the complete book prose.
type ContentGenerator interface {
	GenerateAll(ctx context.Context, q *types.Questionnaire, placements chart.Placements, num types.Numerology) (*types.BookContent, error)
}

// BookRenderer writes the finished book to a local path.
type BookRenderer interface {
	Render(path string, q *types.Questionnaire, placements chart.Placements, num types.Numerology, content *types.BookContent) error
}

// ObjectStore uploads a local file and returns its public URL.
type ObjectStore interface {
	Upload(ctx context.Context, path, filename string) (string, error)
}

// Runner wires the four stages together. Charts, Content, and Renderer are
// required; a nil Storage fails each run at the upload stage.
type Runner struct {
	Charts     ChartResolver
	Content    ContentGenerator
	Renderer   BookRenderer
	Storage    ObjectStore
	OnProgress ProgressCallback
}

// Result describes one finished book.
type Result struct {
	Filename    string             `json:"filename"`
	DownloadURL string             `json:"download_url"`
	Placements  chart.Placements   `json:"placements"`
	Numerology  types.Numerology   `json:"numerology"`
	Content     *types.BookContent `json:"-"`
}

// Run executes the full pipeline for one questionnaire, resolving the chart
// from the ephemeris with the questionnaire's overrides as fallback.
func (r *Runner) Run(ctx context.Context, q *types.Questionnaire) (*Result, error) {
	r.progress("chart", "Resolving birth chart")
	placements := r.Charts.ResolveChart(ctx, q.BirthDate, q.BirthTime24(), q.BirthPlace, q.ChartOverrides)
	return r.runFrom(ctx, q, placements)
}

// RunLocal resolves the chart and renders the book to a local path without
// uploading. Used by the CLI.
func (r *Runner) RunLocal(ctx context.Context, q *types.Questionnaire, path string) (*Result, error) {
	r.progress("chart", "Resolving birth chart")
	placements := r.Charts.ResolveChart(ctx, q.BirthDate, q.BirthTime24(), q.BirthPlace, q.ChartOverrides)

	num := types.Numerology{
		LifePath:   numerology.LifePath(q.BirthDate),
		Expression: numerology.ExpressionNumber(numerologyName(q)),
	}

	r.progress("content", "Generating book content")
	content, err := r.Content.GenerateAll(ctx, q, placements, num)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	r.progress("render", "Rendering PDF")
	if err := r.Renderer.Render(path, q, placements, num, content); err != nil {
		return nil, fmt.Errorf("rendering book: %w", err)
	}

	r.progress("done", "Book ready")
	return &Result{
		Filename:   filepath.Base(path),
		Placements: placements,
		Numerology: num,
		Content:    content,
	}, nil
}

// RunWithPlacements executes the pipeline with caller-supplied placements,
// skipping ephemeris resolution entirely.
func (r *Runner) RunWithPlacements(ctx context.Context, q *types.Questionnaire, signs map[string]string) (*Result, error) {
	return r.runFrom(ctx, q, chart.NewPlacements(signs))
}

func (r *Runner) runFrom(ctx context.Context, q *types.Questionnaire, placements chart.Placements) (*Result, error) {
	num := types.Numerology{
		LifePath:   numerology.LifePath(q.BirthDate),
		Expression: numerology.ExpressionNumber(numerologyName(q)),
	}

	r.progress("content", "Generating book content")
	content, err := r.Content.GenerateAll(ctx, q, placements, num)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	filename := SafeFilename(q.DisplayName())
	localPath := filepath.Join(os.TempDir(), filename)

	r.progress("render", "Rendering PDF")
	if err := r.Renderer.Render(localPath, q, placements, num, content); err != nil {
		return nil, fmt.Errorf("rendering book: %w", err)
	}
	defer os.Remove(localPath)

	if r.Storage == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	r.progress("upload", "Uploading book")
	url, err := r.Storage.Upload(ctx, localPath, filename)
	if err != nil {
		return nil, fmt.Errorf("uploading book: %w", err)
	}

	r.progress("done", "Book ready")
	return &Result{
		Filename:    filename,
		DownloadURL: url,
		Placements:  placements,
		Numerology:  num,
		Content:     content,
	}, nil
}

func (r *Runner) progress(step, message string) {
	if r.OnProgress != nil {
		r.OnProgress(ProgressEvent{Step: step, Message: message})
	}
}

// numerologyName returns the name used for the expression number. Unlike
// DisplayName this never substitutes a placeholder, so a nameless request
// yields expression 0.
func numerologyName(q *types.Questionnaire) string {
	if name := strings.TrimSpace(q.Name); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(q.FirstName) + " " + strings.TrimSpace(q.LastName))
}

// SafeFilename builds a collision-resistant object name from a display name,
// keeping only letters, digits, and spaces, with spaces as underscores.
func SafeFilename(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteByte('_')
		}
	}
	cleaned := sb.String()
	if cleaned == "" {
		cleaned = "Friend"
	}
	return fmt.Sprintf("orastria_%s_%s.pdf", cleaned, uuid.NewString()[:8])
}
