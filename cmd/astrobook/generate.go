package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/orastria/astrobook/internal/chart"
	"github.com/orastria/astrobook/internal/config"
	"github.com/orastria/astrobook/internal/observability"
	"github.com/orastria/astrobook/internal/pipeline"
	"github.com/orastria/astrobook/internal/server"
	"github.com/orastria/astrobook/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one book locally without uploading",
	Long:  `Run the generation pipeline for a single questionnaire and write the PDF to a local path instead of object storage.`,
	RunE:  runGenerate,
}

var (
	genInput  string
	genOutput string

	genName       string
	genBirthDate  string
	genBirthTime  string
	genPeriod     string
	genBirthPlace string
	genVerbose    bool
)

func init() {
	generateCmd.Flags().StringVarP(&genInput, "input", "i", "", "Path to a JSON questionnaire payload (flat fields, aliases accepted)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "book.pdf", "Output PDF path")
	generateCmd.Flags().StringVar(&genName, "name", "", "Full name (overrides input file)")
	generateCmd.Flags().StringVar(&genBirthDate, "birth-date", "", "Birth date, YYYY-MM-DD")
	generateCmd.Flags().StringVar(&genBirthTime, "birth-time", "", "Birth time, H:MM")
	generateCmd.Flags().StringVar(&genPeriod, "birth-time-period", "", "AM or PM")
	generateCmd.Flags().StringVar(&genBirthPlace, "birth-place", "", "Birth place, e.g. \"Austin, TX\"")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print chart, numerology, and content summaries")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	q, err := loadQuestionnaire()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	runner, cleanup, err := buildRunner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}
	defer cleanup()
	runner.OnProgress = func(e pipeline.ProgressEvent) {
		log.Printf("[generate] %s: %s", e.Step, e.Message)
	}

	result, err := runner.RunLocal(ctx, q, genOutput)
	if err != nil {
		return err
	}

	if genVerbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintChart(result.Placements)
		printer.PrintNumerology(result.Numerology)
		printer.PrintContentSummary(result.Content)
	}

	log.Printf("[generate] book written to %s (sun %s, life path %d)",
		genOutput, result.Placements[chart.PointSun], result.Numerology.LifePath)
	return nil
}

// loadQuestionnaire merges the input file and flags into a normalized
// questionnaire, with flags taking precedence.
func loadQuestionnaire() (*types.Questionnaire, error) {
	raw := map[string]any{}
	if genInput != "" {
		data, err := os.ReadFile(genInput)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", genInput, err)
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", genInput, err)
		}
	}

	setIf := func(key, value string) {
		if value != "" {
			raw[key] = value
		}
	}
	setIf("name", genName)
	setIf("birth_date", genBirthDate)
	setIf("birth_time", genBirthTime)
	setIf("birth_time_period", genPeriod)
	setIf("birth_place", genBirthPlace)

	q, err := server.NormalizeQuestionnaire(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid questionnaire: %w", err)
	}
	return q, nil
}
