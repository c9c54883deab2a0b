package main

import (
	"context"
	"fmt"
	"log"

	"github.com/orastria/astrobook/internal/book"
	"github.com/orastria/astrobook/internal/chart"
	"github.com/orastria/astrobook/internal/config"
	"github.com/orastria/astrobook/internal/content"
	"github.com/orastria/astrobook/internal/fonts"
	"github.com/orastria/astrobook/internal/geo"
	"github.com/orastria/astrobook/internal/pipeline"
	"github.com/orastria/astrobook/internal/storage"
)

// buildRunner assembles the pipeline from configuration. The returned
// cleanup closes the content client.
func buildRunner(ctx context.Context, cfg *config.Config) (*pipeline.Runner, func(), error) {
	fontPaths := fonts.NewCache(cfg.FontDir).EnsurePresent(ctx)
	log.Printf("[wire] %d font families available", len(fontPaths))

	textClient, err := content.NewClient(ctx, content.Provider(cfg.ContentProvider), content.ClientConfig{
		APIKey:   contentAPIKey(cfg),
		Model:    cfg.GeminiModel,
		ModelURL: cfg.ReplicateModel,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating text client: %w", err)
	}
	cleanup := func() {
		if err := textClient.Close(); err != nil {
			log.Printf("[wire] closing text client: %v", err)
		}
	}

	runner := &pipeline.Runner{
		Charts:   chart.NewResolver(chartClient(cfg), locationResolver()),
		Content:  content.NewGenerator(textClient),
		Renderer: book.NewRenderer(fontPaths),
	}

	if cfg.HasStorage() {
		uploader, err := storage.NewUploader(ctx, storage.Config{
			Endpoint: cfg.B2Endpoint,
			Bucket:   cfg.B2Bucket,
			KeyID:    cfg.B2KeyID,
			AppKey:   cfg.B2AppKey,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("creating uploader: %w", err)
		}
		runner.Storage = uploader
	} else {
		log.Println("[wire] storage credentials not set; uploads will fail per request")
	}

	return runner, cleanup, nil
}

func contentAPIKey(cfg *config.Config) string {
	if cfg.ContentProvider == "gemini" {
		return cfg.GeminiAPIKey
	}
	return cfg.ReplicateToken
}

// chartClient returns nil when ephemeris credentials are absent, which makes
// the resolver skip the API and fall straight through to overrides.
func chartClient(cfg *config.Config) *chart.Client {
	if !cfg.HasEphemeris() {
		log.Println("[wire] ephemeris credentials not set; using fallback chart placements")
		return nil
	}
	tokens := chart.NewTokenSource(chart.DefaultTokenURL, cfg.ProkeralaClientID, cfg.ProkeralaClientSecret, nil)
	return chart.NewClient(chart.DefaultBaseURL, tokens)
}

// locationResolver builds the geocoder, with the timezone index degraded to
// keyword matching if the index cannot be loaded.
func locationResolver() *geo.Resolver {
	zones, err := geo.NewTZFinder()
	if err != nil {
		log.Printf("[wire] timezone index unavailable: %v", err)
		return geo.NewResolver(geo.DefaultGeocodeURL, nil)
	}
	return geo.NewResolver(geo.DefaultGeocodeURL, zones)
}
