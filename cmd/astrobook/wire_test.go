package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orastria/astrobook/internal/config"
)

func TestContentAPIKey(t *testing.T) {
	cfg := &config.Config{
		ContentProvider: "gemini",
		GeminiAPIKey:    "gem-key",
		ReplicateToken:  "rep-token",
	}
	assert.Equal(t, "gem-key", contentAPIKey(cfg))

	cfg.ContentProvider = "replicate"
	assert.Equal(t, "rep-token", contentAPIKey(cfg))
}

func TestChartClient_NilWithoutCredentials(t *testing.T) {
	cfg := &config.Config{}
	assert.Nil(t, chartClient(cfg))
}

func TestChartClient_BuiltWithCredentials(t *testing.T) {
	cfg := &config.Config{
		ProkeralaClientID:     "id",
		ProkeralaClientSecret: "secret",
	}
	assert.NotNil(t, chartClient(cfg))
}
