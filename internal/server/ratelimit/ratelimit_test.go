package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/generate", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		},
	}
}

func TestAllow_BurstThenLimited(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	allowed, _ := l.Allow("1.2.3.4", "/generate", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("1.2.3.4", "/generate", "POST")
	assert.True(t, allowed)

	allowed, info := l.Allow("1.2.3.4", "/generate", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 10, info.Limit)
	assert.True(t, info.RetryAfter > 0)
}

func TestAllow_PerClientBuckets(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	l.Allow("1.2.3.4", "/generate", "POST")
	l.Allow("1.2.3.4", "/generate", "POST")

	allowed, _ := l.Allow("5.6.7.8", "/generate", "POST")
	assert.True(t, allowed, "a different client has its own bucket")
}

func TestAllow_HealthUnlimited(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 1000; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestAllow_PrefixMatch(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	l.Allow("1.2.3.4", "/generate/simple", "POST")
	l.Allow("1.2.3.4", "/generate/simple", "POST")
	allowed, _ := l.Allow("1.2.3.4", "/generate/simple", "POST")
	assert.False(t, allowed, "subpaths share the endpoint budget")
}

func TestAllow_DefaultBudget(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/fields", "GET")
		require.True(t, allowed, fmt.Sprintf("request %d", i))
	}
	allowed, _ := l.Allow("1.2.3.4", "/fields", "GET")
	assert.False(t, allowed)
}

func TestAllow_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/generate", "POST")
		require.True(t, allowed)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 300, cfg.DefaultLimit)
	assert.Len(t, cfg.EndpointConfigs, 2)
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	cfg := LoadConfig()
	assert.False(t, cfg.Enabled)
}
