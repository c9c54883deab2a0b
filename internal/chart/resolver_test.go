package chart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orastria/astrobook/internal/geo"
)

// fakeLocations returns a fixed point or error.
type fakeLocations struct {
	point geo.Point
	err   error
}

func (f *fakeLocations) Resolve(_ context.Context, _ string) (geo.Point, error) {
	return f.point, f.err
}

// ephemerisServer fakes the token, planet-position, and kundli endpoints.
func ephemerisServer(t *testing.T, positions string, kundli string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("GET /v2/astrology/planet-position", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "1", r.URL.Query().Get("ayanamsa"))
		assert.NotEmpty(t, r.URL.Query().Get("coordinates"))
		assert.NotEmpty(t, r.URL.Query().Get("datetime"))
		_, _ = w.Write([]byte(positions))
	})
	mux.HandleFunc("GET /v2/astrology/kundli", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(kundli))
	})
	return httptest.NewServer(mux), &calls
}

func newTestResolver(srv *httptest.Server, locations LocationResolver) *Resolver {
	tokens := NewTokenSource(srv.URL+"/token", "id", "secret", srv.Client())
	return NewResolver(NewClient(srv.URL, tokens), locations)
}

func TestResolveChart_NoCredentialsUsesDefaultsWithoutNetwork(t *testing.T) {
	r := NewResolver(nil, &fakeLocations{})
	p := r.ResolveChart(context.Background(), "1989-12-13", "17:00", "Reading, Pennsylvania, USA", nil)

	require.Len(t, p, len(Points))
	for _, point := range Points {
		assert.Equal(t, DefaultSign, p[point], "point %s", point)
	}
}

func TestResolveChart_NoCredentialsKeepsOverrides(t *testing.T) {
	overrides := map[string]string{
		PointSun:  "Sagittarius",
		PointMoon: "Cancer",
		"bogus":   "Leo",
	}
	r := NewResolver(nil, &fakeLocations{})
	p := r.ResolveChart(context.Background(), "1989-12-13", "17:00", "Reading", overrides)

	assert.Equal(t, "Sagittarius", p[PointSun])
	assert.Equal(t, "Cancer", p[PointMoon])
	assert.Equal(t, DefaultSign, p[PointRising])
	_, tracked := p["bogus"]
	assert.False(t, tracked)
}

func TestResolveChart_InvalidOverrideSignIgnored(t *testing.T) {
	p := NewPlacements(map[string]string{PointSun: "Snake"})
	assert.Equal(t, DefaultSign, p[PointSun])
}

func TestResolveChart_TokenFailureFallsBackToDefaults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := newTestResolver(srv, &fakeLocations{point: geo.Point{Lat: 40, Lon: -75, Timezone: "America/New_York"}})
	p := r.ResolveChart(context.Background(), "1989-12-13", "17:00", "Reading", map[string]string{PointSun: "Leo"})

	// Same shape as the no-credentials case: override kept, rest default.
	assert.Equal(t, "Leo", p[PointSun])
	assert.Equal(t, DefaultSign, p[PointMoon])
}

func TestResolveChart_LocationFailureFallsBackToDefaults(t *testing.T) {
	srv, _ := ephemerisServer(t, `{"data":{"planet_position":[]}}`, `{"data":{}}`)
	defer srv.Close()

	r := newTestResolver(srv, &fakeLocations{err: &geo.NotFoundError{Place: "Atlantis"}})
	p := r.ResolveChart(context.Background(), "1989-12-13", "17:00", "Atlantis", nil)

	for _, point := range Points {
		assert.Equal(t, DefaultSign, p[point])
	}
}

func TestResolveChart_LongitudeAndRasiPaths(t *testing.T) {
	positions := `{"data":{"planet_position":[
		{"name":"Sun","longitude":246.5},
		{"name":"Moon","rasi":{"id":3}},
		{"name":"Venus","longitude":306.0},
		{"name":"Pluto","longitude":10.0}
	]}}`
	kundli := `{"data":{}}`
	srv, _ := ephemerisServer(t, positions, kundli)
	defer srv.Close()

	loc := &fakeLocations{point: geo.Point{Lat: 40.3356, Lon: -75.9269, Timezone: "America/New_York"}}
	p := newTestResolver(srv, loc).ResolveChart(context.Background(), "1989-12-13", "17:00", "Reading", nil)

	// 246.5 + 24 = 270.5 -> index 9 -> Capricorn.
	assert.Equal(t, "Capricorn", p[PointSun])
	// rasi 3 -> index 4 -> Leo.
	assert.Equal(t, "Leo", p[PointMoon])
	// 306 + 24 = 330 -> index 11 -> Pisces.
	assert.Equal(t, "Pisces", p[PointVenus])
	// Untracked names are skipped; missing points stay default.
	assert.Equal(t, DefaultSign, p[PointMars])
}

func TestResolveChart_KundliAscendantOverridesRising(t *testing.T) {
	positions := `{"data":{"planet_position":[{"name":"Ascendant","longitude":6.0}]}}`
	kundli := `{"data":{"ascendant":{"longitude":96.0}}}`
	srv, _ := ephemerisServer(t, positions, kundli)
	defer srv.Close()

	loc := &fakeLocations{point: geo.Point{Lat: 40, Lon: -75, Timezone: "America/New_York"}}
	p := newTestResolver(srv, loc).ResolveChart(context.Background(), "1989-12-13", "17:00", "Reading", nil)

	// Planet response said Taurus (6+24=30); kundli 96+24=120 -> Leo wins.
	assert.Equal(t, "Leo", p[PointRising])
}

func TestResolveChart_EndpointErrorCollapsesToDefaults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "t", "expires_in": 3600})
	})
	mux.HandleFunc("GET /v2/astrology/planet-position", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	loc := &fakeLocations{point: geo.Point{Lat: 40, Lon: -75, Timezone: "America/New_York"}}
	p := newTestResolver(srv, loc).ResolveChart(context.Background(), "1989-12-13", "17:00", "Reading", nil)

	for _, point := range Points {
		assert.Equal(t, DefaultSign, p[point])
	}
}

func TestLocalDatetime(t *testing.T) {
	got, err := localDatetime("1989-12-13", "17:00", "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "1989-12-13T17:00:00-05:00", got)

	// Unknown zones fall back to UTC instead of failing.
	got, err = localDatetime("1989-12-13", "17:00", "Nowhere/Zone")
	require.NoError(t, err)
	assert.Equal(t, "1989-12-13T17:00:00+00:00", got)

	_, err = localDatetime("13-12-1989", "17:00", "UTC")
	assert.Error(t, err)
}
