package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeZones is a ZoneFinder with canned behavior.
type fakeZones struct {
	zone string
	err  error
}

func (f *fakeZones) ZoneName(lat, lon float64) (string, error) {
	return f.zone, f.err
}

func geocodeServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestResolve_UsesFirstCandidateAndZoneFinder(t *testing.T) {
	srv := geocodeServer(t, `[{"lat":"48.8566","lon":"2.3522"},{"lat":"0","lon":"0"}]`)
	defer srv.Close()

	r := NewResolver(srv.URL, &fakeZones{zone: "Europe/Paris"})
	p, err := r.Resolve(context.Background(), "Paris, France")
	require.NoError(t, err)

	assert.InDelta(t, 48.8566, p.Lat, 1e-9)
	assert.InDelta(t, 2.3522, p.Lon, 1e-9)
	assert.Equal(t, "Europe/Paris", p.Timezone)
}

func TestResolve_NoCandidatesReturnsNotFound(t *testing.T) {
	srv := geocodeServer(t, `[]`)
	defer srv.Close()

	r := NewResolver(srv.URL, nil)
	_, err := r.Resolve(context.Background(), "Nowhereville Xyz")

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Nowhereville Xyz", notFound.Place)
}

func TestResolve_KeywordFallbackWhenZoneFinderUnavailable(t *testing.T) {
	// Coordinates deliberately point elsewhere; the keyword must win.
	srv := geocodeServer(t, `[{"lat":"40.0","lon":"-75.0"}]`)
	defer srv.Close()

	r := NewResolver(srv.URL, nil)
	p, err := r.Resolve(context.Background(), "Paris, Texas")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", p.Timezone)
}

func TestResolve_KeywordFallbackWhenZoneFinderErrors(t *testing.T) {
	srv := geocodeServer(t, `[{"lat":"40.0","lon":"-75.0"}]`)
	defer srv.Close()

	r := NewResolver(srv.URL, &fakeZones{err: errors.New("index not loaded")})
	p, err := r.Resolve(context.Background(), "somewhere in France")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", p.Timezone)
}

func TestResolve_LongitudeBandWhenNoKeywordMatches(t *testing.T) {
	srv := geocodeServer(t, `[{"lat":"10.0","lon":"-70.0"}]`)
	defer srv.Close()

	r := NewResolver(srv.URL, nil)
	p, err := r.Resolve(context.Background(), "Ciudad Falcon")
	require.NoError(t, err)
	// -100 < -70 < -60 selects the eastern-americas band.
	assert.Equal(t, "America/New_York", p.Timezone)
}

func TestZoneForLongitude_Bands(t *testing.T) {
	tests := []struct {
		lon  float64
		want string
	}{
		{-120, "America/Los_Angeles"},
		{-70, "America/New_York"},
		{-3, "Europe/London"},
		{15, "Europe/Paris"},
		{45, "Asia/Dubai"},
		{78, "Asia/Kolkata"},
		{116, "Asia/Shanghai"},
		{139, "Asia/Tokyo"},
		{151, "Asia/Tokyo"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, zoneForLongitude(tt.lon), "lon %.0f", tt.lon)
	}
}

func TestZoneForKeyword_PriorityOrder(t *testing.T) {
	// City keyword outranks the country catch-all appearing later in the
	// same string.
	zone, ok := zoneForKeyword("Chicago, United States")
	assert.True(t, ok)
	assert.Equal(t, "America/Chicago", zone)

	_, ok = zoneForKeyword("Ulaanbaatar")
	assert.False(t, ok)
}

func TestResolve_ServerErrorIsNotNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	r := NewResolver(srv.URL, nil)
	_, err := r.Resolve(context.Background(), "Paris")
	require.Error(t, err)

	var notFound *NotFoundError
	assert.False(t, errors.As(err, &notFound))
}
