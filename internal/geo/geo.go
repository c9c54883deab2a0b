// Package geo resolves free-text place names to geographic coordinates and
// an IANA timezone identifier.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultGeocodeURL is the default geocoding endpoint (Nominatim-style:
// free-text query in, JSON candidate list out).
const DefaultGeocodeURL = "https://nominatim.openstreetmap.org/search"

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "orastria-astrobook/1.0"
)

// Point is a geocoded birth place. It is produced once per questionnaire and
// never mutated afterwards.
type Point struct {
	Lat      float64
	Lon      float64
	Timezone string
}

// NotFoundError indicates the geocoding service returned no candidates for
// the place string.
type NotFoundError struct {
	Place string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("location not found: %s", e.Place)
}

// ZoneFinder maps coordinates to an IANA timezone name.
type ZoneFinder interface {
	ZoneName(lat, lon float64) (string, error)
}

// Resolver geocodes place strings and attaches a timezone. The zone finder
// may be nil; resolution then relies entirely on the heuristic fallbacks.
type Resolver struct {
	client  *http.Client
	baseURL string
	zones   ZoneFinder
}

// NewResolver creates a resolver against the given geocoding endpoint.
// An empty baseURL selects DefaultGeocodeURL.
func NewResolver(baseURL string, zones ZoneFinder) *Resolver {
	if baseURL == "" {
		baseURL = DefaultGeocodeURL
	}
	return &Resolver{
		client:  &http.Client{Timeout: defaultTimeout},
		baseURL: baseURL,
		zones:   zones,
	}
}

// geocodeResult is one candidate from the geocoding API. Nominatim encodes
// coordinates as strings.
type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve geocodes a place and resolves its timezone. Geocoding is the only
// failure mode; the timezone step always produces some zone.
func (r *Resolver) Resolve(ctx context.Context, place string) (Point, error) {
	lat, lon, err := r.geocode(ctx, place)
	if err != nil {
		return Point{}, err
	}
	return Point{Lat: lat, Lon: lon, Timezone: r.timezone(place, lat, lon)}, nil
}

func (r *Resolver) geocode(ctx context.Context, place string) (float64, float64, error) {
	endpoint := fmt.Sprintf("%s?q=%s&format=json&limit=1", r.baseURL, url.QueryEscape(place))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create geocode request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var results []geocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, &NotFoundError{Place: place}
	}

	lat, err1 := strconv.ParseFloat(results[0].Lat, 64)
	lon, err2 := strconv.ParseFloat(results[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("geocode response had malformed coordinates for %q", place)
	}
	return lat, lon, nil
}

// timezone resolves the zone for a point. The coordinate lookup is
// preferred; when it is unavailable or errors, resolution falls back to
// keyword matching on the place string and then to longitude banding, so
// this step never fails.
func (r *Resolver) timezone(place string, lat, lon float64) string {
	if r.zones != nil {
		if zone, err := r.zones.ZoneName(lat, lon); err == nil && zone != "" {
			return zone
		}
	}
	if zone, ok := zoneForKeyword(place); ok {
		return zone
	}
	return zoneForLongitude(lon)
}
