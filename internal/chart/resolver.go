package chart

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/orastria/astrobook/internal/geo"
	"github.com/orastria/astrobook/internal/zodiac"
)

// LocationResolver resolves a place string to coordinates and a timezone.
// Implemented by geo.Resolver.
type LocationResolver interface {
	Resolve(ctx context.Context, place string) (geo.Point, error)
}

// Resolver turns raw birth data into a total placement set. It degrades
// through three tiers: full ephemeris lookup, caller-supplied override
// signs, and finally the package default sign. The lowest tier always
// succeeds, so chart resolution can never fail a book run.
type Resolver struct {
	client    *Client // nil when no ephemeris credentials are configured
	locations LocationResolver
}

// NewResolver creates a chart resolver. A nil client disables ephemeris
// lookups entirely; every chart then comes from overrides and defaults
// without any network traffic.
func NewResolver(client *Client, locations LocationResolver) *Resolver {
	return &Resolver{client: client, locations: locations}
}

// ResolveChart resolves placements for a birth moment. overrides supplies
// caller-provided fallback signs per point; it may be nil. Every failure
// inside the lookup collapses to the override-or-default set, logged but
// never surfaced: each external call is attempted exactly once and the
// caller cannot distinguish looked-up from defaulted data.
func (r *Resolver) ResolveChart(ctx context.Context, birthDate, birthTime24, birthPlace string, overrides map[string]string) Placements {
	defaults := NewPlacements(overrides)
	if r.client == nil {
		return defaults
	}

	placements, err := r.lookup(ctx, birthDate, birthTime24, birthPlace, defaults)
	if err != nil {
		log.Printf("[chart] falling back to default placements: %v", err)
		return defaults
	}
	return placements
}

func (r *Resolver) lookup(ctx context.Context, birthDate, birthTime24, birthPlace string, defaults Placements) (Placements, error) {
	// Acquire the bearer token up front; the cached token is then reused by
	// both endpoint calls. A token failure is fatal for this attempt.
	if _, err := r.client.tokens.Token(ctx); err != nil {
		return nil, fmt.Errorf("token acquisition failed: %w", err)
	}

	point, err := r.locations.Resolve(ctx, birthPlace)
	if err != nil {
		return nil, fmt.Errorf("location resolution failed: %w", err)
	}

	datetime, err := localDatetime(birthDate, birthTime24, point.Timezone)
	if err != nil {
		return nil, err
	}
	coordinates := fmt.Sprintf("%.4f,%.4f", point.Lat, point.Lon)

	positions, err := r.client.PlanetPositions(ctx, coordinates, datetime)
	if err != nil {
		return nil, fmt.Errorf("planet position lookup failed: %w", err)
	}

	placements := defaults.clone()
	for _, pos := range positions {
		tracked, ok := pointForName(pos.Name)
		if !ok {
			continue
		}
		switch {
		case pos.Longitude > 0:
			placements[tracked] = zodiac.SignForLongitude(pos.Longitude)
		case pos.Rasi != nil:
			placements[tracked] = zodiac.SignForRasi(pos.Rasi.ID)
		}
	}

	// The kundli ascendant, when present, overrides whatever the planet
	// response produced for Rising.
	asc, ok, err := r.client.Ascendant(ctx, coordinates, datetime)
	if err != nil {
		return nil, fmt.Errorf("kundli lookup failed: %w", err)
	}
	if ok {
		placements[PointRising] = zodiac.SignForLongitude(asc)
	}
	return placements, nil
}

// localDatetime builds an ISO8601 timestamp carrying the UTC offset of the
// resolved timezone, e.g. "1989-12-13T17:00:00-05:00". An unknown zone
// falls back to UTC rather than failing the lookup.
func localDatetime(birthDate, birthTime24, zone string) (string, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", birthDate+" "+birthTime24, loc)
	if err != nil {
		return "", fmt.Errorf("invalid birth date/time %q %q: %w", birthDate, birthTime24, err)
	}
	return t.Format("2006-01-02T15:04:05-07:00"), nil
}
