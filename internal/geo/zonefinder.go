package geo

import (
	"fmt"

	"github.com/ringsaturn/tzf"
)

// TZFinder resolves timezones from tzf's embedded polygon data. It
// implements ZoneFinder.
type TZFinder struct {
	finder tzf.F
}

// NewTZFinder builds the default polygon-backed finder. Construction is
// relatively expensive; build one and share it across requests.
func NewTZFinder() (*TZFinder, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize timezone finder: %w", err)
	}
	return &TZFinder{finder: f}, nil
}

// ZoneName returns the IANA zone containing the point. tzf takes lng, lat
// argument order.
func (t *TZFinder) ZoneName(lat, lon float64) (string, error) {
	name := t.finder.GetTimezoneName(lon, lat)
	if name == "" {
		return "", fmt.Errorf("no timezone found for %.4f,%.4f", lat, lon)
	}
	return name, nil
}
