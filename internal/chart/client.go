package chart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the default ephemeris API host.
const DefaultBaseURL = "https://api.prokerala.com"

// ayanamsaLahiri selects the Lahiri ayanamsa in ephemeris API requests,
// matching zodiac.AyanamsaOffset on the conversion side.
const ayanamsaLahiri = "1"

// Client calls the ephemeris API's planet-position and kundli endpoints,
// authenticating each request with a bearer token from its TokenSource.
type Client struct {
	baseURL string
	tokens  *TokenSource
	client  *http.Client
}

// NewClient creates an ephemeris client. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL string, tokens *TokenSource) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Rasi is a sidereal house reference as returned by some endpoint versions.
type Rasi struct {
	ID int `json:"id"`
}

// Position is one celestial point from the planet-position endpoint. Either
// Longitude or Rasi may be populated depending on the endpoint version.
type Position struct {
	Name      string  `json:"name"`
	Longitude float64 `json:"longitude"`
	Rasi      *Rasi   `json:"rasi,omitempty"`
}

// PlanetPositions fetches sidereal positions for a birth moment.
// coordinates is "lat,lon"; datetime is ISO8601 with a UTC offset.
func (c *Client) PlanetPositions(ctx context.Context, coordinates, datetime string) ([]Position, error) {
	var body struct {
		Data struct {
			PlanetPositions []Position `json:"planet_position"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/v2/astrology/planet-position", coordinates, datetime, &body); err != nil {
		return nil, err
	}
	return body.Data.PlanetPositions, nil
}

// Ascendant fetches the kundli ascendant longitude. The second return value
// reports whether the response carried one.
func (c *Client) Ascendant(ctx context.Context, coordinates, datetime string) (float64, bool, error) {
	var body struct {
		Data struct {
			Ascendant *struct {
				Longitude float64 `json:"longitude"`
			} `json:"ascendant"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/v2/astrology/kundli", coordinates, datetime, &body); err != nil {
		return 0, false, err
	}
	if body.Data.Ascendant == nil {
		return 0, false, nil
	}
	return body.Data.Ascendant.Longitude, true, nil
}

func (c *Client) get(ctx context.Context, path, coordinates, datetime string, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("token acquisition failed: %w", err)
	}

	params := url.Values{}
	params.Set("coordinates", coordinates)
	params.Set("datetime", datetime)
	params.Set("ayanamsa", ayanamsaLahiri)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
