package chart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultTokenURL is the ephemeris API's OAuth2 token endpoint.
const DefaultTokenURL = DefaultBaseURL + "/token"

// tokenExpirySlack refreshes tokens slightly before their reported expiry so
// an in-flight request never carries a token that dies mid-call.
const tokenExpirySlack = 30 * time.Second

// Token is a cached OAuth bearer token with its expiry timestamp.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// TokenSource produces bearer tokens for the ephemeris API via the OAuth2
// client-credentials grant, caching the current token until shortly before
// it expires. The clock is injectable for tests.
type TokenSource struct {
	tokenURL     string
	clientID     string
	clientSecret string
	client       *http.Client
	now          func() time.Time

	mu    sync.Mutex
	token Token
}

// NewTokenSource creates a token source. A nil httpClient selects a default
// client with a 30 second timeout.
func NewTokenSource(tokenURL, clientID, clientSecret string, httpClient *http.Client) *TokenSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &TokenSource{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		client:       httpClient,
		now:          time.Now,
	}
}

// Token returns a valid bearer token, fetching a new one when the cached
// token is missing or about to expire. A fetch failure is returned as-is;
// it is never retried here.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token.AccessToken != "" && ts.now().Add(tokenExpirySlack).Before(ts.token.ExpiresAt) {
		return ts.token.AccessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", ts.clientID)
	form.Set("client_secret", ts.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned an empty access token")
	}

	ts.token = Token{
		AccessToken: body.AccessToken,
		ExpiresAt:   ts.now().Add(time.Duration(body.ExpiresIn) * time.Second),
	}
	return ts.token.AccessToken, nil
}
