package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrNoRefreshToken is returned when credentials carry no refresh token.
var ErrNoRefreshToken = errors.New("missing Google refresh token")

// Credentials identify the OAuth client and the authorized account.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	// TokenURL overrides Google's token endpoint.
	TokenURL string
}

// Config returns the OAuth2 client configuration for c.
func (c Credentials) Config() *oauth2.Config {
	endpoint := google.Endpoint
	if c.TokenURL != "" {
		endpoint.TokenURL = c.TokenURL
		endpoint.AuthStyle = oauth2.AuthStyleInParams
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       Scopes,
	}
}

// TokenSource returns a source that refreshes access tokens from c's
// refresh token and caches them until expiry.
func TokenSource(ctx context.Context, c Credentials) (oauth2.TokenSource, error) {
	if c.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	// An already expired token forces a refresh on first use.
	return c.Config().TokenSource(ctx, &oauth2.Token{
		TokenType:    "Bearer",
		RefreshToken: c.RefreshToken,
		Expiry:       time.Unix(1, 0),
	}), nil
}

// Verify fetches one access token so bad credentials fail at startup rather
// than on the first request.
func Verify(ts oauth2.TokenSource) error {
	if _, err := ts.Token(); err != nil {
		return fmt.Errorf("failed to refresh Google access token: %w", err)
	}
	return nil
}

// HTTPClient returns an HTTP client that authenticates every request with c.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors.
func HTTPClient(ctx context.Context, c Credentials) (*http.Client, error) {
	ts, err := TokenSource(ctx, c)
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: ts,
			Base:   &http.Transport{ForceAttemptHTTP2: false},
		},
	}, nil
}
