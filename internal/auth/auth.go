// Package auth provides app-level Spotify authentication using the OAuth2 client-credentials grant.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	// ErrMissingCredentials is returned when the client ID or secret is empty.
	ErrMissingCredentials = errors.New("missing Spotify client ID or secret")

	// ErrAuthFailed is returned when Spotify rejects the client credentials.
	ErrAuthFailed = errors.New("spotify auth failed")
)

// Authenticator issues and caches application tokens for the Spotify Web API.
type Authenticator struct {
	config *clientcredentials.Config
	source oauth2.TokenSource
	client *http.Client
}

// Option configures an Authenticator.
type Option func(*clientcredentials.Config)

// WithTokenURL overrides the Spotify accounts token endpoint.
func WithTokenURL(url string) Option {
	return func(c *clientcredentials.Config) {
		c.TokenURL = url
	}
}

// New creates an Authenticator for the given application credentials.
// Returns ErrMissingCredentials if either value is empty.
func New(clientID, clientSecret string, opts ...Option) (*Authenticator, error) {
	if clientID == "" || clientSecret == "" {
		return nil, ErrMissingCredentials
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	for _, opt := range opts {
		opt(config)
	}

	// The token source outlives any single request; oauth2 refreshes it on expiry.
	source := config.TokenSource(context.Background())

	return &Authenticator{
		config: config,
		source: source,
		client: oauth2.NewClient(context.Background(), source),
	}, nil
}

// Client returns an HTTP client that authorizes every request with an application token.
func (a *Authenticator) Client() *http.Client {
	return a.client
}

// Token returns a valid application token, fetching a new one if needed.
func (a *Authenticator) Token(ctx context.Context) (*oauth2.Token, error) {
	token, err := a.source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	return token, nil
}

// IsAuthError reports whether err came from a rejected token request.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthFailed) {
		return true
	}
	var retrieveErr *oauth2.RetrieveError
	return errors.As(err, &retrieveErr)
}
