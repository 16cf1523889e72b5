// Package spotify provides a read-only wrapper around the Spotify Web API for public playlists.
package spotify

import (
	"net/http"

	"github.com/zmb3/spotify/v2"
)

// DefaultTrackLimit caps how many playlist items are fetched per roast.
const DefaultTrackLimit = 50

// Client wraps the Spotify API client with playlist fetching.
type Client struct {
	api        *spotify.Client
	trackLimit int
}

// Option configures a Client.
type Option func(*options)

type options struct {
	baseURL    string
	trackLimit int
}

// WithBaseURL points the client at a different API root. The URL must end with a slash.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// WithTrackLimit sets how many playlist items are requested. Values outside 1-100 are ignored.
func WithTrackLimit(n int) Option {
	return func(o *options) {
		if n > 0 && n <= 100 {
			o.trackLimit = n
		}
	}
}

// New creates a Spotify client wrapper.
// The HTTP client should already attach an application token, see auth.Authenticator.
func New(httpClient *http.Client, opts ...Option) *Client {
	o := options{trackLimit: DefaultTrackLimit}
	for _, opt := range opts {
		opt(&o)
	}

	var clientOpts []spotify.ClientOption
	if o.baseURL != "" {
		clientOpts = append(clientOpts, spotify.WithBaseURL(o.baseURL))
	}

	return &Client{
		api:        spotify.New(httpClient, clientOpts...),
		trackLimit: o.trackLimit,
	}
}
