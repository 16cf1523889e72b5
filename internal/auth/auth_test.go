package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestNewMissingCredentials(t *testing.T) {
	tests := []struct {
		name         string
		clientID     string
		clientSecret string
	}{
		{"missing id", "", "secret"},
		{"missing secret", "id", ""},
		{"missing both", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.clientID, tt.clientSecret)
			if !errors.Is(err, ErrMissingCredentials) {
				t.Errorf("New() error = %v, want ErrMissingCredentials", err)
			}
		})
	}
}

func TestTokenIsCached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q, want client_credentials", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"app-token","token_type":"bearer","expires_in":3600}`))
	}))
	defer server.Close()

	a, err := New("id", "secret", WithTokenURL(server.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		token, err := a.Token(context.Background())
		if err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if token.AccessToken != "app-token" {
			t.Errorf("AccessToken = %q, want app-token", token.AccessToken)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("token endpoint called %d times, want 1", got)
	}
}

func TestTokenRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer server.Close()

	a, err := New("id", "wrong", WithTokenURL(server.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = a.Token(context.Background())
	if !errors.Is(err, ErrAuthFailed) {
		t.Errorf("Token() error = %v, want ErrAuthFailed", err)
	}
	if !IsAuthError(err) {
		t.Error("IsAuthError() = false, want true")
	}
}

func TestIsAuthError(t *testing.T) {
	if IsAuthError(errors.New("boom")) {
		t.Error("IsAuthError(plain error) = true, want false")
	}
	if IsAuthError(nil) {
		t.Error("IsAuthError(nil) = true, want false")
	}
}
