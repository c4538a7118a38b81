package api

import (
	"net/http"

	"github.com/google/uuid"
)

// TokenSource supplies the current bearer token, or "" when logged out.
// The session manager implements it.
type TokenSource interface {
	Token() string
}

// Transport is the authenticated request pipeline: an http.RoundTripper that
// attaches the current bearer token and a request ID to every outgoing
// request. It wraps a base transport and never mutates the caller's request.
type Transport struct {
	// Base is the underlying transport. Defaults to http.DefaultTransport.
	Base http.RoundTripper
	// Tokens supplies the bearer token. When nil, or when it returns "",
	// requests go out unauthenticated (the login request relies on this).
	Tokens TokenSource
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	clone := req.Clone(req.Context())
	if t.Tokens != nil {
		if tok := t.Tokens.Token(); tok != "" {
			clone.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	clone.Header.Set("X-Request-ID", uuid.NewString())

	return base.RoundTrip(clone)
}
