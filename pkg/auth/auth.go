// Package auth validates bearer credentials against the one process-wide
// API secret.
package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
)

var (
	// ErrNoCredentials is returned when no Authorization header was sent.
	ErrNoCredentials = errors.New("missing authorization header")
	// ErrInvalidScheme is returned when the header does not use the
	// Bearer scheme.
	ErrInvalidScheme = errors.New("invalid authentication scheme, must be Bearer")
	// ErrInvalidToken is returned when the presented credential does not
	// match the configured secret.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Authenticator checks presented credentials against the expected secret.
type Authenticator struct {
	secret []byte
}

// New creates an Authenticator. An empty secret is refused: a service
// that cannot authenticate must not serve.
func New(secret string) (*Authenticator, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("api secret not configured, cannot start service securely")
	}
	return &Authenticator{secret: []byte(secret)}, nil
}

// Authenticate validates an Authorization header value and returns the
// presented token. The credential comparison is constant-time.
func (a *Authenticator) Authenticate(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrNoCredentials
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidScheme
	}

	token = strings.TrimSpace(token)
	if subtle.ConstantTimeCompare([]byte(token), a.secret) != 1 {
		return "", ErrInvalidToken
	}

	return token, nil
}
