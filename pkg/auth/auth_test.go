package auth

import (
	"errors"
	"testing"
)

func TestNew_RejectsEmptySecret(t *testing.T) {
	for _, secret := range []string{"", "   "} {
		if _, err := New(secret); err == nil {
			t.Errorf("New(%q): expected error, got nil", secret)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	a, err := New("s3cret")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	token, err := a.Authenticate("Bearer s3cret")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if token != "s3cret" {
		t.Errorf("expected token back, got %q", token)
	}

	// Scheme matching is case-insensitive.
	if _, err := a.Authenticate("bearer s3cret"); err != nil {
		t.Errorf("lowercase scheme rejected: %v", err)
	}
}

func TestAuthenticate_Failures(t *testing.T) {
	a, err := New("s3cret")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	cases := []struct {
		header string
		want   error
	}{
		{"", ErrNoCredentials},
		{"   ", ErrNoCredentials},
		{"Basic dXNlcjpwYXNz", ErrInvalidScheme},
		{"s3cret", ErrInvalidScheme},
		{"Bearer wrong", ErrInvalidToken},
		{"Bearer ", ErrInvalidToken},
	}

	for _, tc := range cases {
		if _, err := a.Authenticate(tc.header); !errors.Is(err, tc.want) {
			t.Errorf("Authenticate(%q): expected %v, got %v", tc.header, tc.want, err)
		}
	}
}
