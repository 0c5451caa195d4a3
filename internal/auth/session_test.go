package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/garnizeh/jobboard/internal/apperr"
	"github.com/garnizeh/jobboard/internal/auth"
	"github.com/garnizeh/jobboard/internal/testutil"
)

func TestProviderSessionVerifier(t *testing.T) {
	key := testutil.NewSessionKey(t)
	stranger := testutil.NewSessionKey(t)

	v, err := auth.NewProviderSessionVerifier(key.PublicPEM, "https://idp.example.com", nil)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	cases := []struct {
		name    string
		token   string
		wantID  string
		wantErr bool
	}{
		{name: "Valid", token: key.Sign(t, "user_1", "https://idp.example.com", time.Hour), wantID: "user_1"},
		{name: "Expired", token: key.Sign(t, "user_1", "https://idp.example.com", -time.Hour), wantErr: true},
		{name: "WrongIssuer", token: key.Sign(t, "user_1", "https://evil.example.com", time.Hour), wantErr: true},
		{name: "WrongKey", token: stranger.Sign(t, "user_1", "https://idp.example.com", time.Hour), wantErr: true},
		{name: "MissingSubject", token: key.Sign(t, "", "https://idp.example.com", time.Hour), wantErr: true},
		{name: "Garbage", token: "not-a-token", wantErr: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			id, err := v.Verify(context.Background(), c.token)
			if c.wantErr {
				if !errors.Is(err, apperr.ErrUnauthorized) {
					t.Fatalf("expected ErrUnauthorized, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("verify: %v", err)
			}
			if id != c.wantID {
				t.Fatalf("want %q got %q", c.wantID, id)
			}
		})
	}
}

func TestProviderSessionVerifier_BadKey(t *testing.T) {
	if _, err := auth.NewProviderSessionVerifier([]byte("not pem"), "", nil); err == nil {
		t.Fatalf("expected error for invalid PEM")
	}
}
