package identity

import (
	"errors"
	"fmt"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
)

var (
	// ErrNoSecret is returned when no webhook signing secret is configured.
	ErrNoSecret = errors.New("identity webhook secret not configured")
	// ErrBadSignature is returned when a delivery fails signature verification.
	ErrBadSignature = errors.New("invalid webhook signature")
)

// Verifier checks that a raw webhook delivery was signed by the provider.
type Verifier interface {
	Verify(payload []byte, headers http.Header) error
}

// SvixVerifier verifies deliveries carrying svix-id, svix-timestamp and
// svix-signature headers.
type SvixVerifier struct {
	wh *svix.Webhook
}

func NewSvixVerifier(secret string) (*SvixVerifier, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("init webhook verifier: %w", err)
	}
	return &SvixVerifier{wh: wh}, nil
}

func (v *SvixVerifier) Verify(payload []byte, headers http.Header) error {
	if err := v.wh.Verify(payload, headers); err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	return nil
}
