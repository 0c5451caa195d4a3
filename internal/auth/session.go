package auth

import (
	"context"
	"crypto/rsa"
	"fmt"
	"slices"
	"time"

	"github.com/garnizeh/jobboard/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
)

// SessionVerifier validates an identity-provider session credential and
// returns the applicant's external user ID.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// sessionClaims mirrors the provider's session token: sub is the user ID and
// azp the origin the session was issued for.
type sessionClaims struct {
	AuthorizedParty string `json:"azp,omitempty"`
	jwt.RegisteredClaims
}

// ProviderSessionVerifier checks RS256 session tokens issued by the identity
// provider against its public key, without a network round trip.
type ProviderSessionVerifier struct {
	key               *rsa.PublicKey
	issuer            string
	authorizedParties []string
	now               func() time.Time
}

var _ SessionVerifier = (*ProviderSessionVerifier)(nil)

// NewProviderSessionVerifier parses the PEM encoded provider key. issuer and
// authorizedParties are only enforced when non-empty.
func NewProviderSessionVerifier(publicKeyPEM []byte, issuer string, authorizedParties []string) (*ProviderSessionVerifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse session public key: %w", err)
	}

	return &ProviderSessionVerifier{
		key:               key,
		issuer:            issuer,
		authorizedParties: authorizedParties,
		now:               time.Now,
	}, nil
}

// SetClock overrides the time source. Intended for tests.
func (v *ProviderSessionVerifier) SetClock(now func() time.Time) {
	v.now = now
}

func (v *ProviderSessionVerifier) Verify(_ context.Context, tokenStr string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(5 * time.Second),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return v.key, nil
	}, opts...)
	if err != nil || !token.Valid {
		return "", apperr.Unauthorized("Not authorized. Please log in.")
	}

	if claims.Subject == "" {
		return "", apperr.Unauthorized("Not authorized. Please log in.")
	}

	if len(v.authorizedParties) > 0 && claims.AuthorizedParty != "" &&
		!slices.Contains(v.authorizedParties, claims.AuthorizedParty) {
		return "", apperr.Unauthorized("Not authorized. Please log in.")
	}

	return claims.Subject, nil
}
