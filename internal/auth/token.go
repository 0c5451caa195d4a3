package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/garnizeh/jobboard/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
)

// CompanyTokenTTL is the fixed lifetime of a recruiter session token. There
// is no revocation; expiry is the only invalidation.
const CompanyTokenTTL = 30 * 24 * time.Hour

// CompanyClaims is the payload of a recruiter token.
type CompanyClaims struct {
	CompanyID string `json:"company_id"`
	jwt.RegisteredClaims
}

// TokenIssuer issues and verifies HS256 recruiter tokens.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

type IssuerOption func(*TokenIssuer)

// WithClock overrides the time source used for issuing and validation.
func WithClock(now func() time.Time) IssuerOption {
	return func(t *TokenIssuer) { t.now = now }
}

func NewTokenIssuer(secret string, opts ...IssuerOption) *TokenIssuer {
	t := &TokenIssuer{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Issue returns a signed token carrying only companyID.
func (t *TokenIssuer) Issue(companyID string) (string, error) {
	issued := t.now()
	claims := &CompanyClaims{
		CompanyID: companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issued.Add(CompanyTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(issued),
		},
	}

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenStr, nil
}

// Parse verifies signature and expiry and returns the embedded company ID.
// Expired tokens yield apperr.ErrTokenExpired, anything else that fails
// verification yields apperr.ErrTokenInvalid.
func (t *TokenIssuer) Parse(tokenStr string) (string, error) {
	claims := &CompanyClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperr.New(apperr.ErrTokenExpired, "Token expired. Please log in again.")
		}
		return "", apperr.New(apperr.ErrTokenInvalid, "Invalid token.")
	}

	if !token.Valid || claims.CompanyID == "" {
		return "", apperr.New(apperr.ErrTokenInvalid, "Invalid token.")
	}

	return claims.CompanyID, nil
}
