package auth

import (
	"context"
	"time"
)

// JWTService issues and verifies the self-contained signed tokens used by
// both the HTTP and streaming authentication gates. Tokens carry no
// server-side state; expiry is the only invalidation mechanism.
type JWTService interface {
	// GenerateToken creates a signed token whose subject is the given
	// account email. Returns the compact token string or an error if
	// signing fails.
	GenerateToken(ctx context.Context, email string) (string, error)

	// ValidateToken verifies the signature and expiry of the token and
	// extracts its claims. Returns ErrExpiredToken or ErrInvalidToken on
	// failure; it never panics on malformed input.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified claim set of an accepted token.
type Claims struct {
	// Subject is the account email the token was issued for.
	Subject string

	// IssuedAt is when the token was created.
	IssuedAt time.Time

	// ExpiresAt is when the token stops being valid.
	ExpiresAt time.Time

	// ID is the unique token identifier.
	ID string
}
