package auth

import "errors"

// Common authentication service errors.
//
// The distinct kinds exist for internal diagnostics only; the gates
// collapse all of them into a single unauthenticated outcome and never
// expose which kind occurred to the caller.
var (
	// ErrInvalidToken indicates the token is malformed or its signature
	// does not match.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token's expiry timestamp has passed.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrUnknownSubject indicates the token verified but its subject no
	// longer exists in the credential store (account deleted after the
	// token was issued).
	ErrUnknownSubject = errors.New("token subject no longer exists")
)
