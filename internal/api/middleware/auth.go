package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hivetech/kanban-api/internal/api/shared"
	"github.com/hivetech/kanban-api/internal/authz"
	"github.com/hivetech/kanban-api/internal/service/auth"
	"github.com/hivetech/kanban-api/internal/store"
)

// AuthMiddleware is the single choke-point every inbound HTTP request
// passes through before reaching business logic. It consults the
// authorization policy, verifies bearer tokens, confirms the account
// still exists, and attaches the authenticated identity to the request
// context. It is purely a filter and performs no persistence.
type AuthMiddleware struct {
	jwtService auth.JWTService
	userStore  store.UserStore
	policy     *authz.Policy
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(
	jwtService auth.JWTService,
	userStore store.UserStore,
	policy *authz.Policy,
) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userStore:  userStore,
		policy:     policy,
	}
}

// ExtractBearerToken pulls the token out of a standard
// "Authorization: Bearer <token>" header value.
// Returns auth.ErrMissingToken if the header is absent or malformed.
func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", auth.ErrMissingToken
	}
	return parts[1], nil
}

// Authenticate validates bearer tokens on every route the policy marks
// as protected and attaches the authenticated identity to the request
// context. Requests to open routes pass through untouched. Any
// verification failure short-circuits with 401 before any handler runs;
// the failure kind is never exposed to the caller.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.policy.RequiresAuth(r.Method, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := ExtractBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			// Expired, malformed, and tampered tokens all collapse to
			// the same unauthenticated outcome.
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		// The token is self-contained, so confirm the account still
		// exists; it may have been deleted after issuance.
		user, err := m.userStore.GetByEmail(r.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
				return
			}
			slog.Error("failed to look up token subject", "error", err)
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		ctx := shared.WithIdentity(r.Context(), shared.Identity{
			UserID: user.ID,
			Email:  user.Email,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
