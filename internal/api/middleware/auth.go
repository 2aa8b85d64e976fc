package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dstreet/taskhub/internal/api/shared"
	"github.com/dstreet/taskhub/internal/redact"
	"github.com/dstreet/taskhub/internal/service/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// unauthorizedMessage is the single message for every token failure. Missing,
// malformed, invalid, and expired tokens are indistinguishable to the caller.
const unauthorizedMessage = "Invalid or expired authentication token"

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates JWT tokens from the Authorization header and
// adds the verified claims to the request context for authorized requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, unauthorizedMessage)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			shared.RespondWithError(w, r, http.StatusUnauthorized, unauthorizedMessage)
			return
		}

		token := parts[1]

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch err {
			case auth.ErrExpiredToken, auth.ErrInvalidToken:
				shared.RespondWithError(w, r, http.StatusUnauthorized, unauthorizedMessage)
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(
					w,
					r,
					http.StatusInternalServerError,
					"Authentication error",
				)
			}
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserClaimsContextKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireOwner enforces that the {userID} path segment names the same user
// the token was issued for. A caller can only ever act as the identity in
// their own token, never another user's resource path.
func (m *AuthMiddleware) RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetUserClaims(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, unauthorizedMessage)
			return
		}

		pathUserID := chi.URLParam(r, "userID")
		pathUUID, err := uuid.Parse(pathUserID)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusUnprocessableEntity,
				"Invalid user_id format - must be valid UUID")
			return
		}

		if pathUUID != claims.UserID {
			shared.RespondWithError(w, r, http.StatusForbidden,
				"You do not have permission to access this resource")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetUserClaims extracts the verified token claims from the request context.
// Returns the claims and a boolean indicating if they were found.
func GetUserClaims(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(shared.UserClaimsContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}
