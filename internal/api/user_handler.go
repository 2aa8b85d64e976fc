package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dstreet/taskhub/internal/api/shared"
	"github.com/dstreet/taskhub/internal/platform/logger"
	"github.com/dstreet/taskhub/internal/service"
	"github.com/dstreet/taskhub/internal/store"
)

// UserResponse represents the response data for a user profile.
// It never carries password material.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserHandler handles account-related HTTP requests.
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}

	return &UserHandler{
		userService: userService,
		logger:      logger.With(slog.String("component", "user_handler")),
	}
}

// GetProfile handles GET /users/{userID} requests.
// The ownership middleware has already pinned {userID} to the caller's token.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	claims, ok := getClaims(r)
	if !ok {
		log.Warn("user claims not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User not authenticated")
		return
	}

	user, err := h.userService.GetUser(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
			return
		}
		shared.RespondWithErrorAndLog(
			w,
			r,
			http.StatusInternalServerError,
			"Failed to get user",
			err,
		)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// DeleteAccount handles DELETE /users/{userID} requests.
// Deleting the account removes every task the user owns.
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	claims, ok := getClaims(r)
	if !ok {
		log.Warn("user claims not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.userService.DeleteAccount(r.Context(), claims.UserID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
			return
		}
		shared.RespondWithErrorAndLog(
			w,
			r,
			http.StatusInternalServerError,
			"Failed to delete account",
			err,
		)
		return
	}

	log.Info("account deleted", slog.String("user_id", claims.UserID.String()))
	w.WriteHeader(http.StatusNoContent)
}
