package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dstreet/taskhub/internal/api/shared"
	"github.com/dstreet/taskhub/internal/domain"
	"github.com/dstreet/taskhub/internal/redact"
	"github.com/dstreet/taskhub/internal/service/auth"
	"github.com/dstreet/taskhub/internal/store"
)

// invalidCredentialsMessage is the single message for every signin failure.
// An unknown email and a wrong password are indistinguishable to the caller.
const invalidCredentialsMessage = "Invalid email or password"

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordHasher auth.PasswordHasher,
	passwordVerifier auth.PasswordVerifier,
) *AuthHandler {
	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordHasher:   passwordHasher,
		passwordVerifier: passwordVerifier,
	}
}

// Signup handles the /auth/signup endpoint. It creates a new account and
// returns an access token so the caller is signed in immediately.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest

	// Parse request
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid request format")
		return
	}

	// Validate request
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(
			w,
			r,
			http.StatusUnprocessableEntity,
			"Validation error: "+err.Error(),
		)
		return
	}

	// Create user
	user, err := domain.NewUser(req.Email, req.Password)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, GetSafeErrorMessage(err))
		return
	}

	// Hash the password before it is stored; the plaintext never leaves
	// the handler.
	hashed, err := h.passwordHasher.Hash(user.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", redact.Error(err))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}
	user.HashedPassword = hashed
	user.Password = ""

	// Store user
	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(
				w,
				r,
				http.StatusUnprocessableEntity,
				"Email already exists",
			)
			return
		}
		shared.RespondWithErrorAndLog(
			w,
			r,
			http.StatusInternalServerError,
			"Failed to create user",
			err,
		)
		return
	}

	// Generate token
	token, err := h.jwtService.GenerateToken(r.Context(), user.ID, user.Email)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w,
			r,
			http.StatusInternalServerError,
			"Failed to generate authentication token",
			err,
		)
		return
	}

	// Return success response
	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     token,
		CreatedAt: user.CreatedAt,
	})
}

// Signin handles the /auth/signin endpoint. The failure responses for an
// unknown email and a wrong password are identical so the endpoint cannot
// be used to discover which addresses have accounts.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest

	// Parse request
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid request format")
		return
	}

	// Validate request
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(
			w,
			r,
			http.StatusUnprocessableEntity,
			"Validation error: "+err.Error(),
		)
		return
	}

	// Get user by email
	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, invalidCredentialsMessage)
			return
		}
		shared.RespondWithErrorAndLog(
			w,
			r,
			http.StatusInternalServerError,
			"Failed to authenticate user",
			err,
		)
		return
	}

	// Verify password using the injected verifier
	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, invalidCredentialsMessage)
		return
	}

	// Generate token
	token, err := h.jwtService.GenerateToken(r.Context(), user.ID, user.Email)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w,
			r,
			http.StatusInternalServerError,
			"Failed to generate authentication token",
			err,
		)
		return
	}

	// Return success response
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     token,
		CreatedAt: user.CreatedAt,
	})
}
