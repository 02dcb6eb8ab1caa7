package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/markvault/markvault/internal/httputil"
	"github.com/markvault/markvault/internal/logging"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninRequest represents the signin request body
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries the issued access token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Signup handles account creation
// @Summary      Create a new account
// @Description  Create an account with email and password and receive an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup credentials"
// @Success      201 {object} TokenResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      403 {object} httputil.ErrorResponse "Email already exists"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid signup request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	token, err := h.service.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrAccountExists):
			logger.Warn("signup failed: email already taken")
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeAccountExists, http.StatusForbidden)
		case errors.Is(err, ErrEmailRequired), errors.Is(err, ErrPasswordRequired), errors.Is(err, ErrInvalidEmailFormat):
			logger.Warn("signup failed: validation error", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
		default:
			logger.Error("signup failed: internal error", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to sign up", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("user signed up")

	httputil.RespondJSON(w, TokenResponse{AccessToken: token}, http.StatusCreated)
}

// Signin handles credential verification
// @Summary      Sign in
// @Description  Verify credentials and receive an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SigninRequest true "Signin credentials"
// @Success      200 {object} TokenResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      403 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/signin [post]
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid signin request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	token, err := h.service.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("signin failed: invalid credentials")
			httputil.RespondErrorWithCode(w, "invalid email or password", httputil.CodeInvalidCredentials, http.StatusForbidden)
			return
		}
		logger.Error("signin failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to sign in", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user signed in")

	httputil.RespondJSON(w, TokenResponse{AccessToken: token}, http.StatusOK)
}
