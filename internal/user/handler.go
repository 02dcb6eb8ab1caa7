package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/markvault/markvault/internal/httputil"
	"github.com/markvault/markvault/internal/logging"
)

// Updater is the slice of the repository the handlers need
type Updater interface {
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*User, error)
}

// CurrentUser resolves the authenticated identity from the request context.
// Wired to auth.GetUserFromContext; injected so handlers stay testable.
type CurrentUser func(ctx context.Context) (*User, bool)

// Handler contains HTTP handlers for user profile endpoints
type Handler struct {
	users       Updater
	currentUser CurrentUser
}

func NewHandler(users Updater, currentUser CurrentUser) *Handler {
	return &Handler{users: users, currentUser: currentUser}
}

// EditRequest is a partial profile update; absent fields are left unchanged
type EditRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// Response is the sanitized account shape returned by every user endpoint.
// It has no hash field at all, on any path.
type Response struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewResponse(u *User) Response {
	return Response{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// GetMe returns the authenticated user's profile
// @Summary      Get current user
// @Description  Return the authenticated user's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Response
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Router       /users/me [get]
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	me, ok := h.currentUser(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "unauthenticated", httputil.CodeUnauthenticated, http.StatusUnauthorized)
		return
	}

	httputil.RespondJSON(w, NewResponse(me), http.StatusOK)
}

// Edit applies a partial profile update to the authenticated user
// @Summary      Edit current user
// @Description  Update profile fields of the authenticated user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body EditRequest true "Profile fields"
// @Success      200 {object} Response
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Failure      403 {object} httputil.ErrorResponse "Email already taken"
// @Router       /users [patch]
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	me, ok := h.currentUser(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "unauthenticated", httputil.CodeUnauthenticated, http.StatusUnauthorized)
		return
	}

	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid edit user request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			logger.Warn("edit user failed: invalid email format")
			httputil.RespondErrorWithCode(w, "invalid email format", httputil.CodeValidationFailed, http.StatusBadRequest)
			return
		}
	}

	updated, err := h.users.Update(r.Context(), me.ID, UpdateFields{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			logger.Warn("edit user failed: email already taken")
			httputil.RespondErrorWithCode(w, "email already exists", httputil.CodeAccountExists, http.StatusForbidden)
			return
		}
		logger.Error("edit user failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user profile updated", "user_id", updated.ID)

	httputil.RespondJSON(w, NewResponse(updated), http.StatusOK)
}
