package bookmark

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/markvault/markvault/internal/auth"
	"github.com/markvault/markvault/internal/httputil"
	"github.com/markvault/markvault/internal/logging"
)

// Handler contains HTTP handlers for bookmark endpoints. All routes sit
// behind the auth guard.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateRequest represents the create bookmark request body
type CreateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Link        string  `json:"link"`
}

// EditRequest is a partial bookmark update; absent fields are left unchanged
type EditRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Link        *string `json:"link"`
}

// List returns the caller's bookmarks
// @Summary      List bookmarks
// @Description  Return all bookmarks owned by the authenticated user
// @Tags         bookmarks
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Bookmark
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Router       /bookmarks [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	me, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "unauthenticated", httputil.CodeUnauthenticated, http.StatusUnauthorized)
		return
	}

	bookmarks, err := h.service.List(r.Context(), me.ID)
	if err != nil {
		logger.Error("failed to list bookmarks", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list bookmarks", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, bookmarks, http.StatusOK)
}

// Get returns one bookmark by id
// @Summary      Get bookmark by id
// @Description  Return a single bookmark owned by the authenticated user
// @Tags         bookmarks
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Bookmark ID"
// @Success      200 {object} Bookmark
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Failure      403 {object} httputil.ErrorResponse "Access denied"
// @Router       /bookmarks/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	me, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "unauthenticated", httputil.CodeUnauthenticated, http.StatusUnauthorized)
		return
	}

	bookmarkID, ok := pathID(w, r)
	if !ok {
		return
	}

	b, err := h.service.Get(r.Context(), me.ID, bookmarkID)
	if err != nil {
		respondServiceError(w, logger, err)
		return
	}

	httputil.RespondJSON(w, b, http.StatusOK)
}

// Create stores a new bookmark owned by the caller
// @Summary      Create bookmark
// @Description  Create a bookmark owned by the authenticated user
// @Tags         bookmarks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRequest true "Bookmark fields"
// @Success      201 {object} Bookmark
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Router       /bookmarks [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	me, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "unauthenticated", httputil.CodeUnauthenticated, http.StatusUnauthorized)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid create bookmark request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	b, err := h.service.Create(r.Context(), me.ID, CreateFields{
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
	})
	if err != nil {
		if errors.Is(err, ErrTitleRequired) || errors.Is(err, ErrLinkRequired) {
			logger.Warn("create bookmark failed: validation error", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
			return
		}
		logger.Error("failed to create bookmark", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to create bookmark", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("bookmark created", "bookmark_id", b.ID)

	httputil.RespondJSON(w, b, http.StatusCreated)
}

// Edit applies a partial update to a bookmark the caller owns
// @Summary      Edit bookmark
// @Description  Update a bookmark owned by the authenticated user
// @Tags         bookmarks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Bookmark ID"
// @Param        request body EditRequest true "Bookmark fields"
// @Success      200 {object} Bookmark
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Failure      403 {object} httputil.ErrorResponse "Access denied"
// @Router       /bookmarks/{id} [patch]
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	me, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "unauthenticated", httputil.CodeUnauthenticated, http.StatusUnauthorized)
		return
	}

	bookmarkID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid edit bookmark request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	b, err := h.service.Update(r.Context(), me.ID, bookmarkID, UpdateFields{
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
	})
	if err != nil {
		respondServiceError(w, logger, err)
		return
	}

	logger.Info("bookmark updated", "bookmark_id", b.ID)

	httputil.RespondJSON(w, b, http.StatusOK)
}

// Delete removes a bookmark the caller owns
// @Summary      Delete bookmark
// @Description  Delete a bookmark owned by the authenticated user
// @Tags         bookmarks
// @Security     BearerAuth
// @Param        id path string true "Bookmark ID"
// @Success      204
// @Failure      401 {object} httputil.ErrorResponse "Unauthenticated"
// @Failure      403 {object} httputil.ErrorResponse "Access denied"
// @Router       /bookmarks/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	me, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "unauthenticated", httputil.CodeUnauthenticated, http.StatusUnauthorized)
		return
	}

	bookmarkID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), me.ID, bookmarkID); err != nil {
		respondServiceError(w, logger, err)
		return
	}

	logger.Info("bookmark deleted", "bookmark_id", bookmarkID)

	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} route parameter. A malformed id gets the same
// response as a foreign or missing bookmark.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, ErrAccessDenied.Error(), httputil.CodeAccessDenied, http.StatusForbidden)
		return uuid.Nil, false
	}
	return id, true
}

func respondServiceError(w http.ResponseWriter, logger *logging.Logger, err error) {
	if errors.Is(err, ErrAccessDenied) {
		logger.Warn("bookmark access denied")
		httputil.RespondErrorWithCode(w, ErrAccessDenied.Error(), httputil.CodeAccessDenied, http.StatusForbidden)
		return
	}
	logger.Error("bookmark operation failed", "error", err.Error())
	httputil.RespondErrorWithCode(w, "internal error", httputil.CodeInternalError, http.StatusInternalServerError)
}
