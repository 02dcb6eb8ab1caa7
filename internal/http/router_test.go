package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/markvault/markvault/internal/auth"
	"github.com/markvault/markvault/internal/bookmark"
	"github.com/markvault/markvault/internal/config"
	"github.com/markvault/markvault/internal/logging"
	"github.com/markvault/markvault/internal/user"
)

// fakeUsers satisfies auth.UserStore and user.Updater
type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[uuid.UUID]*user.User)}
}

func (s *fakeUsers) Create(ctx context.Context, email, passwordHash string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return nil, user.ErrDuplicateEmail
		}
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *fakeUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (s *fakeUsers) Update(ctx context.Context, id uuid.UUID, fields user.UpdateFields) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	if fields.Email != nil {
		for otherID, other := range s.users {
			if otherID != id && other.Email == *fields.Email {
				return nil, user.ErrDuplicateEmail
			}
		}
		u.Email = *fields.Email
	}
	if fields.FirstName != nil {
		u.FirstName = fields.FirstName
	}
	if fields.LastName != nil {
		u.LastName = fields.LastName
	}
	u.UpdatedAt = time.Now()
	return u, nil
}

// fakeBookmarks satisfies bookmark.Store
type fakeBookmarks struct {
	mu        sync.Mutex
	bookmarks map[uuid.UUID]*bookmark.Bookmark
}

func newFakeBookmarks() *fakeBookmarks {
	return &fakeBookmarks{bookmarks: make(map[uuid.UUID]*bookmark.Bookmark)}
}

func (s *fakeBookmarks) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]bookmark.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []bookmark.Bookmark
	for _, b := range s.bookmarks {
		if b.OwnerID == ownerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *fakeBookmarks) GetByID(ctx context.Context, id uuid.UUID) (*bookmark.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookmarks[id]
	if !ok {
		return nil, bookmark.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (s *fakeBookmarks) Create(ctx context.Context, ownerID uuid.UUID, fields bookmark.CreateFields) (*bookmark.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	b := &bookmark.Bookmark{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       fields.Title,
		Description: fields.Description,
		Link:        fields.Link,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.bookmarks[b.ID] = b

	copied := *b
	return &copied, nil
}

func (s *fakeBookmarks) Update(ctx context.Context, id uuid.UUID, fields bookmark.UpdateFields) (*bookmark.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookmarks[id]
	if !ok {
		return nil, bookmark.ErrNotFound
	}
	if fields.Title != nil {
		b.Title = *fields.Title
	}
	if fields.Description != nil {
		b.Description = fields.Description
	}
	if fields.Link != nil {
		b.Link = *fields.Link
	}
	b.UpdatedAt = time.Now()

	copied := *b
	return &copied, nil
}

func (s *fakeBookmarks) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookmarks[id]; !ok {
		return bookmark.ErrNotFound
	}
	delete(s.bookmarks, id)
	return nil
}

func newTestApp(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Auth.JWTSecret = []byte("test-secret")
	cfg.Auth.AccessTokenDuration = 55 * time.Minute

	logger := logging.NewLogger(true)

	users := newFakeUsers()
	bookmarks := newFakeBookmarks()

	jwtService, err := auth.NewJWTService(cfg.Auth.JWTSecret)
	require.NoError(t, err)

	authService := auth.NewService(users, jwtService, logger, cfg.Auth.AccessTokenDuration)
	bookmarkService := bookmark.NewService(bookmarks)

	return NewRouter(
		cfg,
		auth.NewHandler(authService),
		auth.NewMiddleware(jwtService, users),
		user.NewHandler(users, auth.GetUserFromContext),
		bookmark.NewHandler(bookmarkService),
		logger,
	)
}

func request(app http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func accessToken(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestHealth(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	rec := request(app, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestEndToEndScenario(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	// Signup issues a token
	rec := request(app, http.MethodPost, "/auth/signup", "", `{"email":"demo@demo.com","password":"123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	signupToken := accessToken(t, rec)

	// Signin issues a fresh token for the same credentials
	rec = request(app, http.MethodPost, "/auth/signin", "", `{"email":"demo@demo.com","password":"123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	signinToken := accessToken(t, rec)

	// Profile comes back sanitized
	rec = request(app, http.MethodGet, "/users/me", signinToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, strings.ToLower(rec.Body.String()), "hash")
	require.NotContains(t, rec.Body.String(), "argon2id")

	// The signup token works too
	rec = request(app, http.MethodGet, "/users/me", signupToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Profile edit
	rec = request(app, http.MethodPatch, "/users", signinToken, `{"first_name":"Demo"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"first_name":"Demo"`)

	// Create a bookmark
	rec = request(app, http.MethodPost, "/bookmarks", signinToken, `{"title":"Go blog","link":"https://go.dev/blog"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created bookmark.Bookmark
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// A second user cannot see it
	rec = request(app, http.MethodPost, "/auth/signup", "", `{"email":"other@demo.com","password":"456"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	otherToken := accessToken(t, rec)

	path := fmt.Sprintf("/bookmarks/%s", created.ID)
	rec = request(app, http.MethodGet, path, otherToken, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = request(app, http.MethodGet, "/bookmarks", otherToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), created.ID.String())

	// The owner still can
	rec = request(app, http.MethodGet, path, signinToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users/me"},
		{http.MethodPatch, "/users"},
		{http.MethodGet, "/bookmarks"},
		{http.MethodPost, "/bookmarks"},
		{http.MethodGet, "/bookmarks/" + uuid.NewString()},
		{http.MethodPatch, "/bookmarks/" + uuid.NewString()},
		{http.MethodDelete, "/bookmarks/" + uuid.NewString()},
	} {
		rec := request(app, route.method, route.path, "", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestSignupConflictAndSigninUniformity(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	rec := request(app, http.MethodPost, "/auth/signup", "", `{"email":"demo@demo.com","password":"123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = request(app, http.MethodPost, "/auth/signup", "", `{"email":"demo@demo.com","password":"123"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	unknown := request(app, http.MethodPost, "/auth/signin", "", `{"email":"ghost@demo.com","password":"123"}`)
	wrongPw := request(app, http.MethodPost, "/auth/signin", "", `{"email":"demo@demo.com","password":"nope"}`)
	require.Equal(t, http.StatusForbidden, unknown.Code)
	require.Equal(t, http.StatusForbidden, wrongPw.Code)
	require.Equal(t, unknown.Body.String(), wrongPw.Body.String())
}
