package bookmark

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store
type fakeStore struct {
	mu        sync.Mutex
	bookmarks map[uuid.UUID]*Bookmark
}

func newFakeStore() *fakeStore {
	return &fakeStore{bookmarks: make(map[uuid.UUID]*Bookmark)}
}

func (s *fakeStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Bookmark
	for _, b := range s.bookmarks {
		if b.OwnerID == ownerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookmarks[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (s *fakeStore) Create(ctx context.Context, ownerID uuid.UUID, fields CreateFields) (*Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	b := &Bookmark{
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

func (s *fakeStore) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookmarks[id]
	if !ok {
		return nil, ErrNotFound
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

func (s *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookmarks[id]; !ok {
		return ErrNotFound
	}
	delete(s.bookmarks, id)
	return nil
}

func strPtr(s string) *string { return &s }

func TestService_CreateAndGet(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeStore())
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, CreateFields{
		Title: "Go blog",
		Link:  "https://go.dev/blog",
	})
	require.NoError(t, err)
	require.Equal(t, owner, created.OwnerID)

	got, err := svc.Get(context.Background(), owner, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
}

func TestService_CreateValidation(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeStore())
	owner := uuid.New()

	_, err := svc.Create(context.Background(), owner, CreateFields{Link: "https://go.dev"})
	require.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.Create(context.Background(), owner, CreateFields{Title: "Go"})
	require.ErrorIs(t, err, ErrLinkRequired)
}

func TestService_OwnershipIsolation(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeStore())
	alice := uuid.New()
	bob := uuid.New()

	created, err := svc.Create(context.Background(), alice, CreateFields{
		Title: "Alice's bookmark",
		Link:  "https://example.com",
	})
	require.NoError(t, err)

	// A foreign bookmark and a nonexistent one are indistinguishable
	_, errForeign := svc.Get(context.Background(), bob, created.ID)
	_, errMissing := svc.Get(context.Background(), bob, uuid.New())
	require.ErrorIs(t, errForeign, ErrAccessDenied)
	require.ErrorIs(t, errMissing, ErrAccessDenied)
	require.Equal(t, errForeign, errMissing)

	_, err = svc.Update(context.Background(), bob, created.ID, UpdateFields{Title: strPtr("stolen")})
	require.ErrorIs(t, err, ErrAccessDenied)

	err = svc.Delete(context.Background(), bob, created.ID)
	require.ErrorIs(t, err, ErrAccessDenied)

	// The owner still sees the original
	got, err := svc.Get(context.Background(), alice, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice's bookmark", got.Title)
}

func TestService_ListFiltersByOwner(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeStore())
	alice := uuid.New()
	bob := uuid.New()

	_, err := svc.Create(context.Background(), alice, CreateFields{Title: "a", Link: "https://a.example"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), bob, CreateFields{Title: "b", Link: "https://b.example"})
	require.NoError(t, err)

	aliceList, err := svc.List(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, aliceList, 1)
	require.Equal(t, alice, aliceList[0].OwnerID)
}

func TestService_UpdateKeepsOwner(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeStore())
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, CreateFields{
		Title:       "old title",
		Description: strPtr("old description"),
		Link:        "https://example.com",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), owner, created.ID, UpdateFields{
		Title: strPtr("new title"),
	})
	require.NoError(t, err)
	require.Equal(t, "new title", updated.Title)
	require.Equal(t, "old description", *updated.Description)
	require.Equal(t, owner, updated.OwnerID)
}

func TestService_Delete(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeStore())
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, CreateFields{Title: "t", Link: "https://example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), owner, created.ID))

	_, err = svc.Get(context.Background(), owner, created.ID)
	require.ErrorIs(t, err, ErrAccessDenied)
}
