package bookmark

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrAccessDenied covers both a missing bookmark and a bookmark owned by
	// someone else. The two cases are deliberately indistinguishable so that
	// probing ids confirms nothing about what exists.
	ErrAccessDenied = errors.New("access to resource denied")

	ErrTitleRequired = errors.New("title is required")
	ErrLinkRequired  = errors.New("link is required")
)

// Store is the persistence interface the service gates access through.
// Satisfied by *Repository.
type Store interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Bookmark, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Bookmark, error)
	Create(ctx context.Context, ownerID uuid.UUID, fields CreateFields) (*Bookmark, error)
	Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Bookmark, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service enforces ownership on every bookmark operation
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the caller's bookmarks, filtered by owner at the query level
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]Bookmark, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// Get returns a bookmark only if the caller owns it
func (s *Service) Get(ctx context.Context, ownerID, bookmarkID uuid.UUID) (*Bookmark, error) {
	return s.ownedBookmark(ctx, ownerID, bookmarkID)
}

// Create stores a new bookmark owned by the caller. There is no ownership
// check: the owner is the caller, fixed here once and for all.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, fields CreateFields) (*Bookmark, error) {
	if fields.Title == "" {
		return nil, ErrTitleRequired
	}
	if fields.Link == "" {
		return nil, ErrLinkRequired
	}

	return s.store.Create(ctx, ownerID, fields)
}

// Update edits a bookmark only if the caller owns it
func (s *Service) Update(ctx context.Context, ownerID, bookmarkID uuid.UUID, fields UpdateFields) (*Bookmark, error) {
	if _, err := s.ownedBookmark(ctx, ownerID, bookmarkID); err != nil {
		return nil, err
	}

	return s.store.Update(ctx, bookmarkID, fields)
}

// Delete removes a bookmark only if the caller owns it
func (s *Service) Delete(ctx context.Context, ownerID, bookmarkID uuid.UUID) error {
	if _, err := s.ownedBookmark(ctx, ownerID, bookmarkID); err != nil {
		return err
	}

	return s.store.Delete(ctx, bookmarkID)
}

// ownedBookmark is the lookup-then-check gate used by every per-instance
// operation
func (s *Service) ownedBookmark(ctx context.Context, ownerID, bookmarkID uuid.UUID) (*Bookmark, error) {
	b, err := s.store.GetByID(ctx, bookmarkID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	if b.OwnerID != ownerID {
		return nil, ErrAccessDenied
	}

	return b, nil
}
