package bookmark

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/markvault/markvault/internal/database"
)

var ErrNotFound = errors.New("bookmark not found")

// Repository handles bookmark persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// ListByOwner returns all bookmarks belonging to an owner. The owner filter
// lives in the query itself so foreign rows can never leak through paging.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Bookmark, error) {
	var dbBookmarks []database.Bookmark
	err := r.db.NewSelect().
		Model(&dbBookmarks).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	bookmarks := make([]Bookmark, 0, len(dbBookmarks))
	for i := range dbBookmarks {
		bookmarks = append(bookmarks, *mapDBBookmarkToModel(&dbBookmarks[i]))
	}

	return bookmarks, nil
}

// GetByID retrieves a bookmark by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Bookmark, error) {
	dbBookmark := new(database.Bookmark)
	err := r.db.NewSelect().
		Model(dbBookmark).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bookmark by id: %w", err)
	}

	return mapDBBookmarkToModel(dbBookmark), nil
}

// Create inserts a new bookmark owned by ownerID
func (r *Repository) Create(ctx context.Context, ownerID uuid.UUID, fields CreateFields) (*Bookmark, error) {
	dbBookmark := &database.Bookmark{
		OwnerID:     ownerID,
		Title:       fields.Title,
		Description: fields.Description,
		Link:        fields.Link,
	}

	_, err := r.db.NewInsert().
		Model(dbBookmark).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to create bookmark: %w", err)
	}

	return mapDBBookmarkToModel(dbBookmark), nil
}

// Update applies a partial update and returns the updated bookmark.
// The owner column is never touched.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Bookmark, error) {
	dbBookmark := new(database.Bookmark)
	q := r.db.NewUpdate().
		Model(dbBookmark).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Returning("*")

	if fields.Title != nil {
		q = q.Set("title = ?", *fields.Title)
	}
	if fields.Description != nil {
		q = q.Set("description = ?", *fields.Description)
	}
	if fields.Link != nil {
		q = q.Set("link = ?", *fields.Link)
	}

	result, err := q.Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update bookmark: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBBookmarkToModel(dbBookmark), nil
}

// Delete removes a bookmark by ID
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.Bookmark)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDBBookmarkToModel converts database model to domain model
func mapDBBookmarkToModel(dbb *database.Bookmark) *Bookmark {
	return &Bookmark{
		ID:          dbb.ID,
		OwnerID:     dbb.OwnerID,
		Title:       dbb.Title,
		Description: dbb.Description,
		Link:        dbb.Link,
		CreatedAt:   dbb.CreatedAt,
		UpdatedAt:   dbb.UpdatedAt,
	}
}
