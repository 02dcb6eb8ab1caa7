package bookmark

import (
	"time"

	"github.com/google/uuid"
)

// Bookmark is an owned resource. OwnerID is fixed at creation and never
// transferable.
type Bookmark struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Link        string    `json:"link"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateFields is the payload for new bookmarks
type CreateFields struct {
	Title       string
	Description *string
	Link        string
}

// UpdateFields carries a partial bookmark update. Nil fields are left as-is.
type UpdateFields struct {
	Title       *string
	Description *string
	Link        *string
}
