package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the database model for an account. Email uniqueness is enforced by
// the unique constraint, not by application-level locking.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,nullzero,default:gen_random_uuid()"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	FirstName    *string   `bun:"first_name"`
	LastName     *string   `bun:"last_name"`
	CreatedAt    time.Time `bun:"created_at,notnull,nullzero,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,nullzero,default:current_timestamp"`
}

// Bookmark is the database model for a bookmark. OwnerID is set at creation
// and never updated.
type Bookmark struct {
	bun.BaseModel `bun:"table:bookmarks,alias:b"`

	ID          uuid.UUID `bun:"id,pk,type:uuid,nullzero,default:gen_random_uuid()"`
	OwnerID     uuid.UUID `bun:"owner_id,notnull,type:uuid"`
	Title       string    `bun:"title,notnull"`
	Description *string   `bun:"description"`
	Link        string    `bun:"link,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull,nullzero,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,nullzero,default:current_timestamp"`
}
