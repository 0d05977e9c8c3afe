package domain

import (
	"context"
	"time"
)

// Post is a published rich-text record. Content is sanitized HTML; the
// sanitizer runs before persistence, so anything read back from the
// store is safe to render as-is.
type Post struct {
	ID         string    `json:"-" db:"id"` // internal, never exposed
	Title      string    `json:"title" db:"title"`
	AuthorName string    `json:"author_name" db:"author_name"`
	Content    string    `json:"content" db:"content"`
	Slug       string    `json:"slug" db:"slug"` // public identifier, immutable
	OwnerToken string    `json:"-" db:"owner_token"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PostRepository persists posts keyed by slug. Implementations translate
// storage errors into domain sentinels: a missing slug is ErrNotFound and
// a slug uniqueness violation on Create is ErrConflict.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, slug string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}
