package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"telepost/internal/domain"
)

// PostgresPostRepository implements the PostRepository interface
type PostgresPostRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewPostRepository creates a new post repository
func NewPostRepository(config *RepositoryConfig) domain.PostRepository {
	return &PostgresPostRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new post. The unique constraint on slug is the
// authoritative guarantee of slug uniqueness; a violation surfaces as
// domain.ErrConflict so callers can regenerate and retry.
func (r *PostgresPostRepository) Create(ctx context.Context, post *domain.Post) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, author_name, content, slug, owner_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, r.tables.Posts)

	err := r.pool.QueryRow(ctx, query,
		post.Title,
		post.AuthorName,
		post.Content,
		post.Slug,
		post.OwnerToken,
		post.CreatedAt,
	).Scan(&post.ID, &post.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("slug '%s': %w", post.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

// GetBySlug retrieves a post by its slug
func (r *PostgresPostRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	query := fmt.Sprintf(`
		SELECT id, title, author_name, content, slug, owner_token, created_at
		FROM %s
		WHERE slug = $1
	`, r.tables.Posts)

	var post domain.Post
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&post.ID,
		&post.Title,
		&post.AuthorName,
		&post.Content,
		&post.Slug,
		&post.OwnerToken,
		&post.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("post %s: %w", slug, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &post, nil
}

// Update persists the mutable fields of a post. Slug, owner token and
// creation time are immutable after creation.
func (r *PostgresPostRepository) Update(ctx context.Context, post *domain.Post) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, author_name = $2, content = $3
		WHERE slug = $4
	`, r.tables.Posts)

	tag, err := r.pool.Exec(ctx, query,
		post.Title,
		post.AuthorName,
		post.Content,
		post.Slug,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", post.Slug, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a post permanently. No soft delete.
func (r *PostgresPostRepository) Delete(ctx context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE slug = $1`, r.tables.Posts)

	tag, err := r.pool.Exec(ctx, query, slug)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", slug, domain.ErrNotFound)
	}

	return nil
}

// SlugExists reports whether a slug is already taken. This is an
// optimistic pre-check only; Create remains the source of truth.
func (r *PostgresPostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE slug = $1)`, r.tables.Posts)

	var exists bool
	if err := r.pool.QueryRow(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}

	return exists, nil
}
