package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"telepost/internal/config"
	"telepost/internal/domain"
	"telepost/internal/sanitize"
	"telepost/internal/slugger"
	"telepost/internal/video"
)

// CreatePostRequest carries the editor payload for a new post.
type CreatePostRequest struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
}

// UpdatePostRequest carries the editor payload for an edit. Slug, owner
// and creation time are immutable and therefore absent.
type UpdatePostRequest struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
}

// PostService owns the publish pipeline: video link rewriting, HTML
// sanitization, slug allocation and persistence, plus the ownership
// checks on mutation.
type PostService struct {
	repo   domain.PostRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewPostService creates a new post service
func NewPostService(repo domain.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Create publishes a new post owned by ownerToken and returns it with
// its allocated slug.
//
// Slug allocation is check-then-insert and therefore racy; the unique
// constraint in the store is authoritative. On a constraint violation the
// next candidate is tried, bounded by config.MaxSlugAttempts.
func (s *PostService) Create(ctx context.Context, req *CreatePostRequest, ownerToken string) (*domain.Post, error) {
	if err := validateCreate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if ownerToken == "" {
		return nil, fmt.Errorf("%w: owner token required", domain.ErrValidation)
	}

	title := req.Title
	if title == "" {
		title = "Untitled"
	}

	content := sanitize.Clean(video.RewriteLinks(req.Content))
	now := s.now()

	n := 1
	for attempt := 0; attempt < config.MaxSlugAttempts; attempt++ {
		candidate := slugger.Candidate(req.Title, now, n)

		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}
		if exists {
			n++
			continue
		}

		post := &domain.Post{
			Title:      title,
			AuthorName: req.AuthorName,
			Content:    content,
			Slug:       candidate,
			OwnerToken: ownerToken,
			CreatedAt:  now,
		}

		err = s.repo.Create(ctx, post)
		if err == nil {
			s.logger.Info("post created", "slug", post.Slug)
			return post, nil
		}
		if errors.Is(err, domain.ErrConflict) {
			// Lost the race for this candidate; regenerate.
			n++
			continue
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	return nil, fmt.Errorf("create post: no unique slug after %d attempts", config.MaxSlugAttempts)
}

// Get fetches a post by slug and reports whether the presented owner
// token may edit it. An absent token never matches.
func (s *PostService) Get(ctx context.Context, slug, ownerToken string) (*domain.Post, bool, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, false, err
	}

	canEdit := ownerToken != "" && ownerToken == post.OwnerToken
	return post, canEdit, nil
}

// Update rewrites and re-sanitizes the submitted content and persists the
// mutable fields. Only the holder of the matching owner token may update.
func (s *PostService) Update(ctx context.Context, slug, ownerToken string, req *UpdatePostRequest) (*domain.Post, error) {
	if err := validateUpdate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if ownerToken == "" || ownerToken != post.OwnerToken {
		return nil, fmt.Errorf("post %s: %w", slug, domain.ErrForbidden)
	}

	post.Title = req.Title
	if post.Title == "" {
		post.Title = "Untitled"
	}
	post.AuthorName = req.AuthorName
	post.Content = sanitize.Clean(video.RewriteLinks(req.Content))

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post updated", "slug", post.Slug)
	return post, nil
}

// Delete removes a post permanently. Only the holder of the matching
// owner token may delete.
func (s *PostService) Delete(ctx context.Context, slug, ownerToken string) error {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if ownerToken == "" || ownerToken != post.OwnerToken {
		return fmt.Errorf("post %s: %w", slug, domain.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, post.Slug); err != nil {
		return err
	}

	s.logger.Info("post deleted", "slug", post.Slug)
	return nil
}

func validateCreate(req *CreatePostRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Length(0, config.MaxTitleLength)),
		validation.Field(&req.AuthorName, validation.Length(0, config.MaxAuthorNameLength)),
	)
}

func validateUpdate(req *UpdatePostRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Length(0, config.MaxTitleLength)),
		validation.Field(&req.AuthorName, validation.Length(0, config.MaxAuthorNameLength)),
	)
}
