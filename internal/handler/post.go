package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"telepost/internal/httputil"
	"telepost/internal/service"
)

// PostHandler handles post HTTP requests
type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		posts:  posts,
		logger: logger,
	}
}

// Home renders the empty editor
// GET /
func (h *PostHandler) Home(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.logger, "editor.html", pageData{})
}

// Save creates a new post and sets or refreshes the owner cookie
// POST /save
func (h *PostHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePostRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ownerToken := ownerTokenFromRequest(r)
	if ownerToken == "" {
		ownerToken = uuid.NewString()
	}

	post, err := h.posts.Create(r.Context(), &req, ownerToken)
	if err != nil {
		handleError(w, err)
		return
	}

	setOwnerCookie(w, ownerToken)
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"slug": post.Slug})
}

// View renders a post
// GET /{slug}
func (h *PostHandler) View(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	post, canEdit, err := h.posts.Get(r.Context(), slug, ownerTokenFromRequest(r))
	if err != nil {
		handleError(w, err)
		return
	}

	renderPage(w, h.logger, "view.html", pageData{
		Post:    post,
		Content: template.HTML(post.Content),
		CanEdit: canEdit,
	})
}

// EditForm renders the editor pre-filled with an existing post. The form
// renders for any visitor; write attempts are rejected in Edit.
// GET /edit/{slug}
func (h *PostHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	post, canEdit, err := h.posts.Get(r.Context(), slug, ownerTokenFromRequest(r))
	if err != nil {
		handleError(w, err)
		return
	}

	renderPage(w, h.logger, "editor.html", pageData{
		Post:    post,
		Content: template.HTML(post.Content),
		CanEdit: canEdit,
	})
}

// Edit updates a post owned by the presented token
// POST /edit/{slug}
func (h *PostHandler) Edit(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	var req service.UpdatePostRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.posts.Update(r.Context(), slug, ownerTokenFromRequest(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"slug": post.Slug})
}

// Delete removes a post owned by the presented token
// POST /delete/{slug}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	if err := h.posts.Delete(r.Context(), slug, ownerTokenFromRequest(r)); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Post deleted",
	})
}
