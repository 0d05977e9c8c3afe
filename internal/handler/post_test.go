package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"telepost/internal/domain"
	"telepost/internal/media"
	"telepost/internal/service"
)

// memPostRepo is an in-memory PostRepository for handler tests.
type memPostRepo struct {
	posts map[string]*domain.Post
}

func (r *memPostRepo) Create(_ context.Context, post *domain.Post) error {
	if _, ok := r.posts[post.Slug]; ok {
		return fmt.Errorf("slug '%s': %w", post.Slug, domain.ErrConflict)
	}
	copied := *post
	r.posts[post.Slug] = &copied
	return nil
}

func (r *memPostRepo) GetBySlug(_ context.Context, slug string) (*domain.Post, error) {
	post, ok := r.posts[slug]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", slug, domain.ErrNotFound)
	}
	copied := *post
	return &copied, nil
}

func (r *memPostRepo) Update(_ context.Context, post *domain.Post) error {
	if _, ok := r.posts[post.Slug]; !ok {
		return fmt.Errorf("post %s: %w", post.Slug, domain.ErrNotFound)
	}
	copied := *post
	r.posts[post.Slug] = &copied
	return nil
}

func (r *memPostRepo) Delete(_ context.Context, slug string) error {
	if _, ok := r.posts[slug]; !ok {
		return fmt.Errorf("post %s: %w", slug, domain.ErrNotFound)
	}
	delete(r.posts, slug)
	return nil
}

func (r *memPostRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	_, ok := r.posts[slug]
	return ok, nil
}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := &memPostRepo{posts: make(map[string]*domain.Post)}
	posts := service.NewPostService(repo, logger)

	store, err := media.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	processor := media.NewProcessor(store, logger)

	postHandler := NewPostHandler(posts, logger)
	uploadHandler := NewUploadHandler(processor, store, 50<<20, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", postHandler.Home)
	mux.HandleFunc("POST /save", postHandler.Save)
	mux.HandleFunc("POST /upload", uploadHandler.Upload)
	mux.HandleFunc("GET /static/uploads/{filename}", uploadHandler.ServeUpload)
	mux.HandleFunc("GET /edit/{slug}", postHandler.EditForm)
	mux.HandleFunc("POST /edit/{slug}", postHandler.Edit)
	mux.HandleFunc("POST /delete/{slug}", postHandler.Delete)
	mux.HandleFunc("GET /{slug}", postHandler.View)
	return mux
}

func postJSON(t *testing.T, mux *http.ServeMux, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func ownerCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == OwnerCookieName {
			return c
		}
	}
	t.Fatal("owner cookie not set")
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestSaveCreatesPostAndSetsCookie(t *testing.T) {
	mux := newTestMux(t)

	rec := postJSON(t, mux, "/save",
		`{"title":"Hello World","content":"<p>hi</p><script>alert(1)</script>"}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	slug, _ := decodeBody(t, rec)["slug"].(string)
	if !regexp.MustCompile(`^hello-world-\d{2}-\d{2}$`).MatchString(slug) {
		t.Errorf("slug = %q", slug)
	}

	cookie := ownerCookie(t, rec)
	if cookie.Value == "" {
		t.Error("empty owner token")
	}
	if cookie.MaxAge != 60*60*24*365*10 {
		t.Errorf("cookie max-age = %d, want 10 years", cookie.MaxAge)
	}

	// The stored content is sanitized and viewable.
	req := httptest.NewRequest(http.MethodGet, "/"+slug, nil)
	viewRec := httptest.NewRecorder()
	mux.ServeHTTP(viewRec, req)

	if viewRec.Code != http.StatusOK {
		t.Fatalf("view status = %d", viewRec.Code)
	}
	page := viewRec.Body.String()
	if !strings.Contains(page, "<p>hi</p>") {
		t.Error("sanitized content missing from page")
	}
	if strings.Contains(page, "<script>alert(1)</script>") {
		t.Error("script survived into the rendered page")
	}
}

func TestSaveRejectsBadJSON(t *testing.T) {
	mux := newTestMux(t)

	rec := postJSON(t, mux, "/save", `{"title": `, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if _, ok := decodeBody(t, rec)["error"]; !ok {
		t.Error("error body missing")
	}
}

func TestSaveReusesPresentedOwnerToken(t *testing.T) {
	mux := newTestMux(t)

	presented := &http.Cookie{Name: OwnerCookieName, Value: "existing-token"}
	rec := postJSON(t, mux, "/save", `{"title":"t","content":"c"}`, presented)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := ownerCookie(t, rec).Value; got != "existing-token" {
		t.Errorf("cookie value = %q, want the presented token refreshed", got)
	}
}

func TestViewUnknownSlugIs404(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/no-such-post-01-01", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestViewShowsOwnerActionsOnlyToOwner(t *testing.T) {
	mux := newTestMux(t)

	saveRec := postJSON(t, mux, "/save", `{"title":"mine","content":"<p>x</p>"}`, nil)
	slug, _ := decodeBody(t, saveRec)["slug"].(string)
	cookie := ownerCookie(t, saveRec)

	asOwner := httptest.NewRequest(http.MethodGet, "/"+slug, nil)
	asOwner.AddCookie(cookie)
	ownerRec := httptest.NewRecorder()
	mux.ServeHTTP(ownerRec, asOwner)
	if !strings.Contains(ownerRec.Body.String(), "/edit/"+slug) {
		t.Error("owner does not see edit link")
	}

	asStranger := httptest.NewRequest(http.MethodGet, "/"+slug, nil)
	strangerRec := httptest.NewRecorder()
	mux.ServeHTTP(strangerRec, asStranger)
	if strings.Contains(strangerRec.Body.String(), "/edit/"+slug) {
		t.Error("stranger sees edit link")
	}
}

func TestEditRequiresOwnership(t *testing.T) {
	mux := newTestMux(t)

	saveRec := postJSON(t, mux, "/save", `{"title":"mine","content":"<p>old</p>"}`, nil)
	slug, _ := decodeBody(t, saveRec)["slug"].(string)
	cookie := ownerCookie(t, saveRec)

	body := `{"title":"changed","content":"<p>new</p>"}`

	if rec := postJSON(t, mux, "/edit/"+slug, body, nil); rec.Code != http.StatusForbidden {
		t.Errorf("no cookie: status = %d, want 403", rec.Code)
	}
	wrong := &http.Cookie{Name: OwnerCookieName, Value: "someone-else"}
	if rec := postJSON(t, mux, "/edit/"+slug, body, wrong); rec.Code != http.StatusForbidden {
		t.Errorf("wrong cookie: status = %d, want 403", rec.Code)
	}

	rec := postJSON(t, mux, "/edit/"+slug, body, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner edit: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got, _ := decodeBody(t, rec)["slug"].(string); got != slug {
		t.Errorf("slug = %q, want unchanged %q", got, slug)
	}
}

func TestEditUnknownSlugIs404(t *testing.T) {
	mux := newTestMux(t)

	rec := postJSON(t, mux, "/edit/missing-01-01", `{"title":"t","content":"c"}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestEditFormRendersForEveryVisitor(t *testing.T) {
	mux := newTestMux(t)

	saveRec := postJSON(t, mux, "/save", `{"title":"mine","content":"<p>x</p>"}`, nil)
	slug, _ := decodeBody(t, saveRec)["slug"].(string)

	// The form renders even without the owner cookie; only writes are gated.
	req := httptest.NewRequest(http.MethodGet, "/edit/"+slug, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<p>x</p>") {
		t.Error("form not pre-filled with post content")
	}
}

func TestDeleteRequiresOwnership(t *testing.T) {
	mux := newTestMux(t)

	saveRec := postJSON(t, mux, "/save", `{"title":"mine","content":"<p>x</p>"}`, nil)
	slug, _ := decodeBody(t, saveRec)["slug"].(string)
	cookie := ownerCookie(t, saveRec)

	if rec := postJSON(t, mux, "/delete/"+slug, "", nil); rec.Code != http.StatusForbidden {
		t.Errorf("no cookie: status = %d, want 403", rec.Code)
	}

	rec := postJSON(t, mux, "/delete/"+slug, "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner delete: status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if success, _ := body["success"].(bool); !success {
		t.Errorf("body = %v", body)
	}

	// Gone now.
	req := httptest.NewRequest(http.MethodGet, "/"+slug, nil)
	viewRec := httptest.NewRecorder()
	mux.ServeHTTP(viewRec, req)
	if viewRec.Code != http.StatusNotFound {
		t.Errorf("view after delete: status = %d, want 404", viewRec.Code)
	}
}

func TestUploadRejectsMissingFileAndBadFormat(t *testing.T) {
	mux := newTestMux(t)

	// No multipart body at all.
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("no file: status = %d, want 400", rec.Code)
	}

	// Unsupported extension.
	rec = uploadFile(t, mux, "notes.txt", []byte("hello"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad format: status = %d, want 400", rec.Code)
	}

	// Allowed extension, garbage payload.
	rec = uploadFile(t, mux, "img.gif", []byte("not an image"))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("bad payload: status = %d, want 500", rec.Code)
	}
}

func TestUploadStoresAndServesVideo(t *testing.T) {
	mux := newTestMux(t)
	payload := []byte("ftyp raw video")

	rec := uploadFile(t, mux, "clip.webm", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if typ, _ := body["type"].(string); typ != "video" {
		t.Errorf("type = %q, want video", typ)
	}
	url, _ := body["url"].(string)
	if !strings.HasPrefix(url, "/static/uploads/") {
		t.Fatalf("url = %q", url)
	}

	req := httptest.NewRequest(http.MethodGet, url, nil)
	serveRec := httptest.NewRecorder()
	mux.ServeHTTP(serveRec, req)
	if serveRec.Code != http.StatusOK {
		t.Fatalf("serve status = %d", serveRec.Code)
	}
	if !bytes.Equal(serveRec.Body.Bytes(), payload) {
		t.Error("served bytes differ from upload")
	}
}

func TestServeUploadUnknownFileIs404(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/static/uploads/nope.jpg", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func uploadFile(t *testing.T, mux *http.ServeMux, filename string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}
