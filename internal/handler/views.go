package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"telepost/internal/domain"
	"telepost/internal/httputil"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// pageData feeds both the editor and view templates. Content is injected
// unescaped: it was sanitized before persistence, which is the trust
// boundary for stored HTML.
type pageData struct {
	Post    *domain.Post
	Content template.HTML
	CanEdit bool
}

func renderPage(w http.ResponseWriter, logger *slog.Logger, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		logger.Error("render failed", "template", name, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
