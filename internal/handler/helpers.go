package handler

import (
	"errors"
	"net/http"

	"telepost/internal/domain"
	"telepost/internal/httputil"
)

// handleError converts domain errors to HTTP responses. This is the single
// boundary translator: every route, including the edit-form GET, reports
// failures through it as {"error": message}.
func handleError(w http.ResponseWriter, err error) {
	var procErr *domain.ProcessingError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnsupportedFormat):
		httputil.RespondError(w, http.StatusBadRequest, "unsupported file format")
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "Access Denied")
	case errors.As(err, &procErr):
		httputil.RespondError(w, http.StatusInternalServerError, procErr.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
