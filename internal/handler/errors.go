package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"cabinet/internal/domain"
	"cabinet/internal/httputil"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// handleError converts domain errors to HTTP responses. Anything that is not
// a domain error is logged and answered with a generic 500.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var httpErr domain.HTTPError

	switch {
	case errors.As(err, &httpErr):
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	default:
		logger.Error("unexpected error",
			"error", err,
			"path", r.URL.Path,
			"method", r.Method,
			"request_id", chimw.GetReqID(r.Context()),
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
