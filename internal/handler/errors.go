package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/pkordes/vacation-booking/backend/internal/domain"
)

// errorBody builds an ErrorResponse.
func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// badRequest writes a 400 for input rejected before reaching the service
// layer (malformed JSON, unparseable path or query parameters).
func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, errorBody("bad_request", message))
}

// decodeError maps a request body decode failure to 413 or 400.
func decodeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		render.Status(r, http.StatusRequestEntityTooLarge)
		render.JSON(w, r, errorBody("payload_too_large", "request body too large"))
		return
	}
	badRequest(w, r, "invalid request body: "+err.Error())
}

// respondError maps a service error to its HTTP status via errors.Is on the
// domain sentinels. Anything unrecognised is logged and reported as a 500
// without leaking internals to the client.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status int
		code   string
	)
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, code = http.StatusUnprocessableEntity, "validation_error"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "unauthorized"
	default:
		s.log.ErrorContext(r.Context(), "request failed", "error", err, "path", r.URL.Path)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorBody("internal_error", "internal server error"))
		return
	}
	render.Status(r, status)
	render.JSON(w, r, errorBody(code, unwrapMessage(err)))
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
//
//	"service.VacationService.Create: validation error: price must be greater than 0" → "price must be greater than 0"
//	"service.VacationService.GetByID: vacation 12: not found"                          → "vacation 12 not found"
//
// Operation prefixes ("pkg.Type.Method") are dropped, and when a sentinel is
// followed by detail only the detail is kept.
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []error{domain.ErrValidation, domain.ErrNotFound, domain.ErrConflict, domain.ErrUnauthorized} {
		marker := sentinel.Error() + ": "
		if i := strings.Index(msg, marker); i >= 0 {
			return msg[i+len(marker):]
		}
	}

	parts := strings.Split(msg, ": ")
	kept := parts[:0]
	for _, p := range parts {
		if isOpName(p) {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, " ")
}

// isOpName reports whether s looks like "pkg.Type.Method": dotted, no spaces.
func isOpName(s string) bool {
	return strings.Contains(s, ".") && !strings.ContainsAny(s, " \"'")
}
