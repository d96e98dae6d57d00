package middleware

import (
	"net/http"

	"github.com/go-chi/render"
)

// errorBody mirrors the error envelope the handlers write, so clients see the
// same shape whether a request was rejected here or further down.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorBody{Error: errorDetail{Code: code, Message: msg}})
}
