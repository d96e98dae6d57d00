package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/vacation-booking/backend/internal/auth"
)

// pathInt64 binds a required integer path parameter the same way generated
// oapi-codegen servers do.
func pathInt64(r *http.Request, name string) (int64, error) {
	var v int64
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return 0, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return v, nil
}

// pathString binds a required string path parameter.
func pathString(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return v, nil
}

// queryPage binds the optional ?page= parameter. Absent means page 1.
func queryPage(r *http.Request) (int, error) {
	var page *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		return 0, fmt.Errorf("invalid format for parameter page: %w", err)
	}
	if page == nil {
		return 1, nil
	}
	return *page, nil
}

// claims returns the authenticated caller. Routes using it are mounted behind
// middleware.Authenticate, so a missing value is a wiring bug.
func claims(r *http.Request) *auth.Claims {
	c, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		panic("handler: route requires middleware.Authenticate")
	}
	return c
}
