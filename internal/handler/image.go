package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/vacation-booking/backend/internal/domain"
	"github.com/pkordes/vacation-booking/backend/internal/images"
)

// maxMultipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file. The overall size is capped by the body limit middleware.
const maxMultipartMemory = 1 << 20

// uploadImage handles POST /api/images. Admin only.
// The multipart form carries the image name in "name" and the file in "image".
func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		decodeError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		badRequest(w, r, "name is required")
		return
	}
	headers := r.MultipartForm.File["image"]
	if len(headers) == 0 {
		badRequest(w, r, "image file is required")
		return
	}

	var file openapi_types.File
	file.InitFromMultipart(headers[0])
	rc, err := file.Reader()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer rc.Close()

	if err := s.images.Save(name, rc); err != nil {
		s.respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ImageCreated{Name: name, URL: "/static/images/" + name + images.Ext})
}

// getImage handles GET /api/images/{name}.
func (s *Server) getImage(w http.ResponseWriter, r *http.Request) {
	name, err := pathString(r, "name")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	s.serveImage(w, r, name)
}

// getStaticImage handles GET /static/images/{name}.jpg, the URL browsers use
// in <img> tags.
func (s *Server) getStaticImage(w http.ResponseWriter, r *http.Request) {
	file, err := pathString(r, "file")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	name, ok := strings.CutSuffix(file, images.Ext)
	if !ok {
		s.respondError(w, r, domain.ErrNotFound)
		return
	}
	s.serveImage(w, r, name)
}

// deleteImage handles DELETE /api/images/{name}. Admin only.
func (s *Server) deleteImage(w http.ResponseWriter, r *http.Request) {
	name, err := pathString(r, "name")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	if err := s.images.Remove(name); err != nil {
		s.respondError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// serveImage streams a stored image with its sniffed content type.
// http.ServeContent handles Range and If-Modified-Since.
func (s *Server) serveImage(w http.ResponseWriter, r *http.Request, name string) {
	f, contentType, err := s.images.Open(name)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			// A name that can never exist is reported as missing.
			err = domain.ErrNotFound
		}
		s.respondError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=300")
	http.ServeContent(w, r, name+images.Ext, info.ModTime(), f)
}
