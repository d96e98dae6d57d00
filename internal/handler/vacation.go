package handler

import (
	"net/http"

	"github.com/go-chi/render"
)

// listVacations handles GET /api/vacations.
// Supports ?page= (default 1, page size fixed at 10). Each vacation carries
// whether the caller follows it.
func (s *Server) listVacations(w http.ResponseWriter, r *http.Request) {
	page, err := queryPage(r)
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	p, err := s.vacations.ListPaged(r.Context(), page, claims(r).UserID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, pageToResponse(p))
}

// listFutureVacations handles GET /api/vacations/future.
func (s *Server) listFutureVacations(w http.ResponseWriter, r *http.Request) {
	vs, err := s.vacations.ListFuture(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, vacationsToResponse(vs))
}

// listVacationImageNames handles GET /api/vacations/images.
func (s *Server) listVacationImageNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.vacations.ListImageNames(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, names)
}

// getVacation handles GET /api/vacations/{id}.
func (s *Server) getVacation(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	v, err := s.vacations.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, vacationToResponse(v))
}

// createVacation handles POST /api/vacations. Admin only.
func (s *Server) createVacation(w http.ResponseWriter, r *http.Request) {
	var in VacationInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		decodeError(w, r, err)
		return
	}

	created, err := s.vacations.Create(r.Context(), inputToVacation(in))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, vacationToResponse(created))
}

// updateVacation handles PUT /api/vacations/{id}. Admin only.
// The id in the path is authoritative; an id in the body is ignored.
func (s *Server) updateVacation(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	var in VacationInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		decodeError(w, r, err)
		return
	}

	v := inputToVacation(in)
	v.ID = id
	updated, err := s.vacations.Update(r.Context(), v)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, vacationToResponse(updated))
}

// deleteVacation handles DELETE /api/vacations/{id}. Admin only.
func (s *Server) deleteVacation(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	if err := s.vacations.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	render.NoContent(w, r)
}
