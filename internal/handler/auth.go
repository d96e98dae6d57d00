package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/pkordes/vacation-booking/backend/internal/domain"
)

// signUp handles POST /api/auth/signup and returns a token for the new account.
func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	var in SignUpRequest
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		decodeError(w, r, err)
		return
	}

	token, err := s.auth.SignUp(r.Context(), domain.SignUp{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, TokenResponse{Token: token})
}

// signIn handles POST /api/auth/signin.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request) {
	var in SignInRequest
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		decodeError(w, r, err)
		return
	}

	token, err := s.auth.SignIn(r.Context(), domain.Credentials{Email: in.Email, Password: in.Password})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, TokenResponse{Token: token})
}

// getCurrentUser handles GET /api/auth/.
func (s *Server) getCurrentUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.auth.Me(r.Context(), claims(r).UserID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	render.JSON(w, r, CurrentUser{
		UserId:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
	})
}

// getIsAdmin handles GET /api/auth/isadmin. The answer comes from the token,
// so it never touches the database.
func (s *Server) getIsAdmin(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, IsAdminResponse{IsAdmin: claims(r).IsAdmin()})
}
