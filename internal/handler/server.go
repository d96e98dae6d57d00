// Package handler implements the HTTP handlers for the vacation booking API.
// All handlers are methods on Server. They are split into resource files
// (vacation.go, following.go, auth.go, image.go) but share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/vacation-booking/backend/internal/domain"
	"github.com/pkordes/vacation-booking/backend/internal/middleware"
)

// VacationServicer defines the vacation operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type VacationServicer interface {
	ListImageNames(ctx context.Context) ([]string, error)
	ListFuture(ctx context.Context) ([]domain.Vacation, error)
	ListPaged(ctx context.Context, page int, userID int64) (domain.VacationPage, error)
	GetByID(ctx context.Context, id int64) (domain.Vacation, error)
	Create(ctx context.Context, v domain.Vacation) (domain.Vacation, error)
	Update(ctx context.Context, v domain.Vacation) (domain.Vacation, error)
	Delete(ctx context.Context, id int64) error
}

// FollowingServicer defines the follow operations the handlers depend on.
type FollowingServicer interface {
	Follow(ctx context.Context, userID, vacationID int64) error
	Unfollow(ctx context.Context, userID, vacationID int64) error
	ListFollowed(ctx context.Context, userID int64) ([]domain.Vacation, error)
	Report(ctx context.Context) ([]domain.FollowerReportRow, error)
}

// AuthServicer defines the account operations the handlers depend on.
type AuthServicer interface {
	SignUp(ctx context.Context, req domain.SignUp) (string, error)
	SignIn(ctx context.Context, creds domain.Credentials) (string, error)
	Me(ctx context.Context, userID int64) (domain.User, error)
}

// ImageStore stores and serves vacation images.
type ImageStore interface {
	Save(name string, r io.Reader) error
	Open(name string) (*os.File, string, error)
	Remove(name string) error
}

// Deps are the Server's collaborators. SignInLimiter is optional.
type Deps struct {
	Vacations     VacationServicer
	Followings    FollowingServicer
	Auth          AuthServicer
	Images        ImageStore
	Tokens        middleware.TokenParser
	SignInLimiter func(http.Handler) http.Handler
	Logger        *slog.Logger
}

// Server serves every API endpoint.
type Server struct {
	vacations     VacationServicer
	followings    FollowingServicer
	auth          AuthServicer
	images        ImageStore
	tokens        middleware.TokenParser
	signInLimiter func(http.Handler) http.Handler
	log           *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	limiter := d.SignInLimiter
	if limiter == nil {
		limiter = func(next http.Handler) http.Handler { return next }
	}
	return &Server{
		vacations:     d.Vacations,
		followings:    d.Followings,
		auth:          d.Auth,
		images:        d.Images,
		tokens:        d.Tokens,
		signInLimiter: limiter,
		log:           log,
	}
}

// Routes returns a router serving /healthz, the /api tree and static images.
// Cross-cutting middleware (request IDs, logging, CORS, body limits) is
// applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	authn := middleware.Authenticate(s.tokens)

	r.Get("/healthz", s.getHealth)
	r.Get("/static/images/{file}", s.getStaticImage)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.signUp)
			r.With(s.signInLimiter).Post("/signin", s.signIn)
			r.With(authn).Get("/", s.getCurrentUser)
			r.With(authn).Get("/isadmin", s.getIsAdmin)
		})

		r.Route("/vacations", func(r chi.Router) {
			r.Use(authn)
			r.Get("/", s.listVacations)
			r.Get("/future", s.listFutureVacations)
			r.Get("/images", s.listVacationImageNames)
			r.Get("/{id}", s.getVacation)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", s.createVacation)
				r.Put("/{id}", s.updateVacation)
				r.Delete("/{id}", s.deleteVacation)
			})
		})

		r.Route("/followings", func(r chi.Router) {
			r.Use(authn)
			r.Get("/", s.listFollowed)
			r.With(middleware.RequireAdmin).Get("/report", s.getFollowerReport)
			r.Post("/{vacationId}", s.follow)
			r.Delete("/{vacationId}", s.unfollow)
		})

		r.Route("/images", func(r chi.Router) {
			r.Get("/{name}", s.getImage)
			r.Group(func(r chi.Router) {
				r.Use(authn, middleware.RequireAdmin)
				r.Post("/", s.uploadImage)
				r.Delete("/{name}", s.deleteImage)
			})
		})
	})

	return r
}
