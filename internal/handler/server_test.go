package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/vacation-booking/backend/internal/auth"
	"github.com/pkordes/vacation-booking/backend/internal/domain"
	"github.com/pkordes/vacation-booking/backend/internal/handler"
	"github.com/pkordes/vacation-booking/backend/internal/images"
)

// mockVacationServicer is a test double for handler.VacationServicer.
// Set only the method fields your test needs.
type mockVacationServicer struct {
	listImageNames func(ctx context.Context) ([]string, error)
	listFuture     func(ctx context.Context) ([]domain.Vacation, error)
	listPaged      func(ctx context.Context, page int, userID int64) (domain.VacationPage, error)
	getByID        func(ctx context.Context, id int64) (domain.Vacation, error)
	create         func(ctx context.Context, v domain.Vacation) (domain.Vacation, error)
	update         func(ctx context.Context, v domain.Vacation) (domain.Vacation, error)
	delete         func(ctx context.Context, id int64) error
}

func (m *mockVacationServicer) ListImageNames(ctx context.Context) ([]string, error) {
	return m.listImageNames(ctx)
}
func (m *mockVacationServicer) ListFuture(ctx context.Context) ([]domain.Vacation, error) {
	return m.listFuture(ctx)
}
func (m *mockVacationServicer) ListPaged(ctx context.Context, page int, userID int64) (domain.VacationPage, error) {
	return m.listPaged(ctx, page, userID)
}
func (m *mockVacationServicer) GetByID(ctx context.Context, id int64) (domain.Vacation, error) {
	return m.getByID(ctx, id)
}
func (m *mockVacationServicer) Create(ctx context.Context, v domain.Vacation) (domain.Vacation, error) {
	return m.create(ctx, v)
}
func (m *mockVacationServicer) Update(ctx context.Context, v domain.Vacation) (domain.Vacation, error) {
	return m.update(ctx, v)
}
func (m *mockVacationServicer) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}

// compile-time check: mockVacationServicer must satisfy handler.VacationServicer.
var _ handler.VacationServicer = (*mockVacationServicer)(nil)

type mockFollowingServicer struct {
	follow       func(ctx context.Context, userID, vacationID int64) error
	unfollow     func(ctx context.Context, userID, vacationID int64) error
	listFollowed func(ctx context.Context, userID int64) ([]domain.Vacation, error)
	report       func(ctx context.Context) ([]domain.FollowerReportRow, error)
}

func (m *mockFollowingServicer) Follow(ctx context.Context, userID, vacationID int64) error {
	return m.follow(ctx, userID, vacationID)
}
func (m *mockFollowingServicer) Unfollow(ctx context.Context, userID, vacationID int64) error {
	return m.unfollow(ctx, userID, vacationID)
}
func (m *mockFollowingServicer) ListFollowed(ctx context.Context, userID int64) ([]domain.Vacation, error) {
	return m.listFollowed(ctx, userID)
}
func (m *mockFollowingServicer) Report(ctx context.Context) ([]domain.FollowerReportRow, error) {
	return m.report(ctx)
}

var _ handler.FollowingServicer = (*mockFollowingServicer)(nil)

type mockAuthServicer struct {
	signUp func(ctx context.Context, req domain.SignUp) (string, error)
	signIn func(ctx context.Context, creds domain.Credentials) (string, error)
	me     func(ctx context.Context, userID int64) (domain.User, error)
}

func (m *mockAuthServicer) SignUp(ctx context.Context, req domain.SignUp) (string, error) {
	return m.signUp(ctx, req)
}
func (m *mockAuthServicer) SignIn(ctx context.Context, creds domain.Credentials) (string, error) {
	return m.signIn(ctx, creds)
}
func (m *mockAuthServicer) Me(ctx context.Context, userID int64) (domain.User, error) {
	return m.me(ctx, userID)
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)

// ---- helpers ---------------------------------------------------------------

const testSecret = "handler-test-secret"

// deps is what a test wants injected; nil services are replaced with empty mocks.
type deps struct {
	vacations  handler.VacationServicer
	followings handler.FollowingServicer
	auth       handler.AuthServicer
	images     handler.ImageStore
}

// newHTTPHandler wires a Server with the given doubles the way main.go wires
// the real services.
func newHTTPHandler(t *testing.T, d deps) http.Handler {
	t.Helper()
	if d.vacations == nil {
		d.vacations = &mockVacationServicer{}
	}
	if d.followings == nil {
		d.followings = &mockFollowingServicer{}
	}
	if d.auth == nil {
		d.auth = &mockAuthServicer{}
	}
	if d.images == nil {
		store, err := images.NewStore(t.TempDir())
		require.NoError(t, err)
		d.images = store
	}
	srv := handler.NewServer(handler.Deps{
		Vacations:  d.vacations,
		Followings: d.followings,
		Auth:       d.auth,
		Images:     d.images,
		Tokens:     auth.NewTokenMaker(testSecret, time.Hour),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return srv.Routes()
}

// bearer returns an Authorization header value for the given user.
func bearer(t *testing.T, userID int64, role domain.Role) string {
	t.Helper()
	token, err := auth.NewTokenMaker(testSecret, time.Hour).Issue(userID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

// do sends a request through h. body may be nil, an io.Reader, or any value
// to be JSON-encoded.
func do(t *testing.T, h http.Handler, method, path, authz string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		r = b
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func vacationFixture() domain.Vacation {
	return domain.Vacation{
		ID:          1,
		Destination: "Paris",
		Description: "City of lights",
		StartDate:   time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC),
		Price:       500,
		ImageName:   "paris",
	}
}
