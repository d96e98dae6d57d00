package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/vacation-booking/backend/internal/domain"
	"github.com/pkordes/vacation-booking/backend/internal/handler"
)

// ---- GET /api/vacations ----------------------------------------------------

func TestListVacations_200(t *testing.T) {
	var gotPage int
	var gotUser int64
	svc := &mockVacationServicer{
		listPaged: func(_ context.Context, page int, userID int64) (domain.VacationPage, error) {
			gotPage, gotUser = page, userID
			return domain.VacationPage{
				Vacations:  []domain.VacationListItem{{Vacation: vacationFixture(), Followed: true, Followers: 3}},
				Page:       page,
				PageSize:   domain.VacationPageSize,
				TotalCount: 11,
			}, nil
		},
	}
	h := newHTTPHandler(t, deps{vacations: svc})

	rec := do(t, h, http.MethodGet, "/api/vacations?page=2", bearer(t, 5, domain.RoleUser), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, int64(5), gotUser)

	resp := decode[handler.VacationPage](t, rec)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 10, resp.PageSize)
	assert.Equal(t, int64(11), resp.TotalCount)
	require.Len(t, resp.Vacations, 1)
	assert.True(t, resp.Vacations[0].Followed)
	assert.Equal(t, int64(3), resp.Vacations[0].Followers)
	assert.Equal(t, "Paris", resp.Vacations[0].Destination)
}

func TestListVacations_DefaultsToPageOne(t *testing.T) {
	svc := &mockVacationServicer{
		listPaged: func(_ context.Context, page int, _ int64) (domain.VacationPage, error) {
			assert.Equal(t, 1, page)
			return domain.VacationPage{Vacations: []domain.VacationListItem{}, Page: 1, PageSize: 10}, nil
		},
	}
	h := newHTTPHandler(t, deps{vacations: svc})

	rec := do(t, h, http.MethodGet, "/api/vacations", bearer(t, 5, domain.RoleUser), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	// Must be a JSON array, not null.
	assert.Contains(t, rec.Body.String(), `"vacations":[]`)
}

func TestListVacations_400_BadPage(t *testing.T) {
	h := newHTTPHandler(t, deps{})

	rec := do(t, h, http.MethodGet, "/api/vacations?page=two", bearer(t, 5, domain.RoleUser), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decode[handler.ErrorResponse](t, rec).Error.Code)
}

func TestListVacations_401_WithoutToken(t *testing.T) {
	h := newHTTPHandler(t, deps{})

	rec := do(t, h, http.MethodGet, "/api/vacations", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListVacations_500_HidesInternals(t *testing.T) {
	svc := &mockVacationServicer{
		listPaged: func(_ context.Context, _ int, _ int64) (domain.VacationPage, error) {
			return domain.VacationPage{}, errors.New("pq: connection refused to 10.0.0.3")
		},
	}
	h := newHTTPHandler(t, deps{vacations: svc})

	rec := do(t, h, http.MethodGet, "/api/vacations", bearer(t, 5, domain.RoleUser), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
}

func TestListFutureAndImages_200(t *testing.T) {
	svc := &mockVacationServicer{
		listFuture:     func(_ context.Context) ([]domain.Vacation, error) { return []domain.Vacation{vacationFixture()}, nil },
		listImageNames: func(_ context.Context) ([]string, error) { return []string{"paris", "rome"}, nil },
	}
	h := newHTTPHandler(t, deps{vacations: svc})
	authz := bearer(t, 5, domain.RoleUser)

	rec := do(t, h, http.MethodGet, "/api/vacations/future", authz, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	future := decode[[]handler.Vacation](t, rec)
	require.Len(t, future, 1)
	assert.True(t, future[0].StartDate.Equal(vacationFixture().StartDate))

	rec = do(t, h, http.MethodGet, "/api/vacations/images", authz, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"paris", "rome"}, decode[[]string](t, rec))
}

// ---- GET /api/vacations/{id} -----------------------------------------------

func TestGetVacation_404(t *testing.T) {
	svc := &mockVacationServicer{
		getByID: func(_ context.Context, id int64) (domain.Vacation, error) {
			return domain.Vacation{}, fmt.Errorf("service.VacationService.GetByID: vacation %d: %w", id, domain.ErrNotFound)
		},
	}
	h := newHTTPHandler(t, deps{vacations: svc})

	rec := do(t, h, http.MethodGet, "/api/vacations/12", bearer(t, 5, domain.RoleUser), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "not_found", resp.Error.Code)
	assert.Equal(t, "vacation 12 not found", resp.Error.Message)
}

func TestGetVacation_400_NonNumericID(t *testing.T) {
	h := newHTTPHandler(t, deps{})

	rec := do(t, h, http.MethodGet, "/api/vacations/abc", bearer(t, 5, domain.RoleUser), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- POST /api/vacations ---------------------------------------------------

func TestCreateVacation_201_AcceptsBareDates(t *testing.T) {
	var got domain.Vacation
	svc := &mockVacationServicer{
		create: func(_ context.Context, v domain.Vacation) (domain.Vacation, error) {
			got = v
			v.ID = 77
			return v, nil
		},
	}
	h := newHTTPHandler(t, deps{vacations: svc})

	rec := do(t, h, http.MethodPost, "/api/vacations", bearer(t, 1, domain.RoleAdmin), map[string]any{
		"destination": "Paris",
		"description": "City of lights",
		"startDate":   "2030-01-01",
		"endDate":     "2030-01-10T00:00:00Z",
		"price":       500,
		"imageName":   "paris",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), got.StartDate)
	assert.Equal(t, time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC), got.EndDate)

	resp := decode[handler.Vacation](t, rec)
	assert.Equal(t, int64(77), resp.Id)
	assert.Equal(t, "Paris", resp.Destination)
}

func TestCreateVacation_403_ForNonAdmin(t *testing.T) {
	h := newHTTPHandler(t, deps{})

	rec := do(t, h, http.MethodPost, "/api/vacations", bearer(t, 5, domain.RoleUser), map[string]any{})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateVacation_422_ValidationError(t *testing.T) {
	svc := &mockVacationServicer{
		create: func(_ context.Context, _ domain.Vacation) (domain.Vacation, error) {
			return domain.Vacation{}, fmt.Errorf("service.VacationService.Create: %w: destination is required", domain.ErrValidation)
		},
	}
	h := newHTTPHandler(t, deps{vacations: svc})

	rec := do(t, h, http.MethodPost, "/api/vacations", bearer(t, 1, domain.RoleAdmin), map[string]any{"destination": ""})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "validation_error", resp.Error.Code)
	assert.Equal(t, "destination is required", resp.Error.Message)
}

func TestCreateVacation_400_MalformedJSON(t *testing.T) {
	h := newHTTPHandler(t, deps{})

	rec := do(t, h, http.MethodPost, "/api/vacations", bearer(t, 1, domain.RoleAdmin), strings.NewReader(`{"destination":`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateVacation_400_BadDate(t *testing.T) {
	h := newHTTPHandler(t, deps{})

	rec := do(t, h, http.MethodPost, "/api/vacations", bearer(t, 1, domain.RoleAdmin), map[string]any{"startDate": "01/02/2030"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[handler.ErrorResponse](t, rec).Error.Message, "01/02/2030")
}

// ---- PUT /api/vacations/{id} -----------------------------------------------

func TestUpdateVacation_PathIDWins(t *testing.T) {
	var got domain.Vacation
	svc := &mockVacationServicer{
		update: func(_ context.Context, v domain.Vacation) (domain.Vacation, error) {
			got = v
			return v, nil
		},
	}
	h := newHTTPHandler(t, deps{vacations: svc})

	body := map[string]any{"id": 999, "destination": "Rome", "startDate": "2030-01-01", "endDate": "2030-01-05"}
	rec := do(t, h, http.MethodPut, "/api/vacations/4", bearer(t, 1, domain.RoleAdmin), body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(4), got.ID)
	assert.Equal(t, int64(4), decode[handler.Vacation](t, rec).Id)
}

func TestUpdateVacation_422_Missing(t *testing.T) {
	svc := &mockVacationServicer{
		update: func(_ context.Context, v domain.Vacation) (domain.Vacation, error) {
			return domain.Vacation{}, fmt.Errorf("service.VacationService.Update: %w: vacation %d does not exist", domain.ErrValidation, v.ID)
		},
	}
	h := newHTTPHandler(t, deps{vacations: svc})

	rec := do(t, h, http.MethodPut, "/api/vacations/4", bearer(t, 1, domain.RoleAdmin), map[string]any{})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "vacation 4 does not exist", decode[handler.ErrorResponse](t, rec).Error.Message)
}

// ---- DELETE /api/vacations/{id} --------------------------------------------

func TestDeleteVacation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"does not exist", fmt.Errorf("%w: vacation 4 does not exist", domain.ErrValidation), http.StatusUnprocessableEntity},
		{"zero rows", fmt.Errorf("vacation 4: %w", domain.ErrNotFound), http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockVacationServicer{
				delete: func(_ context.Context, id int64) error {
					assert.Equal(t, int64(4), id)
					return tc.err
				},
			}
			h := newHTTPHandler(t, deps{vacations: svc})

			rec := do(t, h, http.MethodDelete, "/api/vacations/4", bearer(t, 1, domain.RoleAdmin), nil)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

// ---- end to end ------------------------------------------------------------

// memVacations is a stateful VacationServicer used to run the
// create → get → delete → get scenario through the HTTP layer.
func memVacations() *mockVacationServicer {
	rows := map[int64]domain.Vacation{}
	next := int64(1)
	return &mockVacationServicer{
		create: func(_ context.Context, v domain.Vacation) (domain.Vacation, error) {
			v.ID = next
			next++
			rows[v.ID] = v
			return v, nil
		},
		getByID: func(_ context.Context, id int64) (domain.Vacation, error) {
			v, ok := rows[id]
			if !ok {
				return domain.Vacation{}, fmt.Errorf("vacation %d: %w", id, domain.ErrNotFound)
			}
			return v, nil
		},
		delete: func(_ context.Context, id int64) error {
			if _, ok := rows[id]; !ok {
				return fmt.Errorf("%w: vacation %d does not exist", domain.ErrValidation, id)
			}
			delete(rows, id)
			return nil
		},
	}
}

func TestVacations_CreateGetDelete(t *testing.T) {
	h := newHTTPHandler(t, deps{vacations: memVacations()})
	admin := bearer(t, 1, domain.RoleAdmin)

	rec := do(t, h, http.MethodPost, "/api/vacations", admin, map[string]any{
		"destination": "Paris",
		"description": "City of lights",
		"startDate":   "2030-01-01",
		"endDate":     "2030-01-10",
		"price":       500,
		"imageName":   "paris",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[handler.Vacation](t, rec)
	require.Positive(t, created.Id)

	path := fmt.Sprintf("/api/vacations/%d", created.Id)
	rec = do(t, h, http.MethodGet, path, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[handler.Vacation](t, rec)
	assert.Equal(t, "Paris", got.Destination)
	assert.InDelta(t, 500, got.Price, 0.001)

	rec = do(t, h, http.MethodDelete, path, admin, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, path, admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
