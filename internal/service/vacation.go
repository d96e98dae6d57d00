// Package service contains the business logic for the vacation booking API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/vacation-booking/backend/internal/domain"
	"github.com/pkordes/vacation-booking/backend/internal/repo"
)

// VacationService implements business logic for Vacation operations.
type VacationService struct {
	repo repo.VacationRepo
}

// NewVacationService constructs a VacationService backed by the provided VacationRepo.
func NewVacationService(r repo.VacationRepo) *VacationService {
	return &VacationService{repo: r}
}

// ListImageNames returns the image name of every vacation.
// Always returns a non-nil slice so callers can safely range over it.
func (s *VacationService) ListImageNames(ctx context.Context) ([]string, error) {
	names, err := s.repo.ListImageNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.VacationService.ListImageNames: %w", err)
	}
	if names == nil {
		return []string{}, nil
	}
	return names, nil
}

// ListFollowedBy returns every vacation userID follows. The user is not
// required to exist; an unknown user simply follows nothing.
func (s *VacationService) ListFollowedBy(ctx context.Context, userID int64) ([]domain.Vacation, error) {
	vs, err := s.repo.ListFollowedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.VacationService.ListFollowedBy: %w", err)
	}
	return nonNil(vs), nil
}

// ListFuture returns vacations starting strictly after now.
func (s *VacationService) ListFuture(ctx context.Context) ([]domain.Vacation, error) {
	vs, err := s.repo.ListFuture(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.VacationService.ListFuture: %w", err)
	}
	return nonNil(vs), nil
}

// ListPaged returns one fixed-size page of vacations as seen by userID,
// together with the total vacation count. The page and the count are read
// concurrently; if either read fails the whole call fails.
// Pages below 1 are treated as page 1.
func (s *VacationService) ListPaged(ctx context.Context, page int, userID int64) (domain.VacationPage, error) {
	p := domain.NewPaginationParams(page)

	var (
		items []domain.VacationListItem
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.ListPage(gctx, userID, p)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.VacationPage{}, fmt.Errorf("service.VacationService.ListPaged: %w", err)
	}

	if items == nil {
		items = []domain.VacationListItem{}
	}
	return domain.VacationPage{
		Vacations:  items,
		Page:       p.Page,
		PageSize:   p.Limit,
		TotalCount: total,
	}, nil
}

// GetByID returns a single vacation.
// Returns domain.ErrNotFound naming the id if it does not exist.
func (s *VacationService) GetByID(ctx context.Context, id int64) (domain.Vacation, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Vacation{}, fmt.Errorf("service.VacationService.GetByID: vacation %d: %w", id, err)
	}
	return v, nil
}

// Create validates and persists a new vacation and returns it with the
// store-assigned ID.
//
// Returns domain.ErrValidation when the input is malformed, when a caller
// supplied an ID that already exists, when a vacation with the same
// destination and dates already exists, or when the store reports that the
// insert affected no rows.
func (s *VacationService) Create(ctx context.Context, v domain.Vacation) (domain.Vacation, error) {
	v = normalizeVacation(v)
	if err := validateVacation(v); err != nil {
		return domain.Vacation{}, fmt.Errorf("service.VacationService.Create: %w", err)
	}

	if v.ID != 0 {
		exists, err := s.repo.Exists(ctx, v.ID)
		if err != nil {
			return domain.Vacation{}, fmt.Errorf("service.VacationService.Create: %w", err)
		}
		if exists {
			return domain.Vacation{}, fmt.Errorf("service.VacationService.Create: %w: vacation already exists", domain.ErrValidation)
		}
	}

	dup, err := s.repo.ExistsLike(ctx, v)
	if err != nil {
		return domain.Vacation{}, fmt.Errorf("service.VacationService.Create: %w", err)
	}
	if dup {
		return domain.Vacation{}, fmt.Errorf("service.VacationService.Create: %w: vacation already exists", domain.ErrValidation)
	}

	res, err := s.repo.Create(ctx, v)
	if err != nil {
		return domain.Vacation{}, fmt.Errorf("service.VacationService.Create: %w", err)
	}
	if res.RowsAffected < 1 {
		return domain.Vacation{}, fmt.Errorf("service.VacationService.Create: %w: %s", domain.ErrValidation, res.Message)
	}

	v.ID = res.InsertID
	return v, nil
}

// Update validates and overwrites an existing vacation.
// The existence check happens before any mutation: an unknown ID yields
// domain.ErrValidation without touching the store.
func (s *VacationService) Update(ctx context.Context, v domain.Vacation) (domain.Vacation, error) {
	v = normalizeVacation(v)
	if err := validateVacation(v); err != nil {
		return domain.Vacation{}, fmt.Errorf("service.VacationService.Update: %w", err)
	}

	exists, err := s.repo.Exists(ctx, v.ID)
	if err != nil {
		return domain.Vacation{}, fmt.Errorf("service.VacationService.Update: %w", err)
	}
	if !exists {
		return domain.Vacation{}, fmt.Errorf("service.VacationService.Update: %w: vacation %d does not exist", domain.ErrValidation, v.ID)
	}

	res, err := s.repo.Update(ctx, v)
	if err != nil {
		return domain.Vacation{}, fmt.Errorf("service.VacationService.Update: %w", err)
	}
	if res.RowsAffected <= 0 {
		return domain.Vacation{}, fmt.Errorf("service.VacationService.Update: %w: %s", domain.ErrValidation, res.Message)
	}
	return v, nil
}

// Delete removes a vacation by ID.
// Returns domain.ErrValidation if the vacation does not exist, and
// domain.ErrNotFound if it existed but the delete affected no rows.
func (s *VacationService) Delete(ctx context.Context, id int64) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("service.VacationService.Delete: %w", err)
	}
	if !exists {
		return fmt.Errorf("service.VacationService.Delete: %w: vacation %d does not exist", domain.ErrValidation, id)
	}

	res, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("service.VacationService.Delete: %w", err)
	}
	if res.RowsAffected <= 0 {
		return fmt.Errorf("service.VacationService.Delete: vacation %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func nonNil(vs []domain.Vacation) []domain.Vacation {
	if vs == nil {
		return []domain.Vacation{}
	}
	return vs
}
