package service

import (
	"context"
	"fmt"

	"github.com/pkordes/vacation-booking/backend/internal/domain"
	"github.com/pkordes/vacation-booking/backend/internal/repo"
)

// FollowingService implements the "follow vacation" relationship.
// It holds the vacations repo because following requires the vacation to exist.
type FollowingService struct {
	vacations  repo.VacationRepo
	followings repo.FollowingRepo
}

// NewFollowingService constructs a FollowingService backed by the provided repos.
func NewFollowingService(vacations repo.VacationRepo, followings repo.FollowingRepo) *FollowingService {
	return &FollowingService{vacations: vacations, followings: followings}
}

// Follow marks vacationID as followed by userID. Following twice is a no-op.
// Returns domain.ErrNotFound if the vacation does not exist, or if the user
// was deleted while their token is still valid.
func (s *FollowingService) Follow(ctx context.Context, userID, vacationID int64) error {
	exists, err := s.vacations.Exists(ctx, vacationID)
	if err != nil {
		return fmt.Errorf("service.FollowingService.Follow: %w", err)
	}
	if !exists {
		return fmt.Errorf("service.FollowingService.Follow: vacation %d: %w", vacationID, domain.ErrNotFound)
	}
	if err := s.followings.Add(ctx, userID, vacationID); err != nil {
		return fmt.Errorf("service.FollowingService.Follow: %w", err)
	}
	return nil
}

// Unfollow removes the following.
// Returns domain.ErrNotFound if userID does not follow vacationID.
func (s *FollowingService) Unfollow(ctx context.Context, userID, vacationID int64) error {
	if err := s.followings.Remove(ctx, userID, vacationID); err != nil {
		return fmt.Errorf("service.FollowingService.Unfollow: %w", err)
	}
	return nil
}

// ListFollowed returns the vacations userID follows.
func (s *FollowingService) ListFollowed(ctx context.Context, userID int64) ([]domain.Vacation, error) {
	vs, err := s.vacations.ListFollowedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.FollowingService.ListFollowed: %w", err)
	}
	return nonNil(vs), nil
}

// Report returns the follower count of every vacation.
// Always returns a non-nil slice.
func (s *FollowingService) Report(ctx context.Context) ([]domain.FollowerReportRow, error) {
	rows, err := s.followings.Report(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.FollowingService.Report: %w", err)
	}
	if rows == nil {
		return []domain.FollowerReportRow{}, nil
	}
	return rows, nil
}
