package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/vacation-booking/backend/internal/domain"
)

// FollowingRepo defines the persistence operations for the followings join table.
type FollowingRepo interface {
	// Add links a user to a vacation. Idempotent: no error if already linked.
	// Returns domain.ErrNotFound if the user or the vacation does not exist.
	Add(ctx context.Context, userID, vacationID int64) error

	// Remove unlinks a user from a vacation.
	// Returns domain.ErrNotFound if the user does not follow the vacation.
	Remove(ctx context.Context, userID, vacationID int64) error

	// Report returns the follower count of every vacation, ordered by vacation ID.
	Report(ctx context.Context) ([]domain.FollowerReportRow, error)
}

// pgFollowingRepo is the Postgres implementation of FollowingRepo.
type pgFollowingRepo struct {
	db db
}

// NewFollowingRepo constructs a FollowingRepo backed by the provided db connection.
func NewFollowingRepo(db db) FollowingRepo {
	return &pgFollowingRepo{db: db}
}

func (r *pgFollowingRepo) Add(ctx context.Context, userID, vacationID int64) error {
	const q = `
		INSERT INTO followings (user_id, vacation_id)
		VALUES (@user_id, @vacation_id)
		ON CONFLICT (user_id, vacation_id) DO NOTHING`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"user_id": userID, "vacation_id": vacationID})
	if err != nil {
		return wrapConstraint("repo.FollowingRepo.Add", err)
	}
	return nil
}

func (r *pgFollowingRepo) Remove(ctx context.Context, userID, vacationID int64) error {
	const q = `DELETE FROM followings WHERE user_id = @user_id AND vacation_id = @vacation_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"user_id": userID, "vacation_id": vacationID})
	if err != nil {
		return fmt.Errorf("repo.FollowingRepo.Remove: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.FollowingRepo.Remove: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgFollowingRepo) Report(ctx context.Context) ([]domain.FollowerReportRow, error) {
	const q = `
		SELECT v.vacation_id, v.destination,
		       to_char(v.start_date AT TIME ZONE 'UTC', 'YYYY-MM-DD'),
		       to_char(v.end_date AT TIME ZONE 'UTC', 'YYYY-MM-DD'),
		       count(f.user_id)
		FROM vacations v
		LEFT JOIN followings f ON f.vacation_id = v.vacation_id
		GROUP BY v.vacation_id
		ORDER BY v.vacation_id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.FollowingRepo.Report: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.FollowerReportRow, error) {
		var rr domain.FollowerReportRow
		err := row.Scan(&rr.VacationID, &rr.Destination, &rr.StartDate, &rr.EndDate, &rr.Followers)
		return rr, err
	})
	if err != nil {
		return nil, fmt.Errorf("repo.FollowingRepo.Report: %w", err)
	}
	return out, nil
}
