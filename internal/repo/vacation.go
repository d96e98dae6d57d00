package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/vacation-booking/backend/internal/domain"
)

// VacationRepo defines the persistence operations for Vacations.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type VacationRepo interface {
	// ListImageNames returns the image name of every vacation.
	ListImageNames(ctx context.Context) ([]string, error)

	// ListFollowedBy returns every vacation the given user follows.
	ListFollowedBy(ctx context.Context, userID int64) ([]domain.Vacation, error)

	// ListFuture returns vacations whose start date is strictly after the
	// store's current time, ordered by start date.
	ListFuture(ctx context.Context) ([]domain.Vacation, error)

	// ListPage returns one page of vacations in insertion order, each marked
	// with whether userID follows it.
	ListPage(ctx context.Context, userID int64, p domain.PaginationParams) ([]domain.VacationListItem, error)

	// Count returns the total number of vacations.
	Count(ctx context.Context) (int64, error)

	// GetByID retrieves a single vacation by primary key.
	// Returns domain.ErrNotFound if no vacation with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Vacation, error)

	// Exists reports whether a vacation with the given ID exists.
	Exists(ctx context.Context, id int64) (bool, error)

	// ExistsLike reports whether a vacation with the same destination,
	// start date and end date exists.
	ExistsLike(ctx context.Context, v domain.Vacation) (bool, error)

	// Create inserts a vacation. The ID field is ignored; the store assigns one
	// and reports it in MutationResult.InsertID.
	Create(ctx context.Context, v domain.Vacation) (MutationResult, error)

	// Update overwrites every mutable field of the vacation with v.ID.
	Update(ctx context.Context, v domain.Vacation) (MutationResult, error)

	// Delete removes the vacation with the given ID.
	Delete(ctx context.Context, id int64) (MutationResult, error)
}

// pgVacationRepo is the Postgres implementation of VacationRepo.
type pgVacationRepo struct {
	db db
}

// NewVacationRepo constructs a VacationRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewVacationRepo(db db) VacationRepo {
	return &pgVacationRepo{db: db}
}

const vacationColumns = `v.vacation_id, v.destination, v.description, v.start_date, v.end_date, v.price, v.image_name`

func (r *pgVacationRepo) ListImageNames(ctx context.Context) ([]string, error) {
	const q = `SELECT image_name FROM vacations ORDER BY vacation_id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.VacationRepo.ListImageNames: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("repo.VacationRepo.ListImageNames: rows: %w", err)
	}
	return names, nil
}

func (r *pgVacationRepo) ListFollowedBy(ctx context.Context, userID int64) ([]domain.Vacation, error) {
	const q = `
		SELECT ` + vacationColumns + `
		FROM vacations v
		JOIN followings f ON f.vacation_id = v.vacation_id
		WHERE f.user_id = @user_id
		ORDER BY v.start_date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.VacationRepo.ListFollowedBy: %w", err)
	}
	return collectVacations(rows, "repo.VacationRepo.ListFollowedBy")
}

func (r *pgVacationRepo) ListFuture(ctx context.Context) ([]domain.Vacation, error) {
	const q = `
		SELECT ` + vacationColumns + `
		FROM vacations v
		WHERE v.start_date > now()
		ORDER BY v.start_date`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.VacationRepo.ListFuture: %w", err)
	}
	return collectVacations(rows, "repo.VacationRepo.ListFuture")
}

func (r *pgVacationRepo) ListPage(ctx context.Context, userID int64, p domain.PaginationParams) ([]domain.VacationListItem, error) {
	const q = `
		WITH followed AS (
			SELECT vacation_id FROM followings WHERE user_id = @user_id
		), counts AS (
			SELECT vacation_id, count(*) AS followers FROM followings GROUP BY vacation_id
		)
		SELECT ` + vacationColumns + `,
		       fv.vacation_id IS NOT NULL AS followed,
		       coalesce(c.followers, 0)   AS followers
		FROM vacations v
		LEFT JOIN followed fv ON fv.vacation_id = v.vacation_id
		LEFT JOIN counts c    ON c.vacation_id = v.vacation_id
		ORDER BY v.vacation_id
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{
		"user_id": userID,
		"limit":   p.Limit,
		"offset":  p.Offset(),
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.VacationRepo.ListPage: %w", err)
	}
	defer rows.Close()

	var items []domain.VacationListItem
	for rows.Next() {
		var item domain.VacationListItem
		item.Vacation, err = scanVacation(rows, &item.Followed, &item.Followers)
		if err != nil {
			return nil, fmt.Errorf("repo.VacationRepo.ListPage: scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.VacationRepo.ListPage: rows: %w", err)
	}
	return items, nil
}

func (r *pgVacationRepo) Count(ctx context.Context) (int64, error) {
	const q = `SELECT count(*) FROM vacations`

	var n int64
	if err := r.db.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.VacationRepo.Count: %w", err)
	}
	return n, nil
}

func (r *pgVacationRepo) GetByID(ctx context.Context, id int64) (domain.Vacation, error) {
	const q = `
		SELECT ` + vacationColumns + `
		FROM vacations v
		WHERE v.vacation_id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanVacation(row)
	if err != nil {
		return domain.Vacation{}, fmt.Errorf("repo.VacationRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgVacationRepo) Exists(ctx context.Context, id int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM vacations WHERE vacation_id = @id)`

	var ok bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(&ok); err != nil {
		return false, fmt.Errorf("repo.VacationRepo.Exists: %w", err)
	}
	return ok, nil
}

func (r *pgVacationRepo) ExistsLike(ctx context.Context, v domain.Vacation) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM vacations
			WHERE lower(destination) = lower(@destination)
			AND   start_date = @start_date
			AND   end_date   = @end_date
		)`

	args := pgx.NamedArgs{
		"destination": v.Destination,
		"start_date":  v.StartDate,
		"end_date":    v.EndDate,
	}

	var ok bool
	if err := r.db.QueryRow(ctx, q, args).Scan(&ok); err != nil {
		return false, fmt.Errorf("repo.VacationRepo.ExistsLike: %w", err)
	}
	return ok, nil
}

func (r *pgVacationRepo) Create(ctx context.Context, v domain.Vacation) (MutationResult, error) {
	const q = `
		INSERT INTO vacations (destination, description, start_date, end_date, price, image_name)
		VALUES (@destination, @description, @start_date, @end_date, @price, @image_name)
		RETURNING vacation_id`

	rows, err := r.db.Query(ctx, q, vacationArgs(v))
	if err != nil {
		return MutationResult{}, wrapConstraint("repo.VacationRepo.Create", err)
	}
	defer rows.Close()

	var id int64
	for rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return MutationResult{}, fmt.Errorf("repo.VacationRepo.Create: scan: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return MutationResult{}, wrapConstraint("repo.VacationRepo.Create", err)
	}
	return newMutationResult(rows.CommandTag(), id), nil
}

func (r *pgVacationRepo) Update(ctx context.Context, v domain.Vacation) (MutationResult, error) {
	const q = `
		UPDATE vacations
		SET destination = @destination,
		    description = @description,
		    start_date  = @start_date,
		    end_date    = @end_date,
		    price       = @price,
		    image_name  = @image_name,
		    updated_at  = now()
		WHERE vacation_id = @id`

	args := vacationArgs(v)
	args["id"] = v.ID

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return MutationResult{}, wrapConstraint("repo.VacationRepo.Update", err)
	}
	return newMutationResult(tag, 0), nil
}

func (r *pgVacationRepo) Delete(ctx context.Context, id int64) (MutationResult, error) {
	const q = `DELETE FROM vacations WHERE vacation_id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return MutationResult{}, fmt.Errorf("repo.VacationRepo.Delete: %w", err)
	}
	return newMutationResult(tag, 0), nil
}

func vacationArgs(v domain.Vacation) pgx.NamedArgs {
	return pgx.NamedArgs{
		"destination": v.Destination,
		"description": v.Description,
		"start_date":  v.StartDate,
		"end_date":    v.EndDate,
		"price":       v.Price,
		"image_name":  v.ImageName,
	}
}

func collectVacations(rows pgx.Rows, op string) ([]domain.Vacation, error) {
	defer rows.Close()

	var out []domain.Vacation
	for rows.Next() {
		v, err := scanVacation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return out, nil
}

// scanVacation maps a single database row into a domain.Vacation.
// extra receives any columns selected after the vacation columns.
// The row shape is mapped explicitly so schema changes stay inside this package.
func scanVacation(s scanner, extra ...any) (domain.Vacation, error) {
	var (
		v     domain.Vacation
		start pgtype.Timestamptz
		end   pgtype.Timestamptz
		price pgtype.Numeric
	)

	dest := append([]any{&v.ID, &v.Destination, &v.Description, &start, &end, &price, &v.ImageName}, extra...)
	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vacation{}, domain.ErrNotFound
		}
		return domain.Vacation{}, err
	}

	v.StartDate = start.Time.UTC()
	v.EndDate = end.Time.UTC()

	f, err := price.Float64Value()
	if err != nil {
		return domain.Vacation{}, fmt.Errorf("price: %w", err)
	}
	v.Price = f.Float64

	return v, nil
}
