package service_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pkordes/vacation-booking/backend/internal/domain"
	"github.com/pkordes/vacation-booking/backend/internal/repo"
)

// mockVacationRepo is a hand-written test double for repo.VacationRepo.
// Each method is a function field; set only the ones your test needs.
type mockVacationRepo struct {
	listImageNames func(ctx context.Context) ([]string, error)
	listFollowedBy func(ctx context.Context, userID int64) ([]domain.Vacation, error)
	listFuture     func(ctx context.Context) ([]domain.Vacation, error)
	listPage       func(ctx context.Context, userID int64, p domain.PaginationParams) ([]domain.VacationListItem, error)
	count          func(ctx context.Context) (int64, error)
	getByID        func(ctx context.Context, id int64) (domain.Vacation, error)
	exists         func(ctx context.Context, id int64) (bool, error)
	existsLike     func(ctx context.Context, v domain.Vacation) (bool, error)
	create         func(ctx context.Context, v domain.Vacation) (repo.MutationResult, error)
	update         func(ctx context.Context, v domain.Vacation) (repo.MutationResult, error)
	delete         func(ctx context.Context, id int64) (repo.MutationResult, error)
}

func (m *mockVacationRepo) ListImageNames(ctx context.Context) ([]string, error) {
	return m.listImageNames(ctx)
}
func (m *mockVacationRepo) ListFollowedBy(ctx context.Context, userID int64) ([]domain.Vacation, error) {
	return m.listFollowedBy(ctx, userID)
}
func (m *mockVacationRepo) ListFuture(ctx context.Context) ([]domain.Vacation, error) {
	return m.listFuture(ctx)
}
func (m *mockVacationRepo) ListPage(ctx context.Context, userID int64, p domain.PaginationParams) ([]domain.VacationListItem, error) {
	return m.listPage(ctx, userID, p)
}
func (m *mockVacationRepo) Count(ctx context.Context) (int64, error) {
	return m.count(ctx)
}
func (m *mockVacationRepo) GetByID(ctx context.Context, id int64) (domain.Vacation, error) {
	return m.getByID(ctx, id)
}
func (m *mockVacationRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return m.exists(ctx, id)
}
func (m *mockVacationRepo) ExistsLike(ctx context.Context, v domain.Vacation) (bool, error) {
	return m.existsLike(ctx, v)
}
func (m *mockVacationRepo) Create(ctx context.Context, v domain.Vacation) (repo.MutationResult, error) {
	return m.create(ctx, v)
}
func (m *mockVacationRepo) Update(ctx context.Context, v domain.Vacation) (repo.MutationResult, error) {
	return m.update(ctx, v)
}
func (m *mockVacationRepo) Delete(ctx context.Context, id int64) (repo.MutationResult, error) {
	return m.delete(ctx, id)
}

// compile-time check: mockVacationRepo must satisfy repo.VacationRepo.
var _ repo.VacationRepo = (*mockVacationRepo)(nil)

type mockFollowingRepo struct {
	add    func(ctx context.Context, userID, vacationID int64) error
	remove func(ctx context.Context, userID, vacationID int64) error
	report func(ctx context.Context) ([]domain.FollowerReportRow, error)
}

func (m *mockFollowingRepo) Add(ctx context.Context, userID, vacationID int64) error {
	return m.add(ctx, userID, vacationID)
}
func (m *mockFollowingRepo) Remove(ctx context.Context, userID, vacationID int64) error {
	return m.remove(ctx, userID, vacationID)
}

func (m *mockFollowingRepo) Report(ctx context.Context) ([]domain.FollowerReportRow, error) {
	return m.report(ctx)
}

var _ repo.FollowingRepo = (*mockFollowingRepo)(nil)

type mockUserRepo struct {
	create     func(ctx context.Context, u domain.User) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
	getByID    func(ctx context.Context, id int64) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return m.getByID(ctx, id)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// memVacationRepo is an in-memory repo.VacationRepo with store semantics
// close enough to Postgres for end-to-end service tests.
type memVacationRepo struct {
	mu        sync.Mutex
	nextID    int64
	rows      map[int64]domain.Vacation
	followers map[int64]map[int64]bool // vacationID -> userIDs
}

func newMemVacationRepo() *memVacationRepo {
	return &memVacationRepo{
		nextID:    1,
		rows:      map[int64]domain.Vacation{},
		followers: map[int64]map[int64]bool{},
	}
}

func (m *memVacationRepo) sortedIDs() []int64 {
	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *memVacationRepo) ListImageNames(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for _, id := range m.sortedIDs() {
		names = append(names, m.rows[id].ImageName)
	}
	return names, nil
}

func (m *memVacationRepo) ListFollowedBy(_ context.Context, userID int64) ([]domain.Vacation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Vacation
	for _, id := range m.sortedIDs() {
		if m.followers[id][userID] {
			out = append(out, m.rows[id])
		}
	}
	return out, nil
}

func (m *memVacationRepo) ListFuture(_ context.Context) ([]domain.Vacation, error) {
	return nil, nil
}

func (m *memVacationRepo) ListPage(_ context.Context, userID int64, p domain.PaginationParams) ([]domain.VacationListItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.sortedIDs()
	var out []domain.VacationListItem
	for i := p.Offset(); i < len(ids) && len(out) < p.Limit; i++ {
		id := ids[i]
		out = append(out, domain.VacationListItem{
			Vacation:  m.rows[id],
			Followed:  m.followers[id][userID],
			Followers: int64(len(m.followers[id])),
		})
	}
	return out, nil
}

func (m *memVacationRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

func (m *memVacationRepo) GetByID(_ context.Context, id int64) (domain.Vacation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[id]
	if !ok {
		return domain.Vacation{}, fmt.Errorf("memVacationRepo.GetByID: %w", domain.ErrNotFound)
	}
	return v, nil
}

func (m *memVacationRepo) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	return ok, nil
}

func (m *memVacationRepo) ExistsLike(_ context.Context, v domain.Vacation) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if strings.EqualFold(row.Destination, v.Destination) &&
			row.StartDate.Equal(v.StartDate) && row.EndDate.Equal(v.EndDate) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memVacationRepo) Create(_ context.Context, v domain.Vacation) (repo.MutationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.ID = m.nextID
	m.nextID++
	m.rows[v.ID] = v
	return repo.MutationResult{RowsAffected: 1, Message: "INSERT 0 1", InsertID: v.ID}, nil
}

func (m *memVacationRepo) Update(_ context.Context, v domain.Vacation) (repo.MutationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[v.ID]; !ok {
		return repo.MutationResult{Message: "UPDATE 0"}, nil
	}
	m.rows[v.ID] = v
	return repo.MutationResult{RowsAffected: 1, Message: "UPDATE 1"}, nil
}

func (m *memVacationRepo) Delete(_ context.Context, id int64) (repo.MutationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repo.MutationResult{Message: "DELETE 0"}, nil
	}
	delete(m.rows, id)
	delete(m.followers, id)
	return repo.MutationResult{RowsAffected: 1, Message: "DELETE 1"}, nil
}

func (m *memVacationRepo) follow(userID, vacationID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.followers[vacationID] == nil {
		m.followers[vacationID] = map[int64]bool{}
	}
	m.followers[vacationID][userID] = true
}

var _ repo.VacationRepo = (*memVacationRepo)(nil)
