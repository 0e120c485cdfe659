package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
)

// fakeStaffRepo is an in-memory repository.StaffRepository with call
// tracking and error injection.
type fakeStaffRepo struct {
	mu    sync.Mutex
	staff map[string]*domain.StaffIdentity

	GetCalls       []string
	UpdateCalls    []string
	LastLoginCalls chan string

	GetErr       error
	CreateErr    error
	UpdateErr    error
	LastLoginErr error
}

var _ repository.StaffRepository = (*fakeStaffRepo)(nil)

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{
		staff:          make(map[string]*domain.StaffIdentity),
		LastLoginCalls: make(chan string, 8),
	}
}

func (f *fakeStaffRepo) Seed(staff *domain.StaffIdentity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *staff
	f.staff[staff.ID] = &copied
}

func (f *fakeStaffRepo) Create(_ context.Context, staff *domain.StaffIdentity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return f.CreateErr
	}
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = staff.CreatedAt
	copied := *staff
	f.staff[staff.ID] = &copied
	return nil
}

func (f *fakeStaffRepo) Update(_ context.Context, staff *domain.StaffIdentity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls = append(f.UpdateCalls, staff.ID)
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	if _, ok := f.staff[staff.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *staff
	f.staff[staff.ID] = &copied
	return nil
}

func (f *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetCalls = append(f.GetCalls, id)
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	staff, ok := f.staff[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *staff
	return &copied, nil
}

func (f *fakeStaffRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	err := f.LastLoginErr
	if err == nil {
		if staff, ok := f.staff[id]; ok {
			staff.LastLogin = &at
		}
	}
	f.mu.Unlock()
	f.LastLoginCalls <- id
	return err
}

func (f *fakeStaffRepo) List(_ context.Context, filter repository.StaffFilter) ([]domain.StaffIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.StaffIdentity
	for _, staff := range f.staff {
		if filter.Role != nil && staff.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && staff.IsActive != *filter.Active {
			continue
		}
		result = append(result, *staff)
	}
	return result, nil
}

func (f *fakeStaffRepo) CountRoots(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return 0, f.GetErr
	}
	count := 0
	for _, staff := range f.staff {
		if staff.CreatedBy == nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeStaffRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.staff[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.staff, id)
	// Mirror the ON DELETE SET NULL behavior of the real store.
	for _, staff := range f.staff {
		if staff.CreatedBy != nil && *staff.CreatedBy == id {
			staff.CreatedBy = nil
		}
	}
	return nil
}

// fakeYouthRepo is an in-memory repository.YouthRepository.
type fakeYouthRepo struct {
	mu    sync.Mutex
	youth map[string]*domain.YouthIdentity

	GetCalls       []string
	LastLoginCalls chan string

	GetErr       error
	LastLoginErr error
}

var _ repository.YouthRepository = (*fakeYouthRepo)(nil)

func newFakeYouthRepo() *fakeYouthRepo {
	return &fakeYouthRepo{
		youth:          make(map[string]*domain.YouthIdentity),
		LastLoginCalls: make(chan string, 8),
	}
}

func (f *fakeYouthRepo) Seed(youth *domain.YouthIdentity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *youth
	f.youth[youth.ID] = &copied
}

func (f *fakeYouthRepo) Create(_ context.Context, youth *domain.YouthIdentity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	youth.CreatedAt = time.Now()
	youth.UpdatedAt = youth.CreatedAt
	copied := *youth
	f.youth[youth.ID] = &copied
	return nil
}

func (f *fakeYouthRepo) Update(_ context.Context, youth *domain.YouthIdentity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.youth[youth.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *youth
	f.youth[youth.ID] = &copied
	return nil
}

func (f *fakeYouthRepo) GetByID(_ context.Context, id string) (*domain.YouthIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetCalls = append(f.GetCalls, id)
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	youth, ok := f.youth[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *youth
	return &copied, nil
}

func (f *fakeYouthRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	err := f.LastLoginErr
	f.mu.Unlock()
	f.LastLoginCalls <- id
	return err
}

// captureRecorder collects attempt records synchronously.
type captureRecorder struct {
	mu      sync.Mutex
	records []domain.AttemptRecord
}

func (c *captureRecorder) Record(attempt domain.AttemptRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, attempt)
}

func (c *captureRecorder) Records() []domain.AttemptRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.AttemptRecord{}, c.records...)
}

// fakeAttemptRepo is an in-memory repository.AttemptRepository.
type fakeAttemptRepo struct {
	mu       sync.Mutex
	attempts []domain.AttemptRecord
}

var _ repository.AttemptRepository = (*fakeAttemptRepo)(nil)

func (f *fakeAttemptRepo) Create(_ context.Context, attempt *domain.AttemptRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, *attempt)
	return nil
}

func (f *fakeAttemptRepo) ListByUser(_ context.Context, userID string, limit int) ([]domain.AttemptRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.AttemptRecord
	for i := len(f.attempts) - 1; i >= 0 && len(result) < limit; i-- {
		if f.attempts[i].UserID == userID {
			result = append(result, f.attempts[i])
		}
	}
	return result, nil
}
