package mock

import (
	"context"
	"sync"

	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

// Test helpers and mocks. Each repo keeps records in memory; Err, when set,
// is returned by every method instead.
type Mocks struct {
	Companies    *mockCompanyRepo
	Users        *mockUserRepo
	Jobs         *mockJobRepo
	Applications *mockApplicationRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Companies:    &mockCompanyRepo{Stored: map[string]*models.Company{}},
		Users:        &mockUserRepo{Stored: map[string]*models.User{}},
		Jobs:         &mockJobRepo{Stored: map[string]*models.Job{}},
		Applications: &mockApplicationRepo{Stored: map[string]*models.JobApplication{}},
	}
}

var (
	_ repository.CompanyRepo     = (*mockCompanyRepo)(nil)
	_ repository.UserRepo        = (*mockUserRepo)(nil)
	_ repository.JobRepo         = (*mockJobRepo)(nil)
	_ repository.ApplicationRepo = (*mockApplicationRepo)(nil)
)

type mockCompanyRepo struct {
	mu        sync.Mutex
	Stored    map[string]*models.Company
	CreateErr error
	Err       error
}

func (m *mockCompanyRepo) CreateCompany(ctx context.Context, c *models.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.CreateErr != nil {
		return m.CreateErr
	}
	for _, s := range m.Stored {
		if s.Email == c.Email {
			return repository.ErrConflict
		}
	}
	cp := *c
	m.Stored[c.ID] = &cp
	return nil
}

func (m *mockCompanyRepo) GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if c, ok := m.Stored[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *mockCompanyRepo) GetCompanyByEmail(ctx context.Context, email string) (*models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, c := range m.Stored {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockCompanyRepo) UpdateCompany(ctx context.Context, c *models.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Stored[c.ID]; ok {
		cp := *c
		m.Stored[c.ID] = &cp
	}
	return nil
}

type mockUserRepo struct {
	mu     sync.Mutex
	Stored map[string]*models.User
	Err    error
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Stored[u.ID]; ok {
		return repository.ErrConflict
	}
	cp := *u
	m.Stored[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if u, ok := m.Stored[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if s, ok := m.Stored[u.ID]; ok {
		s.Name, s.Email, s.Image = u.Name, u.Email, u.Image
	}
	return nil
}

func (m *mockUserRepo) UpdateUserName(ctx context.Context, id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if s, ok := m.Stored[id]; ok {
		s.Name = name
	}
	return nil
}

func (m *mockUserRepo) SetResume(ctx context.Context, id, resume string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if s, ok := m.Stored[id]; ok {
		s.Resume = resume
	}
	return nil
}

func (m *mockUserRepo) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.Stored, id)
	return nil
}

type mockJobRepo struct {
	mu     sync.Mutex
	Stored map[string]*models.Job
	Err    error
}

func (m *mockJobRepo) CreateJob(ctx context.Context, j *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cp := *j
	m.Stored[j.ID] = &cp
	return nil
}

func (m *mockJobRepo) GetJobByID(ctx context.Context, id string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if j, ok := m.Stored[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, nil
}

func (m *mockJobRepo) GetJobListing(ctx context.Context, id string) (*models.JobListing, error) {
	j, err := m.GetJobByID(ctx, id)
	if err != nil || j == nil {
		return nil, err
	}
	return &models.JobListing{Job: *j, Company: models.CompanySummary{ID: j.CompanyID}}, nil
}

func (m *mockJobRepo) ListVisibleJobs(ctx context.Context, f models.JobFilter, limit, offset int) ([]models.JobListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.JobListing
	for _, j := range m.Stored {
		if j.Visible {
			out = append(out, models.JobListing{Job: *j, Company: models.CompanySummary{ID: j.CompanyID}})
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	return out[offset:min(len(out), offset+limit)], nil
}

func (m *mockJobRepo) CountVisibleJobs(ctx context.Context, f models.JobFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	var n int64
	for _, j := range m.Stored {
		if j.Visible {
			n++
		}
	}
	return n, nil
}

func (m *mockJobRepo) ListJobsByCompany(ctx context.Context, companyID string) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Job
	for _, j := range m.Stored {
		if j.CompanyID == companyID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (m *mockJobRepo) UpdateJob(ctx context.Context, j *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if s, ok := m.Stored[j.ID]; ok {
		cp := *j
		cp.CompanyID = s.CompanyID
		m.Stored[j.ID] = &cp
	}
	return nil
}

func (m *mockJobRepo) DeleteJob(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.Stored, id)
	return nil
}

type mockApplicationRepo struct {
	mu        sync.Mutex
	Stored    map[string]*models.JobApplication
	CreateErr error
	Err       error
}

func (m *mockApplicationRepo) CreateApplication(ctx context.Context, a *models.JobApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.CreateErr != nil {
		return m.CreateErr
	}
	for _, s := range m.Stored {
		if s.UserID == a.UserID && s.JobID == a.JobID {
			return repository.ErrConflict
		}
	}
	cp := *a
	m.Stored[a.ID] = &cp
	return nil
}

func (m *mockApplicationRepo) GetApplicationByID(ctx context.Context, id string) (*models.JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if a, ok := m.Stored[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (m *mockApplicationRepo) GetApplicationByUserAndJob(ctx context.Context, userID, jobID string) (*models.JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, a := range m.Stored {
		if a.UserID == userID && a.JobID == jobID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockApplicationRepo) list(match func(a *models.JobApplication) bool) ([]models.ApplicationView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.ApplicationView
	for _, a := range m.Stored {
		if match(a) {
			out = append(out, models.ApplicationView{JobApplication: *a})
		}
	}
	return out, nil
}

func (m *mockApplicationRepo) ListApplicationsByUser(ctx context.Context, userID string) ([]models.ApplicationView, error) {
	return m.list(func(a *models.JobApplication) bool { return a.UserID == userID })
}

func (m *mockApplicationRepo) ListApplicationsByJob(ctx context.Context, jobID string) ([]models.ApplicationView, error) {
	return m.list(func(a *models.JobApplication) bool { return a.JobID == jobID })
}

func (m *mockApplicationRepo) ListApplicationsByCompany(ctx context.Context, companyID string) ([]models.ApplicationView, error) {
	return m.list(func(a *models.JobApplication) bool { return a.CompanyID == companyID })
}

func (m *mockApplicationRepo) UpdateApplicationStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if a, ok := m.Stored[id]; ok {
		a.Status = status
	}
	return nil
}
