package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/garnizeh/jobboard/internal/testutil"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

func seedCompany(t *testing.T, repo repository.CompanyRepo, id, email string) *models.Company {
	t.Helper()
	c := &models.Company{ID: id, Name: "Co " + id, Email: email, PasswordHash: "hash", Image: "logo-" + id}
	if err := repo.CreateCompany(context.Background(), c); err != nil {
		t.Fatalf("CreateCompany(%s): %v", id, err)
	}
	return c
}

func seedJob(t *testing.T, repo repository.JobRepo, id, companyID string, mutate func(j *models.Job)) *models.Job {
	t.Helper()
	j := &models.Job{
		ID: id, Title: "Title " + id, Description: "desc", Location: "Lisbon",
		Category: "Programming", Level: "Beginner", Salary: 1000, CompanyID: companyID, Visible: true,
	}
	if mutate != nil {
		mutate(j)
	}
	if err := repo.CreateJob(context.Background(), j); err != nil {
		t.Fatalf("CreateJob(%s): %v", id, err)
	}
	return j
}

func TestCompanyCRUD(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateCompany(ctx, nil); err == nil {
		t.Fatalf("expected error when creating nil company")
	}

	got, err := repo.GetCompanyByID(ctx, "missing")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil for missing id, got %#v %v", got, err)
	}
	got, err = repo.GetCompanyByEmail(ctx, "a@a.com")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil for missing email, got %#v %v", got, err)
	}

	c := seedCompany(t, repo, "c1", "a@a.com")
	if c.Created == 0 || c.Updated != c.Created {
		t.Fatalf("expected timestamps to be set, got %+v", c)
	}

	dup := &models.Company{ID: "c2", Name: "Other", Email: "a@a.com", PasswordHash: "h"}
	if err := repo.CreateCompany(ctx, dup); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email, got %v", err)
	}

	got, err = repo.GetCompanyByEmail(ctx, "a@a.com")
	if err != nil || got == nil || got.ID != "c1" || got.PasswordHash != "hash" {
		t.Fatalf("GetCompanyByEmail: %#v %v", got, err)
	}

	c.Name = "Renamed"
	c.Image = "new-logo"
	if err := repo.UpdateCompany(ctx, c); err != nil {
		t.Fatalf("UpdateCompany: %v", err)
	}
	got, _ = repo.GetCompanyByID(ctx, "c1")
	if got.Name != "Renamed" || got.Image != "new-logo" || got.Email != "a@a.com" {
		t.Fatalf("unexpected company after update %+v", got)
	}
}

func TestUserCRUD(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	ctx := context.Background()

	u := &models.User{ID: "user_1", Name: "Ada", Email: "ada@example.com", Image: "img"}
	if err := repo.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := repo.CreateUser(ctx, &models.User{ID: "user_1", Name: "Again"}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate id, got %v", err)
	}
	if err := repo.CreateUser(ctx, &models.User{ID: "user_2", Email: "ada@example.com"}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email, got %v", err)
	}
	// users without an email do not collide
	for _, id := range []string{"user_3", "user_4"} {
		if err := repo.CreateUser(ctx, &models.User{ID: id, Name: "User"}); err != nil {
			t.Fatalf("CreateUser(%s) without email: %v", id, err)
		}
	}

	if err := repo.UpdateUser(ctx, &models.User{ID: "nobody", Name: "Ghost"}); err != nil {
		t.Fatalf("UpdateUser for unknown id should not error: %v", err)
	}
	if got, _ := repo.GetUserByID(ctx, "nobody"); got != nil {
		t.Fatalf("UpdateUser must not create rows, got %+v", got)
	}

	if err := repo.SetResume(ctx, "user_1", "cv.pdf"); err != nil {
		t.Fatalf("SetResume: %v", err)
	}
	if err := repo.UpdateUserName(ctx, "user_1", "Ada L."); err != nil {
		t.Fatalf("UpdateUserName: %v", err)
	}
	got, _ := repo.GetUserByID(ctx, "user_1")
	if got.Resume != "cv.pdf" || got.Name != "Ada L." || got.Email != "ada@example.com" {
		t.Fatalf("unexpected user %+v", got)
	}

	// identity updates leave the resume alone
	if err := repo.UpdateUser(ctx, &models.User{ID: "user_1", Name: "Ada", Email: "new@example.com"}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	got, _ = repo.GetUserByID(ctx, "user_1")
	if got.Resume != "cv.pdf" || got.Email != "new@example.com" || got.Image != "" {
		t.Fatalf("unexpected user after identity update %+v", got)
	}

	if err := repo.DeleteUser(ctx, "user_1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if got, _ := repo.GetUserByID(ctx, "user_1"); got != nil {
		t.Fatalf("expected user deleted, got %+v", got)
	}
}

func TestJobs_ListFilterPaginate(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	ctx := context.Background()

	seedCompany(t, repo, "c1", "c1@x.com")
	seedCompany(t, repo, "c2", "c2@x.com")

	seedJob(t, repo, "j1", "c1", func(j *models.Job) { j.Title = "Senior Go Engineer"; j.Level = "Senior" })
	seedJob(t, repo, "j2", "c1", func(j *models.Job) { j.Category = "Design"; j.Location = "Remote (EU)" })
	seedJob(t, repo, "j3", "c2", func(j *models.Job) { j.Description = "We write GO daily" })
	seedJob(t, repo, "j4", "c2", func(j *models.Job) { j.Visible = false; j.Title = "Go hidden" })

	tests := []struct {
		name    string
		filter  models.JobFilter
		wantIDs []string
	}{
		{name: "AllVisible", wantIDs: []string{"j3", "j2", "j1"}},
		{name: "Category", filter: models.JobFilter{Category: "Design"}, wantIDs: []string{"j2"}},
		{name: "Level", filter: models.JobFilter{Level: "Senior"}, wantIDs: []string{"j1"}},
		{name: "LocationSubstring", filter: models.JobFilter{Location: "remote"}, wantIDs: []string{"j2"}},
		{name: "SearchTitleOrDescription", filter: models.JobFilter{Search: "go"}, wantIDs: []string{"j3", "j1"}},
		{name: "NoMatch", filter: models.JobFilter{Search: "cobol"}, wantIDs: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jobs, err := repo.ListVisibleJobs(ctx, tc.filter, 10, 0)
			if err != nil {
				t.Fatalf("ListVisibleJobs: %v", err)
			}
			var ids []string
			for _, j := range jobs {
				ids = append(ids, j.ID)
				if j.Company.ID != j.CompanyID || j.Company.Name == "" {
					t.Fatalf("listing missing company summary: %+v", j)
				}
				if j.Company.Email != "" {
					t.Fatalf("public listing must not carry company email")
				}
			}
			if len(ids) != len(tc.wantIDs) {
				t.Fatalf("got %v want %v", ids, tc.wantIDs)
			}
			for i := range ids {
				if ids[i] != tc.wantIDs[i] {
					t.Fatalf("got %v want %v", ids, tc.wantIDs)
				}
			}

			total, err := repo.CountVisibleJobs(ctx, tc.filter)
			if err != nil || total != int64(len(tc.wantIDs)) {
				t.Fatalf("CountVisibleJobs: %d %v", total, err)
			}
		})
	}

	page, err := repo.ListVisibleJobs(ctx, models.JobFilter{}, 2, 2)
	if err != nil || len(page) != 1 || page[0].ID != "j1" {
		t.Fatalf("second page: %+v %v", page, err)
	}

	listing, err := repo.GetJobListing(ctx, "j4")
	if err != nil || listing == nil || listing.Company.Email != "c2@x.com" {
		t.Fatalf("GetJobListing for hidden job: %+v %v", listing, err)
	}
	if missing, err := repo.GetJobListing(ctx, "nope"); err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing listing, got %+v %v", missing, err)
	}

	own, err := repo.ListJobsByCompany(ctx, "c2")
	if err != nil || len(own) != 2 {
		t.Fatalf("ListJobsByCompany should include hidden jobs: %+v %v", own, err)
	}
}

func TestJobs_UpdateAndDeleteCascade(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	ctx := context.Background()

	seedCompany(t, repo, "c1", "c1@x.com")
	j := seedJob(t, repo, "j1", "c1", nil)
	other := seedJob(t, repo, "j2", "c1", nil)

	j.Title = "Changed"
	j.Visible = false
	j.CompanyID = "c-other"
	if err := repo.UpdateJob(ctx, j); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	got, _ := repo.GetJobByID(ctx, "j1")
	if got.Title != "Changed" || got.Visible || got.CompanyID != "c1" {
		t.Fatalf("unexpected job after update %+v", got)
	}

	for _, a := range []*models.JobApplication{
		{ID: "a1", UserID: "u1", JobID: "j1", CompanyID: "c1", Status: models.StatusPending},
		{ID: "a2", UserID: "u2", JobID: "j1", CompanyID: "c1", Status: models.StatusPending},
		{ID: "a3", UserID: "u1", JobID: other.ID, CompanyID: "c1", Status: models.StatusPending},
	} {
		if err := repo.CreateApplication(ctx, a); err != nil {
			t.Fatalf("CreateApplication(%s): %v", a.ID, err)
		}
	}

	if err := repo.DeleteJob(ctx, "j1"); err != nil {
		t.Fatalf("DeleteJob: %v", err)
	}
	if got, _ := repo.GetJobByID(ctx, "j1"); got != nil {
		t.Fatalf("expected job deleted")
	}
	if a, _ := repo.GetApplicationByID(ctx, "a1"); a != nil {
		t.Fatalf("expected applications of deleted job removed")
	}
	if a, _ := repo.GetApplicationByID(ctx, "a3"); a == nil {
		t.Fatalf("applications of other jobs must survive")
	}
}

func TestApplications(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	ctx := context.Background()

	seedCompany(t, repo, "c1", "c1@x.com")
	seedJob(t, repo, "j1", "c1", nil)
	if err := repo.CreateUser(ctx, &models.User{ID: "u1", Name: "Ada", Email: "ada@x.com", Resume: "cv"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	a := &models.JobApplication{ID: "a1", UserID: "u1", JobID: "j1", CompanyID: "c1", Status: models.StatusPending}
	if err := repo.CreateApplication(ctx, a); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}

	dup := &models.JobApplication{ID: "a2", UserID: "u1", JobID: "j1", CompanyID: "c1", Status: models.StatusPending}
	if err := repo.CreateApplication(ctx, dup); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate (user, job), got %v", err)
	}

	got, err := repo.GetApplicationByUserAndJob(ctx, "u1", "j1")
	if err != nil || got == nil || got.ID != "a1" {
		t.Fatalf("GetApplicationByUserAndJob: %+v %v", got, err)
	}
	if none, err := repo.GetApplicationByUserAndJob(ctx, "u2", "j1"); err != nil || none != nil {
		t.Fatalf("expected nil, nil, got %+v %v", none, err)
	}

	if err := repo.UpdateApplicationStatus(ctx, "a1", models.StatusRejected); err != nil {
		t.Fatalf("UpdateApplicationStatus: %v", err)
	}
	got, _ = repo.GetApplicationByID(ctx, "a1")
	if got.Status != models.StatusRejected {
		t.Fatalf("expected rejected, got %q", got.Status)
	}

	byJob, err := repo.ListApplicationsByJob(ctx, "j1")
	if err != nil || len(byJob) != 1 || byJob[0].Applicant == nil || byJob[0].Applicant.Resume != "cv" {
		t.Fatalf("ListApplicationsByJob: %+v %v", byJob, err)
	}

	byUser, err := repo.ListApplicationsByUser(ctx, "u1")
	if err != nil || len(byUser) != 1 || byUser[0].Job == nil || byUser[0].Job.Company == nil || byUser[0].Job.Company.ID != "c1" {
		t.Fatalf("ListApplicationsByUser: %+v %v", byUser, err)
	}

	byCompany, err := repo.ListApplicationsByCompany(ctx, "c1")
	if err != nil || len(byCompany) != 1 || byCompany[0].Applicant.Name != "Ada" || byCompany[0].Job.Title != "Title j1" {
		t.Fatalf("ListApplicationsByCompany: %+v %v", byCompany, err)
	}
}
