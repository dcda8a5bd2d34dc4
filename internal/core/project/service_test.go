package project

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeProjectRepo struct {
	projects     map[string]*Project
	requirements map[string][]Requirement
	order        []string
	sequence     int
	replaceErr   error
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects:     make(map[string]*Project),
		requirements: make(map[string][]Requirement),
	}
}

func (r *fakeProjectRepo) Create(_ context.Context, p *Project) (*Project, error) {
	clone := cloneProject(p)
	r.sequence++
	clone.ID = fmt.Sprintf("prj-%d", r.sequence)
	r.projects[clone.ID] = clone
	r.order = append(r.order, clone.ID)
	return cloneProject(clone), nil
}

func (r *fakeProjectRepo) Update(_ context.Context, p *Project) (*Project, error) {
	if _, ok := r.projects[p.ID]; !ok {
		return nil, ErrProjectNotFound
	}
	r.projects[p.ID] = cloneProject(p)
	result := cloneProject(p)
	result.Requirements = append([]Requirement(nil), r.requirements[p.ID]...)
	return result, nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return ErrProjectNotFound
	}
	delete(r.projects, id)
	delete(r.requirements, id)
	return nil
}

func (r *fakeProjectRepo) FindByID(_ context.Context, id string) (*Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	result := cloneProject(p)
	result.Requirements = append([]Requirement(nil), r.requirements[id]...)
	return result, nil
}

func (r *fakeProjectRepo) List(_ context.Context, filter ListProjectsFilter) ([]*Project, string, error) {
	var filtered []*Project
	for _, id := range r.order {
		p, ok := r.projects[id]
		if !ok {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		filtered = append(filtered, cloneProject(p))
	}
	if filter.Offset > len(filtered) {
		return []*Project{}, "", nil
	}
	end := filter.Offset + filter.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	next := ""
	if end < len(filtered) {
		next = strconv.Itoa(end)
	}
	return filtered[filter.Offset:end], next, nil
}

func (r *fakeProjectRepo) ReplaceRequirements(_ context.Context, projectID string, requirements []Requirement) ([]Requirement, error) {
	if r.replaceErr != nil {
		return nil, r.replaceErr
	}
	saved := make([]Requirement, 0, len(requirements))
	for i, req := range requirements {
		req.ID = fmt.Sprintf("%s-req-%d", projectID, i+1)
		req.ProjectID = projectID
		saved = append(saved, req)
	}
	r.requirements[projectID] = saved
	return append([]Requirement(nil), saved...), nil
}

func cloneProject(p *Project) *Project {
	if p == nil {
		return nil
	}
	copy := *p
	copy.Tools = append([]string(nil), p.Tools...)
	copy.Requirements = nil
	if p.EndDate != nil {
		end := *p.EndDate
		copy.EndDate = &end
	}
	return &copy
}

func date(year int, month time.Month, d int) *time.Time {
	t := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestStatusAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	if got := StatusAt(*date(2025, 7, 1), nil, now); got != StatusUpcoming {
		t.Fatalf("expected UPCOMING, got %s", got)
	}
	if got := StatusAt(*date(2025, 1, 1), nil, now); got != StatusCurrent {
		t.Fatalf("expected CURRENT for open-ended project, got %s", got)
	}
	if got := StatusAt(*date(2025, 1, 1), date(2025, 5, 1), now); got != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", got)
	}
	if got := StatusAt(*date(2025, 1, 1), date(2025, 6, 1), now); got != StatusCurrent {
		t.Fatalf("expected CURRENT on the end date, got %s", got)
	}
}

func TestService_CreateProject_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeProjectRepo()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(repo, &stubClock{now: now}, nil)

	created, err := svc.CreateProject(context.Background(), CreateProjectInput{
		Name:      "  Atlas ",
		StartDate: date(2025, 7, 1),
		Tools:     []string{" Go ", ""},
		Requirements: []RequirementInput{
			{RoleID: "role-1", Seniority: SenioritySenior, StartDate: date(2025, 7, 1), EndDate: date(2025, 9, 30), Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("CreateProject returned error: %v", err)
	}

	if created.Name != "Atlas" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	if created.Status != StatusUpcoming {
		t.Fatalf("expected status derived as UPCOMING, got %s", created.Status)
	}
	if created.ClientSatisfaction != SatisfactionNeutral {
		t.Fatalf("expected default satisfaction NEUTRAL, got %s", created.ClientSatisfaction)
	}
	if len(created.Tools) != 1 || created.Tools[0] != "Go" {
		t.Fatalf("expected tools [Go], got %v", created.Tools)
	}
	if len(created.Requirements) != 1 || created.Requirements[0].ProjectID != created.ID {
		t.Fatalf("expected requirement to be saved, got %+v", created.Requirements)
	}
}

func TestService_CreateProject_InvalidInput(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeProjectRepo(), nil, nil)

	if _, err := svc.CreateProject(context.Background(), CreateProjectInput{Name: "X"}); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange for missing start, got %v", err)
	}
	if _, err := svc.CreateProject(context.Background(), CreateProjectInput{Name: "X", StartDate: date(2025, 2, 1), EndDate: date(2025, 1, 1)}); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
	if _, err := svc.CreateProject(context.Background(), CreateProjectInput{
		Name:         "X",
		StartDate:    date(2025, 1, 1),
		Requirements: []RequirementInput{{RoleID: "role-1", Seniority: SeniorityJunior, StartDate: date(2025, 1, 1), EndDate: date(2025, 2, 1), Quantity: 0}},
	}); !errors.Is(err, ErrInvalidRequirement) {
		t.Fatalf("expected ErrInvalidRequirement, got %v", err)
	}
}

func TestService_UpdateProject_RecomputesStatusAndReplacesRequirements(t *testing.T) {
	t.Parallel()

	repo := newFakeProjectRepo()
	clk := &stubClock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	svc := NewService(repo, clk, nil)

	created, err := svc.CreateProject(context.Background(), CreateProjectInput{
		Name:      "Atlas",
		StartDate: date(2025, 1, 1),
		Requirements: []RequirementInput{
			{RoleID: "role-1", Seniority: SeniorityJunior, StartDate: date(2025, 1, 1), EndDate: date(2025, 3, 1), Quantity: 1},
			{RoleID: "role-2", Seniority: SenioritySenior, StartDate: date(2025, 1, 1), EndDate: date(2025, 3, 1), Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateProject returned error: %v", err)
	}
	if created.Status != StatusCurrent {
		t.Fatalf("expected CURRENT, got %s", created.Status)
	}

	replacement := []RequirementInput{
		{RoleID: "role-3", Seniority: SeniorityIntern, StartDate: date(2025, 2, 1), EndDate: date(2025, 4, 1), Quantity: 3},
	}
	updated, err := svc.UpdateProject(context.Background(), UpdateProjectInput{
		ID:           created.ID,
		EndDate:      date(2025, 5, 1),
		EndDateSet:   true,
		Requirements: &replacement,
	})
	if err != nil {
		t.Fatalf("UpdateProject returned error: %v", err)
	}

	if updated.Status != StatusCompleted {
		t.Fatalf("expected status recomputed to COMPLETED, got %s", updated.Status)
	}
	if len(updated.Requirements) != 1 || updated.Requirements[0].RoleID != "role-3" {
		t.Fatalf("expected requirements replaced, got %+v", updated.Requirements)
	}
}

func TestService_UpdateProject_ReplaceFailurePropagates(t *testing.T) {
	t.Parallel()

	repo := newFakeProjectRepo()
	svc := NewService(repo, nil, nil)

	created, err := svc.CreateProject(context.Background(), CreateProjectInput{Name: "Atlas", StartDate: date(2025, 1, 1)})
	if err != nil {
		t.Fatalf("CreateProject returned error: %v", err)
	}

	repo.replaceErr = ErrRoleNotFound
	empty := []RequirementInput{}
	if _, err := svc.UpdateProject(context.Background(), UpdateProjectInput{ID: created.ID, Requirements: &empty}); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestService_ListProjects_InvalidStatus(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeProjectRepo(), nil, nil)

	invalid := Status("ARCHIVED")
	if _, err := svc.ListProjects(context.Background(), ListProjectsInput{Status: &invalid}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestService_DeleteProject(t *testing.T) {
	t.Parallel()

	repo := newFakeProjectRepo()
	svc := NewService(repo, nil, nil)

	created, err := svc.CreateProject(context.Background(), CreateProjectInput{Name: "Atlas", StartDate: date(2025, 1, 1)})
	if err != nil {
		t.Fatalf("CreateProject returned error: %v", err)
	}

	if err := svc.DeleteProject(context.Background(), DeleteProjectInput{ID: created.ID}); err != nil {
		t.Fatalf("DeleteProject returned error: %v", err)
	}
	if _, err := svc.GetProject(context.Background(), GetProjectInput{ID: created.ID}); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}
