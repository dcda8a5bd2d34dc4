//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	repo "github.com/ratishjain12/devx-rms/internal/adapters/repository/postgres"
	"github.com/ratishjain12/devx-rms/internal/core/assignment"
	"github.com/ratishjain12/devx-rms/internal/core/employee"
	"github.com/ratishjain12/devx-rms/internal/core/project"
	"github.com/ratishjain12/devx-rms/internal/core/report"
	"github.com/ratishjain12/devx-rms/internal/platform/config"
	pg "github.com/ratishjain12/devx-rms/internal/platform/db/postgres"
)

const (
	migrationsDir = "../assets/migrations"
	seedsDir      = "../assets/seeds"
)

func TestAssignmentLifecycleIntegration(t *testing.T) {
	cfgPath := configPathFromEnv()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if err := resetMigrations(cfg.Database.DSN(), migrationsDir); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	if err := applySeeds(ctx, pool, seedsDir); err != nil {
		t.Fatalf("failed to apply seeds: %v", err)
	}

	clock := stubClock{now: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)}
	tx := pg.NewTransactionManager(pool)
	employeeRepo := repo.NewEmployeeRepository(pool)
	projectRepo := repo.NewProjectRepository(pool)
	assignmentRepo := repo.NewAssignmentRepository(pool)

	employeeSvc := employee.NewService(employeeRepo, clock, tx)
	projectSvc := project.NewService(projectRepo, clock, tx)
	assignmentSvc := assignment.NewService(assignmentRepo, clock, tx)
	reportSvc := report.NewService(assignmentRepo, employeeRepo, tx, report.DefaultAvailabilityThreshold)

	asha, err := employeeSvc.CreateEmployee(ctx, employee.CreateEmployeeInput{Name: "Asha", Level: employee.LevelSenior, Skills: []string{"Go"}})
	if err != nil {
		t.Fatalf("CreateEmployee error: %v", err)
	}
	ravi, err := employeeSvc.CreateEmployee(ctx, employee.CreateEmployeeInput{Name: "Ravi", Level: employee.LevelJunior})
	if err != nil {
		t.Fatalf("CreateEmployee error: %v", err)
	}

	projectStart := date(1, 1)
	atlas, err := projectSvc.CreateProject(ctx, project.CreateProjectInput{Name: "Atlas", Type: "internal", StartDate: &projectStart})
	if err != nil {
		t.Fatalf("CreateProject error: %v", err)
	}
	if atlas.Status != project.StatusCurrent {
		t.Fatalf("expected CURRENT status, got %s", atlas.Status)
	}

	start, end, utilisation := date(1, 1), date(1, 31), 60
	created, err := assignmentSvc.CreateAssignment(ctx, assignment.CreateAssignmentInput{
		EmployeeID:  asha.ID,
		ProjectID:   atlas.ID,
		StartDate:   &start,
		EndDate:     &end,
		Utilisation: &utilisation,
	})
	if err != nil {
		t.Fatalf("CreateAssignment error: %v", err)
	}
	if created.Employee == nil || created.Employee.Name != "Asha" || created.Project == nil || created.Project.Name != "Atlas" {
		t.Fatalf("expected snapshots to be attached: %+v", created)
	}

	// 既存と同じ期間を含む一括作成は全件ロールバックされる
	_, err = assignmentSvc.CreateAssignmentsBulk(ctx, assignment.CreateAssignmentsBulkInput{
		EmployeeIDs: []string{ravi.ID, asha.ID},
		ProjectID:   atlas.ID,
		StartDate:   &start,
		EndDate:     &end,
		Utilisation: &utilisation,
	})
	if !errors.Is(err, assignment.ErrAssignmentAlreadyExists) {
		t.Fatalf("expected ErrAssignmentAlreadyExists, got %v", err)
	}
	raviAssignments, err := assignmentSvc.ListAssignments(ctx, assignment.ListAssignmentsInput{EmployeeID: ravi.ID})
	if err != nil {
		t.Fatalf("ListAssignments error: %v", err)
	}
	if len(raviAssignments) != 0 {
		t.Fatalf("expected bulk create to roll back, got %d assignments", len(raviAssignments))
	}

	weekStart := date(1, 12)
	split, err := assignmentSvc.DeleteAssignmentWeek(ctx, assignment.DeleteAssignmentWeekInput{ID: created.ID, WeekStart: &weekStart})
	if err != nil {
		t.Fatalf("DeleteAssignmentWeek error: %v", err)
	}
	if split.Kind != assignment.WeekRemovalSplit {
		t.Fatalf("expected split, got %s", split.Kind)
	}
	if !split.Updated.EndDate.Equal(date(1, 11)) || !split.Created.StartDate.Equal(date(1, 19)) {
		t.Fatalf("unexpected split halves: %+v / %+v", split.Updated, split.Created)
	}

	ashaAssignments, err := assignmentSvc.ListAssignments(ctx, assignment.ListAssignmentsInput{EmployeeID: asha.ID})
	if err != nil {
		t.Fatalf("ListAssignments error: %v", err)
	}
	if len(ashaAssignments) != 2 {
		t.Fatalf("expected 2 assignments after split, got %d", len(ashaAssignments))
	}

	windowStart, windowEnd := date(1, 12), date(1, 18)
	available, err := reportSvc.FindAvailableEmployees(ctx, report.FindAvailableEmployeesInput{StartDate: &windowStart, EndDate: &windowEnd})
	if err != nil {
		t.Fatalf("FindAvailableEmployees error: %v", err)
	}
	if len(available) != 2 {
		t.Fatalf("expected both employees to be available during the removed week, got %d", len(available))
	}

	if err := employeeSvc.DeleteEmployee(ctx, employee.DeleteEmployeeInput{ID: asha.ID}); err != nil {
		t.Fatalf("DeleteEmployee error: %v", err)
	}
	if _, err := assignmentRepo.FindByID(ctx, split.Created.ID); !errors.Is(err, assignment.ErrAssignmentNotFound) {
		t.Fatalf("expected assignments to cascade, got %v", err)
	}
}

func date(month time.Month, day int) time.Time {
	return time.Date(2025, month, day, 0, 0, 0, 0, time.UTC)
}

func resetMigrations(dsn, dir string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func applySeeds(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, f := range files {
		body, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, string(body)); err != nil {
			return err
		}
	}
	return nil
}

func configPathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "../assets/local.yaml"
}

type stubClock struct {
	now time.Time
}

func (s stubClock) Now() time.Time {
	return s.now
}
