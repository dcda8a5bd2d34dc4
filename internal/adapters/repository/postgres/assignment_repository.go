package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ratishjain12/devx-rms/internal/core/assignment"
	pgdb "github.com/ratishjain12/devx-rms/internal/platform/db/postgres"
)

const (
	assignmentEmployeeFKey     = "assignments_employee_id_fkey"
	assignmentProjectFKey      = "assignments_project_id_fkey"
	assignmentProjectionSelect = `
        SELECT a.id, a.employee_id, a.project_id, a.start_date, a.end_date, a.utilisation, a.created_at, a.updated_at,
               e.id, e.name, e.level,
               p.id, p.name, p.status
          FROM %s a
          JOIN employees e ON e.id = a.employee_id
          JOIN projects p ON p.id = a.project_id`
)

// AssignmentRepository は PostgreSQL を利用した割り当て永続化の実装です。
type AssignmentRepository struct {
	pool pgdb.Queryer
}

// NewAssignmentRepository は AssignmentRepository を生成します。
func NewAssignmentRepository(pool pgdb.Queryer) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// Create は割り当てを新規作成し、社員・プロジェクトのスナップショット付きで返します。
func (r *AssignmentRepository) Create(ctx context.Context, a *assignment.Assignment) (*assignment.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH inserted AS (
            INSERT INTO assignments (employee_id, project_id, start_date, end_date, utilisation, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            RETURNING id, employee_id, project_id, start_date, end_date, utilisation, created_at, updated_at
        )`+projection("inserted"),
		a.EmployeeID,
		a.ProjectID,
		a.StartDate,
		a.EndDate,
		a.Utilisation,
		a.CreatedAt,
		a.UpdatedAt,
	)

	created, err := scanAssignment(row)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return created, nil
}

// CreateMany は複数の割り当てを順に作成します。
// 途中で失敗した場合はエラーを返すため、呼び出し側のトランザクションで全件ロールバックされます。
func (r *AssignmentRepository) CreateMany(ctx context.Context, assignments []*assignment.Assignment) ([]*assignment.Assignment, error) {
	created := make([]*assignment.Assignment, 0, len(assignments))
	for _, a := range assignments {
		result, err := r.Create(ctx, a)
		if err != nil {
			return nil, err
		}
		created = append(created, result)
	}
	return created, nil
}

// Update は割り当てを更新します。
func (r *AssignmentRepository) Update(ctx context.Context, a *assignment.Assignment) (*assignment.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH updated AS (
            UPDATE assignments
               SET employee_id = $1,
                   project_id = $2,
                   start_date = $3,
                   end_date = $4,
                   utilisation = $5,
                   updated_at = $6
             WHERE id = $7
            RETURNING id, employee_id, project_id, start_date, end_date, utilisation, created_at, updated_at
        )`+projection("updated"),
		a.EmployeeID,
		a.ProjectID,
		a.StartDate,
		a.EndDate,
		a.Utilisation,
		a.UpdatedAt,
		a.ID,
	)

	updated, err := scanAssignment(row)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return updated, nil
}

// Delete は割り当てを削除します。
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return translateAssignmentPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return assignment.ErrAssignmentNotFound
	}
	return nil
}

// FindByID は ID で割り当てを取得します。
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*assignment.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, projection("assignments")+`
         WHERE a.id = $1
         LIMIT 1
    `, id)

	found, err := scanAssignment(row)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return found, nil
}

// List は割り当てを開始日の降順、同日の場合は ID の降順で取得します。
func (r *AssignmentRepository) List(ctx context.Context, filter assignment.ListAssignmentsFilter) ([]*assignment.Assignment, error) {
	args := make([]any, 0, 2)
	conditions := make([]string, 0, 2)

	if employeeID := strings.TrimSpace(filter.EmployeeID); employeeID != "" {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "a.employee_id = "+placeholder)
		args = append(args, employeeID)
	}

	if projectID := strings.TrimSpace(filter.ProjectID); projectID != "" {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "a.project_id = "+placeholder)
		args = append(args, projectID)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := projection("assignments") + whereClause + `
         ORDER BY a.start_date DESC, a.id DESC
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	defer rows.Close()

	assignments := make([]*assignment.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, translateAssignmentPgError(err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, translateAssignmentPgError(err)
	}

	return assignments, nil
}

func projection(source string) string {
	return strings.Replace(assignmentProjectionSelect, "%s", source, 1)
}

func scanAssignment(row pgx.Row) (*assignment.Assignment, error) {
	var (
		id           string
		employeeID   string
		projectID    string
		startDate    time.Time
		endDate      time.Time
		utilisation  int
		createdAt    time.Time
		updatedAt    time.Time
		empJoinedID  string
		empName      string
		empLevel     string
		projJoinedID string
		projName     string
		projStatus   string
	)

	if err := row.Scan(
		&id,
		&employeeID,
		&projectID,
		&startDate,
		&endDate,
		&utilisation,
		&createdAt,
		&updatedAt,
		&empJoinedID,
		&empName,
		&empLevel,
		&projJoinedID,
		&projName,
		&projStatus,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, assignment.ErrAssignmentNotFound
		}
		return nil, err
	}

	return &assignment.Assignment{
		ID:          id,
		EmployeeID:  employeeID,
		ProjectID:   projectID,
		StartDate:   startDate.UTC(),
		EndDate:     endDate.UTC(),
		Utilisation: utilisation,
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   updatedAt.UTC(),
		Employee: &assignment.EmployeeSnapshot{
			ID:    empJoinedID,
			Name:  empName,
			Level: empLevel,
		},
		Project: &assignment.ProjectSnapshot{
			ID:     projJoinedID,
			Name:   projName,
			Status: projStatus,
		},
	}, nil
}

func translateAssignmentPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return assignment.ErrAssignmentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return assignment.ErrAssignmentAlreadyExists
		case foreignKeyViolationCode:
			switch pgErr.ConstraintName {
			case assignmentEmployeeFKey:
				return assignment.ErrEmployeeNotFound
			case assignmentProjectFKey:
				return assignment.ErrProjectNotFound
			default:
				return err
			}
		case checkViolationCode:
			return assignment.ErrInvalidDateRange
		case invalidTextRepCode:
			return assignment.ErrAssignmentNotFound
		}
	}

	return err
}
