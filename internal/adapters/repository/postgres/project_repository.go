package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ratishjain12/devx-rms/internal/core/project"
	pgdb "github.com/ratishjain12/devx-rms/internal/platform/db/postgres"
)

const (
	projectColumns          = `id, name, type, status, start_date, end_date, tools, client_satisfaction, created_at, updated_at`
	requirementColumns      = `id, project_id, role_id, seniority, start_date, end_date, quantity`
	requirementRoleFKey     = "project_requirements_role_id_fkey"
	requirementsOrderClause = ` ORDER BY start_date ASC, id ASC`
)

// ProjectRepository は PostgreSQL を利用したプロジェクト永続化の実装です。
type ProjectRepository struct {
	pool pgdb.Queryer
}

// NewProjectRepository は ProjectRepository を生成します。
func NewProjectRepository(pool pgdb.Queryer) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

// Create はプロジェクトを新規作成します。要員要件は ReplaceRequirements で別途保存します。
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO projects (name, type, status, start_date, end_date, tools, client_satisfaction, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+projectColumns,
		p.Name,
		p.Type,
		string(p.Status),
		p.StartDate,
		nullableTime(p.EndDate),
		nonNilStrings(p.Tools),
		string(p.ClientSatisfaction),
		p.CreatedAt,
		p.UpdatedAt,
	)

	created, err := scanProject(row)
	if err != nil {
		return nil, translateProjectPgError(err)
	}
	return created, nil
}

// Update はプロジェクトを更新し、現在の要員要件を付与して返します。
func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) (*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE projects
           SET name = $1,
               type = $2,
               status = $3,
               start_date = $4,
               end_date = $5,
               tools = $6,
               client_satisfaction = $7,
               updated_at = $8
         WHERE id = $9
        RETURNING `+projectColumns,
		p.Name,
		p.Type,
		string(p.Status),
		p.StartDate,
		nullableTime(p.EndDate),
		nonNilStrings(p.Tools),
		string(p.ClientSatisfaction),
		p.UpdatedAt,
		p.ID,
	)

	updated, err := scanProject(row)
	if err != nil {
		return nil, translateProjectPgError(err)
	}

	requirements, err := r.listRequirements(ctx, updated.ID)
	if err != nil {
		return nil, err
	}
	updated.Requirements = requirements
	return updated, nil
}

// Delete はプロジェクトを削除します。要員要件と割り当ては外部キーにより連鎖削除されます。
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return translateProjectPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}

// FindByID は ID でプロジェクトを要員要件付きで取得します。
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+projectColumns+`
          FROM projects
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanProject(row)
	if err != nil {
		return nil, translateProjectPgError(err)
	}

	requirements, err := r.listRequirements(ctx, found.ID)
	if err != nil {
		return nil, err
	}
	found.Requirements = requirements
	return found, nil
}

// List はプロジェクト一覧を取得します。要員要件は含みません。
func (r *ProjectRepository) List(ctx context.Context, filter project.ListProjectsFilter) ([]*project.Project, string, error) {
	if filter.Limit <= 0 {
		return nil, "", project.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", project.ErrInvalidPageToken
	}

	limitWithBuffer := filter.Limit + 1

	args := make([]any, 0, 3)
	whereClause := ""
	if filter.Status != nil {
		whereClause = " WHERE status = $" + strconv.Itoa(len(args)+1)
		args = append(args, string(*filter.Status))
	}

	limitPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, limitWithBuffer)
	offsetPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, filter.Offset)

	query := `
        SELECT ` + projectColumns + `
          FROM projects` + whereClause + `
         ORDER BY start_date DESC, id DESC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder + `
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateProjectPgError(err)
	}
	defer rows.Close()

	projects := make([]*project.Project, 0, filter.Limit)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, "", translateProjectPgError(err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, "", translateProjectPgError(err)
	}

	var nextToken string
	if len(projects) == limitWithBuffer {
		projects = projects[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}

	return projects, nextToken, nil
}

// ReplaceRequirements は既存の要員要件を削除し、渡された要件で置き換えます。
// 呼び出し側のトランザクション内で実行することを前提とします。
func (r *ProjectRepository) ReplaceRequirements(ctx context.Context, projectID string, requirements []project.Requirement) ([]project.Requirement, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	if _, err := exec.Exec(ctx, `DELETE FROM project_requirements WHERE project_id = $1`, projectID); err != nil {
		return nil, translateProjectPgError(err)
	}

	saved := make([]project.Requirement, 0, len(requirements))
	for _, req := range requirements {
		row := exec.QueryRow(ctx, `
            INSERT INTO project_requirements (project_id, role_id, seniority, start_date, end_date, quantity)
            VALUES ($1, $2, $3, $4, $5, $6)
            RETURNING `+requirementColumns,
			projectID,
			req.RoleID,
			string(req.Seniority),
			req.StartDate,
			req.EndDate,
			req.Quantity,
		)

		created, err := scanRequirement(row)
		if err != nil {
			return nil, translateProjectPgError(err)
		}
		saved = append(saved, *created)
	}

	return saved, nil
}

func (r *ProjectRepository) listRequirements(ctx context.Context, projectID string) ([]project.Requirement, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+requirementColumns+`
          FROM project_requirements
         WHERE project_id = $1`+requirementsOrderClause, projectID)
	if err != nil {
		return nil, translateProjectPgError(err)
	}
	defer rows.Close()

	requirements := make([]project.Requirement, 0)
	for rows.Next() {
		req, err := scanRequirement(rows)
		if err != nil {
			return nil, translateProjectPgError(err)
		}
		requirements = append(requirements, *req)
	}

	if err := rows.Err(); err != nil {
		return nil, translateProjectPgError(err)
	}

	return requirements, nil
}

func scanProject(row pgx.Row) (*project.Project, error) {
	var (
		id           string
		name         string
		projectType  string
		status       string
		startDate    time.Time
		endDate      sql.NullTime
		tools        []string
		satisfaction string
		createdAt    time.Time
		updatedAt    time.Time
	)

	if err := row.Scan(
		&id,
		&name,
		&projectType,
		&status,
		&startDate,
		&endDate,
		&tools,
		&satisfaction,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, project.ErrProjectNotFound
		}
		return nil, err
	}

	var endPtr *time.Time
	if endDate.Valid {
		t := endDate.Time.UTC()
		endPtr = &t
	}

	return &project.Project{
		ID:                 id,
		Name:               name,
		Type:               projectType,
		Status:             project.Status(status),
		StartDate:          startDate.UTC(),
		EndDate:            endPtr,
		Tools:              nonNilStrings(tools),
		ClientSatisfaction: project.Satisfaction(satisfaction),
		CreatedAt:          createdAt.UTC(),
		UpdatedAt:          updatedAt.UTC(),
	}, nil
}

func scanRequirement(row pgx.Row) (*project.Requirement, error) {
	var (
		req       project.Requirement
		seniority string
	)

	if err := row.Scan(
		&req.ID,
		&req.ProjectID,
		&req.RoleID,
		&seniority,
		&req.StartDate,
		&req.EndDate,
		&req.Quantity,
	); err != nil {
		return nil, err
	}

	req.Seniority = project.Seniority(seniority)
	req.StartDate = req.StartDate.UTC()
	req.EndDate = req.EndDate.UTC()
	return &req, nil
}

func translateProjectPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return project.ErrProjectNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolationCode:
			if pgErr.ConstraintName == requirementRoleFKey {
				return project.ErrRoleNotFound
			}
			return project.ErrProjectNotFound
		case checkViolationCode:
			if strings.HasPrefix(pgErr.ConstraintName, "project_requirements_") {
				return project.ErrInvalidRequirement
			}
			return project.ErrInvalidDateRange
		case invalidTextRepCode:
			return project.ErrProjectNotFound
		}
	}

	return err
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC()
}
