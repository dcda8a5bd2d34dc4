package assignment

import "context"

// Repository は割り当て永続化の抽象です。
// (employee_id, project_id, start_date, end_date) の一意制約違反は ErrAssignmentAlreadyExists を返します。
type Repository interface {
	Create(ctx context.Context, assignment *Assignment) (*Assignment, error)
	CreateMany(ctx context.Context, assignments []*Assignment) ([]*Assignment, error)
	Update(ctx context.Context, assignment *Assignment) (*Assignment, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Assignment, error)
	// List は開始日の降順 (同日の場合は ID の降順) で返します。
	List(ctx context.Context, filter ListAssignmentsFilter) ([]*Assignment, error)
}

// ListAssignmentsFilter は一覧取得用フィルタです。空文字列の条件は無視されます。
type ListAssignmentsFilter struct {
	EmployeeID string
	ProjectID  string
}
