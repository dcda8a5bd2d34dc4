package project

import "context"

// Repository はプロジェクトの永続化を行うインターフェースです。
// Delete では要員要件と割り当てもストア側で連鎖削除されます。
type Repository interface {
	Create(ctx context.Context, project *Project) (*Project, error)
	Update(ctx context.Context, project *Project) (*Project, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context, filter ListProjectsFilter) ([]*Project, string, error)
	ReplaceRequirements(ctx context.Context, projectID string, requirements []Requirement) ([]Requirement, error)
}

// ListProjectsFilter は一覧取得時の検索条件を表します。
type ListProjectsFilter struct {
	Limit  int
	Offset int
	Status *Status
}
