package assignment

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は割り当ての作成・更新・削除と週単位の削除をまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は割り当てユースケースの公開インターフェースです。
type UseCase interface {
	CreateAssignment(ctx context.Context, in CreateAssignmentInput) (*Assignment, error)
	CreateAssignmentsBulk(ctx context.Context, in CreateAssignmentsBulkInput) ([]*Assignment, error)
	UpdateAssignment(ctx context.Context, in UpdateAssignmentInput) (*Assignment, error)
	DeleteAssignment(ctx context.Context, in DeleteAssignmentInput) error
	DeleteAssignmentWeek(ctx context.Context, in DeleteAssignmentWeekInput) (*DeleteAssignmentWeekResult, error)
	GetAssignment(ctx context.Context, in GetAssignmentInput) (*Assignment, error)
	ListAssignments(ctx context.Context, in ListAssignmentsInput) ([]*Assignment, error)
	PreviewWeeks(ctx context.Context, in PreviewWeeksInput) ([]*Assignment, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// CreateAssignmentInput は割り当て作成時の入力です。
type CreateAssignmentInput struct {
	EmployeeID  string
	ProjectID   string
	StartDate   *time.Time
	EndDate     *time.Time
	Utilisation *int
}

// CreateAssignmentsBulkInput は複数社員を同一プロジェクトへ一括で割り当てる際の入力です。
type CreateAssignmentsBulkInput struct {
	EmployeeIDs []string
	ProjectID   string
	StartDate   *time.Time
	EndDate     *time.Time
	Utilisation *int
}

// UpdateAssignmentInput は割り当て更新時の入力です。全項目を置き換えます。
type UpdateAssignmentInput struct {
	ID          string
	EmployeeID  string
	ProjectID   string
	StartDate   *time.Time
	EndDate     *time.Time
	Utilisation *int
}

// DeleteAssignmentInput は割り当て削除時の入力です。
type DeleteAssignmentInput struct {
	ID string
}

// DeleteAssignmentWeekInput は割り当てから 1 週間を取り除く際の入力です。
type DeleteAssignmentWeekInput struct {
	ID        string
	WeekStart *time.Time
}

// DeleteAssignmentWeekResult は週削除の結果です。
// Kind が WeekRemovalDelete の場合 Updated と Created は nil です。
type DeleteAssignmentWeekResult struct {
	Kind    WeekRemovalKind
	Updated *Assignment
	Created *Assignment
}

// GetAssignmentInput は割り当て取得時の入力です。
type GetAssignmentInput struct {
	ID string
}

// ListAssignmentsInput は一覧取得時の入力です。
type ListAssignmentsInput struct {
	EmployeeID string
	ProjectID  string
}

// PreviewWeeksInput は週分割プレビューの入力です。
type PreviewWeeksInput struct {
	ID string
}

// CreateAssignment は割り当てを 1 件作成します。
func (s *Service) CreateAssignment(ctx context.Context, in CreateAssignmentInput) (*Assignment, error) {
	employeeID, err := normalizeRequired(in.EmployeeID, ErrInvalidEmployeeID)
	if err != nil {
		return nil, err
	}

	draft, err := s.newDraft(employeeID, in.ProjectID, in.StartDate, in.EndDate, in.Utilisation)
	if err != nil {
		return nil, err
	}

	var created *Assignment
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Create(txCtx, draft)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// CreateAssignmentsBulk は社員ごとに 1 件ずつ割り当てを作成します。
// 1 件でも失敗した場合はすべてロールバックされます。
func (s *Service) CreateAssignmentsBulk(ctx context.Context, in CreateAssignmentsBulkInput) ([]*Assignment, error) {
	employeeIDs := make([]string, 0, len(in.EmployeeIDs))
	for _, raw := range in.EmployeeIDs {
		if id := strings.TrimSpace(raw); id != "" {
			employeeIDs = append(employeeIDs, id)
		}
	}
	if len(employeeIDs) == 0 {
		return nil, ErrEmployeeIDsRequired
	}

	drafts := make([]*Assignment, 0, len(employeeIDs))
	for _, employeeID := range employeeIDs {
		draft, err := s.newDraft(employeeID, in.ProjectID, in.StartDate, in.EndDate, in.Utilisation)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}

	var created []*Assignment
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.CreateMany(txCtx, drafts)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateAssignment は割り当ての社員・プロジェクト・期間・稼働率を置き換えます。
// 重複の検証はストアの一意制約のみに委ねます。
func (s *Service) UpdateAssignment(ctx context.Context, in UpdateAssignmentInput) (*Assignment, error) {
	id, err := normalizeRequired(in.ID, ErrInvalidID)
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}

	employeeID, err := normalizeRequired(in.EmployeeID, ErrInvalidEmployeeID)
	if err != nil {
		return nil, err
	}

	projectID, err := normalizeRequired(in.ProjectID, ErrInvalidProjectID)
	if err != nil {
		return nil, err
	}

	start, end, err := normalizeRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	if in.Utilisation == nil {
		return nil, ErrInvalidUtilisation
	}

	var updated *Assignment
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		existing.EmployeeID = employeeID
		existing.ProjectID = projectID
		existing.StartDate = start
		existing.EndDate = end
		existing.Utilisation = *in.Utilisation
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteAssignment は割り当てを削除します。
func (s *Service) DeleteAssignment(ctx context.Context, in DeleteAssignmentInput) error {
	id, err := normalizeRequired(in.ID, ErrInvalidID)
	if err != nil {
		return fmt.Errorf("id: %w", err)
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}

// DeleteAssignmentWeek は割り当て期間から指定週を取り除き、削除・縮小・分割のいずれかを適用します。
// 分割の場合も前半の更新と後半の作成は同一トランザクションで行います。
func (s *Service) DeleteAssignmentWeek(ctx context.Context, in DeleteAssignmentWeekInput) (*DeleteAssignmentWeekResult, error) {
	id, err := normalizeRequired(in.ID, ErrInvalidID)
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}
	if in.WeekStart == nil || in.WeekStart.IsZero() {
		return nil, ErrWeekStartRequired
	}

	var result *DeleteAssignmentWeekResult
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		plan, err := PlanWeekRemoval(existing, *in.WeekStart)
		if err != nil {
			return err
		}

		applied, err := s.applyWeekRemoval(txCtx, plan)
		if err != nil {
			return err
		}
		result = applied
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) applyWeekRemoval(ctx context.Context, plan *WeekRemoval) (*DeleteAssignmentWeekResult, error) {
	result := &DeleteAssignmentWeekResult{Kind: plan.Kind}

	if plan.Kind == WeekRemovalDelete {
		if err := s.repo.Delete(ctx, plan.DeleteID); err != nil {
			return nil, err
		}
		return result, nil
	}

	now := s.clock.Now()

	if plan.Update != nil {
		plan.Update.UpdatedAt = now
		updated, err := s.repo.Update(ctx, plan.Update)
		if err != nil {
			return nil, err
		}
		result.Updated = updated
	}

	if plan.Create != nil {
		plan.Create.CreatedAt = now
		plan.Create.UpdatedAt = now
		created, err := s.repo.Create(ctx, plan.Create)
		if err != nil {
			return nil, err
		}
		result.Created = created
	}

	return result, nil
}

// GetAssignment は割り当てを取得します。
func (s *Service) GetAssignment(ctx context.Context, in GetAssignmentInput) (*Assignment, error) {
	id, err := normalizeRequired(in.ID, ErrInvalidID)
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}

	var found *Assignment
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		found = result
		return nil
	}); err != nil {
		return nil, err
	}

	return found, nil
}

// ListAssignments は割り当てを開始日の降順で返します。
func (s *Service) ListAssignments(ctx context.Context, in ListAssignmentsInput) ([]*Assignment, error) {
	var assignments []*Assignment
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.List(txCtx, ListAssignmentsFilter{
			EmployeeID: strings.TrimSpace(in.EmployeeID),
			ProjectID:  strings.TrimSpace(in.ProjectID),
		})
		if err != nil {
			return err
		}
		assignments = result
		return nil
	}); err != nil {
		return nil, err
	}

	return assignments, nil
}

// PreviewWeeks は保存済みの割り当てを週単位に分割した結果を返します。永続化は行いません。
func (s *Service) PreviewWeeks(ctx context.Context, in PreviewWeeksInput) ([]*Assignment, error) {
	found, err := s.GetAssignment(ctx, GetAssignmentInput{ID: in.ID})
	if err != nil {
		return nil, err
	}
	return SplitIntoWeeks(found), nil
}

func (s *Service) newDraft(employeeID, rawProjectID string, startDate, endDate *time.Time, utilisation *int) (*Assignment, error) {
	projectID, err := normalizeRequired(rawProjectID, ErrInvalidProjectID)
	if err != nil {
		return nil, err
	}

	start, end, err := normalizeRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	if utilisation == nil {
		return nil, ErrInvalidUtilisation
	}

	now := s.clock.Now()
	return &Assignment{
		EmployeeID:  employeeID,
		ProjectID:   projectID,
		StartDate:   start,
		EndDate:     end,
		Utilisation: *utilisation,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func normalizeRequired(raw string, invalid error) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", invalid
	}
	return trimmed, nil
}

func normalizeRange(start, end *time.Time) (time.Time, time.Time, error) {
	if start == nil || end == nil || start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	s, e := start.UTC(), end.UTC()
	if e.Before(s) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return s, e, nil
}
