package report

import (
	"context"
	"math"
	"time"

	"github.com/ratishjain12/devx-rms/internal/core/assignment"
	"github.com/ratishjain12/devx-rms/internal/core/employee"
)

// AssignmentReader は集計対象の割り当てを読み出します。
type AssignmentReader interface {
	List(ctx context.Context, filter assignment.ListAssignmentsFilter) ([]*assignment.Assignment, error)
}

// EmployeeReader は集計対象の全社員を読み出します。
type EmployeeReader interface {
	ListAll(ctx context.Context) ([]*employee.Employee, error)
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は稼働率と重複の集計をまとめます。呼び出しごとにスナップショットを 1 回だけ読み出します。
type Service struct {
	assignments      AssignmentReader
	employees        EmployeeReader
	tx               TransactionManager
	defaultThreshold float64
}

// UseCase はレポートユースケースの公開インターフェースです。
type UseCase interface {
	FindAvailableEmployees(ctx context.Context, in FindAvailableEmployeesInput) ([]EmployeeAvailability, error)
	FindOverlappingAssignments(ctx context.Context) (*OverlapReport, error)
	FindOverworkedEmployees(ctx context.Context) ([]OverworkedEmployee, error)
}

// NewService は Service を生成します。defaultThreshold が有効な閾値でない場合は DefaultAvailabilityThreshold を使用します。
func NewService(assignments AssignmentReader, employees EmployeeReader, tx TransactionManager, defaultThreshold float64) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if !validThreshold(defaultThreshold) {
		defaultThreshold = DefaultAvailabilityThreshold
	}
	return &Service{assignments: assignments, employees: employees, tx: tx, defaultThreshold: defaultThreshold}
}

// FindAvailableEmployeesInput は空き状況検索の入力です。
type FindAvailableEmployeesInput struct {
	StartDate            *time.Time
	EndDate              *time.Time
	UtilizationThreshold *float64
}

// FindAvailableEmployees はウィンドウ内で空き稼働率が閾値を満たす社員を返します。
func (s *Service) FindAvailableEmployees(ctx context.Context, in FindAvailableEmployeesInput) ([]EmployeeAvailability, error) {
	if in.StartDate == nil || in.EndDate == nil || in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, ErrInvalidWindow
	}
	windowStart, windowEnd := in.StartDate.UTC(), in.EndDate.UTC()
	if windowEnd.Before(windowStart) {
		return nil, ErrInvalidWindow
	}

	threshold := s.defaultThreshold
	if in.UtilizationThreshold != nil {
		threshold = *in.UtilizationThreshold
	}
	if !validThreshold(threshold) {
		return nil, ErrInvalidThreshold
	}

	var result []EmployeeAvailability
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		employees, err := s.employees.ListAll(txCtx)
		if err != nil {
			return err
		}
		assignments, err := s.assignments.List(txCtx, assignment.ListAssignmentsFilter{})
		if err != nil {
			return err
		}
		result = AvailableEmployees(employees, assignments, windowStart, windowEnd, threshold)
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// FindOverlappingAssignments は重複する割り当てを持つ社員の上位 5 名と総数を返します。
func (s *Service) FindOverlappingAssignments(ctx context.Context) (*OverlapReport, error) {
	var report OverlapReport
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		assignments, err := s.assignments.List(txCtx, assignment.ListAssignmentsFilter{})
		if err != nil {
			return err
		}
		report = DetectOverlaps(assignments)
		return nil
	}); err != nil {
		return nil, err
	}

	return &report, nil
}

// FindOverworkedEmployees は稼働率合計が 100 を超える社員を返します。
func (s *Service) FindOverworkedEmployees(ctx context.Context) ([]OverworkedEmployee, error) {
	var result []OverworkedEmployee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		assignments, err := s.assignments.List(txCtx, assignment.ListAssignmentsFilter{})
		if err != nil {
			return err
		}
		result = OverworkedEmployees(assignments)
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// validThreshold は閾値が 0 以上の有限値であることを確認します。
// 100 を超える閾値は空き稼働率が負の社員、つまり過剰に割り当てられた社員も対象に含めます。
func validThreshold(threshold float64) bool {
	return !math.IsNaN(threshold) && !math.IsInf(threshold, 0) && threshold >= 0
}
