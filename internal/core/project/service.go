package project

import (
	"context"
	"fmt"
	"strconv"
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

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

// Service はプロジェクトに関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase はプロジェクトユースケースの公開インターフェースです。
type UseCase interface {
	CreateProject(ctx context.Context, in CreateProjectInput) (*Project, error)
	GetProject(ctx context.Context, in GetProjectInput) (*Project, error)
	ListProjects(ctx context.Context, in ListProjectsInput) (*ListProjectsResult, error)
	UpdateProject(ctx context.Context, in UpdateProjectInput) (*Project, error)
	DeleteProject(ctx context.Context, in DeleteProjectInput) error
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

// RequirementInput は要員要件の入力です。
type RequirementInput struct {
	RoleID    string
	Seniority Seniority
	StartDate *time.Time
	EndDate   *time.Time
	Quantity  int
}

// CreateProjectInput はプロジェクト作成時の入力です。
type CreateProjectInput struct {
	Name               string
	Type               string
	StartDate          *time.Time
	EndDate            *time.Time
	Tools              []string
	ClientSatisfaction *Satisfaction
	Requirements       []RequirementInput
}

// UpdateProjectInput はプロジェクト更新時の入力です。
// Requirements が nil でない場合、要員要件を丸ごと置き換えます。
type UpdateProjectInput struct {
	ID                 string
	Name               *string
	Type               *string
	StartDate          *time.Time
	EndDate            *time.Time
	EndDateSet         bool
	Tools              *[]string
	ClientSatisfaction *Satisfaction
	Requirements       *[]RequirementInput
}

// DeleteProjectInput はプロジェクト削除時の入力です。
type DeleteProjectInput struct {
	ID string
}

// GetProjectInput はプロジェクト取得時の入力です。
type GetProjectInput struct {
	ID string
}

// ListProjectsInput は一覧取得時の入力です。
type ListProjectsInput struct {
	PageSize  int
	PageToken string
	Status    *Status
}

// ListProjectsResult は一覧取得結果を表します。
type ListProjectsResult struct {
	Projects      []*Project
	NextPageToken string
}

// CreateProject は新しいプロジェクトを要員要件とともに作成します。
func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput) (*Project, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	if in.StartDate == nil || in.StartDate.IsZero() {
		return nil, ErrInvalidDateRange
	}
	start := in.StartDate.UTC()
	end := cloneTimeUTC(in.EndDate)
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}

	satisfaction := SatisfactionNeutral
	if in.ClientSatisfaction != nil {
		if !isValidSatisfaction(*in.ClientSatisfaction) {
			return nil, ErrInvalidSatisfaction
		}
		satisfaction = *in.ClientSatisfaction
	}

	requirements, err := normalizeRequirements(in.Requirements)
	if err != nil {
		return nil, err
	}

	var created *Project
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Project{
			Name:               name,
			Type:               strings.TrimSpace(in.Type),
			Status:             StatusAt(start, end, now),
			StartDate:          start,
			EndDate:            end,
			Tools:              normalizeTools(in.Tools),
			ClientSatisfaction: satisfaction,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
		if err != nil {
			return err
		}

		saved, err := s.repo.ReplaceRequirements(txCtx, result.ID, requirements)
		if err != nil {
			return err
		}
		result.Requirements = saved

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateProject はプロジェクト情報を更新し、状態を再計算します。
func (s *Service) UpdateProject(ctx context.Context, in UpdateProjectInput) (*Project, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var requirements []Requirement
	if in.Requirements != nil {
		normalized, err := normalizeRequirements(*in.Requirements)
		if err != nil {
			return nil, err
		}
		requirements = normalized
	}

	var updated *Project
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, strings.TrimSpace(in.ID))
		if err != nil {
			return err
		}

		if in.Name != nil {
			name, err := normalizeName(*in.Name)
			if err != nil {
				return err
			}
			existing.Name = name
		}

		if in.Type != nil {
			existing.Type = strings.TrimSpace(*in.Type)
		}

		if in.StartDate != nil {
			if in.StartDate.IsZero() {
				return ErrInvalidDateRange
			}
			existing.StartDate = in.StartDate.UTC()
		}

		if in.EndDateSet {
			existing.EndDate = cloneTimeUTC(in.EndDate)
		}

		if err := validateDateRange(existing.StartDate, existing.EndDate); err != nil {
			return err
		}

		if in.Tools != nil {
			existing.Tools = normalizeTools(*in.Tools)
		}

		if in.ClientSatisfaction != nil {
			if !isValidSatisfaction(*in.ClientSatisfaction) {
				return ErrInvalidSatisfaction
			}
			existing.ClientSatisfaction = *in.ClientSatisfaction
		}

		now := s.clock.Now()
		existing.Status = StatusAt(existing.StartDate, existing.EndDate, now)
		existing.UpdatedAt = now

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		if in.Requirements != nil {
			saved, err := s.repo.ReplaceRequirements(txCtx, result.ID, requirements)
			if err != nil {
				return err
			}
			result.Requirements = saved
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteProject はプロジェクトを削除します。
func (s *Service) DeleteProject(ctx context.Context, in DeleteProjectInput) error {
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, strings.TrimSpace(in.ID))
	})
}

// GetProject はプロジェクトを要員要件とともに取得します。
func (s *Service) GetProject(ctx context.Context, in GetProjectInput) (*Project, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Project
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, strings.TrimSpace(in.ID))
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListProjects はプロジェクトの一覧を取得します。
// 保存済みの状態で絞り込むため、書き込みがない間に日付が進むと状態が古くなる場合があります。
func (s *Service) ListProjects(ctx context.Context, in ListProjectsInput) (*ListProjectsResult, error) {
	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	var statusPtr *Status
	if in.Status != nil {
		if !isValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status := *in.Status
		statusPtr = &status
	}

	var (
		projects  []*Project
		nextToken string
	)

	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, token, err := s.repo.List(txCtx, ListProjectsFilter{
			Limit:  limit,
			Offset: offset,
			Status: statusPtr,
		})
		if err != nil {
			return err
		}
		projects = result
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &ListProjectsResult{Projects: projects, NextPageToken: nextToken}, nil
}

func normalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func normalizeTools(raw []string) []string {
	tools := make([]string, 0, len(raw))
	for _, tool := range raw {
		if trimmed := strings.TrimSpace(tool); trimmed != "" {
			tools = append(tools, trimmed)
		}
	}
	return tools
}

func normalizeRequirements(in []RequirementInput) ([]Requirement, error) {
	requirements := make([]Requirement, 0, len(in))
	for i, r := range in {
		roleID := strings.TrimSpace(r.RoleID)
		if roleID == "" {
			return nil, fmt.Errorf("requirements[%d]: role id: %w", i, ErrInvalidRequirement)
		}
		if !isValidSeniority(r.Seniority) {
			return nil, fmt.Errorf("requirements[%d]: seniority: %w", i, ErrInvalidRequirement)
		}
		if r.StartDate == nil || r.EndDate == nil || r.EndDate.Before(*r.StartDate) {
			return nil, fmt.Errorf("requirements[%d]: period: %w", i, ErrInvalidRequirement)
		}
		if r.Quantity < 1 {
			return nil, fmt.Errorf("requirements[%d]: quantity: %w", i, ErrInvalidRequirement)
		}
		requirements = append(requirements, Requirement{
			RoleID:    roleID,
			Seniority: r.Seniority,
			StartDate: r.StartDate.UTC(),
			EndDate:   r.EndDate.UTC(),
			Quantity:  r.Quantity,
		})
	}
	return requirements, nil
}

func validateDateRange(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return ErrInvalidDateRange
	}
	return nil
}

func cloneTimeUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	clone := t.UTC()
	return &clone
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusUpcoming, StatusCurrent, StatusCompleted:
		return true
	default:
		return false
	}
}

func isValidSatisfaction(value Satisfaction) bool {
	switch value {
	case SatisfactionVeryDissatisfied, SatisfactionDissatisfied, SatisfactionNeutral, SatisfactionSatisfied, SatisfactionVerySatisfied:
		return true
	default:
		return false
	}
}

func isValidSeniority(value Seniority) bool {
	switch value {
	case SeniorityIntern, SeniorityJunior, SenioritySenior:
		return true
	default:
		return false
	}
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return defaultListPageSize, nil
	}
	if pageSize > maxListPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
