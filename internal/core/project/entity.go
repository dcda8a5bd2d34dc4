package project

import "time"

// Status はプロジェクトの進行状態を表します。開始日・終了日と現在時刻から導出し、書き込み時に保存します。
type Status string

const (
	StatusUpcoming  Status = "UPCOMING"
	StatusCurrent   Status = "CURRENT"
	StatusCompleted Status = "COMPLETED"
)

// Satisfaction は顧客満足度の段階です。
type Satisfaction string

const (
	SatisfactionVeryDissatisfied Satisfaction = "VERY_DISSATISFIED"
	SatisfactionDissatisfied     Satisfaction = "DISSATISFIED"
	SatisfactionNeutral          Satisfaction = "NEUTRAL"
	SatisfactionSatisfied        Satisfaction = "SATISFIED"
	SatisfactionVerySatisfied    Satisfaction = "VERY_SATISFIED"
)

// Seniority は要員要件で求めるシニアリティです。
type Seniority string

const (
	SeniorityIntern Seniority = "INTERN"
	SeniorityJunior Seniority = "JUNIOR"
	SenioritySenior Seniority = "SENIOR"
)

// Project はプロジェクトエンティティです。EndDate が nil の場合は終了日未定です。
type Project struct {
	ID                 string
	Name               string
	Type               string
	Status             Status
	StartDate          time.Time
	EndDate            *time.Time
	Tools              []string
	ClientSatisfaction Satisfaction
	Requirements       []Requirement
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Requirement はプロジェクトの要員要件です。実際の割り当て作成時には検証に使用しません。
type Requirement struct {
	ID        string
	ProjectID string
	RoleID    string
	Seniority Seniority
	StartDate time.Time
	EndDate   time.Time
	Quantity  int
}

// StatusAt は now 時点のプロジェクト状態を返します。
func StatusAt(start time.Time, end *time.Time, now time.Time) Status {
	switch {
	case now.Before(start):
		return StatusUpcoming
	case end != nil && now.After(*end):
		return StatusCompleted
	default:
		return StatusCurrent
	}
}
