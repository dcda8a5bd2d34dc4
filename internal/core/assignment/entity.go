package assignment

import "time"

// Assignment は社員をプロジェクトへ期間と稼働率付きで割り当てるエンティティです。
// StartDate と EndDate はどちらも期間に含まれます。
type Assignment struct {
	ID          string
	EmployeeID  string
	ProjectID   string
	StartDate   time.Time
	EndDate     time.Time
	Utilisation int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Employee    *EmployeeSnapshot
	Project     *ProjectSnapshot
}

// EmployeeSnapshot は割り当てに紐づく社員情報のスナップショットです。
type EmployeeSnapshot struct {
	ID    string
	Name  string
	Level string
}

// ProjectSnapshot は割り当てに紐づくプロジェクト情報のスナップショットです。
type ProjectSnapshot struct {
	ID     string
	Name   string
	Status string
}

// Clone は Assignment のコピーを返します。
func (a *Assignment) Clone() *Assignment {
	if a == nil {
		return nil
	}
	c := *a
	if a.Employee != nil {
		e := *a.Employee
		c.Employee = &e
	}
	if a.Project != nil {
		p := *a.Project
		c.Project = &p
	}
	return &c
}
