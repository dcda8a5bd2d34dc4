package employee

import "time"

// Level は社員のシニアリティを表します。
type Level string

const (
	LevelIntern Level = "INTERN"
	LevelJunior Level = "JUNIOR"
	LevelSenior Level = "SENIOR"
)

// Employee は社員エンティティです。
// Skills と Roles はロール・スキルマスタの ID ではなく名前の集合として保持します。
type Employee struct {
	ID        string
	Name      string
	Level     Level
	Skills    []string
	Roles     []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasSkill は大文字小文字を区別せずにスキル名を照合します。
func (e *Employee) HasSkill(name string) bool {
	for _, s := range e.Skills {
		if equalLabel(s, name) {
			return true
		}
	}
	return false
}
