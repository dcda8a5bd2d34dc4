package assignment

import (
	"time"

	"github.com/google/uuid"
	"github.com/ratishjain12/devx-rms/internal/core/interval"
)

// WeekRemovalKind は週の削除が割り当てに与える影響の種類です。
type WeekRemovalKind string

const (
	WeekRemovalDelete      WeekRemovalKind = "delete"
	WeekRemovalShrinkStart WeekRemovalKind = "shrink_start"
	WeekRemovalShrinkEnd   WeekRemovalKind = "shrink_end"
	WeekRemovalSplit       WeekRemovalKind = "split"
)

// WeekRemoval は 1 週間を取り除いた結果として永続化すべき操作をまとめたものです。
//
//   - WeekRemovalDelete: DeleteID を削除
//   - WeekRemovalShrinkStart / WeekRemovalShrinkEnd: Update で元の割り当てを更新
//   - WeekRemovalSplit: Update で前半を更新し、Create で後半を新規作成
type WeekRemoval struct {
	Kind     WeekRemovalKind
	DeleteID string
	Update   *Assignment
	Create   *Assignment
}

// PlanWeekRemoval は weekStart から始まる 7 日間を割り当て期間から取り除く計画を立てます。
// 判定は「完全に含まれる」「週が先頭」「週が末尾」「週が中間」の順に行い、最初に一致したものを採用します。
func PlanWeekRemoval(a *Assignment, weekStart time.Time) (*WeekRemoval, error) {
	if a == nil {
		return nil, ErrAssignmentNotFound
	}

	weekFrom, weekTo := interval.WeekWindow(weekStart)
	start, end := a.StartDate, a.EndDate
	dayAfterWeek := interval.AddDays(weekTo, 1)
	dayBeforeWeek := interval.AddDays(weekFrom, -1)

	switch {
	case !start.Before(weekFrom) && !end.After(weekTo):
		return &WeekRemoval{Kind: WeekRemovalDelete, DeleteID: a.ID}, nil

	case !start.Before(weekFrom) && !start.After(weekTo):
		if dayAfterWeek.After(end) {
			return &WeekRemoval{Kind: WeekRemovalDelete, DeleteID: a.ID}, nil
		}
		updated := a.Clone()
		updated.StartDate = dayAfterWeek
		return &WeekRemoval{Kind: WeekRemovalShrinkStart, Update: updated}, nil

	case !end.Before(weekFrom) && !end.After(weekTo):
		if dayBeforeWeek.Before(start) {
			return &WeekRemoval{Kind: WeekRemovalDelete, DeleteID: a.ID}, nil
		}
		updated := a.Clone()
		updated.EndDate = dayBeforeWeek
		return &WeekRemoval{Kind: WeekRemovalShrinkEnd, Update: updated}, nil

	case start.Before(weekFrom) && end.After(weekTo):
		first := a.Clone()
		first.EndDate = dayBeforeWeek

		second := a.Clone()
		second.ID = ""
		second.StartDate = dayAfterWeek
		second.EndDate = end
		second.CreatedAt = time.Time{}
		second.UpdatedAt = time.Time{}

		// 週の前後に残る期間が時刻の都合で空になる場合は縮小として扱う
		if first.EndDate.Before(first.StartDate) {
			second.ID = a.ID
			second.CreatedAt = a.CreatedAt
			return &WeekRemoval{Kind: WeekRemovalShrinkStart, Update: second}, nil
		}
		if second.StartDate.After(second.EndDate) {
			return &WeekRemoval{Kind: WeekRemovalShrinkEnd, Update: first}, nil
		}
		return &WeekRemoval{Kind: WeekRemovalSplit, Update: first, Create: second}, nil

	default:
		return nil, ErrWeekOutsideAssignment
	}
}

// SplitIntoWeeks は割り当て期間を日曜始まりの週ごとに分割します。
// 各要素は元の社員・プロジェクト・稼働率を引き継ぎ、永続化前の仮 ID を持ちます。
func SplitIntoWeeks(a *Assignment) []*Assignment {
	if a == nil || a.EndDate.Before(a.StartDate) {
		return nil
	}

	var weeks []*Assignment
	cursor := a.StartDate
	for !cursor.After(a.EndDate) {
		_, weekTo := interval.WeekWindow(interval.StartOfWeek(cursor))

		chunkEnd := a.EndDate
		if weekTo.Before(chunkEnd) {
			chunkEnd = weekTo
		}
		if chunkEnd.Before(cursor) {
			chunkEnd = cursor
		}

		weeks = append(weeks, &Assignment{
			ID:          uuid.NewString(),
			EmployeeID:  a.EmployeeID,
			ProjectID:   a.ProjectID,
			StartDate:   cursor,
			EndDate:     chunkEnd,
			Utilisation: a.Utilisation,
		})

		cursor = interval.AddDays(weekTo, 1)
	}

	return weeks
}
