package report

import (
	"sort"

	"github.com/ratishjain12/devx-rms/internal/core/assignment"
)

const topOverlapLimit = 5

// EmployeeOverlap は社員ごとの重複件数です。
type EmployeeOverlap struct {
	EmployeeID   string
	Employee     *assignment.EmployeeSnapshot
	OverlapCount int
}

// OverlapReport は重複する割り当てを持つ社員の集計です。
// TotalCount は重複を 1 件以上持つ社員の総数で、TopOverlappingEmployees は上位 5 名です。
type OverlapReport struct {
	TotalCount              int
	TopOverlappingEmployees []EmployeeOverlap
}

// DetectOverlaps は社員ごとに割り当てを開始日の昇順に並べ、隣接する 2 件のみを比較して重複を数えます。
// 隣接しない 3 件以上の重複は数え漏れることがありますが、既存の集計結果との互換のためこの判定を維持します。
func DetectOverlaps(assignments []*assignment.Assignment) OverlapReport {
	byEmployee := groupByEmployee(assignments)

	overlaps := make([]EmployeeOverlap, 0)
	for employeeID, list := range byEmployee {
		sorted := append([]*assignment.Assignment(nil), list...)
		sort.SliceStable(sorted, func(i, j int) bool {
			if !sorted[i].StartDate.Equal(sorted[j].StartDate) {
				return sorted[i].StartDate.Before(sorted[j].StartDate)
			}
			return sorted[i].ID < sorted[j].ID
		})

		count := 0
		for i := 0; i+1 < len(sorted); i++ {
			if !sorted[i].EndDate.Before(sorted[i+1].StartDate) {
				count++
			}
		}
		if count == 0 {
			continue
		}

		var snapshot *assignment.EmployeeSnapshot
		for _, a := range sorted {
			if a.Employee != nil {
				snapshot = a.Employee
				break
			}
		}
		overlaps = append(overlaps, EmployeeOverlap{EmployeeID: employeeID, Employee: snapshot, OverlapCount: count})
	}

	sort.Slice(overlaps, func(i, j int) bool {
		if overlaps[i].OverlapCount != overlaps[j].OverlapCount {
			return overlaps[i].OverlapCount > overlaps[j].OverlapCount
		}
		return overlaps[i].EmployeeID < overlaps[j].EmployeeID
	})

	report := OverlapReport{TotalCount: len(overlaps), TopOverlappingEmployees: overlaps}
	if len(overlaps) > topOverlapLimit {
		report.TopOverlappingEmployees = overlaps[:topOverlapLimit]
	}
	return report
}
