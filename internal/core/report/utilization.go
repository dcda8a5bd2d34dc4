package report

import (
	"sort"
	"time"

	"github.com/ratishjain12/devx-rms/internal/core/assignment"
	"github.com/ratishjain12/devx-rms/internal/core/employee"
	"github.com/ratishjain12/devx-rms/internal/core/interval"
)

// DefaultAvailabilityThreshold は空き状況検索で閾値が指定されなかった場合の値です。
const DefaultAvailabilityThreshold = 80

// EmployeeAvailability はウィンドウ内の稼働率と空き稼働率を付与した社員です。
// 稼働率は 0〜100 に丸めないため、AvailableUtilization は負になり得ます。
type EmployeeAvailability struct {
	Employee             *employee.Employee
	CurrentUtilization   float64
	AvailableUtilization float64
}

// OverworkedEmployee は全割り当ての稼働率合計が 100 を超える社員です。
type OverworkedEmployee struct {
	EmployeeID       string
	Employee         *assignment.EmployeeSnapshot
	TotalUtilization int
}

// WindowedUtilization は [windowStart, windowEnd] における日数加重の稼働率を返します。
// ウィンドウの長さが 0 の場合、その瞬間を含む割り当ての重みは 1 です。
func WindowedUtilization(assignments []*assignment.Assignment, windowStart, windowEnd time.Time) float64 {
	windowDays := interval.DayCount(windowStart, windowEnd)

	var total float64
	for _, a := range assignments {
		if !interval.Overlaps(a.StartDate, a.EndDate, windowStart, windowEnd) {
			continue
		}

		if windowDays == 0 {
			total += float64(a.Utilisation)
			continue
		}

		start, end, ok := interval.Clip(a.StartDate, a.EndDate, windowStart, windowEnd)
		if !ok {
			continue
		}
		weight := interval.DayCount(start, end) / windowDays
		total += float64(a.Utilisation) * weight
	}
	return total
}

// AvailableEmployees は各社員のウィンドウ内稼働率を計算し、
// AvailableUtilization >= 100 - threshold を満たす社員のみを入力順に返します。
func AvailableEmployees(employees []*employee.Employee, assignments []*assignment.Assignment, windowStart, windowEnd time.Time, threshold float64) []EmployeeAvailability {
	byEmployee := groupByEmployee(assignments)

	result := make([]EmployeeAvailability, 0, len(employees))
	for _, emp := range employees {
		current := WindowedUtilization(byEmployee[emp.ID], windowStart, windowEnd)
		available := 100 - current
		if available < 100-threshold {
			continue
		}
		result = append(result, EmployeeAvailability{
			Employee:             emp,
			CurrentUtilization:   current,
			AvailableUtilization: available,
		})
	}
	return result
}

// OverworkedEmployees は期間を考慮せずに社員ごとの稼働率を単純合計し、100 を超える社員を返します。
// 合計の降順、同値の場合は社員 ID の昇順に並べます。
func OverworkedEmployees(assignments []*assignment.Assignment) []OverworkedEmployee {
	totals := make(map[string]*OverworkedEmployee)
	for _, a := range assignments {
		entry, ok := totals[a.EmployeeID]
		if !ok {
			entry = &OverworkedEmployee{EmployeeID: a.EmployeeID, Employee: a.Employee}
			totals[a.EmployeeID] = entry
		}
		if entry.Employee == nil {
			entry.Employee = a.Employee
		}
		entry.TotalUtilization += a.Utilisation
	}

	result := make([]OverworkedEmployee, 0)
	for _, entry := range totals {
		if entry.TotalUtilization > 100 {
			result = append(result, *entry)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalUtilization != result[j].TotalUtilization {
			return result[i].TotalUtilization > result[j].TotalUtilization
		}
		return result[i].EmployeeID < result[j].EmployeeID
	})
	return result
}

func groupByEmployee(assignments []*assignment.Assignment) map[string][]*assignment.Assignment {
	grouped := make(map[string][]*assignment.Assignment)
	for _, a := range assignments {
		grouped[a.EmployeeID] = append(grouped[a.EmployeeID], a)
	}
	return grouped
}
