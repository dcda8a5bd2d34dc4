package interval

import "time"

const day = 24 * time.Hour

// Overlaps は閉区間 [aStart, aEnd] と [bStart, bEnd] が重なるかを判定します。
// 端点が接しているだけの場合も重なりとみなします。
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// Clip は [start, end] をウィンドウ [windowStart, windowEnd] に切り詰めます。
// 呼び出し側は ok が true であることを確認してから結果を利用してください。
func Clip(start, end, windowStart, windowEnd time.Time) (clippedStart, clippedEnd time.Time, ok bool) {
	clippedStart = start
	if windowStart.After(clippedStart) {
		clippedStart = windowStart
	}
	clippedEnd = end
	if windowEnd.Before(clippedEnd) {
		clippedEnd = windowEnd
	}
	return clippedStart, clippedEnd, !clippedStart.After(clippedEnd)
}

// DayCount は start から end までの日数を返します。時刻を含む場合は小数になります。
func DayCount(start, end time.Time) float64 {
	return float64(end.Sub(start)) / float64(day)
}

// AddDays は t に n 日を加算します。
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// StartOfDay は t と同じ日の 0 時 (UTC) を返します。
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfWeek は t を含む週 (日曜始まり) の日曜 0 時 (UTC) を返します。
func StartOfWeek(t time.Time) time.Time {
	d := StartOfDay(t)
	return AddDays(d, -int(d.Weekday()))
}

// WeekWindow は weekStart から始まる 7 日間の閉区間を返します。
// weekStart は日付に丸めず、その瞬間を UTC に変換して始端とします。終端は weekStart + 6 日です。
func WeekWindow(weekStart time.Time) (start, end time.Time) {
	start = weekStart.UTC()
	return start, AddDays(start, 6)
}
