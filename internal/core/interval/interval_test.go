package interval

import (
	"testing"
	"time"
)

func date(month time.Month, d int) time.Time {
	return time.Date(2025, month, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		aStart, aEnd time.Time
		bStart, bEnd time.Time
		want         bool
	}{
		{"touching endpoints", date(1, 1), date(1, 5), date(1, 5), date(1, 9), true},
		{"disjoint", date(1, 1), date(1, 4), date(1, 5), date(1, 9), false},
		{"contained", date(1, 1), date(1, 31), date(1, 10), date(1, 12), true},
		{"partial", date(1, 1), date(1, 10), date(1, 5), date(1, 15), true},
		{"single instant", date(1, 5), date(1, 5), date(1, 5), date(1, 5), true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Fatalf("Overlaps(a, b) = %v, want %v", got, tc.want)
			}
			if got := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
				t.Fatalf("Overlaps(b, a) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOverlaps_Reflexive(t *testing.T) {
	t.Parallel()

	for i := 1; i <= 28; i++ {
		start := date(2, i)
		end := start.Add(time.Duration(i) * time.Hour)
		if !Overlaps(start, end, start, end) {
			t.Fatalf("interval [%v, %v] should overlap itself", start, end)
		}
	}
}

func TestClip(t *testing.T) {
	t.Parallel()

	start, end, ok := Clip(date(1, 1), date(1, 31), date(1, 10), date(2, 10))
	if !ok {
		t.Fatal("expected non-empty clip")
	}
	if !start.Equal(date(1, 10)) || !end.Equal(date(1, 31)) {
		t.Fatalf("unexpected clip result: %v - %v", start, end)
	}

	if _, _, ok := Clip(date(1, 1), date(1, 5), date(1, 6), date(1, 9)); ok {
		t.Fatal("expected empty clip for disjoint interval")
	}
}

func TestDayCount(t *testing.T) {
	t.Parallel()

	if got := DayCount(date(1, 1), date(1, 31)); got != 30 {
		t.Fatalf("expected 30 days, got %v", got)
	}
	if got := DayCount(date(1, 1), date(1, 1).Add(12*time.Hour)); got != 0.5 {
		t.Fatalf("expected 0.5 days, got %v", got)
	}
}

func TestStartOfWeek(t *testing.T) {
	t.Parallel()

	// 2025-01-15 は水曜日
	got := StartOfWeek(time.Date(2025, 1, 15, 13, 30, 0, 0, time.UTC))
	if !got.Equal(date(1, 12)) {
		t.Fatalf("expected Sunday 2025-01-12, got %v", got)
	}
	if got.Weekday() != time.Sunday {
		t.Fatalf("expected Sunday, got %v", got.Weekday())
	}
}

func TestWeekWindow(t *testing.T) {
	t.Parallel()

	start, end := WeekWindow(date(3, 3))
	if !start.Equal(date(3, 3)) || !end.Equal(date(3, 9)) {
		t.Fatalf("unexpected week window: %v - %v", start, end)
	}
}

func TestWeekWindow_KeepsInstant(t *testing.T) {
	t.Parallel()

	jst := time.FixedZone("JST", 9*60*60)
	start, end := WeekWindow(time.Date(2025, 3, 3, 0, 0, 0, 0, jst))

	wantStart := time.Date(2025, 3, 2, 15, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) || !end.Equal(wantStart.AddDate(0, 0, 6)) {
		t.Fatalf("unexpected week window: %v - %v", start, end)
	}
	if start.Location() != time.UTC {
		t.Fatalf("expected UTC start, got %v", start.Location())
	}
}
