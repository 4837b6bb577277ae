package appointment

import (
	"testing"
	"time"

	"github.com/alignwork/api/internal/platform/apperr"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := LoadZone(name)
	if err != nil {
		t.Fatalf("LoadZone(%q): %v", name, err)
	}
	return loc
}

func TestLoadZoneUnknown(t *testing.T) {
	_, err := LoadZone("Mars/Olympus")
	if !apperr.IsKind(err, apperr.KindInvalidTimeZone) {
		t.Fatalf("err = %v, want invalid time zone", err)
	}
}

func TestBucketsAtMidweek(t *testing.T) {
	loc := mustZone(t, "America/Recife") // UTC-3, no DST
	// Wednesday 2025-06-18 15:30 local.
	now := time.Date(2025, 6, 18, 18, 30, 0, 0, time.UTC)

	b := BucketsAt(now, loc)

	if want := time.Date(2025, 6, 18, 3, 0, 0, 0, time.UTC); !b.Today.Start.Equal(want) {
		t.Errorf("Today.Start = %v, want %v", b.Today.Start, want)
	}
	if want := time.Date(2025, 6, 19, 3, 0, 0, 0, time.UTC); !b.Today.End.Equal(want) {
		t.Errorf("Today.End = %v, want %v", b.Today.End, want)
	}

	// Week runs from the preceding Sunday, June 15.
	if want := time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC); !b.Week.Start.Equal(want) {
		t.Errorf("Week.Start = %v, want %v", b.Week.Start, want)
	}
	if got := b.Week.End.Sub(b.Week.Start); got != 7*24*time.Hour {
		t.Errorf("week spans %v, want 168h", got)
	}

	if want := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC); !b.Month.Start.Equal(want) {
		t.Errorf("Month.Start = %v, want %v", b.Month.Start, want)
	}
	if !b.Month.End.Equal(b.NextMonth.Start) {
		t.Error("month and next month are not contiguous")
	}
	if want := time.Date(2025, 8, 1, 3, 0, 0, 0, time.UTC); !b.NextMonth.End.Equal(want) {
		t.Errorf("NextMonth.End = %v, want %v", b.NextMonth.End, want)
	}
}

func TestBucketsAtSundayIsWeekStart(t *testing.T) {
	loc := mustZone(t, "America/Recife")
	// Sunday 2025-06-15 local.
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, loc)

	b := BucketsAt(now, loc)

	if !b.Week.Start.Equal(b.Today.Start) {
		t.Errorf("on Sunday the week starts today: Week.Start = %v, Today.Start = %v",
			b.Week.Start, b.Today.Start)
	}
}

func TestBucketsAtDecemberRollsIntoJanuary(t *testing.T) {
	loc := mustZone(t, "America/Recife")
	now := time.Date(2025, 12, 20, 12, 0, 0, 0, loc)

	b := BucketsAt(now, loc)

	if want := time.Date(2026, 1, 1, 3, 0, 0, 0, time.UTC); !b.Month.End.Equal(want) {
		t.Errorf("Month.End = %v, want %v", b.Month.End, want)
	}
	if want := time.Date(2026, 2, 1, 3, 0, 0, 0, time.UTC); !b.NextMonth.End.Equal(want) {
		t.Errorf("NextMonth.End = %v, want %v", b.NextMonth.End, want)
	}
}

func TestBucketsAtDSTTransition(t *testing.T) {
	// Brazil moved clocks forward at midnight on 2018-11-04 in Sao Paulo,
	// so that local day was 23 hours long.
	loc := mustZone(t, "America/Sao_Paulo")
	now := time.Date(2018, 11, 4, 12, 0, 0, 0, loc)

	b := BucketsAt(now, loc)

	if got := b.Today.End.Sub(b.Today.Start); got != 23*time.Hour {
		t.Errorf("spring-forward day spans %v, want 23h", got)
	}
}

func TestBucketsAtLocalDateDiffersFromUTC(t *testing.T) {
	loc := mustZone(t, "America/Recife")
	// 01:00 UTC on July 2 is still 22:00 on July 1 in Recife.
	now := time.Date(2025, 7, 2, 1, 0, 0, 0, time.UTC)

	b := BucketsAt(now, loc)

	if want := time.Date(2025, 7, 1, 3, 0, 0, 0, time.UTC); !b.Today.Start.Equal(want) {
		t.Errorf("Today.Start = %v, want %v (local date governs)", b.Today.Start, want)
	}
	if !b.Today.Contains(now) {
		t.Error("now not inside its own today bucket")
	}
}

func TestIntervalContainsHalfOpen(t *testing.T) {
	iv := Interval{
		Start: time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 19, 0, 0, 0, 0, time.UTC),
	}

	if !iv.Contains(iv.Start) {
		t.Error("start must be included")
	}
	if iv.Contains(iv.End) {
		t.Error("end must be excluded")
	}
	if iv.Contains(iv.Start.Add(-time.Nanosecond)) {
		t.Error("instant before start included")
	}
}
