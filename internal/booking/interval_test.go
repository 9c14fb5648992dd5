package booking

import (
	"testing"
	"time"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func interval(from, to time.Time) Interval {
	return Interval{CheckIn: from, CheckOut: to}
}

func TestIntervalOverlaps(t *testing.T) {
	existing := interval(date(2024, 1, 1), date(2024, 1, 5))

	tests := []struct {
		name      string
		candidate Interval
		want      bool
	}{
		{
			name:      "identical interval",
			candidate: interval(date(2024, 1, 1), date(2024, 1, 5)),
			want:      true,
		},
		{
			name:      "same check-in, shorter stay",
			candidate: interval(date(2024, 1, 1), date(2024, 1, 3)),
			want:      true,
		},
		{
			name:      "same check-in, longer stay",
			candidate: interval(date(2024, 1, 1), date(2024, 1, 9)),
			want:      true,
		},
		{
			name:      "check-in inside existing stay",
			candidate: interval(date(2024, 1, 3), date(2024, 1, 9)),
			want:      true,
		},
		{
			name:      "check-out inside existing stay",
			candidate: interval(date(2023, 12, 28), date(2024, 1, 3)),
			want:      true,
		},
		{
			name:      "candidate contains existing stay",
			candidate: interval(date(2023, 12, 28), date(2024, 1, 9)),
			want:      true,
		},
		{
			name:      "fully contained candidate",
			candidate: interval(date(2024, 1, 2), date(2024, 1, 4)),
			want:      true,
		},
		{
			name:      "back-to-back after existing checkout",
			candidate: interval(date(2024, 1, 5), date(2024, 1, 8)),
			want:      false,
		},
		{
			name:      "back-to-back before existing checkin",
			candidate: interval(date(2023, 12, 28), date(2024, 1, 1)),
			want:      false,
		},
		{
			name:      "disjoint earlier stay",
			candidate: interval(date(2023, 12, 1), date(2023, 12, 10)),
			want:      false,
		},
		{
			name:      "disjoint later stay",
			candidate: interval(date(2024, 2, 1), date(2024, 2, 10)),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.candidate.Overlaps(existing); got != tt.want {
				t.Errorf("Overlaps(%v, existing) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

// A one-night stay ending exactly where another begins is bookable,
// but two stays sharing a check-in date never are, even when their
// nights would not collide.
func TestIntervalSameCheckInAlwaysConflicts(t *testing.T) {
	oneNight := interval(date(2024, 3, 1), date(2024, 3, 2))
	sameDayStart := interval(date(2024, 3, 1), date(2024, 3, 10))

	if !oneNight.Overlaps(sameDayStart) {
		t.Error("stays sharing a check-in date must conflict")
	}

	if !sameDayStart.Overlaps(oneNight) {
		t.Error("same check-in conflict must hold in both directions")
	}
}

func TestAvailable(t *testing.T) {
	existing := []*Booking{
		{CheckIn: date(2024, 1, 1), CheckOut: date(2024, 1, 5)},
		{CheckIn: date(2024, 1, 10), CheckOut: date(2024, 1, 15)},
	}

	if Available(interval(date(2024, 1, 3), date(2024, 1, 4)), existing) {
		t.Error("contained candidate must be rejected")
	}

	if !Available(interval(date(2024, 1, 5), date(2024, 1, 10)), existing) {
		t.Error("gap between stays must be bookable")
	}

	if !Available(interval(date(2024, 2, 1), date(2024, 2, 5)), nil) {
		t.Error("empty booking set must admit any candidate")
	}
}
