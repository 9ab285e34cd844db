package clock

import (
	"testing"
	"time"
)

func TestFixedClock(t *testing.T) {
	start := time.Date(2024, 2, 28, 23, 0, 0, 0, time.UTC)
	c := NewFixed(start)
	if !c.Now().Equal(start) {
		t.Fatalf("expected %s, got %s", start, c.Now())
	}
	c.Advance(2 * time.Hour)
	if got := c.Now(); got.Day() != 29 || got.Hour() != 1 {
		t.Errorf("expected Feb 29 01:00, got %s", got)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 6, 1, 0, 5, 0, 0, time.UTC)
	if !SameDay(a, time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)) {
		t.Error("expected same day")
	}
	if SameDay(a, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected different day")
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), 0},
		{"next day late to early", time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC), 1},
		{"leap year", time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), 2},
		{"backwards", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}
