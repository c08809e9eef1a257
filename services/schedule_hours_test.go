package services

import (
	"errors"
	"testing"

	"gymdesk_go/models"
)

func TestMinutesSinceMidnight(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{
			name:     "early morning",
			input:    "06:00",
			expected: 360,
		},
		{
			name:     "midnight",
			input:    "00:00",
			expected: 0,
		},
		{
			name:     "last minute of the day",
			input:    "23:59",
			expected: 1439,
		},
		{
			name:     "surrounding whitespace tolerated",
			input:    " 08:30 ",
			expected: 510,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := MinutesSinceMidnight(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Fatalf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestMinutesSinceMidnightInvalid(t *testing.T) {
	inputs := []string{"24:00", "12:60", "9:00", "12:5", "noon", "12-30", ""}
	for _, input := range inputs {
		if _, err := MinutesSinceMidnight(input); !errors.Is(err, ErrInvalidTimeFormat) {
			t.Fatalf("expected ErrInvalidTimeFormat for %q, got %v", input, err)
		}
	}
}

func TestValidateScheduleWindow(t *testing.T) {
	tests := []struct {
		name    string
		day     int
		opening string
		closing string
		wantErr error
	}{
		{
			name:    "valid window",
			day:     0,
			opening: "06:00",
			closing: "22:00",
		},
		{
			name:    "sunday valid",
			day:     6,
			opening: "08:00",
			closing: "20:00",
		},
		{
			name:    "day below range",
			day:     -1,
			opening: "06:00",
			closing: "22:00",
			wantErr: ErrInvalidDayOfWeek,
		},
		{
			name:    "day above range",
			day:     7,
			opening: "06:00",
			closing: "22:00",
			wantErr: ErrInvalidDayOfWeek,
		},
		{
			name:    "inverted hours",
			day:     1,
			opening: "22:00",
			closing: "06:00",
			wantErr: ErrInvertedHours,
		},
		{
			name:    "zero length window",
			day:     1,
			opening: "10:00",
			closing: "10:00",
			wantErr: ErrInvertedHours,
		},
		{
			name:    "bad opening format",
			day:     1,
			opening: "6am",
			closing: "22:00",
			wantErr: ErrInvalidTimeFormat,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateScheduleWindow(tc.day, tc.opening, tc.closing)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestIntervalsOverlap(t *testing.T) {
	tests := []struct {
		name     string
		a        [2]int
		b        [2]int
		expected bool
	}{
		{
			name:     "distinct intervals",
			a:        [2]int{360, 720},
			b:        [2]int{780, 1200},
			expected: false,
		},
		{
			name:     "touching endpoints do not overlap",
			a:        [2]int{360, 720},
			b:        [2]int{720, 1200},
			expected: false,
		},
		{
			name:     "partial overlap",
			a:        [2]int{360, 800},
			b:        [2]int{780, 1200},
			expected: true,
		},
		{
			name:     "containment",
			a:        [2]int{360, 1320},
			b:        [2]int{600, 700},
			expected: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := IntervalsOverlap(tc.a[0], tc.a[1], tc.b[0], tc.b[1]); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
			// Overlap is symmetric
			if got := IntervalsOverlap(tc.b[0], tc.b[1], tc.a[0], tc.a[1]); got != tc.expected {
				t.Fatalf("expected symmetric %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestSameScheduleName(t *testing.T) {
	if !SameScheduleName("Morning Shift", "  morning shift ") {
		t.Fatalf("expected names to match ignoring case and whitespace")
	}
	if SameScheduleName("Morning Shift", "Evening Shift") {
		t.Fatalf("expected different names not to match")
	}
}

func TestCheckScheduleConflict(t *testing.T) {
	existing := []models.Schedule{
		{Name: "Morning Shift", OpeningTime: "06:00", ClosingTime: "14:00", IsOpen: true},
		{Name: "Closed Slot", OpeningTime: "06:00", ClosingTime: "22:00", IsOpen: false},
	}

	t.Run("same name overlap is a conflict", func(t *testing.T) {
		_, err := CheckScheduleConflict(existing, "morning shift", "10:00", "18:00", false)
		if !errors.Is(err, ErrDuplicateSchedule) {
			t.Fatalf("expected ErrDuplicateSchedule, got %v", err)
		}
	})

	t.Run("different name overlap is returned as a warning", func(t *testing.T) {
		overlapping, err := CheckScheduleConflict(existing, "Evening Shift", "10:00", "18:00", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(overlapping) != 1 || overlapping[0].Name != "Morning Shift" {
			t.Fatalf("expected one overlapping entry, got %+v", overlapping)
		}
	})

	t.Run("strict mode rejects any overlap", func(t *testing.T) {
		_, err := CheckScheduleConflict(existing, "Evening Shift", "10:00", "18:00", true)
		if !errors.Is(err, ErrScheduleOverlap) {
			t.Fatalf("expected ErrScheduleOverlap, got %v", err)
		}
	})

	t.Run("closed entries are ignored", func(t *testing.T) {
		overlapping, err := CheckScheduleConflict(existing, "Night Shift", "15:00", "22:00", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(overlapping) != 0 {
			t.Fatalf("expected no overlaps, got %+v", overlapping)
		}
	})

	t.Run("non overlapping same name is allowed", func(t *testing.T) {
		overlapping, err := CheckScheduleConflict(existing, "Morning Shift", "14:00", "22:00", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(overlapping) != 0 {
			t.Fatalf("expected no overlaps, got %+v", overlapping)
		}
	})

	t.Run("bad candidate time is rejected", func(t *testing.T) {
		if _, err := CheckScheduleConflict(existing, "X", "25:00", "26:00", false); !errors.Is(err, ErrInvalidTimeFormat) {
			t.Fatalf("expected ErrInvalidTimeFormat, got %v", err)
		}
	})
}

func TestDefaultSchedules(t *testing.T) {
	schedules := DefaultSchedules()
	if len(schedules) != 7 {
		t.Fatalf("expected 7 default entries, got %d", len(schedules))
	}

	for i, s := range schedules {
		if s.DayOfWeek != i {
			t.Fatalf("entry %d has day_of_week %d", i, s.DayOfWeek)
		}
		if !s.IsOpen {
			t.Fatalf("entry %d should be open", i)
		}
		if err := ValidateScheduleWindow(s.DayOfWeek, s.OpeningTime, s.ClosingTime); err != nil {
			t.Fatalf("entry %d invalid: %v", i, err)
		}
	}

	// Monday through Saturday 06:00-22:00, Sunday 08:00-20:00
	if schedules[0].OpeningTime != "06:00" || schedules[0].ClosingTime != "22:00" {
		t.Fatalf("unexpected weekday hours: %s-%s", schedules[0].OpeningTime, schedules[0].ClosingTime)
	}
	if schedules[6].OpeningTime != "08:00" || schedules[6].ClosingTime != "20:00" {
		t.Fatalf("unexpected sunday hours: %s-%s", schedules[6].OpeningTime, schedules[6].ClosingTime)
	}
}
