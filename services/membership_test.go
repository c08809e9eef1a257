package services

import (
	"testing"
	"time"
)

func TestFormatMembershipNumber(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		sequence int
		expected string
	}{
		{
			name:     "first of the year",
			year:     2025,
			sequence: 1,
			expected: "GYM20250001",
		},
		{
			name:     "zero padded sequence",
			year:     2025,
			sequence: 42,
			expected: "GYM20250042",
		},
		{
			name:     "four digit sequence",
			year:     2026,
			sequence: 9999,
			expected: "GYM20269999",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := FormatMembershipNumber(tc.year, tc.sequence)
			if got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestNextSequenceFromLast(t *testing.T) {
	tests := []struct {
		name       string
		lastNumber string
		year       int
		expected   int
	}{
		{
			name:       "empty starts at one",
			lastNumber: "",
			year:       2025,
			expected:   1,
		},
		{
			name:       "increments the sequence",
			lastNumber: "GYM20250007",
			year:       2025,
			expected:   8,
		},
		{
			name:       "wrong year prefix falls back to one",
			lastNumber: "GYM20240031",
			year:       2025,
			expected:   1,
		},
		{
			name:       "corrupt suffix falls back to one",
			lastNumber: "GYM2025ABCD",
			year:       2025,
			expected:   1,
		},
		{
			name:       "unrelated format falls back to one",
			lastNumber: "LEGACY-0042",
			year:       2025,
			expected:   1,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := NextSequenceFromLast(tc.lastNumber, tc.year)
			if got != tc.expected {
				t.Fatalf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestComputeMembershipEndDate(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		expected string
	}{
		{
			name:     "plain month advance",
			start:    "2025-03-15",
			expected: "2025-04-15",
		},
		{
			name:     "january 31 clamps to february 28",
			start:    "2025-01-31",
			expected: "2025-02-28",
		},
		{
			name:     "january 31 clamps to february 29 in a leap year",
			start:    "2024-01-31",
			expected: "2024-02-29",
		},
		{
			name:     "march 31 clamps to april 30",
			start:    "2025-03-31",
			expected: "2025-04-30",
		},
		{
			name:     "december rolls into january of the next year",
			start:    "2025-12-10",
			expected: "2026-01-10",
		},
		{
			name:     "december 31 keeps day 31 in january",
			start:    "2025-12-31",
			expected: "2026-01-31",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			start, err := time.Parse("2006-01-02", tc.start)
			if err != nil {
				t.Fatalf("bad start date: %v", err)
			}
			got := ComputeMembershipEndDate(start).Format("2006-01-02")
			if got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestMembershipExpired(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		endDate  time.Time
		expected bool
	}{
		{
			name:     "ended yesterday",
			endDate:  time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
			expected: true,
		},
		{
			name:     "ends today still admits",
			endDate:  time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			expected: false,
		},
		{
			name:     "ends today earlier in the day still admits",
			endDate:  time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC),
			expected: false,
		},
		{
			name:     "ends tomorrow",
			endDate:  time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
			expected: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := MembershipExpired(tc.endDate, now); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2025, 6, 15, 23, 59, 59, 999, time.Local)
	got := DateOnly(ts)
	want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMembershipWindowValid(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected bool
	}{
		{
			name:     "end after start",
			start:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			expected: true,
		},
		{
			name:     "same day window",
			start:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			expected: true,
		},
		{
			name:     "start moved past existing end",
			start:    time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			end:      time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			expected: false,
		},
		{
			name:     "time of day does not matter",
			start:    time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC),
			end:      time.Date(2025, 6, 1, 1, 0, 0, 0, time.UTC),
			expected: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := MembershipWindowValid(tc.start, tc.end); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestMembershipServiceToday(t *testing.T) {
	clock := func() time.Time {
		return time.Date(2025, 12, 31, 18, 45, 0, 0, time.Local)
	}
	ms := NewMembershipServiceWithDB(nil, clock)

	want := time.Date(2025, 12, 31, 0, 0, 0, 0, time.Local)
	if got := ms.Today(); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
