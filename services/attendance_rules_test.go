package services

import (
	"errors"
	"testing"
	"time"

	"gymdesk_go/models"
)

func TestDayWindow(t *testing.T) {
	ts := time.Date(2025, 6, 15, 17, 45, 12, 0, time.Local)
	start, end := DayWindow(ts)

	wantStart := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)
	if !start.Equal(wantStart) {
		t.Fatalf("expected start %v, got %v", wantStart, start)
	}
	if !end.Equal(wantStart.Add(24 * time.Hour)) {
		t.Fatalf("expected end %v, got %v", wantStart.Add(24*time.Hour), end)
	}
}

func TestAttendanceDuration(t *testing.T) {
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		checkOut time.Time
		expected int
	}{
		{
			name:     "rounds down below two minutes",
			checkOut: base.Add(1*time.Minute + 59*time.Second),
			expected: 1,
		},
		{
			name:     "exact hour",
			checkOut: base.Add(time.Hour),
			expected: 60,
		},
		{
			name:     "under a minute is zero",
			checkOut: base.Add(45 * time.Second),
			expected: 0,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := AttendanceDuration(base, tc.checkOut); got != tc.expected {
				t.Fatalf("expected %d minutes, got %d", tc.expected, got)
			}
		})
	}
}

func TestValidateCheckIn(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		member  models.Member
		wantErr error
	}{
		{
			name: "active member admits",
			member: models.Member{
				IsActive:          true,
				MembershipEndDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "membership expiring today still admits",
			member: models.Member{
				IsActive:          true,
				MembershipEndDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "inactive member rejected",
			member: models.Member{
				IsActive:          false,
				MembershipEndDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			},
			wantErr: ErrMemberInactive,
		},
		{
			name: "expired membership rejected",
			member: models.Member{
				IsActive:          true,
				MembershipEndDate: time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
			},
			wantErr: ErrMembershipExpired,
		},
		{
			name: "inactive wins over expired",
			member: models.Member{
				IsActive:          false,
				MembershipEndDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			},
			wantErr: ErrMemberInactive,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCheckIn(&tc.member, now)
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

func TestCloseAttendance(t *testing.T) {
	checkIn := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(75 * time.Minute)

	attendance := models.Attendance{CheckInTime: checkIn}
	if err := CloseAttendance(&attendance, checkOut); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if attendance.CheckOutTime == nil || !attendance.CheckOutTime.Equal(checkOut) {
		t.Fatalf("check-out time not stamped: %+v", attendance.CheckOutTime)
	}
	if attendance.DurationMinutes == nil || *attendance.DurationMinutes != 75 {
		t.Fatalf("expected 75 minutes, got %+v", attendance.DurationMinutes)
	}

	// Second close must fail and leave the record untouched
	later := checkOut.Add(time.Hour)
	if err := CloseAttendance(&attendance, later); !errors.Is(err, ErrAlreadyCheckedOut) {
		t.Fatalf("expected ErrAlreadyCheckedOut, got %v", err)
	}
	if !attendance.CheckOutTime.Equal(checkOut) {
		t.Fatalf("check-out time changed on double close")
	}
	if *attendance.DurationMinutes != 75 {
		t.Fatalf("duration changed on double close")
	}
}
