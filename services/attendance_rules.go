package services

import (
	"errors"
	"fmt"
	"time"

	"gymdesk_go/models"
)

var (
	// ErrMemberInactive blocks check-ins and payments for deactivated members.
	ErrMemberInactive = errors.New("member is not active")
	// ErrMembershipExpired blocks check-ins once the membership window ended.
	ErrMembershipExpired = errors.New("membership expired")
	// ErrAlreadyCheckedIn blocks a second open check-in on the same day.
	ErrAlreadyCheckedIn = errors.New("member already checked in today")
	// ErrAlreadyCheckedOut blocks touching a closed attendance record again.
	ErrAlreadyCheckedOut = errors.New("already checked out")
)

// DayWindow returns the local midnight-to-midnight interval containing t.
// "Today" scoping for open check-ins uses this window.
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := DateOnly(t)
	return start, start.Add(24 * time.Hour)
}

// AttendanceDuration computes whole elapsed minutes between check-in and
// check-out, rounding down: 1m59s of elapsed time is 1 minute, not 2.
func AttendanceDuration(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Seconds() / 60)
}

// ValidateCheckIn applies the member-side check-in preconditions. Existence
// and the open-record-today check stay with the caller because they need the
// storage layer.
func ValidateCheckIn(member *models.Member, now time.Time) error {
	if !member.IsActive {
		return ErrMemberInactive
	}
	if MembershipExpired(member.MembershipEndDate, now) {
		return fmt.Errorf("%w on %s", ErrMembershipExpired, member.MembershipEndDate.Format("2006-01-02"))
	}
	return nil
}

// CloseAttendance stamps the checkout time and freezes the derived duration.
// A closed record cannot be closed again.
func CloseAttendance(attendance *models.Attendance, checkOut time.Time) error {
	if attendance.CheckOutTime != nil {
		return fmt.Errorf("%w at %s", ErrAlreadyCheckedOut, attendance.CheckOutTime.Format("15:04"))
	}
	minutes := AttendanceDuration(attendance.CheckInTime, checkOut)
	attendance.CheckOutTime = &checkOut
	attendance.DurationMinutes = &minutes
	return nil
}
