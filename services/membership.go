package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gymdesk_go/database"
	"gymdesk_go/models"

	"gorm.io/gorm"
)

// MembershipNumberPrefix is the fixed prefix of generated membership numbers.
// Numbers look like GYM20250007: prefix, four-digit year, four-digit sequence
// that restarts every calendar year.
const MembershipNumberPrefix = "GYM"

// MembershipService owns membership-number assignment and the date-window
// rules of the member lifecycle. The clock is injected so the year bucket and
// expiry checks are testable.
type MembershipService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMembershipService() *MembershipService {
	return &MembershipService{db: database.DB, now: time.Now}
}

// NewMembershipServiceWithDB builds a service bound to a specific DB handle
// and clock, so tests can pin the year bucket and today's date.
func NewMembershipServiceWithDB(db *gorm.DB, now func() time.Time) *MembershipService {
	if now == nil {
		now = time.Now
	}
	return &MembershipService{db: db, now: now}
}

// FormatMembershipNumber renders a year/sequence pair as GYM<year><seq %04d>.
func FormatMembershipNumber(year, sequence int) string {
	return fmt.Sprintf("%s%d%04d", MembershipNumberPrefix, year, sequence)
}

// NextSequenceFromLast derives the next sequence number from the highest
// existing membership number of the given year. An empty or unparsable last
// number starts the year at 1.
func NextSequenceFromLast(lastNumber string, year int) int {
	if lastNumber == "" {
		return 1
	}
	rest := strings.TrimPrefix(lastNumber, fmt.Sprintf("%s%d", MembershipNumberPrefix, year))
	if rest == lastNumber {
		return 1
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 1
	}
	return n + 1
}

// NextMembershipNumber generates the next free membership number for the
// current year. The lexicographically greatest number is also the numerically
// greatest because sequences are zero-padded to four digits.
func (ms *MembershipService) NextMembershipNumber() (string, error) {
	year := ms.now().Year()

	var last models.Member
	err := ms.db.
		Where("membership_number LIKE ?", fmt.Sprintf("%s%d%%", MembershipNumberPrefix, year)).
		Order("membership_number DESC").
		First(&last).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FormatMembershipNumber(year, 1), nil
		}
		return "", err
	}

	return FormatMembershipNumber(year, NextSequenceFromLast(last.MembershipNumber, year)), nil
}

// ComputeMembershipEndDate advances a start date by exactly one calendar
// month. December rolls into January of the next year. When the target month
// is shorter than the start's day-of-month the day is clamped to the last day
// of the target month (2025-01-31 becomes 2025-02-28).
func ComputeMembershipEndDate(start time.Time) time.Time {
	year, month, day := start.Date()

	if month == time.December {
		year++
		month = time.January
	} else {
		month++
	}

	if last := daysInMonth(year, month); day > last {
		day = last
	}

	return time.Date(year, month, day, 0, 0, 0, 0, start.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MembershipWindowValid reports whether a membership window is ordered:
// the end date must not precede the start date, compared at date precision.
func MembershipWindowValid(start, end time.Time) bool {
	return !DateOnly(end).Before(DateOnly(start))
}

// Today returns the service clock's current date at local midnight.
func (ms *MembershipService) Today() time.Time {
	return DateOnly(ms.now())
}

// MembershipExpired reports whether the membership window ended before today.
// Both sides are compared at date precision; expiring today still admits.
func MembershipExpired(endDate, now time.Time) bool {
	return DateOnly(endDate).Before(DateOnly(now))
}

// DateOnly truncates a timestamp to midnight of its calendar day.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
