package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gymdesk_go/models"
)

var (
	// ErrInvalidTimeFormat flags opening/closing values that are not "HH:MM".
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	// ErrInvertedHours flags an opening time at or after the closing time.
	ErrInvertedHours = errors.New("opening time must be before closing time")
	// ErrInvalidDayOfWeek flags a day outside 0 (Monday) .. 6 (Sunday).
	ErrInvalidDayOfWeek = errors.New("day_of_week must be between 0 and 6")
	// ErrDuplicateSchedule flags a same-named entry overlapping on the same day.
	ErrDuplicateSchedule = errors.New("duplicate named schedule overlaps an existing entry")
	// ErrScheduleOverlap flags any overlap when strict mode is enabled.
	ErrScheduleOverlap = errors.New("schedule overlaps an existing entry")
)

var hourMinutePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// MinutesSinceMidnight parses a fixed-width "HH:MM" value into minutes.
func MinutesSinceMidnight(value string) (int, error) {
	m := hourMinutePattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, value)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return hour*60 + minute, nil
}

// ValidateScheduleWindow checks the static schedule fields: day range, time
// format and opening < closing. The lexical comparison the storage format
// allows is equivalent to the minute comparison done here.
func ValidateScheduleWindow(dayOfWeek int, openingTime, closingTime string) error {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return ErrInvalidDayOfWeek
	}
	open, err := MinutesSinceMidnight(openingTime)
	if err != nil {
		return err
	}
	closing, err := MinutesSinceMidnight(closingTime)
	if err != nil {
		return err
	}
	if open >= closing {
		return ErrInvertedHours
	}
	return nil
}

// IntervalsOverlap reports whether two [open, close) minute intervals share
// any time.
func IntervalsOverlap(aOpen, aClose, bOpen, bClose int) bool {
	return aOpen < bClose && bOpen < aClose
}

// SameScheduleName compares entry names case-insensitively, ignoring
// surrounding whitespace.
func SameScheduleName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// CheckScheduleConflict inspects existing open entries on the same day.
// A same-named overlapping entry is always a conflict. Differently-named
// overlaps are tolerated by default and returned so the caller can log them;
// with strict=true they are rejected too.
func CheckScheduleConflict(existing []models.Schedule, name, openingTime, closingTime string, strict bool) ([]models.Schedule, error) {
	open, err := MinutesSinceMidnight(openingTime)
	if err != nil {
		return nil, err
	}
	closing, err := MinutesSinceMidnight(closingTime)
	if err != nil {
		return nil, err
	}

	var overlapping []models.Schedule
	for _, other := range existing {
		if !other.IsOpen {
			continue
		}
		otherOpen, err := MinutesSinceMidnight(other.OpeningTime)
		if err != nil {
			// Malformed stored row; nothing to compare against
			continue
		}
		otherClose, err := MinutesSinceMidnight(other.ClosingTime)
		if err != nil {
			continue
		}
		if !IntervalsOverlap(open, closing, otherOpen, otherClose) {
			continue
		}
		if SameScheduleName(name, other.Name) {
			return nil, fmt.Errorf("%w: %q on the same day", ErrDuplicateSchedule, other.Name)
		}
		if strict {
			return nil, fmt.Errorf("%w: %q (%s-%s)", ErrScheduleOverlap, other.Name, other.OpeningTime, other.ClosingTime)
		}
		overlapping = append(overlapping, other)
	}
	return overlapping, nil
}

// DefaultSchedules returns the seven rows seeded on first read: Monday to
// Saturday 06:00-22:00, Sunday 08:00-20:00.
func DefaultSchedules() []models.Schedule {
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

	schedules := make([]models.Schedule, 0, 7)
	for i, day := range days {
		schedule := models.Schedule{
			DayOfWeek:   i,
			Name:        "Standard hours",
			OpeningTime: "06:00",
			ClosingTime: "22:00",
			IsOpen:      true,
			Notes:       fmt.Sprintf("Standard %s hours", day),
		}
		if i == 6 {
			schedule.OpeningTime = "08:00"
			schedule.ClosingTime = "20:00"
		}
		schedules = append(schedules, schedule)
	}
	return schedules
}
