package scheduler

import (
	"fmt"
	"strings"
	"time"
)

// CronSchedule is a restricted cron expression of the form "minute hour * * *".
// The hour field may be "*" for hourly schedules.
type CronSchedule struct {
	Minute    int
	Hour      int
	EveryHour bool
}

// ParseCronSchedule parses a "minute hour * * *" expression.
// Only the minute and hour fields are honoured; the remaining fields
// must be "*". An empty expression defaults to hourly at minute 0.
func ParseCronSchedule(expr string) (CronSchedule, error) {
	schedule := CronSchedule{Minute: 0, EveryHour: true}

	if expr == "" {
		return schedule, nil
	}

	parts := strings.Fields(expr)
	if len(parts) != 5 {
		return schedule, fmt.Errorf("%w: expected 5 fields, got %d", ErrInvalidConfig, len(parts))
	}
	for _, part := range parts[2:] {
		if part != "*" {
			return schedule, fmt.Errorf("%w: only minute and hour fields are supported", ErrInvalidConfig)
		}
	}

	minute, err := parseCronField(parts[0])
	if err != nil {
		return schedule, err
	}
	if minute < 0 || minute > 59 {
		return schedule, fmt.Errorf("%w: minute must be 0-59, got %d", ErrInvalidConfig, minute)
	}
	schedule.Minute = minute

	if parts[1] == "*" {
		schedule.EveryHour = true
		return schedule, nil
	}

	hour, err := parseCronField(parts[1])
	if err != nil {
		return schedule, err
	}
	if hour < 0 || hour > 23 {
		return schedule, fmt.Errorf("%w: hour must be 0-23, got %d", ErrInvalidConfig, hour)
	}
	schedule.Hour = hour
	schedule.EveryHour = false
	return schedule, nil
}

// parseCronField parses a single numeric cron field
func parseCronField(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty cron field", ErrInvalidConfig)
	}
	val := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: non-numeric cron field %q", ErrInvalidConfig, s)
		}
		val = val*10 + int(c-'0')
	}
	return val, nil
}

// Matches reports whether the schedule fires at the given time
func (s CronSchedule) Matches(t time.Time) bool {
	if t.Minute() != s.Minute {
		return false
	}
	return s.EveryHour || t.Hour() == s.Hour
}

// Next returns the first firing time strictly after the given time
func (s CronSchedule) Next(from time.Time) time.Time {
	if s.EveryHour {
		next := time.Date(from.Year(), from.Month(), from.Day(), from.Hour(), s.Minute, 0, 0, from.Location())
		if !next.After(from) {
			next = next.Add(time.Hour)
		}
		return next
	}

	next := time.Date(from.Year(), from.Month(), from.Day(), s.Hour, s.Minute, 0, 0, from.Location())
	if !next.After(from) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
