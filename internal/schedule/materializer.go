package schedule

import (
	"errors"
	"time"

	"github.com/skyops/flightbooking/internal/domain"
)

var (
	ErrStartDateRequired = errors.New("start date is required")
	ErrEmptyWeekdaySet   = errors.New("weekly schedule requires at least one weekday")
	ErrEmptyMonthDaySet  = errors.New("monthly schedule requires at least one day of month")
	ErrEmptyDateList     = errors.New("custom schedule requires at least one date")
	ErrUnknownRecurrence = errors.New("unknown recurrence kind")
)

// Expand produces the concrete travel dates described by spec, in order.
// DAILY covers every date from start to end inclusive; WEEKLY and MONTHLY
// filter that range by weekday or day-of-month; CUSTOM_DATES returns the
// explicit list and ignores the range. A missing end date means a single
// occurrence on the start date.
func Expand(spec domain.ScheduleSpec) ([]time.Time, error) {
	switch spec.Kind {
	case domain.RecurrenceDaily:
		return expandRange(spec, func(time.Time) bool { return true })
	case domain.RecurrenceWeekly:
		if len(spec.DaysOfWeek) == 0 {
			return nil, ErrEmptyWeekdaySet
		}
		days := toSet(spec.DaysOfWeek)
		return expandRange(spec, func(d time.Time) bool {
			return days[isoWeekday(d)]
		})
	case domain.RecurrenceMonthly:
		if len(spec.DaysOfMonth) == 0 {
			return nil, ErrEmptyMonthDaySet
		}
		days := toSet(spec.DaysOfMonth)
		return expandRange(spec, func(d time.Time) bool {
			return days[d.Day()]
		})
	case domain.RecurrenceCustomDates:
		if len(spec.Dates) == 0 {
			return nil, ErrEmptyDateList
		}
		dates := make([]time.Time, 0, len(spec.Dates))
		for _, d := range spec.Dates {
			dates = append(dates, truncateToDay(d))
		}
		return dates, nil
	default:
		return nil, ErrUnknownRecurrence
	}
}

func expandRange(spec domain.ScheduleSpec, include func(time.Time) bool) ([]time.Time, error) {
	if spec.StartDate.IsZero() {
		return nil, ErrStartDateRequired
	}

	start := truncateToDay(spec.StartDate)
	end := truncateToDay(spec.EndDate)
	if spec.EndDate.IsZero() {
		end = start
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if include(d) {
			dates = append(dates, d)
		}
	}
	return dates, nil
}

// isoWeekday maps time.Weekday to ISO numbering, Monday = 1 .. Sunday = 7.
func isoWeekday(d time.Time) int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func truncateToDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func toSet(values []int) map[int]bool {
	set := make(map[int]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
