package domain

import "time"

type RecurrenceKind string

const (
	RecurrenceDaily       RecurrenceKind = "DAILY"
	RecurrenceWeekly      RecurrenceKind = "WEEKLY"
	RecurrenceMonthly     RecurrenceKind = "MONTHLY"
	RecurrenceCustomDates RecurrenceKind = "CUSTOM_DATES"
)

// ScheduleSpec describes how a flight template recurs. Exactly one of
// DaysOfWeek, DaysOfMonth and Dates is meaningful depending on Kind; the
// others are ignored.
type ScheduleSpec struct {
	Kind        RecurrenceKind
	StartDate   time.Time
	EndDate     time.Time
	DaysOfWeek  []int // 1 = Monday .. 7 = Sunday
	DaysOfMonth []int // 1 .. 31
	Dates       []time.Time
}
