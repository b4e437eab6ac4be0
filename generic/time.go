package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// TIME POINT - Calendar day abstraction
// =============================================================================

// TimePoint is a calendar day. Wall-clock components are dropped.
type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its calendar day in t's own location.
func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO date (YYYY-MM-DD).
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return TimePoint{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint { return FromTime(tp.Time.AddDate(0, 0, n)) }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsWeekend() bool       { wd := tp.Weekday(); return wd == time.Saturday || wd == time.Sunday }
func (tp TimePoint) IsWorkday() bool       { return !tp.IsWeekend() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }
func (tp TimePoint) String() string        { return tp.Time.Format("2006-01-02") }

// =============================================================================
// WEEK - Monday-anchored planning bucket
// =============================================================================

// Week is identified by the Monday it starts on. Weeks are comparable and
// safe to use as map keys.
type Week struct {
	start time.Time
}

// WeekOf returns the week containing tp.
func WeekOf(tp TimePoint) Week {
	// time.Weekday is Sunday=0; shift so Monday=0.
	offset := (int(tp.Weekday()) + 6) % 7
	monday := tp.AddDays(-offset)
	return Week{start: monday.Time}
}

// ParseWeek parses the ISO start date of a week. The date must be a Monday.
func ParseWeek(s string) (Week, error) {
	tp, err := ParseDate(s)
	if err != nil {
		return Week{}, fmt.Errorf("%w: %v", ErrInvalidWeek, err)
	}
	if tp.Weekday() != time.Monday {
		return Week{}, fmt.Errorf("%w: %s is a %s", ErrInvalidWeek, s, tp.Weekday())
	}
	return Week{start: tp.Time}, nil
}

func (w Week) Start() TimePoint    { return TimePoint{Time: w.start} }
func (w Week) End() TimePoint      { return w.Start().AddDays(6) }
func (w Week) AddWeeks(n int) Week { return Week{start: w.start.AddDate(0, 0, 7*n)} }
func (w Week) Before(o Week) bool  { return w.start.Before(o.start) }
func (w Week) After(o Week) bool   { return w.start.After(o.start) }
func (w Week) IsZero() bool        { return w.start.IsZero() }
func (w Week) Contains(tp TimePoint) bool {
	return tp.AfterOrEqual(w.Start()) && tp.BeforeOrEqual(w.End())
}

// String returns the ISO start date, the week's storage and wire key.
func (w Week) String() string { return w.start.Format("2006-01-02") }

// WeeksBetween counts whole weeks from a to b.
func WeeksBetween(a, b Week) int {
	return int(b.start.Sub(a.start).Hours() / (24 * 7))
}

// =============================================================================
// HOLIDAY CALENDAR - Company-specific holidays
// =============================================================================

// Holiday represents a company holiday that is not booked as leave.
type Holiday struct {
	ID        string
	CompanyID CompanyID // Empty = global/default holidays
	Date      TimePoint
	Name      string
	Recurring bool // true = same month/day every year
}

// HolidayCalendar provides holiday lookup functionality.
type HolidayCalendar interface {
	// IsHoliday checks company-specific holidays first, then global ones.
	IsHoliday(companyID CompanyID, date TimePoint) bool
}

// NoHolidays is a calendar with no holidays.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(CompanyID, TimePoint) bool { return false }

// HolidayList is an in-memory calendar.
type HolidayList []Holiday

func (l HolidayList) IsHoliday(companyID CompanyID, date TimePoint) bool {
	for _, h := range l {
		if h.CompanyID != "" && h.CompanyID != companyID {
			continue
		}
		if h.Recurring {
			if h.Date.Month() == date.Month() && h.Date.Day() == date.Day() {
				return true
			}
			continue
		}
		if h.Date.Equal(date) {
			return true
		}
	}
	return false
}

// IsWorkdayWithHolidays checks if a date is a working day, considering holidays.
func (tp TimePoint) IsWorkdayWithHolidays(calendar HolidayCalendar, companyID CompanyID) bool {
	if tp.IsWeekend() {
		return false
	}
	if calendar != nil && calendar.IsHoliday(companyID, tp) {
		return false
	}
	return true
}
