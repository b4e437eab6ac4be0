package generic

import "time"

// =============================================================================
// PERIOD - Closed range of calendar days
// =============================================================================

// Period is the closed range [Start, End].
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// Validate rejects periods whose end is before their start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// VIEW OPTIONS - Coarse user-facing period selectors
// =============================================================================

type ViewOption string

const (
	ViewOneMonth     ViewOption = "1-month"
	ViewThreeMonths  ViewOption = "3-months"
	ViewTwelveMonths ViewOption = "12-months"
)

// DefaultWeekCount is used for unrecognised view options.
const DefaultWeekCount = 12

// LookbackWeeks is how far before the current week every window starts,
// so "last week" is always visible.
const LookbackWeeks = 1

var viewWeekCounts = map[ViewOption]int{
	ViewOneMonth:     4,
	ViewThreeMonths:  12,
	ViewTwelveMonths: 52,
}

// WeekCount maps a view option to its number of weeks.
func (v ViewOption) WeekCount() int {
	if n, ok := viewWeekCounts[v]; ok {
		return n
	}
	return DefaultWeekCount
}

// =============================================================================
// WINDOW - The requested sequence of weeks
// =============================================================================

// Window is an ordered run of WeekCount weeks beginning at Start.
type Window struct {
	Start     Week
	WeekCount int
}

// ResolvePeriod maps a view option to a concrete window anchored on now.
// now is the only source of the current time in the engine.
func ResolvePeriod(view ViewOption, now time.Time) Window {
	return Window{
		Start:     WeekOf(FromTime(now)).AddWeeks(-LookbackWeeks),
		WeekCount: view.WeekCount(),
	}
}

// PeriodToViewOption buckets a week count back into a view option.
// Many counts collapse onto one option, so this is not an inverse of
// ResolvePeriod.
func PeriodToViewOption(weekCount int) ViewOption {
	switch {
	case weekCount <= 4:
		return ViewOneMonth
	case weekCount <= 12:
		return ViewThreeMonths
	default:
		return ViewTwelveMonths
	}
}

// Weeks returns the window's weeks in order.
func (w Window) Weeks() []Week {
	weeks := make([]Week, 0, w.WeekCount)
	for i := 0; i < w.WeekCount; i++ {
		weeks = append(weeks, w.Start.AddWeeks(i))
	}
	return weeks
}

// Last returns the final week of the window.
func (w Window) Last() Week { return w.Start.AddWeeks(w.WeekCount - 1) }

// Contains reports whether week falls inside the window.
func (w Window) Contains(week Week) bool {
	i := WeeksBetween(w.Start, week)
	return !week.Before(w.Start) && i < w.WeekCount
}

// Period returns the calendar days the window covers.
func (w Window) Period() Period {
	return Period{Start: w.Start.Start(), End: w.Last().End()}
}
