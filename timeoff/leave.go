package timeoff

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/warp/resource-planner/generic"
)

// =============================================================================
// LEAVE REQUEST - A span of days off for one member
// =============================================================================

// LeaveRequest books leave for every working day in Period.
type LeaveRequest struct {
	ID          string
	CompanyID   generic.CompanyID
	MemberID    generic.MemberID
	Type        generic.ResourceType
	Period      generic.Period
	HoursPerDay *generic.Hours // default 8
	Note        string
}

func (r LeaveRequest) Validate() error {
	if r.CompanyID == "" || r.MemberID == "" {
		return &generic.RowError{Entity: "leave_request", Field: "member_id", Err: generic.ErrInvalidRow}
	}
	if r.Type == nil {
		return &generic.RowError{Entity: "leave_request", Field: "type", Err: generic.ErrUnknownLeaveType}
	}
	if err := r.Period.Validate(); err != nil {
		return err
	}
	if r.HoursPerDay != nil && r.HoursPerDay.IsNegative() {
		return &generic.RowError{Entity: "leave_request", Field: "hours_per_day", Err: generic.ErrNegativeHours}
	}
	return nil
}

// Expand turns the request into one entry per working day. Weekends and
// holidays in calendar are skipped. Entry IDs derive from the request ID,
// which is generated when empty.
func (r LeaveRequest) Expand(calendar generic.HolidayCalendar) ([]generic.LeaveEntry, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	hours := generic.HoursFromInt(DefaultHoursPerDay)
	if r.HoursPerDay != nil {
		hours = *r.HoursPerDay
	}

	var entries []generic.LeaveEntry
	for _, day := range r.Period.Days() {
		if !day.IsWorkdayWithHolidays(calendar, r.CompanyID) {
			continue
		}
		entries = append(entries, generic.LeaveEntry{
			ID:        fmt.Sprintf("%s-%s", r.ID, day),
			CompanyID: r.CompanyID,
			MemberID:  r.MemberID,
			Date:      day,
			Type:      r.Type,
			Hours:     hours,
			Note:      r.Note,
		})
	}
	return entries, nil
}

// =============================================================================
// DAY UNIQUENESS - A member cannot take the same day off twice
// =============================================================================

// DuplicateDayError names the day that is already booked.
type DuplicateDayError struct {
	MemberID   generic.MemberID
	Date       generic.TimePoint
	ExistingID string
}

func (e *DuplicateDayError) Error() string {
	return fmt.Sprintf("member %s already has leave on %s (%s)", e.MemberID, e.Date, e.ExistingID)
}

func (e *DuplicateDayError) Unwrap() error { return generic.ErrDuplicateLeaveDay }

// CheckDuplicateDays returns a DuplicateDayError for the first entry whose
// member already has leave that day in existing.
func CheckDuplicateDays(existing, entries []generic.LeaveEntry) error {
	type key struct {
		member generic.MemberID
		day    string
	}
	taken := make(map[key]string, len(existing))
	for _, e := range existing {
		taken[key{e.MemberID, e.Date.String()}] = e.ID
	}
	for _, e := range entries {
		if id, ok := taken[key{e.MemberID, e.Date.String()}]; ok {
			return &DuplicateDayError{MemberID: e.MemberID, Date: e.Date, ExistingID: id}
		}
	}
	return nil
}

// =============================================================================
// WEEKLY LEAVE
// =============================================================================

// WeeklyLeave is a member's leave in one week, split by type.
type WeeklyLeave struct {
	MemberID generic.MemberID
	Week     generic.Week
	Total    generic.Hours
	ByType   map[string]generic.Hours
}

// WeeklyLeaveHours buckets entries per (member, week), ordered by week
// then member.
func WeeklyLeaveHours(entries []generic.LeaveEntry) []WeeklyLeave {
	type key struct {
		member generic.MemberID
		week   generic.Week
	}
	buckets := make(map[key]*WeeklyLeave)
	for _, e := range entries {
		k := key{member: e.MemberID, week: e.Week()}
		b, ok := buckets[k]
		if !ok {
			b = &WeeklyLeave{MemberID: e.MemberID, Week: k.week, Total: generic.ZeroHours(), ByType: make(map[string]generic.Hours)}
			buckets[k] = b
		}
		b.Total = b.Total.Add(e.Hours)
		id := e.Type.ResourceID()
		b.ByType[id] = b.ByType[id].Add(e.Hours)
	}

	out := make([]WeeklyLeave, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week.Before(out[j].Week)
		}
		return out[i].MemberID < out[j].MemberID
	})
	return out
}
