package timeoff_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/store/sqlite"
	"github.com/warp/resource-planner/timeoff"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func date(year int, month time.Month, day int) generic.TimePoint {
	return generic.NewTimePoint(year, month, day)
}

func span(from, to generic.TimePoint) generic.Period {
	return generic.Period{Start: from, End: to}
}

// =============================================================================
// EXPANSION TESTS
// =============================================================================

func TestExpand_SkipsWeekends(t *testing.T) {
	// GIVEN: Thursday to the following Tuesday
	req := timeoff.LeaveRequest{
		ID: "req-1", CompanyID: "acme", MemberID: "ana", Type: timeoff.LeaveAnnual,
		Period: span(date(2025, time.March, 13), date(2025, time.March, 18)),
	}

	// WHEN: Expanding with no holidays
	entries, err := req.Expand(generic.NoHolidays{})
	require.NoError(t, err)

	// THEN: Thu, Fri, Mon, Tue at 8h each
	require.Len(t, entries, 4)
	for _, e := range entries {
		assert.True(t, e.Date.IsWorkday())
		assert.True(t, e.Hours.Equal(generic.HoursFromInt(timeoff.DefaultHoursPerDay)))
		assert.Equal(t, timeoff.LeaveAnnual, e.Type)
	}
	assert.Equal(t, "req-1-2025-03-13", entries[0].ID)
	assert.Equal(t, "2025-03-18", entries[3].Date.String())
}

func TestExpand_SkipsCompanyAndGlobalHolidays(t *testing.T) {
	holidays := generic.HolidayList{
		{CompanyID: "acme", Date: date(2025, time.March, 12), Name: "Founders day"},
		{CompanyID: "", Date: date(2025, time.March, 14), Name: "Global", Recurring: true},
		{CompanyID: "globex", Date: date(2025, time.March, 11), Name: "Not ours"},
	}
	half := generic.NewHours(4)
	req := timeoff.LeaveRequest{
		CompanyID: "acme", MemberID: "ana", Type: timeoff.LeaveSick,
		Period:      span(date(2025, time.March, 10), date(2025, time.March, 14)),
		HoursPerDay: &half,
	}

	entries, err := req.Expand(holidays)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	total := generic.ZeroHours()
	for _, e := range entries {
		total = total.Add(e.Hours)
	}
	assert.True(t, total.Equal(generic.HoursFromInt(12)))
	assert.NotEmpty(t, entries[0].ID, "an ID is generated")
}

func TestExpand_WeekendOnlyYieldsNothing(t *testing.T) {
	req := timeoff.LeaveRequest{
		CompanyID: "acme", MemberID: "ana", Type: timeoff.LeavePersonal,
		Period: span(date(2025, time.March, 15), date(2025, time.March, 16)),
	}
	entries, err := req.Expand(nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExpand_Validation(t *testing.T) {
	negative := generic.NewHours(-1)
	tests := []struct {
		name string
		req  timeoff.LeaveRequest
		want error
	}{
		{"missing member", timeoff.LeaveRequest{CompanyID: "acme", Type: timeoff.LeaveAnnual,
			Period: span(date(2025, 3, 10), date(2025, 3, 10))}, generic.ErrInvalidRow},
		{"missing type", timeoff.LeaveRequest{CompanyID: "acme", MemberID: "ana",
			Period: span(date(2025, 3, 10), date(2025, 3, 10))}, generic.ErrUnknownLeaveType},
		{"end before start", timeoff.LeaveRequest{CompanyID: "acme", MemberID: "ana", Type: timeoff.LeaveAnnual,
			Period: span(date(2025, 3, 12), date(2025, 3, 10))}, generic.ErrInvalidPeriod},
		{"negative hours", timeoff.LeaveRequest{CompanyID: "acme", MemberID: "ana", Type: timeoff.LeaveAnnual,
			Period: span(date(2025, 3, 10), date(2025, 3, 10)), HoursPerDay: &negative}, generic.ErrNegativeHours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Expand(generic.NoHolidays{})
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, generic.IsClientError(err))
		})
	}
}

func TestCheckDuplicateDays(t *testing.T) {
	// GIVEN: Ana already off on Tuesday
	booked, err := timeoff.LeaveRequest{
		ID: "first", CompanyID: "acme", MemberID: "ana", Type: timeoff.LeaveAnnual,
		Period: span(date(2025, time.March, 11), date(2025, time.March, 11)),
	}.Expand(generic.NoHolidays{})
	require.NoError(t, err)

	// WHEN: Requesting Monday to Wednesday
	next, err := timeoff.LeaveRequest{
		CompanyID: "acme", MemberID: "ana", Type: timeoff.LeaveSick,
		Period: span(date(2025, time.March, 10), date(2025, time.March, 12)),
	}.Expand(generic.NoHolidays{})
	require.NoError(t, err)

	// THEN: Tuesday conflicts with the first booking
	err = timeoff.CheckDuplicateDays(booked, next)
	assert.ErrorIs(t, err, generic.ErrDuplicateLeaveDay)
	var dup *timeoff.DuplicateDayError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "2025-03-11", dup.Date.String())
	assert.Equal(t, "first-2025-03-11", dup.ExistingID)

	for i := range next {
		next[i].MemberID = "ben"
	}
	assert.NoError(t, timeoff.CheckDuplicateDays(booked, next))
}

// =============================================================================
// WEEKLY BUCKETING TESTS
// =============================================================================

func TestWeeklyLeaveHours(t *testing.T) {
	// GIVEN: Leave spanning two weeks for two members
	ana := timeoff.LeaveRequest{
		ID: "a", CompanyID: "acme", MemberID: "ana", Type: timeoff.LeaveAnnual,
		Period: span(date(2025, time.March, 13), date(2025, time.March, 18)),
	}
	sick := timeoff.LeaveRequest{
		ID: "b", CompanyID: "acme", MemberID: "ana", Type: timeoff.LeaveSick,
		Period: span(date(2025, time.March, 11), date(2025, time.March, 11)),
	}
	ben := timeoff.LeaveRequest{
		ID: "c", CompanyID: "acme", MemberID: "ben", Type: timeoff.LeaveAnnual,
		Period: span(date(2025, time.March, 10), date(2025, time.March, 10)),
	}
	var entries []generic.LeaveEntry
	for _, r := range []timeoff.LeaveRequest{ana, sick, ben} {
		e, err := r.Expand(generic.NoHolidays{})
		require.NoError(t, err)
		entries = append(entries, e...)
	}

	// WHEN: Bucketing per week
	weekly := timeoff.WeeklyLeaveHours(entries)

	// THEN: Ordered by week then member, split by type
	require.Len(t, weekly, 3)
	assert.Equal(t, generic.MemberID("ana"), weekly[0].MemberID)
	assert.Equal(t, "2025-03-10", weekly[0].Week.String())
	assert.True(t, weekly[0].Total.Equal(generic.HoursFromInt(24)))
	assert.True(t, weekly[0].ByType["sick"].Equal(generic.HoursFromInt(8)))
	assert.True(t, weekly[0].ByType["annual"].Equal(generic.HoursFromInt(16)))

	assert.Equal(t, generic.MemberID("ben"), weekly[1].MemberID)
	assert.Equal(t, "2025-03-17", weekly[2].Week.String())
	assert.True(t, weekly[2].Total.Equal(generic.HoursFromInt(16)))
}

// =============================================================================
// REGISTRY AND STORAGE TESTS
// =============================================================================

func TestLeaveTypes_Registered(t *testing.T) {
	for _, r := range timeoff.AllLeaveTypes {
		got, err := generic.ParseResource(r.ResourceID())
		require.NoError(t, err)
		assert.Equal(t, r, got)
		assert.Equal(t, "timeoff", got.ResourceDomain())
	}
	_, err := generic.ParseResource("sabbatical")
	assert.ErrorIs(t, err, generic.ErrUnknownLeaveType)
}

func TestExpandedLeave_RoundTripsThroughStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveCompany(ctx, generic.Company{ID: "acme", Name: "Acme", Settings: generic.DefaultSettings()}))
	require.NoError(t, store.SaveMember(ctx, generic.Member{ID: "ana", CompanyID: "acme", Name: "Ana", Status: generic.MemberActive}))
	require.NoError(t, store.SaveHoliday(ctx, generic.Holiday{ID: "h1", CompanyID: "acme", Date: date(2025, time.March, 12), Name: "Offsite"}))

	holidays, err := store.ListHolidays(ctx, "acme")
	require.NoError(t, err)

	req := timeoff.LeaveRequest{
		ID: "trip", CompanyID: "acme", MemberID: "ana", Type: timeoff.LeaveParental,
		Period: span(date(2025, time.March, 10), date(2025, time.March, 14)),
		Note:   "paternity",
	}
	entries, err := req.Expand(generic.HolidayList(holidays))
	require.NoError(t, err)
	require.NoError(t, store.AddLeave(ctx, entries))

	got, err := store.ListLeave(ctx, "acme", span(date(2025, time.March, 1), date(2025, time.March, 31)))
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, timeoff.LeaveParental, got[0].Type)
	assert.Equal(t, "paternity", got[0].Note)

	weekly := timeoff.WeeklyLeaveHours(got)
	require.Len(t, weekly, 1)
	assert.True(t, weekly[0].Total.Equal(generic.HoursFromInt(32)))
}
