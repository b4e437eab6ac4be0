package generic

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeek(t *testing.T) {
	w, err := ParseWeek("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", w.String())
	assert.Equal(t, "2025-03-16", w.End().String())

	_, err = ParseWeek("2025-03-12")
	assert.ErrorIs(t, err, ErrInvalidWeek)
	_, err = ParseWeek("10/03/2025")
	assert.ErrorIs(t, err, ErrInvalidWeek)
}

func TestWeekOf(t *testing.T) {
	monday := NewTimePoint(2025, 3, 10)
	for i := 0; i < 7; i++ {
		assert.Equal(t, "2025-03-10", WeekOf(monday.AddDays(i)).String())
	}
	assert.Equal(t, "2025-03-17", WeekOf(monday.AddDays(7)).String())
	assert.True(t, WeekOf(monday).Contains(NewTimePoint(2025, 3, 16)))
	assert.Equal(t, 3, WeeksBetween(WeekOf(monday), WeekOf(monday).AddWeeks(3)))
}

func TestWeek_MapKeyAcrossConstructors(t *testing.T) {
	parsed, err := ParseWeek("2025-03-10")
	require.NoError(t, err)
	derived := WeekOf(FromTime(time.Date(2025, 3, 13, 18, 0, 0, 0, time.UTC)))

	m := map[Week]int{parsed: 1}
	assert.Equal(t, 1, m[derived])
	assert.Equal(t, 1, m[parsed.AddWeeks(1).AddWeeks(-1)])
}

func TestHolidayList(t *testing.T) {
	holidays := HolidayList{
		{CompanyID: "", Date: NewTimePoint(2025, 12, 25), Recurring: true},
		{CompanyID: "acme", Date: NewTimePoint(2025, 3, 12)},
	}

	assert.True(t, holidays.IsHoliday("globex", NewTimePoint(2031, 12, 25)), "recurring global")
	assert.True(t, holidays.IsHoliday("acme", NewTimePoint(2025, 3, 12)))
	assert.False(t, holidays.IsHoliday("globex", NewTimePoint(2025, 3, 12)), "other company")
	assert.False(t, holidays.IsHoliday("acme", NewTimePoint(2026, 3, 12)), "one-off")

	assert.False(t, NewTimePoint(2025, 3, 12).IsWorkdayWithHolidays(holidays, "acme"))
	assert.True(t, NewTimePoint(2025, 3, 12).IsWorkdayWithHolidays(NoHolidays{}, "acme"))
	assert.False(t, NewTimePoint(2025, 3, 15).IsWorkdayWithHolidays(nil, "acme"))
}

func TestPeriod(t *testing.T) {
	p := Period{Start: NewTimePoint(2025, 3, 10), End: NewTimePoint(2025, 3, 16)}
	require.NoError(t, p.Validate())
	assert.Len(t, p.Days(), 7)
	assert.True(t, p.Contains(NewTimePoint(2025, 3, 16)))
	assert.False(t, p.Contains(NewTimePoint(2025, 3, 17)))

	bad := Period{Start: p.End, End: p.Start}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidPeriod)
}

func TestAllocation_Validate(t *testing.T) {
	week := WeekOf(NewTimePoint(2025, 3, 10))
	ok := Allocation{CompanyID: "acme", MemberID: "ana", ProjectID: "p1", Week: week, Hours: NewHours(8)}
	require.NoError(t, ok.Validate())

	noMember := ok
	noMember.MemberID = ""
	err := noMember.Validate()
	assert.ErrorIs(t, err, ErrInvalidRow)
	assert.True(t, IsClientError(err))

	negative := ok
	negative.Hours = NewHours(-1)
	assert.ErrorIs(t, negative.Validate(), ErrNegativeHours)

	var rowErr *RowError
	require.True(t, errors.As(negative.Validate(), &rowErr))
	assert.Equal(t, "hours", rowErr.Field)
}

func TestCompanySettings_Validate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())

	s := DefaultSettings()
	s.WeeklyHours = ZeroHours()
	assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)

	s = DefaultSettings()
	s.DisplayMode = "days"
	assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)

	s = DefaultSettings()
	s.Thresholds.Available = MustParseDecimal("0.9")
	assert.ErrorIs(t, s.Validate(), ErrInvalidThresholds)
}
