package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/generic/store"
	"github.com/warp/resource-planner/store/sqlite"
	"github.com/warp/resource-planner/timeoff"
)

// Both backends must satisfy the same contract, so every test runs twice.
func backends(t *testing.T) map[string]generic.Store {
	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return map[string]generic.Store{
		"sqlite": db,
		"memory": store.NewMemory(),
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s generic.Store)) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) { fn(t, s) })
	}
}

func week(t *testing.T, s string) generic.Week {
	t.Helper()
	w, err := generic.ParseWeek(s)
	require.NoError(t, err)
	return w
}

func seedCompany(t *testing.T, s generic.Store, id generic.CompanyID) {
	t.Helper()
	settings := generic.DefaultSettings()
	settings.WeeklyHours = generic.NewHours(37.5)
	require.NoError(t, s.SaveCompany(context.Background(), generic.Company{ID: id, Name: string(id), Settings: settings}))
}

// seedTeam adds a company with members ana and ben and projects p1 and p2.
func seedTeam(t *testing.T, s generic.Store, id generic.CompanyID) {
	t.Helper()
	ctx := context.Background()
	seedCompany(t, s, id)
	for _, m := range []generic.Member{{ID: "ana", Name: "Ana"}, {ID: "ben", Name: "Ben"}} {
		m.CompanyID, m.Status = id, generic.MemberActive
		require.NoError(t, s.SaveMember(ctx, m))
	}
	for _, p := range []generic.Project{{ID: "p1", Code: "P-1", Name: "Atrium"}, {ID: "p2", Code: "P-2", Name: "Bridge"}} {
		p.CompanyID = id
		require.NoError(t, s.SaveProject(ctx, p))
	}
}

func leaveDay(id string, company generic.CompanyID, member generic.MemberID, date generic.TimePoint) generic.LeaveEntry {
	return generic.LeaveEntry{ID: id, CompanyID: company, MemberID: member, Date: date, Type: timeoff.LeaveAnnual, Hours: generic.HoursFromInt(8)}
}

func TestCompany_RoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s generic.Store) {
		ctx := context.Background()
		settings := generic.DefaultSettings()
		settings.WeeklyHours = generic.NewHours(37.5)
		settings.DisplayMode = generic.ModeHours
		settings.Thresholds.AtCapacity = generic.MustParseDecimal("0.85")
		require.NoError(t, s.SaveCompany(ctx, generic.Company{ID: "acme", Name: "Acme", Settings: settings}))

		got, err := s.GetCompany(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, "Acme", got.Name)
		assert.True(t, got.Settings.WeeklyHours.Equal(generic.NewHours(37.5)))
		assert.Equal(t, generic.ModeHours, got.Settings.DisplayMode)
		assert.Equal(t, "0.85", got.Settings.Thresholds.AtCapacity.String())

		_, err = s.GetCompany(ctx, "nobody")
		assert.ErrorIs(t, err, generic.ErrCompanyNotFound)

		bad := generic.Company{ID: "zero", Name: "Zero", Settings: generic.DefaultSettings()}
		bad.Settings.WeeklyHours = generic.ZeroHours()
		assert.ErrorIs(t, s.SaveCompany(ctx, bad), generic.ErrInvalidSettings)
	})
}

func TestMembers(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s generic.Store) {
		ctx := context.Background()
		seedCompany(t, s, "acme")
		seedCompany(t, s, "globex")

		require.NoError(t, s.SaveMember(ctx, generic.Member{ID: "ana", CompanyID: "acme", Name: "Ana", Status: generic.MemberActive, WeeklyCapacity: generic.HoursPtr(24)}))
		require.NoError(t, s.SaveMember(ctx, generic.Member{ID: "ben", CompanyID: "acme", Name: "Ben", Status: generic.MemberPreRegistered}))
		require.NoError(t, s.SaveMember(ctx, generic.Member{ID: "ana", CompanyID: "globex", Name: "Other Ana", Status: generic.MemberActive}))

		members, err := s.ListMembers(ctx, "acme")
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, "Ana", members[0].Name)
		require.NotNil(t, members[0].WeeklyCapacity)
		assert.True(t, members[0].WeeklyCapacity.Equal(generic.HoursFromInt(24)))
		assert.Nil(t, members[1].WeeklyCapacity)
		assert.Equal(t, generic.MemberPreRegistered, members[1].Status)

		other, err := s.GetMember(ctx, "globex", "ana")
		require.NoError(t, err)
		assert.Equal(t, "Other Ana", other.Name)

		err = s.SaveMember(ctx, generic.Member{ID: "x", CompanyID: "nobody", Name: "X", Status: generic.MemberActive})
		assert.ErrorIs(t, err, generic.ErrCompanyNotFound)
	})
}

func TestDeleteMember_RemovesAllocationsAndLeave(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s generic.Store) {
		// GIVEN: Ana and Ben both allocated and on leave
		ctx := context.Background()
		seedTeam(t, s, "acme")
		w := week(t, "2025-03-10")
		require.NoError(t, s.UpsertAllocations(ctx, []generic.Allocation{
			{CompanyID: "acme", MemberID: "ana", ProjectID: "p1", Week: w, Hours: generic.NewHours(10)},
			{CompanyID: "acme", MemberID: "ben", ProjectID: "p1", Week: w, Hours: generic.NewHours(5)},
		}))
		require.NoError(t, s.AddLeave(ctx, []generic.LeaveEntry{
			leaveDay("a1", "acme", "ana", w.Start()),
			leaveDay("b1", "acme", "ben", w.Start()),
		}))

		// WHEN: Ana is deleted
		require.NoError(t, s.DeleteMember(ctx, "acme", "ana"))

		// THEN: Only Ben's rows remain
		rows, err := s.ListAllocations(ctx, "acme", w, w)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, generic.MemberID("ben"), rows[0].MemberID)

		leave, err := s.ListLeave(ctx, "acme", generic.Period{Start: w.Start(), End: w.End()})
		require.NoError(t, err)
		require.Len(t, leave, 1)
		assert.Equal(t, generic.MemberID("ben"), leave[0].MemberID)

		assert.ErrorIs(t, s.DeleteMember(ctx, "acme", "ana"), generic.ErrMemberNotFound)
	})
}

func TestProjects(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s generic.Store) {
		ctx := context.Background()
		seedCompany(t, s, "acme")
		fee := 12000.0
		require.NoError(t, s.SaveProject(ctx, generic.Project{ID: "p2", CompanyID: "acme", Code: "B-2", Name: "Bridge"}))
		require.NoError(t, s.SaveProject(ctx, generic.Project{ID: "p1", CompanyID: "acme", Code: "A-1", Name: "Atrium", Fee: &fee, Stage: "design"}))

		projects, err := s.ListProjects(ctx, "acme")
		require.NoError(t, err)
		require.Len(t, projects, 2)
		assert.Equal(t, "A-1", projects[0].Code)
		require.NotNil(t, projects[0].Fee)
		assert.Equal(t, 12000.0, *projects[0].Fee)
		assert.Equal(t, "design", projects[0].Stage)
		assert.Nil(t, projects[1].Fee)

		assert.ErrorIs(t, s.SaveProject(ctx, generic.Project{ID: "p3", CompanyID: "acme", Name: "No code"}), generic.ErrInvalidRow)
	})
}

func TestUpsertAllocations_ReplacesExistingKey(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s generic.Store) {
		// GIVEN: A cell written once
		ctx := context.Background()
		seedTeam(t, s, "acme")
		w := week(t, "2025-03-10")
		row := generic.Allocation{CompanyID: "acme", MemberID: "ana", ProjectID: "p1", Week: w, Hours: generic.NewHours(10)}
		require.NoError(t, s.UpsertAllocations(ctx, []generic.Allocation{row}))

		// WHEN: Writing the same key again
		row.Hours = generic.NewHours(12.5)
		require.NoError(t, s.UpsertAllocations(ctx, []generic.Allocation{row}))

		// THEN: One row holding the new value
		rows, err := s.ListAllocations(ctx, "acme", w, w)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].Hours.Equal(generic.NewHours(12.5)))
		assert.False(t, rows[0].UpdatedAt.IsZero())
	})
}

func TestUpsertAllocations_AllOrNothing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s generic.Store) {
		ctx := context.Background()
		seedTeam(t, s, "acme")
		w := week(t, "2025-03-10")
		err := s.UpsertAllocations(ctx, []generic.Allocation{
			{CompanyID: "acme", MemberID: "ana", ProjectID: "p1", Week: w, Hours: generic.NewHours(10)},
			{CompanyID: "acme", MemberID: "ana", ProjectID: "p2", Week: w, Hours: generic.NewHours(-1)},
		})
		assert.ErrorIs(t, err, generic.ErrNegativeHours)

		rows, err := s.ListAllocations(ctx, "acme", w, w)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestUpsertAllocations_UnknownMemberOrProject(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s generic.Store) {
		ctx := context.Background()
		seedTeam(t, s, "acme")
		seedTeam(t, s, "globex")
		w := week(t, "2025-03-10")
		valid := generic.Allocation{CompanyID: "acme", MemberID: "ana", ProjectID: "p1", Week: w, Hours: generic.NewHours(10)}

		tests := []struct {
			name string
			row  generic.Allocation
			want error
		}{
			{"unknown member", generic.Allocation{CompanyID: "acme", MemberID: "ghost", ProjectID: "p1", Week: w, Hours: generic.NewHours(8)}, generic.ErrMemberNotFound},
			{"unknown project", generic.Allocation{CompanyID: "acme", MemberID: "ben", ProjectID: "p9", Week: w, Hours: generic.NewHours(8)}, generic.ErrProjectNotFound},
			{"unknown company", generic.Allocation{CompanyID: "nobody", MemberID: "ana", ProjectID: "p1", Week: w, Hours: generic.NewHours(8)}, generic.ErrMemberNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				// WHEN: A batch mixes a valid row with a dangling one
				err := s.UpsertAllocations(ctx, []generic.Allocation{valid, tt.row})

				// THEN: The batch is rejected and nothing is written
				assert.ErrorIs(t, err, tt.want)
				assert.True(t, generic.IsNotFound(err))
				rows, err := s.ListAllocations(ctx, tt.row.CompanyID, w, w)
				require.NoError(t, err)
				assert.Empty(t, rows)
				rows, err = s.ListAllocations(ctx, "acme", w, w)
				require.NoError(t, err)
				assert.Empty(t, rows)
			})
		}
	})
}

func TestListAllocations_RangeAndCompanyScope(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s generic.Store) {
		ctx := context.Background()
		seedTeam(t, s, "acme")
		seedTeam(t, s, "globex")
		w1, w2, w3 := week(t, "2025-03-03"), week(t, "2025-03-10"), week(t, "2025-03-17")
		stamp := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		require.NoError(t, s.UpsertAllocations(ctx, []generic.Allocation{
			{CompanyID: "acme", MemberID: "ben", ProjectID: "p1", Week: w2, Hours: generic.NewHours(8), UpdatedAt: stamp},
			{CompanyID: "acme", MemberID: "ana", ProjectID: "p1", Week: w2, Hours: generic.NewHours(8), UpdatedAt: stamp},
			{CompanyID: "acme", MemberID: "ana", ProjectID: "p1", Week: w1, Hours: generic.NewHours(8), UpdatedAt: stamp},
			{CompanyID: "acme", MemberID: "ana", ProjectID: "p1", Week: w3, Hours: generic.NewHours(8), UpdatedAt: stamp},
			{CompanyID: "globex", MemberID: "ana", ProjectID: "p1", Week: w2, Hours: generic.NewHours(40), UpdatedAt: stamp},
		}))

		rows, err := s.ListAllocations(ctx, "acme", w1, w2)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, w1, rows[0].Week)
		assert.Equal(t, generic.MemberID("ana"), rows[1].MemberID)
		assert.Equal(t, generic.MemberID("ben"), rows[2].MemberID)
		assert.True(t, rows[0].UpdatedAt.Equal(stamp))
	})
}

func TestLeave(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s generic.Store) {
		ctx := context.Background()
		seedTeam(t, s, "acme")
		seedTeam(t, s, "globex")
		entries := []generic.LeaveEntry{
			{ID: "l2", CompanyID: "acme", MemberID: "ana", Date: generic.NewTimePoint(2025, 3, 11), Type: timeoff.LeaveSick, Hours: generic.HoursFromInt(8)},
			{ID: "l1", CompanyID: "acme", MemberID: "ana", Date: generic.NewTimePoint(2025, 3, 10), Type: timeoff.LeaveAnnual, Hours: generic.NewHours(4), Note: "dentist"},
			{ID: "l3", CompanyID: "acme", MemberID: "ana", Date: generic.NewTimePoint(2025, 4, 1), Type: timeoff.LeaveAnnual, Hours: generic.HoursFromInt(8)},
			{ID: "g1", CompanyID: "globex", MemberID: "ana", Date: generic.NewTimePoint(2025, 3, 10), Type: timeoff.LeaveAnnual, Hours: generic.HoursFromInt(8)},
		}
		require.NoError(t, s.AddLeave(ctx, entries))

		march := generic.Period{Start: generic.NewTimePoint(2025, 3, 1), End: generic.NewTimePoint(2025, 3, 31)}
		got, err := s.ListLeave(ctx, "acme", march)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "l1", got[0].ID)
		assert.Equal(t, timeoff.LeaveAnnual, got[0].Type)
		assert.Equal(t, "dentist", got[0].Note)
		assert.True(t, got[0].Hours.Equal(generic.NewHours(4)))

		require.NoError(t, s.DeleteLeave(ctx, "globex", "l1"), "other company is a no-op")
		require.NoError(t, s.DeleteLeave(ctx, "acme", "l1"))
		got, err = s.ListLeave(ctx, "acme", march)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "l2", got[0].ID)
	})
}

func TestAddLeave_OneEntryPerMemberDay(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s generic.Store) {
		// GIVEN: Ana off on Monday
		ctx := context.Background()
		seedTeam(t, s, "acme")
		monday := generic.NewTimePoint(2025, 3, 10)
		require.NoError(t, s.AddLeave(ctx, []generic.LeaveEntry{leaveDay("first", "acme", "ana", monday)}))

		// WHEN: A second batch books Tuesday and Monday again
		err := s.AddLeave(ctx, []generic.LeaveEntry{
			leaveDay("second-tue", "acme", "ana", monday.AddDays(1)),
			leaveDay("second-mon", "acme", "ana", monday),
		})

		// THEN: The whole batch is rejected as a client error
		assert.ErrorIs(t, err, generic.ErrDuplicateLeaveDay)
		assert.True(t, generic.IsClientError(err))
		days := generic.Period{Start: monday, End: monday.AddDays(6)}
		got, err := s.ListLeave(ctx, "acme", days)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "first", got[0].ID)

		// A batch repeating a day within itself is rejected too.
		err = s.AddLeave(ctx, []generic.LeaveEntry{
			leaveDay("x1", "acme", "ben", monday),
			leaveDay("x2", "acme", "ben", monday),
		})
		assert.ErrorIs(t, err, generic.ErrDuplicateLeaveDay)

		// Other members may take the same day.
		require.NoError(t, s.AddLeave(ctx, []generic.LeaveEntry{leaveDay("ben-mon", "acme", "ben", monday)}))
	})
}

func TestAddLeave_UnknownMember(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s generic.Store) {
		ctx := context.Background()
		seedTeam(t, s, "acme")
		err := s.AddLeave(ctx, []generic.LeaveEntry{leaveDay("g", "acme", "ghost", generic.NewTimePoint(2025, 3, 10))})
		assert.ErrorIs(t, err, generic.ErrMemberNotFound)
	})
}

func TestHolidays_CompanyPlusGlobal(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s generic.Store) {
		ctx := context.Background()
		require.NoError(t, s.SaveHoliday(ctx, generic.Holiday{ID: "xmas", Date: generic.NewTimePoint(2025, 12, 25), Name: "Christmas", Recurring: true}))
		require.NoError(t, s.SaveHoliday(ctx, generic.Holiday{ID: "offsite", CompanyID: "acme", Date: generic.NewTimePoint(2025, 3, 12), Name: "Offsite"}))
		require.NoError(t, s.SaveHoliday(ctx, generic.Holiday{ID: "other", CompanyID: "globex", Date: generic.NewTimePoint(2025, 5, 1), Name: "Other"}))

		got, err := s.ListHolidays(ctx, "acme")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "offsite", got[0].ID)
		assert.True(t, got[1].Recurring)
		assert.True(t, generic.HolidayList(got).IsHoliday("acme", generic.NewTimePoint(2030, 12, 25)))
	})
}

func TestReset(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s generic.Store) {
		ctx := context.Background()
		seedTeam(t, s, "acme")
		w := week(t, "2025-03-10")
		require.NoError(t, s.UpsertAllocations(ctx, []generic.Allocation{{CompanyID: "acme", MemberID: "ana", ProjectID: "p1", Week: w, Hours: generic.NewHours(1)}}))

		require.NoError(t, s.Reset(ctx))

		companies, err := s.ListCompanies(ctx)
		require.NoError(t, err)
		assert.Empty(t, companies)
		rows, err := s.ListAllocations(ctx, "acme", w, w)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
