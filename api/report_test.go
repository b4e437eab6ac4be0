package api

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/generic/store"
)

type failingLeaveStore struct {
	*store.Memory
}

var errLeaveDown = errors.New("leave service unavailable")

func (failingLeaveStore) ListLeave(context.Context, generic.CompanyID, generic.Period) ([]generic.LeaveEntry, error) {
	return nil, errLeaveDown
}

func TestReporter_CachesPerWindow(t *testing.T) {
	h := setupTestHandler(t)
	seedTestCompany(t, h, generic.DefaultSettings(), generic.Member{ID: "ana", Name: "Ana"})
	ctx := t.Context()

	month := generic.ResolvePeriod(generic.ViewOneMonth, fixedNow)
	quarter := generic.ResolvePeriod(generic.ViewThreeMonths, fixedNow)

	a, err := h.Reports.Build(ctx, "acme", month)
	require.NoError(t, err)
	b, err := h.Reports.Build(ctx, "acme", month)
	require.NoError(t, err)
	assert.Same(t, a, b)

	c, err := h.Reports.Build(ctx, "acme", quarter)
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, h.Reports.Cache.Len())

	h.Reports.Invalidate("acme")
	assert.Zero(t, h.Reports.Cache.Len())
}

// danglingRowStore returns one extra row for a member that was never saved,
// as a database written before references were enforced would.
type danglingRowStore struct {
	*store.Memory
}

func (s danglingRowStore) ListAllocations(ctx context.Context, companyID generic.CompanyID, from, to generic.Week) ([]generic.Allocation, error) {
	rows, err := s.Memory.ListAllocations(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}
	return append(rows, generic.Allocation{
		CompanyID: companyID, MemberID: "ghost", ProjectID: "p1",
		Week: generic.WeekOf(generic.FromTime(fixedNow)), Hours: generic.NewHours(44),
	}), nil
}

func TestReporter_RowsForUnlistedMembers(t *testing.T) {
	// GIVEN: The store lists a row for a member it does not list
	mem := store.NewMemory()
	h := NewHandler(danglingRowStore{mem})
	h.Now = func() time.Time { return fixedNow }
	seedTestCompany(t, h, generic.DefaultSettings())

	// WHEN: Building the report
	report, err := h.Reports.Build(t.Context(), "acme", generic.ResolvePeriod(generic.ViewOneMonth, fixedNow))
	require.NoError(t, err)

	// THEN: The member still appears, measured against the company week
	assert.True(t, report.Capacities["ghost"].Equal(generic.HoursFromInt(40)))
	assert.Equal(t, 1, report.Insights.Counts[generic.ZoneOverAllocated])
	grid := report.Grid(generic.ModeHours)
	assert.Equal(t, "ghost", findRow(t, grid, "ghost").MemberID)
}

// gatedStore blocks the first ListAllocations until release is closed.
type gatedStore struct {
	*store.Memory
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (s *gatedStore) ListAllocations(ctx context.Context, companyID generic.CompanyID, from, to generic.Week) ([]generic.Allocation, error) {
	rows, err := s.Memory.ListAllocations(ctx, companyID, from, to)
	s.once.Do(func() {
		close(s.entered)
		<-s.release
	})
	return rows, err
}

func TestReporter_WriteDuringBuildIsNotMasked(t *testing.T) {
	// GIVEN: A build that has read 10h and is still running
	gated := &gatedStore{Memory: store.NewMemory(), entered: make(chan struct{}), release: make(chan struct{})}
	h := NewHandler(gated)
	h.Now = func() time.Time { return fixedNow }
	seedTestCompany(t, h, generic.DefaultSettings(), generic.Member{ID: "ana", Name: "Ana"})
	week := generic.WeekOf(generic.FromTime(fixedNow))
	require.NoError(t, gated.UpsertAllocations(t.Context(), []generic.Allocation{
		{CompanyID: "acme", MemberID: "ana", ProjectID: "p1", Week: week, Hours: generic.NewHours(10)},
	}))
	window := generic.ResolvePeriod(generic.ViewOneMonth, fixedNow)

	done := make(chan *Report)
	go func() {
		report, err := h.Reports.Build(context.Background(), "acme", window)
		assert.NoError(t, err)
		done <- report
	}()
	<-gated.entered

	// WHEN: The cell is rewritten and the company invalidated mid-build
	require.NoError(t, gated.UpsertAllocations(t.Context(), []generic.Allocation{
		{CompanyID: "acme", MemberID: "ana", ProjectID: "p1", Week: week, Hours: generic.NewHours(30)},
	}))
	h.Reports.Invalidate("acme")
	close(gated.release)
	stale := <-done

	// THEN: The stale report is not cached and the next build sees 30h
	require.NotNil(t, stale)
	assert.True(t, stale.Aggregation.GrandTotal().Equal(generic.HoursFromInt(10)))
	assert.Zero(t, h.Reports.Cache.Len())

	fresh, err := h.Reports.Build(t.Context(), "acme", window)
	require.NoError(t, err)
	assert.True(t, fresh.Aggregation.GrandTotal().Equal(generic.HoursFromInt(30)))
	assert.Equal(t, 1, h.Reports.Cache.Len())
}

func TestReporter_FetchErrorIsNotCached(t *testing.T) {
	mem := store.NewMemory()
	h := NewHandler(failingLeaveStore{mem})
	h.Now = func() time.Time { return fixedNow }
	require.NoError(t, mem.SaveCompany(t.Context(), generic.Company{ID: "acme", Name: "Acme", Settings: generic.DefaultSettings()}))

	_, err := h.Reports.Build(t.Context(), "acme", generic.ResolvePeriod(generic.ViewOneMonth, fixedNow))
	require.ErrorIs(t, err, errLeaveDown)
	assert.Zero(t, h.Reports.Cache.Len())
}

func TestCacheJanitor_PrunesPastWindows(t *testing.T) {
	h := setupTestHandler(t)
	seedTestCompany(t, h, generic.DefaultSettings())
	_, err := h.Reports.Build(t.Context(), "acme", generic.ResolvePeriod(generic.ViewOneMonth, fixedNow))
	require.NoError(t, err)

	janitor := NewCacheJanitor(h)
	assert.Zero(t, janitor.RunNow(), "same week keeps the window")

	// A week later every view starts one week on.
	h.Now = func() time.Time { return fixedNow.AddDate(0, 0, 7) }
	assert.Equal(t, 1, janitor.RunNow())
	assert.Zero(t, h.Reports.Cache.Len())
}

func TestCacheJanitor_StartStop(t *testing.T) {
	h := setupTestHandler(t)
	janitor := NewCacheJanitor(h)
	janitor.CheckInterval = time.Millisecond
	janitor.Start()
	janitor.Start()
	janitor.Stop()
	janitor.Stop()

	janitor.Enabled = false
	janitor.Start()
	assert.Nil(t, janitor.ticker)
}
