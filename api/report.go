/*
report.go - Dashboard and grid report assembly

PURPOSE:
  Turns the rows of one company window into the planning views the
  frontend renders. This is where the engine's pieces meet:

    ResolvePeriod -> fetch rows -> Aggregate -> capacity per member -> BuildInsights

FETCH:
  Members, projects, allocations and leave are independent reads, so they
  run concurrently under an errgroup. The first error cancels the rest.

CAPACITY:
  Utilization always uses the member's own week (hours mode). The grid's
  percentage column uses the company week, so a typed 50% means the same
  hours for every member on the same team.

CACHING:
  Reports are cached per (company, window). Every write to a company's
  rows calls Reporter.Invalidate, which drops all of its windows and
  advances the company's generation. A build that started before the
  write is returned to its caller but never cached.

SEE ALSO:
  - generic/aggregate.go: Aggregate
  - generic/insights.go: BuildInsights
  - generic/cache.go: Cache
  - export.go: Writes a grid to xlsx
*/
package api

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/timeoff"
)

// Report is the computed planning view of one company window.
type Report struct {
	Company     generic.Company
	Window      generic.Window
	Members     []generic.Member
	Projects    []generic.Project
	Aggregation *generic.Aggregation
	Capacities  map[generic.MemberID]generic.Hours
	Insights    generic.Insights
	Leave       []timeoff.WeeklyLeave
}

// View returns the view option the report's window corresponds to.
func (r *Report) View() generic.ViewOption {
	return generic.PeriodToViewOption(r.Window.WeekCount)
}

// Reporter builds reports from a store and caches them.
type Reporter struct {
	Store generic.Store
	Cache *generic.Cache[*Report]
}

func NewReporter(store generic.Store) *Reporter {
	return &Reporter{Store: store, Cache: generic.NewCache[*Report]()}
}

// Build returns the report for a company window, from cache when possible.
func (rp *Reporter) Build(ctx context.Context, companyID generic.CompanyID, window generic.Window) (*Report, error) {
	key := generic.KeyFor(companyID, window)
	if report, ok := rp.Cache.Get(key); ok {
		return report, nil
	}

	gen := rp.Cache.Generation(companyID)
	company, err := rp.Store.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var (
		members     []generic.Member
		projects    []generic.Project
		allocations []generic.Allocation
		leave       []generic.LeaveEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = rp.Store.ListMembers(gctx, companyID)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = rp.Store.ListProjects(gctx, companyID)
		return err
	})
	g.Go(func() error {
		var err error
		allocations, err = rp.Store.ListAllocations(gctx, companyID, window.Start, window.Last())
		return err
	})
	g.Go(func() error {
		var err error
		leave, err = rp.Store.ListLeave(gctx, companyID, window.Period())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load rows for %s: %w", companyID, err)
	}

	agg := generic.Aggregate(window.Weeks(), allocations, leave)

	capacities := make(map[generic.MemberID]generic.Hours, len(members))
	ids := make([]generic.MemberID, 0, len(members))
	for _, m := range members {
		capacities[m.ID] = generic.MemberCapacity(generic.ModeHours, company.Settings, m)
		ids = append(ids, m.ID)
	}
	// Rows may reference members the snapshot no longer lists.
	for _, id := range agg.Members() {
		if _, ok := capacities[id]; !ok {
			capacities[id] = generic.MemberCapacity(generic.ModeHours, company.Settings, generic.Member{ID: id})
			ids = append(ids, id)
		}
	}

	report := &Report{
		Company:     company,
		Window:      window,
		Members:     members,
		Projects:    projects,
		Aggregation: agg,
		Capacities:  capacities,
		Insights:    generic.BuildInsights(agg, ids, capacities, company.Settings.Thresholds),
		Leave:       timeoff.WeeklyLeaveHours(leave),
	}
	if !rp.Cache.PutIfCurrent(key, report, gen) {
		log.Debug().Str("company", string(companyID)).Msg("report invalidated while building, not cached")
	}

	log.Debug().
		Str("company", string(companyID)).
		Str("start", window.Start.String()).
		Int("weeks", window.WeekCount).
		Int("allocations", len(allocations)).
		Int("ignored", agg.Ignored()).
		Msg("report built")
	return report, nil
}

// Invalidate drops every cached window of a company.
func (rp *Reporter) Invalidate(companyID generic.CompanyID) {
	if n := rp.Cache.Invalidate(companyID); n > 0 {
		log.Debug().Str("company", string(companyID)).Int("entries", n).Msg("report cache invalidated")
	}
}

// =============================================================================
// VIEWS
// =============================================================================

func memberNames(members []generic.Member) map[generic.MemberID]string {
	names := make(map[generic.MemberID]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}
	return names
}

// Dashboard renders the report's totals and zones.
func (r *Report) Dashboard() DashboardDTO {
	agg := r.Aggregation
	weeks := agg.Weeks()

	dto := DashboardDTO{
		CompanyID:  string(r.Company.ID),
		Period:     toPeriodDTO(r.View(), r.Window),
		TotalHours: agg.GrandTotal().Float64(),
		WeekTotals: make([]WeekTotalDTO, len(weeks)),
		ZoneCounts: make(map[string]int, len(generic.Zones)),
		Ignored:    agg.Ignored(),
	}
	for i, w := range weeks {
		dto.WeekTotals[i] = WeekTotalDTO{Week: w.String(), Hours: agg.WeekTotal(w).Float64()}
	}
	for zone, n := range r.Insights.Counts {
		dto.ZoneCounts[string(zone)] = n
	}

	codes := make(map[generic.ProjectID]string, len(r.Projects))
	for _, p := range r.Projects {
		codes[p.ID] = p.Code
	}
	names := memberNames(r.Members)
	leaveByType := r.leaveByType()

	for _, id := range sortedMemberIDs(r.Capacities) {
		capacity := r.Capacities[id]
		util, _ := agg.WindowUtilization(id, capacity).Float64()
		line := MemberSummaryDTO{
			MemberID:    string(id),
			Name:        names[id],
			Capacity:    capacity.Float64(),
			Allocated:   agg.MemberTotal(id).Float64(),
			Leave:       agg.MemberLeaveTotal(id).Float64(),
			LeaveByType: leaveByType[id],
			Utilization: util,
			Zone:        string(r.Insights.MemberZones[id]),
			Projects:    []ProjectHoursDTO{},
		}
		for _, ph := range agg.MemberProjectBreakdown(id) {
			line.Projects = append(line.Projects, ProjectHoursDTO{
				ProjectID: string(ph.ProjectID),
				Code:      codes[ph.ProjectID],
				Hours:     ph.Hours.Float64(),
				IsActive:  ph.IsActive,
			})
		}
		dto.Members = append(dto.Members, line)
	}
	if dto.Members == nil {
		dto.Members = []MemberSummaryDTO{}
	}
	return dto
}

// leaveByType sums each member's leave across the window per leave type.
func (r *Report) leaveByType() map[generic.MemberID]map[string]float64 {
	sums := make(map[generic.MemberID]map[string]generic.Hours)
	for _, wl := range r.Leave {
		if !r.Window.Contains(wl.Week) {
			continue
		}
		if sums[wl.MemberID] == nil {
			sums[wl.MemberID] = make(map[string]generic.Hours, len(wl.ByType))
		}
		for typ, h := range wl.ByType {
			sums[wl.MemberID][typ] = sums[wl.MemberID][typ].Add(h)
		}
	}
	out := make(map[generic.MemberID]map[string]float64, len(sums))
	for id, byType := range sums {
		out[id] = make(map[string]float64, len(byType))
		for typ, h := range byType {
			out[id][typ] = h.Float64()
		}
	}
	return out
}

// Grid renders the member x week grid with values in mode.
func (r *Report) Grid(mode generic.DisplayMode) GridDTO {
	agg := r.Aggregation
	weeks := agg.Weeks()

	zones := make(map[generic.MemberID]map[generic.Week]generic.Zone)
	for _, c := range r.Insights.Cells {
		if zones[c.MemberID] == nil {
			zones[c.MemberID] = make(map[generic.Week]generic.Zone, len(weeks))
		}
		zones[c.MemberID][c.Week] = c.Zone
	}

	members := make(map[generic.MemberID]generic.Member, len(r.Members))
	for _, m := range r.Members {
		members[m.ID] = m
	}

	dto := GridDTO{
		CompanyID:  string(r.Company.ID),
		Mode:       string(mode),
		Period:     toPeriodDTO(r.View(), r.Window),
		Rows:       []GridRowDTO{},
		WeekTotals: make([]float64, len(weeks)),
	}
	for i, w := range weeks {
		dto.WeekTotals[i] = agg.WeekTotal(w).Float64()
	}

	for _, id := range sortedMemberIDs(r.Capacities) {
		m, ok := members[id]
		if !ok {
			m = generic.Member{ID: id}
		}
		denominator := generic.MemberCapacity(mode, r.Company.Settings, m)
		row := GridRowDTO{
			MemberID: string(id),
			Name:     m.Name,
			Capacity: denominator.Float64(),
			Cells:    make([]GridCellDTO, len(weeks)),
			Total:    agg.MemberTotal(id).Float64(),
		}
		for i, w := range weeks {
			hours := agg.MemberWeekTotal(id, w)
			row.Cells[i] = GridCellDTO{
				Week:  w.String(),
				Value: cellValue(mode, hours, denominator),
				Hours: hours.Float64(),
				Leave: agg.LeaveTotal(id, w).Float64(),
				Zone:  string(zones[id][w]),
			}
		}
		dto.Rows = append(dto.Rows, row)
	}
	return dto
}

func cellValue(mode generic.DisplayMode, hours, capacity generic.Hours) float64 {
	if mode != generic.ModePercentage {
		return hours.Float64()
	}
	f, _ := generic.HoursToPercent(hours, capacity).Round(2).Float64()
	return f
}

// hoursFromPercent converts a typed percentage into hours of the company week.
func hoursFromPercent(settings generic.CompanySettings, percent float64) generic.Hours {
	weekly := settings.WeeklyHours
	capacity := generic.ResolveCapacity(generic.ModePercentage, generic.CapacityInputs{CompanyWeeklyHours: &weekly})
	return generic.PercentToHours(decimal.NewFromFloat(percent), capacity)
}

func sortedMemberIDs(m map[generic.MemberID]generic.Hours) []generic.MemberID {
	ids := make([]generic.MemberID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
