/*
aggregate.go - Allocation Aggregator

PURPOSE:
  Reduces raw allocation and leave rows for a window of weeks into the
  totals every planning surface renders: per member, per week, per
  member/week, per project and per member/project.

KEY PROPERTIES:
  Window authority:
    Every requested week appears in the week totals, even with no rows.
    Rows for weeks outside the window are ignored, not rejected.

  Order independence:
    Sums use exact decimals, so the same rows in any order produce the
    same totals.

  Conservation:
    sum(WeekTotal) == sum(MemberTotal) == GrandTotal. Every counted hour
    lands in exactly one member and one week.

DUPLICATE KEYS:
  Two rows for the same (member, project, week) do not add up. The row
  with the later UpdatedAt replaces the other; with equal UpdatedAt the
  row appearing later in the input wins. This matches the grid, where
  typing into a cell replaces its value.

LEAVE:
  Leave hours are kept apart from project hours. They never show up in
  WeekTotal or MemberTotal, only in LeaveTotal and in Utilization.

SEE ALSO:
  - insights.go: Classifies Utilization ratios
  - timeoff/leave.go: Produces leave rows from requests
*/
package generic

import (
	"sort"

	"github.com/shopspring/decimal"
)

type allocationKey struct {
	Member  MemberID
	Project ProjectID
	Week    Week
}

type memberWeek struct {
	Member MemberID
	Week   Week
}

type memberProject struct {
	Member  MemberID
	Project ProjectID
}

// ProjectHours is one line of a member's project breakdown.
type ProjectHours struct {
	ProjectID ProjectID
	Hours     Hours
	IsActive  bool
}

// Aggregation holds the reduced totals for one window.
type Aggregation struct {
	weeks  []Week
	window map[Week]bool

	weekTotals    map[Week]decimal.Decimal
	memberTotals  map[MemberID]decimal.Decimal
	projectTotals map[ProjectID]decimal.Decimal
	memberWeek    map[memberWeek]decimal.Decimal
	memberProject map[memberProject]decimal.Decimal

	leave       map[memberWeek]decimal.Decimal
	memberLeave map[MemberID]decimal.Decimal

	ignored int
}

// Aggregate reduces allocations and leave over weeks.
func Aggregate(weeks []Week, allocations []Allocation, leave []LeaveEntry) *Aggregation {
	a := &Aggregation{
		weeks:         append([]Week(nil), weeks...),
		window:        make(map[Week]bool, len(weeks)),
		weekTotals:    make(map[Week]decimal.Decimal, len(weeks)),
		memberTotals:  make(map[MemberID]decimal.Decimal),
		projectTotals: make(map[ProjectID]decimal.Decimal),
		memberWeek:    make(map[memberWeek]decimal.Decimal),
		memberProject: make(map[memberProject]decimal.Decimal),
		leave:         make(map[memberWeek]decimal.Decimal),
		memberLeave:   make(map[MemberID]decimal.Decimal),
	}
	for _, w := range weeks {
		a.window[w] = true
		a.weekTotals[w] = decimal.Zero
	}

	for _, row := range a.dedupe(allocations) {
		h := row.Hours.Value
		a.weekTotals[row.Week] = a.weekTotals[row.Week].Add(h)
		a.memberTotals[row.MemberID] = a.memberTotals[row.MemberID].Add(h)
		a.projectTotals[row.ProjectID] = a.projectTotals[row.ProjectID].Add(h)
		mw := memberWeek{Member: row.MemberID, Week: row.Week}
		a.memberWeek[mw] = a.memberWeek[mw].Add(h)
		mp := memberProject{Member: row.MemberID, Project: row.ProjectID}
		a.memberProject[mp] = a.memberProject[mp].Add(h)
	}

	for _, l := range leave {
		w := l.Week()
		if !a.window[w] || l.Hours.IsNegative() {
			a.ignored++
			continue
		}
		mw := memberWeek{Member: l.MemberID, Week: w}
		a.leave[mw] = a.leave[mw].Add(l.Hours.Value)
		a.memberLeave[l.MemberID] = a.memberLeave[l.MemberID].Add(l.Hours.Value)
	}
	return a
}

// dedupe keeps one row per key inside the window.
func (a *Aggregation) dedupe(allocations []Allocation) map[allocationKey]Allocation {
	rows := make(map[allocationKey]Allocation, len(allocations))
	for _, row := range allocations {
		if !a.window[row.Week] || row.Hours.IsNegative() {
			a.ignored++
			continue
		}
		k := allocationKey{Member: row.MemberID, Project: row.ProjectID, Week: row.Week}
		if prev, ok := rows[k]; ok && row.UpdatedAt.Before(prev.UpdatedAt) {
			continue
		}
		rows[k] = row
	}
	return rows
}

// =============================================================================
// QUERIES
// =============================================================================

// Weeks returns the window the aggregation was built for.
func (a *Aggregation) Weeks() []Week { return append([]Week(nil), a.weeks...) }

// Ignored counts rows dropped for falling outside the window or being negative.
func (a *Aggregation) Ignored() int { return a.ignored }

// MemberTotal is the member's project hours across all weeks.
func (a *Aggregation) MemberTotal(m MemberID) Hours { return Hours{Value: a.memberTotals[m]} }

// WeekTotal is every member's project hours in week w.
func (a *Aggregation) WeekTotal(w Week) Hours { return Hours{Value: a.weekTotals[w]} }

// ProjectTotal is every member's hours on project p.
func (a *Aggregation) ProjectTotal(p ProjectID) Hours { return Hours{Value: a.projectTotals[p]} }

// MemberWeekTotal is the member's project hours in week w.
func (a *Aggregation) MemberWeekTotal(m MemberID, w Week) Hours {
	return Hours{Value: a.memberWeek[memberWeek{Member: m, Week: w}]}
}

// LeaveTotal is the member's leave hours in week w.
func (a *Aggregation) LeaveTotal(m MemberID, w Week) Hours {
	return Hours{Value: a.leave[memberWeek{Member: m, Week: w}]}
}

// MemberLeaveTotal is the member's leave hours across the window.
func (a *Aggregation) MemberLeaveTotal(m MemberID) Hours { return Hours{Value: a.memberLeave[m]} }

// WeekTotals returns a copy of every week's total, including empty weeks.
func (a *Aggregation) WeekTotals() map[Week]Hours {
	out := make(map[Week]Hours, len(a.weekTotals))
	for w, v := range a.weekTotals {
		out[w] = Hours{Value: v}
	}
	return out
}

// MemberTotals returns a copy of every member's total.
func (a *Aggregation) MemberTotals() map[MemberID]Hours {
	out := make(map[MemberID]Hours, len(a.memberTotals))
	for m, v := range a.memberTotals {
		out[m] = Hours{Value: v}
	}
	return out
}

// GrandTotal is all project hours in the window.
func (a *Aggregation) GrandTotal() Hours {
	total := decimal.Zero
	for _, v := range a.weekTotals {
		total = total.Add(v)
	}
	return Hours{Value: total}
}

// MemberProjectBreakdown lists the projects the member has rows for, sorted
// by project ID. Zero-hour rows appear with IsActive false.
func (a *Aggregation) MemberProjectBreakdown(m MemberID) []ProjectHours {
	var out []ProjectHours
	for k, v := range a.memberProject {
		if k.Member != m {
			continue
		}
		out = append(out, ProjectHours{ProjectID: k.Project, Hours: Hours{Value: v}, IsActive: v.IsPositive()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProjectID < out[j].ProjectID })
	return out
}

// Members lists everyone with allocation or leave rows, sorted.
func (a *Aggregation) Members() []MemberID {
	seen := make(map[MemberID]bool)
	for k := range a.memberWeek {
		seen[k.Member] = true
	}
	for m := range a.memberLeave {
		seen[m] = true
	}
	out := make([]MemberID, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Projects lists every project with rows, sorted.
func (a *Aggregation) Projects() []ProjectID {
	out := make([]ProjectID, 0, len(a.projectTotals))
	for p := range a.projectTotals {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Utilization is (allocated + leave) / capacity for one week. Not capped.
func (a *Aggregation) Utilization(m MemberID, w Week, capacity Hours) decimal.Decimal {
	used := a.MemberWeekTotal(m, w).Add(a.LeaveTotal(m, w))
	return used.Ratio(capacity)
}

// WindowUtilization is the member's utilization over the whole window.
func (a *Aggregation) WindowUtilization(m MemberID, capacity Hours) decimal.Decimal {
	if len(a.weeks) == 0 {
		return decimal.Zero
	}
	used := a.MemberTotal(m).Add(a.MemberLeaveTotal(m))
	return used.Ratio(capacity.Mul(decimal.NewFromInt(int64(len(a.weeks)))))
}
