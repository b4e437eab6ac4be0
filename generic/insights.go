/*
insights.go - Insights Classifier

PURPOSE:
  Labels a utilization ratio ((allocated + leave) / capacity) with the zone
  that drives colouring and alerting on every planning surface.

ZONES (default thresholds):
  ratio >  1.0          over_allocated
  0.8 <= ratio <= 1.0   at_capacity
  0.2 <= ratio <  0.8   available
  ratio <  0.2          needs_attention

POLICY:
  Thresholds live in one named struct carried on the company settings.
  Every view classifies through the same Thresholds value instead of
  hardcoding its own cutoffs.

SEE ALSO:
  - aggregate.go: Produces the ratios
  - factory/settings.go: Parses thresholds from JSON/YAML
*/
package generic

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ZONES
// =============================================================================

// Zone is the derived utilization classification.
type Zone string

const (
	ZoneNeedsAttention Zone = "needs_attention"
	ZoneAvailable      Zone = "available"
	ZoneAtCapacity     Zone = "at_capacity"
	ZoneOverAllocated  Zone = "over_allocated"
)

// Zones lists every zone from least to most utilized.
var Zones = []Zone{ZoneNeedsAttention, ZoneAvailable, ZoneAtCapacity, ZoneOverAllocated}

// =============================================================================
// THRESHOLDS
// =============================================================================

// Thresholds are the ratio cutoffs between zones.
type Thresholds struct {
	// Ratios strictly above OverAllocated are over-allocated.
	OverAllocated decimal.Decimal
	// Ratios at or above AtCapacity (and not over) are at capacity.
	AtCapacity decimal.Decimal
	// Ratios at or above Available (and below AtCapacity) are available.
	Available decimal.Decimal
}

// DefaultThresholds returns the standard 0.2 / 0.8 / 1.0 policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OverAllocated: decimal.NewFromInt(1),
		AtCapacity:    decimal.RequireFromString("0.8"),
		Available:     decimal.RequireFromString("0.2"),
	}
}

// Validate requires 0 <= Available <= AtCapacity <= OverAllocated.
func (t Thresholds) Validate() error {
	if t.Available.IsNegative() {
		return fmt.Errorf("%w: available %s is negative", ErrInvalidThresholds, t.Available)
	}
	if t.AtCapacity.LessThan(t.Available) {
		return fmt.Errorf("%w: at_capacity %s below available %s", ErrInvalidThresholds, t.AtCapacity, t.Available)
	}
	if t.OverAllocated.LessThan(t.AtCapacity) {
		return fmt.Errorf("%w: over_allocated %s below at_capacity %s", ErrInvalidThresholds, t.OverAllocated, t.AtCapacity)
	}
	return nil
}

// Classify maps a ratio to its zone. Ratios are never clamped.
func (t Thresholds) Classify(ratio decimal.Decimal) Zone {
	switch {
	case ratio.GreaterThan(t.OverAllocated):
		return ZoneOverAllocated
	case ratio.GreaterThanOrEqual(t.AtCapacity):
		return ZoneAtCapacity
	case ratio.GreaterThanOrEqual(t.Available):
		return ZoneAvailable
	default:
		return ZoneNeedsAttention
	}
}

// Classify uses DefaultThresholds.
func Classify(ratio decimal.Decimal) Zone {
	return DefaultThresholds().Classify(ratio)
}

// =============================================================================
// INSIGHTS - Per member/week classification over an aggregation
// =============================================================================

// CellInsight is one member's utilization in one week.
type CellInsight struct {
	MemberID  MemberID
	Week      Week
	Allocated Hours
	Leave     Hours
	Capacity  Hours
	Ratio     decimal.Decimal
	Zone      Zone
}

// Insights is the classified view of an aggregation.
type Insights struct {
	Cells []CellInsight

	// Counts tallies cells per zone.
	Counts map[Zone]int

	// MemberZones is each member's zone over the whole window.
	MemberZones map[MemberID]Zone
}

// BuildInsights classifies every (member, week) in the aggregation.
// capacities supplies each member's weekly capacity; missing members get
// the default work week.
func BuildInsights(agg *Aggregation, members []MemberID, capacities map[MemberID]Hours, t Thresholds) Insights {
	out := Insights{
		Counts:      make(map[Zone]int, len(Zones)),
		MemberZones: make(map[MemberID]Zone, len(members)),
	}
	for _, z := range Zones {
		out.Counts[z] = 0
	}

	sorted := append([]MemberID(nil), members...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, m := range sorted {
		capacity, ok := capacities[m]
		if !ok || !capacity.IsPositive() {
			capacity = HoursFromInt(DefaultWeeklyHours)
		}
		for _, w := range agg.Weeks() {
			ratio := agg.Utilization(m, w, capacity)
			zone := t.Classify(ratio)
			out.Cells = append(out.Cells, CellInsight{
				MemberID:  m,
				Week:      w,
				Allocated: agg.MemberWeekTotal(m, w),
				Leave:     agg.LeaveTotal(m, w),
				Capacity:  capacity,
				Ratio:     ratio,
				Zone:      zone,
			})
			out.Counts[zone]++
		}
		out.MemberZones[m] = t.Classify(agg.WindowUtilization(m, capacity))
	}
	return out
}
