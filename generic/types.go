/*
Package generic provides the core resource planning engine.

PURPOSE:
  This package contains the domain types and pure algorithms behind every
  planning surface: the dashboard, the weekly overview and the resourcing
  grid all reduce the same raw rows (allocations and leave) into totals,
  utilization ratios and zones.

KEY CONCEPTS IN THIS FILE (types.go):
  - Hours: A non-negative quantity of working time (decimal, never float)
  - Identifiers: Type-safe Company/Member/Project IDs
  - DisplayMode: Whether the grid is edited in percentages or hours

DESIGN PRINCIPLES:
  1. Purity: Aggregation, capacity, period and zone logic never touch I/O
  2. Precision: Uses decimal.Decimal so sums are exact and order independent
  3. Type Safety: Strong typing for IDs prevents mixing member/project IDs
  4. Explicit time: "now" is always a parameter, never read from a clock

USAGE:
  window := generic.ResolvePeriod(generic.ViewThreeMonths, now)
  agg := generic.Aggregate(window.Weeks(), allocations, leave)
  capacity := generic.ResolveCapacity(generic.ModeHours, generic.CapacityInputs{...})
  zone := settings.Thresholds.Classify(agg.Utilization(memberID, week, capacity))

SEE ALSO:
  - capacity.go: Capacity Resolver
  - aggregate.go: Allocation Aggregator
  - period.go: Date/Period Resolver
  - insights.go: Insights Classifier
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS - Quantity of working time
// =============================================================================

// Hours is a quantity of working time. Values are exact decimals so that
// summing the same rows in any order yields the same total.
type Hours struct {
	Value decimal.Decimal
}

// DefaultWeeklyHours is the standard work week used when nothing else is set.
const DefaultWeeklyHours = 40

func NewHours(value float64) Hours { return Hours{Value: decimal.NewFromFloat(value)} }
func HoursFromInt(value int) Hours { return Hours{Value: decimal.NewFromInt(int64(value))} }
func ZeroHours() Hours             { return Hours{Value: decimal.Zero} }

// ParseHours parses a decimal string such as "7.5".
func ParseHours(s string) (Hours, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Hours{}, err
	}
	return Hours{Value: d}, nil
}

// MustParseDecimal parses s or returns zero.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (h Hours) Add(o Hours) Hours           { return Hours{Value: h.Value.Add(o.Value)} }
func (h Hours) Sub(o Hours) Hours           { return Hours{Value: h.Value.Sub(o.Value)} }
func (h Hours) Mul(s decimal.Decimal) Hours { return Hours{Value: h.Value.Mul(s)} }
func (h Hours) IsNegative() bool            { return h.Value.IsNegative() }
func (h Hours) IsZero() bool                { return h.Value.IsZero() }
func (h Hours) IsPositive() bool            { return h.Value.IsPositive() }
func (h Hours) Equal(o Hours) bool          { return h.Value.Equal(o.Value) }
func (h Hours) GreaterThan(o Hours) bool    { return h.Value.GreaterThan(o.Value) }
func (h Hours) LessThan(o Hours) bool       { return h.Value.LessThan(o.Value) }
func (h Hours) String() string              { return h.Value.String() }

// Float64 returns the value as a float for JSON responses.
func (h Hours) Float64() float64 {
	f, _ := h.Value.Float64()
	return f
}

// Ratio returns h / denominator. A non-positive denominator yields zero.
func (h Hours) Ratio(denominator Hours) decimal.Decimal {
	if !denominator.IsPositive() {
		return decimal.Zero
	}
	return h.Value.Div(denominator.Value)
}

// HoursPtr is a convenience for optional inputs.
func HoursPtr(value float64) *Hours {
	h := NewHours(value)
	return &h
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type CompanyID string
type MemberID string
type ProjectID string

// =============================================================================
// DISPLAY MODE
// =============================================================================

// DisplayMode controls how allocations are typed and shown in the grid.
type DisplayMode string

const (
	ModePercentage DisplayMode = "percentage"
	ModeHours      DisplayMode = "hours"
)

// ParseDisplayMode returns the mode for s, defaulting to percentage.
func ParseDisplayMode(s string) (DisplayMode, bool) {
	switch DisplayMode(s) {
	case ModePercentage:
		return ModePercentage, true
	case ModeHours:
		return ModeHours, true
	case "":
		return ModePercentage, true
	default:
		return ModePercentage, false
	}
}

// ResourceType identifies a kind of leave consumed against capacity.
// This is an interface so domain packages define their own concrete types.
//
//   // In timeoff/types.go
//   type Resource string
//   func (r Resource) ResourceID() string     { return string(r) }
//   func (r Resource) ResourceDomain() string { return "timeoff" }
type ResourceType interface {
	// ResourceID returns the unique identifier for this resource type.
	ResourceID() string

	// ResourceDomain returns which domain this resource belongs to.
	ResourceDomain() string
}
