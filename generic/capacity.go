/*
capacity.go - Capacity Resolver

PURPOSE:
  Picks the single weekly-hours denominator used to convert between
  allocated hours and allocation percentage.

RULES:
  Percentage mode:
    capacity = company weekly hours ?? 40
    A typed percentage is always relative to the company work week, so
    50% means the same number of hours for everybody on a team view.

  Hours mode:
    capacity = member capacity ?? fallback ?? company weekly hours ?? 40

  Zero or negative inputs count as unset. The result is always > 0.

SEE ALSO:
  - aggregate.go: Utilization divides by this capacity
  - api/report.go: Resolves capacity per member for the dashboard
*/
package generic

import "github.com/shopspring/decimal"

// CapacityInputs are the optional values the resolver chooses from.
type CapacityInputs struct {
	CompanyWeeklyHours   *Hours
	MemberWeeklyCapacity *Hours
	Fallback             *Hours
}

// ResolveCapacity returns the weekly capacity denominator for mode.
func ResolveCapacity(mode DisplayMode, in CapacityInputs) Hours {
	if mode == ModePercentage {
		return firstPositive(in.CompanyWeeklyHours)
	}
	return firstPositive(in.MemberWeeklyCapacity, in.Fallback, in.CompanyWeeklyHours)
}

// MemberCapacity resolves capacity for a member under company settings.
func MemberCapacity(mode DisplayMode, settings CompanySettings, m Member) Hours {
	company := settings.WeeklyHours
	return ResolveCapacity(mode, CapacityInputs{
		CompanyWeeklyHours:   &company,
		MemberWeeklyCapacity: m.WeeklyCapacity,
	})
}

func firstPositive(candidates ...*Hours) Hours {
	for _, c := range candidates {
		if c != nil && c.IsPositive() {
			return *c
		}
	}
	return HoursFromInt(DefaultWeeklyHours)
}

var hundred = decimal.NewFromInt(100)

// HoursToPercent converts hours to a percentage of capacity.
func HoursToPercent(h Hours, capacity Hours) decimal.Decimal {
	return h.Ratio(capacity).Mul(hundred)
}

// PercentToHours converts a percentage of capacity back to hours.
func PercentToHours(percent decimal.Decimal, capacity Hours) Hours {
	return capacity.Mul(percent.Div(hundred))
}
