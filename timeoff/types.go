// Package timeoff implements leave tracking for resource planning.
// Leave consumes member capacity alongside project allocations; this
// package defines the leave types and turns leave requests into the
// per-day generic.LeaveEntry rows the aggregator reads.
package timeoff

import "github.com/warp/resource-planner/generic"

// =============================================================================
// LEAVE RESOURCE TYPE
// =============================================================================

// Resource is the concrete leave type.
// Implements generic.ResourceType interface.
type Resource string

func (r Resource) ResourceID() string     { return string(r) }
func (r Resource) ResourceDomain() string { return "timeoff" }

// Compile-time check that Resource implements generic.ResourceType
var _ generic.ResourceType = Resource("")

const (
	LeaveAnnual        Resource = "annual"
	LeaveSick          Resource = "sick"
	LeavePersonal      Resource = "personal"
	LeaveParental      Resource = "parental"
	LeavePublicHoliday Resource = "public_holiday"
	LeaveUnpaid        Resource = "unpaid"
	LeaveOther         Resource = "other"
)

// AllLeaveTypes lists every built-in leave type.
var AllLeaveTypes = []Resource{
	LeaveAnnual, LeaveSick, LeavePersonal, LeaveParental,
	LeavePublicHoliday, LeaveUnpaid, LeaveOther,
}

// Register all leave types with the generic registry
func init() {
	for _, r := range AllLeaveTypes {
		generic.RegisterResource(r)
	}
}

// DefaultHoursPerDay is booked per leave day when a request sets none.
const DefaultHoursPerDay = 8
