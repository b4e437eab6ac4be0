/*
store.go - Data access interface for planning rows

PURPOSE:
  Defines the boundary between the planning engine and whatever service
  owns the rows. Every query is filtered by company. The engine only
  reads snapshots through these interfaces; it never holds state of its
  own beyond the aggregate cache.

KEY INTERFACES:
  CompanyStore:    Company records and their planning settings
  MemberStore:     Members of a company
  ProjectStore:    Projects of a company
  AllocationStore: (member, project, week) -> hours, upsert semantics
  LeaveStore:      Leave entries consumed against capacity
  HolidayStore:    Company and global holidays skipped by leave requests
  Store:           All of the above

UPSERT CONTRACT:
  At most one allocation exists per (member, project, week). Writing the
  same key again replaces the hours; it never adds to them.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - aggregate.go: Consumes ListAllocations/ListLeave results
  - api/report.go: Fetches rows concurrently through this interface
*/
package generic

import "context"

type CompanyStore interface {
	SaveCompany(ctx context.Context, c Company) error
	// GetCompany returns ErrCompanyNotFound when missing.
	GetCompany(ctx context.Context, id CompanyID) (Company, error)
	ListCompanies(ctx context.Context) ([]Company, error)
}

type MemberStore interface {
	SaveMember(ctx context.Context, m Member) error
	// GetMember returns ErrMemberNotFound when missing.
	GetMember(ctx context.Context, companyID CompanyID, id MemberID) (Member, error)
	ListMembers(ctx context.Context, companyID CompanyID) ([]Member, error)
	// DeleteMember also removes the member's allocations and leave.
	DeleteMember(ctx context.Context, companyID CompanyID, id MemberID) error
}

type ProjectStore interface {
	SaveProject(ctx context.Context, p Project) error
	ListProjects(ctx context.Context, companyID CompanyID) ([]Project, error)
}

type AllocationStore interface {
	// UpsertAllocations writes rows atomically, replacing existing keys.
	// A row naming a missing member or project fails the whole batch with
	// ErrMemberNotFound or ErrProjectNotFound.
	UpsertAllocations(ctx context.Context, rows []Allocation) error

	// ListAllocations returns rows with week in [from, to].
	ListAllocations(ctx context.Context, companyID CompanyID, from, to Week) ([]Allocation, error)
}

type LeaveStore interface {
	// AddLeave fails with ErrDuplicateLeaveDay if a member would hold two
	// entries on one day.
	AddLeave(ctx context.Context, entries []LeaveEntry) error
	// ListLeave returns entries dated within period.
	ListLeave(ctx context.Context, companyID CompanyID, period Period) ([]LeaveEntry, error)
	DeleteLeave(ctx context.Context, companyID CompanyID, id string) error
}

type HolidayStore interface {
	SaveHoliday(ctx context.Context, h Holiday) error
	// ListHolidays returns the company's holidays plus global ones.
	ListHolidays(ctx context.Context, companyID CompanyID) ([]Holiday, error)
}

// Store is the full data access surface used by the API.
type Store interface {
	CompanyStore
	MemberStore
	ProjectStore
	AllocationStore
	LeaveStore
	HolidayStore

	// Reset removes all data. Development and demo use only.
	Reset(ctx context.Context) error
}
