package generic

import (
	"time"
)

// =============================================================================
// ENTITIES - Rows owned by the data service, read as snapshots
// =============================================================================

// Company carries the company-wide planning settings.
type Company struct {
	ID       CompanyID
	Name     string
	Settings CompanySettings
}

func (c Company) Validate() error {
	if c.ID == "" {
		return missing("company", "id")
	}
	if c.Name == "" {
		return missing("company", "name")
	}
	return c.Settings.Validate()
}

type MemberStatus string

const (
	MemberActive        MemberStatus = "active"
	MemberPreRegistered MemberStatus = "pre_registered"
)

// Member is a person whose time is planned.
type Member struct {
	ID         MemberID
	CompanyID  CompanyID
	Name       string
	Status     MemberStatus
	Location   string
	Department string

	// WeeklyCapacity overrides the company work week when set.
	WeeklyCapacity *Hours
}

func (m Member) Validate() error {
	switch {
	case m.ID == "":
		return missing("member", "id")
	case m.CompanyID == "":
		return missing("member", "company_id")
	case m.Name == "":
		return missing("member", "name")
	}
	if m.Status != MemberActive && m.Status != MemberPreRegistered {
		return &RowError{Entity: "member", Field: "status", Err: ErrInvalidRow}
	}
	if m.WeeklyCapacity != nil && m.WeeklyCapacity.IsNegative() {
		return &RowError{Entity: "member", Field: "weekly_capacity", Err: ErrNegativeHours}
	}
	return nil
}

// Project is work members are allocated to.
type Project struct {
	ID        ProjectID
	CompanyID CompanyID
	Code      string
	Name      string
	Fee       *float64
	Stage     string
}

func (p Project) Validate() error {
	switch {
	case p.ID == "":
		return missing("project", "id")
	case p.CompanyID == "":
		return missing("project", "company_id")
	case p.Code == "":
		return missing("project", "code")
	case p.Name == "":
		return missing("project", "name")
	}
	return nil
}

// Allocation is the hours a member is scheduled on a project in a week.
// At most one exists per (member, project, week).
type Allocation struct {
	CompanyID CompanyID
	MemberID  MemberID
	ProjectID ProjectID
	Week      Week
	Hours     Hours

	// UpdatedAt orders competing writes to the same key.
	UpdatedAt time.Time
}

func (a Allocation) Validate() error {
	switch {
	case a.CompanyID == "":
		return missing("allocation", "company_id")
	case a.MemberID == "":
		return missing("allocation", "member_id")
	case a.ProjectID == "":
		return missing("allocation", "project_id")
	case a.Week.IsZero():
		return &RowError{Entity: "allocation", Field: "week", Err: ErrInvalidWeek}
	case a.Hours.IsNegative():
		return &RowError{Entity: "allocation", Field: "hours", Err: ErrNegativeHours}
	}
	return nil
}

// LeaveEntry is time off consumed against capacity on a single day.
type LeaveEntry struct {
	ID        string
	CompanyID CompanyID
	MemberID  MemberID
	Date      TimePoint
	Type      ResourceType
	Hours     Hours
	Note      string
}

func (l LeaveEntry) Validate() error {
	switch {
	case l.CompanyID == "":
		return missing("leave", "company_id")
	case l.MemberID == "":
		return missing("leave", "member_id")
	case l.Date.IsZero():
		return missing("leave", "date")
	case l.Type == nil:
		return missing("leave", "type")
	case l.Hours.IsNegative():
		return &RowError{Entity: "leave", Field: "hours", Err: ErrNegativeHours}
	}
	return nil
}

// Week returns the week the leave falls in.
func (l LeaveEntry) Week() Week { return WeekOf(l.Date) }
