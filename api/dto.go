/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model (decimal hours, typed IDs, Week values) from
  the external API contract (floats, strings, ISO dates).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Company:     CompanyDTO, CreateCompanyRequest
  Member:      MemberDTO
  Project:     ProjectDTO
  Allocation:  AllocationDTO, UpsertAllocationsRequest
  Leave:       LeaveEntryDTO, LeaveRequestDTO
  Reports:     PeriodDTO, DashboardDTO, GridDTO
  Scenarios:   ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done in handlers and entity Validate methods, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - report.go: Builds DashboardDTO and GridDTO
*/
package api

import (
	"github.com/warp/resource-planner/factory"
	"github.com/warp/resource-planner/generic"
)

// =============================================================================
// COMPANY / MEMBER / PROJECT
// =============================================================================

// CompanyDTO represents a company in API responses.
type CompanyDTO struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Settings factory.SettingsJSON `json:"settings"`
}

// CreateCompanyRequest is the request to create a company.
type CreateCompanyRequest struct {
	ID       string                `json:"id,omitempty"`
	Name     string                `json:"name"`
	Settings *factory.SettingsJSON `json:"settings,omitempty"`
}

// MemberDTO represents a member in requests and responses.
type MemberDTO struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Status         string   `json:"status"`
	Location       string   `json:"location,omitempty"`
	Department     string   `json:"department,omitempty"`
	WeeklyCapacity *float64 `json:"weekly_capacity,omitempty"`
}

// ProjectDTO represents a project in requests and responses.
type ProjectDTO struct {
	ID    string   `json:"id"`
	Code  string   `json:"code"`
	Name  string   `json:"name"`
	Fee   *float64 `json:"fee,omitempty"`
	Stage string   `json:"stage,omitempty"`
}

// =============================================================================
// ALLOCATIONS
// =============================================================================

// AllocationDTO represents one grid cell.
type AllocationDTO struct {
	MemberID  string   `json:"member_id"`
	ProjectID string   `json:"project_id"`
	Week      string   `json:"week"` // ISO Monday
	Hours     *float64 `json:"hours,omitempty"`
	Percent   *float64 `json:"percent,omitempty"` // of the company work week
	UpdatedAt string   `json:"updated_at,omitempty"`
}

// UpsertAllocationsRequest writes cells. Each cell sets exactly one of
// hours or percent.
type UpsertAllocationsRequest struct {
	Allocations []AllocationDTO `json:"allocations"`
}

// =============================================================================
// LEAVE
// =============================================================================

// LeaveEntryDTO represents one day of leave.
type LeaveEntryDTO struct {
	ID       string  `json:"id"`
	MemberID string  `json:"member_id"`
	Date     string  `json:"date"`
	Type     string  `json:"type"`
	Hours    float64 `json:"hours"`
	Note     string  `json:"note,omitempty"`
}

// LeaveRequestDTO books leave for a range of days.
type LeaveRequestDTO struct {
	MemberID    string   `json:"member_id"`
	Type        string   `json:"type"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	HoursPerDay *float64 `json:"hours_per_day,omitempty"`
	Note        string   `json:"note,omitempty"`
}

// HolidayDTO represents a holiday.
type HolidayDTO struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
	Global    bool   `json:"global,omitempty"`
}

// =============================================================================
// REPORTS
// =============================================================================

// PeriodDTO is a resolved window.
type PeriodDTO struct {
	View      string   `json:"view"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	WeekCount int      `json:"week_count"`
	Weeks     []string `json:"weeks"`
}

// WeekTotalDTO is one week's total.
type WeekTotalDTO struct {
	Week  string  `json:"week"`
	Hours float64 `json:"hours"`
}

// ProjectHoursDTO is a line of a member's project breakdown.
type ProjectHoursDTO struct {
	ProjectID string  `json:"project_id"`
	Code      string  `json:"code,omitempty"`
	Hours     float64 `json:"hours"`
	IsActive  bool    `json:"is_active"`
}

// MemberSummaryDTO is a member's dashboard line.
type MemberSummaryDTO struct {
	MemberID    string             `json:"member_id"`
	Name        string             `json:"name"`
	Capacity    float64            `json:"capacity"`
	Allocated   float64            `json:"allocated"`
	Leave       float64            `json:"leave"`
	LeaveByType map[string]float64 `json:"leave_by_type,omitempty"`
	Utilization float64            `json:"utilization"`
	Zone        string             `json:"zone"`
	Projects    []ProjectHoursDTO  `json:"projects"`
}

// DashboardDTO is the dashboard payload.
type DashboardDTO struct {
	CompanyID  string             `json:"company_id"`
	Period     PeriodDTO          `json:"period"`
	TotalHours float64            `json:"total_hours"`
	WeekTotals []WeekTotalDTO     `json:"week_totals"`
	Members    []MemberSummaryDTO `json:"members"`
	ZoneCounts map[string]int     `json:"zone_counts"`
	Ignored    int                `json:"ignored_rows"`
}

// GridCellDTO is one member/week cell of the resourcing grid.
type GridCellDTO struct {
	Week  string  `json:"week"`
	Value float64 `json:"value"` // hours or percent, per mode
	Hours float64 `json:"hours"`
	Leave float64 `json:"leave"`
	Zone  string  `json:"zone"`
}

// GridRowDTO is one member of the resourcing grid.
type GridRowDTO struct {
	MemberID string        `json:"member_id"`
	Name     string        `json:"name"`
	Capacity float64       `json:"capacity"`
	Cells    []GridCellDTO `json:"cells"`
	Total    float64       `json:"total"`
}

// GridDTO is the resourcing grid payload.
type GridDTO struct {
	CompanyID  string       `json:"company_id"`
	Mode       string       `json:"mode"`
	Period     PeriodDTO    `json:"period"`
	Rows       []GridRowDTO `json:"rows"`
	WeekTotals []float64    `json:"week_totals"`
}

// =============================================================================
// SCENARIOS & ERRORS
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse represents an error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toCompanyDTO(c generic.Company) CompanyDTO {
	return CompanyDTO{ID: string(c.ID), Name: c.Name, Settings: factory.ToJSON(c.Settings)}
}

func toMemberDTO(m generic.Member) MemberDTO {
	dto := MemberDTO{
		ID:         string(m.ID),
		Name:       m.Name,
		Status:     string(m.Status),
		Location:   m.Location,
		Department: m.Department,
	}
	if m.WeeklyCapacity != nil {
		c := m.WeeklyCapacity.Float64()
		dto.WeeklyCapacity = &c
	}
	return dto
}

func fromMemberDTO(companyID generic.CompanyID, dto MemberDTO) generic.Member {
	m := generic.Member{
		ID:         generic.MemberID(dto.ID),
		CompanyID:  companyID,
		Name:       dto.Name,
		Status:     generic.MemberStatus(dto.Status),
		Location:   dto.Location,
		Department: dto.Department,
	}
	if m.Status == "" {
		m.Status = generic.MemberActive
	}
	if dto.WeeklyCapacity != nil {
		m.WeeklyCapacity = generic.HoursPtr(*dto.WeeklyCapacity)
	}
	return m
}

func toProjectDTO(p generic.Project) ProjectDTO {
	return ProjectDTO{ID: string(p.ID), Code: p.Code, Name: p.Name, Fee: p.Fee, Stage: p.Stage}
}

func toAllocationDTO(a generic.Allocation) AllocationDTO {
	h := a.Hours.Float64()
	dto := AllocationDTO{
		MemberID:  string(a.MemberID),
		ProjectID: string(a.ProjectID),
		Week:      a.Week.String(),
		Hours:     &h,
	}
	if !a.UpdatedAt.IsZero() {
		dto.UpdatedAt = a.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return dto
}

func toLeaveEntryDTO(e generic.LeaveEntry) LeaveEntryDTO {
	return LeaveEntryDTO{
		ID:       e.ID,
		MemberID: string(e.MemberID),
		Date:     e.Date.String(),
		Type:     e.Type.ResourceID(),
		Hours:    e.Hours.Float64(),
		Note:     e.Note,
	}
}

func toPeriodDTO(view generic.ViewOption, w generic.Window) PeriodDTO {
	weeks := w.Weeks()
	keys := make([]string, len(weeks))
	for i, wk := range weeks {
		keys[i] = wk.String()
	}
	return PeriodDTO{
		View:      string(view),
		Start:     w.Start.String(),
		End:       w.Last().End().String(),
		WeekCount: w.WeekCount,
		Weeks:     keys,
	}
}
