/*
handlers.go - HTTP API handlers for the resource planner

PURPOSE:
  Exposes the planning engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the store, the reporter and the
  leave expansion in timeoff.

ENDPOINTS:
  Companies:
    GET    /api/companies                         List companies
    POST   /api/companies                         Create company
    GET    /api/companies/{companyID}             Get company
    PUT    /api/companies/{companyID}/settings    Update planning settings

  Members & projects:
    GET    /api/companies/{companyID}/members
    POST   /api/companies/{companyID}/members
    DELETE /api/companies/{companyID}/members/{memberID}
    GET    /api/companies/{companyID}/projects
    POST   /api/companies/{companyID}/projects

  Allocations:
    GET    /api/companies/{companyID}/allocations?view=3-months
    PUT    /api/companies/{companyID}/allocations   Upsert grid cells

  Leave & holidays:
    GET    /api/companies/{companyID}/leave?view=
    POST   /api/companies/{companyID}/leave         Book a leave request
    DELETE /api/companies/{companyID}/leave/{leaveID}
    GET    /api/companies/{companyID}/holidays
    POST   /api/companies/{companyID}/holidays
    GET    /api/leave-types

  Reports:
    GET    /api/periods?view=
    GET    /api/companies/{companyID}/dashboard?view=
    GET    /api/companies/{companyID}/grid?view=&mode=percentage|hours
    GET    /api/companies/{companyID}/grid.xlsx?view=&mode=

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access (generic.Store)
  - SettingsFactory: JSON to CompanySettings conversion
  - Reports: Report builder with the per-window cache
  - Now: Clock used to resolve view windows

CACHE INVALIDATION:
  Every handler that writes a company's rows calls invalidate(companyID)
  after a successful write.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Company, member or project not found
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - report.go: Dashboard and grid assembly
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/warp/resource-planner/factory"
	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/timeoff"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store           generic.Store
	SettingsFactory *factory.SettingsFactory
	Reports         *Reporter

	// Now is the only clock the API reads.
	Now func() time.Time

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store generic.Store) *Handler {
	return &Handler{
		Store:           store,
		SettingsFactory: factory.NewSettingsFactory(),
		Reports:         NewReporter(store),
		Now:             time.Now,
	}
}

func (h *Handler) invalidate(companyID generic.CompanyID) {
	h.Reports.Invalidate(companyID)
}

// window resolves the ?view= query parameter against the handler clock.
func (h *Handler) window(r *http.Request) (generic.ViewOption, generic.Window) {
	view := generic.ViewOption(r.URL.Query().Get("view"))
	w := generic.ResolvePeriod(view, h.Now())
	return generic.PeriodToViewOption(w.WeekCount), w
}

func companyParam(r *http.Request) generic.CompanyID {
	return generic.CompanyID(chi.URLParam(r, "companyID"))
}

// =============================================================================
// COMPANY HANDLERS
// =============================================================================

// ListCompanies returns all companies.
func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Store.ListCompanies(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to list companies", err)
		return
	}
	dtos := make([]CompanyDTO, len(companies))
	for i, c := range companies {
		dtos[i] = toCompanyDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCompany creates a company. Missing settings take the factory base.
// POST /api/companies
func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req CreateCompanyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var doc factory.SettingsJSON
	if req.Settings != nil {
		doc = *req.Settings
	}
	settings, err := h.SettingsFactory.FromJSON(doc)
	if err != nil {
		writeDomainError(w, "Invalid settings", err)
		return
	}

	company := generic.Company{ID: generic.CompanyID(req.ID), Name: req.Name, Settings: settings}
	if company.ID == "" {
		company.ID = generic.CompanyID(uuid.NewString())
	}
	if err := h.Store.SaveCompany(r.Context(), company); err != nil {
		writeDomainError(w, "Failed to create company", err)
		return
	}
	h.invalidate(company.ID)
	writeJSON(w, http.StatusCreated, toCompanyDTO(company))
}

// GetCompany returns one company.
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.Store.GetCompany(r.Context(), companyParam(r))
	if err != nil {
		writeDomainError(w, "Failed to get company", err)
		return
	}
	writeJSON(w, http.StatusOK, toCompanyDTO(company))
}

// UpdateSettings merges a settings document over the company's current
// settings.
// PUT /api/companies/{companyID}/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	company, err := h.Store.GetCompany(ctx, companyParam(r))
	if err != nil {
		writeDomainError(w, "Failed to get company", err)
		return
	}

	var doc factory.SettingsJSON
	if err := decodeJSON(r, &doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	f := &factory.SettingsFactory{Base: company.Settings}
	settings, err := f.FromJSON(doc)
	if err != nil {
		writeDomainError(w, "Invalid settings", err)
		return
	}

	company.Settings = settings
	if err := h.Store.SaveCompany(ctx, company); err != nil {
		writeDomainError(w, "Failed to save settings", err)
		return
	}
	h.invalidate(company.ID)
	writeJSON(w, http.StatusOK, toCompanyDTO(company))
}

// =============================================================================
// MEMBER & PROJECT HANDLERS
// =============================================================================

// ListMembers returns a company's members.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Store.ListMembers(r.Context(), companyParam(r))
	if err != nil {
		writeDomainError(w, "Failed to list members", err)
		return
	}
	dtos := make([]MemberDTO, len(members))
	for i, m := range members {
		dtos[i] = toMemberDTO(m)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveMember creates or updates a member.
func (h *Handler) SaveMember(w http.ResponseWriter, r *http.Request) {
	companyID := companyParam(r)
	var dto MemberDTO
	if err := decodeJSON(r, &dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if dto.ID == "" {
		dto.ID = uuid.NewString()
	}

	member := fromMemberDTO(companyID, dto)
	if err := h.Store.SaveMember(r.Context(), member); err != nil {
		writeDomainError(w, "Failed to save member", err)
		return
	}
	h.invalidate(companyID)
	writeJSON(w, http.StatusCreated, toMemberDTO(member))
}

// DeleteMember removes a member with their allocations and leave.
func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	companyID := companyParam(r)
	memberID := generic.MemberID(chi.URLParam(r, "memberID"))
	if err := h.Store.DeleteMember(r.Context(), companyID, memberID); err != nil {
		writeDomainError(w, "Failed to delete member", err)
		return
	}
	h.invalidate(companyID)
	w.WriteHeader(http.StatusNoContent)
}

// ListProjects returns a company's projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Store.ListProjects(r.Context(), companyParam(r))
	if err != nil {
		writeDomainError(w, "Failed to list projects", err)
		return
	}
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveProject creates or updates a project.
func (h *Handler) SaveProject(w http.ResponseWriter, r *http.Request) {
	companyID := companyParam(r)
	var dto ProjectDTO
	if err := decodeJSON(r, &dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if dto.ID == "" {
		dto.ID = uuid.NewString()
	}

	project := generic.Project{
		ID:        generic.ProjectID(dto.ID),
		CompanyID: companyID,
		Code:      dto.Code,
		Name:      dto.Name,
		Fee:       dto.Fee,
		Stage:     dto.Stage,
	}
	if err := h.Store.SaveProject(r.Context(), project); err != nil {
		writeDomainError(w, "Failed to save project", err)
		return
	}
	h.invalidate(companyID)
	writeJSON(w, http.StatusCreated, toProjectDTO(project))
}

// =============================================================================
// ALLOCATION HANDLERS
// =============================================================================

// ListAllocations returns the stored cells inside the requested window.
func (h *Handler) ListAllocations(w http.ResponseWriter, r *http.Request) {
	_, win := h.window(r)
	rows, err := h.Store.ListAllocations(r.Context(), companyParam(r), win.Start, win.Last())
	if err != nil {
		writeDomainError(w, "Failed to list allocations", err)
		return
	}
	dtos := make([]AllocationDTO, len(rows))
	for i, a := range rows {
		dtos[i] = toAllocationDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpsertAllocations writes grid cells. A cell typed as a percentage is
// converted with the company work week. Writing an existing key replaces
// its hours.
// PUT /api/companies/{companyID}/allocations
func (h *Handler) UpsertAllocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID := companyParam(r)

	var req UpsertAllocationsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	company, err := h.Store.GetCompany(ctx, companyID)
	if err != nil {
		writeDomainError(w, "Failed to get company", err)
		return
	}

	now := h.Now().UTC()
	rows := make([]generic.Allocation, 0, len(req.Allocations))
	for i, dto := range req.Allocations {
		row, err := allocationFromDTO(company, dto, now)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid allocation %d", i), err)
			return
		}
		rows = append(rows, row)
	}

	if err := h.Store.UpsertAllocations(ctx, rows); err != nil {
		writeDomainError(w, "Failed to save allocations", err)
		return
	}
	h.invalidate(companyID)

	dtos := make([]AllocationDTO, len(rows))
	for i, a := range rows {
		dtos[i] = toAllocationDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func allocationFromDTO(company generic.Company, dto AllocationDTO, now time.Time) (generic.Allocation, error) {
	week, err := generic.ParseWeek(dto.Week)
	if err != nil {
		return generic.Allocation{}, err
	}

	var hours generic.Hours
	switch {
	case dto.Hours != nil && dto.Percent != nil:
		return generic.Allocation{}, badField("allocation", "hours", errors.New("set hours or percent, not both"))
	case dto.Hours != nil:
		hours = generic.NewHours(*dto.Hours)
	case dto.Percent != nil:
		hours = hoursFromPercent(company.Settings, *dto.Percent)
	default:
		return generic.Allocation{}, &generic.RowError{Entity: "allocation", Field: "hours", Err: generic.ErrInvalidRow}
	}

	a := generic.Allocation{
		CompanyID: company.ID,
		MemberID:  generic.MemberID(dto.MemberID),
		ProjectID: generic.ProjectID(dto.ProjectID),
		Week:      week,
		Hours:     hours,
		UpdatedAt: now,
	}
	return a, a.Validate()
}

// =============================================================================
// LEAVE & HOLIDAY HANDLERS
// =============================================================================

// ListLeave returns leave entries dated inside the requested window.
func (h *Handler) ListLeave(w http.ResponseWriter, r *http.Request) {
	_, win := h.window(r)
	entries, err := h.Store.ListLeave(r.Context(), companyParam(r), win.Period())
	if err != nil {
		writeDomainError(w, "Failed to list leave", err)
		return
	}
	dtos := make([]LeaveEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toLeaveEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SubmitLeave books leave on every working day of a date range.
// POST /api/companies/{companyID}/leave
func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID := companyParam(r)

	var dto LeaveRequestDTO
	if err := decodeJSON(r, &dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req, err := leaveRequestFromDTO(companyID, dto)
	if err != nil {
		writeDomainError(w, "Invalid leave request", err)
		return
	}
	if _, err := h.Store.GetMember(ctx, companyID, req.MemberID); err != nil {
		writeDomainError(w, "Failed to get member", err)
		return
	}

	holidays, err := h.Store.ListHolidays(ctx, companyID)
	if err != nil {
		writeDomainError(w, "Failed to load holidays", err)
		return
	}
	entries, err := req.Expand(generic.HolidayList(holidays))
	if err != nil {
		writeDomainError(w, "Invalid leave request", err)
		return
	}
	if len(entries) == 0 {
		writeError(w, http.StatusBadRequest, "Leave request covers no working days", nil)
		return
	}
	existing, err := h.Store.ListLeave(ctx, companyID, req.Period)
	if err != nil {
		writeDomainError(w, "Failed to load leave", err)
		return
	}
	if err := timeoff.CheckDuplicateDays(existing, entries); err != nil {
		writeDomainError(w, "Leave overlaps existing leave", err)
		return
	}

	if err := h.Store.AddLeave(ctx, entries); err != nil {
		writeDomainError(w, "Failed to save leave", err)
		return
	}
	h.invalidate(companyID)

	dtos := make([]LeaveEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toLeaveEntryDTO(e)
	}
	writeJSON(w, http.StatusCreated, dtos)
}

func leaveRequestFromDTO(companyID generic.CompanyID, dto LeaveRequestDTO) (timeoff.LeaveRequest, error) {
	leaveType, err := generic.ParseResource(dto.Type)
	if err != nil {
		return timeoff.LeaveRequest{}, err
	}
	from, err := generic.ParseDate(dto.From)
	if err != nil {
		return timeoff.LeaveRequest{}, badField("leave_request", "from", err)
	}
	to := from
	if dto.To != "" {
		if to, err = generic.ParseDate(dto.To); err != nil {
			return timeoff.LeaveRequest{}, badField("leave_request", "to", err)
		}
	}

	req := timeoff.LeaveRequest{
		CompanyID: companyID,
		MemberID:  generic.MemberID(dto.MemberID),
		Type:      leaveType,
		Period:    generic.Period{Start: from, End: to},
		Note:      dto.Note,
	}
	if dto.HoursPerDay != nil {
		req.HoursPerDay = generic.HoursPtr(*dto.HoursPerDay)
	}
	return req, req.Validate()
}

// DeleteLeave removes one leave entry.
func (h *Handler) DeleteLeave(w http.ResponseWriter, r *http.Request) {
	companyID := companyParam(r)
	if err := h.Store.DeleteLeave(r.Context(), companyID, chi.URLParam(r, "leaveID")); err != nil {
		writeDomainError(w, "Failed to delete leave", err)
		return
	}
	h.invalidate(companyID)
	w.WriteHeader(http.StatusNoContent)
}

// ListLeaveTypes returns every registered leave type.
func (h *Handler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	resources := generic.ListResources()
	ids := make([]string, 0, len(resources))
	for _, rt := range resources {
		if rt.ResourceDomain() == "timeoff" {
			ids = append(ids, rt.ResourceID())
		}
	}
	writeJSON(w, http.StatusOK, ids)
}

// ListHolidays returns the company's holidays plus global ones.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context(), companyParam(r))
	if err != nil {
		writeDomainError(w, "Failed to list holidays", err)
		return
	}
	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = HolidayDTO{
			ID:        hol.ID,
			Date:      hol.Date.String(),
			Name:      hol.Name,
			Recurring: hol.Recurring,
			Global:    hol.CompanyID == "",
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a holiday. A global holiday applies to every company
// but is still created through an existing one. Holidays only affect leave
// booked afterwards.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	companyID := companyParam(r)
	var dto HolidayDTO
	if err := decodeJSON(r, &dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := generic.ParseDate(dto.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	if dto.Name == "" {
		writeError(w, http.StatusBadRequest, "Holiday name is required", nil)
		return
	}
	if _, err := h.Store.GetCompany(r.Context(), companyID); err != nil {
		writeDomainError(w, "Failed to get company", err)
		return
	}

	hol := generic.Holiday{
		ID:        dto.ID,
		CompanyID: companyID,
		Date:      date,
		Name:      dto.Name,
		Recurring: dto.Recurring,
	}
	if dto.Global {
		hol.CompanyID = ""
	}
	if hol.ID == "" {
		hol.ID = uuid.NewString()
	}
	if err := h.Store.SaveHoliday(r.Context(), hol); err != nil {
		writeDomainError(w, "Failed to save holiday", err)
		return
	}
	dto.ID = hol.ID
	dto.Date = hol.Date.String()
	writeJSON(w, http.StatusCreated, dto)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetPeriod resolves a view option to its concrete window.
// GET /api/periods?view=1-month
func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	view, win := h.window(r)
	writeJSON(w, http.StatusOK, toPeriodDTO(view, win))
}

// GetDashboard returns totals, utilization and zones for a window.
// GET /api/companies/{companyID}/dashboard?view=3-months
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	_, win := h.window(r)
	report, err := h.Reports.Build(r.Context(), companyParam(r), win)
	if err != nil {
		writeDomainError(w, "Failed to build dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, report.Dashboard())
}

// GetGrid returns the member x week grid. mode defaults to the company's
// display mode.
// GET /api/companies/{companyID}/grid?view=&mode=hours
func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	_, win := h.window(r)
	report, err := h.Reports.Build(r.Context(), companyParam(r), win)
	if err != nil {
		writeDomainError(w, "Failed to build grid", err)
		return
	}
	writeJSON(w, http.StatusOK, report.Grid(gridMode(r, report.Company)))
}

// ExportGrid streams the grid as an xlsx workbook.
// GET /api/companies/{companyID}/grid.xlsx
func (h *Handler) ExportGrid(w http.ResponseWriter, r *http.Request) {
	_, win := h.window(r)
	report, err := h.Reports.Build(r.Context(), companyParam(r), win)
	if err != nil {
		writeDomainError(w, "Failed to build grid", err)
		return
	}
	book, err := ExportWorkbook(report, gridMode(r, report.Company))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export grid", err)
		return
	}
	defer book.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename(report)))
	w.Header().Set("Content-Type", xlsxContentType)
	if err := book.Write(w); err != nil {
		log.Error().Err(err).Str("company", string(report.Company.ID)).Msg("write workbook")
	}
}

func gridMode(r *http.Request, company generic.Company) generic.DisplayMode {
	raw := r.URL.Query().Get("mode")
	if raw == "" {
		return company.Settings.DisplayMode
	}
	mode, _ := generic.ParseDisplayMode(raw)
	return mode
}

// =============================================================================
// HELPERS
// =============================================================================

// badField marks a parse failure as invalid client input.
func badField(entity, field string, err error) error {
	return &generic.RowError{Entity: entity, Field: field, Err: fmt.Errorf("%w: %v", generic.ErrInvalidRow, err)}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		log.Error().Err(err).Msg(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
