/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	planning data for testing and demos. Each scenario creates a company,
	members, projects, allocations and leave that exercise specific parts
	of the dashboard.

AVAILABLE SCENARIOS:

	studio-basics:   Small studio, everyone between available and at capacity
	over-allocated:  A crunch week pushing two members past capacity
	part-time-team:  Member capacities below the company week, hours mode
	leave-heavy:     Annual leave around a public holiday eating capacity

HOW SCENARIOS WORK:
 1. Reset database (clear all data) and the report cache
 2. Create the company with its settings
 3. Create members and projects
 4. Upsert allocations relative to the current window
 5. Optionally book leave through timeoff.LeaveRequest

All dates are anchored on the handler clock, so a scenario always lands
inside the default views.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "over-allocated"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx, start)
 3. Add it to the loaders map

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Planning endpoints
  - timeoff/leave.go: Leave expansion used by the leave scenarios
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/warp/resource-planner/generic"
	"github.com/warp/resource-planner/timeoff"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "studio-basics",
		Name:        "Studio Basics",
		Description: "Three designers on two projects, percentage mode, 40h week",
	},
	{
		ID:          "over-allocated",
		Name:        "Over-Allocated",
		Description: "A crunch week pushes two members past capacity",
	},
	{
		ID:          "part-time-team",
		Name:        "Part-Time Team",
		Description: "Member capacities below the company week, hours mode",
	},
	{
		ID:          "leave-heavy",
		Name:        "Leave Heavy",
		Description: "Annual leave around a public holiday consuming capacity",
	},
}

type scenarioLoader func(h *Handler, ctx context.Context, start generic.Week) error

var loaders = map[string]scenarioLoader{
	"studio-basics":  (*Handler).loadStudioBasicsScenario,
	"over-allocated": (*Handler).loadOverAllocatedScenario,
	"part-time-team": (*Handler).loadPartTimeTeamScenario,
	"leave-heavy":    (*Handler).loadLeaveHeavyScenario,
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if _, ok := loaders[req.ScenarioID]; !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err := h.SeedScenario(r.Context(), req.ScenarioID); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) reset(ctx context.Context) error {
	if err := h.Store.Reset(ctx); err != nil {
		return err
	}
	h.Reports.Cache.Clear()
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()
	return nil
}

// SeedScenario resets the store and loads a scenario.
func (h *Handler) SeedScenario(ctx context.Context, id string) error {
	load, ok := loaders[id]
	if !ok {
		return fmt.Errorf("unknown scenario %q", id)
	}
	if err := h.reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	start := generic.ResolvePeriod(generic.ViewThreeMonths, h.Now()).Start
	if err := load(h, ctx, start); err != nil {
		return err
	}

	h.mu.Lock()
	h.currentScenario = id
	h.mu.Unlock()
	log.Info().Str("scenario", id).Str("start", start.String()).Msg("scenario loaded")
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// cell is a compact allocation literal: week offset from the window start.
type cell struct {
	member  string
	project string
	week    int
	hours   float64
}

func (h *Handler) seedCompany(ctx context.Context, c generic.Company, members []generic.Member, projects []generic.Project) error {
	if err := h.Store.SaveCompany(ctx, c); err != nil {
		return err
	}
	for _, m := range members {
		m.CompanyID = c.ID
		if m.Status == "" {
			m.Status = generic.MemberActive
		}
		if err := h.Store.SaveMember(ctx, m); err != nil {
			return err
		}
	}
	for _, p := range projects {
		p.CompanyID = c.ID
		if err := h.Store.SaveProject(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) seedAllocations(ctx context.Context, companyID generic.CompanyID, start generic.Week, cells []cell) error {
	now := h.Now().UTC()
	rows := make([]generic.Allocation, len(cells))
	for i, c := range cells {
		rows[i] = generic.Allocation{
			CompanyID: companyID,
			MemberID:  generic.MemberID(c.member),
			ProjectID: generic.ProjectID(c.project),
			Week:      start.AddWeeks(c.week),
			Hours:     generic.NewHours(c.hours),
			UpdatedAt: now,
		}
	}
	return h.Store.UpsertAllocations(ctx, rows)
}

func (h *Handler) seedLeave(ctx context.Context, req timeoff.LeaveRequest) error {
	holidays, err := h.Store.ListHolidays(ctx, req.CompanyID)
	if err != nil {
		return err
	}
	entries, err := req.Expand(generic.HolidayList(holidays))
	if err != nil {
		return err
	}
	return h.Store.AddLeave(ctx, entries)
}

func fee(v float64) *float64 { return &v }

func (h *Handler) loadStudioBasicsScenario(ctx context.Context, start generic.Week) error {
	company := generic.Company{ID: "studio", Name: "Northwind Studio", Settings: generic.DefaultSettings()}
	members := []generic.Member{
		{ID: "ana", Name: "Ana Silva", Department: "Design", Location: "Lisbon"},
		{ID: "ben", Name: "Ben Okafor", Department: "Design", Location: "London"},
		{ID: "chen", Name: "Chen Wei", Department: "Engineering", Location: "London"},
	}
	projects := []generic.Project{
		{ID: "p-brand", Code: "NW-001", Name: "Brand Refresh", Fee: fee(48000), Stage: "in_progress"},
		{ID: "p-site", Code: "NW-002", Name: "Marketing Site", Fee: fee(72000), Stage: "in_progress"},
	}
	if err := h.seedCompany(ctx, company, members, projects); err != nil {
		return err
	}

	var cells []cell
	for w := 0; w < 12; w++ {
		cells = append(cells,
			cell{"ana", "p-brand", w, 20},
			cell{"ana", "p-site", w, 15},
			cell{"ben", "p-site", w, 24},
			cell{"chen", "p-site", w, 32},
		)
	}
	return h.seedAllocations(ctx, company.ID, start, cells)
}

func (h *Handler) loadOverAllocatedScenario(ctx context.Context, start generic.Week) error {
	company := generic.Company{ID: "agency", Name: "Harbour Agency", Settings: generic.DefaultSettings()}
	members := []generic.Member{
		{ID: "dev", Name: "Dev Patel"},
		{ID: "eva", Name: "Eva Novak"},
		{ID: "finn", Name: "Finn Murphy", Status: generic.MemberPreRegistered},
	}
	projects := []generic.Project{
		{ID: "p-launch", Code: "HA-100", Name: "Product Launch", Stage: "in_progress"},
		{ID: "p-retainer", Code: "HA-200", Name: "Support Retainer", Stage: "ongoing"},
	}
	if err := h.seedCompany(ctx, company, members, projects); err != nil {
		return err
	}

	var cells []cell
	for w := 0; w < 12; w++ {
		cells = append(cells, cell{"dev", "p-retainer", w, 16}, cell{"eva", "p-retainer", w, 16})
	}
	// Crunch in the current week.
	cells = append(cells,
		cell{"dev", "p-launch", 1, 36},
		cell{"eva", "p-launch", 1, 32},
		cell{"dev", "p-launch", 2, 20},
	)
	return h.seedAllocations(ctx, company.ID, start, cells)
}

func (h *Handler) loadPartTimeTeamScenario(ctx context.Context, start generic.Week) error {
	settings := generic.DefaultSettings()
	settings.WeeklyHours = generic.NewHours(37.5)
	settings.DisplayMode = generic.ModeHours
	company := generic.Company{ID: "collective", Name: "Fieldwork Collective", Settings: settings}
	members := []generic.Member{
		{ID: "gia", Name: "Gia Romano", WeeklyCapacity: generic.HoursPtr(24)},
		{ID: "hal", Name: "Hal Berg", WeeklyCapacity: generic.HoursPtr(16)},
		{ID: "ines", Name: "Ines Duarte"},
	}
	projects := []generic.Project{
		{ID: "p-survey", Code: "FC-01", Name: "Field Survey"},
		{ID: "p-report", Code: "FC-02", Name: "Annual Report"},
	}
	if err := h.seedCompany(ctx, company, members, projects); err != nil {
		return err
	}

	var cells []cell
	for w := 0; w < 12; w++ {
		cells = append(cells,
			cell{"gia", "p-survey", w, 20},
			cell{"hal", "p-report", w, 8},
			cell{"ines", "p-survey", w, 18.75},
			cell{"ines", "p-report", w, 18.75},
		)
	}
	return h.seedAllocations(ctx, company.ID, start, cells)
}

func (h *Handler) loadLeaveHeavyScenario(ctx context.Context, start generic.Week) error {
	company := generic.Company{ID: "practice", Name: "Alder Practice", Settings: generic.DefaultSettings()}
	members := []generic.Member{
		{ID: "jo", Name: "Jo Lindqvist"},
		{ID: "kai", Name: "Kai Tanaka"},
	}
	projects := []generic.Project{{ID: "p-clinic", Code: "AP-7", Name: "Clinic Fit-out"}}
	if err := h.seedCompany(ctx, company, members, projects); err != nil {
		return err
	}

	// Wednesday of the third week is a company holiday.
	holiday := generic.Holiday{
		ID:        "practice-day",
		CompanyID: company.ID,
		Date:      start.AddWeeks(2).Start().AddDays(2),
		Name:      "Practice Day",
	}
	if err := h.Store.SaveHoliday(ctx, holiday); err != nil {
		return err
	}

	var cells []cell
	for w := 0; w < 12; w++ {
		cells = append(cells, cell{"jo", "p-clinic", w, 32}, cell{"kai", "p-clinic", w, 24})
	}
	if err := h.seedAllocations(ctx, company.ID, start, cells); err != nil {
		return err
	}

	// Jo takes the whole third week off; the holiday is skipped.
	third := start.AddWeeks(2)
	if err := h.seedLeave(ctx, timeoff.LeaveRequest{
		ID:        "leave-jo",
		CompanyID: company.ID,
		MemberID:  "jo",
		Type:      timeoff.LeaveAnnual,
		Period:    generic.Period{Start: third.Start(), End: third.End()},
		Note:      "Family trip",
	}); err != nil {
		return err
	}
	// Kai has a half day of sick leave.
	half := generic.NewHours(4)
	return h.seedLeave(ctx, timeoff.LeaveRequest{
		ID:          "leave-kai",
		CompanyID:   company.ID,
		MemberID:    "kai",
		Type:        timeoff.LeaveSick,
		Period:      generic.Period{Start: start.AddWeeks(1).Start(), End: start.AddWeeks(1).Start()},
		HoursPerDay: &half,
	})
}
