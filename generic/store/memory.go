// Package store provides Store implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/warp/resource-planner/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	companies   map[generic.CompanyID]generic.Company
	members     map[memberKey]generic.Member
	projects    map[projectKey]generic.Project
	allocations map[allocationKey]generic.Allocation
	leave       map[string]generic.LeaveEntry
	holidays    map[string]generic.Holiday

	// now stamps allocations written without UpdatedAt.
	now func() time.Time
}

type memberKey struct {
	CompanyID generic.CompanyID
	ID        generic.MemberID
}

type projectKey struct {
	CompanyID generic.CompanyID
	ID        generic.ProjectID
}

type allocationKey struct {
	CompanyID generic.CompanyID
	MemberID  generic.MemberID
	ProjectID generic.ProjectID
	Week      generic.Week
}

var _ generic.Store = (*Memory)(nil)

func NewMemory() *Memory {
	m := &Memory{now: time.Now}
	m.resetLocked()
	return m
}

func (m *Memory) resetLocked() {
	m.companies = make(map[generic.CompanyID]generic.Company)
	m.members = make(map[memberKey]generic.Member)
	m.projects = make(map[projectKey]generic.Project)
	m.allocations = make(map[allocationKey]generic.Allocation)
	m.leave = make(map[string]generic.LeaveEntry)
	m.holidays = make(map[string]generic.Holiday)
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	return nil
}

// =============================================================================
// COMPANIES
// =============================================================================

func (m *Memory) SaveCompany(_ context.Context, c generic.Company) error {
	if err := c.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companies[c.ID] = c
	return nil
}

func (m *Memory) GetCompany(_ context.Context, id generic.CompanyID) (generic.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.companies[id]
	if !ok {
		return generic.Company{}, generic.ErrCompanyNotFound
	}
	return c, nil
}

func (m *Memory) ListCompanies(_ context.Context) ([]generic.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]generic.Company, 0, len(m.companies))
	for _, c := range m.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// =============================================================================
// MEMBERS & PROJECTS
// =============================================================================

func (m *Memory) SaveMember(_ context.Context, mem generic.Member) error {
	if err := mem.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[mem.CompanyID]; !ok {
		return generic.ErrCompanyNotFound
	}
	m.members[memberKey{CompanyID: mem.CompanyID, ID: mem.ID}] = mem
	return nil
}

func (m *Memory) GetMember(_ context.Context, companyID generic.CompanyID, id generic.MemberID) (generic.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mem, ok := m.members[memberKey{CompanyID: companyID, ID: id}]
	if !ok {
		return generic.Member{}, generic.ErrMemberNotFound
	}
	return mem, nil
}

func (m *Memory) ListMembers(_ context.Context, companyID generic.CompanyID) ([]generic.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []generic.Member
	for k, mem := range m.members {
		if k.CompanyID == companyID {
			out = append(out, mem)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) DeleteMember(_ context.Context, companyID generic.CompanyID, id generic.MemberID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memberKey{CompanyID: companyID, ID: id}
	if _, ok := m.members[k]; !ok {
		return generic.ErrMemberNotFound
	}
	delete(m.members, k)
	for ak := range m.allocations {
		if ak.CompanyID == companyID && ak.MemberID == id {
			delete(m.allocations, ak)
		}
	}
	for lid, e := range m.leave {
		if e.CompanyID == companyID && e.MemberID == id {
			delete(m.leave, lid)
		}
	}
	return nil
}

func (m *Memory) SaveProject(_ context.Context, p generic.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[p.CompanyID]; !ok {
		return generic.ErrCompanyNotFound
	}
	m.projects[projectKey{CompanyID: p.CompanyID, ID: p.ID}] = p
	return nil
}

func (m *Memory) ListProjects(_ context.Context, companyID generic.CompanyID) ([]generic.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []generic.Project
	for k, p := range m.projects {
		if k.CompanyID == companyID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// =============================================================================
// ALLOCATIONS
// =============================================================================

// UpsertAllocations validates every row before writing any (all or nothing).
// Every member and project must exist.
func (m *Memory) UpsertAllocations(_ context.Context, rows []generic.Allocation) error {
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range rows {
		if _, ok := m.members[memberKey{CompanyID: row.CompanyID, ID: row.MemberID}]; !ok {
			return fmt.Errorf("%w: %s", generic.ErrMemberNotFound, row.MemberID)
		}
		if _, ok := m.projects[projectKey{CompanyID: row.CompanyID, ID: row.ProjectID}]; !ok {
			return fmt.Errorf("%w: %s", generic.ErrProjectNotFound, row.ProjectID)
		}
	}
	for _, row := range rows {
		if row.UpdatedAt.IsZero() {
			row.UpdatedAt = m.now()
		}
		k := allocationKey{CompanyID: row.CompanyID, MemberID: row.MemberID, ProjectID: row.ProjectID, Week: row.Week}
		m.allocations[k] = row
	}
	return nil
}

func (m *Memory) ListAllocations(_ context.Context, companyID generic.CompanyID, from, to generic.Week) ([]generic.Allocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []generic.Allocation
	for k, row := range m.allocations {
		if k.CompanyID != companyID || k.Week.Before(from) || k.Week.After(to) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week.Before(out[j].Week)
		}
		if out[i].MemberID != out[j].MemberID {
			return out[i].MemberID < out[j].MemberID
		}
		return out[i].ProjectID < out[j].ProjectID
	})
	return out, nil
}

// =============================================================================
// LEAVE & HOLIDAYS
// =============================================================================

func (m *Memory) AddLeave(_ context.Context, entries []generic.LeaveEntry) error {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
		if e.ID == "" {
			return &generic.RowError{Entity: "leave", Field: "id", Err: generic.ErrInvalidRow}
		}
	}
	type day struct {
		CompanyID generic.CompanyID
		MemberID  generic.MemberID
		Date      string
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	booked := make(map[day]bool)
	for _, e := range m.leave {
		booked[day{e.CompanyID, e.MemberID, e.Date.String()}] = true
	}
	for _, e := range entries {
		if _, ok := m.members[memberKey{CompanyID: e.CompanyID, ID: e.MemberID}]; !ok {
			return fmt.Errorf("%w: %s", generic.ErrMemberNotFound, e.MemberID)
		}
		d := day{e.CompanyID, e.MemberID, e.Date.String()}
		if booked[d] {
			return fmt.Errorf("%w: %s on %s", generic.ErrDuplicateLeaveDay, e.MemberID, e.Date)
		}
		booked[d] = true
	}
	for _, e := range entries {
		m.leave[e.ID] = e
	}
	return nil
}

func (m *Memory) ListLeave(_ context.Context, companyID generic.CompanyID, period generic.Period) ([]generic.LeaveEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []generic.LeaveEntry
	for _, e := range m.leave {
		if e.CompanyID == companyID && period.Contains(e.Date) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) DeleteLeave(_ context.Context, companyID generic.CompanyID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.leave[id]; ok && e.CompanyID == companyID {
		delete(m.leave, id)
	}
	return nil
}

func (m *Memory) SaveHoliday(_ context.Context, h generic.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.ID] = h
	return nil
}

func (m *Memory) ListHolidays(_ context.Context, companyID generic.CompanyID) ([]generic.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []generic.Holiday
	for _, h := range m.holidays {
		if h.CompanyID == "" || h.CompanyID == companyID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
