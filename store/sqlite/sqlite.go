/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements generic.Store (companies, members, projects, allocations,
  leave, holidays) using SQLite. Every query is scoped by company_id.

UPSERT ENFORCEMENT:
  The allocations table has a UNIQUE(company_id, member_id, project_id, week)
  constraint. Writes use ON CONFLICT DO UPDATE, so writing a cell again
  replaces its hours and bumps updated_at. Hours are never summed by the
  database.

REFERENCES:
  Allocations reference their member and project, and leave entries their
  member, through composite foreign keys that cascade on delete. Writes
  also look the rows up first so callers get ErrMemberNotFound or
  ErrProjectNotFound rather than a bare constraint failure. A member has
  at most one leave entry per day (idx_leave_member_day).

KEY TABLES:
  companies:     Company records with planning settings columns
  members:       People whose capacity is planned
  projects:      Work that members are allocated to
  allocations:   (member, project, week) -> hours
  leave_entries: Per-day leave consumed against capacity
  holidays:      Company-specific and global holidays

DECIMALS:
  Hours and thresholds are stored as TEXT decimal strings so that values
  round-trip exactly through shopspring/decimal.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's WAL mode.

USAGE:
  store, err := sqlite.New("./data/planner.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/warp/resource-planner/generic"
)

// Store implements generic.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ generic.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A second connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS companies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		weekly_hours TEXT NOT NULL,
		display_mode TEXT NOT NULL,
		threshold_over TEXT NOT NULL,
		threshold_at_capacity TEXT NOT NULL,
		threshold_available TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS members (
		id TEXT NOT NULL,
		company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		location TEXT,
		department TEXT,
		weekly_capacity TEXT,
		created_at TEXT NOT NULL,
		PRIMARY KEY (company_id, id)
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT NOT NULL,
		company_id TEXT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		fee REAL,
		stage TEXT,
		created_at TEXT NOT NULL,
		PRIMARY KEY (company_id, id)
	);

	-- One hours value per (member, project, week); writes replace.
	CREATE TABLE IF NOT EXISTS allocations (
		company_id TEXT NOT NULL,
		member_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		week TEXT NOT NULL,
		hours TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(company_id, member_id, project_id, week),
		FOREIGN KEY (company_id, member_id) REFERENCES members(company_id, id) ON DELETE CASCADE,
		FOREIGN KEY (company_id, project_id) REFERENCES projects(company_id, id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_allocations_company_week
		ON allocations(company_id, week);

	CREATE TABLE IF NOT EXISTS leave_entries (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		member_id TEXT NOT NULL,
		date TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		hours TEXT NOT NULL,
		note TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (company_id, member_id) REFERENCES members(company_id, id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_leave_company_date
		ON leave_entries(company_id, date);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_leave_member_day
		ON leave_entries(company_id, member_id, date);

	-- Holidays (company-specific and global)
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(company_id, date, name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset clears all data.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"allocations", "leave_entries", "holidays", "members", "projects", "companies"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// COMPANY STORE
// =============================================================================

// SaveCompany inserts or updates a company and its settings.
func (s *Store) SaveCompany(ctx context.Context, c generic.Company) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO companies (id, name, weekly_hours, display_mode,
			threshold_over, threshold_at_capacity, threshold_available, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			weekly_hours = excluded.weekly_hours,
			display_mode = excluded.display_mode,
			threshold_over = excluded.threshold_over,
			threshold_at_capacity = excluded.threshold_at_capacity,
			threshold_available = excluded.threshold_available,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	t := c.Settings.Thresholds
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Settings.WeeklyHours.String(), string(c.Settings.DisplayMode),
		t.OverAllocated.String(), t.AtCapacity.String(), t.Available.String(),
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save company: %w", err)
	}
	return nil
}

const companyColumns = `id, name, weekly_hours, display_mode, threshold_over, threshold_at_capacity, threshold_available`

// GetCompany retrieves a company by ID.
func (s *Store) GetCompany(ctx context.Context, id generic.CompanyID) (generic.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+companyColumns+" FROM companies WHERE id = ?", id)
	c, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return generic.Company{}, generic.ErrCompanyNotFound
	}
	return c, err
}

// ListCompanies returns all companies ordered by name.
func (s *Store) ListCompanies(ctx context.Context) ([]generic.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+companyColumns+" FROM companies ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	var companies []generic.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompany(row scanner) (generic.Company, error) {
	var (
		c                       generic.Company
		weekly, mode            string
		over, atCapacity, avail string
	)
	if err := row.Scan(&c.ID, &c.Name, &weekly, &mode, &over, &atCapacity, &avail); err != nil {
		return generic.Company{}, err
	}
	c.Settings = generic.CompanySettings{
		WeeklyHours: parseHours(weekly),
		DisplayMode: generic.DisplayMode(mode),
		Thresholds: generic.Thresholds{
			OverAllocated: generic.MustParseDecimal(over),
			AtCapacity:    generic.MustParseDecimal(atCapacity),
			Available:     generic.MustParseDecimal(avail),
		},
	}
	return c, nil
}

// =============================================================================
// MEMBER STORE
// =============================================================================

// SaveMember inserts or updates a member.
func (s *Store) SaveMember(ctx context.Context, m generic.Member) error {
	if err := m.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO members (id, company_id, name, status, location, department, weekly_capacity, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(company_id, id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			location = excluded.location,
			department = excluded.department,
			weekly_capacity = excluded.weekly_capacity
	`

	var capacity sql.NullString
	if m.WeeklyCapacity != nil {
		capacity = sql.NullString{String: m.WeeklyCapacity.String(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, query,
		m.ID, m.CompanyID, m.Name, string(m.Status),
		nullString(m.Location), nullString(m.Department), capacity,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return generic.ErrCompanyNotFound
		}
		return fmt.Errorf("failed to save member: %w", err)
	}
	return nil
}

const memberColumns = `id, company_id, name, status, location, department, weekly_capacity`

// GetMember retrieves a member by ID.
func (s *Store) GetMember(ctx context.Context, companyID generic.CompanyID, id generic.MemberID) (generic.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE company_id = ? AND id = ?", companyID, id)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return generic.Member{}, generic.ErrMemberNotFound
	}
	return m, err
}

// ListMembers returns a company's members ordered by name.
func (s *Store) ListMembers(ctx context.Context, companyID generic.CompanyID) ([]generic.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE company_id = ? ORDER BY name", companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []generic.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// DeleteMember removes a member with their allocations and leave.
func (s *Store) DeleteMember(ctx context.Context, companyID generic.CompanyID, id generic.MemberID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM members WHERE company_id = ? AND id = ?", companyID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrMemberNotFound
	}
	for _, table := range []string{"allocations", "leave_entries"} {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE company_id = ? AND member_id = ?", companyID, id); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func scanMember(row scanner) (generic.Member, error) {
	var (
		m                    generic.Member
		status               string
		location, department sql.NullString
		capacity             sql.NullString
	)
	if err := row.Scan(&m.ID, &m.CompanyID, &m.Name, &status, &location, &department, &capacity); err != nil {
		return generic.Member{}, err
	}
	m.Status = generic.MemberStatus(status)
	m.Location = location.String
	m.Department = department.String
	if capacity.Valid {
		h := parseHours(capacity.String)
		m.WeeklyCapacity = &h
	}
	return m, nil
}

// =============================================================================
// PROJECT STORE
// =============================================================================

// SaveProject inserts or updates a project.
func (s *Store) SaveProject(ctx context.Context, p generic.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO projects (id, company_id, code, name, fee, stage, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(company_id, id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			fee = excluded.fee,
			stage = excluded.stage
	`

	var fee sql.NullFloat64
	if p.Fee != nil {
		fee = sql.NullFloat64{Float64: *p.Fee, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.CompanyID, p.Code, p.Name, fee, nullString(p.Stage),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return generic.ErrCompanyNotFound
		}
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// ListProjects returns a company's projects ordered by code.
func (s *Store) ListProjects(ctx context.Context, companyID generic.CompanyID) ([]generic.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, company_id, code, name, fee, stage FROM projects WHERE company_id = ? ORDER BY code", companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []generic.Project
	for rows.Next() {
		var (
			p     generic.Project
			fee   sql.NullFloat64
			stage sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Code, &p.Name, &fee, &stage); err != nil {
			return nil, err
		}
		if fee.Valid {
			f := fee.Float64
			p.Fee = &f
		}
		p.Stage = stage.String
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// =============================================================================
// ALLOCATION STORE
// =============================================================================

// UpsertAllocations writes rows atomically. An existing (member, project,
// week) row has its hours replaced. Every member and project must exist.
func (s *Store) UpsertAllocations(ctx context.Context, rows []generic.Allocation) error {
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := checkReferences(ctx, sqlTx, rows); err != nil {
		return err
	}

	query := `
		INSERT INTO allocations (company_id, member_id, project_id, week, hours, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(company_id, member_id, project_id, week) DO UPDATE SET
			hours = excluded.hours,
			updated_at = excluded.updated_at
	`
	now := time.Now().UTC()
	for _, row := range rows {
		updated := row.UpdatedAt
		if updated.IsZero() {
			updated = now
		}
		if _, err := sqlTx.ExecContext(ctx, query,
			row.CompanyID, row.MemberID, row.ProjectID, row.Week.String(),
			row.Hours.String(), updated.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("failed to upsert allocation: %w", err)
		}
	}

	return sqlTx.Commit()
}

// checkReferences fails with ErrMemberNotFound or ErrProjectNotFound for the
// first row pointing at a missing member or project.
func checkReferences(ctx context.Context, tx *sql.Tx, rows []generic.Allocation) error {
	type ref struct {
		table     string
		companyID generic.CompanyID
		id        string
	}
	seen := make(map[ref]bool)
	lookup := func(r ref, notFound error) error {
		if seen[r] {
			return nil
		}
		var one int
		err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM "+r.table+" WHERE company_id = ? AND id = ?", r.companyID, r.id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", notFound, r.id)
		}
		if err != nil {
			return fmt.Errorf("failed to look up %s: %w", r.table, err)
		}
		seen[r] = true
		return nil
	}
	for _, row := range rows {
		if err := lookup(ref{"members", row.CompanyID, string(row.MemberID)}, generic.ErrMemberNotFound); err != nil {
			return err
		}
		if err := lookup(ref{"projects", row.CompanyID, string(row.ProjectID)}, generic.ErrProjectNotFound); err != nil {
			return err
		}
	}
	return nil
}

// ListAllocations returns rows with week in [from, to].
func (s *Store) ListAllocations(ctx context.Context, companyID generic.CompanyID, from, to generic.Week) ([]generic.Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT company_id, member_id, project_id, week, hours, updated_at
		FROM allocations
		WHERE company_id = ? AND week >= ? AND week <= ?
		ORDER BY week ASC, member_id ASC, project_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, companyID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations: %w", err)
	}
	defer rows.Close()

	var allocations []generic.Allocation
	for rows.Next() {
		var (
			a                    generic.Allocation
			week, hours, updated string
		)
		if err := rows.Scan(&a.CompanyID, &a.MemberID, &a.ProjectID, &week, &hours, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		if a.Week, err = generic.ParseWeek(week); err != nil {
			return nil, err
		}
		a.Hours = parseHours(hours)
		a.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		allocations = append(allocations, a)
	}
	return allocations, rows.Err()
}

// =============================================================================
// LEAVE STORE
// =============================================================================

// AddLeave inserts leave entries atomically. A second entry for the same
// member and day fails with ErrDuplicateLeaveDay.
func (s *Store) AddLeave(ctx context.Context, entries []generic.LeaveEntry) error {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	query := `
		INSERT INTO leave_entries (id, company_id, member_id, date, leave_type, hours, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now().UTC().Format(time.RFC3339)
	for _, e := range entries {
		if _, err := sqlTx.ExecContext(ctx, query,
			e.ID, e.CompanyID, e.MemberID, e.Date.String(), e.Type.ResourceID(),
			e.Hours.String(), nullString(e.Note), now,
		); err != nil {
			switch {
			case isUniqueError(err, "leave_entries.date"):
				return fmt.Errorf("%w: %s on %s", generic.ErrDuplicateLeaveDay, e.MemberID, e.Date)
			case isForeignKeyError(err):
				return fmt.Errorf("%w: %s", generic.ErrMemberNotFound, e.MemberID)
			}
			return fmt.Errorf("failed to insert leave: %w", err)
		}
	}
	return sqlTx.Commit()
}

// ListLeave returns entries dated within period.
func (s *Store) ListLeave(ctx context.Context, companyID generic.CompanyID, period generic.Period) ([]generic.LeaveEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, company_id, member_id, date, leave_type, hours, note
		FROM leave_entries
		WHERE company_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, companyID, period.Start.String(), period.End.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query leave: %w", err)
	}
	defer rows.Close()

	var entries []generic.LeaveEntry
	for rows.Next() {
		var (
			e                      generic.LeaveEntry
			date, leaveType, hours string
			note                   sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.MemberID, &date, &leaveType, &hours, &note); err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		if e.Date, err = generic.ParseDate(date); err != nil {
			return nil, err
		}
		if e.Type, err = generic.ParseResource(leaveType); err != nil {
			return nil, err
		}
		e.Hours = parseHours(hours)
		e.Note = note.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteLeave removes one leave entry.
func (s *Store) DeleteLeave(ctx context.Context, companyID generic.CompanyID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM leave_entries WHERE company_id = ? AND id = ?", companyID, id)
	return err
}

// =============================================================================
// HOLIDAY STORE
// =============================================================================

// SaveHoliday saves a holiday to the database.
func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (id, company_id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(company_id, date, name) DO UPDATE SET
			recurring = excluded.recurring
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID, h.CompanyID, h.Date.String(), h.Name, h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ListHolidays returns the company's holidays plus global ones.
func (s *Store) ListHolidays(ctx context.Context, companyID generic.CompanyID) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, company_id, date, name, recurring
		FROM holidays
		WHERE company_id = ? OR company_id = ''
		ORDER BY date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var h generic.Holiday
		var dateStr string
		if err := rows.Scan(&h.ID, &h.CompanyID, &dateStr, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		if h.Date, err = generic.ParseDate(dateStr); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func parseHours(value string) generic.Hours {
	return generic.Hours{Value: generic.MustParseDecimal(value)}
}

func isForeignKeyError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// isUniqueError reports whether err is a UNIQUE violation naming column.
func isUniqueError(err error, column string) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return false
	}
	return strings.Contains(sqliteErr.Error(), column)
}
