/*
errors.go - Centralized error types for the planning engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The pure components (capacity, aggregation, period, insights) never
  return errors; these are raised by row validation, settings parsing
  and the storage layer.

ERROR CATEGORIES:
  1. Validation errors - Malformed rows and settings
  2. Lookup errors - Missing companies, members, projects
  3. Store errors - Database-level failures

USAGE:
  if errors.Is(err, generic.ErrNegativeHours) {
      // reject the write with 400
  }

SEE ALSO:
  - entities.go: Validate methods that produce these errors
  - api/handlers.go: Maps them to HTTP statuses
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRow is returned when a row is missing a required field.
	ErrInvalidRow = errors.New("invalid row")

	// ErrNegativeHours is returned when hours or capacity are below zero.
	ErrNegativeHours = errors.New("hours must not be negative")

	// ErrInvalidWeek is returned when a week key is not a Monday ISO date.
	ErrInvalidWeek = errors.New("invalid week")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidSettings is returned when company settings cannot be used.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrInvalidThresholds is returned when zone thresholds are out of order.
	ErrInvalidThresholds = errors.New("invalid thresholds")

	// ErrUnknownLeaveType is returned for a leave type nobody registered.
	ErrUnknownLeaveType = errors.New("unknown leave type")

	// ErrDuplicateLeaveDay is returned when a member already has leave on a
	// requested day.
	ErrDuplicateLeaveDay = errors.New("leave already booked on this day")

	ErrCompanyNotFound = errors.New("company not found")
	ErrMemberNotFound  = errors.New("member not found")
	ErrProjectNotFound = errors.New("project not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RowError names the entity and field that failed validation.
type RowError struct {
	Entity string // "member", "allocation", ...
	Field  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Entity, e.Field, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func missing(entity, field string) error {
	return &RowError{Entity: entity, Field: field, Err: ErrInvalidRow}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRow) ||
		errors.Is(err, ErrNegativeHours) ||
		errors.Is(err, ErrInvalidWeek) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidSettings) ||
		errors.Is(err, ErrInvalidThresholds) ||
		errors.Is(err, ErrUnknownLeaveType) ||
		errors.Is(err, ErrDuplicateLeaveDay)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCompanyNotFound) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrProjectNotFound)
}
