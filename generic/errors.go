/*
errors.go - Centralized error types for the award engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Configuration errors - malformed awards or bracket tables, rejected
     before any calculation starts
  2. Input validation errors - a bad shift or pay request; fatal to that
     request only
  3. Lookup errors - the requested award or financial year does not exist

  Advisory conditions (overtime, broken shifts, meal allowances...) are NOT
  errors. They are returned as Warning values next to a successful result.

USAGE:
  if errors.Is(err, generic.ErrInvalidInterval) {
      // reject the whole calculation
  }

  var cfgErr *generic.ConfigError
  if errors.As(err, &cfgErr) {
      log.Printf("bad field %s", cfgErr.Field)
  }

SEE ALSO:
  - award/policy.go: Raises ConfigError while resolving rules
  - shift/classify.go: Raises InvalidIntervalError
  - api/handlers.go: Maps these errors onto HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidConfig is returned for malformed award or table configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidInterval is returned when a shift ends at or before its start.
	ErrInvalidInterval = errors.New("invalid interval: end not after start")

	// ErrMissingTimestamp is returned when a shift lacks a start or end.
	ErrMissingTimestamp = errors.New("missing shift timestamp")

	// ErrMissingAward is returned when a pay calculation has no award selected.
	ErrMissingAward = errors.New("no award selected")

	// ErrInvalidBaseRate is returned when the base hourly rate is not positive.
	ErrInvalidBaseRate = errors.New("base rate must be positive")

	// ErrInvalidPayPeriod is returned for an unknown pay period.
	ErrInvalidPayPeriod = errors.New("invalid pay period")

	// ErrInvalidEmploymentType is returned for an unknown employment type.
	ErrInvalidEmploymentType = errors.New("invalid employment type")

	// ErrUnknownAllowance is returned when a selected custom allowance is not
	// defined by the award.
	ErrUnknownAllowance = errors.New("unknown allowance")

	// ErrAwardNotFound is returned when a referenced award doesn't exist.
	ErrAwardNotFound = errors.New("award not found")

	// ErrTableNotFound is returned when no tables exist for a financial year.
	ErrTableNotFound = errors.New("tables not found for financial year")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConfigError names the configuration field that failed validation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// NewConfigError builds a ConfigError with a formatted reason.
func NewConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InvalidIntervalError carries the offending shift bounds.
type InvalidIntervalError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("invalid interval: end %s is not after start %s",
		e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
}

func (e *InvalidIntervalError) Unwrap() error {
	return ErrInvalidInterval
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrMissingTimestamp) ||
		errors.Is(err, ErrMissingAward) ||
		errors.Is(err, ErrInvalidBaseRate) ||
		errors.Is(err, ErrInvalidPayPeriod) ||
		errors.Is(err, ErrInvalidEmploymentType) ||
		errors.Is(err, ErrUnknownAllowance)
}

// IsNotFound returns true if the error indicates a missing award or table.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAwardNotFound) ||
		errors.Is(err, ErrTableNotFound)
}
