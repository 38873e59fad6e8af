package services

import (
	"errors"
	"sort"
	"strings"
)

// Errors shared by the services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrTournamentNotFound = errors.New("tournament not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrTeamNotFound       = errors.New("team not found")

	// Validation
	ErrValidationFailed           = errors.New("validation failed")
	ErrTournamentInvalidDateRange = errors.New("tournament end date must be after start date")
	ErrUnresolvedTournament       = errors.New("group must belong to an existing tournament")
	ErrInvalidLogo                = errors.New("logo must be a supported image within the size limit")

	// Conflicts
	ErrTeamNameConflict = errors.New("team name is already in use")
	ErrTeamInUse        = errors.New("team cannot be deleted as it is used by matches or standings")
)

// ValidationError carries per-field messages for re-rendering a form. It matches
// ErrValidationFailed and, when set, the specific rule that failed.
type ValidationError struct {
	Fields map[string]string
	cause  error
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) addCause(field, message string, cause error) {
	e.Add(field, message)
	if e.cause == nil {
		e.cause = cause
	}
}

func (e *ValidationError) Valid() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrValidationFailed}
	}
	return []error{ErrValidationFailed, e.cause}
}
