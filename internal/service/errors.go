package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Error kinds. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
)

// Session engine errors, each wrapping one of the kinds above.
var (
	ErrIdentityMismatch     = fmt.Errorf("%w: identity does not own this candidate record", ErrForbidden)
	ErrAssessmentClosed     = fmt.Errorf("%w: assessment has been terminated", ErrForbidden)
	ErrAlreadyCompleted     = fmt.Errorf("%w: assessment already completed", ErrForbidden)
	ErrProfileIncomplete    = fmt.Errorf("%w: profile must be completed first", ErrUnauthorized)
	ErrCandidateNotFound    = fmt.Errorf("%w: candidate", ErrNotFound)
	ErrNoAssessmentAssigned = fmt.Errorf("%w: no assessment assigned", ErrNotFound)
	ErrAssessmentNotFound   = fmt.Errorf("%w: assessment", ErrNotFound)
)

// ValidationError carries field-level problems found by semantic checks that
// struct tags cannot express.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound)
}
