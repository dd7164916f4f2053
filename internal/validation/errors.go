package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Fatal error kinds. A run that hits any of them produces no output.
var (
	// ErrMalformedInput is returned when the input cannot be read as a table.
	ErrMalformedInput = errors.New("malformed input")

	// ErrMissingColumns is returned when required columns are absent.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrInvariantViolated is returned when a row breaks a business-critical numeric rule.
	ErrInvariantViolated = errors.New("critical validation failed")

	// ErrNoValidRows is returned when no row survives date normalization.
	ErrNoValidRows = errors.New("no valid rows")
)

// FatalError is the run-aborting diagnosis of the validator.
// errors.Is matches Kind; errors.As reaches the detail error.
type FatalError struct {
	Kind    error
	Missing []string // set for ErrMissingColumns
	Err     error    // detail; *multierror.Error for ErrInvariantViolated
}

func (e *FatalError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("%v: %s", e.Kind, strings.Join(e.Missing, ", "))
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return e.Kind.Error()
	}
}

func (e *FatalError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func fatal(kind error, err error) *FatalError {
	return &FatalError{Kind: kind, Err: err}
}

// ViolationError describes one failed critical check.
type ViolationError struct {
	Check   string
	Message string
	Count   int
	Samples []string // first offending invoice ids
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("%s in %d row(s) (e.g. %s)", e.Message, e.Count, strings.Join(e.Samples, ", "))
}

// Violations extracts every failed critical check from err.
func Violations(err error) []*ViolationError {
	var fe *FatalError
	if !errors.As(err, &fe) || fe.Err == nil {
		return nil
	}

	var merr *multierror.Error
	if errors.As(fe.Err, &merr) {
		out := make([]*ViolationError, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			var ve *ViolationError
			if errors.As(e, &ve) {
				out = append(out, ve)
			}
		}
		return out
	}

	var ve *ViolationError
	if errors.As(fe.Err, &ve) {
		return []*ViolationError{ve}
	}
	return nil
}
