package formcheck

import (
	"errors"
	"fmt"
)

// ErrNilValidator is returned when registering a nil validator.
var ErrNilValidator = errors.New("nil validator")

// FieldValidationError is one failed rule for one value.
type FieldValidationError struct {
	// Field is the path of the failing value: "field", "field[row].column"
	// or "field.rowId.column".
	Field string `json:"field"`

	// Message is the rule's configured message, verbatim.
	Message string `json:"message"`

	// Rule is the lowercase rule kind, e.g. "required" or "minlength".
	Rule string `json:"rule"`
}

// ValidationResult is the outcome of validating a form or a single field.
type ValidationResult struct {
	Valid  bool                   `json:"valid"`
	Errors []FieldValidationError `json:"errors"`
}

func newResult(errs []FieldValidationError) ValidationResult {
	if errs == nil {
		errs = []FieldValidationError{}
	}
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Has reports whether any error is recorded for path.
func (r ValidationResult) Has(path string) bool {
	for _, e := range r.Errors {
		if e.Field == path {
			return true
		}
	}
	return false
}

// Messages returns the messages recorded for path, in order.
func (r ValidationResult) Messages(path string) []string {
	var out []string
	for _, e := range r.Errors {
		if e.Field == path {
			out = append(out, e.Message)
		}
	}
	return out
}

// AsyncResult is the single outcome of one asynchronous validator call.
type AsyncResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// AsyncError reports that an asynchronous validator failed to produce a
// result. It is distinct from a result with Valid set to false: the caller
// decides whether an unreachable validator blocks submission.
type AsyncError struct {
	Field     string
	Validator string
	Err       error
}

func (e *AsyncError) Error() string {
	return fmt.Sprintf("async validator %q on field %q: %v", e.Validator, e.Field, e.Err)
}

func (e *AsyncError) Unwrap() error { return e.Err }
