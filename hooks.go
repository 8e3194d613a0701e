package formcheck

import (
	"context"
	"time"
)

// OnRuleFailureFunc is called for every error added to a ValidationResult.
type OnRuleFailureFunc func(err FieldValidationError)

// OnUnknownValidatorFunc is called when a custom rule or async binding names
// a validator that is not registered. kind is "custom" or "async".
type OnUnknownValidatorFunc func(path, kind, name string)

// OnInvalidPatternFunc is called when a pattern rule's source does not compile.
type OnInvalidPatternFunc func(path, pattern string, err error)

// OnAsyncResultFunc is called after an async validator returns a result.
type OnAsyncResultFunc func(ctx context.Context, field, validator string, res AsyncResult, duration time.Duration)

// OnAsyncErrorFunc is called after an async validator returns an error.
type OnAsyncErrorFunc func(ctx context.Context, field, validator string, err error, duration time.Duration)

// hooks holds all configured hook functions.
type hooks struct {
	onRuleFailure      []OnRuleFailureFunc
	onUnknownValidator []OnUnknownValidatorFunc
	onInvalidPattern   []OnInvalidPatternFunc
	onAsyncResult      []OnAsyncResultFunc
	onAsyncError       []OnAsyncErrorFunc
}

// WithOnRuleFailure adds a hook called for every rule failure.
// Multiple hooks are called in order.
//
// Example:
//
//	formcheck.WithOnRuleFailure(func(e formcheck.FieldValidationError) {
//	    metrics.Incr("form.rule_failure", "rule:"+e.Rule)
//	})
func WithOnRuleFailure(fn OnRuleFailureFunc) Option {
	return func(v *Validator) {
		v.hooks.onRuleFailure = append(v.hooks.onRuleFailure, fn)
	}
}

// WithOnUnknownValidator adds a hook called when a validator name does not
// resolve. The rule itself passes under FailOpen.
// Multiple hooks are called in order.
func WithOnUnknownValidator(fn OnUnknownValidatorFunc) Option {
	return func(v *Validator) {
		v.hooks.onUnknownValidator = append(v.hooks.onUnknownValidator, fn)
	}
}

// WithOnInvalidPattern adds a hook called when a pattern rule cannot be
// compiled. Multiple hooks are called in order.
func WithOnInvalidPattern(fn OnInvalidPatternFunc) Option {
	return func(v *Validator) {
		v.hooks.onInvalidPattern = append(v.hooks.onInvalidPattern, fn)
	}
}

// WithOnAsyncResult adds a hook called after each async validator result.
// Hooks may run concurrently during ValidateAsync.
//
// Example:
//
//	formcheck.WithOnAsyncResult(func(ctx context.Context, field, validator string, res formcheck.AsyncResult, d time.Duration) {
//	    metrics.Timing("form.async", d, "validator:"+validator)
//	})
func WithOnAsyncResult(fn OnAsyncResultFunc) Option {
	return func(v *Validator) {
		v.hooks.onAsyncResult = append(v.hooks.onAsyncResult, fn)
	}
}

// WithOnAsyncError adds a hook called after each async validator error.
// Hooks may run concurrently during ValidateAsync.
func WithOnAsyncError(fn OnAsyncErrorFunc) Option {
	return func(v *Validator) {
		v.hooks.onAsyncError = append(v.hooks.onAsyncError, fn)
	}
}

func (h *hooks) ruleFailure(err FieldValidationError) {
	for _, fn := range h.onRuleFailure {
		fn(err)
	}
}

func (h *hooks) unknownValidator(path, kind, name string) {
	for _, fn := range h.onUnknownValidator {
		fn(path, kind, name)
	}
}

func (h *hooks) invalidPattern(path, pattern string, err error) {
	for _, fn := range h.onInvalidPattern {
		fn(path, pattern, err)
	}
}

func (h *hooks) asyncResult(ctx context.Context, field, validator string, res AsyncResult, d time.Duration) {
	for _, fn := range h.onAsyncResult {
		fn(ctx, field, validator, res, d)
	}
}

func (h *hooks) asyncError(ctx context.Context, field, validator string, err error, d time.Duration) {
	for _, fn := range h.onAsyncError {
		fn(ctx, field, validator, err, d)
	}
}
