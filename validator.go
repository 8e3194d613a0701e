package formcheck

import (
	"fmt"

	"go.uber.org/zap"
)

// Policy decides how misconfigured extension points are treated.
type Policy int

const (
	// FailOpen treats an unregistered validator or an uncompilable pattern
	// as a pass and logs a warning. This is the default.
	FailOpen Policy = iota

	// FailClosed reports such rules as failures using the rule's message.
	FailClosed
)

func (p Policy) String() string {
	switch p {
	case FailOpen:
		return "fail-open"
	case FailClosed:
		return "fail-closed"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy parses "fail-open" or "fail-closed".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "fail-open", "open", "":
		return FailOpen, nil
	case "fail-closed", "closed":
		return FailClosed, nil
	}
	return FailOpen, fmt.Errorf("unknown policy %q", s)
}

// Validator evaluates form submissions against form configurations.
//
// Usage:
//  1. Build registries with NewRegistry and NewAsyncRegistry and register
//     the application's named validators
//  2. Create a Validator with New, passing the registries
//  3. Call Validate (and, separately, ValidateAsync) per submission
//
// A Validator holds no per-call state and is safe for concurrent use.
type Validator struct {
	registry  *Registry
	async     *AsyncRegistry
	inspector Inspector
	logger    *zap.Logger
	policy    Policy
	asyncMax  int
	hooks     hooks
}

// Option configures a Validator.
type Option func(*Validator)

// New creates a Validator with the given options.
//
// Without WithRegistry or WithAsyncRegistry the Validator gets its own empty
// registries, so every custom rule and async binding falls under the
// misconfiguration policy.
//
// Example:
//
//	reg := formcheck.NewRegistry(logger)
//	reg.Register("australianPhoneNumber", auPhone)
//
//	v := formcheck.New(
//	    formcheck.WithRegistry(reg),
//	    formcheck.WithLogger(logger),
//	)
func New(opts ...Option) *Validator {
	v := &Validator{
		inspector: JSONInspector(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.registry == nil {
		v.registry = NewRegistry(v.logger)
	}
	if v.async == nil {
		v.async = NewAsyncRegistry(v.logger)
	}
	return v
}

// WithRegistry sets the registry of custom validators.
func WithRegistry(r *Registry) Option {
	return func(v *Validator) {
		v.registry = r
	}
}

// WithAsyncRegistry sets the registry of async validators.
func WithAsyncRegistry(r *AsyncRegistry) Option {
	return func(v *Validator) {
		v.async = r
	}
}

// WithLogger sets the logger used for fail-open warnings. The default is
// zap.L(), resolved on each use.
func WithLogger(l *zap.Logger) Option {
	return func(v *Validator) {
		v.logger = l
	}
}

// WithPolicy sets the misconfiguration policy.
func WithPolicy(p Policy) Option {
	return func(v *Validator) {
		v.policy = p
	}
}

// WithInspector sets the inspector used by ValidateJSON.
func WithInspector(i Inspector) Option {
	return func(v *Validator) {
		v.inspector = i
	}
}

// WithAsyncConcurrency caps how many async validators ValidateAsync runs at
// once. Zero or less means no cap.
func WithAsyncConcurrency(n int) Option {
	return func(v *Validator) {
		v.asyncMax = n
	}
}

// Registry returns the custom validator registry.
func (v *Validator) Registry() *Registry { return v.registry }

// AsyncRegistry returns the async validator registry.
func (v *Validator) AsyncRegistry() *AsyncRegistry { return v.async }

func (v *Validator) log() *zap.Logger {
	if v.logger != nil {
		return v.logger
	}
	return zap.L()
}

// Validate checks data against every field of cfg in declaration order.
// A missing entry in data is an absent value, never an error by itself.
// The result is valid iff no rule failed.
//
// Validate performs no I/O and never runs async validators; see
// ValidateAsync.
func (v *Validator) Validate(cfg FormConfig, data map[string]any) ValidationResult {
	return v.validateMap(cfg, toMap(data))
}

// ValidateJSON decodes a JSON submission with the configured Inspector and
// validates it.
func (v *Validator) ValidateJSON(cfg FormConfig, raw []byte) (ValidationResult, error) {
	data, err := v.inspector.Inspect(raw)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("inspect submission: %w", err)
	}
	return v.validateMap(cfg, data), nil
}

// ValidateField applies the same dispatch as Validate to one field. formData
// is consulted only by conditions; nil is an empty form.
func (v *Validator) ValidateField(field FieldConfig, value any, formData map[string]any) ValidationResult {
	return newResult(v.dispatch(field, FromAny(value), toMap(formData)))
}

func (v *Validator) validateMap(cfg FormConfig, data Map) ValidationResult {
	var errs []FieldValidationError
	for _, field := range cfg.Fields {
		errs = append(errs, v.dispatch(field, data.Get(field.Name), data)...)
	}
	return newResult(errs)
}

func toMap(data map[string]any) Map {
	m := make(Map, len(data))
	for k, item := range data {
		m[k] = FromAny(item)
	}
	return m
}
