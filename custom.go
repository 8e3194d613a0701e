package formcheck

import "context"

// Custom is a named synchronous validator referenced by custom rules.
//
// Check receives the coerced value under test, the rule's
// customValidatorParams and the data of the enclosing scope (the form, or
// the row for table and grid cells). It reports whether the value is valid.
//
// Example:
//
//	type postcode struct{}
//
//	func (postcode) Check(v formcheck.Value, _ map[string]any, _ formcheck.Map) bool {
//	    s, ok := formcheck.AsString(v)
//	    return ok && len(s) == 4
//	}
type Custom interface {
	Check(value Value, params map[string]any, data Map) bool
}

// CustomFunc is a function adapter for Custom:
//
//	reg.Register("even", formcheck.CustomFunc(func(v formcheck.Value, _ map[string]any, _ formcheck.Map) bool {
//	    n, ok := formcheck.AsNumber(v)
//	    return ok && int(n)%2 == 0
//	}))
type CustomFunc func(value Value, params map[string]any, data Map) bool

// Check implements the Custom interface.
func (f CustomFunc) Check(value Value, params map[string]any, data Map) bool {
	return f(value, params, data)
}

// Async is a named asynchronous validator bound to a field through
// FieldConfig.AsyncValidation. It may perform I/O and must honour ctx.
//
// A returned error means the validator could not reach a verdict; it is
// propagated to the caller wrapped in *AsyncError rather than turned into
// an invalid result.
//
// Example:
//
//	type usernameAvailable struct {
//	    users UserStore
//	}
//
//	func (u *usernameAvailable) Validate(ctx context.Context, v formcheck.Value, _ map[string]any, _ formcheck.FieldConfig, _ formcheck.Map) (formcheck.AsyncResult, error) {
//	    name, _ := formcheck.AsString(v)
//	    taken, err := u.users.Exists(ctx, name)
//	    if err != nil {
//	        return formcheck.AsyncResult{}, err
//	    }
//	    if taken {
//	        return formcheck.AsyncResult{Valid: false, Message: "Username is taken"}, nil
//	    }
//	    return formcheck.AsyncResult{Valid: true}, nil
//	}
type Async interface {
	Validate(ctx context.Context, value Value, params map[string]any, field FieldConfig, data Map) (AsyncResult, error)
}

// AsyncFunc is a function adapter for Async.
type AsyncFunc func(ctx context.Context, value Value, params map[string]any, field FieldConfig, data Map) (AsyncResult, error)

// Validate implements the Async interface.
func (f AsyncFunc) Validate(ctx context.Context, value Value, params map[string]any, field FieldConfig, data Map) (AsyncResult, error) {
	return f(ctx, value, params, field, data)
}
