// Package formcheck validates form submissions against declarative,
// JSON-serializable form configurations.
//
// The same configuration is evaluated in the browser and again on the server;
// formcheck is the server side. It walks a FormConfig, resolves each field's
// rules (including conditional rules and the nested rules of tables and data
// grids), evaluates built-in and registered predicates, and returns a
// deterministic, path-addressed list of errors.
//
// # Quick Start
//
// Build the registries once, at startup, and share them:
//
//	reg := formcheck.NewRegistry(logger)
//	reg.RegisterFunc("australianPhoneNumber", func(v formcheck.Value, _ map[string]any, _ formcheck.Map) bool {
//	    s, _ := formcheck.AsString(v)
//	    return auPhone.MatchString(s)
//	})
//
//	v := formcheck.New(
//	    formcheck.WithRegistry(reg),
//	    formcheck.WithLogger(logger),
//	)
//
// Validate a decoded submission:
//
//	res := v.Validate(cfg, data)
//	if !res.Valid {
//	    for _, e := range res.Errors {
//	        fmt.Println(e.Field, e.Rule, e.Message)
//	    }
//	}
//
// Or a raw JSON body:
//
//	res, err := v.ValidateJSON(cfg, body)
//
// # Values
//
// Submitted values arrive as native Go values or as decoded wire values. They
// are normalized by FromAny into the sealed Value union (Null, String, Number,
// Bool, List, Map) before any rule runs. IsEmpty defines emptiness for every
// rule: Null, blank strings and empty lists are empty; maps, numbers and
// booleans never are.
//
// # Rules
//
// Built-in rule kinds are required, email, minLength, maxLength, min, max and
// pattern; custom rules delegate to a named validator in the Registry. Every
// kind except required and custom is skipped when the value is empty. Values
// that cannot be coerced to what a rule needs pass that rule.
//
// A rule may carry a condition. The rule is skipped unless the condition
// holds:
//
//	{"type": "required", "message": "Income is required",
//	 "condition": {"field": "employmentType", "operator": "equals", "value": "employed"}}
//
// Inside tables and data grids a condition refers to a sibling column of the
// same row; prefix the name with "$form." to read a top-level field instead.
//
// # Composite Fields
//
// Errors are addressed by path:
//
//   - plain fields: "email"
//   - table cells: "lineItems[1].qty" (rows whose columns are all empty are skipped)
//   - data grid cells: "scores.math.term1" (computed columns are skipped)
//   - phone fields validate the "number" sub-value at the field path
//   - date-range fields apply required to "fromDate" and, unless
//     toDateOptional is set, "toDate"
//
// Info, form-reference and archived fields are never validated.
//
// # Misconfiguration
//
// An unregistered custom or async validator, or a pattern that does not
// compile, passes and logs a warning. WithPolicy(FailClosed) turns these into
// failures instead. Hooks report each occurrence:
//
//	v := formcheck.New(
//	    formcheck.WithOnUnknownValidator(func(path, kind, name string) {
//	        metrics.Incr("form.unknown_validator", "name:"+name)
//	    }),
//	)
//
// # Async Validation
//
// Async validators (username availability, address lookups) run in a separate
// pass that the caller composes with Validate:
//
//	res := v.Validate(cfg, data)
//	asyncRes, err := v.ValidateAsync(ctx, cfg, data)
//	var aerr *formcheck.AsyncError
//	if errors.As(err, &aerr) {
//	    // the validator could not answer; block or allow at the boundary
//	}
//
// ValidateAsync runs bound fields concurrently but orders errors by field
// declaration.
//
// # Structural Checks
//
// Lint reports malformed configurations (duplicate names, unknown sections,
// missing table or grid configuration). Validate assumes Lint has passed.
//
// # Thread Safety
//
// Validator is safe for concurrent use. Registries are safe for concurrent
// registration and lookup; a lookup racing an Unregister may observe either
// state.
package formcheck
