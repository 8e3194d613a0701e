package formcheck

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ValidateFieldAsync runs the async validator bound to field, if any.
//
// A field without a binding is valid. A binding whose validator is not
// registered is valid under FailOpen and invalid under FailClosed; either
// way a warning is logged. Otherwise the validator's result is returned
// unmodified, and a validator error is returned as *AsyncError.
//
// ValidateFieldAsync imposes no timeout of its own; bound ctx to limit it.
func (v *Validator) ValidateFieldAsync(ctx context.Context, field FieldConfig, value any, formData map[string]any) (AsyncResult, error) {
	return v.runAsync(ctx, field, FromAny(value), toMap(formData))
}

// ValidateAsync runs every async binding in cfg concurrently and collects
// the invalid results into a ValidationResult ordered by field declaration,
// regardless of completion order. Each error's path is the field name and
// its rule is "async".
//
// The first validator error cancels the remaining validators and is
// returned as *AsyncError.
func (v *Validator) ValidateAsync(ctx context.Context, cfg FormConfig, data map[string]any) (ValidationResult, error) {
	form := toMap(data)

	var bound []FieldConfig
	for _, field := range cfg.Fields {
		if asyncEligible(field) {
			bound = append(bound, field)
		}
	}

	results := make([]AsyncResult, len(bound))
	g, gctx := errgroup.WithContext(ctx)
	if v.asyncMax > 0 {
		g.SetLimit(v.asyncMax)
	}
	for i, field := range bound {
		i, field := i, field
		g.Go(func() error {
			res, err := v.runAsync(gctx, field, form.Get(field.Name), form)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ValidationResult{}, err
	}

	var errs []FieldValidationError
	for i, res := range results {
		if res.Valid {
			continue
		}
		e := FieldValidationError{
			Field:   bound[i].Name,
			Message: res.Message,
			Rule:    kindAsync,
		}
		v.hooks.ruleFailure(e)
		errs = append(errs, e)
	}
	return newResult(errs), nil
}

func asyncEligible(field FieldConfig) bool {
	if field.Archived || field.AsyncValidation == nil {
		return false
	}
	switch FieldType(strings.ToLower(string(field.Type))) {
	case FieldInfo, FieldFormReference:
		return false
	}
	return true
}

func (v *Validator) runAsync(ctx context.Context, field FieldConfig, value Value, form Map) (AsyncResult, error) {
	binding := field.AsyncValidation
	if binding == nil {
		return AsyncResult{Valid: true}, nil
	}

	a, found := v.async.Get(binding.Validator)
	if !found {
		v.log().Warn("async validator not registered",
			zap.String("path", field.Name),
			zap.String("validator", binding.Validator),
			zap.String("policy", v.policy.String()),
		)
		v.hooks.unknownValidator(field.Name, "async", binding.Validator)
		if v.policy == FailClosed {
			return AsyncResult{
				Valid:   false,
				Message: fmt.Sprintf("validator %q is not available", binding.Validator),
			}, nil
		}
		return AsyncResult{Valid: true}, nil
	}

	if err := ctx.Err(); err != nil {
		return AsyncResult{}, &AsyncError{Field: field.Name, Validator: binding.Validator, Err: err}
	}

	start := time.Now()
	res, err := a.Validate(ctx, value, binding.Params, field, form)
	duration := time.Since(start)
	if err != nil {
		v.hooks.asyncError(ctx, field.Name, binding.Validator, err, duration)
		return AsyncResult{}, &AsyncError{Field: field.Name, Validator: binding.Validator, Err: err}
	}

	v.hooks.asyncResult(ctx, field.Name, binding.Validator, res, duration)
	return res, nil
}
