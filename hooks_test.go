package formcheck

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type HooksSuite struct {
	suite.Suite
}

func TestHooksSuite(t *testing.T) {
	suite.Run(t, new(HooksSuite))
}

func (s *HooksSuite) TestOnRuleFailure() {
	var got []FieldValidationError
	v := New(
		WithLogger(zap.NewNop()),
		WithOnRuleFailure(func(e FieldValidationError) {
			got = append(got, e)
		}),
	)

	cfg := FormConfig{Fields: []FieldConfig{
		{Name: "a", Type: FieldText, Validations: []RuleConfig{{Type: RuleRequired, Message: "A"}}},
		{Name: "b", Type: FieldText, Validations: []RuleConfig{{Type: RuleRequired, Message: "B"}}},
	}}
	res := v.Validate(cfg, map[string]any{"b": "ok"})

	s.Assert().Equal(res.Errors, got)
}

func (s *HooksSuite) TestMultipleHooksRunInOrder() {
	var order []int
	v := New(
		WithLogger(zap.NewNop()),
		WithOnRuleFailure(func(FieldValidationError) { order = append(order, 1) }),
		WithOnRuleFailure(func(FieldValidationError) { order = append(order, 2) }),
	)

	v.ValidateField(FieldConfig{Name: "a", Type: FieldText, Validations: []RuleConfig{
		{Type: RuleRequired, Message: "A"},
	}}, nil, nil)

	s.Assert().Equal([]int{1, 2}, order)
}

func (s *HooksSuite) TestOnUnknownValidator() {
	type call struct{ path, kind, name string }
	var mu sync.Mutex
	var calls []call
	v := New(
		WithLogger(zap.NewNop()),
		WithOnUnknownValidator(func(path, kind, name string) {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, call{path, kind, name})
		}),
	)

	field := FieldConfig{
		Name: "username",
		Type: FieldText,
		Validations: []RuleConfig{
			{Type: RuleCustom, CustomValidatorName: "noSwears", Message: "m"},
		},
		AsyncValidation: &AsyncBinding{Validator: "usernameAvailable"},
	}

	v.ValidateField(field, "bob", nil)
	_, err := v.ValidateFieldAsync(context.Background(), field, "bob", nil)
	s.Require().NoError(err)

	s.Assert().Equal([]call{
		{"username", "custom", "noSwears"},
		{"username", "async", "usernameAvailable"},
	}, calls)
}

func (s *HooksSuite) TestOnInvalidPattern() {
	var gotPath, gotPattern string
	var gotErr error
	v := New(
		WithLogger(zap.NewNop()),
		WithOnInvalidPattern(func(path, pattern string, err error) {
			gotPath, gotPattern, gotErr = path, pattern, err
		}),
	)

	v.ValidateField(FieldConfig{Name: "code", Type: FieldText, Validations: []RuleConfig{
		{Type: RulePattern, Value: "[", Message: "m"},
	}}, "abc", nil)

	s.Assert().Equal("code", gotPath)
	s.Assert().Equal("[", gotPattern)
	s.Assert().Error(gotErr)
}

func (s *HooksSuite) TestOnAsyncResultAndError() {
	reg := NewAsyncRegistry(zap.NewNop())
	s.Require().NoError(reg.RegisterFunc("ok", func(context.Context, Value, map[string]any, FieldConfig, Map) (AsyncResult, error) {
		return AsyncResult{Valid: true}, nil
	}))
	s.Require().NoError(reg.RegisterFunc("down", func(context.Context, Value, map[string]any, FieldConfig, Map) (AsyncResult, error) {
		return AsyncResult{}, errLookupDown
	}))

	var resultField, errorField string
	var resultDuration time.Duration
	var hookErr error
	v := New(
		WithAsyncRegistry(reg),
		WithLogger(zap.NewNop()),
		WithOnAsyncResult(func(_ context.Context, field, validator string, res AsyncResult, d time.Duration) {
			resultField = field + "/" + validator
			resultDuration = d
		}),
		WithOnAsyncError(func(_ context.Context, field, validator string, err error, _ time.Duration) {
			errorField = field + "/" + validator
			hookErr = err
		}),
	)

	_, err := v.ValidateFieldAsync(context.Background(), FieldConfig{Name: "a", AsyncValidation: &AsyncBinding{Validator: "ok"}}, "x", nil)
	s.Require().NoError(err)
	_, err = v.ValidateFieldAsync(context.Background(), FieldConfig{Name: "b", AsyncValidation: &AsyncBinding{Validator: "down"}}, "x", nil)
	s.Require().Error(err)

	s.Assert().Equal("a/ok", resultField)
	s.Assert().GreaterOrEqual(resultDuration, time.Duration(0))
	s.Assert().Equal("b/down", errorField)
	s.Assert().True(errors.Is(hookErr, errLookupDown))
}

func (s *HooksSuite) TestAsyncFailuresReachRuleFailureHook() {
	reg := NewAsyncRegistry(zap.NewNop())
	s.Require().NoError(reg.RegisterFunc("no", func(context.Context, Value, map[string]any, FieldConfig, Map) (AsyncResult, error) {
		return AsyncResult{Valid: false, Message: "nope"}, nil
	}))

	var got []FieldValidationError
	v := New(
		WithAsyncRegistry(reg),
		WithLogger(zap.NewNop()),
		WithOnRuleFailure(func(e FieldValidationError) { got = append(got, e) }),
	)

	cfg := FormConfig{Fields: []FieldConfig{{Name: "u", Type: FieldText, AsyncValidation: &AsyncBinding{Validator: "no"}}}}
	_, err := v.ValidateAsync(context.Background(), cfg, nil)
	s.Require().NoError(err)
	s.Assert().Equal([]FieldValidationError{{Field: "u", Message: "nope", Rule: "async"}}, got)
}
