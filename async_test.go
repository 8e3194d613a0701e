package formcheck

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

var errLookupDown = errors.New("lookup service down")

type AsyncSuite struct {
	suite.Suite
	reg *AsyncRegistry
	v   *Validator
}

func (s *AsyncSuite) SetupTest() {
	s.reg = NewAsyncRegistry(zap.NewNop())
	s.v = New(WithAsyncRegistry(s.reg), WithLogger(zap.NewNop()))
}

func TestAsyncSuite(t *testing.T) {
	suite.Run(t, new(AsyncSuite))
}

func withAsync(name, validator string) FieldConfig {
	return FieldConfig{
		Name:            name,
		Type:            FieldText,
		AsyncValidation: &AsyncBinding{Validator: validator, Trigger: "blur", DebounceMs: 300},
	}
}

// rejectAfter returns an async validator that sleeps for d and then rejects
// the value with msg.
func rejectAfter(d time.Duration, msg string) AsyncFunc {
	return func(ctx context.Context, _ Value, _ map[string]any, _ FieldConfig, _ Map) (AsyncResult, error) {
		select {
		case <-time.After(d):
			return AsyncResult{Valid: false, Message: msg}, nil
		case <-ctx.Done():
			return AsyncResult{}, ctx.Err()
		}
	}
}

func (s *AsyncSuite) TestFieldWithoutBindingIsValid() {
	res, err := s.v.ValidateFieldAsync(context.Background(), FieldConfig{Name: "x"}, "v", nil)
	s.Require().NoError(err)
	s.Assert().True(res.Valid)
}

func (s *AsyncSuite) TestResultIsReturnedUnmodified() {
	var gotParams map[string]any
	var gotField FieldConfig
	s.Require().NoError(s.reg.RegisterFunc("usernameAvailable", func(_ context.Context, v Value, params map[string]any, field FieldConfig, _ Map) (AsyncResult, error) {
		gotParams, gotField = params, field
		if v == String("taken") {
			return AsyncResult{Valid: false, Message: "Username is taken"}, nil
		}
		return AsyncResult{Valid: true, Message: "looks good"}, nil
	}))

	field := withAsync("username", "usernameAvailable")
	field.AsyncValidation.Params = map[string]any{"tenant": "acme"}

	res, err := s.v.ValidateFieldAsync(context.Background(), field, "taken", nil)
	s.Require().NoError(err)
	s.Assert().Equal(AsyncResult{Valid: false, Message: "Username is taken"}, res)
	s.Assert().Equal(map[string]any{"tenant": "acme"}, gotParams)
	s.Assert().Equal("username", gotField.Name)

	res, err = s.v.ValidateFieldAsync(context.Background(), field, "free", nil)
	s.Require().NoError(err)
	s.Assert().Equal(AsyncResult{Valid: true, Message: "looks good"}, res)
}

func (s *AsyncSuite) TestUnknownValidatorFailsOpen() {
	res, err := s.v.ValidateFieldAsync(context.Background(), withAsync("x", "missing"), "v", nil)
	s.Require().NoError(err)
	s.Assert().True(res.Valid)
}

func (s *AsyncSuite) TestUnknownValidatorFailClosed() {
	v := New(WithAsyncRegistry(s.reg), WithLogger(zap.NewNop()), WithPolicy(FailClosed))

	res, err := v.ValidateFieldAsync(context.Background(), withAsync("x", "missing"), "v", nil)
	s.Require().NoError(err)
	s.Assert().False(res.Valid)
	s.Assert().Equal(`validator "missing" is not available`, res.Message)
}

func (s *AsyncSuite) TestValidatorErrorIsAsyncError() {
	s.Require().NoError(s.reg.RegisterFunc("address", func(context.Context, Value, map[string]any, FieldConfig, Map) (AsyncResult, error) {
		return AsyncResult{}, errLookupDown
	}))

	_, err := s.v.ValidateFieldAsync(context.Background(), withAsync("street", "address"), "1 Main St", nil)

	var aerr *AsyncError
	s.Require().True(errors.As(err, &aerr))
	s.Assert().Equal("street", aerr.Field)
	s.Assert().Equal("address", aerr.Validator)
	s.Assert().ErrorIs(err, errLookupDown)
	s.Assert().Equal(`async validator "address" on field "street": lookup service down`, err.Error())
}

func (s *AsyncSuite) TestCancelledContext() {
	called := false
	s.Require().NoError(s.reg.RegisterFunc("slow", func(context.Context, Value, map[string]any, FieldConfig, Map) (AsyncResult, error) {
		called = true
		return AsyncResult{Valid: true}, nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.v.ValidateFieldAsync(ctx, withAsync("x", "slow"), "v", nil)
	s.Assert().ErrorIs(err, context.Canceled)
	s.Assert().False(called)
}

func (s *AsyncSuite) TestValidateAsyncOrdersByDeclaration() {
	s.Require().NoError(s.reg.Register("slow", rejectAfter(40*time.Millisecond, "slow says no")))
	s.Require().NoError(s.reg.Register("fast", rejectAfter(time.Millisecond, "fast says no")))

	cfg := FormConfig{Fields: []FieldConfig{
		withAsync("first", "slow"),
		{Name: "plain", Type: FieldText},
		withAsync("second", "fast"),
	}}

	res, err := s.v.ValidateAsync(context.Background(), cfg, map[string]any{"first": "a", "second": "b"})
	s.Require().NoError(err)
	s.Assert().False(res.Valid)
	s.Assert().Equal([]FieldValidationError{
		{Field: "first", Message: "slow says no", Rule: "async"},
		{Field: "second", Message: "fast says no", Rule: "async"},
	}, res.Errors)
}

func (s *AsyncSuite) TestValidateAsyncSkipsIneligibleFields() {
	var calls atomic.Int32
	s.Require().NoError(s.reg.RegisterFunc("count", func(context.Context, Value, map[string]any, FieldConfig, Map) (AsyncResult, error) {
		calls.Add(1)
		return AsyncResult{Valid: true}, nil
	}))

	archived := withAsync("archived", "count")
	archived.Archived = true
	info := withAsync("info", "count")
	info.Type = FieldInfo

	cfg := FormConfig{Fields: []FieldConfig{archived, info, withAsync("live", "count")}}

	res, err := s.v.ValidateAsync(context.Background(), cfg, nil)
	s.Require().NoError(err)
	s.Assert().True(res.Valid)
	s.Assert().NotNil(res.Errors)
	s.Assert().Equal(int32(1), calls.Load())
}

func (s *AsyncSuite) TestValidateAsyncErrorCancelsOthers() {
	s.Require().NoError(s.reg.RegisterFunc("broken", func(context.Context, Value, map[string]any, FieldConfig, Map) (AsyncResult, error) {
		return AsyncResult{}, errLookupDown
	}))
	s.Require().NoError(s.reg.Register("slow", rejectAfter(5*time.Second, "never")))

	cfg := FormConfig{Fields: []FieldConfig{withAsync("a", "slow"), withAsync("b", "broken")}}

	start := time.Now()
	_, err := s.v.ValidateAsync(context.Background(), cfg, nil)
	s.Assert().Less(time.Since(start), 2*time.Second)

	var aerr *AsyncError
	s.Require().True(errors.As(err, &aerr))
}

func TestAsyncConcurrencyLimit(t *testing.T) {
	reg := NewAsyncRegistry(zap.NewNop())
	var running, peak atomic.Int32
	require.NoError(t, reg.RegisterFunc("track", func(context.Context, Value, map[string]any, FieldConfig, Map) (AsyncResult, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return AsyncResult{Valid: true}, nil
	}))

	v := New(WithAsyncRegistry(reg), WithAsyncConcurrency(2), WithLogger(zap.NewNop()))
	cfg := FormConfig{Fields: []FieldConfig{
		withAsync("a", "track"), withAsync("b", "track"), withAsync("c", "track"), withAsync("d", "track"), withAsync("e", "track"),
	}}

	res, err := v.ValidateAsync(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}
