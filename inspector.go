package formcheck

import (
	"errors"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned when a submission is not valid JSON.
var ErrInvalidJSON = errors.New("invalid JSON")

// ErrNotObject is returned when a submission is valid JSON but not an object.
var ErrNotObject = errors.New("submission is not a JSON object")

// Inspector decodes a raw submission into form data keyed by field name.
// Different inspectors handle different wire formats.
type Inspector interface {
	Inspect(raw []byte) (Map, error)
}

// InspectorFunc adapts a function into an Inspector.
type InspectorFunc func(raw []byte) (Map, error)

// Inspect implements the Inspector interface.
func (f InspectorFunc) Inspect(raw []byte) (Map, error) {
	return f(raw)
}

// JSONInspector returns an Inspector that uses gjson to decode submissions.
// Numbers become Number, nested arrays and objects become List and Map.
func JSONInspector() Inspector {
	return jsonInspector{}
}

type jsonInspector struct{}

func (jsonInspector) Inspect(raw []byte) (Map, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSON
	}
	r := gjson.ParseBytes(raw)
	if !r.IsObject() {
		return nil, ErrNotObject
	}
	m, _ := FromResult(r).(Map)
	return m, nil
}

// Lookup returns the value at a gjson path in a raw submission, e.g.
// "lineItems.1.qty". Missing paths are Null.
func Lookup(raw []byte, path string) Value {
	r := gjson.GetBytes(raw, path)
	if !r.Exists() {
		return Null{}
	}
	return FromResult(r)
}
