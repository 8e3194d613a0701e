package formcheck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestFromAny(t *testing.T) {
	tests := map[string]struct {
		in   any
		want Value
	}{
		"nil":              {nil, Null{}},
		"string":           {"abc", String("abc")},
		"bool":             {true, Bool(true)},
		"int":              {42, Number(42)},
		"uint8":            {uint8(7), Number(7)},
		"float32":          {float32(1.5), Number(1.5)},
		"json number":      {json.Number("3.25"), Number(3.25)},
		"bad json number":  {json.Number("x"), String("x")},
		"string slice":     {[]string{"a", "b"}, List{String("a"), String("b")}},
		"any slice":        {[]any{"a", 1, nil}, List{String("a"), Number(1), Null{}}},
		"string map":       {map[string]string{"a": "b"}, Map{"a": String("b")}},
		"nested map":       {map[string]any{"n": map[string]any{"x": 1}}, Map{"n": Map{"x": Number(1)}}},
		"row slice":        {[]map[string]any{{"a": "x"}}, List{Map{"a": String("x")}}},
		"value passthru":   {String("v"), String("v")},
		"nil list":         {List(nil), List{}},
		"typed int slice":  {[]int{1, 2}, List{Number(1), Number(2)}},
		"typed map":        {map[string]int{"a": 1}, Map{"a": Number(1)}},
		"nil pointer":      {(*string)(nil), Null{}},
		"raw json":         {json.RawMessage(`{"a":[1,"b"]}`), Map{"a": List{Number(1), String("b")}}},
		"gjson result":     {gjson.Parse(`"x"`), String("x")},
		"int keyed map":    {map[int]string{1: "a"}, String("map[1:a]")},
		"nil typed slice":  {[]int(nil), Null{}},
		"pointer to value": {ptr("p"), String("p")},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromAny(tt.in))
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestFromResult(t *testing.T) {
	raw := `{"s":"x","n":1.5,"t":true,"f":false,"z":null,"l":[1,{"k":"v"}],"m":{}}`
	got := FromJSON([]byte(raw))

	assert.Equal(t, Map{
		"s": String("x"),
		"n": Number(1.5),
		"t": Bool(true),
		"f": Bool(false),
		"z": Null{},
		"l": List{Number(1), Map{"k": String("v")}},
		"m": Map{},
	}, got)
}

func TestFromJSONInvalid(t *testing.T) {
	assert.Equal(t, Null{}, FromJSON([]byte(`{nope`)))
}

func TestIsEmpty(t *testing.T) {
	tests := map[string]struct {
		in    Value
		empty bool
	}{
		"nil":          {nil, true},
		"null":         {Null{}, true},
		"empty string": {String(""), true},
		"whitespace":   {String(" \t\n"), true},
		"text":         {String("a"), false},
		"zero":         {Number(0), false},
		"false":        {Bool(false), false},
		"empty list":   {List{}, true},
		"list":         {List{Null{}}, false},
		"empty map":    {Map{}, false},
		"nil map":      {Map(nil), false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.empty, IsEmpty(tt.in))
		})
	}
}

func TestAsNumber(t *testing.T) {
	tests := map[string]struct {
		in   Value
		want float64
		ok   bool
	}{
		"number":         {Number(2.5), 2.5, true},
		"numeric string": {String(" 10 "), 10, true},
		"negative":       {String("-3"), -3, true},
		"text":           {String("ten"), 0, false},
		"blank":          {String(""), 0, false},
		"infinity":       {String("Inf"), 0, false},
		"bool":           {Bool(true), 0, false},
		"list":           {List{Number(1)}, 0, false},
		"null":           {Null{}, 0, false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := AsNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAsString(t *testing.T) {
	s, ok := AsString(Number(12.5))
	assert.True(t, ok)
	assert.Equal(t, "12.5", s)

	s, ok = AsString(Number(100000000))
	assert.True(t, ok)
	assert.Equal(t, "100000000", s)

	s, ok = AsString(Bool(false))
	assert.True(t, ok)
	assert.Equal(t, "false", s)

	_, ok = AsString(Map{})
	assert.False(t, ok)

	_, ok = AsString(Null{})
	assert.False(t, ok)
}

func TestTextLengthCountsUTF16Units(t *testing.T) {
	assert.Equal(t, 3, textLength("abc"))
	assert.Equal(t, 1, textLength("é"))
	assert.Equal(t, 2, textLength("😀"))
}

func TestLooseEqual(t *testing.T) {
	tests := map[string]struct {
		a, b Value
		want bool
	}{
		"same string":         {String("a"), String("a"), true},
		"different string":    {String("a"), String("b"), false},
		"number and string":   {Number(3), String("3"), true},
		"string and number":   {String("3.0"), Number(3), true},
		"bool and string":     {Bool(true), String("TRUE"), true},
		"bool and bad string": {Bool(true), String("yes"), false},
		"null and blank":      {Null{}, String(""), true},
		"blank and null":      {String(" "), Null{}, true},
		"null and null":       {Null{}, Null{}, true},
		"null and zero":       {Null{}, Number(0), false},
		"null and empty list": {Null{}, List{}, false},
		"lists":               {List{String("1")}, List{Number(1)}, true},
		"maps":                {Map{"a": String("x")}, Map{"a": String("x")}, true},
		"maps differ":         {Map{"a": String("x")}, Map{"b": String("x")}, false},
		"list and string":     {List{String("a")}, String("a"), false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, looseEqual(tt.a, tt.b))
		})
	}
}
