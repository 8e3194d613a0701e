package formcheck

import "strings"

// FormScopePrefix selects the top-level form data from inside a table or
// grid row, e.g. "$form.country". Without the prefix a condition refers to a
// sibling in the current scope.
const FormScopePrefix = "$form."

// ConditionOperator compares a condition's target value.
type ConditionOperator string

// Condition operators.
const (
	OpEquals     ConditionOperator = "equals"
	OpNotEquals  ConditionOperator = "notEquals"
	OpIsEmpty    ConditionOperator = "isEmpty"
	OpIsNotEmpty ConditionOperator = "isNotEmpty"
)

// ConditionConfig gates a rule on another value. A rule whose condition does
// not hold is skipped and never reports an error.
//
// All and Any nest further conditions; when several of Field, All and Any are
// set every part must hold.
type ConditionConfig struct {
	Field    string            `json:"field,omitempty" yaml:"field,omitempty"`
	Operator ConditionOperator `json:"operator,omitempty" yaml:"operator,omitempty"`
	Value    any               `json:"value,omitempty" yaml:"value,omitempty"`
	All      []ConditionConfig `json:"all,omitempty" yaml:"all,omitempty"`
	Any      []ConditionConfig `json:"any,omitempty" yaml:"any,omitempty"`
}

// Scope resolves condition targets by name.
type Scope interface {
	Lookup(name string) Value
}

// NewScope returns a Scope over the current row and the whole form. For
// top-level fields row and form are the same map.
func NewScope(row, form Map) Scope {
	return scope{row: row, form: form}
}

type scope struct {
	row  Map
	form Map
}

func (s scope) Lookup(name string) Value {
	if rest, ok := strings.CutPrefix(name, FormScopePrefix); ok {
		return s.form.Get(rest)
	}
	return s.row.Get(name)
}

// Predicate decides whether a condition holds in a scope.
type Predicate interface {
	Match(s Scope) bool
}

// FieldEquals matches when the named value loosely equals value.
func FieldEquals(name string, value any) Predicate {
	return fieldEquals{name: name, value: FromAny(value)}
}

type fieldEquals struct {
	name  string
	value Value
}

func (p fieldEquals) Match(s Scope) bool {
	return looseEqual(s.Lookup(p.name), p.value)
}

// FieldNotEquals matches when the named value does not loosely equal value.
func FieldNotEquals(name string, value any) Predicate {
	return not{p: FieldEquals(name, value)}
}

// FieldEmpty matches when the named value is empty or unresolvable.
func FieldEmpty(name string) Predicate {
	return fieldEmpty{name: name}
}

type fieldEmpty struct {
	name string
}

func (p fieldEmpty) Match(s Scope) bool {
	return IsEmpty(s.Lookup(p.name))
}

// FieldNotEmpty matches when the named value is not empty.
func FieldNotEmpty(name string) Predicate {
	return not{p: FieldEmpty(name)}
}

type not struct {
	p Predicate
}

func (n not) Match(s Scope) bool {
	return !n.p.Match(s)
}

// All matches when every predicate matches.
func All(ps ...Predicate) Predicate {
	return all{ps: ps}
}

type all struct {
	ps []Predicate
}

func (a all) Match(s Scope) bool {
	for _, p := range a.ps {
		if !p.Match(s) {
			return false
		}
	}
	return true
}

// Any matches when at least one predicate matches.
func Any(ps ...Predicate) Predicate {
	return anyOf{ps: ps}
}

type anyOf struct {
	ps []Predicate
}

func (a anyOf) Match(s Scope) bool {
	for _, p := range a.ps {
		if p.Match(s) {
			return true
		}
	}
	return false
}

type always struct{}

func (always) Match(Scope) bool { return true }

// Predicate compiles the configuration. A nil condition always holds, as
// does an operator this package does not know, so the gated rule still runs.
func (c *ConditionConfig) Predicate() Predicate {
	if c == nil {
		return always{}
	}

	var parts []Predicate
	if c.Field != "" {
		parts = append(parts, c.operator())
	}
	if len(c.All) > 0 {
		nested := make([]Predicate, len(c.All))
		for i := range c.All {
			nested[i] = c.All[i].Predicate()
		}
		parts = append(parts, All(nested...))
	}
	if len(c.Any) > 0 {
		nested := make([]Predicate, len(c.Any))
		for i := range c.Any {
			nested[i] = c.Any[i].Predicate()
		}
		parts = append(parts, Any(nested...))
	}

	switch len(parts) {
	case 0:
		return always{}
	case 1:
		return parts[0]
	}
	return All(parts...)
}

func (c *ConditionConfig) operator() Predicate {
	switch strings.ToLower(string(c.Operator)) {
	case "equals":
		return FieldEquals(c.Field, c.Value)
	case "notequals":
		return FieldNotEquals(c.Field, c.Value)
	case "isempty":
		return FieldEmpty(c.Field)
	case "isnotempty":
		return FieldNotEmpty(c.Field)
	}
	return always{}
}

// Holds reports whether the condition is satisfied in s.
func (c *ConditionConfig) Holds(s Scope) bool {
	return c.Predicate().Match(s)
}
