package formcheck

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// dispatch routes one field to the strategy for its kind and returns the
// errors it produced, in rule order and then row/column order.
func (v *Validator) dispatch(field FieldConfig, value Value, form Map) []FieldValidationError {
	if field.Archived {
		return nil
	}

	//exhaustive:enforce
	switch FieldType(strings.ToLower(strings.TrimSpace(string(field.Type)))) {
	case FieldInfo, FieldFormReference:
		return nil
	case FieldTable:
		return v.validateTable(field, value, form)
	case FieldDataGrid:
		return v.validateDataGrid(field, value, form)
	case FieldPhone:
		return v.validatePhone(field, value, form)
	case FieldDateRange:
		return v.validateDateRange(field, value, form)
	case FieldText, FieldEmail, FieldNumber, FieldTextarea, FieldSelect,
		FieldCheckbox, FieldRadio, FieldDate:
		return v.validatePlain(field, value, form)
	default:
		v.log().Warn("unknown field type, validating as plain field",
			zap.String("field", field.Name),
			zap.String("type", string(field.Type)),
		)
		return v.validatePlain(field, value, form)
	}
}

func (v *Validator) validatePlain(field FieldConfig, value Value, form Map) []FieldValidationError {
	sc := NewScope(form, form)
	var errs []FieldValidationError
	for _, rule := range field.Validations {
		if e := v.check(rule, value, field.Name, sc, form); e != nil {
			errs = append(errs, *e)
		}
	}
	return errs
}

// validateTable checks every column rule against every row. A row whose
// columns are all empty is an untouched row, not an incomplete one, and is
// skipped.
func (v *Validator) validateTable(field FieldConfig, value Value, form Map) []FieldValidationError {
	if field.Table == nil {
		return nil
	}
	rows, _ := value.(List)

	var errs []FieldValidationError
	for i, item := range rows {
		row, _ := item.(Map)
		if row == nil {
			row = Map{}
		}
		if rowIsEmpty(row, field.Table.Columns) {
			continue
		}
		sc := NewScope(row, form)
		for _, col := range field.Table.Columns {
			if col.Computed {
				continue
			}
			path := fmt.Sprintf("%s[%d].%s", field.Name, i, col.Name)
			cell := row.Get(col.Name)
			for _, rule := range col.Validations {
				if e := v.check(rule, cell, path, sc, row); e != nil {
					errs = append(errs, *e)
				}
			}
		}
	}
	return errs
}

func rowIsEmpty(row Map, cols []ColumnConfig) bool {
	for _, col := range cols {
		if !IsEmpty(row.Get(col.Name)) {
			return false
		}
	}
	return true
}

// validateDataGrid checks every declared row against every non-computed
// column. Rows are never skipped: the grid's shape is fixed by configuration.
func (v *Validator) validateDataGrid(field FieldConfig, value Value, form Map) []FieldValidationError {
	if field.DataGrid == nil {
		return nil
	}
	grid, _ := value.(Map)

	var errs []FieldValidationError
	for _, label := range field.DataGrid.Rows {
		row, _ := grid.Get(label.ID).(Map)
		if row == nil {
			row = Map{}
		}
		sc := NewScope(row, form)
		for _, col := range field.DataGrid.Columns {
			if col.Computed {
				continue
			}
			path := fmt.Sprintf("%s.%s.%s", field.Name, label.ID, col.Name)
			cell := row.Get(col.Name)
			for _, rule := range col.Validations {
				if e := v.check(rule, cell, path, sc, row); e != nil {
					errs = append(errs, *e)
				}
			}
		}
	}
	return errs
}

// validatePhone evaluates rules against the composite's number. Required
// looks at the number alone; every other rule runs only when a number is
// present. A bare string is accepted as the number.
func (v *Validator) validatePhone(field FieldConfig, value Value, form Map) []FieldValidationError {
	var number Value = Null{}
	switch x := value.(type) {
	case Map:
		number = x.Get(phoneNumberKey)
	case String:
		number = x
	}

	sc := NewScope(form, form)
	var errs []FieldValidationError
	for _, rule := range field.Validations {
		if !rule.Type.Is(RuleRequired) && IsEmpty(number) {
			continue
		}
		if e := v.check(rule, number, field.Name, sc, form); e != nil {
			errs = append(errs, *e)
		}
	}
	return errs
}

// validateDateRange applies required to both ends of the range, honouring
// toDateOptional. Custom rules see the whole composite; other built-in kinds
// do not apply to ranges.
func (v *Validator) validateDateRange(field FieldConfig, value Value, form Map) []FieldValidationError {
	composite, _ := value.(Map)
	from, to := composite.Get(fromDateKey), composite.Get(toDateKey)
	toOptional := field.DateRange != nil && field.DateRange.ToDateOptional

	sc := NewScope(form, form)
	var errs []FieldValidationError
	for _, rule := range field.Validations {
		switch {
		case rule.Type.Is(RuleRequired):
			if !rule.Condition.Holds(sc) {
				continue
			}
			if IsEmpty(from) || (!toOptional && IsEmpty(to)) {
				errs = append(errs, v.fail(rule, field.Name))
			}
		case rule.Type.Is(RuleCustom):
			if e := v.check(rule, value, field.Name, sc, form); e != nil {
				errs = append(errs, *e)
			}
		}
	}
	return errs
}

// check evaluates one condition-gated rule against value and returns the
// error it produced, if any. data is handed to custom validators.
func (v *Validator) check(rule RuleConfig, value Value, path string, sc Scope, data Map) *FieldValidationError {
	if !rule.Condition.Holds(sc) {
		return nil
	}

	kind := rule.Type.Normalize()
	if kind != kindRequired && kind != kindCustom && IsEmpty(value) {
		return nil
	}

	var ok bool
	switch kind {
	case kindRequired:
		ok = Required(value)
	case kindEmail:
		ok = Email(value)
	case kindMinLength:
		ok = MinLength(value, rule.Value)
	case kindMaxLength:
		ok = MaxLength(value, rule.Value)
	case kindMin:
		ok = Min(value, rule.Value)
	case kindMax:
		ok = Max(value, rule.Value)
	case kindPattern:
		ok = v.checkPattern(rule, value, path)
	case kindCustom:
		ok = v.checkCustom(rule, value, path, data)
	default:
		v.log().Warn("unknown rule type, skipping",
			zap.String("path", path),
			zap.String("rule", string(rule.Type)),
		)
		ok = true
	}

	if ok {
		return nil
	}
	e := v.fail(rule, path)
	return &e
}

func (v *Validator) fail(rule RuleConfig, path string) FieldValidationError {
	e := FieldValidationError{
		Field:   path,
		Message: rule.Message,
		Rule:    rule.Type.Normalize(),
	}
	v.hooks.ruleFailure(e)
	return e
}

func (v *Validator) checkPattern(rule RuleConfig, value Value, path string) bool {
	ok, err := Pattern(value, rule.Value)
	if err == nil {
		return ok
	}
	source, _ := AsString(FromAny(rule.Value))
	v.log().Warn("invalid pattern",
		zap.String("path", path),
		zap.String("pattern", source),
		zap.String("policy", v.policy.String()),
		zap.Error(err),
	)
	v.hooks.invalidPattern(path, source, err)
	return v.policy == FailOpen
}

func (v *Validator) checkCustom(rule RuleConfig, value Value, path string, data Map) bool {
	c, found := v.registry.Get(rule.CustomValidatorName)
	if !found {
		v.log().Warn("custom validator not registered",
			zap.String("path", path),
			zap.String("validator", rule.CustomValidatorName),
			zap.String("policy", v.policy.String()),
		)
		v.hooks.unknownValidator(path, "custom", rule.CustomValidatorName)
		return v.policy == FailOpen
	}
	return c.Check(value, rule.CustomValidatorParams, data)
}
