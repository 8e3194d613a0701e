package formcheck

import "strings"

// FieldType identifies how a field is rendered and, more importantly here,
// which validation strategy the dispatcher applies to it.
type FieldType string

// Field types understood by the dispatcher.
const (
	FieldText          FieldType = "text"
	FieldEmail         FieldType = "email"
	FieldNumber        FieldType = "number"
	FieldTextarea      FieldType = "textarea"
	FieldSelect        FieldType = "select"
	FieldCheckbox      FieldType = "checkbox"
	FieldRadio         FieldType = "radio"
	FieldDate          FieldType = "date"
	FieldDateRange     FieldType = "date-range"
	FieldTable         FieldType = "table"
	FieldInfo          FieldType = "info"
	FieldDataGrid      FieldType = "datagrid"
	FieldPhone         FieldType = "phone"
	FieldFormReference FieldType = "form-reference"
)

// RuleType is the kind of a configured rule.
type RuleType string

// Rule kinds. Comparisons are case-insensitive; see RuleType.Normalize.
const (
	RuleRequired  RuleType = "required"
	RuleEmail     RuleType = "email"
	RuleMinLength RuleType = "minLength"
	RuleMaxLength RuleType = "maxLength"
	RuleMin       RuleType = "min"
	RuleMax       RuleType = "max"
	RulePattern   RuleType = "pattern"
	RuleCustom    RuleType = "custom"
)

// Normalized rule kinds as reported in FieldValidationError.Rule.
const (
	kindRequired  = "required"
	kindEmail     = "email"
	kindMinLength = "minlength"
	kindMaxLength = "maxlength"
	kindMin       = "min"
	kindMax       = "max"
	kindPattern   = "pattern"
	kindCustom    = "custom"
	kindAsync     = "async"
)

// Normalize returns the lowercase identifier reported in FieldValidationError.Rule.
func (t RuleType) Normalize() string {
	return strings.ToLower(strings.TrimSpace(string(t)))
}

// Is reports whether t names the same rule kind as other, ignoring case.
func (t RuleType) Is(other RuleType) bool {
	return t.Normalize() == other.Normalize()
}

// RowMode controls whether a table's rows are fixed or user-extendable.
type RowMode string

// Table row modes.
const (
	RowModeFixed   RowMode = "fixed"
	RowModeDynamic RowMode = "dynamic"
)

// FormConfig is a complete form definition.
type FormConfig struct {
	ID       string          `json:"id" yaml:"id"`
	Title    string          `json:"title,omitempty" yaml:"title,omitempty"`
	Fields   []FieldConfig   `json:"fields" yaml:"fields"`
	Sections []SectionConfig `json:"sections,omitempty" yaml:"sections,omitempty"`
}

// SectionConfig groups fields visually. Sections carry no validation semantics.
type SectionConfig struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// FieldConfig describes one named, typed entry of a form.
type FieldConfig struct {
	Name            string           `json:"name" yaml:"name"`
	Label           string           `json:"label,omitempty" yaml:"label,omitempty"`
	Type            FieldType        `json:"type" yaml:"type"`
	Validations     []RuleConfig     `json:"validations,omitempty" yaml:"validations,omitempty"`
	Table           *TableConfig     `json:"tableConfig,omitempty" yaml:"tableConfig,omitempty"`
	DataGrid        *DataGridConfig  `json:"dataGridConfig,omitempty" yaml:"dataGridConfig,omitempty"`
	Phone           *PhoneConfig     `json:"phoneConfig,omitempty" yaml:"phoneConfig,omitempty"`
	DateRange       *DateRangeConfig `json:"dateRangeConfig,omitempty" yaml:"dateRangeConfig,omitempty"`
	AsyncValidation *AsyncBinding    `json:"asyncValidation,omitempty" yaml:"asyncValidation,omitempty"`
	Archived        bool             `json:"archived,omitempty" yaml:"archived,omitempty"`
	SectionID       string           `json:"sectionId,omitempty" yaml:"sectionId,omitempty"`
}

// RuleConfig is one configured check on a field or column.
//
// Value holds the bound for length and numeric rules and the regular
// expression source for pattern rules. CustomValidatorName and
// CustomValidatorParams only matter when Type is custom.
type RuleConfig struct {
	Type                  RuleType         `json:"type" yaml:"type"`
	Value                 any              `json:"value,omitempty" yaml:"value,omitempty"`
	Message               string           `json:"message" yaml:"message"`
	CustomValidatorName   string           `json:"customValidatorName,omitempty" yaml:"customValidatorName,omitempty"`
	CustomValidatorParams map[string]any   `json:"customValidatorParams,omitempty" yaml:"customValidatorParams,omitempty"`
	Condition             *ConditionConfig `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// TableConfig configures a table field. The submitted value is a list of
// row maps keyed by column name.
type TableConfig struct {
	Columns []ColumnConfig `json:"columns" yaml:"columns"`
	RowMode RowMode        `json:"rowMode,omitempty" yaml:"rowMode,omitempty"`
}

// ColumnConfig describes one column of a table or data grid. Computed
// columns are derived values and are never validated.
type ColumnConfig struct {
	Name        string       `json:"name" yaml:"name"`
	Label       string       `json:"label,omitempty" yaml:"label,omitempty"`
	Type        FieldType    `json:"type,omitempty" yaml:"type,omitempty"`
	Validations []RuleConfig `json:"validations,omitempty" yaml:"validations,omitempty"`
	Computed    bool         `json:"computed,omitempty" yaml:"computed,omitempty"`
}

// DataGridConfig configures a data grid field. The submitted value is a map
// keyed by row id whose values are maps keyed by column name.
type DataGridConfig struct {
	Columns []ColumnConfig `json:"columns" yaml:"columns"`
	Rows    []RowLabel     `json:"rows" yaml:"rows"`
}

// RowLabel is one declared row of a data grid.
type RowLabel struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// PhoneConfig configures a phone field. The submitted value is a map with at
// least a "number" entry.
type PhoneConfig struct {
	DefaultCountry string `json:"defaultCountry,omitempty" yaml:"defaultCountry,omitempty"`
}

// DateRangeConfig configures a date-range field. The submitted value is a
// map with "fromDate" and "toDate" entries.
type DateRangeConfig struct {
	ToDateOptional bool `json:"toDateOptional,omitempty" yaml:"toDateOptional,omitempty"`
}

// AsyncBinding attaches a named asynchronous validator to a field. Trigger
// and DebounceMs are client hints and are carried through untouched.
type AsyncBinding struct {
	Validator  string         `json:"validator" yaml:"validator"`
	Trigger    string         `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	DebounceMs int            `json:"debounceMs,omitempty" yaml:"debounceMs,omitempty"`
	Params     map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// Sub-value keys of composite fields.
const (
	phoneNumberKey = "number"
	fromDateKey    = "fromDate"
	toDateKey      = "toDate"
)
