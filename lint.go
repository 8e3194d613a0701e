package formcheck

import (
	"fmt"
	"strings"
)

// StructuralError describes a malformed part of a FormConfig.
type StructuralError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e StructuralError) Error() string {
	return e.Path + ": " + e.Message
}

// Lint checks cfg for structural problems: duplicate or missing names and
// ids, unresolved section references, composite fields without their
// sub-configuration and rules that can never be evaluated meaningfully.
//
// Lint is separate from validation. Validate assumes a structurally valid
// config and does not call Lint.
func Lint(cfg FormConfig) []StructuralError {
	var errs []StructuralError
	add := func(path, format string, args ...any) {
		errs = append(errs, StructuralError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(cfg.ID) == "" {
		add("id", "form id is required")
	}

	sections := make(map[string]bool, len(cfg.Sections))
	for i, s := range cfg.Sections {
		path := fmt.Sprintf("sections[%d]", i)
		switch {
		case strings.TrimSpace(s.ID) == "":
			add(path+".id", "section id is required")
		case sections[s.ID]:
			add(path+".id", "duplicate section id %q", s.ID)
		}
		sections[s.ID] = true
	}

	names := make(map[string]bool, len(cfg.Fields))
	for i, f := range cfg.Fields {
		path := fmt.Sprintf("fields[%d]", i)
		switch {
		case strings.TrimSpace(f.Name) == "":
			add(path+".name", "field name is required")
		case names[f.Name]:
			add(path+".name", "duplicate field name %q", f.Name)
		}
		names[f.Name] = true

		if f.Type == "" {
			add(path+".type", "field type is required")
		}
		if f.SectionID != "" && !sections[f.SectionID] {
			add(path+".sectionId", "unknown section %q", f.SectionID)
		}

		switch FieldType(strings.ToLower(string(f.Type))) {
		case FieldTable:
			if f.Table == nil {
				add(path+".tableConfig", "table field requires tableConfig")
			} else {
				errs = append(errs, lintColumns(path+".tableConfig", f.Table.Columns)...)
			}
		case FieldDataGrid:
			if f.DataGrid == nil {
				add(path+".dataGridConfig", "datagrid field requires dataGridConfig")
			} else {
				errs = append(errs, lintColumns(path+".dataGridConfig", f.DataGrid.Columns)...)
				errs = append(errs, lintRows(path+".dataGridConfig", f.DataGrid.Rows)...)
			}
		}

		errs = append(errs, lintRules(path+".validations", f.Validations)...)

		if f.AsyncValidation != nil && strings.TrimSpace(f.AsyncValidation.Validator) == "" {
			add(path+".asyncValidation.validator", "async validator name is required")
		}
	}
	return errs
}

func lintColumns(path string, cols []ColumnConfig) []StructuralError {
	var errs []StructuralError
	if len(cols) == 0 {
		errs = append(errs, StructuralError{Path: path + ".columns", Message: "at least one column is required"})
	}
	seen := make(map[string]bool, len(cols))
	for i, c := range cols {
		cp := fmt.Sprintf("%s.columns[%d]", path, i)
		switch {
		case strings.TrimSpace(c.Name) == "":
			errs = append(errs, StructuralError{Path: cp + ".name", Message: "column name is required"})
		case seen[c.Name]:
			errs = append(errs, StructuralError{Path: cp + ".name", Message: fmt.Sprintf("duplicate column name %q", c.Name)})
		}
		seen[c.Name] = true
		errs = append(errs, lintRules(cp+".validations", c.Validations)...)
	}
	return errs
}

func lintRows(path string, rows []RowLabel) []StructuralError {
	var errs []StructuralError
	seen := make(map[string]bool, len(rows))
	for i, r := range rows {
		rp := fmt.Sprintf("%s.rows[%d].id", path, i)
		switch {
		case strings.TrimSpace(r.ID) == "":
			errs = append(errs, StructuralError{Path: rp, Message: "row id is required"})
		case seen[r.ID]:
			errs = append(errs, StructuralError{Path: rp, Message: fmt.Sprintf("duplicate row id %q", r.ID)})
		}
		seen[r.ID] = true
	}
	return errs
}

func lintRules(path string, rules []RuleConfig) []StructuralError {
	var errs []StructuralError
	for i, r := range rules {
		rp := fmt.Sprintf("%s[%d]", path, i)
		if strings.TrimSpace(r.Message) == "" {
			errs = append(errs, StructuralError{Path: rp + ".message", Message: "rule message is required"})
		}
		switch r.Type.Normalize() {
		case kindRequired, kindEmail:
		case kindMinLength, kindMaxLength, kindMin, kindMax:
			if _, ok := AsNumber(FromAny(r.Value)); !ok {
				errs = append(errs, StructuralError{Path: rp + ".value", Message: fmt.Sprintf("%s rule requires a numeric value", r.Type)})
			}
		case kindPattern:
			src, ok := AsString(FromAny(r.Value))
			if !ok {
				errs = append(errs, StructuralError{Path: rp + ".value", Message: "pattern rule requires a pattern"})
			} else if _, err := compilePattern(src); err != nil {
				errs = append(errs, StructuralError{Path: rp + ".value", Message: fmt.Sprintf("invalid pattern: %v", err)})
			}
		case kindCustom:
			if strings.TrimSpace(r.CustomValidatorName) == "" {
				errs = append(errs, StructuralError{Path: rp + ".customValidatorName", Message: "custom rule requires customValidatorName"})
			}
		default:
			errs = append(errs, StructuralError{Path: rp + ".type", Message: fmt.Sprintf("unknown rule type %q", r.Type)})
		}
	}
	return errs
}
