package distill

import (
	"encoding/json"
	"regexp"
)

// FieldType selects how a schema field is resolved.
type FieldType string

// Field types.
const (
	FieldText       FieldType = "text"
	FieldAttribute  FieldType = "attribute"
	FieldHTML       FieldType = "html"
	FieldRegex      FieldType = "regex"
	FieldNested     FieldType = "nested"
	FieldList       FieldType = "list"
	FieldNestedList FieldType = "nested_list"
)

// Transform post-processes a string field value.
type Transform string

// Transforms.
const (
	TransformNone      Transform = ""
	TransformLowercase Transform = "lowercase"
	TransformUppercase Transform = "uppercase"
)

// Schema describes how to turn repeated page elements into records.
// Every element matched by BaseSelector becomes one record.
type Schema struct {
	Name         string  `json:"name,omitempty"`
	BaseSelector string  `json:"baseSelector"`
	BaseFields   []Field `json:"baseFields,omitempty"`
	Fields       []Field `json:"fields"`
}

// Field describes one named value of a record.
type Field struct {
	Name      string    `json:"name"`
	Selector  string    `json:"selector,omitempty"`
	Type      FieldType `json:"type"`
	Attribute string    `json:"attribute,omitempty"`
	Pattern   string    `json:"pattern,omitempty"`
	Transform Transform `json:"transform,omitempty"`

	// Default is used when the target node or its value is missing.
	// A nil Default omits the field instead.
	Default any `json:"default,omitempty"`

	// Fields are the sub-fields of nested and list fields.
	Fields []Field `json:"fields,omitempty"`

	re *regexp.Regexp
}

// Record is one extracted item. Values are strings, sub-records, slices of
// sub-records or schema defaults.
type Record map[string]any

// ParseSchema decodes and validates a JSON schema. Regex patterns are
// compiled once here; a pattern that does not compile makes its field
// resolve to the default.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, Errorf(EINVALID, "malformed schema: %v", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.Compile()
	return &s, nil
}

// Compile prepares the regex patterns of every field. ParseSchema calls it;
// schemas built in code must call it before extraction.
func (s *Schema) Compile() {
	compileFields(s.BaseFields)
	compileFields(s.Fields)
}

// Validate returns an error if the schema contains invalid fields.
func (s *Schema) Validate() error {
	if s.BaseSelector == "" {
		return Errorf(EINVALID, "schema base selector required")
	}
	if err := validateFields(s.BaseFields); err != nil {
		return err
	}
	return validateFields(s.Fields)
}

func validateFields(fields []Field) error {
	for i := range fields {
		if err := fields[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate returns an error if the field is missing data its type requires.
func (f *Field) Validate() error {
	if f.Name == "" {
		return Errorf(EINVALID, "field name required")
	}
	switch f.Type {
	case FieldText, FieldHTML:
	case FieldAttribute:
		if f.Attribute == "" {
			return Errorf(EINVALID, "attribute field %q requires an attribute", f.Name)
		}
	case FieldRegex:
		if f.Pattern == "" {
			return Errorf(EINVALID, "regex field %q requires a pattern", f.Name)
		}
	case FieldNested, FieldList, FieldNestedList:
		if len(f.Fields) == 0 {
			return Errorf(EINVALID, "%s field %q requires sub-fields", f.Type, f.Name)
		}
		return validateFields(f.Fields)
	default:
		return Errorf(EINVALID, "field %q has unknown type %q", f.Name, f.Type)
	}
	switch f.Transform {
	case TransformNone, TransformLowercase, TransformUppercase:
	default:
		return Errorf(EINVALID, "field %q has unknown transform %q", f.Name, f.Transform)
	}
	return nil
}

func compileFields(fields []Field) {
	for i := range fields {
		f := &fields[i]
		if f.Type == FieldRegex {
			f.re, _ = regexp.Compile(f.Pattern)
		}
		compileFields(f.Fields)
	}
}
