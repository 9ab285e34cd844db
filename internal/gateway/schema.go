package gateway

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
)

// FieldType is the JSON shape a field must have.
type FieldType string

const (
	TypeString     FieldType = "string"
	TypeNumber     FieldType = "number"
	TypeInteger    FieldType = "integer"
	TypeStringList FieldType = "string[]"
	TypeObjectList FieldType = "object[]"
)

// Field describes one property of a reply object.
type Field struct {
	Name        string
	Type        FieldType
	Required    bool
	Description string
	// Enum restricts string values.
	Enum []string
	// Min and Max bound numeric values when set.
	Min, Max *float64
	// Fields describes the items of an object list.
	Fields []Field
}

// Schema is the expected structure of a reply.
type Schema struct {
	Fields []Field
}

// Bound returns a pointer for Field.Min and Field.Max.
func Bound(v float64) *float64 { return &v }

// Validate checks raw against the schema. Unknown properties are ignored.
func (s Schema) Validate(raw []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return fmt.Errorf("%w: reply is not a JSON object: %v", ErrSchemaMismatch, err)
	}
	return validateObject("", s.Fields, obj)
}

func validateObject(prefix string, fields []Field, obj map[string]json.RawMessage) error {
	for _, f := range fields {
		path := prefix + f.Name
		v, ok := obj[f.Name]
		if !ok || string(v) == "null" {
			if f.Required {
				return mismatch(path, "missing")
			}
			continue
		}
		if err := validateField(path, f, v); err != nil {
			return err
		}
	}
	return nil
}

func validateField(path string, f Field, v json.RawMessage) error {
	switch f.Type {
	case TypeString:
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return mismatch(path, "want string")
		}
		if f.Required && strings.TrimSpace(s) == "" {
			return mismatch(path, "empty")
		}
		if len(f.Enum) > 0 && !slices.Contains(f.Enum, s) {
			return mismatch(path, fmt.Sprintf("%q not one of %s", s, strings.Join(f.Enum, "|")))
		}
	case TypeNumber, TypeInteger:
		var n float64
		if err := json.Unmarshal(v, &n); err != nil {
			return mismatch(path, "want number")
		}
		if f.Type == TypeInteger && n != math.Trunc(n) {
			return mismatch(path, "want integer")
		}
		if f.Min != nil && n < *f.Min {
			return mismatch(path, fmt.Sprintf("%g below minimum %g", n, *f.Min))
		}
		if f.Max != nil && n > *f.Max {
			return mismatch(path, fmt.Sprintf("%g above maximum %g", n, *f.Max))
		}
	case TypeStringList:
		var l []string
		if err := json.Unmarshal(v, &l); err != nil {
			return mismatch(path, "want list of strings")
		}
	case TypeObjectList:
		var l []map[string]json.RawMessage
		if err := json.Unmarshal(v, &l); err != nil {
			return mismatch(path, "want list of objects")
		}
		for i, item := range l {
			if err := validateObject(fmt.Sprintf("%s[%d].", path, i), f.Fields, item); err != nil {
				return err
			}
		}
	default:
		return mismatch(path, fmt.Sprintf("unsupported field type %q", f.Type))
	}
	return nil
}

func mismatch(path, msg string) error {
	return fmt.Errorf("%w: field %s: %s", ErrSchemaMismatch, path, msg)
}

// Skeleton renders a JSON template of the schema for prompts.
func (s Schema) Skeleton() string {
	var sb strings.Builder
	writeObject(&sb, s.Fields, "")
	return sb.String()
}

func writeObject(sb *strings.Builder, fields []Field, indent string) {
	sb.WriteString("{\n")
	for i, f := range fields {
		sb.WriteString(indent + "  ")
		fmt.Fprintf(sb, "%q: ", f.Name)
		switch f.Type {
		case TypeObjectList:
			sb.WriteString("[")
			writeObject(sb, f.Fields, indent+"  ")
			sb.WriteString("]")
		default:
			sb.WriteString(placeholder(f))
		}
		if i < len(fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(indent + "}")
}

func placeholder(f Field) string {
	switch f.Type {
	case TypeString:
		if len(f.Enum) > 0 {
			return `"` + strings.Join(f.Enum, "|") + `"`
		}
		if f.Description != "" {
			return `"` + f.Description + `"`
		}
		return `"..."`
	case TypeNumber, TypeInteger:
		if f.Min != nil && f.Max != nil {
			return fmt.Sprintf("%g-%g", *f.Min, *f.Max)
		}
		return "N"
	case TypeStringList:
		return `["..."]`
	}
	return "null"
}
