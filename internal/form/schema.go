// Package form validates the multi-field demo form. Fields and their rules
// are declared in schema.yaml and checked in declaration order; each field
// reports only its first violated rule.
package form

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var defaultSchema []byte

// Kind tells a view which input to render for a field.
type Kind string

const (
	KindText        Kind = "text"
	KindNumber      Kind = "number"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multiselect"
	KindDate        Kind = "date"
	KindCheckbox    Kind = "checkbox"
)

// RuleKind names a validation rule.
type RuleKind string

const (
	RuleRequired RuleKind = "required"
	RuleMin      RuleKind = "min"
	RuleMax      RuleKind = "max"
	RuleEmail    RuleKind = "email"
	RulePattern  RuleKind = "pattern"
	RuleRange    RuleKind = "range"
	RuleOneOf    RuleKind = "oneof"
	RuleSubset   RuleKind = "subset"
	RuleDate     RuleKind = "date"
	RuleAfter    RuleKind = "after"
	RuleAccepted RuleKind = "accepted"
)

type Rule struct {
	Kind    RuleKind `yaml:"rule"`
	Value   int      `yaml:"value"`   // min/max length
	Min     *float64 `yaml:"min"`     // range
	Max     *float64 `yaml:"max"`     // range
	Pattern string   `yaml:"pattern"` // pattern
	Field   string   `yaml:"field"`   // after
	Message string   `yaml:"message"`

	re *regexp.Regexp
}

type Field struct {
	Name        string   `yaml:"name"`
	Label       string   `yaml:"label"`
	Kind        Kind     `yaml:"kind"`
	Placeholder string   `yaml:"placeholder"`
	Options     []string `yaml:"options"`
	Rules       []Rule   `yaml:"rules"`
}

// Required reports whether the field must be filled in.
func (f Field) Required() bool {
	for _, r := range f.Rules {
		if r.Kind == RuleRequired || r.Kind == RuleAccepted {
			return true
		}
	}
	return false
}

type Schema struct {
	Title  string  `yaml:"title"`
	Fields []Field `yaml:"fields"`
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// DefaultSchema parses the embedded schema.
func DefaultSchema() (*Schema, error) {
	return ParseSchema(defaultSchema)
}

// ParseSchema decodes and checks a YAML schema: field names are unique,
// rules are known and patterns compile.
func ParseSchema(b []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	seen := map[string]bool{}
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Name == "" {
			return nil, fmt.Errorf("field %d: missing name", i)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("field %q: declared twice", f.Name)
		}
		seen[f.Name] = true
		if f.Kind == "" {
			f.Kind = KindText
		}
		if f.Label == "" {
			f.Label = f.Name
		}
		for j := range f.Rules {
			if err := compileRule(f, &f.Rules[j]); err != nil {
				return nil, fmt.Errorf("field %q rule %d: %w", f.Name, j, err)
			}
		}
	}
	for _, f := range s.Fields {
		for _, r := range f.Rules {
			if r.Kind == RuleAfter && !seen[r.Field] {
				return nil, fmt.Errorf("field %q: after refers to unknown field %q", f.Name, r.Field)
			}
		}
	}
	return &s, nil
}

func compileRule(f *Field, r *Rule) error {
	switch r.Kind {
	case RuleRequired, RuleEmail, RuleDate, RuleAccepted, RuleAfter:
	case RuleMin, RuleMax:
		if r.Value <= 0 {
			return fmt.Errorf("%s needs a positive value", r.Kind)
		}
	case RuleRange:
		if r.Min == nil && r.Max == nil {
			return fmt.Errorf("range needs min or max")
		}
	case RulePattern:
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("pattern: %w", err)
		}
		r.re = re
	case RuleOneOf, RuleSubset:
		if len(f.Options) == 0 {
			return fmt.Errorf("%s needs field options", r.Kind)
		}
	default:
		return fmt.Errorf("unknown rule %q", r.Kind)
	}
	if r.Message == "" {
		r.Message = fmt.Sprintf("%s: %s check failed", f.Label, r.Kind)
	}
	return nil
}
