package form

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const dateLayout = "2006-01-02"

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Values holds raw field input. Checkboxes use "true"; multi-selects are
// comma separated.
type Values map[string]string

// Errors maps a field name to its first violated rule message.
type Errors map[string]string

// Validate checks every field of s against v. An empty field that is not
// required skips its remaining rules.
func (s *Schema) Validate(v Values) Errors {
	errs := Errors{}
	for _, f := range s.Fields {
		if msg, bad := f.check(v); bad {
			errs[f.Name] = msg
		}
	}
	return errs
}

func (f Field) check(v Values) (string, bool) {
	raw := strings.TrimSpace(v[f.Name])
	for _, r := range f.Rules {
		if raw == "" && r.Kind != RuleRequired && r.Kind != RuleAccepted {
			continue
		}
		if !r.passes(f, raw, v) {
			return r.Message, true
		}
	}
	return "", false
}

func (r Rule) passes(f Field, raw string, v Values) bool {
	switch r.Kind {
	case RuleRequired:
		return raw != ""
	case RuleAccepted:
		return Checked(raw)
	case RuleMin:
		return utf8.RuneCountInString(raw) >= r.Value
	case RuleMax:
		return utf8.RuneCountInString(raw) <= r.Value
	case RuleEmail:
		return emailRe.MatchString(raw)
	case RulePattern:
		return r.re.MatchString(raw)
	case RuleRange:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return false
		}
		if r.Min != nil && n < *r.Min {
			return false
		}
		return r.Max == nil || n <= *r.Max
	case RuleOneOf:
		return slices.Contains(f.Options, raw)
	case RuleSubset:
		for _, part := range SplitList(raw) {
			if !slices.Contains(f.Options, part) {
				return false
			}
		}
		return true
	case RuleDate:
		_, err := time.Parse(dateLayout, raw)
		return err == nil
	case RuleAfter:
		end, err := time.Parse(dateLayout, raw)
		if err != nil {
			return true // reported by the date rule
		}
		start, err := time.Parse(dateLayout, strings.TrimSpace(v[r.Field]))
		if err != nil {
			return true
		}
		return !end.Before(start)
	}
	return true
}

// Checked reports whether a checkbox value is ticked.
func Checked(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "on", "1", "x":
		return true
	}
	return false
}

// SplitList splits a comma separated multi-select value, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
