package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ChloeMayhewELT/HeapStorageMacro/config"
	"github.com/iancoleman/strcase"
)

// Accessor identifies a boxed field by struct and field name.
type Accessor struct {
	Struct string
	Field  string
}

func (a Accessor) String() string {
	return a.Struct + "." + a.Field
}

// Decision is the outcome of running the rules on one boxed field.
type Decision struct {
	Include  bool
	Getter   string
	Setter   string // empty if ReadOnly
	ReadOnly bool
}

// DefaultGetter derives the getter name of a boxed field, e.g.
// "value" -> "Value", "_myValue" -> "MyValue".
func DefaultGetter(field string) string {
	return strcase.ToCamel(strings.TrimLeft(field, "_"))
}

// SetterFor derives the setter name belonging to a getter, keeping its
// exportedness: "Value" -> "SetValue", "value" -> "setValue".
func SetterFor(getter string) string {
	r, _ := utf8.DecodeRuneInString(getter)
	if unicode.IsUpper(r) {
		return "Set" + getter
	}
	return "set" + strcase.ToCamel(getter)
}

// Execute runs the config rules on the given accessors, in rule order.
// Later rules override earlier ones.
//
// Getter and setter names in rule actions may reference capture groups
// of the struct and field selectors as '\1' to '\9', struct groups
// first.
func Execute(c *config.Config, accessors []Accessor) (_ map[Accessor]Decision, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("execute rules: %w", err)
		}
	}()

	type state struct {
		Decision
		explicitSetter bool
	}
	states := make(map[Accessor]*state, len(accessors))
	for _, acc := range accessors {
		if _, ok := states[acc]; ok {
			return nil, fmt.Errorf("duplicate field: %v", acc)
		}
		states[acc] = &state{Decision: Decision{
			Include: true,
			Getter:  DefaultGetter(acc.Field),
		}}
	}

	// Backrefs represents the '\1', '\2' etc.,
	// which are created by making a capture
	// group in the struct and/or field selector.
	var backrefs []string

	for i, rule := range c.Rules {
		structRe, err := fullMatch(rule.Select.Struct)
		if err != nil {
			return nil, fmt.Errorf("rule %v: struct selector: %w", i+1, err)
		}
		fieldRe, err := fullMatch(rule.Select.Field)
		if err != nil {
			return nil, fmt.Errorf("rule %v: field selector: %w", i+1, err)
		}
		for _, acc := range accessors {
			backrefs = backrefs[:0]
			if structRe != nil {
				m := structRe.FindStringSubmatch(acc.Struct)
				if m == nil {
					continue
				}
				backrefs = append(backrefs, m[1:]...)
			}
			if fieldRe != nil {
				m := fieldRe.FindStringSubmatch(acc.Field)
				if m == nil {
					continue
				}
				backrefs = append(backrefs, m[1:]...)
			}

			st := states[acc]
			if rule.Actions.Include != nil {
				st.Include = *rule.Actions.Include
			}
			if rule.Actions.Getter != "" {
				st.Getter = expand(rule.Actions.Getter, backrefs)
			}
			switch rule.Actions.ToCasing {
			case "":
			case "camel":
				st.Getter = strcase.ToCamel(st.Getter)
			case "lower-camel":
				st.Getter = strcase.ToLowerCamel(st.Getter)
			default:
				return nil, fmt.Errorf("rule %v: unknown casing: %v", i+1, rule.Actions.ToCasing)
			}
			if rule.Actions.Setter != "" {
				st.Setter = expand(rule.Actions.Setter, backrefs)
				st.explicitSetter = true
			}
			if rule.Actions.ReadOnly != nil {
				st.ReadOnly = *rule.Actions.ReadOnly
			}
			if st.Getter == "" {
				return nil, fmt.Errorf("rule %v: empty getter name for %v", i+1, acc)
			}
		}
	}

	res := make(map[Accessor]Decision, len(states))
	for acc, st := range states {
		d := st.Decision
		if d.ReadOnly {
			d.Setter = ""
		} else if !st.explicitSetter {
			d.Setter = SetterFor(d.Getter)
		}
		res[acc] = d
	}
	return res, nil
}

// fullMatch anchors re so it only matches whole names, whichever of its
// alternatives matches.
func fullMatch(re *regexp.Regexp) (*regexp.Regexp, error) {
	if re == nil {
		return nil, nil
	}
	return regexp.Compile(`^(?:` + re.String() + `)$`)
}

func expand(tmpl string, backrefs []string) string {
	if !strings.Contains(tmpl, `\`) {
		return tmpl
	}
	oldnew := [2 * 9]string{
		`\1`, "",
		`\2`, "",
		`\3`, "",
		`\4`, "",
		`\5`, "",
		`\6`, "",
		`\7`, "",
		`\8`, "",
		`\9`, "",
	}
	for i := range min(len(backrefs), 9) {
		oldnew[2*i+1] = backrefs[i]
	}
	return strings.NewReplacer(oldnew[:]...).Replace(tmpl)
}
