// Package validation checks typed request values against declared schemas and
// reports every violation per field.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Rule is one constraint on a field with the message reported when it fails.
type Rule struct {
	tag     string
	pattern *regexp.Regexp
	check   func(v any) bool
	message string
}

// Tag uses a validator tag such as "min=5", "email" or "oneof=a b".
func Tag(tag, message string) Rule {
	return Rule{tag: tag, message: message}
}

// Pattern requires the string value to match expr. expr is compiled eagerly.
func Pattern(expr, message string) Rule {
	return Rule{pattern: regexp.MustCompile(expr), message: message}
}

// Check requires fn to report true for the value.
func Check(fn func(v any) bool, message string) Rule {
	return Rule{check: fn, message: message}
}

func (r Rule) passes(v any) bool {
	switch {
	case r.tag != "":
		return validate.Var(v, r.tag) == nil
	case r.pattern != nil:
		s, ok := v.(string)
		if !ok {
			s = fmt.Sprint(v)
		}
		return r.pattern.MatchString(s)
	default:
		return r.check(v)
	}
}

// Field declares the rules for one named input field.
type Field[T any] struct {
	name     string
	get      func(*T) any
	rules    []Rule
	optional bool
}

// F declares a required field. Rules run in the given order.
func F[T any](name string, get func(*T) any, rules ...Rule) Field[T] {
	return Field[T]{name: name, get: get, rules: rules}
}

// Optional declares a field whose rules only run when the value is not its zero value.
func Optional[T any](name string, get func(*T) any, rules ...Rule) Field[T] {
	return Field[T]{name: name, get: get, rules: rules, optional: true}
}

// Schema is an immutable, declared shape for values of type T.
type Schema[T any] struct {
	fields   []Field[T]
	defaults []func(*T)
}

// New builds a schema. A malformed declaration (nil accessor, duplicate field,
// unknown validator tag) panics: it is a programming error, not an input error.
func New[T any](fields ...Field[T]) *Schema[T] {
	seen := make(map[string]bool, len(fields))
	var zero T
	for _, f := range fields {
		if f.name == "" || f.get == nil {
			panic("validation: field declared without name or accessor")
		}
		if seen[f.name] {
			panic(fmt.Sprintf("validation: duplicate field %q", f.name))
		}
		seen[f.name] = true
		for _, r := range f.rules {
			if r.tag == "" && r.pattern == nil && r.check == nil {
				panic(fmt.Sprintf("validation: empty rule on field %q", f.name))
			}
			if r.tag != "" {
				mustCompileTag(f.name, r.tag, f.get(&zero))
			}
		}
	}
	return &Schema[T]{fields: fields}
}

func mustCompileTag(field, tag string, v any) {
	defer func() {
		if rec := recover(); rec != nil {
			panic(fmt.Sprintf("validation: bad tag %q on field %q: %v", tag, field, rec))
		}
	}()
	_ = validate.Var(v, tag)
}

// Default returns a copy of the schema that applies fn before validating.
func (s *Schema[T]) Default(fn func(*T)) *Schema[T] {
	out := &Schema[T]{fields: s.fields}
	out.defaults = append(append([]func(*T){}, s.defaults...), fn)
	return out
}

// Validate checks in and returns the defaulted value. in itself is never modified.
// On failure the error is *Errors.
func (s *Schema[T]) Validate(in T) (T, error) {
	out := in
	for _, fn := range s.defaults {
		fn(&out)
	}

	errs := &Errors{}
	for _, f := range s.fields {
		v := f.get(&out)
		if f.optional && isZero(v) {
			continue
		}
		for _, r := range f.rules {
			if !r.passes(v) {
				errs.add(f.name, r.message)
			}
		}
	}
	if errs.Empty() {
		return out, nil
	}
	return out, errs
}

func isZero(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}

// Errors maps each failing field to its messages, in declaration order.
type Errors struct {
	fields map[string][]string
	order  []string
}

func (e *Errors) add(field, message string) {
	if e.fields == nil {
		e.fields = make(map[string][]string)
	}
	if _, ok := e.fields[field]; !ok {
		e.order = append(e.order, field)
	}
	e.fields[field] = append(e.fields[field], message)
}

func (e *Errors) Empty() bool {
	return len(e.order) == 0
}

// Details returns a copy of the field → messages map.
func (e *Errors) Details() map[string][]string {
	out := make(map[string][]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Fields lists failing field names in declaration order.
func (e *Errors) Fields() []string {
	return append([]string(nil), e.order...)
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.order))
	for _, name := range e.order {
		parts = append(parts, name+": "+strings.Join(e.fields[name], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// FromValidator flattens validator.ValidationErrors (e.g. from gin binding) into the
// same field → messages shape.
func FromValidator(verrs validator.ValidationErrors) map[string][]string {
	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		msg := fmt.Sprintf("failed on %q", fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("failed on %q (%s)", fe.Tag(), fe.Param())
		}
		out[name] = append(out[name], msg)
	}
	return out
}
