package blueprint

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// scope resolves names for one embedded view: loop variables first, then the
// enclosing scope, finally the view context.
type scope struct {
	vars   map[string]any
	parent *scope
}

func asScope(ctx any) *scope {
	switch v := ctx.(type) {
	case *scope:
		return v
	case map[string]any:
		return &scope{vars: v}
	case nil:
		return &scope{}
	}
	return &scope{vars: map[string]any{".": ctx}}
}

func (s *scope) child(vars map[string]any) *scope {
	return &scope{vars: vars, parent: s}
}

// lookup resolves a dotted path such as item.title.
func (s *scope) lookup(path string) (any, bool) {
	head, rest, _ := strings.Cut(path, ".")
	for sc := s; sc != nil; sc = sc.parent {
		v, ok := sc.vars[head]
		if !ok {
			continue
		}
		if rest == "" {
			return v, true
		}
		return field(v, rest)
	}
	return nil, false
}

func field(v any, path string) (any, bool) {
	for _, key := range strings.Split(path, ".") {
		switch m := v.(type) {
		case map[string]any:
			next, ok := m[key]
			if !ok {
				return nil, false
			}
			v = next
		default:
			rv := reflect.ValueOf(v)
			for rv.Kind() == reflect.Pointer && !rv.IsNil() {
				rv = rv.Elem()
			}
			switch rv.Kind() {
			case reflect.Map:
				if rv.Type().Key().Kind() != reflect.String {
					return nil, false
				}
				mv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
				if !mv.IsValid() {
					return nil, false
				}
				v = mv.Interface()
			case reflect.Struct:
				fv := rv.FieldByName(key)
				if !fv.IsValid() || !fv.CanInterface() {
					return nil, false
				}
				v = fv.Interface()
			case reflect.Slice, reflect.Array:
				i, err := strconv.Atoi(key)
				if err != nil || i < 0 || i >= rv.Len() {
					return nil, false
				}
				v = rv.Index(i).Interface()
			default:
				return nil, false
			}
		}
	}
	return v, true
}

// condition is a path, optionally negated with a leading "!".
type condition struct {
	path   string
	negate bool
}

func parseCondition(s string) condition {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "!") {
		return condition{path: strings.TrimSpace(s[1:]), negate: true}
	}
	return condition{path: s}
}

func (c condition) eval(s *scope) bool {
	v, _ := s.lookup(c.path)
	return truthy(v) != c.negate
}

func truthy(v any) bool {
	if v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return !rv.IsZero()
}

// items expands the value at path into a list. A missing value yields no items.
func items(s *scope, path string) ([]any, error) {
	v, ok := s.lookup(path)
	if !ok || v == nil {
		return nil, nil
	}
	if list, ok := v.([]any); ok {
		return list, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("'%s' is a %T, not a list", path, v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// interp is a string with {{path}} placeholders, split at compile time.
type interp struct {
	parts []part
}

type part struct {
	lit  string
	path string
}

func parseInterp(s string) (interp, error) {
	var in interp
	for {
		start := strings.Index(s, "{{")
		if start < 0 {
			break
		}
		end := strings.Index(s[start:], "}}")
		if end < 0 {
			return interp{}, fmt.Errorf("unterminated '{{' in %q", s)
		}
		if start > 0 {
			in.parts = append(in.parts, part{lit: s[:start]})
		}
		path := strings.TrimSpace(s[start+2 : start+end])
		if path == "" {
			return interp{}, fmt.Errorf("empty expression in %q", s)
		}
		in.parts = append(in.parts, part{path: path})
		s = s[start+end+2:]
	}
	if s != "" {
		in.parts = append(in.parts, part{lit: s})
	}
	return in, nil
}

// static reports whether the string has no placeholders, and its value if so.
func (in interp) static() (string, bool) {
	var b strings.Builder
	for _, p := range in.parts {
		if p.path != "" {
			return "", false
		}
		b.WriteString(p.lit)
	}
	return b.String(), true
}

func (in interp) render(s *scope) string {
	var b strings.Builder
	for _, p := range in.parts {
		if p.path == "" {
			b.WriteString(p.lit)
			continue
		}
		if v, ok := s.lookup(p.path); ok && v != nil {
			fmt.Fprint(&b, v)
		}
	}
	return b.String()
}
