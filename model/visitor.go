/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/unidoc/unipdf/v3/common"

	"github.com/american-soccer-analysis/mls-roster-profiles/peg"
)

// ErrSchema means the visitor's output did not satisfy the intermediate
// record schema.
var ErrSchema = errors.New("intermediate record does not satisfy schema")

var validate = validator.New()

// visitFunc folds one node, given the already-folded results of its children.
type visitFunc func(n *peg.Node, children []any) (any, error)

// NodeVisitor folds a parse tree into the intermediate record. Its visit
// rules are synthesized from the record's type: one rule per field, named by
// the field's mapstructure alias when present and its snake_case name
// otherwise; nested record types register their fields recursively. The rule
// names match the grammar by contract.
//
// The dispatch table is read-only after construction, but a visit traversal
// uses per-call accumulators, so one visitor must not be shared across
// goroutines mid-parse.
type NodeVisitor struct {
	visitors map[string]visitFunc
}

// NewRosterProfileVisitor returns a visitor for the RosterProfile record.
func NewRosterProfileVisitor() (*NodeVisitor, error) {
	v := &NodeVisitor{visitors: map[string]visitFunc{}}
	t := reflect.TypeOf(RosterProfile{})
	if err := v.createVisitors(t); err != nil {
		return nil, err
	}
	v.addModelVisitor("root", t, false)
	return v, nil
}

var dateType = reflect.TypeOf(Date{})

// createVisitors registers a visit rule for each field of `t`, recursing into
// nested record types.
func (v *NodeVisitor) createVisitors(t reflect.Type) error {
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("%w: visitor model must be a struct, got %s", ErrSchema, t)
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := fieldRuleName(field)
		ft := field.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		switch {
		case ft == dateType:
			v.addDateVisitor(name)
		case ft.Kind() == reflect.String:
			v.addStringVisitor(name)
		case ft.Kind() == reflect.Int:
			v.addIntVisitor(name)
		case ft.Kind() == reflect.Slice && ft.Elem().Kind() == reflect.Struct:
			if err := v.createVisitors(ft.Elem()); err != nil {
				return err
			}
			v.addModelVisitor(name, ft.Elem(), true)
		case ft.Kind() == reflect.Struct:
			v.addModelVisitor(name, ft, true)
			if err := v.createVisitors(ft); err != nil {
				return err
			}
		default:
			common.Log.Warning("unsupported type for field %q: %s", name, field.Type)
		}
	}
	return nil
}

// fieldRuleName returns the grammar rule name bound to a field: the
// mapstructure alias when present, the snake_case field name otherwise.
func fieldRuleName(field reflect.StructField) string {
	if tag := field.Tag.Get("mapstructure"); tag != "" {
		if name := strings.Split(tag, ",")[0]; name != "" {
			return name
		}
	}
	return snakeCase(field.Name)
}

// snakeCase converts CamelCase to snake_case ("SmallTable" to "small_table").
func snakeCase(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if 'A' <= r && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r + ('a' - 'A'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// addStringVisitor registers a rule returning the node's trimmed text.
func (v *NodeVisitor) addStringVisitor(name string) {
	v.visitors[name] = func(n *peg.Node, _ []any) (any, error) {
		return map[string]any{name: strings.TrimSpace(n.Text)}, nil
	}
}

// addDateVisitor registers a rule parsing the node's text as a natural
// language date, e.g. "July 7, 2025".
func (v *NodeVisitor) addDateVisitor(name string) {
	v.visitors[name] = func(n *peg.Node, _ []any) (any, error) {
		t, err := dateparse.ParseAny(strings.TrimSpace(n.Text))
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
		return map[string]any{name: NewDate(t)}, nil
	}
}

// addIntVisitor registers a rule parsing the node's text as an integer,
// tolerating thousands separators.
func (v *NodeVisitor) addIntVisitor(name string) {
	v.visitors[name] = func(n *peg.Node, _ []any) (any, error) {
		text := strings.ReplaceAll(strings.TrimSpace(n.Text), ",", "")
		value, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
		return map[string]any{name: value}, nil
	}
}

// addModelVisitor registers a rule folding child results into a nested map
// for record type `t`. List-typed fields accumulate; duplicate string keys
// concatenate with a single space (text split across wrapped lines); other
// child shapes are discarded with a warning. With `includeKey`, the folded
// map is wrapped under the rule name, which is how list elements reach their
// parent's list field.
func (v *NodeVisitor) addModelVisitor(name string, t reflect.Type, includeKey bool) {
	listFields := map[string]bool{}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Type.Kind() == reflect.Slice {
			listFields[fieldRuleName(field)] = true
		}
	}

	v.visitors[name] = func(n *peg.Node, children []any) (any, error) {
		folded := map[string]any{}
		for field := range listFields {
			folded[field] = []any{}
		}

		for _, child := range flatten(children) {
			childMap, ok := child.(map[string]any)
			if !ok {
				common.Log.Warning("unexpected child type (%T) in %q visitor", child, name)
				continue
			}
			if len(childMap) != 1 {
				common.Log.Warning("unexpected child map length (%d) in %q visitor", len(childMap), name)
				continue
			}

			var key string
			var value any
			for k, val := range childMap {
				key, value = k, val
			}

			switch {
			case listFields[key]:
				list := folded[key].([]any)
				if values, ok := value.([]any); ok {
					folded[key] = append(list, values...)
				} else {
					folded[key] = append(list, value)
				}
			default:
				if existing, present := folded[key]; present {
					if s, ok := existing.(string); ok {
						if s2, ok := value.(string); ok {
							folded[key] = s + " " + s2
							continue
						}
					}
					common.Log.Warning("unexpected duplicate key (%q) in %q visitor", key, name)
					continue
				}
				folded[key] = value
			}
		}

		if includeKey {
			return map[string]any{name: folded}, nil
		}
		return folded, nil
	}
}

// flatten recursively flattens nested child result slices, dropping bare
// parse nodes (expressions without a visit rule and without visited
// descendants).
func flatten(children []any) []any {
	var out []any
	for _, child := range children {
		switch t := child.(type) {
		case *peg.Node:
			continue
		case []any:
			out = append(out, flatten(t)...)
		default:
			out = append(out, t)
		}
	}
	return out
}

// Visit folds `n` bottom-up: children first, then the node's own rule when
// one is registered. Nodes without a rule pass their children through.
func (v *NodeVisitor) Visit(n *peg.Node) (any, error) {
	children := make([]any, 0, len(n.Children))
	for _, child := range n.Children {
		result, err := v.Visit(child)
		if err != nil {
			return nil, err
		}
		children = append(children, result)
	}

	if n.Name != "" {
		if fn, ok := v.visitors[n.Name]; ok {
			return fn(n, children)
		}
	}
	if len(children) > 0 {
		return children, nil
	}
	return n, nil
}

// ProfileFromTree folds a page's parse tree into a validated RosterProfile.
func ProfileFromTree(tree *peg.Node) (*RosterProfile, error) {
	visitor, err := NewRosterProfileVisitor()
	if err != nil {
		return nil, err
	}

	result, err := visitor.Visit(tree)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	folded, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: root visit produced %T, not a map", ErrSchema, result)
	}

	profile := &RosterProfile{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: profile})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(folded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	if err := validate.Struct(profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return profile, nil
}
