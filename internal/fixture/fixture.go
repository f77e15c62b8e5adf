// Package fixture decodes a small YAML tree shape into an *ast.Module. It exists to give the CLI
// and the end-to-end test suite something to hand the checker without writing a real lexer/parser
// for Ember source — this checker does not parse, and that boundary extends to this repository's
// CLI too. A fixture file plays the role the host's own parser would play in a real deployment
// (see internal/module.ParseResults).
package fixture

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/embergrade/ember/internal/ast"
)

// file mirrors the top-level shape of a fixture document.
type file struct {
	Module string           `yaml:"module"`
	Body   []map[string]any `yaml:"body"`
}

// Decode parses data as a fixture document and builds the corresponding *ast.Module.
func Decode(data []byte) (*ast.Module, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	body, err := buildNodes(f.Body)
	if err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	return ast.NewModule(f.Module, ast.Range{}, body), nil
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

func buildNodes(raw []map[string]any) ([]ast.Node, error) {
	out := make([]ast.Node, 0, len(raw))
	for _, r := range raw {
		n, err := buildNode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func buildNodeList(v any) ([]ast.Node, error) {
	items := asList(v)
	out := make([]ast.Node, 0, len(items))
	for _, it := range items {
		m, ok := asMap(it)
		if !ok {
			return nil, fmt.Errorf("expected a node map, got %T", it)
		}
		n, err := buildNode(m)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func buildOptional(m map[string]any, key string) (ast.Node, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	child, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("field %q: expected a node map, got %T", key, v)
	}
	return buildNode(child)
}

func buildRequired(m map[string]any, key string) (ast.Node, error) {
	n, err := buildOptional(m, key)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("missing required field %q", key)
	}
	return n, nil
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolean(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// buildNode dispatches on the "kind" field. Only the node kinds a fixture is plausibly used to
// express are supported; anything else is a decode error rather than a silent Unknown.
func buildNode(m map[string]any) (ast.Node, error) {
	kind := str(m, "kind")
	switch kind {
	case "name":
		return ast.NewName(ast.Range{}, str(m, "id")), nil

	case "constant":
		k, err := constKind(str(m, "const"))
		if err != nil {
			return nil, err
		}
		c := ast.NewConstant(ast.Range{}, k)
		switch k {
		case ast.ConstInt:
			if i, ok := m["value"].(int); ok {
				c.Int = int64(i)
			}
		case ast.ConstFloat:
			if f, ok := m["value"].(float64); ok {
				c.Float = f
			}
		case ast.ConstString:
			c.Str, _ = m["value"].(string)
		case ast.ConstBool:
			c.Bool, _ = m["value"].(bool)
		}
		return c, nil

	case "assign":
		targets, err := buildNodeList(m["targets"])
		if err != nil {
			return nil, err
		}
		value, err := buildRequired(m, "value")
		if err != nil {
			return nil, err
		}
		return ast.NewAssign(ast.Range{}, targets, value), nil

	case "ann_assign":
		target, err := buildRequired(m, "target")
		if err != nil {
			return nil, err
		}
		annotation, err := buildRequired(m, "annotation")
		if err != nil {
			return nil, err
		}
		value, err := buildOptional(m, "value")
		if err != nil {
			return nil, err
		}
		return &ast.AnnAssign{Target: target, Annotation: annotation, Value: value}, nil

	case "expr_stmt":
		value, err := buildRequired(m, "value")
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Value: value}, nil

	case "return":
		value, err := buildOptional(m, "value")
		if err != nil {
			return nil, err
		}
		return &ast.Return{Value: value}, nil

	case "assert":
		test, err := buildRequired(m, "test")
		if err != nil {
			return nil, err
		}
		msg, err := buildOptional(m, "msg")
		if err != nil {
			return nil, err
		}
		return &ast.Assert{Test: test, Msg: msg}, nil

	case "pass":
		return &ast.Pass{}, nil

	case "if":
		test, err := buildRequired(m, "test")
		if err != nil {
			return nil, err
		}
		body, err := buildNodeList(m["body"])
		if err != nil {
			return nil, err
		}
		orelse, err := buildNodeList(m["orelse"])
		if err != nil {
			return nil, err
		}
		return ast.NewIf(ast.Range{}, test, body, orelse), nil

	case "while":
		test, err := buildRequired(m, "test")
		if err != nil {
			return nil, err
		}
		body, err := buildNodeList(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.While{Test: test, Body: body}, nil

	case "for":
		target, err := buildRequired(m, "target")
		if err != nil {
			return nil, err
		}
		iter, err := buildRequired(m, "iter")
		if err != nil {
			return nil, err
		}
		body, err := buildNodeList(m["body"])
		if err != nil {
			return nil, err
		}
		return ast.NewFor(ast.Range{}, target, iter, body, nil), nil

	case "call":
		fn, err := buildRequired(m, "func")
		if err != nil {
			return nil, err
		}
		args, err := buildNodeList(m["args"])
		if err != nil {
			return nil, err
		}
		return ast.NewCall(ast.Range{}, fn, args, nil), nil

	case "compare":
		left, err := buildRequired(m, "left")
		if err != nil {
			return nil, err
		}
		comps, err := buildNodeList(m["comps"])
		if err != nil {
			return nil, err
		}
		var ops []string
		for _, o := range asList(m["ops"]) {
			s, _ := o.(string)
			ops = append(ops, s)
		}
		return &ast.Compare{Left: left, Ops: ops, Comps: comps}, nil

	case "attribute":
		value, err := buildRequired(m, "value")
		if err != nil {
			return nil, err
		}
		return ast.NewAttribute(ast.Range{}, value, str(m, "attr")), nil

	case "function_def":
		params, err := buildParameters(m["parameters"])
		if err != nil {
			return nil, err
		}
		body, err := buildNodeList(m["body"])
		if err != nil {
			return nil, err
		}
		fn := ast.NewFunctionDef(ast.Range{}, str(m, "name"), params, body)
		if ret, err := buildOptional(m, "return_annotation"); err != nil {
			return nil, err
		} else {
			fn.ReturnAnnot = ret
		}
		decorators, err := buildNodeList(m["decorators"])
		if err != nil {
			return nil, err
		}
		fn.Decorators = decorators
		fn.IsAsync = boolean(m, "is_async")
		return fn, nil

	case "class_def":
		bases, err := buildNodeList(m["bases"])
		if err != nil {
			return nil, err
		}
		body, err := buildNodeList(m["body"])
		if err != nil {
			return nil, err
		}
		cls := ast.NewClassDef(ast.Range{}, str(m, "name"), bases, body)
		decorators, err := buildNodeList(m["decorators"])
		if err != nil {
			return nil, err
		}
		cls.Decorators = decorators
		return cls, nil

	case "import":
		names, err := buildAliases(m["names"])
		if err != nil {
			return nil, err
		}
		return &ast.Import{Names: names}, nil

	case "import_from":
		names, err := buildAliases(m["names"])
		if err != nil {
			return nil, err
		}
		return &ast.ImportFrom{Module: str(m, "module"), Names: names, IsWildcard: boolean(m, "wildcard")}, nil

	default:
		return nil, fmt.Errorf("unsupported fixture node kind %q", kind)
	}
}

func constKind(s string) (ast.ConstantKind, error) {
	switch s {
	case "int":
		return ast.ConstInt, nil
	case "float":
		return ast.ConstFloat, nil
	case "str":
		return ast.ConstString, nil
	case "bytes":
		return ast.ConstBytes, nil
	case "bool":
		return ast.ConstBool, nil
	case "none":
		return ast.ConstNone, nil
	default:
		return 0, fmt.Errorf("unknown constant kind %q", s)
	}
}

func buildParameters(v any) ([]*ast.Parameter, error) {
	items := asList(v)
	out := make([]*ast.Parameter, 0, len(items))
	for _, it := range items {
		m, ok := asMap(it)
		if !ok {
			return nil, fmt.Errorf("expected a parameter map, got %T", it)
		}
		cat := ast.ParamSimple
		switch str(m, "category") {
		case "vararg_list":
			cat = ast.ParamVarArgList
		case "vararg_dict":
			cat = ast.ParamVarArgDict
		}
		p := ast.NewParameter(ast.Range{}, str(m, "name"), cat)
		ann, err := buildOptional(m, "annotation")
		if err != nil {
			return nil, err
		}
		p.TypeAnnotation = ann
		def, err := buildOptional(m, "default")
		if err != nil {
			return nil, err
		}
		p.Default = def
		p.HasDefault = def != nil
		out = append(out, p)
	}
	return out, nil
}

func buildAliases(v any) ([]*ast.Alias, error) {
	items := asList(v)
	out := make([]*ast.Alias, 0, len(items))
	for _, it := range items {
		m, ok := asMap(it)
		if !ok {
			return nil, fmt.Errorf("expected an alias map, got %T", it)
		}
		out = append(out, &ast.Alias{Name: str(m, "name"), AsName: str(m, "as")})
	}
	return out, nil
}
