package ast

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/teranos/pyrust/errors"
	"github.com/teranos/pyrust/internal/util"
)

// TypeKey is the discriminator field every serialized node carries.
const TypeKey = "_type"

// DecodeJSON reads a module serialized by tools/pyast_dump.py.
func DecodeJSON(r io.Reader, path string) (*Module, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.Wrapf(errors.ErrInvalidInput, "malformed JSON: %v", err), path)
	}
	return DecodeMap(raw, path)
}

// DecodeYAML reads the same document shape as DecodeJSON from YAML.
func DecodeYAML(r io.Reader, path string) (*Module, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.Wrapf(errors.ErrInvalidInput, "malformed YAML: %v", err), path)
	}
	return DecodeMap(raw, path)
}

// DecodeMap builds a module from an already parsed generic document.
func DecodeMap(raw map[string]any, path string) (*Module, error) {
	d := &decoder{path: path}
	return d.module(raw)
}

type decoder struct {
	path string
}

// invalid reports a structural problem with the input document.
func (d *decoder) invalid(m map[string]any, format string, args ...any) error {
	loc := d.span(m).Location(d.path)
	return errors.Wrapf(errors.ErrInvalidInput, "%s at %s", fmt.Sprintf(format, args...), loc)
}

func (d *decoder) module(m map[string]any) (*Module, error) {
	if m == nil {
		return nil, errors.NewInvalidInputError("empty document %s", d.path)
	}
	if t := typeOf(m); t != "Module" {
		return nil, d.invalid(m, "expected Module at document root, got %q", t)
	}
	body, err := d.stmts(m, "body")
	if err != nil {
		return nil, err
	}
	mod := NewModule(d.path, body)
	for k, v := range m {
		if k == TypeKey || k == "body" || k == "type_ignores" {
			continue
		}
		if s, ok := v.(string); ok {
			mod.Attributes[k] = s
		}
	}
	return mod, nil
}

func (d *decoder) stmts(m map[string]any, key string) ([]Stmt, error) {
	items, err := d.list(m, key)
	if err != nil {
		return nil, err
	}
	out := make([]Stmt, 0, len(items))
	for _, item := range items {
		s, err := d.stmt(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *decoder) stmt(v any) (Stmt, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.NewInvalidInputError("statement is not an object in %s", d.path)
	}
	span := d.span(m)

	switch t := typeOf(m); t {
	case "Assign":
		targets, err := d.exprs(m, "targets")
		if err != nil {
			return nil, err
		}
		value, err := d.expr(m["value"])
		if err != nil {
			return nil, err
		}
		if len(targets) == 0 {
			return nil, d.invalid(m, "assignment without targets")
		}
		return &Assign{Span: span, Targets: targets, Value: value, TypeComment: optString(m, "type_comment")}, nil

	case "AugAssign":
		target, value, err := d.pair(m, "target", "value")
		if err != nil {
			return nil, err
		}
		return &AugAssign{Span: span, Target: target, Op: ParseBinaryOperator(typeOf(object(m["op"]))), Value: value}, nil

	case "AnnAssign":
		target, annotation, err := d.pair(m, "target", "annotation")
		if err != nil {
			return nil, err
		}
		value, err := d.optExpr(m, "value")
		if err != nil {
			return nil, err
		}
		simple, _ := toInt(m["simple"])
		return &AnnAssign{Span: span, Target: target, Annotation: annotation, Value: value, Simple: simple == 1}, nil

	case "FunctionDef", "AsyncFunctionDef":
		return d.functionDef(m, span, t == "AsyncFunctionDef")

	case "ClassDef":
		bases, err := d.exprs(m, "bases")
		if err != nil {
			return nil, err
		}
		keywords, err := d.keywords(m)
		if err != nil {
			return nil, err
		}
		body, err := d.stmts(m, "body")
		if err != nil {
			return nil, err
		}
		decorators, err := d.exprs(m, "decorator_list")
		if err != nil {
			return nil, err
		}
		return &ClassDef{Span: span, Name: str(m, "name"), Bases: bases, Keywords: keywords, Body: body, DecoratorList: decorators}, nil

	case "Import":
		names, err := d.aliases(m)
		if err != nil {
			return nil, err
		}
		return &Import{Span: span, Names: names}, nil

	case "ImportFrom":
		names, err := d.aliases(m)
		if err != nil {
			return nil, err
		}
		level, _ := toInt(m["level"])
		return &ImportFrom{Span: span, Module: str(m, "module"), Names: names, Level: level}, nil

	case "Expr":
		value, err := d.expr(m["value"])
		if err != nil {
			return nil, err
		}
		return &ExprStmt{Span: span, Value: value}, nil

	case "Return":
		value, err := d.optExpr(m, "value")
		if err != nil {
			return nil, err
		}
		return &Return{Span: span, Value: value}, nil

	case "Raise":
		exc, err := d.optExpr(m, "exc")
		if err != nil {
			return nil, err
		}
		cause, err := d.optExpr(m, "cause")
		if err != nil {
			return nil, err
		}
		return &Raise{Span: span, Exc: exc, Cause: cause}, nil

	case "For", "AsyncFor":
		target, iter, err := d.pair(m, "target", "iter")
		if err != nil {
			return nil, err
		}
		body, orelse, err := d.bodies(m, "body", "orelse")
		if err != nil {
			return nil, err
		}
		if t == "AsyncFor" {
			return &AsyncFor{Span: span, Target: target, Iter: iter, Body: body, OrElse: orelse, TypeComment: optString(m, "type_comment")}, nil
		}
		return &For{Span: span, Target: target, Iter: iter, Body: body, OrElse: orelse, TypeComment: optString(m, "type_comment")}, nil

	case "While", "If":
		test, err := d.expr(m["test"])
		if err != nil {
			return nil, err
		}
		body, orelse, err := d.bodies(m, "body", "orelse")
		if err != nil {
			return nil, err
		}
		if t == "While" {
			return &While{Span: span, Test: test, Body: body, OrElse: orelse}, nil
		}
		return &If{Span: span, Test: test, Body: body, OrElse: orelse}, nil

	case "Try":
		return d.try(m, span)

	case "With", "AsyncWith":
		items, err := d.withItems(m)
		if err != nil {
			return nil, err
		}
		body, err := d.stmts(m, "body")
		if err != nil {
			return nil, err
		}
		if t == "AsyncWith" {
			return &AsyncWith{Span: span, Items: items, Body: body}, nil
		}
		return &With{Span: span, Items: items, Body: body}, nil

	case "Break":
		return &Break{Span: span}, nil
	case "Continue":
		return &Continue{Span: span}, nil
	case "Pass":
		return &Pass{Span: span}, nil

	case "Global":
		return &Global{Span: span, Names: stringList(m, "names")}, nil
	case "Nonlocal":
		return &Nonlocal{Span: span, Names: stringList(m, "names")}, nil

	case "Delete":
		targets, err := d.exprs(m, "targets")
		if err != nil {
			return nil, err
		}
		return &Delete{Span: span, Targets: targets}, nil

	case "Assert":
		test, err := d.expr(m["test"])
		if err != nil {
			return nil, err
		}
		msg, err := d.optExpr(m, "msg")
		if err != nil {
			return nil, err
		}
		return &Assert{Span: span, Test: test, Msg: msg}, nil

	case "":
		return nil, d.invalid(m, "statement without %s", TypeKey)

	default:
		return &UnimplementedStmt{Span: span, Name: t}, nil
	}
}

func (d *decoder) functionDef(m map[string]any, span Span, async bool) (Stmt, error) {
	args, err := d.arguments(object(m["args"]))
	if err != nil {
		return nil, err
	}
	body, err := d.stmts(m, "body")
	if err != nil {
		return nil, err
	}
	decorators, err := d.exprs(m, "decorator_list")
	if err != nil {
		return nil, err
	}
	returns, err := d.optExpr(m, "returns")
	if err != nil {
		return nil, err
	}
	return &FunctionDef{
		Span:          span,
		Name:          str(m, "name"),
		Args:          args,
		Body:          body,
		DecoratorList: decorators,
		Returns:       returns,
		TypeComment:   optString(m, "type_comment"),
		IsAsync:       async,
	}, nil
}

func (d *decoder) try(m map[string]any, span Span) (Stmt, error) {
	body, err := d.stmts(m, "body")
	if err != nil {
		return nil, err
	}
	raw, err := d.list(m, "handlers")
	if err != nil {
		return nil, err
	}
	handlers := make([]*ExceptHandler, 0, len(raw))
	for _, item := range raw {
		hm := object(item)
		if hm == nil {
			return nil, d.invalid(m, "except handler is not an object")
		}
		typ, err := d.optExpr(hm, "type")
		if err != nil {
			return nil, err
		}
		hbody, err := d.stmts(hm, "body")
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, &ExceptHandler{Span: d.span(hm), Type: typ, Name: optString(hm, "name"), Body: hbody})
	}
	orelse, final, err := d.bodies(m, "orelse", "finalbody")
	if err != nil {
		return nil, err
	}
	return &Try{Span: span, Body: body, Handlers: handlers, OrElse: orelse, FinalBody: final}, nil
}

func (d *decoder) withItems(m map[string]any) ([]*WithItem, error) {
	raw, err := d.list(m, "items")
	if err != nil {
		return nil, err
	}
	items := make([]*WithItem, 0, len(raw))
	for _, item := range raw {
		im := object(item)
		if im == nil {
			return nil, d.invalid(m, "with item is not an object")
		}
		ctx, err := d.expr(im["context_expr"])
		if err != nil {
			return nil, err
		}
		vars, err := d.optExpr(im, "optional_vars")
		if err != nil {
			return nil, err
		}
		items = append(items, &WithItem{ContextExpr: ctx, OptionalVars: vars})
	}
	return items, nil
}

func (d *decoder) aliases(m map[string]any) ([]*Alias, error) {
	raw, err := d.list(m, "names")
	if err != nil {
		return nil, err
	}
	out := make([]*Alias, 0, len(raw))
	for _, item := range raw {
		am := object(item)
		if am == nil {
			return nil, d.invalid(m, "import alias is not an object")
		}
		out = append(out, &Alias{Span: d.span(am), Name: str(am, "name"), AsName: optString(am, "asname")})
	}
	return out, nil
}

func (d *decoder) arguments(m map[string]any) (*Arguments, error) {
	if m == nil {
		return &Arguments{}, nil
	}
	var err error
	a := &Arguments{}
	if a.PosOnlyArgs, err = d.args(m, "posonlyargs"); err != nil {
		return nil, err
	}
	if a.Args, err = d.args(m, "args"); err != nil {
		return nil, err
	}
	if a.KwOnlyArgs, err = d.args(m, "kwonlyargs"); err != nil {
		return nil, err
	}
	if a.VarArg, err = d.arg(m["vararg"]); err != nil {
		return nil, err
	}
	if a.KwArg, err = d.arg(m["kwarg"]); err != nil {
		return nil, err
	}
	if a.Defaults, err = d.exprs(m, "defaults"); err != nil {
		return nil, err
	}
	// kw_defaults keeps null entries for keyword-only parameters without a default.
	raw, err := d.list(m, "kw_defaults")
	if err != nil {
		return nil, err
	}
	for _, item := range raw {
		if item == nil {
			a.KwDefaults = append(a.KwDefaults, nil)
			continue
		}
		e, err := d.expr(item)
		if err != nil {
			return nil, err
		}
		a.KwDefaults = append(a.KwDefaults, e)
	}
	return a, nil
}

func (d *decoder) args(m map[string]any, key string) ([]*Arg, error) {
	raw, err := d.list(m, key)
	if err != nil {
		return nil, err
	}
	out := make([]*Arg, 0, len(raw))
	for _, item := range raw {
		a, err := d.arg(item)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, d.invalid(m, "null parameter in %s", key)
		}
		out = append(out, a)
	}
	return out, nil
}

func (d *decoder) arg(v any) (*Arg, error) {
	m := object(v)
	if m == nil {
		return nil, nil
	}
	annotation, err := d.optExpr(m, "annotation")
	if err != nil {
		return nil, err
	}
	return &Arg{Span: d.span(m), Name: str(m, "arg"), Annotation: annotation}, nil
}

func (d *decoder) keywords(m map[string]any) ([]*Keyword, error) {
	raw, err := d.list(m, "keywords")
	if err != nil {
		return nil, err
	}
	out := make([]*Keyword, 0, len(raw))
	for _, item := range raw {
		km := object(item)
		if km == nil {
			return nil, d.invalid(m, "keyword is not an object")
		}
		value, err := d.expr(km["value"])
		if err != nil {
			return nil, err
		}
		out = append(out, &Keyword{Span: d.span(km), Arg: optString(km, "arg"), Value: value})
	}
	return out, nil
}

func (d *decoder) exprs(m map[string]any, key string) ([]Expr, error) {
	return d.exprList(m, key, false)
}

// exprList decodes a list of expressions. Null entries are rejected unless
// allowNull is set; dict keys use null for `**spread` entries.
func (d *decoder) exprList(m map[string]any, key string, allowNull bool) ([]Expr, error) {
	raw, err := d.list(m, key)
	if err != nil {
		return nil, err
	}
	out := make([]Expr, 0, len(raw))
	for i, item := range raw {
		if item == nil {
			if !allowNull {
				return nil, d.invalid(m, "%s[%d] is null", key, i)
			}
			out = append(out, nil)
			continue
		}
		e, err := d.expr(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (d *decoder) optExpr(m map[string]any, key string) (Expr, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	return d.expr(v)
}

func (d *decoder) pair(m map[string]any, a, b string) (Expr, Expr, error) {
	first, err := d.expr(m[a])
	if err != nil {
		return nil, nil, err
	}
	second, err := d.expr(m[b])
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func (d *decoder) bodies(m map[string]any, a, b string) ([]Stmt, []Stmt, error) {
	first, err := d.stmts(m, a)
	if err != nil {
		return nil, nil, err
	}
	second, err := d.stmts(m, b)
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func (d *decoder) expr(v any) (Expr, error) {
	m, ok := v.(map[string]any)
	if !ok {
		if v == nil {
			return nil, errors.NewInvalidInputError("missing expression in %s", d.path)
		}
		return &UnknownExpr{}, nil
	}
	span := d.span(m)
	ctx := ParseExprContext(typeOf(object(m["ctx"])))

	switch t := typeOf(m); t {
	case "BoolOp":
		values, err := d.exprs(m, "values")
		if err != nil {
			return nil, err
		}
		return &BoolOp{Span: span, Op: ParseBoolOperator(typeOf(object(m["op"]))), Values: values}, nil

	case "NamedExpr":
		target, value, err := d.pair(m, "target", "value")
		if err != nil {
			return nil, err
		}
		return &NamedExpr{Span: span, Target: target, Value: value}, nil

	case "BinOp":
		left, right, err := d.pair(m, "left", "right")
		if err != nil {
			return nil, err
		}
		return &BinOp{Span: span, Left: left, Op: ParseBinaryOperator(typeOf(object(m["op"]))), Right: right}, nil

	case "UnaryOp":
		operand, err := d.expr(m["operand"])
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Span: span, Op: ParseUnaryOperator(typeOf(object(m["op"]))), Operand: operand}, nil

	case "Await":
		value, err := d.expr(m["value"])
		if err != nil {
			return nil, err
		}
		return &Await{Span: span, Value: value}, nil

	case "Compare":
		left, err := d.expr(m["left"])
		if err != nil {
			return nil, err
		}
		rawOps, err := d.list(m, "ops")
		if err != nil {
			return nil, err
		}
		comparators, err := d.exprs(m, "comparators")
		if err != nil {
			return nil, err
		}
		if len(rawOps) != len(comparators) || len(rawOps) == 0 {
			return nil, d.invalid(m, "comparison has %d operators and %d comparators", len(rawOps), len(comparators))
		}
		ops := make([]CompareOperator, len(rawOps))
		for i, op := range rawOps {
			ops[i] = ParseCompareOperator(typeOf(object(op)))
		}
		return &Compare{Span: span, Left: left, Ops: ops, Comparators: comparators}, nil

	case "Call":
		fn, err := d.expr(m["func"])
		if err != nil {
			return nil, err
		}
		args, err := d.exprs(m, "args")
		if err != nil {
			return nil, err
		}
		keywords, err := d.keywords(m)
		if err != nil {
			return nil, err
		}
		return &Call{Span: span, Func: fn, Args: args, Keywords: keywords}, nil

	case "Constant":
		return d.constant(m, span), nil

	case "Attribute":
		value, err := d.expr(m["value"])
		if err != nil {
			return nil, err
		}
		return &Attribute{Span: span, Value: value, Attr: str(m, "attr"), Ctx: ctx}, nil

	case "Name":
		return &Name{Span: span, ID: str(m, "id"), Ctx: ctx}, nil

	case "List", "Tuple", "Set":
		elts, err := d.exprs(m, "elts")
		if err != nil {
			return nil, err
		}
		switch t {
		case "List":
			return &List{Span: span, Elts: elts, Ctx: ctx}, nil
		case "Tuple":
			return &Tuple{Span: span, Elts: elts, Ctx: ctx}, nil
		default:
			return &Set{Span: span, Elts: elts}, nil
		}

	case "Dict":
		keys, err := d.exprList(m, "keys", true)
		if err != nil {
			return nil, err
		}
		values, err := d.exprs(m, "values")
		if err != nil {
			return nil, err
		}
		if len(keys) != len(values) {
			return nil, d.invalid(m, "dict has %d keys and %d values", len(keys), len(values))
		}
		return &Dict{Span: span, Keys: keys, Values: values}, nil

	case "Subscript":
		value, slice, err := d.pair(m, "value", "slice")
		if err != nil {
			return nil, err
		}
		return &Subscript{Span: span, Value: value, Slice: slice, Ctx: ctx}, nil

	case "Slice":
		lower, err := d.optExpr(m, "lower")
		if err != nil {
			return nil, err
		}
		upper, err := d.optExpr(m, "upper")
		if err != nil {
			return nil, err
		}
		step, err := d.optExpr(m, "step")
		if err != nil {
			return nil, err
		}
		return &Slice{Span: span, Lower: lower, Upper: upper, Step: step}, nil

	case "Starred":
		value, err := d.expr(m["value"])
		if err != nil {
			return nil, err
		}
		return &Starred{Span: span, Value: value, Ctx: ctx}, nil

	case "Lambda":
		args, err := d.arguments(object(m["args"]))
		if err != nil {
			return nil, err
		}
		body, err := d.expr(m["body"])
		if err != nil {
			return nil, err
		}
		return &Lambda{Span: span, Args: args, Body: body}, nil

	case "IfExp":
		test, body, err := d.pair(m, "test", "body")
		if err != nil {
			return nil, err
		}
		orelse, err := d.expr(m["orelse"])
		if err != nil {
			return nil, err
		}
		return &IfExp{Span: span, Test: test, Body: body, OrElse: orelse}, nil

	case "ListComp", "SetComp", "GeneratorExp":
		elt, err := d.expr(m["elt"])
		if err != nil {
			return nil, err
		}
		gens, err := d.generators(m)
		if err != nil {
			return nil, err
		}
		switch t {
		case "ListComp":
			return &ListComp{Span: span, Elt: elt, Generators: gens}, nil
		case "SetComp":
			return &SetComp{Span: span, Elt: elt, Generators: gens}, nil
		default:
			return &GeneratorExp{Span: span, Elt: elt, Generators: gens}, nil
		}

	case "DictComp":
		key, value, err := d.pair(m, "key", "value")
		if err != nil {
			return nil, err
		}
		gens, err := d.generators(m)
		if err != nil {
			return nil, err
		}
		return &DictComp{Span: span, Key: key, Value: value, Generators: gens}, nil

	case "JoinedStr":
		values, err := d.exprs(m, "values")
		if err != nil {
			return nil, err
		}
		return &JoinedStr{Span: span, Values: values}, nil

	case "FormattedValue":
		value, err := d.expr(m["value"])
		if err != nil {
			return nil, err
		}
		spec, err := d.optExpr(m, "format_spec")
		if err != nil {
			return nil, err
		}
		conversion, ok := toInt(m["conversion"])
		if !ok {
			conversion = NoConversion
		}
		return &FormattedValue{Span: span, Value: value, Conversion: conversion, FormatSpec: spec}, nil

	case "Yield":
		value, err := d.optExpr(m, "value")
		if err != nil {
			return nil, err
		}
		return &Yield{Span: span, Value: value}, nil

	case "YieldFrom":
		value, err := d.expr(m["value"])
		if err != nil {
			return nil, err
		}
		return &YieldFrom{Span: span, Value: value}, nil

	case "":
		return &UnknownExpr{Span: span}, nil

	default:
		return &UnimplementedExpr{Span: span, Name: t}, nil
	}
}

func (d *decoder) generators(m map[string]any) ([]*Comprehension, error) {
	raw, err := d.list(m, "generators")
	if err != nil {
		return nil, err
	}
	out := make([]*Comprehension, 0, len(raw))
	for _, item := range raw {
		gm := object(item)
		if gm == nil {
			return nil, d.invalid(m, "comprehension is not an object")
		}
		target, iter, err := d.pair(gm, "target", "iter")
		if err != nil {
			return nil, err
		}
		ifs, err := d.exprs(gm, "ifs")
		if err != nil {
			return nil, err
		}
		async, _ := toInt(gm["is_async"])
		out = append(out, &Comprehension{Target: target, Iter: iter, Ifs: ifs, IsAsync: async == 1})
	}
	return out, nil
}

// constant decodes a literal. The dumper tags each value with its Python type
// name so that ints keep arbitrary precision; untagged values fall back to
// the document's own scalar type.
func (d *decoder) constant(m map[string]any, span Span) *Constant {
	value := m["value"]
	c := &Constant{Span: span}

	switch str(m, "type") {
	case "int":
		c.Type = IntConstant
	case "float":
		c.Type = FloatConstant
	case "complex":
		c.Type = ComplexConstant
	case "str":
		c.Type = StrConstant
	case "bytes":
		c.Type = BytesConstant
	case "bool":
		c.Type = BoolConstant
	case "NoneType":
		c.Type = NoneConstant
	case "ellipsis":
		c.Type = EllipsisConstant
	default:
		c.Type = inferConstantKind(value)
	}

	switch c.Type {
	case NoneConstant:
		c.Value = "None"
	case EllipsisConstant:
		c.Value = "..."
	case BoolConstant:
		c.Value = "False"
		if b, ok := value.(bool); ok && b {
			c.Value = "True"
		} else if s, ok := value.(string); ok && s == "True" {
			c.Value = "True"
		}
	default:
		c.Value = scalarText(value)
	}
	return c
}

func inferConstantKind(v any) ConstantKind {
	switch v := v.(type) {
	case nil:
		return NoneConstant
	case bool:
		return BoolConstant
	case string:
		return StrConstant
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return IntConstant
		}
		return FloatConstant
	case int, int64, uint64:
		return IntConstant
	case float64:
		return FloatConstant
	default:
		return StrConstant
	}
}

func scalarText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		if v {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(v)
	}
}

func (d *decoder) span(m map[string]any) Span {
	var s Span
	if m == nil {
		return s
	}
	if v, ok := toInt(m["lineno"]); ok {
		s.StartLine = util.Ptr(v)
	}
	if v, ok := toInt(m["col_offset"]); ok {
		s.StartCol = util.Ptr(v)
	}
	if v, ok := toInt(m["end_lineno"]); ok {
		s.EndLine = util.Ptr(v)
	}
	if v, ok := toInt(m["end_col_offset"]); ok {
		s.EndCol = util.Ptr(v)
	}
	return s
}

func (d *decoder) list(m map[string]any, key string) ([]any, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, d.invalid(m, "field %q of %s is not a list", key, typeOf(m))
	}
	return items, nil
}

func typeOf(m map[string]any) string {
	if m == nil {
		return ""
	}
	s, _ := m[TypeKey].(string)
	return s
}

func object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func optString(m map[string]any, key string) *string {
	s, ok := m[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func stringList(m map[string]any, key string) []string {
	raw, _ := m[key].([]any)
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toInt(v any) (int, bool) {
	switch v := v.(type) {
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		return int(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
