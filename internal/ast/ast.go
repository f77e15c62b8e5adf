// Package ast describes the shape of the already-parsed syntax tree that the checker consumes.
// The lexer and parser that produce these nodes are an external collaborator: this package only
// hosts the node kinds, source ranges, and the parent link the core relies on.
package ast

// Position is a zero-based line/column pair, matching the convention of most lexers for this
// language (the tokenizer supplies its own line table; we just carry the result).
type Position struct {
	Line   int
	Column int
}

// Range is a half-open [Start, End) source range.
type Range struct {
	Start Position
	End   Position
}

// Kind tags every concrete node type so the core can dispatch with a type switch instead of a
// visitor hierarchy.
type Kind int

const (
	KindModule Kind = iota
	KindClassDef
	KindFunctionDef
	KindLambda
	KindParameter

	KindAssign
	KindAugAssign
	KindAnnAssign
	KindNamedExpr // walrus: x := expr
	KindExprStmt
	KindReturn
	KindYield
	KindYieldFrom
	KindRaise
	KindPass
	KindBreak
	KindContinue
	KindGlobal
	KindNonlocal
	KindAssert
	KindDel

	KindIf
	KindWhile
	KindFor
	KindTry
	KindExceptHandler
	KindWith
	KindWithItem

	KindImport
	KindImportFrom
	KindAlias // a single `name as asname` inside Import/ImportFrom

	KindName
	KindAttribute
	KindSubscript
	KindCall
	KindKeywordArg
	KindBinOp
	KindUnaryOp
	KindBoolOp
	KindCompare
	KindIfExp
	KindStarred

	KindListComp
	KindSetComp
	KindDictComp
	KindGeneratorExp
	KindComprehensionClause

	KindTupleExpr
	KindListExpr
	KindSetExpr
	KindDictExpr

	KindConstant // int/float/str/bytes/bool/None literal
	KindEllipsis
)

// Node is the minimal capability every syntax-tree node must provide. The binder and evaluator
// never downcast through an inheritance hierarchy; they type-switch on the concrete Go type and
// use Kind()/Range()/Parent() for the generic bookkeeping (annotations, diagnostics).
type Node interface {
	Kind() Kind
	Range() Range
	Parent() Node
}

// base is embedded by every concrete node to provide the common Node plumbing.
type base struct {
	kind   Kind
	rng    Range
	parent Node
}

func (b *base) Kind() Kind     { return b.kind }
func (b *base) Range() Range   { return b.rng }
func (b *base) Parent() Node   { return b.parent }
func (b *base) SetParent(p Node) { b.parent = p }

// Module is the root node produced for a single source file.
type Module struct {
	base
	Path  string
	Body  []Node
	// DocString is the module-level docstring, if the first statement is a bare string constant.
	DocString string
}

func NewModule(path string, rng Range, body []Node) *Module {
	m := &Module{base: base{kind: KindModule, rng: rng}, Path: path, Body: body}
	for _, n := range body {
		setParent(n, m)
	}
	return m
}

func setParent(n Node, p Node) {
	if setter, ok := n.(interface{ SetParent(Node) }); ok {
		setter.SetParent(p)
	}
}

// Name is a bare identifier reference, e.g. `x`.
type Name struct {
	base
	Identifier string
}

func NewName(rng Range, id string) *Name {
	return &Name{base: base{kind: KindName, rng: rng}, Identifier: id}
}

// Constant is a literal of one of the primitive kinds the language supports.
type ConstantKind int

const (
	ConstInt ConstantKind = iota
	ConstFloat
	ConstString
	ConstBytes
	ConstBool
	ConstNone
)

type Constant struct {
	base
	ConstKind ConstantKind
	Int       int64
	Float     float64
	Str       string
	Bool      bool
}

func NewConstant(rng Range, k ConstantKind) *Constant {
	return &Constant{base: base{kind: KindConstant, rng: rng}, ConstKind: k}
}

// Parameter describes one formal parameter of a function or lambda.
type ParamCategory int

const (
	ParamSimple ParamCategory = iota
	ParamVarArgList           // *args
	ParamVarArgDict           // **kwargs
)

type Parameter struct {
	base
	Name           string
	Category       ParamCategory
	HasDefault     bool
	Default        Node
	TypeAnnotation Node // nil if not annotated
}

func NewParameter(rng Range, name string, cat ParamCategory) *Parameter {
	return &Parameter{base: base{kind: KindParameter, rng: rng}, Name: name, Category: cat}
}

// FunctionDef covers both `def` statements and (when IsAsync) `async def`.
type FunctionDef struct {
	base
	Name         string
	Parameters   []*Parameter
	ReturnAnnot  Node
	Body         []Node
	Decorators   []Node
	IsAsync      bool
	IsMethod     bool // true when the immediate enclosing scope is a class body
}

func NewFunctionDef(rng Range, name string, params []*Parameter, body []Node) *FunctionDef {
	f := &FunctionDef{base: base{kind: KindFunctionDef, rng: rng}, Name: name, Parameters: params, Body: body}
	for _, p := range params {
		setParent(p, f)
	}
	for _, n := range body {
		setParent(n, f)
	}
	return f
}

// ClassDef covers `class Name(bases): body`.
type ClassDef struct {
	base
	Name       string
	Bases      []Node
	Keywords   []*KeywordArg // e.g. metaclass=..., or typed-dict/protocol markers
	Body       []Node
	Decorators []Node
}

func NewClassDef(rng Range, name string, bases []Node, body []Node) *ClassDef {
	c := &ClassDef{base: base{kind: KindClassDef, rng: rng}, Name: name, Bases: bases, Body: body}
	for _, n := range bases {
		setParent(n, c)
	}
	for _, n := range body {
		setParent(n, c)
	}
	return c
}

// Lambda is an anonymous single-expression function.
type Lambda struct {
	base
	Parameters []*Parameter
	Body       Node
}

// Assign covers `target = value` (potentially multiple targets: `a = b = value`).
type Assign struct {
	base
	Targets []Node
	Value   Node
}

func NewAssign(rng Range, targets []Node, value Node) *Assign {
	a := &Assign{base: base{kind: KindAssign, rng: rng}, Targets: targets, Value: value}
	for _, t := range targets {
		setParent(t, a)
	}
	setParent(value, a)
	return a
}

// AnnAssign covers `target: Annotation = value` (value optional).
type AnnAssign struct {
	base
	Target     Node
	Annotation Node
	Value      Node // nil if not initialized
}

// AugAssign covers `target op= value`, e.g. `x += 1`.
type AugAssign struct {
	base
	Target Node
	Op     string
	Value  Node
}

// NamedExpr is the walrus operator `target := value`.
type NamedExpr struct {
	base
	Target Node
	Value  Node
}

// ExprStmt wraps an expression used as a statement (e.g. a bare call).
type ExprStmt struct {
	base
	Value Node
}

// Return, Raise, Yield*, Pass/Break/Continue, Global/Nonlocal, Assert, Del.
type Return struct {
	base
	Value Node // nil for bare `return`
}

type Raise struct {
	base
	Exc   Node // nil for bare `raise`
	Cause Node
}

type Yield struct {
	base
	Value Node
}

type YieldFrom struct {
	base
	Value Node
}

type Pass struct{ base }
type Break struct{ base }
type Continue struct{ base }

type Global struct {
	base
	Names []string
}

type Nonlocal struct {
	base
	Names []string
}

type Assert struct {
	base
	Test Node
	Msg  Node
}

type Del struct {
	base
	Targets []Node
}

// If covers `if test: body else: orelse`; `elif` chains are nested `If` nodes in Orelse.
type If struct {
	base
	Test   Node
	Body   []Node
	Orelse []Node
}

func NewIf(rng Range, test Node, body, orelse []Node) *If {
	n := &If{base: base{kind: KindIf, rng: rng}, Test: test, Body: body, Orelse: orelse}
	setParent(test, n)
	for _, s := range body {
		setParent(s, n)
	}
	for _, s := range orelse {
		setParent(s, n)
	}
	return n
}

// While covers `while test: body else: orelse`.
type While struct {
	base
	Test   Node
	Body   []Node
	Orelse []Node
}

// For covers `for target in iter: body else: orelse`.
type For struct {
	base
	Target  Node
	Iter    Node
	Body    []Node
	Orelse  []Node
	IsAsync bool
}

func NewFor(rng Range, target, iter Node, body, orelse []Node) *For {
	n := &For{base: base{kind: KindFor, rng: rng}, Target: target, Iter: iter, Body: body, Orelse: orelse}
	setParent(target, n)
	setParent(iter, n)
	for _, s := range body {
		setParent(s, n)
	}
	return n
}

// ExceptHandler covers one `except Type as name: body` clause.
type ExceptHandler struct {
	base
	Type Node // nil for bare except
	Name string
	Body []Node
}

// Try covers `try: body except ...: handlers else: orelse finally: finalbody`.
type Try struct {
	base
	Body      []Node
	Handlers  []*ExceptHandler
	Orelse    []Node
	Finalbody []Node
}

// WithItem is one `expr as target` clause of a with-statement.
type WithItem struct {
	base
	ContextExpr Node
	OptionalVar Node // nil if no `as target`
}

// With covers `with item, item2: body` (IsAsync for `async with`).
type With struct {
	base
	Items   []*WithItem
	Body    []Node
	IsAsync bool
}

// Alias is a single `name as asname` clause inside an import.
type Alias struct {
	base
	Name   string // dotted path for Import, bare member name for ImportFrom
	AsName string // empty if no alias
}

// Import covers `import a.b.c, d as e`.
type Import struct {
	base
	Names []*Alias
}

// ImportFrom covers `from .pkg import a, b as c` / `from pkg import *`.
type ImportFrom struct {
	base
	Module     string
	Level      int // number of leading dots for relative imports
	Names      []*Alias
	IsWildcard bool
}

// Attribute covers `value.attr`.
type Attribute struct {
	base
	Value Node
	Attr  string
}

// Subscript covers `value[index]`.
type Subscript struct {
	base
	Value Node
	Index Node
}

// KeywordArg is a `name=value` call argument (or **value when Name == "").
type KeywordArg struct {
	base
	Name  string
	Value Node
}

// Call covers `func(args, *star, name=kw, **kwargs)`.
type Call struct {
	base
	Func     Node
	Args     []Node
	Keywords []*KeywordArg
}

func NewCall(rng Range, fn Node, args []Node, kwargs []*KeywordArg) *Call {
	c := &Call{base: base{kind: KindCall, rng: rng}, Func: fn, Args: args, Keywords: kwargs}
	setParent(fn, c)
	for _, a := range args {
		setParent(a, c)
	}
	return c
}

// BinOp covers binary arithmetic/bitwise operators.
type BinOp struct {
	base
	Left  Node
	Op    string
	Right Node
}

// UnaryOp covers unary operators, including boolean `not`.
type UnaryOp struct {
	base
	Op      string
	Operand Node
}

// BoolOp covers short-circuit `and`/`or` chains.
type BoolOp struct {
	base
	Op     string // "and" | "or"
	Values []Node
}

// Compare covers chained comparisons: `a < b <= c`, `x is None`, `x in y`.
type Compare struct {
	base
	Left  Node
	Ops   []string
	Comps []Node
}

// IfExp is the ternary `body if test else orelse`.
type IfExp struct {
	base
	Test   Node
	Body   Node
	Orelse Node
}

// Starred covers `*expr` used in call args or assignment targets.
type Starred struct {
	base
	Value Node
}

// ComprehensionClause is one `for target in iter if cond1 if cond2` clause.
type ComprehensionClause struct {
	base
	Target  Node
	Iter    Node
	Ifs     []Node
	IsAsync bool
}

// ListComp, SetComp, DictComp, GeneratorExp share the same comprehension-clause shape.
type ListComp struct {
	base
	Element Node
	Clauses []*ComprehensionClause
}

type SetComp struct {
	base
	Element Node
	Clauses []*ComprehensionClause
}

type DictComp struct {
	base
	Key     Node
	Value   Node
	Clauses []*ComprehensionClause
}

type GeneratorExp struct {
	base
	Element Node
	Clauses []*ComprehensionClause
}

// TupleExpr, ListExpr, SetExpr, DictExpr are display expressions.
type TupleExpr struct {
	base
	Elements []Node
}

type ListExpr struct {
	base
	Elements []Node
}

type SetExpr struct {
	base
	Elements []Node
}

type DictExpr struct {
	base
	Keys   []Node // a nil entry at index i means `**value` dict-unpacking, value in Values[i]
	Values []Node
}

// Ellipsis is the bare `...` literal, used as a stub-body placeholder.
type Ellipsis struct{ base }

// kind-tagging constructors for the remaining leaf types, so callers outside this file never
// poke at the unexported `base` field directly.
func NewLambda(rng Range, params []*Parameter, body Node) *Lambda {
	return &Lambda{base: base{kind: KindLambda, rng: rng}, Parameters: params, Body: body}
}
func NewAttribute(rng Range, value Node, attr string) *Attribute {
	a := &Attribute{base: base{kind: KindAttribute, rng: rng}, Value: value, Attr: attr}
	setParent(value, a)
	return a
}
func NewSubscript(rng Range, value, index Node) *Subscript {
	s := &Subscript{base: base{kind: KindSubscript, rng: rng}, Value: value, Index: index}
	setParent(value, s)
	setParent(index, s)
	return s
}
