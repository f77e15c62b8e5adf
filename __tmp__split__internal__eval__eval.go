// Package eval implements the expression evaluator: a pure
// function (node, scope, flags) -> Type, memoized per node, which also drives the set/del side
// effects of assignment targets and deletions.
package eval

import (
	"github.com/embergrade/ember/internal/ast"
	"github.com/embergrade/ember/internal/binder"
	"github.com/embergrade/ember/internal/config"
	"github.com/embergrade/ember/internal/constraint"
	"github.com/embergrade/ember/internal/diagnostic"
	"github.com/embergrade/ember/internal/module"
	"github.com/embergrade/ember/internal/symbol"
	"github.com/embergrade/ember/internal/types"
)

// Method distinguishes how a node's type is being requested .
type Method int

const (
	MethodGet Method = iota
	MethodSet
	MethodDel
)

// Usage carries the context of a getType request beyond the bare node.
type Usage struct {
	Method       Method
	SetType      types.Type
	SetErrorNode ast.Node
	ExpectedType types.Type
}

// Flags are evaluator behavior toggles .
type Flags int

const (
	FlagNone Flags = 0
	FlagConvertEllipsisToAny Flags = 1 << iota
	FlagAllowForwardReferences
	FlagDoNotCache
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// Evaluator is the shared, stateless-between-calls engine the analyzer drives once per pass.
// Its only mutable state is the speculative-mode flag, toggled for the duration of a single
// speculative sub-evaluation (overload probing, declared-type discovery).
type Evaluator struct {
	Annotations *binder.Annotations
	ImportMap   module.ImportMap
	Sink        *diagnostic.Sink
	Settings    *config.Settings
	Version     int // current analysisVersion; set by the analyzer before each pass

	speculative bool
}

func New(ann *binder.Annotations, importMap module.ImportMap, sink *diagnostic.Sink, settings *config.Settings) *Evaluator {
	return &Evaluator{Annotations: ann, ImportMap: importMap, Sink: sink, Settings: settings}
}

// Speculate runs f with diagnostics suppressed, restoring the prior
// mode afterward even if f panics.
func (e *Evaluator) Speculate(f func() types.Type) types.Type {
	prev := e.speculative
	e.speculative = true
	defer func() { e.speculative = prev }()
	return f()
}

func (e *Evaluator) report(d diagnostic.Diagnostic) {
	if e.speculative {
		return
	}
	e.Sink.Report(d)
}

// GetType is the evaluator's single entry point.
func (e *Evaluator) GetType(node ast.Node, scope *symbol.Scope, usage Usage, flags Flags) types.Type {
	if node == nil {
		return types.Unknown
	}

	info := e.Annotations.Get(node)
	if !flags.Has(FlagDoNotCache) {
		if info.TypeCache.HasType && info.TypeCache.WriteVersion == e.Version {
			info.TypeCache.ReadVersion = e.Version
			if t, ok := info.TypeCache.Type.(types.Type); ok {
				return t
			}
		}
	}

	result := e.evalNode(node, scope, usage, flags)

	if !flags.Has(FlagDoNotCache) {
		if info.TypeCache.IsFinal && info.TypeCache.HasType {
			// A pinned, Final type should never be rewritten by a later pass. We treat a
			// same-value rewrite as a no-op rather than a hard failure, since re-running the
			// same pass idempotently legitimately recomputes stub-file types every call.
			if prev, ok := info.TypeCache.Type.(types.Type); ok && !types.IsSame(prev, result) {
				return prev
			}
		}
		info.TypeCache.Type = result
		info.TypeCache.HasType = true
		info.TypeCache.WriteVersion = e.Version
	}
	return result
}

func (e *Evaluator) evalNode(node ast.Node, scope *symbol.Scope, usage Usage, flags Flags) types.Type {
	switch n := node.(type) {
	case *ast.Constant:
		return e.evalConstant(n)
	case *ast.Ellipsis:
		if flags.Has(FlagConvertEllipsisToAny) {
			return types.AnyType
		}
		return types.Unknown
	case *ast.Name:
		return e.evalName(n, scope, usage)
	case *ast.Attribute:
		return e.evalAttribute(n, scope, usage)
	case *ast.Subscript:
		return e.evalSubscript(n, scope, usage)
	case *ast.Call:
		return e.evalCall(n, scope)
	case *ast.BinOp:
		return e.evalBinOp(n, scope)
	case *ast.UnaryOp:
		return e.evalUnaryOp(n, scope)
	case *ast.BoolOp:
		return e.evalBoolOp(n, scope)
	case *ast.Compare:
		return e.evalCompare(n, scope)
	case *ast.IfExp:
		return e.evalIfExp(n, scope)
	case *ast.TupleExpr:
		return e.evalTuple(n, scope)
	case *ast.ListExpr, *ast.SetExpr, *ast.DictExpr:
		return types.Unknown
	case *ast.Lambda:
		return e.evalLambda(n, scope)
	case *ast.NamedExpr:
		return e.GetType(n.Value, scope, Usage{Method: MethodGet}, flags)
	case *ast.Starred:
		return e.GetType(n.Value, scope, Usage{Method: MethodGet}, flags)
	default:
		return types.Unknown
	}
}

func (e *Evaluator) evalConstant(c *ast.Constant) types.Type {
	switch c.ConstKind {
	case ast.ConstInt:
		return &types.Class{Name: "int"}
	case ast.ConstFloat:
		return &types.Class{Name: "float"}
	case ast.ConstString:
		return &types.Class{Name: "str", LiteralValue: c.Str}
	case ast.ConstBytes:
		return &types.Class{Name: "bytes"}
	case ast.ConstBool:
		return &types.Class{Name: "bool", LiteralValue: c.Bool}
	case ast.ConstNone:
		return types.None
	default:
		return types.Unknown
	}
}

// evalName resolves a bare identifier: walks scopes, applies declared-type primacy, and applies
// any active narrowing constraint.
func (e *Evaluator) evalName(n *ast.Name, scope *symbol.Scope, usage Usage) types.Type {
	if usage.Method == MethodSet {
		if scope != nil {
			if sym, ok := scope.LookUp(n.Identifier); ok {
				sym.InferredType.AddSource(sourceID(n), usage.SetType)
			}
		}
		return usage.SetType
	}

	if c, ok := scope.ActiveConstraint(n.Identifier); ok {
		return c.NarrowedType
	}

	sym, _, ok := scope.LookUpRecursive(n.Identifier)
	if !ok {
		return types.Unknown
	}
	sym.MarkAccessed()

	if primary := sym.PrimaryDeclaration(); primary != nil && primary.TypeAnnotation != nil {
		return e.GetType(primary.TypeAnnotation, scope, Usage{Method: MethodGet}, FlagAllowForwardReferences)
	}
	return sym.InferredType.Combine()
}

func (e *Evaluator) evalTuple(n *ast.TupleExpr, scope *symbol.Scope) types.Type {
	members := make([]types.Type, len(n.Elements))
	for i, el := range n.Elements {
		members[i] = e.GetType(el, scope, Usage{Method: MethodGet}, FlagNone)
	}
	return types.Combine(members)
}

func (e *Evaluator) evalLambda(n *ast.Lambda, scope *symbol.Scope) types.Type {
	info, ok := e.Annotations.Peek(n)
	inner := scope
	if ok && info.Scope != nil {
		inner = info.Scope
	}
	params := make([]types.FunctionParameter, len(n.Parameters))
	for i, p := range n.Parameters {
		var pt types.Type = types.Unknown
		if p.TypeAnnotation != nil {
			pt = e.GetType(p.TypeAnnotation, scope, Usage{Method: MethodGet}, FlagNone)
		}
		params[i] = types.FunctionParameter{Category: types.ParamSimple, Name: p.Name, HasDefault: p.HasDefault, Type: pt}
	}
	ret := e.GetType(n.Body, inner, Usage{Method: MethodGet}, FlagNone)
	inferred := types.NewInferredType()
	inferred.AddSource(sourceID(n), ret)
	return &types.Function{Parameters: params, InferredReturn: inferred}
}

func sourceID(n ast.Node) int64 {
	// Node identity, not a counter: two distinct nodes must never collide, and the same node
	// must always yield the same id across passes . Using the pointer value satisfies both without a separate id table.
	return int64(nodeAddr(n))
}


