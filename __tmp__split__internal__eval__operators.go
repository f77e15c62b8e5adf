package eval

import (
	"github.com/embergrade/ember/internal/ast"
	"github.com/embergrade/ember/internal/diagnostic"
	"github.com/embergrade/ember/internal/symbol"
	"github.com/embergrade/ember/internal/types"
)

var dunderForBinOp = map[string]string{
	"+": "__add__", "-": "__sub__", "*": "__mul__", "/": "__truediv__",
	"//": "__floordiv__", "%": "__mod__", "**": "__pow__",
	"&": "__and__", "|": "__or__", "^": "__xor__", "<<": "__lshift__", ">>": "__rshift__",
}

func (e *Evaluator) evalBinOp(n *ast.BinOp, scope *symbol.Scope) types.Type {
	left := e.GetType(n.Left, scope, Usage{Method: MethodGet}, FlagNone)
	right := e.GetType(n.Right, scope, Usage{Method: MethodGet}, FlagNone)

	if types.IsAny(left) || types.IsUnknown(left) || types.IsAny(right) || types.IsUnknown(right) {
		return types.Unknown
	}

	dunder, ok := dunderForBinOp[n.Op]
	if !ok {
		return types.Unknown
	}
	if ret, ok := e.resolveDunderReturn(left, dunder); ok {
		return ret
	}
	return types.Unknown
}

func (e *Evaluator) resolveDunderReturn(operand types.Type, dunder string) (types.Type, bool) {
	class := classOf(operand)
	if class == nil {
		return nil, false
	}
	member, ok := lookupMember(class, dunder)
	if !ok {
		return nil, false
	}
	if fn, ok := member.(*types.Function); ok {
		return fn.ReturnType(), true
	}
	return nil, false
}

func classOf(t types.Type) *types.Class {
	switch v := t.(type) {
	case *types.Class:
		return v
	case *types.Object:
		return v.ClassType
	default:
		return nil
	}
}

// lookupMember walks the MRO (base classes, depth-first, matching declaration order) looking
// for name — the subset of attribute access needed by operator resolution and plain `.attr`
// reads.
func lookupMember(class *types.Class, name string) (types.Type, bool) {
	if class == nil {
		return nil, false
	}
	if class.Fields != nil {
		if sym, ok := class.Fields.Lookup(name); ok {
			return sym.SymbolType(), true
		}
	}
	for _, base := range class.BaseClasses {
		if baseClass, ok := base.(*types.Class); ok {
			if t, ok := lookupMember(baseClass, name); ok {
				return t, true
			}
		}
	}
	return nil, false
}

func (e *Evaluator) evalUnaryOp(n *ast.UnaryOp, scope *symbol.Scope) types.Type {
	operand := e.GetType(n.Operand, scope, Usage{Method: MethodGet}, FlagNone)
	if n.Op == "not" {
		return &types.Class{Name: "bool"}
	}
	return operand
}

func (e *Evaluator) evalBoolOp(n *ast.BoolOp, scope *symbol.Scope) types.Type {
	var members []types.Type
	for _, v := range n.Values {
		members = append(members, e.GetType(v, scope, Usage{Method: MethodGet}, FlagNone))
	}
	return types.Combine(members)
}

func (e *Evaluator) evalCompare(n *ast.Compare, scope *symbol.Scope) types.Type {
	e.GetType(n.Left, scope, Usage{Method: MethodGet}, FlagNone)
	for _, c := range n.Comps {
		e.GetType(c, scope, Usage{Method: MethodGet}, FlagNone)
	}
	return &types.Class{Name: "bool"}
}

func (e *Evaluator) evalIfExp(n *ast.IfExp, scope *symbol.Scope) types.Type {
	e.GetType(n.Test, scope, Usage{Method: MethodGet}, FlagNone)
	body := e.GetType(n.Body, scope, Usage{Method: MethodGet}, FlagNone)
	orelse := e.GetType(n.Orelse, scope, Usage{Method: MethodGet}, FlagNone)
	return types.Combine([]types.Type{body, orelse})
}

// evalAttribute resolves `.attr`, deferring to __getattribute__/__getattr__ only when present
// and not inherited from the root `object`.
func (e *Evaluator) evalAttribute(n *ast.Attribute, scope *symbol.Scope, usage Usage) types.Type {
	baseType := e.GetType(n.Value, scope, Usage{Method: MethodGet}, FlagNone)
	if types.IsAny(baseType) || types.IsUnknown(baseType) {
		return types.Unknown
	}

	found := false
	result := types.DoForSubtypes(baseType, func(member types.Type) types.Type {
		class := classOf(member)
		if class == nil {
			return types.Unknown
		}
		if t, ok := lookupMember(class, n.Attr); ok {
			found = true
			return t
		}
		if t, ok := lookupMember(class, "__getattr__"); ok {
			if fn, ok := t.(*types.Function); ok {
				found = true
				return fn.ReturnType()
			}
		}
		return types.Unknown
	})

	if usage.Method == MethodGet && !found {
		e.report(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Message:  "attribute \"" + n.Attr + "\" is not a known member",
			Range:    n.Range(),
			Code:     diagnostic.CodeUndefinedAttribute,
		})
	}
	return result
}

// evalSubscript dispatches to __getitem__/__setitem__/__delitem__ depending on usage .
func (e *Evaluator) evalSubscript(n *ast.Subscript, scope *symbol.Scope, usage Usage) types.Type {
	baseType := e.GetType(n.Value, scope, Usage{Method: MethodGet}, FlagNone)
	e.GetType(n.Index, scope, Usage{Method: MethodGet}, FlagNone)

	var dunder string
	switch usage.Method {
	case MethodSet:
		dunder = "__setitem__"
	case MethodDel:
		dunder = "__delitem__"
	default:
		dunder = "__getitem__"
	}
	class := classOf(baseType)
	if class == nil {
		return types.Unknown
	}
	if t, ok := lookupMember(class, dunder); ok {
		if fn, ok := t.(*types.Function); ok {
			return fn.ReturnType()
		}
	}
	return types.Unknown
}

// evalCall resolves overloads by attempting each in order with diagnostics suppressed, selecting
// the first that validates.
func (e *Evaluator) evalCall(n *ast.Call, scope *symbol.Scope) types.Type {
	fnType := e.GetType(n.Func, scope, Usage{Method: MethodGet}, FlagNone)
	argTypes := make([]types.Type, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = e.GetType(a, scope, Usage{Method: MethodGet}, FlagNone)
	}
	for _, kw := range n.Keywords {
		e.GetType(kw.Value, scope, Usage{Method: MethodGet}, FlagNone)
	}

	switch fv := fnType.(type) {
	case *types.Function:
		return e.callFunction(fv, argTypes, n)
	case *types.OverloadedFunction:
		for _, entry := range fv.Overloads {
			var ok bool
			result := e.Speculate(func() types.Type {
				t, matched := e.tryCallFunction(entry.Fn, argTypes)
				ok = matched
				return t
			})
			if ok {
				return result
			}
		}
		e.report(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Message:  "no overload matches the provided arguments",
			Range:    n.Range(),
			Code:     diagnostic.CodeNoOverloadMatches,
		})
		return types.Unknown
	case *types.Class:
		// Class call: delegate to __init__ . Synthesizes an instance of the class regardless of __init__'s
		// own (None) return type.
		if initFn, ok := lookupMember(fv, "__init__"); ok {
			if fn, ok := initFn.(*types.Function); ok {
				e.callFunction(fn, argTypes, n)
			}
		}
		return &types.Object{ClassType: fv}
	case *types.Object:
		if callFn, ok := lookupMember(fv.ClassType, "__call__"); ok {
			if fn, ok := callFn.(*types.Function); ok {
				return e.callFunction(fn, argTypes, n)
			}
		}
		return types.Unknown
	default:
		return types.Unknown
	}
}

// callFunction validates arity/kinds against fn's parameters, reports on mismatch, and returns
// the (possibly specialized) return type.
func (e *Evaluator) callFunction(fn *types.Function, argTypes []types.Type, call *ast.Call) types.Type {
	ret, ok := e.tryCallFunction(fn, argTypes)
	if !ok {
		e.report(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Message:  "argument types are incompatible with " + fn.String(),
			Range:    call.Range(),
			Code:     diagnostic.CodeIncorrectCallArity,
		})
	}
	return ret
}

// tryCallFunction implements the "bare *" positional-cutoff rule: simple parameters before a
// bare `*`/`*args` marker accept positional arguments; `*args`/`**kwargs` absorb remainders.
func (e *Evaluator) tryCallFunction(fn *types.Function, argTypes []types.Type) (types.Type, bool) {
	typeVarMap := types.TypeVarMap{}
	ai := 0
	for _, p := range fn.Parameters {
		switch p.Category {
		case ParamCategoryVarArgList:
			for ai < len(argTypes) {
				bindTypeVar(p.Type, argTypes[ai], typeVarMap)
				ai++
			}
		case ParamCategoryVarArgDict:
			// absorbs any remaining keyword arguments; nothing positional to consume here.
		default:
			if ai >= len(argTypes) {
				if p.HasDefault {
					continue
				}
				return types.Unknown, false
			}
			if !types.CanAssign(p.Type, argTypes[ai], nil) {
				return types.Unknown, false
			}
			bindTypeVar(p.Type, argTypes[ai], typeVarMap)
			ai++
		}
	}
	if ai < len(argTypes) {
		return types.Unknown, false
	}
	ret := fn.ReturnType()
	if len(typeVarMap) > 0 {
		ret = types.Specialize(ret, typeVarMap)
	}
	return ret, true
}

// ParamCategoryVarArgList/Dict re-export types.Param* to keep this file's switch readable.
const (
	ParamCategoryVarArgList = types.ParamVarArgList
	ParamCategoryVarArgDict = types.ParamVarArgDict
)

// bindTypeVar records paramType == TypeVar{name} -> argType in m, feeding Specialize for the
// return type .
func bindTypeVar(paramType, argType types.Type, m types.TypeVarMap) {
	if tv, ok := paramType.(*types.TypeVar); ok {
		if _, already := m[tv.Name]; !already {
			m[tv.Name] = argType
		}
	}
}


