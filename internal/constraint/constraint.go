// Package constraint implements the type-constraint engine:
// narrowing predicates derived from conditionals and assignments, combined along branches.
// The Constraint value type itself lives in internal/symbol (see that package's constraint.go)
// to avoid an import cycle, since Scope needs to carry a stack of them; this package supplies
// the producers that build symbol.Constraint values from syntax and the evaluator's types.
package constraint

import (
	"github.com/embergrade/ember/internal/ast"
	"github.com/embergrade/ember/internal/symbol"
	"github.com/embergrade/ember/internal/types"
)

// TypeOf resolves an expression's static type without applying any narrowing, supplied by the
// evaluator (component C7) to break the constraint<->evaluator dependency: the constraint
// engine needs types to build isinstance/equality narrowings, and the evaluator needs
// constraints to narrow name lookups, so neither package imports the other directly — the
// analyzer (component C8) wires them together at each use site.
type TypeOf func(ast.Node) types.Type

// ClassOf resolves a bare class-reference expression (e.g. the `C` in `isinstance(x, C)`) to its
// Class type, or returns (nil, false) if it isn't a recognizable class reference.
type ClassOf func(ast.Node) (*types.Class, bool)

// FromIsNone produces the pair of constraints for `x is None` / `x is not None`.
// baseType is the type of x prior to narrowing. Returns (trueBranch, falseBranch).
func FromIsNone(name string, baseType types.Type, source ast.Node) (trueC, falseC *symbol.Constraint) {
	trueC = &symbol.Constraint{Name: name, Sense: true, NarrowedType: types.None, Source: source}
	falseC = &symbol.Constraint{Name: name, Sense: false, NarrowedType: types.RemoveNoneFromUnion(baseType), Source: source}
	return
}

// FromIsInstance produces the pair of constraints for `isinstance(x, C)` / `isinstance(x, (C1,
// C2, ...))`. On the true branch, baseType is restricted to the classes that are
// themselves assignable to (or derive from) one of the candidates; on the false branch, those
// matched candidates are removed.
func FromIsInstance(name string, baseType types.Type, candidates []*types.Class, source ast.Node) (trueC, falseC *symbol.Constraint) {
	var trueMembers []types.Type
	var falseMembers []types.Type

	members := unionMembers(baseType)
	for _, m := range members {
		matches := matchesAny(m, candidates)
		if matches {
			trueMembers = append(trueMembers, m)
		} else {
			falseMembers = append(falseMembers, m)
		}
	}
	// If baseType itself offered no members that matched (e.g. it was Unknown/Any, or a plain
	// class not in `members`), the true branch narrows to the candidates themselves: the
	// runtime isinstance check proves it must be (at least) one of them.
	if len(trueMembers) == 0 {
		for _, c := range candidates {
			trueMembers = append(trueMembers, c)
		}
	}

	trueType := types.Combine(trueMembers)
	falseType := baseType
	if len(falseMembers) > 0 {
		falseType = types.Combine(falseMembers)
	}

	trueC = &symbol.Constraint{Name: name, Sense: true, NarrowedType: trueType, Source: source}
	falseC = &symbol.Constraint{Name: name, Sense: false, NarrowedType: falseType, Source: source}
	return
}

// IsInstanceAlwaysTrue reports whether every member of baseType already matches one of
// candidates, meaning the isinstance check can never be false — used for
// reportUnnecessaryIsInstance.
func IsInstanceAlwaysTrue(baseType types.Type, candidates []*types.Class) bool {
	members := unionMembers(baseType)
	if len(members) == 0 {
		return false
	}
	for _, m := range members {
		if !matchesAny(m, candidates) {
			return false
		}
	}
	return true
}

func matchesAny(t types.Type, candidates []*types.Class) bool {
	var class *types.Class
	switch v := t.(type) {
	case *types.Class:
		class = v
	case *types.Object:
		class = v.ClassType
	default:
		return false
	}
	for _, c := range candidates {
		if class.Derives(c) {
			return true
		}
	}
	return false
}

func unionMembers(t types.Type) []types.Type {
	if u, ok := t.(*types.Union); ok {
		return u.Subtypes
	}
	if t == nil {
		return nil
	}
	return []types.Type{t}
}

// FromLiteralEquality produces the pair of constraints for `x == <literal>` when literal types
// are enabled. literalType is the Object/Class carrying the literal value.
func FromLiteralEquality(name string, baseType types.Type, literalType types.Type, source ast.Node) (trueC, falseC *symbol.Constraint) {
	trueC = &symbol.Constraint{Name: name, Sense: true, NarrowedType: literalType, Source: source}
	falseC = &symbol.Constraint{Name: name, Sense: false, NarrowedType: baseType, Source: source}
	return
}

// FromAssignment produces the constraint that `x` assumes the type of `e` on the assignment's
// successor.
func FromAssignment(name string, valueType types.Type, source ast.Node) *symbol.Constraint {
	return &symbol.Constraint{Name: name, Sense: true, NarrowedType: valueType, Source: source}
}

// Apply pushes c onto scope unconditionally — used by `assert expr`, which applies the true
// branch's constraints to the enclosing scope rather than to a temporary branch scope .
func Apply(scope *symbol.Scope, c *symbol.Constraint) {
	scope.PushConstraint(c)
}
