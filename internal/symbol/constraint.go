package symbol

import (
	"github.com/embergrade/ember/internal/ast"
	"github.com/embergrade/ember/internal/types"
)

// Constraint narrows a named expression's type at a program point . The concrete producers (is None,
// isinstance, literal equality, assignment, assert) live in internal/constraint; this package
// only needs the shape so Scope can carry a stack of them without an import cycle (the
// constraint engine needs to read/write scopes, so symbol cannot import it back).
type Constraint struct {
	// Name is the bound variable the constraint narrows; empty for a constraint that refers to
	// a compound expression (e.g. `self.x is None`) rather than a bare name.
	Name string

	// Sense is true for the branch where the originating condition held, false for its negation.
	Sense bool

	// NarrowedType is the type Name should assume on the branch where this constraint applies.
	NarrowedType types.Type

	// Source is the expression node that produced this constraint (the `is None`/`isinstance`/
	// comparison/assignment), kept for diagnostic addenda.
	Source ast.Node
}

// PushConstraint adds c to the top of the scope's constraint stack .
func (s *Scope) PushConstraint(c *Constraint) {
	s.TypeConstraints = append(s.TypeConstraints, c)
}

// PopConstraints removes the most recently pushed n constraints ("after, they are popped").
func (s *Scope) PopConstraints(n int) {
	if n > len(s.TypeConstraints) {
		n = len(s.TypeConstraints)
	}
	s.TypeConstraints = s.TypeConstraints[:len(s.TypeConstraints)-n]
}

// ActiveConstraint returns the innermost (most recently pushed) constraint affecting name that is
// visible from this scope, walking the constraint stacks of enclosing scopes as well — a
// constraint from an enclosing `if` remains active while evaluating a nested expression.
func (s *Scope) ActiveConstraint(name string) (*Constraint, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		for i := len(cur.TypeConstraints) - 1; i >= 0; i-- {
			if cur.TypeConstraints[i].Name == name {
				return cur.TypeConstraints[i], true
			}
		}
	}
	return nil, false
}
