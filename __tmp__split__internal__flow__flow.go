// Package flow implements the control-flow graph node model:
// per-node flow nodes built during binding, threaded through assignments, conditions, and
// imports so the analyzer can determine reachability and feed narrowing.
package flow

import "github.com/embergrade/ember/internal/ast"

// Node is implemented by every flow-node variant: Start, Label{antecedents},
// Assignment{target, antecedent}, WildcardImport{names, antecedent},
// Condition{expr, antecedent, sense:true|false}, and Unreachable.
type Node interface {
	isFlowNode()
	Antecedents() []Node
}

// Start is the single entry flow node of a scope.
type Start struct{}

func (*Start) isFlowNode()        {}
func (*Start) Antecedents() []Node { return nil }

// Label joins one or more antecedent flow paths, e.g. after an if/else or at a loop header.
type Label struct {
	antecedents []Node
}

func NewLabel(antecedents ...Node) *Label { return &Label{antecedents: antecedents} }

// AddAntecedent records another incoming edge, used when a loop's back edge is discovered after
// the label was first created.
func (l *Label) AddAntecedent(n Node) { l.antecedents = append(l.antecedents, n) }

func (*Label) isFlowNode()          {}
func (l *Label) Antecedents() []Node { return l.antecedents }

// Assignment marks the flow point immediately after a name is bound.
type Assignment struct {
	Target      ast.Node
	antecedent  Node
}

func NewAssignment(target ast.Node, antecedent Node) *Assignment {
	return &Assignment{Target: target, antecedent: antecedent}
}

func (*Assignment) isFlowNode()          {}
func (a *Assignment) Antecedents() []Node { return []Node{a.antecedent} }

// WildcardImport marks the flow point after `from M import *`, recording the names it bound so
// the checker can validate each against M's export surface.
type WildcardImport struct {
	Names      []string
	antecedent Node
}

func NewWildcardImport(names []string, antecedent Node) *WildcardImport {
	return &WildcardImport{Names: names, antecedent: antecedent}
}

func (*WildcardImport) isFlowNode()          {}
func (w *WildcardImport) Antecedents() []Node { return []Node{w.antecedent} }

// Condition marks one arm of a branch: Sense is true for the arm taken when Expr evaluates
// truthy, false for its negation.
type Condition struct {
	Expr       ast.Node
	Sense      bool
	antecedent Node
}

func NewCondition(expr ast.Node, sense bool, antecedent Node) *Condition {
	return &Condition{Expr: expr, Sense: sense, antecedent: antecedent}
}

func (*Condition) isFlowNode()          {}
func (c *Condition) Antecedents() []Node { return []Node{c.antecedent} }

// Unreachable marks a statement that cannot be reached from Start .
type Unreachable struct{}

func (*Unreachable) isFlowNode()          {}
func (*Unreachable) Antecedents() []Node { return nil }

// IsReachable walks backward from n looking for a Start node; an Unreachable node, or a Label
// whose every antecedent is itself unreachable, is not reachable.
func IsReachable(n Node) bool {
	return isReachable(n, map[Node]bool{})
}

func isReachable(n Node, visiting map[Node]bool) bool {
	if n == nil {
		return false
	}
	switch v := n.(type) {
	case *Start:
		return true
	case *Unreachable:
		return false
	case *Label:
		if visiting[n] {
			// A label reached only through its own loop back-edge, with no other live
			// antecedent, is not reachable; break the cycle conservatively as unreachable.
			return false
		}
		visiting[n] = true
		for _, a := range v.Antecedents() {
			if isReachable(a, visiting) {
				return true
			}
		}
		return false
	default:
		ants := n.Antecedents()
		if len(ants) == 0 {
			return false
		}
		return isReachable(ants[0], visiting)
	}
}


