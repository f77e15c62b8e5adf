// Package checker implements the type analyzer: the statement
// walker that drives the evaluator, runs fixed-point iteration across the bound module, emits
// diagnostics, and caches types on nodes.
package checker

import (
	"github.com/embergrade/ember/internal/ast"
	"github.com/embergrade/ember/internal/binder"
	"github.com/embergrade/ember/internal/config"
	"github.com/embergrade/ember/internal/diagnostic"
	"github.com/embergrade/ember/internal/eval"
	"github.com/embergrade/ember/internal/module"
	"github.com/embergrade/ember/internal/symbol"
	"github.com/embergrade/ember/internal/types"
)

// State is the per-file state machine: Bound -> Inferring -> Converged | Capped.
type State int

const (
	StateBound State = iota
	StateInferring
	StateConverged
	StateCapped
)

func (s State) String() string {
	switch s {
	case StateBound:
		return "Bound"
	case StateInferring:
		return "Inferring"
	case StateConverged:
		return "Converged"
	case StateCapped:
		return "Capped"
	default:
		return "Unknown"
	}
}

// Result is what a completed Check returns: the final state, the module's export type, and all
// diagnostics accumulated across passes.
type Result struct {
	State       State
	ModuleType  *types.Module
	Diagnostics []diagnostic.Diagnostic
	Passes      int
}

// Checker drives one file's fixed-point analysis. It is created fresh per Check call: reusing
// one across files would leak scope/version state across arenas.
type Checker struct {
	file        *module.FileInfo
	annotations *binder.Annotations
	evaluator   *eval.Evaluator
	moduleScope *symbol.Scope
	settings    *config.Settings

	version int
}

// Check binds mod, then runs the fixed-point type-analysis loop to convergence or the pass cap.
func Check(mod *ast.Module, file *module.FileInfo) *Result {
	settings := file.DiagnosticSettings
	if settings == nil {
		settings = config.Default()
	}

	b := binder.New(file)
	moduleScope := b.Bind(mod)
	seedBuiltins(moduleScope)

	c := &Checker{
		file:        file,
		annotations: b.Annotations,
		moduleScope: moduleScope,
		settings:    settings,
	}
	c.evaluator = eval.New(b.Annotations, file.ImportMap, file.DiagnosticSink, settings)

	state := StateInferring
	pass := 0
	var lastSnapshot map[uintptr]string

	for pass = 1; pass <= config.MaxAnalysisPasses; pass++ {
		c.version = pass
		c.evaluator.Version = pass

		c.walkModule(mod, moduleScope)

		snapshot := c.snapshotTypes(mod)
		if lastSnapshot != nil && sameSnapshot(lastSnapshot, snapshot, pass > config.BeatingUnknownThreshold) {
			state = StateConverged
			break
		}
		lastSnapshot = snapshot
	}
	if pass > config.MaxAnalysisPasses {
		state = StateCapped
		pass = config.MaxAnalysisPasses
	}

	c.checkUnused(mod, moduleScope)
	c.checkDeclarationConflicts(mod, moduleScope)
	c.checkUnknownTypes(mod, moduleScope)

	moduleType := &types.Module{Fields: moduleScope.Table, DocString: mod.DocString}

	return &Result{
		State:       state,
		ModuleType:  moduleType,
		Diagnostics: file.DiagnosticSink.All(),
		Passes:      pass,
	}
}

// snapshotTypes renders every annotated node's current type to a string, keyed by node address,
// so convergence can be detected by string comparison without exposing types.Type equality
// machinery to the convergence loop.
func (c *Checker) snapshotTypes(mod *ast.Module) map[uintptr]string {
	out := make(map[uintptr]string)
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if n == nil {
			return
		}
		if info, ok := c.annotations.Peek(n); ok && info.TypeCache.HasType {
			if t, ok := info.TypeCache.Type.(types.Type); ok {
				out[addrOf(n)] = t.String()
			}
		}
		for _, child := range ast.Children(n) {
			walk(child)
		}
	}
	walk(mod)
	return out
}

// sameSnapshot compares two type snapshots for convergence. When beatUnknown is true (past
// config.BeatingUnknownThreshold passes), a node whose type differs only by the presence of
// "Unknown" as one union member is treated as unchanged.
func sameSnapshot(prev, cur map[uintptr]string, beatUnknown bool) bool {
	if len(prev) != len(cur) {
		return false
	}
	for k, v := range cur {
		pv, ok := prev[k]
		if !ok {
			return false
		}
		if pv == v {
			continue
		}
		if beatUnknown && stripUnknownArm(pv) == stripUnknownArm(v) {
			continue
		}
		return false
	}
	return true
}

func stripUnknownArm(s string) string {
	// crude structural normalization: drop " | Unknown" / "Unknown | " segments so a type that
	// only gained/lost an Unknown union arm compares equal to its prior rendering.
	out := s
	for _, pat := range []string{" | Unknown", "Unknown | "} {
		for {
			idx := indexOf(out, pat)
			if idx < 0 {
				break
			}
			out = out[:idx] + out[idx+len(pat):]
		}
	}
	if out == "" {
		out = "Unknown"
	}
	return out
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

// classOfExpr bridges a bare class-reference expression to its Class type, used by walkIf's
// isinstance narrowing (see statements.go).
func (c *Checker) classOfExpr(n ast.Node, scope *symbol.Scope) (*types.Class, bool) {
	name, ok := n.(*ast.Name)
	if !ok {
		return nil, false
	}
	sym, _, ok := scope.LookUpRecursive(name.Identifier)
	if !ok {
		return nil, false
	}
	cls, ok := sym.InferredType.Combine().(*types.Class)
	return cls, ok
}
