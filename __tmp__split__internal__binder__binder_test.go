package binder

import (
	"testing"

	"github.com/embergrade/ember/internal/ast"
	"github.com/embergrade/ember/internal/flow"
	"github.com/embergrade/ember/internal/module"
	"github.com/embergrade/ember/internal/symbol"
)

func rng() ast.Range { return ast.Range{} }

func TestBindSimpleAssignDeclaresSymbol(t *testing.T) {
	name := ast.NewName(rng(), "x")
	lit := ast.NewConstant(rng(), ast.ConstInt)
	assign := ast.NewAssign(rng(), []ast.Node{name}, lit)
	mod := ast.NewModule("m.ember", rng(), []ast.Node{assign})

	b := New(&module.FileInfo{FilePath: "m.ember"})
	scope := b.Bind(mod)

	sym, ok := scope.LookUp("x")
	if !ok {
		t.Fatal("expected x declared in module scope")
	}
	if len(sym.Declarations) != 1 {
		t.Errorf("expected 1 declaration, got %d", len(sym.Declarations))
	}
}

func TestBindReturnMarksUnreachableAfter(t *testing.T) {
	ret := &ast.Return{}
	after := ast.NewName(rng(), "x")
	afterStmt := &ast.ExprStmt{Value: after}

	fn := ast.NewFunctionDef(rng(), "g", nil, []ast.Node{ret, afterStmt})
	mod := ast.NewModule("m.ember", rng(), []ast.Node{fn})

	b := New(&module.FileInfo{})
	b.Bind(mod)

	info, ok := b.Annotations.Peek(afterStmt)
	if !ok {
		t.Fatal("expected annotation for statement after return")
	}
	if flow.IsReachable(info.FlowNode) {
		t.Error("expected statement after unconditional return to be unreachable")
	}
}

func TestBindIfElseCombinesScopes(t *testing.T) {
	thenAssign := ast.NewAssign(rng(), []ast.Node{ast.NewName(rng(), "x")}, ast.NewConstant(rng(), ast.ConstInt))
	elseAssign := ast.NewAssign(rng(), []ast.Node{ast.NewName(rng(), "x")}, ast.NewConstant(rng(), ast.ConstString))
	ifStmt := ast.NewIf(rng(), ast.NewName(rng(), "cond"), []ast.Node{thenAssign}, []ast.Node{elseAssign})

	mod := ast.NewModule("m.ember", rng(), []ast.Node{ifStmt})
	b := New(&module.FileInfo{})
	scope := b.Bind(mod)

	sym, ok := scope.LookUp("x")
	if !ok {
		t.Fatal("expected x merged into module scope after if/else")
	}
	if len(sym.Declarations) != 2 {
		t.Errorf("expected 2 declarations (one per branch), got %d", len(sym.Declarations))
	}
}

func TestBindForLoopDeclaresTarget(t *testing.T) {
	target := ast.NewName(rng(), "item")
	iter := ast.NewName(rng(), "items")
	forStmt := ast.NewFor(rng(), target, iter, nil, nil)
	mod := ast.NewModule("m.ember", rng(), []ast.Node{forStmt})

	b := New(&module.FileInfo{})
	scope := b.Bind(mod)

	if _, ok := scope.LookUp("item"); !ok {
		t.Error("expected loop target declared in enclosing scope")
	}
}

func TestBindClassCreatesClassScope(t *testing.T) {
	method := ast.NewFunctionDef(rng(), "bar", nil, nil)
	class := ast.NewClassDef(rng(), "Foo", nil, []ast.Node{method})
	mod := ast.NewModule("m.ember", rng(), []ast.Node{class})

	b := New(&module.FileInfo{})
	b.Bind(mod)

	info, ok := b.Annotations.Peek(method)
	if !ok || info.Scope == nil {
		t.Fatal("expected method's scope annotation recorded")
	}
	if info.Scope.Kind != symbol.KindFunction {
		t.Errorf("expected method scope to be KindFunction, got %v", info.Scope.Kind)
	}
}


