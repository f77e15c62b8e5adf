package eval

import (
	"testing"

	"github.com/embergrade/ember/internal/ast"
	"github.com/embergrade/ember/internal/binder"
	"github.com/embergrade/ember/internal/config"
	"github.com/embergrade/ember/internal/diagnostic"
	"github.com/embergrade/ember/internal/module"
	"github.com/embergrade/ember/internal/symbol"
	"github.com/embergrade/ember/internal/types"
)

func TestEvalConstantLiteralTypes(t *testing.T) {
	ann := binder.NewAnnotations()
	e := New(ann, module.ImportMap{}, diagnostic.NewSink(), config.Default())
	e.Version = 1

	scope := symbol.NewScope(symbol.KindModule, nil)
	intLit := ast.NewConstant(ast.Range{}, ast.ConstInt)

	got := e.GetType(intLit, scope, Usage{Method: MethodGet}, FlagNone)
	if got.String() != "int" {
		t.Errorf("expected int, got %s", got.String())
	}
}

func TestEvalMemoizationReturnsCachedWithinPass(t *testing.T) {
	ann := binder.NewAnnotations()
	e := New(ann, module.ImportMap{}, diagnostic.NewSink(), config.Default())
	e.Version = 1

	scope := symbol.NewScope(symbol.KindModule, nil)
	name := ast.NewName(ast.Range{}, "x")
	sym := scope.AddSymbol("x", symbol.SymbolFlagNone, &symbol.Declaration{Kind: symbol.DeclVariable})
	sym.InferredType.AddSource(1, &types.Class{Name: "int"})

	first := e.GetType(name, scope, Usage{Method: MethodGet}, FlagNone)
	info, _ := ann.Peek(name)
	if info.TypeCache.ReadVersion != 0 {
		t.Errorf("expected first read to not bump ReadVersion yet (write just happened), got %d", info.TypeCache.ReadVersion)
	}

	second := e.GetType(name, scope, Usage{Method: MethodGet}, FlagNone)
	if second.String() != first.String() {
		t.Errorf("expected cached read to match, got %s vs %s", second.String(), first.String())
	}
	info, _ = ann.Peek(name)
	if info.TypeCache.ReadVersion != e.Version {
		t.Errorf("expected ReadVersion bumped to current version on cache hit, got %d", info.TypeCache.ReadVersion)
	}
}

func TestEvalNameUnresolvedIsUnknown(t *testing.T) {
	ann := binder.NewAnnotations()
	e := New(ann, module.ImportMap{}, diagnostic.NewSink(), config.Default())
	e.Version = 1
	scope := symbol.NewScope(symbol.KindModule, nil)

	name := ast.NewName(ast.Range{}, "undefined")
	got := e.GetType(name, scope, Usage{Method: MethodGet}, FlagNone)
	if !types.IsUnknown(got) {
		t.Errorf("expected Unknown for unresolved name, got %s", got.String())
	}
}

func TestEvalNameAppliesActiveConstraint(t *testing.T) {
	ann := binder.NewAnnotations()
	e := New(ann, module.ImportMap{}, diagnostic.NewSink(), config.Default())
	e.Version = 1
	scope := symbol.NewScope(symbol.KindModule, nil)
	sym := scope.AddSymbol("x", symbol.SymbolFlagNone, &symbol.Declaration{Kind: symbol.DeclVariable})
	optional := types.Combine([]types.Type{&types.Class{Name: "int"}, types.None})
	sym.InferredType.AddSource(1, optional)

	scope.PushConstraint(&symbol.Constraint{Name: "x", Sense: false, NarrowedType: &types.Class{Name: "int"}})

	name := ast.NewName(ast.Range{}, "x")
	got := e.GetType(name, scope, Usage{Method: MethodGet}, FlagNone)
	if got.String() != "int" {
		t.Errorf("expected narrowed type int, got %s", got.String())
	}
}

func TestEvalCallOverloadSelectsMatchingArm(t *testing.T) {
	ann := binder.NewAnnotations()
	e := New(ann, module.ImportMap{}, diagnostic.NewSink(), config.Default())
	e.Version = 1
	scope := symbol.NewScope(symbol.KindModule, nil)

	intClass := &types.Class{Name: "int"}
	strClass := &types.Class{Name: "str"}
	overload := &types.OverloadedFunction{Overloads: []types.OverloadEntry{
		{SourceID: 1, Fn: &types.Function{Parameters: []types.FunctionParameter{{Name: "x", Type: intClass}}, DeclaredReturn: intClass}},
		{SourceID: 2, Fn: &types.Function{Parameters: []types.FunctionParameter{{Name: "x", Type: strClass}}, DeclaredReturn: strClass}},
	}}
	sym := scope.AddSymbol("f", symbol.SymbolFlagNone, &symbol.Declaration{Kind: symbol.DeclFunction})
	sym.InferredType.AddSource(1, overload)

	fnName := ast.NewName(ast.Range{}, "f")
	arg := ast.NewConstant(ast.Range{}, ast.ConstInt)
	call := ast.NewCall(ast.Range{}, fnName, []ast.Node{arg}, nil)

	got := e.GetType(call, scope, Usage{Method: MethodGet}, FlagNone)
	if got.String() != "int" {
		t.Errorf("expected int from the int overload, got %s", got.String())
	}
}

func TestEvalCallNoOverloadMatchesReportsError(t *testing.T) {
	ann := binder.NewAnnotations()
	sink := diagnostic.NewSink()
	e := New(ann, module.ImportMap{}, sink, config.Default())
	e.Version = 1
	scope := symbol.NewScope(symbol.KindModule, nil)

	intClass := &types.Class{Name: "int"}
	overload := &types.OverloadedFunction{Overloads: []types.OverloadEntry{
		{SourceID: 1, Fn: &types.Function{Parameters: []types.FunctionParameter{{Name: "x", Type: intClass}}, DeclaredReturn: intClass}},
	}}
	sym := scope.AddSymbol("f", symbol.SymbolFlagNone, &symbol.Declaration{Kind: symbol.DeclFunction})
	sym.InferredType.AddSource(1, overload)

	fnName := ast.NewName(ast.Range{}, "f")
	arg := ast.NewConstant(ast.Range{}, ast.ConstFloat)
	call := ast.NewCall(ast.Range{}, fnName, []ast.Node{arg}, nil)

	e.GetType(call, scope, Usage{Method: MethodGet}, FlagNone)
	if sink.Len() != 1 {
		t.Errorf("expected exactly one diagnostic for unmatched overload, got %d", sink.Len())
	}
}


