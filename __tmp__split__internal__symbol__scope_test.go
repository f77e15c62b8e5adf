package symbol

import (
	"testing"

	"github.com/embergrade/ember/internal/types"
)

func TestLookUpRecursiveFindsEnclosingBinding(t *testing.T) {
	module := NewScope(KindModule, nil)
	module.AddSymbol("x", SymbolFlagNone, &Declaration{Kind: DeclVariable})

	fn := NewScope(KindFunction, module)
	sym, scope, ok := fn.LookUpRecursive("x")
	if !ok {
		t.Fatal("expected to find x via recursive lookup")
	}
	if sym.Name != "x" || scope != module {
		t.Errorf("expected x resolved in module scope, got scope=%v", scope)
	}
}

func TestLookUpRecursiveConsistencyAcrossDescendants(t *testing.T) {
	module := NewScope(KindModule, nil)
	module.AddSymbol("x", SymbolFlagNone, &Declaration{Kind: DeclVariable})

	fnA := NewScope(KindFunction, module)
	fnB := NewScope(KindLambda, fnA)

	symA, _, okA := fnA.LookUpRecursive("x")
	symB, _, okB := fnB.LookUpRecursive("x")
	if !okA || !okB {
		t.Fatal("expected both descendants to resolve x")
	}
	if symA != symB {
		t.Error("expected same symbol instance from both descendants (testable property 8.2)")
	}
}

func TestLookUpIsNotRecursive(t *testing.T) {
	module := NewScope(KindModule, nil)
	module.AddSymbol("x", SymbolFlagNone, nil)
	fn := NewScope(KindFunction, module)

	if _, ok := fn.LookUp("x"); ok {
		t.Error("expected LookUp (non-recursive) to not see parent scope's x")
	}
}

func TestCombineConditionalScopesConjunctionAndDisjunction(t *testing.T) {
	module := NewScope(KindModule, nil)

	branchA := NewScope(KindTemporary, module)
	branchA.Flags.AlwaysReturns = true
	branchA.Flags.MayBreak = true

	branchB := NewScope(KindTemporary, module)
	branchB.Flags.AlwaysReturns = false

	merged := CombineConditionalScopes(module, []*Scope{branchA, branchB})
	if merged.Flags.AlwaysReturns {
		t.Error("expected AlwaysReturns to be false: not every branch always returns")
	}
	if !merged.Flags.MayBreak {
		t.Error("expected MayBreak to be true: at least one branch may break")
	}
	if !branchA.Flags.IsConditional || !branchB.Flags.IsConditional {
		t.Error("expected both branches marked conditional")
	}
}

func TestMergeScopeUnionsSymbolTypes(t *testing.T) {
	module := NewScope(KindModule, nil)
	child := NewScope(KindTemporary, module)

	intClass := &types.Class{Name: "int"}
	sym := child.AddSymbol("x", SymbolFlagNone, &Declaration{Kind: DeclVariable})
	sym.InferredType.AddSource(1, intClass)

	module.MergeScope(child)

	merged, ok := module.LookUp("x")
	if !ok {
		t.Fatal("expected x merged into module scope")
	}
	if merged.InferredType.Combine().String() != "int" {
		t.Errorf("expected merged type int, got %s", merged.InferredType.Combine().String())
	}
}

func TestExportFilterRestrictsExternal(t *testing.T) {
	module := NewScope(KindModule, nil)
	module.AddSymbol("pub", SymbolFlagNone, nil)
	module.AddSymbol("priv", SymbolFlagNone, nil)

	module.ApplyExportFilter([]string{"pub"})
	ext := module.External()
	if len(ext) != 1 || ext[0].Name != "pub" {
		t.Errorf("expected only pub exported, got %v", ext)
	}
}

func TestConstraintPushPop(t *testing.T) {
	s := NewScope(KindTemporary, nil)
	s.PushConstraint(&Constraint{Name: "x", Sense: true, NarrowedType: types.None})
	if _, ok := s.ActiveConstraint("x"); !ok {
		t.Fatal("expected active constraint for x")
	}
	s.PopConstraints(1)
	if _, ok := s.ActiveConstraint("x"); ok {
		t.Error("expected constraint popped")
	}
}


