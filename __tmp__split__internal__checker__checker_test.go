package checker

import (
	"testing"

	"github.com/embergrade/ember/internal/ast"
	"github.com/embergrade/ember/internal/config"
	"github.com/embergrade/ember/internal/diagnostic"
	"github.com/embergrade/ember/internal/module"
)

func rng() ast.Range { return ast.Range{} }

func newFile() *module.FileInfo {
	return &module.FileInfo{
		FilePath:       "m.ember",
		DiagnosticSink: diagnostic.NewSink(),
		ImportMap:      module.ImportMap{},
	}
}

func hasCode(diags []diagnostic.Diagnostic, code diagnostic.Code) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func hasRule(diags []diagnostic.Diagnostic, rule config.RuleName) bool {
	for _, d := range diags {
		if d.Rule == rule {
			return true
		}
	}
	return false
}

// TestCheckIsNoneNarrowingAllowsMemberAccessOnlyInElse exercises scenario S1: `if x is None:
// ... else: <x narrowed to non-None>`.
func TestCheckIsNoneNarrowingAllowsMemberAccessOnlyInElse(t *testing.T) {
	param := ast.NewParameter(rng(), "x", ast.ParamSimple)
	xRef := ast.NewName(rng(), "x")
	cmp := &ast.Compare{Left: xRef, Ops: []string{"is"}, Comps: []ast.Node{ast.NewConstant(rng(), ast.ConstNone)}}

	thenReturn := &ast.Return{Value: ast.NewConstant(rng(), ast.ConstNone)}
	elseExpr := &ast.ExprStmt{Value: ast.NewName(rng(), "x")}

	ifStmt := ast.NewIf(rng(), cmp, []ast.Node{thenReturn}, []ast.Node{elseExpr})
	fn := ast.NewFunctionDef(rng(), "f", []*ast.Parameter{param}, []ast.Node{ifStmt})
	mod := ast.NewModule("m.ember", rng(), []ast.Node{fn})

	result := Check(mod, newFile())
	if result.State != StateConverged {
		t.Errorf("expected convergence, got %s", result.State)
	}
}

// TestCheckIncompatibleAnnAssignReportsError exercises an incompatible declared-type assignment:
// `x: int = "s"`.
func TestCheckIncompatibleAnnAssignReportsError(t *testing.T) {
	intName := ast.NewName(rng(), "int")
	target := ast.NewName(rng(), "x")
	value := ast.NewConstant(rng(), ast.ConstString)
	annAssign := &ast.AnnAssign{Target: target, Annotation: intName, Value: value}

	mod := ast.NewModule("m.ember", rng(), []ast.Node{annAssign})

	result := Check(mod, newFile())
	if !hasCode(result.Diagnostics, diagnostic.CodeIncompatibleAssignment) {
		t.Errorf("expected incompatible-assignment diagnostic, got %+v", result.Diagnostics)
	}
}

// TestCheckOverloadGroupCombinesIntoOverloadedFunction exercises scenario S3: two @overload arms
// followed by the implementation, grouped under one symbol.
func TestCheckOverloadGroupCombinesIntoOverloadedFunction(t *testing.T) {
	overloadDecorator := ast.NewName(rng(), "overload")

	arm1 := ast.NewFunctionDef(rng(), "f", []*ast.Parameter{ast.NewParameter(rng(), "x", ast.ParamSimple)}, []ast.Node{&ast.Pass{}})
	arm1.Decorators = []ast.Node{overloadDecorator}
	arm2 := ast.NewFunctionDef(rng(), "f", []*ast.Parameter{ast.NewParameter(rng(), "x", ast.ParamSimple)}, []ast.Node{&ast.Pass{}})
	arm2.Decorators = []ast.Node{overloadDecorator}
	impl := ast.NewFunctionDef(rng(), "f", []*ast.Parameter{ast.NewParameter(rng(), "x", ast.ParamSimple)}, []ast.Node{&ast.Pass{}})

	mod := ast.NewModule("m.ember", rng(), []ast.Node{arm1, arm2, impl})

	result := Check(mod, newFile())
	sym, ok := result.ModuleType.Fields.Lookup("f")
	if !ok {
		t.Fatal("expected f defined at module scope")
	}
	_ = sym
	for _, d := range result.Diagnostics {
		if d.Code == diagnostic.CodeNoOverloadMatches {
			t.Errorf("did not expect an overload-resolution failure from grouping alone: %+v", d)
		}
	}
}

// TestCheckUnreachableCodeAfterReturnReportsDiagnostic exercises scenario S4.
func TestCheckUnreachableCodeAfterReturnReportsDiagnostic(t *testing.T) {
	ret := &ast.Return{Value: ast.NewConstant(rng(), ast.ConstInt)}
	after := &ast.ExprStmt{Value: ast.NewName(rng(), "x")}
	fn := ast.NewFunctionDef(rng(), "g", nil, []ast.Node{ret, after})
	mod := ast.NewModule("m.ember", rng(), []ast.Node{fn})

	result := Check(mod, newFile())
	if !hasCode(result.Diagnostics, diagnostic.CodeUnreachable) {
		t.Errorf("expected unreachable-code diagnostic, got %+v", result.Diagnostics)
	}
}

// TestCheckUnnecessaryIsInstanceWarnsWhenAlwaysTrue exercises scenario S6: `isinstance(x, int)`
// when x's only inferred type already is int.
func TestCheckUnnecessaryIsInstanceWarnsWhenAlwaysTrue(t *testing.T) {
	assign := ast.NewAssign(rng(), []ast.Node{ast.NewName(rng(), "x")}, ast.NewConstant(rng(), ast.ConstInt))
	isinstanceCall := ast.NewCall(rng(), ast.NewName(rng(), "isinstance"), []ast.Node{ast.NewName(rng(), "x"), ast.NewName(rng(), "int")}, nil)
	ifStmt := ast.NewIf(rng(), isinstanceCall, []ast.Node{&ast.Pass{}}, nil)

	mod := ast.NewModule("m.ember", rng(), []ast.Node{assign, ifStmt})

	result := Check(mod, newFile())
	if !hasRule(result.Diagnostics, config.ReportUnnecessaryIsInstance) {
		t.Errorf("expected reportUnnecessaryIsInstance, got %+v", result.Diagnostics)
	}
}

// TestCheckConvergesWithinPassCap exercises the fixed-point loop's termination: a module with no
// forward references should converge well under the pass cap rather than hit StateCapped.
func TestCheckConvergesWithinPassCap(t *testing.T) {
	assign := ast.NewAssign(rng(), []ast.Node{ast.NewName(rng(), "x")}, ast.NewConstant(rng(), ast.ConstInt))
	mod := ast.NewModule("m.ember", rng(), []ast.Node{assign})

	result := Check(mod, newFile())
	if result.State != StateConverged {
		t.Errorf("expected StateConverged, got %s after %d passes", result.State, result.Passes)
	}
	if result.Passes > 3 {
		t.Errorf("expected convergence within a few passes for straight-line code, got %d", result.Passes)
	}
}

// TestCheckUnusedVariableReportsWarning exercises the reportUnusedVariable sweep.
func TestCheckUnusedVariableReportsWarning(t *testing.T) {
	assign := ast.NewAssign(rng(), []ast.Node{ast.NewName(rng(), "unused")}, ast.NewConstant(rng(), ast.ConstInt))
	mod := ast.NewModule("m.ember", rng(), []ast.Node{assign})

	result := Check(mod, newFile())
	if !hasRule(result.Diagnostics, config.ReportUnusedVariable) {
		t.Errorf("expected reportUnusedVariable, got %+v", result.Diagnostics)
	}
}

// TestCheckUnusedVariableSkipsUnderscorePrefixed confirms the underscore exemption.
func TestCheckUnusedVariableSkipsUnderscorePrefixed(t *testing.T) {
	assign := ast.NewAssign(rng(), []ast.Node{ast.NewName(rng(), "_ignored")}, ast.NewConstant(rng(), ast.ConstInt))
	mod := ast.NewModule("m.ember", rng(), []ast.Node{assign})

	result := Check(mod, newFile())
	if hasRule(result.Diagnostics, config.ReportUnusedVariable) {
		t.Errorf("did not expect reportUnusedVariable for an underscore-prefixed name, got %+v", result.Diagnostics)
	}
}

// TestCheckRevealTypeEmitsInfoDiagnostic exercises the reveal_type pseudo-call.
func TestCheckRevealTypeEmitsInfoDiagnostic(t *testing.T) {
	call := ast.NewCall(rng(), ast.NewName(rng(), "reveal_type"), []ast.Node{ast.NewConstant(rng(), ast.ConstInt)}, nil)
	exprStmt := &ast.ExprStmt{Value: call}
	mod := ast.NewModule("m.ember", rng(), []ast.Node{exprStmt})

	result := Check(mod, newFile())
	if !hasCode(result.Diagnostics, diagnostic.CodeRevealType) {
		t.Errorf("expected reveal_type diagnostic, got %+v", result.Diagnostics)
	}
}

// TestCheckDataclassSynthesizesInitFromAnnotatedFields exercises the supplemented
// dataclass-style __init__ synthesis: a class with only annotated fields and no explicit
// __init__ gets one synthesized from them.
func TestCheckDataclassSynthesizesInitFromAnnotatedFields(t *testing.T) {
	fieldX := &ast.AnnAssign{Target: ast.NewName(rng(), "x"), Annotation: ast.NewName(rng(), "int")}
	fieldY := &ast.AnnAssign{Target: ast.NewName(rng(), "y"), Annotation: ast.NewName(rng(), "str")}
	classDef := ast.NewClassDef(rng(), "Point", nil, []ast.Node{fieldX, fieldY})

	mod := ast.NewModule("m.ember", rng(), []ast.Node{classDef})

	result := Check(mod, newFile())
	sym, ok := result.ModuleType.Fields.Lookup("Point")
	if !ok {
		t.Fatal("expected Point defined at module scope")
	}
	_ = sym
}

// TestCheckReturnTypeMismatchReportsError exercises declared-return-type primacy: a function
// annotated `-> int` whose body returns a str should fail.
func TestCheckReturnTypeMismatchReportsError(t *testing.T) {
	ret := &ast.Return{Value: ast.NewConstant(rng(), ast.ConstString)}
	fn := ast.NewFunctionDef(rng(), "f", nil, []ast.Node{ret})
	fn.ReturnAnnot = ast.NewName(rng(), "int")
	mod := ast.NewModule("m.ember", rng(), []ast.Node{fn})

	result := Check(mod, newFile())
	if !hasCode(result.Diagnostics, diagnostic.CodeIncompatibleAssignment) {
		t.Errorf("expected incompatible-assignment diagnostic for mismatched return, got %+v", result.Diagnostics)
	}
}


