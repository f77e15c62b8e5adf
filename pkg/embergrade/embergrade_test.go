package embergrade

import (
	"testing"

	"github.com/embergrade/ember/internal/ast"
	"github.com/embergrade/ember/internal/module"
)

func TestCheckStampsSessionID(t *testing.T) {
	assign := ast.NewAssign(ast.Range{}, []ast.Node{ast.NewName(ast.Range{}, "x")}, ast.NewConstant(ast.Range{}, ast.ConstInt))
	mod := ast.NewModule("m.ember", ast.Range{}, []ast.Node{assign})

	report := Check(mod, &module.FileInfo{FilePath: "m.ember"})
	if report.SessionID == "" {
		t.Error("expected a non-empty session id")
	}
	if report.ModuleType == nil {
		t.Error("expected a populated module type")
	}
}

func TestCheckTwoCallsGetDistinctSessionIDs(t *testing.T) {
	mod := ast.NewModule("m.ember", ast.Range{}, nil)

	first := Check(mod, &module.FileInfo{FilePath: "m.ember"})
	second := Check(mod, &module.FileInfo{FilePath: "m.ember"})
	if first.SessionID == second.SessionID {
		t.Error("expected distinct session ids across separate Check calls")
	}
}
