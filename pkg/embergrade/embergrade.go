// Package embergrade is the public entry point a host embeds: it wraps the internal checker's
// fixed-point analysis with a per-invocation session id so a host that schedules many files
// concurrently can correlate which run produced which cached type or diagnostic, generalizing a
// single-process mode flag into per-call identity.
package embergrade

import (
	"github.com/google/uuid"

	"github.com/embergrade/ember/internal/ast"
	"github.com/embergrade/ember/internal/checker"
	"github.com/embergrade/ember/internal/config"
	"github.com/embergrade/ember/internal/diagnostic"
	"github.com/embergrade/ember/internal/module"
	"github.com/embergrade/ember/internal/types"
)

// Report is one file's analysis outcome, stamped with the session that produced it.
type Report struct {
	SessionID   string
	State       checker.State
	ModuleType  *types.Module
	Diagnostics []diagnostic.Diagnostic
	Passes      int
}

// Check runs one file's analysis to convergence (or the pass cap) and returns a session-stamped
// Report. file.DiagnosticSink and file.DiagnosticSettings are filled in with defaults if the
// caller left them nil, mirroring checker.Check's own leniency.
func Check(mod *ast.Module, file *module.FileInfo) *Report {
	if file.DiagnosticSink == nil {
		file.DiagnosticSink = diagnostic.NewSink()
	}
	if file.DiagnosticSettings == nil {
		file.DiagnosticSettings = config.Default()
	}

	result := checker.Check(mod, file)

	return &Report{
		SessionID:   uuid.New().String(),
		State:       result.State,
		ModuleType:  result.ModuleType,
		Diagnostics: result.Diagnostics,
		Passes:      result.Passes,
	}
}
