// Package module describes the external collaborator boundary the checker core reads from: the
// module resolver's output and the per-file inputs the host assembles before invoking the
// analyzer. None of the resolution logic itself lives
// here — only the shapes the core consumes.
package module

import (
	"github.com/embergrade/ember/internal/ast"
	"github.com/embergrade/ember/internal/config"
	"github.com/embergrade/ember/internal/diagnostic"
	"github.com/embergrade/ember/internal/types"
)

// TokenizerOutput carries the lexer facts the analyzer needs for diagnostics formatting.
type TokenizerOutput struct {
	PredominantEndOfLineSequence string
	PredominantTabSequence       string
}

// ParseResults is the lexer/parser's output for one file.
type ParseResults struct {
	ParseTree       *ast.Module
	TokenizerOutput TokenizerOutput
	Lines           []string
}

// ImportKind classifies where a resolved import came from.
type ImportKind int

const (
	ImportBuiltIn ImportKind = iota
	ImportThirdParty
	ImportLocal
)

// ImplicitImport is a submodule pulled in automatically by a dotted import, e.g. `import a.b.c`
// implicitly also binding `a` and `a.b`.
type ImplicitImport struct {
	Name string
	Path string
}

// ImportResult is the resolver's answer for a single import node.
type ImportResult struct {
	IsImportFound   bool
	ImportType      ImportKind
	IsStubFile      bool
	ResolvedPaths   []string
	ImplicitImports []ImplicitImport
	ImportName      string
}

// ImportMap maps a resolved file path to the module Type produced by analyzing that file
// . Entries are read-only from the importer's perspective.
type ImportMap map[string]*types.Module

// FileInfo bundles everything the analyzer needs about one file beyond its parse tree .
type FileInfo struct {
	FilePath             string
	Lines                []string
	DiagnosticSink       *diagnostic.Sink
	DiagnosticSettings   *config.Settings
	ExecutionEnvironment config.ExecutionEnvironment
	IsStubFile           bool
	IsTypingStubFile     bool
	IsBuiltInStubFile    bool
	ImportMap            ImportMap
	FutureImports        map[string]bool
}


