// Package symbol implements the symbol table, scope, and declaration model : named-binding tables with lexical nesting, declarations per
// symbol, and access tracking.
package symbol

import (
	"github.com/embergrade/ember/internal/ast"
)

// DeclarationKind tags the variant of Declaration.
type DeclarationKind int

const (
	DeclVariable DeclarationKind = iota
	DeclParameter
	DeclFunction
	DeclMethod
	DeclClass
	DeclAlias
	DeclBuiltIn
)

func (k DeclarationKind) String() string {
	switch k {
	case DeclVariable:
		return "Variable"
	case DeclParameter:
		return "Parameter"
	case DeclFunction:
		return "Function"
	case DeclMethod:
		return "Method"
	case DeclClass:
		return "Class"
	case DeclAlias:
		return "Alias"
	case DeclBuiltIn:
		return "BuiltIn"
	default:
		return "Unknown"
	}
}

// Declaration records where and how a name was introduced. Construction-only: once built a
// Declaration is never mutated, only compared for identity and declared-type conflicts.
type Declaration struct {
	Kind DeclarationKind
	Path string
	Rng  ast.Range
	Node ast.Node

	// IsConstant marks a Variable declaration as an UPPER_CASE or otherwise constant binding
	//.
	IsConstant bool

	// TypeAnnotation is the syntax node spelling the declared type, if the variable/parameter
	// was annotated. nil means the declaration's type must be inferred.
	TypeAnnotation ast.Node

	// AliasSymbolName is set for DeclAlias declarations that bind to a single symbol inside a
	// module (e.g. `from M import x`); empty when the alias binds to the module itself
	// (`import M as alias`).
	AliasSymbolName string

	// AliasModulePath identifies which module the alias resolves into.
	AliasModulePath string

	// IncludesImplicitImports marks a module alias declaration that also carries along
	// implicit submodule imports.
	IncludesImplicitImports bool
}

// HasDeclaredType reports whether this declaration carries an explicit type annotation.
// Declarations without one are never in conflict with anything: only explicitly typed
// declarations are compared by the analyzer's declaration-conflict check.
func (d *Declaration) HasDeclaredType() bool {
	return d.TypeAnnotation != nil
}
