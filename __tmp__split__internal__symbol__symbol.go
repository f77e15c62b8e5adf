package symbol

import (
	"github.com/embergrade/ember/internal/types"
)

// SymbolFlag records per-symbol membership facts.
type SymbolFlag int

const (
	SymbolFlagNone SymbolFlag = 1 << iota
	SymbolFlagClassMember
	SymbolFlagInstanceMember
	SymbolFlagPrivate   // name starts with a single underscore
	SymbolFlagDunder    // name is __dunder__-shaped
	SymbolFlagInitVar   // dataclass InitVar-style pseudo-field
)

func (f SymbolFlag) Has(bit SymbolFlag) bool { return f&bit != 0 }

// Symbol is a named binding: the accumulation of every Declaration that introduced it plus its
// InferredType.
type Symbol struct {
	Name         string
	Flags        SymbolFlag
	InferredType *types.InferredType
	Declarations []*Declaration
	Accessed     bool
}

func NewSymbol(name string, flags SymbolFlag) *Symbol {
	return &Symbol{
		Name:         name,
		Flags:        flags,
		InferredType: types.NewInferredType(),
	}
}

// AddDeclaration appends a declaration. Declarations are append-only.
func (s *Symbol) AddDeclaration(d *Declaration) {
	s.Declarations = append(s.Declarations, d)
}

// PrimaryDeclaration returns the first declaration carrying a declared type, if any .
func (s *Symbol) PrimaryDeclaration() *Declaration {
	for _, d := range s.Declarations {
		if d.HasDeclaredType() {
			return d
		}
	}
	if len(s.Declarations) > 0 {
		return s.Declarations[0]
	}
	return nil
}

// DeclaredType returns the type of the primary declaration's annotation, via the resolver
// callback (the evaluator supplies this, since resolving an annotation node to a Type requires
// the full expression evaluator). Returns (nil, false) if there is no declared type, in which
// case the caller should fall back to the inferred-type union.
func (s *Symbol) DeclaredType(resolve func(annotation interface{}) types.Type) (types.Type, bool) {
	primary := s.PrimaryDeclaration()
	if primary == nil || primary.TypeAnnotation == nil {
		return nil, false
	}
	return resolve(primary.TypeAnnotation), true
}

// SymbolType implements types.SymbolLike: the effective type is the declared type if present,
// else the combined inferred-type union. Since resolving
// an annotation node requires the evaluator, this method only covers the inferred fallback; the
// evaluator itself implements full declared-type-primacy resolution using DeclaredType above.
func (s *Symbol) SymbolType() types.Type {
	return s.InferredType.Combine()
}

// MarkAccessed records that some reference resolved to this symbol, for unused-symbol/unused-
// import diagnostics.
func (s *Symbol) MarkAccessed() { s.Accessed = true }


