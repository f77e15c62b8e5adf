package symbol

import "github.com/embergrade/ember/internal/types"

// Table is a flat name -> *Symbol map. A Scope owns exactly one Table for the names it directly
// introduces.
type Table struct {
	byName map[string]*Symbol
	order  []string // insertion order, for deterministic iteration (export lists, hover)
}

func NewTable() *Table {
	return &Table{byName: make(map[string]*Symbol)}
}

// Define creates (or returns the existing) symbol for name, adding the given declaration to it.
func (t *Table) Define(name string, flags SymbolFlag, decl *Declaration) *Symbol {
	s, ok := t.byName[name]
	if !ok {
		s = NewSymbol(name, flags)
		t.byName[name] = s
		t.order = append(t.order, name)
	} else {
		s.Flags |= flags
	}
	if decl != nil {
		s.AddDeclaration(decl)
	}
	return s
}

// Lookup returns the symbol bound to name in this table only (no parent walk); implements
// types.SymbolLike lookups for the type domain.
func (t *Table) Lookup(name string) (types.SymbolLike, bool) {
	s, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return s, true
}

// Get is the symbol package's own typed accessor (Lookup above returns the narrower
// types.SymbolLike interface for the type domain's benefit).
func (t *Table) Get(name string) (*Symbol, bool) {
	s, ok := t.byName[name]
	return s, ok
}

// Names returns symbol names in declaration order (types.SymbolTableLike preserves declaration
// order by contract).
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// All returns every symbol, in declaration order.
func (t *Table) All() []*Symbol {
	out := make([]*Symbol, len(t.order))
	for i, name := range t.order {
		out[i] = t.byName[name]
	}
	return out
}

// IsDefined reports whether name is bound in this table.
func (t *Table) IsDefined(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Merge unions another table's contributions into t: a symbol present in both gets its
// InferredType contributions merged by source id (last writer per source id wins, matching
// types.InferredType.AddSource semantics), and its declaration list is extended with any
// declarations not already present. Used by Scope merging.
func (t *Table) Merge(other *Table) {
	for _, name := range other.order {
		src := other.byName[name]
		dst, ok := t.byName[name]
		if !ok {
			dst = NewSymbol(name, src.Flags)
			t.byName[name] = dst
			t.order = append(t.order, name)
		}
		dst.Flags |= src.Flags
		for _, d := range src.Declarations {
			if !containsDecl(dst.Declarations, d) {
				dst.AddDeclaration(d)
			}
		}
		if src.Accessed {
			dst.Accessed = true
		}
		for _, id := range src.InferredType.SourceIDs() {
			if typ, ok := src.InferredType.ContributionFor(id); ok {
				dst.InferredType.AddSource(id, typ)
			}
		}
	}
}

func containsDecl(decls []*Declaration, d *Declaration) bool {
	for _, existing := range decls {
		if existing == d {
			return true
		}
	}
	return false
}
