package symbol

import "github.com/embergrade/ember/internal/types"

// Kind tags the variant of Scope .
type Kind int

const (
	KindModule Kind = iota
	KindClass
	KindFunction
	KindLambda
	KindListComp
	KindTemporary
)

func (k Kind) IsPermanent() bool { return k != KindTemporary }

// Flags records the per-scope control-flow facts tracked across a branch/loop .
type Flags struct {
	AlwaysReturns bool
	AlwaysRaises  bool
	AlwaysBreaks  bool
	MayBreak      bool
	IsConditional bool
	IsLooping     bool
	IsNotExecuted bool
}

// AlwaysExits reports whether every path through this scope either returns, raises, or breaks —
// used to detect NoReturn functions and unreachable code after the scope.
func (f Flags) AlwaysExits() bool {
	return f.AlwaysReturns || f.AlwaysRaises || f.AlwaysBreaks
}

// Scope is one lexical nesting level: module, class, function, lambda, comprehension, or a
// temporary scope used to model one arm of a branch.
type Scope struct {
	Kind   Kind
	Parent *Scope
	Table  *Table

	ReturnType      *types.InferredType
	YieldType       *types.InferredType
	TypeConstraints []*Constraint

	BreakSnapshots    []*Table
	ContinueSnapshots []*Table

	Flags Flags

	// exportNames, if non-nil, restricts which symbols External() exposes; set by ApplyExportFilter.
	exportNames map[string]bool
}

func NewScope(kind Kind, parent *Scope) *Scope {
	return &Scope{
		Kind:       kind,
		Parent:     parent,
		Table:      NewTable(),
		ReturnType: types.NewInferredType(),
		YieldType:  types.NewInferredType(),
	}
}

// LookUp searches this scope's own table only.
func (s *Scope) LookUp(name string) (*Symbol, bool) {
	return s.Table.Get(name)
}

// LookUpRecursive walks parents until the name resolves: temporary scopes are transparent, but
// the walk continues past permanent scopes too, so any descendant node under the same enclosing
// permanent scope resolves identically rather than stopping at the first permanent scope.
func (s *Scope) LookUpRecursive(name string) (*Symbol, *Scope, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.Table.Get(name); ok {
			return sym, cur, true
		}
		// Function and lambda scopes do not see enclosing class bodies' members implicitly
		// (attribute access requires `self.`/`cls.`); skip over an enclosing Class scope when
		// walking up from inside a function, matching ordinary lexical scoping rules.
		if cur.Kind == KindFunction || cur.Kind == KindLambda {
			for cur.Parent != nil && cur.Parent.Kind == KindClass {
				cur = cur.Parent
			}
		}
	}
	return nil, nil, false
}

// EnclosingPermanent walks past temporary scopes to find the nearest permanent one .
func (s *Scope) EnclosingPermanent() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind.IsPermanent() {
			return cur
		}
	}
	return nil
}

// AddSymbol defines name in this scope's table.
func (s *Scope) AddSymbol(name string, flags SymbolFlag, decl *Declaration) *Symbol {
	return s.Table.Define(name, flags, decl)
}

// MergeScope merges a temporary child scope's table, return/yield contributions, and flags back
// into s. Used for straight-line code, e.g. the single
// body of a `with` statement, where there's no second arm to combine against.
func (s *Scope) MergeScope(child *Scope) {
	s.Table.Merge(child.Table)
	mergeInferred(s.ReturnType, child.ReturnType)
	mergeInferred(s.YieldType, child.YieldType)
	s.BreakSnapshots = append(s.BreakSnapshots, child.BreakSnapshots...)
	s.ContinueSnapshots = append(s.ContinueSnapshots, child.ContinueSnapshots...)
	s.Flags.AlwaysReturns = s.Flags.AlwaysReturns || child.Flags.AlwaysReturns
	s.Flags.AlwaysRaises = s.Flags.AlwaysRaises || child.Flags.AlwaysRaises
	s.Flags.AlwaysBreaks = s.Flags.AlwaysBreaks || child.Flags.AlwaysBreaks
	s.Flags.MayBreak = s.Flags.MayBreak || child.Flags.MayBreak
}

// CombineConditionalScopes produces a merged temporary scope from sibling branch scopes: each
// branch's contribution unions into the result's symbol types, and flags combine with
// conjunction for "always" properties, disjunction for "may" properties.
func CombineConditionalScopes(parent *Scope, branches []*Scope) *Scope {
	merged := NewScope(KindTemporary, parent)
	if len(branches) == 0 {
		return merged
	}

	merged.Flags.AlwaysReturns = true
	merged.Flags.AlwaysRaises = true
	merged.Flags.AlwaysBreaks = true

	for _, b := range branches {
		b.Flags.IsConditional = true
		merged.Table.Merge(b.Table)
		mergeInferred(merged.ReturnType, b.ReturnType)
		mergeInferred(merged.YieldType, b.YieldType)
		merged.BreakSnapshots = append(merged.BreakSnapshots, b.BreakSnapshots...)
		merged.ContinueSnapshots = append(merged.ContinueSnapshots, b.ContinueSnapshots...)

		merged.Flags.AlwaysReturns = merged.Flags.AlwaysReturns && b.Flags.AlwaysReturns
		merged.Flags.AlwaysRaises = merged.Flags.AlwaysRaises && b.Flags.AlwaysRaises
		merged.Flags.AlwaysBreaks = merged.Flags.AlwaysBreaks && b.Flags.AlwaysBreaks
		merged.Flags.MayBreak = merged.Flags.MayBreak || b.Flags.MayBreak
	}
	return merged
}

// mergeInferred copies every (sourceID, Type) contribution from src into dst. InferredType does
// not expose its internal map, so this walks via Combine's need for contributions by re-adding
// through a dedicated accessor.
func mergeInferred(dst, src *types.InferredType) {
	for _, id := range src.SourceIDs() {
		t, _ := src.ContributionFor(id)
		dst.AddSource(id, t)
	}
}

// ApplyExportFilter restricts which symbols External() returns, used for `*`-import and
// external-access tracking on a module scope. names == nil
// clears the filter (export everything).
func (s *Scope) ApplyExportFilter(names []string) {
	if names == nil {
		s.exportNames = nil
		return
	}
	s.exportNames = make(map[string]bool, len(names))
	for _, n := range names {
		s.exportNames[n] = true
	}
}

// External returns the symbols visible from outside this scope, honoring any export filter.
func (s *Scope) External() []*Symbol {
	all := s.Table.All()
	if s.exportNames == nil {
		return all
	}
	var out []*Symbol
	for _, sym := range all {
		if s.exportNames[sym.Name] {
			out = append(out, sym)
		}
	}
	return out
}


