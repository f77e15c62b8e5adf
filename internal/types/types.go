// Package types implements the type domain: the algebraic sum
// of type variants every value in the checked language is reduced to, plus equality,
// assignability, and specialization over it.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is implemented by every variant of the type-domain sum. Variants are distinguished by a
// Go type switch rather than a Kind tag plus inheritance, modeling hook points as explicit
// trait-like capability sets.
type Type interface {
	String() string
	isType()
}

// ---- Unbound, Unknown, Any, NoneType, Never ----
//
// These five are singleton-shaped: every occurrence is interchangeable, so we expose package
// level values rather than requiring callers to construct them.

type unboundType struct{}
type unknownType struct{}
type anyType struct{}
type noneType struct{}
type neverType struct{}

func (unboundType) String() string { return "Unbound" }
func (unknownType) String() string { return "Unknown" }
func (anyType) String() string     { return "Any" }
func (noneType) String() string    { return "None" }
func (neverType) String() string   { return "Never" }

func (unboundType) isType() {}
func (unknownType) isType() {}
func (anyType) isType()     {}
func (noneType) isType()    {}
func (neverType) isType()   {}

var (
	Unbound Type = unboundType{}
	Unknown Type = unknownType{}
	AnyType Type = anyType{}
	None    Type = noneType{}
	Never   Type = neverType{}
)

func IsUnbound(t Type) bool { _, ok := t.(unboundType); return ok }
func IsUnknown(t Type) bool { _, ok := t.(unknownType); return ok }
func IsAny(t Type) bool     { _, ok := t.(anyType); return ok }
func IsNone(t Type) bool    { _, ok := t.(noneType); return ok }
func IsNever(t Type) bool   { _, ok := t.(neverType); return ok }

// isNoReturnType reports whether t is exactly Never/NoReturn.
func IsNoReturnType(t Type) bool { return IsNever(t) }

// ---- TypeVar ----

// Variance describes how a generic type parameter's subtyping relates to its use sites.
type Variance int

const (
	VarianceInvariant Variance = iota
	VarianceCovariant
	VarianceContravariant
)

type TypeVar struct {
	Name        string
	Bound       Type   // nil if unbounded
	Constraints []Type // mutually exclusive; empty if none
	Variance    Variance
}

func (t *TypeVar) String() string { return t.Name }
func (*TypeVar) isType()          {}

// ---- Class / Object ----

// ClassFlag bits describe structural properties of a class discovered during binding .
type ClassFlag int

const (
	ClassFlagNone ClassFlag = 1 << iota
	ClassFlagProtocol
	ClassFlagDataClass
	ClassFlagTypedDict
	ClassFlagAbstract
	ClassFlagFinal
)

func (f ClassFlag) Has(bit ClassFlag) bool { return f&bit != 0 }

// SymbolTableLike is the subset of internal/symbol's SymbolTable that the type domain needs,
// expressed as an interface to avoid an import cycle between types and symbol (symbol.Symbol
// embeds a types.Type, so symbol already depends on types).
type SymbolTableLike interface {
	Names() []string
	Lookup(name string) (SymbolLike, bool)
}

// SymbolLike is the subset of symbol.Symbol visible to the type domain.
type SymbolLike interface {
	SymbolType() Type
}

// Class represents a class definition. Two Class values are the "same" class iff, after
// following AliasClass, they are the same pointer or carry the same Name, so a specialization or
// a literal's class value counts as the class it was built from; IsSame additionally compares
// TypeArgs and LiteralValue.
type Class struct {
	Name           string
	Flags          ClassFlag
	BaseClasses    []Type // each a *Class or Unknown for unresolved bases
	TypeParameters []*TypeVar
	Fields         SymbolTableLike

	// TypeArgs is non-nil when this Class value is a specialization of a generic class: the
	// type arguments substituted for TypeParameters, in order.
	TypeArgs []Type

	// AliasClass, when non-nil, marks this Class as a type alias for another class (e.g.
	// `MyList = list[int]`); operations that care about the "real" class should follow it.
	AliasClass *Class

	// LiteralValue, when non-nil, narrows an Object of this class to a single literal value
	//.
	LiteralValue interface{}
}

func (c *Class) String() string {
	if len(c.TypeArgs) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.TypeArgs))
	for i, a := range c.TypeArgs {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s[%s]", c.Name, strings.Join(parts, ", "))
}
func (*Class) isType() {}

// Derives reports whether c is the same class as base or transitively derives from it, walking
// BaseClasses. Used by canAssign rule 5.
func (c *Class) Derives(base *Class) bool {
	if c == nil || base == nil {
		return false
	}
	if sameClassIdentity(c, base) {
		return true
	}
	for _, b := range c.BaseClasses {
		if bc, ok := b.(*Class); ok && bc.Derives(base) {
			return true
		}
	}
	return false
}

func sameClassIdentity(a, b *Class) bool {
	ra, rb := a, b
	for ra.AliasClass != nil {
		ra = ra.AliasClass
	}
	for rb.AliasClass != nil {
		rb = rb.AliasClass
	}
	return ra == rb || ra.Name == rb.Name
}

// Object is an instance of a class.
type Object struct {
	ClassType *Class
}

func (o *Object) String() string { return o.ClassType.String() }
func (*Object) isType()          {}

// ---- Function / OverloadedFunction / Property ----

type ParamCategory int

const (
	ParamSimple ParamCategory = iota
	ParamVarArgList
	ParamVarArgDict
)

// FunctionParameter describes one parameter of a Function type.
type FunctionParameter struct {
	Category   ParamCategory
	Name       string // empty for a bare `*` positional-cutoff marker
	HasDefault bool
	Type       Type
}

// FunctionFlag bits record decorator-driven properties.
type FunctionFlag int

const (
	FunctionFlagNone FunctionFlag = 1 << iota
	FunctionFlagStaticMethod
	FunctionFlagClassMethod
	FunctionFlagAbstractMethod
	FunctionFlagAsync
	FunctionFlagOverload
)

func (f FunctionFlag) Has(bit FunctionFlag) bool { return f&bit != 0 }

// InferredType is a set of (sourceID, Type) contributions combined to a union. The
// sourceID lets a later pass's write from the same syntax node overwrite rather than accumulate.
type InferredType struct {
	contributions map[int64]Type
	order         []int64 // insertion order, for deterministic Combine output
}

func NewInferredType() *InferredType {
	return &InferredType{contributions: make(map[int64]Type)}
}

// AddSource records (or overwrites) the contribution from sourceID.
func (it *InferredType) AddSource(sourceID int64, t Type) {
	if _, exists := it.contributions[sourceID]; !exists {
		it.order = append(it.order, sourceID)
	}
	it.contributions[sourceID] = t
}

// RemoveSource drops a contribution, used when a binder re-walk determines a source no longer
// reaches this symbol (e.g. dead branch removed from flow).
func (it *InferredType) RemoveSource(sourceID int64) {
	if _, ok := it.contributions[sourceID]; !ok {
		return
	}
	delete(it.contributions, sourceID)
	for i, id := range it.order {
		if id == sourceID {
			it.order = append(it.order[:i], it.order[i+1:]...)
			break
		}
	}
}

// Combine reduces all contributions to a single Type via Combine (flattening/deduping unions).
func (it *InferredType) Combine() Type {
	if len(it.order) == 0 {
		return Unknown
	}
	ts := make([]Type, 0, len(it.order))
	for _, id := range it.order {
		ts = append(ts, it.contributions[id])
	}
	return Combine(ts)
}

func (it *InferredType) Len() int { return len(it.order) }

// SourceIDs returns the contributing source ids in insertion order, for callers (e.g. scope
// merging) that need to copy contributions between InferredType instances.
func (it *InferredType) SourceIDs() []int64 {
	out := make([]int64, len(it.order))
	copy(out, it.order)
	return out
}

// ContributionFor returns the type contributed by sourceID, if any.
func (it *InferredType) ContributionFor(sourceID int64) (Type, bool) {
	t, ok := it.contributions[sourceID]
	return t, ok
}

// Function represents a `def`.
type Function struct {
	Name           string
	Flags          FunctionFlag
	Parameters     []FunctionParameter
	DeclaredReturn Type // nil if not annotated
	InferredReturn *InferredType
	InferredYield  *InferredType
	BuiltInName    string // non-empty for synthesized builtins (e.g. "__init__")
}

func (f *Function) String() string {
	parts := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		prefix := ""
		switch p.Category {
		case ParamVarArgList:
			prefix = "*"
		case ParamVarArgDict:
			prefix = "**"
		}
		suffix := ""
		if p.HasDefault {
			suffix = "?"
		}
		typ := "Unknown"
		if p.Type != nil {
			typ = p.Type.String()
		}
		parts[i] = fmt.Sprintf("%s%s%s: %s", prefix, p.Name, suffix, typ)
	}
	ret := "Unknown"
	if f.DeclaredReturn != nil {
		ret = f.DeclaredReturn.String()
	} else if f.InferredReturn != nil {
		ret = f.InferredReturn.Combine().String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), ret)
}
func (*Function) isType() {}

// ReturnType resolves the effective return type: declared takes primacy over inferred .
func (f *Function) ReturnType() Type {
	if f.DeclaredReturn != nil {
		return f.DeclaredReturn
	}
	if f.InferredReturn != nil {
		return f.InferredReturn.Combine()
	}
	return Unknown
}

// OverloadedFunction is the accumulation of `@overload`-decorated signatures sharing a name.
type OverloadedFunction struct {
	Overloads []OverloadEntry
}

// OverloadEntry pairs a source id (the syntax node that introduced this overload, for stable
// ordering/dedup) with the function signature.
type OverloadEntry struct {
	SourceID int64
	Fn       *Function
}

func (o *OverloadedFunction) String() string {
	parts := make([]string, len(o.Overloads))
	for i, e := range o.Overloads {
		parts[i] = e.Fn.String()
	}
	return "overloaded" + "(" + strings.Join(parts, " | ") + ")"
}
func (*OverloadedFunction) isType() {}

// Property models `@property`/`.setter`/`.deleter`.
type Property struct {
	Getter  *Function
	Setter  *Function // nil if no setter defined
	Deleter *Function // nil if no deleter defined
}

func (p *Property) String() string {
	return "property[" + p.Getter.ReturnType().String() + "]"
}
func (*Property) isType() {}

// ---- Module ----

type Module struct {
	Fields       SymbolTableLike
	LoaderFields SymbolTableLike // populated for `import a.b.c` partial-module shells
	DocString    string
	IsPartial    bool
}

func (m *Module) String() string { return "module" }
func (*Module) isType()          {}

// ---- Union ----

// Union is a flattened, deduplicated set of ≥2 member types .
type Union struct {
	Subtypes []Type
}

func (u *Union) String() string {
	parts := make([]string, len(u.Subtypes))
	for i, t := range u.Subtypes {
		parts[i] = t.String()
	}
	return strings.Join(parts, " | ")
}
func (*Union) isType() {}

// Combine flattens nested unions, deduplicates by IsSame, and collapses singleton results to
// their sole element, keeping unions in normal form. An empty input combines to Unknown: there
// is no meaningful empty union in this domain.
func Combine(ts []Type) Type {
	var flat []Type
	var walk func(Type)
	walk = func(t Type) {
		if t == nil {
			return
		}
		if u, ok := t.(*Union); ok {
			for _, s := range u.Subtypes {
				walk(s)
			}
			return
		}
		flat = append(flat, t)
	}
	for _, t := range ts {
		walk(t)
	}
	if len(flat) == 0 {
		return Unknown
	}

	var deduped []Type
	for _, t := range flat {
		dup := false
		for _, existing := range deduped {
			if IsSame(existing, t) {
				dup = true
				break
			}
		}
		if !dup {
			deduped = append(deduped, t)
		}
	}

	if len(deduped) == 1 {
		return deduped[0]
	}

	// Deterministic member order: by String(), so repeated Combine calls over the same set
	// produce byte-identical results (testable property §8, "byte-identical reruns").
	sort.SliceStable(deduped, func(i, j int) bool { return deduped[i].String() < deduped[j].String() })
	return &Union{Subtypes: deduped}
}

// IsOptionalType reports whether t is a union containing None.
func IsOptionalType(t Type) bool {
	if IsNone(t) {
		return false // None itself is not "Optional[X]"; it has no non-None member
	}
	u, ok := t.(*Union)
	if !ok {
		return false
	}
	for _, s := range u.Subtypes {
		if IsNone(s) {
			return true
		}
	}
	return false
}

// RemoveNoneFromUnion strips None from a union, collapsing to the sole remaining member (or
// Never if None was the only member).
func RemoveNoneFromUnion(t Type) Type {
	return removeFromUnion(t, IsNone)
}

// RemoveUnboundFromUnion strips Unbound, used by class-base-class evaluation.
func RemoveUnboundFromUnion(t Type) Type {
	return removeFromUnion(t, IsUnbound)
}

// RemoveUnknownFromUnion strips Unknown from a union.
func RemoveUnknownFromUnion(t Type) Type {
	return removeFromUnion(t, IsUnknown)
}

func removeFromUnion(t Type, match func(Type) bool) Type {
	u, ok := t.(*Union)
	if !ok {
		if match(t) {
			return Never
		}
		return t
	}
	var kept []Type
	for _, s := range u.Subtypes {
		if !match(s) {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return Never
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return &Union{Subtypes: kept}
}

// ContainsUnknown distinguishes "is Unknown" from "is a union with Unknown as one arm".
// isUnknown reports whether t is
// exactly Unknown; isPartiallyUnknown reports whether t is a union that contains Unknown among
// other, non-Unknown members.
func ContainsUnknown(t Type) (isUnknown bool, isPartiallyUnknown bool) {
	if IsUnknown(t) {
		return true, false
	}
	u, ok := t.(*Union)
	if !ok {
		return false, false
	}
	for _, s := range u.Subtypes {
		if IsUnknown(s) {
			return false, true
		}
	}
	return false, false
}

// DoForSubtypes applies f to every member of t (treating a non-union t as a single-member set)
// and combines the results.
func DoForSubtypes(t Type, f func(Type) Type) Type {
	if u, ok := t.(*Union); ok {
		results := make([]Type, len(u.Subtypes))
		for i, s := range u.Subtypes {
			results[i] = f(s)
		}
		return Combine(results)
	}
	return f(t)
}

// StripLiteralValue removes a carried literal value from a Class/Object, widening e.g. the
// literal `True` back to `bool`.
func StripLiteralValue(t Type) Type {
	switch v := t.(type) {
	case *Class:
		if v.LiteralValue == nil {
			return v
		}
		widened := *v
		widened.LiteralValue = nil
		return &widened
	case *Object:
		widenedClass := StripLiteralValue(v.ClassType).(*Class)
		return &Object{ClassType: widenedClass}
	default:
		return t
	}
}

// PrintType renders a human-readable type string, used by diagnostics and reveal_type output.
func PrintType(t Type) string {
	if t == nil {
		return "Unknown"
	}
	return t.String()
}
