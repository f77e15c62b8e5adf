package types

import "testing"

func TestCombineFlattensAndDedupes(t *testing.T) {
	intClass := &Class{Name: "int"}
	strClass := &Class{Name: "str"}

	nested := Combine([]Type{intClass, Combine([]Type{strClass, intClass})})

	u, ok := nested.(*Union)
	if !ok {
		t.Fatalf("expected *Union, got %T", nested)
	}
	if len(u.Subtypes) != 2 {
		t.Errorf("expected 2 subtypes after dedup, got %d: %s", len(u.Subtypes), u.String())
	}
}

func TestCombineSingletonCollapses(t *testing.T) {
	intClass := &Class{Name: "int"}
	got := Combine([]Type{intClass, intClass})
	if _, ok := got.(*Union); ok {
		t.Errorf("expected singleton collapse, got Union: %s", got.String())
	}
	if got.String() != "int" {
		t.Errorf("expected int, got %s", got.String())
	}
}

func TestCombineEmptyIsUnknown(t *testing.T) {
	if Combine(nil) != Unknown {
		t.Errorf("expected Unknown for empty combine")
	}
}

func TestCanAssignAnyAbsorbs(t *testing.T) {
	intClass := &Class{Name: "int"}
	if !CanAssign(AnyType, intClass, nil) {
		t.Error("expected Any to accept int")
	}
	if !CanAssign(intClass, AnyType, nil) {
		t.Error("expected int to accept Any")
	}
}

func TestCanAssignReflexivity(t *testing.T) {
	intClass := &Class{Name: "int"}
	if !CanAssign(intClass, intClass, nil) {
		t.Error("expected canAssign(T, T) to hold")
	}
}

func TestCanAssignNeverAlwaysSucceeds(t *testing.T) {
	intClass := &Class{Name: "int"}
	if !CanAssign(intClass, Never, nil) {
		t.Error("expected Never to be assignable to anything")
	}
}

func TestCanAssignUnionDest(t *testing.T) {
	intClass := &Class{Name: "int"}
	strClass := &Class{Name: "str"}
	union := Combine([]Type{intClass, strClass})

	if !CanAssign(union, intClass, nil) {
		t.Error("expected int assignable to int|str")
	}
	boolClass := &Class{Name: "bool"}
	if CanAssign(union, boolClass, nil) {
		t.Error("expected bool not assignable to int|str")
	}
}

func TestCanAssignClassDerivation(t *testing.T) {
	base := &Class{Name: "Animal"}
	derived := &Class{Name: "Dog", BaseClasses: []Type{base}}

	if !CanAssign(base, derived, nil) {
		t.Error("expected Dog assignable to Animal")
	}
	if CanAssign(derived, base, nil) {
		t.Error("expected Animal not assignable to Dog")
	}
}

func TestCanAssignFunctionContravariantParamsCovariantReturn(t *testing.T) {
	object := &Class{Name: "object"}
	intClass := &Class{Name: "int", BaseClasses: []Type{object}}
	boolClass := &Class{Name: "bool", BaseClasses: []Type{intClass}}

	// dest: (int) -> bool ; src: (object) -> bool  -- src's param is wider than dest's,
	// which is fine because params are contravariant (every int a caller of dest passes is
	// accepted by src's object param).
	dest := &Function{Parameters: []FunctionParameter{{Name: "x", Type: intClass}}, DeclaredReturn: boolClass}
	src := &Function{Parameters: []FunctionParameter{{Name: "x", Type: object}}, DeclaredReturn: boolClass}

	if !CanAssign(dest, src, nil) {
		t.Error("expected contravariant parameter assignment to succeed")
	}
}

func TestRemoveNoneFromUnion(t *testing.T) {
	intClass := &Class{Name: "int"}
	optional := Combine([]Type{intClass, None})

	got := RemoveNoneFromUnion(optional)
	if got.String() != "int" {
		t.Errorf("expected int after removing None, got %s", got.String())
	}
	if !IsOptionalType(optional) {
		t.Error("expected int|None to be optional")
	}
	if IsOptionalType(got) {
		t.Error("expected int to not be optional")
	}
}

func TestContainsUnknown(t *testing.T) {
	intClass := &Class{Name: "int"}

	isUnknown, isPartial := ContainsUnknown(Unknown)
	if !isUnknown || isPartial {
		t.Errorf("expected (true, false) for bare Unknown, got (%v, %v)", isUnknown, isPartial)
	}

	mixed := Combine([]Type{intClass, Unknown})
	isUnknown, isPartial = ContainsUnknown(mixed)
	if isUnknown || !isPartial {
		t.Errorf("expected (false, true) for int|Unknown, got (%v, %v)", isUnknown, isPartial)
	}

	isUnknown, isPartial = ContainsUnknown(intClass)
	if isUnknown || isPartial {
		t.Errorf("expected (false, false) for plain int, got (%v, %v)", isUnknown, isPartial)
	}
}

func TestSpecializeSubstitutesTypeVars(t *testing.T) {
	tv := &TypeVar{Name: "T"}
	listClass := &Class{Name: "list", TypeParameters: []*TypeVar{tv}, TypeArgs: []Type{tv}}
	intClass := &Class{Name: "int"}

	specialized := Specialize(listClass, TypeVarMap{"T": intClass})
	sc, ok := specialized.(*Class)
	if !ok {
		t.Fatalf("expected *Class, got %T", specialized)
	}
	if sc.TypeArgs[0].String() != "int" {
		t.Errorf("expected list[int], got %s", sc.String())
	}
}

func TestSpecializeAbsentMappingBecomesUnknown(t *testing.T) {
	tv := &TypeVar{Name: "T"}
	got := Specialize(tv, TypeVarMap{})
	if !IsUnknown(got) {
		t.Errorf("expected Unknown for unmapped type variable, got %s", got.String())
	}
}
