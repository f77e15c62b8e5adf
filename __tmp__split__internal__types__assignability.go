package types

import "fmt"

// IsSame reports structural/identity equality between two types. It is
// not assignability: two unrelated classes are never "the same" even if mutually assignable.
func IsSame(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case unboundType, unknownType, anyType, noneType, neverType:
		return a.String() == b.String() && fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b)
	case *TypeVar:
		bv, ok := b.(*TypeVar)
		return ok && av.Name == bv.Name
	case *Class:
		bv, ok := b.(*Class)
		if !ok || !sameClassIdentity(av, bv) {
			return false
		}
		if av.LiteralValue != bv.LiteralValue {
			return false
		}
		if len(av.TypeArgs) != len(bv.TypeArgs) {
			return false
		}
		for i := range av.TypeArgs {
			if !IsSame(av.TypeArgs[i], bv.TypeArgs[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		return ok && IsSame(av.ClassType, bv.ClassType)
	case *Function:
		bv, ok := b.(*Function)
		return ok && av.String() == bv.String()
	case *OverloadedFunction:
		bv, ok := b.(*OverloadedFunction)
		return ok && av.String() == bv.String()
	case *Module:
		bv, ok := b.(*Module)
		return ok && av == bv
	case *Property:
		bv, ok := b.(*Property)
		return ok && av == bv
	case *Union:
		bv, ok := b.(*Union)
		if !ok || len(av.Subtypes) != len(bv.Subtypes) {
			return false
		}
		for _, at := range av.Subtypes {
			found := false
			for _, bt := range bv.Subtypes {
				if IsSame(at, bt) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Addendum carries the reason a canAssign call failed, for inclusion in diagnostic messages.
type Addendum struct {
	Reason string
}

// CanAssign implements the nine ordered assignability rules in order: the first rule that
// applies decides the result. addendum, if non-nil, is filled in on failure.
func CanAssign(dest, src Type, addendum *Addendum) bool {
	// Rule 1: Any/Unknown absorb in both directions.
	if IsAny(dest) || IsUnknown(dest) || IsAny(src) || IsUnknown(src) {
		return true
	}
	// Rule 2: Never is assignable to anything.
	if IsNever(src) {
		return true
	}
	// Rule 3: dest is a Union.
	if destUnion, ok := dest.(*Union); ok {
		if srcUnion, ok := src.(*Union); ok {
			for _, s := range srcUnion.Subtypes {
				if !canAssignToAnyOf(destUnion, s, addendum) {
					return false
				}
			}
			return true
		}
		return canAssignToAnyOf(destUnion, src, addendum)
	}
	// Rule 4: None assignable to Optional[T] is already covered by rule 3 (dest union
	// containing None); this rule additionally allows a bare None source into a union dest,
	// which rule 3 also covers via canAssignToAnyOf since IsSame(None,None) succeeds through
	// rule 9's identity fallback. Kept as an explicit rule per spec for readability:
	if IsNone(dest) && IsNone(src) {
		return true
	}
	// Rule 5: Class -> Class.
	if destClass, ok := dest.(*Class); ok {
		srcClass, ok := src.(*Class)
		if !ok {
			fail(addendum, "destination is a class but source is not")
			return false
		}
		return classAssignable(destClass, srcClass, addendum)
	}
	// Rule 6: Object -> Object defers to class assignability.
	if destObj, ok := dest.(*Object); ok {
		srcObj, ok := src.(*Object)
		if !ok {
			fail(addendum, "destination is an instance but source is not")
			return false
		}
		return classAssignable(destObj.ClassType, srcObj.ClassType, addendum)
	}
	// Rule 7: Function -> Function (overloads: any arm succeeds).
	if destFn, ok := dest.(*Function); ok {
		switch srcv := src.(type) {
		case *Function:
			return functionAssignable(destFn, srcv, addendum)
		case *OverloadedFunction:
			for _, e := range srcv.Overloads {
				if functionAssignable(destFn, e.Fn, nil) {
					return true
				}
			}
			fail(addendum, "no overload matches destination signature")
			return false
		}
		fail(addendum, "destination is a function but source is not callable")
		return false
	}
	if destOv, ok := dest.(*OverloadedFunction); ok {
		for _, e := range destOv.Overloads {
			if CanAssign(e.Fn, src, nil) {
				return true
			}
		}
		fail(addendum, "source is not assignable to any overload")
		return false
	}
	// Rule 8: TypeVar.
	if destVar, ok := dest.(*TypeVar); ok {
		if len(destVar.Constraints) > 0 {
			for _, c := range destVar.Constraints {
				if CanAssign(c, src, nil) {
					return true
				}
			}
			fail(addendum, "source does not satisfy any constraint of "+destVar.Name)
			return false
		}
		if destVar.Bound != nil {
			if CanAssign(destVar.Bound, src, addendum) {
				return true
			}
			fail(addendum, "source is not assignable to bound of "+destVar.Name)
			return false
		}
		return true
	}
	// Rule 9: otherwise, fall back to identity for the remaining variants (Module, Property,
	// and same-Unbound-ness) and fail everything else.
	if IsSame(dest, src) {
		return true
	}
	fail(addendum, fmt.Sprintf("%s is not assignable to %s", src.String(), dest.String()))
	return false
}

func fail(a *Addendum, reason string) {
	if a != nil {
		a.Reason = reason
	}
}

func canAssignToAnyOf(destUnion *Union, src Type, addendum *Addendum) bool {
	for _, d := range destUnion.Subtypes {
		if CanAssign(d, src, nil) {
			return true
		}
	}
	fail(addendum, fmt.Sprintf("%s is not assignable to any member of %s", src.String(), destUnion.String()))
	return false
}

func classAssignable(dest, src *Class, addendum *Addendum) bool {
	if !src.Derives(dest) {
		fail(addendum, fmt.Sprintf("%s does not derive from %s", src.Name, dest.Name))
		return false
	}
	if len(dest.TypeArgs) == 0 {
		return true
	}
	if len(dest.TypeArgs) != len(src.TypeArgs) {
		fail(addendum, "mismatched number of type arguments")
		return false
	}
	for i, da := range dest.TypeArgs {
		variance := VarianceInvariant
		if i < len(dest.TypeParameters) {
			variance = dest.TypeParameters[i].Variance
		}
		sa := src.TypeArgs[i]
		var ok bool
		switch variance {
		case VarianceCovariant:
			ok = CanAssign(da, sa, nil)
		case VarianceContravariant:
			ok = CanAssign(sa, da, nil)
		default:
			ok = IsSame(da, sa)
		}
		if !ok {
			fail(addendum, fmt.Sprintf("type argument %d is not compatible under variance", i))
			return false
		}
	}
	return true
}

// functionAssignable implements rule 7: parameters contravariant, return covariant.
func functionAssignable(dest, src *Function, addendum *Addendum) bool {
	if !CanAssign(src.ReturnType(), dest.ReturnType(), addendum) {
		fail(addendum, "return type is not covariant")
		return false
	}
	di, si := 0, 0
	for di < len(dest.Parameters) {
		dp := dest.Parameters[di]
		if dp.Category != ParamSimple {
			break
		}
		if si >= len(src.Parameters) || src.Parameters[si].Category != ParamSimple {
			fail(addendum, "source has fewer positional parameters than destination")
			return false
		}
		sp := src.Parameters[si]
		if !CanAssign(sp.Type, dp.Type, addendum) {
			fail(addendum, "parameter type is not contravariant")
			return false
		}
		di++
		si++
	}
	return true
}


