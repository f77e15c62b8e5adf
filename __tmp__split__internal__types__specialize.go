package types

// TypeVarMap substitutes free type variables by name, built during call-site inference or
// class-parameter propagation.
type TypeVarMap map[string]Type

// Specialize replaces free type variables in t using m; an absent mapping becomes Unknown.
// visited guards against cyclic reference graphs (a class whose base transitively mentions
// itself through a type parameter).
func Specialize(t Type, m TypeVarMap) Type {
	return specialize(t, m, map[*Class]bool{})
}

func specialize(t Type, m TypeVarMap, visited map[*Class]bool) Type {
	switch v := t.(type) {
	case *TypeVar:
		if repl, ok := m[v.Name]; ok {
			return repl
		}
		return Unknown
	case *Class:
		if visited[v] {
			return v
		}
		if len(v.TypeArgs) == 0 && len(v.TypeParameters) == 0 {
			return v
		}
		visited[v] = true
		defer delete(visited, v)
		args := make([]Type, len(v.TypeArgs))
		for i, a := range v.TypeArgs {
			args[i] = specialize(a, m, visited)
		}
		specialized := *v
		specialized.TypeArgs = args
		return &specialized
	case *Object:
		return &Object{ClassType: specialize(v.ClassType, m, visited).(*Class)}
	case *Function:
		params := make([]FunctionParameter, len(v.Parameters))
		for i, p := range v.Parameters {
			p.Type = specialize(p.Type, m, visited)
			params[i] = p
		}
		var ret Type
		if v.DeclaredReturn != nil {
			ret = specialize(v.DeclaredReturn, m, visited)
		}
		specialized := *v
		specialized.Parameters = params
		specialized.DeclaredReturn = ret
		return &specialized
	case *Union:
		members := make([]Type, len(v.Subtypes))
		for i, s := range v.Subtypes {
			members[i] = specialize(s, m, visited)
		}
		return Combine(members)
	default:
		return t
	}
}

// FreeTypeVariables collects the names of unbound type variables occurring in t, used when
// generalizing a class or function signature over its type parameters.
func FreeTypeVariables(t Type) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(Type)
	walk = func(t Type) {
		switch v := t.(type) {
		case *TypeVar:
			if !seen[v.Name] {
				seen[v.Name] = true
				out = append(out, v.Name)
			}
		case *Class:
			for _, a := range v.TypeArgs {
				walk(a)
			}
		case *Object:
			walk(v.ClassType)
		case *Function:
			for _, p := range v.Parameters {
				walk(p.Type)
			}
			if v.DeclaredReturn != nil {
				walk(v.DeclaredReturn)
			}
		case *Union:
			for _, s := range v.Subtypes {
				walk(s)
			}
		}
	}
	walk(t)
	return out
}


