package ast

// Children returns n's immediate child nodes in source order, nil entries omitted. It exists so
// generic tree walks (convergence snapshotting, the language-service query interface) don't need
// their own copy of this type switch.
func Children(n Node) []Node {
	var out []Node
	push := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	pushAll := func(cs []Node) {
		for _, c := range cs {
			push(c)
		}
	}

	switch v := n.(type) {
	case *Module:
		pushAll(v.Body)
	case *FunctionDef:
		for _, p := range v.Parameters {
			push(p)
		}
		push(v.ReturnAnnot)
		pushAll(v.Body)
		pushAll(v.Decorators)
	case *ClassDef:
		pushAll(v.Bases)
		pushAll(v.Body)
		pushAll(v.Decorators)
	case *Lambda:
		for _, p := range v.Parameters {
			push(p)
		}
		push(v.Body)
	case *Parameter:
		push(v.Default)
		push(v.TypeAnnotation)
	case *Assign:
		pushAll(v.Targets)
		push(v.Value)
	case *AnnAssign:
		push(v.Target)
		push(v.Annotation)
		push(v.Value)
	case *AugAssign:
		push(v.Target)
		push(v.Value)
	case *NamedExpr:
		push(v.Target)
		push(v.Value)
	case *ExprStmt:
		push(v.Value)
	case *Return:
		push(v.Value)
	case *Raise:
		push(v.Exc)
		push(v.Cause)
	case *Yield:
		push(v.Value)
	case *YieldFrom:
		push(v.Value)
	case *Assert:
		push(v.Test)
		push(v.Msg)
	case *Del:
		pushAll(v.Targets)
	case *If:
		push(v.Test)
		pushAll(v.Body)
		pushAll(v.Orelse)
	case *While:
		push(v.Test)
		pushAll(v.Body)
		pushAll(v.Orelse)
	case *For:
		push(v.Target)
		push(v.Iter)
		pushAll(v.Body)
		pushAll(v.Orelse)
	case *Try:
		pushAll(v.Body)
		for _, h := range v.Handlers {
			push(h)
		}
		pushAll(v.Orelse)
		pushAll(v.Finalbody)
	case *ExceptHandler:
		push(v.Type)
		pushAll(v.Body)
	case *With:
		for _, item := range v.Items {
			push(item)
		}
		pushAll(v.Body)
	case *WithItem:
		push(v.ContextExpr)
		push(v.OptionalVar)
	case *Attribute:
		push(v.Value)
	case *Subscript:
		push(v.Value)
		push(v.Index)
	case *KeywordArg:
		push(v.Value)
	case *Call:
		push(v.Func)
		pushAll(v.Args)
		for _, kw := range v.Keywords {
			push(kw)
		}
	case *BinOp:
		push(v.Left)
		push(v.Right)
	case *UnaryOp:
		push(v.Operand)
	case *BoolOp:
		pushAll(v.Values)
	case *Compare:
		push(v.Left)
		pushAll(v.Comps)
	case *IfExp:
		push(v.Test)
		push(v.Body)
		push(v.Orelse)
	case *Starred:
		push(v.Value)
	case *ComprehensionClause:
		push(v.Target)
		push(v.Iter)
		pushAll(v.Ifs)
	case *ListComp:
		push(v.Element)
		for _, c := range v.Clauses {
			push(c)
		}
	case *SetComp:
		push(v.Element)
		for _, c := range v.Clauses {
			push(c)
		}
	case *DictComp:
		push(v.Key)
		push(v.Value)
		for _, c := range v.Clauses {
			push(c)
		}
	case *GeneratorExp:
		push(v.Element)
		for _, c := range v.Clauses {
			push(c)
		}
	case *TupleExpr:
		pushAll(v.Elements)
	case *ListExpr:
		pushAll(v.Elements)
	case *SetExpr:
		pushAll(v.Elements)
	case *DictExpr:
		for i, k := range v.Keys {
			push(k)
			if i < len(v.Values) {
				push(v.Values[i])
			}
		}
	}
	return out
}


