package checker

import (
	"fmt"

	"github.com/embergrade/ember/internal/ast"
	"github.com/embergrade/ember/internal/config"
	"github.com/embergrade/ember/internal/constraint"
	"github.com/embergrade/ember/internal/diagnostic"
	"github.com/embergrade/ember/internal/eval"
	"github.com/embergrade/ember/internal/flow"
	"github.com/embergrade/ember/internal/symbol"
	"github.com/embergrade/ember/internal/types"
)

// walkModule drives one pass over the module body .
func (c *Checker) walkModule(mod *ast.Module, scope *symbol.Scope) {
	c.walkStatements(mod.Body, scope)
}

func (c *Checker) walkStatements(stmts []ast.Node, scope *symbol.Scope) {
	i := 0
	for i < len(stmts) {
		if consumed := c.tryWalkOverloadGroup(stmts, i, scope); consumed > 0 {
			i += consumed
			continue
		}
		c.walkStmt(stmts[i], scope)
		i++
	}
}

// tryWalkOverloadGroup recognizes a run of same-named FunctionDefs where every member but the
// last carries an `@overload` decorator, and combines them into one OverloadedFunction bound to
// the shared name. Returns how many statements
// it consumed, 0 if stmts[start] doesn't start such a run.
func (c *Checker) tryWalkOverloadGroup(stmts []ast.Node, start int, scope *symbol.Scope) int {
	first, ok := stmts[start].(*ast.FunctionDef)
	if !ok || !hasDecorator(first, "overload") {
		return 0
	}
	name := first.Name
	var overloads []types.OverloadEntry
	i := start
	for i < len(stmts) {
		fd, ok := stmts[i].(*ast.FunctionDef)
		if !ok || fd.Name != name {
			break
		}
		fnType := c.walkFunctionDef(fd, scope)
		overloads = append(overloads, types.OverloadEntry{SourceID: int64(addrOf(fd)), Fn: fnType})
		i++
		if !hasDecorator(fd, "overload") {
			break
		}
	}
	combined := &types.OverloadedFunction{Overloads: overloads}
	if sym, ok := scope.LookUp(name); ok {
		sym.InferredType.AddSource(int64(addrOf(first))+1, combined)
	}
	return i - start
}

func hasDecorator(fd *ast.FunctionDef, name string) bool {
	for _, d := range fd.Decorators {
		switch dn := d.(type) {
		case *ast.Name:
			if dn.Identifier == name {
				return true
			}
		case *ast.Attribute:
			if dn.Attr == name {
				return true
			}
		}
	}
	return false
}

func (c *Checker) walkStmt(n ast.Node, scope *symbol.Scope) {
	c.checkReachability(n)

	switch s := n.(type) {
	case *ast.Assign:
		c.walkAssign(s, scope)
	case *ast.AnnAssign:
		c.walkAnnAssign(s, scope)
	case *ast.ExprStmt:
		c.checkRevealType(s.Value, scope)
		c.evaluator.GetType(s.Value, scope, eval.Usage{Method: eval.MethodGet}, eval.FlagNone)
	case *ast.Return:
		c.walkReturn(s, scope)
	case *ast.If:
		c.walkIf(s, scope)
	case *ast.While:
		c.walkWhile(s, scope)
	case *ast.For:
		c.walkFor(s, scope)
	case *ast.Try:
		c.walkTry(s, scope)
	case *ast.With:
		c.walkWith(s, scope)
	case *ast.FunctionDef:
		c.walkFunctionDef(s, scope)
	case *ast.ClassDef:
		c.walkClassDef(s, scope)
	case *ast.Import:
		c.walkImport(s, scope)
	case *ast.ImportFrom:
		c.walkImportFrom(s, scope)
	case *ast.Assert:
		c.walkAssert(s, scope)
	default:
		for _, child := range ast.Children(n) {
			c.evaluator.GetType(child, scope, eval.Usage{Method: eval.MethodGet}, eval.FlagNone)
		}
	}
}

// checkReachability emits the "unreachable code" diagnostic for a statement whose flow node was
// marked Unreachable by the binder. This is a lint-free structural
// diagnostic (not gated by a config.RuleName) with SeverityUnused.
func (c *Checker) checkReachability(n ast.Node) {
	info, ok := c.annotations.Peek(n)
	if !ok || info.FlowNode == nil {
		return
	}
	if !flow.IsReachable(info.FlowNode) {
		c.evaluator.Sink.Report(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityUnused,
			Message:  "code is unreachable",
			Range:    n.Range(),
			Code:     diagnostic.CodeUnreachable,
		})
	}
}

func (c *Checker) walkAssign(s *ast.Assign, scope *symbol.Scope) {
	valueType := c.evaluator.GetType(s.Value, scope, eval.Usage{Method: eval.MethodGet}, eval.FlagNone)
	for _, target := range s.Targets {
		c.assignTarget(target, valueType, scope)
	}
}

func (c *Checker) assignTarget(target ast.Node, valueType types.Type, scope *symbol.Scope) {
	name, ok := target.(*ast.Name)
	if !ok {
		c.evaluator.GetType(target, scope, eval.Usage{Method: eval.MethodSet, SetType: valueType}, eval.FlagNone)
		return
	}
	sym, _, found := scope.LookUpRecursive(name.Identifier)
	if found {
		if primary := sym.PrimaryDeclaration(); primary != nil && primary.IsConstant && sym.InferredType.Len() > 0 {
			c.evaluator.Sink.ReportIfEnabled(c.settings, config.ReportConstantRedefinition, diagnostic.Diagnostic{
				Severity: diagnostic.SeverityError,
				Message:  fmt.Sprintf("%q is a constant and cannot be redefined", name.Identifier),
				Range:    name.Range(),
				Code:     diagnostic.CodeConstantRedefinition,
			})
		}
	}
	c.evaluator.GetType(name, scope, eval.Usage{Method: eval.MethodSet, SetType: valueType}, eval.FlagNone)
}

func (c *Checker) walkAnnAssign(s *ast.AnnAssign, scope *symbol.Scope) {
	declaredType := c.evaluator.GetType(s.Annotation, scope, eval.Usage{Method: eval.MethodGet}, eval.FlagAllowForwardReferences)
	if s.Value == nil {
		return
	}
	valueType := c.evaluator.GetType(s.Value, scope, eval.Usage{Method: eval.MethodGet}, eval.FlagNone)

	// Declared-type primacy: the assignment's RHS is checked against the declared type here,
	// at the assignment, not deferred to later reads.
	var addendum types.Addendum
	if !types.CanAssign(declaredType, valueType, &addendum) {
		c.evaluator.Sink.Report(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Message:  fmt.Sprintf("expression of type %q is not assignable to declared type %q: %s", types.PrintType(valueType), types.PrintType(declaredType), addendum.Reason),
			Range:    s.Value.Range(),
			Code:     diagnostic.CodeIncompatibleAssignment,
		})
	}
	name, ok := s.Target.(*ast.Name)
	if !ok {
		return
	}
	c.evaluator.GetType(name, scope, eval.Usage{Method: eval.MethodSet, SetType: declaredType}, eval.FlagNone)
}

func (c *Checker) walkReturn(s *ast.Return, scope *symbol.Scope) {
	var t types.Type = types.None
	if s.Value != nil {
		t = c.evaluator.GetType(s.Value, scope, eval.Usage{Method: eval.MethodGet}, eval.FlagNone)
	}
	fnScope := scope.EnclosingPermanent()
	if fnScope != nil && fnScope.Kind == symbol.KindFunction {
		fnScope.ReturnType.AddSource(int64(addrOf(s)), t)
	}
}

func (c *Checker) walkAssert(s *ast.Assert, scope *symbol.Scope) {
	c.evaluator.GetType(s.Test, scope, eval.Usage{Method: eval.MethodGet}, eval.FlagNone)
	if name, ok := s.Test.(*ast.Name); ok {
		sym, _, found := scope.LookUpRecursive(name.Identifier)
		if found {
			trueC := constraint.FromAssignment(name.Identifier, sym.InferredType.Combine(), s)
			constraint.Apply(scope, trueC)
		}
	}
}

// walkIf evaluates each arm in a temporary scope and combines the results afterward; narrowing
// constraints are pushed/popped around each branch.
func (c *Checker) walkIf(s *ast.If, scope *symbol.Scope) {
	c.evaluator.GetType(s.Test, scope, eval.Usage{Method: eval.MethodGet}, eval.FlagNone)

	thenScope := symbol.NewScope(symbol.KindTemporary, scope)
	elseScope := symbol.NewScope(symbol.KindTemporary, scope)

	pushed := c.pushNarrowingConstraints(s.Test, scope, thenScope, elseScope)

	c.walkStatements(s.Body, thenScope)
	c.walkStatements(s.Orelse, elseScope)

	thenScope.PopConstraints(pushed)
	elseScope.PopConstraints(pushed)

	merged := symbol.CombineConditionalScopes(scope, []*symbol.Scope{thenScope, elseScope})
	scope.MergeScope(merged)
}

// pushNarrowingConstraints recognizes `x is None`, `x is not None`, and `isinstance(x, C)`
// conditions and pushes the corresponding pair of constraints onto the two branch scopes.
// Returns how many constraints were pushed per scope, for symmetric popping.
func (c *Checker) pushNarrowingConstraints(test ast.Node, scope, thenScope, elseScope *symbol.Scope) int {
	cmp, ok := test.(*ast.Compare)
	if ok && len(cmp.Ops) == 1 {
		name, isName := cmp.Left.(*ast.Name)
		constVal, isConst := cmp.Comps[0].(*ast.Constant)
		isNone := isConst && constVal.ConstKind == ast.ConstNone
		if isName && isNone {
			sym, _, found := scope.LookUpRecursive(name.Identifier)
			if found {
				baseType := sym.InferredType.Combine()
				trueC, falseC := constraint.FromIsNone(name.Identifier, baseType, test)
				if cmp.Ops[0] == "is not" {
					trueC, falseC = falseC, trueC
				}
				thenScope.PushConstraint(trueC)
				elseScope.PushConstraint(falseC)
				return 1
			}
		}
	}

	call, ok := test.(*ast.Call)
	if ok {
		if fnName, ok := call.Func.(*ast.Name); ok && fnName.Identifier == "isinstance" && len(call.Args) == 2 {
			name, isName := call.Args[0].(*ast.Name)
			if isName {
				sym, _, found := scope.LookUpRecursive(name.Identifier)
				if found {
					candidates := c.resolveIsinstanceCandidates(call.Args[1], scope)
					baseType := sym.InferredType.Combine()
					if len(candidates) > 0 {
						if constraint.IsInstanceAlwaysTrue(baseType, candidates) {
							c.evaluator.Sink.ReportIfEnabled(c.settings, config.ReportUnnecessaryIsInstance, diagnostic.Diagnostic{
								Severity: diagnostic.SeverityWarning,
								Message:  fmt.Sprintf("%q is always an instance of %q", name.Identifier, types.PrintType(baseType)),
								Range:    call.Range(),
							})
						}
						trueC, falseC := constraint.FromIsInstance(name.Identifier, baseType, candidates, test)
						thenScope.PushConstraint(trueC)
						elseScope.PushConstraint(falseC)
						return 1
					}
				}
			}
		}
	}
	return 0
}

func (c *Checker) resolveIsinstanceCandidates(n ast.Node, scope *symbol.Scope) []*types.Class {
	if cls, ok := c.classOfExpr(n, scope); ok {
		return []*types.Class{cls}
	}
	if tuple, ok := n.(*ast.TupleExpr); ok {
		var out []*types.Class
		for _, el := range tuple.Elements {
			if cls, ok := c.classOfExpr(el, scope); ok {
				out = append(out, cls)
			}
		}
		return out
	}
	return nil
}

func (c *Checker) walkWhile(s *ast.While, scope *symbol.Scope) {
	c.evaluator.GetType(s.Test, scope, eval.Usage{Method: eval.MethodGet}, eval.FlagNone)
	loopScope := symbol.NewScope(symbol.KindTemporary, scope)
	loopScope.Flags.IsLooping = true
	c.walkStatements(s.Body, loopScope)
	scope.MergeScope(loopScope)
}

func (c *Checker) walkFor(s *ast.For, scope *symbol.Scope) {
	c.evaluator.GetType(s.Iter, scope, eval.Usage{Method: eval.MethodGet}, eval.FlagNone)
	loopScope := symbol.NewScope(symbol.KindTemporary, scope)
	loopScope.Flags.IsLooping = true
	if name, ok := s.Target.(*ast.Name); ok {
		elemType := c.iterableElementType(s.Iter, scope)
		loopScope.AddSymbol(name.Identifier, symbol.SymbolFlagNone, &symbol.Declaration{Kind: symbol.DeclVariable, Node: name})
		if sym, ok := loopScope.LookUp(name.Identifier); ok {
			sym.InferredType.AddSource(int64(addrOf(s)), elemType)
		}
	}
	c.walkStatements(s.Body, loopScope)
	scope.MergeScope(loopScope)
}

// iterableElementType resolves getTypeFromIterable by dispatching to __iter__/__next__ or, for
// the common case of a list/tuple literal, its element type .
func (c *Checker) iterableElementType(iter ast.Node, scope *symbol.Scope) types.Type {
	iterType := c.evaluator.GetType(iter, scope, eval.Usage{Method: eval.MethodGet}, eval.FlagNone)
	class, ok := iterType.(*types.Class)
	if !ok {
		if obj, ok := iterType.(*types.Object); ok {
			class = obj.ClassType
		}
	}
	if class != nil && len(class.TypeArgs) == 1 {
		return class.TypeArgs[0]
	}
	return types.Unknown
}

func (c *Checker) walkTry(s *ast.Try, scope *symbol.Scope) {
	bodyScope := symbol.NewScope(symbol.KindTemporary, scope)
	c.walkStatements(s.Body, bodyScope)
	branches := []*symbol.Scope{bodyScope}

	for _, h := range s.Handlers {
		handlerScope := symbol.NewScope(symbol.KindTemporary, scope)
		if h.Type != nil {
			c.evaluator.GetType(h.Type, scope, eval.Usage{Method: eval.MethodGet}, eval.FlagNone)
		}
		c.walkStatements(h.Body, handlerScope)
		branches = append(branches, handlerScope)
	}
	if len(s.Orelse) > 0 {
		orelseScope := symbol.NewScope(symbol.KindTemporary, scope)
		c.walkStatements(s.Orelse, orelseScope)
		branches = append(branches, orelseScope)
	}

	merged := symbol.CombineConditionalScopes(scope, branches)
	scope.MergeScope(merged)

	if len(s.Finalbody) > 0 {
		finalScope := symbol.NewScope(symbol.KindTemporary, scope)
		c.walkStatements(s.Finalbody, finalScope)
		scope.MergeScope(finalScope)
	}
}

// walkWith handles with-statements: the bound target's type is replaced with the
// __enter__/__aenter__ return type.
func (c *Checker) walkWith(s *ast.With, scope *symbol.Scope) {
	for _, item := range s.Items {
		ctxType := c.evaluator.GetType(item.ContextExpr, scope, eval.Usage{Method: eval.MethodGet}, eval.FlagNone)
		if types.IsOptionalType(ctxType) {
			c.evaluator.Sink.ReportIfEnabled(c.settings, config.ReportOptionalContextManager, diagnostic.Diagnostic{
				Severity: diagnostic.SeverityWarning,
				Message:  "context manager expression is Optional",
				Range:    item.ContextExpr.Range(),
			})
		}
		enterName := "__enter__"
		if s.IsAsync {
			enterName = "__aenter__"
		}
		class := classOf(ctxType)
		enterType := types.Unknown
		if class != nil {
			if m, ok := lookupMemberExported(class, enterName); ok {
				if fn, ok := m.(*types.Function); ok {
					enterType = fn.ReturnType()
				}
			}
		}
		if item.OptionalVar != nil {
			if name, ok := item.OptionalVar.(*ast.Name); ok {
				scope.AddSymbol(name.Identifier, symbol.SymbolFlagNone, &symbol.Declaration{Kind: symbol.DeclVariable, Node: name})
				if sym, ok := scope.LookUp(name.Identifier); ok {
					sym.InferredType.AddSource(int64(addrOf(item)), enterType)
				}
			}
		}
	}
	c.walkStatements(s.Body, scope)
}

func classOf(t types.Type) *types.Class {
	switch v := t.(type) {
	case *types.Class:
		return v
	case *types.Object:
		return v.ClassType
	default:
		return nil
	}
}

// lookupMemberExported is the checker-local equivalent of eval's unexported lookupMember,
// walking base classes for a named member.
func lookupMemberExported(class *types.Class, name string) (types.Type, bool) {
	if class == nil {
		return nil, false
	}
	if class.Fields != nil {
		if sym, ok := class.Fields.Lookup(name); ok {
			return sym.SymbolType(), true
		}
	}
	for _, base := range class.BaseClasses {
		if baseClass, ok := base.(*types.Class); ok {
			if t, ok := lookupMemberExported(baseClass, name); ok {
				return t, true
			}
		}
	}
	return nil, false
}

// checkRevealType recognizes the `reveal_type(expr)` / `reveal_locals()` pseudo-calls and
// synthesizes an info diagnostic instead of (or in addition to) evaluating normally.
func (c *Checker) checkRevealType(n ast.Node, scope *symbol.Scope) {
	call, ok := n.(*ast.Call)
	if !ok {
		return
	}
	fnName, ok := call.Func.(*ast.Name)
	if !ok {
		return
	}
	switch fnName.Identifier {
	case "reveal_type":
		if len(call.Args) != 1 {
			return
		}
		t := c.evaluator.GetType(call.Args[0], scope, eval.Usage{Method: eval.MethodGet}, eval.FlagNone)
		c.evaluator.Sink.Report(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityInfo,
			Message:  fmt.Sprintf("revealed type is %q", types.PrintType(t)),
			Range:    call.Range(),
			Code:     diagnostic.CodeRevealType,
		})
	case "reveal_locals":
		for _, name := range scope.Table.Names() {
			sym, _ := scope.Table.Get(name)
			c.evaluator.Sink.Report(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityInfo,
				Message:  fmt.Sprintf("%s: %s", name, types.PrintType(sym.InferredType.Combine())),
				Range:    call.Range(),
				Code:     diagnostic.CodeRevealType,
			})
		}
	}
}

// walkFunctionDef evaluates parameter
// annotations in the enclosing scope, walks the body in the binder's function scope, validates
// the declared return type against what the body actually returns, and binds the resulting
// Function type to the enclosing symbol. Returns the Function value so overload grouping can
// collect it.
func (c *Checker) walkFunctionDef(s *ast.FunctionDef, scope *symbol.Scope) *types.Function {
	info, _ := c.annotations.Peek(s)
	fnScope := scope
	if info != nil && info.Scope != nil {
		fnScope = info.Scope
	}

	params := make([]types.FunctionParameter, 0, len(s.Parameters))
	for _, p := range s.Parameters {
		cat := types.ParamSimple
		switch p.Category {
		case ast.ParamVarArgList:
			cat = types.ParamVarArgList
		case ast.ParamVarArgDict:
			cat = types.ParamVarArgDict
		}
		var pt types.Type = types.Unknown
		if p.TypeAnnotation != nil {
			pt = c.evaluator.GetType(p.TypeAnnotation, scope, eval.Usage{Method: eval.MethodGet}, eval.FlagAllowForwardReferences)
		} else if p.Default != nil {
			pt = c.evaluator.GetType(p.Default, scope, eval.Usage{Method: eval.MethodGet}, eval.FlagNone)
		}
		params = append(params, types.FunctionParameter{Category: cat, Name: p.Name, HasDefault: p.HasDefault, Type: pt})
		if psym, ok := fnScope.LookUp(p.Name); ok {
			psym.InferredType.AddSource(int64(addrOf(p)), pt)
		}
	}

	var declaredReturn types.Type
	if s.ReturnAnnot != nil {
		declaredReturn = c.evaluator.GetType(s.ReturnAnnot, scope, eval.Usage{Method: eval.MethodGet}, eval.FlagAllowForwardReferences)
	}

	c.walkStatements(s.Body, fnScope)

	if !fnScope.Flags.AlwaysReturns && !fnScope.Flags.AlwaysRaises {
		fnScope.ReturnType.AddSource(int64(addrOf(s))+1, types.None)
	}

	fn := &types.Function{
		Name:           s.Name,
		Parameters:     params,
		DeclaredReturn: declaredReturn,
		InferredReturn: fnScope.ReturnType,
	}
	if hasDecorator(s, "staticmethod") {
		fn.Flags |= types.FunctionFlagStaticMethod
	}
	if hasDecorator(s, "classmethod") {
		fn.Flags |= types.FunctionFlagClassMethod
	}
	if hasDecorator(s, "overload") {
		fn.Flags |= types.FunctionFlagOverload
	}
	if s.IsAsync {
		fn.Flags |= types.FunctionFlagAsync
	}

	if declaredReturn != nil {
		inferredReturn := fn.InferredReturn.Combine()
		var addendum types.Addendum
		if !types.CanAssign(declaredReturn, inferredReturn, &addendum) {
			c.evaluator.Sink.Report(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityError,
				Message:  fmt.Sprintf("function %q returns %q, which is not assignable to declared return type %q: %s", s.Name, types.PrintType(inferredReturn), types.PrintType(declaredReturn), addendum.Reason),
				Range:    s.Range(),
				Code:     diagnostic.CodeIncompatibleAssignment,
			})
		}
	}

	var bound types.Type = fn
	if hasDecorator(s, "property") {
		bound = &types.Property{Getter: fn}
	}
	if sym, ok := scope.LookUp(s.Name); ok {
		sym.InferredType.AddSource(int64(addrOf(s)), bound)
	}

	return fn
}

// walkClassDef evaluates base-class
// expressions (stripping Unbound, since a base class reference
// resolving to Unbound is substituted with Unknown rather than propagated), walks the body in the
// class's own scope, and binds the resulting Class type — including a synthesized __init__ when
// no explicit one is defined.
func (c *Checker) walkClassDef(s *ast.ClassDef, scope *symbol.Scope) {
	info, _ := c.annotations.Peek(s)
	classScope := scope
	if info != nil && info.Scope != nil {
		classScope = info.Scope
	}

	var bases []types.Type
	for _, baseExpr := range s.Bases {
		baseType := c.evaluator.GetType(baseExpr, scope, eval.Usage{Method: eval.MethodGet}, eval.FlagNone)
		baseType = types.RemoveUnboundFromUnion(baseType)
		if types.IsUnbound(baseType) {
			baseType = types.Unknown
		}
		if _, ok := baseType.(*types.Class); !ok {
			if !types.IsUnknown(baseType) && !types.IsAny(baseType) {
				c.evaluator.Sink.Report(diagnostic.Diagnostic{
					Severity: diagnostic.SeverityError,
					Message:  fmt.Sprintf("base class expression has type %q, which is not a class", types.PrintType(baseType)),
					Range:    baseExpr.Range(),
					Code:     diagnostic.CodeInvalidBaseClass,
				})
			}
		}
		bases = append(bases, baseType)
	}

	class := &types.Class{Name: s.Name, BaseClasses: bases, Fields: classScope.Table}

	// Decorators apply nearest-to-def first ; their only effect here is untyped-decorator diagnostics, so walk in declared
	// order for the simpler no-op case of a well-typed decorator.
	for i := len(s.Decorators) - 1; i >= 0; i-- {
		decType := c.evaluator.GetType(s.Decorators[i], scope, eval.Usage{Method: eval.MethodGet}, eval.FlagNone)
		if types.IsUnknown(decType) {
			c.evaluator.Sink.ReportIfEnabled(c.settings, config.ReportUntypedClassDecorator, diagnostic.Diagnostic{
				Severity: diagnostic.SeverityWarning,
				Message:  fmt.Sprintf("class decorator for %q has unknown type", s.Name),
				Range:    s.Decorators[i].Range(),
			})
		}
	}

	c.walkStatements(s.Body, classScope)

	if _, hasInit := lookupMemberExported(class, "__init__"); !hasInit {
		synthesizeDataclassInit(s, class, classScope)
	}

	if sym, ok := scope.LookUp(s.Name); ok {
		sym.InferredType.AddSource(int64(addrOf(s)), class)
	}
}

// synthesizeDataclassInit builds a positional __init__(self, ...) from the class's own annotated
// fields when none was written explicitly. Fields
// without an annotation are skipped: only declared attributes participate.
func synthesizeDataclassInit(classDef *ast.ClassDef, class *types.Class, classScope *symbol.Scope) {
	var params []types.FunctionParameter
	for _, name := range classScope.Table.Names() {
		sym, ok := classScope.Table.Get(name)
		if !ok {
			continue
		}
		primary := sym.PrimaryDeclaration()
		if primary == nil || primary.Kind != symbol.DeclVariable || !primary.HasDeclaredType() {
			continue
		}
		params = append(params, types.FunctionParameter{Category: types.ParamSimple, Name: name, Type: sym.InferredType.Combine()})
	}
	if len(params) == 0 {
		return
	}
	init := &types.Function{Name: "__init__", Parameters: params, DeclaredReturn: types.None, BuiltInName: "__init__"}
	classScope.AddSymbol("__init__", symbol.SymbolFlagClassMember, &symbol.Declaration{Kind: symbol.DeclMethod})
	if sym, ok := classScope.LookUp("__init__"); ok {
		sym.InferredType.AddSource(int64(addrOf(classDef))+1, init)
	}
}

// walkImport handles `import a.b.c as d`: binds the
// alias to the resolved Module type from the import map, or Unknown if unresolved.
func (c *Checker) walkImport(s *ast.Import, scope *symbol.Scope) {
	for _, alias := range s.Names {
		resolved, ok := c.evaluator.ImportMap[alias.Name]
		var modType types.Type = types.Unknown
		if ok {
			modType = resolved
		}
		bindName := alias.AsName
		if bindName == "" {
			bindName = firstSegment(alias.Name)
		}
		if sym, ok := scope.LookUp(bindName); ok {
			sym.InferredType.AddSource(int64(addrOf(alias)), modType)
		}
	}
}

func firstSegment(dotted string) string {
	for i, r := range dotted {
		if r == '.' {
			return dotted[:i]
		}
	}
	return dotted
}

// walkImportFrom handles `from pkg import a, b as c` and the wildcard form, which expands the
// source module's exported names into the current scope.
func (c *Checker) walkImportFrom(s *ast.ImportFrom, scope *symbol.Scope) {
	mod, ok := c.evaluator.ImportMap[s.Module]
	if !ok {
		return
	}
	if s.IsWildcard {
		if mod.Fields == nil {
			return
		}
		for _, name := range mod.Fields.Names() {
			memberSym, ok := mod.Fields.Lookup(name)
			if !ok {
				continue
			}
			if sym, ok := scope.LookUp(name); ok {
				sym.InferredType.AddSource(int64(addrOf(s))+int64(len(name)), memberSym.SymbolType())
			}
		}
		return
	}
	for _, alias := range s.Names {
		bindName := alias.AsName
		if bindName == "" {
			bindName = alias.Name
		}
		var memberType types.Type = types.Unknown
		if mod.Fields != nil {
			if memberSym, ok := mod.Fields.Lookup(alias.Name); ok {
				memberType = memberSym.SymbolType()
			}
		}
		if sym, ok := scope.LookUp(bindName); ok {
			sym.InferredType.AddSource(int64(addrOf(alias)), memberType)
		}
	}
}

// checkUnused implements the reportUnusedClass/Function/Variable/Import family:
// a post-pass sweep over every scope the binder created, flagging symbols whose Accessed flag
// was never set. Names starting with an underscore are exempt, matching the convention that a
// leading underscore marks an intentionally-unused binding.
func (c *Checker) checkUnused(mod *ast.Module, moduleScope *symbol.Scope) {
	c.checkUnusedInScope(moduleScope)
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if n == nil {
			return
		}
		switch s := n.(type) {
		case *ast.FunctionDef:
			if info, ok := c.annotations.Peek(s); ok && info.Scope != nil {
				c.checkUnusedInScope(info.Scope)
			}
		case *ast.ClassDef:
			if info, ok := c.annotations.Peek(s); ok && info.Scope != nil {
				c.checkUnusedInScope(info.Scope)
			}
		}
		for _, child := range ast.Children(n) {
			walk(child)
		}
	}
	walk(mod)
}

func (c *Checker) checkUnusedInScope(scope *symbol.Scope) {
	for _, sym := range scope.Table.All() {
		if sym.Accessed {
			continue
		}
		if len(sym.Name) > 0 && sym.Name[0] == '_' {
			continue
		}
		primary := sym.PrimaryDeclaration()
		if primary == nil {
			continue
		}
		var rule config.RuleName
		var what string
		switch primary.Kind {
		case symbol.DeclFunction, symbol.DeclMethod:
			rule = config.ReportUnusedFunction
			what = "function"
		case symbol.DeclClass:
			rule = config.ReportUnusedClass
			what = "class"
		case symbol.DeclAlias:
			rule = config.ReportUnusedImport
			what = "import"
		case symbol.DeclVariable:
			rule = config.ReportUnusedVariable
			what = "variable"
		default:
			continue
		}
		c.evaluator.Sink.ReportIfEnabled(c.settings, rule, diagnostic.Diagnostic{
			Severity: diagnostic.SeverityWarning,
			Message:  fmt.Sprintf("%s %q is not accessed", what, sym.Name),
			Range:    primary.Rng,
		})
	}
}


