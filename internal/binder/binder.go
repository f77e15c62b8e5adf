// Package binder implements the single binding pass: it walks the
// syntax tree in source order, creates scopes, declares symbols, attaches flow nodes, and
// resolves imports via the module-resolution results supplied by the host.
package binder

import (
	"github.com/embergrade/ember/internal/ast"
	"github.com/embergrade/ember/internal/flow"
	"github.com/embergrade/ember/internal/module"
	"github.com/embergrade/ember/internal/symbol"
)

// Binder holds the mutable state of one binding pass over one file's syntax tree.
type Binder struct {
	Annotations *Annotations
	file        *module.FileInfo

	scope *symbol.Scope
	loops []*loopContext
}

type loopContext struct {
	breakTargets    []flow.Node
	continueTargets []flow.Node
}

// New creates a binder ready to bind one file.
func New(file *module.FileInfo) *Binder {
	return &Binder{
		Annotations: NewAnnotations(),
		file:        file,
	}
}

// Bind performs the single pass over mod and returns the resulting module scope. Re-binding a
// file (e.g. after an edit) should start from a fresh Binder: annotations are arena-owned per
// binder instance, not reused.
func (b *Binder) Bind(mod *ast.Module) *symbol.Scope {
	b.scope = symbol.NewScope(symbol.KindModule, nil)
	info := b.Annotations.Get(mod)
	info.Scope = b.scope
	info.FlowNode = &flow.Start{}

	b.bindStatements(mod.Body, info.FlowNode)
	return b.scope
}

func (b *Binder) attach(n ast.Node, fn flow.Node) {
	b.Annotations.Get(n).Scope = b.scope
	b.Annotations.Get(n).FlowNode = fn
}

// bindStatements threads flow through a statement list, returning the flow node reachable after
// the last statement (or an Unreachable marker if control can never fall off the end).
func (b *Binder) bindStatements(stmts []ast.Node, entry flow.Node) flow.Node {
	current := entry
	for _, stmt := range stmts {
		current = b.bindStmt(stmt, current)
	}
	return current
}

func (b *Binder) bindStmt(n ast.Node, current flow.Node) flow.Node {
	switch s := n.(type) {
	case *ast.Assign:
		b.bindExpr(s.Value, current)
		fn := flow.NewAssignment(n, current)
		b.attach(n, fn)
		for _, target := range s.Targets {
			b.bindTarget(target, fn)
		}
		return fn

	case *ast.AnnAssign:
		if s.Value != nil {
			b.bindExpr(s.Value, current)
		}
		fn := flow.NewAssignment(n, current)
		b.attach(n, fn)
		decl := &symbol.Declaration{Kind: symbol.DeclVariable, Node: s.Target, Rng: n.Range(), TypeAnnotation: s.Annotation}
		b.declareTarget(s.Target, decl)
		return fn

	case *ast.AugAssign:
		b.bindExpr(s.Target, current)
		b.bindExpr(s.Value, current)
		fn := flow.NewAssignment(n, current)
		b.attach(n, fn)
		b.bindTarget(s.Target, fn)
		return fn

	case *ast.NamedExpr:
		b.bindExpr(s.Value, current)
		fn := flow.NewAssignment(n, current)
		b.attach(n, fn)
		b.bindTarget(s.Target, fn)
		return fn

	case *ast.ExprStmt:
		b.bindExpr(s.Value, current)
		b.attach(n, current)
		return current

	case *ast.Return:
		if s.Value != nil {
			b.bindExpr(s.Value, current)
		}
		b.attach(n, current)
		b.scope.Flags.AlwaysReturns = true
		return &flow.Unreachable{}

	case *ast.Raise:
		if s.Exc != nil {
			b.bindExpr(s.Exc, current)
		}
		b.attach(n, current)
		b.scope.Flags.AlwaysRaises = true
		return &flow.Unreachable{}

	case *ast.Break:
		b.attach(n, current)
		b.scope.Flags.AlwaysBreaks = true
		b.scope.Flags.MayBreak = true
		if len(b.loops) > 0 {
			top := b.loops[len(b.loops)-1]
			top.breakTargets = append(top.breakTargets, current)
		}
		return &flow.Unreachable{}

	case *ast.Continue:
		b.attach(n, current)
		if len(b.loops) > 0 {
			top := b.loops[len(b.loops)-1]
			top.continueTargets = append(top.continueTargets, current)
		}
		return &flow.Unreachable{}

	case *ast.Pass:
		b.attach(n, current)
		return current

	case *ast.Assert:
		b.bindExpr(s.Test, current)
		if s.Msg != nil {
			b.bindExpr(s.Msg, current)
		}
		b.attach(n, current)
		return flow.NewCondition(s.Test, true, current)

	case *ast.Global:
		b.attach(n, current)
		return current

	case *ast.Nonlocal:
		b.attach(n, current)
		return current

	case *ast.Del:
		for _, t := range s.Targets {
			b.bindExpr(t, current)
		}
		b.attach(n, current)
		return current

	case *ast.If:
		return b.bindIf(s, current)

	case *ast.While:
		return b.bindWhile(s, current)

	case *ast.For:
		return b.bindFor(s, current)

	case *ast.Try:
		return b.bindTry(s, current)

	case *ast.With:
		return b.bindWith(s, current)

	case *ast.Import:
		return b.bindImport(s, current)

	case *ast.ImportFrom:
		return b.bindImportFrom(s, current)

	case *ast.FunctionDef:
		return b.bindFunctionDef(s, current)

	case *ast.ClassDef:
		return b.bindClassDef(s, current)

	default:
		b.attach(n, current)
		return current
	}
}

// bindTarget declares (or resolves, for non-Name targets) an assignment target and attaches its
// flow node.
func (b *Binder) bindTarget(target ast.Node, fn flow.Node) {
	switch t := target.(type) {
	case *ast.Name:
		decl := &symbol.Declaration{Kind: symbol.DeclVariable, Node: t, Rng: t.Range()}
		b.scope.AddSymbol(t.Identifier, flagsForName(t.Identifier), decl)
		b.attach(t, fn)
	case *ast.TupleExpr:
		for _, el := range t.Elements {
			b.bindTarget(el, fn)
		}
	case *ast.ListExpr:
		for _, el := range t.Elements {
			b.bindTarget(el, fn)
		}
	case *ast.Starred:
		b.bindTarget(t.Value, fn)
	case *ast.Attribute:
		b.bindExpr(t.Value, fn)
		b.attach(t, fn)
	case *ast.Subscript:
		b.bindExpr(t.Value, fn)
		b.bindExpr(t.Index, fn)
		b.attach(t, fn)
	default:
		b.attach(target, fn)
	}
}

// declareTarget is used where the target carries an explicit declared type (AnnAssign): only a
// bare Name can carry an annotation, per normal assignment-target grammar.
func (b *Binder) declareTarget(target ast.Node, decl *symbol.Declaration) {
	name, ok := target.(*ast.Name)
	if !ok {
		b.bindTarget(target, b.Annotations.Get(target).FlowNode)
		return
	}
	decl.Node = name
	b.scope.AddSymbol(name.Identifier, flagsForName(name.Identifier), decl)
	b.attach(name, b.Annotations.Get(target).FlowNode)
}

func flagsForName(name string) symbol.SymbolFlag {
	var f symbol.SymbolFlag
	if len(name) >= 4 && name[:2] == "__" && name[len(name)-2:] == "__" {
		f |= symbol.SymbolFlagDunder
	} else if len(name) >= 1 && name[0] == '_' {
		f |= symbol.SymbolFlagPrivate
	}
	return f
}

// bindExpr walks an expression purely for its side effects on binding: declaring walrus targets,
// lambda/comprehension scopes, and recording flow/scope annotations on sub-nodes. It does not
// compute types; that is the evaluator's job (component C7).
func (b *Binder) bindExpr(n ast.Node, current flow.Node) {
	if n == nil {
		return
	}
	b.attach(n, current)
	switch e := n.(type) {
	case *ast.NamedExpr:
		b.bindExpr(e.Value, current)
		fn := flow.NewAssignment(n, current)
		b.attach(n, fn)
		b.bindTarget(e.Target, fn)
	case *ast.BinOp:
		b.bindExpr(e.Left, current)
		b.bindExpr(e.Right, current)
	case *ast.UnaryOp:
		b.bindExpr(e.Operand, current)
	case *ast.BoolOp:
		for _, v := range e.Values {
			b.bindExpr(v, current)
		}
	case *ast.Compare:
		b.bindExpr(e.Left, current)
		for _, c := range e.Comps {
			b.bindExpr(c, current)
		}
	case *ast.IfExp:
		b.bindExpr(e.Test, current)
		b.bindExpr(e.Body, current)
		b.bindExpr(e.Orelse, current)
	case *ast.Call:
		b.bindExpr(e.Func, current)
		for _, a := range e.Args {
			b.bindExpr(a, current)
		}
		for _, kw := range e.Keywords {
			b.bindExpr(kw.Value, current)
		}
	case *ast.Attribute:
		b.bindExpr(e.Value, current)
	case *ast.Subscript:
		b.bindExpr(e.Value, current)
		b.bindExpr(e.Index, current)
	case *ast.Starred:
		b.bindExpr(e.Value, current)
	case *ast.TupleExpr:
		for _, el := range e.Elements {
			b.bindExpr(el, current)
		}
	case *ast.ListExpr:
		for _, el := range e.Elements {
			b.bindExpr(el, current)
		}
	case *ast.SetExpr:
		for _, el := range e.Elements {
			b.bindExpr(el, current)
		}
	case *ast.DictExpr:
		for i, k := range e.Keys {
			if k != nil {
				b.bindExpr(k, current)
			}
			b.bindExpr(e.Values[i], current)
		}
	case *ast.Lambda:
		b.bindLambda(e, current)
	case *ast.ListComp:
		b.bindComprehension(symbol.KindListComp, e.Clauses, func() { b.bindExpr(e.Element, current) }, current)
	case *ast.SetComp:
		b.bindComprehension(symbol.KindListComp, e.Clauses, func() { b.bindExpr(e.Element, current) }, current)
	case *ast.GeneratorExp:
		b.bindComprehension(symbol.KindListComp, e.Clauses, func() { b.bindExpr(e.Element, current) }, current)
	case *ast.DictComp:
		b.bindComprehension(symbol.KindListComp, e.Clauses, func() {
			b.bindExpr(e.Key, current)
			b.bindExpr(e.Value, current)
		}, current)
	}
}

func (b *Binder) bindLambda(l *ast.Lambda, current flow.Node) {
	parent := b.scope
	b.scope = symbol.NewScope(symbol.KindLambda, parent)
	b.Annotations.Get(l).Scope = b.scope
	for _, p := range l.Parameters {
		decl := &symbol.Declaration{Kind: symbol.DeclParameter, Node: p, Rng: p.Range(), TypeAnnotation: p.TypeAnnotation}
		b.scope.AddSymbol(p.Name, symbol.SymbolFlagNone, decl)
	}
	b.bindExpr(l.Body, &flow.Start{})
	b.scope = parent
}

func (b *Binder) bindComprehension(kind symbol.Kind, clauses []*ast.ComprehensionClause, bindElement func(), current flow.Node) {
	parent := b.scope
	b.scope = symbol.NewScope(kind, parent)
	for _, clause := range clauses {
		b.bindExpr(clause.Iter, current)
		fn := flow.NewAssignment(clause.Target, current)
		b.bindTarget(clause.Target, fn)
		for _, ifExpr := range clause.Ifs {
			b.bindExpr(ifExpr, current)
		}
	}
	bindElement()
	parent.MergeScope(b.scope)
	b.scope = parent
}

func (b *Binder) bindIf(s *ast.If, current flow.Node) flow.Node {
	thenEntry := flow.NewCondition(s.Test, true, current)
	elseEntry := flow.NewCondition(s.Test, false, current)
	b.bindExpr(s.Test, current)
	b.attach(s, current)

	parent := b.scope
	b.scope = symbol.NewScope(symbol.KindTemporary, parent)
	thenExit := b.bindStatements(s.Body, thenEntry)
	thenScope := b.scope

	b.scope = symbol.NewScope(symbol.KindTemporary, parent)
	var elseExit flow.Node = elseEntry
	if len(s.Orelse) > 0 {
		elseExit = b.bindStatements(s.Orelse, elseEntry)
	}
	elseScope := b.scope

	b.scope = symbol.CombineConditionalScopes(parent, []*symbol.Scope{thenScope, elseScope})
	parent.MergeScope(b.scope)
	b.scope = parent

	return flow.NewLabel(thenExit, elseExit)
}

func (b *Binder) bindWhile(s *ast.While, current flow.Node) flow.Node {
	header := flow.NewLabel(current)
	bodyEntry := flow.NewCondition(s.Test, true, header)
	exitEntry := flow.NewCondition(s.Test, false, header)
	b.bindExpr(s.Test, current)
	b.attach(s, current)

	parent := b.scope
	b.scope = symbol.NewScope(symbol.KindTemporary, parent)
	b.scope.Flags.IsLooping = true
	loop := &loopContext{}
	b.loops = append(b.loops, loop)
	bodyExit := b.bindStatements(s.Body, bodyEntry)
	header.AddAntecedent(bodyExit)
	b.loops = b.loops[:len(b.loops)-1]
	parent.MergeScope(b.scope)
	b.scope = parent

	exits := append([]flow.Node{exitEntry}, loop.breakTargets...)
	return flow.NewLabel(exits...)
}

func (b *Binder) bindFor(s *ast.For, current flow.Node) flow.Node {
	b.bindExpr(s.Iter, current)
	header := flow.NewLabel(current)
	b.attach(s, current)

	parent := b.scope
	b.scope = symbol.NewScope(symbol.KindTemporary, parent)
	b.scope.Flags.IsLooping = true
	targetFlow := flow.NewAssignment(s.Target, header)
	b.bindTarget(s.Target, targetFlow)

	loop := &loopContext{}
	b.loops = append(b.loops, loop)
	bodyExit := b.bindStatements(s.Body, targetFlow)
	header.AddAntecedent(bodyExit)
	b.loops = b.loops[:len(b.loops)-1]
	parent.MergeScope(b.scope)
	b.scope = parent

	exits := append([]flow.Node{header}, loop.breakTargets...)
	return flow.NewLabel(exits...)
}

func (b *Binder) bindTry(s *ast.Try, current flow.Node) flow.Node {
	b.attach(s, current)
	parent := b.scope

	b.scope = symbol.NewScope(symbol.KindTemporary, parent)
	bodyExit := b.bindStatements(s.Body, current)
	bodyScope := b.scope

	branches := []*symbol.Scope{bodyScope}
	var handlerExits []flow.Node
	if len(s.Handlers) == 0 {
		handlerExits = append(handlerExits, bodyExit)
	}
	for _, h := range s.Handlers {
		b.scope = symbol.NewScope(symbol.KindTemporary, parent)
		handlerEntry := flow.NewCondition(h.Type, true, current)
		if h.Name != "" {
			decl := &symbol.Declaration{Kind: symbol.DeclVariable, Rng: h.Range()}
			b.scope.AddSymbol(h.Name, symbol.SymbolFlagNone, decl)
		}
		exit := b.bindStatements(h.Body, handlerEntry)
		handlerExits = append(handlerExits, exit)
		branches = append(branches, b.scope)
	}

	if len(s.Orelse) > 0 {
		b.scope = symbol.NewScope(symbol.KindTemporary, parent)
		bodyExit = b.bindStatements(s.Orelse, bodyExit)
		branches = append(branches, b.scope)
	}

	b.scope = symbol.CombineConditionalScopes(parent, branches)
	parent.MergeScope(b.scope)
	b.scope = parent

	exit := flow.NewLabel(append(handlerExits, bodyExit)...)

	if len(s.Finalbody) > 0 {
		b.scope = symbol.NewScope(symbol.KindTemporary, parent)
		finalExit := b.bindStatements(s.Finalbody, exit)
		parent.MergeScope(b.scope)
		b.scope = parent
		return finalExit
	}
	return exit
}

func (b *Binder) bindWith(s *ast.With, current flow.Node) flow.Node {
	fn := current
	for _, item := range s.Items {
		b.bindExpr(item.ContextExpr, fn)
		fn = flow.NewAssignment(item, fn)
		if item.OptionalVar != nil {
			b.bindTarget(item.OptionalVar, fn)
		}
	}
	b.attach(s, current)
	return b.bindStatements(s.Body, fn)
}

func (b *Binder) bindImport(s *ast.Import, current flow.Node) flow.Node {
	info := b.Annotations.Get(s)
	info.Scope = b.scope
	info.FlowNode = current
	for _, alias := range s.Names {
		bindName := alias.AsName
		topName := alias.Name
		isDotted := false
		for _, c := range alias.Name {
			if c == '.' {
				isDotted = true
				break
			}
		}
		if bindName == "" {
			if isDotted {
				bindName = firstSegment(alias.Name)
			} else {
				bindName = topName
			}
		}
		decl := &symbol.Declaration{
			Kind:                    symbol.DeclAlias,
			Node:                    alias,
			Rng:                     alias.Range(),
			AliasModulePath:         alias.Name,
			IncludesImplicitImports: bindName == firstSegment(alias.Name) && alias.AsName == "",
		}
		b.scope.AddSymbol(bindName, symbol.SymbolFlagNone, decl)
	}
	return current
}

func firstSegment(dotted string) string {
	for i, c := range dotted {
		if c == '.' {
			return dotted[:i]
		}
	}
	return dotted
}

func (b *Binder) bindImportFrom(s *ast.ImportFrom, current flow.Node) flow.Node {
	info := b.Annotations.Get(s)
	info.Scope = b.scope
	info.FlowNode = current

	if s.IsWildcard {
		fn := flow.NewWildcardImport(nil, current)
		b.attach(s, fn)
		return fn
	}

	for _, alias := range s.Names {
		bindName := alias.AsName
		if bindName == "" {
			bindName = alias.Name
		}
		decl := &symbol.Declaration{
			Kind:            symbol.DeclAlias,
			Node:            alias,
			Rng:             alias.Range(),
			AliasModulePath: s.Module,
			AliasSymbolName: alias.Name,
		}
		b.scope.AddSymbol(bindName, symbol.SymbolFlagNone, decl)
	}
	return current
}

func (b *Binder) bindFunctionDef(s *ast.FunctionDef, current flow.Node) flow.Node {
	for _, p := range s.Parameters {
		if p.TypeAnnotation != nil {
			b.bindExpr(p.TypeAnnotation, current)
		}
		if p.Default != nil {
			b.bindExpr(p.Default, current)
		}
	}
	if s.ReturnAnnot != nil {
		b.bindExpr(s.ReturnAnnot, current)
	}
	for _, d := range s.Decorators {
		b.bindExpr(d, current)
	}

	declKind := symbol.DeclFunction
	if b.scope.Kind == symbol.KindClass {
		declKind = symbol.DeclMethod
		s.IsMethod = true
	}
	decl := &symbol.Declaration{Kind: declKind, Node: s, Rng: s.Range(), TypeAnnotation: s.ReturnAnnot}
	b.scope.AddSymbol(s.Name, symbol.SymbolFlagNone, decl)

	fn := flow.NewAssignment(s, current)
	b.attach(s, fn)

	parent := b.scope
	b.scope = symbol.NewScope(symbol.KindFunction, parent)
	for _, p := range s.Parameters {
		pdecl := &symbol.Declaration{Kind: symbol.DeclParameter, Node: p, Rng: p.Range(), TypeAnnotation: p.TypeAnnotation}
		b.scope.AddSymbol(p.Name, symbol.SymbolFlagNone, pdecl)
	}
	b.Annotations.Get(s).Scope = b.scope
	b.bindStatements(s.Body, &flow.Start{})
	b.scope = parent

	return fn
}

func (b *Binder) bindClassDef(s *ast.ClassDef, current flow.Node) flow.Node {
	for _, base := range s.Bases {
		b.bindExpr(base, current)
	}
	for _, kw := range s.Keywords {
		b.bindExpr(kw.Value, current)
	}
	for _, d := range s.Decorators {
		b.bindExpr(d, current)
	}

	decl := &symbol.Declaration{Kind: symbol.DeclClass, Node: s, Rng: s.Range()}
	b.scope.AddSymbol(s.Name, symbol.SymbolFlagNone, decl)

	fn := flow.NewAssignment(s, current)
	b.attach(s, fn)

	parent := b.scope
	b.scope = symbol.NewScope(symbol.KindClass, parent)
	b.Annotations.Get(s).Scope = b.scope
	b.bindStatements(s.Body, &flow.Start{})
	b.scope = parent

	return fn
}
