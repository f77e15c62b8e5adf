package checker

import (
	"github.com/embergrade/ember/internal/symbol"
	"github.com/embergrade/ember/internal/types"
)

// builtinNames are the primitive type names a module scope resolves without an explicit import,
// standing in for the handful of typeshed builtins.pyi entries an annotation is likely to
// reference. A full builtins stub module is
// out of scope here; this seeds just enough of the global namespace for annotations like `x:
// int` to resolve to a real Class instead of Unknown.
var builtinNames = []string{"int", "float", "str", "bytes", "bool", "object", "list", "dict", "tuple", "set"}

// seedBuiltins declares each builtinNames entry in scope with a DeclBuiltIn declaration and a
// fixed Class type, so name resolution for primitive annotations works the same way class
// references do elsewhere in the checker. Source ids are negative and distinct from any AST node
// address (addrOf never returns a negative uintptr-derived value) so they can never collide with
// a real syntax-node contribution.
func seedBuiltins(scope *symbol.Scope) {
	for i, name := range builtinNames {
		sym := scope.AddSymbol(name, symbol.SymbolFlagNone, &symbol.Declaration{Kind: symbol.DeclBuiltIn})
		sym.InferredType.AddSource(int64(-(i + 1)), &types.Class{Name: name})
	}
}
