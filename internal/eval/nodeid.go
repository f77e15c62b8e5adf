package eval

import (
	"reflect"

	"github.com/embergrade/ember/internal/ast"
)

// nodeAddr returns the underlying pointer value of a concrete ast.Node as a uintptr. Every
// concrete node type in internal/ast is a pointer type, so this is a stable per-node identity
// for the lifetime of the arena .
func nodeAddr(n ast.Node) uintptr {
	v := reflect.ValueOf(n)
	if v.Kind() != reflect.Ptr {
		return 0
	}
	return v.Pointer()
}
