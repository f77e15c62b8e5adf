package checker

import (
	"reflect"

	"github.com/embergrade/ember/internal/ast"
)

func addrOf(n ast.Node) uintptr {
	v := reflect.ValueOf(n)
	if v.Kind() != reflect.Ptr {
		return 0
	}
	return v.Pointer()
}
