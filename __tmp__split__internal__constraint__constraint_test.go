package constraint

import (
	"testing"

	"github.com/embergrade/ember/internal/types"
)

func TestFromIsNoneNarrowsBothBranches(t *testing.T) {
	intClass := &types.Class{Name: "int"}
	optional := types.Combine([]types.Type{intClass, types.None})

	trueC, falseC := FromIsNone("x", optional, nil)
	if !types.IsNone(trueC.NarrowedType) {
		t.Errorf("expected true branch narrowed to None, got %s", trueC.NarrowedType.String())
	}
	if falseC.NarrowedType.String() != "int" {
		t.Errorf("expected false branch narrowed to int, got %s", falseC.NarrowedType.String())
	}
}

func TestFromIsInstanceNarrowsToMatchedClass(t *testing.T) {
	intClass := &types.Class{Name: "int"}
	strClass := &types.Class{Name: "str"}
	union := types.Combine([]types.Type{intClass, strClass})

	trueC, falseC := FromIsInstance("x", union, []*types.Class{intClass}, nil)
	if trueC.NarrowedType.String() != "int" {
		t.Errorf("expected true branch int, got %s", trueC.NarrowedType.String())
	}
	if falseC.NarrowedType.String() != "str" {
		t.Errorf("expected false branch str, got %s", falseC.NarrowedType.String())
	}
}

func TestIsInstanceAlwaysTrue(t *testing.T) {
	intClass := &types.Class{Name: "int"}
	if !IsInstanceAlwaysTrue(intClass, []*types.Class{intClass}) {
		t.Error("expected isinstance(x: int, int) to always be true")
	}

	strClass := &types.Class{Name: "str"}
	union := types.Combine([]types.Type{intClass, strClass})
	if IsInstanceAlwaysTrue(union, []*types.Class{intClass}) {
		t.Error("expected isinstance(x: int|str, int) to not always be true")
	}
}


