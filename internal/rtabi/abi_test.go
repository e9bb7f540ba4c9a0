package rtabi

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestHeaderLayout(t *testing.T) {
	// refcount and type id are 32-bit, the vtable pointer 64-bit aligned.
	be.Equal(t, ObjRefCountOffset, 0)
	be.Equal(t, ObjTypeIDOffset, 4)
	be.Equal(t, ObjVTableOffset, 8)
	be.Equal(t, ObjHeaderSize, 16)
}

func TestStringRecordLayout(t *testing.T) {
	be.Equal(t, StringDataOffset, 0)
	be.Equal(t, StringLengthOffset, 8)
	be.Equal(t, StringCapacityOffset, 16)
	be.Equal(t, StringRecordSize, 24)
}

func TestRuntimeFunctionTable(t *testing.T) {
	funcs := RuntimeFunctions()

	byName := make(map[string]FuncSignature, len(funcs))
	for _, f := range funcs {
		byName[f.Name] = f
	}

	alloc, ok := byName[FnObjectAlloc]
	be.True(t, ok)
	be.Equal(t, alloc.ReturnType, "ptr")
	be.Equal(t, alloc.ParamTypes, []string{"i64", "i32", "ptr"})

	release, ok := byName[FnObjectRelease]
	be.True(t, ok)
	be.Equal(t, release.ReturnType, "void")

	_, ok = byName[FnVTableGet]
	be.True(t, ok)
	_, ok = byName[FnStringConcat]
	be.True(t, ok)

	// Names are unique.
	be.Equal(t, len(byName), len(funcs))
}
