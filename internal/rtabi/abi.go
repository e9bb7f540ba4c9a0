// Package rtabi records the ABI shared between generated code and the ARC
// runtime linked into compiled programs. The runtime lives in a separate
// address space from the compiler; only the layout and entry-point
// contract is described here and it must stay in sync with the runtime's C
// headers.
package rtabi

// Object header layout. Every heap object is preceded by this header:
// an atomic 32-bit reference count, a 32-bit type id, and a pointer to the
// type's virtual-method table.
const (
	ObjHeaderSize = 16

	ObjRefCountOffset = 0
	ObjTypeIDOffset   = 4
	ObjVTableOffset   = 8
)

// VTable layout. Slot 0 is always the destructor; virtual methods follow.
const (
	VTableDestructorSlot = 0
	VTableSlotSize       = 8
)

// String record layout: { char* data, size length, size capacity } with a
// null-terminated buffer.
const (
	StringRecordSize = 24

	StringDataOffset     = 0
	StringLengthOffset   = 8
	StringCapacityOffset = 16
)

// ARC entry points. Retain and release are atomic; release invokes the
// destructor and frees the object when the count reaches zero.
const (
	FnObjectAlloc   = "Object_alloc"
	FnObjectRetain  = "Object_retain"
	FnObjectRelease = "Object_release"

	FnVTableRegister = "VTable_register"
	FnVTableGet      = "VTable_get"
)

// String entry points.
const (
	FnStringNewFromLiteral = "String_new_from_literal"
	FnStringConcat         = "String_concat"
	FnStringDelete         = "String_delete"
	FnStringPrint          = "String_print"
	FnStringLength         = "String_get_length"
	FnStringSubstring      = "String_substring"
	FnStringEmpty          = "String_get_empty"

	FnStringFromInt    = "String_from_int"
	FnStringFromLong   = "String_from_long"
	FnStringFromFloat  = "String_from_float"
	FnStringFromDouble = "String_from_double"
	FnStringFromBool   = "String_from_bool"

	FnStringToInt    = "String_to_int"
	FnStringToLong   = "String_to_long"
	FnStringToFloat  = "String_to_float"
	FnStringToDouble = "String_to_double"
	FnStringToBool   = "String_to_bool"
)

// FuncSignature describes a runtime entry point for code generation, in IR
// type names.
type FuncSignature struct {
	Name       string
	ReturnType string
	ParamTypes []string
}

// RuntimeFunctions returns the signatures of the runtime entry points the
// generated code may call.
func RuntimeFunctions() []FuncSignature {
	return []FuncSignature{
		{Name: FnObjectAlloc, ReturnType: "ptr", ParamTypes: []string{"i64", "i32", "ptr"}},
		{Name: FnObjectRetain, ReturnType: "void", ParamTypes: []string{"ptr"}},
		{Name: FnObjectRelease, ReturnType: "void", ParamTypes: []string{"ptr"}},

		{Name: FnVTableRegister, ReturnType: "void", ParamTypes: []string{"i32", "ptr"}},
		{Name: FnVTableGet, ReturnType: "ptr", ParamTypes: []string{"i32"}},

		{Name: FnStringNewFromLiteral, ReturnType: "ptr", ParamTypes: []string{"ptr", "i64"}},
		{Name: FnStringConcat, ReturnType: "ptr", ParamTypes: []string{"ptr", "ptr"}},
		{Name: FnStringDelete, ReturnType: "void", ParamTypes: []string{"ptr"}},
		{Name: FnStringPrint, ReturnType: "void", ParamTypes: []string{"ptr"}},
		{Name: FnStringLength, ReturnType: "i32", ParamTypes: []string{"ptr"}},
		{Name: FnStringSubstring, ReturnType: "ptr", ParamTypes: []string{"ptr", "i32"}},
		{Name: FnStringEmpty, ReturnType: "ptr", ParamTypes: nil},

		{Name: FnStringFromInt, ReturnType: "ptr", ParamTypes: []string{"i32"}},
		{Name: FnStringFromLong, ReturnType: "ptr", ParamTypes: []string{"i64"}},
		{Name: FnStringFromFloat, ReturnType: "ptr", ParamTypes: []string{"f32"}},
		{Name: FnStringFromDouble, ReturnType: "ptr", ParamTypes: []string{"f64"}},
		{Name: FnStringFromBool, ReturnType: "ptr", ParamTypes: []string{"bool"}},

		{Name: FnStringToInt, ReturnType: "i32", ParamTypes: []string{"ptr"}},
		{Name: FnStringToLong, ReturnType: "i64", ParamTypes: []string{"ptr"}},
		{Name: FnStringToFloat, ReturnType: "f32", ParamTypes: []string{"ptr"}},
		{Name: FnStringToDouble, ReturnType: "f64", ParamTypes: []string{"ptr"}},
		{Name: FnStringToBool, ReturnType: "bool", ParamTypes: []string{"ptr"}},
	}
}
