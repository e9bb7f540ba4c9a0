// Package ir defines the typed three-address command stream emitted for a
// compilation unit and the builder that produces it. The stream is the
// ground truth consumed by the backend; commands are appended in emission
// order and never rewritten.
package ir

import (
	"fmt"
	"strings"
)

// Kind enumerates the IR type constructors.
type Kind int

const (
	KindVoid Kind = iota
	KindI8
	KindI16
	KindI32
	KindI64
	KindBool
	KindF32
	KindF64
	KindPtr
	KindStruct
)

// Type is an IR type. Elem is the pointee for typed pointers (nil for the
// opaque ptr); Layout is set for struct types.
type Type struct {
	Kind   Kind
	Elem   *Type
	Layout *StructLayout
}

func Void() Type { return Type{Kind: KindVoid} }
func I8() Type   { return Type{Kind: KindI8} }
func I16() Type  { return Type{Kind: KindI16} }
func I32() Type  { return Type{Kind: KindI32} }
func I64() Type  { return Type{Kind: KindI64} }
func Bool() Type { return Type{Kind: KindBool} }
func F32() Type  { return Type{Kind: KindF32} }
func F64() Type  { return Type{Kind: KindF64} }
func Ptr() Type  { return Type{Kind: KindPtr} }

// PtrTo returns a pointer type carrying its pointee.
func PtrTo(elem Type) Type {
	return Type{Kind: KindPtr, Elem: &elem}
}

// Struct returns a struct type with the given layout.
func Struct(layout *StructLayout) Type {
	return Type{Kind: KindStruct, Layout: layout}
}

// Equal reports structural equality. Pointer types compare their pointees;
// struct types compare by layout name.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindPtr:
		if (t.Elem == nil) != (o.Elem == nil) {
			return false
		}
		if t.Elem != nil {
			return t.Elem.Equal(*o.Elem)
		}
		return true
	case KindStruct:
		if t.Layout == nil || o.Layout == nil {
			return t.Layout == o.Layout
		}
		return t.Layout.Name == o.Layout.Name
	}
	return true
}

// IsPtr reports whether t is a pointer (typed or opaque).
func (t Type) IsPtr() bool { return t.Kind == KindPtr }

// IsBool reports whether t is the boolean type.
func (t Type) IsBool() bool { return t.Kind == KindBool }

// IsVoid reports whether t is void.
func (t Type) IsVoid() bool { return t.Kind == KindVoid }

// Pointee returns the pointee of a typed pointer, or void for the opaque
// ptr.
func (t Type) Pointee() Type {
	if t.Elem == nil {
		return Void()
	}
	return *t.Elem
}

func (t Type) String() string {
	switch t.Kind {
	case KindVoid:
		return "void"
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindBool:
		return "bool"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindPtr:
		return "ptr"
	case KindStruct:
		if t.Layout != nil {
			return t.Layout.Name
		}
		return "struct"
	}
	return "invalid"
}

// SizeAlign returns the byte size and natural alignment of t. Structs
// report their computed layout; void and opaque categories report zero
// size with byte alignment.
func (t Type) SizeAlign() (size, align int) {
	switch t.Kind {
	case KindI8, KindBool:
		return 1, 1
	case KindI16:
		return 2, 2
	case KindI32, KindF32:
		return 4, 4
	case KindI64, KindF64, KindPtr:
		return 8, 8
	case KindStruct:
		if t.Layout != nil {
			return t.Layout.Size, t.Layout.Align
		}
	}
	return 0, 1
}

// Field is one member of a struct layout.
type Field struct {
	Name   string
	Type   Type
	Offset int
}

// StructLayout describes a struct type: its ordered fields with byte
// offsets, total size and alignment. Offsets are computed by
// CalculateLayout honoring natural alignment.
type StructLayout struct {
	Name   string
	Fields []Field
	Size   int
	Align  int
}

// CalculateLayout assigns field offsets in declaration order, aligning each
// field naturally, and pads the total size to the struct alignment. An
// empty struct has size 0 and alignment 1.
func (l *StructLayout) CalculateLayout() {
	offset := 0
	maxAlign := 1
	for i := range l.Fields {
		size, align := l.Fields[i].Type.SizeAlign()
		if align > maxAlign {
			maxAlign = align
		}
		offset = alignUp(offset, align)
		l.Fields[i].Offset = offset
		offset += size
	}
	l.Align = maxAlign
	l.Size = alignUp(offset, maxAlign)
}

// FieldIndex returns the index of a named field, or -1.
func (l *StructLayout) FieldIndex(name string) int {
	for i := range l.Fields {
		if l.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

func (l *StructLayout) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s { ", l.Name)
	for i, f := range l.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s @%d", f.Name, f.Type, f.Offset)
	}
	fmt.Fprintf(&b, " } size=%d align=%d", l.Size, l.Align)
	return b.String()
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

// ValueRef names an IR-level value: an integer identity paired with a
// type. Positive identities are recorded results; negative identities are
// analysis-mode sentinels handed out in dry-run mode and never appear in
// recorded commands. Identity zero is invalid/void.
type ValueRef struct {
	ID   int
	Type Type
}

// Invalid returns the invalid value reference.
func Invalid() ValueRef { return ValueRef{} }

// IsValid reports whether the reference names a value.
func (v ValueRef) IsValid() bool { return v.ID != 0 }

// Equal compares identity and type.
func (v ValueRef) Equal(o ValueRef) bool {
	return v.ID == o.ID && v.Type.Equal(o.Type)
}

func (v ValueRef) String() string {
	if !v.IsValid() {
		return "%invalid"
	}
	return fmt.Sprintf("%%%d:%s", v.ID, v.Type)
}
