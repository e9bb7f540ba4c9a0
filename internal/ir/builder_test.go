package ir

import (
	"testing"

	"github.com/nalgeon/be"
	_ "github.com/tliron/commonlog/simple"
)

func TestConstValueIDsAreSequential(t *testing.T) {
	b := NewBuilder()

	one := b.ConstI32(1)
	two := b.ConstI32(2)
	sum := b.Add(one, two)

	be.Equal(t, one.ID, 1)
	be.Equal(t, two.ID, 2)
	be.Equal(t, sum.ID, 3)
	be.True(t, sum.Type.Equal(I32()))
	be.Equal(t, len(b.Commands()), 3)
}

func TestArithmeticTypeMismatch(t *testing.T) {
	b := NewBuilder()

	lhs := b.ConstI32(1)
	rhs := b.ConstI64(2)
	sum := b.Add(lhs, rhs)

	// The mismatch is reported, nothing is appended, and the caller gets
	// the invalid reference back.
	be.True(t, !sum.IsValid())
	be.Equal(t, len(b.Commands()), 2)
}

func TestICmpYieldsBool(t *testing.T) {
	b := NewBuilder()

	cmp := b.ICmp(PredSlt, b.ConstI32(1), b.ConstI32(2))
	be.True(t, cmp.Type.IsBool())

	cmd := b.Commands()[2]
	be.Equal(t, cmd.Op, OpICmp)
	be.Equal(t, cmd.Data, Data(PredicateData(PredSlt)))

	bad := b.ICmp(PredEq, b.ConstI32(1), b.ConstBool(true))
	be.True(t, !bad.IsValid())
}

func TestLogicalRequireBool(t *testing.T) {
	b := NewBuilder()

	i := b.ConstI32(1)
	cond := b.ConstBool(true)

	be.True(t, !b.And(i, cond).IsValid())
	be.True(t, !b.Or(cond, i).IsValid())
	be.True(t, !b.Not(i).IsValid())
	be.True(t, b.Not(cond).IsValid())
	be.True(t, b.And(cond, cond).IsValid())
}

func TestMemoryOperations(t *testing.T) {
	b := NewBuilder()

	slot := b.Alloca(I32())
	be.True(t, slot.Type.IsPtr())
	be.True(t, slot.Type.Pointee().Equal(I32()))

	value := b.ConstI32(7)
	b.Store(value, slot)

	loaded := b.Load(slot, I32())
	be.True(t, loaded.Type.Equal(I32()))

	// Store through a non-pointer appends nothing.
	before := len(b.Commands())
	b.Store(value, value)
	be.Equal(t, len(b.Commands()), before)

	be.True(t, !b.Load(value, I32()).IsValid())
}

func TestGEP(t *testing.T) {
	b := NewBuilder()

	layout := &StructLayout{Name: "P", Fields: []Field{{Name: "x", Type: I32()}}}
	layout.CalculateLayout()

	base := b.Alloca(Struct(layout))
	field := b.GEP(base, []int{0, 0}, PtrTo(I32()))
	be.True(t, field.IsValid())

	cmd := b.Commands()[1]
	be.Equal(t, cmd.Data, Data(StringData("0,0")))

	be.True(t, !b.GEP(b.ConstI32(1), []int{0}, Ptr()).IsValid())
}

func TestConstNullRequiresPointer(t *testing.T) {
	b := NewBuilder()

	be.True(t, b.ConstNull(Ptr()).IsValid())
	be.True(t, b.ConstNull(PtrTo(I8())).IsValid())
	be.True(t, !b.ConstNull(I32()).IsValid())
}

func TestBrCondRequiresBool(t *testing.T) {
	b := NewBuilder()

	cond := b.ConstI32(1)
	before := len(b.Commands())
	b.BrCond(cond, "then", "else")
	be.Equal(t, len(b.Commands()), before)

	b.BrCond(b.ConstBool(true), "then", "else")
	last := b.Commands()[len(b.Commands())-1]
	be.Equal(t, last.Op, OpBrCond)
	be.Equal(t, last.Data, Data(StringData("then,else")))
}

func TestHasTerminator(t *testing.T) {
	b := NewBuilder()
	be.True(t, !b.HasTerminator())

	b.Label("L")
	be.True(t, !b.HasTerminator())

	b.RetVoid()
	b.Label("M")
	// The last non-label command is the ret.
	be.True(t, b.HasTerminator())

	b.ConstI32(1)
	be.True(t, !b.HasTerminator())

	b.Br("L")
	be.True(t, b.HasTerminator())
}

func TestFunctionSignatureEncoding(t *testing.T) {
	b := NewBuilder()

	b.FunctionBegin("main", I32(), nil)
	be.Equal(t, b.Commands()[0].Data, Data(StringData("main:i32")))

	b.FunctionBegin("max", I64(), []Type{I64(), I64()})
	be.Equal(t, b.Commands()[1].Data, Data(StringData("max:i64:i64,i64")))

	b.FunctionEnd()
	be.Equal(t, b.Commands()[2].Op, OpFunctionEnd)
}

func TestCall(t *testing.T) {
	b := NewBuilder()

	arg := b.ConstI32(3)
	result := b.Call("square", I32(), []ValueRef{arg})
	be.True(t, result.IsValid())
	be.True(t, result.Type.Equal(I32()))

	// A void call produces no result value.
	void := b.Call("log", Void(), nil)
	be.True(t, !void.IsValid())
}

func TestDryRunInertness(t *testing.T) {
	b := NewBuilder()
	b.SetIgnoreWrites(true)

	one := b.ConstI32(1)
	two := b.ConstI32(2)
	sum := b.Add(one, two)
	b.Store(sum, b.Alloca(I32()))
	b.Label("L")
	b.RetVoid()

	// A session spent entirely in dry-run mode records nothing.
	be.Equal(t, len(b.Commands()), 0)

	// Fresh negative ids are still handed out, advancing deterministically.
	be.Equal(t, one.ID, -1)
	be.Equal(t, two.ID, -2)
	be.Equal(t, sum.ID, -3)
	be.True(t, sum.Type.Equal(I32()))
}

func TestDryRunSharesCounter(t *testing.T) {
	b := NewBuilder()

	recorded := b.ConstI32(1)
	be.Equal(t, recorded.ID, 1)

	b.SetIgnoreWrites(true)
	ghost := b.ConstI32(2)
	be.Equal(t, ghost.ID, -2)

	b.SetIgnoreWrites(false)
	next := b.ConstI32(3)
	// The dry-run emission advanced the shared counter.
	be.Equal(t, next.ID, 3)
	be.Equal(t, len(b.Commands()), 2)
}

// TestBuilderTypeSafety sweeps a recorded stream and re-checks the
// invariants the builder enforces per emission.
func TestBuilderTypeSafety(t *testing.T) {
	b := NewBuilder()

	x := b.Alloca(I32())
	one := b.ConstI32(1)
	two := b.ConstI32(2)
	sum := b.Add(one, two)
	b.Store(sum, x)
	loaded := b.Load(x, I32())
	cmp := b.ICmp(PredSgt, loaded, one)
	flag := b.ConstBool(false)
	b.And(cmp, flag)
	b.BrCond(cmp, "a", "b")
	b.Label("a")
	b.Ret(loaded)

	for _, cmd := range b.Commands() {
		switch cmd.Op {
		case OpAdd, OpSub, OpMul, OpDiv, OpICmp:
			be.Equal(t, len(cmd.Args), 2)
			be.True(t, cmd.Args[0].Type.Equal(cmd.Args[1].Type))
		case OpStore:
			be.True(t, cmd.Args[1].Type.IsPtr())
		case OpLoad:
			be.True(t, cmd.Args[0].Type.IsPtr())
		case OpBrCond:
			be.True(t, cmd.Args[0].Type.IsBool())
		case OpAnd, OpOr, OpNot:
			for _, arg := range cmd.Args {
				be.True(t, arg.Type.IsBool())
			}
		}
	}
}

func TestCommandEquality(t *testing.T) {
	a := Command{Op: OpConst, Result: ValueRef{ID: 1, Type: I32()}, Data: IntData(42)}
	b := Command{Op: OpConst, Result: ValueRef{ID: 9, Type: I32()}, Data: IntData(42)}
	c := Command{Op: OpConst, Result: ValueRef{ID: 1, Type: I32()}, Data: IntData(43)}

	// Opcode, operands and payload determine a command.
	be.True(t, a.Equal(b))
	be.True(t, !a.Equal(c))

	d := Command{Op: OpAdd, Args: []ValueRef{{ID: 1, Type: I32()}, {ID: 2, Type: I32()}}}
	e := Command{Op: OpAdd, Args: []ValueRef{{ID: 1, Type: I32()}, {ID: 3, Type: I32()}}}
	be.True(t, !d.Equal(e))
}
