package ir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("hotate.codegen")

// Builder emits typed commands into an append-only buffer, type-checking
// each emission. A malformed emission logs a diagnostic, appends nothing
// and returns the invalid reference so callers can propagate the error
// without crashing.
//
// In dry-run mode (ignoreWrites) every emission still allocates a fresh
// value id — negated, so dry-run values never collide with recorded ones —
// but appends no command; positive and negative id spaces advance the same
// counter, keeping identities deterministic across modes.
type Builder struct {
	nextID       int
	commands     []Command
	ignoreWrites bool
}

// NewBuilder returns a builder whose first recorded value will be %1.
func NewBuilder() *Builder {
	return &Builder{nextID: 1}
}

// SetIgnoreWrites toggles dry-run mode.
func (b *Builder) SetIgnoreWrites(ignore bool) { b.ignoreWrites = ignore }

// IgnoreWrites reports whether the builder is in dry-run mode.
func (b *Builder) IgnoreWrites() bool { return b.ignoreWrites }

// Commands exposes the recorded stream. The slice is the builder's ground
// truth; downstream code-generation consumes it after the builder is done.
func (b *Builder) Commands() []Command { return b.commands }

func (b *Builder) emit(op Op, typ Type, args []ValueRef) ValueRef {
	return b.emitData(op, typ, args, nil)
}

func (b *Builder) emitData(op Op, typ Type, args []ValueRef, data Data) ValueRef {
	if b.ignoreWrites {
		id := b.nextID
		b.nextID++
		return ValueRef{ID: -id, Type: typ}
	}

	result := Invalid()
	if !typ.IsVoid() {
		result = ValueRef{ID: b.nextID, Type: typ}
		b.nextID++
	}

	b.commands = append(b.commands, Command{Op: op, Result: result, Args: args, Data: data})
	return result
}

// --- Constants ---

func (b *Builder) ConstI32(value int32) ValueRef {
	return b.emitData(OpConst, I32(), nil, IntData(value))
}

func (b *Builder) ConstI64(value int64) ValueRef {
	return b.emitData(OpConst, I64(), nil, IntData(value))
}

func (b *Builder) ConstBool(value bool) ValueRef {
	return b.emitData(OpConst, Bool(), nil, BoolData(value))
}

func (b *Builder) ConstF32(value float32) ValueRef {
	return b.emitData(OpConst, F32(), nil, FloatData(value))
}

func (b *Builder) ConstF64(value float64) ValueRef {
	return b.emitData(OpConst, F64(), nil, FloatData(value))
}

// ConstNull emits a null constant of the given pointer type.
func (b *Builder) ConstNull(ptrType Type) ValueRef {
	if !ptrType.IsPtr() {
		log.Errorf("const_null requires a pointer type, got %s", ptrType)
		return Invalid()
	}
	return b.emitData(OpConst, ptrType, nil, IntData(0))
}

// --- Arithmetic ---

func (b *Builder) Add(lhs, rhs ValueRef) ValueRef { return b.binary(OpAdd, lhs, rhs) }
func (b *Builder) Sub(lhs, rhs ValueRef) ValueRef { return b.binary(OpSub, lhs, rhs) }
func (b *Builder) Mul(lhs, rhs ValueRef) ValueRef { return b.binary(OpMul, lhs, rhs) }
func (b *Builder) Div(lhs, rhs ValueRef) ValueRef { return b.binary(OpDiv, lhs, rhs) }

func (b *Builder) binary(op Op, lhs, rhs ValueRef) ValueRef {
	if !lhs.Type.Equal(rhs.Type) {
		log.Errorf("type mismatch in %s operation: %s vs %s", op, lhs.Type, rhs.Type)
		return Invalid()
	}
	return b.emit(op, lhs.Type, []ValueRef{lhs, rhs})
}

// --- Comparison ---

// ICmp emits an integer comparison; the result is always bool.
func (b *Builder) ICmp(pred ICmpPredicate, lhs, rhs ValueRef) ValueRef {
	if !lhs.Type.Equal(rhs.Type) {
		log.Errorf("type mismatch in icmp operation: %s vs %s", lhs.Type, rhs.Type)
		return Invalid()
	}
	return b.emitData(OpICmp, Bool(), []ValueRef{lhs, rhs}, PredicateData(pred))
}

// --- Logical ---

func (b *Builder) And(lhs, rhs ValueRef) ValueRef {
	if !lhs.Type.IsBool() || !rhs.Type.IsBool() {
		log.Errorf("logical and requires boolean operands")
		return Invalid()
	}
	return b.emit(OpAnd, Bool(), []ValueRef{lhs, rhs})
}

func (b *Builder) Or(lhs, rhs ValueRef) ValueRef {
	if !lhs.Type.IsBool() || !rhs.Type.IsBool() {
		log.Errorf("logical or requires boolean operands")
		return Invalid()
	}
	return b.emit(OpOr, Bool(), []ValueRef{lhs, rhs})
}

func (b *Builder) Not(operand ValueRef) ValueRef {
	if !operand.Type.IsBool() {
		log.Errorf("logical not requires a boolean operand, got %s", operand.Type)
		return Invalid()
	}
	return b.emit(OpNot, Bool(), []ValueRef{operand})
}

// --- Memory ---

// Alloca reserves a stack slot for typ and yields a pointer to it. The
// payload records the allocated type's name for the backend.
func (b *Builder) Alloca(typ Type) ValueRef {
	return b.emitData(OpAlloca, PtrTo(typ), nil, StringData(typ.String()))
}

// Store writes value through ptr. Void-producing; nothing is appended on a
// non-pointer target.
func (b *Builder) Store(value, ptr ValueRef) {
	if !ptr.Type.IsPtr() {
		log.Errorf("store target must be a pointer, got %s", ptr.Type)
		return
	}
	b.emit(OpStore, Void(), []ValueRef{value, ptr})
}

// Load reads a value of typ through ptr.
func (b *Builder) Load(ptr ValueRef, typ Type) ValueRef {
	if !ptr.Type.IsPtr() {
		log.Errorf("load source must be a pointer, got %s", ptr.Type)
		return Invalid()
	}
	return b.emit(OpLoad, typ, []ValueRef{ptr})
}

// GEP computes an element address from a base pointer and constant
// indices; the payload is the comma-joined index list.
func (b *Builder) GEP(ptr ValueRef, indices []int, resultType Type) ValueRef {
	if !ptr.Type.IsPtr() {
		log.Errorf("gep requires a pointer operand, got %s", ptr.Type)
		return Invalid()
	}
	parts := make([]string, len(indices))
	for i, index := range indices {
		parts[i] = strconv.Itoa(index)
	}
	return b.emitData(OpGEP, resultType, []ValueRef{ptr}, StringData(strings.Join(parts, ",")))
}

// --- Control flow ---

func (b *Builder) Ret(value ValueRef) {
	b.emit(OpRet, Void(), []ValueRef{value})
}

func (b *Builder) RetVoid() {
	b.emit(OpRetVoid, Void(), nil)
}

// Label marks a branch target. Labels are unique per function; the backend
// resolves branches by name.
func (b *Builder) Label(name string) {
	b.emitData(OpLabel, Void(), nil, StringData(name))
}

func (b *Builder) Br(targetLabel string) {
	b.emitData(OpBr, Void(), nil, StringData(targetLabel))
}

// BrCond branches on a boolean condition; the payload carries
// "trueLabel,falseLabel".
func (b *Builder) BrCond(condition ValueRef, trueLabel, falseLabel string) {
	if !condition.Type.IsBool() {
		log.Errorf("conditional branch condition must be boolean, got %s", condition.Type)
		return
	}
	b.emitData(OpBrCond, Void(), []ValueRef{condition}, StringData(trueLabel+","+falseLabel))
}

// HasTerminator reports whether the last non-label command is a
// terminator. Labels alone never terminate; an empty buffer has no
// terminator.
func (b *Builder) HasTerminator() bool {
	for i := len(b.commands) - 1; i >= 0; i-- {
		cmd := b.commands[i]
		if cmd.Op == OpLabel {
			continue
		}
		return cmd.Op.IsTerminator()
	}
	return false
}

// --- Functions ---

// FunctionBegin opens a function. The payload encodes the signature as
// "name:returnType[:param1,param2,...]" for the backend to parse.
func (b *Builder) FunctionBegin(name string, returnType Type, paramTypes []Type) {
	signature := name + ":" + returnType.String()
	if len(paramTypes) > 0 {
		parts := make([]string, len(paramTypes))
		for i, p := range paramTypes {
			parts[i] = p.String()
		}
		signature += ":" + strings.Join(parts, ",")
	}
	b.emitData(OpFunctionBegin, Void(), nil, StringData(signature))
}

func (b *Builder) FunctionEnd() {
	b.emit(OpFunctionEnd, Void(), nil)
}

// Call emits a call by function name.
func (b *Builder) Call(functionName string, returnType Type, args []ValueRef) ValueRef {
	return b.emitData(OpCall, returnType, args, StringData(functionName))
}

// DumpCommands logs the recorded stream at debug level.
func (b *Builder) DumpCommands() {
	log.Debugf("command stream (%d commands):", len(b.commands))
	for i, cmd := range b.commands {
		log.Debug(fmt.Sprintf("[%d] %s", i, cmd))
	}
}
