package ir

import (
	"fmt"
	"strings"
)

// Op is a command opcode.
type Op int

const (
	OpConst Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpICmp
	OpAnd
	OpOr
	OpNot
	OpAlloca
	OpStore
	OpLoad
	OpGEP
	OpRet
	OpRetVoid
	OpLabel
	OpBr
	OpBrCond
	OpFunctionBegin
	OpFunctionEnd
	OpCall
)

func (op Op) String() string {
	switch op {
	case OpConst:
		return "const"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpICmp:
		return "icmp"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "not"
	case OpAlloca:
		return "alloca"
	case OpStore:
		return "store"
	case OpLoad:
		return "load"
	case OpGEP:
		return "gep"
	case OpRet:
		return "ret"
	case OpRetVoid:
		return "ret_void"
	case OpLabel:
		return "label"
	case OpBr:
		return "br"
	case OpBrCond:
		return "br_cond"
	case OpFunctionBegin:
		return "function_begin"
	case OpFunctionEnd:
		return "function_end"
	case OpCall:
		return "call"
	}
	return "unknown"
}

// IsTerminator reports whether the opcode ends a basic block.
func (op Op) IsTerminator() bool {
	switch op {
	case OpRet, OpRetVoid, OpBr, OpBrCond:
		return true
	}
	return false
}

// ICmpPredicate selects an integer comparison. Signedness is carried by
// the predicate, not the opcode.
type ICmpPredicate int

const (
	PredEq ICmpPredicate = iota
	PredNe
	PredSlt
	PredSle
	PredSgt
	PredSge
	PredUlt
	PredUle
	PredUgt
	PredUge
)

func (p ICmpPredicate) String() string {
	switch p {
	case PredEq:
		return "eq"
	case PredNe:
		return "ne"
	case PredSlt:
		return "slt"
	case PredSle:
		return "sle"
	case PredSgt:
		return "sgt"
	case PredSge:
		return "sge"
	case PredUlt:
		return "ult"
	case PredUle:
		return "ule"
	case PredUgt:
		return "ugt"
	case PredUge:
		return "uge"
	}
	return "unknown"
}

// Data is a command's optional payload, drawn from a closed set determined
// by the opcode: Const carries the literal, ICmp the predicate, Alloca the
// allocated type name, Label/Br/BrCond/Call/FunctionBegin strings. A nil
// Data means no payload.
type Data interface {
	isData()
	String() string
}

type IntData int64

func (IntData) isData()          {}
func (d IntData) String() string { return fmt.Sprintf("%d", int64(d)) }

type BoolData bool

func (BoolData) isData() {}
func (d BoolData) String() string {
	if d {
		return "true"
	}
	return "false"
}

type FloatData float64

func (FloatData) isData()          {}
func (d FloatData) String() string { return fmt.Sprintf("%g", float64(d)) }

type StringData string

func (StringData) isData()          {}
func (d StringData) String() string { return string(d) }

type PredicateData ICmpPredicate

func (PredicateData) isData()          {}
func (d PredicateData) String() string { return ICmpPredicate(d).String() }

// Command is one element of the IR stream. Op, operands and payload fully
// determine a command; Result is invalid for void-producing operations.
type Command struct {
	Op     Op
	Result ValueRef
	Args   []ValueRef
	Data   Data
}

// Equal reports whether two commands have equal opcode, operands and
// payload; those three components fully determine a command.
func (c Command) Equal(o Command) bool {
	if c.Op != o.Op || len(c.Args) != len(o.Args) {
		return false
	}
	for i := range c.Args {
		if !c.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return c.Data == o.Data
}

func (c Command) String() string {
	var b strings.Builder
	if c.Result.IsValid() {
		fmt.Fprintf(&b, "%s = ", c.Result)
	}
	b.WriteString(c.Op.String())
	for _, arg := range c.Args {
		b.WriteByte(' ')
		b.WriteString(arg.String())
	}
	if c.Data != nil {
		fmt.Fprintf(&b, " [%s]", c.Data)
	}
	return b.String()
}
