package ir

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// The wire form of a command stream is canonical CBOR so two encodings of
// the same stream are byte-identical. The backend decodes the stream and
// materializes struct layouts from the attached layout objects.

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("ir: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

const wireVersion = 1

type wireModule struct {
	Version  int           `cbor:"v"`
	Commands []wireCommand `cbor:"cmds"`
}

type wireCommand struct {
	Op     int         `cbor:"op"`
	Result wireValue   `cbor:"res"`
	Args   []wireValue `cbor:"args,omitempty"`

	// Exactly one of the payload fields is set, selected by DataKind.
	DataKind int     `cbor:"dk"`
	Int      int64   `cbor:"i,omitempty"`
	Bool     bool    `cbor:"b,omitempty"`
	Float    float64 `cbor:"f,omitempty"`
	Str      string  `cbor:"s,omitempty"`
	Pred     int     `cbor:"p,omitempty"`
}

const (
	wireDataNone = iota
	wireDataInt
	wireDataBool
	wireDataFloat
	wireDataString
	wireDataPred
)

type wireValue struct {
	ID   int      `cbor:"id"`
	Type wireType `cbor:"t"`
}

type wireType struct {
	Kind   int        `cbor:"k"`
	Elem   *wireType  `cbor:"e,omitempty"`
	Layout *wireLayout `cbor:"l,omitempty"`
}

type wireLayout struct {
	Name   string      `cbor:"n"`
	Fields []wireField `cbor:"fs,omitempty"`
	Size   int         `cbor:"sz"`
	Align  int         `cbor:"al"`
}

type wireField struct {
	Name   string   `cbor:"n"`
	Type   wireType `cbor:"t"`
	Offset int      `cbor:"o"`
}

// EncodeModule serializes a finished command stream to its wire form.
func EncodeModule(commands []Command) ([]byte, error) {
	mod := wireModule{Version: wireVersion, Commands: make([]wireCommand, len(commands))}
	for i, cmd := range commands {
		wc, err := toWireCommand(cmd)
		if err != nil {
			return nil, fmt.Errorf("ir: encode command %d: %w", i, err)
		}
		mod.Commands[i] = wc
	}
	return cborEncMode.Marshal(mod)
}

// DecodeModule deserializes a command stream from its wire form.
func DecodeModule(data []byte) ([]Command, error) {
	var mod wireModule
	if err := cbor.Unmarshal(data, &mod); err != nil {
		return nil, fmt.Errorf("ir: unmarshal module: %w", err)
	}
	if mod.Version != wireVersion {
		return nil, fmt.Errorf("ir: unsupported wire version %d", mod.Version)
	}
	commands := make([]Command, len(mod.Commands))
	for i, wc := range mod.Commands {
		cmd, err := fromWireCommand(wc)
		if err != nil {
			return nil, fmt.Errorf("ir: decode command %d: %w", i, err)
		}
		commands[i] = cmd
	}
	return commands, nil
}

func toWireCommand(cmd Command) (wireCommand, error) {
	wc := wireCommand{
		Op:     int(cmd.Op),
		Result: toWireValue(cmd.Result),
	}
	if len(cmd.Args) > 0 {
		wc.Args = make([]wireValue, len(cmd.Args))
		for i, arg := range cmd.Args {
			wc.Args[i] = toWireValue(arg)
		}
	}
	switch d := cmd.Data.(type) {
	case nil:
		wc.DataKind = wireDataNone
	case IntData:
		wc.DataKind = wireDataInt
		wc.Int = int64(d)
	case BoolData:
		wc.DataKind = wireDataBool
		wc.Bool = bool(d)
	case FloatData:
		wc.DataKind = wireDataFloat
		wc.Float = float64(d)
	case StringData:
		wc.DataKind = wireDataString
		wc.Str = string(d)
	case PredicateData:
		wc.DataKind = wireDataPred
		wc.Pred = int(d)
	default:
		return wireCommand{}, fmt.Errorf("unknown payload %T", cmd.Data)
	}
	return wc, nil
}

func fromWireCommand(wc wireCommand) (Command, error) {
	cmd := Command{
		Op:     Op(wc.Op),
		Result: fromWireValue(wc.Result),
	}
	if len(wc.Args) > 0 {
		cmd.Args = make([]ValueRef, len(wc.Args))
		for i, arg := range wc.Args {
			cmd.Args[i] = fromWireValue(arg)
		}
	}
	switch wc.DataKind {
	case wireDataNone:
	case wireDataInt:
		cmd.Data = IntData(wc.Int)
	case wireDataBool:
		cmd.Data = BoolData(wc.Bool)
	case wireDataFloat:
		cmd.Data = FloatData(wc.Float)
	case wireDataString:
		cmd.Data = StringData(wc.Str)
	case wireDataPred:
		cmd.Data = PredicateData(wc.Pred)
	default:
		return Command{}, fmt.Errorf("unknown payload kind %d", wc.DataKind)
	}
	return cmd, nil
}

func toWireValue(v ValueRef) wireValue {
	return wireValue{ID: v.ID, Type: toWireType(v.Type)}
}

func fromWireValue(v wireValue) ValueRef {
	return ValueRef{ID: v.ID, Type: fromWireType(v.Type)}
}

func toWireType(t Type) wireType {
	wt := wireType{Kind: int(t.Kind)}
	if t.Elem != nil {
		elem := toWireType(*t.Elem)
		wt.Elem = &elem
	}
	if t.Layout != nil {
		wl := wireLayout{
			Name:  t.Layout.Name,
			Size:  t.Layout.Size,
			Align: t.Layout.Align,
		}
		for _, f := range t.Layout.Fields {
			wl.Fields = append(wl.Fields, wireField{Name: f.Name, Type: toWireType(f.Type), Offset: f.Offset})
		}
		wt.Layout = &wl
	}
	return wt
}

func fromWireType(wt wireType) Type {
	t := Type{Kind: Kind(wt.Kind)}
	if wt.Elem != nil {
		elem := fromWireType(*wt.Elem)
		t.Elem = &elem
	}
	if wt.Layout != nil {
		layout := &StructLayout{
			Name:  wt.Layout.Name,
			Size:  wt.Layout.Size,
			Align: wt.Layout.Align,
		}
		for _, f := range wt.Layout.Fields {
			layout.Fields = append(layout.Fields, Field{Name: f.Name, Type: fromWireType(f.Type), Offset: f.Offset})
		}
		t.Layout = layout
	}
	return t
}
