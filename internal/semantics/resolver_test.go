package semantics

import (
	"testing"

	"github.com/nalgeon/be"

	"hotate/internal/ast"
	"hotate/internal/ir"
)

func TestExtractDependencies(t *testing.T) {
	table := NewSymbolTable()

	// Literals carry no dependencies.
	be.Equal(t, len(table.ExtractDependencies(intLit("1"))), 0)

	// Identifiers carry their own name.
	be.Equal(t, table.ExtractDependencies(ident("a")), []string{"a"})

	// Binary expressions union their children in source order, duplicates
	// preserved.
	expr := bin(ast.BinaryAdd, ident("a"), bin(ast.BinaryMultiply, ident("b"), ident("a")))
	be.Equal(t, table.ExtractDependencies(expr), []string{"a", "b", "a"})

	be.Equal(t, table.ExtractDependencies(un(ast.UnaryMinus, ident("n"))), []string{"n"})

	// Calls contribute the callee name, then argument deps.
	be.Equal(t, table.ExtractDependencies(call(ident("f"), ident("x"), intLit("1"))), []string{"f", "x"})

	// Method calls contribute the receiver's deps instead of a name.
	be.Equal(t, table.ExtractDependencies(call(member(ident("obj"), "m"), ident("y"))), []string{"obj", "y"})

	// Assignments depend on their source only.
	assign := &ast.AssignmentExpressionNode{Target: ident("dst"), Source: ident("src")}
	be.Equal(t, table.ExtractDependencies(assign), []string{"src"})

	// new T(args) depends on the type, then the arguments.
	be.Equal(t, table.ExtractDependencies(newOf("Player", ident("hp"))), []string{"Player", "hp"})

	// Member access depends on the target object; the struct type comes in
	// transitively through the target's type.
	be.Equal(t, table.ExtractDependencies(member(ident("p"), "b")), []string{"p"})

	be.Equal(t, len(table.ExtractDependencies(nil)), 0)
}

func TestInferLiteralTypes(t *testing.T) {
	table := NewSymbolTable()

	be.Equal(t, table.InferTypeFromExpression(intLit("42")), "i32")
	be.Equal(t, table.InferTypeFromExpression(boolLit("true")), "bool")
	be.Equal(t, table.InferTypeFromExpression(strLit("hi")), "string")
	be.Equal(t, table.InferTypeFromExpression(floatLit("1.5")), "f32")
	be.Equal(t, table.InferTypeFromExpression(nil), "void")
}

func TestInferOperatorTypes(t *testing.T) {
	table := NewSymbolTable()

	be.Equal(t, table.InferTypeFromExpression(bin(ast.BinaryLessThan, intLit("1"), intLit("2"))), "bool")
	be.Equal(t, table.InferTypeFromExpression(bin(ast.BinaryLogicalAnd, boolLit("true"), boolLit("false"))), "bool")
	be.Equal(t, table.InferTypeFromExpression(bin(ast.BinaryAdd, intLit("1"), intLit("2"))), "i32")
	be.Equal(t, table.InferTypeFromExpression(un(ast.UnaryNot, boolLit("true"))), "bool")
	be.Equal(t, table.InferTypeFromExpression(un(ast.UnaryMinus, floatLit("2.0"))), "f32")

	// An arithmetic expression takes whichever side resolves first.
	table.DeclareSymbol("f", SymbolVariable, ir.F64(), "f64")
	be.Equal(t, table.InferTypeFromExpression(bin(ast.BinaryAdd, ident("unknown"), ident("f"))), "f64")

	be.Equal(t, table.InferTypeFromExpression(bin(ast.BinaryAdd, ident("u1"), ident("u2"))), "unresolved")
}

// Scenario: x := 1 + 2 at global scope resolves to i32 with no
// dependencies.
func TestResolveInferredInteger(t *testing.T) {
	table := NewSymbolTable()
	table.DeclareUnresolvedSymbol("x", SymbolVariable, bin(ast.BinaryAdd, intLit("1"), intLit("2")))

	be.True(t, table.ResolveAllTypes())

	x := table.Lookup("x")
	be.Equal(t, x.State, StateResolved)
	be.Equal(t, x.TypeName, "i32")
	be.True(t, x.DataType.Equal(ir.I32()))
	be.Equal(t, len(x.Dependencies), 0)
}

// Scenario: a := b; b := 7 — resolving a first resolves its dependency b
// recursively, so the forward reference resolves in the same pass.
func TestResolveForwardReference(t *testing.T) {
	table := NewSymbolTable()
	table.DeclareUnresolvedSymbol("a", SymbolVariable, ident("b"))
	table.DeclareUnresolvedSymbol("b", SymbolVariable, intLit("7"))

	be.True(t, table.ResolveAllTypes())

	be.Equal(t, table.Lookup("a").TypeName, "i32")
	be.Equal(t, table.Lookup("b").TypeName, "i32")
	be.Equal(t, table.Lookup("a").State, StateResolved)
	be.Equal(t, table.Lookup("b").State, StateResolved)
}

// Scenario: a := b; b := a — the cycle is reported and both symbols stay
// unresolved.
func TestResolveCycleFails(t *testing.T) {
	table := NewSymbolTable()
	table.DeclareUnresolvedSymbol("a", SymbolVariable, ident("b"))
	table.DeclareUnresolvedSymbol("b", SymbolVariable, ident("a"))

	be.True(t, !table.ResolveAllTypes())

	be.Equal(t, table.Lookup("a").State, StateUnresolved)
	be.Equal(t, table.Lookup("b").State, StateUnresolved)
}

// Scenario: class Player { i32 b; }; p := new Player(); q := p.b.
func TestResolveMemberAccess(t *testing.T) {
	table := NewSymbolTable()
	ok := BuildSymbolTable(table, unit(
		classDecl("Player", typedVar("i32", "b")),
		inferredVar(newOf("Player"), "p"),
		inferredVar(member(ident("p"), "b"), "q"),
	))
	be.True(t, ok)

	p := table.Lookup("p")
	be.Equal(t, p.State, StateResolved)
	be.Equal(t, p.TypeName, "Player")
	be.Equal(t, p.DataType.Kind, ir.KindStruct)
	be.Equal(t, p.DataType.Layout.Name, "Player")
	be.Equal(t, len(p.DataType.Layout.Fields), 1)
	be.Equal(t, p.DataType.Layout.Fields[0].Name, "b")
	be.True(t, p.DataType.Layout.Fields[0].Type.Equal(ir.I32()))

	q := table.Lookup("q")
	be.Equal(t, q.State, StateResolved)
	be.Equal(t, q.TypeName, "i32")
}

// A symbol with no initializer cannot be inferred and fails resolution
// without poisoning its state.
func TestResolveMissingInitializer(t *testing.T) {
	table := NewSymbolTable()
	table.DeclareUnresolvedSymbol("x", SymbolVariable, nil)

	be.True(t, !table.ResolveAllTypes())
	be.Equal(t, table.Lookup("x").State, StateUnresolved)
}

func TestResolveCallReturnType(t *testing.T) {
	table := NewSymbolTable()
	table.DeclareSymbol("answer", SymbolFunction, ir.I64(), "i64")
	table.DeclareUnresolvedSymbol("x", SymbolVariable, call(ident("answer")))

	be.True(t, table.ResolveAllTypes())
	be.Equal(t, table.Lookup("x").TypeName, "i64")
}

func TestResolveMethodCallReturnType(t *testing.T) {
	table := NewSymbolTable()
	ok := BuildSymbolTable(table, unit(
		classDecl("Counter",
			typedVar("i32", "value"),
			funcDecl("current", simpleType("i32"), nil),
		),
		inferredVar(newOf("Counter"), "c"),
		inferredVar(call(member(ident("c"), "current")), "n"),
	))
	be.True(t, ok)

	be.Equal(t, table.Lookup("c").TypeName, "Counter")
	be.Equal(t, table.Lookup("n").TypeName, "i32")
}

func TestResolveAssignmentTakesSourceType(t *testing.T) {
	table := NewSymbolTable()
	assign := &ast.AssignmentExpressionNode{Target: ident("y"), Source: strLit("s")}
	table.DeclareUnresolvedSymbol("x", SymbolVariable, assign)

	be.True(t, table.ResolveAllTypes())
	be.Equal(t, table.Lookup("x").TypeName, "string")
	be.True(t, table.Lookup("x").DataType.Equal(ir.Ptr()))
}

// Resolution is deterministic: two identical tables resolve to identical
// results.
func TestResolveDeterministic(t *testing.T) {
	build := func() *SymbolTable {
		table := NewSymbolTable()
		table.DeclareUnresolvedSymbol("a", SymbolVariable, ident("b"))
		table.DeclareUnresolvedSymbol("b", SymbolVariable, bin(ast.BinaryAdd, ident("c"), intLit("1")))
		table.DeclareUnresolvedSymbol("c", SymbolVariable, floatLit("2.0"))
		return table
	}

	first := build()
	second := build()
	be.Equal(t, first.ResolveAllTypes(), second.ResolveAllTypes())

	for _, name := range []string{"a", "b", "c"} {
		be.Equal(t, first.Lookup(name).TypeName, second.Lookup(name).TypeName)
		be.Equal(t, first.Lookup(name).State, second.Lookup(name).State)
	}
	be.Equal(t, first.Lookup("a").TypeName, "f32")
}

// Shadowing: the dependency resolves to the occurrence the dependent
// symbol actually sees from its own scope.
func TestResolveShadowedDependencyInContext(t *testing.T) {
	table := NewSymbolTable()
	table.DeclareSymbol("v", SymbolVariable, ir.Bool(), "bool")
	table.EnterNamedScope("f")
	table.DeclareUnresolvedSymbol("v", SymbolVariable, strLit("inner"))
	table.DeclareUnresolvedSymbol("w", SymbolVariable, ident("v"))
	table.ExitScope()

	be.True(t, table.ResolveAllTypes())
	// w sees the inner v, not the global bool one.
	scopeID := table.FindScopeByName("f")
	be.Equal(t, table.LookupInScope(scopeID, "w").TypeName, "string")
}
