package ast

import (
	"os"
	"testing"

	"github.com/nalgeon/be"
	_ "github.com/tliron/commonlog/simple"
)

func TestMain(m *testing.M) {
	Initialize()
	os.Exit(m.Run())
}

func sampleNodes() []Node {
	return []Node{
		&TokenNode{},
		&IdentifierNode{Name: "x"},
		&ErrorNode{Message: "bad"},
		&LiteralExpressionNode{Kind: LiteralInteger, Text: "1"},
		&IdentifierExpressionNode{Identifier: &IdentifierNode{Name: "x"}},
		&BinaryExpressionNode{OpKind: BinaryAdd},
		&UnaryExpressionNode{OpKind: UnaryNot},
		&AssignmentExpressionNode{},
		&CallExpressionNode{},
		&MemberAccessExpressionNode{},
		&NewExpressionNode{},
		&ThisExpressionNode{},
		&EmptyStatementNode{},
		&BlockStatementNode{},
		&IfStatementNode{},
		&WhileStatementNode{},
		&ForStatementNode{},
		&ReturnStatementNode{},
		&ParameterNode{},
		&VariableDeclarationNode{},
		&FieldDeclarationNode{},
		&FunctionDeclarationNode{},
		&TypeDeclarationNode{},
		&ClassDeclarationNode{},
		&StructDeclarationNode{},
		&InterfaceDeclarationNode{},
		&EnumDeclarationNode{},
		&NamespaceDeclarationNode{},
		&TypeNameNode{},
		&QualifiedTypeNameNode{},
		&PointerTypeNameNode{},
		&ArrayTypeNameNode{},
		&GenericTypeNameNode{},
		&CompilationUnitNode{},
	}
}

// isAncestor reports whether t is on the base chain of info (inclusive).
func isAncestor(info, t *TypeInfo) bool {
	for cur := info; cur != nil; cur = cur.Base {
		if cur == t {
			return true
		}
	}
	return false
}

func TestInitializeIdempotent(t *testing.T) {
	count := len(OrderedTypeInfos())
	Initialize()
	be.Equal(t, len(OrderedTypeInfos()), count)
}

func TestTypeIDsAreContiguousPerSubtree(t *testing.T) {
	infos := OrderedTypeInfos()
	be.Equal(t, len(infos), len(allTypeInfos))

	for i, info := range infos {
		be.Equal(t, int(info.ID), i)
	}

	// A type's descendants occupy exactly the ids following its own.
	for _, info := range infos {
		for _, other := range infos {
			inRange := info.ID <= other.ID && other.ID <= info.ID+info.DescendantCount
			be.Equal(t, inRange, isAncestor(other, info))
		}
	}
}

func TestIsMatchesBaseChain(t *testing.T) {
	for _, node := range sampleNodes() {
		for _, info := range OrderedTypeInfos() {
			be.Equal(t, Is(node, info), isAncestor(node.TypeInfo(), info))
		}
	}
}

func TestIsCategoryRanges(t *testing.T) {
	binary := Node(&BinaryExpressionNode{})
	be.True(t, Is(binary, ExpressionType))
	be.True(t, Is(binary, NodeType))
	be.True(t, !Is(binary, StatementType))

	// Declarations are statements.
	varDecl := Node(&VariableDeclarationNode{})
	be.True(t, Is(varDecl, DeclarationType))
	be.True(t, Is(varDecl, StatementType))
	be.True(t, !Is(varDecl, ExpressionType))

	// Class and struct declarations share the type-declaration range.
	be.True(t, Is(&ClassDeclarationNode{}, TypeDeclarationType))
	be.True(t, Is(&StructDeclarationNode{}, TypeDeclarationType))
	be.True(t, Is(&EnumDeclarationNode{}, TypeDeclarationType))
	be.True(t, !Is(&ParameterNode{}, TypeDeclarationType))

	be.True(t, Is(&ArrayTypeNameNode{}, TypeNameType))
	be.True(t, !Is(&TypeNameNode{}, ExpressionType))
}

func TestIsNil(t *testing.T) {
	be.True(t, !Is(nil, NodeType))
}

func TestAs(t *testing.T) {
	var n Node = &BinaryExpressionNode{OpKind: BinaryAdd}

	binary, ok := As[*BinaryExpressionNode](n)
	be.True(t, ok)
	be.Equal(t, binary.OpKind, BinaryAdd)

	expr, ok := As[Expression](n)
	be.True(t, ok)
	be.True(t, expr != nil)

	_, ok = As[*LiteralExpressionNode](n)
	be.True(t, !ok)

	_, ok = As[Statement](n)
	be.True(t, !ok)

	_, ok = As[Expression](nil)
	be.True(t, !ok)
}

func TestCastOrError(t *testing.T) {
	var n Node = &LiteralExpressionNode{Kind: LiteralInteger}

	literal := CastOrError[*LiteralExpressionNode](n)
	be.True(t, literal != nil)

	// A failed cast yields the zero value, never a panic.
	stmt := CastOrError[Statement](n)
	be.True(t, stmt == nil)
}

func TestRegisteredTypeName(t *testing.T) {
	be.Equal(t, RegisteredTypeName(NodeType.ID), "Node")
	be.Equal(t, NodeTypeName(&BinaryExpressionNode{}), "BinaryExpressionNode")
	be.Equal(t, NodeTypeName(nil), "NullNode")
	be.Equal(t, RegisteredTypeName(255), "UnknownType")
}

func TestErrorNodeSatisfiesEveryCategory(t *testing.T) {
	var n Node = &ErrorNode{Message: "recovered"}

	_, ok := As[Expression](n)
	be.True(t, ok)
	_, ok = As[Statement](n)
	be.True(t, ok)
	_, ok = As[TypeName](n)
	be.True(t, ok)

	// The RTTI range still identifies it as an error node, not an
	// expression.
	be.True(t, Is(n, ErrorType))
	be.True(t, !Is(n, ExpressionType))
}
