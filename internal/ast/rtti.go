package ast

import (
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("hotate.semantics")

// TypeInfo is the RTTI record of one node type. After Initialize has run,
// ID holds the type's flat id and the ids of the type and all of its
// descendants form the contiguous range [ID, ID+DescendantCount].
type TypeInfo struct {
	Name            string
	Base            *TypeInfo
	ID              uint8
	DescendantCount uint8

	derived []*TypeInfo
	accept  func(Node, Visitor)
}

// allTypeInfos collects every registered type in registration order.
var allTypeInfos []*TypeInfo

// orderedTypeInfos is the flattened table indexed by type-id, filled by
// Initialize.
var orderedTypeInfos []*TypeInfo

// registerType records a node type with its base and dispatch thunk. Each
// concrete type registers exactly once, from its package-level TypeInfo
// variable below.
func registerType(name string, base *TypeInfo, accept func(Node, Visitor)) *TypeInfo {
	info := &TypeInfo{Name: name, Base: base, accept: accept}
	if base != nil && base != info {
		base.derived = append(base.derived, info)
	}
	allTypeInfos = append(allTypeInfos, info)
	return info
}

// Initialize assigns type-ids with a depth-first pre-order walk of the
// inheritance tree rooted at NodeType and computes each type's descendant
// count. It is idempotent; it must be called once before any Is, As,
// Dispatch or Walk call. Not safe for concurrent use.
func Initialize() {
	if len(orderedTypeInfos) > 0 {
		return
	}

	orderedTypeInfos = make([]*TypeInfo, 0, len(allTypeInfos))
	orderTypes(NodeType)

	for i, info := range orderedTypeInfos {
		info.ID = uint8(i)
	}

	for _, info := range orderedTypeInfos {
		last := info.ID
		worklist := []*TypeInfo{info}
		for len(worklist) > 0 {
			check := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			if check.ID > last {
				last = check.ID
			}
			worklist = append(worklist, check.derived...)
		}
		info.DescendantCount = last - info.ID
	}
}

func orderTypes(info *TypeInfo) {
	orderedTypeInfos = append(orderedTypeInfos, info)
	for _, derived := range info.derived {
		orderTypes(derived)
	}
}

// OrderedTypeInfos returns the flattened type table indexed by type-id.
func OrderedTypeInfos() []*TypeInfo { return orderedTypeInfos }

// Is reports whether n's dynamic type is t or a descendant of t, using the
// id-range test: two comparisons against [t.ID, t.ID+t.DescendantCount].
func Is(n Node, t *TypeInfo) bool {
	if n == nil || t == nil {
		return false
	}
	id := n.TypeInfo().ID
	return t.ID <= id && id <= t.ID+t.DescendantCount
}

// As returns n as a T when n's dynamic type satisfies T. The boolean is
// false (and the value the zero T) otherwise; callers must handle the
// absent case.
func As[T Node](n Node) (T, bool) {
	var zero T
	if n == nil {
		return zero, false
	}
	v, ok := n.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// CastOrError is As with an error diagnostic on failure. It never aborts;
// the zero T is returned and the caller treats the node as missing.
func CastOrError[T Node](n Node) T {
	v, ok := As[T](n)
	if !ok {
		log.Errorf("unexpected node type %s", NodeTypeName(n))
	}
	return v
}

// RegisteredTypeName returns the name registered for a type-id.
func RegisteredTypeName(id uint8) string {
	if int(id) < len(orderedTypeInfos) {
		return orderedTypeInfos[id].Name
	}
	return "UnknownType"
}

// NodeTypeName returns the registered name of n's dynamic type.
func NodeTypeName(n Node) string {
	if n == nil {
		return "NullNode"
	}
	return n.TypeInfo().Name
}

// --- Registration ---
// One entry per node type, base first. The accept thunk casts to the
// statically known type and invokes the matching visitor overload.

var NodeType = registerType("Node", nil, func(n Node, v Visitor) { v.VisitNode(n) })

var (
	TokenType      = registerType("TokenNode", NodeType, func(n Node, v Visitor) { v.VisitToken(n.(*TokenNode)) })
	IdentifierType = registerType("IdentifierNode", NodeType, func(n Node, v Visitor) { v.VisitIdentifier(n.(*IdentifierNode)) })
	ErrorType      = registerType("ErrorNode", NodeType, func(n Node, v Visitor) { v.VisitError(n.(*ErrorNode)) })
)

var (
	ExpressionType              = registerType("ExpressionNode", NodeType, func(n Node, v Visitor) { v.VisitExpression(n.(Expression)) })
	LiteralExpressionType       = registerType("LiteralExpressionNode", ExpressionType, func(n Node, v Visitor) { v.VisitLiteralExpression(n.(*LiteralExpressionNode)) })
	IdentifierExpressionType    = registerType("IdentifierExpressionNode", ExpressionType, func(n Node, v Visitor) { v.VisitIdentifierExpression(n.(*IdentifierExpressionNode)) })
	ParenthesizedExpressionType = registerType("ParenthesizedExpressionNode", ExpressionType, func(n Node, v Visitor) { v.VisitParenthesizedExpression(n.(*ParenthesizedExpressionNode)) })
	UnaryExpressionType         = registerType("UnaryExpressionNode", ExpressionType, func(n Node, v Visitor) { v.VisitUnaryExpression(n.(*UnaryExpressionNode)) })
	BinaryExpressionType        = registerType("BinaryExpressionNode", ExpressionType, func(n Node, v Visitor) { v.VisitBinaryExpression(n.(*BinaryExpressionNode)) })
	AssignmentExpressionType    = registerType("AssignmentExpressionNode", ExpressionType, func(n Node, v Visitor) { v.VisitAssignmentExpression(n.(*AssignmentExpressionNode)) })
	CallExpressionType          = registerType("CallExpressionNode", ExpressionType, func(n Node, v Visitor) { v.VisitCallExpression(n.(*CallExpressionNode)) })
	MemberAccessExpressionType  = registerType("MemberAccessExpressionNode", ExpressionType, func(n Node, v Visitor) { v.VisitMemberAccessExpression(n.(*MemberAccessExpressionNode)) })
	NewExpressionType           = registerType("NewExpressionNode", ExpressionType, func(n Node, v Visitor) { v.VisitNewExpression(n.(*NewExpressionNode)) })
	ThisExpressionType          = registerType("ThisExpressionNode", ExpressionType, func(n Node, v Visitor) { v.VisitThisExpression(n.(*ThisExpressionNode)) })
	CastExpressionType          = registerType("CastExpressionNode", ExpressionType, func(n Node, v Visitor) { v.VisitCastExpression(n.(*CastExpressionNode)) })
	IndexerExpressionType       = registerType("IndexerExpressionNode", ExpressionType, func(n Node, v Visitor) { v.VisitIndexerExpression(n.(*IndexerExpressionNode)) })
	TypeOfExpressionType        = registerType("TypeOfExpressionNode", ExpressionType, func(n Node, v Visitor) { v.VisitTypeOfExpression(n.(*TypeOfExpressionNode)) })
	SizeOfExpressionType        = registerType("SizeOfExpressionNode", ExpressionType, func(n Node, v Visitor) { v.VisitSizeOfExpression(n.(*SizeOfExpressionNode)) })
)

var (
	StatementType                 = registerType("StatementNode", NodeType, func(n Node, v Visitor) { v.VisitStatement(n.(Statement)) })
	EmptyStatementType            = registerType("EmptyStatementNode", StatementType, func(n Node, v Visitor) { v.VisitEmptyStatement(n.(*EmptyStatementNode)) })
	BlockStatementType            = registerType("BlockStatementNode", StatementType, func(n Node, v Visitor) { v.VisitBlockStatement(n.(*BlockStatementNode)) })
	ExpressionStatementType       = registerType("ExpressionStatementNode", StatementType, func(n Node, v Visitor) { v.VisitExpressionStatement(n.(*ExpressionStatementNode)) })
	IfStatementType               = registerType("IfStatementNode", StatementType, func(n Node, v Visitor) { v.VisitIfStatement(n.(*IfStatementNode)) })
	WhileStatementType            = registerType("WhileStatementNode", StatementType, func(n Node, v Visitor) { v.VisitWhileStatement(n.(*WhileStatementNode)) })
	ForStatementType              = registerType("ForStatementNode", StatementType, func(n Node, v Visitor) { v.VisitForStatement(n.(*ForStatementNode)) })
	ReturnStatementType           = registerType("ReturnStatementNode", StatementType, func(n Node, v Visitor) { v.VisitReturnStatement(n.(*ReturnStatementNode)) })
	BreakStatementType            = registerType("BreakStatementNode", StatementType, func(n Node, v Visitor) { v.VisitBreakStatement(n.(*BreakStatementNode)) })
	ContinueStatementType         = registerType("ContinueStatementNode", StatementType, func(n Node, v Visitor) { v.VisitContinueStatement(n.(*ContinueStatementNode)) })
	LocalVariableDeclarationType  = registerType("LocalVariableDeclarationNode", StatementType, func(n Node, v Visitor) { v.VisitLocalVariableDeclaration(n.(*LocalVariableDeclarationNode)) })
	UsingDirectiveType            = registerType("UsingDirectiveNode", StatementType, func(n Node, v Visitor) { v.VisitUsingDirective(n.(*UsingDirectiveNode)) })
)

var (
	DeclarationType          = registerType("DeclarationNode", StatementType, func(n Node, v Visitor) { v.VisitDeclaration(n.(Declaration)) })
	ParameterType            = registerType("ParameterNode", DeclarationType, func(n Node, v Visitor) { v.VisitParameter(n.(*ParameterNode)) })
	VariableDeclarationType  = registerType("VariableDeclarationNode", DeclarationType, func(n Node, v Visitor) { v.VisitVariableDeclaration(n.(*VariableDeclarationNode)) })
	MemberDeclarationType    = registerType("MemberDeclarationNode", DeclarationType, func(n Node, v Visitor) { v.VisitMemberDeclaration(n.(MemberDeclaration)) })
	FieldDeclarationType     = registerType("FieldDeclarationNode", MemberDeclarationType, func(n Node, v Visitor) { v.VisitFieldDeclaration(n.(*FieldDeclarationNode)) })
	GenericParameterType     = registerType("GenericParameterNode", DeclarationType, func(n Node, v Visitor) { v.VisitGenericParameter(n.(*GenericParameterNode)) })
	FunctionDeclarationType  = registerType("FunctionDeclarationNode", MemberDeclarationType, func(n Node, v Visitor) { v.VisitFunctionDeclaration(n.(*FunctionDeclarationNode)) })
	TypeDeclarationType      = registerType("TypeDeclarationNode", DeclarationType, func(n Node, v Visitor) { v.VisitTypeDeclaration(n.(*TypeDeclarationNode)) })
	ClassDeclarationType     = registerType("ClassDeclarationNode", TypeDeclarationType, func(n Node, v Visitor) { v.VisitClassDeclaration(n.(*ClassDeclarationNode)) })
	StructDeclarationType    = registerType("StructDeclarationNode", TypeDeclarationType, func(n Node, v Visitor) { v.VisitStructDeclaration(n.(*StructDeclarationNode)) })
	InterfaceDeclarationType = registerType("InterfaceDeclarationNode", TypeDeclarationType, func(n Node, v Visitor) { v.VisitInterfaceDeclaration(n.(*InterfaceDeclarationNode)) })
	EnumDeclarationType      = registerType("EnumDeclarationNode", TypeDeclarationType, func(n Node, v Visitor) { v.VisitEnumDeclaration(n.(*EnumDeclarationNode)) })
	NamespaceDeclarationType = registerType("NamespaceDeclarationNode", DeclarationType, func(n Node, v Visitor) { v.VisitNamespaceDeclaration(n.(*NamespaceDeclarationNode)) })
)

var (
	TypeNameType          = registerType("TypeNameNode", NodeType, func(n Node, v Visitor) { v.VisitTypeName(n.(*TypeNameNode)) })
	QualifiedTypeNameType = registerType("QualifiedTypeNameNode", TypeNameType, func(n Node, v Visitor) { v.VisitQualifiedTypeName(n.(*QualifiedTypeNameNode)) })
	PointerTypeNameType   = registerType("PointerTypeNameNode", TypeNameType, func(n Node, v Visitor) { v.VisitPointerTypeName(n.(*PointerTypeNameNode)) })
	ArrayTypeNameType     = registerType("ArrayTypeNameNode", TypeNameType, func(n Node, v Visitor) { v.VisitArrayTypeName(n.(*ArrayTypeNameNode)) })
	GenericTypeNameType   = registerType("GenericTypeNameNode", TypeNameType, func(n Node, v Visitor) { v.VisitGenericTypeName(n.(*GenericTypeNameNode)) })
)

var CompilationUnitType = registerType("CompilationUnitNode", NodeType, func(n Node, v Visitor) { v.VisitCompilationUnit(n.(*CompilationUnitNode)) })

// --- TypeInfo methods ---
// Every node type reports its own RTTI record; the abstract bases report
// theirs so an unregistered embedder would be visible as its base.

func (*ExpressionNode) TypeInfo() *TypeInfo              { return ExpressionType }
func (*StatementNode) TypeInfo() *TypeInfo               { return StatementType }
func (*DeclarationNode) TypeInfo() *TypeInfo             { return DeclarationType }
func (*MemberDeclarationNode) TypeInfo() *TypeInfo       { return MemberDeclarationType }
func (*TokenNode) TypeInfo() *TypeInfo                   { return TokenType }
func (*IdentifierNode) TypeInfo() *TypeInfo              { return IdentifierType }
func (*ErrorNode) TypeInfo() *TypeInfo                   { return ErrorType }
func (*LiteralExpressionNode) TypeInfo() *TypeInfo       { return LiteralExpressionType }
func (*IdentifierExpressionNode) TypeInfo() *TypeInfo    { return IdentifierExpressionType }
func (*ParenthesizedExpressionNode) TypeInfo() *TypeInfo { return ParenthesizedExpressionType }
func (*UnaryExpressionNode) TypeInfo() *TypeInfo         { return UnaryExpressionType }
func (*BinaryExpressionNode) TypeInfo() *TypeInfo        { return BinaryExpressionType }
func (*AssignmentExpressionNode) TypeInfo() *TypeInfo    { return AssignmentExpressionType }
func (*CallExpressionNode) TypeInfo() *TypeInfo          { return CallExpressionType }
func (*MemberAccessExpressionNode) TypeInfo() *TypeInfo  { return MemberAccessExpressionType }
func (*NewExpressionNode) TypeInfo() *TypeInfo           { return NewExpressionType }
func (*ThisExpressionNode) TypeInfo() *TypeInfo          { return ThisExpressionType }
func (*CastExpressionNode) TypeInfo() *TypeInfo          { return CastExpressionType }
func (*IndexerExpressionNode) TypeInfo() *TypeInfo       { return IndexerExpressionType }
func (*TypeOfExpressionNode) TypeInfo() *TypeInfo        { return TypeOfExpressionType }
func (*SizeOfExpressionNode) TypeInfo() *TypeInfo        { return SizeOfExpressionType }
func (*EmptyStatementNode) TypeInfo() *TypeInfo          { return EmptyStatementType }
func (*BlockStatementNode) TypeInfo() *TypeInfo          { return BlockStatementType }
func (*ExpressionStatementNode) TypeInfo() *TypeInfo     { return ExpressionStatementType }
func (*IfStatementNode) TypeInfo() *TypeInfo             { return IfStatementType }
func (*WhileStatementNode) TypeInfo() *TypeInfo          { return WhileStatementType }
func (*ForStatementNode) TypeInfo() *TypeInfo            { return ForStatementType }
func (*ReturnStatementNode) TypeInfo() *TypeInfo         { return ReturnStatementType }
func (*BreakStatementNode) TypeInfo() *TypeInfo          { return BreakStatementType }
func (*ContinueStatementNode) TypeInfo() *TypeInfo       { return ContinueStatementType }
func (*LocalVariableDeclarationNode) TypeInfo() *TypeInfo {
	return LocalVariableDeclarationType
}
func (*UsingDirectiveNode) TypeInfo() *TypeInfo       { return UsingDirectiveType }
func (*ParameterNode) TypeInfo() *TypeInfo            { return ParameterType }
func (*VariableDeclarationNode) TypeInfo() *TypeInfo  { return VariableDeclarationType }
func (*FieldDeclarationNode) TypeInfo() *TypeInfo     { return FieldDeclarationType }
func (*GenericParameterNode) TypeInfo() *TypeInfo     { return GenericParameterType }
func (*FunctionDeclarationNode) TypeInfo() *TypeInfo  { return FunctionDeclarationType }
func (*TypeDeclarationNode) TypeInfo() *TypeInfo      { return TypeDeclarationType }
func (*ClassDeclarationNode) TypeInfo() *TypeInfo     { return ClassDeclarationType }
func (*StructDeclarationNode) TypeInfo() *TypeInfo    { return StructDeclarationType }
func (*InterfaceDeclarationNode) TypeInfo() *TypeInfo { return InterfaceDeclarationType }
func (*EnumDeclarationNode) TypeInfo() *TypeInfo      { return EnumDeclarationType }
func (*NamespaceDeclarationNode) TypeInfo() *TypeInfo { return NamespaceDeclarationType }
func (*TypeNameNode) TypeInfo() *TypeInfo             { return TypeNameType }
func (*QualifiedTypeNameNode) TypeInfo() *TypeInfo    { return QualifiedTypeNameType }
func (*PointerTypeNameNode) TypeInfo() *TypeInfo      { return PointerTypeNameType }
func (*ArrayTypeNameNode) TypeInfo() *TypeInfo        { return ArrayTypeNameType }
func (*GenericTypeNameNode) TypeInfo() *TypeInfo      { return GenericTypeNameType }
func (*CompilationUnitNode) TypeInfo() *TypeInfo      { return CompilationUnitType }
