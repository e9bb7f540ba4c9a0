package ast

// Visitor has one overload per registered node type. Dispatch selects the
// overload for a node's dynamic type through the accept table; the default
// behavior of every overload (provided by BaseVisitor) is to delegate to
// the overload for its base type, chaining up to VisitNode's no-op. A
// visitor that overrides only VisitExpression therefore observes every
// expression regardless of concrete variant.
type Visitor interface {
	VisitNode(n Node)
	VisitToken(n *TokenNode)
	VisitIdentifier(n *IdentifierNode)
	VisitError(n *ErrorNode)

	VisitExpression(n Expression)
	VisitLiteralExpression(n *LiteralExpressionNode)
	VisitIdentifierExpression(n *IdentifierExpressionNode)
	VisitParenthesizedExpression(n *ParenthesizedExpressionNode)
	VisitUnaryExpression(n *UnaryExpressionNode)
	VisitBinaryExpression(n *BinaryExpressionNode)
	VisitAssignmentExpression(n *AssignmentExpressionNode)
	VisitCallExpression(n *CallExpressionNode)
	VisitMemberAccessExpression(n *MemberAccessExpressionNode)
	VisitNewExpression(n *NewExpressionNode)
	VisitThisExpression(n *ThisExpressionNode)
	VisitCastExpression(n *CastExpressionNode)
	VisitIndexerExpression(n *IndexerExpressionNode)
	VisitTypeOfExpression(n *TypeOfExpressionNode)
	VisitSizeOfExpression(n *SizeOfExpressionNode)

	VisitStatement(n Statement)
	VisitEmptyStatement(n *EmptyStatementNode)
	VisitBlockStatement(n *BlockStatementNode)
	VisitExpressionStatement(n *ExpressionStatementNode)
	VisitIfStatement(n *IfStatementNode)
	VisitWhileStatement(n *WhileStatementNode)
	VisitForStatement(n *ForStatementNode)
	VisitReturnStatement(n *ReturnStatementNode)
	VisitBreakStatement(n *BreakStatementNode)
	VisitContinueStatement(n *ContinueStatementNode)
	VisitLocalVariableDeclaration(n *LocalVariableDeclarationNode)
	VisitUsingDirective(n *UsingDirectiveNode)

	VisitDeclaration(n Declaration)
	VisitParameter(n *ParameterNode)
	VisitVariableDeclaration(n *VariableDeclarationNode)
	VisitMemberDeclaration(n MemberDeclaration)
	VisitFieldDeclaration(n *FieldDeclarationNode)
	VisitGenericParameter(n *GenericParameterNode)
	VisitFunctionDeclaration(n *FunctionDeclarationNode)
	VisitTypeDeclaration(n *TypeDeclarationNode)
	VisitClassDeclaration(n *ClassDeclarationNode)
	VisitStructDeclaration(n *StructDeclarationNode)
	VisitInterfaceDeclaration(n *InterfaceDeclarationNode)
	VisitEnumDeclaration(n *EnumDeclarationNode)
	VisitNamespaceDeclaration(n *NamespaceDeclarationNode)

	VisitTypeName(n *TypeNameNode)
	VisitQualifiedTypeName(n *QualifiedTypeNameNode)
	VisitPointerTypeName(n *PointerTypeNameNode)
	VisitArrayTypeName(n *ArrayTypeNameNode)
	VisitGenericTypeName(n *GenericTypeNameNode)

	VisitCompilationUnit(n *CompilationUnitNode)
}

// Dispatch invokes the overload for n's dynamic type on v, looked up in
// the ordered type table. Initialize must have run.
func Dispatch(n Node, v Visitor) {
	if n == nil {
		return
	}
	orderedTypeInfos[n.TypeInfo().ID].accept(n, v)
}

// BaseVisitor provides the delegation chain. Embed it and set Self to the
// outer visitor so that overridden overloads are reached from the chain:
//
//	type counter struct { ast.BaseVisitor; n int }
//	c := &counter{}
//	c.Self = c
type BaseVisitor struct {
	Self Visitor
}

func (b *BaseVisitor) VisitNode(n Node) {}

func (b *BaseVisitor) VisitToken(n *TokenNode)           { b.Self.VisitNode(n) }
func (b *BaseVisitor) VisitIdentifier(n *IdentifierNode) { b.Self.VisitNode(n) }
func (b *BaseVisitor) VisitError(n *ErrorNode)           { b.Self.VisitNode(n) }

func (b *BaseVisitor) VisitExpression(n Expression) { b.Self.VisitNode(n) }
func (b *BaseVisitor) VisitLiteralExpression(n *LiteralExpressionNode) {
	b.Self.VisitExpression(n)
}
func (b *BaseVisitor) VisitIdentifierExpression(n *IdentifierExpressionNode) {
	b.Self.VisitExpression(n)
}
func (b *BaseVisitor) VisitParenthesizedExpression(n *ParenthesizedExpressionNode) {
	b.Self.VisitExpression(n)
}
func (b *BaseVisitor) VisitUnaryExpression(n *UnaryExpressionNode) {
	b.Self.VisitExpression(n)
}
func (b *BaseVisitor) VisitBinaryExpression(n *BinaryExpressionNode) {
	b.Self.VisitExpression(n)
}
func (b *BaseVisitor) VisitAssignmentExpression(n *AssignmentExpressionNode) {
	b.Self.VisitExpression(n)
}
func (b *BaseVisitor) VisitCallExpression(n *CallExpressionNode) {
	b.Self.VisitExpression(n)
}
func (b *BaseVisitor) VisitMemberAccessExpression(n *MemberAccessExpressionNode) {
	b.Self.VisitExpression(n)
}
func (b *BaseVisitor) VisitNewExpression(n *NewExpressionNode)   { b.Self.VisitExpression(n) }
func (b *BaseVisitor) VisitThisExpression(n *ThisExpressionNode) { b.Self.VisitExpression(n) }
func (b *BaseVisitor) VisitCastExpression(n *CastExpressionNode) { b.Self.VisitExpression(n) }
func (b *BaseVisitor) VisitIndexerExpression(n *IndexerExpressionNode) {
	b.Self.VisitExpression(n)
}
func (b *BaseVisitor) VisitTypeOfExpression(n *TypeOfExpressionNode) {
	b.Self.VisitExpression(n)
}
func (b *BaseVisitor) VisitSizeOfExpression(n *SizeOfExpressionNode) {
	b.Self.VisitExpression(n)
}

func (b *BaseVisitor) VisitStatement(n Statement) { b.Self.VisitNode(n) }
func (b *BaseVisitor) VisitEmptyStatement(n *EmptyStatementNode) {
	b.Self.VisitStatement(n)
}
func (b *BaseVisitor) VisitBlockStatement(n *BlockStatementNode) {
	b.Self.VisitStatement(n)
}
func (b *BaseVisitor) VisitExpressionStatement(n *ExpressionStatementNode) {
	b.Self.VisitStatement(n)
}
func (b *BaseVisitor) VisitIfStatement(n *IfStatementNode)       { b.Self.VisitStatement(n) }
func (b *BaseVisitor) VisitWhileStatement(n *WhileStatementNode) { b.Self.VisitStatement(n) }
func (b *BaseVisitor) VisitForStatement(n *ForStatementNode)     { b.Self.VisitStatement(n) }
func (b *BaseVisitor) VisitReturnStatement(n *ReturnStatementNode) {
	b.Self.VisitStatement(n)
}
func (b *BaseVisitor) VisitBreakStatement(n *BreakStatementNode) { b.Self.VisitStatement(n) }
func (b *BaseVisitor) VisitContinueStatement(n *ContinueStatementNode) {
	b.Self.VisitStatement(n)
}
func (b *BaseVisitor) VisitLocalVariableDeclaration(n *LocalVariableDeclarationNode) {
	b.Self.VisitStatement(n)
}
func (b *BaseVisitor) VisitUsingDirective(n *UsingDirectiveNode) { b.Self.VisitStatement(n) }

func (b *BaseVisitor) VisitDeclaration(n Declaration)  { b.Self.VisitStatement(n) }
func (b *BaseVisitor) VisitParameter(n *ParameterNode) { b.Self.VisitDeclaration(n) }
func (b *BaseVisitor) VisitVariableDeclaration(n *VariableDeclarationNode) {
	b.Self.VisitDeclaration(n)
}
func (b *BaseVisitor) VisitMemberDeclaration(n MemberDeclaration) {
	b.Self.VisitDeclaration(n)
}
func (b *BaseVisitor) VisitFieldDeclaration(n *FieldDeclarationNode) {
	b.Self.VisitMemberDeclaration(n)
}
func (b *BaseVisitor) VisitGenericParameter(n *GenericParameterNode) {
	b.Self.VisitDeclaration(n)
}
func (b *BaseVisitor) VisitFunctionDeclaration(n *FunctionDeclarationNode) {
	b.Self.VisitMemberDeclaration(n)
}
func (b *BaseVisitor) VisitTypeDeclaration(n *TypeDeclarationNode) {
	b.Self.VisitDeclaration(n)
}
func (b *BaseVisitor) VisitClassDeclaration(n *ClassDeclarationNode) {
	b.Self.VisitTypeDeclaration(&n.TypeDeclarationNode)
}
func (b *BaseVisitor) VisitStructDeclaration(n *StructDeclarationNode) {
	b.Self.VisitTypeDeclaration(&n.TypeDeclarationNode)
}
func (b *BaseVisitor) VisitInterfaceDeclaration(n *InterfaceDeclarationNode) {
	b.Self.VisitTypeDeclaration(&n.TypeDeclarationNode)
}
func (b *BaseVisitor) VisitEnumDeclaration(n *EnumDeclarationNode) {
	b.Self.VisitTypeDeclaration(&n.TypeDeclarationNode)
}
func (b *BaseVisitor) VisitNamespaceDeclaration(n *NamespaceDeclarationNode) {
	b.Self.VisitDeclaration(n)
}

func (b *BaseVisitor) VisitTypeName(n *TypeNameNode) { b.Self.VisitNode(n) }
func (b *BaseVisitor) VisitQualifiedTypeName(n *QualifiedTypeNameNode) {
	b.Self.VisitTypeName(&n.TypeNameNode)
}
func (b *BaseVisitor) VisitPointerTypeName(n *PointerTypeNameNode) {
	b.Self.VisitTypeName(&n.TypeNameNode)
}
func (b *BaseVisitor) VisitArrayTypeName(n *ArrayTypeNameNode) {
	b.Self.VisitTypeName(&n.TypeNameNode)
}
func (b *BaseVisitor) VisitGenericTypeName(n *GenericTypeNameNode) {
	b.Self.VisitTypeName(&n.TypeNameNode)
}

func (b *BaseVisitor) VisitCompilationUnit(n *CompilationUnitNode) { b.Self.VisitNode(n) }
