package ast

// eachChild calls f for every non-nil direct child of n, in source order.
func eachChild(n Node, f func(Node)) {
	visitExpr := func(c Expression) {
		if c != nil {
			f(c)
		}
	}
	visitStmt := func(c Statement) {
		if c != nil {
			f(c)
		}
	}
	visitType := func(c TypeName) {
		if c != nil {
			f(c)
		}
	}

	switch node := n.(type) {
	case *LiteralExpressionNode, *ThisExpressionNode, *EmptyStatementNode,
		*BreakStatementNode, *ContinueStatementNode, *TokenNode,
		*IdentifierNode, *ErrorNode, *TypeNameNode:
		// leaves (TypeNameNode's identifier is part of the name, not a child)

	case *IdentifierExpressionNode:
		if node.Identifier != nil {
			f(node.Identifier)
		}
	case *ParenthesizedExpressionNode:
		visitExpr(node.Expression)
	case *UnaryExpressionNode:
		visitExpr(node.Operand)
	case *BinaryExpressionNode:
		visitExpr(node.Left)
		visitExpr(node.Right)
	case *AssignmentExpressionNode:
		visitExpr(node.Target)
		visitExpr(node.Source)
	case *CallExpressionNode:
		visitExpr(node.Target)
		for _, arg := range node.Arguments {
			visitExpr(arg)
		}
	case *MemberAccessExpressionNode:
		visitExpr(node.Target)
		if node.Member != nil {
			f(node.Member)
		}
	case *NewExpressionNode:
		if node.Type != nil {
			f(node.Type)
		}
		if node.ConstructorCall != nil {
			f(node.ConstructorCall)
		}
	case *CastExpressionNode:
		visitType(node.TargetType)
		visitExpr(node.Expression)
	case *IndexerExpressionNode:
		visitExpr(node.Target)
		visitExpr(node.Index)
	case *TypeOfExpressionNode:
		visitType(node.Type)
	case *SizeOfExpressionNode:
		visitType(node.Type)

	case *BlockStatementNode:
		for _, s := range node.Statements {
			visitStmt(s)
		}
	case *ExpressionStatementNode:
		visitExpr(node.Expression)
	case *IfStatementNode:
		visitExpr(node.Condition)
		visitStmt(node.Then)
		visitStmt(node.Else)
	case *WhileStatementNode:
		visitExpr(node.Condition)
		visitStmt(node.Body)
	case *ForStatementNode:
		visitStmt(node.Initializer)
		visitExpr(node.Condition)
		for _, inc := range node.Incrementors {
			visitExpr(inc)
		}
		visitStmt(node.Body)
	case *ReturnStatementNode:
		visitExpr(node.Expression)
	case *LocalVariableDeclarationNode:
		if node.Declaration != nil {
			f(node.Declaration)
		}
	case *UsingDirectiveNode:
		if node.Namespace != nil {
			f(node.Namespace)
		}

	case *ParameterNode:
		if node.Name != nil {
			f(node.Name)
		}
		visitType(node.Type)
	case *VariableDeclarationNode:
		visitType(node.Type)
		for _, name := range node.Names {
			if name != nil {
				f(name)
			}
		}
		visitExpr(node.Initializer)
	case *FieldDeclarationNode:
		visitType(node.Type)
		for _, name := range node.Names {
			if name != nil {
				f(name)
			}
		}
		visitExpr(node.Initializer)
	case *GenericParameterNode:
		if node.Name != nil {
			f(node.Name)
		}
	case *FunctionDeclarationNode:
		if node.Name != nil {
			f(node.Name)
		}
		for _, p := range node.Parameters {
			if p != nil {
				f(p)
			}
		}
		visitType(node.ReturnType)
		if node.Body != nil {
			f(node.Body)
		}
	case *ClassDeclarationNode:
		eachTypeDeclChild(&node.TypeDeclarationNode, f)
	case *StructDeclarationNode:
		eachTypeDeclChild(&node.TypeDeclarationNode, f)
	case *InterfaceDeclarationNode:
		eachTypeDeclChild(&node.TypeDeclarationNode, f)
	case *EnumDeclarationNode:
		eachTypeDeclChild(&node.TypeDeclarationNode, f)
		for _, c := range node.Cases {
			if c != nil {
				f(c)
			}
		}
		for _, m := range node.Methods {
			if m != nil {
				f(m)
			}
		}
	case *TypeDeclarationNode:
		eachTypeDeclChild(node, f)
	case *NamespaceDeclarationNode:
		if node.Name != nil {
			f(node.Name)
		}
		visitStmt(node.Body)

	case *QualifiedTypeNameNode:
		visitType(node.Left)
		if node.Right != nil {
			f(node.Right)
		}
	case *PointerTypeNameNode:
		visitType(node.ElementType)
	case *ArrayTypeNameNode:
		visitType(node.ElementType)
	case *GenericTypeNameNode:
		visitType(node.BaseType)
		for _, arg := range node.Arguments {
			visitType(arg)
		}

	case *CompilationUnitNode:
		for _, s := range node.Statements {
			visitStmt(s)
		}
	}
}

func eachTypeDeclChild(node *TypeDeclarationNode, f func(Node)) {
	if node.Name != nil {
		f(node.Name)
	}
	for _, m := range node.Members {
		if m != nil {
			f(m)
		}
	}
}

// Walk dispatches v on n and then on every descendant, pre-order.
func Walk(n Node, v Visitor) {
	if n == nil {
		return
	}
	Dispatch(n, v)
	eachChild(n, func(c Node) { Walk(c, v) })
}

// AttachParents fills the parent back-reference of every node below root.
// It is the only writer of parent links; re-run it after any tree surgery.
// The reference is a non-owning lookup pointer, never used for ownership.
func AttachParents(root Node) {
	if root == nil {
		return
	}
	root.Base().Parent = nil
	attachParents(root)
}

func attachParents(n Node) {
	eachChild(n, func(c Node) {
		c.Base().Parent = n
		attachParents(c)
	})
}
