package semantics

import (
	"strings"

	"hotate/internal/ast"
	"hotate/internal/ir"
)

// TableBuilder walks a compilation unit and populates a symbol table:
// type declarations open named scopes, functions open scopes named after
// themselves (member functions "Owner::name"), blocks and namespaces open
// anonymous scopes, and variable declarations without an explicit type are
// declared unresolved for the inference fixpoint.
type TableBuilder struct {
	table *SymbolTable
}

// NewTableBuilder returns a builder writing into table.
func NewTableBuilder(table *SymbolTable) *TableBuilder {
	return &TableBuilder{table: table}
}

// BuildSymbolTable clears the table, walks the unit and resolves all
// deferred types. It reports whether resolution succeeded.
func BuildSymbolTable(table *SymbolTable, unit *ast.CompilationUnitNode) bool {
	NewTableBuilder(table).BuildFromUnit(unit)
	if !table.ResolveAllTypes() {
		log.Error("failed to resolve all types in symbol table")
		return false
	}
	return true
}

// BuildFromUnit clears the table and walks the unit's top-level
// statements.
func (b *TableBuilder) BuildFromUnit(unit *ast.CompilationUnitNode) {
	if unit == nil {
		return
	}
	b.table.Clear()

	for _, stmt := range unit.Statements {
		if decl, ok := ast.As[ast.Declaration](stmt); ok {
			b.visitDeclaration(decl)
		} else if statement := ast.CastOrError[ast.Statement](stmt); statement != nil {
			b.visitStatement(statement)
		}
	}
}

// typeString renders a type-name node to its display form: "i32",
// "Shape[]", "Outer::Inner", "List<i32>". A nil node renders "" (no
// explicit type); a malformed one logs and renders "unknown".
func (b *TableBuilder) typeString(node ast.TypeName) string {
	if node == nil {
		return ""
	}

	switch typeName := node.(type) {
	case *ast.ArrayTypeNameNode:
		if typeName.ElementType == nil {
			log.Error("array type name has no element type")
			return "unknown[]"
		}
		return b.typeString(typeName.ElementType) + "[]"
	case *ast.PointerTypeNameNode:
		if typeName.ElementType == nil {
			log.Error("pointer type name has no element type")
			return "unknown*"
		}
		return b.typeString(typeName.ElementType) + "*"
	case *ast.QualifiedTypeNameNode:
		return b.typeString(typeName.Left) + "::" + typeName.Right.Name
	case *ast.GenericTypeNameNode:
		var args []string
		for _, arg := range typeName.Arguments {
			if argType := ast.CastOrError[ast.TypeName](arg); argType != nil {
				args = append(args, b.typeString(argType))
			}
		}
		return b.typeString(typeName.BaseType) + "<" + strings.Join(args, ", ") + ">"
	case *ast.TypeNameNode:
		if typeName.Identifier == nil {
			log.Error("type name has no identifier")
			return "unknown"
		}
		return typeName.Identifier.Name
	}

	log.Errorf("unknown type name node %s", ast.NodeTypeName(node))
	return "unknown"
}

func (b *TableBuilder) visitDeclaration(decl ast.Declaration) {
	if decl == nil {
		return
	}

	switch node := decl.(type) {
	case *ast.ClassDeclarationNode:
		b.visitTypeDeclaration(&node.TypeDeclarationNode)
	case *ast.StructDeclarationNode:
		b.visitTypeDeclaration(&node.TypeDeclarationNode)
	case *ast.TypeDeclarationNode:
		b.visitTypeDeclaration(node)
	case *ast.InterfaceDeclarationNode:
		b.visitInterfaceDeclaration(node)
	case *ast.EnumDeclarationNode:
		b.visitEnumDeclaration(node)
	case *ast.FunctionDeclarationNode:
		b.visitFunctionDeclaration(node)
	case *ast.VariableDeclarationNode:
		b.visitVariableDeclaration(node)
	case *ast.FieldDeclarationNode:
		b.visitFieldDeclaration(node)
	case *ast.NamespaceDeclarationNode:
		b.visitNamespaceDeclaration(node)
	}
}

func (b *TableBuilder) visitTypeDeclaration(node *ast.TypeDeclarationNode) {
	typeName := node.Name.Name

	isRefType := false
	for _, mod := range node.Modifiers {
		if mod == ast.ModifierRef {
			isRefType = true
			break
		}
	}
	displayName := "type"
	if isRefType {
		displayName = "ref type"
	}

	// Classes are reference types: the symbol's IR type is a pointer, the
	// struct layout lives behind it.
	b.table.DeclareSymbol(typeName, SymbolClass, ir.Ptr(), displayName)
	b.table.EnterNamedScope(typeName)

	for _, member := range node.Members {
		if decl := ast.CastOrError[ast.Declaration](member); decl != nil {
			if funcDecl, ok := ast.As[*ast.FunctionDeclarationNode](decl); ok {
				b.visitMemberFunctionDeclaration(funcDecl, typeName)
			} else {
				b.visitDeclaration(decl)
			}
		}
	}

	b.table.ExitScope()
}

func (b *TableBuilder) visitInterfaceDeclaration(node *ast.InterfaceDeclarationNode) {
	interfaceName := node.Name.Name
	b.table.DeclareSymbol(interfaceName, SymbolClass, ir.Ptr(), "interface")
	b.table.EnterNamedScope(interfaceName)

	for _, member := range node.Members {
		if decl := ast.CastOrError[ast.Declaration](member); decl != nil {
			b.visitDeclaration(decl)
		}
	}

	b.table.ExitScope()
}

func (b *TableBuilder) visitEnumDeclaration(node *ast.EnumDeclarationNode) {
	enumName := node.Name.Name
	b.table.DeclareSymbol(enumName, SymbolEnum, ir.I32(), "enum")
	b.table.EnterNamedScope(enumName)

	for _, enumCase := range node.Cases {
		if enumCase != nil {
			b.table.DeclareSymbol(enumCase.Name, SymbolVariable, ir.I32(), "enum case")
		}
	}
	for _, method := range node.Methods {
		b.visitFunctionDeclaration(method)
	}

	b.table.ExitScope()
}

// visitMemberFunctionDeclaration registers a member function in the
// owning type's scope, then builds its own scope "Owner::name" with an
// implicit this parameter ahead of the declared ones.
func (b *TableBuilder) visitMemberFunctionDeclaration(node *ast.FunctionDeclarationNode, ownerType string) {
	funcName := node.Name.Name
	returnTypeStr := b.typeString(node.ReturnType)
	if returnTypeStr == "" {
		returnTypeStr = typeVoid
	}

	returnType, err := b.table.StringToIRType(returnTypeStr)
	if err != nil {
		log.Errorf("member function %q: %s", funcName, err)
		return
	}

	b.table.DeclareSymbol(funcName, SymbolFunction, returnType, returnTypeStr)
	b.table.EnterNamedScope(ownerType + "::" + funcName)

	log.Debugf("member function %q in type %q has %d parameters", funcName, ownerType, len(node.Parameters))

	ownerIR, err := b.table.StringToIRType(ownerType)
	if err != nil {
		log.Errorf("member function %q: %s", funcName, err)
	} else {
		b.table.DeclareSymbol("this", SymbolParameter, ir.PtrTo(ownerIR), ownerType+"*")
	}

	b.declareParameters(node.Parameters)
	b.visitFunctionBody(node.Body)

	b.table.ExitScope()
}

func (b *TableBuilder) visitFunctionDeclaration(node *ast.FunctionDeclarationNode) {
	funcName := node.Name.Name
	returnTypeStr := b.typeString(node.ReturnType)
	if returnTypeStr == "" {
		returnTypeStr = typeVoid
	}

	returnType, err := b.table.StringToIRType(returnTypeStr)
	if err != nil {
		log.Errorf("function %q: %s", funcName, err)
		return
	}

	b.table.DeclareSymbol(funcName, SymbolFunction, returnType, returnTypeStr)
	b.table.EnterNamedScope(funcName)

	log.Debugf("function %q has %d parameters", funcName, len(node.Parameters))
	b.declareParameters(node.Parameters)
	b.visitFunctionBody(node.Body)

	b.table.ExitScope()
}

func (b *TableBuilder) declareParameters(params []*ast.ParameterNode) {
	for _, param := range params {
		if param == nil {
			continue
		}
		paramTypeStr := b.typeString(param.Type)
		paramType, err := b.table.StringToIRType(paramTypeStr)
		if err != nil {
			log.Errorf("parameter %q: %s", param.Name.Name, err)
			continue
		}
		b.table.DeclareSymbol(param.Name.Name, SymbolParameter, paramType, paramTypeStr)
	}
}

// visitFunctionBody walks body statements without opening a scope: the
// function scope is the body's scope.
func (b *TableBuilder) visitFunctionBody(body *ast.BlockStatementNode) {
	if body == nil {
		return
	}
	for _, stmt := range body.Statements {
		if statement := ast.CastOrError[ast.Statement](stmt); statement != nil {
			b.visitStatement(statement)
		}
	}
}

func (b *TableBuilder) visitVariableDeclaration(node *ast.VariableDeclarationNode) {
	b.declareVariables(node.Type, node.Names, node.Initializer)
}

func (b *TableBuilder) visitFieldDeclaration(node *ast.FieldDeclarationNode) {
	b.declareVariables(node.Type, node.Names, node.Initializer)
}

// declareVariables declares one symbol per name. With an explicit type all
// names share its IR rendering; without one each name is declared
// unresolved against the shared initializer.
func (b *TableBuilder) declareVariables(typeNode ast.TypeName, names []*ast.IdentifierNode, initializer ast.Expression) {
	if typeNode != nil {
		varTypeStr := b.typeString(typeNode)
		varType, err := b.table.StringToIRType(varTypeStr)
		if err != nil {
			log.Errorf("variable declaration: %s", err)
			return
		}
		for _, name := range names {
			if name != nil {
				b.table.DeclareSymbol(name.Name, SymbolVariable, varType, varTypeStr)
			}
		}
		return
	}

	for _, name := range names {
		if name != nil {
			b.table.DeclareUnresolvedSymbol(name.Name, SymbolVariable, initializer)
		}
	}
}

func (b *TableBuilder) visitNamespaceDeclaration(node *ast.NamespaceDeclarationNode) {
	b.table.EnterScope()
	if node.Body != nil {
		b.visitStatement(node.Body)
	}
	b.table.ExitScope()
}

func (b *TableBuilder) visitStatement(stmt ast.Statement) {
	if stmt == nil {
		return
	}

	switch node := stmt.(type) {
	case *ast.BlockStatementNode:
		b.visitBlockStatement(node)
	case *ast.VariableDeclarationNode:
		b.visitVariableDeclaration(node)
	case *ast.LocalVariableDeclarationNode:
		if node.Declaration != nil {
			b.visitVariableDeclaration(node.Declaration)
		}
	case *ast.IfStatementNode:
		b.visitStatement(node.Then)
		if node.Else != nil {
			b.visitStatement(node.Else)
		}
	case *ast.WhileStatementNode:
		b.visitStatement(node.Body)
	case *ast.ForStatementNode:
		b.visitForStatement(node)
	}
}

func (b *TableBuilder) visitBlockStatement(node *ast.BlockStatementNode) {
	b.table.EnterScope()
	for _, stmt := range node.Statements {
		if statement := ast.CastOrError[ast.Statement](stmt); statement != nil {
			b.visitStatement(statement)
		}
	}
	b.table.ExitScope()
}

// visitForStatement opens one scope wrapping the initializer and the body.
func (b *TableBuilder) visitForStatement(node *ast.ForStatementNode) {
	b.table.EnterScope()
	if node.Initializer != nil {
		b.visitStatement(node.Initializer)
	}
	b.visitStatement(node.Body)
	b.table.ExitScope()
}
