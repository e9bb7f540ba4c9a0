package semantics

import (
	"hotate/internal/ast"
)

// typeUnresolved is the inference sentinel: an expression whose type
// cannot be determined yet reports it, and the resolver retries on a later
// iteration.
const (
	typeUnresolved = "unresolved"
	typeVoid       = "void"
)

// ExtractDependencies collects the symbol names the type of an expression
// depends on, in source order. Duplicates are preserved; literals have no
// dependencies. A member access contributes only its target's
// dependencies — the struct type is reached transitively through the
// target variable's type.
func (t *SymbolTable) ExtractDependencies(expr ast.Expression) []string {
	var deps []string
	if expr == nil {
		return deps
	}

	if identifier, ok := ast.As[*ast.IdentifierExpressionNode](expr); ok {
		return append(deps, identifier.Identifier.Name)
	}

	if binary, ok := ast.As[*ast.BinaryExpressionNode](expr); ok {
		deps = append(deps, t.ExtractDependencies(binary.Left)...)
		deps = append(deps, t.ExtractDependencies(binary.Right)...)
		return deps
	}

	if unary, ok := ast.As[*ast.UnaryExpressionNode](expr); ok {
		return t.ExtractDependencies(unary.Operand)
	}

	if call, ok := ast.As[*ast.CallExpressionNode](expr); ok {
		if target, ok := ast.As[*ast.IdentifierExpressionNode](call.Target); ok {
			deps = append(deps, target.Identifier.Name)
		} else if access, ok := ast.As[*ast.MemberAccessExpressionNode](call.Target); ok {
			deps = append(deps, t.ExtractDependencies(access.Target)...)
		}
		for _, arg := range call.Arguments {
			deps = append(deps, t.ExtractDependencies(arg)...)
		}
		return deps
	}

	if assignment, ok := ast.As[*ast.AssignmentExpressionNode](expr); ok {
		return t.ExtractDependencies(assignment.Source)
	}

	if newExpr, ok := ast.As[*ast.NewExpressionNode](expr); ok {
		if newExpr.Type != nil && newExpr.Type.Identifier != nil {
			deps = append(deps, newExpr.Type.Identifier.Name)
		}
		if newExpr.ConstructorCall != nil {
			for _, arg := range newExpr.ConstructorCall.Arguments {
				deps = append(deps, t.ExtractDependencies(arg)...)
			}
		}
		return deps
	}

	if access, ok := ast.As[*ast.MemberAccessExpressionNode](expr); ok {
		return t.ExtractDependencies(access.Target)
	}

	return deps
}

// InferTypeFromExpression infers a display type name using the navigation
// stack for identifier lookups. A nil expression infers "void"; an
// undeterminable one infers "unresolved".
func (t *SymbolTable) InferTypeFromExpression(expr ast.Expression) string {
	return t.inferType(expr, t.Lookup)
}

// InferTypeFromExpressionInContext is InferTypeFromExpression with
// identifier lookups rooted at an arbitrary scope instead of the
// navigation stack; the resolver runs all inference through it.
func (t *SymbolTable) InferTypeFromExpressionInContext(expr ast.Expression, contextScopeID int) string {
	return t.inferType(expr, func(name string) *Symbol {
		return t.LookupInContext(name, contextScopeID)
	})
}

func (t *SymbolTable) inferType(expr ast.Expression, lookup func(string) *Symbol) string {
	if expr == nil {
		return typeVoid
	}

	if literal, ok := ast.As[*ast.LiteralExpressionNode](expr); ok {
		switch literal.Kind {
		case ast.LiteralInteger:
			return "i32"
		case ast.LiteralBoolean:
			return "bool"
		case ast.LiteralString:
			return "string"
		case ast.LiteralFloat:
			return "f32"
		default:
			return typeUnresolved
		}
	}

	if binary, ok := ast.As[*ast.BinaryExpressionNode](expr); ok {
		if binary.OpKind.IsComparison() {
			return "bool"
		}
		// Arithmetic takes the type of whichever operand resolves first.
		if left := ast.CastOrError[ast.Expression](binary.Left); left != nil {
			if leftType := t.inferType(left, lookup); leftType != typeUnresolved {
				return leftType
			}
		}
		if right := ast.CastOrError[ast.Expression](binary.Right); right != nil {
			if rightType := t.inferType(right, lookup); rightType != typeUnresolved {
				return rightType
			}
		}
		return typeUnresolved
	}

	if unary, ok := ast.As[*ast.UnaryExpressionNode](expr); ok {
		switch unary.OpKind {
		case ast.UnaryNot:
			return "bool"
		case ast.UnaryMinus, ast.UnaryPlus:
			if operand := ast.CastOrError[ast.Expression](unary.Operand); operand != nil {
				return t.inferType(operand, lookup)
			}
			return typeUnresolved
		default:
			return typeUnresolved
		}
	}

	if identifier, ok := ast.As[*ast.IdentifierExpressionNode](expr); ok {
		if sym := lookup(identifier.Identifier.Name); sym != nil && sym.State == StateResolved {
			return sym.TypeName
		}
		return typeUnresolved
	}

	if call, ok := ast.As[*ast.CallExpressionNode](expr); ok {
		if target, ok := ast.As[*ast.IdentifierExpressionNode](call.Target); ok {
			// Plain call: the declared return type of the function.
			if sym := lookup(target.Identifier.Name); sym != nil && sym.Kind == SymbolFunction && sym.State == StateResolved {
				return sym.TypeName
			}
		} else if access, ok := ast.As[*ast.MemberAccessExpressionNode](call.Target); ok {
			// Method call: the return type of the member looked up in the
			// type scope of the target's type.
			targetType := t.inferType(access.Target, lookup)
			if targetType != typeUnresolved {
				if typeScopeID := t.FindScopeByName(targetType); typeScopeID != -1 {
					method := t.LookupInScope(typeScopeID, access.Member.Name)
					if method != nil && method.Kind == SymbolFunction && method.State == StateResolved {
						return method.TypeName
					}
				}
			}
		}
		return typeUnresolved
	}

	if assignment, ok := ast.As[*ast.AssignmentExpressionNode](expr); ok {
		if source := ast.CastOrError[ast.Expression](assignment.Source); source != nil {
			return t.inferType(source, lookup)
		}
		return typeUnresolved
	}

	if newExpr, ok := ast.As[*ast.NewExpressionNode](expr); ok {
		if newExpr.Type != nil && newExpr.Type.Identifier != nil {
			typeName := newExpr.Type.Identifier.Name
			if sym := lookup(typeName); sym != nil && (sym.Kind == SymbolClass || sym.Kind == SymbolEnum) {
				return typeName
			}
		}
		return typeUnresolved
	}

	if access, ok := ast.As[*ast.MemberAccessExpressionNode](expr); ok {
		targetType := t.inferType(access.Target, lookup)
		if targetType == typeUnresolved {
			return typeUnresolved
		}
		structScopeID := t.FindScopeByName(targetType)
		if structScopeID == -1 {
			return typeUnresolved
		}
		field := t.LookupInScope(structScopeID, access.Member.Name)
		if field != nil && field.State == StateResolved {
			return field.TypeName
		}
		return typeUnresolved
	}

	return typeUnresolved
}
