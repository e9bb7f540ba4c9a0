package semantics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"hotate/internal/ast"
	"hotate/internal/ir"
)

var log = commonlog.GetLogger("hotate.semantics")

// ErrUnknownType is wrapped by type-name conversion failures; it is the
// distinguishable signal for a name that maps to no primitive and no
// declared type.
var ErrUnknownType = errors.New("unknown type")

// SymbolTable is the persistent scope tree of one compilation. Scopes are
// identified by a stable integer index — ids are assigned in creation
// order and never recycled or reordered — with scope 0 always the global
// scope ("global", parent -1).
//
// The table has two independent phases. The building phase consumes the
// AST through EnterScope/DeclareSymbol and tracks its position in
// buildingScopeLevel alone. The navigation phase is any later read-only
// pass; it moves a separate stack of scope ids via PushScope/PopScope.
type SymbolTable struct {
	allScopes     []*Scope
	scopeNameToID map[string]int
	nextScopeID   int

	activeScopeStack []int

	buildingScopeLevel int
}

// NewSymbolTable returns a table holding only the global scope, which is
// also the navigation stack's starting point.
func NewSymbolTable() *SymbolTable {
	t := &SymbolTable{}
	t.reset()
	return t
}

func (t *SymbolTable) reset() {
	t.allScopes = []*Scope{newScope("global", -1)}
	t.scopeNameToID = map[string]int{"global": 0}
	t.nextScopeID = 1
	t.activeScopeStack = []int{0}
	t.buildingScopeLevel = 0
}

// Clear drops every scope and symbol and recreates the global scope.
func (t *SymbolTable) Clear() {
	t.reset()
}

// --- Building phase ---

// EnterScope creates an anonymous child of the current building scope,
// named "scope_<id>" so the name index stays total.
func (t *SymbolTable) EnterScope() {
	t.EnterNamedScope("scope_" + strconv.Itoa(t.nextScopeID))
}

// EnterNamedScope creates a named child of the current building scope and
// moves the building cursor into it. The name must be unique among scope
// names; it is the lookup key for type scopes.
func (t *SymbolTable) EnterNamedScope(name string) {
	parent := t.buildingScopeLevel
	t.allScopes = append(t.allScopes, newScope(name, parent))
	t.scopeNameToID[name] = t.nextScopeID
	t.buildingScopeLevel = t.nextScopeID
	t.nextScopeID++
}

// ExitScope moves the building cursor to the parent scope. Scopes are
// persistent; nothing is destroyed.
func (t *SymbolTable) ExitScope() {
	if t.buildingScopeLevel > 0 {
		t.buildingScopeLevel = t.allScopes[t.buildingScopeLevel].ParentScopeID
	}
}

// DeclareSymbol inserts a fully typed symbol at the current building
// scope. It reports false — leaving the existing symbol intact — when the
// name is already declared in that scope.
func (t *SymbolTable) DeclareSymbol(name string, kind SymbolKind, dataType ir.Type, typeName string) bool {
	if t.SymbolExistsCurrentScope(name) {
		return false
	}
	sym := &Symbol{
		Name:       name,
		Kind:       kind,
		DataType:   dataType,
		TypeName:   typeName,
		ScopeLevel: t.buildingScopeLevel,
		State:      StateResolved,
	}
	t.allScopes[t.buildingScopeLevel].insert(sym)
	return true
}

// DeclareUnresolvedSymbol inserts a symbol whose type will be inferred
// from its initializer, seeding the dependency list from it.
func (t *SymbolTable) DeclareUnresolvedSymbol(name string, kind SymbolKind, initializer ast.Expression) bool {
	if t.SymbolExistsCurrentScope(name) {
		return false
	}
	sym := &Symbol{
		Name:        name,
		Kind:        kind,
		DataType:    ir.I32(),
		TypeName:    typeUnresolved,
		ScopeLevel:  t.buildingScopeLevel,
		State:       StateUnresolved,
		Initializer: initializer,
	}
	if initializer != nil {
		sym.Dependencies = t.ExtractDependencies(initializer)
	}
	t.allScopes[t.buildingScopeLevel].insert(sym)
	return true
}

// --- Navigation phase ---

// PushScope pushes a previously created scope by name, returning its id or
// -1 when the name is unknown (the stack is left unchanged).
func (t *SymbolTable) PushScope(name string) int {
	id, ok := t.scopeNameToID[name]
	if !ok {
		return -1
	}
	t.activeScopeStack = append(t.activeScopeStack, id)
	return id
}

// PushScopeID pushes a scope by id, returning the id or -1 when out of
// range.
func (t *SymbolTable) PushScopeID(scopeID int) int {
	if scopeID < 0 || scopeID >= len(t.allScopes) {
		return -1
	}
	t.activeScopeStack = append(t.activeScopeStack, scopeID)
	return scopeID
}

// PopScope pops the navigation stack, never below the global scope.
func (t *SymbolTable) PopScope() {
	if len(t.activeScopeStack) > 1 {
		t.activeScopeStack = t.activeScopeStack[:len(t.activeScopeStack)-1]
	}
}

// ResetNavigation empties the navigation stack back to the global scope.
func (t *SymbolTable) ResetNavigation() {
	t.activeScopeStack = t.activeScopeStack[:0]
	t.activeScopeStack = append(t.activeScopeStack, 0)
}

// --- Queries ---

// Lookup searches from the top of the navigation stack up through the
// parent chain. At the topmost scope only, a scope named "Owner::method"
// additionally searches the type scope "Owner" for a field (a symbol of
// kind variable) — this realizes unqualified field access from inside
// member functions. The match is purely lexical; the builder is the only
// producer of scope names containing "::".
func (t *SymbolTable) Lookup(name string) *Symbol {
	if len(t.activeScopeStack) == 0 {
		return nil
	}
	top := t.activeScopeStack[len(t.activeScopeStack)-1]
	for scopeID := top; scopeID >= 0 && scopeID < len(t.allScopes); scopeID = t.allScopes[scopeID].ParentScopeID {
		if sym := t.allScopes[scopeID].lookup(name); sym != nil {
			return sym
		}
		if scopeID == top {
			if sym := t.lookupOwnerField(scopeID, name); sym != nil {
				return sym
			}
		}
	}
	return nil
}

// lookupOwnerField applies the member-function special case: when the
// scope is named "Owner::method", search the type scope "Owner" for a
// field.
func (t *SymbolTable) lookupOwnerField(scopeID int, name string) *Symbol {
	scopeName := t.allScopes[scopeID].Name
	sep := strings.Index(scopeName, "::")
	if sep < 0 {
		return nil
	}
	typeScopeID := t.FindScopeByName(scopeName[:sep])
	if typeScopeID == -1 {
		return nil
	}
	if sym := t.allScopes[typeScopeID].lookup(name); sym != nil && sym.Kind == SymbolVariable {
		return sym
	}
	return nil
}

// LookupCurrentScope searches only the scope on top of the navigation
// stack.
func (t *SymbolTable) LookupCurrentScope(name string) *Symbol {
	if len(t.activeScopeStack) == 0 {
		return nil
	}
	current := t.activeScopeStack[len(t.activeScopeStack)-1]
	return t.allScopes[current].lookup(name)
}

// LookupInScope searches a single scope by id.
func (t *SymbolTable) LookupInScope(scopeID int, name string) *Symbol {
	if scopeID < 0 || scopeID >= len(t.allScopes) {
		return nil
	}
	return t.allScopes[scopeID].lookup(name)
}

// LookupInContext searches the parent chain rooted at an arbitrary scope.
// The resolver uses this instead of the navigation stack.
func (t *SymbolTable) LookupInContext(name string, contextScopeID int) *Symbol {
	for scopeID := contextScopeID; scopeID >= 0 && scopeID < len(t.allScopes); scopeID = t.allScopes[scopeID].ParentScopeID {
		if sym := t.allScopes[scopeID].lookup(name); sym != nil {
			return sym
		}
	}
	return nil
}

// AllSymbolsInScope returns a scope's symbols in declaration order; an
// invalid id yields nil.
func (t *SymbolTable) AllSymbolsInScope(scopeID int) []*Symbol {
	if scopeID < 0 || scopeID >= len(t.allScopes) {
		return nil
	}
	return t.allScopes[scopeID].Symbols()
}

// SymbolExists reports whether Lookup finds the name.
func (t *SymbolTable) SymbolExists(name string) bool {
	return t.Lookup(name) != nil
}

// SymbolExistsCurrentScope reports whether the name is declared in the
// current building scope.
func (t *SymbolTable) SymbolExistsCurrentScope(name string) bool {
	return t.allScopes[t.buildingScopeLevel].lookup(name) != nil
}

// --- Scope management ---

// FindScopeByName resolves a scope name to its id, or -1.
func (t *SymbolTable) FindScopeByName(name string) int {
	id, ok := t.scopeNameToID[name]
	if !ok {
		return -1
	}
	return id
}

// CurrentScopeID returns the top of the navigation stack, or -1 when
// empty.
func (t *SymbolTable) CurrentScopeID() int {
	if len(t.activeScopeStack) == 0 {
		return -1
	}
	return t.activeScopeStack[len(t.activeScopeStack)-1]
}

// CurrentScopeName returns the name of the current navigation scope.
func (t *SymbolTable) CurrentScopeName() string {
	id := t.CurrentScopeID()
	if id < 0 || id >= len(t.allScopes) {
		return ""
	}
	return t.allScopes[id].Name
}

// CurrentScopeLevel returns the scope id the building phase is writing
// into.
func (t *SymbolTable) CurrentScopeLevel() int { return t.buildingScopeLevel }

// ScopeCount returns the number of scopes created so far.
func (t *SymbolTable) ScopeCount() int { return len(t.allScopes) }

// Scope returns a scope by id, or nil.
func (t *SymbolTable) Scope(scopeID int) *Scope {
	if scopeID < 0 || scopeID >= len(t.allScopes) {
		return nil
	}
	return t.allScopes[scopeID]
}

// --- Type conversion ---

// StringToIRType maps a display type name to its IR type: primitives
// directly, string and arrays to ptr, classes to struct types with layout
// computed from the class scope's fields, enums to i32. Unknown names
// return an error wrapping ErrUnknownType.
func (t *SymbolTable) StringToIRType(typeName string) (ir.Type, error) {
	if strings.HasSuffix(typeName, "[]") && len(typeName) > 2 {
		// Arrays lower to pointers to the element storage.
		return ir.Ptr(), nil
	}

	switch typeName {
	case "i8":
		return ir.I8(), nil
	case "i16":
		return ir.I16(), nil
	case "i32":
		return ir.I32(), nil
	case "i64":
		return ir.I64(), nil
	case "bool":
		return ir.Bool(), nil
	case "f32":
		return ir.F32(), nil
	case "f64":
		return ir.F64(), nil
	case "void":
		return ir.Void(), nil
	case "ptr":
		return ir.Ptr(), nil
	case "string":
		// Strings are heap records addressed by pointer.
		return ir.Ptr(), nil
	}

	if sym := t.Lookup(typeName); sym != nil {
		switch sym.Kind {
		case SymbolClass:
			structScopeID := t.FindScopeByName(typeName)
			if structScopeID == -1 {
				log.Errorf("cannot find scope for class type: %s", typeName)
				return ir.Ptr(), nil
			}
			layout := &ir.StructLayout{Name: typeName}
			for _, field := range t.AllSymbolsInScope(structScopeID) {
				if field != nil && field.Kind == SymbolVariable {
					layout.Fields = append(layout.Fields, ir.Field{Name: field.Name, Type: field.DataType})
				}
			}
			layout.CalculateLayout()
			return ir.Struct(layout), nil
		case SymbolEnum:
			return ir.I32(), nil
		}
	}

	return ir.Type{}, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
}

// --- Dumps ---

// DumpTable logs every scope and its symbols at info level.
func (t *SymbolTable) DumpTable() {
	log.Infof("total scopes: %d", len(t.allScopes))
	for scopeID, scope := range t.allScopes {
		info := fmt.Sprintf("scope %d: %q", scopeID, scope.Name)
		if scope.ParentScopeID >= 0 {
			info += fmt.Sprintf(" (parent: %d)", scope.ParentScopeID)
		}
		log.Info(info)
		if len(scope.order) == 0 {
			log.Info("  (empty)")
			continue
		}
		for _, sym := range scope.Symbols() {
			log.Infof("  %-20s %-12s %-15s %s", sym.Name, sym.Kind, sym.TypeName, sym.State)
		}
	}
}

// DumpNavigation logs the navigation stack at info level.
func (t *SymbolTable) DumpNavigation() {
	var b strings.Builder
	b.WriteString("active scope stack: ")
	for i, scopeID := range t.activeScopeStack {
		if i > 0 {
			b.WriteString(" -> ")
		}
		fmt.Fprintf(&b, "%d(%q)", scopeID, t.allScopes[scopeID].Name)
	}
	log.Info(b.String())
	log.Infof("current scope: %s (id: %d)", t.CurrentScopeName(), t.CurrentScopeID())
}
