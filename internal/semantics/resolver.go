package semantics

import (
	"errors"
)

// MaxIterations bounds the resolver fixpoint. Any well-founded dependency
// chain resolves in one pass per link; ten passes without reaching the
// fixpoint means an unresolvable cycle through inference.
const MaxIterations = 10

// ResolveAllTypes runs the inference fixpoint over every unresolved symbol
// in every scope. An iteration makes progress when at least one symbol
// moves from unresolved to resolved; the loop stops when an iteration
// makes none or the iteration bound is hit. It reports false when any
// symbol remains unresolved or the bound was reached.
func (t *SymbolTable) ResolveAllTypes() bool {
	log.Debug("starting type resolution for all unresolved symbols")

	progress := true
	iteration := 0

	for progress && iteration < MaxIterations {
		progress = false
		iteration++
		log.Debugf("type resolution iteration %d", iteration)

		for scopeID := range t.allScopes {
			for _, sym := range t.allScopes[scopeID].Symbols() {
				if sym.State != StateUnresolved {
					continue
				}
				log.Debugf("attempting to resolve symbol: %s", sym.Name)
				if t.resolveSymbol(sym, scopeID) {
					progress = true
					log.Debugf("resolved symbol: %s", sym.Name)
				}
			}
		}
	}

	allResolved := true
	for _, scope := range t.allScopes {
		for _, sym := range scope.Symbols() {
			if sym.State == StateUnresolved {
				log.Errorf("failed to resolve type for symbol: %s", sym.Name)
				allResolved = false
			}
		}
	}

	if iteration >= MaxIterations {
		log.Errorf("type resolution exceeded %d iterations - possible circular dependencies", MaxIterations)
		return false
	}

	return allResolved
}

// ResolveSymbolType resolves one symbol by name, searching every scope in
// id order for the first occurrence.
func (t *SymbolTable) ResolveSymbolType(name string) bool {
	for scopeID := range t.allScopes {
		if sym := t.allScopes[scopeID].lookup(name); sym != nil {
			return t.resolveSymbol(sym, scopeID)
		}
	}
	log.Errorf("cannot resolve type for unknown symbol: %s", name)
	return false
}

// ResolveSymbolTypeInContext resolves the symbol a parent-chain lookup
// from the given scope finds, so a shadowed name resolves to the
// occurrence the dependent symbol actually sees.
func (t *SymbolTable) ResolveSymbolTypeInContext(name string, contextScopeID int) bool {
	if sym := t.LookupInContext(name, contextScopeID); sym != nil {
		return t.resolveSymbol(sym, sym.ScopeLevel)
	}
	log.Errorf("cannot resolve type for unknown symbol: %s", name)
	return false
}

// resolveSymbol resolves a single symbol in the context of its owning
// scope. The resolving state marks the symbol while its dependencies are
// chased; finding a symbol already in that state is a cycle.
func (t *SymbolTable) resolveSymbol(sym *Symbol, scopeID int) bool {
	if sym.State == StateResolved {
		return true
	}
	if sym.State == StateResolving {
		log.Errorf("circular dependency detected while resolving symbol: %s", sym.Name)
		return false
	}

	sym.State = StateResolving

	for _, dep := range sym.Dependencies {
		if !t.ResolveSymbolTypeInContext(dep, scopeID) {
			log.Errorf("failed to resolve dependency %q for symbol %q", dep, sym.Name)
			sym.State = StateUnresolved
			return false
		}
	}

	if sym.Initializer == nil {
		log.Errorf("cannot infer type for symbol: %s", sym.Name)
		sym.State = StateUnresolved
		return false
	}

	inferred := t.InferTypeFromExpressionInContext(sym.Initializer, scopeID)
	if inferred == typeUnresolved {
		log.Errorf("cannot infer type for symbol: %s", sym.Name)
		sym.State = StateUnresolved
		return false
	}

	dataType, err := t.StringToIRType(inferred)
	if err != nil {
		if errors.Is(err, ErrUnknownType) {
			log.Errorf("error converting inferred type %q to IR type for symbol %q: %s", inferred, sym.Name, err)
		}
		sym.State = StateUnresolved
		return false
	}

	sym.DataType = dataType
	sym.TypeName = inferred
	sym.State = StateResolved
	log.Debugf("resolved symbol %q to type %q", sym.Name, inferred)
	return true
}
