package discovery

import "context"

// CompiledNames reflectively extracts the public surface of a module with
// no inspectable source. Deny-listed and underscore-prefixed identifiers
// are rejected before any load attempt; a failed load means no names
// available and is never propagated.
//
// A module-declared export list is authoritative and bypasses kind
// filtering. Otherwise only class, function, and natively-implemented
// callable members survive; data members are never emitted.
func (e *Engine) CompiledNames(ctx context.Context, identifier string, src Source, includePrivate bool) []Name {
	if _, denied := e.deny[identifier]; denied {
		return nil
	}
	if !includePrivate && isPrivateName(identifier) {
		return nil
	}
	if e.reflector == nil {
		return nil
	}

	mod, err := e.reflector.Load(ctx, identifier)
	if err != nil || mod == nil {
		return nil
	}

	if mod.Exports != nil {
		names := make([]Name, 0, len(mod.Exports))
		for _, n := range mod.Exports {
			names = append(names, Name{Name: n, Module: identifier, Package: identifier, Source: src})
		}
		return names
	}

	var names []Name
	for _, m := range mod.Members {
		if !includePrivate && isPrivateName(m.Name) {
			continue
		}
		switch m.Kind {
		case MemberClass, MemberFunction, MemberBuiltin:
			names = append(names, Name{Name: m.Name, Module: identifier, Package: identifier, Source: src})
		}
	}
	return names
}
