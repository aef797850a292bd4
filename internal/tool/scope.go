package tool

import "github.com/Cyclone1070/boxagent/internal/tool/service/path"

// Scope is the confinement context a tool call runs in. It is supplied by
// the dispatcher per registration and never appears in model arguments.
type Scope struct {
	resolver *path.Resolver
}

// NewScope binds a scope to a resolver.
func NewScope(resolver *path.Resolver) Scope {
	if resolver == nil {
		panic("resolver is required")
	}
	return Scope{resolver: resolver}
}

// Root returns the canonical root of the scope.
func (s Scope) Root() string {
	if s.resolver == nil {
		return ""
	}
	return s.resolver.Root()
}

// Confine resolves input against the scope's root.
func (s Scope) Confine(input string) (path.ConfinedPath, error) {
	if s.resolver == nil {
		return path.ConfinedPath{}, path.ErrWorkspaceRootNotSet
	}
	return s.resolver.Confine(input)
}
