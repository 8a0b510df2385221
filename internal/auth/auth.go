// Package auth holds the authorization collaborator consulted by trip
// creation and fund withdrawal, plus the JWT machinery that identifies
// callers at the transport boundary.
package auth

// Caller identifies an authenticated request origin.
type Caller struct {
	ID   string
	Role string
}

// RoleOperator marks the single designated operator.
const RoleOperator = "operator"

// AccessControl decides whether a caller is the designated operator.
type AccessControl interface {
	IsOperator(c Caller) bool
}

// RoleAccess grants operator rights from the caller's role claim.
type RoleAccess struct{}

func (RoleAccess) IsOperator(c Caller) bool {
	return c.Role == RoleOperator
}

// StaticAccess grants operator rights to a fixed set of caller IDs,
// regardless of role. Useful for tests and bootstrap configuration.
type StaticAccess map[string]struct{}

// NewStaticAccess builds a StaticAccess from operator IDs.
func NewStaticAccess(ids ...string) StaticAccess {
	s := make(StaticAccess, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s StaticAccess) IsOperator(c Caller) bool {
	_, ok := s[c.ID]
	return ok
}
