// Package access resolves a caller identity into a visibility scope.
//
// The scope is computed once per request and threaded into query and
// validation calls; it is the single source of truth for whether an
// owner filter is forced (regular users) or merely optional (admins).
package access

// Principal identifies the authenticated caller.
type Principal struct {
	ID    string
	Admin bool
}

// Scope bounds the set of records a caller may see or affect.
// The zero value is the empty scope and allows nothing; use Resolve.
type Scope struct {
	ownerID      string
	unrestricted bool
}

// Resolve derives the scope for a principal: unrestricted for admins,
// owner-bound otherwise.
func Resolve(p Principal) Scope {
	if p.Admin {
		return Scope{unrestricted: true}
	}
	return Scope{ownerID: p.ID}
}

// Unrestricted reports whether the scope covers all records.
func (s Scope) Unrestricted() bool {
	return s.unrestricted
}

// OwnerID returns the forced owner id and true when the scope is bound
// to a single owner.
func (s Scope) OwnerID() (string, bool) {
	if s.unrestricted {
		return "", false
	}
	return s.ownerID, s.ownerID != ""
}

// Allows reports whether a record owned by ownerID is visible in this
// scope.
func (s Scope) Allows(ownerID string) bool {
	return s.unrestricted || (s.ownerID != "" && s.ownerID == ownerID)
}
