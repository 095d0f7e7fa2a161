// Package tenancy resolves which tenant's rows an authenticated account may
// see and mutate. The resolved Scope is recomputed per request and passed
// explicitly; it is never cached or stored globally.
package tenancy

import "github.com/google/uuid"

// User carries the account fields that determine tenant scope.
type User struct {
	ID              uuid.UUID
	IsGodUser       bool
	IsSuperadmin    bool
	CreatedByUserID *uuid.UUID
}

// Scope is the tenant filter applied to every list/read/write. It is either
// unrestricted (god user), bound to one owner id, or empty (owns nothing).
type Scope struct {
	all   bool
	owner *uuid.UUID
}

// AllData returns the unrestricted scope of the god user.
func AllData() Scope { return Scope{all: true} }

// ScopedTo returns a scope bound to a single tenant root.
func ScopedTo(owner uuid.UUID) Scope { return Scope{owner: &owner} }

// Nothing returns a scope that matches no rows. Orphaned team members
// resolve here so a missing back-reference fails closed instead of
// matching NULL-owned rows.
func Nothing() Scope { return Scope{} }

// Resolve computes the effective scope for an account.
func Resolve(u User) Scope {
	switch {
	case u.IsGodUser:
		return AllData()
	case u.IsSuperadmin:
		return ScopedTo(u.ID)
	case u.CreatedByUserID != nil:
		return ScopedTo(*u.CreatedByUserID)
	default:
		return Nothing()
	}
}

// All reports whether the scope is unrestricted.
func (s Scope) All() bool { return s.all }

// Owner returns the tenant root id the scope is bound to, or nil when the
// scope is unrestricted or empty.
func (s Scope) Owner() *uuid.UUID {
	if s.all || s.owner == nil {
		return nil
	}
	o := *s.owner
	return &o
}

// Empty reports whether the scope matches no rows at all.
func (s Scope) Empty() bool { return !s.all && s.owner == nil }

// Matches reports whether a row with the given owner id is visible under
// this scope. Rows with a nil owner belong to the god user and are only
// visible to the unrestricted scope.
func (s Scope) Matches(rowOwner *uuid.UUID) bool {
	if s.all {
		return true
	}
	if s.owner == nil || rowOwner == nil {
		return false
	}
	return *rowOwner == *s.owner
}

// OwnerForCreate returns the owner id stamped on rows created under this
// scope, and whether creating is allowed at all. The god user creates
// NULL-owned rows; an empty scope may not create anything.
func (s Scope) OwnerForCreate() (*uuid.UUID, bool) {
	if s.all {
		return nil, true
	}
	if s.owner == nil {
		return nil, false
	}
	o := *s.owner
	return &o, true
}
