// Package postgres holds the GORM-backed repositories. Every query over
// owned rows passes through scoped so the tenant filter cannot be skipped.
package postgres

import (
	"gorm.io/gorm"

	"github.com/printfarmhq/printfarm/internal/tenancy"
)

// scoped applies a tenancy scope as a GORM scope. Unrestricted scopes add
// no predicate, bound scopes filter by owner, empty scopes match nothing.
func scoped(sc tenancy.Scope) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case sc.All():
			return db
		case sc.Owner() != nil:
			return db.Where("owner_id = ?", sc.Owner())
		default:
			return db.Where("1 = 0")
		}
	}
}
