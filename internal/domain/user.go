package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/printfarmhq/printfarm/internal/tenancy"
)

// User is an account. A user with IsSuperadmin and no CreatedByUserID is a
// tenant root; team members point back to their root via CreatedByUserID.
// At most one user system-wide has IsGodUser set.
type User struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string     `gorm:"size:140;uniqueIndex" json:"email"`
	Name            string     `gorm:"size:140" json:"name"`
	PasswordHash    string     `gorm:"size:100" json:"-"`
	IsGodUser       bool       `gorm:"not null;default:false" json:"is_god_user"`
	IsSuperadmin    bool       `gorm:"not null;default:false" json:"is_superadmin"`
	CreatedByUserID *uuid.UUID `gorm:"type:uuid;index" json:"created_by_user_id"`
	IsActive        bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Scope resolves the tenant scope this user operates under.
func (u *User) Scope() tenancy.Scope {
	return tenancy.Resolve(tenancy.User{
		ID:              u.ID,
		IsGodUser:       u.IsGodUser,
		IsSuperadmin:    u.IsSuperadmin,
		CreatedByUserID: u.CreatedByUserID,
	})
}

type UserRepo interface {
	Save(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
