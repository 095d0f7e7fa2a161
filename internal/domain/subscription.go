package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/printfarmhq/printfarm/internal/tenancy"
)

// Subscription is the tenant's plan record. One per tenant root.
type Subscription struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID          *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"owner_id"`
	Plan             string     `gorm:"size:40;default:'free'" json:"plan"`
	Status           string     `gorm:"size:20;default:'active'" json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type SubscriptionRepo interface {
	Save(ctx context.Context, s *Subscription) error
	FindByOwner(ctx context.Context, sc tenancy.Scope) (*Subscription, error)
}
