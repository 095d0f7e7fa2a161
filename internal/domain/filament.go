package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/printfarmhq/printfarm/internal/tenancy"
)

// Filament is a spool type in a tenant's inventory. TotalQtyKg is a running
// balance adjusted by purchases and explicit inventory edits.
type Filament struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID    *uuid.UUID `gorm:"type:uuid;index" json:"owner_id"`
	Color      string     `gorm:"size:60" json:"color"`
	Brand      string     `gorm:"size:100" json:"brand"`
	Material   string     `gorm:"size:30" json:"material"`
	PricePerKg float64    `gorm:"type:decimal(12,2);default:0" json:"price_per_kg"`
	TotalQtyKg float64    `gorm:"type:decimal(12,3);default:0" json:"total_qty_kg"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// FilamentPurchase records a stock intake; creating one increments the
// filament's TotalQtyKg.
type FilamentPurchase struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID        *uuid.UUID `gorm:"type:uuid;index" json:"owner_id"`
	FilamentID     uuid.UUID  `gorm:"type:uuid;index" json:"filament_id"`
	QtyKg          float64    `gorm:"type:decimal(12,3)" json:"qty_kg"`
	PricePerKgPaid float64    `gorm:"type:decimal(12,2);default:0" json:"price_per_kg_paid"`
	PurchasedAt    time.Time  `json:"purchased_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

type FilamentRepo interface {
	Save(ctx context.Context, f *Filament) error
	FindByID(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*Filament, error)
	FindByIDs(ctx context.Context, sc tenancy.Scope, ids []uuid.UUID) ([]Filament, error)
	List(ctx context.Context, sc tenancy.Scope) ([]Filament, error)
	Delete(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error
	// AdjustStock applies a relative stock delta as a single SQL expression
	// so concurrent purchases do not overwrite each other.
	AdjustStock(ctx context.Context, sc tenancy.Scope, id uuid.UUID, deltaKg float64) error
	SavePurchase(ctx context.Context, p *FilamentPurchase) error
	ListPurchases(ctx context.Context, sc tenancy.Scope, filamentID uuid.UUID) ([]FilamentPurchase, error)
}
