package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/printfarmhq/printfarm/internal/tenancy"
)

type PrinterStatus string

const (
	PrinterStatusIdle        PrinterStatus = "idle"
	PrinterStatusPrinting    PrinterStatus = "printing"
	PrinterStatusMaintenance PrinterStatus = "maintenance"
	PrinterStatusOffline     PrinterStatus = "offline"
)

// ValidPrinterStatus reports whether s is a known printer status.
func ValidPrinterStatus(s PrinterStatus) bool {
	switch s {
	case PrinterStatusIdle, PrinterStatusPrinting, PrinterStatusMaintenance, PrinterStatusOffline:
		return true
	}
	return false
}

// PrinterType is a template (brand/model) shared by physical printers.
type PrinterType struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID           *uuid.UUID `gorm:"type:uuid;index" json:"owner_id"`
	Brand             string     `gorm:"size:100" json:"brand"`
	Model             string     `gorm:"size:140" json:"model"`
	ExpectedLifeHours float64    `gorm:"type:decimal(10,1);default:0" json:"expected_life_hours"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Printer is a physical machine. NameNormalized backs the case-insensitive
// per-tenant name uniqueness; NULL-owned printers (god user) get their own
// partial unique index since SQL NULL defeats plain UNIQUE.
type Printer struct {
	ID               uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID          *uuid.UUID    `gorm:"type:uuid;index" json:"owner_id"`
	PrinterTypeID    *uuid.UUID    `gorm:"type:uuid;index" json:"printer_type_id"`
	Name             string        `gorm:"size:140" json:"name"`
	NameNormalized   string        `gorm:"size:140;index" json:"-"`
	PurchasePriceEUR float64       `gorm:"type:decimal(12,2);default:0" json:"purchase_price_eur"`
	WorkingHours     float64       `gorm:"type:decimal(10,1);default:0" json:"working_hours"`
	Status           PrinterStatus `gorm:"type:varchar(20);default:'idle'" json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

type PrinterTypeRepo interface {
	Save(ctx context.Context, pt *PrinterType) error
	FindByID(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*PrinterType, error)
	List(ctx context.Context, sc tenancy.Scope) ([]PrinterType, error)
	Delete(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error
}

type PrinterRepo interface {
	Save(ctx context.Context, p *Printer) error
	FindByID(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*Printer, error)
	FindByIDs(ctx context.Context, sc tenancy.Scope, ids []uuid.UUID) ([]Printer, error)
	// FindByNormalizedName looks up a printer by its normalized name within
	// the exact owner partition (including the NULL partition).
	FindByNormalizedName(ctx context.Context, owner *uuid.UUID, nameNormalized string) (*Printer, error)
	List(ctx context.Context, sc tenancy.Scope) ([]Printer, error)
	Delete(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error
	// AddWorkingHours increments working_hours with a SQL expression.
	AddWorkingHours(ctx context.Context, id uuid.UUID, hours float64) error
}
