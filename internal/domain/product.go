package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/printfarmhq/printfarm/internal/tenancy"
)

// Product is a sellable item composed of one or more plates.
// PrintTimeHrs is the legacy per-product time, superseded by per-plate times.
type Product struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID             *uuid.UUID `gorm:"type:uuid;index" json:"owner_id"`
	Name                string     `gorm:"size:180" json:"name"`
	SKU                 string     `gorm:"size:100;index" json:"sku"`
	PrintTimeHrs        float64    `gorm:"type:decimal(8,2);default:0" json:"print_time_hrs"`
	AdditionalPartsCost float64    `gorm:"type:decimal(12,2);default:0" json:"additional_parts_cost"`
	ModelFilePath       string     `gorm:"size:255" json:"model_file_path"`
	GCodeFilePath       string     `gorm:"size:255" json:"gcode_file_path"`
	Plates              []Plate    `json:"plates"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Plate is one physical print-bed layout of a product, with its own
// filament usage and print time.
type Plate struct {
	ID             uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID      uuid.UUID            `gorm:"type:uuid;index" json:"product_id"`
	OwnerID        *uuid.UUID           `gorm:"type:uuid;index" json:"owner_id"`
	Name           string               `gorm:"size:140" json:"name"`
	Quantity       int                  `gorm:"not null;default:1" json:"quantity"`
	PrintTimeHrs   float64              `gorm:"type:decimal(8,2);default:0" json:"print_time_hrs"`
	FilamentUsages []PlateFilamentUsage `json:"filament_usages"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// PlateFilamentUsage links a plate to a filament with the grams consumed.
// GramsUsed is validated > 0 at write time, never at cost time.
type PlateFilamentUsage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlateID    uuid.UUID `gorm:"type:uuid;index" json:"plate_id"`
	FilamentID uuid.UUID `gorm:"type:uuid;index" json:"filament_id"`
	GramsUsed  float64   `gorm:"type:decimal(10,2)" json:"grams_used"`
}

type ProductRepo interface {
	Save(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*Product, error)
	List(ctx context.Context, sc tenancy.Scope) ([]Product, error)
	// Delete removes the product and cascades to its plates and usages.
	Delete(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error
	SavePlate(ctx context.Context, pl *Plate) error
	FindPlate(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*Plate, error)
	// DeletePlate removes the plate and its usages.
	DeletePlate(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error
	// ReplacePlateUsages swaps the full usage set of a plate.
	ReplacePlateUsages(ctx context.Context, plateID uuid.UUID, usages []PlateFilamentUsage) error
}
