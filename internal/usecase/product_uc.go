package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/printfarmhq/printfarm/internal/costing"
	"github.com/printfarmhq/printfarm/internal/domain"
	"github.com/printfarmhq/printfarm/internal/tenancy"
)

type ProductUC struct {
	Products  domain.ProductRepo
	Filaments domain.FilamentRepo
}

func (uc *ProductUC) List(ctx context.Context, sc tenancy.Scope) ([]domain.Product, error) {
	return uc.Products.List(ctx, sc)
}

func (uc *ProductUC) Get(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*domain.Product, error) {
	return uc.Products.FindByID(ctx, sc, id)
}

func validatePlate(pl *domain.Plate) error {
	if pl.Quantity < 1 {
		return domain.Invalid("quantity", "must be at least 1")
	}
	if pl.PrintTimeHrs < 0 {
		return domain.Invalid("print_time_hrs", "must not be negative")
	}
	for _, u := range pl.FilamentUsages {
		if u.FilamentID == uuid.Nil {
			return domain.Invalid("filament_usages.filament_id", "required")
		}
		if u.GramsUsed <= 0 {
			return domain.Invalid("filament_usages.grams_used", "must be greater than zero")
		}
	}
	return nil
}

// Create stores a product together with any plates supplied inline.
func (uc *ProductUC) Create(ctx context.Context, sc tenancy.Scope, p *domain.Product) error {
	owner, ok := sc.OwnerForCreate()
	if !ok {
		return domain.ErrForbidden
	}
	if strings.TrimSpace(p.Name) == "" {
		return domain.Invalid("name", "required")
	}
	if p.AdditionalPartsCost < 0 {
		return domain.Invalid("additional_parts_cost", "must not be negative")
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.OwnerID = owner
	for i := range p.Plates {
		pl := &p.Plates[i]
		if err := validatePlate(pl); err != nil {
			return err
		}
		if pl.ID == uuid.Nil {
			pl.ID = uuid.New()
		}
		pl.ProductID = p.ID
		pl.OwnerID = owner
		for j := range pl.FilamentUsages {
			u := &pl.FilamentUsages[j]
			if u.ID == uuid.Nil {
				u.ID = uuid.New()
			}
			u.PlateID = pl.ID
		}
	}
	return uc.Products.Save(ctx, p)
}

func (uc *ProductUC) Update(ctx context.Context, sc tenancy.Scope, p *domain.Product) error {
	existing, err := uc.Products.FindByID(ctx, sc, p.ID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(p.Name) == "" {
		return domain.Invalid("name", "required")
	}
	if p.AdditionalPartsCost < 0 {
		return domain.Invalid("additional_parts_cost", "must not be negative")
	}
	p.OwnerID = existing.OwnerID
	p.CreatedAt = existing.CreatedAt
	p.Plates = nil // plates are managed through the plate operations
	return uc.Products.Save(ctx, p)
}

func (uc *ProductUC) Delete(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error {
	return uc.Products.Delete(ctx, sc, id)
}

// AddPlate attaches a new plate (with usages) to a scoped product.
func (uc *ProductUC) AddPlate(ctx context.Context, sc tenancy.Scope, productID uuid.UUID, pl *domain.Plate) error {
	p, err := uc.Products.FindByID(ctx, sc, productID)
	if err != nil {
		return err
	}
	if err := validatePlate(pl); err != nil {
		return err
	}
	if pl.ID == uuid.Nil {
		pl.ID = uuid.New()
	}
	pl.ProductID = p.ID
	pl.OwnerID = p.OwnerID
	for i := range pl.FilamentUsages {
		u := &pl.FilamentUsages[i]
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		u.PlateID = pl.ID
	}
	return uc.Products.SavePlate(ctx, pl)
}

func (uc *ProductUC) GetPlate(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*domain.Plate, error) {
	return uc.Products.FindPlate(ctx, sc, id)
}

// UpdatePlate saves plate fields and replaces its usage set.
func (uc *ProductUC) UpdatePlate(ctx context.Context, sc tenancy.Scope, pl *domain.Plate) error {
	existing, err := uc.Products.FindPlate(ctx, sc, pl.ID)
	if err != nil {
		return err
	}
	if err := validatePlate(pl); err != nil {
		return err
	}
	pl.ProductID = existing.ProductID
	pl.OwnerID = existing.OwnerID
	pl.CreatedAt = existing.CreatedAt
	usages := pl.FilamentUsages
	for i := range usages {
		if usages[i].ID == uuid.Nil {
			usages[i].ID = uuid.New()
		}
		usages[i].PlateID = pl.ID
	}
	pl.FilamentUsages = nil
	if err := uc.Products.SavePlate(ctx, pl); err != nil {
		return err
	}
	return uc.Products.ReplacePlateUsages(ctx, pl.ID, usages)
}

func (uc *ProductUC) DeletePlate(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error {
	return uc.Products.DeletePlate(ctx, sc, id)
}

// Cost computes the unit production cost of a product over its current
// plates and the tenant's filament prices.
func (uc *ProductUC) Cost(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*costing.ProductCost, error) {
	p, err := uc.Products.FindByID(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	lookup, err := uc.filamentLookup(ctx, sc, p.Plates)
	if err != nil {
		return nil, err
	}
	pc := costing.ProductUnitCost(*p, lookup)
	return &pc, nil
}

func (uc *ProductUC) filamentLookup(ctx context.Context, sc tenancy.Scope, plates []domain.Plate) (costing.FilamentLookup, error) {
	seen := map[uuid.UUID]struct{}{}
	ids := []uuid.UUID{}
	for _, pl := range plates {
		for _, u := range pl.FilamentUsages {
			if _, ok := seen[u.FilamentID]; ok {
				continue
			}
			seen[u.FilamentID] = struct{}{}
			ids = append(ids, u.FilamentID)
		}
	}
	filaments, err := uc.Filaments.FindByIDs(ctx, sc, ids)
	if err != nil {
		return nil, err
	}
	return costing.LookupFrom(filaments), nil
}
