package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/printfarmhq/printfarm/internal/domain"
	"github.com/printfarmhq/printfarm/internal/tenancy"
)

type FilamentUC struct {
	Filaments domain.FilamentRepo
}

func (uc *FilamentUC) List(ctx context.Context, sc tenancy.Scope) ([]domain.Filament, error) {
	return uc.Filaments.List(ctx, sc)
}

func (uc *FilamentUC) Get(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*domain.Filament, error) {
	return uc.Filaments.FindByID(ctx, sc, id)
}

func (uc *FilamentUC) Create(ctx context.Context, sc tenancy.Scope, f *domain.Filament) error {
	owner, ok := sc.OwnerForCreate()
	if !ok {
		return domain.ErrForbidden
	}
	if strings.TrimSpace(f.Color) == "" {
		return domain.Invalid("color", "required")
	}
	if f.PricePerKg < 0 {
		return domain.Invalid("price_per_kg", "must not be negative")
	}
	if f.TotalQtyKg < 0 {
		return domain.Invalid("total_qty_kg", "must not be negative")
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.OwnerID = owner
	return uc.Filaments.Save(ctx, f)
}

// Update saves an already-fetched filament after re-checking it is still
// inside the caller's scope. TotalQtyKg changes here are the explicit
// inventory-edit path; routine stock movement goes through purchases.
func (uc *FilamentUC) Update(ctx context.Context, sc tenancy.Scope, f *domain.Filament) error {
	existing, err := uc.Filaments.FindByID(ctx, sc, f.ID)
	if err != nil {
		return err
	}
	if f.PricePerKg < 0 {
		return domain.Invalid("price_per_kg", "must not be negative")
	}
	if f.TotalQtyKg < 0 {
		return domain.Invalid("total_qty_kg", "must not be negative")
	}
	f.OwnerID = existing.OwnerID
	f.CreatedAt = existing.CreatedAt
	return uc.Filaments.Save(ctx, f)
}

func (uc *FilamentUC) Delete(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error {
	return uc.Filaments.Delete(ctx, sc, id)
}

// RecordPurchase logs a stock intake and bumps the running balance.
func (uc *FilamentUC) RecordPurchase(ctx context.Context, sc tenancy.Scope, filamentID uuid.UUID, qtyKg, pricePerKgPaid float64, purchasedAt time.Time) (*domain.FilamentPurchase, error) {
	if qtyKg <= 0 {
		return nil, domain.Invalid("qty_kg", "must be greater than zero")
	}
	if pricePerKgPaid < 0 {
		return nil, domain.Invalid("price_per_kg_paid", "must not be negative")
	}
	f, err := uc.Filaments.FindByID(ctx, sc, filamentID)
	if err != nil {
		return nil, err
	}
	if purchasedAt.IsZero() {
		purchasedAt = time.Now()
	}
	p := &domain.FilamentPurchase{
		ID:             uuid.New(),
		OwnerID:        f.OwnerID,
		FilamentID:     f.ID,
		QtyKg:          qtyKg,
		PricePerKgPaid: pricePerKgPaid,
		PurchasedAt:    purchasedAt,
	}
	if err := uc.Filaments.SavePurchase(ctx, p); err != nil {
		return nil, err
	}
	if err := uc.Filaments.AdjustStock(ctx, sc, f.ID, qtyKg); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *FilamentUC) ListPurchases(ctx context.Context, sc tenancy.Scope, filamentID uuid.UUID) ([]domain.FilamentPurchase, error) {
	if _, err := uc.Filaments.FindByID(ctx, sc, filamentID); err != nil {
		return nil, err
	}
	return uc.Filaments.ListPurchases(ctx, sc, filamentID)
}
