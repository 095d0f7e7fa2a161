package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/printfarmhq/printfarm/internal/domain"
	"github.com/printfarmhq/printfarm/internal/tenancy"
)

type PrinterUC struct {
	Types    domain.PrinterTypeRepo
	Printers domain.PrinterRepo
}

// NormalizePrinterName is the canonical form used for per-tenant
// case-insensitive name uniqueness.
func NormalizePrinterName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// --- Printer types ---

func (uc *PrinterUC) ListTypes(ctx context.Context, sc tenancy.Scope) ([]domain.PrinterType, error) {
	return uc.Types.List(ctx, sc)
}

func (uc *PrinterUC) GetType(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*domain.PrinterType, error) {
	return uc.Types.FindByID(ctx, sc, id)
}

func (uc *PrinterUC) CreateType(ctx context.Context, sc tenancy.Scope, pt *domain.PrinterType) error {
	owner, ok := sc.OwnerForCreate()
	if !ok {
		return domain.ErrForbidden
	}
	if strings.TrimSpace(pt.Brand) == "" {
		return domain.Invalid("brand", "required")
	}
	if strings.TrimSpace(pt.Model) == "" {
		return domain.Invalid("model", "required")
	}
	if pt.ExpectedLifeHours < 0 {
		return domain.Invalid("expected_life_hours", "must not be negative")
	}
	if pt.ID == uuid.Nil {
		pt.ID = uuid.New()
	}
	pt.OwnerID = owner
	return uc.Types.Save(ctx, pt)
}

func (uc *PrinterUC) UpdateType(ctx context.Context, sc tenancy.Scope, pt *domain.PrinterType) error {
	existing, err := uc.Types.FindByID(ctx, sc, pt.ID)
	if err != nil {
		return err
	}
	if pt.ExpectedLifeHours < 0 {
		return domain.Invalid("expected_life_hours", "must not be negative")
	}
	pt.OwnerID = existing.OwnerID
	pt.CreatedAt = existing.CreatedAt
	return uc.Types.Save(ctx, pt)
}

func (uc *PrinterUC) DeleteType(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error {
	return uc.Types.Delete(ctx, sc, id)
}

// --- Printers ---

func (uc *PrinterUC) List(ctx context.Context, sc tenancy.Scope) ([]domain.Printer, error) {
	return uc.Printers.List(ctx, sc)
}

func (uc *PrinterUC) Get(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*domain.Printer, error) {
	return uc.Printers.FindByID(ctx, sc, id)
}

func (uc *PrinterUC) Create(ctx context.Context, sc tenancy.Scope, p *domain.Printer) error {
	owner, ok := sc.OwnerForCreate()
	if !ok {
		return domain.ErrForbidden
	}
	if strings.TrimSpace(p.Name) == "" {
		return domain.Invalid("name", "required")
	}
	if p.PurchasePriceEUR < 0 {
		return domain.Invalid("purchase_price_eur", "must not be negative")
	}
	if p.Status == "" {
		p.Status = domain.PrinterStatusIdle
	}
	if !domain.ValidPrinterStatus(p.Status) {
		return domain.Invalid("status", "unknown status")
	}
	norm := NormalizePrinterName(p.Name)
	if other, err := uc.Printers.FindByNormalizedName(ctx, owner, norm); err == nil && other != nil {
		return domain.ErrConflict
	} else if err != nil && err != domain.ErrNotFound {
		return err
	}
	if p.PrinterTypeID != nil {
		if _, err := uc.Types.FindByID(ctx, sc, *p.PrinterTypeID); err != nil {
			return err
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.OwnerID = owner
	p.NameNormalized = norm
	return uc.Printers.Save(ctx, p)
}

func (uc *PrinterUC) Update(ctx context.Context, sc tenancy.Scope, p *domain.Printer) error {
	existing, err := uc.Printers.FindByID(ctx, sc, p.ID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(p.Name) == "" {
		return domain.Invalid("name", "required")
	}
	if !domain.ValidPrinterStatus(p.Status) {
		return domain.Invalid("status", "unknown status")
	}
	norm := NormalizePrinterName(p.Name)
	if other, err := uc.Printers.FindByNormalizedName(ctx, existing.OwnerID, norm); err == nil && other != nil && other.ID != p.ID {
		return domain.ErrConflict
	} else if err != nil && err != domain.ErrNotFound {
		return err
	}
	if p.PrinterTypeID != nil {
		if _, err := uc.Types.FindByID(ctx, sc, *p.PrinterTypeID); err != nil {
			return err
		}
	}
	p.OwnerID = existing.OwnerID
	p.NameNormalized = norm
	p.CreatedAt = existing.CreatedAt
	return uc.Printers.Save(ctx, p)
}

func (uc *PrinterUC) Delete(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error {
	return uc.Printers.Delete(ctx, sc, id)
}
