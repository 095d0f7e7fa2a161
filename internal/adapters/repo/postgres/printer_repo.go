package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printfarmhq/printfarm/internal/domain"
	"github.com/printfarmhq/printfarm/internal/tenancy"
)

type PrinterTypeRepo struct{ db *gorm.DB }

func NewPrinterTypeRepo(db *gorm.DB) *PrinterTypeRepo { return &PrinterTypeRepo{db: db} }

func (r *PrinterTypeRepo) Save(ctx context.Context, pt *domain.PrinterType) error {
	return r.db.WithContext(ctx).Save(pt).Error
}

func (r *PrinterTypeRepo) FindByID(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*domain.PrinterType, error) {
	var pt domain.PrinterType
	if err := r.db.WithContext(ctx).Scopes(scoped(sc)).First(&pt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &pt, nil
}

func (r *PrinterTypeRepo) List(ctx context.Context, sc tenancy.Scope) ([]domain.PrinterType, error) {
	list := []domain.PrinterType{}
	if err := r.db.WithContext(ctx).Scopes(scoped(sc)).Order("brand asc, model asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PrinterTypeRepo) Delete(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Scopes(scoped(sc)).Delete(&domain.PrinterType{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type PrinterRepo struct{ db *gorm.DB }

func NewPrinterRepo(db *gorm.DB) *PrinterRepo { return &PrinterRepo{db: db} }

func (r *PrinterRepo) Save(ctx context.Context, p *domain.Printer) error {
	err := r.db.WithContext(ctx).Save(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}
	return err
}

func (r *PrinterRepo) FindByID(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*domain.Printer, error) {
	var p domain.Printer
	if err := r.db.WithContext(ctx).Scopes(scoped(sc)).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PrinterRepo) FindByIDs(ctx context.Context, sc tenancy.Scope, ids []uuid.UUID) ([]domain.Printer, error) {
	if len(ids) == 0 {
		return []domain.Printer{}, nil
	}
	var list []domain.Printer
	if err := r.db.WithContext(ctx).Scopes(scoped(sc)).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindByNormalizedName searches one owner partition exactly; the NULL
// partition (god user's printers) is queried with IS NULL since equality
// never matches SQL NULL.
func (r *PrinterRepo) FindByNormalizedName(ctx context.Context, owner *uuid.UUID, nameNormalized string) (*domain.Printer, error) {
	q := r.db.WithContext(ctx).Where("name_normalized = ?", nameNormalized)
	if owner == nil {
		q = q.Where("owner_id IS NULL")
	} else {
		q = q.Where("owner_id = ?", *owner)
	}
	var p domain.Printer
	if err := q.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PrinterRepo) List(ctx context.Context, sc tenancy.Scope) ([]domain.Printer, error) {
	list := []domain.Printer{}
	if err := r.db.WithContext(ctx).Scopes(scoped(sc)).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PrinterRepo) Delete(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Scopes(scoped(sc)).Delete(&domain.Printer{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PrinterRepo) AddWorkingHours(ctx context.Context, id uuid.UUID, hours float64) error {
	return r.db.WithContext(ctx).Model(&domain.Printer{}).Where("id = ?", id).
		UpdateColumn("working_hours", gorm.Expr("COALESCE(working_hours,0) + ?", hours)).Error
}
