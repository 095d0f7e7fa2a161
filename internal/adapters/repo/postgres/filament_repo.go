package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printfarmhq/printfarm/internal/domain"
	"github.com/printfarmhq/printfarm/internal/tenancy"
)

type FilamentRepo struct{ db *gorm.DB }

func NewFilamentRepo(db *gorm.DB) *FilamentRepo { return &FilamentRepo{db: db} }

func (r *FilamentRepo) Save(ctx context.Context, f *domain.Filament) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *FilamentRepo) FindByID(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*domain.Filament, error) {
	var f domain.Filament
	if err := r.db.WithContext(ctx).Scopes(scoped(sc)).First(&f, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *FilamentRepo) FindByIDs(ctx context.Context, sc tenancy.Scope, ids []uuid.UUID) ([]domain.Filament, error) {
	if len(ids) == 0 {
		return []domain.Filament{}, nil
	}
	var list []domain.Filament
	if err := r.db.WithContext(ctx).Scopes(scoped(sc)).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *FilamentRepo) List(ctx context.Context, sc tenancy.Scope) ([]domain.Filament, error) {
	list := []domain.Filament{}
	if err := r.db.WithContext(ctx).Scopes(scoped(sc)).Order("brand asc, color asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *FilamentRepo) Delete(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Scopes(scoped(sc)).Delete(&domain.Filament{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FilamentRepo) AdjustStock(ctx context.Context, sc tenancy.Scope, id uuid.UUID, deltaKg float64) error {
	res := r.db.WithContext(ctx).Model(&domain.Filament{}).Scopes(scoped(sc)).Where("id = ?", id).
		UpdateColumn("total_qty_kg", gorm.Expr("COALESCE(total_qty_kg,0) + ?", deltaKg))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FilamentRepo) SavePurchase(ctx context.Context, p *domain.FilamentPurchase) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *FilamentRepo) ListPurchases(ctx context.Context, sc tenancy.Scope, filamentID uuid.UUID) ([]domain.FilamentPurchase, error) {
	list := []domain.FilamentPurchase{}
	if err := r.db.WithContext(ctx).Scopes(scoped(sc)).Where("filament_id = ?", filamentID).
		Order("purchased_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
