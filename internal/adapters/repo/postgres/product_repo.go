package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printfarmhq/printfarm/internal/domain"
	"github.com/printfarmhq/printfarm/internal/tenancy"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Save(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProductRepo) FindByID(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Scopes(scoped(sc)).
		Preload("Plates", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Plates.FilamentUsages").
		First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context, sc tenancy.Scope) ([]domain.Product, error) {
	list := []domain.Product{}
	if err := r.db.WithContext(ctx).Scopes(scoped(sc)).
		Preload("Plates").Preload("Plates.FilamentUsages").
		Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) Delete(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error {
	p, err := r.FindByID(ctx, sc, id)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, pl := range p.Plates {
			if err := tx.Where("plate_id = ?", pl.ID).Delete(&domain.PlateFilamentUsage{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&domain.Plate{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Product{}, "id = ?", p.ID).Error
	})
}

func (r *ProductRepo) SavePlate(ctx context.Context, pl *domain.Plate) error {
	return r.db.WithContext(ctx).Save(pl).Error
}

func (r *ProductRepo) FindPlate(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*domain.Plate, error) {
	var pl domain.Plate
	if err := r.db.WithContext(ctx).Scopes(scoped(sc)).
		Preload("FilamentUsages").First(&pl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &pl, nil
}

func (r *ProductRepo) DeletePlate(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error {
	pl, err := r.FindPlate(ctx, sc, id)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plate_id = ?", pl.ID).Delete(&domain.PlateFilamentUsage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Plate{}, "id = ?", pl.ID).Error
	})
}

func (r *ProductRepo) ReplacePlateUsages(ctx context.Context, plateID uuid.UUID, usages []domain.PlateFilamentUsage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plate_id = ?", plateID).Delete(&domain.PlateFilamentUsage{}).Error; err != nil {
			return err
		}
		if len(usages) == 0 {
			return nil
		}
		return tx.Create(&usages).Error
	})
}
