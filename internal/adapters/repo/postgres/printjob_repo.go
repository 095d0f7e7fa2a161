package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printfarmhq/printfarm/internal/domain"
	"github.com/printfarmhq/printfarm/internal/tenancy"
)

type PrintJobRepo struct{ db *gorm.DB }

func NewPrintJobRepo(db *gorm.DB) *PrintJobRepo { return &PrintJobRepo{db: db} }

func (r *PrintJobRepo) Save(ctx context.Context, j *domain.PrintJob) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(j).Error
}

func (r *PrintJobRepo) FindByID(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*domain.PrintJob, error) {
	var j domain.PrintJob
	if err := r.db.WithContext(ctx).Scopes(scoped(sc)).
		Preload("Products").Preload("Printers").
		First(&j, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

func (r *PrintJobRepo) List(ctx context.Context, sc tenancy.Scope) ([]domain.PrintJob, error) {
	list := []domain.PrintJob{}
	if err := r.db.WithContext(ctx).Scopes(scoped(sc)).
		Preload("Products").Preload("Printers").
		Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *PrintJobRepo) Delete(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error {
	j, err := r.FindByID(ctx, sc, id)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("print_job_id = ?", j.ID).Delete(&domain.PrintJobProduct{}).Error; err != nil {
			return err
		}
		if err := tx.Where("print_job_id = ?", j.ID).Delete(&domain.PrintJobPrinter{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.PrintJob{}, "id = ?", j.ID).Error
	})
}
