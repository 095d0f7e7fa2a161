package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/printfarmhq/printfarm/internal/domain"
	"github.com/printfarmhq/printfarm/internal/tenancy"
)

type SubscriptionRepo struct{ db *gorm.DB }

func NewSubscriptionRepo(db *gorm.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

func (r *SubscriptionRepo) Save(ctx context.Context, s *domain.Subscription) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// FindByOwner reads the subscription of the scope's exact owner
// partition. The god user's own record lives in the NULL partition.
func (r *SubscriptionRepo) FindByOwner(ctx context.Context, sc tenancy.Scope) (*domain.Subscription, error) {
	q := r.db.WithContext(ctx)
	switch {
	case sc.Owner() != nil:
		q = q.Where("owner_id = ?", sc.Owner())
	case sc.All():
		q = q.Where("owner_id IS NULL")
	default:
		q = q.Where("1 = 0")
	}
	var s domain.Subscription
	if err := q.First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
