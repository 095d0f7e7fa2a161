package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/printfarmhq/printfarm/internal/domain"
	"github.com/printfarmhq/printfarm/internal/tenancy"
)

var knownPlans = map[string]struct{}{
	"free": {}, "starter": {}, "pro": {}, "farm": {},
}

type SubscriptionUC struct {
	Subscriptions domain.SubscriptionRepo
}

// Get returns the tenant's subscription, defaulting to the free plan when
// none has been stored yet.
func (uc *SubscriptionUC) Get(ctx context.Context, sc tenancy.Scope) (*domain.Subscription, error) {
	s, err := uc.Subscriptions.FindByOwner(ctx, sc)
	if err == domain.ErrNotFound {
		owner, ok := sc.OwnerForCreate()
		if !ok {
			return nil, domain.ErrNotFound
		}
		return &domain.Subscription{OwnerID: owner, Plan: "free", Status: "active"}, nil
	}
	return s, err
}

// SetPlan changes the tenant's plan, creating the record if needed.
func (uc *SubscriptionUC) SetPlan(ctx context.Context, sc tenancy.Scope, plan string) (*domain.Subscription, error) {
	if _, ok := knownPlans[plan]; !ok {
		return nil, domain.Invalid("plan", "unknown plan")
	}
	s, err := uc.Subscriptions.FindByOwner(ctx, sc)
	if err == domain.ErrNotFound {
		owner, ok := sc.OwnerForCreate()
		if !ok {
			return nil, domain.ErrForbidden
		}
		s = &domain.Subscription{ID: uuid.New(), OwnerID: owner, Status: "active"}
	} else if err != nil {
		return nil, err
	}
	s.Plan = plan
	if err := uc.Subscriptions.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
