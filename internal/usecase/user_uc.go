package usecase

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/printfarmhq/printfarm/internal/auth"
	"github.com/printfarmhq/printfarm/internal/domain"
)

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

type UserUC struct {
	Users         domain.UserRepo
	Subscriptions domain.SubscriptionRepo
}

// Register creates a new tenant root (super-admin) with a default free
// subscription.
func (uc *UserUC) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRe.MatchString(email) {
		return nil, domain.Invalid("email", "invalid email address")
	}
	if len(password) < 8 {
		return nil, domain.Invalid("password", "must be at least 8 characters")
	}
	if _, err := uc.Users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrConflict
	} else if err != domain.ErrNotFound {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		IsSuperadmin: true,
		IsActive:     true,
	}
	if err := uc.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	owner := u.ID
	sub := &domain.Subscription{ID: uuid.New(), OwnerID: &owner, Plan: "free", Status: "active"}
	if err := uc.Subscriptions.Save(ctx, sub); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies credentials for login. Unknown email, wrong
// password and disabled accounts all fail the same way.
func (uc *UserUC) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := uc.Users.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !u.IsActive || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

// FindActiveByEmail resolves an active account by email, for sign-in flows
// where the identity was asserted externally.
func (uc *UserUC) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := uc.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

func (uc *UserUC) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.Users.FindByID(ctx, id)
}

// CreateMember adds a team member under the calling super-admin's tenant.
func (uc *UserUC) CreateMember(ctx context.Context, caller *domain.User, email, name, password string) (*domain.User, error) {
	if !caller.IsSuperadmin {
		return nil, domain.ErrForbidden
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRe.MatchString(email) {
		return nil, domain.Invalid("email", "invalid email address")
	}
	if len(password) < 8 {
		return nil, domain.Invalid("password", "must be at least 8 characters")
	}
	if _, err := uc.Users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrConflict
	} else if err != domain.ErrNotFound {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	creator := caller.ID
	m := &domain.User{
		ID:              uuid.New(),
		Email:           email,
		Name:            strings.TrimSpace(name),
		PasswordHash:    hash,
		CreatedByUserID: &creator,
		IsActive:        true,
	}
	if err := uc.Users.Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListTeam lists the members created by the calling super-admin.
func (uc *UserUC) ListTeam(ctx context.Context, caller *domain.User) ([]domain.User, error) {
	if !caller.IsSuperadmin {
		return nil, domain.ErrForbidden
	}
	return uc.Users.ListByCreator(ctx, caller.ID)
}

// DeleteMember removes a team member. A member of another tenant is
// indistinguishable from a missing one.
func (uc *UserUC) DeleteMember(ctx context.Context, caller *domain.User, id uuid.UUID) error {
	if !caller.IsSuperadmin {
		return domain.ErrForbidden
	}
	m, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if m.CreatedByUserID == nil || *m.CreatedByUserID != caller.ID {
		return domain.ErrNotFound
	}
	return uc.Users.Delete(ctx, id)
}
