package auth

import (
	"context"
	"time"
)

// UserStore persists accounts. Either email or phone number may be empty but
// the pair identifies at most one user each.
type UserStore interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByPhone(ctx context.Context, phone string) (User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
