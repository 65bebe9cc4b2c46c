package repository

import (
	"context"
	"time"

	"github.com/comptavision/comptavision-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.User, error)
}
