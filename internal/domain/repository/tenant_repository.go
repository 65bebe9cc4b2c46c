package repository

import (
	"context"

	"github.com/comptavision/comptavision-api/internal/domain/entity"
)

// TenantRepository define el puerto de persistencia para Tenant (DIP).
// Los Get* devuelven (nil, nil) si no existe.
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)
	Update(ctx context.Context, tenant *entity.Tenant) error
}
