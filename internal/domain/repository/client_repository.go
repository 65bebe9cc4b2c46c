package repository

import (
	"context"

	"github.com/comptavision/comptavision-api/internal/domain/entity"
)

// ClientRepository clientes de un cabinet. Se usa dentro de una tx con tenant fijado.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.Client, error)
}
