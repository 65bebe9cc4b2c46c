package repository

import (
	"context"

	"github.com/comptavision/comptavision-api/internal/domain/entity"
)

// LicenseRepository define el puerto de persistencia para License (DIP).
// Create devuelve domain.ErrDuplicate si la clave ya existe.
type LicenseRepository interface {
	Create(ctx context.Context, license *entity.License) error
	GetByID(ctx context.Context, id string) (*entity.License, error)
	GetByKey(ctx context.Context, key string) (*entity.License, error)
	// GetByKeyForUpdate bloquea la fila (SELECT ... FOR UPDATE); solo tiene sentido dentro de una tx.
	GetByKeyForUpdate(ctx context.Context, key string) (*entity.License, error)
	Update(ctx context.Context, license *entity.License) error
	// List ordena por issued_at descendente.
	List(ctx context.Context) ([]*entity.License, error)
}
