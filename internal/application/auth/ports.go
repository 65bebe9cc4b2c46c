package auth

import (
	"context"

	"github.com/comptavision/comptavision-api/internal/domain/repository"
)

// TxRunner ejecuta el alta de un cabinet dentro de una transacción de BD,
// pasando repositorios atados a esa tx. Tenant y usuario se crean juntos o ninguno.
type TxRunner interface {
	RunRegistration(ctx context.Context, fn func(
		tenantRepo repository.TenantRepository,
		userRepo repository.UserRepository,
	) error) error
}

// PasswordHasher hash unidireccional con sal y verificación.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// LoginLimiter cuenta intentos fallidos de login por clave (email).
// Un error del backend no debe bloquear el login; el caso de uso lo registra y sigue.
type LoginLimiter interface {
	Allowed(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type noopLimiter struct{}

func (noopLimiter) Allowed(context.Context, string) (bool, error) { return true, nil }
func (noopLimiter) RecordFailure(context.Context, string) error  { return nil }
func (noopLimiter) Reset(context.Context, string) error          { return nil }
