package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/comptavision/comptavision-api/internal/application/auth"
	"github.com/comptavision/comptavision-api/internal/application/license"
	"github.com/comptavision/comptavision-api/internal/domain"
	"github.com/comptavision/comptavision-api/internal/domain/repository"
)

var (
	_ auth.TxRunner             = (*TxRunner)(nil)
	_ license.TxRunner          = (*TxRunner)(nil)
	_ repository.TenantTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunRegistration crea tenant y usuario OWNER en la misma transacción.
func (r *TxRunner) RunRegistration(ctx context.Context, fn func(
	tenantRepo repository.TenantRepository,
	userRepo repository.UserRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewTenantRepository(tx), NewUserRepository(tx))
	})
}

// RunActivation actualiza licencia y tenant en la misma transacción.
func (r *TxRunner) RunActivation(ctx context.Context, fn func(
	licenseRepo repository.LicenseRepository,
	tenantRepo repository.TenantRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewLicenseRepository(tx), NewTenantRepository(tx))
	})
}

// RunInTenant fija app.tenant_id (local a la tx) antes de ejecutar fn, de modo que las
// políticas RLS filtren por tenant. El valor desaparece con el commit o el rollback.
func (r *TxRunner) RunInTenant(ctx context.Context, tenantID string, fn func(repos repository.TenantScopedRepos) error) error {
	if tenantID == "" {
		return domain.ErrTenantRequired
	}
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT set_config('app.tenant_id', $1, true)`, tenantID); err != nil {
			return fmt.Errorf("set tenant context: %w", err)
		}
		return fn(repository.TenantScopedRepos{
			Tenants: NewTenantRepository(tx),
			Users:   NewUserRepository(tx),
			Clients: NewClientRepository(tx),
		})
	})
}

// inTx inicia una transacción, ejecuta fn y hace Commit o Rollback (también ante panic).
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
