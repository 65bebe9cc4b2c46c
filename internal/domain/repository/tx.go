package repository

import "context"

// TenantScopedRepos repositorios atados a una transacción con app.tenant_id fijado.
type TenantScopedRepos struct {
	Tenants TenantRepository
	Users   UserRepository
	Clients ClientRepository
}

// TenantTxRunner ejecuta fn dentro de una transacción donde el tenant queda fijado
// en el contexto de la sesión SQL (RLS). tenantID vacío → domain.ErrTenantRequired.
type TenantTxRunner interface {
	RunInTenant(ctx context.Context, tenantID string, fn func(repos TenantScopedRepos) error) error
}
