package postgres

import (
	"context"
	"fmt"

	"github.com/comptavision/comptavision-api/internal/domain/entity"
	"github.com/comptavision/comptavision-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo clientes de un cabinet. La tabla tiene RLS: fuera de RunInTenant no devuelve filas.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar la tx de RunInTenant.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (id, tenant_id, name, email, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.TenantID, c.Name, c.Email, c.Phone, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// ListByTenant lista clientes del tenant. El filtro explícito se suma a la política RLS.
func (r *ClientRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.Client, error) {
	query := `
		SELECT id, tenant_id, name, COALESCE(email, ''), COALESCE(phone, ''), is_active, created_at, updated_at
		FROM clients WHERE tenant_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.Email, &c.Phone, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
