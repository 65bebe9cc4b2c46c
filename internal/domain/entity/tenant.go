package entity

import "time"

// Estados de Tenant.
const (
	TenantStatusActive    = "ACTIVE"
	TenantStatusSuspended = "SUSPENDED"
)

// Planes de suscripción conocidos.
const (
	PlanStarter      = "STARTER"
	PlanProfessional = "PROFESSIONAL"
	PlanEnterprise   = "ENTERPRISE"
)

// Tenant representa un cabinet cliente (unidad de aislamiento de datos).
// El slug es único y no cambia después de creado.
type Tenant struct {
	ID        string
	Slug      string
	Name      string
	Country   string // ISO 3166-1 alpha-2
	Currency  string // ISO 4217
	Plan      string
	Status    string // ACTIVE, SUSPENDED
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive informa si el tenant puede operar.
func (t *Tenant) IsActive() bool {
	return t != nil && t.Status == TenantStatusActive
}
