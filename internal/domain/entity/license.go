package entity

import "time"

// Estados de License.
const (
	LicenseStatusPending = "PENDING"
	LicenseStatusActive  = "ACTIVE"
	LicenseStatusExpired = "EXPIRED"
	LicenseStatusRevoked = "REVOKED"
)

// IsValidLicenseStatus informa si el estado es uno de los cuatro conocidos.
func IsValidLicenseStatus(s string) bool {
	switch s {
	case LicenseStatusPending, LicenseStatusActive, LicenseStatusExpired, LicenseStatusRevoked:
		return true
	}
	return false
}

// License es un derecho de uso con vencimiento. Independiente hasta que un tenant la activa.
type License struct {
	ID          string
	LicenseKey  string
	Status      string
	Plan        string
	Seats       int
	IssuedAt    time.Time
	ExpiresAt   time.Time
	ActivatedAt *time.Time
	Note        *string
	TenantID    *string // nil hasta la primera activación
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsExpiredAt informa si la licencia está vencida en el instante dado.
func (l *License) IsExpiredAt(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// BoundTo informa si la licencia ya está vinculada al tenant dado.
func (l *License) BoundTo(tenantID string) bool {
	return l.TenantID != nil && *l.TenantID == tenantID
}
