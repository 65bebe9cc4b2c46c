package dto

import (
	"time"

	"github.com/comptavision/comptavision-api/internal/domain/entity"
)

// CreateLicenseRequest emisión de licencia. Campos nil toman los valores por defecto de la config.
type CreateLicenseRequest struct {
	Plan     string  `json:"plan"`
	Seats    *int    `json:"seats" validate:"omitempty,min=1,max=10000"`
	TermDays *int    `json:"termDays" validate:"omitempty,min=1,max=36500"`
	Note     *string `json:"note"`
}

// UpdateLicenseRequest sobrescritura directa por un operador. No acepta tenantId:
// la vinculación a un tenant solo ocurre por activación.
type UpdateLicenseRequest struct {
	Status    *string    `json:"status"`
	Plan      *string    `json:"plan"`
	Seats     *int       `json:"seats" validate:"omitempty,min=1,max=10000"`
	ExpiresAt *time.Time `json:"expiresAt"`
	Note      *string    `json:"note"`
}

// ActivateLicenseRequest activación por clave desde el lado del cabinet.
type ActivateLicenseRequest struct {
	LicenseKey string `json:"licenseKey" validate:"required"`
	TenantSlug string `json:"tenantSlug" validate:"required"`
}

// LicenseResponse salida de una licencia.
type LicenseResponse struct {
	ID          string     `json:"id"`
	LicenseKey  string     `json:"licenseKey"`
	Status      string     `json:"status"`
	Plan        string     `json:"plan"`
	Seats       int        `json:"seats"`
	IssuedAt    time.Time  `json:"issuedAt"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	ActivatedAt *time.Time `json:"activatedAt"`
	Note        *string    `json:"note"`
	TenantID    *string    `json:"tenantId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// LicenseListResponse listado de licencias (issued_at desc).
type LicenseListResponse struct {
	Items []LicenseResponse `json:"items"`
	Total int               `json:"total"`
}

// ActivateLicenseResponse salida de la activación.
type ActivateLicenseResponse struct {
	Message string          `json:"message"`
	License LicenseResponse `json:"license"`
}

// NewLicenseResponse mapea la entidad a su vista pública.
func NewLicenseResponse(l *entity.License) LicenseResponse {
	return LicenseResponse{
		ID:          l.ID,
		LicenseKey:  l.LicenseKey,
		Status:      l.Status,
		Plan:        l.Plan,
		Seats:       l.Seats,
		IssuedAt:    l.IssuedAt,
		ExpiresAt:   l.ExpiresAt,
		ActivatedAt: l.ActivatedAt,
		Note:        l.Note,
		TenantID:    l.TenantID,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
