package licensing

import (
	"fmt"
	"time"

	"github.com/comptavision/comptavision-api/internal/domain"
	"github.com/comptavision/comptavision-api/internal/domain/entity"
)

// Cotas de emisión. Por encima, seats desborda la columna INTEGER y el vencimiento
// sale del rango que admite la base.
const (
	MaxSeats    = 10000
	MaxTermDays = 36500
)

// CheckTerms valida seats y termDays de una licencia nueva.
func CheckTerms(seats, termDays int) error {
	if seats <= 0 || termDays <= 0 {
		return fmt.Errorf("%w: seats y termDays deben ser positivos", domain.ErrInvalidInput)
	}
	if seats > MaxSeats || termDays > MaxTermDays {
		return fmt.Errorf("%w: seats máximo %d, termDays máximo %d", domain.ErrInvalidInput, MaxSeats, MaxTermDays)
	}
	return nil
}

// NewPending construye una licencia PENDING con vencimiento now + termDays.
func NewPending(id, key, plan string, seats, termDays int, note *string, now time.Time) *entity.License {
	return &entity.License{
		ID:         id,
		LicenseKey: key,
		Status:     entity.LicenseStatusPending,
		Plan:       plan,
		Seats:      seats,
		IssuedAt:   now,
		ExpiresAt:  now.AddDate(0, 0, termDays),
		Note:       note,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// CheckUsable evalúa una licencia antes de activarla.
//
//   - REVOKED → ErrLicenseRevoked, sin importar el vencimiento.
//   - EXPIRED o vencida en now → ErrLicenseExpired. needsExpire indica si hay que
//     persistir el paso a EXPIRED (false si ya estaba EXPIRED).
func CheckUsable(l *entity.License, now time.Time) (needsExpire bool, err error) {
	switch {
	case l.Status == entity.LicenseStatusRevoked:
		return false, domain.ErrLicenseRevoked
	case l.Status == entity.LicenseStatusExpired:
		return false, domain.ErrLicenseExpired
	case l.IsExpiredAt(now):
		return true, domain.ErrLicenseExpired
	}
	return false, nil
}

// MarkExpired aplica la transición perezosa a EXPIRED. ExpiresAt no se toca.
func MarkExpired(l *entity.License, now time.Time) {
	l.Status = entity.LicenseStatusExpired
	l.UpdatedAt = now
}

// Activate vincula la licencia al tenant (la primera vinculación gana) y la pasa a ACTIVE.
// Una licencia ya vinculada a otro tenant devuelve ErrLicenseConflict sin modificarla.
// Repetir sobre una licencia ACTIVE del mismo tenant deja el mismo estado final.
func Activate(l *entity.License, tenantID string, now time.Time) error {
	if l.TenantID != nil && *l.TenantID != tenantID {
		return domain.ErrLicenseConflict
	}
	if l.TenantID == nil {
		id := tenantID
		l.TenantID = &id
	}
	l.Status = entity.LicenseStatusActive
	if l.ActivatedAt == nil {
		at := now
		l.ActivatedAt = &at
	}
	l.UpdatedAt = now
	return nil
}

// Revoke fuerza REVOKED. Es terminal e irreversible.
func Revoke(l *entity.License, now time.Time) {
	l.Status = entity.LicenseStatusRevoked
	l.UpdatedAt = now
}

// Patch campos que un operador puede sobrescribir directamente.
type Patch struct {
	Status    *string
	Plan      *string
	Seats     *int
	ExpiresAt *time.Time
	Note      *string
}

// ApplyPatch sobrescribe los campos presentes. Es una vía de escape para operadores:
// no recorre la máquina de estados, pero exige un estado conocido y no reabre una
// licencia REVOKED.
func ApplyPatch(l *entity.License, p Patch, now time.Time) error {
	if l.Status == entity.LicenseStatusRevoked {
		return domain.ErrLicenseRevoked
	}
	if p.Status != nil && !entity.IsValidLicenseStatus(*p.Status) {
		return domain.ErrInvalidInput
	}
	if p.Seats != nil && (*p.Seats <= 0 || *p.Seats > MaxSeats) {
		return domain.ErrInvalidInput
	}
	if p.Plan != nil && *p.Plan == "" {
		return domain.ErrInvalidInput
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Plan != nil {
		l.Plan = *p.Plan
	}
	if p.Seats != nil {
		l.Seats = *p.Seats
	}
	if p.ExpiresAt != nil {
		l.ExpiresAt = *p.ExpiresAt
	}
	if p.Note != nil {
		l.Note = p.Note
	}
	l.UpdatedAt = now
	return nil
}
