package postgres

import (
	"context"
	"fmt"

	"github.com/comptavision/comptavision-api/internal/domain"
	"github.com/comptavision/comptavision-api/internal/domain/entity"
	"github.com/comptavision/comptavision-api/internal/domain/repository"
)

var _ repository.LicenseRepository = (*LicenseRepo)(nil)

const licenseColumns = `id, license_key, status, plan, seats, issued_at, expires_at, activated_at, note, tenant_id, created_at, updated_at`

// LicenseRepo implementación de LicenseRepository (usable con pool o tx).
type LicenseRepo struct {
	q Querier
}

// NewLicenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLicenseRepository(q Querier) *LicenseRepo {
	return &LicenseRepo{q: q}
}

// Create persiste una licencia. Clave repetida → domain.ErrDuplicate.
func (r *LicenseRepo) Create(ctx context.Context, l *entity.License) error {
	query := `
		INSERT INTO licenses (` + licenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.LicenseKey, l.Status, l.Plan, l.Seats, l.IssuedAt, l.ExpiresAt,
		l.ActivatedAt, l.Note, l.TenantID, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if uniqueViolationOn(err, constraintLicenseKey) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert license: %w", err)
	}
	return nil
}

// GetByID obtiene una licencia por ID.
func (r *LicenseRepo) GetByID(ctx context.Context, id string) (*entity.License, error) {
	return r.getOne(ctx, `SELECT `+licenseColumns+` FROM licenses WHERE id = $1`, id)
}

// GetByKey obtiene una licencia por clave.
func (r *LicenseRepo) GetByKey(ctx context.Context, key string) (*entity.License, error) {
	return r.getOne(ctx, `SELECT `+licenseColumns+` FROM licenses WHERE license_key = $1`, key)
}

// GetByKeyForUpdate igual que GetByKey pero bloquea la fila hasta el fin de la tx.
// Dos activaciones concurrentes de la misma clave se serializan aquí.
func (r *LicenseRepo) GetByKeyForUpdate(ctx context.Context, key string) (*entity.License, error) {
	return r.getOne(ctx, `SELECT `+licenseColumns+` FROM licenses WHERE license_key = $1 FOR UPDATE`, key)
}

// Update actualiza todos los campos mutables. license_key es inmutable.
func (r *LicenseRepo) Update(ctx context.Context, l *entity.License) error {
	query := `
		UPDATE licenses SET status = $2, plan = $3, seats = $4, expires_at = $5, activated_at = $6,
			note = $7, tenant_id = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		l.ID, l.Status, l.Plan, l.Seats, l.ExpiresAt, l.ActivatedAt, l.Note, l.TenantID, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update license: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLicenseNotFound
	}
	return nil
}

// List devuelve todas las licencias por issued_at descendente.
func (r *LicenseRepo) List(ctx context.Context) ([]*entity.License, error) {
	rows, err := r.q.Query(ctx, `SELECT `+licenseColumns+` FROM licenses ORDER BY issued_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.License, 0)
	for rows.Next() {
		l, err := scanLicense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan license: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *LicenseRepo) getOne(ctx context.Context, query string, arg any) (*entity.License, error) {
	l, err := scanLicense(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get license: %w", err)
	}
	return l, nil
}

func scanLicense(row rowScanner) (*entity.License, error) {
	var l entity.License
	err := row.Scan(
		&l.ID, &l.LicenseKey, &l.Status, &l.Plan, &l.Seats, &l.IssuedAt, &l.ExpiresAt,
		&l.ActivatedAt, &l.Note, &l.TenantID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
