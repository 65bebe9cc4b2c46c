package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Nombres de las restricciones únicas (ver migrations/001_init.sql).
const (
	constraintTenantSlug = "tenants_slug_key"
	constraintUserEmail  = "users_email_key"
	constraintLicenseKey = "licenses_license_key_key"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// uniqueViolationOn informa si err viola la restricción única indicada.
// Sin nombre de restricción en el error se asume que es la indicada.
func uniqueViolationOn(err error, constraint string) bool {
	if !isUniqueViolation(err) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		return pgErr.ConstraintName == constraint
	}
	return true
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
