package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// La capa HTTP los traduce a código de estado y código de error estable.
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrMissingFields = errors.New("faltan campos obligatorios")
	ErrForbidden     = errors.New("acceso denegado")
	ErrPersistence   = errors.New("error de persistencia")
	ErrIntegrity     = errors.New("estado inconsistente entre licencia y tenant")

	// Registro / usuarios
	ErrDuplicateSlug  = errors.New("el slug del cabinet ya está en uso")
	ErrDuplicateEmail = errors.New("el email ya está registrado")

	// Autenticación
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrAccountSuspended   = errors.New("cuenta inactiva o suspendida")
	ErrTooManyAttempts    = errors.New("demasiados intentos fallidos")
	ErrMissingToken       = errors.New("token requerido")
	ErrInvalidToken       = errors.New("token inválido o expirado")
	ErrTenantRequired     = errors.New("tenant requerido")

	// Licencias
	ErrLicenseNotFound = errors.New("licencia no encontrada")
	ErrLicenseRevoked  = errors.New("licencia revocada")
	ErrLicenseExpired  = errors.New("licencia expirada")
	ErrLicenseConflict = errors.New("licencia vinculada a otro tenant")
	ErrTenantNotFound  = errors.New("tenant no encontrado")

	// Genérico para violaciones de unicidad que el caso de uso debe reinterpretar.
	ErrDuplicate = errors.New("recurso duplicado")
)
