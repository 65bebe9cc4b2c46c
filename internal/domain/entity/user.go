package entity

import "time"

// Roles válidos para User.
const (
	RoleOwner      = "OWNER"
	RoleAdmin      = "ADMIN"
	RoleAccountant = "ACCOUNTANT"
	RoleViewer     = "VIEWER"
)

// IsValidRole informa si el rol es uno de los conocidos.
func IsValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleAccountant, RoleViewer:
		return true
	}
	return false
}

// User representa un usuario del sistema (pertenece a exactamente un Tenant).
type User struct {
	ID           string
	TenantID     string
	Email        string
	PasswordHash string // bcrypt, nunca se expone en respuestas
	FirstName    string
	LastName     string
	Role         string
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
