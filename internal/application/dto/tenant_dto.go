package dto

import (
	"strings"
	"time"

	"github.com/comptavision/comptavision-api/internal/domain/entity"
)

// TenantListResponse listado de tenants visibles para el principal (solo el propio).
type TenantListResponse struct {
	Items []TenantResponse `json:"items"`
}

// UpdateTenantRequest cambios permitidos sobre el tenant propio. El slug no se modifica.
type UpdateTenantRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// Normalize recorta el nombre.
func (r *UpdateTenantRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// CreateUserRequest alta de usuario dentro del tenant del principal.
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Role      string `json:"role" validate:"required"`
}

// Normalize recorta los campos de texto y pasa el email a minúsculas.
func (r *CreateUserRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Role = strings.TrimSpace(r.Role)
}

// UpdateUserStatusRequest activa o desactiva un usuario.
type UpdateUserStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// UserListResponse usuarios del tenant.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
}

// CreateClientRequest alta de cliente del cabinet.
type CreateClientRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

// Normalize recorta los campos de texto y pasa el email a minúsculas.
func (r *CreateClientRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ClientListResponse clientes del tenant.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
}

// NewClientResponse mapea la entidad a su vista pública.
func NewClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
}
