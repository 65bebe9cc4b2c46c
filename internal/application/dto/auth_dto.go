package dto

import (
	"strings"
	"time"

	"github.com/comptavision/comptavision-api/internal/domain/entity"
)

// RegisterRequest alta de un cabinet: tenant + primer usuario (OWNER).
type RegisterRequest struct {
	CabinetName string `json:"cabinetName" validate:"required"`
	CabinetSlug string `json:"cabinetSlug" validate:"required"`
	Country     string `json:"country" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
}

// Normalize recorta los campos de texto y pasa el email a minúsculas. El password no se toca.
func (r *RegisterRequest) Normalize() {
	r.CabinetName = strings.TrimSpace(r.CabinetName)
	r.CabinetSlug = strings.TrimSpace(r.CabinetSlug)
	r.Country = strings.TrimSpace(r.Country)
	r.Email = normalizeEmail(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse salida de un usuario (nunca incluye el hash).
type UserResponse struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenantId"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// TenantResponse vista saneada de un tenant.
type TenantResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Country  string `json:"country"`
	Currency string `json:"currency"`
	Plan     string `json:"plan"`
	Status   string `json:"status"`
}

// AuthResponse salida de register/login.
type AuthResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    UserResponse   `json:"user"`
	Tenant  TenantResponse `json:"tenant"`
}

// MeResponse salida de /auth/me.
type MeResponse struct {
	User   UserResponse   `json:"user"`
	Tenant TenantResponse `json:"tenant"`
}

// NewUserResponse mapea la entidad a su vista pública.
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// NewTenantResponse mapea la entidad a su vista pública.
func NewTenantResponse(t *entity.Tenant) TenantResponse {
	return TenantResponse{
		ID:       t.ID,
		Name:     t.Name,
		Slug:     t.Slug,
		Country:  t.Country,
		Currency: t.Currency,
		Plan:     t.Plan,
		Status:   t.Status,
	}
}
