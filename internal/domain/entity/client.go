package entity

import "time"

// Client es un cliente final de un cabinet (dato propio del tenant, aislado por RLS).
type Client struct {
	ID        string
	TenantID  string
	Name      string
	Email     string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
