package auth

import "github.com/comptavision/comptavision-api/internal/domain/entity"

// TenantSummary datos del tenant que viajan con el principal.
type TenantSummary struct {
	ID      string
	Name    string
	Slug    string
	Plan    string
	Country string
}

// Principal identidad autenticada (usuario + tenant + rol) adjunta a la petición.
type Principal struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	TenantID  string
	Role      string
	Tenant    TenantSummary
}

// HasRole informa si el rol del principal está entre los permitidos.
func (p *Principal) HasRole(roles ...string) bool {
	if p == nil || p.Role == "" {
		return false
	}
	for _, r := range roles {
		if r == p.Role {
			return true
		}
	}
	return false
}

func newPrincipal(u *entity.User, t *entity.Tenant) *Principal {
	return &Principal{
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		TenantID:  t.ID,
		Role:      u.Role,
		Tenant: TenantSummary{
			ID:      t.ID,
			Name:    t.Name,
			Slug:    t.Slug,
			Plan:    t.Plan,
			Country: t.Country,
		},
	}
}
