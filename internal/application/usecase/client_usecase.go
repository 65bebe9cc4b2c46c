package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/comptavision/comptavision-api/internal/application/dto"
	"github.com/comptavision/comptavision-api/internal/domain"
	"github.com/comptavision/comptavision-api/internal/domain/entity"
	"github.com/comptavision/comptavision-api/internal/domain/repository"
)

// ClientUseCase clientes del cabinet, siempre dentro de una tx con tenant fijado (RLS).
type ClientUseCase struct {
	tx  repository.TenantTxRunner
	now func() time.Time
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(tx repository.TenantTxRunner) *ClientUseCase {
	return &ClientUseCase{tx: tx, now: time.Now}
}

// List clientes del tenant.
func (uc *ClientUseCase) List(ctx context.Context, tenantID string) (*dto.ClientListResponse, error) {
	out := &dto.ClientListResponse{Items: []dto.ClientResponse{}}
	err := uc.tx.RunInTenant(ctx, tenantID, func(repos repository.TenantScopedRepos) error {
		list, err := repos.Clients.ListByTenant(ctx, tenantID)
		if err != nil {
			return persistence(err)
		}
		for _, c := range list {
			out.Items = append(out.Items, dto.NewClientResponse(c))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create alta de cliente en el tenant.
func (uc *ClientUseCase) Create(ctx context.Context, tenantID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrMissingFields
	}
	now := uc.now()
	c := &entity.Client{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      name,
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.RunInTenant(ctx, tenantID, func(repos repository.TenantScopedRepos) error {
		if err := repos.Clients.Create(ctx, c); err != nil {
			return persistence(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewClientResponse(c)
	return &out, nil
}
