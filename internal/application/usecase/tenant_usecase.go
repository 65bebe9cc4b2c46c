package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/comptavision/comptavision-api/internal/application/dto"
	"github.com/comptavision/comptavision-api/internal/domain"
	"github.com/comptavision/comptavision-api/internal/domain/repository"
)

// TenantUseCase consulta y edición del tenant propio. Todo pasa por una tx con tenant fijado.
type TenantUseCase struct {
	tx  repository.TenantTxRunner
	now func() time.Time
}

// NewTenantUseCase construye el caso de uso.
func NewTenantUseCase(tx repository.TenantTxRunner) *TenantUseCase {
	return &TenantUseCase{tx: tx, now: time.Now}
}

// List devuelve los tenants visibles para el principal: solo el suyo.
func (uc *TenantUseCase) List(ctx context.Context, tenantID string) (*dto.TenantListResponse, error) {
	out := &dto.TenantListResponse{Items: []dto.TenantResponse{}}
	err := uc.tx.RunInTenant(ctx, tenantID, func(repos repository.TenantScopedRepos) error {
		t, err := repos.Tenants.GetByID(ctx, tenantID)
		if err != nil {
			return persistence(err)
		}
		if t != nil {
			out.Items = append(out.Items, dto.NewTenantResponse(t))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Rename cambia el nombre visible del tenant. El slug no se modifica.
func (uc *TenantUseCase) Rename(ctx context.Context, tenantID string, in dto.UpdateTenantRequest) (*dto.TenantResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrMissingFields
	}
	var out dto.TenantResponse
	err := uc.tx.RunInTenant(ctx, tenantID, func(repos repository.TenantScopedRepos) error {
		t, err := repos.Tenants.GetByID(ctx, tenantID)
		if err != nil {
			return persistence(err)
		}
		if t == nil {
			return domain.ErrTenantNotFound
		}
		t.Name = name
		t.UpdatedAt = uc.now()
		if err := repos.Tenants.Update(ctx, t); err != nil {
			return persistence(err)
		}
		out = dto.NewTenantResponse(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func persistence(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
}
