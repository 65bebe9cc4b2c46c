package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/comptavision/comptavision-api/internal/application/auth"
	"github.com/comptavision/comptavision-api/internal/application/dto"
	"github.com/comptavision/comptavision-api/internal/domain"
	"github.com/comptavision/comptavision-api/internal/domain/entity"
	"github.com/comptavision/comptavision-api/internal/domain/repository"
)

// UserUseCase administración de usuarios dentro del tenant del principal.
type UserUseCase struct {
	tx     repository.TenantTxRunner
	hasher auth.PasswordHasher
	now    func() time.Time
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(tx repository.TenantTxRunner, hasher auth.PasswordHasher) *UserUseCase {
	return &UserUseCase{tx: tx, hasher: hasher, now: time.Now}
}

// List usuarios del tenant del principal.
func (uc *UserUseCase) List(ctx context.Context, p *auth.Principal) (*dto.UserListResponse, error) {
	out := &dto.UserListResponse{Items: []dto.UserResponse{}}
	err := uc.tx.RunInTenant(ctx, p.TenantID, func(repos repository.TenantScopedRepos) error {
		users, err := repos.Users.ListByTenant(ctx, p.TenantID)
		if err != nil {
			return persistence(err)
		}
		for _, u := range users {
			out.Items = append(out.Items, dto.NewUserResponse(u))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create da de alta un usuario en el tenant del principal. Nunca crea un OWNER.
func (uc *UserUseCase) Create(ctx context.Context, p *auth.Principal, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	role := strings.ToUpper(strings.TrimSpace(in.Role))
	if email == "" || in.Password == "" || first == "" || last == "" || role == "" {
		return nil, domain.ErrMissingFields
	}
	if !entity.IsValidRole(role) || role == entity.RoleOwner {
		return nil, fmt.Errorf("%w: rol no permitido", domain.ErrInvalidInput)
	}
	if err := auth.CheckPasswordLength(in.Password); err != nil {
		return nil, err
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     p.TenantID,
		Email:        email,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.RunInTenant(ctx, p.TenantID, func(repos repository.TenantScopedRepos) error {
		existing, err := repos.Users.GetByEmail(ctx, email)
		if err != nil {
			return persistence(err)
		}
		if existing != nil {
			return domain.ErrDuplicateEmail
		}
		if err := repos.Users.Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrDuplicateEmail) {
				return err
			}
			return persistence(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewUserResponse(user)
	return &out, nil
}

// SetActive activa o desactiva un usuario del mismo tenant. El principal no puede
// cambiar su propio estado y el OWNER no se desactiva.
func (uc *UserUseCase) SetActive(ctx context.Context, p *auth.Principal, userID string, active bool) (*dto.UserResponse, error) {
	if userID == p.UserID {
		return nil, fmt.Errorf("%w: no se puede cambiar el estado propio", domain.ErrForbidden)
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrNotFound
	}
	var out dto.UserResponse
	err := uc.tx.RunInTenant(ctx, p.TenantID, func(repos repository.TenantScopedRepos) error {
		u, err := repos.Users.GetByID(ctx, userID)
		if err != nil {
			return persistence(err)
		}
		// Un usuario de otro tenant se trata como inexistente.
		if u == nil || u.TenantID != p.TenantID {
			return domain.ErrNotFound
		}
		if !active && u.Role == entity.RoleOwner {
			return fmt.Errorf("%w: el OWNER no se puede desactivar", domain.ErrForbidden)
		}
		u.IsActive = active
		u.UpdatedAt = uc.now()
		if err := repos.Users.Update(ctx, u); err != nil {
			return persistence(err)
		}
		out = dto.NewUserResponse(u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
