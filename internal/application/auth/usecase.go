package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/comptavision/comptavision-api/internal/application/dto"
	"github.com/comptavision/comptavision-api/internal/domain"
	"github.com/comptavision/comptavision-api/internal/domain/entity"
	"github.com/comptavision/comptavision-api/internal/domain/repository"
	"github.com/comptavision/comptavision-api/internal/domain/tenancy"
	"github.com/comptavision/comptavision-api/pkg/jwt"
)

// Límites de longitud del password. bcrypt no admite más de 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// CheckPasswordLength valida la longitud en bytes del password.
func CheckPasswordLength(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: password no puede superar %d bytes", domain.ErrInvalidInput, MaxPasswordLength)
	}
	return nil
}

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

func (c JWTConfig) ttl() time.Duration {
	return time.Duration(c.ExpMinutes) * time.Minute
}

// AuthUseCase casos de uso de autenticación: registro, login y validación de sesión.
type AuthUseCase struct {
	txRunner   TxRunner
	userRepo   repository.UserRepository
	tenantRepo repository.TenantRepository
	hasher     PasswordHasher
	limiter    LoginLimiter
	jwtCfg     JWTConfig
	log        zerolog.Logger
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthUseCase construye el caso de uso de auth. limiter puede ser nil (sin límite de intentos).
func NewAuthUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	tenantRepo repository.TenantRepository,
	hasher PasswordHasher,
	limiter LoginLimiter,
	jwtCfg JWTConfig,
	log zerolog.Logger,
) *AuthUseCase {
	if limiter == nil {
		limiter = noopLimiter{}
	}
	return &AuthUseCase{
		txRunner:   txRunner,
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		hasher:     hasher,
		limiter:    limiter,
		jwtCfg:     jwtCfg,
		log:        log,
		now:        time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *AuthUseCase) WithClock(now func() time.Time) *AuthUseCase {
	uc.now = now
	return uc
}

// Register crea el tenant y su usuario OWNER en una sola transacción y emite un token.
// Errores: ErrMissingFields, ErrInvalidInput, ErrDuplicateSlug, ErrDuplicateEmail, ErrPersistence.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	in = trimRegister(in)
	if in.CabinetName == "" || in.CabinetSlug == "" || in.Country == "" || in.Email == "" ||
		in.Password == "" || in.FirstName == "" || in.LastName == "" {
		return nil, domain.ErrMissingFields
	}
	if err := CheckPasswordLength(in.Password); err != nil {
		return nil, err
	}
	slug, err := tenancy.NormalizeSlug(in.CabinetSlug)
	if err != nil {
		return nil, fmt.Errorf("%w: slug inválido", domain.ErrInvalidInput)
	}
	country, err := tenancy.CanonicalCountry(in.Country)
	if err != nil {
		return nil, fmt.Errorf("%w: país inválido", domain.ErrInvalidInput)
	}

	// Las comprobaciones previas solo ahorran trabajo; la restricción única de la BD decide.
	existingTenant, err := uc.tenantRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, persistence(err)
	}
	if existingTenant != nil {
		return nil, domain.ErrDuplicateSlug
	}
	existingUser, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, persistence(err)
	}
	if existingUser != nil {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := uc.now()
	tenant := &entity.Tenant{
		ID:        uuid.New().String(),
		Slug:      slug,
		Name:      in.CabinetName,
		Country:   country,
		Currency:  tenancy.CurrencyFor(country),
		Plan:      entity.PlanStarter,
		Status:    entity.TenantStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     tenant.ID,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         entity.RoleOwner,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.RunRegistration(ctx, func(tenantRepo repository.TenantRepository, userRepo repository.UserRepository) error {
		if err := tenantRepo.Create(ctx, tenant); err != nil {
			return err
		}
		return userRepo.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateSlug) || errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, persistence(err)
	}

	token, err := uc.issue(user, tenant)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenant.ID).Str("slug", tenant.Slug).Str("user_id", user.ID).Msg("cabinet registrado")

	return &dto.AuthResponse{
		Message: "Cabinet created successfully",
		Token:   token,
		User:    dto.NewUserResponse(user),
		Tenant:  dto.NewTenantResponse(tenant),
	}, nil
}

// Login verifica email/password, exige usuario y tenant activos, registra el último acceso y emite un token.
// Email inexistente y password incorrecto devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrMissingFields
	}

	allowed, err := uc.limiter.Allowed(ctx, email)
	if err != nil {
		uc.log.Warn().Err(err).Msg("login limiter: no disponible, se permite el intento")
	} else if !allowed {
		return nil, domain.ErrTooManyAttempts
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, persistence(err)
	}
	if user == nil {
		// Comparación contra un hash ficticio: el tiempo de respuesta no revela si el email existe.
		_ = uc.hasher.Compare(uc.dummy(), in.Password)
		uc.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}
	if err := uc.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		uc.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	tenant, err := uc.tenantRepo.GetByID(ctx, user.TenantID)
	if err != nil {
		return nil, persistence(err)
	}
	if !user.IsActive || !tenant.IsActive() {
		return nil, domain.ErrAccountSuspended
	}

	if err := uc.limiter.Reset(ctx, email); err != nil {
		uc.log.Warn().Err(err).Msg("login limiter: no se pudo reiniciar el contador")
	}

	now := uc.now()
	if err := uc.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		// Efecto secundario best-effort: no bloquea el token, pero queda registrado como error de persistencia.
		uc.log.Warn().Err(err).Str("user_id", user.ID).Str("code", "PERSISTENCE_ERROR").Msg("no se pudo registrar last_login_at")
	} else {
		user.LastLoginAt = &now
	}

	token, err := uc.issue(user, tenant)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    dto.NewUserResponse(user),
		Tenant:  dto.NewTenantResponse(tenant),
	}, nil
}

// ValidateSession verifica firma y expiración del token y vuelve a leer usuario y tenant:
// desactivar un usuario o suspender un tenant invalida sus tokens en la siguiente petición.
func (uc *AuthUseCase) ValidateSession(ctx context.Context, token string) (*Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrMissingToken
	}
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	if claims.TenantID == "" {
		return nil, domain.ErrTenantRequired
	}

	user, err := uc.userRepo.GetByID(ctx, claims.UserID())
	if err != nil {
		return nil, persistence(err)
	}
	if user == nil || !user.IsActive || user.TenantID != claims.TenantID {
		return nil, domain.ErrInvalidToken
	}
	tenant, err := uc.tenantRepo.GetByID(ctx, claims.TenantID)
	if err != nil {
		return nil, persistence(err)
	}
	if !tenant.IsActive() {
		return nil, domain.ErrInvalidToken
	}
	return newPrincipal(user, tenant), nil
}

// Me devuelve el perfil del principal con datos frescos de usuario y tenant.
func (uc *AuthUseCase) Me(ctx context.Context, p *Principal) (*dto.MeResponse, error) {
	if p == nil {
		return nil, domain.ErrMissingToken
	}
	user, err := uc.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, persistence(err)
	}
	tenant, err := uc.tenantRepo.GetByID(ctx, p.TenantID)
	if err != nil {
		return nil, persistence(err)
	}
	if user == nil || tenant == nil {
		return nil, domain.ErrInvalidToken
	}
	return &dto.MeResponse{
		User:   dto.NewUserResponse(user),
		Tenant: dto.NewTenantResponse(tenant),
	}, nil
}

func (uc *AuthUseCase) issue(u *entity.User, t *entity.Tenant) (string, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, u.ID, u.Email, t.ID, u.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ttl())
	if err != nil {
		return "", fmt.Errorf("emitir token: %w", err)
	}
	return token, nil
}

func (uc *AuthUseCase) recordFailure(ctx context.Context, email string) {
	if err := uc.limiter.RecordFailure(ctx, email); err != nil {
		uc.log.Warn().Err(err).Msg("login limiter: no se pudo registrar el fallo")
	}
}

func (uc *AuthUseCase) dummy() string {
	uc.dummyOnce.Do(func() {
		h, err := uc.hasher.Hash(uuid.New().String())
		if err != nil {
			uc.log.Error().Err(err).Msg("no se pudo generar el hash ficticio de login")
			return
		}
		uc.dummyHash = h
	})
	return uc.dummyHash
}

func persistence(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func trimRegister(in dto.RegisterRequest) dto.RegisterRequest {
	in.CabinetName = strings.TrimSpace(in.CabinetName)
	in.CabinetSlug = strings.TrimSpace(in.CabinetSlug)
	in.Country = strings.TrimSpace(in.Country)
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	return in
}
