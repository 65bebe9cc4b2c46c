package license

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/comptavision/comptavision-api/internal/application/dto"
	"github.com/comptavision/comptavision-api/internal/domain"
	"github.com/comptavision/comptavision-api/internal/domain/entity"
	"github.com/comptavision/comptavision-api/internal/domain/licensing"
	"github.com/comptavision/comptavision-api/internal/domain/repository"
	"github.com/comptavision/comptavision-api/internal/domain/tenancy"
)

// maxKeyAttempts reintentos ante colisión de clave al emitir.
const maxKeyAttempts = 5

// Defaults valores por defecto al emitir una licencia.
type Defaults struct {
	TermDays int
	Seats    int
	Plan     string
}

// LicenseUseCase ciclo de vida de licencias: emisión, consulta, edición, revocación y activación.
type LicenseUseCase struct {
	txRunner    TxRunner
	licenseRepo repository.LicenseRepository
	tenantRepo  repository.TenantRepository
	certGen     CertificateGenerator
	defaults    Defaults
	log         zerolog.Logger
	now         func() time.Time
}

// NewLicenseUseCase construye el caso de uso. certGen puede ser nil (sin certificados PDF).
func NewLicenseUseCase(
	txRunner TxRunner,
	licenseRepo repository.LicenseRepository,
	tenantRepo repository.TenantRepository,
	certGen CertificateGenerator,
	defaults Defaults,
	log zerolog.Logger,
) *LicenseUseCase {
	if defaults.TermDays <= 0 {
		defaults.TermDays = 365
	}
	if defaults.Seats <= 0 {
		defaults.Seats = 5
	}
	if defaults.Plan == "" {
		defaults.Plan = entity.PlanStarter
	}
	return &LicenseUseCase{
		txRunner:    txRunner,
		licenseRepo: licenseRepo,
		tenantRepo:  tenantRepo,
		certGen:     certGen,
		defaults:    defaults,
		log:         log,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *LicenseUseCase) WithClock(now func() time.Time) *LicenseUseCase {
	uc.now = now
	return uc
}

// Create emite una licencia PENDING con clave única. Campos ausentes toman los valores por defecto.
func (uc *LicenseUseCase) Create(ctx context.Context, in dto.CreateLicenseRequest) (*dto.LicenseResponse, error) {
	plan := strings.ToUpper(strings.TrimSpace(in.Plan))
	if plan == "" {
		plan = uc.defaults.Plan
	}
	seats := uc.defaults.Seats
	if in.Seats != nil {
		seats = *in.Seats
	}
	termDays := uc.defaults.TermDays
	if in.TermDays != nil {
		termDays = *in.TermDays
	}
	if err := licensing.CheckTerms(seats, termDays); err != nil {
		return nil, err
	}

	now := uc.now()
	for attempt := 1; attempt <= maxKeyAttempts; attempt++ {
		key, err := licensing.GenerateKey(licensing.KeyPrefix, now)
		if err != nil {
			return nil, fmt.Errorf("generar clave: %w", err)
		}
		l := licensing.NewPending(uuid.New().String(), key, plan, seats, termDays, in.Note, now)
		err = uc.licenseRepo.Create(ctx, l)
		if errors.Is(err, domain.ErrDuplicate) {
			uc.log.Warn().Int("attempt", attempt).Msg("colisión de clave de licencia, se reintenta")
			continue
		}
		if err != nil {
			return nil, persistence(err)
		}
		uc.log.Info().Str("license_id", l.ID).Str("plan", l.Plan).Int("seats", l.Seats).Msg("licencia emitida")
		out := dto.NewLicenseResponse(l)
		return &out, nil
	}
	return nil, fmt.Errorf("%w: no se pudo generar una clave única", domain.ErrPersistence)
}

// List devuelve todas las licencias, más recientes primero.
func (uc *LicenseUseCase) List(ctx context.Context) (*dto.LicenseListResponse, error) {
	list, err := uc.licenseRepo.List(ctx)
	if err != nil {
		return nil, persistence(err)
	}
	items := make([]dto.LicenseResponse, 0, len(list))
	for _, l := range list {
		items = append(items, dto.NewLicenseResponse(l))
	}
	return &dto.LicenseListResponse{Items: items, Total: len(items)}, nil
}

// Get devuelve una licencia por ID.
func (uc *LicenseUseCase) Get(ctx context.Context, id string) (*dto.LicenseResponse, error) {
	l, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewLicenseResponse(l)
	return &out, nil
}

// Update sobrescribe campos de una licencia (vía de escape del operador).
func (uc *LicenseUseCase) Update(ctx context.Context, id string, in dto.UpdateLicenseRequest) (*dto.LicenseResponse, error) {
	l, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	patch := licensing.Patch{
		Status:    upperPtr(in.Status),
		Plan:      upperPtr(in.Plan),
		Seats:     in.Seats,
		ExpiresAt: in.ExpiresAt,
		Note:      in.Note,
	}
	if err := licensing.ApplyPatch(l, patch, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.licenseRepo.Update(ctx, l); err != nil {
		return nil, persistence(err)
	}
	out := dto.NewLicenseResponse(l)
	return &out, nil
}

// Revoke pasa la licencia a REVOKED. Revocar una licencia ya revocada no es un error.
func (uc *LicenseUseCase) Revoke(ctx context.Context, id string) (*dto.LicenseResponse, error) {
	l, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status != entity.LicenseStatusRevoked {
		licensing.Revoke(l, uc.now())
		if err := uc.licenseRepo.Update(ctx, l); err != nil {
			return nil, persistence(err)
		}
		uc.log.Info().Str("license_id", l.ID).Msg("licencia revocada")
	}
	out := dto.NewLicenseResponse(l)
	return &out, nil
}

// Activate vincula la licencia al tenant del slug y eleva plan y estado del tenant.
//
// La licencia se lee con bloqueo de fila. Si está vencida, el paso a EXPIRED se
// confirma antes de devolver ErrLicenseExpired. Un fallo al actualizar el tenant
// deshace también la licencia y se informa como ErrIntegrity.
func (uc *LicenseUseCase) Activate(ctx context.Context, in dto.ActivateLicenseRequest) (*dto.ActivateLicenseResponse, error) {
	key := strings.ToUpper(strings.TrimSpace(in.LicenseKey))
	rawSlug := strings.TrimSpace(in.TenantSlug)
	if key == "" || rawSlug == "" {
		return nil, domain.ErrMissingFields
	}

	var (
		result  *entity.License
		outcome error
	)
	err := uc.txRunner.RunActivation(ctx, func(licenseRepo repository.LicenseRepository, tenantRepo repository.TenantRepository) error {
		now := uc.now()
		l, err := licenseRepo.GetByKeyForUpdate(ctx, key)
		if err != nil {
			return persistence(err)
		}
		if l == nil {
			return domain.ErrLicenseNotFound
		}

		needsExpire, err := licensing.CheckUsable(l, now)
		if needsExpire {
			licensing.MarkExpired(l, now)
			if uerr := licenseRepo.Update(ctx, l); uerr != nil {
				return persistence(uerr)
			}
			uc.log.Info().Str("license_id", l.ID).Msg("licencia marcada como EXPIRED")
			// Se confirma la tx y el error se devuelve fuera.
			outcome = err
			return nil
		}
		if err != nil {
			return err
		}

		tenant, err := uc.tenantBySlug(ctx, tenantRepo, rawSlug)
		if err != nil {
			return err
		}
		if err := licensing.Activate(l, tenant.ID, now); err != nil {
			return err
		}
		if err := licenseRepo.Update(ctx, l); err != nil {
			return persistence(err)
		}

		tenant.Plan = l.Plan
		tenant.Status = entity.TenantStatusActive
		tenant.UpdatedAt = now
		if err := tenantRepo.Update(ctx, tenant); err != nil {
			uc.log.Error().Err(err).Str("license_id", l.ID).Str("tenant_id", tenant.ID).
				Str("code", "INTEGRITY_ERROR").Msg("activación: fallo al actualizar el tenant")
			return fmt.Errorf("%w: %v", domain.ErrIntegrity, err)
		}
		result = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	if outcome != nil {
		return nil, outcome
	}

	uc.log.Info().Str("license_id", result.ID).Str("tenant_id", *result.TenantID).Msg("licencia activada")
	return &dto.ActivateLicenseResponse{
		Message: "License activated successfully",
		License: dto.NewLicenseResponse(result),
	}, nil
}

// Certificate genera el PDF de la licencia con los datos del tenant vinculado.
func (uc *LicenseUseCase) Certificate(ctx context.Context, id string) ([]byte, string, error) {
	if uc.certGen == nil {
		return nil, "", fmt.Errorf("generador de certificados no configurado")
	}
	l, err := uc.find(ctx, id)
	if err != nil {
		return nil, "", err
	}
	var tenant *entity.Tenant
	if l.TenantID != nil {
		tenant, err = uc.tenantRepo.GetByID(ctx, *l.TenantID)
		if err != nil {
			return nil, "", persistence(err)
		}
	}
	pdf, err := uc.certGen.GenerateLicenseCertificate(ctx, l, tenant)
	if err != nil {
		return nil, "", fmt.Errorf("certificado de licencia: %w", err)
	}
	return pdf, "licencia-" + l.LicenseKey + ".pdf", nil
}

func (uc *LicenseUseCase) find(ctx context.Context, id string) (*entity.License, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrLicenseNotFound
	}
	l, err := uc.licenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, persistence(err)
	}
	if l == nil {
		return nil, domain.ErrLicenseNotFound
	}
	return l, nil
}

func (uc *LicenseUseCase) tenantBySlug(ctx context.Context, tenantRepo repository.TenantRepository, raw string) (*entity.Tenant, error) {
	slug, err := tenancy.NormalizeSlug(raw)
	if err != nil {
		return nil, domain.ErrTenantNotFound
	}
	tenant, err := tenantRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, persistence(err)
	}
	if tenant == nil {
		return nil, domain.ErrTenantNotFound
	}
	return tenant, nil
}

func persistence(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
}

func upperPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToUpper(strings.TrimSpace(*s))
	return &v
}
