// seed crea los datos de demostración: cabinet demo-tenant, su OWNER, un cliente
// y una licencia PENDING cuya clave se imprime por stdout.
//
// Uso: go run ./cmd/seed
// La contraseña del OWNER se toma de SEED_OWNER_PASSWORD (por defecto changeme123).
// Si el cabinet ya existe no se vuelve a crear. El cliente demo se crea si falta
// y la licencia se emite siempre.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/comptavision/comptavision-api/internal/application/dto"
	"github.com/comptavision/comptavision-api/internal/application/license"
	"github.com/comptavision/comptavision-api/internal/domain/entity"
	"github.com/comptavision/comptavision-api/internal/domain/repository"
	"github.com/comptavision/comptavision-api/internal/infrastructure/postgres"
	"github.com/comptavision/comptavision-api/internal/infrastructure/security"
	"github.com/comptavision/comptavision-api/pkg/config"
	"github.com/comptavision/comptavision-api/pkg/logger"
)

const (
	demoSlug  = "demo-tenant"
	demoEmail = "owner@demo.local"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log.Zerolog()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	txRunner := postgres.NewTxRunner(pool)
	tenantRepo := postgres.NewTenantRepository(pool)

	tenant, err := tenantRepo.GetBySlug(ctx, demoSlug)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar tenant demo")
	}
	if tenant == nil {
		tenant, err = seedCabinet(ctx, txRunner)
		if err != nil {
			log.Fatal().Err(err).Msg("crear cabinet demo")
		}
		log.Info().Str("tenant_id", tenant.ID).Str("owner", demoEmail).Msg("cabinet demo creado")
	} else {
		log.Info().Str("tenant_id", tenant.ID).Msg("cabinet demo ya existe")
	}

	created, err := ensureDemoClient(ctx, txRunner, tenant.ID, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("crear cliente demo")
	}
	if created {
		log.Info().Str("tenant_id", tenant.ID).Msg("cliente demo creado")
	}

	licenseUC := license.NewLicenseUseCase(txRunner, postgres.NewLicenseRepository(pool), tenantRepo, nil,
		license.Defaults{
			TermDays: cfg.License.DefaultTermDays,
			Seats:    cfg.License.DefaultSeats,
			Plan:     cfg.License.DefaultPlan,
		}, zerolog.Nop())
	note := "licencia de demostración"
	lic, err := licenseUC.Create(ctx, dto.CreateLicenseRequest{Note: &note})
	if err != nil {
		log.Fatal().Err(err).Msg("emitir licencia demo")
	}

	fmt.Printf("Tenant:   %s (%s)\n", tenant.Name, tenant.Slug)
	fmt.Printf("Owner:    %s\n", demoEmail)
	fmt.Printf("Licencia: %s (%s, vence %s)\n", lic.LicenseKey, lic.Status, lic.ExpiresAt.Format("2006-01-02"))
}

// seedCabinet crea tenant y OWNER en una sola transacción.
func seedCabinet(ctx context.Context, txRunner *postgres.TxRunner) (*entity.Tenant, error) {
	password := os.Getenv("SEED_OWNER_PASSWORD")
	if password == "" {
		password = "changeme123"
	}
	hash, err := security.NewBcryptHasher(security.DefaultCost).Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tenant := &entity.Tenant{
		ID:        uuid.New().String(),
		Slug:      demoSlug,
		Name:      "Cabinet Démo",
		Country:   "CM",
		Currency:  "XAF",
		Plan:      entity.PlanStarter,
		Status:    entity.TenantStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     tenant.ID,
		Email:        demoEmail,
		PasswordHash: hash,
		FirstName:    "Owner",
		LastName:     "Demo",
		Role:         entity.RoleOwner,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = txRunner.RunRegistration(ctx, func(tenants repository.TenantRepository, users repository.UserRepository) error {
		if err := tenants.Create(ctx, tenant); err != nil {
			return err
		}
		return users.Create(ctx, owner)
	})
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// ensureDemoClient crea el cliente demo si el tenant aún no tiene clientes.
// Lectura y alta van en la misma transacción con el tenant fijado.
func ensureDemoClient(ctx context.Context, txRunner repository.TenantTxRunner, tenantID string, now time.Time) (bool, error) {
	created := false
	err := txRunner.RunInTenant(ctx, tenantID, func(repos repository.TenantScopedRepos) error {
		existing, err := repos.Clients.ListByTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}
		created = true
		return repos.Clients.Create(ctx, &entity.Client{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			Name:      "Client Démo",
			Email:     "client@demo.local",
			Phone:     "+237600000000",
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return false, err
	}
	return created, nil
}
