package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/comptavision/comptavision-api/internal/application/auth"
	"github.com/comptavision/comptavision-api/internal/application/license"
	"github.com/comptavision/comptavision-api/internal/application/usecase"
	infrapdf "github.com/comptavision/comptavision-api/internal/infrastructure/pdf"
	"github.com/comptavision/comptavision-api/internal/infrastructure/postgres"
	infraredis "github.com/comptavision/comptavision-api/internal/infrastructure/redis"
	"github.com/comptavision/comptavision-api/internal/infrastructure/security"
	httpRouter "github.com/comptavision/comptavision-api/internal/interfaces/http"
	"github.com/comptavision/comptavision-api/pkg/config"
	"github.com/comptavision/comptavision-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("version", cfg.App.Version).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log.Zerolog()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	readiness := []httpRouter.ReadinessCheck{{Name: "postgres", Ping: pool.Ping}}

	// Redis es opcional: sin REDIS_ADDR no hay límite de intentos de login.
	var limiter auth.LoginLimiter
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis, log.Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		limiter = infraredis.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, time.Duration(cfg.Login.LockMinutes)*time.Minute)
		readiness = append(readiness, httpRouter.ReadinessCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	userRepo := postgres.NewUserRepository(pool)
	tenantRepo := postgres.NewTenantRepository(pool)
	licenseRepo := postgres.NewLicenseRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	hasher := security.NewBcryptHasher(security.DefaultCost)

	authUC := auth.NewAuthUseCase(txRunner, userRepo, tenantRepo, hasher, limiter, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.With().Str("component", "auth").Logger())

	// PDF: certificado de licencia
	certGen := infrapdf.NewCertificateGenerator(cfg.App.Name)
	licenseUC := license.NewLicenseUseCase(txRunner, licenseRepo, tenantRepo, certGen, license.Defaults{
		TermDays: cfg.License.DefaultTermDays,
		Seats:    cfg.License.DefaultSeats,
		Plan:     cfg.License.DefaultPlan,
	}, log.With().Str("component", "license").Logger())

	tenantUC := usecase.NewTenantUseCase(txRunner)
	userUC := usecase.NewUserUseCase(txRunner, hasher)
	clientUC := usecase.NewClientUseCase(txRunner)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(cfg.App.IsDevelopment()),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.FrontendURL,
		AllowCredentials: true,
		AllowMethods:     strings.Join([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}, ","),
		AllowHeaders:     "Content-Type,Authorization,X-Requested-With",
	}))
	if cfg.App.Env != "test" {
		app.Use(httpRouter.RequestLogger(log.With().Str("component", "http").Logger()))
	}

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ComptaVision API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		LicenseUC: licenseUC,
		TenantUC:  tenantUC,
		UserUC:    userUC,
		ClientUC:  clientUC,
		Health: httpRouter.NewHealthHandler(httpRouter.HealthInfo{
			Service: cfg.App.Name,
			Env:     cfg.App.Env,
			Version: cfg.App.Version,
		}, readiness...),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
