package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	appanalytics "github.com/jhoicas/billmaker-api/internal/application/analytics"
	"github.com/jhoicas/billmaker-api/internal/application/auth"
	"github.com/jhoicas/billmaker-api/internal/application/backup"
	"github.com/jhoicas/billmaker-api/internal/application/billing"
	"github.com/jhoicas/billmaker-api/internal/application/business"
	"github.com/jhoicas/billmaker-api/internal/application/customer"
	"github.com/jhoicas/billmaker-api/internal/application/ports"
	"github.com/jhoicas/billmaker-api/internal/application/product"
	infraai "github.com/jhoicas/billmaker-api/internal/infrastructure/ai"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/backupstore"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/badgerkv"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/kvrepo"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/kvstore"
	infrapdf "github.com/jhoicas/billmaker-api/internal/infrastructure/pdf"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/postgres"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/rediskv"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/billmaker-api/internal/interfaces/http"
	"github.com/jhoicas/billmaker-api/pkg/config"
	"github.com/jhoicas/billmaker-api/pkg/logger"
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
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("abrir almacenamiento")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar almacenamiento")
		}
	}()

	dm := kvstore.NewDataManager(store, kvstore.Options{
		Namespace:         cfg.Storage.Namespace,
		CompressThreshold: cfg.Storage.CompressThreshold,
		Logger:            log.Component("storage"),
	})
	repos := kvrepo.New(dm)

	businessUC := business.NewBusinessUseCase(repos.Businesses, repos.Invoices, repos.Counters, log.Component("business"))
	customerUC := customer.NewCustomerUseCase(repos.Customers, repos.Invoices, repos.Counters, log.Component("customer"))
	productUC := product.NewProductUseCase(repos.Products, repos.Counters, cfg.Billing.AllowNegativeStock, log.Component("product"))
	engine := billing.NewBillingEngine(repos.Invoices, repos.Counters, businessUC, customerUC, productUC, log.Component("billing"))
	invoicePDFUC := billing.NewPDFUseCase(repos.Invoices, businessUC, infrapdf.NewMarotoPDFGenerator())
	analyticsUC := appanalytics.NewAnalyticsUseCase(repos.Invoices, repos.Customers, repos.Products)
	dashboardUC := appanalytics.NewDashboardUseCase(repos.Invoices, repos.Customers, repos.Products)

	// Sin API key la sugerencia HSN responde 503
	var llm ports.LLMService
	if cfg.AI.AnthropicAPIKey != "" {
		llm = infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	}
	hsnUC := product.NewHSNUseCase(llm)

	backupDest, err := openBackupStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("destino de respaldos")
	}
	backupUC := backup.NewBackupUseCase(backup.Repositories{
		Businesses: repos.Businesses,
		Customers:  repos.Customers,
		Products:   repos.Products,
		Invoices:   repos.Invoices,
		Counters:   repos.Counters,
	}, backupDest, dm, backup.Options{
		Compress: cfg.Backup.Compress,
		Retain:   cfg.Backup.Retain,
	}, log.Component("backup"))

	passwordHash := cfg.Admin.PasswordHash
	if passwordHash == "" && cfg.Admin.Password != "" {
		if passwordHash, err = auth.HashPassword(cfg.Admin.Password); err != nil {
			log.Fatal().Err(err).Msg("hash de la contraseña del operador")
		}
	}
	authUC := auth.NewAuthUseCase(
		auth.Operator{Username: cfg.Admin.Username, PasswordHash: passwordHash},
		auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
		log.Component("auth"),
	)
	if !authUC.Enabled() {
		log.Warn().Msg("ADMIN_PASSWORD no configurado: el login está deshabilitado")
	}

	var backupScheduler *scheduler.BackupScheduler
	if cfg.Backup.Enabled {
		backupScheduler = scheduler.NewBackupScheduler(backupUC, cfg.Backup.Interval, cfg.Backup.CheckInterval, log.Component("scheduler"))
		if err := backupScheduler.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("iniciar respaldo automático")
		}
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		SwaggerFile: "./docs/swagger.json",
	}, httpRouter.RouterDeps{
		BusinessUC:   businessUC,
		CustomerUC:   customerUC,
		ProductUC:    productUC,
		HSNUC:        hsnUC,
		Billing:      engine,
		InvoicePDF:   invoicePDFUC,
		AnalyticsUC:  analyticsUC,
		DashboardUC:  dashboardUC,
		BackupUC:     backupUC,
		AuthUC:       authUC,
		Storage:      dm,
		ReloadCaches: repos.Reload,
		JWTSecret:    cfg.JWT.Secret,
	}, log)

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

	if backupScheduler != nil {
		if err := backupScheduler.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("detener respaldo automático")
		}
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStore abre el backend clave-valor según STORAGE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (kvstore.Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageBadger:
		return badgerkv.Open(cfg.Storage.Path)
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		s, err := postgres.NewKVStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return s, nil
	case config.StorageRedis:
		return rediskv.New(ctx, cfg.Redis)
	case config.StorageMemory:
		return kvstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.Storage.Driver)
	}
}

// openBackupStore usa S3 si hay bucket configurado; si no, el directorio local.
func openBackupStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (backup.BackupStore, error) {
	if cfg.S3.Enabled() {
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("respaldos en S3")
		return backupstore.NewS3Store(ctx, cfg.S3, backupstore.WithLogger(log.Component("backupstore")))
	}
	log.Info().Str("dir", cfg.Backup.Dir).Msg("respaldos en disco local")
	return backupstore.NewLocalStore(cfg.Backup.Dir)
}
