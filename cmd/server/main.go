package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"tailor-backend/internal/backup"
	"tailor-backend/internal/billing"
	"tailor-backend/internal/cache"
	"tailor-backend/internal/config"
	h "tailor-backend/internal/http"
	"tailor-backend/internal/handlers"
	"tailor-backend/internal/health"
	"tailor-backend/internal/logger"
	"tailor-backend/internal/middleware"
	"tailor-backend/internal/repositories"
	"tailor-backend/internal/services"
	"tailor-backend/internal/store"
	"tailor-backend/internal/store/memory"
	"tailor-backend/internal/store/postgres"
	"tailor-backend/internal/store/sqlite"
	"tailor-backend/internal/timeutil"
)

func main() {
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	runBackup := flag.Bool("backup", false, "upload a snapshot of every collection and exit")
	flag.Parse()

	cfg := config.Load()
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	if err := logger.Setup(logCfg); err != nil {
		log.Fatal().Err(err).Msg("invalid log configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
	}
	defer func() {
		if c, ok := db.(store.Closer); ok {
			c.Close()
		}
	}()

	// Redis is optional: without it every read goes to the store.
	var cacheProbe health.CacheProbe
	if cfg.Redis.Enabled {
		client, err := cache.Connect(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, continuing without cache")
		} else {
			cached := cache.New(db, client, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
			cached.InvalidateAll(ctx)
			db = cached
			cacheProbe = cached
			log.Info().Str("addr", cfg.Redis.Addr).Msg("redis cache enabled")
		}
	}

	if *runBackup {
		if err := snapshot(ctx, cfg, db); err != nil {
			log.Fatal().Err(err).Msg("backup failed")
		}
		return
	}

	handler := buildHandler(cfg, db, cacheProbe)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.Store.Driver).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// openStore selects the record store named by store.driver.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "", "memory":
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return memory.New(memory.WithClock(timeutil.Now)), nil

	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.DSN())
		if err != nil {
			return nil, err
		}
		if err := postgres.NewMigrator(pool).RunMigrations(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		log.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.Name).Msg("connected to postgres")
		return postgres.New(pool), nil

	case "sqlite":
		s, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLite.Path).Msg("opened sqlite store")
		return s, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func buildHandler(cfg *config.Config, db store.Store, cacheProbe health.CacheProbe) http.Handler {
	categories := billing.CategoryFields(cfg.CategoryMap())
	if len(categories) == 0 {
		categories = billing.DefaultCategoryFields()
	}

	// Repositories
	stockRepo := repositories.NewStockRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	billRepo := repositories.NewBillRepository(db)
	tailorCounterRepo := repositories.NewTailorCounterRepository(db)

	// Services
	stockLedger := services.NewStockLedger(db)
	stockService := services.NewStockService(stockLedger)
	customerService := services.NewCustomerService(customerRepo)
	billService := services.NewBillService(db, stockLedger, categories)
	paymentLedger := services.NewPaymentLedger(db)
	carryForward := services.NewCarryForward(db)
	organizationService := services.NewOrganizationService(
		repositories.NewOrganizationRepository(db),
		services.OrganizationDefaults{
			Name:    cfg.Organization.Name,
			Phones:  cfg.Organization.Phones,
			Emails:  cfg.Organization.Emails,
			Address: cfg.Organization.Address,
		},
	)
	receiptService := services.NewReceiptService(billService, organizationService, stockRepo, categories)
	tailorCounterService := services.NewTailorCounterService(tailorCounterRepo)
	itemStatusService := services.NewItemStatusService(repositories.NewItemStatusRepository(db), tailorCounterRepo)
	dashboardService := services.NewDashboardService(stockRepo, customerRepo, billRepo, cfg.Inventory.LowStockThreshold)

	// Handlers
	router := h.NewRouter(
		handlers.NewStockHandler(stockService),
		handlers.NewCustomerHandler(customerService, billService),
		handlers.NewBillHandler(billService, paymentLedger, carryForward, receiptService),
		&handlers.CategoryHandler{Categories: categories},
		handlers.NewOrganizationHandler(organizationService),
		handlers.NewTailorCounterHandler(tailorCounterService),
		handlers.NewItemStatusHandler(itemStatusService),
		handlers.NewDashboardHandler(dashboardService),
		handlers.NewHealthHandler(health.NewHealthChecker(db, cacheProbe)),
	)

	corsMiddleware := middleware.NewCORS(cfg)
	requestLogger := middleware.NewRequestLogger()

	return middleware.PanicRecovery(corsMiddleware(requestLogger.Handler(router)))
}

func snapshot(ctx context.Context, cfg *config.Config, db store.Store) error {
	settings := backup.Settings{
		Bucket:    cfg.Backup.Bucket,
		Endpoint:  cfg.Backup.Endpoint,
		Region:    cfg.Backup.Region,
		AccessKey: cfg.Backup.AccessKey,
		SecretKey: cfg.Backup.SecretKey,
		Prefix:    cfg.Backup.Prefix,
	}
	client, err := backup.NewS3Client(ctx, settings)
	if err != nil {
		return err
	}
	_, err = backup.NewExporter(client, settings).Run(ctx, db, timeutil.Now())
	return err
}
