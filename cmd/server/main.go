package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/garyjia/claim-adjudication/internal/application/dispatcher"
	"github.com/garyjia/claim-adjudication/internal/application/service"
	"github.com/garyjia/claim-adjudication/internal/config"
	"github.com/garyjia/claim-adjudication/internal/domain/ledger"
	"github.com/garyjia/claim-adjudication/internal/infrastructure/persistence/repository"
	"github.com/garyjia/claim-adjudication/internal/infrastructure/persistence/sqlite"
	httpiface "github.com/garyjia/claim-adjudication/internal/interfaces/http"
	"github.com/garyjia/claim-adjudication/pkg/database"
	"github.com/garyjia/claim-adjudication/pkg/utils"
)

func main() {
	// Local overrides from .env, ignored when absent
	_ = gotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting claim adjudication service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	sqlDB, err := database.Open(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer sqlDB.Close()

	migrator := database.NewMigrator(sqlDB, logger)
	if err := migrator.Run(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	db := sqlite.NewDB(sqlDB, logger)

	regRepo := repository.NewRegistrationRepository(sqlDB, logger)
	reviewRepo := repository.NewReviewRepository(sqlDB, logger)
	confRepo := repository.NewConfirmationRepository(sqlDB, logger)

	kvLogger := utils.NewKVLogger(logger)

	disp := dispatcher.NewDispatcher(dispatcher.WithLogger(kvLogger))
	defer disp.Close()

	auditService := service.NewAuditService(kvLogger)
	auditService.Register(disp)

	ldgr := ledger.New(decimal.NewFromFloat(cfg.Ledger.Epsilon))

	regService := service.NewRegistrationService(regRepo, reviewRepo, confRepo, db, ldgr, disp, kvLogger)
	reviewService := service.NewReviewService(regRepo, reviewRepo, db, ldgr, disp, kvLogger)
	confService := service.NewConfirmationService(regRepo, reviewRepo, confRepo, db, disp, kvLogger)
	claimService := service.NewClaimListService(regRepo, reviewRepo, confRepo, kvLogger)

	server := httpiface.NewServer(httpiface.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, regService, reviewService, confService, claimService, kvLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutdown signal received")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
