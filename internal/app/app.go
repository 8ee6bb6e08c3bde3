package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/config"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/contentstore"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/handlers"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/ledger"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/logger"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/models"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/repositories"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/routes"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/services"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/validator"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/workers"
)

func Run() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := gormDB.AutoMigrate(
		&models.Review{},
		&models.LedgerTransaction{},
		&models.Reputation{},
		&models.Dispute{},
	); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connector := newConnector(cfg.Ledger)
	if err := connector.Connect(ctx); err != nil {
		// The service still starts; submissions fail fast with
		// NOT_CONNECTED until the ledger comes back.
		logger.WithError(err).Warn("ledger connection failed on startup")
	}
	defer connector.Close()

	ginRouter := SetupRouter(ctx, cfg, gormDB, connector)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires repositories, services, workers and handlers onto
// a gin engine. Split out of Run so tests can build the full stack
// against a simulated ledger.
func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB, connector ledger.Connector) *gin.Engine {
	coordinator := ledger.NewCoordinator(connector, cfg.Ledger)
	store := contentstore.NewStore()

	reviewRepo := repositories.NewReviewRepository(gormDB)
	txRepo := repositories.NewTransactionRepository(gormDB)
	reputationRepo := repositories.NewReputationRepository(gormDB)
	disputeRepo := repositories.NewDisputeRepository(gormDB)

	serviceContainer := services.NewServiceContainer(
		reviewRepo, txRepo, reputationRepo, disputeRepo,
		coordinator, store,
		validator.ModerationPolicy{Denylist: cfg.Moderation.Denylist},
	)

	confirmationWorker := workers.NewConfirmationWorker(serviceContainer.ReviewService, 30*time.Second)
	confirmationWorker.Start(ctx)

	v := validator.New()
	appHandlers := handlers.NewAppHandlers(serviceContainer, v, cfg.JWT.Secret)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())

	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func newConnector(cfg config.LedgerConfig) ledger.Connector {
	if cfg.Backend == "ethereum" {
		connector, err := ledger.NewEthereumConnector(cfg)
		if err != nil {
			logger.Fatal("Failed to build ledger connector", "error", err)
		}
		return connector
	}

	logger.Warn("Using simulated ledger backend")
	return ledger.NewSimulatedConnector(cfg)
}
