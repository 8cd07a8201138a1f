// Package cmd assembles the application: configuration, logging, persistence
// layer selection, services, controllers and the HTTP server lifecycle.
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cafeledger/api"
	"cafeledger/api/health"
	loyaltyctrl "cafeledger/api/loyalty"
	orderctrl "cafeledger/api/order"
	stockctrl "cafeledger/api/stock"
	loyaltyapp "cafeledger/application/loyalty"
	orderapp "cafeledger/application/order"
	stockapp "cafeledger/application/stock"
	"cafeledger/config"
	"cafeledger/domain/catalog"
	"cafeledger/domain/loyalty"
	"cafeledger/domain/order"
	"cafeledger/domain/shared"
	"cafeledger/domain/stock"
	"cafeledger/infrastructure/persistence/memory"
	"cafeledger/infrastructure/persistence/mysql"
	"cafeledger/infrastructure/persistence/retry"
	"cafeledger/pkg/logger"

	"go.uber.org/zap"
)

// App is the assembled application.
type App struct {
	config *config.Config
	router *api.Router
	server *http.Server
}

// repositories groups the persistence layer the wiring selects.
type repositories struct {
	orders        order.Repository
	products      catalog.ProductRepository
	extras        catalog.ExtraRepository
	productExtras catalog.ProductExtraRepository
	accounts      loyalty.AccountRepository
	transactions  loyalty.TransactionRepository
	rewards       loyalty.RewardRepository
	uowFactory    shared.UnitOfWorkFactory
	sqlDB         *sql.DB
}

// NewApp loads configuration, initializes logging and wires the application.
func NewApp(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	repos, err := buildRepositories(cfg)
	if err != nil {
		return nil, err
	}

	ledger := stock.NewLedger(repos.products, repos.extras)

	loyaltyService := loyaltyapp.NewService(
		repos.accounts, repos.transactions, repos.rewards, repos.uowFactory, logger.Get())
	orderService := orderapp.NewService(
		repos.orders, repos.products, repos.extras, repos.productExtras,
		ledger, loyaltyService, repos.uowFactory, logger.Get())
	stockService := stockapp.NewService(
		repos.products, repos.extras, ledger, repos.uowFactory, logger.Get())

	healthController := health.NewController(cfg, repos.sqlDB)
	orderController := orderctrl.NewController(orderService)
	loyaltyController := loyaltyctrl.NewController(loyaltyService)
	stockController := stockctrl.NewController(stockService)

	router := api.NewRouter(cfg, healthController, orderController, loyaltyController, stockController)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &App{
		config: cfg,
		router: router,
		server: server,
	}, nil
}

// buildRepositories selects the persistence layer by database type: "mysql"
// connects with GORM, anything else runs on the seeded in-memory stores.
func buildRepositories(cfg *config.Config) (*repositories, error) {
	if cfg.Database.Type == "mysql" {
		dbConfig := &mysql.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			Username:        cfg.Database.Username,
			Password:        cfg.Database.Password,
			Database:        cfg.Database.Database,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			LogLevel:        cfg.Log.Level,
		}
		db, err := dbConfig.Connect()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mysql: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}

		return &repositories{
			orders:        mysql.NewOrderRepository(db),
			products:      mysql.NewProductRepository(db),
			extras:        mysql.NewExtraRepository(db),
			productExtras: mysql.NewProductExtraRepository(db),
			accounts:      mysql.NewAccountRepository(db),
			transactions:  mysql.NewTransactionRepository(db),
			rewards:       mysql.NewRewardRepository(db),
			uowFactory:    mysql.NewUnitOfWorkFactory(db, retry.FromAppConfig(cfg)),
			sqlDB:         sqlDB,
		}, nil
	}

	logger.Info("Using in-memory persistence layer",
		zap.String("database_type", cfg.Database.Type))

	products := memory.NewProductRepository()
	extras := memory.NewExtraRepository()
	productExtras := memory.NewProductExtraRepository()
	rewards := memory.NewRewardRepository()
	memory.SeedDemoData(products, extras, productExtras, rewards)

	outbox := memory.NewOutboxRepository()
	return &repositories{
		orders:        memory.NewOrderRepository(),
		products:      products,
		extras:        extras,
		productExtras: productExtras,
		accounts:      memory.NewAccountRepository(),
		transactions:  memory.NewTransactionRepository(),
		rewards:       rewards,
		uowFactory:    memory.NewUnitOfWorkFactory(outbox),
	}, nil
}

// Run starts the server and blocks until shutdown completes.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			zap.String("addr", a.server.Addr),
			zap.String("env", a.config.App.Env))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigCh:
		logger.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	_ = logger.Sync()
	return nil
}

// GetEngine returns the gin engine for tests.
func (a *App) GetEngine() http.Handler {
	return a.router.GetEngine()
}
