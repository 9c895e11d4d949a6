// Package app wires configuration, storage, and services together.
package app

import (
	"fmt"
	"os"
	"time"

	"github.com/cambiolabs/cambio/internal/common"
	"github.com/cambiolabs/cambio/internal/interfaces"
	"github.com/cambiolabs/cambio/internal/services/balance"
	"github.com/cambiolabs/cambio/internal/services/budget"
	"github.com/cambiolabs/cambio/internal/services/rates"
	"github.com/cambiolabs/cambio/internal/storage/surrealdb"
)

// App holds all initialized services and storage. It is the shared core
// behind cmd/cambiod.
type App struct {
	Config         *common.Config
	Logger         *common.Logger
	Storage        interfaces.StorageManager
	RateService    interfaces.RateService
	BudgetService  interfaces.BudgetService
	BalanceService interfaces.BalanceService
	StartupTime    time.Time
}

// NewApp initializes configuration, logging, storage, and services.
// configPath may be empty, in which case CAMBIO_CONFIG and the default
// location are consulted.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	if configPath == "" {
		configPath = os.Getenv("CAMBIO_CONFIG")
	}
	if configPath == "" {
		configPath = "config/cambio.toml"
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	rateService := rates.NewService(storageManager.Rates(), config.Rates.Intermediates, logger)
	budgetService := budget.NewService(storageManager, logger)
	balanceService := balance.NewService(storageManager, logger)

	a := &App{
		Config:         config,
		Logger:         logger,
		Storage:        storageManager,
		RateService:    rateService,
		BudgetService:  budgetService,
		BalanceService: balanceService,
		StartupTime:    startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
