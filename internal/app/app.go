// Package app wires configuration, storage, clients, and services into one
// shared application core.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okabet/tickerscope/internal/clients/translate"
	"github.com/okabet/tickerscope/internal/clients/yahoo"
	"github.com/okabet/tickerscope/internal/common"
	"github.com/okabet/tickerscope/internal/interfaces"
	"github.com/okabet/tickerscope/internal/services/account"
	"github.com/okabet/tickerscope/internal/services/forecaster"
	"github.com/okabet/tickerscope/internal/services/pipeline"
	"github.com/okabet/tickerscope/internal/services/resolver"
	"github.com/okabet/tickerscope/internal/session"
	"github.com/okabet/tickerscope/internal/storage"
)

// App holds all initialized services, clients, and shared state.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Storage         interfaces.StorageManager
	MarketClient    interfaces.MarketDataClient
	Translator      interfaces.TranslationClient
	ResolverService interfaces.ResolverService
	ForecastService interfaces.ForecastService
	AccountService  interfaces.AccountService
	PipelineService interfaces.PipelineService
	Sessions        *session.Registry
	StartupTime     time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients, and services.
// configPath may be empty, in which case TICKERSCOPE_CONFIG, the binary
// directory, and a development fallback are tried in order.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()
	if configPath == "" {
		configPath = os.Getenv("TICKERSCOPE_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "tickerscope.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/tickerscope.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	marketClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithUserAgent(config.Clients.Yahoo.UserAgent),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithLogger(logger),
	)

	translator := translate.NewClient(
		translate.WithBaseURL(config.Clients.Translate.BaseURL),
		translate.WithTimeout(config.Clients.Translate.GetTimeout()),
		translate.WithLogger(logger),
	)

	sessions := session.NewRegistry()

	resolverService := resolver.NewService(marketClient, translator, logger)
	forecastService := forecaster.NewService(marketClient, logger)
	accountService := account.NewService(storageManager, sessions, logger)
	pipelineService := pipeline.NewService(resolverService, forecastService, storageManager, sessions, logger)

	logger.Info().
		Str("environment", config.Environment).
		Str("storage_driver", config.Storage.Driver).
		Dur("startup", time.Since(startupStart)).
		Msg("Application initialized")

	return &App{
		Config:          config,
		Logger:          logger,
		Storage:         storageManager,
		MarketClient:    marketClient,
		Translator:      translator,
		ResolverService: resolverService,
		ForecastService: forecastService,
		AccountService:  accountService,
		PipelineService: pipelineService,
		Sessions:        sessions,
		StartupTime:     time.Now(),
	}, nil
}

// Close releases application resources.
func (a *App) Close() error {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
			return err
		}
	}
	return nil
}
