//go:build wireinject
// +build wireinject

package di

import (
	"StockPulse/internal/usecase"
	"StockPulse/pkg/config"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config, l *applogger.Logger) (*server.App, func(), error) {
	wire.Build(
		// Metrics
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideResponseCache,
		ProvideDatasetPublisher,

		// Repositories and vendor clients
		ProvideBarStore,
		ProvideAlphaVantage,
		ProvideMarketSource,
		ProvideDateResolver,

		// Use cases
		ProvideLoader,
		ProvideBuilder,
		usecase.NewPreparer,
		ProvideAnalyzer,
		ProvideIngestor,
		ProvideEnricher,
		ProvideExporter,

		// Application
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil, nil
}
