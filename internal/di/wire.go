//go:build wireinject
// +build wireinject

package di

import (
	"BotFolio/pkg/config"
	"BotFolio/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCacheService,

		// Repositories
		ProvideSignalStore,
		ProvideBacktestStore,
		ProvideOpportunityPublisher,
		ProvideFeedStream,

		// Domain services
		ProvideAnalytics,
		ProvideScoringEngine,
		ProvideResultCache,

		// Use cases
		ProvideSignalIngestor,
		ProvideSignalCollector,
		ProvideOpportunityRanker,
		ProvideBacktestAnalyzer,
		ProvideKafkaEventsHandler,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
