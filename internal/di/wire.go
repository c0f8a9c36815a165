//go:build wireinject
// +build wireinject

package di

import (
	"SMCAlert/pkg/config"
	"SMCAlert/pkg/server"

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
		ProvideRedisCache,
		ProvideCacheService,

		// Repositories
		ProvideTickStorage,
		ProvideTickPublisher,
		ProvideQuotesStream,
		ProvideCandleStore,

		// Ingest use cases
		ProvideTickProcessor,
		ProvideTickCollector,
		ProvideKafkaTicksHandler,

		// Analysis use cases
		ProvideAnalyzer,
		ProvideAnalysisUseCase,
		ProvideCandlesUseCase,
		ProvideWatchlistUseCase,
		ProvideSentimentUseCase,

		// Notifications and scheduling
		ProvideNotifyQueue,
		ProvideAlertNotifier,
		ProvideScheduler,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
