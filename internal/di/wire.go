//go:build wireinject
// +build wireinject

package di

import (
	"StockFuse/internal/domain/repository"
	"StockFuse/internal/service/alphavantage"
	"StockFuse/pkg/config"
	"StockFuse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Stores and sources
		ProvideSeriesStore,
		ProvideFundamentalsStore,
		ProvideSyntheticGenerator,
		ProvideAlphaVantage,
		wire.Bind(new(repository.BarSource), new(*alphavantage.Client)),
		wire.Bind(new(repository.FundamentalsSource), new(*alphavantage.Client)),

		// Infrastructure clients
		ProvideBarPublisher,
		ProvideCache,

		// Background use cases
		ProvidePricePoller,
		ProvideFundamentalsRefresher,

		// Fusion read path
		ProvidePriceProvider,
		ProvideFundamentalsProvider,
		ProvideFusionCoordinator,

		// Transport
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
