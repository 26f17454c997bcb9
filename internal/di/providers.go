package di

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"StockFuse/internal/domain/repository"
	"StockFuse/internal/handler/api"
	"StockFuse/internal/handler/ws"
	internalrepo "StockFuse/internal/repository"
	"StockFuse/internal/service/alphavantage"
	"StockFuse/internal/service/synthetic"
	"StockFuse/internal/store"
	"StockFuse/internal/usecase"
	pkgcache "StockFuse/pkg/cache"
	"StockFuse/pkg/config"
	xhttp "StockFuse/pkg/http"
	pkgkafka "StockFuse/pkg/kafka"
	applogger "StockFuse/pkg/logger"
	"StockFuse/pkg/metrics"
	"StockFuse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSeriesStore creates the bounded per-instrument series store.
func ProvideSeriesStore(cfg *config.Config) *store.SeriesStore {
	return store.NewSeriesStore(cfg.Instruments, cfg.Prices.MaxBars)
}

// ProvideFundamentalsStore creates the fundamentals snapshot store.
func ProvideFundamentalsStore(cfg *config.Config) *store.FundamentalsStore {
	return store.NewFundamentalsStore(cfg.Instruments)
}

// ProvideSyntheticGenerator creates the fallback data generator.
func ProvideSyntheticGenerator(cfg *config.Config) *synthetic.Generator {
	interval := time.Duration(cfg.Prices.IntervalMinutes) * time.Minute
	return synthetic.New(interval, time.Now().UnixNano())
}

// ProvideAlphaVantage creates the Alpha Vantage client. With an empty API key
// the client reports itself disabled and the pollers run fully synthetic.
func ProvideAlphaVantage(cfg *config.Config) *alphavantage.Client {
	return alphavantage.New(
		cfg.AlphaVantage.APIKey,
		cfg.AlphaVantage.BaseURL,
		cfg.Prices.IntervalMinutes,
		cfg.Prices.FetchTimeout,
	)
}

// ProvideBarPublisher creates the Kafka bar publisher, or nil when
// publishing is disabled.
func ProvideBarPublisher(cfg *config.Config) (repository.BarPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaBarPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideCache creates the fused view cache backend.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	if cfg.Cache.Backend == "redis" {
		host, portStr, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
		if err != nil {
			return nil, fmt.Errorf("cache.redis.addr: %w", err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("cache.redis.addr port: %w", err)
		}
		return pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(host),
			pkgcache.WithRedisPort(port),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		)
	}
	return pkgcache.NewMemoryCache(), nil
}

// ProvidePricePoller creates the background price poller. In remote fusion
// mode the local store is not served, so there is nothing to poll.
func ProvidePricePoller(
	cfg *config.Config,
	st *store.SeriesStore,
	source repository.BarSource,
	synth *synthetic.Generator,
	pub repository.BarPublisher,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.PricePoller {
	if cfg.Fusion.Mode != "local" {
		return nil
	}
	return usecase.NewPricePoller(st, source, synth, pub, m, log,
		cfg.Prices.PollInterval, cfg.Prices.FetchTimeout)
}

// ProvideFundamentalsRefresher creates the background fundamentals refresher.
func ProvideFundamentalsRefresher(
	cfg *config.Config,
	st *store.FundamentalsStore,
	source repository.FundamentalsSource,
	synth *synthetic.Generator,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.FundamentalsRefresher {
	if cfg.Fusion.Mode != "local" {
		return nil
	}
	return usecase.NewFundamentalsRefresher(st, cfg.Instruments, source, synth, m, log,
		cfg.Fundamentals.RefreshInterval, cfg.Fundamentals.FetchTimeout)
}

// ProvidePriceProvider selects the fusion price path by mode.
func ProvidePriceProvider(cfg *config.Config, st *store.SeriesStore) repository.PriceProvider {
	if cfg.Fusion.Mode == "remote" {
		return internalrepo.NewRemotePriceProvider(cfg.Fusion.PriceURL, cfg.Fusion.RequestTimeout)
	}
	return internalrepo.NewLocalPriceProvider(st, cfg.Prices.IntervalMinutes)
}

// ProvideFundamentalsProvider selects the fusion fundamentals path by mode.
func ProvideFundamentalsProvider(cfg *config.Config, st *store.FundamentalsStore) repository.FundamentalsProvider {
	if cfg.Fusion.Mode == "remote" {
		return internalrepo.NewRemoteFundamentalsProvider(cfg.Fusion.FundamentalsURL, cfg.Fusion.RequestTimeout)
	}
	return internalrepo.NewLocalFundamentalsProvider(st)
}

// ProvideFusionCoordinator creates the read-combine coordinator.
func ProvideFusionCoordinator(
	cfg *config.Config,
	prices repository.PriceProvider,
	funds repository.FundamentalsProvider,
) *usecase.FusionCoordinator {
	return usecase.NewFusionCoordinator(prices, funds, cfg.Freshness.MaxAge)
}

// ProvideHTTPHandler assembles the REST and websocket handlers.
func ProvideHTTPHandler(
	cfg *config.Config,
	log *applogger.Logger,
	fusion *usecase.FusionCoordinator,
	cache pkgcache.Service,
) xhttp.Handler {
	return xhttp.Handlers{
		api.NewMarketHandler(log, fusion, cache, cfg.Cache.TTL),
		ws.NewStreamHandler(log, fusion, cfg.Prices.PollInterval),
	}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	poller *usecase.PricePoller,
	refresher *usecase.FundamentalsRefresher,
	handler xhttp.Handler,
	cache pkgcache.Service,
	publisher repository.BarPublisher,
) *server.App {
	return server.New(cfg, log, poller, refresher, handler, cache, publisher)
}
