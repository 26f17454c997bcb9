package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	drepo "StockFuse/internal/domain/repository"
	"StockFuse/internal/usecase"
	pkgcache "StockFuse/pkg/cache"
	"StockFuse/pkg/config"
	xhttp "StockFuse/pkg/http"
	applogger "StockFuse/pkg/logger"
)

// App encapsulates the application lifecycle: background refresh loops, the
// HTTP server and teardown of shared clients. In remote fusion mode there is
// nothing to poll locally, so poller and refresher may be nil.
type App struct {
	cfg       *config.Config
	logger    *applogger.Logger
	poller    *usecase.PricePoller
	refresher *usecase.FundamentalsRefresher
	handler   xhttp.Handler
	cache     pkgcache.Service
	publisher drepo.BarPublisher

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	poller *usecase.PricePoller,
	refresher *usecase.FundamentalsRefresher,
	handler xhttp.Handler,
	cache pkgcache.Service,
	publisher drepo.BarPublisher,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		poller:    poller,
		refresher: refresher,
		handler:   handler,
		cache:     cache,
		publisher: publisher,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithHost(a.cfg.Server.Host),
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithRequestMetrics(a.logger, a.cfg.Server.SlowThreshold),
	)

	if a.poller != nil {
		go a.poller.Run(ctx)
		a.logger.Info("price poller started",
			applogger.Strings("symbols", a.cfg.Instruments),
			applogger.Duration("interval_ms", a.cfg.Prices.PollInterval))
	}
	if a.refresher != nil {
		go a.refresher.Run(ctx)
		a.logger.Info("fundamentals refresher started",
			applogger.Duration("interval_ms", a.cfg.Fundamentals.RefreshInterval))
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// shutdown gracefully stops the server and closes shared clients.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
