package usecase

import (
	"context"
	"time"

	"StockFuse/internal/domain/models"
	drepo "StockFuse/internal/domain/repository"
	"StockFuse/internal/service/synthetic"
	"StockFuse/internal/store"
	applogger "StockFuse/pkg/logger"
)

// PricePoller refreshes every tracked instrument's series once per poll
// interval. A cycle fetches a full batch from the primary source and commits
// it; any failure falls back to the synthetic generator so the store is never
// left empty. Cycles are independent: nothing a cycle does can terminate the
// loop, and one symbol's failure never blocks the rest.
type PricePoller struct {
	store        *store.SeriesStore
	source       drepo.BarSource
	synth        *synthetic.Generator
	pub          drepo.BarPublisher
	metrics      drepo.Metrics
	log          *applogger.Logger
	interval     time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
}

// NewPricePoller creates a poller. pub may be nil when publishing is disabled.
func NewPricePoller(
	st *store.SeriesStore,
	source drepo.BarSource,
	synth *synthetic.Generator,
	pub drepo.BarPublisher,
	metrics drepo.Metrics,
	log *applogger.Logger,
	interval, fetchTimeout time.Duration,
) *PricePoller {
	return &PricePoller{
		store:        st,
		source:       source,
		synth:        synth,
		pub:          pub,
		metrics:      metrics,
		log:          log,
		interval:     interval,
		fetchTimeout: fetchTimeout,
		now:          time.Now,
	}
}

// Run loops until ctx is cancelled. The loop sleeps the full interval between
// cycles regardless of how long the fetch phase took; cancellation is only
// observed at cycle boundaries.
func (p *PricePoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		p.RunOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce drives exactly one poll cycle synchronously.
func (p *PricePoller) RunOnce(ctx context.Context) {
	for _, symbol := range p.store.Symbols() {
		p.refresh(ctx, symbol)
	}
}

func (p *PricePoller) refresh(ctx context.Context, symbol string) {
	if p.source.Enabled() {
		start := p.now()
		fctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
		bars, err := p.source.FetchBars(fctx, symbol)
		cancel()
		p.metrics.RecordLatency("price_fetch", p.now().Sub(start).Seconds())

		if err == nil {
			p.store.Replace(symbol, bars)
			p.metrics.RecordRefresh("price", "upstream", symbol)
			p.commit(ctx, symbol)
			p.log.Debug("prices refreshed from upstream",
				applogger.String("symbol", symbol), applogger.Int("bars", len(bars)))
			return
		}

		kind := "price_fetch"
		if f, ok := models.AsFault(err); ok && f.Kind == models.KindMalformedPayload {
			kind = "price_malformed"
		}
		p.metrics.RecordError(kind)
		p.log.Error("price fetch failed, falling back to synthetic",
			applogger.String("symbol", symbol), applogger.Error(err))
	}

	p.simulate(ctx, symbol)
}

// simulate extends the series synthetically: a fresh 20-bar history when the
// series is empty, otherwise one new bar behind the store's monotonic gate.
func (p *PricePoller) simulate(ctx context.Context, symbol string) {
	now := p.now()
	if len(p.store.Snapshot(symbol)) == 0 {
		p.store.Replace(symbol, p.synth.SeedHistory(now))
		p.metrics.RecordRefresh("price", "synthetic", symbol)
		p.commit(ctx, symbol)
		p.log.Info("seeded synthetic history", applogger.String("symbol", symbol))
		return
	}

	bars := p.store.Snapshot(symbol)
	next := p.synth.NextBar(bars[len(bars)-1], now)
	if p.store.AppendOne(symbol, next, p.interval) {
		p.metrics.RecordRefresh("price", "synthetic", symbol)
		p.commit(ctx, symbol)
	}
}

// commit reports the newest committed bar to metrics and, when configured,
// the bar publisher. Publish failures are absorbed like any other background
// failure.
func (p *PricePoller) commit(ctx context.Context, symbol string) {
	bars := p.store.Snapshot(symbol)
	if len(bars) == 0 {
		return
	}
	last := bars[len(bars)-1]
	p.metrics.RecordLastClose(symbol, last.Close)
	if p.pub == nil {
		return
	}
	if err := p.pub.PublishBar(ctx, symbol, last); err != nil {
		p.metrics.RecordError("publish")
		p.log.Warn("bar publish failed", applogger.String("symbol", symbol), applogger.Error(err))
	}
}
