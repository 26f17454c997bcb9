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

// FundamentalsRefresher is the fundamentals twin of PricePoller: same loop
// shape, longer period, different upstream. Snapshots are overwritten
// wholesale; on failure the synthetic baseline keeps every tracked instrument
// populated after the first cycle.
type FundamentalsRefresher struct {
	store        *store.FundamentalsStore
	symbols      []string
	source       drepo.FundamentalsSource
	synth        *synthetic.Generator
	metrics      drepo.Metrics
	log          *applogger.Logger
	interval     time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
}

func NewFundamentalsRefresher(
	st *store.FundamentalsStore,
	symbols []string,
	source drepo.FundamentalsSource,
	synth *synthetic.Generator,
	metrics drepo.Metrics,
	log *applogger.Logger,
	interval, fetchTimeout time.Duration,
) *FundamentalsRefresher {
	return &FundamentalsRefresher{
		store:        st,
		symbols:      symbols,
		source:       source,
		synth:        synth,
		metrics:      metrics,
		log:          log,
		interval:     interval,
		fetchTimeout: fetchTimeout,
		now:          time.Now,
	}
}

// Run loops until ctx is cancelled, one cycle per refresh interval.
func (r *FundamentalsRefresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		r.RunOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce drives exactly one refresh cycle synchronously.
func (r *FundamentalsRefresher) RunOnce(ctx context.Context) {
	for _, symbol := range r.symbols {
		r.refresh(ctx, symbol)
	}
}

func (r *FundamentalsRefresher) refresh(ctx context.Context, symbol string) {
	if r.source.Enabled() {
		start := r.now()
		fctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
		snap, err := r.source.FetchFundamentals(fctx, symbol)
		cancel()
		r.metrics.RecordLatency("fundamentals_fetch", r.now().Sub(start).Seconds())

		if err == nil {
			r.store.Put(symbol, snap)
			r.metrics.RecordRefresh("fundamentals", "upstream", symbol)
			r.log.Debug("fundamentals refreshed from upstream", applogger.String("symbol", symbol))
			return
		}

		kind := "fundamentals_fetch"
		if f, ok := models.AsFault(err); ok && f.Kind == models.KindMalformedPayload {
			kind = "fundamentals_malformed"
		}
		r.metrics.RecordError(kind)
		r.log.Error("fundamentals fetch failed, falling back to synthetic",
			applogger.String("symbol", symbol), applogger.Error(err))
	}

	r.store.Put(symbol, r.synth.Fundamentals(symbol, r.now()))
	r.metrics.RecordRefresh("fundamentals", "synthetic", symbol)
}
