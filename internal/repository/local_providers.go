package repository

import (
	"context"

	"StockFuse/internal/domain/models"
	"StockFuse/internal/store"
)

// LocalPriceProvider serves the fusion price path straight from the
// in-process series store. Reads see only committed snapshots, so this path
// is never "unavailable"; its failure modes are NotFound (untracked) and
// NotReady (tracked, poller has not committed yet).
type LocalPriceProvider struct {
	store           *store.SeriesStore
	intervalMinutes int
}

func NewLocalPriceProvider(st *store.SeriesStore, intervalMinutes int) *LocalPriceProvider {
	return &LocalPriceProvider{store: st, intervalMinutes: intervalMinutes}
}

func (p *LocalPriceProvider) Instruments(_ context.Context) ([]string, error) {
	return p.store.Symbols(), nil
}

func (p *LocalPriceProvider) Prices(_ context.Context, symbol string) (*models.PriceSeries, error) {
	if !p.store.Tracked(symbol) {
		return nil, models.NotFound(symbol)
	}
	bars := p.store.Snapshot(symbol)
	if len(bars) == 0 {
		return nil, models.NotReady(symbol)
	}
	return &models.PriceSeries{
		Symbol:          symbol,
		IntervalMinutes: p.intervalMinutes,
		Bars:            bars,
	}, nil
}

// LocalFundamentalsProvider serves the fusion fundamentals path from the
// in-process fundamentals store, translating its tri-state into the fault
// taxonomy.
type LocalFundamentalsProvider struct {
	store *store.FundamentalsStore
}

func NewLocalFundamentalsProvider(st *store.FundamentalsStore) *LocalFundamentalsProvider {
	return &LocalFundamentalsProvider{store: st}
}

func (p *LocalFundamentalsProvider) Fundamentals(_ context.Context, symbol string) (*models.FundamentalsSnapshot, error) {
	snap, state := p.store.Lookup(symbol)
	switch state {
	case store.SnapshotPresent:
		return snap, nil
	case store.SnapshotPending:
		return nil, models.NotReady(symbol)
	default:
		return nil, models.NotFound(symbol)
	}
}
