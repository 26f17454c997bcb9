package repository

import (
	"context"

	"StockFuse/internal/domain/models"
)

// BarSource is the primary intraday price upstream. Enabled reports whether
// the source is configured at all; an unconfigured source routes every poll
// cycle to the synthetic fallback.
type BarSource interface {
	Enabled() bool
	FetchBars(ctx context.Context, symbol string) ([]models.Bar, error)
}

// FundamentalsSource is the company-overview upstream.
type FundamentalsSource interface {
	Enabled() bool
	FetchFundamentals(ctx context.Context, symbol string) (*models.FundamentalsSnapshot, error)
}

// PriceProvider serves the fusion coordinator's price path. Local wiring reads
// the in-process series store; remote wiring calls a price service over HTTP.
type PriceProvider interface {
	Instruments(ctx context.Context) ([]string, error)
	Prices(ctx context.Context, symbol string) (*models.PriceSeries, error)
}

// FundamentalsProvider serves the fusion coordinator's fundamentals path.
type FundamentalsProvider interface {
	Fundamentals(ctx context.Context, symbol string) (*models.FundamentalsSnapshot, error)
}

// BarPublisher emits committed bars to an external broker. Optional; nil when
// publishing is disabled.
type BarPublisher interface {
	PublishBar(ctx context.Context, symbol string, bar models.Bar) error
	Close() error
}

type Metrics interface {
	RecordRefresh(path, source, symbol string)
	RecordError(kind string)
	RecordLastClose(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
