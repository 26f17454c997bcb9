package usecase

import (
	"context"
	"time"

	"StockFuse/internal/analysis"
	"StockFuse/internal/domain/models"
	drepo "StockFuse/internal/domain/repository"
	"StockFuse/internal/store"
)

// FusionCoordinator assembles one fused view per request: price series,
// fundamentals, indicator series and the freshness flag. It is a pure
// read-combine over the two provider paths; it never writes and never waits
// on an in-flight refresh. The price and fundamentals paths are read
// independently and may reflect different refresh epochs; that drift is an
// accepted property of fusing independently refreshed sources.
type FusionCoordinator struct {
	prices drepo.PriceProvider
	funds  drepo.FundamentalsProvider
	maxAge time.Duration
	now    func() time.Time
}

func NewFusionCoordinator(prices drepo.PriceProvider, funds drepo.FundamentalsProvider, maxAge time.Duration) *FusionCoordinator {
	return &FusionCoordinator{prices: prices, funds: funds, maxAge: maxAge, now: time.Now}
}

// Instruments returns the tracked set from the price path.
func (c *FusionCoordinator) Instruments(ctx context.Context) ([]string, error) {
	return c.prices.Instruments(ctx)
}

// Prices returns the committed series for one instrument from the price path.
func (c *FusionCoordinator) Prices(ctx context.Context, symbol string) (*models.PriceSeries, error) {
	return c.prices.Prices(ctx, symbol)
}

// Fundamentals returns the committed snapshot from the fundamentals path.
func (c *FusionCoordinator) Fundamentals(ctx context.Context, symbol string) (*models.FundamentalsSnapshot, error) {
	return c.funds.Fundamentals(ctx, symbol)
}

// Fuse builds the fused view for one instrument with an SMA of the given
// period. Provider failures pass through untouched so the transport layer can
// report which path failed; a price-path failure is never masked by the
// fundamentals path or vice versa.
func (c *FusionCoordinator) Fuse(ctx context.Context, symbol string, period int) (*models.FusedView, error) {
	series, err := c.prices.Prices(ctx, symbol)
	if err != nil {
		return nil, err
	}

	// Defensive re-sort; remote providers make no ordering promise.
	bars := make([]models.Bar, len(series.Bars))
	copy(bars, series.Bars)
	store.SortBars(bars)

	indicators := analysis.MovingAverage(bars, period)
	recent := analysis.IsRecent(bars, c.maxAge, c.now())

	snap, err := c.funds.Fundamentals(ctx, symbol)
	if err != nil {
		return nil, err
	}

	return &models.FusedView{
		Symbol:       symbol,
		Fundamentals: snap,
		PriceSeries:  bars,
		Indicators:   indicators,
		Metadata: models.FusedMeta{
			IntervalMinutes: series.IntervalMinutes,
			IsRecent:        recent,
		},
	}, nil
}
