package synthetic

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"StockFuse/internal/domain/models"
	"StockFuse/pkg/util"
)

const (
	seedBars     = 20
	seedPriceMin = 150.0
	seedPriceMax = 300.0
	volumeMin    = 10_000
	volumeMax    = 50_000

	// Per-step volatility of the geometric walk.
	stepSigma = 0.004
)

// Generator produces plausible-shape market data when the real upstream is
// unavailable or unconfigured. Values are randomized so repeated fallbacks are
// visibly alive, but the shape (interval, bounds, monotonic timestamps) is
// deterministic. Fidelity is traded for availability.
type Generator struct {
	mu       sync.Mutex
	rng      *rand.Rand
	interval time.Duration
}

// New creates a generator stepping at the given bar interval. Pass a fixed
// seed in tests for reproducible walks.
func New(interval time.Duration, seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed)), interval: interval}
}

// SeedHistory builds an initial history of seedBars bars ending one interval
// before now, walking a fresh base price. Used when a series is still empty.
func (g *Generator) SeedHistory(now time.Time) []models.Bar {
	g.mu.Lock()
	defer g.mu.Unlock()

	price := seedPriceMin + g.rng.Float64()*(seedPriceMax-seedPriceMin)
	ts := now.UTC().Truncate(time.Minute).Add(-time.Duration(seedBars) * g.interval)

	bars := make([]models.Bar, 0, seedBars)
	for i := 0; i < seedBars; i++ {
		next := price * math.Exp(g.rng.NormFloat64()*stepSigma)
		bars = append(bars, g.bar(ts, price, next))
		price = next
		ts = ts.Add(g.interval)
	}
	return bars
}

// NextBar extends a non-empty series by one bar via a geometric step from the
// last close. The new timestamp is never older than or equal to the prior
// newest bar: it is the later of now (minute-truncated) and last+interval.
func (g *Generator) NextBar(last models.Bar, now time.Time) models.Bar {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := now.UTC().Truncate(time.Minute)
	if lastT, ok := util.ParseBarTime(last.Timestamp); ok {
		if floor := lastT.Add(g.interval); ts.Before(floor) {
			ts = floor
		}
	}
	next := last.Close * math.Exp(g.rng.NormFloat64()*stepSigma)
	return g.bar(ts, last.Close, next)
}

func (g *Generator) bar(ts time.Time, open, close float64) models.Bar {
	spread := math.Abs(close-open)*0.5 + close*0.0005
	return models.Bar{
		Timestamp: util.FormatBarTime(ts),
		Open:      open,
		High:      math.Max(open, close) + spread,
		Low:       math.Min(open, close) - spread,
		Close:     close,
		Volume:    int64(volumeMin + g.rng.Intn(volumeMax-volumeMin+1)),
	}
}

// fundamentalsBaseline maps a symbol to (pe, marketCap, 52w high, 52w low).
var fundamentalsBaseline = map[string][4]float64{
	"AAPL":  {30.0, 3_000_000_000_000, 220.0, 150.0},
	"MSFT":  {35.0, 2_800_000_000_000, 430.0, 280.0},
	"GOOGL": {28.0, 2_000_000_000_000, 190.0, 110.0},
}

var fundamentalsDefault = [4]float64{25.0, 1_000_000_000_000, 200.0, 100.0}

// Fundamentals returns a baseline snapshot for the symbol with small jitter,
// so repeated fallbacks are not bit-identical. All fields are present; a
// synthetic snapshot never fakes an absent field.
func (g *Generator) Fundamentals(symbol string, now time.Time) *models.FundamentalsSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	base, ok := fundamentalsBaseline[symbol]
	if !ok {
		base = fundamentalsDefault
	}
	jitter := func() float64 { return g.rng.Float64()*2 - 1 }
	return &models.FundamentalsSnapshot{
		Symbol:     symbol,
		PERatio:    models.Float(base[0] + jitter()),
		MarketCap:  models.Int(int64(base[1])),
		Week52High: models.Float(base[2] + jitter()),
		Week52Low:  models.Float(base[3] + jitter()),
		UpdatedAt:  util.FormatBarTime(now),
	}
}
