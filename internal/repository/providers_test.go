package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"StockFuse/internal/domain/models"
	"StockFuse/internal/store"
)

func TestLocalPriceProviderFaults(t *testing.T) {
	st := store.NewSeriesStore([]string{"AAPL"}, 200)
	p := NewLocalPriceProvider(st, 5)
	ctx := context.Background()

	_, err := p.Prices(ctx, "ZZZZ")
	if f, ok := models.AsFault(err); !ok || f.Kind != models.KindNotFound {
		t.Fatalf("untracked symbol must be not_found, got %v", err)
	}

	_, err = p.Prices(ctx, "AAPL")
	if f, ok := models.AsFault(err); !ok || f.Kind != models.KindNotReady {
		t.Fatalf("tracked empty symbol must be not_ready, got %v", err)
	}

	st.Replace("AAPL", []models.Bar{{Timestamp: "2024-06-03T14:30:00Z", Close: 10}})
	series, err := p.Prices(ctx, "AAPL")
	if err != nil {
		t.Fatalf("prices: %v", err)
	}
	if series.IntervalMinutes != 5 || len(series.Bars) != 1 {
		t.Fatalf("unexpected series %+v", series)
	}
}

func TestLocalFundamentalsProviderTriState(t *testing.T) {
	st := store.NewFundamentalsStore([]string{"AAPL"})
	p := NewLocalFundamentalsProvider(st)
	ctx := context.Background()

	_, err := p.Fundamentals(ctx, "ZZZZ")
	if f, ok := models.AsFault(err); !ok || f.Kind != models.KindNotFound {
		t.Fatalf("unknown symbol must be not_found, got %v", err)
	}

	_, err = p.Fundamentals(ctx, "AAPL")
	if f, ok := models.AsFault(err); !ok || f.Kind != models.KindNotReady {
		t.Fatalf("pending symbol must be not_ready, got %v", err)
	}

	st.Put("AAPL", &models.FundamentalsSnapshot{Symbol: "AAPL", PERatio: models.Float(30)})
	snap, err := p.Fundamentals(ctx, "AAPL")
	if err != nil || snap.PERatio.Value != 30 {
		t.Fatalf("present snapshot expected, got %+v, %v", snap, err)
	}
}

func TestRemotePriceProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/instruments":
			w.Write([]byte(`{"status":200,"message":"OK","data":{"instruments":["AAPL","MSFT"]}}`))
		case "/api/prices/AAPL":
			w.Write([]byte(`{"status":200,"message":"OK","data":{"symbol":"AAPL","interval_minutes":5,"bars":[{"timestamp":"2024-06-03T14:30:00Z","open":10,"high":11,"low":9,"close":10.5,"volume":100}]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := NewRemotePriceProvider(srv.URL, time.Second)
	ctx := context.Background()

	symbols, err := p.Instruments(ctx)
	if err != nil || len(symbols) != 2 {
		t.Fatalf("instruments: %v %v", symbols, err)
	}

	series, err := p.Prices(ctx, "AAPL")
	if err != nil {
		t.Fatalf("prices: %v", err)
	}
	if series.Symbol != "AAPL" || len(series.Bars) != 1 || series.Bars[0].Close != 10.5 {
		t.Fatalf("unexpected series %+v", series)
	}

	// Any upstream failure maps to price-path unavailability.
	_, err = p.Prices(ctx, "MSFT")
	f, ok := models.AsFault(err)
	if !ok || f.Kind != models.KindUpstreamUnavailable || f.Path != models.PathPrice {
		t.Fatalf("expected price-path unavailability, got %v", err)
	}
}

func TestRemotePriceProviderConnectionRefused(t *testing.T) {
	p := NewRemotePriceProvider("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := p.Prices(context.Background(), "AAPL")
	f, ok := models.AsFault(err)
	if !ok || f.Kind != models.KindUpstreamUnavailable || f.Path != models.PathPrice {
		t.Fatalf("expected price-path unavailability, got %v", err)
	}
}

func TestRemoteFundamentalsProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/fundamentals/AAPL" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":200,"message":"OK","data":{"symbol":"AAPL","pe_ratio":30.5,"market_cap":3000000000000,"week52_high":null,"week52_low":null,"updated_at":"2024-06-03T14:00:00Z"}}`))
	}))
	defer srv.Close()

	p := NewRemoteFundamentalsProvider(srv.URL, time.Second)
	snap, err := p.Fundamentals(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("fundamentals: %v", err)
	}
	if snap.PERatio.State != models.FieldPresent || snap.PERatio.Value != 30.5 {
		t.Fatalf("pe_ratio: %+v", snap.PERatio)
	}
	if snap.Week52High.State != models.FieldAbsent {
		t.Fatalf("null field must unmarshal as absent, got %+v", snap.Week52High)
	}

	_, err = p.Fundamentals(context.Background(), "MSFT")
	f, ok := models.AsFault(err)
	if !ok || f.Path != models.PathFundamentals {
		t.Fatalf("expected fundamentals-path unavailability, got %v", err)
	}
}
