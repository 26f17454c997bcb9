package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockFuse/internal/domain/models"
	"StockFuse/internal/service/synthetic"
	"StockFuse/internal/store"
)

func newTestRefresher(t *testing.T, src *fakeFundamentalsSource, m *recordingMetrics) (*FundamentalsRefresher, *store.FundamentalsStore) {
	t.Helper()
	symbols := []string{"AAPL", "MSFT"}
	st := store.NewFundamentalsStore(symbols)
	synth := synthetic.New(testInterval, 1)
	return NewFundamentalsRefresher(st, symbols, src, synth, m, testLogger(t), time.Hour, time.Second), st
}

func TestRefresherFallsBackToBaseline(t *testing.T) {
	m := newRecordingMetrics()
	refresher, st := newTestRefresher(t, &fakeFundamentalsSource{enabled: false}, m)

	refresher.RunOnce(context.Background())

	for _, symbol := range []string{"AAPL", "MSFT"} {
		snap, state := st.Lookup(symbol)
		if state != store.SnapshotPresent {
			t.Fatalf("%s: expected snapshot present after cycle, got %v", symbol, state)
		}
		if snap.PERatio.State != models.FieldPresent {
			t.Fatalf("%s: synthetic snapshot must have all fields present", symbol)
		}
	}
	if m.refreshCount("fundamentals/synthetic") != 2 {
		t.Fatalf("expected two synthetic refreshes, got %d", m.refreshCount("fundamentals/synthetic"))
	}
}

func TestRefresherPrefersUpstream(t *testing.T) {
	snap := &models.FundamentalsSnapshot{
		Symbol:    "AAPL",
		PERatio:   models.Float(31.2),
		MarketCap: models.Int(2_900_000_000_000),
		UpdatedAt: "2024-06-03T14:00:00Z",
	}
	m := newRecordingMetrics()
	refresher, st := newTestRefresher(t, &fakeFundamentalsSource{enabled: true, snap: snap}, m)

	refresher.RunOnce(context.Background())

	got, state := st.Lookup("AAPL")
	if state != store.SnapshotPresent {
		t.Fatalf("expected snapshot present")
	}
	if got.PERatio.Value != 31.2 {
		t.Fatalf("expected upstream pe ratio, got %v", got.PERatio.Value)
	}
	if m.refreshCount("fundamentals/upstream") != 2 {
		t.Fatalf("expected two upstream refreshes, got %d", m.refreshCount("fundamentals/upstream"))
	}
}

func TestRefresherFallsBackOnError(t *testing.T) {
	m := newRecordingMetrics()
	refresher, st := newTestRefresher(t, &fakeFundamentalsSource{enabled: true, err: errors.New("rate limited")}, m)

	refresher.RunOnce(context.Background())

	if _, state := st.Lookup("AAPL"); state != store.SnapshotPresent {
		t.Fatalf("failure must fall back to baseline, got state %v", state)
	}
	if m.errorCount("fundamentals_fetch") != 2 {
		t.Fatalf("expected two fetch errors, got %d", m.errorCount("fundamentals_fetch"))
	}
}

func TestRefresherClassifiesMalformedPayload(t *testing.T) {
	src := &fakeFundamentalsSource{enabled: true, err: models.Malformed(models.PathFundamentals, "empty overview")}
	m := newRecordingMetrics()
	refresher, _ := newTestRefresher(t, src, m)

	refresher.RunOnce(context.Background())

	if m.errorCount("fundamentals_malformed") != 2 {
		t.Fatalf("expected malformed classification, got %v", m.errors)
	}
}
