package store

import (
	"testing"

	"StockFuse/internal/domain/models"
)

func snapFor(symbol string, pe float64) *models.FundamentalsSnapshot {
	return &models.FundamentalsSnapshot{
		Symbol:     symbol,
		PERatio:    models.Float(pe),
		MarketCap:  models.Int(3_000_000_000_000),
		Week52High: models.Float(220),
		Week52Low:  models.Float(150),
		UpdatedAt:  "2024-05-01T10:00:00Z",
	}
}

func TestLookupTriState(t *testing.T) {
	s := NewFundamentalsStore([]string{"AAPL"})

	if _, state := s.Lookup("TSLA"); state != SnapshotUnknown {
		t.Fatalf("untracked symbol must be Unknown, got %v", state)
	}
	if snap, state := s.Lookup("AAPL"); state != SnapshotPending || snap != nil {
		t.Fatalf("tracked-but-unseeded must be Pending with nil snapshot, got %v %v", state, snap)
	}

	s.Put("AAPL", snapFor("AAPL", 30))
	snap, state := s.Lookup("AAPL")
	if state != SnapshotPresent || snap == nil {
		t.Fatalf("expected Present, got %v", state)
	}
	if snap.PERatio.State != models.FieldPresent || snap.PERatio.Value != 30 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestPutOverwritesWholesale(t *testing.T) {
	s := NewFundamentalsStore([]string{"AAPL"})
	s.Put("AAPL", snapFor("AAPL", 30))

	// Second snapshot has an absent PE; the old value must not bleed through.
	next := snapFor("AAPL", 0)
	next.PERatio = models.OptFloat{}
	s.Put("AAPL", next)

	snap, _ := s.Lookup("AAPL")
	if snap.PERatio.State != models.FieldAbsent {
		t.Fatalf("expected absent PE after overwrite, got %+v", snap.PERatio)
	}
}

func TestPutUntrackedIgnored(t *testing.T) {
	s := NewFundamentalsStore([]string{"AAPL"})
	if s.Put("TSLA", snapFor("TSLA", 10)) {
		t.Fatalf("put for untracked symbol should be rejected")
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	s := NewFundamentalsStore([]string{"AAPL"})
	s.Put("AAPL", snapFor("AAPL", 30))

	snap, _ := s.Lookup("AAPL")
	snap.PERatio = models.Float(-1)
	again, _ := s.Lookup("AAPL")
	if again.PERatio.Value != 30 {
		t.Fatalf("lookup result mutation leaked into store")
	}
}
