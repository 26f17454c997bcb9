package store

import (
	"fmt"
	"testing"
	"time"

	"StockFuse/internal/domain/models"
)

func barAt(t time.Time, close float64) models.Bar {
	return models.Bar{
		Timestamp: t.UTC().Format(time.RFC3339),
		Open:      close - 0.5,
		High:      close + 0.5,
		Low:       close - 1,
		Close:     close,
		Volume:    10000,
	}
}

func TestSnapshotUntrackedIsEmpty(t *testing.T) {
	s := NewSeriesStore([]string{"AAPL"}, 10)
	if got := s.Snapshot("TSLA"); len(got) != 0 {
		t.Fatalf("expected empty snapshot, got %d bars", len(got))
	}
}

func TestReplaceSortsBeforeTrimming(t *testing.T) {
	s := NewSeriesStore([]string{"AAPL"}, 3)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	// Reverse chronological input, like an upstream returning newest-first.
	var bars []models.Bar
	for i := 4; i >= 0; i-- {
		bars = append(bars, barAt(base.Add(time.Duration(i)*5*time.Minute), float64(100+i)))
	}
	if !s.Replace("AAPL", bars) {
		t.Fatalf("replace failed")
	}

	got := s.Snapshot("AAPL")
	if len(got) != 3 {
		t.Fatalf("expected trim to 3, got %d", len(got))
	}
	// Must retain the 3 most recent, ascending.
	for i, wantClose := range []float64{102, 103, 104} {
		if got[i].Close != wantClose {
			t.Fatalf("bar %d: close %v, want %v", i, got[i].Close, wantClose)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp <= got[i-1].Timestamp {
			t.Fatalf("timestamps not ascending: %s then %s", got[i-1].Timestamp, got[i].Timestamp)
		}
	}
}

func TestReplaceTrimsRegardlessOfInsertionOrder(t *testing.T) {
	const max = 5
	s := NewSeriesStore([]string{"MSFT"}, max)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	// Shuffled-ish order: even indexes first, then odd.
	var bars []models.Bar
	for i := 0; i < 12; i += 2 {
		bars = append(bars, barAt(base.Add(time.Duration(i)*time.Minute), float64(i)))
	}
	for i := 1; i < 12; i += 2 {
		bars = append(bars, barAt(base.Add(time.Duration(i)*time.Minute), float64(i)))
	}
	s.Replace("MSFT", bars)

	got := s.Snapshot("MSFT")
	if len(got) != max {
		t.Fatalf("expected %d bars, got %d", max, len(got))
	}
	for i, wantClose := range []float64{7, 8, 9, 10, 11} {
		if got[i].Close != wantClose {
			t.Fatalf("bar %d: close %v, want %v", i, got[i].Close, wantClose)
		}
	}
}

func TestAppendOneMonotonicGate(t *testing.T) {
	s := NewSeriesStore([]string{"AAPL"}, 10)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	interval := 5 * time.Minute

	if !s.AppendOne("AAPL", barAt(base, 100), interval) {
		t.Fatalf("first append should always succeed")
	}
	// Partially elapsed interval: rejected.
	if s.AppendOne("AAPL", barAt(base.Add(2*time.Minute), 101), interval) {
		t.Fatalf("append inside interval should be rejected")
	}
	// Same timestamp: rejected.
	if s.AppendOne("AAPL", barAt(base, 101), interval) {
		t.Fatalf("duplicate timestamp should be rejected")
	}
	// Exactly one interval later: accepted.
	if !s.AppendOne("AAPL", barAt(base.Add(interval), 102), interval) {
		t.Fatalf("append at interval boundary should be accepted")
	}
	got := s.Snapshot("AAPL")
	if len(got) != 2 || got[1].Close != 102 {
		t.Fatalf("unexpected series %+v", got)
	}
}

func TestAppendOneTrimsFromHead(t *testing.T) {
	const max = 4
	s := NewSeriesStore([]string{"AAPL"}, max)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 9; i++ {
		s.AppendOne("AAPL", barAt(base.Add(time.Duration(i)*5*time.Minute), float64(i)), 5*time.Minute)
	}
	got := s.Snapshot("AAPL")
	if len(got) != max {
		t.Fatalf("expected %d bars, got %d", max, len(got))
	}
	if got[0].Close != 5 || got[max-1].Close != 8 {
		t.Fatalf("expected oldest evicted first, got %+v", got)
	}
}

func TestAppendOneRejectsUnparsableTimestamp(t *testing.T) {
	s := NewSeriesStore([]string{"AAPL"}, 10)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.AppendOne("AAPL", barAt(base, 100), 5*time.Minute)

	bad := models.Bar{Timestamp: "whenever", Close: 101}
	if s.AppendOne("AAPL", bad, 5*time.Minute) {
		t.Fatalf("unparsable timestamp must not pass the gate")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewSeriesStore([]string{"AAPL"}, 10)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.Replace("AAPL", []models.Bar{barAt(base, 100)})

	snap := s.Snapshot("AAPL")
	snap[0].Close = -1
	if got := s.Snapshot("AAPL"); got[0].Close != 100 {
		t.Fatalf("snapshot mutation leaked into store")
	}
}

func TestSymbolsNormalizedAndOrdered(t *testing.T) {
	s := NewSeriesStore([]string{"aapl", "Msft", "AAPL"}, 10)
	syms := s.Symbols()
	if len(syms) != 2 || syms[0] != "AAPL" || syms[1] != "MSFT" {
		t.Fatalf("unexpected symbols %v", syms)
	}
	if !s.Tracked("msft") {
		t.Fatalf("lookup should be case-insensitive")
	}
}

func TestSortBarsUnparsableFirst(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	bars := []models.Bar{
		barAt(base.Add(5*time.Minute), 2),
		{Timestamp: "garbage", Close: -1},
		barAt(base, 1),
	}
	SortBars(bars)
	if bars[0].Timestamp != "garbage" {
		t.Fatalf("unparsable bar should sort first, got %+v", bars)
	}
	if bars[1].Close != 1 || bars[2].Close != 2 {
		t.Fatalf("parsable bars out of order: %+v", bars)
	}
}

func TestConcurrentReplaceAndSnapshot(t *testing.T) {
	s := NewSeriesStore([]string{"AAPL"}, 50)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			var bars []models.Bar
			for j := 0; j <= i%10; j++ {
				bars = append(bars, barAt(base.Add(time.Duration(j)*time.Minute), float64(j)))
			}
			s.Replace("AAPL", bars)
		}
	}()
	for i := 0; i < 200; i++ {
		snap := s.Snapshot("AAPL")
		for k := 1; k < len(snap); k++ {
			if snap[k].Timestamp < snap[k-1].Timestamp {
				t.Fatalf("observed unsorted snapshot: %+v", snap)
			}
		}
	}
	<-done
}

func TestReplaceManyInstrumentsIndependent(t *testing.T) {
	syms := []string{"A", "B", "C", "D"}
	s := NewSeriesStore(syms, 10)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, sym := range syms {
		s.Replace(sym, []models.Bar{barAt(base, float64(i))})
	}
	for i, sym := range syms {
		got := s.Snapshot(sym)
		if len(got) != 1 || got[0].Close != float64(i) {
			t.Fatalf("%s: unexpected %+v", sym, got)
		}
	}
}

func ExampleSeriesStore_Snapshot() {
	s := NewSeriesStore([]string{"AAPL"}, 200)
	s.Replace("AAPL", []models.Bar{{Timestamp: "2024-05-01T10:00:00Z", Close: 101.5}})
	fmt.Println(len(s.Snapshot("AAPL")), len(s.Snapshot("TSLA")))
	// Output: 1 0
}
