package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"StockFuse/internal/domain/models"
	"StockFuse/pkg/util"
)

// seriesSlot guards one instrument's bars. Each slot has its own lock so a
// refresh of one instrument never blocks readers of another.
type seriesSlot struct {
	mu   sync.RWMutex
	bars []models.Bar
}

// SeriesStore holds a bounded, time-ordered OHLCV series per tracked
// instrument. The poller is the only writer; readers always get a copy of the
// committed slice, never the live one.
type SeriesStore struct {
	symbols []string
	slots   map[string]*seriesSlot
	maxBars int
}

// NewSeriesStore creates empty series for every tracked symbol. The tracked
// set is fixed for the life of the process.
func NewSeriesStore(symbols []string, maxBars int) *SeriesStore {
	s := &SeriesStore{
		symbols: make([]string, 0, len(symbols)),
		slots:   make(map[string]*seriesSlot, len(symbols)),
		maxBars: maxBars,
	}
	for _, sym := range symbols {
		key := strings.ToUpper(sym)
		if _, dup := s.slots[key]; dup {
			continue
		}
		s.symbols = append(s.symbols, key)
		s.slots[key] = &seriesSlot{}
	}
	return s
}

// Symbols returns the ordered tracked set.
func (s *SeriesStore) Symbols() []string {
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out
}

// Tracked reports whether symbol belongs to the tracked set.
func (s *SeriesStore) Tracked(symbol string) bool {
	_, ok := s.slots[strings.ToUpper(symbol)]
	return ok
}

// Snapshot returns a copy of the committed series. Untracked or not-yet-seeded
// instruments yield an empty slice, not an error; the caller decides whether
// empty means not-found or not-ready.
func (s *SeriesStore) Snapshot(symbol string) []models.Bar {
	slot, ok := s.slots[strings.ToUpper(symbol)]
	if !ok {
		return nil
	}
	slot.mu.RLock()
	defer slot.mu.RUnlock()
	out := make([]models.Bar, len(slot.bars))
	copy(out, slot.bars)
	return out
}

// Replace commits a full fetched batch: sort ascending by timestamp, then keep
// only the most recent maxBars. Upstreams return unsorted or reverse
// chronological data, so the sort must happen before the trim.
func (s *SeriesStore) Replace(symbol string, bars []models.Bar) bool {
	slot, ok := s.slots[strings.ToUpper(symbol)]
	if !ok {
		return false
	}
	sorted := make([]models.Bar, len(bars))
	copy(sorted, bars)
	SortBars(sorted)
	if len(sorted) > s.maxBars {
		sorted = sorted[len(sorted)-s.maxBars:]
	}
	slot.mu.Lock()
	slot.bars = sorted
	slot.mu.Unlock()
	return true
}

// AppendOne commits a single incrementally generated bar. The bar is accepted
// only when its timestamp is at least minGap after the current newest bar;
// this gate keeps a poll cycle that races a partially elapsed interval from
// committing duplicates. Returns whether the bar was appended.
func (s *SeriesStore) AppendOne(symbol string, bar models.Bar, minGap time.Duration) bool {
	slot, ok := s.slots[strings.ToUpper(symbol)]
	if !ok {
		return false
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()

	if n := len(slot.bars); n > 0 {
		newT, okNew := util.ParseBarTime(bar.Timestamp)
		if !okNew {
			return false
		}
		if lastT, okLast := util.ParseBarTime(slot.bars[n-1].Timestamp); okLast {
			if newT.Sub(lastT) < minGap {
				return false
			}
		}
	}

	bars := append(slot.bars, bar)
	if len(bars) > s.maxBars {
		bars = bars[len(bars)-s.maxBars:]
	}
	slot.bars = bars
	return true
}

// SortBars orders bars ascending by parsed timestamp. Bars whose timestamp
// does not parse sort to the front, so a trim evicts them first.
func SortBars(bars []models.Bar) {
	keys := make(map[string]time.Time, len(bars))
	for _, b := range bars {
		if _, seen := keys[b.Timestamp]; seen {
			continue
		}
		t, _ := util.ParseBarTime(b.Timestamp)
		keys[b.Timestamp] = t
	}
	sort.SliceStable(bars, func(i, j int) bool {
		ti, tj := keys[bars[i].Timestamp], keys[bars[j].Timestamp]
		if ti.Equal(tj) {
			return bars[i].Timestamp < bars[j].Timestamp
		}
		return ti.Before(tj)
	})
}
