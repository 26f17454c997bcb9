package store

import (
	"strings"
	"sync"

	"StockFuse/internal/domain/models"
)

// SnapshotState is the tri-state answer for a fundamentals lookup. Unknown
// (outside the tracked set) is permanent; Pending (tracked, nothing committed
// yet) is transient; the two must never collapse into one null.
type SnapshotState int

const (
	SnapshotUnknown SnapshotState = iota
	SnapshotPending
	SnapshotPresent
)

type fundamentalsSlot struct {
	mu   sync.RWMutex
	snap *models.FundamentalsSnapshot
}

// FundamentalsStore keeps the latest fundamentals snapshot per tracked
// instrument. The refresher overwrites snapshots wholesale; readers get a
// copy of the committed value.
type FundamentalsStore struct {
	slots map[string]*fundamentalsSlot
}

// NewFundamentalsStore creates pending slots for every tracked symbol.
func NewFundamentalsStore(symbols []string) *FundamentalsStore {
	s := &FundamentalsStore{slots: make(map[string]*fundamentalsSlot, len(symbols))}
	for _, sym := range symbols {
		s.slots[strings.ToUpper(sym)] = &fundamentalsSlot{}
	}
	return s
}

// Lookup returns the committed snapshot and its state. The snapshot is a copy;
// it is nil unless the state is SnapshotPresent.
func (s *FundamentalsStore) Lookup(symbol string) (*models.FundamentalsSnapshot, SnapshotState) {
	slot, ok := s.slots[strings.ToUpper(symbol)]
	if !ok {
		return nil, SnapshotUnknown
	}
	slot.mu.RLock()
	defer slot.mu.RUnlock()
	if slot.snap == nil {
		return nil, SnapshotPending
	}
	cp := *slot.snap
	return &cp, SnapshotPresent
}

// Put commits a snapshot, replacing any previous one.
func (s *FundamentalsStore) Put(symbol string, snap *models.FundamentalsSnapshot) bool {
	slot, ok := s.slots[strings.ToUpper(symbol)]
	if !ok || snap == nil {
		return false
	}
	cp := *snap
	slot.mu.Lock()
	slot.snap = &cp
	slot.mu.Unlock()
	return true
}
