package analysis

import (
	"time"

	"StockFuse/internal/domain/models"
	"StockFuse/pkg/util"
)

// IsRecent reports whether the newest bar's timestamp is within maxAge of
// now. An empty series is stale. An unparsable last timestamp is stale too:
// the flag drives user-facing staleness warnings, so parse failures must fail
// toward "stale", never toward "fresh". The age boundary is inclusive; a
// series exactly maxAge old is still fresh.
func IsRecent(bars []models.Bar, maxAge time.Duration, now time.Time) bool {
	if len(bars) == 0 {
		return false
	}
	last, ok := util.ParseBarTime(bars[len(bars)-1].Timestamp)
	if !ok {
		return false
	}
	return now.UTC().Sub(last) <= maxAge
}
