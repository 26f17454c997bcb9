package analysis

import (
	"StockFuse/internal/domain/models"
)

// MovingAverage computes a trailing simple moving average of close values.
// The result has exactly one point per input bar, positionally aligned. The
// first period-1 points carry a nil value: "not computable" is never replaced
// by a partial-window average. Non-finite closes are not special-cased; they
// propagate into every window that contains them.
//
// Each window is summed directly rather than kept as a rolling total, so a
// NaN close poisons only the windows it belongs to.
func MovingAverage(bars []models.Bar, period int) []models.IndicatorPoint {
	points := make([]models.IndicatorPoint, len(bars))
	for i, b := range bars {
		points[i].Timestamp = b.Timestamp
		if period < 1 || i+1 < period {
			continue
		}
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += bars[j].Close
		}
		v := sum / float64(period)
		points[i].SMA = &v
	}
	return points
}
