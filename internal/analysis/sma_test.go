package analysis

import (
	"math"
	"testing"
	"time"

	"StockFuse/internal/domain/models"
)

func seq(closes ...float64) []models.Bar {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{
			Timestamp: base.Add(time.Duration(i) * 5 * time.Minute).Format(time.RFC3339),
			Close:     c,
		}
	}
	return bars
}

func TestMovingAverageScenario(t *testing.T) {
	// closes 10, 12, 14 at 5-minute spacing, period 2 -> [nil, 11, 13].
	pts := MovingAverage(seq(10, 12, 14), 2)
	if len(pts) != 3 {
		t.Fatalf("expected 3 points, got %d", len(pts))
	}
	if pts[0].SMA != nil {
		t.Fatalf("point 0 should be absent, got %v", *pts[0].SMA)
	}
	if pts[1].SMA == nil || *pts[1].SMA != 11.0 {
		t.Fatalf("point 1: want 11.0, got %v", pts[1].SMA)
	}
	if pts[2].SMA == nil || *pts[2].SMA != 13.0 {
		t.Fatalf("point 2: want 13.0, got %v", pts[2].SMA)
	}
}

func TestMovingAverageAlignment(t *testing.T) {
	bars := seq(1, 2, 3, 4, 5)
	pts := MovingAverage(bars, 3)
	if len(pts) != len(bars) {
		t.Fatalf("length mismatch: %d vs %d", len(pts), len(bars))
	}
	for i := range bars {
		if pts[i].Timestamp != bars[i].Timestamp {
			t.Fatalf("point %d timestamp misaligned", i)
		}
	}
}

func TestMovingAverageAbsentPrefix(t *testing.T) {
	for _, period := range []int{1, 2, 5, 10} {
		bars := seq(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
		pts := MovingAverage(bars, period)
		for i := range pts {
			if i+1 < period {
				if pts[i].SMA != nil {
					t.Fatalf("period %d: point %d should be absent", period, i)
				}
				continue
			}
			// Exact trailing mean of the last `period` closes ending at i.
			sum := 0.0
			for j := i - period + 1; j <= i; j++ {
				sum += bars[j].Close
			}
			want := sum / float64(period)
			if pts[i].SMA == nil || *pts[i].SMA != want {
				t.Fatalf("period %d: point %d want %v got %v", period, i, want, pts[i].SMA)
			}
		}
	}
}

func TestMovingAveragePeriodLongerThanSeries(t *testing.T) {
	pts := MovingAverage(seq(1, 2, 3), 10)
	for i, p := range pts {
		if p.SMA != nil {
			t.Fatalf("point %d should be absent when period exceeds length", i)
		}
	}
}

func TestMovingAverageEmptyInput(t *testing.T) {
	if pts := MovingAverage(nil, 5); len(pts) != 0 {
		t.Fatalf("expected empty output, got %d points", len(pts))
	}
}

func TestMovingAverageNaNPropagatesOnlyInItsWindows(t *testing.T) {
	pts := MovingAverage(seq(1, math.NaN(), 3, 5, 7), 2)
	if pts[1].SMA == nil || !math.IsNaN(*pts[1].SMA) {
		t.Fatalf("window containing NaN should be NaN")
	}
	if pts[2].SMA == nil || !math.IsNaN(*pts[2].SMA) {
		t.Fatalf("window containing NaN should be NaN")
	}
	if pts[3].SMA == nil || *pts[3].SMA != 4 {
		t.Fatalf("window past the NaN should recover, got %v", pts[3].SMA)
	}
	if pts[4].SMA == nil || *pts[4].SMA != 6 {
		t.Fatalf("window past the NaN should recover, got %v", pts[4].SMA)
	}
}
