package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Bar is one OHLCV candle for a fixed time bucket. Timestamps are carried in
// the upstream wire form (RFC3339-style, usually with a trailing "Z") and are
// only parsed where ordering or freshness requires it.
type Bar struct {
	Timestamp string  `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

// PriceSeries is the price endpoint payload for one instrument.
type PriceSeries struct {
	Symbol          string `json:"symbol"`
	IntervalMinutes int    `json:"interval_minutes"`
	Bars            []Bar  `json:"bars"`
}

// IndicatorPoint is one moving-average sample, positionally aligned with the
// input bar at the same index. SMA is nil while there is insufficient history.
type IndicatorPoint struct {
	Timestamp string   `json:"timestamp"`
	SMA       *float64 `json:"sma"`
}

// FieldState distinguishes a field the upstream reported, one it omitted, and
// one it sent in a form we could not parse. Absent and malformed both render
// as null; they stay distinct in memory so callers can tell them apart.
type FieldState int

const (
	FieldAbsent FieldState = iota
	FieldPresent
	FieldMalformed
)

// OptFloat is a float64 that may be absent or malformed.
type OptFloat struct {
	Value float64
	State FieldState
}

// Float returns a present OptFloat.
func Float(v float64) OptFloat { return OptFloat{Value: v, State: FieldPresent} }

func (o OptFloat) MarshalJSON() ([]byte, error) {
	if o.State != FieldPresent {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *OptFloat) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*o = OptFloat{}
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		*o = OptFloat{State: FieldMalformed}
		return nil
	}
	*o = Float(v)
	return nil
}

// OptInt is an int64 that may be absent or malformed.
type OptInt struct {
	Value int64
	State FieldState
}

// Int returns a present OptInt.
func Int(v int64) OptInt { return OptInt{Value: v, State: FieldPresent} }

func (o OptInt) MarshalJSON() ([]byte, error) {
	if o.State != FieldPresent {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *OptInt) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*o = OptInt{}
		return nil
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		*o = OptInt{State: FieldMalformed}
		return nil
	}
	*o = Int(v)
	return nil
}

// FundamentalsSnapshot is the latest-known company fundamentals for one
// instrument. It is overwritten wholesale on every refresh, never merged.
type FundamentalsSnapshot struct {
	Symbol     string   `json:"symbol"`
	PERatio    OptFloat `json:"pe_ratio"`
	MarketCap  OptInt   `json:"market_cap"`
	Week52High OptFloat `json:"week52_high"`
	Week52Low  OptFloat `json:"week52_low"`
	UpdatedAt  string   `json:"updated_at"`
}

// FusedMeta carries per-response metadata for the fused view.
type FusedMeta struct {
	IntervalMinutes int  `json:"interval_minutes"`
	IsRecent        bool `json:"is_recent"`
}

// FusedView combines the price series, fundamentals, indicators and the
// freshness flag for one instrument. Built per request, never persisted.
type FusedView struct {
	Symbol       string                `json:"symbol"`
	Fundamentals *FundamentalsSnapshot `json:"fundamentals"`
	PriceSeries  []Bar                 `json:"price_series"`
	Indicators   []IndicatorPoint      `json:"indicators"`
	Metadata     FusedMeta             `json:"metadata"`
}
