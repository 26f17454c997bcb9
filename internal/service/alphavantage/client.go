package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"StockFuse/internal/domain/models"
	xhttp "StockFuse/pkg/http"
	"StockFuse/pkg/util"
)

const defaultBaseURL = "https://www.alphavantage.co"

// Client fetches intraday candles and company overviews from Alpha Vantage.
// An empty API key is a valid configuration: Enabled reports false and every
// poll cycle routes to the synthetic fallback instead.
type Client struct {
	apiKey          string
	baseURL         string
	intervalMinutes int
	http            *xhttp.Client
}

// New creates a client. timeout bounds each outbound call and should stay
// strictly below the poll interval so one slow symbol cannot starve a cycle.
func New(apiKey, baseURL string, intervalMinutes int, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:          apiKey,
		baseURL:         strings.TrimRight(baseURL, "/"),
		intervalMinutes: intervalMinutes,
		http:            xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// FetchBars retrieves the intraday series for symbol. The payload keys bars by
// timestamp under a "Time Series (5min)"-style key whose exact name depends on
// the interval, so the key is discovered by prefix.
func (c *Client) FetchBars(ctx context.Context, symbol string) ([]models.Bar, error) {
	var payload map[string]json.RawMessage
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/query",
		QueryParams: map[string][]string{
			"function":   {"TIME_SERIES_INTRADAY"},
			"symbol":     {symbol},
			"interval":   {fmt.Sprintf("%dmin", c.intervalMinutes)},
			"outputsize": {"compact"},
			"apikey":     {c.apiKey},
		},
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("intraday %s: %w", symbol, err)
	}

	var raw json.RawMessage
	for k, v := range payload {
		if strings.Contains(k, "Time Series") {
			raw = v
			break
		}
	}
	if raw == nil {
		return nil, models.Malformed(models.PathPrice, fmt.Sprintf("no time series key for %s", symbol))
	}

	var series map[string]struct {
		Open   string `json:"1. open"`
		High   string `json:"2. high"`
		Low    string `json:"3. low"`
		Close  string `json:"4. close"`
		Volume string `json:"5. volume"`
	}
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, models.Malformed(models.PathPrice, err.Error())
	}
	if len(series) == 0 {
		return nil, models.Malformed(models.PathPrice, fmt.Sprintf("empty series for %s", symbol))
	}

	bars := make([]models.Bar, 0, len(series))
	for ts, v := range series {
		open, err1 := strconv.ParseFloat(v.Open, 64)
		high, err2 := strconv.ParseFloat(v.High, 64)
		low, err3 := strconv.ParseFloat(v.Low, 64)
		cl, err4 := strconv.ParseFloat(v.Close, 64)
		vol, err5 := strconv.ParseFloat(v.Volume, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			return nil, models.Malformed(models.PathPrice, fmt.Sprintf("non-numeric bar at %s", ts))
		}
		bars = append(bars, models.Bar{
			Timestamp: normalizeTimestamp(ts),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     cl,
			Volume:    int64(vol),
		})
	}
	return bars, nil
}

// FetchFundamentals retrieves the company overview for symbol. Numeric fields
// arrive as strings and are parsed per-field: "None", "-" and "" become
// absent, anything else unparsable becomes malformed. A fetch never fails just
// because one field is bad; partial data beats no data.
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) (*models.FundamentalsSnapshot, error) {
	var payload struct {
		Symbol     string `json:"Symbol"`
		PERatio    string `json:"PERatio"`
		MarketCap  string `json:"MarketCapitalization"`
		Week52High string `json:"52WeekHigh"`
		Week52Low  string `json:"52WeekLow"`
	}
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/query",
		QueryParams: map[string][]string{
			"function": {"OVERVIEW"},
			"symbol":   {symbol},
			"apikey":   {c.apiKey},
		},
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("overview %s: %w", symbol, err)
	}
	if payload.Symbol == "" {
		return nil, models.Malformed(models.PathFundamentals, fmt.Sprintf("no overview for %s", symbol))
	}

	return &models.FundamentalsSnapshot{
		Symbol:     symbol,
		PERatio:    parseFloatField(payload.PERatio),
		MarketCap:  parseIntField(payload.MarketCap),
		Week52High: parseFloatField(payload.Week52High),
		Week52Low:  parseFloatField(payload.Week52Low),
		UpdatedAt:  util.FormatBarTime(time.Now()),
	}, nil
}

func fieldAbsent(s string) bool {
	return s == "" || s == "None" || s == "-"
}

func parseFloatField(s string) models.OptFloat {
	if fieldAbsent(s) {
		return models.OptFloat{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return models.OptFloat{State: models.FieldMalformed}
	}
	return models.Float(v)
}

func parseIntField(s string) models.OptInt {
	if fieldAbsent(s) {
		return models.OptInt{}
	}
	// Market caps occasionally arrive in scientific notation.
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return models.OptInt{State: models.FieldMalformed}
	}
	return models.Int(int64(v))
}

// normalizeTimestamp keeps the upstream's "2006-01-02 15:04:05" form when it
// parses and rewrites it to the store's RFC3339 "Z" form.
func normalizeTimestamp(ts string) string {
	if t, ok := util.ParseBarTime(ts); ok {
		return util.FormatBarTime(t)
	}
	return ts
}
