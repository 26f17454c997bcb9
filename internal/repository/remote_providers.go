package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"StockFuse/internal/domain/models"
	xhttp "StockFuse/pkg/http"
)

// RemotePriceProvider serves the fusion price path over HTTP against a
// standalone price service. Any transport failure, non-2xx status or
// undecodable payload is categorical for the request and surfaces as
// UpstreamUnavailable on the price path; the fundamentals path is never
// consulted about it. The client timeout is request-scoped and shorter than
// the background fetch timeouts: a user-facing request fails fast.
type RemotePriceProvider struct {
	baseURL string
	http    *xhttp.Client
}

func NewRemotePriceProvider(baseURL string, timeout time.Duration) *RemotePriceProvider {
	return &RemotePriceProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (p *RemotePriceProvider) Instruments(ctx context.Context) ([]string, error) {
	var envelope struct {
		Data struct {
			Instruments []string `json:"instruments"`
		} `json:"data"`
	}
	err := p.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.baseURL + "/api/instruments",
	}, &envelope)
	if err != nil {
		return nil, models.Unavailable(models.PathPrice, err)
	}
	return envelope.Data.Instruments, nil
}

func (p *RemotePriceProvider) Prices(ctx context.Context, symbol string) (*models.PriceSeries, error) {
	var envelope struct {
		Data models.PriceSeries `json:"data"`
	}
	err := p.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/api/prices/%s", p.baseURL, symbol),
	}, &envelope)
	if err != nil {
		return nil, models.Unavailable(models.PathPrice, err)
	}
	return &envelope.Data, nil
}

// RemoteFundamentalsProvider is the fundamentals twin of RemotePriceProvider.
type RemoteFundamentalsProvider struct {
	baseURL string
	http    *xhttp.Client
}

func NewRemoteFundamentalsProvider(baseURL string, timeout time.Duration) *RemoteFundamentalsProvider {
	return &RemoteFundamentalsProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (p *RemoteFundamentalsProvider) Fundamentals(ctx context.Context, symbol string) (*models.FundamentalsSnapshot, error) {
	var envelope struct {
		Data models.FundamentalsSnapshot `json:"data"`
	}
	err := p.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/api/fundamentals/%s", p.baseURL, symbol),
	}, &envelope)
	if err != nil {
		return nil, models.Unavailable(models.PathFundamentals, err)
	}
	return &envelope.Data, nil
}
