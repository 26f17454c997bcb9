package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"StockFuse/internal/domain/models"
	"StockFuse/internal/usecase"
	pkgcache "StockFuse/pkg/cache"
	xhttp "StockFuse/pkg/http"
	xlogger "StockFuse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketHandler implements Echo-based HTTP handlers for the fused market
// data API.
type MarketHandler struct {
	logger   *xlogger.Logger
	fusion   *usecase.FusionCoordinator
	cache    pkgcache.Service
	cacheTTL time.Duration
}

func NewMarketHandler(logger *xlogger.Logger, fusion *usecase.FusionCoordinator, cache pkgcache.Service, cacheTTL time.Duration) *MarketHandler {
	return &MarketHandler{logger: logger, fusion: fusion, cache: cache, cacheTTL: cacheTTL}
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api")
	g.GET("/instruments", h.Instruments)
	g.GET("/prices/:symbol", h.Prices)
	g.GET("/fundamentals/:symbol", h.Fundamentals)
	g.GET("/dashboard/:symbol", h.Dashboard)
}

func (h *MarketHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *MarketHandler) Instruments(c echo.Context) error {
	symbols, err := h.fusion.Instruments(c.Request().Context())
	if err != nil {
		h.logger.Error("instruments usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, faultToAppError(err))
	}
	return xhttp.SuccessResponse(c, map[string][]string{"instruments": symbols})
}

func (h *MarketHandler) Prices(c echo.Context) error {
	req := &models.PricesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := normalizeSymbol(c.Param("symbol"))

	series, err := h.fusion.Prices(c.Request().Context(), symbol)
	if err != nil {
		h.logger.Error("prices usecase error", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, faultToAppError(err))
	}

	if req.Limit > 0 && len(series.Bars) > req.Limit {
		series.Bars = series.Bars[len(series.Bars)-req.Limit:]
	}
	return xhttp.SuccessResponse(c, series)
}

func (h *MarketHandler) Fundamentals(c echo.Context) error {
	symbol := normalizeSymbol(c.Param("symbol"))

	snap, err := h.fusion.Fundamentals(c.Request().Context(), symbol)
	if err != nil {
		h.logger.Error("fundamentals usecase error", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, faultToAppError(err))
	}
	return xhttp.SuccessResponse(c, snap)
}

func (h *MarketHandler) Dashboard(c echo.Context) error {
	req := &models.DashboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := normalizeSymbol(c.Param("symbol"))
	ctx := c.Request().Context()

	cacheKey := fmt.Sprintf("dashboard:%s:%d", symbol, req.Period)
	if h.cache != nil {
		var cached models.FusedView
		if err := h.cache.Get(ctx, cacheKey, &cached); err == nil {
			return xhttp.SuccessResponse(c, &cached)
		}
	}

	view, err := h.fusion.Fuse(ctx, symbol, req.Period)
	if err != nil {
		h.logger.Error("dashboard usecase error", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, faultToAppError(err))
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, cacheKey, view, h.cacheTTL); err != nil {
			h.logger.Warn("dashboard cache set failed", xlogger.Error(err))
		}
	}
	return xhttp.SuccessResponse(c, view)
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// faultToAppError maps domain faults onto transport errors. NotFound stays
// permanent (404); everything else is retryable (503). Unavailability keeps
// the failed path in the params so callers can tell price from fundamentals.
func faultToAppError(err error) error {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	f, ok := models.AsFault(err)
	if !ok {
		return xhttp.InternalError("internal error").WithError(err)
	}
	switch f.Kind {
	case models.KindNotFound:
		return xhttp.NotFoundError(f.Msg).WithError(err)
	case models.KindNotReady:
		return xhttp.UnavailableError(f.Msg).WithError(err)
	case models.KindUpstreamUnavailable, models.KindMalformedPayload:
		return xhttp.UnavailableError(f.Msg).WithParam("path", string(f.Path)).WithError(err)
	default:
		return xhttp.InternalError(f.Msg).WithError(err)
	}
}
