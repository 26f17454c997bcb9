package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"StockFuse/internal/domain/models"
	"StockFuse/internal/usecase"
	xlogger "StockFuse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// StreamHandler pushes newly committed bars to websocket clients. It polls
// the committed snapshot rather than hooking into the poller, so it sees
// exactly what the REST API would and works in remote fusion mode too.
type StreamHandler struct {
	logger   *xlogger.Logger
	fusion   *usecase.FusionCoordinator
	interval time.Duration
	upgrader websocket.Upgrader
}

func NewStreamHandler(logger *xlogger.Logger, fusion *usecase.FusionCoordinator, interval time.Duration) *StreamHandler {
	return &StreamHandler{
		logger:   logger,
		fusion:   fusion,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *StreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/stream/:symbol", h.Stream)
}

type barMessage struct {
	Symbol string     `json:"symbol"`
	Bar    models.Bar `json:"bar"`
}

func (h *StreamHandler) Stream(c echo.Context) error {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))

	// Reject unknown instruments before upgrading.
	if _, err := h.fusion.Prices(c.Request().Context(), symbol); err != nil {
		if f, ok := models.AsFault(err); ok && f.Kind == models.KindNotFound {
			return echo.NewHTTPError(http.StatusNotFound, f.Msg)
		}
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// Reader goroutine: drains control frames and detects client close.
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.logger.Debug("ws client connected", xlogger.String("symbol", symbol))
	h.run(ctx, conn, symbol)
	h.logger.Debug("ws client disconnected", xlogger.String("symbol", symbol))
	return nil
}

func (h *StreamHandler) run(ctx context.Context, conn *websocket.Conn, symbol string) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	pinger := time.NewTicker(pingPeriod)
	defer pinger.Stop()

	var lastSent string
	push := func() bool {
		series, err := h.fusion.Prices(ctx, symbol)
		if err != nil || len(series.Bars) == 0 {
			return true
		}
		newest := series.Bars[len(series.Bars)-1]
		if newest.Timestamp == lastSent {
			return true
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(barMessage{Symbol: symbol, Bar: newest}); err != nil {
			return false
		}
		lastSent = newest.Timestamp
		return true
	}

	if !push() {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !push() {
				return
			}
		case <-pinger.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
