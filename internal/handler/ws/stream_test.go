package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StockFuse/internal/domain/models"
	"StockFuse/internal/repository"
	"StockFuse/internal/store"
	"StockFuse/internal/usecase"
	xlogger "StockFuse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

func newStreamServer(t *testing.T) (*httptest.Server, *store.SeriesStore) {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	st := store.NewSeriesStore([]string{"AAPL"}, 200)
	st.Replace("AAPL", []models.Bar{
		{Timestamp: "2024-06-03T14:30:00Z", Close: 10},
		{Timestamp: "2024-06-03T14:35:00Z", Close: 12},
	})
	fs := store.NewFundamentalsStore([]string{"AAPL"})
	fusion := usecase.NewFusionCoordinator(
		repository.NewLocalPriceProvider(st, 5),
		repository.NewLocalFundamentalsProvider(fs),
		15*time.Minute,
	)

	e := echo.New()
	NewStreamHandler(l, fusion, 20*time.Millisecond).RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, st
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestStreamPushesNewestBar(t *testing.T) {
	srv, st := newStreamServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/api/stream/AAPL"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var msg barMessage
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Symbol != "AAPL" || msg.Bar.Timestamp != "2024-06-03T14:35:00Z" {
		t.Fatalf("expected newest committed bar, got %+v", msg)
	}

	// A newly committed bar reaches the client on the next poll tick.
	st.AppendOne("AAPL", models.Bar{Timestamp: "2024-06-03T14:40:00Z", Close: 14}, 5*time.Minute)
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read appended: %v", err)
	}
	if msg.Bar.Timestamp != "2024-06-03T14:40:00Z" {
		t.Fatalf("expected appended bar, got %+v", msg)
	}
}

func TestStreamRejectsUnknownSymbol(t *testing.T) {
	srv, _ := newStreamServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/api/stream/ZZZZ"), nil)
	if err == nil {
		t.Fatalf("expected handshake failure for unknown symbol")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Fatalf("expected 404 handshake response, got %+v", resp)
	}
}
