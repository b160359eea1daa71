package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/aboutorca/WeatherNavApp/internal/pkg/metrics"
)

type fakePool struct{ acquired, idle, total int32 }

func (f fakePool) AcquiredConns() int32 { return f.acquired }
func (f fakePool) IdleConns() int32     { return f.idle }
func (f fakePool) TotalConns() int32    { return f.total }

func TestUpdateDBPoolMetrics(t *testing.T) {
	metrics.UpdateDBPoolMetrics(fakePool{acquired: 3, idle: 7, total: 10})

	if got := testutil.ToFloat64(metrics.DBPoolConnsOpen); got != 10 {
		t.Errorf("open = %v, want 10", got)
	}
	if got := testutil.ToFloat64(metrics.DBPoolConnsIdle); got != 7 {
		t.Errorf("idle = %v, want 7", got)
	}
}

func TestObserveProvider(t *testing.T) {
	c := metrics.ProviderRequests.WithLabelValues("routing", "test", "ok")
	before := testutil.ToFloat64(c)

	metrics.ObserveProvider("routing", "test", "ok", time.Now())

	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("counter = %v, want %v", got, before+1)
	}
}

func TestHandler_ServesMetrics(t *testing.T) {
	app := fiber.New()
	app.Use(metrics.Middleware())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", metrics.Handler())

	if _, err := app.Test(httptest.NewRequest("GET", "/ping", nil), -1); err != nil {
		t.Fatalf("ping: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `weathernav_http_requests_total{method="GET",path="/ping",status="200"}`) {
		t.Errorf("request counter missing from exposition:\n%s", body)
	}
}
