package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIncWorkflowDelivery(t *testing.T) {
	before := testutil.ToFloat64(workflowDeliveriesTotal.WithLabelValues("trigger", "timeout"))
	IncWorkflowDelivery("trigger", "timeout")
	after := testutil.ToFloat64(workflowDeliveriesTotal.WithLabelValues("trigger", "timeout"))
	assert.Equal(t, before+1, after)
}

func TestIncWorkflowFire_LabelsEmptyMatch(t *testing.T) {
	before := testutil.ToFloat64(workflowFiresTotal.WithLabelValues("renewal", "none"))
	IncWorkflowFire("renewal", 0)
	assert.Equal(t, before+1, testutil.ToFloat64(workflowFiresTotal.WithLabelValues("renewal", "none")))
}

func TestHTTPMiddleware_CountsByRoute(t *testing.T) {
	e := echo.New()
	e.Use(HTTPMiddleware())
	e.GET("/api/v1/workflows/:id", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/workflows/:id", "204"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/workflows/abc", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/workflows/:id", "204"))
	assert.Equal(t, before+1, after)
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))
}

func TestHTTPMiddleware_UnmatchedAndProbes(t *testing.T) {
	e := echo.New()
	e.Use(HTTPMiddleware())
	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")))

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, float64(0), testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/healthz", "200")))
}

func TestObservePing(t *testing.T) {
	assert.Equal(t, "ok", ObservePing(DepRedis, time.Millisecond, nil))
	assert.Equal(t, float64(1), testutil.ToFloat64(dependencyUp.WithLabelValues(DepRedis)))
	assert.Equal(t, "down", ObservePing(DepRedis, time.Millisecond, errors.New("dial tcp: refused")))
	assert.Equal(t, float64(0), testutil.ToFloat64(dependencyUp.WithLabelValues(DepRedis)))
}
