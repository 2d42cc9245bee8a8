package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.OrdersBuilt.WithLabelValues("ORDER").Inc()
	r.OrdersBuilt.WithLabelValues("ORDER").Inc()
	r.OrdersFallback.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.OrdersBuilt.WithLabelValues("ORDER")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.OrdersFallback))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `orders_built_total{intent="ORDER"} 2`)
	assert.Contains(t, string(body), "orders_fallback_total 1")
}
