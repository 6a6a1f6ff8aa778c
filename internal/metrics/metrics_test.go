package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.OrderCreated()
	m.OrderCreated()
	m.StockRejected()
	m.Compensated("update")
	m.Compensated("update")
	m.Compensated("delete")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ordersCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stockRejections))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.compensations.WithLabelValues("update")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compensations.WithLabelValues("delete")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.OrderCreated()
		m.StockRejected()
		m.Compensated("create")
		m.ObserveHTTP("/x", http.MethodGet, 200, time.Millisecond)
	})
}

func TestMiddleware(t *testing.T) {
	m := New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(
		m.httpRequests.WithLabelValues("/api/orders/{id}", http.MethodGet, "404"),
	))
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpDuration))
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(2 * time.Millisecond)
	assert.GreaterOrEqual(t, timer.Duration(), 2*time.Millisecond)
}
