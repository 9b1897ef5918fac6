package obs_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/noah-isme/canteen-order/internal/obs"
)

func TestHTTPMetricsLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewHTTPMetrics("canteen", registry)
	r := chi.NewRouter()
	r.Use(obs.HTTPObs{Metrics: metrics}.Middleware)
	r.Get("/api/cart", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-login.php", nil))

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "/api/cart", "204")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "unmatched", "404")))
	require.NotZero(t, testutil.CollectAndCount(metrics.ReqDur))
	require.Equal(t, 0.0, testutil.ToFloat64(metrics.InFlight))
}

func TestHTTPMetricsReuseRegistered(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := obs.NewHTTPMetrics("canteen", registry)
	second := obs.NewHTTPMetrics("canteen", registry)
	require.Same(t, first.ReqTotal, second.ReqTotal)
}

func TestRequestLoggerWritesRoute(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(obs.RequestLogger{Logger: zerolog.New(&buf)}.Middleware)
	r.Route("/api/cart", func(c chi.Router) {
		c.Post("/items/{itemId}/increment", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte("{}"))
		})
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/cart/items/7/increment", nil))

	out := buf.String()
	require.Contains(t, out, `"route":"/api/cart/items/{itemId}/increment"`)
	require.Contains(t, out, `"status":201`)
	require.Contains(t, out, `"message":"http_request"`)
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTracingRecordsCheckoutState(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	submitting := true
	r := chi.NewRouter()
	r.Use(obs.Tracing{Submitting: func() bool { return submitting }}.Middleware)
	r.Route("/api", func(api chi.Router) {
		api.Post("/checkout", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) })
		api.Delete("/cart/items/{itemId}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/checkout", nil))
	submitting = false
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/cart/items/12", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	checkout := spans[0]
	require.Equal(t, "canteen POST /api/checkout", checkout.Name())
	attrs := spanAttrs(checkout)
	require.True(t, attrs[obs.AttrCheckoutSubmitting].AsBool())
	require.EqualValues(t, http.StatusBadGateway, attrs["http.response.status_code"].AsInt64())
	require.Equal(t, codes.Error, checkout.Status().Code)

	remove := spans[1]
	require.Equal(t, "canteen DELETE /api/cart/items/{itemId}", remove.Name())
	attrs = spanAttrs(remove)
	require.Equal(t, "12", attrs[obs.AttrCartItemID].AsString())
	_, hasCheckout := attrs[obs.AttrCheckoutSubmitting]
	require.False(t, hasCheckout)
	require.Equal(t, codes.Unset, remove.Status().Code)
}
