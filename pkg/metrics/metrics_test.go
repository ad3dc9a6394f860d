package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/patial10/Construction-App/pkg/metrics"
	"github.com/patial10/Construction-App/pkg/router"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := router.New()
	r.Use(metrics.Middleware())
	r.Get("/customers/{id}", "customers.show", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := r.Handler()

	before := testutil.CollectAndCount(metrics.RequestTotal)

	for _, id := range []string{"64f0c9e8a1b2c3d4e5f60718", "64f0c9e8a1b2c3d4e5f60719"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers/"+id, nil))
	}

	// Distinct ids must collapse into a single series for the route pattern.
	if got := testutil.CollectAndCount(metrics.RequestTotal); got != before+1 {
		t.Fatalf("expected %d series, got %d", before+1, got)
	}
}

func TestMiddlewarePreservesFlusherAndHijacker(t *testing.T) {
	var flushable, hijackable bool
	h := metrics.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, flushable = w.(http.Flusher)
		_, hijackable = w.(http.Hijacker)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events/orders", nil))

	if !flushable {
		t.Error("wrapped writer must still expose http.Flusher")
	}
	if !hijackable {
		t.Error("wrapped writer must still expose http.Hijacker")
	}
}
