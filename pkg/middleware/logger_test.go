package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/patial10/Construction-App/pkg/middleware"
)

func TestLoggerPreservesFlusherAndHijacker(t *testing.T) {
	var flushable, hijackable bool
	h := middleware.Logger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
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
