package kernel_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patial10/Construction-App/app/controllers"
	"github.com/patial10/Construction-App/app/routes"
	"github.com/patial10/Construction-App/app/services"
	"github.com/patial10/Construction-App/internal/kernel"
	"github.com/patial10/Construction-App/pkg/event"
)

// The live feeds need Flusher and Hijacker to survive the full middleware
// stack, so these tests go through kernel.NewRouter rather than a bare router.
func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()

	r := kernel.NewRouter()
	routes.RegisterAPI(r,
		controllers.NewCustomerController(nil),
		controllers.NewFeedController(),
		nil,
	)

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	t.Cleanup(event.Flush)
	return srv
}

// fireUntilStopped keeps firing the event so the test does not race the
// feed's subscription setup.
func fireUntilStopped(name string, payload any) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				event.Fire(name, payload)
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

func TestEventStreamThroughMiddlewareStack(t *testing.T) {
	srv := newFeedServer(t)

	stop := fireUntilStopped(services.EventOrderBooked,
		services.OrderEvent{CustomerID: "64f0c9e8a1b2c3d4e5f60718"})
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events/orders", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), "event: "+services.EventOrderBooked) {
			return
		}
	}
	t.Fatalf("no %s event on the stream (err: %v)", services.EventOrderBooked, scanner.Err())
}

func TestWebSocketFeedThroughMiddlewareStack(t *testing.T) {
	srv := newFeedServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/orders"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "handshake must succeed through the middleware stack")
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	stop := fireUntilStopped(services.EventOrderDeleted,
		services.OrderEvent{CustomerID: "64f0c9e8a1b2c3d4e5f60718", Index: 0})
	defer stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err, "expected a broadcast frame")
		if strings.Contains(string(msg), services.EventOrderDeleted) {
			return
		}
	}
}
