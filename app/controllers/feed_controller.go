package controllers

import (
	"encoding/json"
	"time"

	"github.com/patial10/Construction-App/app/services"
	"github.com/patial10/Construction-App/pkg/ctx"
	"github.com/patial10/Construction-App/pkg/event"
	"github.com/patial10/Construction-App/pkg/sse"
	"github.com/patial10/Construction-App/pkg/ws"
)

// feedEvents lists every event the live feeds relay.
var feedEvents = []string{
	services.EventCustomerCreated,
	services.EventOrderBooked,
	services.EventOrderUpdated,
	services.EventOrderDeleted,
	services.EventOrderRepriced,
}

// FeedController serves the live order feeds: an SSE stream and a WebSocket
// endpoint, both fed from the in-process event dispatcher.
type FeedController struct {
	hub *ws.Hub
}

func NewFeedController() *FeedController {
	fc := &FeedController{hub: ws.NewHub()}
	go fc.hub.Run()

	// Pump dispatcher events into the WebSocket hub for the process lifetime.
	sub := event.Subscribe(feedEvents...)
	go func() {
		for msg := range sub.C {
			payload, err := json.Marshal(map[string]any{
				"event": msg.Event,
				"data":  msg.Payload,
			})
			if err != nil {
				continue
			}
			fc.hub.Broadcast <- payload
		}
	}()

	return fc
}

// Stream handles GET /events/orders — an SSE feed of order mutations.
func (fc *FeedController) Stream(c *ctx.Context) {
	stream := sse.New(c.W, c.R)
	if stream == nil {
		return
	}

	sub := event.Subscribe(feedEvents...)
	defer sub.Close()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case msg, ok := <-sub.C:
			if !ok {
				return
			}
			if err := stream.Send(msg.Event, msg.Payload); err != nil || stream.IsClosed() {
				return
			}
		case <-heartbeat.C:
			stream.Comment("keepalive")
			if stream.IsClosed() {
				return
			}
		case <-c.Context().Done():
			return
		}
	}
}

// Socket handles GET /ws/orders — the WebSocket feed.
func (fc *FeedController) Socket(c *ctx.Context) {
	ws.Upgrade(c.W, c.R, fc.hub)
}
