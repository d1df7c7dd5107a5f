package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/rollcall/core/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// liveFeed streams accepted claims for one session over a websocket. The
// subscription draws from the shared feed; receipts for other sessions are
// filtered out per connection.
func (h *Handler) liveFeed(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.ownedSession(w, r)
	if !ok {
		return
	}
	if h.feed == nil {
		h.respond(w, http.StatusNotImplemented, errorResponse{Reason: "unsupported", Error: "live feed is not enabled"})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}
	defer conn.Close()

	ctx := r.Context()
	sub := h.feed.Subscribe(ctx)
	defer sub.Close()

	// Reader goroutine drains control frames and surfaces client closes.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case msg, open := <-sub.Receive(ctx):
			if !open {
				return
			}
			if msg.Data.SessionID != sess.ID {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg.Data); err != nil {
				h.log.DebugContext(ctx, "live feed write failed",
					logger.SessionID(sess.ID),
					logger.Error(err),
				)
				return
			}
		}
	}
}
