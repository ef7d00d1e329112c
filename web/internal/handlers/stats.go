package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gearguard-systems/gearguard-stack/common/httputil"
	"github.com/gearguard-systems/gearguard-stack/common/logging"
	"github.com/gearguard-systems/gearguard-stack/web/internal/relay"
)

// Keepalive timing, gorilla's usual arrangement: the server pings at
// pingPeriod and a peer that misses a pong for pongWait is dead.
// Vars so tests can shrink them.
var (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StatsHandler serves the live stats endpoints: WebSocket, SSE, and a
// plain snapshot for clients that poll.
type StatsHandler struct {
	relay  *relay.Relay
	logger *slog.Logger
}

// NewStatsHandler creates a stats handler backed by the given relay.
func NewStatsHandler(r *relay.Relay, logger *slog.Logger) *StatsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsHandler{relay: r, logger: logger}
}

// GetStats handles GET /api/v1/stats - current snapshot from live counters
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	snap, err := h.relay.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("Failed to gather stats", logging.Error(err))
		httputil.WriteError(w, http.StatusServiceUnavailable, "stats unavailable")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

// Socket handles GET /ws/stats - snapshot on connect, then live updates.
func (h *StatsHandler) Socket(w http.ResponseWriter, r *http.Request) {
	subscriber := uuid.New().String()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", logging.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	h.logger.Info("Stats subscriber connected", logging.Subscriber(subscriber))

	// Snapshot goes out before any stream message so the client starts
	// from complete state.
	snap, err := h.relay.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("Failed to gather snapshot", logging.Error(err), logging.Subscriber(subscriber))
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error("Failed to marshal snapshot", logging.Error(err))
		return
	}

	// The tail loop and the ping ticker both write; gorilla allows only
	// one concurrent writer.
	var writeMu sync.Mutex
	send := func(data string) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteMessage(websocket.TextMessage, []byte(data))
	}

	if err := send(string(payload)); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Read pump: we never expect data from the client, but reading is how
	// we notice the peer going away (and how pongs get processed).
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Ping ticker keeps an idle subscriber inside the pong deadline.
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				writeMu.Lock()
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				err := conn.WriteMessage(websocket.PingMessage, nil)
				writeMu.Unlock()
				if err != nil {
					cancel()
					return
				}
			}
		}
	}()

	if err := h.relay.Tail(ctx, subscriber, relay.TailStart, send); err != nil {
		h.logger.Warn("Stats relay ended with error", logging.Error(err), logging.Subscriber(subscriber))
	}
	h.logger.Info("Stats subscriber disconnected", logging.Subscriber(subscriber))
}

// Stream handles GET /api/v1/stats/stream - same feed over Server-Sent
// Events for clients that cannot hold a WebSocket.
func (h *StatsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	subscriber := uuid.New().String()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	send := func(data string) error {
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	snap, err := h.relay.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("Failed to gather snapshot", logging.Error(err), logging.Subscriber(subscriber))
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error("Failed to marshal snapshot", logging.Error(err))
		return
	}
	if err := send(string(payload)); err != nil {
		return
	}

	// Client disconnect cancels r.Context(), which unblocks the tail.
	if err := h.relay.Tail(r.Context(), subscriber, relay.TailStart, send); err != nil {
		h.logger.Warn("Stats relay ended with error", logging.Error(err), logging.Subscriber(subscriber))
	}
}
