package preview

import (
	"bufio"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/learninghub/internal/metrics"
)

// LiveReloadHub manages SSE clients for rebuild broadcasts. Each
// successful rebuild publishes a new token; clients reload when the
// token changes.
type LiveReloadHub struct {
	mu        sync.RWMutex
	nextID    int
	clients   map[int]chan string
	recorder  *metrics.Recorder
	closed    bool
	lastToken string
}

// NewLiveReloadHub creates an empty hub.
func NewLiveReloadHub(recorder *metrics.Recorder) *LiveReloadHub {
	return &LiveReloadHub{clients: map[int]chan string{}, recorder: recorder}
}

// ServeHTTP implements the SSE endpoint at /livereload.
func (h *LiveReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "livereload shutting down", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	ch := make(chan string, 8)
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.clients[id] = ch
	current := h.lastToken
	count := len(h.clients)
	h.mu.Unlock()
	if h.recorder != nil {
		h.recorder.SetLivereloadClients(count)
	}
	defer h.removeClient(id)

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(": connected\n\n"); err != nil {
		return
	}
	if current != "" {
		if _, err := bw.WriteString(tokenEvent(current)); err != nil {
			return
		}
	}
	if err := bw.Flush(); err == nil {
		flusher.Flush()
	}

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case token, ok := <-ch:
			if !ok {
				return
			}
			if _, err := bw.WriteString(tokenEvent(token)); err != nil {
				return
			}
			if err := bw.Flush(); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := bw.WriteString(": ping\n\n"); err != nil {
				return
			}
			if err := bw.Flush(); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func tokenEvent(token string) string {
	return fmt.Sprintf("data: {\"token\":%q}\n\n", token)
}

// Broadcast publishes a new token to all connected clients.
func (h *LiveReloadHub) Broadcast(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || token == h.lastToken {
		return
	}
	h.lastToken = token
	for id, ch := range h.clients {
		select {
		case ch <- token:
		default:
			slog.Debug("Dropping livereload event for slow client", "client", id)
		}
	}
}

// Close disconnects all clients and rejects new ones.
func (h *LiveReloadHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, ch := range h.clients {
		close(ch)
	}
	h.clients = map[int]chan string{}
	if h.recorder != nil {
		h.recorder.SetLivereloadClients(0)
	}
}

func (h *LiveReloadHub) removeClient(id int) {
	h.mu.Lock()
	if _, ok := h.clients[id]; ok {
		delete(h.clients, id)
	}
	count := len(h.clients)
	h.mu.Unlock()
	if h.recorder != nil {
		h.recorder.SetLivereloadClients(count)
	}
}
