package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/waymark/internal/logging"
	"github.com/aretw0/waymark/pkg/domain"
)

// StreamManager fans engine events out to SSE clients.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates a StreamManager without subscribers.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
		logger:      logging.NewNop(),
	}
}

// Subscribe registers a client. The returned func unsubscribes it and closes the channel.
func (sm *StreamManager) Subscribe() (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Broadcast sends msg to every subscriber, dropping it for clients whose buffer is full.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping message")
		}
	}
}

// Hooks returns lifecycle hooks that broadcast navigation and state events as JSON.
// Pass them to the engine with waymark.WithLifecycleHooks.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNavigationEnd: func(_ context.Context, e *domain.NavigationEvent) {
			sm.publish(e)
		},
		OnStateActivated: func(_ context.Context, e *domain.StateEvent) {
			sm.publish(e)
		},
		OnStateDeactivated: func(_ context.Context, e *domain.StateEvent) {
			sm.publish(e)
		},
	}
}

func (sm *StreamManager) publish(evt any) {
	data, err := json.Marshal(evt)
	if err != nil {
		sm.logger.Error("SSE: event encode failed", "err", err)
		return
	}
	sm.Broadcast(string(data))
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
