package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/stratum/pkg/domain"
)

// allClusters is the subscription key that receives every diff.
const allClusters = "*"

// StreamManager fans cluster diffs out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *domain.ClusterDiff]struct{} // cluster key -> set of channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan *domain.ClusterDiff]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a channel for the cluster key ("" or "*" for every cluster).
// The returned function unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(key string) (<-chan *domain.ClusterDiff, func()) {
	if key == "" {
		key = allClusters
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan *domain.ClusterDiff, 10)
	if _, ok := sm.subscribers[key]; !ok {
		sm.subscribers[key] = make(map[chan *domain.ClusterDiff]struct{})
	}
	sm.subscribers[key][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[key]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, key)
			}
		}
	}
}

// Publish implements cluster.ChangeFunc.
// Slow subscribers drop messages instead of blocking the editor.
func (sm *StreamManager) Publish(_ context.Context, diff *domain.ClusterDiff) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for _, key := range []string{diff.Cluster, allClusters} {
		for ch := range sm.subscribers[key] {
			select {
			case ch <- diff:
			default:
				sm.logger.Warn("StreamManager: Dropping message for slow subscriber", "cluster", diff.Cluster)
			}
		}
	}
}

// matches reports whether diff carries one of the watched change kinds.
func matches(diff *domain.ClusterDiff, watch []string) bool {
	if len(watch) == 0 {
		return true
	}
	for _, field := range watch {
		switch strings.TrimSpace(field) {
		case "added":
			if len(diff.Added) > 0 {
				return true
			}
		case "changed":
			if len(diff.Changed) > 0 {
				return true
			}
		case "removed":
			if len(diff.Removed) > 0 {
				return true
			}
		case "dropped":
			if diff.Dropped {
				return true
			}
		}
	}
	return false
}

// SubscribeEvents handles GET /events?cluster=p/c/x&watch=added,changed.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	key := r.URL.Query().Get("cluster")
	if key != "" {
		if _, ok := domain.ParseClusterRef(key); !ok {
			s.badRequest(w, "cluster must be project/collection/cluster")
			return
		}
	}
	var watch []string
	if v := r.URL.Query().Get("watch"); v != "" {
		watch = strings.Split(v, ",")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(key)
	defer cancel()

	s.logger.Info("SSE: Subscribing to cluster updates", "cluster", key)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "cluster", key)
			return
		case diff, ok := <-ch:
			if !ok {
				return
			}
			if !matches(diff, watch) {
				continue
			}
			data, err := json.Marshal(diff)
			if err != nil {
				s.logger.Error("SSE: encode failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
