package core

import (
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// RequestTracker tracks in-flight setting writes so shutdown does not close
// the database under a running SetPreference
type RequestTracker struct {
	activeCount int64
	wg          sync.WaitGroup
	mu          sync.Mutex
	isShutdown  atomic.Bool
}

func NewRequestTracker() *RequestTracker {
	return &RequestTracker{}
}

// Add increments the active request count.
// Returns false if shutdown is in progress (request should be rejected)
func (t *RequestTracker) Add() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isShutdown.Load() {
		return false
	}
	t.wg.Add(1)
	atomic.AddInt64(&t.activeCount, 1)
	return true
}

// Done decrements the active request count
func (t *RequestTracker) Done() {
	remaining := atomic.AddInt64(&t.activeCount, -1)
	t.wg.Done()
	if t.isShutdown.Load() {
		log.Printf("[RequestTracker] Request completed, %d remaining", remaining)
	}
}

// ActiveCount returns the current number of active requests
func (t *RequestTracker) ActiveCount() int64 {
	return atomic.LoadInt64(&t.activeCount)
}

// IsShuttingDown returns true if shutdown has been initiated
func (t *RequestTracker) IsShuttingDown() bool {
	return t.isShutdown.Load()
}

// GracefulShutdown rejects new requests and waits up to maxWait for the
// active ones. Returns false on timeout.
func (t *RequestTracker) GracefulShutdown(maxWait time.Duration) bool {
	t.mu.Lock()
	t.isShutdown.Store(true)
	t.mu.Unlock()

	if active := t.ActiveCount(); active > 0 {
		log.Printf("[RequestTracker] Graceful shutdown initiated, waiting for %d active requests", active)
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(maxWait):
		log.Printf("[RequestTracker] Timeout reached, %d requests still active, forcing shutdown", t.ActiveCount())
		return false
	}
}

// Wrap tracks mutating requests. Reads pass through untracked.
func (t *RequestTracker) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		if !t.Add() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server is shutting down"}`))
			return
		}
		defer t.Done()
		next.ServeHTTP(w, r)
	})
}
