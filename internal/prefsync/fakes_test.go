package prefsync

import (
	"context"
	"sync"
	"time"

	"github.com/awsl-project/dontcaught/internal/domain"
)

// recorder collects the order of external calls across fakes
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeStore struct {
	mu       sync.Mutex
	rec      *recorder
	rows     map[string]string
	getErr   error
	setErr   error
	setCalls int
	// getGate and setGate block Get and Set until closed when non-nil
	getGate chan struct{}
	setGate chan struct{}
}

func newFakeStore(rec *recorder) *fakeStore {
	return &fakeStore{rec: rec, rows: make(map[string]string)}
}

func (s *fakeStore) Get(ctx context.Context, key string) (*domain.SystemSetting, error) {
	if s.getGate != nil {
		select {
		case <-s.getGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec != nil {
		s.rec.add("store.get")
	}
	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.rows[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.SystemSetting{Key: key, Value: v, UpdatedAt: time.Unix(1700000000, 0)}, nil
}

func (s *fakeStore) Set(ctx context.Context, key, value string) error {
	if s.setGate != nil {
		select {
		case <-s.setGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls++
	if s.rec != nil {
		s.rec.add("store.set:" + value)
	}
	if s.setErr != nil {
		return s.setErr
	}
	s.rows[key] = value
	return nil
}

func (s *fakeStore) GetAll(ctx context.Context) ([]*domain.SystemSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.SystemSetting
	for k, v := range s.rows {
		out = append(out, &domain.SystemSetting{Key: k, Value: v})
	}
	return out, nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, key)
	return nil
}

func (s *fakeStore) row(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.rows[key]
	return v, ok
}

func (s *fakeStore) sets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCalls
}

type fakeHost struct {
	mu    sync.Mutex
	rec   *recorder
	calls []bool
	err   error
	// entered is signalled on every call when non-nil
	entered chan struct{}
	// gate blocks Apply until closed when non-nil; ctx is ignored
	gate chan struct{}
}

func (h *fakeHost) Apply(ctx context.Context, value bool) error {
	if h.entered != nil {
		h.entered <- struct{}{}
	}
	if h.gate != nil {
		<-h.gate
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, value)
	if h.rec != nil {
		if value {
			h.rec.add("host:true")
		} else {
			h.rec.add("host:false")
		}
	}
	return h.err
}

func (h *fakeHost) callList() []bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]bool(nil), h.calls...)
}

type fakeFallback struct {
	mu     sync.Mutex
	values map[string]bool
	writes int
}

func newFakeFallback() *fakeFallback {
	return &fakeFallback{values: make(map[string]bool)}
}

func (f *fakeFallback) GetBool(key string, def bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return def
	}
	return v
}

func (f *fakeFallback) SetBool(key string, value bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	f.values[key] = value
}
