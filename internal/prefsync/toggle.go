// Package prefsync keeps a boolean setting consistent across the UI state, the
// durable app_settings store, a host-level side effect and the local fallback
// mirror.
package prefsync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/awsl-project/dontcaught/internal/domain"
	"github.com/awsl-project/dontcaught/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Default timeouts applied at the store and host boundaries
const (
	DefaultStoreTimeout = 5 * time.Second
	DefaultHostTimeout  = 3 * time.Second
)

// HostEffect applies a setting outside the process, e.g. window manager calls
type HostEffect interface {
	Apply(ctx context.Context, value bool) error
}

// HostEffectFunc adapts a function to HostEffect
type HostEffectFunc func(ctx context.Context, value bool) error

func (f HostEffectFunc) Apply(ctx context.Context, value bool) error {
	return f(ctx, value)
}

// Options configures a Toggle
type Options struct {
	Key string
	// Default is used when no durable row exists, and as the fallback
	// mirror's value when it was never written.
	Default      bool
	Text         domain.ToggleText
	StoreTimeout time.Duration
	HostTimeout  time.Duration
}

// Toggle synchronizes one boolean preference.
//
// At most one Initialize or SetPreference runs at a time; later calls wait
// for the running one (or fail with domain.ErrBusy via TrySetPreference).
type Toggle struct {
	opts     Options
	store    repository.SystemSettingRepository
	fallback repository.FallbackRepository
	host     HostEffect
	now      func() time.Time

	flight *semaphore.Weighted

	mu          sync.RWMutex
	state       domain.ToggleState
	initialized bool
	listeners   map[int]func(domain.ToggleState)
	nextID      int
}

// NewToggle creates a toggle in the Unknown state. host may be nil for
// settings without a side effect.
func NewToggle(opts Options, store repository.SystemSettingRepository, fallback repository.FallbackRepository, host HostEffect) *Toggle {
	if opts.StoreTimeout == 0 {
		opts.StoreTimeout = DefaultStoreTimeout
	}
	if opts.HostTimeout == 0 {
		opts.HostTimeout = DefaultHostTimeout
	}
	t := &Toggle{
		opts:      opts,
		store:     store,
		fallback:  fallback,
		host:      host,
		now:       time.Now,
		flight:    semaphore.NewWeighted(1),
		listeners: make(map[int]func(domain.ToggleState)),
	}
	t.state = domain.ToggleState{
		Key:     opts.Key,
		Value:   opts.Default,
		Status:  domain.ToggleStatusUnknown,
		Loading: true,
	}
	t.applyTextLocked()
	return t
}

// Key returns the preference key
func (t *Toggle) Key() string {
	return t.opts.Key
}

// State returns a snapshot of the current UI state
func (t *Toggle) State() domain.ToggleState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Subscribe registers fn to receive every state change. The returned func
// removes the subscription.
func (t *Toggle) Subscribe(fn func(domain.ToggleState)) func() {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.listeners, id)
		t.mu.Unlock()
	}
}

// Initialize loads the starting value.
//
//   - stored row: value parsed ("true" only), host effect applied
//   - no row: Options.Default, host effect not applied (LoadPolicyDefault)
//   - store failure: fallback mirror value, host effect not applied (LoadPolicyFallback)
//
// A stored row that is not a boolean literal reads as false and is flagged
// with ErrorKindMalformedRecord without failing the call. When the host
// effect fails for a stored row the stored value is kept, not replaced by
// the fallback mirror value.
//
// The UI state always ends up with a value; the returned error is informational.
// If ctx is done before the toggle could be claimed, ctx.Err() is returned
// and a toggle that was never loaded settles on the fallback mirror value.
func (t *Toggle) Initialize(ctx context.Context) (domain.ToggleState, error) {
	if err := t.flight.Acquire(ctx, 1); err != nil {
		// a running holder settles the state itself
		if t.flight.TryAcquire(1) {
			defer t.flight.Release(1)
			if !t.isInitialized() {
				log.Printf("[Settings] %s: initialize aborted: %v", t.opts.Key, err)
				value := t.fallback.GetBool(t.opts.Key, t.opts.Default)
				t.finishInit(value, domain.LoadPolicyFallback, time.Time{}, nil)
			}
		}
		return t.State(), err
	}
	defer t.flight.Release(1)

	key := t.opts.Key
	t.update(func(s *domain.ToggleState) {
		s.Loading = true
		s.Error = ""
		s.ErrorKind = ""
	})

	storeCtx, cancel := withTimeout(ctx, t.opts.StoreTimeout)
	setting, err := t.store.Get(storeCtx, key)
	cancel()

	switch {
	case err == nil:
		value, ok := domain.ParseBool(setting.Value)
		if !ok {
			log.Printf("[Settings] %s: reading as false: %v", key, fmt.Errorf("%w: %q", domain.ErrMalformedRecord, setting.Value))
		}

		var perr error
		if herr := t.applyHost(ctx, value); herr != nil {
			log.Printf("[Settings] %s: failed to apply stored value %v: %v", key, value, herr)
			perr = &domain.PreferenceError{Kind: domain.ErrorKindHostEffectFailed, Key: key, Err: herr}
		}
		t.finishInit(value, domain.LoadPolicyStored, setting.UpdatedAt, perr)
		if !ok && perr == nil {
			t.update(func(s *domain.ToggleState) {
				s.ErrorKind = domain.ErrorKindMalformedRecord
			})
		}
		return t.State(), perr

	case errors.Is(err, domain.ErrNotFound):
		t.finishInit(t.opts.Default, domain.LoadPolicyDefault, time.Time{}, nil)
		return t.State(), nil

	default:
		log.Printf("[Settings] Failed to load %s setting: %v", key, err)
		value := t.fallback.GetBool(key, t.opts.Default)
		perr := &domain.PreferenceError{Kind: domain.ErrorKindStoreUnavailable, Key: key, Err: err}
		t.finishInit(value, domain.LoadPolicyFallback, time.Time{}, perr)
		return t.State(), perr
	}
}

func (t *Toggle) isInitialized() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.initialized
}

// SetPreference applies value to the host, the UI state, the durable store
// and the fallback mirror, in that order. Waits for any running operation
// on this toggle.
func (t *Toggle) SetPreference(ctx context.Context, value bool) (domain.ToggleState, error) {
	if err := t.flight.Acquire(ctx, 1); err != nil {
		return t.State(), fmt.Errorf("%w: %v", domain.ErrBusy, err)
	}
	defer t.flight.Release(1)
	return t.set(ctx, value)
}

// TrySetPreference is SetPreference that drops the request with
// domain.ErrBusy instead of waiting.
func (t *Toggle) TrySetPreference(ctx context.Context, value bool) (domain.ToggleState, error) {
	if !t.flight.TryAcquire(1) {
		return t.State(), domain.ErrBusy
	}
	defer t.flight.Release(1)
	return t.set(ctx, value)
}

func (t *Toggle) set(ctx context.Context, value bool) (domain.ToggleState, error) {
	t.mu.RLock()
	initialized := t.initialized
	previous := t.state.Value
	t.mu.RUnlock()
	if !initialized {
		return t.State(), domain.ErrNotInitialized
	}

	key := t.opts.Key
	opID := uuid.NewString()[:8]
	log.Printf("[Settings] [%s] %s: %v -> %v", opID, key, previous, value)

	t.update(func(s *domain.ToggleState) {
		s.Error = ""
		s.ErrorKind = ""
	})

	if err := t.applyHost(ctx, value); err != nil {
		log.Printf("[Settings] [%s] %s: host effect failed: %v", opID, key, err)
		return t.fail(domain.ErrorKindHostEffectFailed, err, previous)
	}

	t.update(func(s *domain.ToggleState) {
		s.Value = value
	})

	storeCtx, cancel := withTimeout(ctx, t.opts.StoreTimeout)
	err := t.store.Set(storeCtx, key, domain.FormatBool(value))
	cancel()
	if err != nil {
		log.Printf("[Settings] [%s] %s: persist failed, reverting to %v: %v", opID, key, previous, err)
		return t.fail(domain.ErrorKindPersistenceFailed, err, previous)
	}

	t.fallback.SetBool(key, value)

	t.update(func(s *domain.ToggleState) {
		s.UpdatedAt = t.now()
		s.Policy = domain.LoadPolicyStored
	})
	log.Printf("[Settings] [%s] %s saved", opID, key)
	return t.State(), nil
}

// fail records the error and restores the value captured before the operation
func (t *Toggle) fail(kind domain.ErrorKind, cause error, previous bool) (domain.ToggleState, error) {
	perr := &domain.PreferenceError{Kind: kind, Key: t.opts.Key, Err: cause}
	t.update(func(s *domain.ToggleState) {
		s.Value = previous
		s.Error = domain.MessageUpdateFailed
		s.ErrorKind = kind
	})
	return t.State(), perr
}

func (t *Toggle) applyHost(ctx context.Context, value bool) error {
	if t.host == nil {
		return nil
	}
	hostCtx, cancel := withTimeout(ctx, t.opts.HostTimeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- t.host.Apply(hostCtx, value)
	}()
	select {
	case err := <-errCh:
		return err
	case <-hostCtx.Done():
		return hostCtx.Err()
	}
}

// update mutates the state under lock and notifies subscribers outside it
func (t *Toggle) update(fn func(s *domain.ToggleState)) {
	t.mu.Lock()
	fn(&t.state)
	t.applyTextLocked()
	snapshot := t.state
	listeners := make([]func(domain.ToggleState), 0, len(t.listeners))
	for _, l := range t.listeners {
		listeners = append(listeners, l)
	}
	t.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

func (t *Toggle) applyTextLocked() {
	s := &t.state
	s.Title = t.opts.Text.Title
	s.Label = t.opts.Text.Label(s.Value)
	s.Description = t.opts.Text.Description(s.Value)
	switch {
	case !t.initialized:
		s.Status = domain.ToggleStatusUnknown
	case s.Value:
		s.Status = domain.ToggleStatusOn
	default:
		s.Status = domain.ToggleStatusOff
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
