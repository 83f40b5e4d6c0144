package prefsync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/awsl-project/dontcaught/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Page composes the toggles shown on the settings page. Each key is
// registered once, which makes the per-toggle flight guard a per-key guard.
type Page struct {
	mu        sync.RWMutex
	toggles   map[string]*Toggle
	order     []string
	listeners map[int]func(domain.ToggleState)
	nextID    int
}

func NewPage() *Page {
	return &Page{
		toggles:   make(map[string]*Toggle),
		listeners: make(map[int]func(domain.ToggleState)),
	}
}

// Register adds a toggle. Registering the same key twice is an error.
func (p *Page) Register(t *Toggle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.toggles[t.Key()]; ok {
		return fmt.Errorf("setting %q already registered", t.Key())
	}
	p.toggles[t.Key()] = t
	p.order = append(p.order, t.Key())
	t.Subscribe(p.publish)
	return nil
}

// Get returns the toggle registered under key
func (p *Page) Get(key string) (*Toggle, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	t, ok := p.toggles[key]
	return t, ok
}

// Keys returns registered keys in registration order
func (p *Page) Keys() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.order...)
}

// InitializeAll loads every toggle concurrently and returns their states in
// registration order. Every toggle settles on a value even when its load
// fails; the failures are joined into the returned error.
func (p *Page) InitializeAll(ctx context.Context) ([]domain.ToggleState, error) {
	keys := p.Keys()
	errs := make([]error, len(keys))

	var g errgroup.Group
	for i, key := range keys {
		t, _ := p.Get(key)
		g.Go(func() error {
			_, err := t.Initialize(ctx)
			errs[i] = err
			return err
		})
	}
	if g.Wait() != nil {
		err := errors.Join(errs...)
		log.Printf("[Settings] Some settings failed to load: %v", err)
		return p.States(), err
	}
	return p.States(), nil
}

// Toggle sets the value of key, waiting for any in-flight operation on it
func (p *Page) Toggle(ctx context.Context, key string, value bool) (domain.ToggleState, error) {
	t, ok := p.Get(key)
	if !ok {
		return domain.ToggleState{}, fmt.Errorf("%w: %s", domain.ErrUnknownSetting, key)
	}
	return t.SetPreference(ctx, value)
}

// States returns snapshots of all toggles in registration order
func (p *Page) States() []domain.ToggleState {
	keys := p.Keys()
	states := make([]domain.ToggleState, 0, len(keys))
	for _, key := range keys {
		t, _ := p.Get(key)
		states = append(states, t.State())
	}
	return states
}

// Subscribe receives state changes of every registered toggle
func (p *Page) Subscribe(fn func(domain.ToggleState)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Page) publish(state domain.ToggleState) {
	p.mu.RLock()
	listeners := make([]func(domain.ToggleState), 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.RUnlock()

	for _, l := range listeners {
		l(state)
	}
}
