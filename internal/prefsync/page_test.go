package prefsync

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/awsl-project/dontcaught/internal/domain"
)

func TestPageRegisterDuplicate(t *testing.T) {
	h := newHarness()
	page := NewPage()

	if err := page.Register(h.toggle(true)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := page.Register(h.toggle(false)); err == nil {
		t.Error("Register() of a duplicate key succeeded, want error")
	}
}

func TestPageInitializeAll(t *testing.T) {
	h := newHarness()
	h.store.rows[domain.SettingKeySkipTaskbar] = "false"
	h.store.rows[domain.SettingKeyAutostart] = "true"

	page := NewPage()
	page.Register(h.toggle(true))
	page.Register(NewToggle(Options{Key: domain.SettingKeyAutostart}, h.store, h.fallback, nil))
	page.Register(NewToggle(Options{Key: domain.SettingKeyAlwaysOnTop, Default: true}, h.store, h.fallback, nil))

	states, err := page.InitializeAll(context.Background())
	if err != nil {
		t.Fatalf("InitializeAll: %v", err)
	}
	if len(states) != 3 {
		t.Fatalf("InitializeAll() returned %d states, want 3", len(states))
	}

	want := []struct {
		key    string
		value  bool
		policy domain.LoadPolicy
	}{
		{domain.SettingKeySkipTaskbar, false, domain.LoadPolicyStored},
		{domain.SettingKeyAutostart, true, domain.LoadPolicyStored},
		{domain.SettingKeyAlwaysOnTop, true, domain.LoadPolicyDefault},
	}
	for i, w := range want {
		s := states[i]
		if s.Key != w.key || s.Value != w.value || s.Policy != w.policy {
			t.Errorf("states[%d] = {%s %v %s}, want {%s %v %s}", i, s.Key, s.Value, s.Policy, w.key, w.value, w.policy)
		}
		if s.Loading {
			t.Errorf("states[%d].Loading = true after InitializeAll", i)
		}
	}
}

func TestPageInitializeAllStoreDown(t *testing.T) {
	h := newHarness()
	h.store.getErr = errors.New("unable to open database file")

	page := NewPage()
	page.Register(h.toggle(true))

	states, err := page.InitializeAll(context.Background())
	if domain.KindOf(err) != domain.ErrorKindStoreUnavailable {
		t.Errorf("InitializeAll error = %v, want kind %q", err, domain.ErrorKindStoreUnavailable)
	}
	if states[0].ErrorKind != domain.ErrorKindStoreUnavailable {
		t.Errorf("ErrorKind = %q, want %q", states[0].ErrorKind, domain.ErrorKindStoreUnavailable)
	}
}

func TestPageInitializeAllJoinsFailures(t *testing.T) {
	h := newHarness()
	h.store.rows[domain.SettingKeySkipTaskbar] = "true"
	h.host.err = errors.New("window not found")
	broken := newFakeStore(nil)
	broken.getErr = errors.New("disk I/O error")

	page := NewPage()
	page.Register(h.toggle(false))
	page.Register(NewToggle(Options{Key: domain.SettingKeyAutostart}, broken, h.fallback, nil))
	page.Register(NewToggle(Options{Key: domain.SettingKeyAlwaysOnTop}, h.store, h.fallback, nil))

	states, err := page.InitializeAll(context.Background())
	if err == nil {
		t.Fatal("InitializeAll error = nil, want joined failures")
	}
	for _, cause := range []error{h.host.err, broken.getErr} {
		if !errors.Is(err, cause) {
			t.Errorf("InitializeAll error = %v, want it to wrap %v", err, cause)
		}
	}
	if len(states) != 3 {
		t.Fatalf("InitializeAll() returned %d states, want 3", len(states))
	}
	for _, s := range states {
		if s.Loading {
			t.Errorf("%s still loading after InitializeAll", s.Key)
		}
	}
	if states[2].ErrorKind != "" {
		t.Errorf("%s ErrorKind = %q, want empty", states[2].Key, states[2].ErrorKind)
	}
}

func TestPageToggle(t *testing.T) {
	h := newHarness()
	page := NewPage()
	page.Register(h.toggle(true))
	page.InitializeAll(context.Background())

	var mu sync.Mutex
	var events []domain.ToggleState
	page.Subscribe(func(s domain.ToggleState) {
		mu.Lock()
		events = append(events, s)
		mu.Unlock()
	})

	state, err := page.Toggle(context.Background(), domain.SettingKeySkipTaskbar, false)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if state.Value {
		t.Error("Value = true, want false")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) == 0 || events[len(events)-1].Value {
		t.Errorf("subscriber did not observe the final false state: %+v", events)
	}
}

func TestPageToggleUnknownKey(t *testing.T) {
	page := NewPage()
	_, err := page.Toggle(context.Background(), "theme", true)
	if !errors.Is(err, domain.ErrUnknownSetting) {
		t.Errorf("Toggle() error = %v, want ErrUnknownSetting", err)
	}
}
