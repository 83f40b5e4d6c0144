package desktop

import (
	"context"
	"log"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/awsl-project/dontcaught/internal/core"
	"github.com/awsl-project/dontcaught/internal/domain"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// EventSettingsChanged is emitted to the frontend on every toggle change
const EventSettingsChanged = "settings:changed"

// emitFunc matches runtime.EventsEmit
type emitFunc func(ctx context.Context, name string, data ...any)

// SettingsApp is the Wails-bound settings page.
// ctx is guarded by mu. startupCh is closed once Startup fires so that
// ShowWindow/Quit callers that arrive before Wails is ready can wait.
type SettingsApp struct {
	components *core.Components
	server     *core.ManagedServer
	emit       emitFunc

	mu          sync.RWMutex
	ctx         context.Context
	startupCh   chan struct{}
	once        sync.Once
	initOnce    sync.Once
	initDone    chan struct{}
	unsubscribe func()
}

// NewSettingsApp creates the bound app. server may be nil to run without
// the local HTTP API.
func NewSettingsApp(components *core.Components, server *core.ManagedServer) *SettingsApp {
	return &SettingsApp{
		components: components,
		server:     server,
		emit:       runtime.EventsEmit,
		startupCh:  make(chan struct{}),
		initDone:   make(chan struct{}),
	}
}

// Startup is called by Wails when the runtime is ready
func (a *SettingsApp) Startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	if a.unsubscribe == nil {
		a.unsubscribe = a.components.Page.Subscribe(a.publish)
	}
	a.mu.Unlock()
	a.once.Do(func() { close(a.startupCh) })

	if a.server != nil {
		if err := a.server.Start(ctx); err != nil {
			log.Printf("[Launcher] Failed to start settings API: %v", err)
			a.reportPortOwner(a.server.GetAddr())
		}
	}
}

// DomReady loads the toggles once the window exists, since the host
// effect looks the window up.
func (a *SettingsApp) DomReady(ctx context.Context) {
	a.initOnce.Do(func() {
		go func() {
			defer close(a.initDone)
			a.components.Initialize(ctx)
		}()
	})
}

// WaitInitialized blocks until the first DomReady load finished or ctx expires
func (a *SettingsApp) WaitInitialized(ctx context.Context) bool {
	select {
	case <-a.initDone:
		return true
	case <-ctx.Done():
		return false
	}
}

// Shutdown stops the API server and closes the database
func (a *SettingsApp) Shutdown(ctx context.Context) {
	log.Println("[Launcher] Shutting down")
	a.mu.Lock()
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	a.mu.Unlock()

	if a.server != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := a.server.Stop(stopCtx); err != nil {
			log.Printf("[Launcher] Failed to stop settings API: %v", err)
		}
	}
	if err := a.components.Close(); err != nil {
		log.Printf("[Launcher] Failed to close components: %v", err)
	}
}

// GetToggles returns every toggle on the settings page
func (a *SettingsApp) GetToggles() []domain.ToggleState {
	return a.components.Page.States()
}

// GetToggle returns a single toggle
func (a *SettingsApp) GetToggle(key string) (domain.ToggleState, error) {
	t, ok := a.components.Page.Get(key)
	if !ok {
		return domain.ToggleState{}, domain.ErrUnknownSetting
	}
	return t.State(), nil
}

// SetToggle changes a toggle. The returned state carries the inline error
// message when the change failed.
func (a *SettingsApp) SetToggle(key string, value bool) (domain.ToggleState, error) {
	ctx := a.context()
	return a.components.Page.Toggle(ctx, key, value)
}

// GetServerAddress returns the settings API address, or "" when it is not running
func (a *SettingsApp) GetServerAddress() string {
	if a.server == nil || !a.server.IsRunning() {
		return ""
	}
	return a.server.GetAddr()
}

// ShowWindow shows the main settings window.
func (a *SettingsApp) ShowWindow() {
	go func() {
		ctx := a.waitForStartup()
		runtime.WindowShow(ctx)
		runtime.WindowUnminimise(ctx)
	}()
}

// Quit exits the application.
func (a *SettingsApp) Quit() {
	go func() {
		ctx := a.waitForStartup()
		runtime.Quit(ctx)
	}()
}

func (a *SettingsApp) waitForStartup() context.Context {
	<-a.startupCh
	return a.context()
}

func (a *SettingsApp) context() context.Context {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

func (a *SettingsApp) publish(state domain.ToggleState) {
	a.mu.RLock()
	ctx := a.ctx
	a.mu.RUnlock()
	if ctx == nil {
		return
	}
	a.emit(ctx, EventSettingsChanged, state)
}

func (a *SettingsApp) reportPortOwner(addr string) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port == 0 {
		return
	}
	pid, err := CheckPortOccupied(port)
	if err != nil {
		log.Printf("[Launcher] %v", err)
		return
	}
	if pid > 0 {
		log.Printf("[Launcher] Port %d is held by PID %d", port, pid)
	}
}
