package core

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/awsl-project/dontcaught/internal/config"
	"github.com/awsl-project/dontcaught/internal/domain"
)

func TestManagedServerStartStop(t *testing.T) {
	s := NewManagedServer(&ServerConfig{
		Addr: "127.0.0.1:0",
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("pong"))
		}),
	})
	ctx := context.Background()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !s.IsRunning() {
		t.Fatal("IsRunning = false after Start")
	}
	if err := s.Start(ctx); err != nil {
		t.Errorf("second Start: %v", err)
	}

	resp, err := http.Get("http://" + s.GetAddr() + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("body = %q, want %q", body, "pong")
	}

	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.IsRunning() {
		t.Error("IsRunning = true after Stop")
	}
	if err := s.Stop(ctx); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}

func TestManagedServerBindError(t *testing.T) {
	s := NewManagedServer(&ServerConfig{Addr: "127.0.0.1:bad", Handler: http.NotFoundHandler()})
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("Start with invalid address succeeded")
	}
	if s.IsRunning() {
		t.Error("IsRunning = true after failed Start")
	}
}

func TestRequestTrackerRejectsAfterShutdown(t *testing.T) {
	tr := NewRequestTracker()
	h := tr.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	if !tr.GracefulShutdown(time.Second) {
		t.Fatal("GracefulShutdown with no requests = false")
	}

	tests := []struct {
		method string
		want   int
	}{
		{http.MethodGet, http.StatusNoContent},
		{http.MethodPut, http.StatusServiceUnavailable},
		{http.MethodPost, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(tt.method, "/api/settings/skip_taskbar", nil))
		if w.Code != tt.want {
			t.Errorf("%s: got status %d, want %d", tt.method, w.Code, tt.want)
		}
	}
}

func TestRequestTrackerWaitsForActiveWrite(t *testing.T) {
	tr := NewRequestTracker()
	entered := make(chan struct{})
	release := make(chan struct{})
	h := tr.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	}))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/", nil))
	}()
	<-entered

	if tr.ActiveCount() != 1 {
		t.Fatalf("ActiveCount = %d, want 1", tr.ActiveCount())
	}
	if tr.GracefulShutdown(20 * time.Millisecond) {
		t.Error("GracefulShutdown returned true with a write in flight")
	}

	close(release)
	wg.Wait()
	if !tr.GracefulShutdown(time.Second) {
		t.Error("GracefulShutdown = false after the write finished")
	}
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg.DataDir = t.TempDir()
	cfg.Database.DSN = filepath.Join(cfg.DataDir, config.DBFileName)
	return cfg
}

func TestComponentsServeSettings(t *testing.T) {
	cfg := newTestConfig(t)
	c, err := NewComponents(cfg, nil)
	if err != nil {
		t.Fatalf("NewComponents: %v", err)
	}
	defer c.Close()
	c.Initialize(context.Background())

	state := c.SkipTaskbar.State()
	if !state.Value || state.Policy != domain.LoadPolicyDefault {
		t.Errorf("state = %+v, want default hidden", state)
	}

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/settings/skip_taskbar", strings.NewReader(`{"value":false}`))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	if got := c.Fallback.GetBool(domain.SettingKeySkipTaskbar, true); got {
		t.Error("fallback mirror not updated")
	}
	row, err := c.SettingRepo.Get(context.Background(), domain.SettingKeySkipTaskbar)
	if err != nil || row.Value != "false" {
		t.Errorf("stored row = %+v, %v; want false", row, err)
	}
}
