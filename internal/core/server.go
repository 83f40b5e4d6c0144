package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"
)

// Graceful shutdown configuration
const (
	// GracefulShutdownTimeout is the maximum time to wait for in-flight writes
	GracefulShutdownTimeout = 10 * time.Second
	// HTTPShutdownTimeout is the timeout for HTTP server shutdown after requests complete
	HTTPShutdownTimeout = 5 * time.Second
)

// ServerConfig 服务器配置
type ServerConfig struct {
	Addr    string
	Handler http.Handler
}

// ManagedServer 可管理的服务器（支持启动/停止）
type ManagedServer struct {
	config     *ServerConfig
	tracker    *RequestTracker
	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	isRunning  bool
}

// NewManagedServer 创建可管理的服务器
func NewManagedServer(config *ServerConfig) *ManagedServer {
	log.Printf("[Server] Creating managed server on %s", config.Addr)
	return &ManagedServer{
		config:  config,
		tracker: NewRequestTracker(),
	}
}

// Start 启动服务器; bind errors are returned synchronously
func (s *ManagedServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		log.Printf("[Server] Server already running")
		return nil
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.Addr, err)
	}

	s.tracker = NewRequestTracker()
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.tracker.Wrap(s.config.Handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srv := s.httpServer
	go func() {
		log.Printf("[Server] Starting HTTP server on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[Server] Server error: %v", err)
		}
	}()

	s.isRunning = true
	return nil
}

// Stop 停止服务器
func (s *ManagedServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		log.Printf("[Server] Server already stopped")
		return nil
	}

	log.Printf("[Server] Stopping HTTP server on %s", s.listener.Addr())

	// Step 1: let running setting writes finish
	if !s.tracker.GracefulShutdown(GracefulShutdownTimeout) {
		log.Printf("[Server] Graceful shutdown timeout, some writes may be interrupted")
	}

	// Step 2: Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, HTTPShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Server] HTTP server graceful shutdown failed: %v, forcing close", err)
		if closeErr := s.httpServer.Close(); closeErr != nil {
			log.Printf("[Server] Force close error: %v", closeErr)
		}
	}

	s.isRunning = false
	log.Printf("[Server] Server stopped successfully")
	return nil
}

// IsRunning 检查服务器是否在运行
func (s *ManagedServer) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// GetAddr 获取服务器监听地址; the bound address once started
func (s *ManagedServer) GetAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil && s.isRunning {
		return s.listener.Addr().String()
	}
	return s.config.Addr
}
