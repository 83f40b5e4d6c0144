package local

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
)

// FileName is the fallback mirror stored next to the database
const FileName = "customizable.json"

// toggleEntry mirrors one boolean of the customizable state
type toggleEntry struct {
	IsEnabled bool `json:"isEnabled"`
}

// CustomizableStore 本地兜底存储：当数据库不可用时提供最近一次写入的值。
// 内存中保存一份镜像，Read 不做磁盘 I/O；写入失败只记录日志，不向调用方返回。
type CustomizableStore struct {
	path    string
	mu      sync.RWMutex
	entries map[string]toggleEntry
}

// NewCustomizableStore loads the mirror from dir. A missing or corrupt file
// starts empty.
func NewCustomizableStore(dir string) *CustomizableStore {
	s := &CustomizableStore{
		path:    filepath.Join(dir, FileName),
		entries: make(map[string]toggleEntry),
	}
	s.load()
	return s
}

// NewMemoryStore returns a store that never touches disk
func NewMemoryStore() *CustomizableStore {
	return &CustomizableStore{entries: make(map[string]toggleEntry)}
}

func (s *CustomizableStore) load() {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		log.Printf("[Fallback] Read %s failed: %v", s.path, err)
		return
	}
	entries := make(map[string]toggleEntry)
	if err := sonic.Unmarshal(data, &entries); err != nil {
		log.Printf("[Fallback] Corrupt %s, starting empty: %v", s.path, err)
		return
	}
	s.entries = entries
}

// GetBool returns the mirrored value of key, or def if never written
func (s *CustomizableStore) GetBool(key string, def bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[entryName(key)]
	if !ok {
		return def
	}
	return e.IsEnabled
}

// SetBool overwrites the mirrored value of key
func (s *CustomizableStore) SetBool(key string, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entryName(key)] = toggleEntry{IsEnabled: value}
	if s.path == "" {
		return
	}
	if err := s.saveLocked(); err != nil {
		log.Printf("[Fallback] Write %s failed: %v", s.path, err)
	}
}

// saveLocked writes atomically (temp file, then rename). Caller holds mu.
func (s *CustomizableStore) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := sonic.ConfigStd.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// entryName maps a setting key to the mirror's field name, skip_taskbar -> skipTaskbar
func entryName(key string) string {
	parts := strings.Split(key, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
