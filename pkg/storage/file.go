package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// FileStore persists all keys as one JSON object. Writes go through a temp file
// and a rename so readers never observe a half-written document.
type FileStore struct {
	path string

	mu     sync.RWMutex
	values map[string]string
	closed bool

	// writeGen is bumped on every in-process write; reloads triggered by our own
	// writes see a changed generation and are skipped.
	writeGen atomic.Int64

	watcher    *fsnotify.Watcher
	listener   ChangeListener
	debounce   *time.Timer
	debounceMu sync.Mutex
}

var (
	_ Store     = (*FileStore)(nil)
	_ Watchable = (*FileStore)(nil)
)

// NewFileStore opens (or creates) the JSON store at path. A corrupt file is
// treated as empty and is overwritten on the next write.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &FileStore{path: path}
	values, err := s.readFromDisk()
	if err != nil {
		return nil, err
	}
	s.values = values
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrClosed
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	next := cloneValues(s.values)
	next[key] = value
	if err := s.writeToDisk(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.values[key]; !ok {
		return nil
	}

	next := cloneValues(s.values)
	delete(next, key)
	if err := s.writeToDisk(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

func (s *FileStore) Close() error {
	s.StopWatching()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *FileStore) readFromDisk() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage file: %w", err)
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		slog.Warn("storage_file_corrupt", "path", s.path, "error", err)
		return map[string]string{}, nil
	}
	return values, nil
}

func (s *FileStore) writeToDisk(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "storage-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp to storage file: %w", err)
	}

	s.writeGen.Add(1)
	return nil
}

// --- fsnotify: detect writes from other processes ---

// StartWatching reloads the file when another process rewrites it and reports
// the keys whose values changed.
func (s *FileStore) StartWatching(listener ChangeListener) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory: rename-based writes replace the inode.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return err
	}

	s.debounceMu.Lock()
	s.watcher = watcher
	s.listener = listener
	s.debounceMu.Unlock()

	go s.watchLoop(watcher)
	slog.Info("storage_watch_started", "path", s.path)
	return nil
}

// StopWatching stops the fsnotify watcher. Safe to call more than once.
func (s *FileStore) StopWatching() {
	s.debounceMu.Lock()
	defer s.debounceMu.Unlock()

	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}

func (s *FileStore) watchLoop(watcher *fsnotify.Watcher) {
	base := filepath.Base(s.path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			s.scheduleReload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("storage_watch_error", "error", err)
		}
	}
}

func (s *FileStore) scheduleReload() {
	s.debounceMu.Lock()
	defer s.debounceMu.Unlock()

	if s.watcher == nil {
		return
	}
	if s.debounce != nil {
		s.debounce.Stop()
	}
	gen := s.writeGen.Load()
	s.debounce = time.AfterFunc(reloadDebounce, func() { s.reloadFromDisk(gen) })
}

func (s *FileStore) reloadFromDisk(genAtEvent int64) {
	// Our own write landed after the event was queued; memory is already current.
	if s.writeGen.Load() != genAtEvent {
		return
	}

	values, err := s.readFromDisk()
	if err != nil {
		slog.Error("storage_reload_failed", "path", s.path, "error", err)
		return
	}

	s.mu.Lock()
	if s.closed || s.writeGen.Load() != genAtEvent {
		s.mu.Unlock()
		return
	}
	changed := diffKeys(s.values, values)
	s.values = values
	s.mu.Unlock()

	if len(changed) == 0 {
		return
	}

	s.debounceMu.Lock()
	listener := s.listener
	s.debounceMu.Unlock()

	slog.Debug("storage_reloaded", "path", s.path, "changed_keys", changed)
	if listener != nil {
		listener(changed)
	}
}

func diffKeys(before, after map[string]string) []string {
	var changed []string
	for k, v := range after {
		if old, ok := before[k]; !ok || old != v {
			changed = append(changed, k)
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}

func cloneValues(in map[string]string) map[string]string {
	out := make(map[string]string, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
