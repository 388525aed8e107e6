package mdlatex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-mdlatex/internal/fileutil"
)

// DocumentKey is the fixed key the document is stored under.
const DocumentKey = "markdownContent"

// storeFileExt is appended to keys to form FileStore file names.
const storeFileExt = ".md"

// Store persists string values under string keys on the local device.
type Store interface {
	// Get returns the value under key. ok is false when nothing was stored.
	Get(key string) (value string, ok bool, err error)
	// Set overwrites the value under key.
	Set(key, value string) error
}

// Compile-time interface checks
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// validateKey rejects keys that could escape the store directory.
func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidStoreKey, key)
	}
	return nil
}

// MemoryStore keeps values in memory. Used for tests and ephemeral sessions.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value under key.
func (s *MemoryStore) Get(key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set overwrites the value under key.
func (s *MemoryStore) Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// FileStore keeps one file per key under a directory.
// Writes are atomic: a reader never observes a partially written value.
type FileStore struct {
	dir string

	mu   sync.Mutex
	last map[string]string // last value written or observed, per key
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrStoreDir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreDir, err)
	}
	if err := os.MkdirAll(abs, fileutil.DirPermissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreDir, err)
	}
	return &FileStore{dir: abs, last: make(map[string]string)}, nil
}

// Dir returns the absolute store directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file holding key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+storeFileExt)
}

// Get reads the value under key. A missing file is not an error.
func (s *FileStore) Get(key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(s.Path(key)) // #nosec G304 -- key validated above
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}

	s.mu.Lock()
	s.last[key] = string(data)
	s.mu.Unlock()

	return string(data), true, nil
}

// Set writes the value under key.
func (s *FileStore) Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fileutil.WriteFileAtomic(s.Path(key), []byte(value)); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	s.last[key] = value
	return nil
}

// Watch calls fn with the new value each time the file holding key changes
// on disk to content this store did not write itself. It blocks until ctx is
// done, returning nil, or until the watcher fails.
func (s *FileStore) Watch(ctx context.Context, key string, fn func(value string)) error {
	if err := validateKey(key); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWatch, err)
	}
	defer watcher.Close()

	// Watch the directory: atomic renames replace the file's inode.
	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("%w: %v", ErrWatch, err)
	}

	target := s.Path(key)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if value, changed := s.external(key); changed {
				fn(value)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("%w: %v", ErrWatch, err)
		}
	}
}

// external reads key and reports whether it differs from the last value
// written or observed by this store.
func (s *FileStore) external(key string) (string, bool) {
	data, err := os.ReadFile(s.Path(key)) // #nosec G304 -- key validated by caller
	if err != nil {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if last, seen := s.last[key]; seen && last == string(data) {
		return "", false
	}
	s.last[key] = string(data)
	return string(data), true
}
