package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const (
	lockSuffix     = ".lock"
	lockRetryDelay = 25 * time.Millisecond
)

// FileStore implements KV as a single JSON object file, one member per key.
// Values must themselves be valid JSON; they are stored verbatim as members.
// Every operation holds an OS-level lock on <path>.lock, so separate
// processes sharing the file never interleave a read-modify-write.
type FileStore struct {
	path   string
	flk    *flock.Flock
	mu     sync.Mutex
	closed bool
}

// NewFileStore creates a file-backed store at path.
// The file is created lazily on the first Set.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{
		path: path,
		flk:  flock.New(path + lockSuffix),
	}, nil
}

// Path returns the data file location.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	if _, err := s.flk.TryRLockContext(ctx, lockRetryDelay); err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", s.path, err)
	}
	defer s.flk.Unlock()

	entries, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	value, ok := entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(value), nil
}

// Set stores value under key. value must be valid JSON.
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if !json.Valid(value) {
		return fmt.Errorf("file store values must be valid JSON (key %s)", key)
	}

	return s.update(ctx, func(entries map[string]json.RawMessage) {
		entries[key] = json.RawMessage(value)
	})
}

// Delete removes key.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	return s.update(ctx, func(entries map[string]json.RawMessage) {
		delete(entries, key)
	})
}

// Close marks the store closed and removes nothing from disk.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return s.flk.Close()
}

func (s *FileStore) update(ctx context.Context, fn func(map[string]json.RawMessage)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if _, err := s.flk.TryLockContext(ctx, lockRetryDelay); err != nil {
		return fmt.Errorf("failed to lock %s: %w", s.path, err)
	}
	defer s.flk.Unlock()

	entries, err := s.readLocked()
	if err != nil {
		return err
	}
	fn(entries)
	return s.writeLocked(entries)
}

// readLocked loads the data file. A missing or empty file is an empty store.
func (s *FileStore) readLocked() (map[string]json.RawMessage, error) {
	entries := make(map[string]json.RawMessage)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data file %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return entries, nil
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", s.path, err)
	}
	return entries, nil
}

// writeLocked replaces the data file via a temp file and rename.
func (s *FileStore) writeLocked(entries map[string]json.RawMessage) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode data file: %w", err)
	}
	data := buf.Bytes()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}
