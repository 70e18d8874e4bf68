// Package service wires a task store to its persistence for one process.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/taskflow/taskflow/internal/config"
	"github.com/taskflow/taskflow/internal/persist"
	"github.com/taskflow/taskflow/internal/storage"
	"github.com/taskflow/taskflow/internal/taskstore"
)

// Session owns the store, its persistence adapter, and the backend.
type Session struct {
	store   *taskstore.Store
	adapter *persist.Adapter
	kv      storage.KV
	logger  *log.Logger

	closeOnce sync.Once
	closeErr  error
}

type options struct {
	kv     storage.KV
	render []func(taskstore.Event)
}

// Option configures Open.
type Option func(*options)

// WithKV uses kv instead of opening the configured backend. The session
// still closes it.
func WithKV(kv storage.KV) Option {
	return func(o *options) {
		o.kv = kv
	}
}

// WithRender registers a render observer on the store.
func WithRender(fn func(taskstore.Event)) Option {
	return func(o *options) {
		o.render = append(o.render, fn)
	}
}

// Open opens the configured backend, loads the saved list, and returns a
// session whose store persists every change.
func Open(ctx context.Context, cfg *config.ResolvedConfig, logger *log.Logger, opts ...Option) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	kv := o.kv
	if kv == nil {
		var err error
		kv, err = storage.Open(storage.Options{Backend: cfg.Backend, Path: cfg.DataPath})
		if err != nil {
			return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Backend, err)
		}
	}

	adapter := persist.New(kv,
		persist.WithKey(cfg.Key),
		persist.WithDebounce(cfg.Debounce),
		persist.WithLogger(logger),
	)

	storeOpts := make([]taskstore.Option, 0, len(o.render))
	for _, fn := range o.render {
		storeOpts = append(storeOpts, taskstore.WithRender(fn))
	}

	store := taskstore.New(adapter.Load(ctx), adapter, storeOpts...)
	adapter.Attach(store)

	return &Session{
		store:   store,
		adapter: adapter,
		kv:      kv,
		logger:  logger,
	}, nil
}

// Store returns the session's task store.
func (s *Session) Store() *taskstore.Store {
	return s.store
}

// Flush writes a pending debounced save. It reports whether one was pending.
func (s *Session) Flush() bool {
	return s.adapter.FlushSave()
}

// Writes returns the number of successful saves.
func (s *Session) Writes() int {
	return s.adapter.Writes()
}

// Close flushes pending saves and closes the backend. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.adapter.Close()
		if err := s.kv.Close(); err != nil {
			s.closeErr = fmt.Errorf("failed to close storage: %w", err)
		}
	})
	return s.closeErr
}
