// Package persist writes the task list to a local key-value store.
//
// Writes triggered by ScheduleSave are debounced: a burst of calls closer
// together than the debounce window collapses into one write of the whole
// list, taken when the timer fires. FlushSave completes a pending write
// synchronously and must run before the process exits. Errors never reach
// callers; they are logged and the in-memory list stays authoritative.
package persist

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/taskflow/taskflow/internal/domain"
	"github.com/taskflow/taskflow/internal/storage"
)

const (
	// DefaultKey is the storage key holding the serialized list.
	DefaultKey = "taskflow.tasks"
	// DefaultDebounce is the quiet period before a scheduled save runs.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultWriteTimeout bounds a single store write.
	DefaultWriteTimeout = 5 * time.Second
)

// Source supplies the collection to write.
type Source interface {
	Tasks() []domain.Task
}

// stopper is the part of *time.Timer the adapter uses.
type stopper interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) stopper

func realAfterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithDebounce sets the debounce window. Zero writes on the next timer tick.
func WithDebounce(d time.Duration) Option {
	return func(a *Adapter) {
		if d >= 0 {
			a.debounce = d
		}
	}
}

// WithKey sets the storage key.
func WithKey(key string) Option {
	return func(a *Adapter) {
		if key != "" {
			a.key = key
		}
	}
}

// WithLogger sets the logger that receives persistence failures.
func WithLogger(l *log.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithWriteTimeout bounds each store write.
func WithWriteTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.writeTimeout = d
		}
	}
}

// Adapter persists a Source into a storage.KV.
type Adapter struct {
	kv           storage.KV
	key          string
	debounce     time.Duration
	writeTimeout time.Duration
	logger       *log.Logger
	after        afterFunc

	mu     sync.Mutex
	source Source
	timer  stopper
	gen    uint64
	closed bool

	// inflight counts debounced writes that have left the timer but not
	// yet finished.
	inflight sync.WaitGroup

	// writeMu orders writes so an older snapshot never lands last.
	writeMu sync.Mutex
	writes  int
}

// New creates an adapter over kv.
func New(kv storage.KV, opts ...Option) *Adapter {
	a := &Adapter{
		kv:           kv,
		key:          DefaultKey,
		debounce:     DefaultDebounce,
		writeTimeout: DefaultWriteTimeout,
		logger:       log.New(io.Discard, "", 0),
		after:        realAfterFunc,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Attach sets the collection written by every save.
func (a *Adapter) Attach(src Source) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.source = src
}

// Key returns the storage key.
func (a *Adapter) Key() string {
	return a.key
}

// Load reads the stored collection. A missing, unreadable, or malformed
// value yields an empty collection; the cause is logged, never returned.
func (a *Adapter) Load(ctx context.Context) []domain.Task {
	data, err := a.kv.Get(ctx, a.key)
	if errors.Is(err, storage.ErrNotFound) {
		return []domain.Task{}
	}
	if err != nil {
		a.logger.Printf("Could not load tasks: %v", err)
		return []domain.Task{}
	}

	tasks, err := Decode(data)
	if err != nil {
		a.logger.Printf("Could not load tasks, starting empty: %v", err)
		return []domain.Task{}
	}
	if tasks == nil {
		return []domain.Task{}
	}
	return tasks
}

// ScheduleSave (re)starts the debounce timer. The last call in a burst wins.
func (a *Adapter) ScheduleSave() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.timer = a.after(a.debounce, func() { a.fire(gen) })
}

// FlushSave performs a pending debounced save immediately. It reports
// whether a save was pending.
func (a *Adapter) FlushSave() bool {
	if !a.cancelPending() {
		return false
	}
	a.write()
	return true
}

// SaveNow writes immediately, absorbing any pending debounced save.
func (a *Adapter) SaveNow() {
	a.cancelPending()
	a.write()
}

// Pending reports whether a debounced save is scheduled.
func (a *Adapter) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timer != nil
}

// Writes returns the number of successful writes.
func (a *Adapter) Writes() int {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	return a.writes
}

// Close ignores later ScheduleSave calls, flushes any pending save and
// waits for a debounced write already in progress.
func (a *Adapter) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	a.FlushSave()
	a.inflight.Wait()
}

func (a *Adapter) fire(gen uint64) {
	a.mu.Lock()
	if gen != a.gen || a.timer == nil {
		// Superseded by a later schedule, or already flushed.
		a.mu.Unlock()
		return
	}
	a.inflight.Add(1)
	a.timer = nil
	a.mu.Unlock()

	defer a.inflight.Done()
	a.write()
}

func (a *Adapter) cancelPending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer == nil {
		return false
	}
	a.timer.Stop()
	a.timer = nil
	a.gen++
	return true
}

func (a *Adapter) write() {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.mu.Lock()
	src := a.source
	a.mu.Unlock()
	if src == nil {
		a.logger.Printf("Could not save tasks: no source attached")
		return
	}

	data, err := Encode(src.Tasks())
	if err != nil {
		a.logger.Printf("Could not save tasks: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.writeTimeout)
	defer cancel()

	if err := a.kv.Set(ctx, a.key, data); err != nil {
		a.logger.Printf("Could not save tasks: %v", err)
		return
	}
	a.writes++
}
