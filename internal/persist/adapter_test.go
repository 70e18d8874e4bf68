package persist

import (
	"bytes"
	"context"
	"errors"
	"log"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/taskflow/taskflow/internal/domain"
	"github.com/taskflow/taskflow/internal/storage"
	"github.com/taskflow/taskflow/internal/taskstore"
)

// fakeClock hands out timers that only fire when the test says so.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{d: d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Fire runs every timer that is neither stopped nor fired.
func (c *fakeClock) Fire() int {
	c.mu.Lock()
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// FireStale runs a timer's callback even though it was stopped, as happens
// when Stop races with an expiring time.Timer.
func (c *fakeClock) FireStale(i int) {
	c.mu.Lock()
	t := c.timers[i]
	c.mu.Unlock()
	t.fn()
}

type sliceSource struct {
	mu    sync.Mutex
	tasks []domain.Task
}

func (s *sliceSource) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

func (s *sliceSource) set(tasks ...domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
}

type harness struct {
	kv      *storage.MemoryStore
	clock   *fakeClock
	src     *sliceSource
	adapter *Adapter
	logs    *bytes.Buffer
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		kv:    storage.NewMemoryStore(),
		clock: &fakeClock{},
		src:   &sliceSource{},
		logs:  &bytes.Buffer{},
	}
	opts = append([]Option{WithLogger(log.New(h.logs, "", 0))}, opts...)
	h.adapter = New(h.kv, opts...)
	h.adapter.after = h.clock.AfterFunc
	h.adapter.Attach(h.src)
	return h
}

func (h *harness) stored(t *testing.T) []domain.Task {
	t.Helper()
	data, err := h.kv.Get(context.Background(), DefaultKey)
	if err != nil {
		t.Fatalf("failed to read stored value: %v", err)
	}
	tasks, err := Decode(data)
	if err != nil {
		t.Fatalf("stored value does not decode: %v", err)
	}
	return tasks
}

func TestScheduleSave_DebouncesBurst(t *testing.T) {
	h := newHarness(t)

	for i := 0; i < 10; i++ {
		h.src.set(domain.Task{ID: "tf-1", Text: strings.Repeat("x", i+1)})
		h.adapter.ScheduleSave()
	}
	if h.kv.Sets() != 0 {
		t.Fatalf("expected no write before timer fires, got %d", h.kv.Sets())
	}
	if !h.adapter.Pending() {
		t.Error("Pending() should be true")
	}

	if n := h.clock.Fire(); n != 1 {
		t.Fatalf("expected exactly one live timer, got %d", n)
	}
	if h.kv.Sets() != 1 {
		t.Errorf("expected 1 write, got %d", h.kv.Sets())
	}
	if got := h.stored(t); got[0].Text != strings.Repeat("x", 10) {
		t.Errorf("write should capture the latest state, got %q", got[0].Text)
	}
	if h.adapter.Pending() {
		t.Error("Pending() should be false after firing")
	}
}

func TestScheduleSave_UsesDebounceWindow(t *testing.T) {
	h := newHarness(t, WithDebounce(42*time.Millisecond))
	h.adapter.ScheduleSave()

	if got := h.clock.timers[0].d; got != 42*time.Millisecond {
		t.Errorf("timer duration = %v, want 42ms", got)
	}
}

func TestDefaultDebounceIs300ms(t *testing.T) {
	h := newHarness(t)
	h.adapter.ScheduleSave()

	if got := h.clock.timers[0].d; got != 300*time.Millisecond {
		t.Errorf("timer duration = %v, want 300ms", got)
	}
}

func TestFlushSave_WritesPendingOnce(t *testing.T) {
	h := newHarness(t)
	h.src.set(domain.Task{ID: "tf-1", Text: "Buy milk"})
	h.adapter.ScheduleSave()

	if !h.adapter.FlushSave() {
		t.Fatal("FlushSave() should report a pending save")
	}
	if h.kv.Sets() != 1 {
		t.Errorf("expected 1 write after flush, got %d", h.kv.Sets())
	}

	// The cancelled timer must not write again.
	if n := h.clock.Fire(); n != 0 {
		t.Errorf("flushed timer should be stopped, %d fired", n)
	}
	if h.adapter.FlushSave() {
		t.Error("second FlushSave() should find nothing pending")
	}
	if h.kv.Sets() != 1 {
		t.Errorf("expected still 1 write, got %d", h.kv.Sets())
	}
}

func TestFlushSave_NothingPending(t *testing.T) {
	h := newHarness(t)

	if h.adapter.FlushSave() {
		t.Error("FlushSave() with nothing pending should return false")
	}
	if h.kv.Sets() != 0 {
		t.Errorf("expected 0 writes, got %d", h.kv.Sets())
	}
}

func TestStaleTimerCallbackIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.adapter.ScheduleSave()
	h.adapter.ScheduleSave()

	// The first timer's callback runs despite Stop: it must not write.
	h.clock.FireStale(0)
	if h.kv.Sets() != 0 {
		t.Fatalf("stale timer wrote %d times", h.kv.Sets())
	}

	h.clock.Fire()
	if h.kv.Sets() != 1 {
		t.Errorf("expected 1 write, got %d", h.kv.Sets())
	}

	// Callback of a flushed timer is also stale.
	h.adapter.ScheduleSave()
	h.adapter.FlushSave()
	h.clock.FireStale(2)
	if h.kv.Sets() != 2 {
		t.Errorf("expected 2 writes, got %d", h.kv.Sets())
	}
}

func TestSaveNow_WritesAndAbsorbsPending(t *testing.T) {
	h := newHarness(t)
	h.src.set(domain.Task{ID: "tf-1", Text: "edited"})
	h.adapter.ScheduleSave()

	h.adapter.SaveNow()
	if h.kv.Sets() != 1 {
		t.Fatalf("expected 1 immediate write, got %d", h.kv.Sets())
	}
	if h.adapter.Pending() {
		t.Error("SaveNow() should cancel the pending save")
	}
	if n := h.clock.Fire(); n != 0 {
		t.Errorf("expected no live timers, got %d", n)
	}

	h.adapter.SaveNow()
	if h.kv.Sets() != 2 {
		t.Errorf("SaveNow() always writes, got %d writes", h.kv.Sets())
	}
	if h.adapter.Writes() != 2 {
		t.Errorf("Writes() = %d, want 2", h.adapter.Writes())
	}
}

func TestSave_FailureIsLoggedNotRaised(t *testing.T) {
	h := newHarness(t)
	h.kv.FailSets(errors.New("quota exceeded"))

	h.adapter.SaveNow()
	h.adapter.ScheduleSave()
	h.clock.Fire()

	if h.adapter.Writes() != 0 {
		t.Errorf("Writes() = %d, want 0", h.adapter.Writes())
	}
	if !strings.Contains(h.logs.String(), "quota exceeded") {
		t.Errorf("failure should be logged, got: %q", h.logs.String())
	}

	h.kv.FailSets(nil)
	h.adapter.SaveNow()
	if h.adapter.Writes() != 1 {
		t.Errorf("adapter should recover after failures, Writes() = %d", h.adapter.Writes())
	}
}

func TestSave_WithoutSourceIsLogged(t *testing.T) {
	kv := storage.NewMemoryStore()
	var logs bytes.Buffer
	a := New(kv, WithLogger(log.New(&logs, "", 0)))

	a.SaveNow()
	if kv.Sets() != 0 {
		t.Errorf("expected no write, got %d", kv.Sets())
	}
	if !strings.Contains(logs.String(), "no source") {
		t.Errorf("expected log about missing source, got %q", logs.String())
	}
}

func TestClose_FlushesAndStopsScheduling(t *testing.T) {
	h := newHarness(t)
	h.adapter.ScheduleSave()

	h.adapter.Close()
	if h.kv.Sets() != 1 {
		t.Fatalf("Close() should flush, got %d writes", h.kv.Sets())
	}

	h.adapter.ScheduleSave()
	if h.adapter.Pending() {
		t.Error("ScheduleSave() after Close() should be ignored")
	}
}

// gatedSource blocks the first Tasks call until release is closed.
type gatedSource struct {
	tasks   []domain.Task
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *gatedSource) Tasks() []domain.Task {
	s.once.Do(func() {
		close(s.entered)
		<-s.release
	})
	return slices.Clone(s.tasks)
}

func TestClose_WaitsForDebouncedWriteInProgress(t *testing.T) {
	h := newHarness(t)
	src := &gatedSource{
		tasks:   []domain.Task{{ID: "tf-1", Text: "Buy milk"}},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	h.adapter.Attach(src)
	h.adapter.ScheduleSave()

	go h.clock.Fire()
	<-src.entered

	closed := make(chan struct{})
	go func() {
		h.adapter.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close() returned while a debounced write was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(src.release)
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close() did not return after the write finished")
	}

	// The backend closes right after the adapter, as Session.Close does.
	got := h.stored(t)
	if err := h.kv.Close(); err != nil {
		t.Fatalf("kv.Close() error = %v", err)
	}
	if h.kv.Sets() != 1 {
		t.Errorf("expected 1 write, got %d", h.kv.Sets())
	}
	if !slices.Equal(got, src.tasks) {
		t.Errorf("stored = %v, want %v", got, src.tasks)
	}
	if h.logs.Len() != 0 {
		t.Errorf("unexpected log output: %q", h.logs.String())
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	h := newHarness(t)
	want := []domain.Task{
		{ID: "tf-3", Text: "Walk dog", Completed: false},
		{ID: "tf-1", Text: "Buy milk", Completed: true},
		{ID: "tf-2", Text: `Quote "this" & <that>`, Completed: false},
	}
	h.src.set(want...)
	h.adapter.SaveNow()

	got := h.adapter.Load(context.Background())
	if !slices.Equal(got, want) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoad_DegradesToEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value string
		logs  bool
	}{
		{"not json", `{{{`, true},
		{"object instead of array", `{"id":"tf-1"}`, true},
		{"wrong field type", `[{"id":1,"text":"x","completed":false}]`, true},
		{"blank text", `[{"id":"tf-1","text":"  ","completed":false}]`, true},
		{"missing id", `[{"text":"x","completed":false}]`, true},
		{"duplicate id", `[{"id":"a","text":"x"},{"id":"a","text":"y"}]`, true},
		{"null", `null`, false},
		{"empty array", `[]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if err := h.kv.Set(context.Background(), DefaultKey, []byte(tt.value)); err != nil {
				t.Fatalf("failed to seed store: %v", err)
			}

			got := h.adapter.Load(context.Background())
			if got == nil || len(got) != 0 {
				t.Errorf("Load() = %v, want empty non-nil", got)
			}
			if logged := h.logs.Len() > 0; logged != tt.logs {
				t.Errorf("logged = %v, want %v (%q)", logged, tt.logs, h.logs.String())
			}
		})
	}
}

func TestLoad_MissingAndUnavailable(t *testing.T) {
	h := newHarness(t)

	if got := h.adapter.Load(context.Background()); len(got) != 0 {
		t.Errorf("missing key should load empty, got %v", got)
	}
	if h.logs.Len() != 0 {
		t.Errorf("missing key should not log, got %q", h.logs.String())
	}

	h.kv.FailGets(errors.New("store unavailable"))
	if got := h.adapter.Load(context.Background()); len(got) != 0 {
		t.Errorf("unavailable store should load empty, got %v", got)
	}
	if !strings.Contains(h.logs.String(), "store unavailable") {
		t.Errorf("expected logged failure, got %q", h.logs.String())
	}
}

func TestWithKey(t *testing.T) {
	h := newHarness(t, WithKey("custom.key"))
	h.adapter.SaveNow()

	if _, err := h.kv.Get(context.Background(), "custom.key"); err != nil {
		t.Errorf("expected value under custom key: %v", err)
	}
	if h.adapter.Key() != "custom.key" {
		t.Errorf("Key() = %q", h.adapter.Key())
	}
}

func TestWithStore_MutationsBatchIntoOneWrite(t *testing.T) {
	h := newHarness(t)
	store := taskstore.New(nil, h.adapter)
	h.adapter.Attach(store)

	a, _ := store.Add("Buy milk")
	b, _ := store.Add("Walk dog")
	store.Toggle(a.ID)
	store.Reorder(a.ID, b.ID)
	if h.kv.Sets() != 0 {
		t.Fatalf("debounced mutations wrote early: %d", h.kv.Sets())
	}

	h.clock.Fire()
	if h.kv.Sets() != 1 {
		t.Fatalf("expected 1 write, got %d", h.kv.Sets())
	}
	if got := h.stored(t); !slices.Equal(got, store.Tasks()) {
		t.Errorf("stored = %+v, want %+v", got, store.Tasks())
	}

	// Edits bypass the debounce.
	store.Edit(b.ID, "Walk the dog")
	if h.kv.Sets() != 2 {
		t.Errorf("edit should write immediately, got %d writes", h.kv.Sets())
	}

	// Flush after a pending debounce writes exactly once more.
	store.Toggle(b.ID)
	h.adapter.FlushSave()
	if h.kv.Sets() != 3 {
		t.Errorf("expected 3 writes after flush, got %d", h.kv.Sets())
	}
	if got := h.stored(t); !slices.Equal(got, store.Tasks()) {
		t.Errorf("stored = %+v, want %+v", got, store.Tasks())
	}
}

func TestRealTimer_DebouncesBurst(t *testing.T) {
	kv := storage.NewMemoryStore()
	src := &sliceSource{}
	a := New(kv, WithDebounce(30*time.Millisecond))
	a.Attach(src)

	for i := 0; i < 5; i++ {
		a.ScheduleSave()
		time.Sleep(2 * time.Millisecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for a.Pending() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	// Let a racing write finish.
	a.FlushSave()

	if kv.Sets() != 1 {
		t.Errorf("expected 1 write, got %d", kv.Sets())
	}
}
