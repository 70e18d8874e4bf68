package service

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/taskflow/taskflow/internal/config"
	"github.com/taskflow/taskflow/internal/domain"
	"github.com/taskflow/taskflow/internal/storage"
	"github.com/taskflow/taskflow/internal/taskstore"
)

func testConfig(backend, path string) *config.ResolvedConfig {
	return &config.ResolvedConfig{
		Backend:  backend,
		DataPath: path,
		Key:      config.DefaultKey,
		Debounce: time.Hour,
	}
}

func TestSession_PersistsAcrossReopen(t *testing.T) {
	backends := []struct {
		name string
		file string
	}{
		{"sqlite", "tasks.db"},
		{"file", "tasks.json"},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			cfg := testConfig(b.name, filepath.Join(t.TempDir(), b.file))
			ctx := context.Background()

			s, err := Open(ctx, cfg, nil)
			if err != nil {
				t.Fatalf("Open() error: %v", err)
			}
			milk, _ := s.Store().Add("Buy milk")
			s.Store().Add("Walk dog")
			s.Store().Toggle(milk.ID)
			want := s.Store().Tasks()

			// Debounce is an hour, so only Close can have written.
			if s.Writes() != 0 {
				t.Fatalf("expected no writes before close, got %d", s.Writes())
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close() error: %v", err)
			}

			s2, err := Open(ctx, cfg, nil)
			if err != nil {
				t.Fatalf("reopen error: %v", err)
			}
			defer s2.Close()

			if got := s2.Store().Tasks(); !slices.Equal(got, want) {
				t.Errorf("reloaded = %+v, want %+v", got, want)
			}
			if got := s2.Store().Summary(); got != "You have 1 task left." {
				t.Errorf("Summary() = %q", got)
			}
		})
	}
}

func TestSession_WithKVAndRender(t *testing.T) {
	kv := storage.NewMemoryStore()
	var events []taskstore.Event

	s, err := Open(context.Background(), testConfig("memory", ""), nil,
		WithKV(kv),
		WithRender(func(e taskstore.Event) { events = append(events, e) }),
	)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	s.Store().Add("Buy milk")
	if len(events) != 1 || events[0].Kind != domain.CmdAdd {
		t.Errorf("expected one add render, got %+v", events)
	}

	if !s.Flush() {
		t.Error("Flush() should report the pending save")
	}
	if kv.Sets() != 1 {
		t.Errorf("expected 1 write, got %d", kv.Sets())
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
	if _, err := kv.Get(context.Background(), config.DefaultKey); err == nil {
		t.Error("backend should be closed")
	}
}

func TestSession_CorruptValueStartsEmpty(t *testing.T) {
	kv := storage.NewMemoryStore()
	if err := kv.Set(context.Background(), config.DefaultKey, []byte("not json")); err != nil {
		t.Fatalf("seed error: %v", err)
	}

	s, err := Open(context.Background(), testConfig("memory", ""), nil, WithKV(kv))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer s.Close()

	if s.Store().Len() != 0 {
		t.Errorf("expected empty store, got %d tasks", s.Store().Len())
	}
}

func TestSession_OpenErrors(t *testing.T) {
	if _, err := Open(context.Background(), nil, nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := Open(context.Background(), testConfig("sqlite", ""), nil); err == nil {
		t.Error("expected error for sqlite without path")
	}
}
