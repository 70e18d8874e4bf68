// Package taskstore owns the ordered task list and the active filter.
//
// Every operation is synchronous and performs no I/O itself. Mutations that
// change state notify the configured Saver (debounced or immediate) and then
// the render observers, always after the store lock has been released so
// that both may read the store back.
package taskstore

import (
	"iter"
	"slices"
	"sync"

	"github.com/taskflow/taskflow/internal/domain"
)

// Saver receives persistence requests from the store.
type Saver interface {
	// ScheduleSave requests a debounced write of the whole list.
	ScheduleSave()
	// SaveNow requests an immediate write of the whole list.
	SaveNow()
}

// Event describes a state change that should trigger a re-render.
type Event struct {
	Kind domain.CommandKind
}

// Option configures a Store.
type Option func(*Store)

// WithRender registers an observer called after every state change.
func WithRender(fn func(Event)) Option {
	return func(s *Store) {
		s.observers = append(s.observers, fn)
	}
}

type persistMode int

const (
	persistNone persistMode = iota
	persistDebounced
	persistImmediate
)

// Store holds the task collection for one session.
type Store struct {
	mu     sync.RWMutex
	tasks  []domain.Task
	filter domain.Filter

	saver     Saver
	observers []func(Event)
}

// New creates a store over tasks, which are copied. A nil saver disables
// persistence.
func New(tasks []domain.Task, saver Saver, opts ...Option) *Store {
	if saver == nil {
		saver = nopSaver{}
	}
	s := &Store{
		tasks:  slices.Clone(tasks),
		filter: domain.FilterAll,
		saver:  saver,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add prepends a new active task. Blank text is ignored.
func (s *Store) Add(text string) (domain.Task, bool) {
	if !domain.ValidText(text) {
		return domain.Task{}, false
	}
	task := domain.NewTask(text)

	s.mu.Lock()
	s.tasks = slices.Insert(s.tasks, 0, task)
	s.mu.Unlock()

	s.changed(domain.CmdAdd, persistDebounced)
	return task, true
}

// Toggle flips the completed flag of the task with id.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.mu.Unlock()

	s.changed(domain.CmdToggle, persistDebounced)
	return true
}

// Delete removes the task with id.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.mu.Unlock()

	s.changed(domain.CmdDelete, persistDebounced)
	return true
}

// Edit replaces the text of the task with id. Blank text deletes the task.
// Either way the list is written immediately rather than debounced, since
// an edit commit is a deliberate, finished action.
func (s *Store) Edit(id, text string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	if domain.ValidText(text) {
		s.tasks[i].Text = domain.NormalizeText(text)
	} else {
		s.tasks = slices.Delete(s.tasks, i, i+1)
	}
	s.mu.Unlock()

	s.changed(domain.CmdEdit, persistImmediate)
	return true
}

// ClearCompleted removes every completed task and returns how many were
// removed. With nothing to remove it neither persists nor renders.
func (s *Store) ClearCompleted() int {
	s.mu.Lock()
	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t domain.Task) bool { return t.Completed })
	removed := before - len(s.tasks)
	s.mu.Unlock()

	if removed == 0 {
		return 0
	}
	s.changed(domain.CmdClearCompleted, persistDebounced)
	return removed
}

// Reorder moves the task fromID to the position immediately before toID.
// It returns false if either id is missing, they are equal, or the task is
// already in place.
func (s *Store) Reorder(fromID, toID string) bool {
	if fromID == toID {
		return false
	}

	s.mu.Lock()
	from, to := s.indexOf(fromID), s.indexOf(toID)
	if from < 0 || to < 0 || from == to-1 {
		s.mu.Unlock()
		return false
	}
	moved := s.tasks[from]
	s.tasks = slices.Delete(s.tasks, from, from+1)
	s.tasks = slices.Insert(s.tasks, s.indexOf(toID), moved)
	s.mu.Unlock()

	s.changed(domain.CmdReorder, persistDebounced)
	return true
}

// MoveUp moves the task above its previous neighbour in the visible list.
// Hidden tasks between the two keep their positions relative to each other.
func (s *Store) MoveUp(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	j := -1
	for k := i - 1; i >= 0 && k >= 0; k-- {
		if s.filter.Match(s.tasks[k]) {
			j = k
			break
		}
	}
	if j < 0 {
		s.mu.Unlock()
		return false
	}
	moved := s.tasks[i]
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.tasks = slices.Insert(s.tasks, j, moved)
	s.mu.Unlock()

	s.changed(domain.CmdMoveUp, persistDebounced)
	return true
}

// MoveDown moves the task below its next neighbour in the visible list.
func (s *Store) MoveDown(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	j := -1
	for k := i + 1; i >= 0 && k < len(s.tasks); k++ {
		if s.filter.Match(s.tasks[k]) {
			j = k
			break
		}
	}
	if j < 0 {
		s.mu.Unlock()
		return false
	}
	moved := s.tasks[i]
	s.tasks = slices.Delete(s.tasks, i, i+1)
	// After removal the neighbour sits at j-1; insert right after it.
	s.tasks = slices.Insert(s.tasks, j, moved)
	s.mu.Unlock()

	s.changed(domain.CmdMoveDown, persistDebounced)
	return true
}

// SetFilter changes the active filter. The filter is never persisted, so
// this renders without saving. Unknown filters are ignored.
func (s *Store) SetFilter(f domain.Filter) bool {
	if !f.IsValid() {
		return false
	}

	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()

	s.changed(domain.CmdSetFilter, persistNone)
	return true
}

// Filter returns the active filter.
func (s *Store) Filter() domain.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Visible yields the tasks matching the active filter in list order.
// Each iteration takes a fresh snapshot, so the sequence can be ranged over
// repeatedly and the loop body may call back into the store.
func (s *Store) Visible() iter.Seq[domain.Task] {
	return s.visible(func() domain.Filter { return s.filter })
}

// VisibleUnder is Visible with f in place of the active filter. The active
// filter is not changed.
func (s *Store) VisibleUnder(f domain.Filter) iter.Seq[domain.Task] {
	return s.visible(func() domain.Filter { return f })
}

// visible reads the filter under the same lock as the snapshot.
func (s *Store) visible(filterOf func() domain.Filter) iter.Seq[domain.Task] {
	return func(yield func(domain.Task) bool) {
		s.mu.RLock()
		filter := filterOf()
		tasks := slices.Clone(s.tasks)
		s.mu.RUnlock()

		for _, t := range tasks {
			if !filter.Match(t) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// RemainingCount returns the number of tasks not yet completed.
func (s *Store) RemainingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// Summary returns the remaining-task counter text.
func (s *Store) Summary() string {
	return domain.RemainingText(s.RemainingCount())
}

// Get returns the task with id.
func (s *Store) Get(id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, false
	}
	return s.tasks[i], true
}

// Tasks returns a copy of the full collection in list order.
func (s *Store) Tasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t domain.Task) bool { return t.ID == id })
}

func (s *Store) changed(kind domain.CommandKind, mode persistMode) {
	switch mode {
	case persistDebounced:
		s.saver.ScheduleSave()
	case persistImmediate:
		s.saver.SaveNow()
	}

	ev := Event{Kind: kind}
	for _, fn := range s.observers {
		fn(ev)
	}
}

type nopSaver struct{}

func (nopSaver) ScheduleSave() {}
func (nopSaver) SaveNow()      {}
