package taskflow_test

import (
	"context"
	"io"
	"log"
	"net/http/httptest"
	"testing"

	"github.com/taskflow/taskflow/internal/api"
	"github.com/taskflow/taskflow/internal/taskstore"
	"github.com/taskflow/taskflow/pkg/taskflow"
)

func newTestClient(t *testing.T) *taskflow.Client {
	t.Helper()

	store := taskstore.New(nil, nil)
	server := httptest.NewServer(api.NewRouter(store, log.New(io.Discard, "", 0)))
	t.Cleanup(server.Close)

	client, err := taskflow.NewClient(taskflow.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func mustCreate(t *testing.T, client *taskflow.Client, text string) *taskflow.Task {
	t.Helper()
	task, err := client.CreateTask(context.Background(), text)
	if err != nil {
		t.Fatalf("CreateTask(%q): %v", text, err)
	}
	return task
}

func texts(tasks []taskflow.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Text
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestClient_Health(t *testing.T) {
	client := newTestClient(t)
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}

func TestClient_CreateAndList(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	first := mustCreate(t, client, "  Buy milk  ")
	mustCreate(t, client, "Walk dog")

	if first.Text != "Buy milk" || first.Completed || first.ID == "" {
		t.Errorf("unexpected created task %+v", first)
	}

	list, err := client.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if want := []string{"Walk dog", "Buy milk"}; !equal(texts(list.Data), want) {
		t.Errorf("order = %v, want %v", texts(list.Data), want)
	}
	if list.Remaining != 2 || list.Summary != "You have 2 tasks left." {
		t.Errorf("remaining = %d, summary = %q", list.Remaining, list.Summary)
	}
	if list.Filter != taskflow.FilterAll {
		t.Errorf("filter = %q, want all", list.Filter)
	}
}

func TestClient_CreateBlankFails(t *testing.T) {
	client := newTestClient(t)

	_, err := client.CreateTask(context.Background(), "   ")
	if !taskflow.IsValidationFailed(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClient_GetMissing(t *testing.T) {
	client := newTestClient(t)

	_, err := client.GetTask(context.Background(), "tf-missing")
	if !taskflow.IsTaskNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.(*taskflow.Error).StatusCode != 404 {
		t.Errorf("status = %d, want 404", err.(*taskflow.Error).StatusCode)
	}
}

func TestClient_ToggleAndFilter(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	milk := mustCreate(t, client, "Buy milk")
	mustCreate(t, client, "Walk dog")

	toggled, err := client.ToggleTask(ctx, milk.ID)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if !toggled.Completed {
		t.Error("expected task to be completed")
	}

	list, err := client.ListTasks(ctx, taskflow.WithFilter(taskflow.FilterCompleted))
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if want := []string{"Buy milk"}; !equal(texts(list.Data), want) {
		t.Errorf("completed = %v, want %v", texts(list.Data), want)
	}
	if list.Remaining != 1 || list.Summary != "You have 1 task left." {
		t.Errorf("remaining = %d, summary = %q", list.Remaining, list.Summary)
	}

	// A query filter leaves the active filter alone.
	active, err := client.GetFilter(ctx)
	if err != nil {
		t.Fatalf("GetFilter: %v", err)
	}
	if active != taskflow.FilterAll {
		t.Errorf("active filter = %q, want all", active)
	}

	set, err := client.SetFilter(ctx, taskflow.FilterActive)
	if err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	if set != taskflow.FilterActive {
		t.Errorf("SetFilter returned %q", set)
	}
	list, _ = client.ListTasks(ctx)
	if want := []string{"Walk dog"}; !equal(texts(list.Data), want) {
		t.Errorf("active = %v, want %v", texts(list.Data), want)
	}

	if _, err := client.SetFilter(ctx, "done"); !taskflow.IsValidationFailed(err) {
		t.Errorf("expected validation error for unknown filter, got %v", err)
	}
}

func TestClient_EditAndDelete(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	task := mustCreate(t, client, "Buy milk")
	other := mustCreate(t, client, "Walk dog")

	edited, err := client.EditTask(ctx, task.ID, " Buy oat milk ")
	if err != nil {
		t.Fatalf("EditTask: %v", err)
	}
	if edited.Text != "Buy oat milk" || edited.ID != task.ID {
		t.Errorf("unexpected edited task %+v", edited)
	}

	gone, err := client.EditTask(ctx, task.ID, "  ")
	if err != nil || gone != nil {
		t.Fatalf("blank edit = %+v, %v; want nil, nil", gone, err)
	}
	if _, err := client.GetTask(ctx, task.ID); !taskflow.IsTaskNotFound(err) {
		t.Errorf("expected blank edit to delete, got %v", err)
	}

	if err := client.DeleteTask(ctx, other.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := client.DeleteTask(ctx, other.ID); !taskflow.IsTaskNotFound(err) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
}

func TestClient_Move(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	a := mustCreate(t, client, "A")
	b := mustCreate(t, client, "B")
	c := mustCreate(t, client, "C")
	// Order is C, B, A.

	result, err := client.MoveBefore(ctx, a.ID, c.ID)
	if err != nil {
		t.Fatalf("MoveBefore: %v", err)
	}
	if want := []string{"A", "C", "B"}; !result.Changed || !equal(texts(result.Data), want) {
		t.Errorf("MoveBefore = %v %v, want true %v", result.Changed, texts(result.Data), want)
	}

	result, err = client.MoveUp(ctx, a.ID)
	if err != nil {
		t.Fatalf("MoveUp: %v", err)
	}
	if result.Changed {
		t.Error("moving the first task up should not change the order")
	}

	result, err = client.MoveDown(ctx, c.ID)
	if err != nil {
		t.Fatalf("MoveDown: %v", err)
	}
	if want := []string{"A", "B", "C"}; !result.Changed || !equal(texts(result.Data), want) {
		t.Errorf("MoveDown = %v %v, want true %v", result.Changed, texts(result.Data), want)
	}

	if _, err := client.MoveBefore(ctx, b.ID, "tf-missing"); !taskflow.IsTaskNotFound(err) {
		t.Errorf("expected not found for missing target, got %v", err)
	}
}

func TestClient_ClearCompleted(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	a := mustCreate(t, client, "A")
	b := mustCreate(t, client, "B")
	mustCreate(t, client, "C")
	client.ToggleTask(ctx, a.ID)
	client.ToggleTask(ctx, b.ID)

	removed, err := client.ClearCompleted(ctx)
	if err != nil {
		t.Fatalf("ClearCompleted: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	removed, _ = client.ClearCompleted(ctx)
	if removed != 0 {
		t.Errorf("second clear removed = %d, want 0", removed)
	}
}

func TestClient_ApplyCommand(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	result, err := client.ApplyCommand(ctx, taskflow.Command{Op: "add", Text: "Buy milk"})
	if err != nil {
		t.Fatalf("ApplyCommand(add): %v", err)
	}
	if !result.Changed || result.Task == nil || result.Task.Text != "Buy milk" {
		t.Fatalf("unexpected add result %+v", result)
	}

	result, err = client.ApplyCommand(ctx, taskflow.Command{Op: "toggle", ID: "tf-missing"})
	if err != nil {
		t.Fatalf("ApplyCommand(toggle missing): %v", err)
	}
	if result.Changed {
		t.Error("toggling a missing task should report no change")
	}

	if _, err := client.ApplyCommand(ctx, taskflow.Command{Op: "explode"}); !taskflow.IsValidationFailed(err) {
		t.Errorf("expected validation error for unknown op, got %v", err)
	}
}
