package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/taskstack/backend/domain"
	"github.com/taskstack/backend/repository"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return store
}

func TestBoltRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, domain.TaskDraft{
		Title:    "persisted",
		Priority: domain.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Status != domain.StatusPending {
		t.Errorf("status = %q, want pending", created.Status)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "persisted" || got.Priority != domain.PriorityHigh {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestBoltListKeepsCreationOrder(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		task, err := store.Create(ctx, domain.TaskDraft{Title: title, Priority: domain.PriorityLow})
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", title, err)
		}
		ids = append(ids, task.ID)
	}

	tasks, err := store.List(ctx, repository.TaskFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("len = %d, want 3", len(tasks))
	}
	for i := range ids {
		if tasks[i].ID != ids[i] {
			t.Errorf("tasks[%d].ID = %s, want %s", i, tasks[i].ID, ids[i])
		}
	}
}

func TestBoltUpdateAndDelete(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	task, err := store.Create(ctx, domain.TaskDraft{Title: "mutable", Priority: domain.PriorityMedium})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	status := domain.StatusCompleted
	updated, err := store.Update(ctx, task.ID, domain.TaskPatch{Status: &status})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != domain.StatusCompleted || updated.Title != "mutable" {
		t.Errorf("update result: %+v", updated)
	}
	if !updated.UpdatedAt.After(task.UpdatedAt) {
		t.Errorf("updatedAt did not advance: %v vs %v", updated.UpdatedAt, task.UpdatedAt)
	}

	if err := store.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, task.ID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("get after delete: expected NOT_FOUND, got %v", err)
	}
	if err := store.Delete(ctx, task.ID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("second delete: expected NOT_FOUND, got %v", err)
	}
}

func TestBoltUnknownID(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.GetByID(ctx, "nope"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("GetByID: expected NOT_FOUND, got %v", err)
	}
	title := "x"
	if _, err := store.Update(ctx, "nope", domain.TaskPatch{Title: &title}); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("Update: expected NOT_FOUND, got %v", err)
	}
}
