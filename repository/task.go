package repository

import (
	"context"

	"github.com/taskstack/backend/domain"
)

// TaskFilter narrows a listing to tasks matching every set field.
// Zero values mean "no constraint".
type TaskFilter struct {
	Status   domain.Status
	Priority domain.Priority
}

// Matches reports whether the task satisfies every set constraint.
func (f TaskFilter) Matches(t *domain.Task) bool {
	if t == nil {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	return true
}

// TaskRepository owns the authoritative task collection. Implementations
// must keep listing order equal to creation order and apply each mutation
// atomically with respect to concurrent calls.
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}
