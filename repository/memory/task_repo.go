package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskstack/backend/domain"
	"github.com/taskstack/backend/repository"
)

type taskRepository struct {
	mu    sync.Mutex
	tasks map[string]*domain.Task
	order []string
	now   func() time.Time
}

// NewTaskRepository returns the in-memory implementation of TaskRepository.
// A single mutex serializes every call, so each operation observes and
// leaves a consistent snapshot.
func NewTaskRepository() repository.TaskRepository {
	return &taskRepository{
		tasks: make(map[string]*domain.Task),
		now:   time.Now,
	}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.NewTaskNotFound(id)
	}
	return task.Clone(), nil
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := make([]domain.Task, 0, len(r.order))
	for _, id := range r.order {
		task := r.tasks[id]
		if filter.Matches(task) {
			tasks = append(tasks, *task.Clone())
		}
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	task := &domain.Task{
		ID:            uuid.NewString(),
		Title:         draft.Title,
		Description:   draft.Description,
		Priority:      draft.Priority,
		AssigneeEmail: draft.AssigneeEmail,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if draft.DueDate != nil {
		due := *draft.DueDate
		task.DueDate = &due
	}

	r.tasks[task.ID] = task
	r.order = append(r.order, task.ID)
	return task.Clone(), nil
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.NewTaskNotFound(id)
	}

	patch.Apply(task)
	task.UpdatedAt = r.bump(task.UpdatedAt)
	return task.Clone(), nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return domain.NewTaskNotFound(id)
	}
	delete(r.tasks, id)
	for i, ordered := range r.order {
		if ordered == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// bump keeps updatedAt strictly increasing even when the clock returns
// the same instant twice.
func (r *taskRepository) bump(prev time.Time) time.Time {
	now := r.now().UTC()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}
