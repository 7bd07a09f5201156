package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskstack/backend/domain"
	"github.com/taskstack/backend/repository"
)

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.List(ctx, filter)
}

func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

func (uc *UseCase) CreateTask(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	created, err := uc.tasks.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("task created", zap.String("id", created.ID))
	return created, nil
}

func (uc *UseCase) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	updated, err := uc.tasks.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		uc.logger.Debug("empty patch applied", zap.String("id", id))
	}
	return updated, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, id string) error {
	if err := uc.tasks.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Debug("task deleted", zap.String("id", id))
	return nil
}
