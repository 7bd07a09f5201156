package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taskstack/backend/domain"
	"github.com/taskstack/backend/repository"
)

type taskCache struct {
	next   repository.TaskRepository
	client *redislib.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewTaskCache decorates a TaskRepository with a read-through Redis cache
// for lookups by id. Listing always hits the backing store, which stays
// authoritative for ordering. Cache failures are logged and never fail
// the request.
func NewTaskCache(next repository.TaskRepository, client *redislib.Client, ttl time.Duration, logger *zap.Logger) repository.TaskRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &taskCache{
		next:   next,
		client: client,
		prefix: "task:",
		ttl:    ttl,
		logger: logger,
	}
}

func (c *taskCache) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	result, err := c.client.Get(ctx, c.key(id)).Result()
	if err == nil {
		var task domain.Task
		if err := json.Unmarshal([]byte(result), &task); err == nil {
			return &task, nil
		}
		c.logger.Warn("dropping corrupt cache entry", zap.String("id", id))
		c.invalidate(ctx, id)
	} else if err != redislib.Nil {
		c.logger.Warn("cache read failed", zap.String("id", id), zap.Error(err))
	}

	task, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, task)
	return task, nil
}

func (c *taskCache) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return c.next.List(ctx, filter)
}

func (c *taskCache) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	task, err := c.next.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	c.store(ctx, task)
	return task, nil
}

func (c *taskCache) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	task, err := c.next.Update(ctx, id, patch)
	if err != nil {
		c.invalidate(ctx, id)
		return nil, err
	}
	c.store(ctx, task)
	return task, nil
}

func (c *taskCache) Delete(ctx context.Context, id string) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *taskCache) store(ctx context.Context, task *domain.Task) {
	if task == nil {
		return
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(task.ID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("id", task.ID), zap.Error(err))
	}
}

func (c *taskCache) invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", zap.String("id", id), zap.Error(err))
	}
}

func (c *taskCache) key(id string) string {
	return fmt.Sprintf("%s%s", c.prefix, id)
}
