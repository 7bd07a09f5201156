package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskstack/backend/repository"
)

// Monitor periodically samples the active storage backend so the health
// endpoint can report reachability and task count without touching the
// request path. Sampling is read-only.
type Monitor struct {
	driver string
	tasks  repository.TaskRepository
	cache  *redislib.Client

	status Status
	mu     sync.RWMutex
	cron   *cron.Cron
	logger *zap.Logger
}

func New(driver string, tasks repository.TaskRepository, cache *redislib.Client, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Monitor{
		driver: driver,
		tasks:  tasks,
		cache:  cache,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger,
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	_, _ = m.cron.AddFunc(schedule, m.refresh)

	return m
}

// Start samples once immediately, then on the configured schedule.
func (m *Monitor) Start() {
	m.refresh()
	m.cron.Start()
}

func (m *Monitor) Stop() {
	<-m.cron.Stop().Done()
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Storage
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) refresh() {
	status := Status{
		Driver:    m.driver,
		LastCheck: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tasks, err := m.tasks.List(ctx, repository.TaskFilter{})
	if err != nil {
		m.logger.Warn("storage check failed", zap.String("driver", m.driver), zap.Error(err))
	} else {
		status.Storage = true
		status.TaskCount = len(tasks)
	}

	if m.cache != nil {
		ok := m.cache.Ping(ctx).Err() == nil
		status.Cache = &ok
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}
