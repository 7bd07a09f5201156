package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/taskstack/backend/domain"
	"github.com/taskstack/backend/repository"
)

var (
	bucketTasks = []byte("tasks")
	bucketIndex = []byte("tasks_by_id")
)

// Store is a bbolt-backed implementation of TaskRepository. Tasks are
// keyed by a monotonic sequence number so cursor order equals creation
// order; a second bucket maps task ids to sequence keys.
type Store struct {
	db *bolt.DB
}

// Open initializes the bolt file and ensures both buckets exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketTasks); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketIndex)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task *domain.Task
	err := s.db.View(func(tx *bolt.Tx) error {
		found, err := loadTask(tx, id)
		if err != nil {
			return err
		}
		task = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Store) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketTasks).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var task domain.Task
			if err := json.Unmarshal(v, &task); err != nil {
				return domain.WrapError(domain.ErrCodeInternal, "corrupt task record", err)
			}
			if filter.Matches(&task) {
				tasks = append(tasks, task)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	now := time.Now().UTC()
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

	err := s.db.Update(func(tx *bolt.Tx) error {
		tasksBkt := tx.Bucket(bucketTasks)
		seq, err := tasksBkt.NextSequence()
		if err != nil {
			return err
		}
		key := seqKey(seq)

		payload, err := json.Marshal(task)
		if err != nil {
			return err
		}
		if err := tasksBkt.Put(key, payload); err != nil {
			return err
		}
		return tx.Bucket(bucketIndex).Put([]byte(task.ID), key)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Store) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	var updated *domain.Task
	err := s.db.Update(func(tx *bolt.Tx) error {
		key := tx.Bucket(bucketIndex).Get([]byte(id))
		if key == nil {
			return domain.NewTaskNotFound(id)
		}

		tasksBkt := tx.Bucket(bucketTasks)
		var task domain.Task
		if err := json.Unmarshal(tasksBkt.Get(key), &task); err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "corrupt task record", err)
		}

		patch.Apply(&task)
		now := time.Now().UTC()
		if !now.After(task.UpdatedAt) {
			now = task.UpdatedAt.Add(time.Nanosecond)
		}
		task.UpdatedAt = now

		payload, err := json.Marshal(&task)
		if err != nil {
			return err
		}
		if err := tasksBkt.Put(key, payload); err != nil {
			return err
		}
		updated = &task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		indexBkt := tx.Bucket(bucketIndex)
		key := indexBkt.Get([]byte(id))
		if key == nil {
			return domain.NewTaskNotFound(id)
		}
		if err := tx.Bucket(bucketTasks).Delete(key); err != nil {
			return err
		}
		return indexBkt.Delete([]byte(id))
	})
}

// Stats exposes bolt statistics for the health monitor.
func (s *Store) Stats() bolt.Stats {
	if s == nil || s.db == nil {
		return bolt.Stats{}
	}
	return s.db.Stats()
}

func loadTask(tx *bolt.Tx, id string) (*domain.Task, error) {
	key := tx.Bucket(bucketIndex).Get([]byte(id))
	if key == nil {
		return nil, domain.NewTaskNotFound(id)
	}
	var task domain.Task
	if err := json.Unmarshal(tx.Bucket(bucketTasks).Get(key), &task); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "corrupt task record", err)
	}
	return &task, nil
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
