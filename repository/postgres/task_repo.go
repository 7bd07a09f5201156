package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskstack/backend/domain"
	"github.com/taskstack/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
	SELECT id, title, description, priority, assignee_email, due_date, status, created_at, updated_at
	FROM tasks
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row, id)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT id, title, description, priority, assignee_email, due_date, status, created_at, updated_at
	FROM tasks
	WHERE ($1 = '' OR status = $1)
	  AND ($2 = '' OR priority = $2)
	ORDER BY seq
	`
	rows, err := r.pool.Query(ctx, query, string(filter.Status), string(filter.Priority))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows, "")
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
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

	const query = `
	INSERT INTO tasks (id, title, description, priority, assignee_email, due_date, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if _, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Priority),
		task.AssigneeEmail,
		task.DueDate,
		string(task.Status),
		task.CreatedAt,
		task.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return task, nil
}

// Update reads the row inside one transaction, merges the patch and writes
// it back, so a partial update is atomic even against concurrent writers.
func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const selectQuery = `
	SELECT id, title, description, priority, assignee_email, due_date, status, created_at, updated_at
	FROM tasks
	WHERE id = $1
	FOR UPDATE
	`
	task, err := scanTask(tx.QueryRow(ctx, selectQuery, id), id)
	if err != nil {
		return nil, err
	}

	patch.Apply(task)
	now := time.Now().UTC()
	if !now.After(task.UpdatedAt) {
		now = task.UpdatedAt.Add(time.Microsecond)
	}
	task.UpdatedAt = now

	const updateQuery = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		priority = $4,
		assignee_email = $5,
		due_date = $6,
		status = $7,
		updated_at = $8
	WHERE id = $1
	`
	if _, err := tx.Exec(ctx, updateQuery,
		task.ID,
		task.Title,
		task.Description,
		string(task.Priority),
		task.AssigneeEmail,
		task.DueDate,
		string(task.Status),
		task.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewTaskNotFound(id)
	}
	return nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}, id string) (*domain.Task, error) {
	var task domain.Task
	var (
		priority string
		status   string
		due      *time.Time
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&priority,
		&task.AssigneeEmail,
		&due,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewTaskNotFound(id)
		}
		return nil, err
	}

	task.Priority = domain.Priority(priority)
	task.Status = domain.Status(status)
	task.DueDate = due
	return &task, nil
}
