package domain

import "time"

// Status describes the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Priority describes how urgent a task is.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Task represents a tracked unit of work.
type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Priority      Priority   `json:"priority"`
	AssigneeEmail string     `json:"assigneeEmail,omitempty"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// Clone returns a deep copy so stored tasks never escape by reference.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	clone := *t
	if t.DueDate != nil {
		due := *t.DueDate
		clone.DueDate = &due
	}
	return &clone
}

// TaskDraft holds the validated fields accepted on creation. Identity,
// status and timestamps are assigned by the store.
type TaskDraft struct {
	Title         string
	Description   string
	Priority      Priority
	AssigneeEmail string
	DueDate       *time.Time
}

// TaskPatch carries the subset of mutable fields present in a partial
// update. A nil pointer means the field was absent and stays unchanged.
type TaskPatch struct {
	Title         *string
	Description   *string
	Priority      *Priority
	AssigneeEmail *string
	DueDate       *time.Time
	Status        *Status
}

// IsEmpty reports whether the patch carries no fields at all.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.AssigneeEmail == nil && p.DueDate == nil && p.Status == nil
}

// Apply merges the present fields into the task. Timestamps are the
// caller's responsibility.
func (p TaskPatch) Apply(t *Task) {
	if t == nil {
		return
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.AssigneeEmail != nil {
		t.AssigneeEmail = *p.AssigneeEmail
	}
	if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}
