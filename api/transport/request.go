package transport

import (
	"time"

	"github.com/taskstack/backend/domain"
)

// CreateTaskRequest is the payload accepted on task creation. Status and
// identity are server-assigned, so neither is accepted here.
type CreateTaskRequest struct {
	Title         string `json:"title" validate:"required,min=1,max=200"`
	Description   string `json:"description" validate:"omitempty,max=2000"`
	Priority      string `json:"priority" validate:"required,oneof=low medium high critical"`
	AssigneeEmail string `json:"assigneeEmail" validate:"omitempty,email"`
	DueDate       string `json:"dueDate" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// Draft converts a validated request into the store's create input.
func (r CreateTaskRequest) Draft() domain.TaskDraft {
	draft := domain.TaskDraft{
		Title:         r.Title,
		Description:   r.Description,
		Priority:      domain.Priority(r.Priority),
		AssigneeEmail: r.AssigneeEmail,
	}
	if r.DueDate != "" {
		if due, err := time.Parse(time.RFC3339, r.DueDate); err == nil {
			draft.DueDate = &due
		}
	}
	return draft
}

// UpdateTaskRequest is a partial-update payload. Pointer fields tell a
// JSON null or an absent key (leave unchanged) apart from a present but
// invalid value; omitnil skips only absent fields, so present values are
// held to the same per-field rules as creation.
type UpdateTaskRequest struct {
	Title         *string `json:"title" validate:"omitnil,min=1,max=200"`
	Description   *string `json:"description" validate:"omitnil,max=2000"`
	Priority      *string `json:"priority" validate:"omitnil,oneof=low medium high critical"`
	AssigneeEmail *string `json:"assigneeEmail" validate:"omitnil,email"`
	DueDate       *string `json:"dueDate" validate:"omitnil,datetime=2006-01-02T15:04:05Z07:00"`
	Status        *string `json:"status" validate:"omitnil,oneof=pending in_progress completed"`
}

// Patch converts a validated request into the store's merge input.
func (r UpdateTaskRequest) Patch() domain.TaskPatch {
	patch := domain.TaskPatch{
		Title:         r.Title,
		Description:   r.Description,
		AssigneeEmail: r.AssigneeEmail,
	}
	if r.Priority != nil {
		priority := domain.Priority(*r.Priority)
		patch.Priority = &priority
	}
	if r.Status != nil {
		status := domain.Status(*r.Status)
		patch.Status = &status
	}
	if r.DueDate != nil {
		if due, err := time.Parse(time.RFC3339, *r.DueDate); err == nil {
			patch.DueDate = &due
		}
	}
	return patch
}

// TaskFilterQuery carries the recognized listing filters. Unknown query
// keys never reach this struct and are therefore ignored, not rejected.
type TaskFilterQuery struct {
	Status   string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high critical"`
}
