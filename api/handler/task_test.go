package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskstack/backend/api/transport"
	"github.com/taskstack/backend/domain"
	"github.com/taskstack/backend/internal/validation"
	"github.com/taskstack/backend/pkg/httpcontext"
	"github.com/taskstack/backend/repository/memory"
	taskUC "github.com/taskstack/backend/usecase/task"
)

func newTaskHandler(t *testing.T) *TaskHandler {
	t.Helper()
	repo := memory.NewTaskRepository()
	uc := taskUC.New(repo, zap.NewNop())
	return NewTaskHandler(uc, validation.New(), httpcontext.NewAdapter(time.Second), zap.NewNop())
}

func doRequest(method, uri string, body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != "" {
		ctx.Request.SetBody([]byte(body))
	}
	return ctx
}

func decodeTask(t *testing.T, ctx *fasthttp.RequestCtx) domain.Task {
	t.Helper()
	var task domain.Task
	if err := json.Unmarshal(ctx.Response.Body(), &task); err != nil {
		t.Fatalf("decoding task response %q: %v", ctx.Response.Body(), err)
	}
	return task
}

func decodeError(t *testing.T, ctx *fasthttp.RequestCtx) transport.ErrorBody {
	t.Helper()
	var body transport.ErrorBody
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("decoding error response %q: %v", ctx.Response.Body(), err)
	}
	return body
}

func createTask(t *testing.T, h *TaskHandler, payload string) domain.Task {
	t.Helper()
	ctx := doRequest(http.MethodPost, "/tasks", payload)
	h.CreateTask(ctx)
	if got := ctx.Response.StatusCode(); got != http.StatusCreated {
		t.Fatalf("create status = %d, want 201; body: %s", got, ctx.Response.Body())
	}
	return decodeTask(t, ctx)
}

func TestCreateTask(t *testing.T) {
	h := newTaskHandler(t)

	task := createTask(t, h, `{"title":"Write spec","priority":"medium"}`)

	if task.ID == "" {
		t.Error("expected a generated id")
	}
	if task.Status != domain.StatusPending {
		t.Errorf("status = %q, want pending", task.Status)
	}
	if task.Title != "Write spec" || task.Priority != domain.PriorityMedium {
		t.Errorf("unexpected task: %+v", task)
	}
	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Errorf("createdAt %v != updatedAt %v", task.CreatedAt, task.UpdatedAt)
	}
}

func TestCreateTaskIgnoresClientStatusAndUnknownKeys(t *testing.T) {
	h := newTaskHandler(t)

	task := createTask(t, h, `{"title":"t","priority":"low","status":"completed","color":"red"}`)
	if task.Status != domain.StatusPending {
		t.Errorf("status = %q, client-supplied status must be ignored", task.Status)
	}
}

func TestCreateTaskValidationError(t *testing.T) {
	h := newTaskHandler(t)

	ctx := doRequest(http.MethodPost, "/tasks", `{"title":"","priority":"urgent"}`)
	h.CreateTask(ctx)

	if got := ctx.Response.StatusCode(); got != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", got)
	}
	body := decodeError(t, ctx)
	if body.Error.Kind != transport.KindValidationError {
		t.Errorf("kind = %q, want %q", body.Error.Kind, transport.KindValidationError)
	}
	if len(body.Error.Details) != 2 {
		t.Fatalf("len(details) = %d, want 2: %+v", len(body.Error.Details), body.Error.Details)
	}

	// nothing must have been stored
	list := doRequest(http.MethodGet, "/tasks", "")
	h.ListTasks(list)
	var tasks []domain.Task
	if err := json.Unmarshal(list.Response.Body(), &tasks); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("store touched by failed validation: %+v", tasks)
	}
}

func TestCreateTaskMalformedBody(t *testing.T) {
	h := newTaskHandler(t)

	ctx := doRequest(http.MethodPost, "/tasks", `{"title": `)
	h.CreateTask(ctx)

	if got := ctx.Response.StatusCode(); got != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", got)
	}
	body := decodeError(t, ctx)
	if body.Error.Kind != transport.KindValidationError {
		t.Errorf("kind = %q, want ValidationError", body.Error.Kind)
	}
	if len(body.Error.Details) != 1 || body.Error.Details[0].Kind != validation.KindInvalidBody {
		t.Errorf("details = %+v, want one invalid_body violation", body.Error.Details)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	h := newTaskHandler(t)

	ctx := doRequest(http.MethodGet, "/tasks/ghost", "")
	ctx.SetUserValue("id", "ghost")
	h.GetTask(ctx)

	if got := ctx.Response.StatusCode(); got != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", got)
	}
	body := decodeError(t, ctx)
	if body.Error.Kind != transport.KindNotFound {
		t.Errorf("kind = %q, want NotFound", body.Error.Kind)
	}
	if want := "task ghost not found"; body.Error.Message != want {
		t.Errorf("message = %q, want %q (must carry the id)", body.Error.Message, want)
	}
}

func TestUpdateTaskMergesFields(t *testing.T) {
	h := newTaskHandler(t)

	created := createTask(t, h, `{"title":"keep","description":"also keep","priority":"low"}`)

	ctx := doRequest(http.MethodPut, "/tasks/"+created.ID, `{"priority":"critical"}`)
	ctx.SetUserValue("id", created.ID)
	h.UpdateTask(ctx)

	if got := ctx.Response.StatusCode(); got != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", got, ctx.Response.Body())
	}
	updated := decodeTask(t, ctx)
	if updated.Priority != domain.PriorityCritical {
		t.Errorf("priority = %q, want critical", updated.Priority)
	}
	if updated.Title != "keep" || updated.Description != "also keep" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updatedAt did not advance: %v vs %v", updated.UpdatedAt, created.UpdatedAt)
	}
}

func TestUpdateTaskEmptyPayload(t *testing.T) {
	h := newTaskHandler(t)

	created := createTask(t, h, `{"title":"noop","priority":"medium"}`)

	ctx := doRequest(http.MethodPut, "/tasks/"+created.ID, `{}`)
	ctx.SetUserValue("id", created.ID)
	h.UpdateTask(ctx)

	if got := ctx.Response.StatusCode(); got != http.StatusOK {
		t.Fatalf("status = %d, want 200", got)
	}
	updated := decodeTask(t, ctx)
	if updated.Title != "noop" {
		t.Errorf("empty payload changed fields: %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("empty update must still advance updatedAt (documented policy)")
	}
}

func TestUpdateTaskRejectsInvalidSubset(t *testing.T) {
	h := newTaskHandler(t)

	created := createTask(t, h, `{"title":"valid","priority":"low"}`)

	ctx := doRequest(http.MethodPut, "/tasks/"+created.ID, `{"title":"","status":"archived"}`)
	ctx.SetUserValue("id", created.ID)
	h.UpdateTask(ctx)

	if got := ctx.Response.StatusCode(); got != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", got)
	}
	body := decodeError(t, ctx)
	if len(body.Error.Details) != 2 {
		t.Errorf("details = %+v, want 2 violations", body.Error.Details)
	}

	// the task must be untouched
	get := doRequest(http.MethodGet, "/tasks/"+created.ID, "")
	get.SetUserValue("id", created.ID)
	h.GetTask(get)
	task := decodeTask(t, get)
	if task.Title != "valid" || task.Status != domain.StatusPending {
		t.Errorf("failed update partially applied: %+v", task)
	}
}

func TestListTasksFilterAndOrder(t *testing.T) {
	h := newTaskHandler(t)

	first := createTask(t, h, `{"title":"first","priority":"high"}`)
	createTask(t, h, `{"title":"second","priority":"low"}`)
	third := createTask(t, h, `{"title":"third","priority":"high"}`)

	ctx := doRequest(http.MethodGet, "/tasks?status=pending&priority=high&unknown=ignored", "")
	h.ListTasks(ctx)

	if got := ctx.Response.StatusCode(); got != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", got, ctx.Response.Body())
	}
	var tasks []domain.Task
	if err := json.Unmarshal(ctx.Response.Body(), &tasks); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(tasks), tasks)
	}
	if tasks[0].ID != first.ID || tasks[1].ID != third.ID {
		t.Errorf("order = [%s %s], want creation order [%s %s]", tasks[0].ID, tasks[1].ID, first.ID, third.ID)
	}
}

func TestListTasksEmptyStoreReturnsArray(t *testing.T) {
	h := newTaskHandler(t)

	ctx := doRequest(http.MethodGet, "/tasks", "")
	h.ListTasks(ctx)

	if got := string(ctx.Response.Body()); got != "[]" {
		t.Errorf("body = %q, want empty JSON array", got)
	}
}

func TestListTasksRejectsInvalidFilter(t *testing.T) {
	h := newTaskHandler(t)

	ctx := doRequest(http.MethodGet, "/tasks?status=archived", "")
	h.ListTasks(ctx)

	if got := ctx.Response.StatusCode(); got != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", got)
	}
	body := decodeError(t, ctx)
	if len(body.Error.Details) != 1 || body.Error.Details[0].Field != "status" {
		t.Errorf("details = %+v, want one status violation", body.Error.Details)
	}
}

func TestDeleteTask(t *testing.T) {
	h := newTaskHandler(t)

	created := createTask(t, h, `{"title":"done soon","priority":"low"}`)

	ctx := doRequest(http.MethodDelete, "/tasks/"+created.ID, "")
	ctx.SetUserValue("id", created.ID)
	h.DeleteTask(ctx)

	if got := ctx.Response.StatusCode(); got != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", got)
	}
	if len(ctx.Response.Body()) != 0 {
		t.Errorf("delete body = %q, want empty", ctx.Response.Body())
	}

	again := doRequest(http.MethodDelete, "/tasks/"+created.ID, "")
	again.SetUserValue("id", created.ID)
	h.DeleteTask(again)
	if got := again.Response.StatusCode(); got != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", got)
	}
}

// Mirrors the end-to-end flow: create, complete, delete, then observe 404.
func TestTaskLifecycleScenario(t *testing.T) {
	h := newTaskHandler(t)

	created := createTask(t, h, `{"title":"Write spec","priority":"medium"}`)
	if created.Status != domain.StatusPending {
		t.Fatalf("status = %q, want pending", created.Status)
	}

	update := doRequest(http.MethodPut, "/tasks/"+created.ID, `{"status":"completed"}`)
	update.SetUserValue("id", created.ID)
	h.UpdateTask(update)
	updated := decodeTask(t, update)
	if updated.Status != domain.StatusCompleted || updated.Title != "Write spec" {
		t.Fatalf("after update: %+v", updated)
	}

	del := doRequest(http.MethodDelete, "/tasks/"+created.ID, "")
	del.SetUserValue("id", created.ID)
	h.DeleteTask(del)
	if got := del.Response.StatusCode(); got != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", got)
	}

	get := doRequest(http.MethodGet, "/tasks/"+created.ID, "")
	get.SetUserValue("id", created.ID)
	h.GetTask(get)
	if got := get.Response.StatusCode(); got != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", got)
	}
}
