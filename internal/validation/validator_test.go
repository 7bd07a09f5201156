package validation

import (
	"testing"

	"github.com/taskstack/backend/api/transport"
	"github.com/taskstack/backend/domain"
)

func strPtr(s string) *string { return &s }

func TestCreateRequestValid(t *testing.T) {
	v := New()

	tests := []struct {
		name string
		req  transport.CreateTaskRequest
	}{
		{"minimal", transport.CreateTaskRequest{Title: "Write spec", Priority: "medium"}},
		{"all fields", transport.CreateTaskRequest{
			Title:         "Deploy",
			Description:   "ship it",
			Priority:      "critical",
			AssigneeEmail: "ops@example.com",
			DueDate:       "2026-09-01T12:00:00Z",
		}},
		{"offset timezone", transport.CreateTaskRequest{
			Title:    "Review",
			Priority: "low",
			DueDate:  "2026-09-01T12:00:00+02:00",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.Struct(tt.req); err != nil {
				t.Errorf("unexpected violations: %v", err)
			}
		})
	}
}

func TestCreateRequestReportsEveryViolation(t *testing.T) {
	v := New()

	err := v.Struct(transport.CreateTaskRequest{Title: "", Priority: "urgent"})
	if err == nil {
		t.Fatal("expected violations")
	}
	if !domain.IsDomainError(err, domain.ErrCodeValidation) {
		t.Fatalf("expected VALIDATION error, got %v", err)
	}

	details := domain.ViolationsOf(err)
	if len(details) != 2 {
		t.Fatalf("len(details) = %d, want exactly 2: %+v", len(details), details)
	}

	byField := map[string]domain.FieldViolation{}
	for _, d := range details {
		byField[d.Field] = d
	}
	if got := byField["title"]; got.Kind != KindRequired {
		t.Errorf("title violation kind = %q, want %q", got.Kind, KindRequired)
	}
	if got := byField["priority"]; got.Kind != KindEnum {
		t.Errorf("priority violation kind = %q, want %q", got.Kind, KindEnum)
	}
}

func TestCreateRequestFieldRules(t *testing.T) {
	v := New()
	longTitle := make([]byte, 201)
	for i := range longTitle {
		longTitle[i] = 'x'
	}

	tests := []struct {
		name     string
		req      transport.CreateTaskRequest
		field    string
		kind     string
	}{
		{"title too long", transport.CreateTaskRequest{Title: string(longTitle), Priority: "low"}, "title", KindLength},
		{"bad email", transport.CreateTaskRequest{Title: "t", Priority: "low", AssigneeEmail: "not-an-email"}, "assigneeEmail", KindFormat},
		{"bad due date", transport.CreateTaskRequest{Title: "t", Priority: "low", DueDate: "tomorrow"}, "dueDate", KindFormat},
		{"missing priority", transport.CreateTaskRequest{Title: "t"}, "priority", KindRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			details := domain.ViolationsOf(err)
			if len(details) != 1 {
				t.Fatalf("len(details) = %d, want 1: %+v", len(details), details)
			}
			if details[0].Field != tt.field || details[0].Kind != tt.kind {
				t.Errorf("violation = %+v, want field %q kind %q", details[0], tt.field, tt.kind)
			}
			if details[0].Message == "" {
				t.Error("violation message must not be empty")
			}
		})
	}
}

func TestUpdateRequestSubsets(t *testing.T) {
	v := New()

	if err := v.Struct(transport.UpdateTaskRequest{}); err != nil {
		t.Errorf("empty update payload must be valid, got %v", err)
	}
	if err := v.Struct(transport.UpdateTaskRequest{Status: strPtr("completed")}); err != nil {
		t.Errorf("single-field update must be valid, got %v", err)
	}

	err := v.Struct(transport.UpdateTaskRequest{
		Title:  strPtr(""),
		Status: strPtr("done"),
	})
	details := domain.ViolationsOf(err)
	if len(details) != 2 {
		t.Fatalf("len(details) = %d, want 2: %+v", len(details), details)
	}
}

func TestFilterQuery(t *testing.T) {
	v := New()

	if err := v.Struct(transport.TaskFilterQuery{}); err != nil {
		t.Errorf("empty filter must be valid, got %v", err)
	}
	if err := v.Struct(transport.TaskFilterQuery{Status: "pending", Priority: "high"}); err != nil {
		t.Errorf("valid filter rejected: %v", err)
	}

	err := v.Struct(transport.TaskFilterQuery{Status: "archived"})
	details := domain.ViolationsOf(err)
	if len(details) != 1 || details[0].Field != "status" || details[0].Kind != KindEnum {
		t.Errorf("details = %+v, want one status enum violation", details)
	}
}
