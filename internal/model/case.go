package model

import "time"

type CaseStatus string

const (
	StatusDraft     CaseStatus = "DRAFT"
	StatusToDo      CaseStatus = "TO_DO"
	StatusCompleted CaseStatus = "COMPLETED"
	StatusCancelled CaseStatus = "CANCELLED"
	StatusPaused    CaseStatus = "PAUSED"
)

type ThreadStatus string

const (
	ThreadOpen   ThreadStatus = "OPEN"
	ThreadClosed ThreadStatus = "CLOSED"
)

// CaseRecord is an immutable snapshot of one engine case delegation. Records
// are never mutated locally; the repository replaces whole snapshots instead.
type CaseRecord struct {
	ID               string       `json:"id"`
	Number           string       `json:"number"`
	Title            string       `json:"title"`
	Status           CaseStatus   `json:"status"`
	ProcessID        string       `json:"process_id"`
	ProcessTitle     string       `json:"process_title"`
	TaskTitle        string       `json:"task_title"`
	AssignedUserID   string       `json:"assigned_user_id"`
	AssignedUserName string       `json:"assigned_user_name,omitempty"`
	CreatedByName    string       `json:"created_by_name,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	FinishedAt       *time.Time   `json:"finished_at,omitempty"`
	DueAt            time.Time    `json:"due_at"`
	ThreadStatus     ThreadStatus `json:"thread_status"`
}

// CaseSnapshot is the full ordered case set held in cache at one point in
// time. It is owned by the case service and replaced atomically on refresh.
type CaseSnapshot struct {
	Cases     []CaseRecord `json:"cases"`
	FetchedAt time.Time    `json:"fetched_at"`
}

type Process struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type ProcessTask struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
