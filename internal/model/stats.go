package model

import "time"

// DashboardStats is derived from a CaseSnapshot on demand and never stored.
type DashboardStats struct {
	Total          int                `json:"total"`
	Pending        int                `json:"pending"`
	CompletedToday int                `json:"completed_today"`
	Overdue        int                `json:"overdue"`
	ByStatus       map[CaseStatus]int `json:"by_status"`
	ByProcess      map[string]int     `json:"by_process"`
	FetchedAt      time.Time          `json:"fetched_at"`
}

type ActivityKind string

const (
	ActivityStarted   ActivityKind = "STARTED"
	ActivityCompleted ActivityKind = "COMPLETED"
	ActivityAssigned  ActivityKind = "ASSIGNED"
	ActivityOverdue   ActivityKind = "OVERDUE"
)

type ActivityItem struct {
	ID          string       `json:"id"`
	Kind        ActivityKind `json:"kind"`
	CaseID      string       `json:"case_id"`
	Description string       `json:"description"`
	ActorName   string       `json:"actor_name,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

type PerformanceMetrics struct {
	TotalCases         int     `json:"total_cases"`
	CasesLast7Days     int     `json:"cases_last_7_days"`
	CasesLast30Days    int     `json:"cases_last_30_days"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
	CompletionRate     float64 `json:"completion_rate"`
	CurrentLoad        int     `json:"current_load"`
}
