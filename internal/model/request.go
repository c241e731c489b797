package model

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresIn int64       `json:"expires_in"`
	User      SessionUser `json:"user"`
}

type StartCaseRequest struct {
	TaskID    string         `json:"task_id"`
	Variables map[string]any `json:"variables,omitempty"`
}

type StartCaseResponse struct {
	CaseID string `json:"case_id"`
}

type RouteCaseRequest struct {
	TaskID string `json:"task_id,omitempty"`
	UserID string `json:"user_id,omitempty"`
}
