package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// flexString tolerates engine versions that serialize the same field as a
// JSON string or a JSON number (app_number notably changed across releases).
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unexpected value %q: %w", string(data), err)
	}
	*f = flexString(n.String())
	return nil
}

type rawLoginResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	RefreshToken string `json:"refresh_token"`
}

type rawUser struct {
	UID       string `json:"usr_uid"`
	Username  string `json:"usr_username"`
	FirstName string `json:"usr_firstname"`
	LastName  string `json:"usr_lastname"`
	Email     string `json:"usr_email"`
}

type rawCase struct {
	UID              string     `json:"app_uid"`
	Number           flexString `json:"app_number"`
	Title            string     `json:"app_title"`
	Status           string     `json:"app_status"`
	ProcessUID       string     `json:"pro_uid"`
	ProcessTitle     string     `json:"app_pro_title"`
	TaskUID          string     `json:"tas_uid"`
	TaskTitle        string     `json:"app_tas_title"`
	UserUID          string     `json:"usr_uid"`
	UserFirstName    string     `json:"usr_firstname"`
	UserLastName     string     `json:"usr_lastname"`
	CreatorFirstName string     `json:"usrcr_usr_firstname"`
	CreatorLastName  string     `json:"usrcr_usr_lastname"`
	CreateDate       string     `json:"app_create_date"`
	UpdateDate       string     `json:"app_update_date"`
	FinishDate       string     `json:"app_finish_date"`
	TaskDueDate      string     `json:"del_task_due_date"`
	ThreadStatus     string     `json:"app_thread_status"`
}

type rawPagedCases struct {
	Data  []rawCase `json:"data"`
	Total int       `json:"total"`
}

type rawProcess struct {
	UID         string `json:"pro_uid"`
	Title       string `json:"pro_title"`
	Description string `json:"pro_description"`
}

type rawTask struct {
	UID   string `json:"tas_uid"`
	Title string `json:"tas_title"`
}

type rawStartCaseResponse struct {
	AppUID    string     `json:"app_uid"`
	AppNumber flexString `json:"app_number"`
}

type rawErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// UserProfile is the identity slice of the engine /user response the gateway
// cares about.
type UserProfile struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
	Email     string
}
