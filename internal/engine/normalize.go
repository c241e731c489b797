package engine

import (
	"strings"
	"time"

	"go-expediente-dashboard/internal/model"
)

// Engine timestamps arrive as "2006-01-02 15:04:05" in the engine's local
// zone; newer deployments emit RFC 3339. Both are accepted.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

func normalizeCases(raw []rawCase, loc *time.Location) []model.CaseRecord {
	records := make([]model.CaseRecord, 0, len(raw))
	for _, rc := range raw {
		records = append(records, normalizeCase(rc, loc))
	}
	return records
}

func normalizeCase(rc rawCase, loc *time.Location) model.CaseRecord {
	record := model.CaseRecord{
		ID:               rc.UID,
		Number:           string(rc.Number),
		Title:            rc.Title,
		Status:           normalizeStatus(rc.Status),
		ProcessID:        rc.ProcessUID,
		ProcessTitle:     rc.ProcessTitle,
		TaskTitle:        rc.TaskTitle,
		AssignedUserID:   rc.UserUID,
		AssignedUserName: joinName(rc.UserFirstName, rc.UserLastName),
		CreatedByName:    joinName(rc.CreatorFirstName, rc.CreatorLastName),
		CreatedAt:        parseEngineTime(rc.CreateDate, loc),
		UpdatedAt:        parseEngineTime(rc.UpdateDate, loc),
		DueAt:            parseEngineTime(rc.TaskDueDate, loc),
		ThreadStatus:     normalizeThreadStatus(rc.ThreadStatus),
	}

	if finished := parseEngineTime(rc.FinishDate, loc); !finished.IsZero() {
		record.FinishedAt = &finished
	}

	return record
}

func normalizeStatus(raw string) model.CaseStatus {
	return model.CaseStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

func normalizeThreadStatus(raw string) model.ThreadStatus {
	if strings.EqualFold(strings.TrimSpace(raw), string(model.ThreadClosed)) {
		return model.ThreadClosed
	}
	return model.ThreadOpen
}

func parseEngineTime(raw string, loc *time.Location) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "0000-00-00") {
		return time.Time{}
	}

	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t
		}
	}

	return time.Time{}
}

func joinName(first string, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
