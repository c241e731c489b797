package handler

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"go-expediente-dashboard/internal/model"
	"go-expediente-dashboard/internal/service"
	"go-expediente-dashboard/pkg/apierror"
)

type CaseHandler struct {
	service *service.CaseService
}

func NewCaseHandler(service *service.CaseService) *CaseHandler {
	return &CaseHandler{service: service}
}

// List serves the cached worklist, optionally filtered by status or
// process via query parameters.
func (h *CaseHandler) List(w http.ResponseWriter, r *http.Request) {
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	processID := strings.TrimSpace(r.URL.Query().Get("process"))

	var (
		cases     []model.CaseRecord
		fetchedAt time.Time
		err       error
	)

	switch {
	case status != "":
		cases, fetchedAt, err = h.service.CasesByStatus(r.Context(), model.CaseStatus(strings.ToUpper(status)))
	case processID != "":
		cases, fetchedAt, err = h.service.CasesByProcess(r.Context(), processID)
	default:
		cases, fetchedAt, err = h.service.GetAllCases(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, cases, &model.Meta{Total: len(cases), FetchedAt: &fetchedAt})
}

// Recent serves the newest cases from the cached worklist.
func (h *CaseHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	cases, fetchedAt, err := h.service.GetAllCases(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	sorted := make([]model.CaseRecord, len(cases))
	copy(sorted, cases)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].CreatedAt.After(sorted[b].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	writeSuccess(w, http.StatusOK, sorted, &model.Meta{Total: len(sorted), Limit: limit, FetchedAt: &fetchedAt})
}

// Search runs the engine's paged search for one process.
func (h *CaseHandler) Search(w http.ResponseWriter, r *http.Request) {
	processID := chi.URLParam(r, "processID")
	start := queryInt(r, "start", 0)
	limit := queryInt(r, "limit", 25)
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	cases, total, err := h.service.SearchByProcess(r.Context(), processID, start, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, cases, &model.Meta{Total: total, Limit: limit})
}

func (h *CaseHandler) Start(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.StartCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	caseID, err := h.service.StartCase(r.Context(), chi.URLParam(r, "processID"), payload.TaskID, payload.Variables)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, model.StartCaseResponse{CaseID: caseID}, nil)
}

func (h *CaseHandler) Variables(w http.ResponseWriter, r *http.Request) {
	vars, err := h.service.CaseVariables(r.Context(), chi.URLParam(r, "caseID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, vars, nil)
}

func (h *CaseHandler) UpdateVariables(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if err := h.service.UpdateCaseVariables(r.Context(), chi.URLParam(r, "caseID"), payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"updated": true}, nil)
}

func (h *CaseHandler) Route(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RouteCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if err := h.service.RouteCase(r.Context(), chi.URLParam(r, "caseID"), payload.TaskID, payload.UserID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"routed": true}, nil)
}

// Refresh drops the cache and refetches from the engine.
func (h *CaseHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Refresh(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"refreshed": true}, &model.Meta{Total: len(snap.Cases), FetchedAt: &snap.FetchedAt})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
