package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-expediente-dashboard/internal/model"
	"go-expediente-dashboard/internal/service"
)

type ProcessHandler struct {
	service *service.CaseService
}

func NewProcessHandler(service *service.CaseService) *ProcessHandler {
	return &ProcessHandler{service: service}
}

func (h *ProcessHandler) List(w http.ResponseWriter, r *http.Request) {
	procs, err := h.service.Processes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, procs, &model.Meta{Total: len(procs)})
}

func (h *ProcessHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ProcessTasks(r.Context(), chi.URLParam(r, "processID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tasks, &model.Meta{Total: len(tasks)})
}
