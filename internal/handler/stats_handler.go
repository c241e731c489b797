package handler

import (
	"net/http"

	"go-expediente-dashboard/internal/model"
	"go-expediente-dashboard/internal/service"
)

type StatsHandler struct {
	service *service.StatsService
}

func NewStatsHandler(service *service.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, stats, &model.Meta{FetchedAt: &stats.FetchedAt})
}

func (h *StatsHandler) Activity(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Activity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, items, &model.Meta{Total: len(items)})
}

func (h *StatsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, counts, nil)
}

func (h *StatsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.service.Metrics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, metrics, nil)
}
