package handler

import (
	"net/http"

	"go-expediente-dashboard/internal/catalog"
	"go-expediente-dashboard/internal/model"
)

// CatalogHandler serves the static expediente type catalog the dashboard's
// "new case" form is built from.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

func (h *CatalogHandler) Expedientes(w http.ResponseWriter, r *http.Request) {
	types := catalog.ExpedienteTypes()
	writeSuccess(w, http.StatusOK, types, &model.Meta{Total: len(types)})
}
