package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"tailor-backend/internal/logger"
	"tailor-backend/internal/models"
	"tailor-backend/internal/services"
	"tailor-backend/pkg/utils"
)

// ItemStatusHandler serves the work board of items in progress, ready and delivered.
type ItemStatusHandler struct {
	Service *services.ItemStatusService
	log     zerolog.Logger
}

func NewItemStatusHandler(s *services.ItemStatusService) *ItemStatusHandler {
	return &ItemStatusHandler{Service: s, log: logger.WithComponent("item-status-handler")}
}

func (h *ItemStatusHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateItemStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.Service.CreateEntry(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusCreated, entry)
}

func (h *ItemStatusHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.ListEntries(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, entries)
}

func (h *ItemStatusHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateItemStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.Service.UpdateEntry(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, entry)
}
