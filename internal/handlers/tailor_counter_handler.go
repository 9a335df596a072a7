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

type TailorCounterHandler struct {
	Service *services.TailorCounterService
	log     zerolog.Logger
}

func NewTailorCounterHandler(s *services.TailorCounterService) *TailorCounterHandler {
	return &TailorCounterHandler{Service: s, log: logger.WithComponent("tailor-counter-handler")}
}

func (h *TailorCounterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.TailorCounterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tc, err := h.Service.CreateTailorCounter(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusCreated, tc)
}

func (h *TailorCounterHandler) Get(w http.ResponseWriter, r *http.Request) {
	tc, err := h.Service.GetTailorCounter(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, tc)
}

func (h *TailorCounterHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListTailorCounters(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, list)
}

func (h *TailorCounterHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.TailorCounterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tc, err := h.Service.UpdateTailorCounter(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, tc)
}

func (h *TailorCounterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteTailorCounter(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
