package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"tailor-backend/internal/logger"
	"tailor-backend/internal/services"
	"tailor-backend/pkg/utils"
)

type DashboardHandler struct {
	Service *services.DashboardService
	log     zerolog.Logger
}

func NewDashboardHandler(s *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: s, log: logger.WithComponent("dashboard-handler")}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}
