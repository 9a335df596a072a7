package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"tailor-backend/internal/logger"
	"tailor-backend/internal/models"
	"tailor-backend/internal/services"
	"tailor-backend/pkg/utils"
)

type OrganizationHandler struct {
	Service *services.OrganizationService
	log     zerolog.Logger
}

func NewOrganizationHandler(s *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{Service: s, log: logger.WithComponent("organization-handler")}
}

// GetOrganization returns the shop profile, creating it from defaults on first read.
func (h *OrganizationHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := h.Service.GetOrganization(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, org)
}

func (h *OrganizationHandler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateOrganizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	org, err := h.Service.UpdateOrganization(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, org)
}
