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

type StockHandler struct {
	Service *services.StockService
	Ledger  *services.StockLedger
	log     zerolog.Logger
}

func NewStockHandler(s *services.StockService) *StockHandler {
	return &StockHandler{Service: s, Ledger: s.Ledger, log: logger.WithComponent("stock-handler")}
}

// LedgerResponse is a stock's reconstructed history.
type LedgerResponse struct {
	StockID        string                    `json:"stock_id"`
	Entries        []models.StockTransaction `json:"entries"`
	Balance        int                       `json:"balance"`
	QuantityOnHand int                       `json:"quantity_on_hand"`
	Consistent     bool                      `json:"consistent"`
}

func (h *StockHandler) CreateStock(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	stock, err := h.Service.CreateStock(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusCreated, stock)
}

func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	stock, err := h.Service.GetStock(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, stock)
}

func (h *StockHandler) ListStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.Service.ListStocks(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, stocks)
}

func (h *StockHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	stock, err := h.Service.UpdateStock(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, stock)
}

func (h *StockHandler) DeleteStock(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteStock(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdjustStock applies a manual add or deduct.
func (h *StockHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req models.AdjustStockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	stock, err := h.Service.AdjustStock(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, stock)
}

// GetLedger returns the opening entry and every recorded change with running
// balances.
func (h *StockHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	cur, err := h.Ledger.ReconstructLedger(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	entries := cur.Collect()
	resp := LedgerResponse{
		StockID:        id,
		Entries:        entries,
		Balance:        cur.Balance(),
		QuantityOnHand: cur.QuantityOnHand(),
	}
	resp.Consistent = resp.Balance == resp.QuantityOnHand
	if !resp.Consistent {
		h.log.Warn().Str("stock_id", id).Int("balance", resp.Balance).
			Int("quantity_on_hand", resp.QuantityOnHand).Msg("ledger does not match quantity on hand")
	}
	utils.JSON(w, http.StatusOK, resp)
}
