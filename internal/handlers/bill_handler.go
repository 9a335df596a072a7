package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"tailor-backend/internal/billing"
	"tailor-backend/internal/logger"
	"tailor-backend/internal/models"
	"tailor-backend/internal/services"
	"tailor-backend/pkg/utils"
)

type BillHandler struct {
	Bills        *services.BillService
	Payments     *services.PaymentLedger
	CarryForward *services.CarryForward
	Receipts     *services.ReceiptService
	log          zerolog.Logger
}

func NewBillHandler(bills *services.BillService, payments *services.PaymentLedger, cf *services.CarryForward, receipts *services.ReceiptService) *BillHandler {
	return &BillHandler{
		Bills:        bills,
		Payments:     payments,
		CarryForward: cf,
		Receipts:     receipts,
		log:          logger.WithComponent("bill-handler"),
	}
}

// CreateBill validates and commits a bill with its stock deductions.
func (h *BillHandler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBillRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	bill, err := h.Bills.CreateBill(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusCreated, billing.Summarize(bill))
}

func (h *BillHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	bill, err := h.Bills.GetBill(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, bill)
}

func (h *BillHandler) ListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.Bills.ListBills(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, bills)
}

// AddPayment appends a payment; anything above the due is refused with 409.
func (h *BillHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	summary, err := h.Payments.RecordPayment(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusCreated, summary)
}

func (h *BillHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Payments.Status(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"bill_id":     summary.ID,
		"grand_total": summary.GrandTotal,
		"paid":        summary.Paid,
		"due":         summary.Due,
		"status":      summary.Status,
	})
}

// GetReceipt streams the bill receipt as a PDF download.
func (h *BillHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	data, err := h.Receipts.GetReceiptData(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	pdf, err := h.Receipts.GenerateReceiptPDF(data)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=bill_%s.pdf", data.Bill.BillNumber))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Write(pdf)
}

// Candidates lists measurement sets a line can copy, current bill first.
// ?limit=N stops after N candidates.
func (h *BillHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	var req models.CandidatesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Category == "" {
		writeError(w, h.log, billing.Invalid("category", "category is required"))
		return
	}
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, h.log, billing.Invalid("limit", "limit must be a positive number"))
			return
		}
		limit = n
	}

	seq, err := h.CarryForward.Candidates(r.Context(), req.CustomerID, req.Category, req.ExcludeLineID, req.Lines)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	out := []billing.Candidate{}
	for c := range seq {
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	utils.JSON(w, http.StatusOK, out)
}

// CategoryHandler exposes the configured categories and their measurement fields.
type CategoryHandler struct {
	Categories billing.CategoryFields
}

type categoryResponse struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	out := make([]categoryResponse, 0, len(h.Categories))
	for _, name := range h.Categories.Names() {
		out = append(out, categoryResponse{Name: name, Fields: h.Categories.Fields(name)})
	}
	utils.JSON(w, http.StatusOK, out)
}
