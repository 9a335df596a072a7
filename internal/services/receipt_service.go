package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jung-kurt/gofpdf/v2"

	"tailor-backend/internal/billing"
	"tailor-backend/internal/models"
	"tailor-backend/internal/money"
	"tailor-backend/internal/repositories"
	"tailor-backend/internal/store"
	"tailor-backend/internal/timeutil"
)

// ReceiptData is everything printed on a bill receipt.
type ReceiptData struct {
	Organization *models.Organization
	Bill         *models.Bill
	StockNames   map[string]string
	Status       models.SettlementStatus
	Paid         string
}

// ReceiptService renders bill receipts as PDF.
type ReceiptService struct {
	Bills        *BillService
	Organization *OrganizationService
	Stocks       *repositories.StockRepository
	Categories   billing.CategoryFields
}

func NewReceiptService(bills *BillService, org *OrganizationService, stocks *repositories.StockRepository, categories billing.CategoryFields) *ReceiptService {
	return &ReceiptService{Bills: bills, Organization: org, Stocks: stocks, Categories: categories}
}

// GetReceiptData loads the bill, its customer and the organization header.
// Lines whose stock item was deleted print the stock id instead of a name.
func (s *ReceiptService) GetReceiptData(ctx context.Context, billID string) (*ReceiptData, error) {
	summary, err := s.Bills.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	org, err := s.Organization.GetOrganization(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	for _, it := range summary.Items {
		if _, ok := names[it.StockID]; ok {
			continue
		}
		st, err := s.Stocks.Get(ctx, it.StockID)
		switch {
		case err == nil:
			names[it.StockID] = st.Name
		case store.IsNotFound(err):
			names[it.StockID] = it.StockID
		default:
			return nil, err
		}
	}

	return &ReceiptData{
		Organization: org,
		Bill:         summary.Bill,
		StockNames:   names,
		Status:       summary.Status,
		Paid:         money.Format(summary.Paid),
	}, nil
}

// GenerateReceiptPDF renders a single bill.
func (s *ReceiptService) GenerateReceiptPDF(data *ReceiptData) ([]byte, error) {
	b := data.Bill
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, data.Organization.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 5, data.Organization.Address, "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 5, strings.Join(append(append([]string{}, data.Organization.Phones...), data.Organization.Emails...), "  |  "), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Bill Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, fmt.Sprintf("Bill %s", b.BillNumber), "1", 1, "L", true, 0, "")

	customerName, customerPhone := "-", "-"
	if b.Customer != nil {
		customerName, customerPhone = b.Customer.Name, b.Customer.Phone
	}
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Customer: %s", customerName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", customerPhone), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Date: %s", timeutil.FormatDate(b.Date)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Delivery: %s", timeutil.FormatDate(b.DeliveryDate)), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Items table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(60, 7, "Item", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Category", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Total", "1", 1, "C", true, 0, "")

	for _, it := range b.Items {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(60, 6, truncate(data.StockNames[it.StockID], 30), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, truncate(it.Category, 16), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, "Rs. "+money.Format(it.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, "Rs. "+money.Format(it.Total), "1", 1, "R", false, 0, "")

		if line := measurementLine(s.Categories.Fields(it.Category), it.Measurements); line != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.MultiCell(190, 5, line, "LRB", "L", false)
		}
	}
	pdf.Ln(5)

	// Totals
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, "Subtotal: Rs. "+money.Format(b.Total), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Discount: Rs. "+money.Format(b.Discount), "1", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Grand Total: Rs. "+money.Format(b.GrandTotal), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Paid: Rs. "+data.Paid, "1", 1, "L", false, 0, "")

	if data.Status == models.SettlementPaid {
		pdf.SetFillColor(200, 255, 200)
	} else {
		pdf.SetFillColor(255, 200, 200)
	}
	pdf.SetFont("Arial", "B", 14)
	dueText := "Amount Due: Rs. " + money.Format(b.Due)
	if data.Status == models.SettlementPaid {
		dueText = "FULLY PAID"
	}
	pdf.CellFormat(190, 10, dueText, "1", 1, "C", true, 0, "")

	// Payment History if any
	if len(b.Payments) > 0 || b.Advance.IsPositive() {
		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(190, 8, "Payment History", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(95, 7, "Date", "1", 0, "C", true, 0, "")
		pdf.CellFormat(95, 7, "Amount", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		if b.Advance.IsPositive() {
			pdf.CellFormat(95, 6, timeutil.FormatDate(b.Date)+" (advance)", "1", 0, "C", false, 0, "")
			pdf.CellFormat(95, 6, "Rs. "+money.Format(b.Advance), "1", 1, "R", false, 0, "")
		}
		for _, p := range b.Payments {
			pdf.CellFormat(95, 6, timeutil.FormatDate(p.Date), "1", 0, "C", false, 0, "")
			pdf.CellFormat(95, 6, "Rs. "+money.Format(p.Amount), "1", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// measurementLine prints measurements in the category's field order, then any
// extra keys the tailor added.
func measurementLine(fields []string, m models.Measurements) string {
	if len(m) == 0 {
		return ""
	}
	seen := make(map[string]bool, len(fields))
	var parts []string
	for _, f := range fields {
		if v, ok := m[f]; ok {
			parts = append(parts, fmt.Sprintf("%s: %v", f, v))
			seen[f] = true
		}
	}
	extra := make([]string, 0, len(m))
	for k := range m {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		parts = append(parts, fmt.Sprintf("%s: %v", k, m[k]))
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}
