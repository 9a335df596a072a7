package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"tailor-backend/internal/billing"
	"tailor-backend/internal/logger"
	"tailor-backend/internal/metrics"
	"tailor-backend/internal/models"
	"tailor-backend/internal/money"
	"tailor-backend/internal/repositories"
	"tailor-backend/internal/store"
	"tailor-backend/internal/timeutil"
)

// BillService commits drafts and reads committed bills. Committing a bill and
// deducting its stock is one unit of work.
type BillService struct {
	DB         store.Store
	Repo       *repositories.BillRepository
	Customers  *repositories.CustomerRepository
	Ledger     *StockLedger
	Categories billing.CategoryFields

	log zerolog.Logger
}

func NewBillService(db store.Store, ledger *StockLedger, categories billing.CategoryFields) *BillService {
	return &BillService{
		DB:         db,
		Repo:       repositories.NewBillRepository(db),
		Customers:  repositories.NewCustomerRepository(db),
		Ledger:     ledger,
		Categories: categories,
		log:        logger.WithComponent("bill-service"),
	}
}

// NewDraft starts an empty bill using the configured categories.
func (s *BillService) NewDraft() *billing.Draft {
	return billing.NewDraft(s.Categories)
}

// DraftFromRequest builds a draft from a submitted form. Every problem found
// is reported together.
func (s *BillService) DraftFromRequest(ctx context.Context, req *models.CreateBillRequest) (*billing.Draft, error) {
	d := s.NewDraft()
	verr := &billing.ValidationError{}

	d.SetCustomer(req.CustomerID)
	d.SetBillNumber(req.BillNumber)

	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		verr.Add("date", err.Error())
	}
	delivery, err := timeutil.ParseDate(req.DeliveryDate)
	if err != nil {
		verr.Add("delivery_date", err.Error())
	}
	d.SetDates(date, delivery)

	if err := d.SetDiscount(req.Discount); err != nil {
		mergeViolations(verr, "", err)
	}
	if err := d.SetAdvance(req.Advance); err != nil {
		mergeViolations(verr, "", err)
	}

	// reqIdx[k] is the request index of the draft's k-th line.
	var reqIdx []int
	for i, item := range req.Items {
		field := fmt.Sprintf("items[%d]", i)
		stock, err := s.Ledger.Stocks.Get(ctx, item.StockID)
		switch {
		case item.StockID == "":
			stock = &models.Stock{}
		case store.IsNotFound(err):
			verr.Add(field+".stock_id", "stock item not found")
			continue
		case err != nil:
			return nil, err
		}

		amount, ok := itemAmount(item)
		if !ok {
			verr.Add(field+".total", "exactly one of price or total is required")
			continue
		}
		lineID, err := d.AddLine(*stock, item.Quantity, amount, item.Description)
		if err != nil {
			mergeViolations(verr, field, err)
			continue
		}
		reqIdx = append(reqIdx, i)
		if err := d.SetMeasurements(lineID, item.Measurements); err != nil {
			mergeViolations(verr, field, err)
		}
	}

	if verr.Empty() {
		return d, nil
	}

	// report the draft's own rules alongside the form errors, with line rules
	// renamed to the request line they came from.
	var derr *billing.ValidationError
	if errors.As(d.Validate(), &derr) {
		for _, v := range derr.Violations {
			if v.Field == "items" && len(req.Items) > 0 {
				continue
			}
			field, ok := requestField(v.Field, reqIdx)
			if !ok || hasField(verr, field) {
				continue
			}
			verr.Add(field, v.Message)
		}
	}
	return nil, verr
}

// requestField maps a draft field such as "items[1].total" to the request
// line that produced draft line 1.
func requestField(field string, reqIdx []int) (string, bool) {
	rest, ok := strings.CutPrefix(field, "items[")
	if !ok {
		return field, true
	}
	num, tail, ok := strings.Cut(rest, "]")
	if !ok {
		return field, false
	}
	k, err := strconv.Atoi(num)
	if err != nil || k < 0 || k >= len(reqIdx) {
		return field, false
	}
	return fmt.Sprintf("items[%d]%s", reqIdx[k], tail), true
}

func hasField(verr *billing.ValidationError, field string) bool {
	for _, v := range verr.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

func itemAmount(item models.CreateBillItemRequest) (billing.Amount, bool) {
	switch {
	case item.Total != nil && item.Price == nil:
		return billing.LineTotal(*item.Total), true
	case item.Price != nil && item.Total == nil:
		return billing.UnitPrice(*item.Price), true
	}
	return billing.Amount{}, false
}

// mergeViolations copies the violations of a *billing.ValidationError into
// verr, prefixing their fields. Other errors become a single violation.
func mergeViolations(verr *billing.ValidationError, prefix string, err error) {
	join := func(f string) string {
		if prefix == "" {
			return f
		}
		return prefix + "." + f
	}
	var ve *billing.ValidationError
	if errors.As(err, &ve) {
		for _, v := range ve.Violations {
			verr.Add(join(v.Field), v.Message)
		}
		return
	}
	verr.Add(join("error"), err.Error())
}

// CreateBill validates and commits a submitted bill.
func (s *BillService) CreateBill(ctx context.Context, req *models.CreateBillRequest) (*models.Bill, error) {
	d, err := s.DraftFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Commit(ctx, d)
}

// Commit persists the draft and deducts stock for every line. Either all of
// it happens or none of it does:
//  1. the draft is validated and every referenced stock id is locked
//  2. quantities are checked per stock item, summed over all lines
//  3. the bill and the sales are written in one store transaction, or, when
//     the store has none, applied in order and undone on failure
func (s *BillService) Commit(ctx context.Context, d *billing.Draft) (*models.Bill, error) {
	bill, err := s.commit(ctx, d)
	if err != nil {
		metrics.BillCommitFailures.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}
	metrics.BillsCommitted.Inc()
	metrics.StockAdjustments.WithLabelValues(string(models.StockTransactionSale)).Add(float64(len(bill.Items)))
	return bill, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, billing.ErrValidation):
		return metrics.ReasonValidation
	case errors.Is(err, billing.ErrInsufficientStock):
		return metrics.ReasonInsufficient
	default:
		return metrics.ReasonStorage
	}
}

func (s *BillService) commit(ctx context.Context, d *billing.Draft) (*models.Bill, error) {
	bill, err := d.Build()
	if err != nil {
		return nil, err
	}
	if _, err := s.Customers.Get(ctx, bill.CustomerID); err != nil {
		if store.IsNotFound(err) {
			return nil, billing.Invalid("customer_id", "customer not found")
		}
		return nil, err
	}

	need := make(map[string]int)
	for _, it := range bill.Items {
		need[it.StockID] += it.Quantity
	}
	ids := make([]string, 0, len(need))
	for id := range need {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	unlock, err := s.Ledger.lock(ctx, ids...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.checkStock(ctx, ids, need); err != nil {
		return nil, err
	}

	if store.SupportsTx(s.DB) {
		err = runInTx(ctx, s.DB, func(ctx context.Context, tx store.Store) error {
			return s.apply(ctx, tx, &bill)
		})
	} else {
		err = s.applyWithCompensation(ctx, &bill)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("bill_id", bill.ID).Str("bill_number", bill.BillNumber).
		Int("lines", len(bill.Items)).Str("grand_total", money.Format(bill.GrandTotal)).
		Msg("bill committed")
	return &bill, nil
}

func (s *BillService) checkStock(ctx context.Context, ids []string, need map[string]int) error {
	for _, id := range ids {
		stock, err := s.Ledger.Stocks.Get(ctx, id)
		if store.IsNotFound(err) {
			return billing.Invalid("items", fmt.Sprintf("stock item %s not found", id))
		}
		if err != nil {
			return err
		}
		if stock.Quantity < need[id] {
			return &billing.InsufficientStockError{StockID: id, Available: stock.Quantity, Requested: need[id]}
		}
	}
	return nil
}

func (s *BillService) apply(ctx context.Context, db store.Store, bill *models.Bill) error {
	if err := s.Repo.WithStore(db).Create(ctx, bill); err != nil {
		return err
	}
	ref := BillRef{ID: bill.ID, Number: bill.BillNumber, Date: bill.Date}
	for _, it := range bill.Items {
		if _, err := s.Ledger.apply(ctx, db, it.StockID, -it.Quantity, saleEntry(ref)); err != nil {
			return err
		}
	}
	return nil
}

// applyWithCompensation is used when the store cannot run transactions. On a
// failure the deductions already made are reversed with adjustment entries and
// the bill record is removed.
func (s *BillService) applyWithCompensation(ctx context.Context, bill *models.Bill) error {
	if err := s.Repo.Create(ctx, bill); err != nil {
		return err
	}
	ref := BillRef{ID: bill.ID, Number: bill.BillNumber, Date: bill.Date}

	var applied []models.BillLineItem
	for _, it := range bill.Items {
		if _, err := s.Ledger.apply(ctx, s.DB, it.StockID, -it.Quantity, saleEntry(ref)); err != nil {
			s.compensate(context.WithoutCancel(ctx), bill, applied)
			return err
		}
		applied = append(applied, it)
	}
	return nil
}

func (s *BillService) compensate(ctx context.Context, bill *models.Bill, applied []models.BillLineItem) {
	for i := len(applied) - 1; i >= 0; i-- {
		it := applied[i]
		_, err := s.Ledger.apply(ctx, s.DB, it.StockID, it.Quantity, models.StockTransaction{
			Kind:       models.StockTransactionAdjustment,
			Reason:     "reversal of failed bill " + bill.BillNumber,
			BillID:     bill.ID,
			BillNumber: bill.BillNumber,
		})
		if err != nil {
			s.log.Error().Err(err).Str("stock_id", it.StockID).Int("quantity", it.Quantity).
				Msg("failed to reverse stock deduction")
		}
	}
	if err := s.DB.Remove(ctx, store.Bills, bill.ID); err != nil {
		s.log.Error().Err(err).Str("bill_id", bill.ID).Msg("failed to remove partially committed bill")
	}
}

// GetBill returns a bill with its customer resolved and settlement derived.
func (s *BillService) GetBill(ctx context.Context, id string) (*models.BillSummary, error) {
	b, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.resolveCustomer(ctx, b)
	summary := billing.Summarize(b)
	return &summary, nil
}

// ListBills returns every bill, newest first, with settlement derived.
func (s *BillService) ListBills(ctx context.Context) ([]models.BillSummary, error) {
	bills, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.Customers.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}

	out := make([]models.BillSummary, 0, len(bills))
	for i := len(bills) - 1; i >= 0; i-- {
		b := bills[i]
		b.Customer = byID[b.CustomerID]
		out = append(out, billing.Summarize(b))
	}
	return out, nil
}

// ListCustomerBills returns a customer's bills in commit order.
func (s *BillService) ListCustomerBills(ctx context.Context, customerID string) ([]models.BillSummary, error) {
	bills, err := s.Repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]models.BillSummary, 0, len(bills))
	for _, b := range bills {
		out = append(out, billing.Summarize(b))
	}
	return out, nil
}

// resolveCustomer fills b.Customer. A deleted customer leaves it nil.
func (s *BillService) resolveCustomer(ctx context.Context, b *models.Bill) {
	c, err := s.Customers.Get(ctx, b.CustomerID)
	if err != nil {
		if !store.IsNotFound(err) {
			s.log.Warn().Err(err).Str("bill_id", b.ID).Msg("failed to resolve bill customer")
		}
		return
	}
	b.Customer = c
}
