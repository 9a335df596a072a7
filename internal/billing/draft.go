package billing

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tailor-backend/internal/models"
	"tailor-backend/internal/money"
)

// Amount is the money entered for a line: either a unit price or a line total.
// The line total is what gets stored; a unit price is multiplied out once when
// the line is created or re-priced.
type Amount struct {
	value   decimal.Decimal
	perUnit bool
}

// UnitPrice is an amount per unit.
func UnitPrice(v decimal.Decimal) Amount { return Amount{value: v, perUnit: true} }

// LineTotal is an amount for the whole line.
func LineTotal(v decimal.Decimal) Amount { return Amount{value: v} }

func (a Amount) total(quantity int) decimal.Decimal {
	if a.perUnit {
		return a.value.Mul(decimal.NewFromInt(int64(quantity)))
	}
	return a.value
}

// Draft is a bill being composed. It is not safe for concurrent use.
type Draft struct {
	categories   CategoryFields
	customerID   string
	billNumber   string
	date         time.Time
	deliveryDate time.Time
	items        []models.BillLineItem
	discount     decimal.Decimal
	advance      decimal.Decimal
}

// NewDraft starts an empty bill. categories is used to describe the expected
// measurement fields of each line.
func NewDraft(categories CategoryFields) *Draft {
	return &Draft{categories: categories}
}

func (d *Draft) SetCustomer(customerID string) { d.customerID = strings.TrimSpace(customerID) }

func (d *Draft) SetBillNumber(number string) { d.billNumber = strings.TrimSpace(number) }

func (d *Draft) SetDates(issue, delivery time.Time) {
	d.date = issue
	d.deliveryDate = delivery
}

// AddLine appends a line for stock and returns its id. The category is copied
// from stock now and never follows later changes to it.
func (d *Draft) AddLine(stock models.Stock, quantity int, amount Amount, description string) (string, error) {
	verr := &ValidationError{}
	if err := money.RequireQuantity("quantity", quantity, 1); err != nil {
		verr.Add("quantity", err.Error())
	}
	if err := money.RequireNonNegative("amount", amount.value); err != nil {
		verr.Add("amount", err.Error())
	}
	if err := verr.OrNil(); err != nil {
		return "", err
	}

	total := amount.total(quantity)
	line := models.BillLineItem{
		ID:           uuid.NewString(),
		StockID:      stock.ID,
		Category:     stock.Category,
		Quantity:     quantity,
		Total:        total,
		Price:        unitPrice(total, quantity),
		Description:  description,
		Measurements: models.Measurements{},
	}
	d.items = append(d.items, line)
	return line.ID, nil
}

// RemoveLine drops a line from the draft.
func (d *Draft) RemoveLine(lineID string) error {
	i, err := d.index(lineID)
	if err != nil {
		return err
	}
	d.items = slices.Delete(d.items, i, i+1)
	return nil
}

// SetQuantity changes a line's quantity. The line total stays as entered and
// the unit price is derived again.
func (d *Draft) SetQuantity(lineID string, quantity int) error {
	if err := money.RequireQuantity("quantity", quantity, 1); err != nil {
		return Invalid("quantity", err.Error())
	}
	i, err := d.index(lineID)
	if err != nil {
		return err
	}
	line := &d.items[i]
	line.Quantity = quantity
	line.Price = unitPrice(line.Total, quantity)
	return nil
}

// SetLineTotal replaces the total of a line.
func (d *Draft) SetLineTotal(lineID string, total decimal.Decimal) error {
	return d.SetAmount(lineID, LineTotal(total))
}

// SetAmount re-prices a line from either a unit price or a line total.
func (d *Draft) SetAmount(lineID string, amount Amount) error {
	if err := money.RequireNonNegative("amount", amount.value); err != nil {
		return Invalid("amount", err.Error())
	}
	i, err := d.index(lineID)
	if err != nil {
		return err
	}
	line := &d.items[i]
	line.Total = amount.total(line.Quantity)
	line.Price = unitPrice(line.Total, line.Quantity)
	return nil
}

// SetMeasurements replaces the measurement map of a line. Keys are not checked
// against the category's fields; values must be strings or numbers.
func (d *Draft) SetMeasurements(lineID string, m models.Measurements) error {
	i, err := d.index(lineID)
	if err != nil {
		return err
	}
	verr := &ValidationError{}
	for key, v := range m {
		if !isMeasurementValue(v) {
			verr.Add("measurements."+key, fmt.Sprintf("must be a string or number, got %T", v))
		}
	}
	if err := verr.OrNil(); err != nil {
		return err
	}
	d.items[i].Measurements = m.Clone()
	if d.items[i].Measurements == nil {
		d.items[i].Measurements = models.Measurements{}
	}
	return nil
}

func (d *Draft) SetDiscount(v decimal.Decimal) error {
	if err := money.RequireNonNegative("discount", v); err != nil {
		return Invalid("discount", err.Error())
	}
	d.discount = v
	return nil
}

func (d *Draft) SetAdvance(v decimal.Decimal) error {
	if err := money.RequireNonNegative("advance", v); err != nil {
		return Invalid("advance", err.Error())
	}
	d.advance = v
	return nil
}

// Lines returns a copy of the current lines.
func (d *Draft) Lines() []models.BillLineItem {
	out := make([]models.BillLineItem, len(d.items))
	for i, it := range d.items {
		it.Measurements = it.Measurements.Clone()
		out[i] = it
	}
	return out
}

// ExpectedFields returns the ordered measurement fields for a line's category.
func (d *Draft) ExpectedFields(lineID string) ([]string, error) {
	i, err := d.index(lineID)
	if err != nil {
		return nil, err
	}
	return d.categories.Fields(d.items[i].Category), nil
}

// Totals computes the current figures. A draft has no payments yet.
func (d *Draft) Totals() Totals {
	return ComputeTotals(d.items, d.discount, d.advance, nil)
}

// Validate reports every rule the draft currently breaks.
func (d *Draft) Validate() error {
	verr := &ValidationError{}
	if d.customerID == "" {
		verr.Add("customer_id", "customer is required")
	}
	if d.billNumber == "" {
		verr.Add("bill_number", "bill number is required")
	}
	if d.date.IsZero() {
		verr.Add("date", "bill date is required")
	}
	if d.deliveryDate.IsZero() {
		verr.Add("delivery_date", "delivery date is required")
	}
	if len(d.items) == 0 {
		verr.Add("items", "at least one item is required")
	}
	for i, it := range d.items {
		field := fmt.Sprintf("items[%d]", i)
		if it.StockID == "" {
			verr.Add(field+".stock_id", "stock item is required")
		}
		if strings.TrimSpace(it.Category) == "" {
			verr.Add(field+".category", "category is required")
		}
		if it.Quantity < 1 {
			verr.Add(field+".quantity", "quantity is required")
		}
		if !it.Total.IsPositive() {
			verr.Add(field+".total", "total is required")
		}
		if len(it.Measurements) == 0 {
			verr.Add(field+".measurements", "measurements are required")
		}
	}

	t := d.Totals()
	if t.Discount.GreaterThan(t.Subtotal) {
		verr.Add("discount", fmt.Sprintf("discount %s exceeds subtotal %s", money.Format(t.Discount), money.Format(t.Subtotal)))
	} else if t.Advance.GreaterThan(t.GrandTotal) {
		verr.Add("advance", fmt.Sprintf("advance %s exceeds grand total %s", money.Format(t.Advance), money.Format(t.GrandTotal)))
	}
	return verr.OrNil()
}

// Build validates the draft and returns the bill to commit. The bill has no id
// yet; the store assigns one.
func (d *Draft) Build() (models.Bill, error) {
	if err := d.Validate(); err != nil {
		return models.Bill{}, err
	}
	b := models.Bill{
		BillNumber:   d.billNumber,
		CustomerID:   d.customerID,
		Date:         d.date,
		DeliveryDate: d.deliveryDate,
		Items:        d.Lines(),
		Discount:     d.discount,
		Advance:      d.advance,
		Payments:     []models.Payment{},
	}
	Recompute(&b)
	return b, nil
}

func (d *Draft) index(lineID string) (int, error) {
	i := slices.IndexFunc(d.items, func(it models.BillLineItem) bool { return it.ID == lineID })
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrLineNotFound, lineID)
	}
	return i, nil
}

func unitPrice(total decimal.Decimal, quantity int) decimal.Decimal {
	if quantity < 1 {
		return decimal.Zero
	}
	return total.DivRound(decimal.NewFromInt(int64(quantity)), money.DisplayPlaces)
}

func isMeasurementValue(v interface{}) bool {
	switch v.(type) {
	case string, float64, float32, int, int32, int64, json.Number:
		return true
	}
	return false
}
