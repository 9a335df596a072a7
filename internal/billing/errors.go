package billing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Sentinel errors. Typed errors below match them through errors.Is so callers
// can branch without type assertions.
var (
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOverpayment       = errors.New("payment exceeds amount due")
	ErrLineNotFound      = errors.New("line item not found")
)

// Violation is a single user-correctable rule failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated rule, in the order they were checked.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Add records a violation.
func (e *ValidationError) Add(field, message string) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: message})
}

// Empty reports whether no violation was recorded.
func (e *ValidationError) Empty() bool { return len(e.Violations) == 0 }

// OrNil returns e as an error only when it holds violations.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

// Invalid builds a ValidationError with one violation.
func Invalid(field, message string) *ValidationError {
	e := &ValidationError{}
	e.Add(field, message)
	return e
}

// InsufficientStockError is returned when a deduction would drive quantity below zero.
type InsufficientStockError struct {
	StockID   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("cannot complete sale: stock %s has %d available, %d requested",
		e.StockID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// OverpaymentError is returned when a payment is larger than the current due.
type OverpaymentError struct {
	BillID string
	Amount decimal.Decimal
	Due    decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment of %s exceeds amount due %s on bill %s",
		e.Amount.StringFixed(2), e.Due.StringFixed(2), e.BillID)
}

func (e *OverpaymentError) Is(target error) bool { return target == ErrOverpayment }
