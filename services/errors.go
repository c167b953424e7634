package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrLastInvoiceItem is returned when deleting an item would leave its
// invoice with no items.
var ErrLastInvoiceItem = errors.New("cannot delete the last invoice item")

// ValidationError reports malformed client input. Nothing is persisted when
// one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// OverpaymentError reports a payment that would push the paid sum past the
// invoice total. Remaining is the exact amount still payable.
type OverpaymentError struct {
	Remaining decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("Payment would exceed invoice total. Remaining amount: %s", e.Remaining)
}
