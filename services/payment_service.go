package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/school-billing/models"
)

// PaymentService is the append-only payment ledger. It accepts payments
// against an invoice, never letting the paid sum exceed the invoice total,
// and derives the PAID status transition from the payment sum.
type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

type CreatePaymentInput struct {
	Amount        decimal.Decimal
	PaymentDate   time.Time
	PaymentMethod string
}

// Create records a payment for the invoice. The whole check-and-append runs
// in one transaction with the invoice row locked, so two concurrent payments
// cannot both pass the overpayment check.
//
// When the paid sum reaches the total the invoice flips to PAID. This
// happens even if the invoice is CANCELLED, matching long-standing ledger
// behavior; see DESIGN.md before changing it.
func (s *PaymentService) Create(invoiceID uint, in CreatePaymentInput) (*models.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, validationErrorf("payment amount must be positive")
	}

	payment := &models.Payment{
		InvoiceID:     invoiceID,
		PaymentDate:   in.PaymentDate,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := lockForUpdate(tx).First(&invoice, invoiceID).Error; err != nil {
			return err
		}

		var existing []models.Payment
		if err := tx.Where("invoice_id = ?", invoice.ID).Find(&existing).Error; err != nil {
			return err
		}
		paidSoFar := decimal.Zero
		for _, p := range existing {
			paidSoFar = paidSoFar.Add(p.Amount)
		}

		newTotalPaid := paidSoFar.Add(in.Amount)
		if newTotalPaid.GreaterThan(invoice.TotalAmount) {
			return &OverpaymentError{Remaining: invoice.TotalAmount.Sub(paidSoFar)}
		}

		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		if newTotalPaid.GreaterThanOrEqual(invoice.TotalAmount) {
			if err := tx.Model(&invoice).Update("status", models.InvoiceStatusPaid).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// GetByInvoice returns the live payments for an invoice in creation order.
func (s *PaymentService) GetByInvoice(invoiceID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.Where("invoice_id = ?", invoiceID).Order("id").Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// GetByID returns a payment that belongs to the given invoice.
func (s *PaymentService) GetByID(paymentID, invoiceID uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.Where("invoice_id = ?", invoiceID).First(&payment, paymentID).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// lockForUpdate takes a row-level lock where the dialect supports one.
// SQLite has no FOR UPDATE; its single-writer transactions already
// serialize concurrent payment creation.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
