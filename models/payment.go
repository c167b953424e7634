package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment methods
const (
	PaymentMethodCash     = "CASH"
	PaymentMethodCard     = "CARD"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodCheck    = "CHECK"
)

// Payment rows are append-only: created once, never updated afterwards.
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
	InvoiceID     uint            `gorm:"not null;index" json:"invoice_id"`
	PaymentDate   time.Time       `gorm:"type:date;not null" json:"payment_date"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod string          `gorm:"size:20;not null" json:"payment_method"` // CASH, CARD, TRANSFER, CHECK
}

// TableName overrides the table name
func (Payment) TableName() string {
	return "payments"
}
