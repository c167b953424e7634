package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice statuses
const (
	InvoiceStatusPending   = "PENDING"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusOverdue   = "OVERDUE"
	InvoiceStatusCancelled = "CANCELLED"
)

type Invoice struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
	StudentID   uint            `gorm:"not null;index" json:"student_id"`
	Student     Student         `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	IssueDate   time.Time       `gorm:"type:date;not null;index" json:"issue_date"`
	DueDate     time.Time       `gorm:"type:date;not null" json:"due_date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"` // derived from items, never client-set
	Status      string          `gorm:"size:20;default:'PENDING';not null" json:"status"` // PENDING, PAID, OVERDUE, CANCELLED
	Items       []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Payments    []Payment       `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

// TableName overrides the table name
func (Invoice) TableName() string {
	return "invoices"
}
