package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yourusername/school-billing/models"
)

// InvoiceService owns the invoice lifecycle and keeps each invoice's
// total_amount in sync with its live item set.
type InvoiceService struct {
	db *gorm.DB
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db}
}

type InvoiceItemInput struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

func (in InvoiceItemInput) validate() error {
	if in.Quantity <= 0 {
		return validationErrorf("quantity must be a positive integer")
	}
	if in.UnitPrice.IsNegative() {
		return validationErrorf("unit price must not be negative")
	}
	return nil
}

func (in InvoiceItemInput) total() decimal.Decimal {
	return decimal.NewFromInt(int64(in.Quantity)).Mul(in.UnitPrice)
}

type CreateInvoiceInput struct {
	StudentID uint
	IssueDate time.Time
	DueDate   time.Time
	Items     []InvoiceItemInput
}

type UpdateInvoiceInput struct {
	IssueDate *time.Time
	DueDate   *time.Time
}

// Create persists a new invoice together with its initial items. The total
// is derived from the items; an empty item list is rejected.
func (s *InvoiceService) Create(in CreateInvoiceInput) (*models.Invoice, error) {
	if len(in.Items) == 0 {
		return nil, validationErrorf("invoice requires at least one item")
	}
	for _, item := range in.Items {
		if err := item.validate(); err != nil {
			return nil, err
		}
	}

	total := decimal.Zero
	for _, item := range in.Items {
		total = total.Add(item.total())
	}

	invoice := &models.Invoice{
		StudentID:   in.StudentID,
		IssueDate:   in.IssueDate,
		DueDate:     in.DueDate,
		TotalAmount: total,
		Status:      models.InvoiceStatusPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		for _, item := range in.Items {
			row := models.InvoiceItem{
				InvoiceID:   invoice.ID,
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				TotalAmount: item.total(),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			invoice.Items = append(invoice.Items, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// GetAll returns all invoices excluding soft-deleted ones.
func (s *InvoiceService) GetAll() ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := s.db.Preload("Items").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// GetByID returns an invoice by ID, or gorm.ErrRecordNotFound if it is
// absent or soft-deleted.
func (s *InvoiceService) GetByID(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.Preload("Items").First(&invoice, id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Update overwrites the invoice dates. The total and status are never
// client-settable through this path.
func (s *InvoiceService) Update(invoice *models.Invoice, in UpdateInvoiceInput) (*models.Invoice, error) {
	if in.IssueDate != nil {
		invoice.IssueDate = *in.IssueDate
	}
	if in.DueDate != nil {
		invoice.DueDate = *in.DueDate
	}
	if err := s.db.Save(invoice).Error; err != nil {
		return nil, err
	}
	return invoice, nil
}

// Cancel marks the invoice CANCELLED. Pure status transition, no
// recalculation; cancelled invoices drop out of all statement aggregates.
func (s *InvoiceService) Cancel(invoice *models.Invoice) (*models.Invoice, error) {
	invoice.Status = models.InvoiceStatusCancelled
	if err := s.db.Model(invoice).Update("status", models.InvoiceStatusCancelled).Error; err != nil {
		return nil, err
	}
	return invoice, nil
}

// AddItem appends an item to the invoice and recalculates its total.
func (s *InvoiceService) AddItem(invoice *models.Invoice, in InvoiceItemInput) (*models.InvoiceItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	item := &models.InvoiceItem{
		InvoiceID:   invoice.ID,
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		TotalAmount: in.total(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return recalculateTotal(tx, invoice)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem returns a live item that belongs to the given invoice.
func (s *InvoiceService) GetItem(invoiceID, itemID uint) (*models.InvoiceItem, error) {
	var item models.InvoiceItem
	err := s.db.Where("invoice_id = ?", invoiceID).First(&item, itemID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem overwrites the item fields, recomputes its own total and the
// owning invoice's total.
func (s *InvoiceService) UpdateItem(item *models.InvoiceItem, in InvoiceItemInput) (*models.InvoiceItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	item.Description = in.Description
	item.Quantity = in.Quantity
	item.UnitPrice = in.UnitPrice
	item.TotalAmount = in.total()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		var invoice models.Invoice
		if err := tx.First(&invoice, item.InvoiceID).Error; err != nil {
			return err
		}
		return recalculateTotal(tx, &invoice)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem soft-deletes an item and recalculates the invoice total.
// An invoice must keep at least one live item: deleting the last one fails
// with ErrLastInvoiceItem and leaves everything untouched.
func (s *InvoiceService) DeleteItem(item *models.InvoiceItem) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var remaining int64
		err := tx.Model(&models.InvoiceItem{}).
			Where("invoice_id = ? AND id <> ?", item.InvoiceID, item.ID).
			Count(&remaining).Error
		if err != nil {
			return err
		}
		if remaining == 0 {
			return ErrLastInvoiceItem
		}

		if err := tx.Delete(item).Error; err != nil {
			return err
		}

		var invoice models.Invoice
		if err := tx.First(&invoice, item.InvoiceID).Error; err != nil {
			return err
		}
		return recalculateTotal(tx, &invoice)
	})
}

// RecalculateTotal re-derives the invoice total from its live items and
// persists it. Idempotent: calling it twice without an intervening item
// mutation yields the same total.
func (s *InvoiceService) RecalculateTotal(invoice *models.Invoice) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return recalculateTotal(tx, invoice)
	})
}

func recalculateTotal(tx *gorm.DB, invoice *models.Invoice) error {
	var items []models.InvoiceItem
	if err := tx.Where("invoice_id = ?", invoice.ID).Find(&items).Error; err != nil {
		return err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalAmount)
	}

	invoice.TotalAmount = total
	return tx.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
		Update("total_amount", total).Error
}
