package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yourusername/school-billing/models"
)

// StatementService computes account statements: invoiced/paid/pending
// aggregates over a date-filtered view of invoices, per student or per
// school, with an optional per-invoice breakdown.
//
// Both scopes share the same eligibility rule for an invoice: not deleted,
// not CANCELLED, issue_date within the inclusive [start, end] period. The
// school scope additionally restricts to live students of the school.
// Totals come from single aggregate queries and the breakdown uses one
// grouped paid-per-invoice query, never a per-invoice sub-query.
type StatementService struct {
	db *gorm.DB
}

func NewStatementService(db *gorm.DB) *StatementService {
	return &StatementService{db: db}
}

type StatementPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type StatementSummary struct {
	TotalInvoiced decimal.Decimal `json:"total_invoiced"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalPending  decimal.Decimal `json:"total_pending"`
}

// StatementInvoice is one breakdown row. Pending is derived from this
// invoice's own total and paid sum, never read from a stored field.
type StatementInvoice struct {
	InvoiceID     uint            `json:"invoice_id"`
	IssueDate     string          `json:"issue_date"`
	DueDate       string          `json:"due_date"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
}

// SchoolStatementInvoice adds the owning student to a breakdown row.
type SchoolStatementInvoice struct {
	StatementInvoice
	StudentID uint `json:"student_id"`
}

// StudentStatement is the student-scope result. Invoices is a pointer so
// that the field is omitted from JSON entirely when the breakdown was not
// requested, while a requested-but-empty breakdown still serializes as [].
type StudentStatement struct {
	StudentID   uint                `json:"student_id"`
	StudentName string              `json:"student_name"`
	SchoolID    uint                `json:"school_id"`
	SchoolName  string              `json:"school_name"`
	Period      StatementPeriod     `json:"period"`
	Summary     StatementSummary    `json:"summary"`
	Invoices    *[]StatementInvoice `json:"invoices,omitempty"`
}

type SchoolStatement struct {
	SchoolID     uint                      `json:"school_id"`
	SchoolName   string                    `json:"school_name"`
	Period       StatementPeriod           `json:"period"`
	StudentCount int64                     `json:"student_count"`
	Summary      StatementSummary          `json:"summary"`
	Invoices     *[]SchoolStatementInvoice `json:"invoices,omitempty"`
}

// eligibleInvoices scopes a query to live, non-cancelled invoices issued
// within the inclusive period. Single home for the predicate so no read
// path can forget part of it.
func eligibleInvoices(start, end time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("invoices.status <> ? AND invoices.issue_date BETWEEN ? AND ?",
			models.InvoiceStatusCancelled, start, end)
	}
}

// StudentStatement builds the statement for one student over [start, end].
// Returns gorm.ErrRecordNotFound when the student is absent or deleted.
func (s *StatementService) StudentStatement(studentID uint, start, end time.Time, includeInvoices bool) (*StudentStatement, error) {
	var student models.Student
	if err := s.db.First(&student, studentID).Error; err != nil {
		return nil, err
	}
	var school models.School
	if err := s.db.Unscoped().First(&school, student.SchoolID).Error; err != nil {
		return nil, err
	}

	invoiced, paid, err := s.studentTotals(studentID, start, end)
	if err != nil {
		return nil, err
	}

	statement := &StudentStatement{
		StudentID:   student.ID,
		StudentName: student.FirstName + " " + student.LastName,
		SchoolID:    school.ID,
		SchoolName:  school.Name,
		Period:      newPeriod(start, end),
		Summary:     newSummary(invoiced, paid),
	}

	if includeInvoices {
		rows, err := s.studentInvoiceRows(studentID, start, end)
		if err != nil {
			return nil, err
		}
		statement.Invoices = &rows
	}
	return statement, nil
}

// SchoolStatement builds the statement for one school over [start, end].
// Returns gorm.ErrRecordNotFound when the school is absent or deleted.
func (s *StatementService) SchoolStatement(schoolID uint, start, end time.Time, includeInvoices bool) (*SchoolStatement, error) {
	var school models.School
	if err := s.db.First(&school, schoolID).Error; err != nil {
		return nil, err
	}

	// Current active roster, independent of the statement period.
	var studentCount int64
	err := s.db.Model(&models.Student{}).
		Where("school_id = ?", schoolID).
		Count(&studentCount).Error
	if err != nil {
		return nil, err
	}

	invoiced, paid, err := s.schoolTotals(schoolID, start, end)
	if err != nil {
		return nil, err
	}

	statement := &SchoolStatement{
		SchoolID:     school.ID,
		SchoolName:   school.Name,
		Period:       newPeriod(start, end),
		StudentCount: studentCount,
		Summary:      newSummary(invoiced, paid),
	}

	if includeInvoices {
		rows, err := s.schoolInvoiceRows(schoolID, start, end)
		if err != nil {
			return nil, err
		}
		statement.Invoices = &rows
	}
	return statement, nil
}

func newPeriod(start, end time.Time) StatementPeriod {
	return StatementPeriod{
		StartDate: start.Format(time.DateOnly),
		EndDate:   end.Format(time.DateOnly),
	}
}

// newSummary derives pending from the two aggregates; it is never stored.
func newSummary(invoiced, paid decimal.Decimal) StatementSummary {
	return StatementSummary{
		TotalInvoiced: invoiced,
		TotalPaid:     paid,
		TotalPending:  invoiced.Sub(paid),
	}
}

func (s *StatementService) studentTotals(studentID uint, start, end time.Time) (invoiced, paid decimal.Decimal, err error) {
	row := s.db.Model(&models.Invoice{}).
		Select("COALESCE(SUM(invoices.total_amount), 0)").
		Scopes(eligibleInvoices(start, end)).
		Where("invoices.student_id = ?", studentID).
		Row()
	if err = row.Scan(&invoiced); err != nil {
		return
	}

	row = s.db.Model(&models.Payment{}).
		Select("COALESCE(SUM(payments.amount), 0)").
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Scopes(eligibleInvoices(start, end)).
		Where("invoices.student_id = ? AND invoices.deleted_at IS NULL", studentID).
		Row()
	err = row.Scan(&paid)
	return
}

func (s *StatementService) schoolTotals(schoolID uint, start, end time.Time) (invoiced, paid decimal.Decimal, err error) {
	row := s.db.Model(&models.Invoice{}).
		Select("COALESCE(SUM(invoices.total_amount), 0)").
		Joins("JOIN students ON students.id = invoices.student_id").
		Scopes(eligibleInvoices(start, end)).
		Where("students.school_id = ? AND students.deleted_at IS NULL", schoolID).
		Row()
	if err = row.Scan(&invoiced); err != nil {
		return
	}

	row = s.db.Model(&models.Payment{}).
		Select("COALESCE(SUM(payments.amount), 0)").
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Joins("JOIN students ON students.id = invoices.student_id").
		Scopes(eligibleInvoices(start, end)).
		Where("students.school_id = ? AND students.deleted_at IS NULL AND invoices.deleted_at IS NULL", schoolID).
		Row()
	err = row.Scan(&paid)
	return
}

func (s *StatementService) studentInvoiceRows(studentID uint, start, end time.Time) ([]StatementInvoice, error) {
	var invoices []models.Invoice
	err := s.db.
		Scopes(eligibleInvoices(start, end)).
		Where("invoices.student_id = ?", studentID).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}

	paidByInvoice, err := s.paidPerInvoice(invoices)
	if err != nil {
		return nil, err
	}

	rows := make([]StatementInvoice, 0, len(invoices))
	for _, invoice := range invoices {
		rows = append(rows, newStatementInvoice(invoice, paidByInvoice))
	}
	return rows, nil
}

func (s *StatementService) schoolInvoiceRows(schoolID uint, start, end time.Time) ([]SchoolStatementInvoice, error) {
	var invoices []models.Invoice
	err := s.db.
		Select("invoices.*").
		Joins("JOIN students ON students.id = invoices.student_id").
		Scopes(eligibleInvoices(start, end)).
		Where("students.school_id = ? AND students.deleted_at IS NULL", schoolID).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}

	paidByInvoice, err := s.paidPerInvoice(invoices)
	if err != nil {
		return nil, err
	}

	rows := make([]SchoolStatementInvoice, 0, len(invoices))
	for _, invoice := range invoices {
		rows = append(rows, SchoolStatementInvoice{
			StatementInvoice: newStatementInvoice(invoice, paidByInvoice),
			StudentID:        invoice.StudentID,
		})
	}
	return rows, nil
}

// paidPerInvoice fetches the paid sum for exactly the given invoice set in
// one grouped query and returns an O(1) lookup map. Invoices with no
// payments simply have no entry.
func (s *StatementService) paidPerInvoice(invoices []models.Invoice) (map[uint]decimal.Decimal, error) {
	paid := make(map[uint]decimal.Decimal, len(invoices))
	if len(invoices) == 0 {
		return paid, nil
	}

	ids := make([]uint, 0, len(invoices))
	for _, invoice := range invoices {
		ids = append(ids, invoice.ID)
	}

	var results []struct {
		InvoiceID uint
		Paid      decimal.Decimal
	}
	err := s.db.Model(&models.Payment{}).
		Select("invoice_id, COALESCE(SUM(amount), 0) AS paid").
		Where("invoice_id IN ?", ids).
		Group("invoice_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		paid[r.InvoiceID] = r.Paid
	}
	return paid, nil
}

func newStatementInvoice(invoice models.Invoice, paidByInvoice map[uint]decimal.Decimal) StatementInvoice {
	paid, ok := paidByInvoice[invoice.ID]
	if !ok {
		paid = decimal.Zero
	}
	return StatementInvoice{
		InvoiceID:     invoice.ID,
		IssueDate:     invoice.IssueDate.Format(time.DateOnly),
		DueDate:       invoice.DueDate.Format(time.DateOnly),
		Status:        invoice.Status,
		TotalAmount:   invoice.TotalAmount,
		PaidAmount:    paid,
		PendingAmount: invoice.TotalAmount.Sub(paid),
	}
}
