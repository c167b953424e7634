package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yourusername/school-billing/config"
	"github.com/yourusername/school-billing/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func assertAmount(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.True(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func createSchool(t *testing.T, db *gorm.DB) *models.School {
	t.Helper()
	school := &models.School{
		Name:         "Springfield Elementary",
		ContactEmail: "office@springfield.edu",
		ContactPhone: "+1 555 0100",
	}
	require.NoError(t, db.Create(school).Error)
	return school
}

func createStudent(t *testing.T, db *gorm.DB, schoolID uint) *models.Student {
	t.Helper()
	student := &models.Student{
		SchoolID:  schoolID,
		FirstName: "Lisa",
		LastName:  "Simpson",
		Email:     "lisa@springfield.edu",
		Status:    models.StudentStatusActive,
	}
	require.NoError(t, db.Create(student).Error)
	return student
}

// createInvoice builds an invoice through the service with one item per
// given amount (quantity 1), so the derived total is their sum.
func createInvoice(t *testing.T, db *gorm.DB, studentID uint, issueDate string, amounts ...string) *models.Invoice {
	t.Helper()
	in := CreateInvoiceInput{
		StudentID: studentID,
		IssueDate: date(issueDate),
		DueDate:   date(issueDate).AddDate(0, 1, 0),
	}
	for _, amount := range amounts {
		in.Items = append(in.Items, InvoiceItemInput{
			Description: "Fee",
			Quantity:    1,
			UnitPrice:   dec(amount),
		})
	}
	invoice, err := NewInvoiceService(db).Create(in)
	require.NoError(t, err)
	return invoice
}

func createPayment(t *testing.T, db *gorm.DB, invoiceID uint, amount string) *models.Payment {
	t.Helper()
	payment, err := NewPaymentService(db).Create(invoiceID, CreatePaymentInput{
		Amount:        dec(amount),
		PaymentDate:   date("2025-06-15"),
		PaymentMethod: models.PaymentMethodTransfer,
	})
	require.NoError(t, err)
	return payment
}
