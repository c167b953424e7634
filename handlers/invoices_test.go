package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yourusername/school-billing/config"
	"github.com/yourusername/school-billing/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func setupInvoiceRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewInvoiceHandler(db)

	router := gin.New()
	router.POST("/invoices", handler.CreateInvoice)
	router.GET("/invoices/:id", handler.GetInvoice)
	router.POST("/invoices/:id/cancel", handler.CancelInvoice)
	router.POST("/invoices/:id/items", handler.AddInvoiceItem)
	router.PATCH("/invoices/:id/items/:itemID", handler.UpdateInvoiceItem)
	router.DELETE("/invoices/:id/items/:itemID", handler.DeleteInvoiceItem)
	router.POST("/invoices/:id/payments", handler.CreatePayment)
	router.GET("/invoices/:id/payments", handler.ListPayments)
	return router
}

func seedStudent(t *testing.T, db *gorm.DB) *models.Student {
	t.Helper()
	school := &models.School{Name: "Springfield Elementary", ContactEmail: "office@springfield.edu", ContactPhone: "+1 555 0100"}
	require.NoError(t, db.Create(school).Error)
	student := &models.Student{SchoolID: school.ID, FirstName: "Lisa", LastName: "Simpson", Status: models.StudentStatusActive}
	require.NoError(t, db.Create(student).Error)
	return student
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestCreateInvoiceEndpoint(t *testing.T) {
	db := setupTestDB(t)
	student := seedStudent(t, db)
	router := setupInvoiceRouter(db)

	t.Run("Valid Request", func(t *testing.T) {
		w := doJSON(router, "POST", "/invoices", gin.H{
			"student_id": student.ID,
			"issue_date": "2025-01-15",
			"due_date":   "2025-02-15",
			"items": []gin.H{
				{"description": "Tuition", "quantity": 1, "unit_price": "10000.00"},
				{"description": "Books", "quantity": 3, "unit_price": "500.00"},
			},
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var invoice models.Invoice
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invoice))
		assert.True(t, invoice.TotalAmount.Equal(dec("11500.00")))
		assert.Equal(t, models.InvoiceStatusPending, invoice.Status)
		assert.Len(t, invoice.Items, 2)
	})

	t.Run("Empty Items", func(t *testing.T) {
		w := doJSON(router, "POST", "/invoices", gin.H{
			"student_id": student.ID,
			"issue_date": "2025-01-15",
			"due_date":   "2025-02-15",
			"items":      []gin.H{},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "at least one item")
	})

	t.Run("Bad Date", func(t *testing.T) {
		w := doJSON(router, "POST", "/invoices", gin.H{
			"student_id": student.ID,
			"issue_date": "15/01/2025",
			"due_date":   "2025-02-15",
			"items":      []gin.H{{"description": "Tuition", "quantity": 1, "unit_price": "100.00"}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestInvoiceItemEndpoints(t *testing.T) {
	db := setupTestDB(t)
	student := seedStudent(t, db)
	router := setupInvoiceRouter(db)

	w := doJSON(router, "POST", "/invoices", gin.H{
		"student_id": student.ID,
		"issue_date": "2025-01-15",
		"due_date":   "2025-02-15",
		"items": []gin.H{
			{"description": "Tuition", "quantity": 1, "unit_price": "100.00"},
			{"description": "Books", "quantity": 1, "unit_price": "50.00"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var invoice models.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invoice))

	t.Run("Delete Item Recalculates", func(t *testing.T) {
		w := doJSON(router, "DELETE", fmt.Sprintf("/invoices/%d/items/%d", invoice.ID, invoice.Items[1].ID), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(router, "GET", fmt.Sprintf("/invoices/%d", invoice.ID), nil)
		var refreshed models.Invoice
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
		assert.True(t, refreshed.TotalAmount.Equal(dec("100.00")))
	})

	t.Run("Cannot Delete Last Item", func(t *testing.T) {
		w := doJSON(router, "DELETE", fmt.Sprintf("/invoices/%d/items/%d", invoice.ID, invoice.Items[0].ID), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Cannot delete last invoice item")
	})

	t.Run("Item Not Found", func(t *testing.T) {
		w := doJSON(router, "PATCH", fmt.Sprintf("/invoices/%d/items/99999", invoice.ID), gin.H{
			"description": "X", "quantity": 1, "unit_price": "1.00",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPaymentEndpoints(t *testing.T) {
	db := setupTestDB(t)
	student := seedStudent(t, db)
	router := setupInvoiceRouter(db)

	w := doJSON(router, "POST", "/invoices", gin.H{
		"student_id": student.ID,
		"issue_date": "2025-01-15",
		"due_date":   "2025-02-15",
		"items":      []gin.H{{"description": "Tuition", "quantity": 1, "unit_price": "1000.00"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var invoice models.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invoice))

	payURL := fmt.Sprintf("/invoices/%d/payments", invoice.ID)

	t.Run("Overpayment Reports Remaining", func(t *testing.T) {
		w := doJSON(router, "POST", payURL, gin.H{
			"amount": "1500.00", "payment_date": "2025-01-20", "payment_method": "CARD",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Remaining amount: 1000")
	})

	t.Run("Valid Payment", func(t *testing.T) {
		w := doJSON(router, "POST", payURL, gin.H{
			"amount": "600.00", "payment_date": "2025-01-20", "payment_method": "CARD",
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		var payment models.Payment
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payment))
		assert.True(t, payment.Amount.Equal(dec("600.00")))
	})

	t.Run("Invalid Method Rejected", func(t *testing.T) {
		w := doJSON(router, "POST", payURL, gin.H{
			"amount": "10.00", "payment_date": "2025-01-20", "payment_method": "BARTER",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("List Payments", func(t *testing.T) {
		w := doJSON(router, "GET", payURL, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var payments []models.Payment
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payments))
		assert.Len(t, payments, 1)
	})

	t.Run("Unknown Invoice", func(t *testing.T) {
		w := doJSON(router, "POST", "/invoices/99999/payments", gin.H{
			"amount": "10.00", "payment_date": "2025-01-20", "payment_method": "CASH",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCancelInvoiceEndpoint(t *testing.T) {
	db := setupTestDB(t)
	student := seedStudent(t, db)
	router := setupInvoiceRouter(db)

	w := doJSON(router, "POST", "/invoices", gin.H{
		"student_id": student.ID,
		"issue_date": "2025-01-15",
		"due_date":   "2025-02-15",
		"items":      []gin.H{{"description": "Tuition", "quantity": 1, "unit_price": "1000.00"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var invoice models.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invoice))

	w = doJSON(router, "POST", fmt.Sprintf("/invoices/%d/cancel", invoice.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), models.InvoiceStatusCancelled)
}
