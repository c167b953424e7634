package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/school-billing/models"
)

func setupStatementRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	schoolHandler := NewSchoolHandler(db)
	studentHandler := NewStudentHandler(db)
	invoiceHandler := NewInvoiceHandler(db)

	router := gin.New()
	router.GET("/schools/:id/statement", schoolHandler.GetSchoolStatement)
	router.GET("/students/:id/statement", studentHandler.GetStudentStatement)
	router.POST("/invoices", invoiceHandler.CreateInvoice)
	router.POST("/invoices/:id/payments", invoiceHandler.CreatePayment)
	return router
}

func seedStatementData(t *testing.T, db *gorm.DB, router *gin.Engine) *models.Student {
	t.Helper()
	student := seedStudent(t, db)

	w := doJSON(router, "POST", "/invoices", gin.H{
		"student_id": student.ID,
		"issue_date": "2025-01-15",
		"due_date":   "2025-02-15",
		"items":      []gin.H{{"description": "Tuition", "quantity": 1, "unit_price": "1000.00"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var invoice models.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invoice))

	w = doJSON(router, "POST", fmt.Sprintf("/invoices/%d/payments", invoice.ID), gin.H{
		"amount": "400.00", "payment_date": "2025-01-20", "payment_method": "CASH",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return student
}

func TestStudentStatementEndpoint(t *testing.T) {
	db := setupTestDB(t)
	router := setupStatementRouter(db)
	student := seedStatementData(t, db, router)

	base := fmt.Sprintf("/students/%d/statement", student.ID)

	t.Run("Missing Date Params", func(t *testing.T) {
		w := doJSON(router, "GET", base, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "start_date and end_date are required")
	})

	t.Run("Bad Date Format", func(t *testing.T) {
		w := doJSON(router, "GET", base+"?start_date=Jan-2025&end_date=2025-12-31", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Summary Only", func(t *testing.T) {
		w := doJSON(router, "GET", base+"?start_date=2025-01-01&end_date=2025-12-31", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body, "summary")
		assert.NotContains(t, body, "invoices")
	})

	t.Run("With Invoice Breakdown", func(t *testing.T) {
		w := doJSON(router, "GET", base+"?start_date=2025-01-01&end_date=2025-12-31&include_invoices=true", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body, "invoices")

		var invoices []map[string]any
		require.NoError(t, json.Unmarshal(body["invoices"], &invoices))
		require.Len(t, invoices, 1)
		assert.Equal(t, "1000", fmt.Sprint(invoices[0]["total_amount"]))
	})

	t.Run("Unknown Student", func(t *testing.T) {
		w := doJSON(router, "GET", "/students/99999/statement?start_date=2025-01-01&end_date=2025-12-31", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Student not found")
	})
}

func TestSchoolStatementEndpoint(t *testing.T) {
	db := setupTestDB(t)
	router := setupStatementRouter(db)
	student := seedStatementData(t, db, router)

	base := fmt.Sprintf("/schools/%d/statement", student.SchoolID)

	t.Run("Summary", func(t *testing.T) {
		w := doJSON(router, "GET", base+"?start_date=2025-01-01&end_date=2025-12-31", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body, "summary")
		assert.NotContains(t, body, "invoices")
		assert.Equal(t, "1", string(body["student_count"]))
	})

	t.Run("With Invoice Breakdown", func(t *testing.T) {
		w := doJSON(router, "GET", base+"?start_date=2025-01-01&end_date=2025-12-31&include_invoices=true", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body, "invoices")
	})

	t.Run("Missing Date Params", func(t *testing.T) {
		w := doJSON(router, "GET", base, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown School", func(t *testing.T) {
		w := doJSON(router, "GET", "/schools/99999/statement?start_date=2025-01-01&end_date=2025-12-31", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "School not found")
	})
}
