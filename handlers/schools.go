package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/yourusername/school-billing/metrics"
	"github.com/yourusername/school-billing/services"
)

type SchoolHandler struct {
	schools    *services.SchoolService
	statements *services.StatementService
}

func NewSchoolHandler(db *gorm.DB) *SchoolHandler {
	return &SchoolHandler{
		schools:    services.NewSchoolService(db),
		statements: services.NewStatementService(db),
	}
}

type SchoolRequest struct {
	Name         string `json:"name" binding:"required"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
	ContactPhone string `json:"contact_phone" binding:"required"`
}

type UpdateSchoolRequest struct {
	Name         *string `json:"name"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
}

func (h *SchoolHandler) CreateSchool(c *gin.Context) {
	var req SchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	school, err := h.schools.Create(services.SchoolInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, school)
}

func (h *SchoolHandler) ListSchools(c *gin.Context) {
	schools, err := h.schools.GetAll()
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, schools)
}

func (h *SchoolHandler) GetSchool(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	school, err := h.schools.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
		return
	}
	c.JSON(http.StatusOK, school)
}

func (h *SchoolHandler) UpdateSchool(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	school, err := h.schools.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
		return
	}

	school, err = h.schools.Update(school, services.UpdateSchoolInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, school)
}

func (h *SchoolHandler) DeleteSchool(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	school, err := h.schools.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
		return
	}

	if err := h.schools.Delete(school); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SchoolHandler) GetSchoolStatement(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	start, end, ok := statementPeriod(c)
	if !ok {
		return
	}
	includeInvoices := c.Query("include_invoices") == "true"

	metrics.SchoolStatementRequestsTotal.
		WithLabelValues(strconv.FormatBool(includeInvoices)).Inc()
	timer := prometheus.NewTimer(metrics.SchoolStatementDurationSeconds)
	defer timer.ObserveDuration()

	statement, err := h.statements.SchoolStatement(id, start, end, includeInvoices)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
			return
		}
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}
