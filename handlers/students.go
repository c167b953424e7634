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

type StudentHandler struct {
	students   *services.StudentService
	schools    *services.SchoolService
	statements *services.StatementService
}

func NewStudentHandler(db *gorm.DB) *StudentHandler {
	return &StudentHandler{
		students:   services.NewStudentService(db),
		schools:    services.NewSchoolService(db),
		statements: services.NewStatementService(db),
	}
}

type StudentRequest struct {
	SchoolID       uint   `json:"school_id" binding:"required"`
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Email          string `json:"email"`
	EnrollmentDate string `json:"enrollment_date"`
	Status         string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE GRADUATED"`
}

type UpdateStudentRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Email          *string `json:"email"`
	EnrollmentDate *string `json:"enrollment_date"`
	Status         *string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE GRADUATED"`
}

func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.schools.GetByID(req.SchoolID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
		return
	}

	in := services.StudentInput{
		SchoolID:  req.SchoolID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Status:    req.Status,
	}
	if req.EnrollmentDate != "" {
		enrollmentDate, err := parseDate(req.EnrollmentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid enrollment_date, expected YYYY-MM-DD"})
			return
		}
		in.EnrollmentDate = &enrollmentDate
	}

	student, err := h.students.Create(in)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, student)
}

func (h *StudentHandler) ListStudents(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	students, err := h.students.GetAll(skip, limit)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	student, err := h.students.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}
	c.JSON(http.StatusOK, student)
}

func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student, err := h.students.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	in := services.UpdateStudentInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Status:    req.Status,
	}
	if req.EnrollmentDate != nil {
		enrollmentDate, err := parseDate(*req.EnrollmentDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid enrollment_date, expected YYYY-MM-DD"})
			return
		}
		in.EnrollmentDate = &enrollmentDate
	}

	student, err = h.students.Update(student, in)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	student, err := h.students.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	if err := h.students.Delete(student); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StudentHandler) GetStudentStatement(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	start, end, ok := statementPeriod(c)
	if !ok {
		return
	}
	includeInvoices := c.Query("include_invoices") == "true"

	metrics.StudentStatementRequestsTotal.
		WithLabelValues(strconv.FormatBool(includeInvoices)).Inc()
	timer := prometheus.NewTimer(metrics.StudentStatementDurationSeconds)
	defer timer.ObserveDuration()

	statement, err := h.statements.StudentStatement(id, start, end, includeInvoices)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
			return
		}
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, statement)
}
