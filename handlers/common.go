package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yourusername/school-billing/services"
)

// parseID reads a numeric path parameter, responding 404 when it is not a
// valid ID (an unparseable ID can never reference an existing record).
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return uint(id), true
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}

// statementPeriod reads the mandatory start_date/end_date query parameters.
// Absence or a bad format is a request-validation failure, reported before
// the aggregator is touched.
func statementPeriod(c *gin.Context) (start, end time.Time, ok bool) {
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")
	if startStr == "" || endStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date are required"})
		return
	}

	var err error
	if start, err = parseDate(startStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, expected YYYY-MM-DD"})
		return
	}
	if end, err = parseDate(endStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, expected YYYY-MM-DD"})
		return
	}
	return start, end, true
}

// serviceError maps the service error taxonomy onto HTTP responses.
// Business-rule violations and validation failures are client errors with
// distinguishable messages; anything else is a server fault.
func serviceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var overpaymentErr *services.OverpaymentError

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.As(err, &overpaymentErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": overpaymentErr.Error()})
	case errors.Is(err, services.ErrLastInvoiceItem):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete last invoice item"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
