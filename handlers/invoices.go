package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yourusername/school-billing/services"
)

type InvoiceHandler struct {
	invoices *services.InvoiceService
	payments *services.PaymentService
}

func NewInvoiceHandler(db *gorm.DB) *InvoiceHandler {
	return &InvoiceHandler{
		invoices: services.NewInvoiceService(db),
		payments: services.NewPaymentService(db),
	}
}

type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (r InvoiceItemRequest) toInput() services.InvoiceItemInput {
	return services.InvoiceItemInput{
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
	}
}

type CreateInvoiceRequest struct {
	StudentID uint                 `json:"student_id" binding:"required"`
	IssueDate string               `json:"issue_date" binding:"required"`
	DueDate   string               `json:"due_date" binding:"required"`
	Items     []InvoiceItemRequest `json:"items"`
}

type UpdateInvoiceRequest struct {
	IssueDate *string `json:"issue_date"`
	DueDate   *string `json:"due_date"`
}

type CreatePaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"payment_date" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"required,oneof=CASH CARD TRANSFER CHECK"`
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issueDate, err := parseDate(req.IssueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue_date, expected YYYY-MM-DD"})
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
		return
	}

	in := services.CreateInvoiceInput{
		StudentID: req.StudentID,
		IssueDate: issueDate,
		DueDate:   dueDate,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, item.toInput())
	}

	invoice, err := h.invoices.Create(in)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	invoices, err := h.invoices.GetAll()
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoices.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice, err := h.invoices.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	in := services.UpdateInvoiceInput{}
	if req.IssueDate != nil {
		issueDate, err := parseDate(*req.IssueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue_date, expected YYYY-MM-DD"})
			return
		}
		in.IssueDate = &issueDate
	}
	if req.DueDate != nil {
		dueDate, err := parseDate(*req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
			return
		}
		in.DueDate = &dueDate
	}

	invoice, err = h.invoices.Update(invoice, in)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandler) CancelInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoices.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	invoice, err = h.invoices.Cancel(invoice)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// Nested item routes. The invoice is the aggregate root: every item
// operation re-checks that the invoice itself is live.

func (h *InvoiceHandler) AddInvoiceItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req InvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice, err := h.invoices.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	item, err := h.invoices.AddItem(invoice, req.toInput())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *InvoiceHandler) UpdateInvoiceItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemID")
	if !ok {
		return
	}

	var req InvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.invoices.GetByID(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	item, err := h.invoices.GetItem(id, itemID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice item not found"})
		return
	}

	item, err = h.invoices.UpdateItem(item, req.toInput())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *InvoiceHandler) DeleteInvoiceItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemID")
	if !ok {
		return
	}

	if _, err := h.invoices.GetByID(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	item, err := h.invoices.GetItem(id, itemID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice item not found"})
		return
	}

	if err := h.invoices.DeleteItem(item); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Nested payment routes.

func (h *InvoiceHandler) CreatePayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment_date, expected YYYY-MM-DD"})
		return
	}

	if _, err := h.invoices.GetByID(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	payment, err := h.payments.Create(id, services.CreatePaymentInput{
		Amount:        req.Amount,
		PaymentDate:   paymentDate,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := h.invoices.GetByID(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	payments, err := h.payments.GetByInvoice(id)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}
