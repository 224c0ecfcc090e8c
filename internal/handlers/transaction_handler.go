package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"zadeet/internal/pagination"
	"zadeet/internal/services"
)

// TransactionHandler handles transaction-related requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request payload for creating a transaction.
// Date accepts RFC 3339 or YYYY-MM-DD and defaults to now.
type CreateTransactionRequest struct {
	Label      string          `json:"label" binding:"required,min=1,max=255"`
	Amount     decimal.Decimal `json:"amount" binding:"required,gt=0" swaggertype:"string"`
	CategoryID uint            `json:"category_id" binding:"required,min=1"`
	Date       string          `json:"date"`
}

// UpdateTransactionRequest represents the request payload for patching a transaction
type UpdateTransactionRequest struct {
	Label      *string          `json:"label" binding:"omitempty,min=1,max=255"`
	Amount     *decimal.Decimal `json:"amount" binding:"omitempty,gt=0" swaggertype:"string"`
	CategoryID *uint            `json:"category_id" binding:"omitempty,min=1"`
	Date       *string          `json:"date"`
}

// TransactionListQuery holds the optional filters of the transaction list
type TransactionListQuery struct {
	CategoryID *uint  `form:"category_id" binding:"omitempty,min=1"`
	Search     string `form:"search" binding:"max=100"`
	Period     string `form:"period" binding:"date_preset"`
}

// RecentTransactionsQuery holds the limit of the recent transactions list
type RecentTransactionsQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Book a positive amount on a category. The category kind decides whether it counts as income or expense.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	input := services.TransactionInput{
		Label:      req.Label,
		Amount:     req.Amount,
		CategoryID: req.CategoryID,
	}
	if req.Date != "" {
		date, err := parseFlexibleTime(req.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
		input.Date = &date
	}

	tx, err := h.transactionService.CreateTransaction(input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// GetTransactions handles listing transactions
// @Summary     List transactions
// @Description Paginated transactions, newest first. Filters combine with AND; category_id also matches the category's children.
// @Tags        transactions
// @Produce     json
// @Param       category_id query int    false "Category ID"
// @Param       search      query string false "Case-insensitive label substring"
// @Param       period      query string false "current_month, last_month, last_3_months or all"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var query TransactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.transactionService.ListTransactions(page, services.TransactionFilter{
		CategoryID: query.CategoryID,
		Search:     query.Search,
		Preset:     services.DatePreset(query.Period),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecentTransactions handles the latest transactions
// @Summary     Recent transactions
// @Tags        transactions
// @Produce     json
// @Param       limit query int false "Number of transactions (default 3, max 50)"
// @Success     200 {array}  models.Transaction "Latest transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/recent [get]
func (h *TransactionHandler) GetRecentTransactions(c *gin.Context) {
	var query RecentTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	txs, err := h.transactionService.GetRecentTransactions(query.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// GetMonthTransactions handles the transactions of one calendar month
// @Summary     Month transactions
// @Tags        transactions
// @Produce     json
// @Param       period path string true "Month as YYYY-MM"
// @Success     200 {array}  models.Transaction "Transactions of the month"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/month/{period} [get]
func (h *TransactionHandler) GetMonthTransactions(c *gin.Context) {
	txs, err := h.transactionService.GetMonthTransactions(c.Param("period"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Param       id path int true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tx, err := h.transactionService.GetTransactionByID(transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// UpdateTransaction handles patching a transaction
// @Summary     Update transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id path int true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to change"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input or transaction ID"
// @Failure     404 {object} ErrorResponse "Transaction or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [patch]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	patch := services.TransactionPatch{
		Label:      req.Label,
		Amount:     req.Amount,
		CategoryID: req.CategoryID,
	}
	if req.Date != nil {
		var date time.Time
		if date, err = parseFlexibleTime(*req.Date); err != nil {
			respondWithError(c, err)
			return
		}
		patch.Date = &date
	}

	tx, err := h.transactionService.UpdateTransaction(transactionID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// DeleteTransaction handles deleting a transaction
// @Summary     Delete transaction
// @Tags        transactions
// @Produce     json
// @Param       id path int true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}
