package controllers

import (
	"net/http"
	"time"

	"github.com/ecovilla/exchange-api/services"
	"github.com/gin-gonic/gin"
)

type TransactionController struct {
	Transactions *services.TransactionService
}

func NewTransactionController(transactions *services.TransactionService) *TransactionController {
	return &TransactionController{Transactions: transactions}
}

type CreateRequestRequest struct {
	Quantity           int        `json:"quantity" binding:"required,min=1"`
	ProposedPickupDate time.Time  `json:"proposedPickupDate" binding:"required"`
	ProposedReturnDate *time.Time `json:"proposedReturnDate"`
	Message            string     `json:"message"`
}

type MessageRequest struct {
	Message string `json:"message"`
}

type ReturnRequest struct {
	Condition string `json:"condition" binding:"required,oneof=good minor_wear damaged broken"`
	Notes     string `json:"notes"`
}

// CreateRequest godoc
// @Summary Request to borrow or take a listing
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body CreateRequestRequest true "Request terms"
// @Success 201 {object} models.Transaction
// @Router /listings/{id}/requests [post]
func (tc *TransactionController) CreateRequest(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := tc.Transactions.Request(c.Request.Context(), actorFrom(c), services.RequestInput{
		ListingID:          c.Param("id"),
		Quantity:           req.Quantity,
		ProposedPickupDate: req.ProposedPickupDate,
		ProposedReturnDate: req.ProposedReturnDate,
		Message:            req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transaction)
}

// GetMyTransactions godoc
// @Summary List own transactions as borrower or lender
// @Tags transactions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /transactions [get]
func (tc *TransactionController) GetMyTransactions(c *gin.Context) {
	transactions, err := tc.Transactions.Mine(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// ConfirmTransaction godoc
// @Summary Confirm a request (lender)
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Router /transactions/{id}/confirm [post]
func (tc *TransactionController) ConfirmTransaction(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := tc.Transactions.Confirm(c.Request.Context(), actorFrom(c), c.Param("id"), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// RejectTransaction godoc
// @Summary Reject a request (lender)
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Router /transactions/{id}/reject [post]
func (tc *TransactionController) RejectTransaction(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := tc.Transactions.Reject(c.Request.Context(), actorFrom(c), c.Param("id"), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// CancelTransaction godoc
// @Summary Cancel a transaction before pickup
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Router /transactions/{id}/cancel [post]
func (tc *TransactionController) CancelTransaction(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := tc.Transactions.Cancel(c.Request.Context(), actorFrom(c), c.Param("id"), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// PickupTransaction godoc
// @Summary Mark an item as picked up
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Router /transactions/{id}/pickup [post]
func (tc *TransactionController) PickupTransaction(c *gin.Context) {
	transaction, err := tc.Transactions.MarkPickedUp(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// ReturnTransaction godoc
// @Summary Mark an item as returned (lender)
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param return body ReturnRequest true "Return condition"
// @Success 200 {object} models.Transaction
// @Router /transactions/{id}/return [post]
func (tc *TransactionController) ReturnTransaction(c *gin.Context) {
	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := tc.Transactions.MarkReturned(c.Request.Context(), actorFrom(c), c.Param("id"), services.ReturnInput{
		Condition: req.Condition,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// CompleteTransaction godoc
// @Summary Finalize a returned transaction (lender)
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Router /transactions/{id}/complete [post]
func (tc *TransactionController) CompleteTransaction(c *gin.Context) {
	transaction, err := tc.Transactions.Finalize(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}
