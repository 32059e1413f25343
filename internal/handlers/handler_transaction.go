package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/taskforce-tools/op_funds_app/internal/core/ports/services"
	"github.com/taskforce-tools/op_funds_app/internal/dto"
	"github.com/taskforce-tools/op_funds_app/internal/middleware"
)

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
	}
}

// registerTransactionRoutes registers routes related to transactions. The
// listing lives under its book; record-level operations are top level.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	rg.GET("/books/:book_id/transactions", h.listTransactions)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("/:transaction_id", h.getTransaction)
		transactions.POST("/:transaction_id/approve", h.approveTransaction)
		transactions.POST("/:transaction_id/reject", h.rejectTransaction)
		transactions.POST("/:transaction_id/resubmit", h.resubmitTransaction)
		transactions.DELETE("/:transaction_id", h.deleteTransaction)
	}
}

// createTransaction godoc
// @Summary Record a fund movement
// @Description Records an issuance, spending or return. Agent-created records start pending; admin-created ones approve immediately.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Book inactive or closed"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to create transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List a book's transactions
// @Description Retrieves a filtered, token-paginated page of transactions, newest first. Agents only see their own.
// @Tags transactions
// @Produce json
// @Param book_id path string true "Book ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination cursor"
// @Param agentID query string false "Filter by agent"
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED)
// @Param type query string false "Filter by type" Enums(ISSUANCE, SPENDING, RETURN)
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /books/{book_id}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), c.Param("book_id"), params, actor)
	if err != nil {
		respondWithError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{transaction_id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), c.Param("transaction_id"), actor)
	if err != nil {
		respondWithError(c, err, "Failed to get transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// approveTransaction godoc
// @Summary Approve a pending transaction
// @Description Moves a pending transaction to approved. Admin only; a record already reviewed returns a conflict.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Param approval body dto.ApproveTransactionRequest false "Optional review notes"
// @Success 200 {object} dto.TransactionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already reviewed"
// @Security BearerAuth
// @Router /transactions/{transaction_id}/approve [post]
func (h *transactionHandler) approveTransaction(c *gin.Context) {
	var req dto.ApproveTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.ApproveTransaction(c.Request.Context(), c.Param("transaction_id"), req.ReviewNotes, actor)
	if err != nil {
		respondWithError(c, err, "Failed to approve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// rejectTransaction godoc
// @Summary Reject a pending transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Param rejection body dto.RejectRequest true "Rejection reason"
// @Success 200 {object} dto.TransactionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already reviewed"
// @Security BearerAuth
// @Router /transactions/{transaction_id}/reject [post]
func (h *transactionHandler) rejectTransaction(c *gin.Context) {
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.RejectTransaction(c.Request.Context(), c.Param("transaction_id"), req.Reason, actor)
	if err != nil {
		respondWithError(c, err, "Failed to reject transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// resubmitTransaction godoc
// @Summary Resubmit a rejected transaction
// @Description Applies edits to a rejected transaction and resets it to pending. Owner only.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Param edits body dto.ResubmitTransactionRequest true "Edited fields"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Record is not rejected"
// @Security BearerAuth
// @Router /transactions/{transaction_id}/resubmit [post]
func (h *transactionHandler) resubmitTransaction(c *gin.Context) {
	var req dto.ResubmitTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.ResubmitTransaction(c.Request.Context(), c.Param("transaction_id"), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to resubmit transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a non-approved transaction
// @Description Deletes a pending or rejected transaction. Approved transactions can never be deleted.
// @Tags transactions
// @Param transaction_id path string true "Transaction ID"
// @Success 204 "Deleted"
// @Failure 403 {object} ErrorResponse "Approved or not owned"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{transaction_id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), c.Param("transaction_id"), actor); err != nil {
		respondWithError(c, err, "Failed to delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}
