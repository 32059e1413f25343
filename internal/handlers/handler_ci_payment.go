package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/taskforce-tools/op_funds_app/internal/core/ports/services"
	"github.com/taskforce-tools/op_funds_app/internal/dto"
	"github.com/taskforce-tools/op_funds_app/internal/middleware"
)

// ciPaymentHandler handles HTTP requests related to CI payments.
type ciPaymentHandler struct {
	ciPaymentService portssvc.CIPaymentSvcFacade
}

// newCIPaymentHandler creates a new ciPaymentHandler.
func newCIPaymentHandler(cs portssvc.CIPaymentSvcFacade) *ciPaymentHandler {
	return &ciPaymentHandler{
		ciPaymentService: cs,
	}
}

// registerCIPaymentRoutes registers routes related to CI payments.
func registerCIPaymentRoutes(rg *gin.RouterGroup, ciPaymentService portssvc.CIPaymentSvcFacade) {
	h := newCIPaymentHandler(ciPaymentService)

	ciPayments := rg.Group("/ci-payments")
	{
		ciPayments.POST("", h.createCIPayment)
		ciPayments.GET("", h.listCIPayments)
		ciPayments.GET("/:ci_payment_id", h.getCIPayment)
		ciPayments.POST("/:ci_payment_id/approve", h.approveCIPayment)
		ciPayments.POST("/:ci_payment_id/reject", h.rejectCIPayment)
		ciPayments.POST("/:ci_payment_id/resubmit", h.resubmitCIPayment)
		ciPayments.DELETE("/:ci_payment_id", h.deleteCIPayment)
	}
}

// createCIPayment godoc
// @Summary Submit a CI payment
// @Description Files an informant payment as the calling agent with payer and informant signatures captured.
// @Tags ci-payments
// @Accept json
// @Produce json
// @Param payment body dto.CreateCIPaymentRequest true "CI payment details"
// @Success 201 {object} dto.CIPaymentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Book inactive or closed"
// @Security BearerAuth
// @Router /ci-payments [post]
func (h *ciPaymentHandler) createCIPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCIPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCIPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	payment, err := h.ciPaymentService.CreateCIPayment(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to create CI payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCIPaymentResponse(payment))
}

// listCIPayments godoc
// @Summary List CI payments
// @Description Retrieves a filtered, token-paginated page of a book's CI payments. Agents only see their own.
// @Tags ci-payments
// @Produce json
// @Param bookID query string true "Book ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination cursor"
// @Param agentID query string false "Filter by agent"
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED)
// @Success 200 {object} dto.ListCIPaymentsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /ci-payments [get]
func (h *ciPaymentHandler) listCIPayments(c *gin.Context) {
	var params dto.ListCIPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	resp, err := h.ciPaymentService.ListCIPayments(c.Request.Context(), params, actor)
	if err != nil {
		respondWithError(c, err, "Failed to list CI payments")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getCIPayment godoc
// @Summary Get a CI payment
// @Tags ci-payments
// @Produce json
// @Param ci_payment_id path string true "CI payment ID"
// @Success 200 {object} dto.CIPaymentResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /ci-payments/{ci_payment_id} [get]
func (h *ciPaymentHandler) getCIPayment(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	payment, err := h.ciPaymentService.GetCIPaymentByID(c.Request.Context(), c.Param("ci_payment_id"), actor)
	if err != nil {
		respondWithError(c, err, "Failed to get CI payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToCIPaymentResponse(payment))
}

// approveCIPayment godoc
// @Summary Approve a CI payment
// @Description Approves a pending payment with the mandatory commander signature, atomically creating the linked spending transaction. Admin only.
// @Tags ci-payments
// @Accept json
// @Produce json
// @Param ci_payment_id path string true "CI payment ID"
// @Param approval body dto.ApproveCIPaymentRequest true "Approver signature"
// @Success 200 {object} dto.CIPaymentResponse
// @Failure 400 {object} ErrorResponse "Missing approver signature"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already reviewed"
// @Security BearerAuth
// @Router /ci-payments/{ci_payment_id}/approve [post]
func (h *ciPaymentHandler) approveCIPayment(c *gin.Context) {
	var req dto.ApproveCIPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	payment, err := h.ciPaymentService.ApproveCIPayment(c.Request.Context(), c.Param("ci_payment_id"), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to approve CI payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToCIPaymentResponse(payment))
}

// rejectCIPayment godoc
// @Summary Reject a CI payment
// @Description Rejects a pending payment and clears any captured approver signature. Admin only.
// @Tags ci-payments
// @Accept json
// @Produce json
// @Param ci_payment_id path string true "CI payment ID"
// @Param rejection body dto.RejectRequest true "Rejection reason"
// @Success 200 {object} dto.CIPaymentResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already reviewed"
// @Security BearerAuth
// @Router /ci-payments/{ci_payment_id}/reject [post]
func (h *ciPaymentHandler) rejectCIPayment(c *gin.Context) {
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	payment, err := h.ciPaymentService.RejectCIPayment(c.Request.Context(), c.Param("ci_payment_id"), req.Reason, actor)
	if err != nil {
		respondWithError(c, err, "Failed to reject CI payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToCIPaymentResponse(payment))
}

// resubmitCIPayment godoc
// @Summary Resubmit a rejected CI payment
// @Description Applies edits to a rejected payment and resets it to pending. Owner only.
// @Tags ci-payments
// @Accept json
// @Produce json
// @Param ci_payment_id path string true "CI payment ID"
// @Param edits body dto.ResubmitCIPaymentRequest true "Edited fields"
// @Success 200 {object} dto.CIPaymentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Record is not rejected"
// @Security BearerAuth
// @Router /ci-payments/{ci_payment_id}/resubmit [post]
func (h *ciPaymentHandler) resubmitCIPayment(c *gin.Context) {
	var req dto.ResubmitCIPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	payment, err := h.ciPaymentService.ResubmitCIPayment(c.Request.Context(), c.Param("ci_payment_id"), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to resubmit CI payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToCIPaymentResponse(payment))
}

// deleteCIPayment godoc
// @Summary Delete a non-approved CI payment
// @Description Deletes a pending or rejected payment. Approved payments can never be deleted.
// @Tags ci-payments
// @Param ci_payment_id path string true "CI payment ID"
// @Success 204 "Deleted"
// @Failure 403 {object} ErrorResponse "Approved or not owned"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /ci-payments/{ci_payment_id} [delete]
func (h *ciPaymentHandler) deleteCIPayment(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.ciPaymentService.DeleteCIPayment(c.Request.Context(), c.Param("ci_payment_id"), actor); err != nil {
		respondWithError(c, err, "Failed to delete CI payment")
		return
	}
	c.Status(http.StatusNoContent)
}
