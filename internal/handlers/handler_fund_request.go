package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/taskforce-tools/op_funds_app/internal/core/ports/services"
	"github.com/taskforce-tools/op_funds_app/internal/dto"
	"github.com/taskforce-tools/op_funds_app/internal/middleware"
)

// fundRequestHandler handles HTTP requests related to fund requests.
type fundRequestHandler struct {
	fundRequestService portssvc.FundRequestSvcFacade
}

// newFundRequestHandler creates a new fundRequestHandler.
func newFundRequestHandler(fs portssvc.FundRequestSvcFacade) *fundRequestHandler {
	return &fundRequestHandler{
		fundRequestService: fs,
	}
}

// registerFundRequestRoutes registers routes related to fund requests.
func registerFundRequestRoutes(rg *gin.RouterGroup, fundRequestService portssvc.FundRequestSvcFacade) {
	h := newFundRequestHandler(fundRequestService)

	fundRequests := rg.Group("/fund-requests")
	{
		fundRequests.POST("", h.createFundRequest)
		fundRequests.GET("", h.listFundRequests)
		fundRequests.GET("/:fund_request_id", h.getFundRequest)
		fundRequests.POST("/:fund_request_id/approve", h.approveFundRequest)
		fundRequests.POST("/:fund_request_id/reject", h.rejectFundRequest)
		fundRequests.POST("/:fund_request_id/resubmit", h.resubmitFundRequest)
		fundRequests.DELETE("/:fund_request_id", h.deleteFundRequest)
	}
}

// createFundRequest godoc
// @Summary Submit a fund request
// @Description Files an issuance petition as the calling agent against the active book.
// @Tags fund-requests
// @Accept json
// @Produce json
// @Param request body dto.CreateFundRequestRequest true "Fund request details"
// @Success 201 {object} dto.FundRequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Book inactive or closed"
// @Security BearerAuth
// @Router /fund-requests [post]
func (h *fundRequestHandler) createFundRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateFundRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFundRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	request, err := h.fundRequestService.CreateFundRequest(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to create fund request")
		return
	}
	c.JSON(http.StatusCreated, dto.ToFundRequestResponse(request))
}

// listFundRequests godoc
// @Summary List fund requests
// @Description Retrieves a filtered, token-paginated page of a book's fund requests. Agents only see their own.
// @Tags fund-requests
// @Produce json
// @Param bookID query string true "Book ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination cursor"
// @Param agentID query string false "Filter by agent"
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED)
// @Success 200 {object} dto.ListFundRequestsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /fund-requests [get]
func (h *fundRequestHandler) listFundRequests(c *gin.Context) {
	var params dto.ListFundRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	resp, err := h.fundRequestService.ListFundRequests(c.Request.Context(), params, actor)
	if err != nil {
		respondWithError(c, err, "Failed to list fund requests")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getFundRequest godoc
// @Summary Get a fund request
// @Tags fund-requests
// @Produce json
// @Param fund_request_id path string true "Fund request ID"
// @Success 200 {object} dto.FundRequestResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /fund-requests/{fund_request_id} [get]
func (h *fundRequestHandler) getFundRequest(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	request, err := h.fundRequestService.GetFundRequestByID(c.Request.Context(), c.Param("fund_request_id"), actor)
	if err != nil {
		respondWithError(c, err, "Failed to get fund request")
		return
	}
	c.JSON(http.StatusOK, dto.ToFundRequestResponse(request))
}

// approveFundRequest godoc
// @Summary Approve a fund request
// @Description Approves a pending request and atomically creates the linked issuance transaction. Admin only.
// @Tags fund-requests
// @Produce json
// @Param fund_request_id path string true "Fund request ID"
// @Success 200 {object} dto.FundRequestResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already reviewed"
// @Security BearerAuth
// @Router /fund-requests/{fund_request_id}/approve [post]
func (h *fundRequestHandler) approveFundRequest(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	request, err := h.fundRequestService.ApproveFundRequest(c.Request.Context(), c.Param("fund_request_id"), actor)
	if err != nil {
		respondWithError(c, err, "Failed to approve fund request")
		return
	}
	c.JSON(http.StatusOK, dto.ToFundRequestResponse(request))
}

// rejectFundRequest godoc
// @Summary Reject a fund request
// @Tags fund-requests
// @Accept json
// @Produce json
// @Param fund_request_id path string true "Fund request ID"
// @Param rejection body dto.RejectRequest true "Rejection reason"
// @Success 200 {object} dto.FundRequestResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already reviewed"
// @Security BearerAuth
// @Router /fund-requests/{fund_request_id}/reject [post]
func (h *fundRequestHandler) rejectFundRequest(c *gin.Context) {
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	request, err := h.fundRequestService.RejectFundRequest(c.Request.Context(), c.Param("fund_request_id"), req.Reason, actor)
	if err != nil {
		respondWithError(c, err, "Failed to reject fund request")
		return
	}
	c.JSON(http.StatusOK, dto.ToFundRequestResponse(request))
}

// resubmitFundRequest godoc
// @Summary Resubmit a rejected fund request
// @Description Applies edits to a rejected request and resets it to pending. Owner only.
// @Tags fund-requests
// @Accept json
// @Produce json
// @Param fund_request_id path string true "Fund request ID"
// @Param edits body dto.ResubmitFundRequestRequest true "Edited fields"
// @Success 200 {object} dto.FundRequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Record is not rejected"
// @Security BearerAuth
// @Router /fund-requests/{fund_request_id}/resubmit [post]
func (h *fundRequestHandler) resubmitFundRequest(c *gin.Context) {
	var req dto.ResubmitFundRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	request, err := h.fundRequestService.ResubmitFundRequest(c.Request.Context(), c.Param("fund_request_id"), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to resubmit fund request")
		return
	}
	c.JSON(http.StatusOK, dto.ToFundRequestResponse(request))
}

// deleteFundRequest godoc
// @Summary Delete a non-approved fund request
// @Description Deletes a pending or rejected request. Approved requests can never be deleted.
// @Tags fund-requests
// @Param fund_request_id path string true "Fund request ID"
// @Success 204 "Deleted"
// @Failure 403 {object} ErrorResponse "Approved or not owned"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /fund-requests/{fund_request_id} [delete]
func (h *fundRequestHandler) deleteFundRequest(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.fundRequestService.DeleteFundRequest(c.Request.Context(), c.Param("fund_request_id"), actor); err != nil {
		respondWithError(c, err, "Failed to delete fund request")
		return
	}
	c.Status(http.StatusNoContent)
}
