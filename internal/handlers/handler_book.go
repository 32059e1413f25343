package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/taskforce-tools/op_funds_app/internal/core/ports/services"
	"github.com/taskforce-tools/op_funds_app/internal/dto"
	"github.com/taskforce-tools/op_funds_app/internal/middleware"
)

// bookHandler handles HTTP requests related to books and their derived
// balance views.
type bookHandler struct {
	bookService   portssvc.BookSvcFacade
	ledgerService portssvc.LedgerSvcFacade
}

// newBookHandler creates a new bookHandler.
func newBookHandler(bs portssvc.BookSvcFacade, ls portssvc.LedgerSvcFacade) *bookHandler {
	return &bookHandler{
		bookService:   bs,
		ledgerService: ls,
	}
}

// registerBookRoutes registers routes related to books.
func registerBookRoutes(rg *gin.RouterGroup, bookService portssvc.BookSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newBookHandler(bookService, ledgerService)

	books := rg.Group("/books")
	{
		books.POST("", h.createBook)
		books.GET("", h.listBooks)
		books.GET("/active", h.getActiveBook)
	}

	bookSpecific := rg.Group("/books/:book_id")
	{
		bookSpecific.GET("", h.getBook)
		bookSpecific.POST("/activate", h.activateBook)
		bookSpecific.POST("/close", h.closeBook)
		bookSpecific.POST("/funds", h.addFunds)
		bookSpecific.GET("/balances", h.getBalances)
		bookSpecific.GET("/report", h.getReport)
	}
}

// createBook godoc
// @Summary Open a new fiscal-year book
// @Description Creates the fund book for a fiscal year. If no other book is active the new one activates and seeds its starting amount into the pool.
// @Tags books
// @Accept json
// @Produce json
// @Param book body dto.CreateBookRequest true "Book details"
// @Success 201 {object} dto.BookResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Fiscal year already has a book"
// @Security BearerAuth
// @Router /books [post]
func (h *bookHandler) createBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBook", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	book, err := h.bookService.CreateBook(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to create book")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBookResponse(book))
}

// listBooks godoc
// @Summary List books
// @Description Retrieves books ordered by fiscal year, newest first.
// @Tags books
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.BookResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /books [get]
func (h *bookHandler) listBooks(c *gin.Context) {
	var params dto.ListBooksParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	books, err := h.bookService.ListBooks(c.Request.Context(), params, actor)
	if err != nil {
		respondWithError(c, err, "Failed to list books")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBookResponse(books))
}

// getActiveBook godoc
// @Summary Get the active book
// @Description Retrieves the single currently active book.
// @Tags books
// @Produce json
// @Success 200 {object} dto.BookResponse
// @Failure 404 {object} ErrorResponse "No book is active"
// @Security BearerAuth
// @Router /books/active [get]
func (h *bookHandler) getActiveBook(c *gin.Context) {
	book, err := h.bookService.GetActiveBook(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to get active book")
		return
	}
	c.JSON(http.StatusOK, dto.ToBookResponse(book))
}

// getBook godoc
// @Summary Get a book
// @Tags books
// @Produce json
// @Param book_id path string true "Book ID"
// @Success 200 {object} dto.BookResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /books/{book_id} [get]
func (h *bookHandler) getBook(c *gin.Context) {
	book, err := h.bookService.GetBookByID(c.Request.Context(), c.Param("book_id"))
	if err != nil {
		respondWithError(c, err, "Failed to get book")
		return
	}
	c.JSON(http.StatusOK, dto.ToBookResponse(book))
}

// activateBook godoc
// @Summary Activate a book
// @Description Activates an inactive book. Only one book may be active at a time; closed books cannot be reactivated.
// @Tags books
// @Produce json
// @Param book_id path string true "Book ID"
// @Success 200 {object} dto.BookResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Another book is already active"
// @Security BearerAuth
// @Router /books/{book_id}/activate [post]
func (h *bookHandler) activateBook(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	book, err := h.bookService.ActivateBook(c.Request.Context(), c.Param("book_id"), actor)
	if err != nil {
		respondWithError(c, err, "Failed to activate book")
		return
	}
	c.JSON(http.StatusOK, dto.ToBookResponse(book))
}

// closeBook godoc
// @Summary Close a book
// @Description Marks a book closed and inactive. Its history stays readable; re-closing is a no-op.
// @Tags books
// @Produce json
// @Param book_id path string true "Book ID"
// @Success 200 {object} dto.BookResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /books/{book_id}/close [post]
func (h *bookHandler) closeBook(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	book, err := h.bookService.CloseBook(c.Request.Context(), c.Param("book_id"), actor)
	if err != nil {
		respondWithError(c, err, "Failed to close book")
		return
	}
	c.JSON(http.StatusOK, dto.ToBookResponse(book))
}

// addFunds godoc
// @Summary Top up the pool
// @Description Adds funds to an active book's pool as an auto-approved pool-level issuance.
// @Tags books
// @Accept json
// @Produce json
// @Param book_id path string true "Book ID"
// @Param funds body dto.AddFundsRequest true "Top-up details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Book inactive or closed"
// @Security BearerAuth
// @Router /books/{book_id}/funds [post]
func (h *bookHandler) addFunds(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddFunds", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	txn, err := h.bookService.AddFunds(c.Request.Context(), c.Param("book_id"), req.Amount, req.Description, actor)
	if err != nil {
		respondWithError(c, err, "Failed to add funds")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getBalances godoc
// @Summary Get book balances
// @Description Recomputes pool balance, safe cash and per-agent cash-on-hand from the book's full transaction set.
// @Tags books
// @Produce json
// @Param book_id path string true "Book ID"
// @Success 200 {object} dto.BookBalancesResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /books/{book_id}/balances [get]
func (h *bookHandler) getBalances(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	balances, err := h.ledgerService.GetBookBalances(c.Request.Context(), c.Param("book_id"), actor)
	if err != nil {
		respondWithError(c, err, "Failed to compute balances")
		return
	}
	c.JSON(http.StatusOK, balances)
}

// getReport godoc
// @Summary Get book report
// @Description Recomputes balances over an optional date window and adds aggregate totals.
// @Tags books
// @Produce json
// @Param book_id path string true "Book ID"
// @Param from query string false "Window start (YYYY-MM-DD)"
// @Param to query string false "Window end (YYYY-MM-DD)"
// @Success 200 {object} dto.BookReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /books/{book_id}/report [get]
func (h *bookHandler) getReport(c *gin.Context) {
	var params dto.BookReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := actorID(c)
	if !ok {
		return
	}

	report, err := h.ledgerService.GetBookReport(c.Request.Context(), c.Param("book_id"), params, actor)
	if err != nil {
		respondWithError(c, err, "Failed to build report")
		return
	}
	c.JSON(http.StatusOK, report)
}
