package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
)

// CreateBookRequest defines the data needed to open a new fiscal-year book.
type CreateBookRequest struct {
	FiscalYear     int             `json:"fiscalYear" binding:"required,min=2000,max=2200"`
	StartingAmount decimal.Decimal `json:"startingAmount" binding:"required"`
}

// AddFundsRequest defines the data for a pool top-up.
type AddFundsRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// BookResponse defines the data returned for a book.
type BookResponse struct {
	BookID         string          `json:"bookID"`
	FiscalYear     int             `json:"fiscalYear"`
	StartingAmount decimal.Decimal `json:"startingAmount"`
	IsActive       bool            `json:"isActive"`
	IsClosed       bool            `json:"isClosed"`
	ClosedAt       *time.Time      `json:"closedAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
}

// ToBookResponse converts a domain.Book to BookResponse DTO
func ToBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		BookID:         b.BookID,
		FiscalYear:     b.FiscalYear,
		StartingAmount: b.StartingAmount,
		IsActive:       b.IsActive,
		IsClosed:       b.IsClosed,
		ClosedAt:       b.ClosedAt,
		CreatedAt:      b.CreatedAt,
		CreatedBy:      b.CreatedBy,
	}
}

// ToListBookResponse converts a slice of domain.Book to BookResponse DTOs
func ToListBookResponse(books []domain.Book) []BookResponse {
	res := make([]BookResponse, len(books))
	for i := range books {
		res[i] = ToBookResponse(&books[i])
	}
	return res
}

// ListBooksParams defines query parameters for listing books.
type ListBooksParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}
