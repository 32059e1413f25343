package services

import (
	"fmt"

	"github.com/taskforce-tools/op_funds_app/internal/apperrors"
)

// Workflow state errors shared by the book, transaction, fund request, and
// CI payment services. Each wraps one of the apperrors sentinels so handlers
// can map them to HTTP statuses with errors.Is.
var (
	ErrBookClosed        = fmt.Errorf("%w: book is closed", apperrors.ErrConflict)
	ErrBookInactive      = fmt.Errorf("%w: book is not active", apperrors.ErrConflict)
	ErrAlreadyProcessed  = fmt.Errorf("%w: record has already been reviewed", apperrors.ErrConflict)
	ErrNotRejected       = fmt.Errorf("%w: only rejected records can be resubmitted", apperrors.ErrConflict)
	ErrAmountNotPositive = fmt.Errorf("%w: amount must be strictly positive", apperrors.ErrValidation)
)
