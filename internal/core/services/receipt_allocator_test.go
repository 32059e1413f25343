package services_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskforce-tools/op_funds_app/internal/core/domain"
	"github.com/taskforce-tools/op_funds_app/internal/core/services"
)

var receiptNoPattern = regexp.MustCompile(`^[A-Z]{3}-2026-[2-9A-HJ-NP-Z]{6}$`)

func TestReceiptAllocator_Allocate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		txnType domain.TransactionType
		tag     domain.TransactionTag
		prefix  string
	}{
		{"initial funding tag wins over type", domain.Issuance, domain.TagInitialFunding, "INI"},
		{"top-up tag wins over type", domain.Issuance, domain.TagTopUp, "TOP"},
		{"regular issuance", domain.Issuance, domain.TagRegular, "ISS"},
		{"spending", domain.Spending, domain.TagRegular, "EXP"},
		{"return", domain.Return, domain.TagRegular, "RET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txnRepo := new(MockTransactionRepository)
			txnRepo.On("ReceiptNoExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()

			allocator := services.NewReceiptAllocator(txnRepo)
			receiptNo, err := allocator.Allocate(ctx, tt.txnType, tt.tag, 2026)

			require.NoError(t, err)
			assert.Regexp(t, receiptNoPattern, receiptNo)
			assert.Equal(t, tt.prefix, receiptNo[:3])
			txnRepo.AssertExpectations(t)
		})
	}
}

func TestReceiptAllocator_RetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	txnRepo := new(MockTransactionRepository)

	// First two candidate numbers collide, the third is free.
	txnRepo.On("ReceiptNoExists", ctx, mock.AnythingOfType("string")).Return(true, nil).Twice()
	txnRepo.On("ReceiptNoExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()

	allocator := services.NewReceiptAllocator(txnRepo)
	receiptNo, err := allocator.Allocate(ctx, domain.Spending, domain.TagRegular, 2026)

	require.NoError(t, err)
	assert.Regexp(t, receiptNoPattern, receiptNo)
	txnRepo.AssertNumberOfCalls(t, "ReceiptNoExists", 3)
}

func TestReceiptAllocator_GivesUpAfterExhaustingAttempts(t *testing.T) {
	ctx := context.Background()
	txnRepo := new(MockTransactionRepository)
	txnRepo.On("ReceiptNoExists", ctx, mock.AnythingOfType("string")).Return(true, nil)

	allocator := services.NewReceiptAllocator(txnRepo)
	_, err := allocator.Allocate(ctx, domain.Spending, domain.TagRegular, 2026)

	require.Error(t, err)
	txnRepo.AssertNumberOfCalls(t, "ReceiptNoExists", 5)
}
