package errors

import (
	stderrors "errors"
	"testing"

	"cafeledger/domain/loyalty"
	"cafeledger/domain/order"
	"cafeledger/domain/shared"
	"cafeledger/domain/stock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDomainErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{"order not found", order.NewOrderNotFoundError(42), CodeOrderNotFound},
		{"concurrent modification", order.NewConcurrentModificationError("ORD-20260830-AAAA1111"), CodeConcurrentModify},
		{"invalid transition", order.NewInvalidStatusTransitionError(order.StatusPending, order.StatusDelivered), CodeInvalidStatusTransition},
		{"empty items", order.ErrEmptyOrderItems, CodeValidation},
		{"invalid quantity", order.ErrInvalidQuantity, CodeValidation},
		{"insufficient stock", stock.NewInsufficientStockError("Croissant", 10, 2), CodeInsufficientStock},
		{"insufficient points", loyalty.NewInsufficientPointsError(100, 40), CodeInsufficientPoints},
		{"tier gate", loyalty.NewTierRequirementNotMetError(loyalty.TierSilver, loyalty.TierBronze), CodeTierRequirementNotMet},
		{"reward not found", loyalty.ErrRewardNotFound, CodeRewardNotFound},
		{"reward unavailable", loyalty.ErrRewardNotAvailable, CodeNotAvailable},
		{"max tier", loyalty.ErrMaxTierReached, CodeMaxTierReached},
		{"account not found", loyalty.ErrAccountNotFound, CodeNotFound},
		{"shared not found", shared.NewNotFoundError("product", "product not found"), CodeNotFound},
		{"shared validation", shared.NewValidationError("order", "status", "unknown status"), CodeValidation},
		{"shared conflict", shared.NewConflictError("order", "still active"), CodeConflict},
		{"shared not available", shared.NewNotAvailableError("extra", "extra is not available"), CodeNotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDomainError(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.code, appErr.Code)
			assert.ErrorIs(t, appErr, tt.err, "the original error stays in the chain")
		})
	}
}

func TestFromDomainErrorMasksUnknownErrors(t *testing.T) {
	appErr := FromDomainError(stderrors.New("pq: relation does not exist"))
	require.NotNil(t, appErr)
	assert.Equal(t, CodeInternal, appErr.Code)
	assert.Equal(t, "internal server error", appErr.Message, "raw details never reach the caller")
}

func TestFromDomainErrorPassesAppErrorsThrough(t *testing.T) {
	original := BadRequest("order id must be numeric")
	assert.Same(t, original, FromDomainError(original))

	wrapped := Wrap(shared.NewConflictError("order", "stale"), CodeConflict, "please retry")
	assert.Same(t, wrapped, FromDomainError(wrapped))
}

func TestFromDomainErrorNil(t *testing.T) {
	assert.Nil(t, FromDomainError(nil))
}

func TestIsChecksTheCode(t *testing.T) {
	err := FromDomainError(order.NewOrderNotFoundError(7))
	assert.True(t, Is(err, CodeOrderNotFound))
	assert.False(t, Is(err, CodeConflict))
	assert.False(t, Is(stderrors.New("boom"), CodeInternal))
}
