package payments

import (
	"context"
	"testing"
	"time"

	apperrors "nomadhub/pkg/errors"
	"nomadhub/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		price string
		want  int64
	}{
		{"25.00", 2500},
		{"40.50", 4050},
		{"10", 1000},
		{"0.01", 1},
		{"0", 0},
		{"99.999", 10000}, // sub-cent rounds half up
		{"-3.50", -350},
	}

	for _, tt := range tests {
		price, err := decimal.NewFromString(tt.price)
		require.NoError(t, err)
		assert.Equal(t, tt.want, MinorUnits(price), "price %s", tt.price)
	}
}

func TestStripeAuthorizer_RejectsNonPositiveAmount(t *testing.T) {
	// A non-positive amount must fail before any processor call, so no key
	// or network is needed here.
	auth := NewStripeAuthorizer("", "usd", time.Second, logger.Discard())

	for _, amount := range []int64{0, -1, -2500} {
		_, err := auth.Authorize(context.Background(), amount, nil)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidAmount), "amount %d", amount)
	}
}
