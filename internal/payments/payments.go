// Package payments wraps the external payment processor behind the narrow
// contract the booking workflow needs: authorize an amount, hand back an
// opaque handle the client completes out of band.
package payments

import (
	"context"

	"github.com/shopspring/decimal"
)

// Authorization is the ephemeral handle for one pending authorization. The
// reference is echoed into the booking record as its payment reference; the
// client secret goes back to the caller and is never persisted here.
type Authorization struct {
	Reference    string `json:"reference"`
	ClientSecret string `json:"client_secret"`
}

type Authorizer interface {
	// Authorize creates a pending authorization for the amount in minor
	// units. It moves no funds and writes nothing to the ledger store.
	Authorize(ctx context.Context, amountMinorUnits int64, metadata map[string]string) (*Authorization, error)
}

var hundred = decimal.NewFromInt(100)

// MinorUnits converts a decimal price into the processor's integer
// representation (cents), rounding half up at the sub-cent boundary.
func MinorUnits(price decimal.Decimal) int64 {
	return price.Mul(hundred).Round(0).IntPart()
}
