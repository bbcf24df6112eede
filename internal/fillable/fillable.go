// Package fillable computes an order's remaining on-chain fillable taker
// amount from a snapshot of trader balances and allowances.
package fillable

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xcoordinator/coordinator/internal/bigmath"
)

// TraderState is a snapshot of the maker/taker balances and allowances an
// order depends on, as read from the chain oracle at validation time.
type TraderState struct {
	MakerBalance            *big.Int
	MakerAllowance           *big.Int
	MakerFeeBalance          *big.Int
	MakerFeeAllowance        *big.Int
	TakerBalance             *big.Int
	TakerAllowance           *big.Int
	TakerFeeBalance          *big.Int
	TakerFeeAllowance        *big.Int
	OrderTakerAssetFilledAmount *big.Int
}

// Order is the subset of order fields the fillable-amount calculation needs.
type Order struct {
	TakerAddress     common.Address
	MakerAssetAmount *big.Int
	TakerAssetAmount *big.Int
	MakerFee         *big.Int
	TakerFee         *big.Int
}

// RemainingFillable returns the minimum of the conditional candidates: taker
// balance/allowance (if a specific taker is named), the maker-side cap
// converted through the order's exchange rate, the two fee-side caps (if a
// fee is charged), and the amount not yet filled on-chain. The result is
// always >= 0.
func RemainingFillable(order Order, state TraderState) *big.Int {
	candidates := make([]*big.Int, 0, 5)

	var zero common.Address
	if order.TakerAddress != zero {
		candidates = append(candidates, bigmath.Min(state.TakerBalance, state.TakerAllowance))
	}

	makerCap := bigmath.Min(state.MakerBalance, state.MakerAllowance)
	candidates = append(candidates, bigmath.GetTakerFillAmount(order.MakerAssetAmount, order.TakerAssetAmount, makerCap))

	if !bigmath.IsZero(order.TakerFee) {
		feeCap := bigmath.Min(state.TakerFeeBalance, state.TakerFeeAllowance)
		candidates = append(candidates, bigmath.MulDiv(feeCap, order.TakerAssetAmount, order.TakerFee))
	}

	if !bigmath.IsZero(order.MakerFee) {
		feeCap := bigmath.Min(state.MakerFeeBalance, state.MakerFeeAllowance)
		candidates = append(candidates, bigmath.MulDiv(feeCap, order.TakerAssetAmount, order.MakerFee))
	}

	remaining := new(big.Int).Sub(order.TakerAssetAmount, state.OrderTakerAssetFilledAmount)
	if remaining.Sign() < 0 {
		remaining = big.NewInt(0)
	}
	candidates = append(candidates, remaining)

	min := candidates[0]
	for _, c := range candidates[1:] {
		min = bigmath.Min(min, c)
	}
	if min.Sign() < 0 {
		return big.NewInt(0)
	}
	return min
}
