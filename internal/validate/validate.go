// Package validate implements the pure request-validation partition: given
// a classified set of orders and fill amounts, split order hashes into an
// approved set and a refused set with reasons. The validator never returns
// an error — it always produces a complete partition.
package validate

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// RefusalReason enumerates why an order was excluded from the approved set.
type RefusalReason string

const (
	ReasonSoftCancelled RefusalReason = "SoftCancelled"
	ReasonLedgerExceeded RefusalReason = "LedgerExceeded"
	ReasonExpired        RefusalReason = "Expired"
	ReasonRedundant       RefusalReason = "Redundant"
)

// Refusal pairs an order hash with the reason it was excluded.
type Refusal struct {
	OrderHash common.Hash
	Reason    RefusalReason
}

// OrderInput is the per-order context the validator consults. LedgerAfterAdd
// is the cumulative (orderHash, taker) amount that would result from adding
// FillAmount to the current ledger; the caller computes it without
// committing (validation never mutates state).
type OrderInput struct {
	OrderHash             common.Hash
	TakerAssetAmount      *big.Int
	ExpirationTimeSeconds *big.Int
	FillAmount            *big.Int
	IsSoftCancelled        bool
	LedgerAfterAdd         *big.Int // nil if FillAmount is zero (redundant short-circuits)
}

// Partition splits orders into the approved set and the refused set.
// Redundant (zero fill amount) is checked first, then soft-cancel, then the
// ledger bound, then expiration — the first applicable reason wins.
func Partition(orders []OrderInput, now time.Time) (approved []common.Hash, refused []Refusal) {
	nowSeconds := big.NewInt(now.Unix())

	for _, o := range orders {
		if o.FillAmount == nil || o.FillAmount.Sign() == 0 {
			refused = append(refused, Refusal{OrderHash: o.OrderHash, Reason: ReasonRedundant})
			continue
		}
		if o.IsSoftCancelled {
			refused = append(refused, Refusal{OrderHash: o.OrderHash, Reason: ReasonSoftCancelled})
			continue
		}
		if o.LedgerAfterAdd != nil && o.LedgerAfterAdd.Cmp(o.TakerAssetAmount) > 0 {
			refused = append(refused, Refusal{OrderHash: o.OrderHash, Reason: ReasonLedgerExceeded})
			continue
		}
		if o.ExpirationTimeSeconds.Cmp(nowSeconds) < 0 {
			refused = append(refused, Refusal{OrderHash: o.OrderHash, Reason: ReasonExpired})
			continue
		}
		approved = append(approved, o.OrderHash)
	}
	return approved, refused
}
