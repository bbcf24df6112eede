package engine

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xcoordinator/coordinator/internal/domain"
	"github.com/0xcoordinator/coordinator/internal/exchangeabi"
	"github.com/0xcoordinator/coordinator/internal/validate"
)

// validateOnce runs C6 against the repository's current state. It never
// mutates the ledger — LedgerAfterAdd is computed as cumulative+delta
// purely for comparison, the actual atomic add happens at PERSISTED.
func (e *Engine) validateOnce(ctx context.Context, cfg *ChainConfig, classified exchangeabi.Classified, orderHashes []common.Hash, taker common.Address) ([]validate.Refusal, error) {
	inputs := make([]validate.OrderInput, len(classified.Orders))
	for i, order := range classified.Orders {
		fillAmount := classified.FillAmounts[i]

		input := validate.OrderInput{
			OrderHash:             orderHashes[i],
			TakerAssetAmount:      order.TakerAssetAmount,
			ExpirationTimeSeconds: order.ExpirationTimeSeconds,
			FillAmount:            fillAmount,
		}

		if fillAmount != nil && fillAmount.Sign() > 0 {
			softCancelled, err := e.repo.IsSoftCancelled(ctx, orderHashes[i])
			if err != nil {
				return nil, err
			}
			input.IsSoftCancelled = softCancelled

			cumulative, err := e.repo.LedgerCumulative(ctx, orderHashes[i], taker)
			if err != nil {
				return nil, err
			}
			input.LedgerAfterAdd = new(big.Int).Add(cumulative, fillAmount)
		}

		inputs[i] = input
	}

	_, refusals := validate.Partition(inputs, time.Now())
	return refusals, nil
}

// mergeRefusals unions two refusal passes, keeping the first reason
// recorded for any order hash refused in both.
func mergeRefusals(first, second []validate.Refusal) []validate.Refusal {
	seen := make(map[common.Hash]bool, len(first))
	out := make([]validate.Refusal, 0, len(first)+len(second))
	for _, r := range first {
		seen[r.OrderHash] = true
		out = append(out, r)
	}
	for _, r := range second {
		if !seen[r.OrderHash] {
			out = append(out, r)
		}
	}
	return out
}

// approvedSet returns the order hashes (and their underlying orders) not
// present in refusals, preserving calldata order.
func approvedSet(orders []domain.Order, orderHashes []common.Hash, refusals []validate.Refusal) ([]common.Hash, []domain.Order) {
	refused := make(map[common.Hash]bool, len(refusals))
	for _, r := range refusals {
		refused[r.OrderHash] = true
	}
	var hashes []common.Hash
	var kept []domain.Order
	for i, h := range orderHashes {
		if !refused[h] {
			hashes = append(hashes, h)
			kept = append(kept, orders[i])
		}
	}
	return hashes, kept
}

// persist records the transaction and ledger entries for the approved set.
// The conditional ledger add is additionally guarded by a per-(orderHash,
// taker) distributed lock so the read-then-write pair in LedgerTryAdd is
// atomic even across replicas sharing one Postgres instance but separate
// connection pools.
func (e *Engine) persist(ctx context.Context, cfg *ChainConfig, txHash common.Hash, tx domain.SignedMetaTransaction, orderHashes []common.Hash, classified exchangeabi.Classified, approvedOrders []domain.Order, approvedHashes []common.Hash) error {
	records := make([]domain.FillApprovalRecord, 0, len(approvedHashes))

	for i, h := range approvedHashes {
		order := approvedOrders[i]
		delta := fillAmountFor(h, orderHashes, classified.FillAmounts)

		unlock, err := e.locks.Acquire(ctx, ledgerLockKey(h, tx.SignerAddress), 5*time.Second)
		if err != nil {
			return err
		}
		_, ok, err := e.repo.LedgerTryAdd(ctx, h, tx.SignerAddress, delta, order.TakerAssetAmount)
		unlock()
		if err != nil {
			return err
		}
		if !ok {
			// Lost the race against a concurrent fill between VALIDATED₂ and
			// PERSISTED: the ledger bound would now be exceeded even though
			// validateOnce passed this order. This is validate.ReasonLedgerExceeded
			// surfacing too late to be folded into the refusal set, not a
			// malformed call.
			return domain.NewCoordinatorError(domain.CodeLedgerBoundExceeded,
				"ledger bound exceeded by a concurrent fill for order "+h.Hex())
		}

		records = append(records, domain.FillApprovalRecord{
			OrderHash:       h,
			TransactionHash: txHash,
			TakerAddress:    tx.SignerAddress,
			FillAmount:      delta,
		})
	}

	if len(records) > 0 {
		if err := e.repo.RecordFillApprovals(ctx, records); err != nil {
			return err
		}
	}

	return e.repo.InsertSeenTransaction(ctx, domain.SeenTransaction{
		TransactionHash:       txHash,
		TxOrigin:              tx.SignerAddress,
		SignerAddress:         tx.SignerAddress,
		Data:                  tx.Data,
		Signature:             tx.Signature,
		ExpirationTimeSeconds: tx.ExpirationTimeSeconds,
		OrderHashes:           orderHashes,
		FillAmounts:           classified.FillAmounts,
	})
}

func fillAmountFor(h common.Hash, orderHashes []common.Hash, fillAmounts []*big.Int) *big.Int {
	for i, oh := range orderHashes {
		if oh == h {
			return fillAmounts[i]
		}
	}
	return big.NewInt(0)
}

func ledgerLockKey(orderHash common.Hash, taker common.Address) string {
	return "ledger:" + orderHash.Hex() + ":" + taker.Hex()
}
