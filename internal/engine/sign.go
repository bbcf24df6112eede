package engine

import (
	"context"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/0xcoordinator/coordinator/internal/domain"
	"github.com/0xcoordinator/coordinator/internal/eip712"
)

// signApprovals signs the approved order-hash set once per distinct
// feeRecipientAddress appearing among the approved orders, fanning the
// independent signing calls out concurrently since each uses a different
// key and touches no shared state.
func signApprovals(ctx context.Context, cfg *ChainConfig, approvedOrders []domain.Order, approvedHashes []common.Hash, txOrigin common.Address, approvalExpiration *big.Int) ([]string, error) {
	recipients := distinctFeeRecipients(approvedOrders)

	value := eip712.ApprovalValue{
		ZeroExOrderHashes:             approvedHashes,
		TxOrigin:                      txOrigin,
		ApprovalExpirationTimeSeconds: approvalExpiration,
	}

	signatures := make([]string, len(recipients))
	g, _ := errgroup.WithContext(ctx)
	for i, recipient := range recipients {
		i, recipient := i, recipient
		g.Go(func() error {
			sig, err := cfg.FeeRecipients.SignApproval(recipient, value)
			if err != nil {
				return err
			}
			signatures[i] = sig
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return signatures, nil
}

// distinctFeeRecipients returns the sorted, deduplicated set of
// feeRecipientAddress values among orders, so that signature ordering is
// deterministic across retries with the same approved set.
func distinctFeeRecipients(orders []domain.Order) []common.Address {
	seen := make(map[common.Address]bool)
	var out []common.Address
	for _, o := range orders {
		if !seen[o.FeeRecipientAddress] {
			seen[o.FeeRecipientAddress] = true
			out = append(out, o.FeeRecipientAddress)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hex() < out[j].Hex() })
	return out
}
