package engine

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xcoordinator/coordinator/internal/domain"
)

// HandleCancel implements the cancellation path: bypasses dedup, delay,
// re-validation, and multi-recipient signing. Every targeted order must be
// authored by signedTransaction's signer; otherwise the whole request is
// refused (not partitioned — a cancel either fully succeeds or fully
// fails, since a maker cannot cancel someone else's order).
func (e *Engine) HandleCancel(ctx context.Context, tx domain.SignedMetaTransaction) (*CancelResult, error) {
	cfg, err := e.chainConfig(ctx, tx.ChainID)
	if err != nil {
		return nil, err
	}

	txHash, err := decodeAndVerify(cfg, tx)
	if err != nil {
		return nil, err
	}

	classified, err := e.classify(ctx, cfg, tx)
	if err != nil {
		return nil, err
	}

	orderHashes := make([]common.Hash, len(classified.Orders))
	for i, order := range classified.Orders {
		if order.MakerAddress != tx.SignerAddress {
			return nil, domain.NewCoordinatorError(domain.CodeOnlyMakerCanCancelOrders,
				"only the maker may cancel an order", order.MakerAddress.Hex())
		}
		orderHashes[i] = orderHash(cfg, order)
	}

	outstanding, err := e.repo.FillApprovalsForOrders(ctx, orderHashes)
	if err != nil {
		return nil, err
	}

	if err := e.repo.SoftCancelBatch(ctx, orderHashes); err != nil {
		return nil, err
	}

	if err := e.broadcaster.BroadcastCancelRequestAccepted(ctx, cfg.ChainID, domain.CancelRequestAcceptedEvent{
		TransactionHash: txHash,
		OrderHashes:     orderHashes,
	}); err != nil {
		e.logger.Warn("broadcast cancel_request_accepted failed", "error", err)
	}

	fills := make([]domain.OutstandingFillSignature, len(outstanding))
	for i, rec := range outstanding {
		fills[i] = domain.OutstandingFillSignature{
			OrderHash:    rec.OrderHash,
			TakerAddress: rec.TakerAddress,
			FillAmount:   rec.FillAmount,
		}
	}

	return &CancelResult{
		OutstandingFillSignatures: fills,
		ZeroExOrderHashes:         orderHashes,
	}, nil
}
