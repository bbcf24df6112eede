package engine

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xcoordinator/coordinator/internal/domain"
	"github.com/0xcoordinator/coordinator/internal/eip712"
	"github.com/0xcoordinator/coordinator/internal/exchangeabi"
	"github.com/0xcoordinator/coordinator/internal/feerecipient"
)

// decodedRequest is the outcome of steps DECODED/CLASSIFIED: a verified
// meta-transaction signature plus the normalized order/fill-amount tuple,
// restricted to orders this coordinator actually serves.
type decodedRequest struct {
	txHash      common.Hash
	classified  exchangeabi.Classified
	orderHashes []common.Hash
}

// decodeAndVerify recovers signedTransaction's transaction hash under the
// chain's own exchange domain and asserts the recovered signer matches
// signerAddress.
func decodeAndVerify(cfg *ChainConfig, tx domain.SignedMetaTransaction) (common.Hash, error) {
	txHash := eip712.TransactionDigest(cfg.TransactionDomain, eip712.TransactionValue{
		Salt:                  tx.Salt,
		ExpirationTimeSeconds: tx.ExpirationTimeSeconds,
		SignerAddress:         tx.SignerAddress,
		Data:                  tx.Data,
	})

	recovered, err := feerecipient.RecoverSigner(txHash, tx.Signature)
	if err != nil {
		return common.Hash{}, domain.NewCoordinatorError(domain.CodeInvalidSignature, err.Error())
	}
	if recovered != tx.SignerAddress {
		return common.Hash{}, domain.NewCoordinatorError(domain.CodeInvalidSignature,
			fmt.Sprintf("recovered signer %s does not match signerAddress %s", recovered.Hex(), tx.SignerAddress.Hex()))
	}
	return txHash, nil
}

// classify ABI-decodes the meta-transaction's data and, for non-cancel
// methods, restricts the result to orders whose feeRecipientAddress is
// served by this coordinator.
func (e *Engine) classify(ctx context.Context, cfg *ChainConfig, tx domain.SignedMetaTransaction) (exchangeabi.Classified, error) {
	remainingFillable := func(order domain.Order) (*big.Int, error) {
		return e.remainingFillable(ctx, cfg, order)
	}

	classified, err := cfg.Classifier.Classify(tx.Data, remainingFillable)
	if err != nil {
		if _, ok := err.(*domain.CoordinatorError); ok {
			return exchangeabi.Classified{}, err
		}
		return exchangeabi.Classified{}, domain.NewCoordinatorError(domain.CodeZeroExTransactionDecodingFailed, err.Error())
	}

	if classified.Method.IsCancel() {
		return classified, nil
	}

	filteredOrders := classified.Orders[:0:0]
	filteredAmounts := classified.FillAmounts[:0:0]
	for i, order := range classified.Orders {
		if cfg.FeeRecipients.Has(order.FeeRecipientAddress) {
			filteredOrders = append(filteredOrders, order)
			filteredAmounts = append(filteredAmounts, classified.FillAmounts[i])
		}
	}
	if len(filteredOrders) == 0 {
		return exchangeabi.Classified{}, domain.NewCoordinatorError(domain.CodeNoCoordinatorOrdersIncluded,
			"no order in this transaction names a fee recipient served by this coordinator")
	}
	classified.Orders = filteredOrders
	classified.FillAmounts = filteredAmounts
	return classified, nil
}

func orderHash(cfg *ChainConfig, order domain.Order) common.Hash {
	return eip712.OrderDigest(cfg.TransactionDomain, eip712.OrderValue{
		MakerAddress:          order.MakerAddress,
		TakerAddress:          order.TakerAddress,
		FeeRecipientAddress:   order.FeeRecipientAddress,
		SenderAddress:         order.SenderAddress,
		MakerAssetAmount:      order.MakerAssetAmount,
		TakerAssetAmount:      order.TakerAssetAmount,
		MakerFee:              order.MakerFee,
		TakerFee:              order.TakerFee,
		ExpirationTimeSeconds: order.ExpirationTimeSeconds,
		Salt:                  order.Salt,
		MakerAssetData:        order.MakerAssetData,
		TakerAssetData:        order.TakerAssetData,
	})
}
