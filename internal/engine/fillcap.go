package engine

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xcoordinator/coordinator/internal/domain"
	"github.com/0xcoordinator/coordinator/internal/exchangeabi"
	"github.com/0xcoordinator/coordinator/internal/fillable"
	"github.com/0xcoordinator/coordinator/internal/oracle"
)

func orderAssetsOf(cfg *ChainConfig, order domain.Order, makerToken, takerToken common.Address, filledSoFar *big.Int) oracle.OrderAssets {
	return oracle.OrderAssets{
		MakerAddress:      order.MakerAddress,
		TakerAddress:      order.TakerAddress,
		MakerAssetToken:   makerToken,
		TakerAssetToken:   takerToken,
		FeeAssetToken:     cfg.ZRXTokenAddress,
		AssetProxyAddress: cfg.AssetProxyAddress,
		TakerAssetFilled:  filledSoFar,
	}
}

// remainingFillable reads the maker's and taker's on-chain balances and
// allowances from the chain oracle and derives the minimum fillable taker
// amount from them. The already-filled amount it uses is the coordinator's
// own ledger cumulative for (orderHash, order.TakerAddress); the exchange's
// on-chain filled amount for the order is not read.
func (e *Engine) remainingFillable(ctx context.Context, cfg *ChainConfig, order domain.Order) (*big.Int, error) {
	makerToken, err := exchangeabi.ParseERC20AssetData(order.MakerAssetData)
	if err != nil {
		return nil, err
	}
	takerToken, err := exchangeabi.ParseERC20AssetData(order.TakerAssetData)
	if err != nil {
		return nil, err
	}

	filledSoFar, err := e.repo.LedgerCumulative(ctx, orderHash(cfg, order), order.TakerAddress)
	if err != nil {
		return nil, err
	}

	state, err := cfg.Oracle.TraderState(ctx, orderAssetsOf(cfg, order, makerToken, takerToken, filledSoFar))
	if err != nil {
		return nil, err
	}

	return fillable.RemainingFillable(fillable.Order{
		TakerAddress:     order.TakerAddress,
		MakerAssetAmount: order.MakerAssetAmount,
		TakerAssetAmount: order.TakerAssetAmount,
		MakerFee:         order.MakerFee,
		TakerFee:         order.TakerFee,
	}, state), nil
}
