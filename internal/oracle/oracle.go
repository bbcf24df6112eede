// Package oracle reads the on-chain trader state (balances and allowances)
// that the fillable-amount calculator needs, binding the chain RPC
// dependency behind a domain-declared interface.
package oracle

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/0xcoordinator/coordinator/internal/fillable"
)

// ChainOracle reads the trader state backing a single order's fillable
// amount calculation: ERC20 balances, and ERC20 allowances toward the
// exchange's asset proxy. Other asset types are not read.
type ChainOracle interface {
	TraderState(ctx context.Context, order OrderAssets) (fillable.TraderState, error)
}

// OrderAssets is the subset of an order's fields the oracle needs to locate
// the relevant token contracts and accounts.
type OrderAssets struct {
	MakerAddress      common.Address
	TakerAddress      common.Address
	MakerAssetToken   common.Address
	TakerAssetToken   common.Address
	FeeAssetToken     common.Address
	AssetProxyAddress common.Address
	TakerAssetFilled  *big.Int
}

var erc20ABI abi.ABI

func init() {
	const erc20JSON = `[
		{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
		{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"}
	]`
	var err error
	erc20ABI, err = abi.JSON(strings.NewReader(erc20JSON))
	if err != nil {
		panic("oracle: invalid embedded erc20 ABI: " + err.Error())
	}
}

// EthClientOracle is the ChainOracle implementation backed by a live
// go-ethereum JSON-RPC connection, used for all non-test chains.
type EthClientOracle struct {
	client *ethclient.Client
}

// NewEthClientOracle dials rpcURL and returns an oracle bound to it.
func NewEthClientOracle(ctx context.Context, rpcURL string) (*EthClientOracle, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return &EthClientOracle{client: client}, nil
}

// Close releases the underlying RPC connection.
func (o *EthClientOracle) Close() {
	o.client.Close()
}

// TraderState reads balanceOf/allowance for the maker and taker against
// their respective asset tokens, plus the fee-asset side, in parallel-free
// sequential calls (the exchange ABI's asset proxies do not batch).
func (o *EthClientOracle) TraderState(ctx context.Context, order OrderAssets) (fillable.TraderState, error) {
	makerBalance, err := o.balanceOf(ctx, order.MakerAssetToken, order.MakerAddress)
	if err != nil {
		return fillable.TraderState{}, err
	}
	makerAllowance, err := o.allowance(ctx, order.MakerAssetToken, order.MakerAddress, order.AssetProxyAddress)
	if err != nil {
		return fillable.TraderState{}, err
	}
	takerBalance, err := o.balanceOf(ctx, order.TakerAssetToken, order.TakerAddress)
	if err != nil {
		return fillable.TraderState{}, err
	}
	takerAllowance, err := o.allowance(ctx, order.TakerAssetToken, order.TakerAddress, order.AssetProxyAddress)
	if err != nil {
		return fillable.TraderState{}, err
	}
	makerFeeBalance, err := o.balanceOf(ctx, order.FeeAssetToken, order.MakerAddress)
	if err != nil {
		return fillable.TraderState{}, err
	}
	makerFeeAllowance, err := o.allowance(ctx, order.FeeAssetToken, order.MakerAddress, order.AssetProxyAddress)
	if err != nil {
		return fillable.TraderState{}, err
	}
	takerFeeBalance, err := o.balanceOf(ctx, order.FeeAssetToken, order.TakerAddress)
	if err != nil {
		return fillable.TraderState{}, err
	}
	takerFeeAllowance, err := o.allowance(ctx, order.FeeAssetToken, order.TakerAddress, order.AssetProxyAddress)
	if err != nil {
		return fillable.TraderState{}, err
	}
	return fillable.TraderState{
		MakerBalance:                makerBalance,
		MakerAllowance:              makerAllowance,
		MakerFeeBalance:             makerFeeBalance,
		MakerFeeAllowance:           makerFeeAllowance,
		TakerBalance:                takerBalance,
		TakerAllowance:              takerAllowance,
		TakerFeeBalance:             takerFeeBalance,
		TakerFeeAllowance:           takerFeeAllowance,
		OrderTakerAssetFilledAmount: order.TakerAssetFilled,
	}, nil
}

func (o *EthClientOracle) balanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	bound := bind.NewBoundContract(token, erc20ABI, o.client, nil, nil)
	var out []interface{}
	err := bound.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

func (o *EthClientOracle) allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	bound := bind.NewBoundContract(token, erc20ABI, o.client, nil, nil)
	var out []interface{}
	err := bound.Call(&bind.CallOpts{Context: ctx}, &out, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}
