// Package exchangeabi decodes ABI-encoded 0x-protocol Exchange calldata and
// normalizes every supported method into a (method, orders, fillAmounts)
// tuple, deriving the per-order fill amounts for the market-sell/buy
// variants whose calldata only carries an aggregate amount.
package exchangeabi

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/0xcoordinator/coordinator/internal/bigmath"
	"github.com/0xcoordinator/coordinator/internal/domain"
)

// Method names the classified exchange call.
type Method string

const (
	MethodFillOrder                  Method = "fillOrder"
	MethodFillOrKillOrder            Method = "fillOrKillOrder"
	MethodBatchFillOrders            Method = "batchFillOrders"
	MethodBatchFillOrKillOrders      Method = "batchFillOrKillOrders"
	MethodBatchFillOrdersNoThrow     Method = "batchFillOrdersNoThrow"
	MethodMarketSellOrdersFillOrKill Method = "marketSellOrdersFillOrKill"
	MethodMarketSellOrdersNoThrow    Method = "marketSellOrdersNoThrow"
	MethodMarketBuyOrdersFillOrKill  Method = "marketBuyOrdersFillOrKill"
	MethodMarketBuyOrdersNoThrow     Method = "marketBuyOrdersNoThrow"
	MethodCancelOrder                Method = "cancelOrder"
	MethodBatchCancelOrders          Method = "batchCancelOrders"
)

var marketMethods = map[Method]bool{
	MethodMarketSellOrdersFillOrKill: true,
	MethodMarketSellOrdersNoThrow:    true,
	MethodMarketBuyOrdersFillOrKill:  true,
	MethodMarketBuyOrdersNoThrow:     true,
}

var sellMethods = map[Method]bool{
	MethodMarketSellOrdersFillOrKill: true,
	MethodMarketSellOrdersNoThrow:    true,
}

var cancelMethods = map[Method]bool{
	MethodCancelOrder:       true,
	MethodBatchCancelOrders: true,
}

// IsCancel reports whether m is one of the cancellation methods.
func (m Method) IsCancel() bool { return cancelMethods[m] }

// Classified is the normalized result of decoding a single exchange call.
type Classified struct {
	Method      Method
	Orders      []domain.Order
	FillAmounts []*big.Int // nil for cancellation methods
}

// RemainingFillableFunc resolves an order's on-chain remaining fillable
// taker amount; callers supply this so the classifier stays independent of
// the oracle's transport.
type RemainingFillableFunc func(order domain.Order) (*big.Int, error)

// Classifier decodes calldata against a single chain's Exchange ABI and
// decorates bare orders with that chain's canonical exchange address.
type Classifier struct {
	abi             abi.ABI
	exchangeAddress common.Address
	chainID         *big.Int
}

// NewClassifier builds a Classifier from the Exchange contract's ABI JSON.
func NewClassifier(exchangeABIJSON string, exchangeAddress common.Address, chainID *big.Int) (*Classifier, error) {
	parsed, err := abi.JSON(strings.NewReader(exchangeABIJSON))
	if err != nil {
		return nil, fmt.Errorf("exchangeabi: parsing ABI: %w", err)
	}
	return &Classifier{abi: parsed, exchangeAddress: exchangeAddress, chainID: chainID}, nil
}

// MethodByID peeks at calldata's 4-byte selector and returns the classified
// method name without decoding arguments, so a caller can dispatch to the
// fill or cancel path before paying for a full Classify.
func (c *Classifier) MethodByID(data []byte) (Method, error) {
	if len(data) < 4 {
		return "", fmt.Errorf("exchangeabi: calldata too short")
	}
	m, err := c.abi.MethodById(data[:4])
	if err != nil {
		return "", domain.NewCoordinatorError(domain.CodeInvalidFunctionCall, "unrecognized method selector")
	}
	return Method(m.Name), nil
}

// Classify decodes data (the 4-byte selector plus ABI-encoded arguments)
// and returns the normalized tuple. remainingFillable is consulted only for
// the market-sell/buy derivations.
func (c *Classifier) Classify(data []byte, remainingFillable RemainingFillableFunc) (Classified, error) {
	if len(data) < 4 {
		return Classified{}, fmt.Errorf("exchangeabi: calldata too short")
	}
	m, err := c.abi.MethodById(data[:4])
	if err != nil {
		return Classified{}, domain.NewCoordinatorError(domain.CodeInvalidFunctionCall, "unrecognized method selector")
	}

	method := Method(m.Name)
	args := make(map[string]interface{})
	if err := m.Inputs.UnpackIntoMap(args, data[4:]); err != nil {
		return Classified{}, fmt.Errorf("exchangeabi: unpacking %s: %w", m.Name, err)
	}

	switch method {
	case MethodFillOrder, MethodFillOrKillOrder:
		order := c.decorateOrder(args["order"])
		amt, _ := args["takerAssetFillAmount"].(*big.Int)
		return Classified{Method: method, Orders: []domain.Order{order}, FillAmounts: []*big.Int{amt}}, nil

	case MethodBatchFillOrders, MethodBatchFillOrKillOrders, MethodBatchFillOrdersNoThrow:
		orders := c.decorateOrders(args["orders"])
		amts, _ := args["takerAssetFillAmounts"].([]*big.Int)
		return Classified{Method: method, Orders: orders, FillAmounts: amts}, nil

	case MethodMarketSellOrdersFillOrKill, MethodMarketSellOrdersNoThrow,
		MethodMarketBuyOrdersFillOrKill, MethodMarketBuyOrdersNoThrow:
		orders := c.decorateOrders(args["orders"])
		var total *big.Int
		if sellMethods[method] {
			total, _ = args["takerAssetFillAmount"].(*big.Int)
		} else {
			total, _ = args["makerAssetFillAmount"].(*big.Int)
		}
		amts, err := deriveMarketFillAmounts(method, orders, total, remainingFillable)
		if err != nil {
			return Classified{}, err
		}
		return Classified{Method: method, Orders: orders, FillAmounts: amts}, nil

	case MethodCancelOrder:
		order := c.decorateOrder(args["order"])
		return Classified{Method: method, Orders: []domain.Order{order}}, nil

	case MethodBatchCancelOrders:
		orders := c.decorateOrders(args["orders"])
		return Classified{Method: method, Orders: orders}, nil

	default:
		return Classified{}, domain.NewCoordinatorError(domain.CodeInvalidFunctionCall, "unsupported method "+m.Name)
	}
}

func (c *Classifier) decorateOrder(raw interface{}) domain.Order {
	o := reflectOrder(raw)
	o.ExchangeAddress = c.exchangeAddress
	o.ChainID = c.chainID
	return o
}

func (c *Classifier) decorateOrders(raw interface{}) []domain.Order {
	rawOrders, _ := raw.([]struct {
		MakerAddress          common.Address
		TakerAddress          common.Address
		FeeRecipientAddress   common.Address
		SenderAddress         common.Address
		MakerAssetAmount      *big.Int
		TakerAssetAmount      *big.Int
		MakerFee              *big.Int
		TakerFee              *big.Int
		ExpirationTimeSeconds *big.Int
		Salt                  *big.Int
		MakerAssetData        []byte
		TakerAssetData        []byte
	})
	orders := make([]domain.Order, 0, len(rawOrders))
	for _, r := range rawOrders {
		orders = append(orders, domain.Order{
			MakerAddress:          r.MakerAddress,
			TakerAddress:          r.TakerAddress,
			FeeRecipientAddress:   r.FeeRecipientAddress,
			SenderAddress:         r.SenderAddress,
			MakerAssetAmount:      r.MakerAssetAmount,
			TakerAssetAmount:      r.TakerAssetAmount,
			MakerFee:              r.MakerFee,
			TakerFee:              r.TakerFee,
			ExpirationTimeSeconds: r.ExpirationTimeSeconds,
			Salt:                  r.Salt,
			MakerAssetData:        r.MakerAssetData,
			TakerAssetData:        r.TakerAssetData,
			ExchangeAddress:       c.exchangeAddress,
			ChainID:               c.chainID,
		})
	}
	return orders
}

// reflectOrder extracts a single order from go-ethereum's anonymous
// ABI-generated struct shape.
func reflectOrder(raw interface{}) domain.Order {
	r, ok := raw.(struct {
		MakerAddress          common.Address
		TakerAddress          common.Address
		FeeRecipientAddress   common.Address
		SenderAddress         common.Address
		MakerAssetAmount      *big.Int
		TakerAssetAmount      *big.Int
		MakerFee              *big.Int
		TakerFee              *big.Int
		ExpirationTimeSeconds *big.Int
		Salt                  *big.Int
		MakerAssetData        []byte
		TakerAssetData        []byte
	})
	if !ok {
		return domain.Order{}
	}
	return domain.Order{
		MakerAddress:          r.MakerAddress,
		TakerAddress:          r.TakerAddress,
		FeeRecipientAddress:   r.FeeRecipientAddress,
		SenderAddress:         r.SenderAddress,
		MakerAssetAmount:      r.MakerAssetAmount,
		TakerAssetAmount:      r.TakerAssetAmount,
		MakerFee:              r.MakerFee,
		TakerFee:              r.TakerFee,
		ExpirationTimeSeconds: r.ExpirationTimeSeconds,
		Salt:                  r.Salt,
		MakerAssetData:        r.MakerAssetData,
		TakerAssetData:        r.TakerAssetData,
	}
}

// deriveMarketFillAmounts walks the market-sell/market-buy aggregate amount
// across orders in calldata order, capping each order's fill at its
// remaining fillable amount and carrying the residual to the next order.
func deriveMarketFillAmounts(method Method, orders []domain.Order, total *big.Int, remainingFillable RemainingFillableFunc) ([]*big.Int, error) {
	amounts := make([]*big.Int, len(orders))
	remaining := new(big.Int).Set(total)

	for i, order := range orders {
		cap, err := remainingFillable(order)
		if err != nil {
			return nil, fmt.Errorf("exchangeabi: fillable amount for order %d: %w", i, err)
		}

		if sellMethods[method] {
			fill := bigmath.Min(remaining, cap)
			amounts[i] = fill
			remaining = new(big.Int).Sub(remaining, fill)
		} else {
			takerAmt := bigmath.GetTakerFillAmount(order.MakerAssetAmount, order.TakerAssetAmount, remaining)
			fill := bigmath.Min(takerAmt, cap)
			amounts[i] = fill
			residualTaker := new(big.Int).Sub(takerAmt, fill)
			remaining = bigmath.GetMakerFillAmount(order.MakerAssetAmount, order.TakerAssetAmount, residualTaker)
		}
	}
	return amounts, nil
}
