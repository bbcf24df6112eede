package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Order mirrors the 0x-protocol Order struct that appears inside exchange
// calldata. All integer fields arrive as base-10 strings over the wire and
// are parsed into *big.Int before any arithmetic is performed on them.
type Order struct {
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
	ExchangeAddress       common.Address
	ChainID               *big.Int
}
