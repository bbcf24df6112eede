// Package eip712 implements the subset of EIP-712 typed-data hashing the
// coordinator needs: a domain separator over any Domain, and fixed struct
// hashes for CoordinatorApproval (including the dynamic bytes32[] array
// rule), ZeroExTransaction and the 0x Order. Each struct's type string and
// field order are fixed in code; there is no encoder over arbitrary field
// lists.
package eip712

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xcoordinator/coordinator/internal/bigmath"
	"github.com/0xcoordinator/coordinator/internal/hashutil"
)

// domainTypeHash is the precomputed type hash of
// EIP712Domain(string name,string version,uint256 chainId,address verifyingContract).
var domainTypeHash = hashutil.Keccak256(
	[]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"),
)

// coordinatorApprovalTypeHash is the precomputed type hash of
// CoordinatorApproval(bytes32[] zeroxOrderHashes,address txOrigin,uint256 approvalExpirationTimeSeconds).
var coordinatorApprovalTypeHash = hashutil.Keccak256(
	[]byte("CoordinatorApproval(bytes32[] zeroxOrderHashes,address txOrigin,uint256 approvalExpirationTimeSeconds)"),
)

// Domain identifies the EIP-712 signing domain for a given coordinator
// deployment.
type Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
}

// Separator returns keccak256(encodeType(EIP712Domain) || keccak256(name) ||
// keccak256(version) || chainId || verifyingContract).
func (d Domain) Separator() common.Hash {
	return hashutil.Keccak256(
		domainTypeHash[:],
		hashutil.Keccak256([]byte(d.Name))[:],
		hashutil.Keccak256([]byte(d.Version))[:],
		bigmath.To32Bytes(d.ChainID),
		common.LeftPadBytes(d.VerifyingContract.Bytes(), 32),
	)
}

// ApprovalValue holds the three CoordinatorApproval fields in hashing order.
type ApprovalValue struct {
	ZeroExOrderHashes             []common.Hash
	TxOrigin                      common.Address
	ApprovalExpirationTimeSeconds *big.Int
}

// HashStruct returns the CoordinatorApproval struct hash:
//
//	keccak256(typeHash || keccak256(concat(orderHashes)) || txOrigin || approvalExpirationTimeSeconds)
//
// concat(orderHashes) is the dynamic-array hashing rule: the hashes are
// concatenated (not individually padded beyond their own 32 bytes) and the
// concatenation is hashed once more, per EIP-712's rule for `T[]` fields.
func HashStruct(v ApprovalValue) common.Hash {
	concatenated := make([]byte, 0, 32*len(v.ZeroExOrderHashes))
	for _, h := range v.ZeroExOrderHashes {
		concatenated = append(concatenated, h.Bytes()...)
	}
	orderHashesHash := hashutil.Keccak256(concatenated)

	return hashutil.Keccak256(
		coordinatorApprovalTypeHash[:],
		orderHashesHash[:],
		common.LeftPadBytes(v.TxOrigin.Bytes(), 32),
		bigmath.To32Bytes(v.ApprovalExpirationTimeSeconds),
	)
}

// ApprovalDigest returns the final signable digest
// keccak256(0x1901 || domainSeparator || hashStruct(value)).
func ApprovalDigest(d Domain, v ApprovalValue) common.Hash {
	sep := d.Separator()
	sh := HashStruct(v)
	return hashutil.Keccak256(
		[]byte{0x19, 0x01},
		sep[:],
		sh[:],
	)
}

// zeroExTransactionTypeHash is the precomputed type hash of
// ZeroExTransaction(uint256 salt,uint256 expirationTimeSeconds,address signerAddress,bytes data).
var zeroExTransactionTypeHash = hashutil.Keccak256(
	[]byte("ZeroExTransaction(uint256 salt,uint256 expirationTimeSeconds,address signerAddress,bytes data)"),
)

// TransactionValue holds the fields of a SignedMetaTransaction in hashing order.
type TransactionValue struct {
	Salt                  *big.Int
	ExpirationTimeSeconds *big.Int
	SignerAddress         common.Address
	Data                  []byte
}

// TransactionDigest returns the signable digest for a meta-transaction,
// under the exchange's own domain (ExchangeDomain{name: "0x Protocol",
// version: "3.0.0", chainId, verifyingContract: exchangeAddress}).
func TransactionDigest(d Domain, v TransactionValue) common.Hash {
	dataHash := hashutil.Keccak256(v.Data)
	structHash := hashutil.Keccak256(
		zeroExTransactionTypeHash[:],
		bigmath.To32Bytes(v.Salt),
		bigmath.To32Bytes(v.ExpirationTimeSeconds),
		common.LeftPadBytes(v.SignerAddress.Bytes(), 32),
		dataHash[:],
	)
	sep := d.Separator()
	return hashutil.Keccak256([]byte{0x19, 0x01}, sep[:], structHash[:])
}

// orderTypeHash is the precomputed type hash of the 0x-protocol Order
// struct, field order matching the canonical ABI.
var orderTypeHash = hashutil.Keccak256(
	[]byte("Order(address makerAddress,address takerAddress,address feeRecipientAddress,address senderAddress,uint256 makerAssetAmount,uint256 takerAssetAmount,uint256 makerFee,uint256 takerFee,uint256 expirationTimeSeconds,uint256 salt,bytes makerAssetData,bytes takerAssetData)"),
)

// OrderValue holds the 0x-protocol Order fields in hashing order.
type OrderValue struct {
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
}

// OrderDigest returns the canonical order hash under the exchange's own
// domain (ExchangeDomain{name: "0x Protocol", version: "3.0.0", chainId,
// verifyingContract: exchangeAddress}) — this is the order hash identity
// used throughout the ledger and soft-cancel set.
func OrderDigest(d Domain, v OrderValue) common.Hash {
	makerAssetDataHash := hashutil.Keccak256(v.MakerAssetData)
	takerAssetDataHash := hashutil.Keccak256(v.TakerAssetData)
	structHash := hashutil.Keccak256(
		orderTypeHash[:],
		common.LeftPadBytes(v.MakerAddress.Bytes(), 32),
		common.LeftPadBytes(v.TakerAddress.Bytes(), 32),
		common.LeftPadBytes(v.FeeRecipientAddress.Bytes(), 32),
		common.LeftPadBytes(v.SenderAddress.Bytes(), 32),
		bigmath.To32Bytes(v.MakerAssetAmount),
		bigmath.To32Bytes(v.TakerAssetAmount),
		bigmath.To32Bytes(v.MakerFee),
		bigmath.To32Bytes(v.TakerFee),
		bigmath.To32Bytes(v.ExpirationTimeSeconds),
		bigmath.To32Bytes(v.Salt),
		makerAssetDataHash[:],
		takerAssetDataHash[:],
	)
	sep := d.Separator()
	return hashutil.Keccak256([]byte{0x19, 0x01}, sep[:], structHash[:])
}
