package feerecipient

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/0xcoordinator/coordinator/internal/domain"
	"github.com/0xcoordinator/coordinator/internal/eip712"
)

// signatureTypeEIP712 is the trailing wire-format byte identifying an
// EIP712 signature, per the exchange's SignatureType enum.
const signatureTypeEIP712 byte = 0x05

// Registry holds one signing key per configured fee-recipient address for a
// single chain. Keys are process-lifetime secrets, loaded once at startup
// and never written back out.
type Registry struct {
	domain eip712.Domain
	keys   map[common.Address]*ecdsa.PrivateKey
}

// NewRegistry builds a Registry for one chain's EIP-712 domain. Call AddKey
// for each configured fee recipient before first use.
func NewRegistry(domain eip712.Domain) *Registry {
	return &Registry{domain: domain, keys: make(map[common.Address]*ecdsa.PrivateKey)}
}

// AddKey decodes a hex-encoded secp256k1 private key and registers it under
// its derived address.
func (r *Registry) AddKey(privateKeyHex string) (common.Address, error) {
	keyHex := strings.TrimPrefix(privateKeyHex, "0x")
	pk, err := ethcrypto.HexToECDSA(keyHex)
	if err != nil {
		return common.Address{}, fmt.Errorf("feerecipient: invalid private key: %w", err)
	}
	addr := ethcrypto.PubkeyToAddress(pk.PublicKey)
	r.keys[addr] = pk
	return addr, nil
}

// Has reports whether addr has a registered signing key, i.e. whether this
// coordinator serves that fee recipient.
func (r *Registry) Has(addr common.Address) bool {
	_, ok := r.keys[addr]
	return ok
}

// SignApproval signs a CoordinatorApproval digest with the key registered
// for feeRecipient and returns the 66-byte wire-format signature:
// v (1) || r (32) || s (32) || 0x05, hex-encoded with a 0x prefix.
func (r *Registry) SignApproval(feeRecipient common.Address, v eip712.ApprovalValue) (string, error) {
	pk, ok := r.keys[feeRecipient]
	if !ok {
		return "", fmt.Errorf("feerecipient: no key configured for fee recipient %s: %w", feeRecipient.Hex(), domain.ErrSigningFailed)
	}

	digest := eip712.ApprovalDigest(r.domain, v)

	sig, err := ethcrypto.Sign(digest[:], pk)
	if err != nil {
		return "", fmt.Errorf("feerecipient: signing: %w", err)
	}

	// go-ethereum returns v in {0,1}; the wire format expects {27,28}.
	vByte := sig[64]
	if vByte < 27 {
		vByte += 27
	}

	wire := make([]byte, 0, 66)
	wire = append(wire, vByte)
	wire = append(wire, sig[:64]...)
	wire = append(wire, signatureTypeEIP712)

	return "0x" + hex.EncodeToString(wire), nil
}

// RecoverSigner recovers the address that produced a 65-byte r||s||v (or v
// in {27,28}) ECDSA signature over digest, used to verify a meta-transaction's
// claimed signerAddress.
func RecoverSigner(digest common.Hash, signature []byte) (common.Address, error) {
	if len(signature) != 65 {
		return common.Address{}, fmt.Errorf("feerecipient: signature must be 65 bytes, got %d", len(signature))
	}
	sig := make([]byte, 65)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pub, err := ethcrypto.SigToPub(digest[:], sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("feerecipient: recovering signer: %w", err)
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}
