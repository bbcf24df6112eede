package exchangeabi

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// erc20ProxyID is the 4-byte selector identifying ERC20Proxy-encoded asset
// data: ERC20Token(address).
var erc20ProxyID = [4]byte{0xf4, 0x72, 0x61, 0xb0}

// ParseERC20AssetData extracts the token contract address from a 0x-protocol
// ERC20Proxy asset-data blob. Other proxy types (ERC721, MultiAsset) are not
// needed by the fillable-amount calculation and are rejected.
func ParseERC20AssetData(data []byte) (common.Address, error) {
	if len(data) < 36 {
		return common.Address{}, fmt.Errorf("exchangeabi: asset data too short for ERC20Proxy")
	}
	var selector [4]byte
	copy(selector[:], data[:4])
	if selector != erc20ProxyID {
		return common.Address{}, fmt.Errorf("exchangeabi: unsupported asset proxy selector %x", selector)
	}
	return common.BytesToAddress(data[4:36]), nil
}
