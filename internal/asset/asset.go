// Package asset models tokens and amounts. Amounts stay in big.Int base
// units internally; decimal.Decimal only appears at parse and display
// boundaries.
package asset

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// NativeAddress is the zero-address sentinel that marks the chain's
// native coin wherever a token address is expected.
var NativeAddress = common.Address{}

// IsNative reports whether addr is the native-coin sentinel.
func IsNative(addr common.Address) bool {
	return addr == NativeAddress
}

// AssetID identifies an asset by chain and contract address. Native coins
// use the zero address; fiat uses chain 0.
type AssetID struct {
	chainID uint64
	address common.Address
}

// ChainID returns the chain ID (0 for fiat).
func (id AssetID) ChainID() uint64 { return id.chainID }

// Address returns the token contract address (zero for native coins).
func (id AssetID) Address() common.Address { return id.address }

// IsFiat reports whether the asset lives off chain.
func (id AssetID) IsFiat() bool { return id.chainID == 0 }

func (id AssetID) String() string {
	switch {
	case id.IsFiat():
		return "fiat"
	case IsNative(id.address):
		return fmt.Sprintf("chain:%d/native", id.chainID)
	default:
		return fmt.Sprintf("chain:%d/%s", id.chainID, id.address.Hex())
	}
}

// Asset is display metadata bound to an AssetID. The symbol is not identity.
type Asset struct {
	id       AssetID
	symbol   string
	decimals uint8
}

// NewNative describes a chain's native coin.
func NewNative(chainID uint64, symbol string, decimals uint8) *Asset {
	return newAsset(AssetID{chainID: chainID}, symbol, decimals)
}

// NewToken describes an ERC20 token discovered on chain.
func NewToken(chainID uint64, addr common.Address, symbol string, decimals uint8) *Asset {
	return newAsset(AssetID{chainID: chainID, address: addr}, symbol, decimals)
}

// NewFiat describes an off-chain currency.
func NewFiat(symbol string, decimals uint8) *Asset {
	addr := common.BytesToAddress(common.RightPadBytes([]byte(symbol), 20))
	return newAsset(AssetID{address: addr}, symbol, decimals)
}

func newAsset(id AssetID, symbol string, decimals uint8) *Asset {
	if symbol == "" {
		panic("asset: empty symbol")
	}
	if decimals > 30 {
		panic("asset: suspicious decimals (>30)")
	}
	return &Asset{id: id, symbol: symbol, decimals: decimals}
}

func (a *Asset) ID() AssetID              { return a.id }
func (a *Asset) Symbol() string           { return a.symbol }
func (a *Asset) Decimals() uint8          { return a.decimals }
func (a *Asset) Address() common.Address  { return a.id.address }
func (a *Asset) IsNative() bool           { return !a.id.IsFiat() && IsNative(a.id.address) }
func (a *Asset) String() string           { return a.symbol }
func (a *Asset) Equals(other *Asset) bool { return other != nil && a.id == other.id }
