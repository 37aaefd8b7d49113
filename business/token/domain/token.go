// Package domain holds the token pairing and account balance types.
package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/superboost/internal/asset"
)

// TokenPair is what a TOREX accepts and pays out. UnderlyingToken is the
// plain token behind InToken, or the zero address for the native coin.
type TokenPair struct {
	Target          common.Address
	InToken         common.Address
	OutToken        common.Address
	UnderlyingToken common.Address
}

// IsNativeUnderlying reports whether InToken wraps the chain's native coin,
// in which case no ERC20 approval applies.
func (p TokenPair) IsNativeUnderlying() bool {
	return asset.IsNative(p.UnderlyingToken)
}

// AccountTokenState is the account's underlying balance and allowance as
// display strings. Both are empty when the read failed; Allowance is also
// empty for a native underlying.
type AccountTokenState struct {
	Balance   string
	Allowance string

	// BalanceRaw backs the "max" upgrade amount. Nil when unknown.
	BalanceRaw *big.Int
	Decimals   uint8
}

// Known reports whether the balance was read successfully.
func (s AccountTokenState) Known() bool {
	return s.BalanceRaw != nil
}
