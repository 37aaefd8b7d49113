// Package app contains the on-chain read service and its ports.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ChainReader issues the read-only calls the adapter needs.
type ChainReader interface {
	// PairedTokens calls getPairedTokens() on a TOREX.
	PairedTokens(ctx context.Context, torex common.Address) (in, out common.Address, err error)

	// UnderlyingToken calls getUnderlyingToken() on a super token.
	UnderlyingToken(ctx context.Context, superToken common.Address) (common.Address, error)

	NativeBalance(ctx context.Context, account common.Address) (*big.Int, error)
	BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error)
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	Decimals(ctx context.Context, token common.Address) (uint8, error)
}
