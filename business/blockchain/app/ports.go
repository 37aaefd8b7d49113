// Package app contains application services and port definitions for the blockchain context.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/fd1az/superboost/business/blockchain/domain"
)

// FeeOracle suggests EIP-1559 fees.
type FeeOracle interface {
	Fees(ctx context.Context) (*domain.FeeQuote, error)
}

// Wallet signs and broadcasts transactions for one account. A watch-only
// wallet reports its account but CanSign is false.
type Wallet interface {
	Account() common.Address
	CanSign() bool

	// Send signs and broadcasts req, returning the pending transaction.
	Send(ctx context.Context, req domain.TxRequest) (*types.Transaction, error)

	// WaitConfirmed blocks until tx is mined or ctx is done.
	WaitConfirmed(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// HeadReader reports the chain head, used by the health check.
type HeadReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}
