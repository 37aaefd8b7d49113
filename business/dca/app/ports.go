package app

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	blockchainDomain "github.com/fd1az/superboost/business/blockchain/domain"
	tokenDomain "github.com/fd1az/superboost/business/token/domain"
)

// Executor signs, submits and confirms one transaction at a time.
type Executor interface {
	Account() common.Address
	CanSign() bool
	Execute(ctx context.Context, req blockchainDomain.TxRequest, onSent func(common.Hash)) (*blockchainDomain.Receipt, error)
}

// TokenResolver provides the pairing and the balance behind "max".
type TokenResolver interface {
	ResolveTokenPair(ctx context.Context, target common.Address) (tokenDomain.TokenPair, error)
	FetchAccountState(ctx context.Context, underlying, account, spender common.Address) tokenDomain.AccountTokenState
}

// ParamsRequest are the getParams arguments.
type ParamsRequest struct {
	Torex         common.Address
	FlowRate      *big.Int
	Distributor   common.Address
	Referrer      common.Address
	UpgradeAmount *big.Int
}

// ParamsBuilder reads the packed runMacro parameters.
type ParamsBuilder interface {
	BuildParams(ctx context.Context, macro common.Address, req ParamsRequest) ([]byte, error)
}

// CallEncoder packs calldata for the write calls.
type CallEncoder interface {
	Approve(spender common.Address, amount *big.Int) ([]byte, error)
	RunMacro(macro common.Address, params []byte) ([]byte, error)
	DeleteFlow(token, sender, receiver common.Address) ([]byte, error)
	RegisterOrUpdateStream(user common.Address) ([]byte, error)
}

// Refresher re-queries positions after a confirmed change.
type Refresher interface {
	RefetchWithDelay(d time.Duration)
}
