// Package app holds the position service and its ports.
package app

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/superboost/business/position/domain"
)

// PoolSource queries the indexer for the pools administered by poolAdmin
// and the account's membership in them.
type PoolSource interface {
	FetchPools(ctx context.Context, poolAdmin, account common.Address) ([]domain.Pool, error)
}

// Timer is a pending one-shot callback.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
