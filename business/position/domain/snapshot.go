// Package domain models indexed pool membership and projects it into the
// active positions the dashboard displays.
package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Outflow is one stream the account sends. Values are integer strings as
// the indexer reports them.
type Outflow struct {
	Deposit            string
	CurrentFlowRate    string // wei per second
	CreatedAtTimestamp string // unix seconds
}

// PoolMembership is one of the account's memberships with the settled
// per-unit value of its pool.
type PoolMembership struct {
	TotalAmountClaimed  string
	PerUnitSettledValue string
}

// Account is the member's account with its outflows and memberships.
type Account struct {
	ID              string
	Outflows        []Outflow
	PoolMemberships []PoolMembership
}

// PoolMember is the account's membership record in one pool.
type PoolMember struct {
	ID                                       string
	Units                                    string
	IsConnected                              bool
	TotalAmountClaimed                       string
	TotalAmountReceivedUntilUpdatedAt        string
	PoolTotalAmountDistributedUntilUpdatedAt string
	UpdatedAtTimestamp                       string
	UpdatedAtBlockNumber                     string
	SyncedPerUnitSettledValue                string
	SyncedPerUnitFlowRate                    string
	Account                                  Account
}

// Pool is a distribution pool administered by the TOREX.
type Pool struct {
	ID      string
	Members []PoolMember
}

// Snapshot is one indexer response for one account.
type Snapshot struct {
	Account   common.Address
	Pools     []Pool
	FetchedAt time.Time
}
