package domain

import (
	"math/big"
	"time"
)

// Head is one observation of the chain tip.
type Head struct {
	Number  uint64
	FeeCap  *big.Int // nil when the fee oracle failed
	Latency time.Duration
	At      time.Time
}

// ConnectionState represents the state of the RPC connection.
type ConnectionState string

const (
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateDisconnected ConnectionState = "disconnected"
)

// ConnectionStatus contains detailed connection information.
type ConnectionStatus struct {
	State      ConnectionState
	Latency    time.Duration
	LastBlock  uint64
	LastUpdate time.Time
	Failures   int // consecutive failed polls
}
