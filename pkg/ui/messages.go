package ui

import (
	"time"

	"github.com/shopspring/decimal"

	dashboardDomain "github.com/fd1az/superboost/business/dashboard/domain"
)

// Message types for TUI updates

// ViewMsg carries a fresh dashboard read model.
type ViewMsg struct {
	View    *dashboardDomain.View
	CanSign bool
}

// StreamedMsg is one live counter frame.
type StreamedMsg struct {
	PoolID   string
	Streamed decimal.Decimal
}

// ActionMsg reports a step change or broadcast of a running action.
type ActionMsg struct {
	Kind   string // "start", "delete", "register"
	Key    string
	Step   string
	Status string
	TxHash string // empty unless a transaction was just broadcast
	Err    error
}

// Terminal reports whether the action finished.
func (m ActionMsg) Terminal() bool {
	return m.Step == "succeeded" || m.Step == "failed"
}

// ConnectionStatusMsg is sent when connection status changes.
type ConnectionStatusMsg struct {
	Name      string
	Connected bool
	Latency   time.Duration
}

// BlockMsg is sent when the chain head is polled.
type BlockMsg struct {
	Number uint64
}

// GasPriceMsg is sent when gas price is updated.
type GasPriceMsg struct {
	GweiPrice float64
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step    string // "config", "rpc", "subgraph", "price"
	Status  string // "connecting", "connected", "failed"
	Message string
}

// ActionRequest is a user-initiated transaction request handed to OnAction.
type ActionRequest struct {
	Kind          string // "start", "delete", "register"
	PoolID        string
	MonthlyRate   string
	UpgradeAmount string
}
