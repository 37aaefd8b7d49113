package app

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/fd1az/superboost/business/dca/domain"
)

// Event is emitted on every step change and every broadcast hash.
type Event struct {
	ActionID uuid.UUID
	Kind     domain.Kind
	Key      string
	Step     domain.Step
	Status   string
	TxHash   common.Hash
	Err      error
	At       time.Time
}

// Observer receives events synchronously on the sequencing goroutine.
type Observer func(Event)

// ActionResult summarizes a finished run.
type ActionResult struct {
	ID         uuid.UUID
	Kind       domain.Kind
	Key        string
	Steps      []domain.Step
	Status     string
	TxHashes   []common.Hash
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Final is the terminal step.
func (r *ActionResult) Final() domain.Step {
	if len(r.Steps) == 0 {
		return domain.Idle
	}
	return r.Steps[len(r.Steps)-1]
}

// Succeeded reports a successful run.
func (r *ActionResult) Succeeded() bool {
	return r.Final() == domain.Succeeded
}
