// Package app sequences the approve, start, delete and register flows.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/google/uuid"

	blockchainDomain "github.com/fd1az/superboost/business/blockchain/domain"
	"github.com/fd1az/superboost/business/dca/domain"
	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/asset"
	"github.com/fd1az/superboost/internal/logger"
)

// StatusConnectWallet is shown when an action is attempted without a key.
const StatusConnectWallet = "Please connect your wallet first."

// Addresses are the contracts the flows call.
type Addresses struct {
	Torex          common.Address
	MacroForwarder common.Address
	SBMacro        common.Address
	CFAForwarder   common.Address
	Rewards        common.Address
}

// GasLimits are fixed per-call ceilings.
type GasLimits struct {
	Approve  uint64
	Execute  uint64
	Delete   uint64
	Register uint64
}

// Config wires a Sequencer.
type Config struct {
	Addresses    Addresses
	Gas          GasLimits
	RefreshDelay time.Duration
}

// Sequencer runs each action's transactions strictly in order. Different
// flow keys may run concurrently; the same key may not.
type Sequencer struct {
	cfg       Config
	exec      Executor
	tokens    TokenResolver
	params    ParamsBuilder
	encoder   CallEncoder
	refresher Refresher
	logger    logger.LoggerInterface

	mu        sync.Mutex
	inFlight  map[string]uuid.UUID
	observers []Observer
	now       func() time.Time
}

// NewSequencer creates a new Sequencer.
func NewSequencer(cfg Config, exec Executor, tokens TokenResolver, params ParamsBuilder, encoder CallEncoder, refresher Refresher, log logger.LoggerInterface) *Sequencer {
	return &Sequencer{
		cfg:       cfg,
		exec:      exec,
		tokens:    tokens,
		params:    params,
		encoder:   encoder,
		refresher: refresher,
		logger:    log,
		inFlight:  make(map[string]uuid.UUID),
		now:       time.Now,
	}
}

// Subscribe registers fn for every event.
func (s *Sequencer) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// InFlight reports whether key has a non-terminal run.
func (s *Sequencer) InFlight(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[key]
	return ok
}

// run is one action instance.
type run struct {
	s       *Sequencer
	result  *ActionResult
	machine *domain.Machine
}

func (s *Sequencer) begin(kind domain.Kind, subject string) (*run, error) {
	if !s.exec.CanSign() {
		return nil, apperror.New(apperror.CodeWalletUnavailable,
			apperror.WithMessage(StatusConnectWallet))
	}

	key := domain.FlowKey(kind, subject)
	id := uuid.New()

	s.mu.Lock()
	if _, busy := s.inFlight[key]; busy {
		s.mu.Unlock()
		return nil, apperror.New(apperror.CodeFlowInProgress, apperror.WithContext(key))
	}
	s.inFlight[key] = id
	s.mu.Unlock()

	r := &run{
		s:       s,
		machine: domain.NewMachine(),
		result: &ActionResult{
			ID:        id,
			Kind:      kind,
			Key:       key,
			StartedAt: s.now(),
		},
	}
	r.emit(domain.StatusProcessing, common.Hash{}, nil)
	return r, nil
}

func (r *run) emit(status string, hash common.Hash, err error) {
	r.result.Status = status
	ev := Event{
		ActionID: r.result.ID,
		Kind:     r.result.Kind,
		Key:      r.result.Key,
		Step:     r.machine.Current(),
		Status:   status,
		TxHash:   hash,
		Err:      err,
		At:       r.s.now(),
	}

	r.s.mu.Lock()
	observers := append([]Observer(nil), r.s.observers...)
	r.s.mu.Unlock()

	for _, fn := range observers {
		fn(ev)
	}
}

func (r *run) advance(next domain.Step, status string) {
	if err := r.machine.Advance(next); err != nil {
		// Programming error; the step order below is fixed.
		panic(err)
	}
	r.emit(status, common.Hash{}, nil)
}

// submit sends one transaction and treats a reverted receipt as failure.
func (r *run) submit(ctx context.Context, req blockchainDomain.TxRequest) error {
	_, err := r.s.exec.Execute(ctx, req, func(h common.Hash) {
		r.result.TxHashes = append(r.result.TxHashes, h)
		r.emit(r.result.Status, h, nil)
	})
	return err
}

// finish records the terminal step and frees the key. err nil means success.
func (r *run) finish(ctx context.Context, err error, okStatus string) (*ActionResult, error) {
	if err != nil {
		_ = r.machine.Advance(domain.Failed)
		r.result.Err = err
		r.emit(domain.StatusFailed, common.Hash{}, err)
		r.s.logger.Error(ctx, "action failed",
			"action_id", r.result.ID, "key", r.result.Key, "step_path", r.machine.Path(), "error", err)
	} else {
		r.advance(domain.Succeeded, okStatus)
		r.s.logger.Info(ctx, "action succeeded",
			"action_id", r.result.ID, "key", r.result.Key, "tx_count", len(r.result.TxHashes))
	}

	r.result.Steps = r.machine.Path()
	r.result.FinishedAt = r.s.now()

	r.s.mu.Lock()
	delete(r.s.inFlight, r.result.Key)
	r.s.mu.Unlock()

	return r.result, err
}

// StartStream approves the underlying when it is an ERC-20, then opens the
// stream through the macro forwarder. The approval is not undone when the
// second transaction fails. A zero Target streams into the configured
// TOREX.
func (s *Sequencer) StartStream(ctx context.Context, intent domain.StreamIntent) (*ActionResult, error) {
	if intent.Target == (common.Address{}) {
		intent.Target = s.cfg.Addresses.Torex
	}
	valid, err := intent.Validate()
	if err != nil {
		return nil, err
	}

	r, err := s.begin(domain.KindStart, intent.Target.Hex())
	if err != nil {
		return nil, err
	}
	return r.finish(ctx, s.startStream(ctx, r, valid), domain.StatusStarted)
}

func (s *Sequencer) startStream(ctx context.Context, r *run, intent domain.ValidIntent) error {
	account := s.exec.Account()

	pair, err := s.tokens.ResolveTokenPair(ctx, intent.Target)
	if err != nil {
		return err
	}

	if !pair.IsNativeUnderlying() {
		r.advance(domain.Approving, domain.StatusApproving)

		data, err := s.encoder.Approve(s.cfg.Addresses.MacroForwarder, math.MaxBig256)
		if err != nil {
			return err
		}
		if err := r.submit(ctx, blockchainDomain.TxRequest{
			Label:    "approve",
			To:       pair.UnderlyingToken,
			Data:     data,
			GasLimit: s.cfg.Gas.Approve,
		}); err != nil {
			return err
		}
		r.advance(domain.Approved, domain.StatusApproved)
	}

	upgrade := intent.Upgrade.Or(nil)
	if intent.Upgrade.Max {
		state := s.tokens.FetchAccountState(ctx, pair.UnderlyingToken, account, s.cfg.Addresses.MacroForwarder)
		if !state.Known() {
			return apperror.New(apperror.CodeBalanceFetchError,
				apperror.WithContext("balance needed for max upgrade amount"))
		}
		upgrade = intent.Upgrade.Or(asset.ScaleToFixedPoint18(state.BalanceRaw, state.Decimals))
	}

	r.advance(domain.Executing, domain.StatusStarting)

	params, err := s.params.BuildParams(ctx, s.cfg.Addresses.SBMacro, ParamsRequest{
		Torex:         intent.Target,
		FlowRate:      intent.FlowRate,
		Distributor:   intent.Distributor,
		Referrer:      intent.Referrer,
		UpgradeAmount: upgrade,
	})
	if err != nil {
		return err
	}
	data, err := s.encoder.RunMacro(s.cfg.Addresses.SBMacro, params)
	if err != nil {
		return err
	}
	if err := r.submit(ctx, blockchainDomain.TxRequest{
		Label:    "runMacro",
		To:       s.cfg.Addresses.MacroForwarder,
		Data:     data,
		GasLimit: s.cfg.Gas.Execute,
	}); err != nil {
		return err
	}

	s.refresher.RefetchWithDelay(s.cfg.RefreshDelay)
	return nil
}

// DeleteStream closes the account's stream into the TOREX behind poolID.
func (s *Sequencer) DeleteStream(ctx context.Context, poolID string) (*ActionResult, error) {
	r, err := s.begin(domain.KindDelete, poolID)
	if err != nil {
		return nil, err
	}
	return r.finish(ctx, s.deleteStream(ctx, r), domain.StatusDeleted)
}

func (s *Sequencer) deleteStream(ctx context.Context, r *run) error {
	pair, err := s.tokens.ResolveTokenPair(ctx, s.cfg.Addresses.Torex)
	if err != nil {
		return err
	}

	r.advance(domain.Executing, domain.StatusProcessing)

	data, err := s.encoder.DeleteFlow(pair.InToken, s.exec.Account(), s.cfg.Addresses.Torex)
	if err != nil {
		return err
	}
	if err := r.submit(ctx, blockchainDomain.TxRequest{
		Label:    "deleteFlow",
		To:       s.cfg.Addresses.CFAForwarder,
		Data:     data,
		GasLimit: s.cfg.Gas.Delete,
	}); err != nil {
		return err
	}

	s.refresher.RefetchWithDelay(s.cfg.RefreshDelay)
	return nil
}

// RegisterRewards registers the account's stream with the incentive
// contract. No refresh follows; the indexer does not track registration.
func (s *Sequencer) RegisterRewards(ctx context.Context, poolID string) (*ActionResult, error) {
	r, err := s.begin(domain.KindRegister, poolID)
	if err != nil {
		return nil, err
	}
	return r.finish(ctx, s.registerRewards(ctx, r), domain.StatusRegistered)
}

func (s *Sequencer) registerRewards(ctx context.Context, r *run) error {
	r.advance(domain.Executing, domain.StatusProcessing)

	data, err := s.encoder.RegisterOrUpdateStream(s.exec.Account())
	if err != nil {
		return err
	}
	return r.submit(ctx, blockchainDomain.TxRequest{
		Label:    "registerOrUpdateStream",
		To:       s.cfg.Addresses.Rewards,
		Data:     data,
		GasLimit: s.cfg.Gas.Register,
	})
}
