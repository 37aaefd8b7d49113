// Package dca sequences the on-chain transactions behind the dashboard's
// start, close and register actions.
package dca

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	blockchainDI "github.com/fd1az/superboost/business/blockchain/di"
	"github.com/fd1az/superboost/business/dca/app"
	dcaDI "github.com/fd1az/superboost/business/dca/di"
	"github.com/fd1az/superboost/business/dca/infra/contracts"
	positionDI "github.com/fd1az/superboost/business/position/di"
	tokenDI "github.com/fd1az/superboost/business/token/di"
	"github.com/fd1az/superboost/internal/config"
	"github.com/fd1az/superboost/internal/di"
	"github.com/fd1az/superboost/internal/logger"
	"github.com/fd1az/superboost/internal/monolith"
)

// Module implements the dca bounded context.
type Module struct{}

func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, dcaDI.Encoder, func(sr di.ServiceRegistry) *contracts.Encoder {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("ethClient").(*ethclient.Client)

		enc, err := contracts.NewEncoder(client, cfg.Chain.CallTimeout, log)
		if err != nil {
			panic("failed to create contract encoder: " + err.Error())
		}
		return enc
	})

	di.RegisterToken(c, dcaDI.Sequencer, func(sr di.ServiceRegistry) *app.Sequencer {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		enc := dcaDI.GetEncoder(sr)

		return app.NewSequencer(SequencerConfig(cfg),
			blockchainDI.GetBlockchainService(sr),
			tokenDI.GetTokenService(sr),
			enc,
			enc,
			positionDI.GetPositionService(sr),
			log,
		)
	})

	return nil
}

// SequencerConfig maps the contract and transaction settings.
func SequencerConfig(cfg *config.Config) app.Config {
	return app.Config{
		Addresses: app.Addresses{
			Torex:          cfg.Contracts.TorexAddress(),
			MacroForwarder: cfg.Contracts.MacroForwarderAddress(),
			SBMacro:        cfg.Contracts.SBMacroAddress(),
			CFAForwarder:   cfg.Contracts.CFAForwarderAddress(),
			Rewards:        cfg.Contracts.RewardsAddress(),
		},
		Gas: app.GasLimits{
			Approve:  cfg.Transactions.ApproveGasLimit,
			Execute:  cfg.Transactions.ExecuteGasLimit,
			Delete:   cfg.Transactions.DeleteGasLimit,
			Register: cfg.Transactions.RegisterGasLimit,
		},
		RefreshDelay: cfg.Transactions.RefreshDelay,
	}
}

// Startup logs every action event.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	seq := dcaDI.GetSequencer(mono.Services())
	seq.Subscribe(func(e app.Event) {
		if e.TxHash != (common.Hash{}) {
			log.Info(ctx, "action transaction broadcast", "action_id", e.ActionID, "key", e.Key, "hash", e.TxHash.Hex())
			return
		}
		log.Debug(ctx, "action step", "action_id", e.ActionID, "key", e.Key, "step", e.Step.String(), "status", e.Status)
	})

	log.Info(ctx, "dca module started", "can_sign", blockchainDI.GetBlockchainService(mono.Services()).CanSign())
	return nil
}
