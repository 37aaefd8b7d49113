// Package blockchain owns the signer and fee oracle used to submit
// transactions on Optimism.
package blockchain

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fd1az/superboost/business/blockchain/app"
	blockchainDI "github.com/fd1az/superboost/business/blockchain/di"
	"github.com/fd1az/superboost/business/blockchain/infra/ethereum"
	"github.com/fd1az/superboost/internal/config"
	"github.com/fd1az/superboost/internal/di"
	"github.com/fd1az/superboost/internal/logger"
	"github.com/fd1az/superboost/internal/monolith"
)

// Module implements the blockchain bounded context.
type Module struct{}

// RegisterServices registers all blockchain services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, blockchainDI.GasOracle, func(sr di.ServiceRegistry) app.FeeOracle {
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("ethClient").(*ethclient.Client)

		oracle, err := ethereum.NewGasOracle(ethereum.DefaultGasOracleConfig(), client, log)
		if err != nil {
			panic("failed to create gas oracle: " + err.Error())
		}
		return oracle
	})

	di.RegisterToken(c, blockchainDI.Wallet, func(sr di.ServiceRegistry) app.Wallet {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("ethClient").(*ethclient.Client)

		w, err := ethereum.NewWallet(ethereum.WalletConfig{
			PrivateKey: cfg.Wallet.PrivateKey,
			Account:    cfg.Wallet.Account,
			ChainID:    cfg.Chain.ChainID,
		}, client, blockchainDI.GetGasOracle(sr), log)
		if err != nil {
			panic("failed to create wallet: " + err.Error())
		}
		return w
	})

	di.RegisterToken(c, blockchainDI.BlockchainService, func(sr di.ServiceRegistry) *app.BlockchainService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("ethClient").(*ethclient.Client)
		return app.NewBlockchainService(
			blockchainDI.GetWallet(sr),
			blockchainDI.GetGasOracle(sr),
			client,
			cfg.Wallet.ConfirmationTimeout,
			log,
		)
	})

	di.RegisterToken(c, blockchainDI.HeadWatcher, func(sr di.ServiceRegistry) *app.HeadWatcher {
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("ethClient").(*ethclient.Client)
		return app.NewHeadWatcher(client, blockchainDI.GetGasOracle(sr), app.DefaultHeadInterval, log)
	})

	return nil
}

// Startup verifies the node's chain id and starts head polling for the
// lifetime of ctx. A chain id failure is logged, not fatal: reads still
// work and sends will surface their own errors.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	wallet := blockchainDI.GetWallet(mono.Services())
	if connector, ok := wallet.(interface{ Connect(context.Context) error }); ok {
		if err := connector.Connect(ctx); err != nil {
			log.Error(ctx, "failed to connect wallet", "error", err)
		}
	}

	go blockchainDI.GetHeadWatcher(mono.Services()).Run(ctx)

	log.Info(ctx, "blockchain module started", "account", wallet.Account().Hex(), "can_sign", wallet.CanSign())
	return nil
}
