// Package token resolves TOREX token pairs and reads account balances and
// allowances on-chain.
package token

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fd1az/superboost/business/token/app"
	tokenDI "github.com/fd1az/superboost/business/token/di"
	"github.com/fd1az/superboost/business/token/infra/ethereum"
	"github.com/fd1az/superboost/internal/config"
	"github.com/fd1az/superboost/internal/di"
	"github.com/fd1az/superboost/internal/logger"
	"github.com/fd1az/superboost/internal/monolith"
)

// Module implements the token bounded context.
type Module struct{}

func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, tokenDI.ChainReader, func(sr di.ServiceRegistry) app.ChainReader {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("ethClient").(*ethclient.Client)

		r, err := ethereum.NewReader(client, cfg.Chain.CallTimeout, log)
		if err != nil {
			panic("failed to create token reader: " + err.Error())
		}
		return r
	})

	di.RegisterToken(c, tokenDI.TokenService, func(sr di.ServiceRegistry) *app.TokenService {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewTokenService(tokenDI.GetChainReader(sr), log)
	})

	return nil
}

// Startup resolves the configured TOREX once so a misconfigured address is
// reported at boot. The failure is logged; the dashboard still starts.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()

	svc := tokenDI.GetTokenService(mono.Services())
	if _, err := svc.ResolveTokenPair(ctx, cfg.Contracts.TorexAddress()); err != nil {
		log.Error(ctx, "torex resolution failed", "torex", cfg.Contracts.Torex, "error", err)
	}

	log.Info(ctx, "token module started")
	return nil
}
