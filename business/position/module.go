// Package position reads the account's indexed pool memberships and
// projects the active stream per pool.
package position

import (
	"context"

	blockchainDI "github.com/fd1az/superboost/business/blockchain/di"
	"github.com/fd1az/superboost/business/position/app"
	positionDI "github.com/fd1az/superboost/business/position/di"
	"github.com/fd1az/superboost/business/position/infra/subgraph"
	"github.com/fd1az/superboost/internal/config"
	"github.com/fd1az/superboost/internal/di"
	"github.com/fd1az/superboost/internal/logger"
	"github.com/fd1az/superboost/internal/monolith"
)

// Module implements the position bounded context.
type Module struct{}

func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, positionDI.PoolSource, func(sr di.ServiceRegistry) app.PoolSource {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := subgraph.NewClient(subgraph.Config{
			URL:               cfg.Subgraph.URL,
			Timeout:           cfg.Subgraph.Timeout,
			RequestsPerMinute: cfg.Subgraph.RequestsPerMinute,
		}, log)
		if err != nil {
			panic("failed to create subgraph client: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, positionDI.PositionService, func(sr di.ServiceRegistry) *app.PositionService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		account := blockchainDI.GetWallet(sr).Account()
		return app.NewPositionService(positionDI.GetPoolSource(sr), cfg.Contracts.PoolAdminAddress(), account, log)
	})

	return nil
}

// Startup loads the first snapshot. An indexer failure is logged; the next
// refresh retries.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	svc := positionDI.GetPositionService(mono.Services())
	if _, err := svc.Refresh(ctx); err != nil {
		log.Error(ctx, "initial position load failed", "error", err)
	}

	log.Info(ctx, "position module started", "account", svc.Account().Hex(), "active", svc.HasActivePosition())
	return nil
}
