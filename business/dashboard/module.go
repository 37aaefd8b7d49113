// Package dashboard combines positions, balances and prices into the view
// the terminal UI and CLI render.
package dashboard

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/superboost/business/dashboard/app"
	dashboardDI "github.com/fd1az/superboost/business/dashboard/di"
	"github.com/fd1az/superboost/business/dashboard/domain"
	positionDI "github.com/fd1az/superboost/business/position/di"
	pricingDI "github.com/fd1az/superboost/business/pricing/di"
	tokenDI "github.com/fd1az/superboost/business/token/di"
	"github.com/fd1az/superboost/internal/config"
	"github.com/fd1az/superboost/internal/di"
	"github.com/fd1az/superboost/internal/logger"
	"github.com/fd1az/superboost/internal/monolith"
)

// Module implements the dashboard bounded context.
type Module struct{}

func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, dashboardDI.DashboardService, func(sr di.ServiceRegistry) *app.DashboardService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewDashboardService(
			positionDI.GetPositionService(sr),
			tokenDI.GetTokenService(sr),
			pricingDI.GetPricingService(sr),
			app.Targets{
				Torex:   cfg.Contracts.TorexAddress(),
				Spender: cfg.Contracts.SpenderAddress(),
			},
			Boosts(cfg.Boosts),
			log,
		)
	})
	return nil
}

func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	svc := dashboardDI.GetDashboardService(mono.Services())
	mono.Logger().Info(ctx, "dashboard module started", "boosts", len(svc.Boosts()))
	return nil
}

// Boosts maps the configured catalog.
func Boosts(in []config.BoostConfig) []domain.Boost {
	out := make([]domain.Boost, 0, len(in))
	for _, b := range in {
		out = append(out, domain.Boost{
			Name:          b.Name,
			FromToken:     b.FromToken,
			ToToken:       b.ToToken,
			MonthlyVolume: b.MonthlyVolume,
			DailyRewards:  b.DailyRewards,
			APR:           b.APR,
			Live:          b.Live,
			Torex:         common.HexToAddress(b.Torex),
		})
	}
	return out
}
