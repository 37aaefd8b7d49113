// Package pricing values received ETH in USD.
package pricing

import (
	"context"
	"time"

	"github.com/fd1az/superboost/business/pricing/app"
	pricingDI "github.com/fd1az/superboost/business/pricing/di"
	"github.com/fd1az/superboost/business/pricing/infra/dia"
	"github.com/fd1az/superboost/internal/config"
	"github.com/fd1az/superboost/internal/di"
	"github.com/fd1az/superboost/internal/logger"
	"github.com/fd1az/superboost/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, pricingDI.QuoteProvider, func(sr di.ServiceRegistry) app.QuoteProvider {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		provider, err := dia.NewProvider(dia.Config{
			URL:               cfg.Pricing.URL,
			RequestsPerMinute: cfg.Pricing.RequestsPerMinute,
		}, log)
		if err != nil {
			panic("failed to create dia provider: " + err.Error())
		}
		return provider
	})

	di.RegisterToken(c, pricingDI.PricingService, func(sr di.ServiceRegistry) *app.PricingService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewPricingService(pricingDI.GetQuoteProvider(sr), cfg.Pricing.CacheTTL, log)
	})

	return nil
}

// Startup warms the quote. A failure is logged; the dashboard shows no USD
// value until a later fetch succeeds.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	svc := pricingDI.GetPricingService(mono.Services())

	warmCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if q, err := svc.ETHUSD(warmCtx); err != nil {
		log.Warn(ctx, "eth price unavailable at startup", "error", err)
	} else {
		log.Info(ctx, "eth price loaded", "price", q.Price.Rate().StringFixed(2), "source", q.Source)
	}

	go func() {
		<-ctx.Done()
		svc.Close()
	}()

	log.Info(ctx, "pricing module started")
	return nil
}
