// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/fd1az/superboost/business/pricing/app"
	"github.com/fd1az/superboost/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PricingService = di.NewToken[*app.PricingService]("pricing.PricingService")
)

// Private dependency tokens - internal to pricing module
var (
	QuoteProvider = di.NewToken[app.QuoteProvider]("pricing:quoteProvider")
)

// Helper functions for type-safe access
func GetPricingService(c di.ServiceRegistry) *app.PricingService {
	return di.GetToken(c, PricingService)
}

func GetQuoteProvider(c di.ServiceRegistry) app.QuoteProvider {
	return di.GetToken(c, QuoteProvider)
}
