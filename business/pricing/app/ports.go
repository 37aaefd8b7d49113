// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"

	"github.com/fd1az/superboost/business/pricing/domain"
)

// QuoteProvider fetches a fresh ETH/USD spot quote.
type QuoteProvider interface {
	ETHUSD(ctx context.Context) (domain.Quote, error)
}
