// Package di contains dependency injection tokens for the stream context.
package di

import (
	"github.com/fd1az/superboost/business/stream/app"
	"github.com/fd1az/superboost/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Estimator = di.NewToken[*app.Estimator]("stream.Estimator")
)

func GetEstimator(c di.ServiceRegistry) *app.Estimator {
	return di.GetToken(c, Estimator)
}
