// Package di contains dependency injection tokens for the position context.
package di

import (
	"github.com/fd1az/superboost/business/position/app"
	"github.com/fd1az/superboost/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PositionService = di.NewToken[*app.PositionService]("position.PositionService")
)

// Private dependency tokens - internal to position module
var (
	PoolSource = di.NewToken[app.PoolSource]("position:poolSource")
)

func GetPositionService(c di.ServiceRegistry) *app.PositionService {
	return di.GetToken(c, PositionService)
}

func GetPoolSource(c di.ServiceRegistry) app.PoolSource {
	return di.GetToken(c, PoolSource)
}
