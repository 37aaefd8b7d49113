// Package di contains dependency injection tokens for the token context.
package di

import (
	"github.com/fd1az/superboost/business/token/app"
	"github.com/fd1az/superboost/internal/di"
)

// Public service tokens - exposed to other modules
var (
	TokenService = di.NewToken[*app.TokenService]("token.TokenService")
)

// Private dependency tokens - internal to token module
var (
	ChainReader = di.NewToken[app.ChainReader]("token:chainReader")
)

func GetTokenService(c di.ServiceRegistry) *app.TokenService {
	return di.GetToken(c, TokenService)
}

func GetChainReader(c di.ServiceRegistry) app.ChainReader {
	return di.GetToken(c, ChainReader)
}
