// Package di contains dependency injection tokens for the dca context.
package di

import (
	"github.com/fd1az/superboost/business/dca/app"
	"github.com/fd1az/superboost/business/dca/infra/contracts"
	"github.com/fd1az/superboost/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Sequencer = di.NewToken[*app.Sequencer]("dca.Sequencer")
)

// Private dependency tokens - internal to dca module
var (
	Encoder = di.NewToken[*contracts.Encoder]("dca:encoder")
)

func GetSequencer(c di.ServiceRegistry) *app.Sequencer {
	return di.GetToken(c, Sequencer)
}

func GetEncoder(c di.ServiceRegistry) *contracts.Encoder {
	return di.GetToken(c, Encoder)
}
