// Package di contains dependency injection tokens for the blockchain context.
package di

import (
	"github.com/fd1az/superboost/business/blockchain/app"
	"github.com/fd1az/superboost/internal/di"
)

// Public service tokens - exposed to other modules
var (
	BlockchainService = di.NewToken[*app.BlockchainService]("blockchain.BlockchainService")
	HeadWatcher       = di.NewToken[*app.HeadWatcher]("blockchain.HeadWatcher")
)

// Private dependency tokens - internal to blockchain module
var (
	Wallet    = di.NewToken[app.Wallet]("blockchain:wallet")
	GasOracle = di.NewToken[app.FeeOracle]("blockchain:gasOracle")
)

func GetBlockchainService(c di.ServiceRegistry) *app.BlockchainService {
	return di.GetToken(c, BlockchainService)
}

func GetWallet(c di.ServiceRegistry) app.Wallet {
	return di.GetToken(c, Wallet)
}

func GetGasOracle(c di.ServiceRegistry) app.FeeOracle {
	return di.GetToken(c, GasOracle)
}

func GetHeadWatcher(c di.ServiceRegistry) *app.HeadWatcher {
	return di.GetToken(c, HeadWatcher)
}
