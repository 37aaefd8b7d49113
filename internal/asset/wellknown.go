package asset

// ChainIDOptimism is the only chain the dashboard talks to.
const ChainIDOptimism = 10

// Well-known assets. ERC20s are discovered at runtime from the target
// contract's token pair.
var (
	ETH = NewNative(ChainIDOptimism, "ETH", 18)
	USD = NewFiat("USD", 2)
)
