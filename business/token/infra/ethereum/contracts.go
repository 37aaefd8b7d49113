package ethereum

// TorexABI covers the pair lookup on a TOREX.
const TorexABI = `[
	{
		"inputs": [],
		"name": "getPairedTokens",
		"outputs": [
			{"internalType": "address", "name": "inToken", "type": "address"},
			{"internalType": "address", "name": "outToken", "type": "address"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`

// SuperTokenABI covers the underlying lookup on a Superfluid super token.
const SuperTokenABI = `[
	{
		"inputs": [],
		"name": "getUnderlyingToken",
		"outputs": [{"internalType": "address", "name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// ERC20ABI covers the read methods of an ERC20.
const ERC20ABI = `[
	{
		"inputs": [{"internalType": "address", "name": "account", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "address", "name": "owner", "type": "address"},
			{"internalType": "address", "name": "spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "decimals",
		"outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}],
		"stateMutability": "view",
		"type": "function"
	}
]`
