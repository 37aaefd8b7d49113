package contracts

// ERC20ApproveABI is the approve half of ERC-20.
const ERC20ApproveABI = `[
	{"type":"function","name":"approve","stateMutability":"nonpayable",
	 "inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]}
]`

// MacroForwarderABI runs a user macro in one transaction.
const MacroForwarderABI = `[
	{"type":"function","name":"runMacro","stateMutability":"payable",
	 "inputs":[{"name":"m","type":"address"},{"name":"params","type":"bytes"}],
	 "outputs":[{"name":"","type":"bool"}]}
]`

// SBMacroABI builds the packed parameters for runMacro.
const SBMacroABI = `[
	{"type":"function","name":"getParams","stateMutability":"pure",
	 "inputs":[
		{"name":"torexAddr","type":"address"},
		{"name":"flowRate","type":"int96"},
		{"name":"distributor","type":"address"},
		{"name":"referrer","type":"address"},
		{"name":"upgradeAmount","type":"uint256"}],
	 "outputs":[{"name":"","type":"bytes"}]}
]`

// CFAForwarderABI closes constant flows.
const CFAForwarderABI = `[
	{"type":"function","name":"deleteFlow","stateMutability":"nonpayable",
	 "inputs":[
		{"name":"token","type":"address"},
		{"name":"sender","type":"address"},
		{"name":"receiver","type":"address"},
		{"name":"userData","type":"bytes"}],
	 "outputs":[{"name":"","type":"bool"}]}
]`

// RewardsABI is the incentive registry.
const RewardsABI = `[
	{"type":"function","name":"registerOrUpdateStream","stateMutability":"nonpayable",
	 "inputs":[{"name":"user","type":"address"}],
	 "outputs":[]}
]`
