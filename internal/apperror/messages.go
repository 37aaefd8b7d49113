package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",

	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	CodeInvalidAmount:     "Amount must be a positive number",
	CodeResolutionError:   "Target contract does not expose a token pair",
	CodeBalanceFetchError: "Failed to fetch balance or allowance",

	CodeEthereumConnectionFailed: "Failed to connect to the chain",
	CodeEthereumRPCError:         "Chain RPC call failed",
	CodeContractCallFailed:       "Contract call failed",
	CodeGasEstimationFailed:      "Gas estimation failed",

	CodeWalletUnavailable:    "No signer is configured",
	CodeTransactionRejected:  "Transaction was rejected",
	CodeTransactionReverted:  "Transaction reverted",
	CodeConfirmationTimeout:  "Timed out waiting for confirmation",
	CodeFlowInProgress:       "This action is already in progress",
	CodeNoActivePosition:     "No active position",
	CodeParamsEncodingFailed: "Failed to build macro parameters",

	CodeSubgraphQueryFailed: "Indexer query failed",
	CodePriceFetchFailed:    "Failed to fetch price",

	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
