package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Amount and token errors
const (
	CodeInvalidAmount     Code = "INVALID_AMOUNT"
	CodeResolutionError   Code = "RESOLUTION_ERROR"
	CodeBalanceFetchError Code = "BALANCE_FETCH_ERROR"
)

// Chain access errors
const (
	CodeEthereumConnectionFailed Code = "ETHEREUM_CONNECTION_FAILED"
	CodeEthereumRPCError         Code = "ETHEREUM_RPC_ERROR"
	CodeContractCallFailed       Code = "CONTRACT_CALL_FAILED"
	CodeGasEstimationFailed      Code = "GAS_ESTIMATION_FAILED"
)

// Transaction errors
const (
	CodeWalletUnavailable    Code = "WALLET_UNAVAILABLE"
	CodeTransactionRejected  Code = "TRANSACTION_REJECTED"
	CodeTransactionReverted  Code = "TRANSACTION_REVERTED"
	CodeConfirmationTimeout  Code = "CONFIRMATION_TIMEOUT"
	CodeFlowInProgress       Code = "FLOW_IN_PROGRESS"
	CodeNoActivePosition     Code = "NO_ACTIVE_POSITION"
	CodeParamsEncodingFailed Code = "PARAMS_ENCODING_FAILED"
)

// Indexer and price feed errors
const (
	CodeSubgraphQueryFailed Code = "SUBGRAPH_QUERY_FAILED"
	CodePriceFetchFailed    Code = "PRICE_FETCH_FAILED"
)

// Infrastructure errors
const (
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
