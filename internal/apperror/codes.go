package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidAmount   Code = "INVALID_AMOUNT"
	CodeInvalidAddress  Code = "INVALID_ADDRESS"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Quote aggregation error codes
const (
	// Source fetch errors
	CodeSourceUnavailable  Code = "SOURCE_UNAVAILABLE"
	CodeSourceAPIError     Code = "SOURCE_API_ERROR"
	CodeSourceRateLimited  Code = "SOURCE_RATE_LIMITED"
	CodeSourceUnauthorized Code = "SOURCE_UNAUTHORIZED"
	CodeQuoteFetchFailed   Code = "QUOTE_FETCH_FAILED"
	CodeInvalidQuote       Code = "INVALID_QUOTE"
	CodeUnknownSource      Code = "UNKNOWN_SOURCE"
	CodeUnsupportedChain   Code = "UNSUPPORTED_CHAIN"

	// Semantic quote failures (backend answered, but no usable route)
	CodeNoRoute               Code = "NO_ROUTE"
	CodeInsufficientLiquidity Code = "INSUFFICIENT_LIQUIDITY"

	// Blockchain/RPC errors (gas oracle)
	CodeRPCConnectionFailed Code = "RPC_CONNECTION_FAILED"
	CodeRPCError            Code = "RPC_ERROR"
	CodeGasPriceFailed      Code = "GAS_PRICE_FAILED"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
