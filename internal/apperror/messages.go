package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidAmount:   "Invalid swap amount",
	CodeInvalidAddress:  "Invalid token address",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Source fetch errors
	CodeSourceUnavailable:  "Quote source unavailable",
	CodeSourceAPIError:     "Quote source API error",
	CodeSourceRateLimited:  "Quote source rate limit exceeded",
	CodeSourceUnauthorized: "Quote source rejected credentials",
	CodeQuoteFetchFailed:   "Failed to fetch quote",
	CodeInvalidQuote:       "Invalid quote data",
	CodeUnknownSource:      "Unknown quote source",
	CodeUnsupportedChain:   "Chain not supported by source",

	// Semantic quote failures
	CodeNoRoute:               "No swap route found",
	CodeInsufficientLiquidity: "Insufficient liquidity for trade size",

	// Blockchain/RPC errors
	CodeRPCConnectionFailed: "Failed to connect to RPC node",
	CodeRPCError:            "RPC call failed",
	CodeGasPriceFailed:      "Gas price fetch failed",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
