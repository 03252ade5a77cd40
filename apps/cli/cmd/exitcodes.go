package cmd

// Exit codes for the reqx CLI
const (
	// ExitSuccess indicates the call succeeded and the body decoded
	ExitSuccess = 0

	// ExitInvalidResponse indicates the response failed validation
	ExitInvalidResponse = 1

	// ExitDecodingError indicates the body did not decode into the requested shape
	ExitDecodingError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
