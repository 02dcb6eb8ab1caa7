package httputil

// Machine-readable error codes returned alongside error messages.
// Clients should branch on these rather than on message text.
const (
	CodeInvalidRequestBody = "invalid_request_body"
	CodeValidationFailed   = "validation_failed"
	CodeAccountExists      = "account_exists"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthenticated    = "unauthenticated"
	CodeAccessDenied       = "access_denied"
	CodeInternalError      = "internal_error"
)
