package handlers

// MaxRequestBodyBytes caps every JSON request body
const MaxRequestBodyBytes = 1 << 20

const (
	ErrInvalidJSON         = "Invalid JSON in request body"
	ErrRequestTooLarge     = "Request too large"
	ErrSessionIDRequired   = "Session ID is required"
	ErrInternalServerError = "Internal server error"
)
