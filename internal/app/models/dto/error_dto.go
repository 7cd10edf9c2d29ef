package dto

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_008"
	ErrorCodeResourceNotFound   ErrorCode = "RES_001"
	ErrorCodeValidationFailed   ErrorCode = "VAL_001"
	ErrorCodeInvalidRequest     ErrorCode = "VAL_002"
	ErrorCodeInternalServer     ErrorCode = "SRV_001"
)

// ErrorResponse is the uniform failure envelope
type ErrorResponse struct {
	Success bool      `json:"success" example:"false"`
	Message string    `json:"message" example:"Invalid email format"`
	Code    ErrorCode `json:"code,omitempty" example:"VAL_001"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Message: message,
		Code:    code,
	}
}
