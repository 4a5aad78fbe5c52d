package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeUnsupportedPackage is used for a session package outside the fixed set
	ErrCodeUnsupportedPackage = "ERR_UNSUPPORTED_PACKAGE"
	// ErrCodeUnsupportedMediaType is used for uploads of a disallowed type
	ErrCodeUnsupportedMediaType = "ERR_UNSUPPORTED_MEDIA_TYPE"
	// ErrCodePayloadTooLarge is used when a body or upload exceeds its limit
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked       = "ERR_TOKEN_REVOKED"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
	// ErrCodeRequestInProgress is used when an Idempotency-Key is still being processed
	ErrCodeRequestInProgress = "ERR_REQUEST_IN_PROGRESS"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeAmountMismatch is used when a payment does not cover the booking
	ErrCodeAmountMismatch = "ERR_AMOUNT_MISMATCH"
)

// Upstream provider error codes
const (
	// ErrCodePaymentGateway is used when the payment provider fails
	ErrCodePaymentGateway = "ERR_PAYMENT_GATEWAY"
	// ErrCodeEmailDelivery is used when the email provider fails
	ErrCodeEmailDelivery = "ERR_EMAIL_DELIVERY"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:           http.StatusBadRequest,
	ErrCodeUnsupportedPackage:   http.StatusBadRequest,
	ErrCodeUnsupportedMediaType: http.StatusUnsupportedMediaType,
	ErrCodePayloadTooLarge:      http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,

	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeAlreadyExists:     http.StatusConflict,
	ErrCodeConflict:          http.StatusConflict,
	ErrCodeRequestInProgress: http.StatusConflict,

	ErrCodeInvalidState:   http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:   http.StatusUnprocessableEntity,
	ErrCodeAmountMismatch: http.StatusUnprocessableEntity,

	ErrCodePaymentGateway: http.StatusBadGateway,
	ErrCodeEmailDelivery:  http.StatusBadGateway,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to standardized codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":           ErrCodeNotFound,
	"ALREADY_EXISTS":      ErrCodeAlreadyExists,
	"INVALID_INPUT":       ErrCodeInvalidInput,
	"INVALID_STATE":       ErrCodeInvalidState,
	"UNAUTHORIZED":        ErrCodeUnauthorized,
	"FORBIDDEN":           ErrCodeForbidden,
	"CONFLICT":            ErrCodeConflict,
	"VALIDATION_ERROR":    ErrCodeValidation,
	"BAD_REQUEST":         ErrCodeBadRequest,
	"INTERNAL_ERROR":      ErrCodeInternal,
	"UNSUPPORTED_PACKAGE": ErrCodeUnsupportedPackage,

	"INVALID_CREDENTIALS":  ErrCodeInvalidCredentials,
	"TOKEN_REVOKED":        ErrCodeTokenRevoked,
	"INVALID_SIGNATURE":    ErrCodeUnauthorized,
	"CANNOT_MODIFY_SELF":   ErrCodeBusinessRule,
	"LAST_SUPER_ADMIN":     ErrCodeBusinessRule,
	"ALREADY_BOOTSTRAPPED": ErrCodeConflict,

	"REQUEST_IN_PROGRESS": ErrCodeRequestInProgress,
	"DUPLICATE_REQUEST":   ErrCodeRequestInProgress,
	"PAYMENT_GATEWAY":     ErrCodePaymentGateway,
	"EMAIL_DELIVERY":      ErrCodeEmailDelivery,
	"AMOUNT_MISMATCH":     ErrCodeAmountMismatch,
	"ALREADY_PAID":        ErrCodeInvalidState,
	"PAYMENT_REQUIRED":    ErrCodeInvalidState,

	"ALREADY_PUBLISHED":      ErrCodeInvalidState,
	"NOT_PUBLISHED":          ErrCodeInvalidState,
	"IMAGE_TOO_LARGE":        ErrCodePayloadTooLarge,
	"UNSUPPORTED_MEDIA_TYPE": ErrCodeUnsupportedMediaType,
}

// NormalizeErrorCode converts a domain error code to the standardized format.
// Codes without an explicit mapping are classified by shape: *_NOT_FOUND,
// *_EXISTS and INVALID_*. Standardized and unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return ErrCodeNotFound
	case strings.HasSuffix(code, "_EXISTS"):
		return ErrCodeAlreadyExists
	case strings.HasPrefix(code, "INVALID_"):
		return ErrCodeValidation
	}
	return code
}
