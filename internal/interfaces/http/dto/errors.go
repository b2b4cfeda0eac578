package dto

import "net/http"

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unmapped domain codes are business rule violations.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if status, ok := domainErrorHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}

// domainErrorHTTPStatus maps domain error codes that do not follow the
// ERR_ naming to their HTTP status
var domainErrorHTTPStatus = map[string]int{
	"NOT_FOUND":          http.StatusNotFound,
	"DETAIL_NOT_FOUND":   http.StatusNotFound,
	"SUBJECT_NOT_FOUND":  http.StatusNotFound,
	"ALREADY_EXISTS":     http.StatusConflict,
	"SCHEDULE_EXISTS":    http.StatusConflict,
	"SUBJECT_EXISTS":     http.StatusConflict,
	"ALREADY_PROCESSED":  http.StatusConflict,
	"CONCURRENT_UPDATE":  http.StatusConflict,
	"SCHOOL_MISMATCH":    http.StatusForbidden,
	"INVALID_INPUT":      http.StatusBadRequest,
	"INVALID_SCHOOL":     http.StatusBadRequest,
	"INVALID_STUDENT":    http.StatusBadRequest,
	"INVALID_TEACHER":    http.StatusBadRequest,
	"INVALID_MONTH":      http.StatusBadRequest,
	"INVALID_DATE_RANGE": http.StatusBadRequest,
	"INVALID_DUE_DAY":    http.StatusBadRequest,
}
