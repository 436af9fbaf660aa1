package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrConflict       ErrorCode = "CONFLICT"
	ErrBadRequest     ErrorCode = "BAD_REQUEST"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"

	// Ledger failures.
	ErrInvalidAddress      ErrorCode = "INVALID_ADDRESS"
	ErrLimitExceeded       ErrorCode = "LIMIT_EXCEEDED"
	ErrInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"
	ErrDuplicateAddress    ErrorCode = "DUPLICATE_ADDRESS"
	ErrAccountNotFound     ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrTransferAborted     ErrorCode = "TRANSFER_ABORTED"

	// Vault failures.
	ErrVaultNotFound          ErrorCode = "VAULT_NOT_FOUND"
	ErrRequestNotFound        ErrorCode = "REQUEST_NOT_FOUND"
	ErrGuardianNotFound       ErrorCode = "GUARDIAN_NOT_FOUND"
	ErrDuplicateGuardian      ErrorCode = "DUPLICATE_GUARDIAN"
	ErrInsufficientVaultFunds ErrorCode = "INSUFFICIENT_VAULT_FUNDS"
	ErrVaultNotActive         ErrorCode = "VAULT_NOT_ACTIVE"
)

// APIError is a recoverable, caller-visible failure. Domain operations return
// these as values; none abort the process.
type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	if details != nil {
		logrus.Error(details)
	}
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Newf builds an APIError with a formatted message and no details.
func Newf(code ErrorCode, format string, args ...interface{}) APIError {
	return APIError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the error code from err, or ErrInternalServer for untyped
// errors.
func CodeOf(err error) ErrorCode {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ErrInternalServer
}

func MapErrorToHTTPStatus(err error) int {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case ErrNotFound, ErrAccountNotFound, ErrVaultNotFound, ErrRequestNotFound, ErrGuardianNotFound:
			return http.StatusNotFound
		case ErrConflict, ErrDuplicateAddress, ErrDuplicateGuardian:
			return http.StatusConflict
		case ErrInvalidInput, ErrBadRequest, ErrInvalidAddress, ErrLimitExceeded, ErrVaultNotActive:
			return http.StatusBadRequest
		case ErrInsufficientBalance, ErrInsufficientVaultFunds:
			return http.StatusUnprocessableEntity
		case ErrTransferAborted:
			return http.StatusRequestTimeout
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
