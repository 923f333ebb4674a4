package bybit

import (
	"errors"
	"fmt"
	"net/http"
)

// BybitError represents a Bybit API error with additional context
type BybitError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *BybitError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Bybit API error %d: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("Bybit API error %d: %s", e.Code, e.Message)
}

// Common Bybit error codes
const (
	ErrCodeInvalidParameter  = 10001
	ErrCodeRateLimitExceeded = 10006
	ErrCodeSymbolNotFound    = 10001001
)

// apiCode returns the Bybit retCode (or HTTP status) carried by err
func apiCode(err error) (int, bool) {
	var bybitErr *BybitError
	if !errors.As(err, &bybitErr) {
		return 0, false
	}
	return bybitErr.Code, true
}

// IsRetryableError reports whether the request may succeed if repeated: rate limits and 5xx
func IsRetryableError(err error) bool {
	code, ok := apiCode(err)
	if !ok {
		return false
	}
	return code == ErrCodeRateLimitExceeded || code == http.StatusTooManyRequests ||
		(code >= http.StatusInternalServerError && code <= http.StatusGatewayTimeout && code != http.StatusNotImplemented)
}

// IsRateLimitError checks if the error is due to rate limiting
func IsRateLimitError(err error) bool {
	code, ok := apiCode(err)
	return ok && (code == ErrCodeRateLimitExceeded || code == http.StatusTooManyRequests)
}

// IsInvalidSymbolError reports whether the API rejected the symbol
func IsInvalidSymbolError(err error) bool {
	code, ok := apiCode(err)
	return ok && (code == ErrCodeSymbolNotFound || code == ErrCodeInvalidParameter)
}

// NewBybitError creates a new BybitError
func NewBybitError(code int, message string, details ...string) *BybitError {
	err := &BybitError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// WrapAPIError wraps a generic error with additional context
func WrapAPIError(operation string, err error) error {
	if err == nil {
		return nil
	}

	var bybitErr *BybitError
	if errors.As(err, &bybitErr) {
		return NewBybitError(bybitErr.Code, bybitErr.Message, operation)
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}

// ParseAPIError extracts error information from the API response
func ParseAPIError(retCode int, retMsg string) error {
	if retCode == 0 {
		return nil
	}
	return NewBybitError(retCode, retMsg)
}
