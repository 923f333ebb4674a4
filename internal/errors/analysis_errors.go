package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCategory represents different types of errors that can occur
type ErrorCategory string

const (
	// Structural errors surfaced to the caller, never retried
	ErrorCategoryFatal         ErrorCategory = "FATAL"
	ErrorCategoryNoData        ErrorCategory = "NO_DATA"
	ErrorCategoryValidation    ErrorCategory = "VALIDATION"
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"

	// IO errors from market-data sources and caches
	ErrorCategoryNetwork  ErrorCategory = "NETWORK"
	ErrorCategoryTimeout  ErrorCategory = "TIMEOUT"
	ErrorCategoryProvider ErrorCategory = "PROVIDER"
	ErrorCategoryCache    ErrorCategory = "CACHE"

	// Temporary errors
	ErrorCategoryTemporary ErrorCategory = "TEMPORARY"
	ErrorCategoryRateLimit ErrorCategory = "RATE_LIMIT"
)

// ErrNoData is the sentinel for "no bars available for the requested ticker/range".
var ErrNoData = stderrors.New("no data available")

// AnalysisError represents a categorized error with context
type AnalysisError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
	Retryable  bool
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *AnalysisError) Unwrap() error {
	return e.Underlying
}

// Is lets errors.Is(err, ErrNoData) match every NO_DATA error, wrapped or not.
func (e *AnalysisError) Is(target error) bool {
	return target == ErrNoData && e.Category == ErrorCategoryNoData
}

// IsRetryable returns whether this error can be retried
func (e *AnalysisError) IsRetryable() bool {
	return e.Retryable
}

// IsFatal returns whether this error should abort the run
func (e *AnalysisError) IsFatal() bool {
	return e.Category == ErrorCategoryFatal ||
		e.Category == ErrorCategoryValidation ||
		e.Category == ErrorCategoryConfiguration
}

// NewAnalysisError creates a new categorized error
func NewAnalysisError(category ErrorCategory, component, operation, message string) *AnalysisError {
	return &AnalysisError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
		Retryable: isRetryableCategory(category),
	}
}

// WrapError wraps an existing error with analysis context
func WrapError(err error, category ErrorCategory, component, operation string) *AnalysisError {
	if err == nil {
		return nil
	}

	return &AnalysisError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Context:    make(map[string]interface{}),
		Retryable:  isRetryableCategory(category),
	}
}

// WithContext adds context information to the error
func (e *AnalysisError) WithContext(key string, value interface{}) *AnalysisError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithRetryable sets the retryable flag
func (e *AnalysisError) WithRetryable(retryable bool) *AnalysisError {
	e.Retryable = retryable
	return e
}

func isRetryableCategory(category ErrorCategory) bool {
	switch category {
	case ErrorCategoryNetwork, ErrorCategoryTimeout, ErrorCategoryTemporary, ErrorCategoryRateLimit:
		return true
	default:
		return false
	}
}

// CategorizeError attempts to categorize a generic error
func CategorizeError(err error, component, operation string) *AnalysisError {
	if err == nil {
		return nil
	}

	var analysisErr *AnalysisError
	if stderrors.As(err, &analysisErr) {
		return analysisErr
	}

	if stderrors.Is(err, ErrNoData) {
		return WrapError(err, ErrorCategoryNoData, component, operation)
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "context deadline exceeded") {
		return WrapError(err, ErrorCategoryTimeout, component, operation)
	}

	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "network") ||
		strings.Contains(errMsg, "dns") || strings.Contains(errMsg, "dial") {
		return WrapError(err, ErrorCategoryNetwork, component, operation)
	}

	if strings.Contains(errMsg, "rate limit") || strings.Contains(errMsg, "too many requests") || strings.Contains(errMsg, "429") {
		return WrapError(err, ErrorCategoryRateLimit, component, operation)
	}

	if strings.Contains(errMsg, "invalid") || strings.Contains(errMsg, "malformed") ||
		strings.Contains(errMsg, "must be") {
		return WrapError(err, ErrorCategoryValidation, component, operation)
	}

	return WrapError(err, ErrorCategoryTemporary, component, operation)
}

// Common error constructors

func NewNoDataError(component, operation, message string) *AnalysisError {
	return &AnalysisError{
		Category:   ErrorCategoryNoData,
		Component:  component,
		Operation:  operation,
		Message:    message,
		Underlying: ErrNoData,
		Context:    make(map[string]interface{}),
	}
}

func NewValidationError(component, operation, message string) *AnalysisError {
	return NewAnalysisError(ErrorCategoryValidation, component, operation, message)
}

func NewConfigurationError(component, operation, message string) *AnalysisError {
	return NewAnalysisError(ErrorCategoryConfiguration, component, operation, message)
}

func NewNetworkError(component, operation string, err error) *AnalysisError {
	return WrapError(err, ErrorCategoryNetwork, component, operation)
}

func NewTimeoutError(component, operation string, err error) *AnalysisError {
	return WrapError(err, ErrorCategoryTimeout, component, operation)
}

func NewProviderError(component, operation string, err error) *AnalysisError {
	return WrapError(err, ErrorCategoryProvider, component, operation)
}

func NewCacheError(component, operation string, err error) *AnalysisError {
	return WrapError(err, ErrorCategoryCache, component, operation)
}

func NewFatalError(component, operation, message string) *AnalysisError {
	return NewAnalysisError(ErrorCategoryFatal, component, operation, message)
}

// IsNoData reports whether err signals an empty source rather than a failure.
func IsNoData(err error) bool {
	return stderrors.Is(err, ErrNoData)
}

// CategoryOf returns the category of err, or "" if it is not an AnalysisError.
func CategoryOf(err error) ErrorCategory {
	var analysisErr *AnalysisError
	if stderrors.As(err, &analysisErr) {
		return analysisErr.Category
	}
	return ""
}

// RecoveryAction is what a caller should do after an error
type RecoveryAction string

const (
	RecoveryActionRetry  RecoveryAction = "RETRY"
	RecoveryActionReport RecoveryAction = "REPORT"
	RecoveryActionStop   RecoveryAction = "STOP"
	RecoveryActionWait   RecoveryAction = "WAIT"
)

// GetRecoveryAction suggests a recovery action based on error category
func (e *AnalysisError) GetRecoveryAction() RecoveryAction {
	switch e.Category {
	case ErrorCategoryFatal, ErrorCategoryConfiguration, ErrorCategoryValidation:
		return RecoveryActionStop
	case ErrorCategoryNoData:
		return RecoveryActionReport
	case ErrorCategoryRateLimit:
		return RecoveryActionWait
	case ErrorCategoryNetwork, ErrorCategoryTimeout, ErrorCategoryTemporary:
		return RecoveryActionRetry
	default:
		if e.Retryable {
			return RecoveryActionRetry
		}
		return RecoveryActionStop
	}
}
