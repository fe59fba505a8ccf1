package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common error cases
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the request lacks valid authentication
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the user doesn't have permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput indicates the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrRepositoryExists indicates a repository with the same full name is already tracked
	ErrRepositoryExists = errors.New("repository already exists")

	// ErrUserExists indicates a user with the same GitHub ID already exists
	ErrUserExists = errors.New("user already exists")

	// ErrSubscriptionExists indicates the user already subscribes to the repository
	ErrSubscriptionExists = errors.New("subscription already exists")

	// ErrAlreadySent indicates a notification for this issue/user pair was already recorded
	ErrAlreadySent = errors.New("notification already sent")

	// ErrInvalidSubscription indicates the subscription cannot be matched against
	ErrInvalidSubscription = errors.New("invalid subscription")

	// ErrInvalidCredentials indicates the provided credentials are invalid
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrRateLimited indicates the GitHub API rate limit is exhausted
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrUpstream indicates the GitHub API returned an unexpected response
	ErrUpstream = errors.New("upstream error")

	// ErrTransport indicates an outbound delivery failed at the transport level
	ErrTransport = errors.New("transport error")

	// ErrSyncFailed indicates a repository sync was aborted
	ErrSyncFailed = errors.New("sync failed")

	// ErrDatabaseError indicates a database operation failed
	ErrDatabaseError = errors.New("database error")

	// ErrConfigError indicates a configuration error
	ErrConfigError = errors.New("configuration error")
)

// ErrorCode represents HTTP-like error codes
type ErrorCode int

const (
	CodeBadRequest          ErrorCode = http.StatusBadRequest
	CodeUnauthorized        ErrorCode = http.StatusUnauthorized
	CodeForbidden           ErrorCode = http.StatusForbidden
	CodeNotFound            ErrorCode = http.StatusNotFound
	CodeConflict            ErrorCode = http.StatusConflict
	CodeTooManyRequests     ErrorCode = http.StatusTooManyRequests
	CodeInternalServerError ErrorCode = http.StatusInternalServerError
	CodeBadGateway          ErrorCode = http.StatusBadGateway
	CodeServiceUnavailable  ErrorCode = http.StatusServiceUnavailable
)

// AppError represents an application-level error with additional context
type AppError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Err     error                  `json:"-"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is interface for comparison
func (e *AppError) Is(target error) bool {
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error
func (e *AppError) HTTPStatus() int {
	return int(e.Code)
}

// WithDetails adds additional details to the error
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new AppError with the given code, message, and underlying error
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound creates a new not found error
func NotFound(resource string, err error) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("%s not found", resource), err)
}

// Unauthorized creates a new unauthorized error
func Unauthorized(message string, err error) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(CodeUnauthorized, message, err)
}

// Forbidden creates a new forbidden error
func Forbidden(message string, err error) *AppError {
	if message == "" {
		message = "access denied"
	}
	return NewAppError(CodeForbidden, message, err)
}

// BadRequest creates a new bad request error
func BadRequest(message string, err error) *AppError {
	if message == "" {
		message = "invalid request"
	}
	return NewAppError(CodeBadRequest, message, err)
}

// Conflict creates a new conflict error (for duplicate resources)
func Conflict(message string, err error) *AppError {
	return NewAppError(CodeConflict, message, err)
}

// InternalError creates a new internal server error
func InternalError(message string, err error) *AppError {
	if message == "" {
		message = "an internal error occurred"
	}
	return NewAppError(CodeInternalServerError, message, err)
}

// DatabaseError creates a new database error
func DatabaseError(operation string, err error) *AppError {
	return NewAppError(CodeInternalServerError, fmt.Sprintf("database %s failed", operation), err)
}

// ValidationError creates a new validation error with field details
func ValidationError(field, message string) *AppError {
	return NewAppError(CodeBadRequest, message, ErrInvalidInput).WithDetails(map[string]interface{}{
		"field": field,
	})
}

// InvalidSubscription creates an error for matching against an unusable subscription
func InvalidSubscription(reason string) *AppError {
	return NewAppError(CodeBadRequest, fmt.Sprintf("invalid subscription: %s", reason), ErrInvalidSubscription)
}

// RateLimitExceeded creates an error for an exhausted GitHub rate limit
func RateLimitExceeded(resetAt string, err error) *AppError {
	appErr := NewAppError(CodeTooManyRequests, "github rate limit exceeded", ErrRateLimited)
	if err != nil {
		appErr.Err = fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	if resetAt != "" {
		appErr = appErr.WithDetails(map[string]interface{}{"reset_at": resetAt})
	}
	return appErr
}

// UpstreamError creates an error for an unexpected GitHub API response
func UpstreamError(operation string, statusCode int, err error) *AppError {
	if err == nil {
		err = ErrUpstream
	}
	return NewAppError(CodeBadGateway, fmt.Sprintf("github %s failed with status %d", operation, statusCode), err)
}

// TransportError creates an error for a failed outbound delivery
func TransportError(operation string, err error) *AppError {
	if err == nil {
		err = ErrTransport
	}
	return NewAppError(CodeBadGateway, fmt.Sprintf("%s delivery failed", operation), err)
}

// SyncError creates an error for an aborted repository sync
func SyncError(repo string, err error) *AppError {
	appErr := NewAppError(CodeBadGateway, fmt.Sprintf("sync of %s failed", repo), ErrSyncFailed)
	if err != nil {
		appErr.Err = fmt.Errorf("%w: %w", ErrSyncFailed, err)
	}
	return appErr
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeNotFound
	}
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized checks if an error is an unauthorized error
func IsUnauthorized(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeUnauthorized
	}
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden checks if an error is a forbidden error
func IsForbidden(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeForbidden
	}
	return errors.Is(err, ErrForbidden)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeConflict
	}
	return errors.Is(err, ErrRepositoryExists) || errors.Is(err, ErrSubscriptionExists) ||
		errors.Is(err, ErrAlreadySent)
}

// IsBadRequest checks if an error is a bad request error
func IsBadRequest(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeBadRequest
	}
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidSubscription)
}

// IsRateLimited checks if an error is a GitHub rate limit error
func IsRateLimited(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeTooManyRequests
	}
	return errors.Is(err, ErrRateLimited)
}

// IsInvalidSubscription checks if an error marks an unusable subscription
func IsInvalidSubscription(err error) bool {
	return errors.Is(err, ErrInvalidSubscription)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapWithCode wraps an error with a specific error code
func WrapWithCode(err error, code ErrorCode, message string) *AppError {
	return NewAppError(code, message, err)
}
