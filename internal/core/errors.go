package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodePermissionDenied     = "permission_denied"
	ErrCodeInvalidCredentials   = "invalid_credentials"
	ErrCodeAlreadyAuthenticated = "already_authenticated"
	ErrCodeChannelNotFound      = "channel_not_found"
	ErrCodeBadRequest           = "bad_request"
)

var (
	ErrChannelNotFound      = errors.New("channel not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrAlreadyAuthenticated = errors.New("already authenticated")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
