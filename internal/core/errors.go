package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeValidation    = "validation_error"
	ErrCodeNameInUse     = "name_in_use"
	ErrCodeAlreadyJoined = "already_joined"
)

var (
	ErrValidation    = errors.New("username and room are required")
	ErrNameInUse     = errors.New("username is in use")
	ErrAlreadyJoined = errors.New("already joined")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
	err     error
}

func (e *CoreError) Error() string {
	return e.Message
}

func (e *CoreError) Unwrap() error {
	return e.err
}

func validationError(msg string) *CoreError {
	return &CoreError{Code: ErrCodeValidation, Message: msg, err: ErrValidation}
}

func nameInUseError(msg string) *CoreError {
	return &CoreError{Code: ErrCodeNameInUse, Message: msg, err: ErrNameInUse}
}

func alreadyJoinedError(msg string) *CoreError {
	return &CoreError{Code: ErrCodeAlreadyJoined, Message: msg, err: ErrAlreadyJoined}
}
