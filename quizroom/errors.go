package quizroom

import (
	"errors"
	"fmt"
)

// ErrorCode represents a categorized error type.
type ErrorCode int

const (
	// Protocol errors (from server error pushes)
	ErrorUnknown ErrorCode = iota
	ErrorBadRequest
	ErrorRoomNotFound
	ErrorRoomFull
	ErrorWrongPassword
	ErrorGameInProgress
	ErrorStaleRoom
	ErrorInternalServer

	// Client-side errors
	ErrorConnection
	ErrorDisconnected
	ErrorTimeout
	ErrorInvalidConfig
	ErrorNotConnected
	ErrorSerialization
	ErrorMissingIdentity
	ErrorEmptyInput
	ErrorNotHost
	ErrorNotEnoughPlayers
	ErrorNotAnswerable
	ErrorAnswerLocked
)

// String returns the string representation of an ErrorCode.
func (e ErrorCode) String() string {
	switch e {
	case ErrorUnknown:
		return "unknown"
	case ErrorBadRequest:
		return "bad_request"
	case ErrorRoomNotFound:
		return "room_not_found"
	case ErrorRoomFull:
		return "room_full"
	case ErrorWrongPassword:
		return "wrong_password"
	case ErrorGameInProgress:
		return "game_in_progress"
	case ErrorStaleRoom:
		return "stale_room"
	case ErrorInternalServer:
		return "internal_error"
	case ErrorConnection:
		return "connection_error"
	case ErrorDisconnected:
		return "disconnected"
	case ErrorTimeout:
		return "timeout"
	case ErrorInvalidConfig:
		return "invalid_config"
	case ErrorNotConnected:
		return "not_connected"
	case ErrorSerialization:
		return "serialization_error"
	case ErrorMissingIdentity:
		return "missing_identity"
	case ErrorEmptyInput:
		return "empty_input"
	case ErrorNotHost:
		return "not_host"
	case ErrorNotEnoughPlayers:
		return "not_enough_players"
	case ErrorNotAnswerable:
		return "not_answerable"
	case ErrorAnswerLocked:
		return "answer_locked"
	default:
		return fmt.Sprintf("unknown_code_%d", e)
	}
}

// ParseErrorCode converts a protocol error code string to ErrorCode. Servers
// that send a bare error {message} with no code map to ErrorUnknown.
func ParseErrorCode(code string) ErrorCode {
	switch code {
	case "bad_request":
		return ErrorBadRequest
	case "room_not_found":
		return ErrorRoomNotFound
	case "room_full":
		return ErrorRoomFull
	case "wrong_password":
		return ErrorWrongPassword
	case "game_in_progress":
		return ErrorGameInProgress
	case "stale_room":
		return ErrorStaleRoom
	case "internal_error":
		return ErrorInternalServer
	default:
		return ErrorUnknown
	}
}

// QuizError is a structured error with code and context.
type QuizError struct {
	Code    ErrorCode
	Message string
	Wrapped error
}

// Error implements the error interface.
func (e *QuizError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s (wrapped: %v)", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Unwrap support.
func (e *QuizError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface for error comparison.
func (e *QuizError) Is(target error) bool {
	t, ok := target.(*QuizError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new QuizError with the given code and message.
func NewError(code ErrorCode, message string) *QuizError {
	return &QuizError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with a QuizError.
func WrapError(code ErrorCode, message string, err error) *QuizError {
	return &QuizError{
		Code:    code,
		Message: message,
		Wrapped: err,
	}
}

// FromProtocolError converts a protocol Error to QuizError.
func FromProtocolError(e *Error) *QuizError {
	if e == nil {
		return nil
	}
	return &QuizError{
		Code:    ParseErrorCode(e.Code),
		Message: e.Message,
	}
}

// IsProtocolError checks if an error is a server-rejected operation.
func IsProtocolError(err error) bool {
	if err == nil {
		return false
	}
	var qe *QuizError
	if !errors.As(err, &qe) {
		return false
	}
	return qe.Code >= ErrorUnknown && qe.Code <= ErrorInternalServer
}

// IsConnectionError checks if an error is a connection-related error.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var qe *QuizError
	if !errors.As(err, &qe) {
		return false
	}
	return qe.Code == ErrorConnection || qe.Code == ErrorDisconnected || qe.Code == ErrorTimeout
}

// IsLocalGateError checks if an error was raised by a client-side guard
// (no network emission happened).
func IsLocalGateError(err error) bool {
	if err == nil {
		return false
	}
	var qe *QuizError
	if !errors.As(err, &qe) {
		return false
	}
	switch qe.Code {
	case ErrorMissingIdentity, ErrorEmptyInput, ErrorNotHost,
		ErrorNotEnoughPlayers, ErrorNotAnswerable, ErrorAnswerLocked:
		return true
	default:
		return false
	}
}
