package proxy

import "fmt"

// StateErrorCode enumerates the session-state failure taxonomy.
type StateErrorCode string

const (
	CodeNotInitialized StateErrorCode = "not_initialized"
	CodeNotSupported   StateErrorCode = "not_supported"
	CodeInvalidResponse StateErrorCode = "invalid_response"
	CodeInvalidAddress StateErrorCode = "invalid_address"
)

// StateError is a typed error for the four session-state failure
// conditions. Is compares by Code, so errors.Is(err, ErrNotSupported)
// works through any number of fmt.Errorf("%w") wraps.
type StateError struct {
	Code   StateErrorCode
	Detail string
}

func (e *StateError) Error() string {
	if e.Detail == "" {
		return "proxy: " + string(e.Code)
	}
	return fmt.Sprintf("proxy: %s: %s", e.Code, e.Detail)
}

func (e *StateError) Is(target error) bool {
	t, ok := target.(*StateError)
	return ok && t.Code == e.Code
}

func newStateError(code StateErrorCode, detail string) *StateError {
	return &StateError{Code: code, Detail: detail}
}

// Sentinel StateErrors for errors.Is comparisons against a bare code.
var (
	ErrNotInitialized  = &StateError{Code: CodeNotInitialized}
	ErrNotSupported    = &StateError{Code: CodeNotSupported}
	ErrInvalidResponse = &StateError{Code: CodeInvalidResponse}
	ErrInvalidAddress  = &StateError{Code: CodeInvalidAddress}
)

// ProtocolError wraps a DAP response carrying success: false. It does not
// abort the session — the proxy surfaces the adapter's message and keeps
// going.
type ProtocolError struct {
	Command string
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("proxy: adapter rejected %s: %s", e.Command, e.Message)
}
