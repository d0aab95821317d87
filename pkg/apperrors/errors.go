// Package apperrors defines loom's error taxonomy. Every kind wraps its
// cause with github.com/cockroachdb/errors so the original failure survives
// across component boundaries (provider -> router -> TUI) for logging and
// for tests that assert on Unwrap chains.
package apperrors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ProviderErrorKind classifies a ProviderError.
type ProviderErrorKind string

const (
	ProviderUnreachable ProviderErrorKind = "network"
	ProviderTimeout     ProviderErrorKind = "timeout"
	ProviderHTTPStatus  ProviderErrorKind = "http_status"
	ProviderDecodeError ProviderErrorKind = "decode"
)

// ProviderError is returned by ChatCompletion/StreamCompletion failures.
// Detect failures never produce one of these - they collapse to bool per
// spec.
type ProviderError struct {
	Kind       ProviderErrorKind
	StatusCode int
	cause      error
}

func NewProviderError(kind ProviderErrorKind, cause error) *ProviderError {
	return &ProviderError{Kind: kind, cause: errors.WithStack(cause)}
}

func NewHTTPStatusError(statusCode int, cause error) *ProviderError {
	return &ProviderError{Kind: ProviderHTTPStatus, StatusCode: statusCode, cause: errors.WithStack(cause)}
}

func (e *ProviderError) Error() string {
	if e.Kind == ProviderHTTPStatus {
		return fmt.Sprintf("provider error (%s %d): %v", e.Kind, e.StatusCode, e.cause)
	}
	return fmt.Sprintf("provider error (%s): %v", e.Kind, e.cause)
}

func (e *ProviderError) Unwrap() error { return e.cause }

// RemediationHint returns a short, concrete next step for the given kind,
// used by the TUI when it surfaces a ProviderError as a system message.
func (e *ProviderError) RemediationHint() string {
	switch e.Kind {
	case ProviderUnreachable:
		return "check that the provider server is running and reachable at its configured host:port"
	case ProviderTimeout:
		return "increase apiTimeout in settings or try a smaller model"
	case ProviderHTTPStatus:
		return "check the model name with /models and retry, or inspect the provider's logs"
	case ProviderDecodeError:
		return "the provider returned an unexpected response shape; try /refresh or switch providers"
	default:
		return "retry the request"
	}
}

// ConfigurationError is fatal to startup unless interactive setup is offered.
type ConfigurationError struct {
	Message string
	cause   error
}

func NewConfigurationError(message string, cause error) *ConfigurationError {
	return &ConfigurationError{Message: message, cause: errors.WithStack(cause)}
}

func (e *ConfigurationError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error { return e.cause }

// InputValidationError is always recoverable; the offending input never
// enters conversation history.
type InputValidationError struct {
	Reason string
}

func NewInputValidationError(reason string) *InputValidationError {
	return &InputValidationError{Reason: reason}
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// ArgumentError is raised by the command parser.
type ArgumentError struct {
	ArgName      string
	ExpectedType string
	GotValue     string
	Reason       string
}

func (e *ArgumentError) Error() string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("argument %q: %s", e.ArgName, e.Reason)
	case e.ExpectedType != "":
		return fmt.Sprintf("argument %q: expected %s, got %q", e.ArgName, e.ExpectedType, e.GotValue)
	default:
		return fmt.Sprintf("argument %q: unknown", e.ArgName)
	}
}

// StreamHealthErrorKind classifies a StreamHealthError.
type StreamHealthErrorKind string

const (
	StreamTimeout       StreamHealthErrorKind = "timeout"
	StreamPrematureClose StreamHealthErrorKind = "premature_close"
)

// StreamHealthError is raised by the TUI's stream-health watchdog.
type StreamHealthError struct {
	Kind StreamHealthErrorKind
}

func (e *StreamHealthError) Error() string {
	return fmt.Sprintf("stream health: %s", e.Kind)
}
