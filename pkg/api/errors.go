package api

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure of the token exchange.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfiguration is a missing or invalid input, detected before any network call.
	KindConfiguration
	// KindTransport is a network failure reaching either remote service.
	KindTransport
	// KindProtocol is a response that does not have the expected shape.
	KindProtocol
	// KindRegistry is an explicit rejection by the token service.
	KindRegistry
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "ConfigurationError"
	case KindTransport:
		return "TransportError"
	case KindProtocol:
		return "ProtocolError"
	case KindRegistry:
		return "RegistryError"
	default:
		return "UnknownError"
	}
}

// ExchangeError wraps the error interface with its Kind
type ExchangeError struct {
	Kind Kind
	// StatusCode is set for registry errors.
	StatusCode int
	Err        error
}

// Error returns the error message
func (e *ExchangeError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *ExchangeError) Unwrap() error {
	return e.Err
}

func NewConfigurationError(format string, args ...interface{}) *ExchangeError {
	return &ExchangeError{Kind: KindConfiguration, Err: fmt.Errorf(format, args...)}
}

func NewTransportError(err error) *ExchangeError {
	return &ExchangeError{Kind: KindTransport, Err: err}
}

func NewProtocolError(format string, args ...interface{}) *ExchangeError {
	return &ExchangeError{Kind: KindProtocol, Err: fmt.Errorf(format, args...)}
}

func NewRegistryError(statusCode int, reason string) *ExchangeError {
	return &ExchangeError{
		Kind:       KindRegistry,
		StatusCode: statusCode,
		Err:        fmt.Errorf("token exchange failed (%d): %s", statusCode, reason),
	}
}

// KindOf returns the Kind of the first ExchangeError in err's chain.
func KindOf(err error) Kind {
	var exchangeErr *ExchangeError
	if errors.As(err, &exchangeErr) {
		return exchangeErr.Kind
	}
	return KindUnknown
}

// IsKind returns true if err is an ExchangeError of the given kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// RedactError returns err with every occurrence of secrets in its message
// replaced. The kind and status code are kept.
func RedactError(err error, secrets ...string) error {
	if err == nil {
		return nil
	}

	message := err.Error()
	redactedMessage := message
	for _, secret := range secrets {
		if secret != "" {
			redactedMessage = strings.ReplaceAll(redactedMessage, secret, "***")
		}
	}
	if redactedMessage == message {
		return err
	}

	var exchangeErr *ExchangeError
	if errors.As(err, &exchangeErr) {
		return &ExchangeError{Kind: exchangeErr.Kind, StatusCode: exchangeErr.StatusCode, Err: errors.New(redactedMessage)}
	}
	return errors.New(redactedMessage)
}
