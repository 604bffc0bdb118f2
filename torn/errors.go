package torn

import (
	"errors"
	"fmt"
)

// ErrNoAPIKey is returned when a request is attempted without a configured
// API key. No rate limit token is consumed and no network call is made.
var ErrNoAPIKey = errors.New("no API key configured")

// TransportError covers timeouts and connection-level failures. These are
// transient; the caller may retry later. The wrapped error never contains
// the request URL, which would leak the API key.
type TransportError struct {
	Endpoint string
	Timeout  bool
	Err      error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request to %s timed out", e.Endpoint)
	}
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError covers non-200 HTTP responses.
type ProtocolError struct {
	Endpoint   string
	StatusCode int
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("HTTP error %d for %s", e.StatusCode, e.Endpoint)
}

// LogicalError is a well-formed response in which the provider reports a
// failure (invalid ID, insufficient permissions). Generally permanent for
// the given input.
type LogicalError struct {
	Endpoint string
	Code     int
	Message  string
}

func (e *LogicalError) Error() string {
	return fmt.Sprintf("API error %d for %s: %s", e.Code, e.Endpoint, e.Message)
}

// IsTransport checks if an error is any transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsTimeout checks if an error is a transport failure caused by the request
// timeout being exceeded.
func IsTimeout(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Timeout
}

// IsProtocol checks if an error is a non-success HTTP status.
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// IsLogical checks if an error is a provider-reported failure.
func IsLogical(err error) bool {
	var le *LogicalError
	return errors.As(err, &le)
}
