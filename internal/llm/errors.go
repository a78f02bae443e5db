package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteUnavailable indicates no API key is configured, so the
	// remote model is never called.
	ErrRemoteUnavailable = errors.New("remote model not configured")

	// ErrRemoteError indicates the remote call failed: a non-2xx status,
	// a malformed body, or a transport failure.
	ErrRemoteError = errors.New("remote model error")

	// ErrUnauthorized indicates the API key was rejected.
	ErrUnauthorized = fmt.Errorf("%w: invalid api key", ErrRemoteError)

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = fmt.Errorf("%w: request timed out", ErrRemoteError)

	// ErrInvalidOutput indicates the response had no text content.
	ErrInvalidOutput = fmt.Errorf("%w: unexpected response format", ErrRemoteError)
)
