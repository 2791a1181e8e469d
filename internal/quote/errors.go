package quote

import "errors"

var (
	// ErrNotFound indicates no source message could be resolved for a request.
	ErrNotFound = errors.New("quote source not found")
	// ErrUnsupportedChannel indicates the channel kind cannot be quoted from or posted to.
	ErrUnsupportedChannel = errors.New("unsupported channel")
	// ErrRemoteCall wraps transport or platform failures from fetch, delete and send calls.
	ErrRemoteCall = errors.New("remote call failed")
	// ErrMisconfigured indicates the session context is not usable, e.g. the self identity is unknown.
	ErrMisconfigured = errors.New("quote service misconfigured")
)
