package workout

import "errors"

// ErrNoServerAddress is returned when a request is attempted before a server address is stored.
var ErrNoServerAddress = errors.New("no server address configured")

// ErrUnexpectedStatus indicates the service answered with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// ErrMalformedResponse indicates the service answered with something other than the JSON envelope.
var ErrMalformedResponse = errors.New("malformed response")
