package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps every I/O failure on a connection.
	ErrTransport = errors.New("transport error")
	// ErrDecode is returned for frames that cannot be parsed.
	ErrDecode         = errors.New("malformed message")
	ErrEncode         = errors.New("cannot encode message")
	ErrUnknownMessage = fmt.Errorf("%w: unknown message type", ErrDecode)
	ErrFrameTooLarge  = fmt.Errorf("%w: frame too large", ErrDecode)
)
