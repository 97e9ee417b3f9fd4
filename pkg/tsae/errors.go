package tsae

import "errors"

var ErrUnknownKind = errors.New("unknown operation kind")
var ErrInvalidOperation = errors.New("invalid operation")
var ErrTooManyEntries = errors.New("too many entries")
var ErrInvalidTimestamp = errors.New("invalid timestamp")
