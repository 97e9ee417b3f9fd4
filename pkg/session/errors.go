package session

import "errors"

// ErrUnexpectedMessage aborts a session that received a message out of turn.
var ErrUnexpectedMessage = errors.New("unexpected message")
