package node

import "errors"

var ErrAlreadyStarted = errors.New("node already started")
var ErrClosed = errors.New("node closed")
var ErrSelfSession = errors.New("cannot open a session with self")
