package session

import "fmt"

// Result summarizes one finished session.
type Result struct {
	Session  int64
	Peer     string
	Sent     int // operations sent to the peer
	Received int // operations received from the peer
	Applied  int // received operations the local log accepted
}

func (r Result) String() string {
	return fmt.Sprintf("session %d with %s: sent=%d received=%d applied=%d",
		r.Session, r.Peer, r.Sent, r.Received, r.Applied)
}

func unexpected(got, want fmt.Stringer) error {
	return fmt.Errorf("%w: got %s, want %s", ErrUnexpectedMessage, got, want)
}
