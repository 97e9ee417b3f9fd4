package session

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"recipes-tsae/pkg/participants"
	"recipes-tsae/pkg/transport"
	"recipes-tsae/pkg/tsae"
)

// Originator opens sessions towards chosen partners.
type Originator struct {
	replica  Replica
	timeout  time.Duration
	logger   *slog.Logger
	sessions atomic.Int64
}

func NewOriginator(replica Replica, timeout time.Duration, logger *slog.Logger) *Originator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Originator{
		replica: replica,
		timeout: timeout,
		logger:  logger.With("role", "originator"),
	}
}

// SessionWith runs one complete session with peer. On any error the session
// is abandoned; local state is left as the last completed merge step made it.
func (o *Originator) SessionWith(ctx context.Context, peer participants.Peer) (Result, error) {
	number := o.sessions.Add(1)
	conn, err := transport.Dial(ctx, peer.Address, o.timeout)
	if err != nil {
		return Result{Session: number, Peer: peer.ID}, err
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	return o.exchange(conn, number, peer.ID)
}

func (o *Originator) exchange(conn *transport.Conn, number int64, peerID string) (Result, error) {
	res := Result{Session: number, Peer: peerID}
	logger := o.logger.With("session", number, "peer", peerID)
	logger.Debug("TSAE session")

	summary, ack := o.replica.Snapshot()
	if err := conn.Send(&transport.AERequest{SessionNumber: number, Summary: summary, Ack: ack}); err != nil {
		return res, err
	}

	var (
		received []tsae.Operation
		msg      transport.Message
		err      error
	)
	for {
		msg, err = conn.Receive()
		if err != nil {
			return res, err
		}
		logger.Debug("received message", "type", msg.Type())
		m, ok := msg.(*transport.OperationMessage)
		if !ok {
			break
		}
		received = append(received, m.Operation)
	}
	res.Received = len(received)

	req, ok := msg.(*transport.AERequest)
	if !ok {
		return res, unexpected(msg.Type(), transport.MessageTypeAERequest)
	}

	// computed before anything from this round is merged
	toSend := o.replica.ListNewer(req.Summary)
	for _, op := range toSend {
		if err := conn.Send(&transport.OperationMessage{SessionNumber: number, Operation: op}); err != nil {
			return res, err
		}
	}
	res.Sent = len(toSend)

	res.Applied = applyOperations(o.replica, received)
	merge(o.replica, req.Summary, req.Ack)

	if err := conn.Send(&transport.EndTSAE{SessionNumber: number}); err != nil {
		return res, err
	}
	msg, err = conn.Receive()
	if err != nil {
		return res, err
	}
	if msg.Type() != transport.MessageTypeEndTSAE {
		return res, unexpected(msg.Type(), transport.MessageTypeEndTSAE)
	}
	logger.Debug("end TSAE session", "sent", res.Sent, "received", res.Received, "applied", res.Applied)
	return res, nil
}
