package session

import (
	"context"
	"log/slog"

	"recipes-tsae/pkg/transport"
	"recipes-tsae/pkg/tsae"
)

// Partner answers a session opened by a remote originator.
type Partner struct {
	replica Replica
	logger  *slog.Logger
}

func NewPartner(replica Replica, logger *slog.Logger) *Partner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Partner{replica: replica, logger: logger.With("role", "partner")}
}

// Serve runs the partner side over conn. The caller owns conn; Serve closes
// it early only when ctx is cancelled.
//
// The partner merges the originator's operations, summary and ack as soon
// as END_TSAE arrives and only then replies END_TSAE. The originator's
// state is therefore updated last: once its Run returns, both sides are
// merged. If the reply is lost the partner keeps the merge and the
// originator reports the session as failed.
func (p *Partner) Serve(ctx context.Context, conn *transport.Conn) (Result, error) {
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	msg, err := conn.Receive()
	if err != nil {
		return Result{}, err
	}
	req, ok := msg.(*transport.AERequest)
	if !ok {
		return Result{Session: msg.Session()}, unexpected(msg.Type(), transport.MessageTypeAERequest)
	}
	number := req.SessionNumber
	res := Result{Session: number, Peer: conn.RemoteAddr().String()}
	logger := p.logger.With("session", number, "peer", res.Peer)
	logger.Debug("TSAE session")

	ops, summary, ack := p.replica.Exchange(req.Summary)
	for _, op := range ops {
		if err := conn.Send(&transport.OperationMessage{SessionNumber: number, Operation: op}); err != nil {
			return res, err
		}
	}
	res.Sent = len(ops)
	if err := conn.Send(&transport.AERequest{SessionNumber: number, Summary: summary, Ack: ack}); err != nil {
		return res, err
	}

	var buffered []tsae.Operation
	for {
		msg, err = conn.Receive()
		if err != nil {
			return res, err
		}
		logger.Debug("received message", "type", msg.Type())
		if msg.Session() != number {
			logger.Debug("session number mismatch", "got", msg.Session())
		}
		if m, ok := msg.(*transport.OperationMessage); ok {
			buffered = append(buffered, m.Operation)
			continue
		}
		if msg.Type() != transport.MessageTypeEndTSAE {
			return res, unexpected(msg.Type(), transport.MessageTypeEndTSAE)
		}
		break
	}
	res.Received = len(buffered)

	// END_TSAE arrived, so every operation of the originator is buffered. The
	// reply goes out after the merge: a finished originator session means
	// both sides are merged.
	res.Applied = applyOperations(p.replica, buffered)
	merge(p.replica, req.Summary, req.Ack)

	if err := conn.Send(&transport.EndTSAE{SessionNumber: number}); err != nil {
		return res, err
	}

	logger.Debug("end TSAE session", "sent", res.Sent, "received", res.Received, "applied", res.Applied)
	return res, nil
}
