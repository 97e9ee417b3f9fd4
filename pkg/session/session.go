package session

import (
	"recipes-tsae/pkg/tsae"
)

// Replica is the state a session reads from and merges into. It is
// implemented by *storage.Store. Every method is atomic on its own.
type Replica interface {
	ID() string
	// Snapshot returns detached copies of the summary and ack.
	Snapshot() (*tsae.Vector, *tsae.Matrix)
	// Exchange returns ListNewer(peerSummary) and copies of summary and ack,
	// all taken at the same instant.
	Exchange(peerSummary *tsae.Vector) ([]tsae.Operation, *tsae.Vector, *tsae.Matrix)
	ListNewer(summary *tsae.Vector) []tsae.Operation
	ExecOperation(op tsae.Operation) bool
	UpdateSummary(summary *tsae.Vector)
	UpdateAck(ack *tsae.Matrix)
	PurgeLog()
}

// applyOperations executes adds before removes and returns how many
// operations the log accepted. Operations rejected in a pass are retried
// while the previous pass made progress: an origin that interleaves adds and
// removes needs them in sequence order to satisfy the log.
func applyOperations(r Replica, ops []tsae.Operation) int {
	var adds, removes []tsae.Operation
	for _, op := range ops {
		if op.Kind == tsae.KindRemove {
			removes = append(removes, op)
		} else {
			adds = append(adds, op)
		}
	}

	applied := 0
	pending := append(adds, removes...)
	for len(pending) > 0 {
		var rejected []tsae.Operation
		for _, op := range pending {
			if r.ExecOperation(op) {
				applied++
			} else {
				rejected = append(rejected, op)
			}
		}
		if len(rejected) == len(pending) {
			break
		}
		pending = rejected
	}
	return applied
}

// merge folds the peer's view into r once its operations are applied.
func merge(r Replica, summary *tsae.Vector, ack *tsae.Matrix) {
	r.UpdateSummary(summary)
	r.UpdateAck(ack)
	r.PurgeLog()
}
