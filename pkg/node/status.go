package node

import (
	"recipes-tsae/pkg/tsae"
)

// Status is a point-in-time view of the replica.
type Status struct {
	ID       string
	Address  string
	Summary  *tsae.Vector
	Ack      *tsae.Matrix
	LogSizes map[string]int // logged operations per origin
	Recipes  int
}

func (n *Node) Status() Status {
	summary, ack := n.store.Snapshot()
	return Status{
		ID:       n.ID(),
		Address:  n.Addr().String(),
		Summary:  summary,
		Ack:      ack,
		LogSizes: n.store.LogSizes(),
		Recipes:  len(n.store.Recipes()),
	}
}
