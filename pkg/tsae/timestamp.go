package tsae

import (
	"cmp"
	"fmt"
)

// NullSeq is the sequence number of a NULL timestamp: nothing seen from the node yet.
const NullSeq int64 = -1

// Результаты сравнения
const (
	Lower   = -1
	Equal   = 0
	Greater = 1
)

// Timestamp is a logical clock value issued by one replica. Values are
// immutable and safe to copy.
type Timestamp struct {
	NodeID string `json:"node_id"`
	Seq    int64  `json:"seq"`
}

// Null returns the timestamp meaning "nothing seen yet" from node.
func Null(node string) Timestamp {
	return Timestamp{NodeID: node, Seq: NullSeq}
}

func (t Timestamp) IsNull() bool { return t.Seq < 0 }

// Next returns the timestamp that directly follows t for the same node.
func (t Timestamp) Next() Timestamp {
	if t.IsNull() {
		return Timestamp{NodeID: t.NodeID, Seq: 0}
	}
	return Timestamp{NodeID: t.NodeID, Seq: t.Seq + 1}
}

func (t Timestamp) String() string {
	if t.IsNull() {
		return fmt.Sprintf("%s:-", t.NodeID)
	}
	return fmt.Sprintf("%s:%d", t.NodeID, t.Seq)
}

// Compare returns Lower, Equal or Greater. A NULL b makes any non-null a
// greater. Node ids are not compared: callers only compare timestamps that
// belong to the same origin.
func Compare(a, b Timestamp) int {
	switch {
	case a.IsNull() && b.IsNull():
		return Equal
	case b.IsNull():
		return Greater
	case a.IsNull():
		return Lower
	}
	return cmp.Compare(a.Seq, b.Seq)
}

func (t Timestamp) Before(other Timestamp) bool { return Compare(t, other) == Lower }
func (t Timestamp) After(other Timestamp) bool  { return Compare(t, other) == Greater }
