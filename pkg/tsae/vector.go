package tsae

import (
	"sort"
	"strings"
)

// Vector is a summary: for every participant, the last timestamp seen from it.
// The domain is fixed by NewVector. Vector is not synchronized; the owner
// serializes access or works on a Clone.
type Vector struct {
	last map[string]Timestamp
}

// NewVector создаёт вектор, в котором для каждого участника записана NULL-метка
func NewVector(participants []string) *Vector {
	v := &Vector{last: make(map[string]Timestamp, len(participants))}
	for _, node := range participants {
		v.last[node] = Null(node)
	}
	return v
}

// Last returns the entry for node, or the node's NULL timestamp when the
// vector is nil or does not know the node.
func (v *Vector) Last(node string) Timestamp {
	if v == nil {
		return Null(node)
	}
	ts, ok := v.last[node]
	if !ok {
		return Null(node)
	}
	return ts
}

// Has reports whether node belongs to the vector's domain.
func (v *Vector) Has(node string) bool {
	if v == nil {
		return false
	}
	_, ok := v.last[node]
	return ok
}

// UpdateTimestamp replaces the entry of ts.NodeID. Timestamps of nodes
// outside the domain are ignored.
func (v *Vector) UpdateTimestamp(ts Timestamp) {
	if v == nil {
		return
	}
	if _, ok := v.last[ts.NodeID]; !ok {
		return
	}
	v.last[ts.NodeID] = ts
}

// UpdateMax adopts, for every node of the local domain, the newer of the two
// entries. Nodes missing from other are left unchanged.
func (v *Vector) UpdateMax(other *Vector) {
	if v == nil || other == nil {
		return
	}
	for node, local := range v.last {
		theirs, ok := other.last[node]
		if !ok {
			continue
		}
		if Compare(local, theirs) == Lower {
			v.last[node] = theirs
		}
	}
}

// MergeMin keeps, for every node of other, the older of the two entries.
// Unknown nodes are adopted. Only used while folding matrix rows.
func (v *Vector) MergeMin(other *Vector) {
	if v == nil || other == nil {
		return
	}
	for node, theirs := range other.last {
		local, ok := v.last[node]
		if !ok || Compare(theirs, local) == Lower {
			v.last[node] = theirs
		}
	}
}

func (v *Vector) Clone() *Vector {
	if v == nil {
		return nil
	}
	c := &Vector{last: make(map[string]Timestamp, len(v.last))}
	for node, ts := range v.last {
		c.last[node] = ts
	}
	return c
}

func (v *Vector) Equal(other *Vector) bool {
	if v == nil || other == nil {
		return v == other
	}
	if len(v.last) != len(other.last) {
		return false
	}
	for node, ts := range v.last {
		if o, ok := other.last[node]; !ok || o != ts {
			return false
		}
	}
	return true
}

// Nodes returns the domain in sorted order.
func (v *Vector) Nodes() []string {
	if v == nil {
		return nil
	}
	nodes := make([]string, 0, len(v.last))
	for node := range v.last {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

func (v *Vector) Len() int {
	if v == nil {
		return 0
	}
	return len(v.last)
}

func (v *Vector) String() string {
	if v == nil {
		return "<nil>"
	}
	parts := make([]string, 0, len(v.last))
	for _, node := range v.Nodes() {
		parts = append(parts, v.last[node].String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
