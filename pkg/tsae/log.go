package tsae

import (
	"sort"
	"strings"
)

// Log stores, per origin node, the operations received from it in the order
// they were issued. Log is not synchronized.
type Log struct {
	ops map[string][]Operation
	// last appended timestamp per origin; survives purges
	last map[string]Timestamp
}

func NewLog(participants []string) *Log {
	l := &Log{
		ops:  make(map[string][]Operation, len(participants)),
		last: make(map[string]Timestamp, len(participants)),
	}
	for _, node := range participants {
		l.ops[node] = nil
		l.last[node] = Null(node)
	}
	return l
}

// Add appends op if and only if it directly follows the last operation
// appended for its origin: seq 0 on an empty history, last+1 otherwise.
// Duplicates, gaps and unknown origins are rejected without mutation.
func (l *Log) Add(op Operation) bool {
	node := op.Timestamp.NodeID
	last, ok := l.last[node]
	if !ok {
		return false
	}
	if op.Timestamp.IsNull() || op.Timestamp != last.Next() {
		return false
	}
	l.ops[node] = append(l.ops[node], op)
	l.last[node] = op.Timestamp
	return true
}

// Last returns the timestamp of the last operation appended for node.
func (l *Log) Last(node string) Timestamp {
	if ts, ok := l.last[node]; ok {
		return ts
	}
	return Null(node)
}

// ListNewer returns every operation newer than the summary entry of its
// origin. Each origin's operations keep their order; origins come sorted.
func (l *Log) ListNewer(summary *Vector) []Operation {
	var missing []Operation
	for _, node := range l.Nodes() {
		seen := summary.Last(node)
		for _, op := range l.ops[node] {
			if Compare(op.Timestamp, seen) == Greater {
				missing = append(missing, op)
			}
		}
	}
	return missing
}

// PurgeLog drops every operation acknowledged by all participants according
// to ack. Origins without a defined minimum are left untouched.
func (l *Log) PurgeLog(ack *Matrix) {
	if ack == nil {
		return
	}
	min := ack.MinTimestampVector()
	if min == nil {
		return
	}
	for node, ops := range l.ops {
		if !min.Has(node) {
			continue
		}
		acked := min.Last(node)
		if acked.IsNull() {
			continue
		}
		// операции упорядочены, достаточно найти первую неподтверждённую
		i := sort.Search(len(ops), func(i int) bool {
			return Compare(ops[i].Timestamp, acked) == Greater
		})
		if i == 0 {
			continue
		}
		l.ops[node] = append([]Operation(nil), ops[i:]...)
	}
}

// Operations returns a copy of the operations held for node.
func (l *Log) Operations(node string) []Operation {
	return append([]Operation(nil), l.ops[node]...)
}

// Len returns the number of operations currently held.
func (l *Log) Len() int {
	n := 0
	for _, ops := range l.ops {
		n += len(ops)
	}
	return n
}

// Nodes returns the origins in sorted order.
func (l *Log) Nodes() []string {
	nodes := make([]string, 0, len(l.ops))
	for node := range l.ops {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

func (l *Log) Equal(other *Log) bool {
	if l == nil || other == nil {
		return l == other
	}
	if len(l.ops) != len(other.ops) {
		return false
	}
	for node, ops := range l.ops {
		theirs, ok := other.ops[node]
		if !ok || len(ops) != len(theirs) {
			return false
		}
		for i := range ops {
			if !ops[i].Equal(theirs[i]) {
				return false
			}
		}
	}
	return true
}

func (l *Log) String() string {
	var b strings.Builder
	for _, node := range l.Nodes() {
		for _, op := range l.ops[node] {
			b.WriteString(op.String())
			b.WriteString("\n")
		}
	}
	return b.String()
}
