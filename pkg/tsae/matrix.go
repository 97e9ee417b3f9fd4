package tsae

import (
	"sort"
	"strings"
)

// Matrix holds, for every participant, the summary that participant is known
// to have acknowledged. Like Vector it is not synchronized.
type Matrix struct {
	rows map[string]*Vector
}

func NewMatrix(participants []string) *Matrix {
	m := &Matrix{rows: make(map[string]*Vector, len(participants))}
	for _, node := range participants {
		m.rows[node] = NewVector(participants)
	}
	return m
}

// Row returns the live row of node, nil if the node is unknown.
func (m *Matrix) Row(node string) *Vector {
	if m == nil {
		return nil
	}
	return m.rows[node]
}

// Update replaces (or inserts) the row of node.
func (m *Matrix) Update(node string, v *Vector) {
	if m == nil || v == nil {
		return
	}
	m.rows[node] = v
}

// UpdateMax merges other row by row, for the rows both matrices share.
func (m *Matrix) UpdateMax(other *Matrix) {
	if m == nil || other == nil {
		return
	}
	for node, theirs := range other.rows {
		if local, ok := m.rows[node]; ok {
			local.UpdateMax(theirs)
		}
	}
}

// MinTimestampVector folds all rows with MergeMin. For every node the result
// is the timestamp acknowledged by every participant. Nil on an empty matrix.
func (m *Matrix) MinTimestampVector() *Vector {
	if m == nil {
		return nil
	}
	var min *Vector
	for _, node := range m.Nodes() {
		row := m.rows[node]
		if min == nil {
			min = row.Clone()
			continue
		}
		min.MergeMin(row)
	}
	return min
}

func (m *Matrix) Clone() *Matrix {
	if m == nil {
		return nil
	}
	c := &Matrix{rows: make(map[string]*Vector, len(m.rows))}
	for node, row := range m.rows {
		c.rows[node] = row.Clone()
	}
	return c
}

func (m *Matrix) Equal(other *Matrix) bool {
	if m == nil || other == nil {
		return m == other
	}
	if len(m.rows) != len(other.rows) {
		return false
	}
	for node, row := range m.rows {
		if !row.Equal(other.rows[node]) {
			return false
		}
	}
	return true
}

// Nodes returns the row keys in sorted order.
func (m *Matrix) Nodes() []string {
	if m == nil {
		return nil
	}
	nodes := make([]string, 0, len(m.rows))
	for node := range m.rows {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

func (m *Matrix) String() string {
	if m == nil {
		return "<nil>"
	}
	var b strings.Builder
	for _, node := range m.Nodes() {
		b.WriteString(node)
		b.WriteString(": ")
		b.WriteString(m.rows[node].String())
		b.WriteString("\n")
	}
	return b.String()
}
