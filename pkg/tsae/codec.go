package tsae

import (
	"fmt"
	"math"

	"github.com/spacemeshos/go-scale"
)

// Wire limits. Anything larger cannot be encoded, so local issuance and
// configuration are checked against the same values.
const (
	MaxNodeIDLen    = 256
	MaxTitleLen     = 1024
	MaxBodyLen      = 1 << 20
	MaxParticipants = 1024
)

func encodeString(enc *scale.Encoder, s string, limit uint32) (int, error) {
	return scale.EncodeByteSliceWithLimit(enc, []byte(s), limit)
}

func decodeString(dec *scale.Decoder, limit uint32) (string, int, error) {
	b, n, err := scale.DecodeByteSliceWithLimit(dec, limit)
	if err != nil {
		return "", n, err
	}
	return string(b), n, nil
}

// EncodeScale implements scale.Encodable. Seq is shifted by one so the NULL
// sequence number fits a compact unsigned integer.
func (t *Timestamp) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := encodeString(enc, t.NodeID, MaxNodeIDLen)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		seq := t.Seq
		if seq < NullSeq {
			seq = NullSeq
		}
		n, err := scale.EncodeCompact64(enc, uint64(seq+1))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale.Decodable.
func (t *Timestamp) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		field, n, err := decodeString(dec, MaxNodeIDLen)
		if err != nil {
			return total, err
		}
		total += n
		t.NodeID = field
	}
	{
		field, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		if field > math.MaxInt64 {
			return total, fmt.Errorf("%w: sequence %d out of range", ErrInvalidTimestamp, field)
		}
		t.Seq = int64(field) - 1
	}
	return total, nil
}

// EncodeScale implements scale.Encodable.
func (r *Recipe) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := encodeString(enc, r.Title, MaxTitleLen)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := encodeString(enc, r.Body, MaxBodyLen)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := encodeString(enc, r.Author, MaxNodeIDLen)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := r.Timestamp.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale.Decodable.
func (r *Recipe) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		field, n, err := decodeString(dec, MaxTitleLen)
		if err != nil {
			return total, err
		}
		total += n
		r.Title = field
	}
	{
		field, n, err := decodeString(dec, MaxBodyLen)
		if err != nil {
			return total, err
		}
		total += n
		r.Body = field
	}
	{
		field, n, err := decodeString(dec, MaxNodeIDLen)
		if err != nil {
			return total, err
		}
		total += n
		r.Author = field
	}
	{
		n, err := r.Timestamp.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// EncodeScale implements scale.Encodable. The kind byte comes first and
// selects the payload that follows the timestamp.
func (op *Operation) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		// enums are written as a full uint8, not compact
		n, err := scale.EncodeByte(enc, byte(op.Kind))
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := op.Timestamp.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	switch op.Kind {
	case KindAdd:
		if op.Recipe == nil {
			return total, fmt.Errorf("%w: add without recipe", ErrInvalidOperation)
		}
		n, err := op.Recipe.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	case KindRemove:
		n, err := encodeString(enc, op.Title, MaxTitleLen)
		if err != nil {
			return total, err
		}
		total += n
		n, err = op.RecipeTimestamp.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	default:
		return total, fmt.Errorf("%w: %s", ErrUnknownKind, op.Kind)
	}
	return total, nil
}

// DecodeScale implements scale.Decodable.
func (op *Operation) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		kind, n, err := scale.DecodeByte(dec)
		if err != nil {
			return total, err
		}
		total += n
		op.Kind = OperationKind(kind)
	}
	{
		n, err := op.Timestamp.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	switch op.Kind {
	case KindAdd:
		var recipe Recipe
		n, err := recipe.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
		op.Recipe = &recipe
	case KindRemove:
		title, n, err := decodeString(dec, MaxTitleLen)
		if err != nil {
			return total, err
		}
		total += n
		op.Title = title
		n, err = op.RecipeTimestamp.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	default:
		return total, fmt.Errorf("%w: %s", ErrUnknownKind, op.Kind)
	}
	return total, nil
}

// EncodeScale implements scale.Encodable. Entries are written in node order.
func (v *Vector) EncodeScale(enc *scale.Encoder) (total int, err error) {
	nodes := v.Nodes()
	{
		n, err := scale.EncodeCompact32(enc, uint32(len(nodes)))
		if err != nil {
			return total, err
		}
		total += n
	}
	for _, node := range nodes {
		ts := v.last[node]
		n, err := ts.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale.Decodable.
func (v *Vector) DecodeScale(dec *scale.Decoder) (total int, err error) {
	count, n, err := scale.DecodeCompact32(dec)
	if err != nil {
		return total, err
	}
	total += n
	if count > MaxParticipants {
		return total, fmt.Errorf("%w: %d vector entries", ErrTooManyEntries, count)
	}
	v.last = make(map[string]Timestamp, count)
	for i := uint32(0); i < count; i++ {
		var ts Timestamp
		n, err := ts.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
		v.last[ts.NodeID] = ts
	}
	return total, nil
}

// EncodeScale implements scale.Encodable.
func (m *Matrix) EncodeScale(enc *scale.Encoder) (total int, err error) {
	nodes := m.Nodes()
	{
		n, err := scale.EncodeCompact32(enc, uint32(len(nodes)))
		if err != nil {
			return total, err
		}
		total += n
	}
	for _, node := range nodes {
		n, err := encodeString(enc, node, MaxNodeIDLen)
		if err != nil {
			return total, err
		}
		total += n
		n, err = m.rows[node].EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale.Decodable.
func (m *Matrix) DecodeScale(dec *scale.Decoder) (total int, err error) {
	count, n, err := scale.DecodeCompact32(dec)
	if err != nil {
		return total, err
	}
	total += n
	if count > MaxParticipants {
		return total, fmt.Errorf("%w: %d matrix rows", ErrTooManyEntries, count)
	}
	m.rows = make(map[string]*Vector, count)
	for i := uint32(0); i < count; i++ {
		node, n, err := decodeString(dec, MaxNodeIDLen)
		if err != nil {
			return total, err
		}
		total += n
		row := &Vector{}
		n, err = row.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
		m.rows[node] = row
	}
	return total, nil
}
