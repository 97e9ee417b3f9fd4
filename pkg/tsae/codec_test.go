package tsae

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/spacemeshos/go-scale"
)

func encode(t *testing.T, v scale.Encodable) []byte {
	t.Helper()
	var buf bytes.Buffer
	if _, err := v.EncodeScale(scale.NewEncoder(&buf)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestOperationCodec(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
	}{
		{name: "add", op: addOp("A", 0, "Soup")},
		{name: "remove", op: removeOp("B", 3, "Soup", ts("A", 0))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := encode(t, &tc.op)
			var got Operation
			if _, err := got.DecodeScale(scale.NewDecoder(bytes.NewReader(data))); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !got.Equal(tc.op) {
				t.Fatalf("got %s, want %s", got, tc.op)
			}
		})
	}
}

func TestOperationCodec_UnknownKind(t *testing.T) {
	op := Operation{Kind: 42, Timestamp: ts("A", 0)}
	var buf bytes.Buffer
	_, err := op.EncodeScale(scale.NewEncoder(&buf))
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("encode err = %v, want ErrUnknownKind", err)
	}

	// kind byte followed by a valid timestamp
	raw := append([]byte{42}, encode(t, &Timestamp{NodeID: "A", Seq: 0})...)
	var got Operation
	_, err = got.DecodeScale(scale.NewDecoder(bytes.NewReader(raw)))
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("decode err = %v, want ErrUnknownKind", err)
	}
}

func TestOperationCodec_AddWithoutRecipe(t *testing.T) {
	op := Operation{Kind: KindAdd, Timestamp: ts("A", 0)}
	var buf bytes.Buffer
	if _, err := op.EncodeScale(scale.NewEncoder(&buf)); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("err = %v, want ErrInvalidOperation", err)
	}
}

func TestSummaryCodec_KeepsNullEntries(t *testing.T) {
	m := NewMatrix(abc)
	m.Update("B", vectorOf(ts("A", 4), ts("C", 0)))

	var got Matrix
	if _, err := got.DecodeScale(scale.NewDecoder(bytes.NewReader(encode(t, m)))); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Equal(m) {
		t.Fatalf("got\n%s\nwant\n%s", &got, m)
	}
	if !got.Row("A").Last("B").IsNull() {
		t.Fatalf("null entry lost: %s", got.Row("A"))
	}
}

func TestTimestampCodec_SeqOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	enc := scale.NewEncoder(&buf)
	if _, err := scale.EncodeByteSliceWithLimit(enc, []byte("A"), MaxNodeIDLen); err != nil {
		t.Fatalf("encode node: %v", err)
	}
	if _, err := scale.EncodeCompact64(enc, 1<<63); err != nil {
		t.Fatalf("encode seq: %v", err)
	}

	var got Timestamp
	_, err := got.DecodeScale(scale.NewDecoder(bytes.NewReader(buf.Bytes())))
	if !errors.Is(err, ErrInvalidTimestamp) {
		t.Fatalf("err = %v, want ErrInvalidTimestamp (decoded %s)", err, got)
	}
}

func TestTimestampCodec_Bounds(t *testing.T) {
	tests := []Timestamp{
		Null("A"),
		ts("A", 0),
		ts("A", math.MaxInt64-1),
	}
	for _, want := range tests {
		var got Timestamp
		if _, err := got.DecodeScale(scale.NewDecoder(bytes.NewReader(encode(t, &want)))); err != nil {
			t.Fatalf("decode %s: %v", want, err)
		}
		if got != want {
			t.Fatalf("got %s, want %s", got, want)
		}
	}
}
