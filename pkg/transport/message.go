package transport

import (
	"fmt"

	"github.com/spacemeshos/go-scale"

	"recipes-tsae/pkg/tsae"
)

// MessageType is the first byte of every frame.
type MessageType byte

const (
	MessageTypeAERequest MessageType = iota + 1
	MessageTypeOperation
	MessageTypeEndTSAE
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeAERequest:
		return "AE_REQUEST"
	case MessageTypeOperation:
		return "OPERATION"
	case MessageTypeEndTSAE:
		return "END_TSAE"
	default:
		return fmt.Sprintf("<unknown %02x>", byte(t))
	}
}

// Message is one unit of the anti-entropy exchange. Every message carries
// the number of the session it belongs to.
type Message interface {
	scale.Encodable
	scale.Decodable
	Type() MessageType
	Session() int64
}

// AERequest opens a session (originator) or answers it (partner) with the
// sender's summary and ack.
type AERequest struct {
	SessionNumber int64
	Summary       *tsae.Vector
	Ack           *tsae.Matrix
}

var _ Message = &AERequest{}

func (m *AERequest) Type() MessageType { return MessageTypeAERequest }
func (m *AERequest) Session() int64    { return m.SessionNumber }

func (m *AERequest) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := encodeSession(enc, m.SessionNumber)
		if err != nil {
			return total, err
		}
		total += n
	}
	summary := m.Summary
	if summary == nil {
		summary = tsae.NewVector(nil)
	}
	{
		n, err := summary.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	ack := m.Ack
	if ack == nil {
		ack = tsae.NewMatrix(nil)
	}
	{
		n, err := ack.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (m *AERequest) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		v, n, err := decodeSession(dec)
		if err != nil {
			return total, err
		}
		m.SessionNumber = v
		total += n
	}
	{
		m.Summary = &tsae.Vector{}
		n, err := m.Summary.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		m.Ack = &tsae.Matrix{}
		n, err := m.Ack.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// OperationMessage carries a single logged operation.
type OperationMessage struct {
	SessionNumber int64
	Operation     tsae.Operation
}

var _ Message = &OperationMessage{}

func (m *OperationMessage) Type() MessageType { return MessageTypeOperation }
func (m *OperationMessage) Session() int64    { return m.SessionNumber }

func (m *OperationMessage) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := encodeSession(enc, m.SessionNumber)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := m.Operation.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (m *OperationMessage) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		v, n, err := decodeSession(dec)
		if err != nil {
			return total, err
		}
		m.SessionNumber = v
		total += n
	}
	{
		n, err := m.Operation.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// EndTSAE closes a session.
type EndTSAE struct {
	SessionNumber int64
}

var _ Message = &EndTSAE{}

func (m *EndTSAE) Type() MessageType { return MessageTypeEndTSAE }
func (m *EndTSAE) Session() int64    { return m.SessionNumber }

func (m *EndTSAE) EncodeScale(enc *scale.Encoder) (total int, err error) {
	return encodeSession(enc, m.SessionNumber)
}

func (m *EndTSAE) DecodeScale(dec *scale.Decoder) (total int, err error) {
	v, n, err := decodeSession(dec)
	if err != nil {
		return n, err
	}
	m.SessionNumber = v
	return n, nil
}

func encodeSession(enc *scale.Encoder, session int64) (int, error) {
	if session < 0 {
		return 0, fmt.Errorf("%w: negative session number %d", ErrEncode, session)
	}
	return scale.EncodeCompact64(enc, uint64(session))
}

func decodeSession(dec *scale.Decoder) (int64, int, error) {
	v, n, err := scale.DecodeCompact64(dec)
	if err != nil {
		return 0, n, err
	}
	return int64(v), n, nil
}

func newMessage(t MessageType) (Message, error) {
	switch t {
	case MessageTypeAERequest:
		return &AERequest{}, nil
	case MessageTypeOperation:
		return &OperationMessage{}, nil
	case MessageTypeEndTSAE:
		return &EndTSAE{}, nil
	default:
		return nil, fmt.Errorf("%w %02x", ErrUnknownMessage, byte(t))
	}
}
