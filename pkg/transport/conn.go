package transport

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/spacemeshos/go-scale"
)

// MaxFrameSize bounds the payload of a single frame.
const MaxFrameSize = 4 << 20

const headerSize = 5 // type byte + big endian uint32 length

// Conn frames messages over a stream connection:
//
//	[type byte][payload length uint32 BE][scale payload]
//
// A Conn is used by one session at a time and is not safe for concurrent
// Send or concurrent Receive calls.
type Conn struct {
	conn    net.Conn
	timeout time.Duration
	header  [headerSize]byte
}

// NewConn wraps c. A positive timeout is applied as a deadline to every
// Send and Receive.
func NewConn(c net.Conn, timeout time.Duration) *Conn {
	return &Conn{conn: c, timeout: timeout}
}

// Dial connects to addr.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Conn, error) {
	d := net.Dialer{Timeout: timeout}
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", ErrTransport, addr, err)
	}
	return NewConn(c, timeout), nil
}

func (c *Conn) Send(m Message) error {
	var payload bytes.Buffer
	if _, err := m.EncodeScale(scale.NewEncoder(&payload)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEncode, m.Type(), err)
	}
	if payload.Len() > MaxFrameSize {
		return fmt.Errorf("%w: %s of %d bytes", ErrEncode, m.Type(), payload.Len())
	}

	frame := make([]byte, headerSize, headerSize+payload.Len())
	frame[0] = byte(m.Type())
	binary.BigEndian.PutUint32(frame[1:], uint32(payload.Len()))
	frame = append(frame, payload.Bytes()...)

	if err := c.setDeadline(); err != nil {
		return err
	}
	if _, err := c.conn.Write(frame); err != nil {
		return fmt.Errorf("%w: send %s: %w", ErrTransport, m.Type(), err)
	}
	return nil
}

// Receive blocks until the next message arrives, the deadline passes or the
// connection is closed.
func (c *Conn) Receive() (Message, error) {
	if err := c.setDeadline(); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(c.conn, c.header[:]); err != nil {
		return nil, fmt.Errorf("%w: receive: %w", ErrTransport, err)
	}

	mtype := MessageType(c.header[0])
	m, err := newMessage(mtype)
	if err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(c.header[1:])
	if size > MaxFrameSize {
		return nil, fmt.Errorf("%w: %s of %d bytes", ErrFrameTooLarge, mtype, size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(c.conn, payload); err != nil {
		return nil, fmt.Errorf("%w: receive %s: %w", ErrTransport, mtype, err)
	}
	n, err := m.DecodeScale(scale.NewDecoder(bytes.NewReader(payload)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, mtype, err)
	}
	if n != len(payload) {
		return nil, fmt.Errorf("%w: %s: %d trailing bytes", ErrDecode, mtype, len(payload)-n)
	}
	return m, nil
}

func (c *Conn) Close() error {
	return c.conn.Close()
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *Conn) setDeadline() error {
	if c.timeout <= 0 {
		return nil
	}
	if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return fmt.Errorf("%w: set deadline: %w", ErrTransport, err)
	}
	return nil
}
