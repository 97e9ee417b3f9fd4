package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"recipes-tsae/pkg/transport"
)

// Server accepts inbound sessions and serves each one with a Partner on its
// own goroutine.
type Server struct {
	ln      net.Listener
	partner *Partner
	timeout time.Duration
	logger  *slog.Logger
}

// Listen binds addr; use "host:0" to pick a free port.
func Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: listen %s: %w", transport.ErrTransport, addr, err)
	}
	return ln, nil
}

func NewServer(ln net.Listener, replica Replica, timeout time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		ln:      ln,
		partner: NewPartner(replica, logger),
		timeout: timeout,
		logger:  logger,
	}
}

func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Run accepts connections until ctx is cancelled or the listener is closed,
// then waits for in-flight sessions to return. Cancelling ctx also
// interrupts those sessions.
func (s *Server) Run(ctx context.Context) error {
	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			s.ln.Close()
		case <-stopped:
		}
	}()

	var (
		eg        errgroup.Group
		acceptErr error
	)
	for {
		c, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				acceptErr = fmt.Errorf("%w: accept: %w", transport.ErrTransport, err)
				s.logger.Error("accept loop stopped", "error", acceptErr)
			}
			break
		}
		eg.Go(func() error {
			s.serve(ctx, c)
			return nil
		})
	}
	close(stopped)
	s.ln.Close()

	eg.Wait()
	return acceptErr
}

func (s *Server) serve(ctx context.Context, c net.Conn) {
	conn := transport.NewConn(c, s.timeout)
	defer conn.Close()

	res, err := s.partner.Serve(ctx, conn)
	if err != nil {
		// сессия обрывается, сервер продолжает работу
		s.logger.Warn("partner session aborted",
			"session", res.Session, "remote", c.RemoteAddr().String(), "error", err)
		return
	}
	s.logger.Debug(res.String())
}
