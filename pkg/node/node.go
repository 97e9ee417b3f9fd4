package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"

	"recipes-tsae/pkg/config"
	"recipes-tsae/pkg/participants"
	"recipes-tsae/pkg/session"
	"recipes-tsae/pkg/storage"
	"recipes-tsae/pkg/tsae"
)

type Option func(n *Node)

// WithListener makes the node accept sessions on ln instead of binding the
// configured address.
func WithListener(ln net.Listener) Option {
	return func(n *Node) {
		n.ln = ln
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(n *Node) {
		n.logger = logger
	}
}

// Node is one replica of the recipe collection together with its session
// server and periodic originator.
type Node struct {
	cfg    *config.Config
	logger *slog.Logger
	ln     net.Listener

	store      *storage.Store
	directory  *participants.Directory
	originator *session.Originator
	server     *session.Server
	scheduler  *session.Scheduler

	mu      sync.Mutex
	started bool
	closed  bool
	ctx     context.Context
	cancel  context.CancelFunc
	eg      errgroup.Group
}

// New validates cfg and wires the replica. Nothing runs until Start.
func New(cfg *config.Config, opts ...Option) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := &Node{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(n)
	}

	peers := make([]participants.Peer, 0, len(cfg.Participants))
	for _, p := range cfg.Participants {
		peers = append(peers, participants.Peer{ID: p.ID, Address: p.Address})
	}
	dir, err := participants.NewDirectory(cfg.Node.ID, peers)
	if err != nil {
		return nil, err
	}
	n.directory = dir

	n.store, err = storage.NewStore(cfg.Node.ID, cfg.Node.Author, dir.IDs(),
		storage.WithShards(cfg.Replication.Shards),
		storage.WithLogger(n.logger),
	)
	if err != nil {
		return nil, err
	}

	if n.ln == nil {
		n.ln, err = session.Listen(cfg.Node.ListenAddress())
		if err != nil {
			return nil, err
		}
	}

	timeout := cfg.Gossip.SessionTimeout()
	n.originator = session.NewOriginator(n.store, timeout, n.logger)
	n.server = session.NewServer(n.ln, n.store, timeout, n.logger)
	n.scheduler = session.NewScheduler(n.originator, dir,
		session.WithDelay(cfg.Gossip.Delay()),
		session.WithPeriod(cfg.Gossip.Interval()),
		session.WithNumSessions(cfg.Gossip.Fanout),
		session.WithLogger(n.logger),
	)
	return n, nil
}

// Start launches the session server and the periodic rounds. They stop when
// ctx is cancelled or Close is called.
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ErrClosed
	}
	if n.started {
		return ErrAlreadyStarted
	}
	n.started = true
	n.ctx, n.cancel = context.WithCancel(ctx)

	n.eg.Go(func() error {
		return n.server.Run(n.ctx)
	})
	n.eg.Go(func() error {
		if err := n.scheduler.Run(n.ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	n.logger.Info(fmt.Sprintf("[node] %s listening on %s", n.cfg.Node.ID, n.Addr()),
		"participants", n.directory.IDs(), "fanout", n.cfg.Gossip.Fanout)
	return nil
}

// AddRecipe creates or replaces the recipe under title.
func (n *Node) AddRecipe(title, body string) (tsae.Recipe, error) {
	op, err := n.store.AddRecipe(title, body)
	if err != nil {
		return tsae.Recipe{}, err
	}
	n.propagate()
	return *op.Recipe, nil
}

func (n *Node) RemoveRecipe(title string) error {
	if _, err := n.store.RemoveRecipe(title); err != nil {
		return err
	}
	n.propagate()
	return nil
}

// propagate pushes a local change to the configured number of partners
// without waiting for the round to finish.
func (n *Node) propagate() {
	degree := n.cfg.Replication.PropagationDegree
	if degree <= 0 {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.started || n.closed {
		return
	}
	n.eg.Go(func() error {
		n.scheduler.Trigger(n.ctx, degree)
		return nil
	})
}

// SessionWith runs one session with the participant id right away.
func (n *Node) SessionWith(ctx context.Context, id string) (session.Result, error) {
	if id == n.directory.Self() {
		return session.Result{}, ErrSelfSession
	}
	peer, err := n.directory.Peer(id)
	if err != nil {
		return session.Result{}, err
	}
	return n.originator.SessionWith(ctx, peer)
}

// Sync runs a round with count random partners and waits for it.
func (n *Node) Sync(ctx context.Context, count int) []session.Result {
	return n.scheduler.Trigger(ctx, count)
}

func (n *Node) Recipe(title string) (tsae.Recipe, bool) {
	return n.store.Recipe(title)
}

func (n *Node) Recipes() []tsae.Recipe {
	return n.store.Recipes()
}

func (n *Node) ID() string { return n.cfg.Node.ID }

func (n *Node) Addr() net.Addr { return n.ln.Addr() }

// Close stops the server and the scheduler and waits for running sessions.
func (n *Node) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	started := n.started
	n.mu.Unlock()

	if !started {
		return n.ln.Close()
	}
	n.cancel()
	err := n.eg.Wait()
	n.logger.Info(fmt.Sprintf("[node] %s stopped", n.cfg.Node.ID))
	return err
}
