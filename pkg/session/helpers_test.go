package session

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"recipes-tsae/pkg/participants"
	"recipes-tsae/pkg/storage"
	"recipes-tsae/pkg/transport"
)

const testTimeout = 2 * time.Second

var abc = []string{"A", "B", "C"}

type testNode struct {
	store      *storage.Store
	addr       string
	originator *Originator
}

// startGroup starts a store and a session server per id on loopback ports.
func startGroup(t *testing.T, ids ...string) (map[string]*testNode, []participants.Peer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{}, len(ids))
	t.Cleanup(func() {
		cancel()
		for range ids {
			<-done
		}
	})

	nodes := make(map[string]*testNode, len(ids))
	var peers []participants.Peer
	for _, id := range ids {
		store, err := storage.NewStore(id, "cook-"+id, ids)
		require.NoError(t, err)
		ln, err := Listen("127.0.0.1:0")
		require.NoError(t, err)
		srv := NewServer(ln, store, testTimeout, nil)
		go func() {
			srv.Run(ctx)
			done <- struct{}{}
		}()
		nodes[id] = &testNode{
			store:      store,
			addr:       srv.Addr().String(),
			originator: NewOriginator(store, testTimeout, nil),
		}
		peers = append(peers, participants.Peer{ID: id, Address: srv.Addr().String()})
	}
	return nodes, peers
}

func session(t *testing.T, nodes map[string]*testNode, from, to string) Result {
	t.Helper()
	res, err := nodes[from].originator.SessionWith(context.Background(), peerOf(nodes, to))
	require.NoError(t, err)
	return res
}

func pipe(t *testing.T) (*transport.Conn, *transport.Conn) {
	t.Helper()
	a, b := net.Pipe()
	ca, cb := transport.NewConn(a, testTimeout), transport.NewConn(b, testTimeout)
	t.Cleanup(func() {
		ca.Close()
		cb.Close()
	})
	return ca, cb
}

func newStore(t *testing.T, id string) *storage.Store {
	t.Helper()
	s, err := storage.NewStore(id, "cook-"+id, abc)
	require.NoError(t, err)
	return s
}

func peerAt(id, addr string) participants.Peer {
	return participants.Peer{ID: id, Address: addr}
}

func peerOf(nodes map[string]*testNode, id string) participants.Peer {
	return peerAt(id, nodes[id].addr)
}
