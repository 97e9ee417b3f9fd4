package participants

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Peer is one member of the replication group.
type Peer struct {
	ID      string
	Address string
}

// Directory is the fixed membership of the group as seen from self.
type Directory struct {
	self  string
	order []string
	peers map[string]Peer

	mu  sync.Mutex // guards rnd
	rnd *rand.Rand
}

// NewDirectory validates the membership list: ids must be unique and non
// empty, and self must be one of them.
func NewDirectory(self string, peers []Peer) (*Directory, error) {
	d := &Directory{
		self:  self,
		order: make([]string, 0, len(peers)),
		peers: make(map[string]Peer, len(peers)),
		rnd:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, p := range peers {
		if p.ID == "" {
			return nil, ErrEmptyParticipantID
		}
		if _, dup := d.peers[p.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateParticipant, p.ID)
		}
		d.peers[p.ID] = p
		d.order = append(d.order, p.ID)
	}
	if _, ok := d.peers[self]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParticipant, self)
	}
	return d, nil
}

func (d *Directory) Self() string { return d.self }

// IDs returns every participant id, self included, in configuration order.
func (d *Directory) IDs() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

func (d *Directory) Peer(id string) (Peer, error) {
	p, ok := d.peers[id]
	if !ok {
		return Peer{}, fmt.Errorf("%w: %q", ErrUnknownParticipant, id)
	}
	return p, nil
}

// Others returns every participant except self.
func (d *Directory) Others() []Peer {
	out := make([]Peer, 0, len(d.order))
	for _, id := range d.order {
		if id != d.self {
			out = append(out, d.peers[id])
		}
	}
	return out
}

// RandomPartners picks up to n distinct peers other than self.
func (d *Directory) RandomPartners(n int) []Peer {
	others := d.Others()
	if n <= 0 || len(others) == 0 {
		return nil
	}

	d.mu.Lock()
	d.rnd.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })
	d.mu.Unlock()

	if n > len(others) {
		n = len(others)
	}
	return others[:n]
}
