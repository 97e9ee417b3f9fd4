package storage

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"recipes-tsae/pkg/tsae"
)

// Store is the state of one replica: the operation log, the local summary,
// the acknowledgement matrix and the recipe collection built from the log.
// A single mutex serializes every mutation and every read that has to be
// consistent across those structures. Network I/O never happens under it.
type Store struct {
	mu sync.Mutex

	nodeID       string
	author       string
	participants []string

	clock   *Clock
	log     *tsae.Log
	summary *tsae.Vector
	ack     *tsae.Matrix
	engine  *Engine

	logger *slog.Logger
}

type StoreOpt func(s *Store)

// WithShards sets the initial number of shards of the recipe collection.
func WithShards(n int) StoreOpt {
	return func(s *Store) {
		s.engine = NewEngine(n)
	}
}

func WithLogger(logger *slog.Logger) StoreOpt {
	return func(s *Store) {
		s.logger = logger.With("component", "store")
	}
}

// NewStore создаёт пустое состояние реплики nodeID для заданного набора участников
func NewStore(nodeID, author string, participants []string, opts ...StoreOpt) (*Store, error) {
	if !slices.Contains(participants, nodeID) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, nodeID)
	}
	if len(author) > tsae.MaxNodeIDLen {
		return nil, fmt.Errorf("%w: author of %d bytes", ErrNodeIDTooLong, len(author))
	}
	for _, id := range participants {
		if len(id) > tsae.MaxNodeIDLen {
			return nil, fmt.Errorf("%w: participant id of %d bytes", ErrNodeIDTooLong, len(id))
		}
	}
	ids := slices.Clone(participants)
	s := &Store{
		nodeID:       nodeID,
		author:       author,
		participants: ids,
		clock:        NewClock(nodeID),
		log:          tsae.NewLog(ids),
		summary:      tsae.NewVector(ids),
		ack:          tsae.NewMatrix(ids),
		engine:       NewEngine(0),
		logger:       slog.Default().With("component", "store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) ID() string { return s.nodeID }

func (s *Store) Participants() []string { return slices.Clone(s.participants) }

// AddRecipe stamps a new Add operation, logs it, advances the summary and
// materializes the recipe, all under one critical section. Recipes that
// could not be sent to peers are refused before a timestamp is issued.
func (s *Store) AddRecipe(title, body string) (tsae.Operation, error) {
	if title == "" {
		return tsae.Operation{}, ErrEmptyTitle
	}
	if len(title) > tsae.MaxTitleLen {
		return tsae.Operation{}, fmt.Errorf("%w: %d bytes, max %d", ErrTitleTooLong, len(title), tsae.MaxTitleLen)
	}
	if len(body) > tsae.MaxBodyLen {
		return tsae.Operation{}, fmt.Errorf("%w: %d bytes, max %d", ErrBodyTooLarge, len(body), tsae.MaxBodyLen)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.clock.Next()
	recipe := tsae.Recipe{Title: title, Body: body, Author: s.author, Timestamp: ts}
	op := tsae.NewAddOperation(recipe, ts)
	if err := s.appendLocal(op); err != nil {
		return tsae.Operation{}, err
	}
	s.engine.Put(recipe, ts)
	return op, nil
}

// RemoveRecipe stamps a Remove operation referencing the current recipe
// stored under title. ErrRecipeNotFound if there is none.
func (s *Store) RemoveRecipe(title string) (tsae.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.engine.Get(title)
	if !ok {
		return tsae.Operation{}, fmt.Errorf("%w: %q", ErrRecipeNotFound, title)
	}
	ts := s.clock.Next()
	op := tsae.NewRemoveOperation(title, entry.Recipe.Timestamp, ts)
	if err := s.appendLocal(op); err != nil {
		return tsae.Operation{}, err
	}
	s.engine.Delete(title)
	return op, nil
}

// appendLocal must be called with s.mu held.
func (s *Store) appendLocal(op tsae.Operation) error {
	if !s.log.Add(op) {
		// собственная метка всегда следующая по порядку, иначе состояние испорчено
		s.logger.Error("log rejected a locally issued operation",
			"fatal", true, "op", op.String(), "last", s.log.Last(s.nodeID).String())
		return fmt.Errorf("%w: log rejected local operation %s", ErrCorruptedState, op)
	}
	s.summary.UpdateTimestamp(op.Timestamp)
	return nil
}

// ExecOperation logs an operation received from a peer and, only if the log
// accepted it, applies it to the recipe collection. Duplicates and
// out-of-order operations are ignored and reported as false.
func (s *Store) ExecOperation(op tsae.Operation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch op.Kind {
	case tsae.KindAdd:
		if op.Recipe == nil {
			return false
		}
	case tsae.KindRemove:
	default:
		return false
	}

	if !s.log.Add(op) {
		s.logger.Debug("operation not logged", "op", op.String(), "last", s.log.Last(op.Timestamp.NodeID).String())
		return false
	}

	switch op.Kind {
	case tsae.KindAdd:
		s.engine.Put(*op.Recipe, op.Timestamp)
	case tsae.KindRemove:
		s.engine.Delete(op.Title)
	}
	return true
}

// UpdateSummary merges a peer summary into the local one (max).
func (s *Store) UpdateSummary(v *tsae.Vector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary.UpdateMax(v)
}

// UpdateAck refreshes the local row with the current summary and then
// merges a peer matrix into the local one (max).
func (s *Store) UpdateAck(m *tsae.Matrix) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ack.Update(s.nodeID, s.summary.Clone())
	s.ack.UpdateMax(m)
}

func (s *Store) PurgeLog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.PurgeLog(s.ack)
}

// Snapshot returns deep copies of the summary and the ack matrix.
func (s *Store) Snapshot() (*tsae.Vector, *tsae.Matrix) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary.Clone(), s.ack.Clone()
}

// Exchange returns the operations peerSummary has not seen together with
// copies of the local summary and ack, taken in the same critical section so
// the summary never claims operations missing from the list.
func (s *Store) Exchange(peerSummary *tsae.Vector) ([]tsae.Operation, *tsae.Vector, *tsae.Matrix) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.ListNewer(peerSummary), s.summary.Clone(), s.ack.Clone()
}

func (s *Store) ListNewer(summary *tsae.Vector) []tsae.Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.ListNewer(summary)
}

func (s *Store) Summary() *tsae.Vector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary.Clone()
}

func (s *Store) Ack() *tsae.Matrix {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ack.Clone()
}

// LogOperations returns a copy of the operations logged for origin node.
func (s *Store) LogOperations(node string) []tsae.Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Operations(node)
}

// LogSizes returns the number of logged operations per origin.
func (s *Store) LogSizes() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sizes := make(map[string]int, len(s.participants))
	for _, node := range s.participants {
		sizes[node] = len(s.log.Operations(node))
	}
	return sizes
}

// Recipe reads the collection directly; it does not take the store lock.
func (s *Store) Recipe(title string) (tsae.Recipe, bool) {
	entry, ok := s.engine.Get(title)
	if !ok {
		return tsae.Recipe{}, false
	}
	return entry.Recipe, true
}

func (s *Store) Recipes() []tsae.Recipe {
	return s.engine.Recipes()
}
