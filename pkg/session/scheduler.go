package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"recipes-tsae/pkg/participants"
)

type SchedulerOpt func(s *Scheduler)

// WithDelay sets how long to wait before the first round.
func WithDelay(d time.Duration) SchedulerOpt {
	return func(s *Scheduler) {
		s.delay = d
	}
}

// WithPeriod sets the interval between rounds.
func WithPeriod(d time.Duration) SchedulerOpt {
	return func(s *Scheduler) {
		s.period = d
	}
}

// WithNumSessions sets how many random partners each round contacts.
func WithNumSessions(n int) SchedulerOpt {
	return func(s *Scheduler) {
		s.numSessions = n
	}
}

func WithLogger(logger *slog.Logger) SchedulerOpt {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

func withClock(clock clockwork.Clock) SchedulerOpt {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// Scheduler runs periodic rounds of originator sessions.
type Scheduler struct {
	originator  *Originator
	directory   *participants.Directory
	clock       clockwork.Clock
	delay       time.Duration
	period      time.Duration
	numSessions int
	logger      *slog.Logger
}

func NewScheduler(originator *Originator, directory *participants.Directory, opts ...SchedulerOpt) *Scheduler {
	s := &Scheduler{
		originator:  originator,
		directory:   directory,
		clock:       clockwork.NewRealClock(),
		period:      time.Second,
		numSessions: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run waits for the initial delay and then triggers rounds until ctx is
// cancelled. The period is counted from the end of a round (fixed delay,
// not fixed rate): a slow round pushes the following ones back and rounds
// never overlap.
func (s *Scheduler) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.clock.After(s.delay):
	}
	for {
		s.Trigger(ctx, s.numSessions)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(s.period):
		}
	}
}

// Trigger runs sessions with n random partners in parallel and waits for
// all of them. Failed sessions are logged and left out of the results.
func (s *Scheduler) Trigger(ctx context.Context, n int) []Result {
	partners := s.directory.RandomPartners(n)
	if len(partners) == 0 {
		return nil
	}

	results := make([]*Result, len(partners))
	var eg errgroup.Group
	for i, peer := range partners {
		eg.Go(func() error {
			res, err := s.originator.SessionWith(ctx, peer)
			if err != nil {
				s.logger.Warn("originator session aborted",
					"session", res.Session, "peer", peer.ID, "error", err)
				return nil
			}
			s.logger.Debug(res.String())
			results[i] = &res
			return nil
		})
	}
	eg.Wait()

	out := make([]Result, 0, len(results))
	for _, res := range results {
		if res != nil {
			out = append(out, *res)
		}
	}
	return out
}
