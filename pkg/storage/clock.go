package storage

import (
	"sync"

	"recipes-tsae/pkg/tsae"
)

// Clock issues this replica's timestamps: 0, 1, 2, ... without gaps for the
// lifetime of the process.
type Clock struct {
	mutex sync.Mutex
	last  tsae.Timestamp
}

func NewClock(nodeID string) *Clock {
	return &Clock{last: tsae.Null(nodeID)}
}

// Next advances the clock and returns the new timestamp.
func (c *Clock) Next() tsae.Timestamp {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.last = c.last.Next()
	return c.last
}
