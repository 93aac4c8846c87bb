package reservation

import "sync"

// carLocks serializes the conflict-check-then-write section per car, so two
// requests for the same car cannot both pass the availability check. Locks
// for different cars do not contend.
type carLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newCarLocks() *carLocks {
	return &carLocks{locks: make(map[string]*sync.Mutex)}
}

func (c *carLocks) lock(carID string) *sync.Mutex {
	c.mu.Lock()
	l, ok := c.locks[carID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[carID] = l
	}
	c.mu.Unlock()
	l.Lock()
	return l
}
