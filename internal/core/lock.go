package core

// RequestLock serializes requests. At most one holder at a time.
type RequestLock struct {
	sem chan struct{}
}

// NewRequestLock creates a new request lock
func NewRequestLock() *RequestLock {
	return &RequestLock{
		sem: make(chan struct{}, 1),
	}
}

// TryLock acquires the lock only if it is free
func (c *RequestLock) TryLock() bool {
	select {
	case c.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

// Held reports whether the lock is currently taken
func (c *RequestLock) Held() bool {
	return len(c.sem) > 0
}

// Unlock releases the lock
func (c *RequestLock) Unlock() {
	select {
	case <-c.sem:
	default:
		// already unlocked
	}
}
