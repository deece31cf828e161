package cache

import (
	"sync"
	"time"
)

// Producer computes a value to cache.
type Producer func() (any, error)

type entry struct {
	mu       sync.Mutex
	value    any
	lifespan time.Duration
	expires  time.Time
	policy   RefreshPolicy
	produce  Producer
}

func newEntry(value any, now time.Time, lifespan time.Duration, policy RefreshPolicy, produce Producer) *entry {
	return &entry{
		value:    value,
		lifespan: lifespan,
		expires:  now.Add(lifespan),
		policy:   policy,
		produce:  produce,
	}
}

// expired reports whether the entry is gone for callers.
// Auto-renewing entries never are.
func (e *entry) expired(now time.Time) bool {
	if e.policy == RefreshOnRead {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return !now.Before(e.expires)
}

// read returns the value, running the producer first when an auto-renewing
// entry has lapsed. On a producer error the previous value is kept.
func (e *entry) read(now time.Time) (value any, renewed bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.policy != RefreshOnRead || now.Before(e.expires) {
		return e.value, false, nil
	}

	v, err := e.produce()
	if err != nil {
		return e.value, false, err
	}

	e.value = v
	e.expires = now.Add(e.lifespan)

	return v, true, nil
}
