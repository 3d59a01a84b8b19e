// Package lock guards per-key work so only one holder runs at a time.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrHeld is returned when another holder owns the key.
var ErrHeld = errors.New("lock held")

// Release gives the key back. It is safe to call once.
type Release func()

// Locker acquires exclusive keys with a time-to-live.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}

// Local is an in-process Locker. TTL is ignored; keys are held until released.
type Local struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocal() *Local {
	return &Local{held: make(map[string]struct{})}
}

func (l *Local) Acquire(_ context.Context, key string, _ time.Duration) (Release, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, ErrHeld
	}
	l.held[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}

// Multi acquires every Locker in order and releases all of them together.
type Multi []Locker

func (m Multi) Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error) {
	releases := make([]Release, 0, len(m))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	for _, l := range m {
		rel, err := l.Acquire(ctx, key, ttl)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, rel)
	}
	return releaseAll, nil
}
