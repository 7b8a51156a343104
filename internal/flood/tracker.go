// ABOUTME: Thread-safe sliding-window message counters per (chat, user)
// ABOUTME: Used by the policy engine to detect flooding; state is volatile by design

package flood

import (
	"sync"
	"time"
)

// bucketKey identifies one user's bucket within one chat.
type bucketKey struct {
	chatID int64
	userID int64
}

// bucket holds a user's recent message timestamps in epoch seconds,
// oldest first, plus the last time the bucket was touched.
type bucket struct {
	timestamps []int64
	touched    time.Time
}

// Tracker counts messages per (chat, user) over a sliding window. Buckets
// live only in memory and are discarded on restart; flood state is a soft,
// short-horizon signal and loses nothing durable.
//
// A background goroutine sweeps buckets that have been idle longer than
// the idle TTL so keys that never message again do not accumulate.
type Tracker struct {
	mu      sync.Mutex
	buckets map[bucketKey]*bucket
	idleTTL time.Duration
	done    chan struct{}
	closed  bool
}

// NewTracker creates a tracker whose idle buckets are swept after idleTTL.
func NewTracker(idleTTL time.Duration) *Tracker {
	t := &Tracker{
		buckets: make(map[bucketKey]*bucket),
		idleTTL: idleTTL,
		done:    make(chan struct{}),
	}
	go t.sweep()
	return t
}

// RecordAndCount appends now to the user's bucket, drops entries older
// than windowSec relative to now, and returns the resulting count
// including the entry just added. The read-modify-write is atomic per
// key: two concurrent messages from the same user cannot both observe a
// stale pre-increment count.
func (t *Tracker) RecordAndCount(chatID, userID, now int64, windowSec int) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := bucketKey{chatID, userID}
	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{}
		t.buckets[key] = b
	}

	cutoff := now - int64(windowSec)
	kept := b.timestamps[:0]
	for _, ts := range b.timestamps {
		if ts > cutoff {
			kept = append(kept, ts)
		}
	}
	b.timestamps = append(kept, now)
	b.touched = time.Now()

	return len(b.timestamps)
}

// Len returns the number of live buckets. Exposed for tests and stats.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.buckets)
}

// sweep runs in a background goroutine, periodically dropping idle buckets.
func (t *Tracker) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.runSweep()
		case <-t.done:
			return
		}
	}
}

// runSweep removes all buckets untouched for longer than the idle TTL.
func (t *Tracker) runSweep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	for key, b := range t.buckets {
		if now.Sub(b.touched) > t.idleTTL {
			delete(t.buckets, key)
		}
	}
}

// Close stops the background sweep goroutine. It is safe to call multiple times.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.closed {
		close(t.done)
		t.closed = true
	}
}
