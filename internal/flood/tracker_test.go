// ABOUTME: Tests for the sliding-window flood tracker
// ABOUTME: Validates window trimming, per-key isolation, idle sweep, and concurrency safety

package flood

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordAndCount_Increments(t *testing.T) {
	tr := NewTracker(time.Hour)
	defer tr.Close()

	now := int64(1000)
	assert.Equal(t, 1, tr.RecordAndCount(1, 1, now, 10))
	assert.Equal(t, 2, tr.RecordAndCount(1, 1, now+1, 10))
	assert.Equal(t, 3, tr.RecordAndCount(1, 1, now+2, 10))
}

func TestRecordAndCount_WindowExpiry(t *testing.T) {
	tr := NewTracker(time.Hour)
	defer tr.Close()

	// Messages spaced wider than the window never accumulate
	now := int64(1000)
	for i := 0; i < 10; i++ {
		count := tr.RecordAndCount(1, 1, now, 10)
		assert.Equal(t, 1, count, "message %d should be alone in its window", i)
		now += 11
	}
}

func TestRecordAndCount_PartialTrim(t *testing.T) {
	tr := NewTracker(time.Hour)
	defer tr.Close()

	tr.RecordAndCount(1, 1, 1000, 10)
	tr.RecordAndCount(1, 1, 1005, 10)

	// At t=1012 the first entry (1000) has aged out, the second (1005) has not
	count := tr.RecordAndCount(1, 1, 1012, 10)
	assert.Equal(t, 2, count)
}

func TestRecordAndCount_KeysIsolated(t *testing.T) {
	tr := NewTracker(time.Hour)
	defer tr.Close()

	now := int64(1000)
	tr.RecordAndCount(1, 1, now, 10)
	tr.RecordAndCount(1, 1, now, 10)

	// Different user in the same chat
	assert.Equal(t, 1, tr.RecordAndCount(1, 2, now, 10))
	// Same user in a different chat
	assert.Equal(t, 1, tr.RecordAndCount(2, 1, now, 10))
}

func TestRunSweep_DropsIdleBuckets(t *testing.T) {
	tr := NewTracker(10 * time.Millisecond)
	defer tr.Close()

	tr.RecordAndCount(1, 1, 1000, 10)
	tr.RecordAndCount(1, 2, 1000, 10)
	assert.Equal(t, 2, tr.Len())

	time.Sleep(20 * time.Millisecond)
	tr.runSweep()

	assert.Equal(t, 0, tr.Len())
}

func TestRunSweep_KeepsActiveBuckets(t *testing.T) {
	tr := NewTracker(time.Hour)
	defer tr.Close()

	tr.RecordAndCount(1, 1, 1000, 10)
	tr.runSweep()

	assert.Equal(t, 1, tr.Len())
}

func TestRecordAndCount_Concurrent(t *testing.T) {
	tr := NewTracker(time.Hour)
	defer tr.Close()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			tr.RecordAndCount(1, 1, 1000, 1000)
		}()
	}
	wg.Wait()

	// Every concurrent append must have landed exactly once
	assert.Equal(t, workers+1, tr.RecordAndCount(1, 1, 1000, 1000))
}

func TestClose_Idempotent(t *testing.T) {
	tr := NewTracker(time.Hour)
	tr.Close()
	tr.Close()
}
