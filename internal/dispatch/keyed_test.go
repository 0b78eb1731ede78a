package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTasksRunInOrderPerKey(t *testing.T) {
	d := NewKeyedDispatcher(context.Background())

	var mu sync.Mutex
	var got []int
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		ok := d.Enqueue("wa:1", func(context.Context) {
			defer wg.Done()
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
		require.True(t, ok)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		assert.Equal(t, i, got[i], "task order must match arrival order")
	}
}

func TestKeysRunConcurrently(t *testing.T) {
	d := NewKeyedDispatcher(context.Background())

	// The first key blocks until the second key's task has run. If
	// keys shared a queue this would deadlock.
	release := make(chan struct{})
	done := make(chan struct{})

	d.Enqueue("wa:1", func(context.Context) {
		<-release
		close(done)
	})
	d.Enqueue("wa:2", func(context.Context) {
		close(release)
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("keys did not run concurrently")
	}
}

func TestShutdownWaitsForQueuedWork(t *testing.T) {
	d := NewKeyedDispatcher(context.Background())

	ran := false
	d.Enqueue("wa:1", func(context.Context) {
		time.Sleep(20 * time.Millisecond)
		ran = true
	})

	require.NoError(t, d.Shutdown(context.Background()))
	assert.True(t, ran)

	assert.False(t, d.Enqueue("wa:1", func(context.Context) {}),
		"no tasks accepted after shutdown")
}

func TestShutdownHonorsDeadline(t *testing.T) {
	d := NewKeyedDispatcher(context.Background())

	blocker := make(chan struct{})
	defer close(blocker)
	d.Enqueue("wa:1", func(context.Context) { <-blocker })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, d.Shutdown(ctx), context.DeadlineExceeded)
}

func TestActiveQueues(t *testing.T) {
	d := NewKeyedDispatcher(context.Background())
	assert.Zero(t, d.ActiveQueues())

	var wg sync.WaitGroup
	wg.Add(2)
	blocker := make(chan struct{})
	d.Enqueue("wa:1", func(context.Context) { defer wg.Done(); <-blocker })
	d.Enqueue("wa:2", func(context.Context) { defer wg.Done(); <-blocker })

	assert.Equal(t, 2, d.ActiveQueues())
	close(blocker)
	wg.Wait()
}
