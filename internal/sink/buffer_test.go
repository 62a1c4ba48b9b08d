package sink

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_PushPop(t *testing.T) {
	q := newQueue[int](10)

	for i := 0; i < 5; i++ {
		require.True(t, q.push(i))
	}
	assert.Equal(t, 5, q.stats().Pending)

	for i := 0; i < 5; i++ {
		v, ok := q.pop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.Zero(t, q.stats().Pending)
}

func TestQueue_GrowsAt70Percent(t *testing.T) {
	q := newQueue[int](10)

	for i := 0; i < 7; i++ {
		q.push(i)
	}

	stats := q.stats()
	assert.Greater(t, stats.Capacity, 10)
	assert.Equal(t, 1, stats.Resizes)

	for i := 0; i < 7; i++ {
		v, ok := q.pop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func TestQueue_GrowAfterWrap(t *testing.T) {
	q := newQueue[int](8)

	// Move head forward so the ring wraps before growing
	for i := 0; i < 4; i++ {
		q.push(i)
	}
	for i := 0; i < 4; i++ {
		q.pop()
	}
	for i := 0; i < 20; i++ {
		q.push(i)
	}

	for i := 0; i < 20; i++ {
		v, ok := q.pop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func TestQueue_PopBlocksUntilPush(t *testing.T) {
	q := newQueue[int](4)

	got := make(chan int, 1)
	go func() {
		v, _ := q.pop()
		got <- v
	}()

	time.Sleep(20 * time.Millisecond)
	q.push(42)

	select {
	case v := <-got:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("pop did not unblock")
	}
}

func TestQueue_CloseDrainsThenStops(t *testing.T) {
	q := newQueue[int](4)
	q.push(1)
	q.push(2)
	q.close()

	assert.False(t, q.push(3))

	v, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = q.pop()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = q.pop()
	assert.False(t, ok)
}

func TestQueue_CloseUnblocksPop(t *testing.T) {
	q := newQueue[int](4)

	done := make(chan bool, 1)
	go func() {
		_, ok := q.pop()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	q.close()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("close did not unblock pop")
	}
}

func TestQueue_ConcurrentPushPop(t *testing.T) {
	q := newQueue[int](2)
	const n = 1000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			q.push(i)
		}
		q.close()
	}()

	var got []int
	for {
		v, ok := q.pop()
		if !ok {
			break
		}
		got = append(got, v)
	}
	wg.Wait()

	require.Len(t, got, n)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestNewQueue_MinCapacity(t *testing.T) {
	q := newQueue[int](0)
	assert.GreaterOrEqual(t, q.stats().Capacity, 1)
	assert.True(t, q.push(1))
}
