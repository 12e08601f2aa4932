package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestTypedGetOrLoadCachesSuccess(t *testing.T) {
	ctx := context.Background()
	typed := NewTyped[record](NewMemory(), nil)

	var loads atomic.Int32
	load := func(context.Context) (record, error) {
		loads.Add(1)
		return record{ID: 1, Name: "Rick"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := typed.GetOrLoad(ctx, "character/1", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, record{ID: 1, Name: "Rick"}, got)
	}
	assert.Equal(t, int32(1), loads.Load())

	typed.Invalidate(ctx, "character/1")
	_, err := typed.GetOrLoad(ctx, "character/1", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, int32(2), loads.Load())
}

func TestTypedGetOrLoadDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	typed := NewTyped[record](NewMemory(), nil)

	boom := errors.New("boom")
	var loads atomic.Int32
	load := func(context.Context) (record, error) {
		if loads.Add(1) == 1 {
			return record{}, boom
		}
		return record{ID: 2}, nil
	}

	_, err := typed.GetOrLoad(ctx, "k", time.Minute, load)
	assert.ErrorIs(t, err, boom)

	got, err := typed.GetOrLoad(ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ID)
}

func TestTypedGetOrLoadCoalescesConcurrentCalls(t *testing.T) {
	ctx := context.Background()
	typed := NewTyped[record](NewMemory(), nil)

	release := make(chan struct{})
	var loads atomic.Int32
	load := func(context.Context) (record, error) {
		loads.Add(1)
		<-release
		return record{ID: 3}, nil
	}

	const callers = 8
	var wg sync.WaitGroup
	var started sync.WaitGroup
	started.Add(callers)
	results := make([]record, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Done()
			got, err := typed.GetOrLoad(ctx, "shared", time.Minute, load)
			assert.NoError(t, err)
			results[i] = got
		}(i)
	}
	started.Wait()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
	for _, r := range results {
		assert.Equal(t, 3, r.ID)
	}
}

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("backend down")
}
func (failingBackend) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("backend down")
}
func (failingBackend) Delete(context.Context, string) error { return errors.New("backend down") }
func (failingBackend) Close() error                         { return nil }

func TestTypedDegradesWhenBackendFails(t *testing.T) {
	typed := NewTyped[record](failingBackend{}, nil)

	got, err := typed.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) (record, error) {
		return record{ID: 4}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, got.ID)
}

func TestTypedDropsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	require.NoError(t, mem.Set(ctx, "k", []byte("{not-json"), time.Minute))

	typed := NewTyped[record](mem, nil)
	_, ok := typed.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, mem.Len())
}
