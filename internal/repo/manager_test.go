package repo

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

func testManager(dial func(ctx context.Context) (*Store, error)) *Manager {
	return &Manager{dial: dial, sleep: func(time.Duration) {}}
}

func TestConnectSingleFlight(t *testing.T) {
	var dials int32
	want := &Store{}
	m := testManager(func(ctx context.Context) (*Store, error) {
		atomic.AddInt32(&dials, 1)
		time.Sleep(20 * time.Millisecond) // keep the attempt in flight
		return want, nil
	})

	const callers = 32
	var wg sync.WaitGroup
	stores := make([]*Store, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stores[i], errs[i] = m.Connect(context.Background())
		}(i)
	}
	wg.Wait()

	require.EqualValues(t, 1, atomic.LoadInt32(&dials), "concurrent callers must share one attempt")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, want, stores[i])
	}
}

func TestConnectCachesStore(t *testing.T) {
	var dials int32
	m := testManager(func(ctx context.Context) (*Store, error) {
		atomic.AddInt32(&dials, 1)
		return &Store{}, nil
	})

	first, err := m.Connect(context.Background())
	require.NoError(t, err)
	second, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.EqualValues(t, 1, dials)
}

func TestConnectRetriesWithBackoff(t *testing.T) {
	var delays []time.Duration
	var dials int32
	m := &Manager{
		dial: func(ctx context.Context) (*Store, error) {
			if atomic.AddInt32(&dials, 1) < 3 {
				return nil, errors.New("refused")
			}
			return &Store{}, nil
		},
		sleep: func(d time.Duration) { delays = append(delays, d) },
	}

	_, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, dials)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
}

func TestConnectFailureIsNotCached(t *testing.T) {
	var dials int32
	boom := errors.New("refused")
	m := testManager(func(ctx context.Context) (*Store, error) {
		atomic.AddInt32(&dials, 1)
		return nil, boom
	})

	_, err := m.Connect(context.Background())
	require.ErrorIs(t, err, boom)
	// initial try plus maxConnectRetries
	assert.EqualValues(t, maxConnectRetries+1, dials)

	// a later call starts a fresh attempt instead of replaying the failure
	_, err = m.Connect(context.Background())
	require.ErrorIs(t, err, boom)
	assert.EqualValues(t, 2*(maxConnectRetries+1), dials)
}

func TestConnectBackoffIsCapped(t *testing.T) {
	var delays []time.Duration
	m := &Manager{
		dial:  func(ctx context.Context) (*Store, error) { return nil, errors.New("refused") },
		sleep: func(d time.Duration) { delays = append(delays, d) },
	}
	_, _ = m.Connect(context.Background())
	for _, d := range delays {
		assert.LessOrEqual(t, d, maxRetryDelay)
	}
}

func TestConnectHonorsCallerContext(t *testing.T) {
	release := make(chan struct{})
	m := testManager(func(ctx context.Context) (*Store, error) {
		<-release
		return &Store{}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := m.Connect(ctx)
	require.ErrorIs(t, err, context.Canceled)

	// the shared attempt is still running and can be joined afterwards
	close(release)
	s, err := m.Connect(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, s)
}
