package lock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/liberhite/Aplikasipengajuan/internal/lock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAcquire_Release verifies a released lock can be taken again.
func TestAcquire_Release(t *testing.T) {
	reg := lock.NewRegistry(time.Second)

	release, err := reg.Acquire(context.Background(), lock.KeySubmit)
	require.NoError(t, err)
	release()

	release, err = reg.Acquire(context.Background(), lock.KeySubmit)
	require.NoError(t, err)
	release()
}

// TestAcquire_Timeout verifies a held lock times out instead of blocking
// forever.
func TestAcquire_Timeout(t *testing.T) {
	reg := lock.NewRegistry(50 * time.Millisecond)

	release, err := reg.Acquire(context.Background(), lock.KeySubmit)
	require.NoError(t, err)
	defer release()

	_, err = reg.Acquire(context.Background(), lock.KeySubmit)
	assert.ErrorIs(t, err, lock.ErrTimeout)
}

// TestAcquire_ContextCancel verifies cancellation surfaces as a timeout.
func TestAcquire_ContextCancel(t *testing.T) {
	reg := lock.NewRegistry(time.Minute)

	release, err := reg.Acquire(context.Background(), lock.KeySubmit)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = reg.Acquire(ctx, lock.KeySubmit)
	assert.ErrorIs(t, err, lock.ErrTimeout)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestAcquire_IndependentKeys verifies different keys do not contend.
func TestAcquire_IndependentKeys(t *testing.T) {
	reg := lock.NewRegistry(50 * time.Millisecond)

	release, err := reg.Acquire(context.Background(), lock.CaseKey("PR-001/2025"))
	require.NoError(t, err)
	defer release()

	release2, err := reg.Acquire(context.Background(), lock.CaseKey("PR-002/2025"))
	require.NoError(t, err)
	release2()
}

// TestAcquire_MutualExclusion verifies only one holder mutates the shared
// counter at a time.
func TestAcquire_MutualExclusion(t *testing.T) {
	reg := lock.NewRegistry(5 * time.Second)

	const workers = 32
	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			release, err := reg.Acquire(context.Background(), lock.KeySubmit)
			if err != nil {
				return
			}
			defer release()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

// TestRelease_Idempotent verifies calling release twice does not free the
// lock for a third holder prematurely.
func TestRelease_Idempotent(t *testing.T) {
	reg := lock.NewRegistry(50 * time.Millisecond)

	release, err := reg.Acquire(context.Background(), lock.KeySubmit)
	require.NoError(t, err)
	release()
	release()

	r1, err := reg.Acquire(context.Background(), lock.KeySubmit)
	require.NoError(t, err)
	defer r1()

	_, err = reg.Acquire(context.Background(), lock.KeySubmit)
	assert.ErrorIs(t, err, lock.ErrTimeout)
}
