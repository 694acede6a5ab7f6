package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micropass/micropass-go/internal/logger"
)

type countingSyncService struct {
	calls atomic.Int64
	err   error
}

func (c *countingSyncService) Reconcile(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func waitForCalls(t *testing.T, c *countingSyncService, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.calls.Load() >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("reconcile called %d times, want at least %d", c.calls.Load(), want)
}

func TestSyncJob_ReconcilesOnTicker(t *testing.T) {
	svc := &countingSyncService{}
	job := NewSyncJob(svc, logger.Nop())

	job.Start(context.Background(), 5*time.Millisecond)
	waitForCalls(t, svc, 2)
	job.Stop()

	after := svc.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, svc.calls.Load(), "no reconciles after Stop")
}

func TestSyncJob_StopWithoutStart(t *testing.T) {
	job := NewSyncJob(&countingSyncService{}, logger.Nop())
	job.Stop()
	job.Stop()
}

func TestSyncJob_ConcurrentStartsLeaveOneJob(t *testing.T) {
	svc := &countingSyncService{}
	job := NewSyncJob(svc, logger.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job.Start(context.Background(), 5*time.Millisecond)
		}()
	}
	wg.Wait()

	waitForCalls(t, svc, 1)
	job.Stop()

	// Every ticker from every racing Start is gone after one Stop.
	after := svc.calls.Load()
	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, after, svc.calls.Load(), "no reconciles after Stop")
}

func TestSyncJob_RestartReplacesRunningJob(t *testing.T) {
	svc := &countingSyncService{}
	job := NewSyncJob(svc, logger.Nop())

	job.Start(context.Background(), 5*time.Millisecond)
	job.Start(context.Background(), 5*time.Millisecond)
	waitForCalls(t, svc, 1)
	job.Stop()
}

func TestSyncJob_StopsOnContextCancel(t *testing.T) {
	svc := &countingSyncService{}
	job := NewSyncJob(svc, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx, 5*time.Millisecond)
	waitForCalls(t, svc, 1)
	cancel()

	time.Sleep(20 * time.Millisecond)
	after := svc.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, svc.calls.Load(), "no reconciles after cancel")

	// Stop still cleans up the goroutine handle.
	job.Stop()
}

func TestSyncJob_KeepsRunningAfterFailure(t *testing.T) {
	svc := &countingSyncService{err: assert.AnError}
	job := NewSyncJob(svc, logger.Nop())

	job.Start(context.Background(), 5*time.Millisecond)
	waitForCalls(t, svc, 3)
	job.Stop()

	require.GreaterOrEqual(t, svc.calls.Load(), int64(3))
}
