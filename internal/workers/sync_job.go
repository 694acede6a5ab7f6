// Package workers provides the background sync worker that keeps the
// local cipher cache converging on the server state.
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/micropass/micropass-go/internal/logger"
	"github.com/micropass/micropass-go/internal/service"
)

// defaultSyncInterval is used when Start is given a non-positive interval.
const defaultSyncInterval = 5 * time.Minute

// SyncJob periodically reconciles the local cache against the server.
type SyncJob interface {
	// Start launches the background goroutine. It reconciles every
	// interval until ctx is cancelled or Stop is called. Any previously
	// running job is stopped first.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the goroutine to exit and blocks until it has fully
	// terminated. Safe to call when the job is not running.
	Stop()
}

type syncJob struct {
	syncService service.SyncService
	log         *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a SyncJob that calls syncService.Reconcile on a
// ticker. The job is idle until Start is called.
func NewSyncJob(syncService service.SyncService, log *logger.Logger) SyncJob {
	return &syncJob{syncService: syncService, log: log}
}

// Start implements [SyncJob]. The lock is held across the stop of the
// previous job and the launch of the new one, so two racing Start calls
// cannot both leave a ticker goroutine behind.
func (j *syncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSyncInterval
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.stopLocked()

	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if err := j.syncService.Reconcile(jobCtx); err != nil {
					j.log.Warn().Err(err).Msg("background reconcile failed")
				}
			}
		}
	}()
}

// Stop implements [SyncJob].
func (j *syncJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.stopLocked()
}

// stopLocked cancels the running goroutine, if any, and waits for it to
// exit. Callers must hold j.mu; the goroutine never takes the lock, so
// waiting under it cannot deadlock.
func (j *syncJob) stopLocked() {
	if j.cancel == nil {
		return
	}
	j.cancel()
	j.cancel = nil
	j.wg.Wait()
}
