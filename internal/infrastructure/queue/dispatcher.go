// Package queue persists system log entries off the request path.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
	"github.com/jobpilot/jobpilot-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 2
	defaultBuffer  = 256
	writeTimeout   = 5 * time.Second
)

var _ ports.EventRecorder = (*Dispatcher)(nil)

// Dispatcher hands log entries to a fixed set of workers that write them to
// the log repository. Enqueueing never blocks: when the buffer is full the
// entry is dropped and counted.
type Dispatcher struct {
	entries chan domain.LogEntry
	repo    ports.LogRepository
	workers int
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. Non-positive sizes fall back to the
// defaults.
func NewDispatcher(workers, buffer int, repo ports.LogRepository, log zerolog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Dispatcher{
		entries: make(chan domain.LogEntry, buffer),
		repo:    repo,
		workers: workers,
		log:     log,
	}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.runWorker(i)
	}
}

// Record enqueues entry for persistence.
func (d *Dispatcher) Record(entry domain.LogEntry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(entry, "dispatcher closed")
		return
	}

	select {
	case d.entries <- entry:
		metrics.SystemLogQueueDepth.Set(float64(len(d.entries)))
	default:
		d.drop(entry, "queue full")
	}
}

// Close stops accepting entries and waits until the queue is drained or ctx
// expires.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.entries)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) drop(entry domain.LogEntry, reason string) {
	metrics.SystemLogDroppedTotal.Inc()
	d.log.Warn().
		Str("source", entry.Source).
		Str("message", entry.Message).
		Str("reason", reason).
		Msg("system log entry dropped")
}

func (d *Dispatcher) runWorker(id int) {
	defer d.wg.Done()
	for entry := range d.entries {
		metrics.SystemLogQueueDepth.Set(float64(len(d.entries)))
		d.write(id, entry)
	}
}

func (d *Dispatcher) write(id int, entry domain.LogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := d.repo.Insert(ctx, &entry); err != nil {
		metrics.SystemLogWriteErrorsTotal.Inc()
		d.log.Error().Err(err).
			Str("source", entry.Source).
			Int("worker_id", id).
			Msg("system log write failed")
	}
}
