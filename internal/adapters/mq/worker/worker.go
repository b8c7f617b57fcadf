// Package worker drains the inspection queue, classifies each item and
// stores the resulting report.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/modtier/internal/domain/inspect"
	"github.com/okian/modtier/internal/domain/model"
	"github.com/okian/modtier/pkg/logger"
	"github.com/okian/modtier/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Inspector classifies every modifier on an item.
type Inspector interface {
	Inspect(ctx context.Context, item inspect.Item) (inspect.Report, error)
}

// Saver persists a finished report.
type Saver interface {
	Save(ctx context.Context, id string, rep inspect.Report) error
}

// Queue defines how workers receive inspections.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Inspection
}

// Worker processes inspections until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker and waits for the in-flight inspection.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	inspector Inspector
	saver     Saver
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, inspector Inspector, saver Saver, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		inspector: inspector,
		saver:     saver,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	items := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case in, ok := <-items:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			if err := w.process(ctx, in); err != nil {
				w.logger.Error(ctx, "error processing inspection", logger.Error(err))
			}
		}
	}
}

// Shutdown implements Worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, in model.Inspection) error { //nolint:gocritic // hugeParam: passed by value for channel semantics
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	rep, err := w.inspector.Inspect(ctx, in.Item)
	if err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("inspect %s: %w", in.ID, err)
	}
	if err := w.saver.Save(ctx, in.ID, rep); err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("save report %s: %w", in.ID, err)
	}

	metrics.RecordInspectionProcessed()
	w.logger.Debug(ctx, "inspection processed",
		logger.String("inspectionID", in.ID),
		logger.Int("mods", len(rep.Mods)),
		logger.Int("bestRolls", rep.Summary.BestRolls),
	)
	return nil
}

// Pool manages multiple workers reading the same queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a worker pool. A non-positive count uses runtime.NumCPU().
func NewPool(workerCount int, q Queue, inspector Inspector, saver Saver) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(q, inspector, saver, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue when it supports closing, then waits for every
// worker to drain and exit.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
		}
	}
	metrics.UpdateWorkerCount(0)
	return nil
}
