package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ravisuresh229/bidbook/internal/entity"
	"github.com/ravisuresh229/bidbook/internal/pipeline"
)

// Job is one document waiting for a worker.
type Job struct {
	Doc         pipeline.Document
	SubmittedAt time.Time
	TraceID     string
}

// Result pairs a finished job with its record.
type Result struct {
	Job    Job
	Record entity.Record
}

type Queue interface {
	Enqueue(ctx context.Context, doc pipeline.Document) error
	Shutdown(ctx context.Context)
}

// DocumentProcessor is satisfied by *pipeline.Processor.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, doc pipeline.Document) entity.Record
}

// ProcessorQueue runs documents through a fixed pool of workers and hands
// each record to the sink. The sink is called from worker goroutines.
type ProcessorQueue struct {
	proc    DocumentProcessor
	sink    func(Result)
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewProcessorQueue(proc DocumentProcessor, sink func(Result), logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		sink:    sink,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					rec := q.proc.ProcessDocument(ctx, job.Doc)
					cancel()

					if rec.Error != "" {
						q.logger.Error("processing failed", "worker_id", workerID, "file", job.Doc.Name, "trace_id", job.TraceID, "error", rec.Error)
					} else {
						q.logger.Info("processed file", "worker_id", workerID, "file", job.Doc.Name, "trace_id", job.TraceID,
							"waited_ms", time.Since(job.SubmittedAt).Milliseconds())
					}
					if q.sink != nil {
						q.sink(Result{Job: job, Record: rec})
					}
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Enqueue blocks while the queue is full, until ctx is done.
// Documents enqueued after Shutdown are dropped with a warning.
func (q *ProcessorQueue) Enqueue(ctx context.Context, doc pipeline.Document) error {
	job := Job{Doc: doc, SubmittedAt: time.Now(), TraceID: uuid.NewString()}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "file", doc.Name)
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queued file for processing", "file", doc.Name, "trace_id", job.TraceID)
		return nil
	default:
	}
	q.logger.Warn("queue full, applying backpressure", "file", doc.Name)
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops intake and waits for queued documents to finish, or for ctx.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
