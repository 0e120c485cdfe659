// Package audit records authentication attempts. Writes happen off the
// request path on a small internal work queue: the decision to issue or
// deny a credential is always made before any record is enqueued, so a
// sink failure can never change an authentication outcome.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/messaging"
	"github.com/spec-kit/identity-service/internal/observability"
	"github.com/spec-kit/identity-service/internal/repository"
)

// Recorder accepts attempt records for durable, best-effort storage.
type Recorder interface {
	Record(attempt domain.AttemptRecord)
}

// Sink is one destination for attempt records.
type Sink interface {
	Name() string
	Write(ctx context.Context, attempt domain.AttemptRecord) error
}

// RepositorySink writes records to the relational audit log behind a
// circuit breaker.
type RepositorySink struct {
	repo repository.AttemptRepository
	cb   *gobreaker.CircuitBreaker
}

// NewRepositorySink builds the primary audit sink.
func NewRepositorySink(repo repository.AttemptRepository, logger *zap.Logger) *RepositorySink {
	return &RepositorySink{
		repo: repo,
		cb:   config.NewCircuitBreaker("audit-postgres", logger),
	}
}

func (s *RepositorySink) Name() string { return "postgres" }

func (s *RepositorySink) Write(ctx context.Context, attempt domain.AttemptRecord) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.repo.Create(ctx, &attempt)
	})
	return err
}

// PublisherSink forwards records to the AMQP queue.
type PublisherSink struct {
	publisher messaging.AttemptPublisher
}

// NewPublisherSink builds a sink over an attempt publisher.
func NewPublisherSink(publisher messaging.AttemptPublisher) *PublisherSink {
	return &PublisherSink{publisher: publisher}
}

func (s *PublisherSink) Name() string { return "amqp" }

func (s *PublisherSink) Write(ctx context.Context, attempt domain.AttemptRecord) error {
	return s.publisher.PublishAttempt(ctx, attempt)
}

// AsyncRecorder drains a buffered queue into its sinks with a pool of
// workers. When the queue is full the record is dropped and counted
// rather than blocking the caller.
type AsyncRecorder struct {
	queue        chan domain.AttemptRecord
	done         chan struct{}
	sinks        []Sink
	writeTimeout time.Duration
	logger       *zap.Logger
	metrics      *observability.Metrics

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewAsyncRecorder builds and starts the recorder workers.
func NewAsyncRecorder(cfg config.AuditConfig, sinks []Sink, logger *zap.Logger, metrics *observability.Metrics) *AsyncRecorder {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 2
	}

	r := &AsyncRecorder{
		queue:        make(chan domain.AttemptRecord, queueSize),
		done:         make(chan struct{}),
		sinks:        sinks,
		writeTimeout: cfg.WriteTimeout(),
		logger:       logger,
		metrics:      metrics,
	}

	r.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go r.worker()
	}
	return r
}

// Record enqueues the attempt without blocking. A full queue drops the
// record; the drop is logged and counted so operators can see it.
// After Close every record is dropped the same way.
func (r *AsyncRecorder) Record(attempt domain.AttemptRecord) {
	select {
	case <-r.done:
		r.drop(attempt)
		return
	default:
	}

	select {
	case r.queue <- attempt:
		r.metrics.SetAuditQueueDepth(len(r.queue))
	default:
		r.drop(attempt)
	}
}

func (r *AsyncRecorder) drop(attempt domain.AttemptRecord) {
	r.metrics.IncAuditDropped()
	r.logger.Error("audit record dropped",
		zap.String("user_id", attempt.UserID),
		zap.Bool("success", attempt.Success),
	)
}

func (r *AsyncRecorder) worker() {
	defer r.wg.Done()
	for {
		select {
		case attempt := <-r.queue:
			r.write(attempt)
		case <-r.done:
			// Drain whatever is already queued, then stop.
			for {
				select {
				case attempt := <-r.queue:
					r.write(attempt)
				default:
					return
				}
			}
		}
	}
}

func (r *AsyncRecorder) write(attempt domain.AttemptRecord) {
	r.metrics.SetAuditQueueDepth(len(r.queue))
	for _, sink := range r.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
		if err := sink.Write(ctx, attempt); err != nil {
			r.logger.Error("audit sink write failed",
				zap.String("sink", sink.Name()),
				zap.String("user_id", attempt.UserID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Close drains outstanding records and stops the workers. The queue
// channel itself is never closed, so a straggling Record during
// shutdown degrades to a counted drop instead of a panic.
func (r *AsyncRecorder) Close() {
	r.stopOnce.Do(func() {
		close(r.done)
	})
	r.wg.Wait()
}
