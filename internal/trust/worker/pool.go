// Package worker runs asynchronous trust recalculations on a bounded pool.
//
// Synchronous callers hit the service directly; everything event-driven (the
// kafka consumer, fire-and-forget collaborators) goes through the pool so a
// burst of signal events cannot fan out into unbounded goroutines. A failed
// job is retried once and then logged with its error; it is never dropped
// silently.
package worker

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"vouch/internal/trust/metrics"
	"vouch/internal/trust/models"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
)

// Recalculator is the slice of the trust service the pool needs.
type Recalculator interface {
	RecalculateTrustRating(ctx context.Context, userID id.UserID) (*models.TrustRating, error)
	RecalculateBusinessTrustRating(ctx context.Context, businessID id.BusinessID) (*models.BusinessTrustRating, error)
}

// Job is one queued recalculation request.
type Job struct {
	Kind       models.SubjectKind
	UserID     id.UserID
	BusinessID id.BusinessID
}

// Pool is a fixed-size worker pool over a bounded queue.
type Pool struct {
	service Recalculator
	jobs    chan Job
	workers int
	backoff time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Pool)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) { p.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pool) { p.metrics = m }
}

// WithRetryBackoff sets the delay before a job's single retry.
func WithRetryBackoff(d time.Duration) Option {
	return func(p *Pool) { p.backoff = d }
}

func New(service Recalculator, workers, queueSize int, opts ...Option) (*Pool, error) {
	if service == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "recalculator is required")
	}
	if workers < 1 {
		return nil, dErrors.New(dErrors.CodeInternal, "worker count must be at least 1")
	}
	if queueSize < 1 {
		return nil, dErrors.New(dErrors.CodeInternal, "queue size must be at least 1")
	}

	p := &Pool{
		service: service,
		jobs:    make(chan Job, queueSize),
		workers: workers,
		backoff: time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Enqueue queues a recalculation job. It blocks when the queue is full so
// producers feel backpressure instead of losing jobs; it returns the context
// error when the caller gives up first.
func (p *Pool) Enqueue(ctx context.Context, job Job) error {
	select {
	case p.jobs <- job:
		p.observeQueueSize()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes jobs until the context is cancelled. It always returns the
// context's error; job failures are retried and logged, never fatal to the
// pool. Jobs still queued at shutdown are reported with their count so a
// lost recalculation is never invisible; the event consumer only commits
// offsets for enqueued jobs, so redelivery covers them after a restart.
func (p *Pool) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			for {
				// Checked before the select so a worker never drains
				// another job once shutdown has begun.
				if err := ctx.Err(); err != nil {
					return err
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case job := <-p.jobs:
					p.observeQueueSize()
					p.process(ctx, job)
				}
			}
		})
	}
	err := g.Wait()
	if pending := len(p.jobs); pending > 0 {
		p.logger.Warn("shutting down with unprocessed recalculation jobs",
			"pending_jobs", pending,
		)
	}
	return err
}

func (p *Pool) process(ctx context.Context, job Job) {
	err := p.recalculate(ctx, job)
	if err == nil {
		return
	}
	if ctx.Err() != nil {
		return
	}
	// Contract violations and unknown subjects will not heal on retry.
	if dErrors.HasCode(err, dErrors.CodeNotFound) || dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		p.logFailure(ctx, job, err, false)
		return
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(p.backoff):
	}

	if err := p.recalculate(ctx, job); err != nil && ctx.Err() == nil {
		p.logFailure(ctx, job, err, true)
	}
}

func (p *Pool) recalculate(ctx context.Context, job Job) error {
	switch job.Kind {
	case models.SubjectBusiness:
		_, err := p.service.RecalculateBusinessTrustRating(ctx, job.BusinessID)
		return err
	default:
		_, err := p.service.RecalculateTrustRating(ctx, job.UserID)
		return err
	}
}

func (p *Pool) logFailure(ctx context.Context, job Job, err error, retried bool) {
	p.logger.ErrorContext(ctx, "async trust recalculation failed",
		"subject_kind", string(job.Kind),
		"user_id", job.UserID.String(),
		"business_id", job.BusinessID.String(),
		"retried", retried,
		"error", err,
	)
}

func (p *Pool) observeQueueSize() {
	if p.metrics != nil {
		p.metrics.SetQueueSize(len(p.jobs))
	}
}
