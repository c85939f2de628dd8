// Package events consumes signal-change events and turns them into queued
// trust recalculations.
//
// Collaborator services (reviews, verification, subscriptions, profiles)
// publish an event after committing any signal-mutating operation. The
// consumer only needs the subject reference: the recalculation re-reads all
// signals from scratch, so the event payload never carries score deltas and
// duplicate deliveries are harmless.
package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"vouch/internal/platform/config"
	"vouch/internal/trust/models"
	"vouch/internal/trust/worker"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
)

// Enqueuer is the slice of the worker pool the consumer needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, job worker.Job) error
}

// SignalEvent is the wire format of one signal-change notification.
type SignalEvent struct {
	SubjectKind string `json:"subject_kind"`
	SubjectID   string `json:"subject_id"`
	Event       string `json:"event"`
}

// Consumer polls the signal-events topic and enqueues recalculation jobs.
type Consumer struct {
	client *kgo.Client
	pool   Enqueuer
	logger *slog.Logger
}

// New connects a consumer-group client to the configured brokers.
func New(cfg config.KafkaConfig, pool Enqueuer, logger *slog.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, dErrors.New(dErrors.CodeInternal, "kafka brokers are required")
	}
	if pool == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "enqueuer is required")
	}

	// Offsets are committed manually, after every record in a fetch has been
	// handed to the pool. Auto-commit would acknowledge records whose jobs
	// are still queued in memory, losing them on a crash; duplicate
	// deliveries cost only a redundant full recompute.
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumerGroup(cfg.Group),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create kafka client")
	}

	return &Consumer{client: client, pool: pool, logger: logger}, nil
}

// Run polls until the context is cancelled. Malformed records are logged and
// skipped; enqueue backpressure blocks the poll loop rather than dropping
// events. Delivery is at-least-once: a fetch's offsets are committed only
// once all of its records are enqueued, so anything in flight during a crash
// is redelivered.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.client.Close()

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.ErrorContext(ctx, "kafka fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		fetches.EachRecord(func(record *kgo.Record) {
			if err := c.handle(ctx, record.Value); err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.WarnContext(ctx, "skipping unusable signal event",
					"topic", record.Topic,
					"partition", record.Partition,
					"offset", record.Offset,
					"error", err,
				)
			}
		})

		// A cancelled enqueue above means some records were never handed
		// off; leave the fetch uncommitted so they are redelivered.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			c.logger.ErrorContext(ctx, "offset commit failed", "error", err)
		}
	}
}

// handle decodes one event payload and enqueues the matching job.
func (c *Consumer) handle(ctx context.Context, payload []byte) error {
	var event SignalEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed signal event")
	}

	switch models.SubjectKind(event.SubjectKind) {
	case models.SubjectUser:
		userID, err := id.ParseUserID(event.SubjectID)
		if err != nil {
			return err
		}
		return c.pool.Enqueue(ctx, worker.Job{Kind: models.SubjectUser, UserID: userID})
	case models.SubjectBusiness:
		businessID, err := id.ParseBusinessID(event.SubjectID)
		if err != nil {
			return err
		}
		return c.pool.Enqueue(ctx, worker.Job{Kind: models.SubjectBusiness, BusinessID: businessID})
	default:
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown subject kind %q", event.SubjectKind)
	}
}
