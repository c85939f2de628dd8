package events

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vouch/internal/platform/config"
	"vouch/internal/trust/models"
	"vouch/internal/trust/worker"
	id "vouch/pkg/domain"
	dErrors "vouch/pkg/domain-errors"
)

type captureEnqueuer struct {
	jobs []worker.Job
}

func (c *captureEnqueuer) Enqueue(_ context.Context, job worker.Job) error {
	c.jobs = append(c.jobs, job)
	return nil
}

func newTestConsumer(pool Enqueuer) *Consumer {
	return &Consumer{pool: pool, logger: slog.Default()}
}

func TestHandleSignalEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("user event enqueues a user job", func(t *testing.T) {
		pool := &captureEnqueuer{}
		c := newTestConsumer(pool)
		userID := id.NewUserID()

		payload := []byte(`{"subject_kind":"user","subject_id":"` + userID.String() + `","event":"review.created"}`)
		require.NoError(t, c.handle(ctx, payload))

		require.Len(t, pool.jobs, 1)
		assert.Equal(t, models.SubjectUser, pool.jobs[0].Kind)
		assert.Equal(t, userID, pool.jobs[0].UserID)
	})

	t.Run("business event enqueues a business job", func(t *testing.T) {
		pool := &captureEnqueuer{}
		c := newTestConsumer(pool)
		businessID := id.NewBusinessID()

		payload := []byte(`{"subject_kind":"business","subject_id":"` + businessID.String() + `","event":"document.approved"}`)
		require.NoError(t, c.handle(ctx, payload))

		require.Len(t, pool.jobs, 1)
		assert.Equal(t, models.SubjectBusiness, pool.jobs[0].Kind)
		assert.Equal(t, businessID, pool.jobs[0].BusinessID)
	})

	t.Run("malformed JSON is rejected", func(t *testing.T) {
		pool := &captureEnqueuer{}
		c := newTestConsumer(pool)

		err := c.handle(ctx, []byte(`{not json`))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		assert.Empty(t, pool.jobs)
	})

	t.Run("unknown subject kind is rejected", func(t *testing.T) {
		pool := &captureEnqueuer{}
		c := newTestConsumer(pool)

		err := c.handle(ctx, []byte(`{"subject_kind":"listing","subject_id":"x","event":"created"}`))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		assert.Empty(t, pool.jobs)
	})

	t.Run("invalid subject id is rejected", func(t *testing.T) {
		pool := &captureEnqueuer{}
		c := newTestConsumer(pool)

		err := c.handle(ctx, []byte(`{"subject_kind":"user","subject_id":"not-a-uuid","event":"review.created"}`))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		assert.Empty(t, pool.jobs)
	})
}

func TestNewValidation(t *testing.T) {
	_, err := New(config.KafkaConfig{}, &captureEnqueuer{}, slog.Default())
	assert.Error(t, err, "missing brokers must be rejected")

	_, err = New(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "t", Group: "g"}, nil, slog.Default())
	assert.Error(t, err, "missing enqueuer must be rejected")
}
